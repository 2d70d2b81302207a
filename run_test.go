package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-beatgrid/config"
	"go-beatgrid/engine"
	"go-beatgrid/midi"
)

func TestRunHeadlessAdvancesClock(t *testing.T) {
	opts, err := config.DefaultConfig().EngineOptions()
	require.NoError(t, err)
	e, err := engine.New(opts)
	require.NoError(t, err)

	events := make(chan midi.DeviceEvent)
	close(events)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	runHeadless(ctx, e, events, 5*time.Millisecond)

	assert.Greater(t, e.Clock().Beat(), 0.0)
	assert.Empty(t, e.Attached())
}
