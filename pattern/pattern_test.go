package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidates(t *testing.T) {
	tests := []struct {
		name    string
		pname   string
		events  []Event
		wantErr error
	}{
		{"ok", "p", []Event{{Beat: 7.99, Preset: 1}}, nil},
		{"empty events", "p", nil, nil},
		{"beat 8", "p", []Event{{Beat: 8, Preset: 1}}, ErrBeatOutOfRange},
		{"negative beat", "p", []Event{{Beat: -0.5, Preset: 1}}, ErrBeatOutOfRange},
		{"negative preset", "p", []Event{{Beat: 1, Preset: -1}}, ErrInvalidPattern},
		{"no name", "", nil, ErrInvalidPattern},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.pname, tt.events)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPatternIsImmutable(t *testing.T) {
	src := []Event{{Beat: 4, Preset: 2}, {Beat: 1, Preset: 1}}
	p := MustNew("p", src)
	src[0].Preset = 99

	evs := p.Events()
	assert.Equal(t, []Event{{Beat: 1, Preset: 1}, {Beat: 4, Preset: 2}}, evs)
	evs[0].Preset = 42
	assert.Equal(t, 1, p.Events()[0].Preset)
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() { MustNew("bad", []Event{{Beat: 9}}) })
}

func TestLibrary(t *testing.T) {
	p, err := Lookup("four-on-the-floor")
	require.NoError(t, err)
	assert.Equal(t, 4, p.Len())

	_, err = Lookup("polka")
	assert.ErrorIs(t, err, ErrUnknownPattern)

	names := Names()
	assert.Len(t, names, len(Builtins()))
	seen := map[string]bool{}
	for _, n := range names {
		assert.False(t, seen[n], "duplicate pattern %q", n)
		seen[n] = true
	}
}
