package engine

import "fmt"

// Control keys the engine reacts to. Layouts bind them to cells.
const (
	KeyTap          = "tap"
	KeySpeed        = "speed"
	KeyPresetSelect = "preset_select"
)

func PresetKey(i int) string       { return fmt.Sprintf("preset%d", i) }
func PatternKey(i int) string      { return fmt.Sprintf("pattern%d", i) }
func LooperRecordKey(i int) string { return fmt.Sprintf("looper%d_record", i) }
func LooperClearKey(i int) string  { return fmt.Sprintf("looper%d_clear", i) }

// speedSteps maps the speed multistate control to clock multipliers.
var speedSteps = []float64{1, 2, 4, 0.5, 0.25}
