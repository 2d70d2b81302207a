package midi

import (
	"fmt"

	"go-beatgrid/surface"
	"go-beatgrid/theme"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// APC mini mk2 note map
const (
	GridNoteFirst = 0
	GridNoteLast  = 63

	FaderButtonFirst  = 100 // track buttons under faders 0-7
	FaderButtonLast   = 107
	FaderButtonMaster = 122 // shift, used as the master fader button

	PageButtonFirst = 112 // scene launch buttons along the right edge
	PageButtonLast  = 119

	FaderCCFirst = 48
	FaderCCLast  = 56
)

// LED output channels. Grid pads take the colour code at full brightness
// on channel 7 (status 0x96), single colour buttons listen on channel 1.
const (
	gridLEDChannel   uint8 = 6
	buttonLEDChannel uint8 = 0
)

// InputKind tags an Input.
type InputKind int

const (
	InputPad InputKind = iota
	InputFader
	InputFaderButton
	InputPage
)

// Input is one decoded event from the controller.
type Input struct {
	Kind    InputKind
	Row     int     // pad, 0 is the top row
	Col     int     // pad
	Pressed bool    // pad, fader button
	Index   int     // fader, fader button, page
	Value   float64 // fader, 0..1
}

func (in Input) String() string {
	switch in.Kind {
	case InputPad:
		return fmt.Sprintf("pad %d,%d pressed=%v", in.Row, in.Col, in.Pressed)
	case InputFader:
		return fmt.Sprintf("fader %d %.3f", in.Index, in.Value)
	case InputFaderButton:
		return fmt.Sprintf("fader button %d pressed=%v", in.Index, in.Pressed)
	case InputPage:
		return fmt.Sprintf("page %d pressed=%v", in.Index, in.Pressed)
	}
	return fmt.Sprintf("input kind %d", in.Kind)
}

// DecodeMessage maps a raw message to an Input. Messages outside the
// controller's map report false.
func DecodeMessage(msg gomidi.Message) (Input, bool) {
	var channel, key, velocity, cc, value uint8

	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		return decodeNote(key, velocity > 0)
	case msg.GetNoteOff(&channel, &key, &velocity):
		return decodeNote(key, false)
	case msg.GetControlChange(&channel, &cc, &value):
		if cc >= FaderCCFirst && cc <= FaderCCLast {
			return Input{Kind: InputFader, Index: int(cc - FaderCCFirst), Value: float64(value) / 127}, true
		}
	}
	return Input{}, false
}

func decodeNote(note uint8, pressed bool) (Input, bool) {
	switch {
	case note <= GridNoteLast:
		row, col := NoteToPad(note)
		return Input{Kind: InputPad, Row: row, Col: col, Pressed: pressed}, true
	case note >= FaderButtonFirst && note <= FaderButtonLast:
		return Input{Kind: InputFaderButton, Index: int(note - FaderButtonFirst), Pressed: pressed}, true
	case note == FaderButtonMaster:
		return Input{Kind: InputFaderButton, Index: surface.NumFaders - 1, Pressed: pressed}, true
	case note >= PageButtonFirst && note <= PageButtonLast:
		return Input{Kind: InputPage, Index: int(note - PageButtonFirst), Pressed: pressed}, true
	}
	return Input{}, false
}

// NoteToPad converts a grid note to row/col. Note 0 is the bottom left pad.
func NoteToPad(note uint8) (row, col int) {
	idx := int(note - GridNoteFirst)
	return surface.GridRows - 1 - idx/surface.GridCols, idx % surface.GridCols
}

func PadNote(row, col int) uint8 {
	return uint8(GridNoteFirst + (surface.GridRows-1-row)*surface.GridCols + col)
}

func FaderButtonNote(i int) uint8 {
	if i == surface.NumFaders-1 {
		return FaderButtonMaster
	}
	return uint8(FaderButtonFirst + i)
}

func PageNote(page int) uint8 {
	return uint8(PageButtonFirst + page)
}

// LEDUpdate sets one LED. Grid selects the pad channel.
type LEDUpdate struct {
	Note  uint8
	Grid  bool
	Color theme.LEDColor
}

func PadLED(row, col int, c theme.LEDColor) LEDUpdate {
	return LEDUpdate{Note: PadNote(row, col), Grid: true, Color: c}
}

func FaderButtonLED(i int, on bool) LEDUpdate {
	u := LEDUpdate{Note: FaderButtonNote(i)}
	if on {
		u.Color = theme.LEDDim // single colour buttons: 1 = on
	}
	return u
}

func PageLED(page int, c theme.LEDColor) LEDUpdate {
	return LEDUpdate{Note: PageNote(page), Color: c}
}

// Message encodes the update as a NoteOn.
func (u LEDUpdate) Message() gomidi.Message {
	ch := buttonLEDChannel
	if u.Grid {
		ch = gridLEDChannel
	}
	return gomidi.NoteOn(ch, u.Note, uint8(u.Color))
}

// AllOff returns updates that switch every LED on the controller off.
func AllOff() []LEDUpdate {
	var updates []LEDUpdate
	for row := 0; row < surface.GridRows; row++ {
		for col := 0; col < surface.GridCols; col++ {
			updates = append(updates, PadLED(row, col, theme.LEDOff))
		}
	}
	for i := 0; i < surface.NumFaders; i++ {
		updates = append(updates, FaderButtonLED(i, false))
	}
	for p := 0; p < surface.NumPages; p++ {
		updates = append(updates, PageLED(p, theme.LEDOff))
	}
	return updates
}
