package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-beatgrid/engine"
	"go-beatgrid/looper"
	"go-beatgrid/midi"
	"go-beatgrid/store"
	"go-beatgrid/surface"
	"go-beatgrid/theme"
	"go-beatgrid/widgets"
)

const (
	frameInterval = time.Second / 60
	flashMs       = 150.0
)

// layoutBounds holds cached layout info
type layoutBounds struct {
	gridTop  int
	gridLeft int
}

type Model struct {
	Engine    *engine.Engine
	DeviceMgr *midi.DeviceManager
	Store     *store.Store
	Theme     *theme.Theme

	presetNames []string
	start       time.Time
	nowMs       float64
	last        engine.FrameResult
	flash       map[int]float64 // preset -> spawn time
	held        *[2]int         // pad held by the mouse
	status      string
	help        help.Model
	quitting    bool
	bounds      *layoutBounds
}

type frameMsg time.Time

type DeviceEventMsg midi.DeviceEvent

// NewModel wires the UI to a running engine. deviceMgr and st may be nil.
func NewModel(e *engine.Engine, deviceMgr *midi.DeviceManager, st *store.Store, th *theme.Theme, presetNames []string) Model {
	return Model{
		Engine:      e,
		DeviceMgr:   deviceMgr,
		Store:       st,
		Theme:       th,
		presetNames: presetNames,
		flash:       make(map[int]float64),
		help:        help.New(),
		bounds:      &layoutBounds{},
	}
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		t := time.Time(msg)
		if m.start.IsZero() {
			m.start = t
		}
		m.nowMs = float64(t.Sub(m.start)) / float64(time.Millisecond)
		m.last = m.Engine.Frame(m.nowMs)
		for _, p := range m.last.Spawned {
			m.flash[p] = m.nowMs
		}
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		switch event.Type {
		case midi.DeviceConnected:
			m.Engine.Attach(event.Controller)
			m.status = "connected " + event.ID
		case midi.DeviceDisconnected:
			m.Engine.Detach(event.ID)
			m.status = "disconnected " + event.ID
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	clk := m.Engine.Clock()

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.BPMUp):
		clk.SetBPM(m.targetBPM() + 1)

	case key.Matches(msg, keys.BPMDown):
		clk.SetBPM(m.targetBPM() - 1)

	case key.Matches(msg, keys.Tap):
		clk.TapTempo(m.nowMs)

	case key.Matches(msg, keys.PrevPage):
		m.Engine.HandleInput(midi.Input{Kind: midi.InputPage, Index: m.stepPage(-1), Pressed: true})

	case key.Matches(msg, keys.NextPage):
		m.Engine.HandleInput(midi.Input{Kind: midi.InputPage, Index: m.stepPage(1), Pressed: true})

	case key.Matches(msg, keys.Save):
		m.status = m.save()

	case key.Matches(msg, keys.Load):
		m.status = m.load()

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// targetBPM is the tempo the clock is heading to, so repeated presses
// within one beat accumulate.
func (m Model) targetBPM() float64 {
	if bpm, ok := m.Engine.Clock().PendingBPM(); ok {
		return bpm
	}
	return m.Engine.Clock().BPM()
}

// stepPage moves through the pages that carry controls, wrapping round.
func (m Model) stepPage(dir int) int {
	s := m.Engine.Surface()
	pages := s.UsedPages()
	if len(pages) == 0 {
		return s.Page()
	}
	cur := 0
	for i, p := range pages {
		if p == s.Page() {
			cur = i
		}
	}
	return pages[(cur+dir+len(pages))%len(pages)]
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		row, col, ok := widgets.PadAt(msg.X-m.bounds.gridLeft, msg.Y-m.bounds.gridTop)
		if !ok {
			return
		}
		m.held = &[2]int{row, col}
		m.Engine.HandleInput(midi.Input{Kind: midi.InputPad, Row: row, Col: col, Pressed: true})
	case tea.MouseActionRelease:
		if m.held == nil {
			return
		}
		m.Engine.HandleInput(midi.Input{Kind: midi.InputPad, Row: m.held[0], Col: m.held[1], Pressed: false})
		m.held = nil
	}
}

func (m Model) save() string {
	if m.Store == nil {
		return "no session store"
	}
	name, err := m.Store.Save(m.Engine.Snapshot(), "")
	if err != nil {
		return "save failed: " + err.Error()
	}
	return "saved " + name
}

func (m Model) load() string {
	if m.Store == nil {
		return "no session store"
	}
	sess, err := m.Store.Load("")
	if errors.Is(err, store.ErrNoSaves) {
		return "nothing to load"
	}
	if err != nil {
		return "load failed: " + err.Error()
	}
	if err := m.Engine.Restore(sess); err != nil {
		return "load failed: " + err.Error()
	}
	return "session loaded"
}

func (m Model) presetName(i int) string {
	if i >= 0 && i < len(m.presetNames) {
		return m.presetNames[i]
	}
	return fmt.Sprintf("preset%d", i)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.Engine.Surface()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	activeStyle := lipgloss.NewStyle().Foreground(m.Theme.Active())
	statusStyle := lipgloss.NewStyle().
		Foreground(m.Theme.FG()).
		Background(m.Theme.Muted()).
		Padding(0, 1)

	deviceStatus := ""
	if m.Engine.Attached() != "" {
		deviceStatus = "  APC:X"
	}
	bpm := fmt.Sprintf("%5.1fbpm", m.last.BPM)
	if pending, ok := m.Engine.Clock().PendingBPM(); ok {
		bpm += fmt.Sprintf(" -> %.1f", pending)
	}
	header := headerStyle.Render(fmt.Sprintf("go-beatgrid  %s  beat:%7.2f  page:%d%s",
		bpm, m.last.Beat, s.Page()+1, deviceStatus))

	var pages [surface.NumPages]theme.LEDColor
	for _, p := range s.UsedPages() {
		pages[p] = theme.LEDDim
	}
	pages[s.Page()] = theme.PageColors[s.Page()]
	grid := widgets.RenderPadGrid(s.Grid(), &pages)

	var toggled [surface.NumFaders]bool
	for i := range toggled {
		toggled[i] = s.Faders.Toggled(i)
	}
	faders := widgets.RenderFaders(m.last.Faders, toggled, m.Theme)

	var side []string
	for _, info := range m.Engine.Loopers() {
		side = append(side, m.looperLine(info, dimStyle, activeStyle))
	}
	side = append(side, "")
	if active := m.Engine.ActivePatterns(); len(active) > 0 {
		side = append(side, activeStyle.Render("patterns: "+strings.Join(active, ", ")))
	} else {
		side = append(side, dimStyle.Render("patterns: -"))
	}
	side = append(side, m.flashLine(dimStyle, activeStyle))

	// Compute layout bounds
	m.bounds.gridTop = 1 + lipgloss.Height(header) + 1
	m.bounds.gridLeft = 0

	body := lipgloss.JoinHorizontal(lipgloss.Top, grid, "    ", strings.Join(side, "\n"))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(body)
	out.WriteString("\n\n")
	out.WriteString(faders)
	out.WriteString("\n\n")
	out.WriteString(m.help.View(keys))

	if m.status != "" {
		out.WriteString("\n")
		out.WriteString(statusStyle.Render(m.status))
	}

	return out.String()
}

func (m Model) looperLine(info looper.Info, dim, active lipgloss.Style) string {
	label := fmt.Sprintf("loop %d ", info.Index+1)
	switch info.State {
	case looper.Recording:
		return active.Render(fmt.Sprintf("%s● rec  %d ev", label, info.Events))
	case looper.Playing:
		return active.Render(fmt.Sprintf("%s▶ %.1fs %d ev", label, info.DurationMs/1000, info.Events))
	default:
		return dim.Render(label + "-")
	}
}

// flashLine lists presets spawned within the last flashMs.
func (m Model) flashLine(dim, active lipgloss.Style) string {
	var names []string
	for p := 0; p < m.Engine.Presets(); p++ {
		if t, ok := m.flash[p]; ok && m.nowMs-t < flashMs {
			names = append(names, widgets.RenderPad(theme.CategoryColor(m.presetName(p)))+" "+m.presetName(p))
		}
	}
	if len(names) == 0 {
		return dim.Render("spawn: -")
	}
	return active.Render("spawn: ") + strings.Join(names, " ")
}
