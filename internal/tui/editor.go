package tui

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"clipreel/internal/editor"
	"clipreel/internal/playback"
	"clipreel/internal/timeline"
)

const defaultWidth = 80

// EditorOptions configures the interactive editor. Clock must be the surface
// the controller was built with. Initial commands run at startup, e.g. the
// thumbnail jobs of clips placed before the editor opened.
type EditorOptions struct {
	Controller   *editor.Controller
	Clock        *playback.Clock
	Media        []string
	Initial      []tea.Cmd
	TickInterval time.Duration
	SeekStep     float64
	TrimStep     float64
	Title        string
}

// EditorModel is the bubbletea model for the timeline editor. It forwards
// keys to the controller, ticks the virtual playback clock, and routes
// background results back into the controller.
type EditorModel struct {
	ctrl     *editor.Controller
	clock    *playback.Clock
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	media    []string
	initial  []tea.Cmd
	interval time.Duration
	lastTick time.Time
	seekStep float64
	trimStep float64
	title    string
	width    int
	quitting bool
}

// NewEditorModel builds the editor model.
func NewEditorModel(opts EditorOptions) EditorModel {
	interval := opts.TickInterval
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	seek := opts.SeekStep
	if seek <= 0 {
		seek = 1
	}
	trim := opts.TrimStep
	if trim <= 0 {
		trim = 0.25
	}
	title := opts.Title
	if title == "" {
		title = "clipreel"
	}
	return EditorModel{
		ctrl:     opts.Controller,
		clock:    opts.Clock,
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(StatusStyle("loading"))),
		media:    opts.Media,
		initial:  opts.Initial,
		interval: interval,
		seekStep: seek,
		trimStep: trim,
		title:    title,
		width:    defaultWidth,
	}
}

func (m EditorModel) scheduleTick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init satisfies the tea.Model interface. Media is probed in order so clips
// land on the timeline in the order given.
func (m EditorModel) Init() tea.Cmd {
	probes := make([]tea.Cmd, 0, len(m.media))
	for _, path := range m.media {
		probes = append(probes, m.ctrl.AddMedia(path))
	}
	cmds := append([]tea.Cmd{m.scheduleTick(), m.spinner.Tick, tea.Sequence(probes...)}, m.initial...)
	return tea.Batch(cmds...)
}

// Update satisfies the tea.Model interface.
func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		elapsed := m.interval
		if !m.lastTick.IsZero() {
			elapsed = now.Sub(m.lastTick)
		}
		m.lastTick = now
		if m.clock != nil {
			for _, ev := range m.clock.Advance(elapsed) {
				m.ctrl.HandleSurfaceEvent(ev)
			}
		}
		return m, m.scheduleTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case editor.MediaProbedMsg, editor.ThumbnailsDoneMsg:
		return m, m.ctrl.Update(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m EditorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.ctrl.ClearErr()
	state := m.ctrl.State()
	pos := state.Playback

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.PlayPause):
		m.ctrl.TogglePlay()
	case key.Matches(msg, m.keys.SeekBack):
		m.ctrl.Seek(math.Max(0, pos.CurrentTime-m.seekStep))
	case key.Matches(msg, m.keys.SeekFwd):
		m.ctrl.Seek(math.Min(state.TotalDuration, pos.CurrentTime+m.seekStep))
	case key.Matches(msg, m.keys.ScrubBack):
		m.ctrl.Scrub(math.Max(0, pos.DisplayTime()-m.seekStep))
	case key.Matches(msg, m.keys.ScrubFwd):
		m.ctrl.Scrub(pos.DisplayTime() + m.seekStep)
	case key.Matches(msg, m.keys.Commit):
		if pos.Scrubbing() {
			m.ctrl.Seek(pos.DisplayTime())
		}
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.ScrubEnd()
	case key.Matches(msg, m.keys.Start):
		m.ctrl.Seek(0)
	case key.Matches(msg, m.keys.End):
		m.ctrl.Seek(state.TotalDuration)
	case key.Matches(msg, m.keys.Next):
		m.ctrl.SelectNext()
	case key.Matches(msg, m.keys.Prev):
		m.ctrl.SelectPrev()
	case key.Matches(msg, m.keys.Split):
		cmd, _ := m.ctrl.SplitAtPlayhead()
		return m, cmd
	}

	id := targetClip(state)
	if id == "" {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Delete):
		m.ctrl.Delete(id)
	case key.Matches(msg, m.keys.Earlier):
		m.ctrl.Nudge(id, -1)
	case key.Matches(msg, m.keys.Later):
		m.ctrl.Nudge(id, 1)
	case key.Matches(msg, m.keys.ToPlayhead):
		m.ctrl.Move(id, pos.CurrentTime)
	case key.Matches(msg, m.keys.TrimInLess):
		m.ctrl.TrimBy(id, -m.trimStep, 0)
	case key.Matches(msg, m.keys.TrimInMore):
		m.ctrl.TrimBy(id, m.trimStep, 0)
	case key.Matches(msg, m.keys.TrimOutLess):
		m.ctrl.TrimBy(id, 0, -m.trimStep)
	case key.Matches(msg, m.keys.TrimOutMore):
		m.ctrl.TrimBy(id, 0, m.trimStep)
	}
	return m, nil
}

// targetClip is the clip clip-level keys act on: the selection, or the clip
// under the playhead when nothing is selected.
func targetClip(s editor.State) string {
	if s.SelectedClipID != "" {
		return s.SelectedClipID
	}
	if c, ok := s.ActiveClip(); ok {
		return c.ID
	}
	return ""
}

// View satisfies the tea.Model interface.
func (m EditorModel) View() string {
	if m.quitting {
		return ""
	}
	s := m.ctrl.State()
	var b strings.Builder

	status := "paused"
	if s.Playback.IsPlaying {
		status = "playing"
	}
	fmt.Fprintf(&b, "%s  %s  %s / %s  %d clips",
		titleStyle.Render(m.title),
		StatusStyle(status).Render(status),
		Clock(s.Playback.CurrentTime),
		Clock(s.TotalDuration),
		len(s.Clips),
	)
	if s.Playback.Scrubbing() {
		b.WriteString("  " + scrubStyle.Render("scrub "+Clock(s.Playback.DisplayTime())))
	}
	if n := s.LoadingCount(); n > 0 {
		fmt.Fprintf(&b, "  %s thumbnails %d", m.spinner.View(), n)
	}
	b.WriteString("\n\n")

	width := m.width - 2
	if width < 20 {
		width = 20
	}
	if len(s.Clips) == 0 {
		b.WriteString(faintStyle.Render("timeline is empty") + "\n")
	} else {
		b.WriteString(renderStrip(s, width) + "\n")
		b.WriteString(renderPlayhead(s, width) + "\n\n")
		b.WriteString(renderClipTable(s, m.spinner.View()))
	}

	if s.Err != "" {
		b.WriteString("\n" + errorStyle.Render("error: "+s.Err) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys) + "\n")
	return b.String()
}

func column(t, total float64, width int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(t / total * float64(width)))
}

func renderStrip(s editor.State, width int) string {
	var b strings.Builder
	for i, c := range timeline.Sorted(s.Clips) {
		start := column(c.TimelineStart, s.TotalDuration, width)
		end := column(c.TimelineEnd(), s.TotalDuration, width)
		cells := end - start
		if cells <= 0 {
			continue
		}
		label := TruncateWithEllipsis(fmt.Sprintf("%d %s", i+1, filepath.Base(c.SourceFilePath)), cells)
		b.WriteString(clipStyle(i, c.ID == s.SelectedClipID).Render(pad(label, cells)))
	}
	return b.String()
}

func renderPlayhead(s editor.State, width int) string {
	line := []rune(strings.Repeat(" ", width+1))
	committed := column(s.Playback.CurrentTime, s.TotalDuration, width)
	if s.Playback.Scrubbing() {
		if at := column(s.Playback.DisplayTime(), s.TotalDuration, width); at != committed && at <= width {
			line[at] = '△'
		}
	}
	if committed <= width {
		line[committed] = '▲'
	}
	return playheadStyle.Render(strings.TrimRight(string(line), " "))
}

func renderClipTable(s editor.State, spin string) string {
	var b strings.Builder
	header := fmt.Sprintf("%-3s %-24s %12s %12s %12s %12s  %s", "#", "SOURCE", "IN", "OUT", "START", "DUR", "THUMBS")
	b.WriteString(" " + HeaderStyle.Render(header) + "\n")
	active := s.Playback.ActiveClipID
	for i, c := range timeline.Sorted(s.Clips) {
		marker := " "
		if c.ID == active {
			marker = "▶"
		}
		thumbs := StatusStyle("none").Render("-")
		switch {
		case c.ThumbnailsLoading:
			thumbs = spin
		case len(c.Thumbnails) > 0:
			thumbs = StatusStyle("ready").Render(fmt.Sprintf("%d", len(c.Thumbnails)))
		}
		row := fmt.Sprintf("%-3d %-24s %12s %12s %12s %12s  %s",
			i+1,
			TruncateLeft(filepath.Base(c.SourceFilePath), 24),
			timeline.FormatSeconds(c.SourceStart),
			timeline.FormatSeconds(c.SourceEnd),
			timeline.FormatSeconds(c.TimelineStart),
			timeline.FormatSeconds(c.Duration()),
			thumbs,
		)
		if c.ID == s.SelectedClipID {
			row = selectedClipStyle.Render(row)
		}
		b.WriteString(marker + row + "\n")
	}
	return b.String()
}

// RunEditor runs the editor on the terminal until the user quits.
func RunEditor(in io.Reader, out io.Writer, model EditorModel) error {
	p := tea.NewProgram(model, tea.WithInput(in), tea.WithOutput(out), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
