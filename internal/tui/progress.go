package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type directoryMsg struct {
	dir   string
	depth int
}

type matchMsg struct{}

type finishMsg struct{ err error }

// progressModel renders a one-line live view of a running search.
type progressModel struct {
	spinner spinner.Model
	dir     string
	dirs    int
	matches int
	width   int
	done    bool
	err     error
}

func newProgressModel(width int) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle
	return progressModel{spinner: s, width: width}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case directoryMsg:
		m.dir = msg.dir
		m.dirs++
		return m, nil
	case matchMsg:
		m.matches++
		return m, nil
	case finishMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) summary() string {
	return fmt.Sprintf("%s in %s",
		CountStyle.Render(plural(m.matches, "match", "matches")),
		plural(m.dirs, "directory", "directories"))
}

func (m progressModel) View() string {
	if m.done {
		if m.err != nil {
			return ErrorStyle.Render(SymbolCross+" "+m.err.Error()) + "\n"
		}
		return SuccessStyle.Render(SymbolCheck) + " " + m.summary() + "\n"
	}

	line := m.spinner.View() + " " + m.summary()
	if m.dir != "" {
		room := m.width - len(m.summary()) - 8
		if room > 10 {
			line += " " + DirectoryStyle.Render(truncateLeft(m.dir, room))
		}
	}
	return line
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

// truncateLeft keeps the tail of s, which is the informative end of a path.
func truncateLeft(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return "…" + strings.TrimLeft(string(r[len(r)-max+1:]), "/")
}

// Progress shows a live search status on a terminal. Its methods are
// no-ops when the session is not interactive, so callers need no checks.
type Progress struct {
	program *tea.Program
	done    chan struct{}
	once    sync.Once
}

// StartProgress begins drawing to out when interactive is true.
func StartProgress(out io.Writer, interactive bool, width int) *Progress {
	p := &Progress{done: make(chan struct{})}
	if !interactive {
		close(p.done)
		return p
	}

	p.program = tea.NewProgram(newProgressModel(width),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	go func() {
		defer close(p.done)
		_, _ = p.program.Run()
	}()
	return p
}

// Directory records that the search entered dir.
func (p *Progress) Directory(dir string, depth int) {
	if p.program != nil {
		p.program.Send(directoryMsg{dir: dir, depth: depth})
	}
}

// Match records one more match.
func (p *Progress) Match() {
	if p.program != nil {
		p.program.Send(matchMsg{})
	}
}

// Finish draws the final line and waits for the display to stop.
func (p *Progress) Finish(err error) {
	p.once.Do(func() {
		if p.program != nil {
			p.program.Send(finishMsg{err: err})
		}
		<-p.done
	})
}
