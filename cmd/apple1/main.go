// apple1 is the native terminal driver: it loads the Woz monitor ROM, wires
// up a system.System, pumps keyboard input from a bubbletea program into
// the PIA, and renders the 40x24 character-cell display. Matches the
// teacher's vcs_main.go shape (flag-configured, pprof goroutine, a single
// tight frame loop) with SDL swapped for a terminal renderer, since the
// Apple 1 has no pixel display.
package main

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	cli "gopkg.in/urfave/cli.v2"

	"github.com/kwalter/apple1/system"
)

const (
	cols = 40
	rows = 24

	// cyclesPerTick is the number of host cycles run per UI tick, about one
	// 60th of a second at 1MHz. Ticks are issued back to back with no frame
	// timer, so emulation speed is not held to 1MHz.
	cyclesPerTick = 16000
)

func main() {
	app := &cli.App{
		Name:  "apple1",
		Usage: "Apple 1 emulator",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rom", Value: "testdata/wozmon.bin", Usage: "path to the 256-byte Woz monitor ROM image"},
			&cli.BoolFlag{Name: "debug", Usage: "emit full CPU/PIA debug logging"},
			&cli.IntFlag{Name: "port", Value: 6060, Usage: "port to run the HTTP pprof server on"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func run(c *cli.Context) error {
	log := logrus.New()
	if c.Bool("debug") {
		log.SetLevel(logrus.DebugLevel)
	}

	port := c.Int("port")
	go func() {
		log.Println(http.ListenAndServe(fmt.Sprintf("localhost:%d", port), nil))
	}()

	sys, err := system.New(c.String("rom"), logrus.NewEntry(log))
	if err != nil {
		return err
	}
	if err := sys.Reset(); err != nil {
		return err
	}

	p := tea.NewProgram(newModel(sys, log))
	_, err = p.Run()
	return err
}

type tickMsg struct{}

func tick() tea.Cmd {
	return func() tea.Msg { return tickMsg{} }
}

// model is the bubbletea program driving one emulated machine: each tick
// runs a batch of host cycles, drains whatever the PIA queued for display,
// and every key event is translated into the Apple 1's four-signal keyboard
// strobe.
type model struct {
	sys *system.System
	log *logrus.Logger

	screen [rows][cols]byte
	col    int
	row    int
	err    error
}

func newModel(sys *system.System, log *logrus.Logger) *model {
	m := &model{sys: sys, log: log}
	for r := range m.screen {
		for c := range m.screen[r] {
			m.screen[r][c] = ' '
		}
	}
	return m
}

func (m *model) Init() tea.Cmd { return tick() }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key, quit, ok := translateKey(msg); ok {
			if quit {
				return m, tea.Quit
			}
			m.sys.InjectKey(key)
		}
		return m, nil
	case tickMsg:
		if err := m.sys.Run(cyclesPerTick); err != nil {
			m.err = err
			m.log.WithError(err).Error("cpu halted")
			return m, tea.Quit
		}
		m.drain()
		return m, tick()
	}
	return m, nil
}

// translateKey maps a bubbletea key event to the byte the Apple 1 keyboard
// would have sent: Enter becomes CR (0x0D, not LF), a shifted period (as
// typed through some terminal layouts) collapses to a plain period, and
// printable runes are uppercased since the Apple 1 keyboard has no lowercase.
func translateKey(msg tea.KeyMsg) (key uint8, quit bool, ok bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return 0, true, true
	case tea.KeyEnter:
		return 0x0D, false, true
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return 0, false, false
		}
		r := msg.Runes[0]
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		if r == 0xBE {
			r = 0x2E
		}
		if r < 0x20 || r > 0x7E {
			return 0, false, false
		}
		return uint8(r), false, true
	}
	return 0, false, false
}

func (m *model) drain() {
	for _, b := range m.sys.DrainDisplay() {
		ch := b &^ 0x80
		switch ch {
		case 0x0D, 0x0A:
			m.row = (m.row + 1) % rows
			m.col = 0
		default:
			if m.col >= cols {
				m.col = 0
				m.row = (m.row + 1) % rows
			}
			m.screen[m.row][m.col] = ch
			m.col++
		}
	}
}

var cellStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))

func (m *model) View() string {
	if m.err != nil {
		return fmt.Sprintf("apple1: halted: %v\n", m.err)
	}
	lines := make([]string, rows)
	for r := range m.screen {
		lines[r] = cellStyle.Render(string(m.screen[r][:]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}
