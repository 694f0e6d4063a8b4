package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/eqwho/eqwho-go/internal/prefs"
	"github.com/eqwho/eqwho-go/pkg/eqwho"
)

var (
	// tui flags
	tuiInterval time.Duration
	tuiZones    []string
	tuiClassMap string
	tuiNoPrefs  bool
)

var tuiCmd = &cobra.Command{
	Use:   "tui [logfile]",
	Short: "Browse /who results interactively",
	Long: `Monitor an EverQuest log and browse captured /who results in an
interactive terminal UI.

New results appear at the top of the list as you type /who in game.
The detail pane shows the selected result together with its DKP roster.

Keys:
  j/k, up/down    select a result
  g/G             jump to newest/oldest
  pgup/pgdn       scroll the detail pane
  c               copy the DKP roster to the clipboard
  y               copy the raw /who block to the clipboard
  s               save the raw /who block to a file
  x               clear all results
  q, ctrl+c       quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTui,
}

func init() {
	tuiCmd.Flags().DurationVar(&tuiInterval, "interval", eqwho.DefaultPollInterval,
		"How often to check the log for new lines")
	tuiCmd.Flags().StringSliceVarP(&tuiZones, "zone", "z", nil,
		"Only show results from these zones (repeatable)")
	tuiCmd.Flags().StringVar(&tuiClassMap, "class-map", "",
		"YAML file with extra class name mappings")
	tuiCmd.Flags().BoolVar(&tuiNoPrefs, "no-save-prefs", false,
		"Do not remember the log file for the next run")
}

func runTui(cmd *cobra.Command, args []string) error {
	zones, err := NormalizeZones(tuiZones)
	if err != nil {
		return err
	}

	userClasses, err := loadUserClasses(tuiClassMap)
	if err != nil {
		return err
	}

	saved, _ := prefs.Load(prefs.DefaultPath())
	path, err := resolveLogPath(args, saved)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)

	trackOpts := []eqwho.TrackerOption{
		eqwho.WithPollInterval(tuiInterval),
		eqwho.WithOnError(func(err error) {
			select {
			case errCh <- err:
			default:
			}
		}),
	}
	if len(zones) > 0 {
		trackOpts = append(trackOpts, eqwho.WithZones(zones...))
	}
	if userClasses != nil {
		trackOpts = append(trackOpts, eqwho.WithClassMap(userClasses))
	}

	tracker := eqwho.NewTracker(trackOpts...)
	if err := tracker.Start(path); err != nil {
		return err
	}
	defer tracker.Stop()

	if !tuiNoPrefs {
		_ = prefs.Save(prefs.DefaultPath(), prefs.Prefs{
			LastLogFile: path,
			Format:      saved.Format,
		})
	}

	p := tea.NewProgram(newTuiModel(tracker, path, errCh, tuiInterval), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}

	// Surface a monitoring failure (truncated or deleted log) on exit
	if m, ok := final.(tuiModel); ok && m.monErr != nil {
		return m.monErr
	}
	return nil
}

// Styles

var (
	tuiTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	tuiPathStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tuiSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	tuiMutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tuiErrorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	tuiStatusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
)

// tuiModel is the root application state for Bubble Tea.
type tuiModel struct {
	tracker  *eqwho.Tracker
	path     string
	errCh    <-chan error
	interval time.Duration

	// Data state
	snaps    []eqwho.Snapshot
	selected int
	monErr   error
	status   string

	// UI state
	detail viewport.Model
	width  int
	height int
	ready  bool
}

func newTuiModel(tracker *eqwho.Tracker, path string, errCh <-chan error, interval time.Duration) tuiModel {
	if interval <= 0 {
		interval = eqwho.DefaultPollInterval
	}
	return tuiModel{
		tracker:  tracker,
		path:     path,
		errCh:    errCh,
		interval: interval,
	}
}

// Messages

type tickMsg time.Time

type snapshotsMsg []eqwho.Snapshot

type monitorErrMsg struct {
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd drains a pending monitor error and fetches the current results.
func (m tuiModel) refreshCmd() tea.Cmd {
	tracker, errCh := m.tracker, m.errCh
	return func() tea.Msg {
		select {
		case err := <-errCh:
			return monitorErrMsg{err: err}
		default:
		}
		return snapshotsMsg(tracker.Snapshots())
	}
}

// Init implements tea.Model.
func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(m.interval),
		m.refreshCmd(),
	)
}

// Update implements tea.Model.
func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detail = viewport.New(msg.Width, m.detailHeight())
			m.ready = true
		}
		m.detail.Width = m.width
		m.detail.Height = m.detailHeight()
		m.updateDetail()
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refreshCmd(), tickCmd(m.interval))

	case snapshotsMsg:
		m.snaps = msg
		if m.selected >= len(m.snaps) {
			m.selected = max(len(m.snaps)-1, 0)
		}
		m.updateDetail()
		return m, nil

	case monitorErrMsg:
		m.monErr = msg.err
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		if m.selected < len(m.snaps)-1 {
			m.selected++
			m.updateDetail()
		}
		return m, nil

	case "k", "up":
		if m.selected > 0 {
			m.selected--
			m.updateDetail()
		}
		return m, nil

	case "g", "home":
		m.selected = 0
		m.updateDetail()
		return m, nil

	case "G", "end":
		m.selected = max(len(m.snaps)-1, 0)
		m.updateDetail()
		return m, nil

	case "pgdown":
		m.detail.ScrollDown(max(m.detail.Height, 1))
		return m, nil

	case "pgup":
		m.detail.ScrollUp(max(m.detail.Height, 1))
		return m, nil

	case "c":
		snap, ok := m.selectedSnapshot()
		if !ok {
			return m, nil
		}
		roster := m.tracker.Converter().Convert(snap)
		if roster == "" {
			m.status = "No players to copy"
			return m, nil
		}
		if err := clipboard.WriteAll(roster); err != nil {
			m.status = fmt.Sprintf("Copy failed: %v", err)
		} else {
			m.status = "Roster copied to clipboard"
		}
		return m, nil

	case "y":
		snap, ok := m.selectedSnapshot()
		if !ok {
			return m, nil
		}
		if err := clipboard.WriteAll(snap.Export()); err != nil {
			m.status = fmt.Sprintf("Copy failed: %v", err)
		} else {
			m.status = "Raw result copied to clipboard"
		}
		return m, nil

	case "s":
		snap, ok := m.selectedSnapshot()
		if !ok {
			return m, nil
		}
		name := snap.ExportFilename()
		if err := os.WriteFile(name, []byte(snap.Export()+"\n"), 0o644); err != nil {
			m.status = fmt.Sprintf("Save failed: %v", err)
		} else {
			m.status = fmt.Sprintf("Saved %s", name)
		}
		return m, nil

	case "x":
		m.tracker.Clear()
		m.snaps = nil
		m.selected = 0
		m.status = "Results cleared"
		m.updateDetail()
		return m, nil
	}

	return m, nil
}

func (m tuiModel) selectedSnapshot() (eqwho.Snapshot, bool) {
	if m.selected < 0 || m.selected >= len(m.snaps) {
		return eqwho.Snapshot{}, false
	}
	return m.snaps[m.selected], true
}

// listHeight returns the number of list rows, leaving room for the header,
// the separator, the detail pane, and the footer.
func (m tuiModel) listHeight() int {
	h := (m.height - 4) / 3
	return min(max(h, 3), 10)
}

func (m tuiModel) detailHeight() int {
	h := m.height - m.listHeight() - 4
	return max(h, 3)
}

// updateDetail refreshes the detail pane with the selected result and its
// roster preview.
func (m *tuiModel) updateDetail() {
	if !m.ready {
		return
	}

	snap, ok := m.selectedSnapshot()
	if !ok {
		m.detail.SetContent(tuiMutedStyle.Render("No /who results yet. Type /who in game."))
		m.detail.GotoTop()
		return
	}

	parts := []string{snap.Export()}
	if roster := m.tracker.Converter().Convert(snap); roster != "" {
		parts = append(parts, "DKP roster:\n"+roster)
	}
	m.detail.SetContent(strings.Join(parts, "\n\n"))
	m.detail.GotoTop()
}

// listWindow returns the visible [start, end) slice bounds of the result
// list, keeping the selection in view.
func (m tuiModel) listWindow() (int, int) {
	height := m.listHeight()
	if len(m.snaps) <= height {
		return 0, len(m.snaps)
	}
	start := m.selected - height/2
	start = min(start, len(m.snaps)-height)
	start = max(start, 0)
	return start, start + height
}

// View implements tea.Model.
func (m tuiModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder

	// Header: title, log path, result count
	header := fmt.Sprintf("%s  %s  %s",
		tuiTitleStyle.Render("eqwho"),
		tuiPathStyle.Render(m.path),
		tuiMutedStyle.Render(fmt.Sprintf("%d results", len(m.snaps))))
	b.WriteString(header)
	b.WriteString("\n")

	// Status line: monitoring errors trump transient feedback
	switch {
	case m.monErr != nil:
		b.WriteString(tuiErrorStyle.Render(fmt.Sprintf("monitoring stopped: %v", m.monErr)))
	case m.status != "":
		b.WriteString(tuiStatusStyle.Render(m.status))
	}
	b.WriteString("\n")

	// Result list, newest first
	if len(m.snaps) == 0 {
		b.WriteString(tuiMutedStyle.Render("(waiting for /who results)"))
		b.WriteString("\n")
	} else {
		start, end := m.listWindow()
		for i := start; i < end; i++ {
			line := m.snaps[i].Summary()
			if i == m.selected {
				b.WriteString(tuiSelectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	// Detail pane
	b.WriteString(tuiMutedStyle.Render(strings.Repeat("─", max(m.width, 1))))
	b.WriteString("\n")
	b.WriteString(m.detail.View())
	b.WriteString("\n")

	// Footer
	b.WriteString(tuiMutedStyle.Render(
		"j/k move   c copy roster   y copy raw   s save   x clear   q quit"))

	return b.String()
}
