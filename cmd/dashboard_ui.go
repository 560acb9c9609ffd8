package cmd

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/drjarvisw-bit/usageclaw/provider"
	"github.com/drjarvisw-bit/usageclaw/refresh"
	"github.com/drjarvisw-bit/usageclaw/tui"
)

// estimatedCardHeight approximates rendered card rows for viewport math.
const estimatedCardHeight = 9

var spinnerFrames = []string{"☱", "☲", "☴"}

type dashboardEntry struct {
	desc   provider.Descriptor
	poller *refresh.Poller
}

// dashboardScreen shows one card per connected provider, fed by the
// pollers' snapshots on every tick.
type dashboardScreen struct {
	entries []dashboardEntry
	cursor  tui.Cursor
}

func newDashboardScreen(entries []dashboardEntry) *dashboardScreen {
	s := &dashboardScreen{entries: entries}
	s.cursor.ItemCount = len(entries)
	return s
}

func (s *dashboardScreen) Update(msg tea.Msg, w *tui.Window) (tui.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			if s.cursor.Pos >= 0 && s.cursor.Pos < len(s.entries) {
				e := s.entries[s.cursor.Pos]
				e.poller.Refresh()
				w.SetFlash("refreshing " + e.desc.Name)
			}
			return s, nil
		case "R":
			for _, e := range s.entries {
				e.poller.Refresh()
			}
			w.SetFlash("refreshing all providers")
			return s, nil
		case "q", "ctrl+c":
			return s, tea.Quit
		default:
			if s.cursor.HandleKey(msg) {
				return s, nil
			}
		}

	case tea.WindowSizeMsg:
		s.cursor.VpHeight = max(w.VpHeight()/estimatedCardHeight, 1)
		s.cursor.EnsureVisible()
	}

	return s, nil
}

func (s *dashboardScreen) View(w *tui.Window) string {
	var blocks []string
	end := min(s.cursor.Offset+s.cursor.VpHeight, len(s.entries))
	if s.cursor.VpHeight == 0 {
		end = len(s.entries)
	}
	for i := s.cursor.Offset; i < end; i++ {
		blocks = append(blocks, renderCard(s.cardFor(s.entries[i]), i == s.cursor.Pos))
	}
	content := strings.Join(blocks, "\n")

	lines := strings.Split(content, "\n")
	if len(lines) > w.VpHeight() {
		lines = lines[:w.VpHeight()]
	}
	for len(lines) < w.VpHeight() {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (s *dashboardScreen) cardFor(e dashboardEntry) usageCard {
	snap := e.poller.Snapshot()
	return usageCard{
		desc:       e.desc,
		result:     snap.Result,
		err:        snap.Err,
		fetchedAt:  snap.FetchedAt,
		refreshing: snap.Refreshing && snap.Loaded,
		loading:    snap.Refreshing && !snap.Loaded && snap.Result == nil,
	}
}

func (s *dashboardScreen) FooterStatus(w *tui.Window) string {
	for _, e := range s.entries {
		if e.poller.Snapshot().Refreshing {
			glyph := spinnerFrames[w.TickFrame()%len(spinnerFrames)]
			return lipgloss.NewStyle().Foreground(tui.ColorCyan).Render(glyph)
		}
	}
	return ""
}

func (s *dashboardScreen) FooterKeys(w *tui.Window) []tui.FooterKey {
	keys := []tui.FooterKey{
		{Key: "r", Desc: "refresh"},
		{Key: "R", Desc: "refresh all"},
	}
	keys = append(keys, s.cursor.FooterKeys()...)
	return keys
}
