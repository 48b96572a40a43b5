package tui

import (
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/reel/internal/discover"
	"github.com/pders01/reel/internal/tmdb"
)

type stateMsg struct {
	state discover.State
}

type detailRenderedMsg struct {
	movieID int
	content string
}

type statusMsg struct {
	text string
	kind StatusKind
}

type errorMsg struct {
	err error
}

// stateInbox hands controller snapshots to the bubbletea loop. Only the newest
// snapshot is kept; the loop reads it through wait.
type stateInbox struct {
	mu     sync.Mutex
	latest discover.State
	signal chan struct{}
	done   chan struct{}
	once   sync.Once
}

func newStateInbox() *stateInbox {
	return &stateInbox{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (b *stateInbox) put(s discover.State) {
	b.mu.Lock()
	if s.Version > b.latest.Version {
		b.latest = s
	}
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

func (b *stateInbox) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.signal:
		case <-b.done:
			return nil
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		return stateMsg{state: b.latest}
	}
}

func (b *stateInbox) close() {
	b.once.Do(func() { close(b.done) })
}

func (a *App) mount() tea.Cmd {
	return func() tea.Msg {
		a.ctrl.Mount()
		return nil
	}
}

// detailMarkdown is the document shown in the detail view.
func detailMarkdown(m tmdb.Movie, imageBaseURL, webURL string) string {
	var content strings.Builder

	title := m.Title
	if title == "" {
		title = "Untitled"
	}
	content.WriteString(fmt.Sprintf("# %s (%s)\n\n", title, m.Year()))

	meta := []string{"★ " + m.Rating()}
	if m.VoteCount > 0 {
		meta = append(meta, fmt.Sprintf("%d votes", m.VoteCount))
	}
	if m.OriginalLanguage != "" {
		meta = append(meta, strings.ToUpper(m.OriginalLanguage))
	}
	if m.ReleaseDate != "" {
		meta = append(meta, "released "+m.ReleaseDate)
	}
	content.WriteString(fmt.Sprintf("*%s*\n\n", strings.Join(meta, " • ")))

	if m.ID != 0 && webURL != "" {
		content.WriteString(fmt.Sprintf("[View on TMDB](%s)\n\n", tmdb.PageURL(webURL, m.ID)))
	}

	content.WriteString("---\n\n")

	if overview := strings.TrimSpace(m.Overview); overview != "" {
		content.WriteString(overview)
	} else {
		content.WriteString("_" + MsgNoOverview + "_")
	}
	content.WriteString("\n")

	if poster := tmdb.PosterURL(imageBaseURL, m.PosterPath); poster != "" {
		content.WriteString(fmt.Sprintf("\n**Poster:** %s\n", poster))
	}

	return content.String()
}

func (a *App) renderDetail(m tmdb.Movie) tea.Cmd {
	doc := detailMarkdown(m, a.config.TMDB.ImageBaseURL, a.config.TMDB.WebURL)
	r, err := a.getRenderer()

	return func() tea.Msg {
		if err != nil {
			return detailRenderedMsg{movieID: m.ID, content: "Error initializing renderer: " + err.Error()}
		}

		rendered, err := r.Render(doc)
		if err != nil {
			return detailRenderedMsg{movieID: m.ID, content: fmt.Sprintf("Failed to render details: %s\n\nPress Escape to go back.", err.Error())}
		}
		return detailRenderedMsg{movieID: m.ID, content: rendered}
	}
}

func (a *App) openURL(url string) tea.Cmd {
	return func() tea.Msg {
		if err := a.launcher.Open(url); err != nil {
			return errorMsg{err: wrapErr("failed to open "+url, err)}
		}
		return statusMsg{text: MsgOpening, kind: StatusSuccess}
	}
}
