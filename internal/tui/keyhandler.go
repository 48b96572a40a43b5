package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/reel/internal/config"
	"github.com/pders01/reel/internal/tmdb"
)

type KeyHandler struct {
	app    *App
	config *config.Config
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{app: app, config: cfg}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return kh.app, tea.Quit
	}

	if kh.app.view == ViewDetail {
		return kh.handleDetailKeys(msg)
	}

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	return kh.handleCardKeys(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	return kh.app.view == ViewDiscover && kh.app.focus == FocusInput
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if kh.app.searchInput.Value() != "" {
			kh.app.searchInput.SetValue("")
			kh.app.ctrl.SetRawText("")
		}
		kh.app.clearStatus()
		return kh.app, nil
	case "enter", "tab", "down":
		kh.app.focusCards()
		return kh.app, nil
	default:
		return kh.delegateToTextInput(msg)
	}
}

// delegateToTextInput passes the key to the search box and forwards any
// change to the controller, which owns the quiet period.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prev := kh.app.searchInput.Value()
	newInput, cmd := kh.app.searchInput.Update(msg)
	kh.app.searchInput = newInput

	if value := kh.app.searchInput.Value(); value != prev {
		kh.app.clearStatus()
		kh.app.ctrl.SetRawText(value)
	}
	return kh.app, cmd
}

func (kh *KeyHandler) handleCardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := kh.app
	count := len(app.movies())
	cols := gridColumns(app.width)

	switch msg.String() {
	case "q":
		return app, tea.Quit
	case "esc", "tab", "shift+tab", "/":
		app.focusInput()
		return app, nil
	case "left", "h":
		if app.cursor > 0 {
			app.cursor--
		}
	case "right", "l":
		if app.cursor < count-1 {
			app.cursor++
		}
	case "up", "k":
		if app.cursor < cols {
			app.focusInput()
			return app, nil
		}
		app.cursor -= cols
	case "down", "j":
		if app.cursor+cols < count {
			app.cursor += cols
		} else if count > 0 {
			app.cursor = count - 1
		}
	case "home", "g":
		app.cursor = 0
	case "end", "G":
		if count > 0 {
			app.cursor = count - 1
		}
	case "enter":
		if m, ok := app.selectedMovie(); ok {
			return app, app.openDetail(m)
		}
	case "ctrl+o":
		if m, ok := app.selectedMovie(); ok {
			return app, kh.openMoviePage(m)
		}
	}

	return app, nil
}

func (kh *KeyHandler) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return kh.app, tea.Quit
	case "esc", "backspace":
		kh.app.closeDetail()
		return kh.app, nil
	case "ctrl+o":
		if kh.app.current != nil {
			return kh.app, kh.openMoviePage(*kh.app.current)
		}
		return kh.app, nil
	}

	newViewport, cmd := kh.app.viewport.Update(msg)
	kh.app.viewport = newViewport
	return kh.app, cmd
}

func (kh *KeyHandler) openMoviePage(m tmdb.Movie) tea.Cmd {
	if m.ID == 0 {
		return nil
	}
	return kh.app.openURL(tmdb.PageURL(kh.config.TMDB.WebURL, m.ID))
}

// GetHelpForCurrentView returns the key hints for the status bar.
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	switch {
	case kh.app.view == ViewDetail:
		return []string{"↑↓: scroll", "ctrl+o: open in browser", "esc: back", "q: quit"}
	case kh.app.focus == FocusCards:
		return []string{"←↑↓→: move", "enter: details", "ctrl+o: open", "tab: search", "q: quit"}
	default:
		help := []string{"type to search"}
		if len(kh.app.movies()) > 0 {
			help = append(help, "tab/↓: browse")
		}
		return append(help, "esc: clear", "ctrl+c: quit")
	}
}
