package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/reel/internal/config"
	"github.com/pders01/reel/internal/discover"
	"github.com/pders01/reel/internal/media"
	"github.com/pders01/reel/internal/tmdb"
)

// App renders a discover.Controller. All discovery state lives in the
// controller; the App only keeps view concerns such as focus and the card
// cursor.
type App struct {
	config      *config.Config
	ctrl        *discover.Controller
	launcher    *media.Launcher
	keyHandler  *KeyHandler
	inbox       *stateInbox
	unsubscribe func()

	searchInput textinput.Model
	spinner     spinner.Model
	viewport    viewport.Model

	view    View
	focus   Focus
	state   discover.State
	cursor  int
	current *tmdb.Movie

	width  int
	height int

	err        error
	status     string
	statusKind StatusKind

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	loadingDetail   bool
}

func NewApp(ctrl *discover.Controller, cfg *config.Config) *App {
	ApplyTheme(cfg.UI.Colors)

	si := textinput.New()
	si.Placeholder = "Search through thousands of movies"
	si.Prompt = "🔍 "
	si.CharLimit = cfg.Search.MaxQueryLength
	si.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(PrimaryColor)

	app := &App{
		config:      cfg,
		ctrl:        ctrl,
		launcher:    media.NewLauncher(cfg),
		inbox:       newStateInbox(),
		searchInput: si,
		spinner:     sp,
		viewport:    viewport.New(0, 0),
		view:        ViewDiscover,
		focus:       FocusInput,
		state:       ctrl.State(),
	}

	app.keyHandler = NewKeyHandler(app, cfg)
	app.unsubscribe = ctrl.Subscribe(app.inbox.put)

	return app
}

// Close detaches the App from the controller.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	a.inbox.close()
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 120 {
		wordWrapWidth = 120 // maximum for readability
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40 // minimum for readability
	}
	if a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.inbox.wait(),
		a.mount(),
		a.spinner.Tick,
		textinput.Blink,
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - 3

		inputWidth := msg.Width - 8
		if inputWidth < 10 {
			inputWidth = msg.Width
		}
		a.searchInput.Width = inputWidth

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case stateMsg:
		a.applyState(msg.state)
		return a, a.inbox.wait()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case detailRenderedMsg:
		if a.view == ViewDetail && a.current != nil && a.current.ID == msg.movieID {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loadingDetail = false
		}

	case statusMsg:
		a.setStatus(msg.text, msg.kind)

	case errorMsg:
		a.err = msg.err
	}

	switch a.view {
	case ViewDetail:
		switch msg.(type) {
		case tea.WindowSizeMsg, tea.MouseMsg:
			newViewport, cmd := a.viewport.Update(msg)
			a.viewport = newViewport
			cmds = append(cmds, cmd)
		}
	case ViewDiscover:
		if a.focus == FocusInput {
			newInput, cmd := a.searchInput.Update(msg)
			a.searchInput = newInput
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

// applyState takes a controller snapshot, ignoring ones older than what is
// already shown.
func (a *App) applyState(s discover.State) {
	if s.Version < a.state.Version {
		return
	}
	if s.Query != a.state.Query {
		a.cursor = 0
	}
	a.state = s

	n := len(s.Result.Movies)
	if s.Result.Phase != discover.PhaseReady {
		n = 0
	}
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	if n == 0 && a.focus == FocusCards {
		a.focusInput()
	}
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) clearStatus() {
	a.status = ""
	a.err = nil
}

func (a *App) focusInput() {
	a.focus = FocusInput
	a.searchInput.Focus()
}

func (a *App) focusCards() bool {
	if len(a.movies()) == 0 {
		return false
	}
	a.focus = FocusCards
	a.searchInput.Blur()
	return true
}

// movies are the cards currently on screen.
func (a *App) movies() []tmdb.Movie {
	if a.state.Result.Phase != discover.PhaseReady {
		return nil
	}
	return a.state.Result.Movies
}

func (a *App) selectedMovie() (tmdb.Movie, bool) {
	movies := a.movies()
	if a.cursor < 0 || a.cursor >= len(movies) {
		return tmdb.Movie{}, false
	}
	return movies[a.cursor], true
}

func (a *App) openDetail(m tmdb.Movie) tea.Cmd {
	movie := m
	a.current = &movie
	a.view = ViewDetail
	a.loadingDetail = true
	return a.renderDetail(movie)
}

func (a *App) closeDetail() {
	a.view = ViewDiscover
	a.current = nil
	a.loadingDetail = false
}

func (a *App) View() string {
	var content string
	contentHeight := a.height - 2

	switch a.view {
	case ViewDetail:
		if a.loadingDetail {
			content = renderCentered(a.width, contentHeight, renderMuted(MsgRendering))
		} else {
			content = a.viewport.View()
		}
	default:
		content = a.discoverView(contentHeight)
	}

	separatorWidth := a.width - 2
	if separatorWidth < 0 {
		separatorWidth = 0
	}
	separator := SeparatorStyle.Render("─" + strings.Repeat("─", separatorWidth))

	return lipgloss.JoinVertical(lipgloss.Top,
		ContentWrapper(a.width, contentHeight).Render(content),
		separator,
		a.getCustomStatusBar(),
	)
}

func (a *App) discoverView(height int) string {
	header := LogoStyle.Render(CompactLogo) + " " + renderHeader(Tagline, "", a.width-lipgloss.Width(CompactLogo)-1)
	input := renderInputFrame(a.searchInput.View(), a.focus == FocusInput, a.searchInput.Width)

	top := []string{header, input}
	if trending := renderTrending(a.state.Trending, a.width); trending != "" {
		top = append(top, trending)
	}

	section := MsgPopularMovies
	if a.state.Query != "" {
		section = MsgResultsFor(a.state.Query)
	}
	if movies := a.movies(); len(movies) > 0 {
		section += "  " + renderMuted(MsgResultsCount(len(movies)))
	}
	top = append(top, SectionStyle.Render(section))

	head := lipgloss.JoinVertical(lipgloss.Left, top...)
	remaining := height - lipgloss.Height(head)

	var body string
	switch a.state.Result.Phase {
	case discover.PhaseLoading:
		body = a.spinner.View() + " " + renderMuted(MsgLoading)
	case discover.PhaseError:
		body = ErrorMessageStyle.Render(a.state.Result.Message)
	default:
		if len(a.state.Result.Movies) == 0 {
			body = renderMuted(MsgNoResults)
			if remaining > len(LogoLines)+3 {
				body = GetCompactBanner(MsgNoResults)
			}
		} else {
			selected := -1
			if a.focus == FocusCards {
				selected = a.cursor
			}
			body = renderGrid(a.state.Result.Movies, selected, a.width, remaining/cardHeight)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, head, body)
}

func (a *App) getCustomStatusBar() string {
	if a.err != nil {
		return StatusBarStyle.Width(a.width).Render(ErrorMessageStyle.Render("✗ " + a.err.Error()))
	}
	if a.status != "" {
		return StatusBarStyle.Width(a.width).Render(styleForKind(a.statusKind)(a.status))
	}

	commands := a.keyHandler.GetHelpForCurrentView()
	if len(commands) == 0 {
		return ""
	}
	return StatusBarStyle.Width(a.width).Render(strings.Join(commands, " • "))
}
