package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/agentui/agentui/internal/browser"
	"github.com/agentui/agentui/internal/route"
	"github.com/agentui/agentui/pkg/client"
)

// loggedOutMsg is sent once Session.Logout has returned.
type loggedOutMsg struct{}

// Options configures the console.
type Options struct {
	Session Session
	// API is the unauthenticated client; views attach the session's
	// header per request.
	API *client.Client
	// Navigator is the one the session redirects through on logout.
	Navigator *Navigator
	PerPage   int
	Logger    zerolog.Logger
	// OpenURL opens help links; defaults to browser.Open.
	OpenURL func(url string) error
}

// App is the root Bubbletea model.
type App struct {
	env        env
	nav        *Navigator
	router     *route.Router
	current    route.Match
	menu       menuModel
	login      loginModel
	dashboard  dashboardModel
	admin      adminModel
	config     configurationModel
	apiKeys    apiKeysModel
	integ      integrationModel
	train      trainModel
	openURL    func(string) error
	helpOpen   bool
	helpCursor int
	loggingOut bool
	flash      string
	width      int
	height     int
	frame      int // logo shimmer animation frame
}

// NewApp creates the console positioned on the dashboard, or on the login
// screen when nobody is signed in.
func NewApp(opts Options) App {
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = 9
	}
	apiURL := ""
	if opts.API != nil {
		apiURL = opts.API.BaseURL()
	}
	openURL := opts.OpenURL
	if openURL == nil {
		openURL = browser.Open
	}
	a := App{
		env: env{
			sess:    opts.Session,
			api:     opts.API,
			apiURL:  apiURL,
			perPage: perPage,
			log:     opts.Logger.With().Str("component", "tui").Logger(),
		},
		nav:     opts.Navigator,
		router:  route.NewRouter(route.NewGuard(opts.Session)),
		openURL: openURL,
	}
	a, _ = a.navigate(route.Dashboard)
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.nav.wait(), shimmerTickCmd(), a.screenInit())
}

// screenInit is the load command of the current screen.
func (a App) screenInit() tea.Cmd {
	switch a.current.Screen {
	case route.ScreenDashboard:
		return a.dashboard.Init()
	case route.ScreenAdmin:
		return a.admin.Init()
	case route.ScreenAPIKeys:
		if !a.config.allowed {
			return nil
		}
		return a.apiKeys.Init()
	case route.ScreenIntegrationKeys:
		return a.integ.Init()
	case route.ScreenTrain:
		return a.train.Init()
	}
	return nil
}

// navigate moves to path through the guarded router and rebuilds the
// target screen and the menu.
func (a App) navigate(path string) (App, tea.Cmd) {
	m := a.router.Navigate(path)
	return a.enter(m)
}

func (a App) enter(m route.Match) (App, tea.Cmd) {
	a.current = m
	a.helpOpen = false
	a.menu = a.menu.sync(a.env.sess, m.Path)
	a.env.log.Debug().Str("path", m.Path).Str("screen", m.Screen.String()).Msg("navigate")

	switch m.Screen {
	case route.ScreenLogin:
		a.router.Reset()
		a.login = newLoginModel(a.env)
	case route.ScreenDashboard:
		a.dashboard = newDashboardModel(a.env)
		a.dashboard.width, a.dashboard.height = a.bodySize()
	case route.ScreenAdmin:
		a.admin = newAdminModel(a.env)
	case route.ScreenConfiguration:
		a.config = newConfigurationModel(a.env)
	case route.ScreenAPIKeys:
		a.config = newConfigurationModel(a.env)
		a.apiKeys = newAPIKeysModel(a.env)
	case route.ScreenIntegrationKeys:
		a.integ = newIntegrationModel(a.env)
	case route.ScreenTrain:
		a.train = newTrainModel(a.env, m.Param("chatbotId"))
	}
	return a, a.screenInit()
}

func (a App) bodySize() (int, int) {
	// header(2) + blank(1) + help(1)
	return max(a.width-menuWidth-3, 20), max(a.height-4, 1)
}

const menuWidth = 22

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		w, h := a.bodySize()
		a.dashboard, _ = a.dashboard.Update(tea.WindowSizeMsg{Width: w, Height: h})
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case navigateMsg:
		var cmds []tea.Cmd
		if msg.queued {
			cmds = append(cmds, a.nav.wait())
		}
		var cmd tea.Cmd
		a, cmd = a.navigate(msg.path)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case loggedOutMsg:
		a.loggingOut = false
		a.flash = "signed out"
		if a.current.Screen != route.ScreenLogin {
			return a.navigate(route.Login)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.helpOpen {
			return a.handleHelpKey(msg)
		}
		a.flash = ""
		if handled, next, cmd := a.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	return a.updateScreen(msg)
}

func (a App) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := helpItems(a.env.apiURL)
	switch msg.String() {
	case "h", "esc":
		a.helpOpen = false
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.helpCursor < len(items)-1 {
			a.helpCursor++
		}
	case "k", "up":
		if a.helpCursor > 0 {
			a.helpCursor--
		}
	case "enter":
		item := items[a.helpCursor]
		if err := a.openURL(item.url); err != nil {
			a.env.log.Warn().Err(err).Str("url", item.url).Msg("open browser")
			a.flash = "open " + item.url + " in your browser"
		}
	}
	return a, nil
}

// handleGlobalKey runs keys that work on every signed-in screen while no
// input has focus.
func (a App) handleGlobalKey(msg tea.KeyMsg) (bool, App, tea.Cmd) {
	key := msg.String()
	if key == "esc" && a.current.Screen == route.ScreenTrain {
		next, cmd := a.back()
		return true, next, cmd
	}
	if a.current.Screen == route.ScreenLogin || a.isEditing() {
		return false, a, nil
	}
	switch key {
	case "q":
		return true, a, tea.Quit
	case "h", "?":
		a.helpOpen = true
		a.helpCursor = 0
		return true, a, nil
	case "L":
		if a.loggingOut {
			return true, a, nil
		}
		a.loggingOut = true
		sess := a.env.sess
		return true, a, func() tea.Msg {
			sess.Logout(context.Background())
			return loggedOutMsg{}
		}
	case "esc":
		next, cmd := a.back()
		return true, next, cmd
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		var cmd tea.Cmd
		a.menu, cmd = a.menu.activate(int(key[0] - '0'))
		return true, a, cmd
	}
	return false, a, nil
}

func (a App) back() (App, tea.Cmd) {
	m, ok := a.router.Back()
	if !ok {
		return a, nil
	}
	return a.enter(m)
}

func (a App) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.current.Screen {
	case route.ScreenLogin:
		a.login, cmd = a.login.Update(msg)
	case route.ScreenDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case route.ScreenAdmin:
		a.admin, cmd = a.admin.Update(msg)
	case route.ScreenConfiguration:
		a.config, cmd = a.config.Update(msg)
	case route.ScreenAPIKeys:
		if a.config.allowed {
			a.apiKeys, cmd = a.apiKeys.Update(msg)
		}
	case route.ScreenIntegrationKeys:
		a.integ, cmd = a.integ.Update(msg)
	case route.ScreenTrain:
		a.train, cmd = a.train.Update(msg)
	}
	return a, cmd
}

func (a App) isEditing() bool {
	switch a.current.Screen {
	case route.ScreenLogin, route.ScreenTrain:
		return true
	case route.ScreenDashboard:
		return a.dashboard.editing()
	case route.ScreenAdmin:
		return a.admin.editing()
	case route.ScreenAPIKeys:
		return a.apiKeys.editing()
	}
	return false
}

func (a App) header() string {
	logo := renderShimmerLogo(a.frame)
	pad := max((a.width-lipgloss.Width(logo))/2, 0)
	header := strings.Repeat(" ", pad) + logo

	line := ""
	if u, ok := a.env.sess.Profile(); ok && a.current.Screen != route.ScreenLogin {
		parts := []string{u.Email}
		if roles := u.RoleNames(); len(roles) > 0 {
			parts = append(parts, strings.Join(roles, ","))
		}
		line = metaStyle.Render(strings.Join(parts, " · "))
	}
	if line != "" {
		lpad := max((a.width-lipgloss.Width(line))/2, 0)
		header += "\n" + strings.Repeat(" ", lpad) + line
	} else {
		header += "\n"
	}
	return header
}

func (a App) View() string {
	var body, help string
	switch a.current.Screen {
	case route.ScreenLogin:
		body = a.login.View()
		help = a.login.helpKeys()
	case route.ScreenDashboard:
		body = a.dashboard.View()
		help = a.dashboard.helpKeys()
	case route.ScreenAdmin:
		body = a.admin.View()
		help = a.admin.helpKeys()
	case route.ScreenConfiguration:
		body = a.config.View()
		help = a.config.helpKeys()
	case route.ScreenAPIKeys:
		if a.config.allowed {
			body = a.apiKeys.View()
			help = a.apiKeys.helpKeys()
		} else {
			body = a.config.View()
			help = a.config.helpKeys()
		}
	case route.ScreenIntegrationKeys:
		body = a.integ.View()
		help = a.integ.helpKeys()
	case route.ScreenTrain:
		body = a.train.View()
		help = a.train.helpKeys()
	}

	if a.helpOpen {
		body = helpView(helpItems(a.env.apiURL), a.helpCursor)
		help = helpBar("j/k", "nav", "enter", "open", "esc", "close")
	}

	_, bodyHeight := a.bodySize()
	body = strings.TrimRight(truncateToHeight(body, bodyHeight), "\n")

	if a.current.Screen != route.ScreenLogin && !a.helpOpen {
		menu := menuStyle.Width(menuWidth).Render(a.menu.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, menu, " "+body)
	}

	status := ""
	switch {
	case a.loggingOut:
		status = dimStyle.Render("signing out...")
	case a.flash != "":
		status = accentStyle.Render(a.flash)
	}
	if status != "" {
		help = status + "  " + help
	}

	return a.header() + "\n" + body + "\n\n " + help
}
