package domain

// Screen identifiers checked by the console.
const (
	ScreenDashboard         = "DASHBOARD"
	ScreenLeftMenuDashboard = "LEFT_MENU_DASHBOARD"
	ScreenLeftMenuConfig    = "LEFT_MENU_CONFIG"
	ScreenLeftMenuAPIKeys   = "LEFT_MENU_API_KEYS"
	ScreenLeftMenuAdmin     = "LEFT_MENU_ADMIN"
)

// KnownScreens lists every screen identifier the console gates on.
var KnownScreens = []string{
	ScreenDashboard,
	ScreenLeftMenuDashboard,
	ScreenLeftMenuConfig,
	ScreenLeftMenuAPIKeys,
	ScreenLeftMenuAdmin,
}
