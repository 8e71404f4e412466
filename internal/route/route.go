// Package route maps console paths to screens and decides whether a path
// may be entered.
package route

import (
	"errors"
	"fmt"
	"strings"
)

// Paths known to the console.
const (
	Login           = "/login"
	Dashboard       = "/dashboard"
	Admin           = "/admin"
	IntegrationKeys = "/integration-keys"
	Configuration   = "/configuration"
	APIKeys         = "/configuration/api-keys"
	Train           = "/train/:chatbotId"
)

// Screen identifies the view a path renders.
type Screen int

const (
	ScreenLogin Screen = iota + 1
	ScreenDashboard
	ScreenAdmin
	ScreenIntegrationKeys
	ScreenConfiguration
	ScreenAPIKeys
	ScreenTrain
)

func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenDashboard:
		return "dashboard"
	case ScreenAdmin:
		return "admin"
	case ScreenIntegrationKeys:
		return "integration-keys"
	case ScreenConfiguration:
		return "configuration"
	case ScreenAPIKeys:
		return "api-keys"
	case ScreenTrain:
		return "train"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// Route is one entry of the route table.
type Route struct {
	Pattern   string
	Screen    Screen
	Protected bool
}

// Table is the console's route table, matched in order.
var Table = []Route{
	{Pattern: Login, Screen: ScreenLogin},
	{Pattern: Dashboard, Screen: ScreenDashboard, Protected: true},
	{Pattern: Admin, Screen: ScreenAdmin, Protected: true},
	{Pattern: IntegrationKeys, Screen: ScreenIntegrationKeys, Protected: true},
	{Pattern: Configuration, Screen: ScreenConfiguration, Protected: true},
	{Pattern: APIKeys, Screen: ScreenAPIKeys, Protected: true},
	{Pattern: Train, Screen: ScreenTrain, Protected: true},
}

// ErrNotFound is returned by Resolve for a path outside the table.
var ErrNotFound = errors.New("route not found")

// Match is a resolved path.
type Match struct {
	Route
	Path   string
	Params map[string]string
}

// Param returns the named path parameter, or "".
func (m Match) Param(name string) string {
	return m.Params[name]
}

// Resolve matches path against Table. A trailing slash is ignored.
func Resolve(path string) (Match, error) {
	clean := normalize(path)
	for _, r := range Table {
		if params, ok := matchPattern(r.Pattern, clean); ok {
			return Match{Route: r, Path: clean, Params: params}, nil
		}
	}
	return Match{}, fmt.Errorf("%w: %q", ErrNotFound, path)
}

// TrainPath builds the training path for a chatbot.
func TrainPath(chatbotID string) string {
	return strings.Replace(Train, ":chatbotId", chatbotID, 1)
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

func matchPattern(pattern, path string) (map[string]string, bool) {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(xs) {
		return nil, false
	}
	var params map[string]string
	for i, p := range ps {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			if xs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[name] = xs[i]
			continue
		}
		if p != xs[i] {
			return nil, false
		}
	}
	return params, true
}
