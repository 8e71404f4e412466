package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		path      string
		want      Screen
		protected bool
		param     string
	}{
		{"/login", ScreenLogin, false, ""},
		{"/dashboard", ScreenDashboard, true, ""},
		{"/dashboard/", ScreenDashboard, true, ""},
		{"dashboard", ScreenDashboard, true, ""},
		{"/admin", ScreenAdmin, true, ""},
		{"/integration-keys", ScreenIntegrationKeys, true, ""},
		{"/configuration", ScreenConfiguration, true, ""},
		{"/configuration/api-keys", ScreenAPIKeys, true, ""},
		{"/train/bot-42", ScreenTrain, true, "bot-42"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m, err := Resolve(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Screen)
			assert.Equal(t, tt.protected, m.Protected)
			assert.Equal(t, tt.param, m.Param("chatbotId"))
		})
	}
}

func TestResolve_NotFound(t *testing.T) {
	for _, p := range []string{"", "/", "/nope", "/train", "/train/", "/train/a/b", "/configuration/other"} {
		_, err := Resolve(p)
		assert.ErrorIs(t, err, ErrNotFound, "path %q", p)
	}
}

func TestTrainPath(t *testing.T) {
	assert.Equal(t, "/train/abc", TrainPath("abc"))
}

type fakeAuth bool

func (f fakeAuth) IsLoggedIn() bool { return bool(f) }

func TestGuard(t *testing.T) {
	denied := NewGuard(fakeAuth(false)).CanActivate(Dashboard)
	assert.False(t, denied.Allowed)
	assert.Equal(t, Login, denied.Redirect)

	allowed := NewGuard(fakeAuth(true)).CanActivate(Admin)
	assert.True(t, allowed.Allowed)
	assert.Empty(t, allowed.Redirect)

	assert.False(t, NewGuard(nil).CanActivate(Admin).Allowed)
}

type switchAuth struct{ on bool }

func (s *switchAuth) IsLoggedIn() bool { return s.on }

func TestRouter(t *testing.T) {
	auth := &switchAuth{}
	r := NewRouter(NewGuard(auth))
	assert.Equal(t, ScreenLogin, r.Current().Screen)

	m := r.Navigate(Dashboard)
	assert.Equal(t, ScreenLogin, m.Screen, "denied while signed out")

	m = r.Navigate("")
	assert.Equal(t, ScreenLogin, m.Screen)
	m = r.Navigate("/elsewhere")
	assert.Equal(t, ScreenLogin, m.Screen)

	auth.on = true
	m = r.Navigate(Dashboard)
	assert.Equal(t, ScreenDashboard, m.Screen)
	m = r.Navigate(TrainPath("bot"))
	assert.Equal(t, ScreenTrain, m.Screen)
	assert.Equal(t, "bot", m.Param("chatbotId"))

	back, ok := r.Back()
	require.True(t, ok)
	assert.Equal(t, ScreenDashboard, back.Screen)

	auth.on = false
	back, ok = r.Back()
	require.True(t, ok)
	assert.Equal(t, ScreenLogin, back.Screen)

	r.Navigate(Login)
	assert.Equal(t, ScreenLogin, r.Reset().Screen)
	_, ok = r.Back()
	assert.False(t, ok)
}
