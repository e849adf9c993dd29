package http

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/ballot/internal/core/domain"
	"github.com/vncsmyrnk/ballot/internal/core/services"
)

func TestResultsLockedUntilUnlockTime(t *testing.T) {
	unlockAt := time.Date(2025, time.March, 15, 17, 0, 0, 0, time.UTC)
	app := newTestApp(t, "2025-03-15T17:00", func() time.Time { return unlockAt.Add(-time.Minute) })
	b := app.browser(t)
	b.adminLogin()

	var gate services.GateStatus
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/admin/api/results/gate", nil, &gate))
	assert.True(t, gate.Configured)
	assert.False(t, gate.Unlocked)
	assert.Equal(t, "Mar 15, 2025, 5:00 PM", gate.Formatted)

	var resp errorResponse
	require.Equal(t, http.StatusLocked, b.do(http.MethodPost, "/admin/api/results", map[string]string{"password": testResultsPwd}, &resp))
	assert.Equal(t, domain.KindResultsLocked, resp.Kind)
}

func TestResultsAfterUnlock(t *testing.T) {
	app := newTestApp(t, "2000-01-01T00:00", nil)
	b := app.browser(t)
	b.adminLogin()

	var resp errorResponse
	require.Equal(t, http.StatusUnauthorized, b.do(http.MethodPost, "/admin/api/results", map[string]string{"password": "guess"}, &resp))
	assert.Equal(t, domain.KindUnauthorized, resp.Kind)
	assert.Empty(t, resp.Redirect)

	var results resultsResponse
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/admin/api/results", map[string]string{"password": testResultsPwd}, &results))
	require.Len(t, results.Results, 1)
	assert.Equal(t, int64(102), results.Results[0].TotalVotes)
	require.NotNil(t, results.Results[0].Leader)
	assert.Equal(t, "Karma", results.Results[0].Leader.Name)

	// a wrong results password does not end the admin session
	var session map[string]bool
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/admin/api/session", nil, &session))
	assert.True(t, session["authenticated"])
}

func TestResultsRequireAdminSession(t *testing.T) {
	app := newTestApp(t, "2000-01-01T00:00", nil)
	b := app.browser(t)

	for _, req := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/admin/api/results/gate", nil},
		{http.MethodPost, "/admin/api/results", map[string]string{"password": testResultsPwd}},
	} {
		var resp errorResponse
		require.Equal(t, http.StatusUnauthorized, b.do(req.method, req.path, req.body, &resp), req.path)
		assert.Equal(t, domain.KindNoSession, resp.Kind)
		assert.Equal(t, adminLoginPath, resp.Redirect)
	}

	url := "ws" + strings.TrimPrefix(app.server.URL, "http") + "/admin/api/results/gate/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// a voter login grants nothing here
	b.login()
	require.Equal(t, http.StatusUnauthorized, b.do(http.MethodGet, "/admin/api/results/gate", nil, nil))
}

func TestResultsGateWebsocket(t *testing.T) {
	app := newTestApp(t, "2000-01-01T00:00", nil)
	b := app.browser(t)
	b.adminLogin()

	url := "ws" + strings.TrimPrefix(app.server.URL, "http") + "/admin/api/results/gate/ws"
	dialer := websocket.Dialer{Jar: b.client.Jar, HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	for range 2 {
		var st services.GateStatus
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		require.NoError(t, conn.ReadJSON(&st))
		assert.True(t, st.Unlocked)
	}
}
