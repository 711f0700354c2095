package integrations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenServer issues a fixed access token for any grant
func tokenServer(t *testing.T, grants *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		atomic.AddInt32(grants, 1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "token-" + r.Form.Get("grant_type"),
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
}

func TestOutlookSync(t *testing.T) {
	var grants int32
	login := tokenServer(t, &grants)
	defer login.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-client_credentials", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/v1.0/users/me@example.com/messages":
			w.Write([]byte(`{"value": [{"id": "1"}, {"id": "2"}, {"id": "3"}]}`))
		case "/v1.0/users/me@example.com/events":
			w.Write([]byte(`{"value": [{"id": "e1"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer api.Close()

	graph := NewGraph(GraphConfig{
		ClientID:      "id",
		ClientSecret:  "secret",
		TenantID:      "tenant",
		User:          "me@example.com",
		Endpoint:      api.URL + "/v1.0/",
		LoginEndpoint: login.URL,
	})
	require.True(t, graph.Configured())

	summary, err := graph.Outlook().Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Successfully synced 3 emails and 1 calendar events from Outlook.", summary)
	assert.Equal(t, int32(1), atomic.LoadInt32(&grants), "token is cached between calls")
}

func TestOneDriveSyncFailure(t *testing.T) {
	var grants int32
	login := tokenServer(t, &grants)
	defer login.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/drive/root/children", r.URL.Path)
		http.Error(w, `{"error": "forbidden"}`, http.StatusForbidden)
	}))
	defer api.Close()

	graph := NewGraph(GraphConfig{ClientID: "id", ClientSecret: "s", TenantID: "t", Endpoint: api.URL, LoginEndpoint: login.URL})
	summary, err := graph.OneDrive().Sync(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, "Failed to sync OneDrive data.", summary)
}

func TestGraphNotConfigured(t *testing.T) {
	graph := NewGraph(GraphConfig{ClientID: "id"})
	assert.False(t, graph.Configured())
	assert.False(t, graph.Outlook().Configured())
	assert.Equal(t, "OneDrive", graph.OneDrive().Name())
}

func TestGraphScope(t *testing.T) {
	assert.Equal(t, "https://graph.microsoft.com/.default", graphScope("https://graph.microsoft.com/v1.0"))
	assert.Equal(t, "https://graph.microsoft.com/.default", graphScope(""))
	assert.Equal(t, "http://127.0.0.1:8080/.default", graphScope("http://127.0.0.1:8080/beta"))
}

func TestTimeTreeSync(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calendars/cal-1/upcoming_events", r.URL.Path)
		assert.Equal(t, "application/vnd.timetree.v1+json", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer tt-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data": [{"id": "a"}, {"id": "b"}]}`))
	}))
	defer api.Close()

	tt := NewTimeTree(TimeTreeConfig{AccessToken: "tt-token", CalendarID: "cal-1", Endpoint: api.URL})
	require.True(t, tt.Configured())

	summary, err := tt.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Successfully synced 2 events from TimeTree calendar.", summary)
}

func TestTimeTreeSyncFailure(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer api.Close()

	tt := NewTimeTree(TimeTreeConfig{AccessToken: "bad", CalendarID: "cal", Endpoint: api.URL})
	summary, err := tt.Sync(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "Failed to sync calendar data.", summary)
}

func TestGmailSync(t *testing.T) {
	var grants int32
	login := tokenServer(t, &grants)
	defer login.Close()

	var fetched int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-refresh_token", r.Header.Get("Authorization"))
		switch {
		case r.URL.Path == "/users/me/messages":
			assert.Equal(t, "10", r.URL.Query().Get("maxResults"))
			w.Write([]byte(`{"messages": [{"id": "m1"}, {"id": "m2"}]}`))
		case strings.HasPrefix(r.URL.Path, "/users/me/messages/"):
			atomic.AddInt32(&fetched, 1)
			w.Write([]byte(`{"id": "` + strings.TrimPrefix(r.URL.Path, "/users/me/messages/") + `"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer api.Close()

	gmail := NewGmail(GmailConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		RefreshToken: "refresh",
		Endpoint:     api.URL,
		TokenURL:     login.URL,
	})
	require.True(t, gmail.Configured())

	summary, err := gmail.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Successfully synced 2 emails from Gmail.", summary)
	assert.Equal(t, int32(2), atomic.LoadInt32(&fetched))
}

func TestGmailNotConfigured(t *testing.T) {
	assert.False(t, NewGmail(GmailConfig{ClientID: "id"}).Configured())
}
