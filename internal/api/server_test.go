package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/polity/internal/catalog"
	"github.com/talgya/polity/internal/config"
	"github.com/talgya/polity/internal/engine"
	"github.com/talgya/polity/internal/finance"
	"github.com/talgya/polity/internal/persistence"
	"github.com/talgya/polity/internal/store"
)

func testServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	game, err := engine.NewGame(engine.Setup{
		Catalog: cat,
		Country: "usa",
		Seed:    3,
		Game: config.Game{
			ElectionLevel:   finance.LevelNational,
			LawID:           "federal",
			Seats:           10,
			Dominant:        []string{"conservative", "progressive"},
			MembersPerParty: 3,
			ElectionDay:     90,
			StartDate:       "2028-05-01",
		},
	})
	require.NoError(t, err)
	game.TickDay(1)

	db, err := persistence.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	w := game.Checkpoint()
	require.NoError(t, db.SaveWorld(w))
	game.Committed(w)

	s := &Server{Game: game, Clock: engine.NewClock(), DB: db, AdminKey: "secret"}
	return s, s.Handler()
}

func do(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func playerOf(t *testing.T, s *Server) string {
	t.Helper()
	var id string
	s.Game.Snapshot().Base().Each(func(aid string, ident store.Identity) bool {
		if ident.IsPlayer {
			id = aid
			return false
		}
		return true
	})
	require.NotEmpty(t, id)
	return id
}

func TestStatus(t *testing.T) {
	_, h := testServer(t)
	var got struct {
		Name string        `json:"name"`
		Game engine.Status `json:"game"`
	}
	decode(t, do(h, http.MethodGet, "/api/v1/status", "", ""), &got)
	assert.Equal(t, "Polity", got.Name)
	assert.Equal(t, 1, got.Game.Day)
	assert.Equal(t, "2028-05-01", got.Game.Date)
}

func TestActorsFilterAndDetail(t *testing.T) {
	s, h := testServer(t)
	party := s.Game.Parties()[0]

	var list []map[string]any
	decode(t, do(h, http.MethodGet, "/api/v1/actors?party="+party.ID, "", ""), &list)
	require.NotEmpty(t, list)
	for _, a := range list {
		assert.Equal(t, party.ID, a["party_id"])
	}

	pid := playerOf(t, s)
	var detail struct {
		Actor     map[string]any      `json:"actor"`
		Donations []finance.Donation `json:"recent_donations"`
	}
	decode(t, do(h, http.MethodGet, "/api/v1/actor/"+pid+"?donations=5", "", ""), &detail)
	assert.Equal(t, pid, detail.Actor["id"])
	assert.LessOrEqual(t, len(detail.Donations), 5)
	assert.NotEmpty(t, detail.Donations)

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/v1/actor/nobody", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/api/v1/actor/", "", "").Code)
}

func TestPartiesAndDetail(t *testing.T) {
	s, h := testServer(t)

	var list []map[string]any
	decode(t, do(h, http.MethodGet, "/api/v1/parties", "", ""), &list)
	assert.Len(t, list, len(s.Game.Parties()))

	id := s.Game.Parties()[0].ID
	var p map[string]any
	decode(t, do(h, http.MethodGet, "/api/v1/party/"+id, "", ""), &p)
	assert.Equal(t, id, p["id"])

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/v1/party/ghost", "", "").Code)
}

func TestStoreGroup(t *testing.T) {
	s, h := testServer(t)
	var got struct {
		Count int      `json:"count"`
		IDs   []string `json:"ids"`
	}
	decode(t, do(h, http.MethodGet, "/api/v1/store/finances", "", ""), &got)
	assert.Equal(t, s.Game.Snapshot().Len(), got.Count)

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/v1/store/horoscope", "", "").Code)
}

func TestStances(t *testing.T) {
	s, h := testServer(t)
	var got struct {
		Counts map[string]int `json:"counts"`
	}
	decode(t, do(h, http.MethodGet, "/api/v1/stances/income_tax", "", ""), &got)
	total := 0
	for _, n := range got.Counts {
		total += n
	}
	assert.Positive(t, total)
	assert.LessOrEqual(t, total, s.Game.Snapshot().Len())
}

func TestAdminAuth(t *testing.T) {
	s, h := testServer(t)

	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodPost, "/api/v1/speed", `{"speed":5}`, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodPost, "/api/v1/speed", `{"speed":5}`, "wrong").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/v1/speed", `{"speed":-1}`, "secret").Code)

	var got map[string]float64
	decode(t, do(h, http.MethodPost, "/api/v1/speed", `{"speed":5}`, "secret"), &got)
	assert.Equal(t, 5.0, got["speed"])
	assert.Equal(t, 5.0, s.Clock.Speed())

	s.AdminKey = ""
	assert.Equal(t, http.StatusForbidden, do(h, http.MethodPost, "/api/v1/speed", `{"speed":1}`, "secret").Code)
}

func TestSpeedWhileClockRuns(t *testing.T) {
	s, h := testServer(t)
	s.Clock.Interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Clock.Run(ctx)
		close(done)
	}()

	for i := 0; i < 50; i++ {
		body := fmt.Sprintf(`{"speed":%d}`, i%5)
		assert.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/v1/speed", body, "secret").Code)
		assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/v1/status", "", "").Code)
	}
	cancel()
	<-done
	assert.Equal(t, 4.0, s.Clock.Speed())
}

func TestPolicyEndpoint(t *testing.T) {
	_, h := testServer(t)

	var list []map[string]any
	decode(t, do(h, http.MethodGet, "/api/v1/policy", "", ""), &list)
	assert.NotEmpty(t, list)

	var got struct {
		Applied int `json:"applied"`
	}
	decode(t, do(h, http.MethodPost, "/api/v1/policy", `{"id":"sales_tax_hike"}`, "secret"), &got)
	assert.Positive(t, got.Applied)

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodPost, "/api/v1/policy", `{"id":"nope"}`, "secret").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/v1/policy", `{}`, "secret").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(h, http.MethodDelete, "/api/v1/policy", "", "").Code)

	var state map[string]any
	decode(t, do(h, http.MethodGet, "/api/v1/state", "", ""), &state)
	assert.Contains(t, state, "national")
}

func TestCORS(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://polity.example")
	_, h := testServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/status", nil)
	req.Header.Set("Origin", "https://polity.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://polity.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
	assert.Equal(t, 61, rl.RetryAfter("a"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"))
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	h := RateLimitMiddleware(rl, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	send := func(method, xff string) int {
		req := httptest.NewRequest(method, "/", nil)
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "10.0.0.1, 10.0.0.9"))
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPost, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, send(http.MethodGet, "10.0.0.1"), "reads are not counted")
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "10.0.0.2"))
}
