// Package api provides the HTTP API for observing and steering a game.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/polity/internal/engine"
	"github.com/talgya/polity/internal/persistence"
	"github.com/talgya/polity/internal/store"
)

const defaultDonationLimit = 20

// Server serves the game over HTTP.
type Server struct {
	Game     *engine.Game
	Clock    *engine.Clock
	DB       *persistence.DB // optional; donation history is omitted without it
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Handler builds the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	policyLimiter := NewRateLimiter(30, time.Hour)

	mux := http.NewServeMux()

	// Public endpoints.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/actors", s.handleActors)
	mux.HandleFunc("/api/v1/actor/", s.handleActorDetail)
	mux.HandleFunc("/api/v1/parties", s.handleParties)
	mux.HandleFunc("/api/v1/party/", s.handlePartyDetail)
	mux.HandleFunc("/api/v1/store/", s.handleStoreGroup)
	mux.HandleFunc("/api/v1/stances/", s.handleStances)
	mux.HandleFunc("/api/v1/state", s.handleState)

	// Admin endpoints (POST requires bearer token).
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("/api/v1/policy", s.adminOnly(RateLimitMiddleware(policyLimiter, s.handlePolicy)))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && token == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no POLITY_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

// pathID returns the path segment after prefix.
func pathID(r *http.Request, prefix string) string {
	return strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"name": "Polity",
		"game": s.Game.Status(),
	}
	if s.Clock != nil {
		status["speed"] = s.Clock.Speed()
		status["running"] = s.Clock.Running()
	}
	writeJSON(w, status)
}

func (s *Server) handleActors(w http.ResponseWriter, r *http.Request) {
	party := r.URL.Query().Get("party")
	office := r.URL.Query().Get("office")

	type actorSummary struct {
		ID            string  `json:"id"`
		Name          string  `json:"name"`
		PartyID       string  `json:"party_id"`
		PartyName     string  `json:"party_name"`
		Office        string  `json:"current_office,omitempty"`
		IsIncumbent   bool    `json:"is_incumbent"`
		IsPlayer      bool    `json:"is_player"`
		CampaignFunds float64 `json:"campaign_funds"`
		TotalRaised   float64 `json:"total_raised"`
	}

	snap := s.Game.Snapshot()
	result := make([]actorSummary, 0, snap.Len())
	snap.Base().Each(func(id string, ident store.Identity) bool {
		if party != "" && ident.PartyID != party {
			return true
		}
		if office != "" && !strings.EqualFold(ident.CurrentOffice, office) {
			return true
		}
		lean, _ := snap.RehydrateLean(id)
		result = append(result, actorSummary{
			ID:            id,
			Name:          ident.Name,
			PartyID:       ident.PartyID,
			PartyName:     ident.PartyName,
			Office:        ident.CurrentOffice,
			IsIncumbent:   ident.IsIncumbent,
			IsPlayer:      ident.IsPlayer,
			CampaignFunds: lean.Finances.CampaignFunds,
			TotalRaised:   lean.Finances.Record.TotalRaised,
		})
		return true
	})
	writeJSON(w, result)
}

func (s *Server) handleActorDetail(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/v1/actor/")
	if id == "" {
		http.Error(w, "missing actor id", http.StatusBadRequest)
		return
	}
	p, ok := s.Game.Snapshot().Rehydrate(id)
	if !ok {
		http.Error(w, "actor not found", http.StatusNotFound)
		return
	}

	result := map[string]any{"actor": p}
	if s.DB != nil {
		limit := defaultDonationLimit
		if n, err := strconv.Atoi(r.URL.Query().Get("donations")); err == nil && n > 0 {
			limit = min(n, 500)
		}
		donations, err := s.DB.RecentDonations(id, limit)
		if err != nil {
			slog.Error("loading donations", "actor", id, "error", err)
			http.Error(w, "donation history unavailable", http.StatusInternalServerError)
			return
		}
		result["recent_donations"] = donations
	}
	writeJSON(w, result)
}

func (s *Server) handleParties(w http.ResponseWriter, r *http.Request) {
	type partySummary struct {
		ID         string  `json:"id"`
		Name       string  `json:"name"`
		Color      string  `json:"color"`
		Ideology   string  `json:"ideology"`
		ChairName  string  `json:"chair_name"`
		Members    int     `json:"members"`
		Factions   int     `json:"factions"`
		Committees int     `json:"committees"`
		Treasury   float64 `json:"treasury"`
		Raised     float64 `json:"total_raised"`
		IsMinority bool    `json:"is_minority"`
	}

	parties := s.Game.Parties()
	result := make([]partySummary, 0, len(parties))
	for _, p := range parties {
		result = append(result, partySummary{
			ID:         p.ID,
			Name:       p.Name,
			Color:      p.Color,
			Ideology:   p.IdeologyName,
			ChairName:  p.ChairName,
			Members:    len(p.MemberIDs),
			Factions:   len(p.Factions),
			Committees: len(p.Committees),
			Treasury:   p.Finances.Treasury,
			Raised:     p.Finances.TotalRaised,
			IsMinority: p.IsMinority,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Members > result[j].Members })
	writeJSON(w, result)
}

func (s *Server) handlePartyDetail(w http.ResponseWriter, r *http.Request) {
	p, ok := s.Game.Party(pathID(r, "/api/v1/party/"))
	if !ok {
		http.Error(w, "party not found", http.StatusNotFound)
		return
	}
	writeJSON(w, p)
}

// handleStoreGroup lists the actor ids present in one attribute group.
func (s *Server) handleStoreGroup(w http.ResponseWriter, r *http.Request) {
	group := store.Group(pathID(r, "/api/v1/store/"))
	ids, err := s.Game.Snapshot().GroupIDs(group)
	if errors.Is(err, store.ErrUnknownGroup) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{"group": group, "count": len(ids), "ids": ids})
}

func (s *Server) handleStances(w http.ResponseWriter, r *http.Request) {
	question := pathID(r, "/api/v1/stances/")
	if question == "" {
		http.Error(w, "missing question id", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{
		"question": question,
		"counts":   s.Game.Snapshot().StanceCounts(question),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Game.State())
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if s.Clock == nil {
		http.Error(w, "clock not running", http.StatusServiceUnavailable)
		return
	}
	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Speed < 0 || req.Speed > 1000 {
			http.Error(w, "speed must be 0-1000", http.StatusBadRequest)
			return
		}
		s.Clock.SetSpeed(req.Speed)
		slog.Info("speed changed", "speed", req.Speed)
	}

	writeJSON(w, map[string]float64{"speed": s.Clock.Speed()})
}

// handlePolicy lists enactable policies on GET and enacts one on POST.
func (s *Server) handlePolicy(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, s.Game.Policies())
	case http.MethodPost:
		var req struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
			http.Error(w, "invalid json: need {\"id\": ...}", http.StatusBadRequest)
			return
		}
		applied, err := s.Game.EnactPolicy(req.ID)
		if errors.Is(err, engine.ErrUnknownPolicy) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		slog.Info("policy enacted via API", "policy", req.ID, "applied", applied)
		writeJSON(w, map[string]any{"policy": req.ID, "applied": applied})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		slog.Debug("writing response", "error", err)
	}
}
