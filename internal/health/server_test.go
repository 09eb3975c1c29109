package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/valuebet-bot/internal/models"
)

// stubBetRepo serves canned data to the handlers.
type stubBetRepo struct {
	recent []*models.ValueBet
	today  []*models.ValueBet
	stats  *models.BetStats
	err    error
}

func (s *stubBetRepo) Create(context.Context, *models.ValueBet) error { return nil }
func (s *stubBetRepo) GetByID(context.Context, uuid.UUID) (*models.ValueBet, error) {
	return nil, models.ErrNotFound
}
func (s *stubBetRepo) GetRecent(context.Context, int) ([]*models.ValueBet, error) {
	return s.recent, s.err
}
func (s *stubBetRepo) GetByMatchDate(context.Context, string) ([]*models.ValueBet, error) {
	return s.today, s.err
}
func (s *stubBetRepo) GetPendingBefore(context.Context, string) ([]*models.ValueBet, error) {
	return nil, nil
}
func (s *stubBetRepo) Settle(context.Context, uuid.UUID, string, bool) error { return nil }
func (s *stubBetRepo) MarkNotified(context.Context, []uuid.UUID) error       { return nil }
func (s *stubBetRepo) GetStats(context.Context) (*models.BetStats, error)    { return s.stats, s.err }

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestServer(repo *stubBetRepo, db DatabasePinger) *Server {
	return NewServer(Config{
		ServiceName: "valuebet-bot",
		Version:     "test",
		Port:        5000,
		DB:          db,
		Bets:        repo,
	})
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&stubBetRepo{}, nil)

	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "valuebet-bot", resp.Service)
}

func TestHandleReady(t *testing.T) {
	tests := []struct {
		name     string
		ready    bool
		pingErr  error
		wantCode int
	}{
		{"ready with healthy db", true, nil, http.StatusOK},
		{"not marked ready", false, nil, http.StatusServiceUnavailable},
		{"db unreachable", true, errors.New("connection refused"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&stubBetRepo{}, stubPinger{err: tt.pingErr})
			srv.SetReady(tt.ready)

			rec := httptest.NewRecorder()
			srv.handleReady(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandleBets(t *testing.T) {
	repo := &stubBetRepo{
		recent: []*models.ValueBet{
			{ID: uuid.New(), HomeTeam: "Lyon", AwayTeam: "Lille", Market: models.MarketHomeWin},
		},
	}
	srv := newTestServer(repo, nil)

	rec := httptest.NewRecorder()
	srv.handleBets(rec, httptest.NewRequest(http.MethodGet, "/api/bets", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var bets []*models.ValueBet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bets))
	require.Len(t, bets, 1)
	assert.Equal(t, "Lyon", bets[0].HomeTeam)
}

func TestHandleBetsRepositoryError(t *testing.T) {
	srv := newTestServer(&stubBetRepo{err: errors.New("db down")}, nil)

	rec := httptest.NewRecorder()
	srv.handleBets(rec, httptest.NewRequest(http.MethodGet, "/api/bets", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleStats(t *testing.T) {
	repo := &stubBetRepo{stats: &models.BetStats{Total: 12, Wins: 7, Losses: 3, Pending: 2, HitRatePct: 70}}
	srv := newTestServer(repo, nil)

	rec := httptest.NewRecorder()
	srv.handleStats(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var stats models.BetStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 12, stats.Total)
	assert.Equal(t, float64(70), stats.HitRatePct)
}

func TestHandleLive(t *testing.T) {
	today := time.Now().UTC().Format("2006-01-02")
	repo := &stubBetRepo{
		today: []*models.ValueBet{{ID: uuid.New(), MatchDate: today, HomeTeam: "Nice"}},
	}
	srv := newTestServer(repo, nil)

	rec := httptest.NewRecorder()
	srv.handleLive(rec, httptest.NewRequest(http.MethodGet, "/api/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var bets []*models.ValueBet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bets))
	require.Len(t, bets, 1)
	assert.Equal(t, today, bets[0].MatchDate)
}
