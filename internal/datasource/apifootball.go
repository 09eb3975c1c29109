package datasource

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/valuebet-bot/internal/models"
)

// APIFootballClient fetches fixtures, standings-derived team statistics and
// results from the API-Sports football API.
type APIFootballClient struct {
	http    *RateLimitedHTTPClient
	cache   *ResponseCache
	baseURL string
	apiKey  string
	log     *logrus.Logger
}

// NewAPIFootballClient creates a new API-Sports client
func NewAPIFootballClient(http *RateLimitedHTTPClient, cache *ResponseCache, baseURL, apiKey string, log *logrus.Logger) *APIFootballClient {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &APIFootballClient{
		http:    http,
		cache:   cache,
		baseURL: baseURL,
		apiKey:  apiKey,
		log:     log,
	}
}

func (c *APIFootballClient) headers() map[string]string {
	return map[string]string{"x-apisports-key": c.apiKey}
}

// API-Sports envelope and payload shapes, reduced to the fields used.

type fixturesResponse struct {
	Response []struct {
		Fixture struct {
			ID     int64  `json:"id"`
			Date   string `json:"date"`
			Status struct {
				Short string `json:"short"`
			} `json:"status"`
		} `json:"fixture"`
		Teams struct {
			Home struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			} `json:"home"`
			Away struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			} `json:"away"`
		} `json:"teams"`
		Goals struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"goals"`
	} `json:"response"`
}

type standingsResponse struct {
	Response []struct {
		League struct {
			Standings [][]struct {
				Team struct {
					ID   int    `json:"id"`
					Name string `json:"name"`
				} `json:"team"`
				Home standingSplit `json:"home"`
				Away standingSplit `json:"away"`
			} `json:"standings"`
		} `json:"league"`
	} `json:"response"`
}

type standingSplit struct {
	Win   int `json:"win"`
	Draw  int `json:"draw"`
	Lose  int `json:"lose"`
	Goals struct {
		For     float64 `json:"for"`
		Against float64 `json:"against"`
	} `json:"goals"`
}

func (s standingSplit) played() int {
	return s.Win + s.Draw + s.Lose
}

// FetchFixtures retrieves not-started fixtures for the league within the
// next daysAhead days.
func (c *APIFootballClient) FetchFixtures(ctx context.Context, leagueID, season, daysAhead int) ([]models.Fixture, error) {
	today := time.Now().UTC()
	params := url.Values{
		"league":   {strconv.Itoa(leagueID)},
		"season":   {strconv.Itoa(season)},
		"from":     {today.Format("2006-01-02")},
		"to":       {today.AddDate(0, 0, daysAhead).Format("2006-01-02")},
		"status":   {"NS"},
		"timezone": {"UTC"},
	}
	endpoint := c.baseURL + "/fixtures?" + params.Encode()

	var payload fixturesResponse
	if err := c.getCached(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch fixtures for league %d: %w", leagueID, err)
	}

	fixtures := make([]models.Fixture, 0, len(payload.Response))
	for _, item := range payload.Response {
		kickoff, err := time.Parse(time.RFC3339, item.Fixture.Date)
		if err != nil {
			c.log.WithError(err).Warnf("Skipping fixture %d with unparseable date %q", item.Fixture.ID, item.Fixture.Date)
			continue
		}
		fixtures = append(fixtures, models.Fixture{
			ID:         item.Fixture.ID,
			LeagueID:   leagueID,
			Season:     season,
			HomeTeamID: item.Teams.Home.ID,
			HomeTeam:   item.Teams.Home.Name,
			AwayTeamID: item.Teams.Away.ID,
			AwayTeam:   item.Teams.Away.Name,
			KickoffUTC: kickoff,
		})
	}
	return fixtures, nil
}

// FetchTeamRatings derives per-team venue-split scoring records from the
// league standings.
func (c *APIFootballClient) FetchTeamRatings(ctx context.Context, leagueID, season int) ([]*models.TeamRating, error) {
	params := url.Values{
		"league": {strconv.Itoa(leagueID)},
		"season": {strconv.Itoa(season)},
	}
	endpoint := c.baseURL + "/standings?" + params.Encode()

	var payload standingsResponse
	if err := c.getCached(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch standings for league %d: %w", leagueID, err)
	}

	var ratings []*models.TeamRating
	for _, group := range payload.Response {
		for _, table := range group.League.Standings {
			for _, entry := range table {
				ratings = append(ratings, &models.TeamRating{
					TeamID:       entry.Team.ID,
					TeamName:     entry.Team.Name,
					LeagueID:     leagueID,
					Season:       season,
					ScoredHome:   models.SplitRecord{Goals: entry.Home.Goals.For, Matches: entry.Home.played()},
					ConcededHome: models.SplitRecord{Goals: entry.Home.Goals.Against, Matches: entry.Home.played()},
					ScoredAway:   models.SplitRecord{Goals: entry.Away.Goals.For, Matches: entry.Away.played()},
					ConcededAway: models.SplitRecord{Goals: entry.Away.Goals.Against, Matches: entry.Away.played()},
					UpdatedAt:    time.Now().UTC(),
				})
			}
		}
	}
	return ratings, nil
}

// Statuses that mean a fixture has a final result.
var finishedStatuses = map[string]bool{"FT": true, "AET": true, "PEN": true}

// FetchResult retrieves the final score of a fixture. Returns nil without
// error when the fixture has not finished yet.
func (c *APIFootballClient) FetchResult(ctx context.Context, fixtureID int64) (*models.FixtureResult, error) {
	endpoint := fmt.Sprintf("%s/fixtures?id=%d", c.baseURL, fixtureID)

	var payload fixturesResponse
	if err := c.http.GetJSON(ctx, endpoint, c.headers(), &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch result for fixture %d: %w", fixtureID, err)
	}
	if len(payload.Response) == 0 {
		return nil, models.ErrNotFound
	}

	item := payload.Response[0]
	if !finishedStatuses[item.Fixture.Status.Short] || item.Goals.Home == nil || item.Goals.Away == nil {
		return &models.FixtureResult{FixtureID: fixtureID, Finished: false}, nil
	}

	return &models.FixtureResult{
		FixtureID: fixtureID,
		HomeGoals: *item.Goals.Home,
		AwayGoals: *item.Goals.Away,
		Finished:  true,
	}, nil
}

func (c *APIFootballClient) getCached(ctx context.Context, endpoint string, out interface{}) error {
	if c.cache != nil {
		if ok := c.cache.Get(endpoint, out); ok {
			return nil
		}
	}
	if err := c.http.GetJSON(ctx, endpoint, c.headers(), out); err != nil {
		return err
	}
	if c.cache != nil {
		c.cache.Set(endpoint, out)
	}
	return nil
}
