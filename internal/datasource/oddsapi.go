package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/valuebet-bot/internal/models"
)

// leagueSportKeys maps API-Sports league IDs to The Odds API sport keys.
var leagueSportKeys = map[int]string{
	61: "soccer_france_ligue_one",
	39: "soccer_epl",
}

// trackedBookmakers limits responses to the books the engine follows.
const trackedBookmakers = "winamax,betclic,bet365,williamhill,unibet"

// OddsAPIClient fetches bookmaker quotes from The Odds API.
type OddsAPIClient struct {
	http    *RateLimitedHTTPClient
	baseURL string
	apiKey  string
	log     *logrus.Logger
}

// NewOddsAPIClient creates a new Odds API client
func NewOddsAPIClient(http *RateLimitedHTTPClient, baseURL, apiKey string, log *logrus.Logger) *OddsAPIClient {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &OddsAPIClient{
		http:    http,
		baseURL: baseURL,
		apiKey:  apiKey,
		log:     log,
	}
}

type oddsEventPayload struct {
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	Bookmakers []struct {
		Key     string `json:"key"`
		Markets []struct {
			Key      string `json:"key"`
			Outcomes []struct {
				Name  string      `json:"name"`
				Price json.Number `json:"price"`
				Point *float64    `json:"point"`
			} `json:"outcomes"`
		} `json:"markets"`
	} `json:"bookmakers"`
}

// FetchOdds retrieves quotes for a league's upcoming matches. Markets the
// bookmaker does not price are simply absent from the event's quote list.
func (c *OddsAPIClient) FetchOdds(ctx context.Context, leagueID int, goalsLine float64) ([]OddsEvent, error) {
	sportKey, ok := leagueSportKeys[leagueID]
	if !ok {
		return nil, fmt.Errorf("no sport key mapping for league %d: %w", leagueID, models.ErrNotFound)
	}

	params := url.Values{
		"apiKey":     {c.apiKey},
		"regions":    {"eu"},
		"markets":    {"h2h,totals,btts"},
		"oddsFormat": {"decimal"},
		"bookmakers": {trackedBookmakers},
	}
	endpoint := fmt.Sprintf("%s/sports/%s/odds?%s", c.baseURL, sportKey, params.Encode())

	var payload []oddsEventPayload
	if err := c.http.GetJSON(ctx, endpoint, nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch odds for league %d: %w", leagueID, err)
	}

	events := make([]OddsEvent, 0, len(payload))
	for _, ev := range payload {
		event := OddsEvent{HomeTeam: ev.HomeTeam, AwayTeam: ev.AwayTeam}
		for _, book := range ev.Bookmakers {
			for _, market := range book.Markets {
				for _, outcome := range market.Outcomes {
					m, ok := mapOutcome(market.Key, outcome.Name, outcome.Point, ev.HomeTeam, ev.AwayTeam, goalsLine)
					if !ok {
						continue
					}
					price, err := models.ParseOdds(outcome.Price.String())
					if err != nil {
						c.log.WithError(err).WithField("bookmaker", book.Key).Debug("Skipping malformed quote")
						continue
					}
					event.Quotes = append(event.Quotes, models.OddsQuote{
						Bookmaker: book.Key,
						Market:    m,
						Odds:      price,
					})
				}
			}
		}
		if len(event.Quotes) > 0 {
			events = append(events, event)
		}
	}

	c.log.WithFields(logrus.Fields{
		"league": leagueID,
		"sport":  sportKey,
		"events": len(events),
	}).Debug("Fetched odds events")

	return events, nil
}

// mapOutcome translates an Odds API (market, outcome) pair into one of the
// engine's market identifiers. Totals quotes at a different line than the
// engine's are dropped rather than mislabeled.
func mapOutcome(marketKey, name string, point *float64, home, away string, goalsLine float64) (models.Market, bool) {
	switch marketKey {
	case "h2h":
		switch name {
		case home:
			return models.MarketHomeWin, true
		case away:
			return models.MarketAwayWin, true
		case "Draw":
			return models.MarketDraw, true
		}
	case "totals":
		if point == nil || *point != goalsLine {
			return "", false
		}
		switch name {
		case "Over":
			return models.MarketOver, true
		case "Under":
			return models.MarketUnder, true
		}
	case "btts":
		switch name {
		case "Yes":
			return models.MarketBTTSYes, true
		case "No":
			return models.MarketBTTSNo, true
		}
	}
	return "", false
}

// SupportedLeague reports whether odds coverage exists for the league.
func SupportedLeague(leagueID int) bool {
	_, ok := leagueSportKeys[leagueID]
	return ok
}
