package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/valuebet-bot/internal/models"
)

func scanPrediction(probs map[models.Market]float64) *Prediction {
	return &Prediction{GoalsLine: 2.5, Probabilities: probs}
}

func quote(fixtureID int64, market models.Market, bookmaker string, odds float64) models.OddsQuote {
	return models.OddsQuote{FixtureID: fixtureID, Market: market, Bookmaker: bookmaker, Odds: odds}
}

func TestEdge(t *testing.T) {
	assert.InDelta(t, 0.20, Edge(0.60, 2.00), 1e-12)
	assert.InDelta(t, 0.25, Edge(0.50, 2.50), 1e-12)
	assert.InDelta(t, -0.10, Edge(0.45, 2.00), 1e-12)
}

func TestScanFixtureDualGate(t *testing.T) {
	fixture := testFixture()
	pred := scanPrediction(map[models.Market]float64{
		models.MarketHomeWin: 0.60, // edge 0.20 at 2.00: qualifies
		models.MarketUnder:   0.50, // edge 0.25 at 2.50: probability below gate
	})
	quotes := []models.OddsQuote{
		quote(fixture.ID, models.MarketHomeWin, "Winamax", 2.00),
		quote(fixture.ID, models.MarketUnder, "Winamax", 2.50),
	}

	signals := ScanFixture(fixture, pred, quotes, DefaultScanParams())
	require.Len(t, signals, 1)
	assert.Equal(t, models.MarketHomeWin, signals[0].Market)
	assert.InDelta(t, 0.20, signals[0].Edge, 1e-12)
}

func TestScanFixturePartialOddsCoverage(t *testing.T) {
	fixture := testFixture()
	pred := scanPrediction(map[models.Market]float64{
		models.MarketHomeWin: 0.60,
		models.MarketDraw:    0.60,
		models.MarketAwayWin: 0.60,
	})
	// Odds supplied for only two of the three result outcomes: the third
	// is skipped, not an error.
	quotes := []models.OddsQuote{
		quote(fixture.ID, models.MarketHomeWin, "Winamax", 2.00),
		quote(fixture.ID, models.MarketDraw, "Winamax", 2.10),
	}

	signals := ScanFixture(fixture, pred, quotes, DefaultScanParams())
	require.Len(t, signals, 2)
	for _, s := range signals {
		assert.NotEqual(t, models.MarketAwayWin, s.Market)
	}
}

func TestScanFixtureRejectsMalformedQuotes(t *testing.T) {
	fixture := testFixture()
	pred := scanPrediction(map[models.Market]float64{
		models.MarketHomeWin: 0.60,
		models.MarketDraw:    0.60,
	})
	quotes := []models.OddsQuote{
		quote(fixture.ID, models.MarketHomeWin, "Winamax", 0.95), // malformed
		quote(fixture.ID, models.MarketDraw, "Betclic", 2.10),
	}

	// One bad quote must not abort the scan of other outcomes.
	signals := ScanFixture(fixture, pred, quotes, DefaultScanParams())
	require.Len(t, signals, 1)
	assert.Equal(t, models.MarketDraw, signals[0].Market)
}

func TestScanFixtureDeduplicatesPerMarket(t *testing.T) {
	fixture := testFixture()
	pred := scanPrediction(map[models.Market]float64{models.MarketHomeWin: 0.60})
	quotes := []models.OddsQuote{
		quote(fixture.ID, models.MarketHomeWin, "Winamax", 2.00),
		quote(fixture.ID, models.MarketHomeWin, "Betclic", 2.20),
	}

	signals := ScanFixture(fixture, pred, quotes, DefaultScanParams())
	require.Len(t, signals, 1)
	assert.Equal(t, "Betclic", signals[0].Bookmaker)
	assert.InDelta(t, Edge(0.60, 2.20), signals[0].Edge, 1e-12)
}

func TestScanFixtureOrderingAndTruncation(t *testing.T) {
	fixture := testFixture()
	pred := scanPrediction(map[models.Market]float64{
		models.MarketHomeWin: 0.58,
		models.MarketOver:    0.62,
		models.MarketBTTSYes: 0.70,
		models.MarketUnder:   0.56,
	})
	quotes := []models.OddsQuote{
		quote(fixture.ID, models.MarketHomeWin, "Winamax", 2.00), // edge 0.16
		quote(fixture.ID, models.MarketOver, "Winamax", 2.00),    // edge 0.24
		quote(fixture.ID, models.MarketBTTSYes, "Winamax", 1.80), // edge 0.26
		quote(fixture.ID, models.MarketUnder, "Winamax", 1.95),   // edge 0.092
	}

	params := DefaultScanParams()
	params.TopN = 3

	signals := ScanFixture(fixture, pred, quotes, params)
	require.Len(t, signals, 3)
	assert.Equal(t, models.MarketBTTSYes, signals[0].Market)
	assert.Equal(t, models.MarketOver, signals[1].Market)
	assert.Equal(t, models.MarketHomeWin, signals[2].Market)
}

func TestScanFixtureDeterministic(t *testing.T) {
	fixture := testFixture()
	pred := scanPrediction(map[models.Market]float64{
		models.MarketHomeWin: 0.60,
		models.MarketOver:    0.60,
		models.MarketBTTSYes: 0.60,
	})
	// Identical edges and probabilities: ordering must still be stable.
	quotes := []models.OddsQuote{
		quote(fixture.ID, models.MarketOver, "Winamax", 2.00),
		quote(fixture.ID, models.MarketBTTSYes, "Winamax", 2.00),
		quote(fixture.ID, models.MarketHomeWin, "Winamax", 2.00),
	}

	first := ScanFixture(fixture, pred, quotes, DefaultScanParams())
	second := ScanFixture(fixture, pred, quotes, DefaultScanParams())
	assert.Equal(t, first, second)

	require.Len(t, first, 3)
	assert.Equal(t, models.MarketBTTSYes, first[0].Market)
	assert.Equal(t, models.MarketHomeWin, first[1].Market)
	assert.Equal(t, models.MarketOver, first[2].Market)
}
