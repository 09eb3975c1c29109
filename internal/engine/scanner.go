package engine

import (
	"sort"

	"github.com/yourusername/valuebet-bot/internal/models"
)

// ScanParams are the tunable thresholds for value detection.
type ScanParams struct {
	// ValueThreshold is the minimum edge (p*odds - 1) a signal must exceed.
	ValueThreshold float64
	// MinProbability gates out outcomes the model itself considers
	// unlikely; high edge alone is not sufficient, since it is most often
	// produced by the model being confident-but-wrong on rare events with
	// inflated odds.
	MinProbability float64
	// TopN truncates the sorted signal list; zero or negative disables
	// truncation.
	TopN int
}

// DefaultScanParams returns the standard thresholds.
func DefaultScanParams() ScanParams {
	return ScanParams{
		ValueThreshold: 0.05,
		MinProbability: 0.55,
		TopN:           5,
	}
}

// ValueSignal is one qualifying value opportunity. It is ephemeral: produced
// per scan and handed to the persistence/notification layers.
type ValueSignal struct {
	Fixture     models.Fixture `json:"fixture"`
	Market      models.Market  `json:"market"`
	Bookmaker   string         `json:"bookmaker"`
	Odds        float64        `json:"odds"`
	Probability float64        `json:"probability"`
	Edge        float64        `json:"edge"`
}

// Edge computes the fractional expected advantage of a bet.
func Edge(probability, odds float64) float64 {
	return probability*odds - 1
}

// ScanFixture compares the model's probabilities against the supplied
// quotes and returns the qualifying value signals, sorted and truncated
// per the params.
//
// Markets with no quote are skipped; odds coverage is allowed to be
// partial. Malformed quotes (odds <= 1.0) are rejected per quote and never
// abort the rest of the scan. Multiple bookmakers pricing the same market
// are de-duplicated down to the best edge.
func ScanFixture(fixture models.Fixture, pred *Prediction, quotes []models.OddsQuote, params ScanParams) []ValueSignal {
	best := make(map[models.Market]ValueSignal)
	for _, q := range quotes {
		if q.Validate() != nil {
			continue
		}
		probability, ok := pred.Probability(q.Market)
		if !ok {
			continue
		}
		edge := Edge(probability, q.Odds)
		if edge <= params.ValueThreshold || probability < params.MinProbability {
			continue
		}
		signal := ValueSignal{
			Fixture:     fixture,
			Market:      q.Market,
			Bookmaker:   q.Bookmaker,
			Odds:        q.Odds,
			Probability: probability,
			Edge:        edge,
		}
		if existing, ok := best[q.Market]; !ok || signal.Edge > existing.Edge {
			best[q.Market] = signal
		}
	}

	signals := make([]ValueSignal, 0, len(best))
	for _, s := range best {
		signals = append(signals, s)
	}
	SortSignals(signals)
	return Truncate(signals, params.TopN)
}

// SortSignals orders signals descending by edge, ties broken by descending
// probability and then by fixture and market identity so identical inputs
// always produce identical output.
func SortSignals(signals []ValueSignal) {
	sort.SliceStable(signals, func(i, j int) bool {
		a, b := signals[i], signals[j]
		if a.Edge != b.Edge {
			return a.Edge > b.Edge
		}
		if a.Probability != b.Probability {
			return a.Probability > b.Probability
		}
		if a.Fixture.ID != b.Fixture.ID {
			return a.Fixture.ID < b.Fixture.ID
		}
		return a.Market < b.Market
	})
}

// Truncate cuts a sorted signal list down to at most n entries.
func Truncate(signals []ValueSignal, n int) []ValueSignal {
	if n > 0 && len(signals) > n {
		return signals[:n]
	}
	return signals
}
