package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Market identifies one outcome of a fixture that can be priced and bet on.
type Market string

// Supported markets. Over/under refer to the configured total-goals line,
// carried separately so the identifiers stay stable across lines.
const (
	MarketHomeWin Market = "home_win"
	MarketDraw    Market = "draw"
	MarketAwayWin Market = "away_win"
	MarketOver    Market = "over"
	MarketUnder   Market = "under"
	MarketBTTSYes Market = "btts_yes"
	MarketBTTSNo  Market = "btts_no"
)

// Label returns the human-readable market name for the given goals line.
func (m Market) Label(goalsLine float64) string {
	switch m {
	case MarketHomeWin:
		return "Home Win"
	case MarketDraw:
		return "Draw"
	case MarketAwayWin:
		return "Away Win"
	case MarketOver:
		return fmt.Sprintf("Over %.1f", goalsLine)
	case MarketUnder:
		return fmt.Sprintf("Under %.1f", goalsLine)
	case MarketBTTSYes:
		return "BTTS Yes"
	case MarketBTTSNo:
		return "BTTS No"
	default:
		return string(m)
	}
}

// ResultMarkets is the mutually exclusive and exhaustive 1X2 group.
var ResultMarkets = []Market{MarketHomeWin, MarketDraw, MarketAwayWin}

// OddsQuote is one bookmaker's decimal odds for one outcome of a fixture.
type OddsQuote struct {
	FixtureID int64   `json:"fixture_id"`
	Bookmaker string  `json:"bookmaker"`
	Market    Market  `json:"market"`
	Odds      float64 `json:"odds"`
}

// Validate rejects malformed quotes. Decimal odds at or below 1.0 carry no
// payout and must never enter edge computation.
func (q OddsQuote) Validate() error {
	if q.Odds <= 1.0 {
		return fmt.Errorf("%w: %s %s @ %.3f", ErrInvalidOdds, q.Bookmaker, q.Market, q.Odds)
	}
	return nil
}

// ParseOdds converts a provider odds string to a float, rejecting
// non-numeric and sub-1.0 values.
func ParseOdds(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidOdds, s)
	}
	odds := d.InexactFloat64()
	if odds <= 1.0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidOdds, s)
	}
	return odds, nil
}
