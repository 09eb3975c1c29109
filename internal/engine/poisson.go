package engine

import (
	"fmt"
	"math"

	"github.com/yourusername/valuebet-bot/internal/models"
)

const (
	// minWindow guarantees the grid covers scores 0..9 per side.
	minWindow = 10
	// maxWindow bounds computation; a grid of 40x40 captures all but
	// ~1e-12 of the mass at lambda=10, the stability bound the model
	// guarantees.
	maxWindow = 40
	// massTolerance is the captured probability mass required before the
	// grid may be renormalized instead of widened further.
	massTolerance = 1e-9
)

// Prediction holds the derived market probabilities for one fixture.
type Prediction struct {
	Expected      ExpectedGoals              `json:"expected_goals"`
	GoalsLine     float64                    `json:"goals_line"`
	Probabilities map[models.Market]float64  `json:"probabilities"`
}

// Probability returns the model probability for a market, if derived.
func (p *Prediction) Probability(m models.Market) (float64, bool) {
	v, ok := p.Probabilities[m]
	return v, ok
}

// ModelOdds returns the fair decimal odds (1/p) for a market.
func (p *Prediction) ModelOdds(m models.Market) float64 {
	v, ok := p.Probabilities[m]
	if !ok || v <= 0 {
		return 0
	}
	return 1 / v
}

// Distribute builds the independent-Poisson score distribution for the
// expected goals and derives match result, total-goals and both-teams-to-score
// probabilities from it.
//
// The score window starts at 0..9 per side and widens until the captured
// probability mass reaches 1-1e-9, then every cell is rescaled by the
// captured total so each market group sums to exactly 1 up to float
// rounding. If the window cap is reached first the computation surfaces
// models.ErrNumericInstability rather than silently truncating, since a
// truncated tail would bias value detection toward extreme scorelines.
func Distribute(eg ExpectedGoals, goalsLine float64) (*Prediction, error) {
	if !validLambda(eg.Home) || !validLambda(eg.Away) {
		return nil, fmt.Errorf("%w: invalid expected goals (%v, %v)", models.ErrNumericInstability, eg.Home, eg.Away)
	}

	window := minWindow
	var homePMF, awayPMF []float64
	var mass float64
	for {
		homePMF = poissonPMF(eg.Home, window)
		awayPMF = poissonPMF(eg.Away, window)
		// The grid is the outer product, so its total mass is the
		// product of the marginal sums.
		mass = sum(homePMF) * sum(awayPMF)
		if mass >= 1-massTolerance {
			break
		}
		if window >= maxWindow {
			return nil, fmt.Errorf("%w: captured mass %.12f below tolerance at window %d", models.ErrNumericInstability, mass, window)
		}
		window += 5
	}

	var homeWin, draw, awayWin, over, under, bttsYes, bttsNo float64
	for i := 0; i < window; i++ {
		for j := 0; j < window; j++ {
			p := homePMF[i] * awayPMF[j] / mass
			switch {
			case i > j:
				homeWin += p
			case i == j:
				draw += p
			default:
				awayWin += p
			}
			if float64(i+j) > goalsLine {
				over += p
			} else {
				under += p
			}
			if i > 0 && j > 0 {
				bttsYes += p
			} else {
				bttsNo += p
			}
		}
	}

	return &Prediction{
		Expected:  eg,
		GoalsLine: goalsLine,
		Probabilities: map[models.Market]float64{
			models.MarketHomeWin: homeWin,
			models.MarketDraw:    draw,
			models.MarketAwayWin: awayWin,
			models.MarketOver:    over,
			models.MarketUnder:   under,
			models.MarketBTTSYes: bttsYes,
			models.MarketBTTSNo:  bttsNo,
		},
	}, nil
}

// poissonPMF returns P(X=k) for k in [0, n) using the recurrence
// P(k+1) = P(k) * lambda/(k+1), which stays stable for large lambda where
// direct factorial evaluation would overflow.
func poissonPMF(lambda float64, n int) []float64 {
	pmf := make([]float64, n)
	if lambda == 0 {
		pmf[0] = 1
		return pmf
	}
	pmf[0] = math.Exp(-lambda)
	for k := 1; k < n; k++ {
		pmf[k] = pmf[k-1] * lambda / float64(k)
	}
	return pmf
}

func validLambda(lambda float64) bool {
	return lambda >= 0 && !math.IsNaN(lambda) && !math.IsInf(lambda, 0)
}

func sum(xs []float64) float64 {
	var total float64
	for _, x := range xs {
		total += x
	}
	return total
}
