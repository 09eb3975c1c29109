package notify

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/valuebet-bot/internal/config"
	"github.com/yourusername/valuebet-bot/internal/models"
)

func TestFormatValueBet(t *testing.T) {
	bet := &models.ValueBet{
		FixtureID:   1001,
		MatchDate:   "2026-09-02",
		League:      "Ligue 1",
		HomeTeam:    "Lyon",
		AwayTeam:    "Lille",
		Market:      models.MarketHomeWin,
		Bookmaker:   "winamax",
		BookieOdds:  2.10,
		ModelOdds:   1.72,
		Probability: 0.58,
		Edge:        0.218,
	}

	msg := FormatValueBet(bet, 2.5)

	assert.Contains(t, msg, "Lyon vs Lille")
	assert.Contains(t, msg, "2026-09-02 — Ligue 1")
	assert.Contains(t, msg, "Home Win")
	assert.Contains(t, msg, "winamax")
	assert.Contains(t, msg, "Cote BK :</b> 2.10")
	assert.Contains(t, msg, "Cote modèle :</b> 1.72")
	assert.Contains(t, msg, "Probabilité :</b> 58.0%")
	assert.Contains(t, msg, "Value :</b> +21.8%")
	// Double-digit edge gets the green marker.
	assert.Contains(t, msg, "🟢")
}

func TestFormatValueBetLowEdgeEmoji(t *testing.T) {
	bet := &models.ValueBet{
		HomeTeam:    "Lyon",
		AwayTeam:    "Lille",
		Market:      models.MarketDraw,
		Probability: 0.60,
		Edge:        0.06,
	}

	msg := FormatValueBet(bet, 2.5)
	assert.Contains(t, msg, "🟡")
	assert.NotContains(t, msg, "🟢")
}

func TestFormatValueBetTotalsLabel(t *testing.T) {
	bet := &models.ValueBet{
		HomeTeam: "Lyon",
		AwayTeam: "Lille",
		Market:   models.MarketOver,
	}

	msg := FormatValueBet(bet, 2.5)
	assert.Contains(t, msg, "Over 2.5")
}

func TestFormatValueBetEscapesHTML(t *testing.T) {
	bet := &models.ValueBet{
		HomeTeam: "Brighton & Hove",
		AwayTeam: "Spurs <b>",
	}

	msg := FormatValueBet(bet, 2.5)
	assert.Contains(t, msg, "Brighton &amp; Hove")
	assert.Contains(t, msg, "Spurs &lt;b&gt;")
}

func TestNewNotifierDisabled(t *testing.T) {
	log := logrus.New()

	tests := []struct {
		name string
		cfg  config.TelegramConfig
	}{
		{"disabled flag", config.TelegramConfig{Enabled: false, BotToken: "t", ChatID: 1}},
		{"missing token", config.TelegramConfig{Enabled: true, ChatID: 1}},
		{"missing chat id", config.TelegramConfig{Enabled: true, BotToken: "t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNotifier(tt.cfg, 2.5, log)
			require.NoError(t, err)
			assert.IsType(t, &NoopNotifier{}, n)
			assert.NoError(t, n.SendValueBet(context.Background(), &models.ValueBet{}))
			assert.NoError(t, n.SendDailyDigest(context.Background(), nil))
		})
	}
}
