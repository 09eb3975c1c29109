// Package notify delivers value-bet alerts to Telegram.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/valuebet-bot/internal/config"
	"github.com/yourusername/valuebet-bot/internal/models"
)

// Min interval between two messages to the same chat. Telegram allows
// roughly 30 messages per minute per chat before returning 429.
const sendInterval = 2 * time.Second

// Notifier delivers value-bet alerts. The scan service only sees this
// interface, so tests can swap in a recorder.
type Notifier interface {
	SendValueBet(ctx context.Context, bet *models.ValueBet) error
	SendDailyDigest(ctx context.Context, bets []*models.ValueBet) error
}

// TelegramNotifier sends alerts through the Telegram Bot API.
type TelegramNotifier struct {
	bot       *tgbotapi.BotAPI
	chatID    int64
	goalsLine float64
	log       *logrus.Logger

	mu       sync.Mutex
	lastSend time.Time
}

// NewNotifier creates a notifier from config. When Telegram is disabled or
// credentials are missing, a no-op notifier is returned so the scan pipeline
// runs unchanged. goalsLine is only used to label totals markets.
func NewNotifier(cfg config.TelegramConfig, goalsLine float64, log *logrus.Logger) (Notifier, error) {
	if !cfg.Enabled || cfg.BotToken == "" || cfg.ChatID == 0 {
		log.Info("Telegram notifications disabled")
		return &NoopNotifier{}, nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		return nil, fmt.Errorf("failed to verify telegram bot: %w", err)
	}

	log.WithField("chat_id", cfg.ChatID).Info("Telegram notifier initialized")

	return &TelegramNotifier{
		bot:       bot,
		chatID:    cfg.ChatID,
		goalsLine: goalsLine,
		log:       log,
	}, nil
}

// SendValueBet sends a single value-bet alert.
func (n *TelegramNotifier) SendValueBet(ctx context.Context, bet *models.ValueBet) error {
	return n.send(ctx, FormatValueBet(bet, n.goalsLine))
}

// SendDailyDigest sends the day's selections: a header, one message per bet
// and a disclaimer footer. An empty scan gets a single "nothing found" note.
func (n *TelegramNotifier) SendDailyDigest(ctx context.Context, bets []*models.ValueBet) error {
	if len(bets) == 0 {
		return n.send(ctx, "📭 <b>Aucun value bet trouvé aujourd'hui.</b>\nLa chasse continue demain ! ⚽")
	}

	header := fmt.Sprintf("🎯 <b>VALUE BETS DU JOUR</b> — %d sélection(s)\n%s",
		len(bets), strings.Repeat("─", 30))
	if err := n.send(ctx, header); err != nil {
		return err
	}

	for _, bet := range bets {
		if err := n.send(ctx, FormatValueBet(bet, n.goalsLine)); err != nil {
			return err
		}
	}

	footer := "⚠️ <i>Ces paris sont générés automatiquement par un modèle statistique. " +
		"Pariez de façon responsable. Les performances passées ne garantissent pas les résultats futurs.</i>"
	return n.send(ctx, footer)
}

func (n *TelegramNotifier) send(ctx context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if wait := sendInterval - time.Since(n.lastSend); wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	n.lastSend = time.Now()
	if _, err := n.bot.Send(msg); err != nil {
		n.log.WithError(err).Error("Failed to send telegram message")
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// FormatValueBet renders a value bet as a Telegram HTML message.
func FormatValueBet(bet *models.ValueBet, goalsLine float64) string {
	edgePct := bet.Edge * 100
	probPct := bet.Probability * 100

	emoji := "🟡"
	if edgePct >= 10 {
		emoji = "🟢"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>VALUE BET DÉTECTÉ</b>\n\n", emoji)
	fmt.Fprintf(&b, "⚽ <b>%s vs %s</b>\n", html.EscapeString(bet.HomeTeam), html.EscapeString(bet.AwayTeam))
	fmt.Fprintf(&b, "📅 %s — %s\n\n", bet.MatchDate, html.EscapeString(bet.League))
	fmt.Fprintf(&b, "📊 <b>Marché :</b> %s\n", bet.Market.Label(goalsLine))
	fmt.Fprintf(&b, "🏦 <b>Bookmaker :</b> %s\n", html.EscapeString(bet.Bookmaker))
	fmt.Fprintf(&b, "💰 <b>Cote BK :</b> %.2f\n", bet.BookieOdds)
	fmt.Fprintf(&b, "🧮 <b>Cote modèle :</b> %.2f\n", bet.ModelOdds)
	fmt.Fprintf(&b, "📈 <b>Probabilité :</b> %.1f%%\n", probPct)
	fmt.Fprintf(&b, "✨ <b>Value :</b> +%.1f%%", edgePct)
	return b.String()
}

// NoopNotifier discards all alerts. Used when Telegram is not configured.
type NoopNotifier struct{}

func (NoopNotifier) SendValueBet(context.Context, *models.ValueBet) error      { return nil }
func (NoopNotifier) SendDailyDigest(context.Context, []*models.ValueBet) error { return nil }
