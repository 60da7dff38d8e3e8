package notify

import (
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/grace-raper/cbs-pickems-agent/internal/picks"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/models"
)

// TelegramNotifier pushes workflow notifications to a chat. A nil notifier
// is valid and drops every message, so callers never have to branch on
// whether Telegram is configured.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates a notifier, or nil when the token is empty or
// the bot cannot be reached. Construction failure is logged, not fatal: the
// pipeline runs fine without notifications.
func NewTelegramNotifier(token string, chatID int64) *TelegramNotifier {
	if token == "" || chatID == 0 {
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Error("Failed to create telegram bot", "error", err)
		return nil
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		slog.Error("Failed to get bot info", "error", err)
		return nil
	}

	return &TelegramNotifier{bot: bot, chatID: chatID}
}

// NotifySessionExpired asks for a manual re-login.
func (n *TelegramNotifier) NotifySessionExpired() {
	n.send("⚠️ *CBS session expired*\n\nThe pick'em workflow cannot proceed. Run the login tool to re-authenticate.")
}

// NotifyWeekComplete summarizes a finished workflow run.
func (n *TelegramNotifier) NotifyWeekComplete(schedule *models.Schedule, predictions models.Predictions, result picks.Result) {
	var b strings.Builder
	b.WriteString("✅ *Weekly picks submitted*\n\n")
	fmt.Fprintf(&b, "Matchups: %d\n", len(schedule.Matchups))
	fmt.Fprintf(&b, "Applied: %d, already set: %d, skipped: %d\n\n", result.Applied, result.AlreadySet, result.Skipped)

	for i, m := range schedule.Matchups {
		if i >= len(predictions) {
			break
		}
		fmt.Fprintf(&b, "%s @ %s → *%s*\n", m.AwayTeam, m.HomeTeam, predictions[i])
	}
	n.send(b.String())
}

// NotifyError reports a failed workflow stage.
func (n *TelegramNotifier) NotifyError(stage string, err error) {
	n.send(fmt.Sprintf("❌ *Workflow failed* at %s:\n`%v`", stage, err))
}

func (n *TelegramNotifier) send(text string) {
	if n == nil {
		return
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := n.bot.Send(msg); err != nil {
		slog.Error("Failed to send telegram message", "error", err)
	}
}
