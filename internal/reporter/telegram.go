// Package reporter pushes crawl run outcomes to a Telegram chat.
package reporter

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-jobpost-crawler/internal/crawl"
)

// maxListLines keeps the message under the 4096 char Bot API limit.
const maxListLines = 10

type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	source string
}

func NewTelegramReporter(token string, chatID int64, source string) (*TelegramReporter, error) {
	return NewTelegramReporterWithEndpoint(token, chatID, source, tgbotapi.APIEndpoint)
}

// NewTelegramReporterWithEndpoint talks to a custom Bot API host; endpoint is a format string
// taking the token and the method, like tgbotapi.APIEndpoint.
func NewTelegramReporterWithEndpoint(token string, chatID int64, source, endpoint string) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{bot: bot, chatID: chatID, source: source}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramReporter) SendRunSummary(res crawl.Result) error {
	return t.SendMessage(FormatRunSummary(t.source, res))
}

func (t *TelegramReporter) SendError(errReq error) error {
	text := fmt.Sprintf("⚠️ <b>%s crawler error</b>:\n%s", html.EscapeString(t.source), html.EscapeString(errReq.Error()))
	return t.SendMessage(text)
}

// FormatRunSummary renders a run as Telegram HTML.
func FormatRunSummary(source string, res crawl.Result) string {
	var b strings.Builder
	if res.Failed() {
		fmt.Fprintf(&b, "❌ <b>%s crawl failed</b>\n", html.EscapeString(source))
		fmt.Fprintf(&b, "<code>%s</code>\n", html.EscapeString(fmt.Sprint(res.Err)))
	} else {
		fmt.Fprintf(&b, "✅ <b>%s crawl done</b>: %d new job posts\n", html.EscapeString(source), res.Inserted)
	}
	fmt.Fprintf(&b, "📋 %d discovered, %d visited, %d skipped\n", res.Discovered, res.Attempted, len(res.Skipped))

	for i, rec := range res.Records {
		if i >= maxListLines {
			fmt.Fprintf(&b, "… and %d more\n", len(res.Records)-i)
			break
		}
		fmt.Fprintf(&b, "🔹 <a href=\"%s\">%s</a> · %s\n",
			html.EscapeString(rec.JobURL), html.EscapeString(rec.JobTitle), html.EscapeString(rec.EmploymentType))
	}

	for i, s := range res.Skipped {
		if i >= maxListLines {
			fmt.Fprintf(&b, "… and %d more skipped\n", len(res.Skipped)-i)
			break
		}
		fmt.Fprintf(&b, "⏭️ [%s] %s\n", s.Reason, html.EscapeString(s.URL))
	}
	return strings.TrimRight(b.String(), "\n")
}
