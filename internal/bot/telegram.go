package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"penny-wise/internal/domain"
	"penny-wise/internal/pipeline"

	tele "gopkg.in/telebot.v3"
)

type PipelineRunner interface {
	Run(ctx context.Context, symbol string) *pipeline.Report
}

type TradeReader interface {
	RecentTrades(ctx context.Context, limit int) ([]domain.TradeRecord, error)
}

// StartTelegramBot runs the interactive bot: /run triggers a pipeline
// pass, /trades lists recent executions. A missing token skips startup.
func StartTelegramBot(token string, runner PipelineRunner, trades TradeReader) {
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Printf("failed to create Telegram bot, continuing without it: %v", err)
		return
	}

	registerHandlers(b, runner, trades)

	log.Println("Telegram bot started")
	go b.Start()
}

type botAPI interface {
	Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc)
}

func registerHandlers(b botAPI, runner PipelineRunner, trades TradeReader) {
	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/run", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /run AAPL")
		}
		symbol := strings.ToUpper(args[0])
		report := runner.Run(context.Background(), symbol)
		return c.Send(renderReport(report))
	})

	b.Handle("/trades", func(c tele.Context) error {
		records, err := trades.RecentTrades(context.Background(), 5)
		if err != nil {
			return c.Send(fmt.Sprintf("Error reading trades: %v", err))
		}
		if len(records) == 0 {
			return c.Send("No trades recorded yet")
		}
		lines := make([]string, 0, len(records))
		for _, r := range records {
			lines = append(lines, fmt.Sprintf("%s %d %s @ $%.2f", r.Action, r.Quantity, r.Symbol, r.Price))
		}
		return c.Send(strings.Join(lines, "\n"))
	})
}

func renderReport(report *pipeline.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", report.Symbol)
	fmt.Fprintf(&sb, "Price: $%.2f (synthetic=%t)\n", report.Quote.Close, report.Quote.Synthetic)
	fmt.Fprintf(&sb, "Sentiment: %s %.2f\n", report.Sentiment.Label, report.Sentiment.Score)
	fmt.Fprintf(&sb, "Decision: %s %d\n", report.Risk.Adjusted.Action, report.Risk.Adjusted.Quantity)
	if report.Trade != nil {
		fmt.Fprintf(&sb, "Executed: %s %d @ $%.2f", report.Trade.Action, report.Trade.Quantity, report.Trade.Price)
	} else {
		sb.WriteString("Executed: no trade")
	}
	return sb.String()
}
