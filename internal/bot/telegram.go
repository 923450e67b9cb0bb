package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"coinquery/internal/calendar"
	"coinquery/internal/domain"

	tele "gopkg.in/telebot.v3"
)

const replyTimeout = 15 * time.Second

// Querier is the subset of service.QueryService the bot needs.
type Querier interface {
	Ping(ctx context.Context) (map[string]string, error)
	Coins(ctx context.Context, limit int) ([]domain.MarketCoin, error)
	Price(ctx context.Context, coin string) (float64, error)
	HistoricalPrice(ctx context.Context, coin, rawDate string) (float64, error)
	QueryArchive(ctx context.Context, coin, rawDate string) (*domain.ArchiveEntry, error)
}

// StartTelegramBot starts long polling in the background. An empty token
// disables the bot.
func StartTelegramBot(token string, queries Querier) {
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
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	handle := func(reply func(context.Context, Querier, []string) string) tele.HandlerFunc {
		return func(c tele.Context) error {
			ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
			defer cancel()
			return c.Send(reply(ctx, queries, c.Args()))
		}
	}

	b.Handle("/ping", handle(pingReply))
	b.Handle("/price", handle(priceReply))
	b.Handle("/history", handle(historyReply))
	b.Handle("/archive", handle(archiveReply))
	b.Handle("/coins", handle(coinsReply))

	log.Println("Telegram bot started")
	go b.Start()
}

func pingReply(ctx context.Context, q Querier, _ []string) string {
	pong, err := q.Ping(ctx)
	if err != nil {
		return "CoinGecko unreachable: " + err.Error()
	}
	if says, ok := pong["gecko_says"]; ok {
		return says
	}
	return "pong"
}

func priceReply(ctx context.Context, q Querier, args []string) string {
	if len(args) == 0 {
		return "Usage: /price <coin>\nExample: /price btc"
	}
	coin := strings.Join(args, " ")
	price, err := q.Price(ctx, coin)
	if err != nil {
		return errorReply(coin, err)
	}
	return fmt.Sprintf("%s\nPrice: $%s", coin, domain.FormatPrice(price))
}

// historyReply takes the date as the last argument so names with spaces
// still work, e.g. /history bitcoin cash 01-05-2021.
func historyReply(ctx context.Context, q Querier, args []string) string {
	if len(args) < 2 {
		return "Usage: /history <coin> <dd-mm-yyyy>\nExample: /history btc 01-05-2021"
	}
	coin := strings.Join(args[:len(args)-1], " ")
	date := args[len(args)-1]
	price, err := q.HistoricalPrice(ctx, coin, date)
	if err != nil {
		return errorReply(coin, err)
	}
	return fmt.Sprintf("%s on %s\nPrice: $%s", coin, date, domain.FormatPrice(price))
}

func archiveReply(ctx context.Context, q Querier, args []string) string {
	if len(args) == 0 {
		return "Usage: /archive <coin> [dd-mm-yyyy]"
	}
	coin, date := calendar.SplitTrailingDate(args)
	if date == "" {
		date = "today"
	}
	entry, err := q.QueryArchive(ctx, coin, date)
	if err != nil {
		return errorReply(coin, err)
	}
	if entry == nil {
		return fmt.Sprintf("No archived price for %s on %s", coin, date)
	}
	return fmt.Sprintf("%s (%s)\nArchived: $%s", entry.CoinName, entry.Key.Time().Format("02-01-2006"), entry.PriceUSD)
}

func coinsReply(ctx context.Context, q Querier, args []string) string {
	limit := 0
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 && n <= 25 {
			limit = n
		}
	}
	coins, err := q.Coins(ctx, limit)
	if err != nil {
		return "Error fetching coins: " + err.Error()
	}
	var sb strings.Builder
	sb.WriteString("Top coins by market cap")
	for _, c := range coins {
		fmt.Fprintf(&sb, "\n%d. %s (%s) $%s", c.MarketCapRank, c.Name, strings.ToUpper(c.Symbol), domain.FormatPrice(domain.DisplayPrice(c.CurrentPrice)))
	}
	return sb.String()
}

func errorReply(coin string, err error) string {
	switch domain.KindOf(err) {
	case domain.KindUnknownCoin, domain.KindInvalidDate:
		return err.Error()
	default:
		return fmt.Sprintf("Error fetching %s: %v", coin, err)
	}
}
