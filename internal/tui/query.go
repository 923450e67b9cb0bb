package tui

import (
	"errors"
	"strconv"
	"strings"

	"coinquery/internal/calendar"
)

type queryKind int

const (
	kindPrice queryKind = iota
	kindHistory
	kindTop
	kindArchive
	kindHelp
	kindQuit
)

type query struct {
	kind  queryKind
	coin  string
	date  string
	limit int
}

var errEmptyQuery = errors.New("type a coin, e.g. btc or btc 01-05-2021")

// parseQuery reads one input line. A trailing date-like word turns a price
// lookup into a historical one, so multi-word names still work:
//
//	bitcoin cash            live price
//	bitcoin cash 01-05-2021 historical price
//	top 10                  top coins
//	archive btc [date]      archived price
//	archive bitcoin cash    archived price for today
func parseQuery(line string) (query, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return query{}, errEmptyQuery
	}

	switch strings.ToLower(fields[0]) {
	case "q", "quit", "exit":
		return query{kind: kindQuit}, nil
	case "help", "?":
		return query{kind: kindHelp}, nil
	case "top":
		q := query{kind: kindTop}
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil || n <= 0 || n > 250 {
				return query{}, errors.New("top takes a count between 1 and 250")
			}
			q.limit = n
		}
		return q, nil
	case "archive":
		if len(fields) < 2 {
			return query{}, errors.New("usage: archive <coin> [date]")
		}
		coin, date := calendar.SplitTrailingDate(fields[1:])
		if date == "" {
			date = "today"
		}
		return query{kind: kindArchive, coin: coin, date: date}, nil
	}

	if coin, date := calendar.SplitTrailingDate(fields); date != "" {
		return query{kind: kindHistory, coin: coin, date: date}, nil
	}
	return query{kind: kindPrice, coin: strings.Join(fields, " ")}, nil
}
