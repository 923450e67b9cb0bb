package tui

import "testing"

func TestParseQuery(t *testing.T) {
	cases := []struct {
		line string
		want query
	}{
		{"btc", query{kind: kindPrice, coin: "btc"}},
		{"bitcoin cash", query{kind: kindPrice, coin: "bitcoin cash"}},
		{"btc 01-05-2021", query{kind: kindHistory, coin: "btc", date: "01-05-2021"}},
		{"bitcoin cash 1/5/2021", query{kind: kindHistory, coin: "bitcoin cash", date: "1/5/2021"}},
		{"eth yesterday", query{kind: kindHistory, coin: "eth", date: "yesterday"}},
		{"top", query{kind: kindTop}},
		{"TOP 10", query{kind: kindTop, limit: 10}},
		{"archive btc", query{kind: kindArchive, coin: "btc", date: "today"}},
		{"archive btc 02-01-2024", query{kind: kindArchive, coin: "btc", date: "02-01-2024"}},
		{"archive bitcoin cash", query{kind: kindArchive, coin: "bitcoin cash", date: "today"}},
		{"archive bitcoin cash 02-01-2024", query{kind: kindArchive, coin: "bitcoin cash", date: "02-01-2024"}},
		{"help", query{kind: kindHelp}},
		{"q", query{kind: kindQuit}},
	}
	for _, tc := range cases {
		got, err := parseQuery(tc.line)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.line, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %+v, want %+v", tc.line, got, tc.want)
		}
	}
}

func TestParseQueryErrors(t *testing.T) {
	for _, line := range []string{"", "   ", "top zero", "top 0", "top 500", "archive"} {
		if _, err := parseQuery(line); err == nil {
			t.Fatalf("%q: expected error", line)
		}
	}
}
