// Package tui is the interactive price lookup served over SSH.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coinquery/internal/domain"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	queryTimeout = 15 * time.Second
	maxLines     = 200
)

const helpText = `commands:
  <coin>               live USD price, e.g. btc or Bitcoin
  <coin> <date>        price on a past day, e.g. btc 01-05-2021
  top [n]              top coins by market cap
  archive <coin> [d]   archived price (default today)
  q                    quit`

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type Querier interface {
	Coins(ctx context.Context, limit int) ([]domain.MarketCoin, error)
	Price(ctx context.Context, coin string) (float64, error)
	HistoricalPrice(ctx context.Context, coin, rawDate string) (float64, error)
	QueryArchive(ctx context.Context, coin, rawDate string) (*domain.ArchiveEntry, error)
}

type resultMsg struct {
	text string
	err  error
}

type Model struct {
	queries  Querier
	username string
	input    textinput.Model
	spinner  spinner.Model
	loading  bool
	lines    []string
	width    int
	height   int
}

func NewModel(queries Querier, username string) *Model {
	ti := textinput.New()
	ti.Placeholder = "btc, btc 01-05-2021, top 10, help"
	ti.Prompt = promptStyle.Render("coinquery> ")
	ti.CharLimit = 120
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		queries:  queries,
		username: username,
		input:    ti,
		spinner:  sp,
		width:    80,
		height:   24,
	}
}

func (m *Model) SetSize(width, height int) {
	if width > 0 {
		m.width = width
	}
	if height > 0 {
		m.height = height
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}

	case resultMsg:
		m.loading = false
		if msg.err != nil {
			m.appendLine(errorStyle.Render(msg.err.Error()))
		} else {
			m.appendLine(msg.text)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	line := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	q, err := parseQuery(line)
	if err != nil {
		m.appendLine(errorStyle.Render(err.Error()))
		return m, nil
	}
	switch q.kind {
	case kindQuit:
		return m, tea.Quit
	case kindHelp:
		m.appendLine(dimStyle.Render(helpText))
		return m, nil
	}

	m.appendLine(dimStyle.Render("> " + line))
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, m.run(q))
}

func (m *Model) run(q query) tea.Cmd {
	queries := m.queries
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		text, err := execute(ctx, queries, q)
		return resultMsg{text: text, err: err}
	}
}

func execute(ctx context.Context, queries Querier, q query) (string, error) {
	switch q.kind {
	case kindHistory:
		price, err := queries.HistoricalPrice(ctx, q.coin, q.date)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s on %s: $%s", q.coin, q.date, domain.FormatPrice(price)), nil

	case kindTop:
		coins, err := queries.Coins(ctx, q.limit)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		for i, c := range coins {
			if i > 0 {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "%3d  %-6s %-20s $%s", c.MarketCapRank, strings.ToUpper(c.Symbol), c.Name,
				domain.FormatPrice(domain.DisplayPrice(c.CurrentPrice)))
		}
		return sb.String(), nil

	case kindArchive:
		entry, err := queries.QueryArchive(ctx, q.coin, q.date)
		if err != nil {
			return "", err
		}
		if entry == nil {
			return fmt.Sprintf("no archived price for %s on %s", q.coin, q.date), nil
		}
		return fmt.Sprintf("%s on %s (archived): $%s", entry.CoinName, entry.Key.Time().Format("02-01-2006"), entry.PriceUSD), nil

	default:
		price, err := queries.Price(ctx, q.coin)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s: $%s", q.coin, domain.FormatPrice(price)), nil
	}
}

func (m *Model) appendLine(s string) {
	m.lines = append(m.lines, s)
	if len(m.lines) > maxLines {
		m.lines = m.lines[len(m.lines)-maxLines:]
	}
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("CoinQuery (powered by CoinGecko)"))
	if m.username != "" {
		b.WriteString(dimStyle.Render("  " + m.username))
	}
	b.WriteString("\n\n")

	// Title, blank line, input line and footer.
	room := m.height - 4
	var body []string
	for _, l := range m.lines {
		body = append(body, strings.Split(l, "\n")...)
	}
	if room > 0 && len(body) > room {
		body = body[len(body)-room:]
	}
	for _, l := range body {
		b.WriteString(l)
		b.WriteByte('\n')
	}

	if m.loading {
		b.WriteString(m.spinner.View() + " querying...")
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n" + dimStyle.Render("help for commands, esc to quit"))
	return b.String()
}
