package main

import (
	"fmt"
	"strings"

	"coinquery/internal/calendar"
	"coinquery/internal/domain"

	"github.com/spf13/cobra"
)

func (c *cli) pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that CoinGecko is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pong, err := c.svc.Ping(cmd.Context())
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), pong, formatPong(pong))
		},
	}
}

func (c *cli) coinsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "coins",
		Short: "Top coins by market capitalisation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coins, err := c.svc.Coins(cmd.Context(), limit)
			if err != nil {
				return err
			}
			var sb strings.Builder
			for i, coin := range coins {
				if i > 0 {
					sb.WriteByte('\n')
				}
				fmt.Fprintf(&sb, "%3d  %-8s %-24s %s", coin.MarketCapRank, strings.ToUpper(coin.Symbol), coin.Name,
					domain.FormatPrice(domain.DisplayPrice(coin.CurrentPrice)))
			}
			return c.render(cmd.OutOrStdout(), coins, sb.String())
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "number of coins")
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	var grep string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the cached coin catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.connect(cmd); err != nil {
				return err
			}
			list := c.svc.CoinsList()
			if grep != "" {
				needle := strings.ToLower(grep)
				var filtered domain.Catalog
				for _, coin := range list {
					if strings.Contains(strings.ToLower(coin.Symbol), needle) || strings.Contains(strings.ToLower(coin.Name), needle) {
						filtered = append(filtered, coin)
					}
				}
				list = filtered
			}
			var sb strings.Builder
			for i, coin := range list {
				if i > 0 {
					sb.WriteByte('\n')
				}
				fmt.Fprintf(&sb, "%s\t%s\t%s", coin.ID, coin.Symbol, coin.Name)
			}
			return c.render(cmd.OutOrStdout(), list, sb.String())
		},
	}
	cmd.Flags().StringVar(&grep, "grep", "", "only coins whose symbol or name contains this text")
	return cmd
}

func (c *cli) resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <coin>",
		Short: "Resolve a symbol or name to its CoinGecko id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.connect(cmd); err != nil {
				return err
			}
			coin, err := c.svc.Resolve(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), coin, fmt.Sprintf("%s (%s) id=%s", coin.Name, coin.Symbol, coin.ID))
		},
	}
}

func (c *cli) priceCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "price <coin>",
		Short:   "Current USD price",
		Example: "  coinquery price btc\n  coinquery price \"bitcoin cash\"",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.connect(cmd); err != nil {
				return err
			}
			coin := strings.Join(args, " ")
			price, err := c.svc.Price(cmd.Context(), coin)
			if err != nil {
				return err
			}
			out := priceResult{Coin: coin, Currency: "usd", Price: price}
			return c.render(cmd.OutOrStdout(), out, domain.FormatPrice(price))
		},
	}
}

func (c *cli) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "history <coin> <date>",
		Short:   "USD price on a past calendar day",
		Example: "  coinquery history Bitcoin 01-05-2021\n  coinquery history btc yesterday",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.connect(cmd); err != nil {
				return err
			}
			coin := strings.Join(args[:len(args)-1], " ")
			date := args[len(args)-1]
			price, err := c.svc.History(cmd.Context(), coin, date)
			if err != nil {
				return err
			}
			out := priceResult{Coin: coin, Date: date, Currency: "usd", Price: price}
			return c.render(cmd.OutOrStdout(), out, domain.FormatPrice(price))
		},
	}
}

func (c *cli) archiveCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Store today's USD prices for the top coins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				limit = c.cfg.ArchiveLimit
			}
			entries, err := c.svc.Archive(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), entries, formatEntries(entries))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of coins (default ARCHIVE_LIMIT)")
	return cmd
}

func (c *cli) queryArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "query-archive <coin> [date]",
		Short:   "Look up an archived price without calling CoinGecko",
		Example: "  coinquery query-archive btc\n  coinquery query-archive bitcoin cash 01-05-2021",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadCatalog(cmd); err != nil {
				return err
			}
			coin, date := calendar.SplitTrailingDate(args)
			if date == "" {
				date = "today"
			}
			entry, err := c.svc.QueryArchive(cmd.Context(), coin, date)
			if err != nil {
				return err
			}
			if entry == nil {
				return fmt.Errorf("no archived price for %s on %s", coin, date)
			}
			return c.render(cmd.OutOrStdout(), entry, formatEntries([]domain.ArchiveEntry{*entry}))
		},
	}
}

type priceResult struct {
	Coin     string  `json:"coin"`
	Date     string  `json:"date,omitempty"`
	Currency string  `json:"currency"`
	Price    float64 `json:"price"`
}

func formatEntries(entries []domain.ArchiveEntry) string {
	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s  %-24s %s", e.Key.Time().Format("02-01-2006"), e.CoinName, e.PriceUSD)
	}
	return sb.String()
}
