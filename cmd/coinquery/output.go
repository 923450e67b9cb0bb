package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F87"))
)

// banner goes to stderr so stdout stays parseable in json and yaml modes.
func (c *cli) banner(cmd *cobra.Command, pong map[string]string) {
	w := cmd.ErrOrStderr()
	fmt.Fprintln(w, highlightStyle.Render("CoinQuery (powered by CoinGecko)"))
	if len(pong) > 0 {
		fmt.Fprintln(w, infoStyle.Render("ping response: "+formatPong(pong)))
	}
}

func formatPong(pong map[string]string) string {
	keys := make([]string, 0, len(pong))
	for k := range pong {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+pong[k])
	}
	return strings.Join(parts, " ")
}

// render writes v as json or yaml, or text for the text format. YAML keys
// follow the json tags so both formats agree.
func (c *cli) render(w io.Writer, v any, text string) error {
	switch c.output {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		out, err := yaml.Marshal(generic)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		_, err := fmt.Fprintln(w, text)
		return err
	}
}
