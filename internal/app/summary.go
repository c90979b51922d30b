package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"cryptobot/internal/catalog"
	"cryptobot/internal/config"
)

type StartupSummary struct {
	Env             string
	Mode            string
	HTTPAddr        string
	PriceSource     string
	Currency        string
	DefaultSymbols  []string
	HistoryDays     int
	DescriptionLang string
	ChartTokens     []string
	FAQCount        int
	Tracing         bool
}

func buildSummary(cfg *config.Config, cat *catalog.Catalog, source string) *StartupSummary {
	tokens := cat.Tokens()
	labels := make([]string, 0, len(tokens))
	for _, t := range tokens {
		labels = append(labels, t.Label)
	}
	return &StartupSummary{
		Env:             cfg.App.Env,
		Mode:            cfg.Telegram.Mode,
		HTTPAddr:        cfg.App.HTTPAddr,
		PriceSource:     source,
		Currency:        cfg.Market.Currency,
		DefaultSymbols:  cfg.Market.DefaultSymbols,
		HistoryDays:     cfg.Market.HistoryDays,
		DescriptionLang: cfg.Market.DescriptionLang,
		ChartTokens:     labels,
		FAQCount:        len(cat.FAQ()),
		Tracing:         cfg.App.Tracing,
	}
}

func (s *StartupSummary) Print() {
	s.Fprint(os.Stdout)
}

func (s *StartupSummary) Fprint(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "STARTUP SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintln(w, "[BOT]")
	fmt.Fprintf(w, "  Env: %s\n", s.Env)
	fmt.Fprintf(w, "  Update mode: %s\n", s.Mode)
	fmt.Fprintf(w, "  HTTP: %s\n", s.HTTPAddr)
	fmt.Fprintf(w, "  Tracing: %t\n", s.Tracing)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[MARKET]")
	fmt.Fprintf(w, "  Price source: %s\n", s.PriceSource)
	fmt.Fprintf(w, "  Currency: %s\n", strings.ToUpper(s.Currency))
	fmt.Fprintf(w, "  Default symbols: %s\n", formatList(s.DefaultSymbols))
	fmt.Fprintf(w, "  Chart history: %d days, description lang %s\n", s.HistoryDays, s.DescriptionLang)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[CATALOG]")
	fmt.Fprintf(w, "  Chart tokens: %s\n", formatList(s.ChartTokens))
	fmt.Fprintf(w, "  FAQ entries: %d\n", s.FAQCount)
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
