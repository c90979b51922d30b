package bot

import (
	"context"
	"fmt"
	"strings"

	"cryptobot/internal/calculator"
	"cryptobot/internal/chart"
	"cryptobot/internal/command"
)

func openMenuKeyboard(req *Request) [][]Button {
	return [][]Button{{{Text: req.Catalog.Messages().OpenMenuButton, Data: command.OpenMenuData}}}
}

type startHandler struct{}

func (startHandler) Kind() command.Kind { return command.KindStart }

func (startHandler) Handle(_ context.Context, req *Request) ([]Reply, error) {
	return []Reply{{Kind: ReplyText, Text: req.Catalog.Messages().Start, Keyboard: openMenuKeyboard(req)}}, nil
}

type menuHandler struct{}

func (menuHandler) Kind() command.Kind { return command.KindMenu }

func (menuHandler) Handle(_ context.Context, req *Request) ([]Reply, error) {
	return []Reply{textReply(req.Catalog.Messages().Menu)}, nil
}

type openMenuHandler struct{}

func (openMenuHandler) Kind() command.Kind { return command.KindOpenMenu }

func (openMenuHandler) Handle(ctx context.Context, req *Request) ([]Reply, error) {
	return menuHandler{}.Handle(ctx, req)
}

type helpHandler struct{}

func (helpHandler) Kind() command.Kind { return command.KindHelp }

func (helpHandler) Handle(_ context.Context, req *Request) ([]Reply, error) {
	return []Reply{{
		Kind:      ReplyText,
		Text:      req.Catalog.Messages().Help,
		ParseMode: ParseModeHTML,
		Keyboard:  openMenuKeyboard(req),
	}}, nil
}

// pricesHandler lists one "SYMBOL: price CURRENCY" line per quoted symbol.
// Symbols the source has no (or a zero) price for are left out.
type pricesHandler struct{}

func (pricesHandler) Kind() command.Kind { return command.KindPrices }

func (pricesHandler) Handle(ctx context.Context, req *Request) ([]Reply, error) {
	symbols := req.Command.Symbols(req.Settings.DefaultSymbols)
	currency := req.Settings.Currency
	quotes, err := req.Prices.Quotes(ctx, symbols, currency)
	if err != nil {
		return nil, command.External("prices", err)
	}
	lines := make([]string, 0, len(symbols)+1)
	lines = append(lines, req.Catalog.Messages().PricesHeader)
	for _, sym := range symbols {
		price, ok := quotes[sym]
		if !ok || price == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s %s", strings.ToUpper(sym), calculator.FormatSize(price), strings.ToUpper(currency)))
	}
	return []Reply{textReply(strings.Join(lines, "\n"))}, nil
}

type calcHandler struct{}

func (calcHandler) Kind() command.Kind { return command.KindCalc }

func (calcHandler) Handle(_ context.Context, req *Request) ([]Reply, error) {
	in, err := command.ParsePosition(req.Command.Raw)
	if err != nil {
		return nil, err
	}
	res := calculator.Calculate(in)
	text := fmt.Sprintf(req.Catalog.Messages().CalcResult,
		calculator.FormatSize(res.PositionSize),
		calculator.FormatLiquidation(res.LiquidationPrice))
	return []Reply{textReply(text)}, nil
}

type chartMenuHandler struct{}

func (chartMenuHandler) Kind() command.Kind { return command.KindChartMenu }

func (chartMenuHandler) Handle(_ context.Context, req *Request) ([]Reply, error) {
	tokens := req.Catalog.Tokens()
	rows := make([][]Button, 0, len(tokens))
	for _, t := range tokens {
		rows = append(rows, []Button{{Text: t.Label, Data: command.ChartPrefix + t.ID}})
	}
	return []Reply{{Kind: ReplyText, Text: req.Catalog.Messages().ChartPrompt, Keyboard: rows}}, nil
}

// chartHandler sends the price chart followed by the token description.
// Nothing is sent unless history, rendering and description all succeed.
type chartHandler struct{}

func (chartHandler) Kind() command.Kind { return command.KindChart }

func (chartHandler) Handle(ctx context.Context, req *Request) ([]Reply, error) {
	if len(req.Command.Args) == 0 || strings.TrimSpace(req.Command.Args[0]) == "" {
		return nil, &command.Error{Kind: command.UnknownSelection, Op: "chart", Err: fmt.Errorf("no token selected")}
	}
	symbol := strings.ToLower(strings.TrimSpace(req.Command.Args[0]))
	days := req.Settings.HistoryDays
	currency := req.Settings.Currency

	history, err := req.Prices.History(ctx, symbol, currency, days)
	if err != nil {
		return nil, command.External("chart history", err)
	}
	if len(history) == 0 {
		return nil, command.External("chart history", fmt.Errorf("no price history for %s", symbol))
	}
	upper := strings.ToUpper(symbol)
	png, err := req.Charts.Render(ctx, chart.Series{
		Title:     fmt.Sprintf("%s price (last %d days)", upper, days),
		Name:      upper,
		YAxisName: fmt.Sprintf("Price in %s", strings.ToUpper(currency)),
		Points:    chart.FromHistory(history, req.Settings.Location),
	})
	if err != nil {
		return nil, command.External("chart render", err)
	}
	desc, err := req.Prices.Description(ctx, symbol, req.Settings.DescriptionLang)
	if err != nil {
		return nil, command.External("chart description", err)
	}
	msgs := req.Catalog.Messages()
	return []Reply{
		{
			Kind:     ReplyPhoto,
			Text:     fmt.Sprintf(msgs.ChartCaption, upper, days),
			Photo:    png,
			Filename: chart.Filename(symbol),
		},
		textReply(msgs.DescriptionHeader + "\n" + desc),
	}, nil
}

type faqMenuHandler struct{}

func (faqMenuHandler) Kind() command.Kind { return command.KindFAQMenu }

func (faqMenuHandler) Handle(_ context.Context, req *Request) ([]Reply, error) {
	entries := req.Catalog.FAQ()
	rows := make([][]Button, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []Button{{Text: e.Question, Data: command.FAQPrefix + e.ID}})
	}
	return []Reply{{Kind: ReplyText, Text: req.Catalog.Messages().FAQPrompt, Keyboard: rows}}, nil
}

type faqHandler struct{}

func (faqHandler) Kind() command.Kind { return command.KindFAQ }

func (faqHandler) Handle(_ context.Context, req *Request) ([]Reply, error) {
	var id string
	if len(req.Command.Args) > 0 {
		id = req.Command.Args[0]
	}
	entry, ok := req.Catalog.LookupFAQ(id)
	if !ok {
		return nil, &command.Error{Kind: command.UnknownSelection, Op: "faq", Err: fmt.Errorf("unknown question %q", id)}
	}
	return []Reply{{
		Kind:      ReplyText,
		Text:      fmt.Sprintf(req.Catalog.Messages().FAQAnswer, entry.Question, entry.Answer),
		ParseMode: ParseModeMarkdown,
	}}, nil
}

type textHandler struct{}

func (textHandler) Kind() command.Kind { return command.KindText }

func (textHandler) Handle(_ context.Context, req *Request) ([]Reply, error) {
	msgs := req.Catalog.Messages()
	switch {
	case req.Catalog.IsGreeting(req.Command.Raw):
		return []Reply{textReply(msgs.Greeting)}, nil
	case req.Catalog.IsFarewell(req.Command.Raw):
		return []Reply{textReply(msgs.Farewell)}, nil
	default:
		return []Reply{textReply(msgs.NotUnderstood)}, nil
	}
}

type unknownHandler struct{}

func (unknownHandler) Kind() command.Kind { return command.KindUnknown }

func (unknownHandler) Handle(_ context.Context, req *Request) ([]Reply, error) {
	return []Reply{textReply(req.Catalog.Messages().NotUnderstood)}, nil
}
