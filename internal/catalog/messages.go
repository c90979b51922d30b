package catalog

// Messages are the reply texts. Fields holding a format verb say so.
type Messages struct {
	Start          string `yaml:"start"`
	Menu           string `yaml:"menu"`
	Help           string `yaml:"help"`
	OpenMenuButton string `yaml:"open_menu_button"`
	PricesHeader   string `yaml:"prices_header"`
	// CalcResult takes position size and liquidation price.
	CalcResult  string `yaml:"calc_result"`
	ChartPrompt string `yaml:"chart_prompt"`
	// ChartCaption takes the upper-cased symbol and the number of days.
	ChartCaption      string `yaml:"chart_caption"`
	DescriptionHeader string `yaml:"description_header"`
	FAQPrompt         string `yaml:"faq_prompt"`
	// FAQAnswer takes question and answer; rendered as Markdown.
	FAQAnswer        string `yaml:"faq_answer"`
	Greeting         string `yaml:"greeting"`
	Farewell         string `yaml:"farewell"`
	NotUnderstood    string `yaml:"not_understood"`
	QuestionNotFound string `yaml:"question_not_found"`
	// The error texts take the failure detail.
	CalcError   string `yaml:"calc_error"`
	PricesError string `yaml:"prices_error"`
	ChartError  string `yaml:"chart_error"`
	// GenericError is used for failures without a more specific text.
	GenericError string `yaml:"generic_error"`
}

const defaultHelp = "ℹ️ <b>About</b>\n" +
	"I'm a crypto bot: I track popular token prices, draw charts and size positions.\n\n" +
	"🚀 <b>What for?</b>\n" +
	"- Check the current BTC, ETH, SOL price and more.\n" +
	"- Draw a 7-day price chart.\n" +
	"- Work out position size and liquidation price for any leverage.\n\n" +
	"🧮 <b>How does /calc work?</b>\n" +
	"Send <code>/calc &lt;entry_price&gt; &lt;leverage&gt; &lt;balance&gt;</code>:\n" +
	"• <b>entry_price</b>: the price you entered at (e.g. 20000)\n" +
	"• <b>leverage</b>: the leverage you want (e.g. 10)\n" +
	"• <b>balance</b>: your deposit in USD (e.g. 100)\n" +
	"The bot replies with position size and liquidation price."

var defaultMessages = Messages{
	Start: "👋 Hi! I'm a crypto bot. I can show prices, draw charts and size positions.\n\n" +
		"Press the button below or send /menu for the command list.",
	Menu: "📋 Commands:\n" +
		"/crypto — prices of popular cryptocurrencies.\n" +
		"/calc <entry_price> <leverage> <balance> — position calculator.\n" +
		"/chart — pick a coin and see its chart.\n" +
		"/faq — frequently asked questions.\n" +
		"/help — help",
	Help:              defaultHelp,
	OpenMenuButton:    "📋 Open menu",
	PricesHeader:      "💱 Current prices:",
	CalcResult:        "📈 Position size: %s\n⚠️ Liquidation: %s",
	ChartPrompt:       "Pick a token for the chart:",
	ChartCaption:      "📈 %s price, last %d days",
	DescriptionHeader: "🧾 Description:",
	FAQPrompt:         "❓ Pick a question:",
	FAQAnswer:         "📌 *%s*\n\n%s",
	Greeting:          "Hi to you too!",
	Farewell:          "See you!",
	NotUnderstood:     "Didn't get that 😅 Send /menu for the command list.",
	QuestionNotFound:  "Question not found.",
	CalcError:         "Error: %v",
	PricesError:       "Failed to fetch prices: %v",
	ChartError:        "Failed to load token data: %v",
	GenericError:      "Error: %v",
}

// DefaultMessages returns the built-in reply texts.
func DefaultMessages() Messages {
	return defaultMessages
}

func (m Messages) withDefaults() Messages {
	d := defaultMessages
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return Messages{
		Start:             pick(m.Start, d.Start),
		Menu:              pick(m.Menu, d.Menu),
		Help:              pick(m.Help, d.Help),
		OpenMenuButton:    pick(m.OpenMenuButton, d.OpenMenuButton),
		PricesHeader:      pick(m.PricesHeader, d.PricesHeader),
		CalcResult:        pick(m.CalcResult, d.CalcResult),
		ChartPrompt:       pick(m.ChartPrompt, d.ChartPrompt),
		ChartCaption:      pick(m.ChartCaption, d.ChartCaption),
		DescriptionHeader: pick(m.DescriptionHeader, d.DescriptionHeader),
		FAQPrompt:         pick(m.FAQPrompt, d.FAQPrompt),
		FAQAnswer:         pick(m.FAQAnswer, d.FAQAnswer),
		Greeting:          pick(m.Greeting, d.Greeting),
		Farewell:          pick(m.Farewell, d.Farewell),
		NotUnderstood:     pick(m.NotUnderstood, d.NotUnderstood),
		QuestionNotFound:  pick(m.QuestionNotFound, d.QuestionNotFound),
		CalcError:         pick(m.CalcError, d.CalcError),
		PricesError:       pick(m.PricesError, d.PricesError),
		ChartError:        pick(m.ChartError, d.ChartError),
		GenericError:      pick(m.GenericError, d.GenericError),
	}
}
