// Package command turns inbound chat text and button callbacks into typed commands.
package command

// Kind enumerates the actions the bot can perform.
type Kind int

const (
	KindUnknown Kind = iota
	KindStart
	KindMenu
	KindHelp
	KindPrices
	KindCalc
	KindChartMenu
	KindChart
	KindFAQMenu
	KindFAQ
	KindOpenMenu
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindMenu:
		return "menu"
	case KindHelp:
		return "help"
	case KindPrices:
		return "crypto"
	case KindCalc:
		return "calc"
	case KindChartMenu:
		return "chart"
	case KindChart:
		return "chart_select"
	case KindFAQMenu:
		return "faq"
	case KindFAQ:
		return "faq_select"
	case KindOpenMenu:
		return "open_menu"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// slashCommands maps the name after "/" to its kind.
var slashCommands = map[string]Kind{
	"start":  KindStart,
	"menu":   KindMenu,
	"help":   KindHelp,
	"crypto": KindPrices,
	"calc":   KindCalc,
	"chart":  KindChartMenu,
	"faq":    KindFAQMenu,
}

// Callback data prefixes carried by inline keyboard buttons.
const (
	ChartPrefix  = "chart_"
	FAQPrefix    = "faq_"
	OpenMenuData = "open_menu"
)
