package command

import (
	"strings"
)

// Command is one parsed inbound action.
type Command struct {
	Kind Kind
	// Name is the lower-cased command word without "/" or "@bot" suffix.
	Name string
	// Mention is the bot username after "@", as typed; empty when absent.
	Mention string
	Args    []string
	Raw     string
}

// ParseMessage classifies a chat message. Unknown slash commands are treated as free text.
func ParseMessage(text string) Command {
	raw := text
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return Command{Kind: KindText, Raw: raw}
	}
	name, mention, _ := strings.Cut(strings.TrimPrefix(fields[0], "/"), "@")
	name = strings.ToLower(name)
	kind, ok := slashCommands[name]
	if !ok {
		return Command{Kind: KindText, Mention: mention, Raw: raw}
	}
	return Command{Kind: kind, Name: name, Mention: mention, Args: fields[1:], Raw: raw}
}

// AddressedTo reports whether the command may be answered by the bot named
// username. Commands without a mention, or a bot with unknown name, always match.
func (c Command) AddressedTo(username string) bool {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if c.Mention == "" || username == "" {
		return true
	}
	return strings.EqualFold(c.Mention, username)
}

// ParseCallback classifies inline button callback data.
func ParseCallback(data string) Command {
	switch {
	case data == OpenMenuData:
		return Command{Kind: KindOpenMenu, Name: OpenMenuData, Raw: data}
	case strings.HasPrefix(data, ChartPrefix):
		return Command{Kind: KindChart, Name: "chart", Args: []string{strings.TrimPrefix(data, ChartPrefix)}, Raw: data}
	case strings.HasPrefix(data, FAQPrefix):
		return Command{Kind: KindFAQ, Name: "faq", Args: []string{strings.TrimPrefix(data, FAQPrefix)}, Raw: data}
	default:
		return Command{Kind: KindUnknown, Raw: data}
	}
}

// Symbols returns the lower-cased arguments, or fallback when none were given.
func (c Command) Symbols(fallback []string) []string {
	if len(c.Args) == 0 {
		return append([]string(nil), fallback...)
	}
	out := make([]string, 0, len(c.Args))
	for _, arg := range c.Args {
		out = append(out, strings.ToLower(arg))
	}
	return out
}
