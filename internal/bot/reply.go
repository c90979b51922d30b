package bot

import "cryptobot/internal/command"

type ReplyKind int

const (
	ReplyText ReplyKind = iota
	ReplyPhoto
)

const (
	ParseModeHTML     = "HTML"
	ParseModeMarkdown = "Markdown"
)

// Button is one inline keyboard button carrying callback data.
type Button struct {
	Text string
	Data string
}

// Reply is one outbound chat message. Photo replies use Text as the caption.
type Reply struct {
	Kind      ReplyKind
	Text      string
	ParseMode string
	Photo     []byte
	Filename  string
	Keyboard  [][]Button
}

func textReply(text string) Reply {
	return Reply{Kind: ReplyText, Text: text}
}

// Update is an inbound chat event, either a message or a button callback.
type Update struct {
	RequestID    string
	ChatID       int64
	UserID       int64
	Text         string
	CallbackID   string
	CallbackData string
}

func (u Update) IsCallback() bool {
	return u.CallbackID != ""
}

// Outcome is the result of routing one update. Err is the handler failure
// already rendered into Replies; callers only log or count it.
type Outcome struct {
	Command command.Command
	Replies []Reply
	Err     error
}
