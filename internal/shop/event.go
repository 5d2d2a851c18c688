package shop

// EventKind tells how an inbound update reached the bot.
type EventKind int

const (
	// EventCommand is a slash command such as /start.
	EventCommand EventKind = iota + 1
	// EventAction is an inline button press carrying a token.
	EventAction
	// EventText is a plain text message.
	EventText
)

func (k EventKind) String() string {
	switch k {
	case EventCommand:
		return "command"
	case EventAction:
		return "action"
	case EventText:
		return "text"
	}
	return "unknown"
}

// Event is one inbound update reduced to what the dispatcher needs.
type Event struct {
	Kind   EventKind
	UserID int64
	// Key is the command name without slash, or the action token.
	Key string
	// Body is the message text of EventText.
	Body string
}

// CommandEvent builds an EventCommand.
func CommandEvent(userID int64, name string) Event {
	return Event{Kind: EventCommand, UserID: userID, Key: name}
}

// ActionEvent builds an EventAction.
func ActionEvent(userID int64, token string) Event {
	return Event{Kind: EventAction, UserID: userID, Key: token}
}

// TextEvent builds an EventText.
func TextEvent(userID int64, body string) Event {
	return Event{Kind: EventText, UserID: userID, Body: body}
}
