package shop

// Delivery says how the renderer should present a Response.
type Delivery int

const (
	// DeliverSend posts a new message.
	DeliverSend Delivery = iota
	// DeliverEdit replaces the message whose button was pressed.
	DeliverEdit
	// DeliverNotice shows a transient callback answer. Without a callback it is sent as a message.
	DeliverNotice
)

func (d Delivery) String() string {
	switch d {
	case DeliverSend:
		return "send"
	case DeliverEdit:
		return "edit"
	case DeliverNotice:
		return "notice"
	}
	return "unknown"
}

// Action is an inline button: label shown to the user and the token sent back.
type Action struct {
	Label string
	Token string
}

// Response describes what to show the user. Text uses Telegram HTML.
type Response struct {
	Delivery Delivery
	Text     string
	// Actions are rendered one per row, in order.
	Actions []Action
}

func send(text string, actions ...Action) Response {
	return Response{Delivery: DeliverSend, Text: text, Actions: actions}
}

func edit(text string, actions ...Action) Response {
	return Response{Delivery: DeliverEdit, Text: text, Actions: actions}
}

func notice(text string) Response {
	return Response{Delivery: DeliverNotice, Text: text}
}
