package core

import "errors"

// ErrDecode is returned by an EventDecoder when the webhook body cannot be parsed.
var ErrDecode = errors.New("decode webhook body")

// EventType classifies an inbound webhook event.
type EventType int

const (
	EventOther EventType = iota
	EventMessage
)

func (t EventType) String() string {
	switch t {
	case EventMessage:
		return "message"
	default:
		return "other"
	}
}

// MessageContent is the body of a message event.
// Only TextContent triggers a reply.
type MessageContent interface {
	contentKind() string
}

// TextContent is a plain text chat message.
type TextContent struct {
	Text string
}

func (TextContent) contentKind() string { return "text" }

// OtherContent is any non-text message (sticker, image, location...).
type OtherContent struct {
	Kind string
}

func (c OtherContent) contentKind() string { return c.Kind }

// Event is one record delivered in a webhook body, in platform order.
type Event struct {
	ID         string
	Type       EventType
	Content    MessageContent
	ReplyToken string
}

// Text returns the message text and true when the event is a text message.
func (e Event) Text() (string, bool) {
	if e.Type != EventMessage {
		return "", false
	}
	tc, ok := e.Content.(TextContent)
	if !ok {
		return "", false
	}
	return tc.Text, true
}

// EventDecoder turns a verified webhook body into events.
type EventDecoder interface {
	Decode(body []byte) ([]Event, error)
}
