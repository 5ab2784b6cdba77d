package line_events

import (
	"encoding/json"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/jdelaire/linedraw/core"
)

// Decoder parses LINE webhook callback bodies.
type Decoder struct{}

// New creates a LINE webhook decoder.
func New() *Decoder {
	return &Decoder{}
}

// Decode returns the events of body in delivery order. The signature must
// already have been checked.
func (d *Decoder) Decode(body []byte) ([]core.Event, error) {
	var cb webhook.CallbackRequest
	if err := json.Unmarshal(body, &cb); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrDecode, err)
	}

	events := make([]core.Event, 0, len(cb.Events))
	for _, ev := range cb.Events {
		events = append(events, convert(ev))
	}
	return events, nil
}

func convert(ev webhook.EventInterface) core.Event {
	msg, ok := ev.(webhook.MessageEvent)
	if !ok {
		return core.Event{Type: core.EventOther}
	}

	out := core.Event{
		ID:         msg.WebhookEventId,
		Type:       core.EventMessage,
		ReplyToken: msg.ReplyToken,
	}
	switch m := msg.Message.(type) {
	case webhook.TextMessageContent:
		out.Content = core.TextContent{Text: m.Text}
	case nil:
		out.Content = core.OtherContent{Kind: "unknown"}
	default:
		out.Content = core.OtherContent{Kind: m.GetType()}
	}
	return out
}
