package core

import (
	"context"
	"log/slog"
	"time"
)

const replyTimeout = 10 * time.Second

// Matcher selects the reply for a message text. rootURL is the public base
// of the service, used to build asset links.
type Matcher interface {
	Match(text, rootURL string) (Reply, bool)
}

// Result summarizes one Dispatch call.
type Result struct {
	Events  int
	Matched int
	Sent    int
	Failed  int
}

// Dispatcher routes decoded events to the command matcher and sends replies.
type Dispatcher struct {
	matcher Matcher
	replier Replier
	logger  *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(matcher Matcher, replier Replier, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		matcher: matcher,
		replier: replier,
		logger:  logger,
	}
}

// Dispatch processes events in order. Non-text events and unknown texts are
// skipped silently. A failed send is logged and does not stop later events.
func (d *Dispatcher) Dispatch(ctx context.Context, rootURL string, events []Event) Result {
	res := Result{Events: len(events)}

	for _, ev := range events {
		text, ok := ev.Text()
		if !ok {
			continue
		}

		reply, ok := d.matcher.Match(text, rootURL)
		if !ok {
			continue
		}
		res.Matched++

		if err := d.send(ctx, ev, reply); err != nil {
			res.Failed++
			d.logger.Error("reply failed",
				"replier", d.replier.Name(),
				"event_id", ev.ID,
				"kind", reply.Kind(),
				"error", err)
			continue
		}
		res.Sent++
		d.logger.Debug("reply sent", "event_id", ev.ID, "kind", reply.Kind())
	}

	return res
}

func (d *Dispatcher) send(ctx context.Context, ev Event, reply Reply) error {
	ctx, cancel := context.WithTimeout(ctx, replyTimeout)
	defer cancel()
	return d.replier.Reply(ctx, ev.ReplyToken, reply)
}
