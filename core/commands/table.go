package commands

import (
	"math/rand"
	"time"

	"github.com/jdelaire/linedraw/core"
)

// DefaultAudioDuration is the audio length reported to LINE when none is configured.
const DefaultAudioDuration = 60 * time.Second

// IntSource draws integers in [0, n).
type IntSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.Intn(n) }

// ReplyContext carries per-request inputs into reply builders.
type ReplyContext struct {
	RootURL       string
	Rand          IntSource
	AudioDuration time.Duration
}

// draw returns a uniform integer in [1, n].
func (rc ReplyContext) draw(n int) int {
	return rc.Rand.IntN(n) + 1
}

// Command maps one exact trigger text to a reply builder.
type Command struct {
	Trigger string
	Build   func(rc ReplyContext) core.Reply
}

// Table is an ordered, read-only list of commands. The first command whose
// trigger equals the text wins.
type Table struct {
	commands      []Command
	rand          IntSource
	audioDuration time.Duration
}

// Option configures a Table.
type Option func(*Table)

// WithSource replaces the randomness source (for testing).
func WithSource(src IntSource) Option {
	return func(t *Table) {
		if src != nil {
			t.rand = src
		}
	}
}

// WithAudioDuration sets the duration attached to audio replies.
func WithAudioDuration(d time.Duration) Option {
	return func(t *Table) {
		if d > 0 {
			t.audioDuration = d
		}
	}
}

// NewTable creates a table from cmds. The slice is copied.
func NewTable(cmds []Command, opts ...Option) *Table {
	t := &Table{
		commands:      make([]Command, len(cmds)),
		rand:          globalRand{},
		audioDuration: DefaultAudioDuration,
	}
	copy(t.commands, cmds)
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Default returns the table of draw commands.
func Default(opts ...Option) *Table {
	return NewTable(drawCommands(), opts...)
}

// Match compares text against every trigger exactly (case-sensitive, no
// trimming) and builds the reply of the first hit.
func (t *Table) Match(text, rootURL string) (core.Reply, bool) {
	for _, c := range t.commands {
		if c.Trigger != text {
			continue
		}
		return c.Build(ReplyContext{
			RootURL:       rootURL,
			Rand:          t.rand,
			AudioDuration: t.audioDuration,
		}), true
	}
	return nil, false
}

// Triggers returns the trigger texts in table order.
func (t *Table) Triggers() []string {
	out := make([]string, len(t.commands))
	for i, c := range t.commands {
		out[i] = c.Trigger
	}
	return out
}
