package core

import "context"

// Replier delivers a reply addressed by a platform reply token.
type Replier interface {
	Name() string
	Reply(ctx context.Context, replyToken string, r Reply) error
}
