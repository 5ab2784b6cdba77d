package line_replier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/jdelaire/linedraw/core"
)

const defaultBaseURL = "https://api.line.me"

// Replier sends replies through the LINE Messaging API.
type Replier struct {
	accessToken string
	client      *http.Client
	baseURL     string
}

// New creates a LINE replier authenticated with a channel access token.
func New(accessToken string) *Replier {
	return &Replier{
		accessToken: accessToken,
		client:      &http.Client{Timeout: 10 * time.Second},
		baseURL:     defaultBaseURL,
	}
}

func (r *Replier) Name() string { return "line" }

// Reply sends exactly one message for reply token. Failures are not retried.
func (r *Replier) Reply(ctx context.Context, replyToken string, reply core.Reply) error {
	msg, err := toMessage(reply)
	if err != nil {
		return err
	}

	api, err := messaging_api.NewMessagingApiAPI(r.accessToken,
		messaging_api.WithEndpoint(r.baseURL),
		messaging_api.WithHTTPClient(r.client),
	)
	if err != nil {
		return fmt.Errorf("line client: %w", err)
	}

	_, err = api.WithContext(ctx).ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   []messaging_api.MessageInterface{msg},
	})
	if err != nil {
		return fmt.Errorf("line reply: %w", err)
	}
	return nil
}

// WithBaseURL sets a custom API base URL (for testing).
func (r *Replier) WithBaseURL(baseURL string) *Replier {
	r.baseURL = baseURL
	return r
}

func toMessage(reply core.Reply) (messaging_api.MessageInterface, error) {
	switch m := reply.(type) {
	case core.TextReply:
		out := messaging_api.TextMessage{Text: m.Text}
		for _, e := range m.Emojis {
			out.Emojis = append(out.Emojis, messaging_api.Emoji{
				Index:     int32(e.Index),
				ProductId: e.ProductID,
				EmojiId:   e.EmojiID,
			})
		}
		return out, nil
	case core.ImageReply:
		return messaging_api.ImageMessage{
			OriginalContentUrl: m.URL,
			PreviewImageUrl:    m.PreviewURL,
		}, nil
	case core.AudioReply:
		return messaging_api.AudioMessage{
			OriginalContentUrl: m.URL,
			Duration:           m.Duration.Milliseconds(),
		}, nil
	case core.VideoReply:
		return messaging_api.VideoMessage{
			OriginalContentUrl: m.URL,
			PreviewImageUrl:    m.PreviewURL,
		}, nil
	case core.StickerReply:
		return messaging_api.StickerMessage{
			PackageId: m.PackageID,
			StickerId: m.StickerID,
		}, nil
	case core.LocationReply:
		return messaging_api.LocationMessage{
			Title:     m.Title,
			Address:   m.Address,
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported reply type %T", reply)
	}
}
