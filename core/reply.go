package core

import "time"

// Reply is one outbound message. The concrete types below are the only
// implementations.
type Reply interface {
	Kind() string
	isReply()
}

// Emoji places a LINE emoji over a "$" placeholder in a TextReply.
// Index counts characters (runes), not bytes.
type Emoji struct {
	Index     int
	ProductID string
	EmojiID   string
}

type TextReply struct {
	Text   string
	Emojis []Emoji
}

type ImageReply struct {
	URL        string
	PreviewURL string
}

type AudioReply struct {
	URL      string
	Duration time.Duration
}

type VideoReply struct {
	URL        string
	PreviewURL string
}

type StickerReply struct {
	PackageID string
	StickerID string
}

type LocationReply struct {
	Title     string
	Address   string
	Latitude  float64
	Longitude float64
}

func (TextReply) Kind() string     { return "text" }
func (ImageReply) Kind() string    { return "image" }
func (AudioReply) Kind() string    { return "audio" }
func (VideoReply) Kind() string    { return "video" }
func (StickerReply) Kind() string  { return "sticker" }
func (LocationReply) Kind() string { return "location" }

func (TextReply) isReply()     {}
func (ImageReply) isReply()    {}
func (AudioReply) isReply()    {}
func (VideoReply) isReply()    {}
func (StickerReply) isReply()  {}
func (LocationReply) isReply() {}
