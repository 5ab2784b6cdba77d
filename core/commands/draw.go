package commands

import (
	"fmt"

	"github.com/jdelaire/linedraw/core"
)

const (
	TriggerGreeting = "嗨1~~!"
	TriggerEmoji    = "我要抽表情符號"
	TriggerSticker  = "我要抽貼圖"
	TriggerImage    = "抽抽"
	TriggerAudio    = "我要抽聲音"
	TriggerVideo    = "我要抽影片"
	TriggerLocation = "我要抽位置"
)

const (
	GreetingText = "嗨，我是ncuuulinebot機器人~~\n幫大家紀錄了碩班這兩年的快樂時光ㄏㄏ"

	// EmojiText holds "$" placeholders at rune offsets 0 and 12.
	EmojiText        = "$ Line 表情符號 $"
	EmojiPlaceholder = '$'
	emojiProductID   = "5ac1bfd5040ab15980c9b435"

	stickerPackageID = "446"
	stickerID        = "1988"

	locationTitle     = "台北信義"
	locationAddress   = "忠孝東路5段68號"
	locationLatitude  = 25.033493
	locationLongitude = 121.564101
)

// Number of numbered assets under /static.
const (
	ImageCount = 73
	AudioCount = 10
	VideoCount = 10
)

func drawCommands() []Command {
	return []Command{
		{Trigger: TriggerGreeting, Build: greeting},
		{Trigger: TriggerEmoji, Build: emojiText},
		{Trigger: TriggerSticker, Build: sticker},
		{Trigger: TriggerImage, Build: randomImage},
		{Trigger: TriggerAudio, Build: randomAudio},
		{Trigger: TriggerVideo, Build: randomVideo},
		{Trigger: TriggerLocation, Build: location},
	}
}

func greeting(ReplyContext) core.Reply {
	return core.TextReply{Text: GreetingText}
}

func emojiText(ReplyContext) core.Reply {
	return core.TextReply{
		Text: EmojiText,
		Emojis: []core.Emoji{
			{Index: 0, ProductID: emojiProductID, EmojiID: "001"},
			{Index: 12, ProductID: emojiProductID, EmojiID: "002"},
		},
	}
}

func sticker(ReplyContext) core.Reply {
	return core.StickerReply{PackageID: stickerPackageID, StickerID: stickerID}
}

func randomImage(rc ReplyContext) core.Reply {
	url := fmt.Sprintf("%s/static/images/image%d.jpg", rc.RootURL, rc.draw(ImageCount))
	return core.ImageReply{URL: url, PreviewURL: url}
}

func randomAudio(rc ReplyContext) core.Reply {
	url := fmt.Sprintf("%s/static/audios/sound%d.mp3", rc.RootURL, rc.draw(AudioCount))
	return core.AudioReply{URL: url, Duration: rc.AudioDuration}
}

func randomVideo(rc ReplyContext) core.Reply {
	url := fmt.Sprintf("%s/static/videos/video%d.mp4", rc.RootURL, rc.draw(VideoCount))
	return core.VideoReply{URL: url, PreviewURL: url}
}

func location(ReplyContext) core.Reply {
	return core.LocationReply{
		Title:     locationTitle,
		Address:   locationAddress,
		Latitude:  locationLatitude,
		Longitude: locationLongitude,
	}
}
