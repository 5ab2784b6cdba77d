package commands_test

import (
	"reflect"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/jdelaire/linedraw/core"
	"github.com/jdelaire/linedraw/core/commands"
)

const testRoot = "https://bot.example.com"

// fixedSource always returns the same draw.
type fixedSource struct{ n int }

func (f fixedSource) IntN(n int) int {
	if f.n >= n {
		return n - 1
	}
	return f.n
}

func mustMatch(t *testing.T, tbl *commands.Table, text string) core.Reply {
	t.Helper()
	r, ok := tbl.Match(text, testRoot)
	if !ok {
		t.Fatalf("Match(%q) = no match, want match", text)
	}
	return r
}

func TestGreeting(t *testing.T) {
	r := mustMatch(t, commands.Default(), "嗨1~~!")
	want := core.TextReply{Text: "嗨，我是ncuuulinebot機器人~~\n幫大家紀錄了碩班這兩年的快樂時光ㄏㄏ"}
	if !reflect.DeepEqual(r, want) {
		t.Errorf("reply = %#v, want %#v", r, want)
	}
}

func TestEmojiPlaceholders(t *testing.T) {
	r := mustMatch(t, commands.Default(), "我要抽表情符號")
	tr, ok := r.(core.TextReply)
	if !ok {
		t.Fatalf("reply type = %T, want TextReply", r)
	}
	if len(tr.Emojis) != 2 {
		t.Fatalf("emojis = %d, want 2", len(tr.Emojis))
	}

	runes := []rune(tr.Text)
	for _, e := range tr.Emojis {
		if e.Index < 0 || e.Index >= len(runes) {
			t.Fatalf("emoji index %d out of range for %q", e.Index, tr.Text)
		}
		if runes[e.Index] != commands.EmojiPlaceholder {
			t.Errorf("text[%d] = %q, want placeholder", e.Index, runes[e.Index])
		}
		if e.ProductID != "5ac1bfd5040ab15980c9b435" {
			t.Errorf("product id = %q", e.ProductID)
		}
	}
	if tr.Emojis[0].Index != 0 || tr.Emojis[1].Index != 12 {
		t.Errorf("indexes = %d,%d, want 0,12", tr.Emojis[0].Index, tr.Emojis[1].Index)
	}
	if tr.Emojis[0].EmojiID != "001" || tr.Emojis[1].EmojiID != "002" {
		t.Errorf("emoji ids = %q,%q", tr.Emojis[0].EmojiID, tr.Emojis[1].EmojiID)
	}
}

func TestSticker(t *testing.T) {
	r := mustMatch(t, commands.Default(), "我要抽貼圖")
	want := core.StickerReply{PackageID: "446", StickerID: "1988"}
	if r != want {
		t.Errorf("reply = %#v, want %#v", r, want)
	}
}

func TestLocation(t *testing.T) {
	r := mustMatch(t, commands.Default(), "我要抽位置")
	want := core.LocationReply{
		Title:     "台北信義",
		Address:   "忠孝東路5段68號",
		Latitude:  25.033493,
		Longitude: 121.564101,
	}
	if r != want {
		t.Errorf("reply = %#v, want %#v", r, want)
	}
}

func TestFixedRepliesAreIdempotent(t *testing.T) {
	tbl := commands.Default()
	for _, text := range []string{
		commands.TriggerGreeting,
		commands.TriggerEmoji,
		commands.TriggerSticker,
		commands.TriggerLocation,
	} {
		first := mustMatch(t, tbl, text)
		second := mustMatch(t, tbl, text)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("%q: %#v != %#v", text, first, second)
		}
	}
}

func TestImageURLWithFixedSource(t *testing.T) {
	tbl := commands.Default(commands.WithSource(fixedSource{n: 4}))
	r := mustMatch(t, tbl, "抽抽")
	want := core.ImageReply{
		URL:        testRoot + "/static/images/image5.jpg",
		PreviewURL: testRoot + "/static/images/image5.jpg",
	}
	if r != want {
		t.Errorf("reply = %#v, want %#v", r, want)
	}
}

func TestAudioURLIsAttached(t *testing.T) {
	tbl := commands.Default(
		commands.WithSource(fixedSource{n: 0}),
		commands.WithAudioDuration(5*time.Second),
	)
	r := mustMatch(t, tbl, "我要抽聲音")
	want := core.AudioReply{URL: testRoot + "/static/audios/sound1.mp3", Duration: 5 * time.Second}
	if r != want {
		t.Errorf("reply = %#v, want %#v", r, want)
	}
}

func TestAudioDefaultDuration(t *testing.T) {
	r := mustMatch(t, commands.Default(), "我要抽聲音")
	ar, ok := r.(core.AudioReply)
	if !ok {
		t.Fatalf("reply type = %T, want AudioReply", r)
	}
	if ar.Duration != commands.DefaultAudioDuration {
		t.Errorf("duration = %v, want %v", ar.Duration, commands.DefaultAudioDuration)
	}
}

func TestVideoURLWithFixedSource(t *testing.T) {
	tbl := commands.Default(commands.WithSource(fixedSource{n: 99}))
	r := mustMatch(t, tbl, "我要抽影片")
	want := core.VideoReply{
		URL:        testRoot + "/static/videos/video10.mp4",
		PreviewURL: testRoot + "/static/videos/video10.mp4",
	}
	if r != want {
		t.Errorf("reply = %#v, want %#v", r, want)
	}
}

func TestRandomIndexCoverage(t *testing.T) {
	tests := []struct {
		trigger string
		pattern string
		max     int
		url     func(core.Reply) (string, string)
	}{
		{"抽抽", `/static/images/image(\d+)\.jpg$`, commands.ImageCount, func(r core.Reply) (string, string) {
			ir := r.(core.ImageReply)
			return ir.URL, ir.PreviewURL
		}},
		{"我要抽聲音", `/static/audios/sound(\d+)\.mp3$`, commands.AudioCount, func(r core.Reply) (string, string) {
			ar := r.(core.AudioReply)
			return ar.URL, ar.URL
		}},
		{"我要抽影片", `/static/videos/video(\d+)\.mp4$`, commands.VideoCount, func(r core.Reply) (string, string) {
			vr := r.(core.VideoReply)
			return vr.URL, vr.PreviewURL
		}},
	}

	tbl := commands.Default()
	const trials = 20000

	for _, tt := range tests {
		t.Run(tt.trigger, func(t *testing.T) {
			re := regexp.MustCompile("^" + regexp.QuoteMeta(testRoot) + tt.pattern)
			seen := make(map[int]bool)
			for i := 0; i < trials; i++ {
				url, preview := tt.url(mustMatch(t, tbl, tt.trigger))
				if url != preview {
					t.Fatalf("preview %q != url %q", preview, url)
				}
				m := re.FindStringSubmatch(url)
				if m == nil {
					t.Fatalf("url %q does not match %s", url, re)
				}
				n, _ := strconv.Atoi(m[1])
				if n < 1 || n > tt.max {
					t.Fatalf("index %d outside [1,%d]", n, tt.max)
				}
				seen[n] = true
			}
			if len(seen) != tt.max {
				t.Errorf("observed %d distinct indexes, want %d", len(seen), tt.max)
			}
		})
	}
}

func TestNoMatch(t *testing.T) {
	tbl := commands.Default()
	for _, text := range []string{
		"hello",
		"",
		" 抽抽",
		"抽抽 ",
		"抽抽\n",
		"嗨1~~",
		"嗨1~~!!",
		"我要抽",
	} {
		if r, ok := tbl.Match(text, testRoot); ok {
			t.Errorf("Match(%q) = %#v, want no match", text, r)
		}
	}
}

func TestMatchIsCaseSensitive(t *testing.T) {
	tbl := commands.NewTable([]commands.Command{
		{Trigger: "Ping", Build: func(commands.ReplyContext) core.Reply { return core.TextReply{Text: "pong"} }},
	})
	if _, ok := tbl.Match("ping", testRoot); ok {
		t.Error("lowercase text matched mixed-case trigger")
	}
	if _, ok := tbl.Match("Ping", testRoot); !ok {
		t.Error("exact text did not match")
	}
}

func TestFirstMatchWins(t *testing.T) {
	build := func(s string) func(commands.ReplyContext) core.Reply {
		return func(commands.ReplyContext) core.Reply { return core.TextReply{Text: s} }
	}
	tbl := commands.NewTable([]commands.Command{
		{Trigger: "dup", Build: build("first")},
		{Trigger: "dup", Build: build("second")},
	})
	r, _ := tbl.Match("dup", testRoot)
	if r.(core.TextReply).Text != "first" {
		t.Errorf("reply = %#v, want first", r)
	}
}

func TestNewTableCopiesCommands(t *testing.T) {
	cmds := []commands.Command{
		{Trigger: "a", Build: func(commands.ReplyContext) core.Reply { return core.TextReply{Text: "a"} }},
	}
	tbl := commands.NewTable(cmds)
	cmds[0].Trigger = "b"
	if _, ok := tbl.Match("a", testRoot); !ok {
		t.Error("table changed after caller mutated its slice")
	}
}

func TestTriggersOrder(t *testing.T) {
	got := commands.Default().Triggers()
	want := []string{"嗨1~~!", "我要抽表情符號", "我要抽貼圖", "抽抽", "我要抽聲音", "我要抽影片", "我要抽位置"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Triggers = %v, want %v", got, want)
	}
}

func TestReplyKinds(t *testing.T) {
	tbl := commands.Default()
	want := map[string]string{
		commands.TriggerGreeting: "text",
		commands.TriggerEmoji:    "text",
		commands.TriggerSticker:  "sticker",
		commands.TriggerImage:    "image",
		commands.TriggerAudio:    "audio",
		commands.TriggerVideo:    "video",
		commands.TriggerLocation: "location",
	}
	for trigger, kind := range want {
		if got := mustMatch(t, tbl, trigger).Kind(); got != kind {
			t.Errorf("%s: kind = %q, want %q", trigger, got, kind)
		}
	}
}
