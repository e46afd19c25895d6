package telegram

import (
	"strings"
	"testing"

	"github.com/mymmrac/telego"

	"crosspost/pkg/config"
)

func TestNewAdapterRequiresToken(t *testing.T) {
	cfg := config.TelegramConfig{SourceChannels: []int64{-1001}}
	if _, err := NewAdapter(cfg, nil); err == nil {
		t.Fatal("expected error for missing bot token")
	}
}

func TestNewAdapterRequiresSources(t *testing.T) {
	cfg := config.TelegramConfig{BotToken: "123456:token"}
	if _, err := NewAdapter(cfg, nil); err == nil {
		t.Fatal("expected error for empty source channel list")
	}
}

func TestSourceSet(t *testing.T) {
	sources := sourceSet([]int64{-1001, -1002, -1001})
	if len(sources) != 2 {
		t.Fatalf("sourceSet len = %d, want 2", len(sources))
	}
	if _, ok := sources[-1002]; !ok {
		t.Fatal("sourceSet missing -1002")
	}
}

func TestToInboundUsesCaptionWhenTextEmpty(t *testing.T) {
	message := &telego.Message{
		MessageID: 7,
		Chat:      telego.Chat{ID: -1001},
		Caption:   "captioned",
		Document:  &telego.Document{FileID: "doc-1", FileSize: 42},
	}

	inbound := toInbound(message)
	if inbound.Text != "captioned" {
		t.Fatalf("text = %q, want %q", inbound.Text, "captioned")
	}
	if inbound.Media == nil || inbound.Media.FileID != "doc-1" {
		t.Fatalf("media = %+v, want document doc-1", inbound.Media)
	}
	if inbound.Media.Size != 42 {
		t.Fatalf("media size = %d, want 42", inbound.Media.Size)
	}
}

func TestMediaRefPicksLargestPhoto(t *testing.T) {
	message := &telego.Message{
		Photo: []telego.PhotoSize{
			{FileID: "small", FileSize: 100},
			{FileID: "large", FileSize: 9000},
			{FileID: "medium", FileSize: 800},
		},
	}

	ref := mediaRef(message)
	if ref == nil || ref.FileID != "large" {
		t.Fatalf("mediaRef = %+v, want largest photo", ref)
	}
}

func TestMediaRefNilWithoutAttachment(t *testing.T) {
	if ref := mediaRef(&telego.Message{Text: "plain"}); ref != nil {
		t.Fatalf("mediaRef = %+v, want nil", ref)
	}
}

func TestPreviewText(t *testing.T) {
	if got := previewText(" short "); got != "short" {
		t.Fatalf("previewText = %q, want %q", got, "short")
	}

	long := strings.Repeat("x", messagePreviewLimit+10)
	got := previewText(long)
	if !strings.HasSuffix(got, "...") || len(got) != messagePreviewLimit+3 {
		t.Fatalf("previewText long = %d chars, want %d with ellipsis", len(got), messagePreviewLimit+3)
	}
}
