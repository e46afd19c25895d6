package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"crosspost/pkg/channel"
	"crosspost/pkg/config"
	"crosspost/pkg/relay"
)

const channelName = "telegram"
const messagePreviewLimit = 240

// Adapter is both sides of the Telegram integration: it long-polls the
// monitored source channels for new posts, and it is the log-channel sink
// and media source the router delivers through.
type Adapter struct {
	cfg     config.TelegramConfig
	bot     *telego.Bot
	sources map[int64]struct{}
	log     *slog.Logger
}

// NewAdapter validates Telegram configuration and constructs an adapter.
func NewAdapter(cfg config.TelegramConfig, log *slog.Logger) (*Adapter, error) {
	token := strings.TrimSpace(cfg.BotToken)
	if token == "" {
		return nil, errors.New("telegram bot token is required")
	}
	if len(cfg.SourceChannels) == 0 {
		return nil, errors.New("at least one source channel is required")
	}
	if log == nil {
		log = slog.Default()
	}

	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	return &Adapter{
		cfg:     cfg,
		bot:     bot,
		sources: sourceSet(cfg.SourceChannels),
		log:     log.With("component", "channel.telegram"),
	}, nil
}

// Name returns the channel identifier used in logs.
func (a *Adapter) Name() string {
	return channelName
}

// Run starts long polling and invokes handler once per new post on a
// monitored source channel. Posts from any other chat are ignored. Each
// handler invocation runs to completion before the next update is taken.
func (a *Adapter) Run(ctx context.Context, handler channel.Handler) error {
	if handler == nil {
		return errors.New("handler is required")
	}

	params := &telego.GetUpdatesParams{
		AllowedUpdates: []string{"message", "channel_post"},
	}
	updates, err := a.bot.UpdatesViaLongPolling(ctx, params)
	if err != nil {
		return fmt.Errorf("start long polling: %w", err)
	}

	a.log.Info("Telegram channel started", "sources", len(a.sources), "log_channel", a.cfg.LogChannel)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("telegram updates channel closed")
			}

			message := update.Message
			if message == nil {
				message = update.ChannelPost
			}
			if message == nil {
				continue
			}
			if _, watched := a.sources[message.Chat.ID]; !watched {
				continue
			}

			inbound := toInbound(message)
			a.log.Info("New message",
				"chat_id", message.Chat.ID,
				"message_id", message.MessageID,
				"has_media", inbound.Media != nil,
				"text", previewText(inbound.Text))

			handler(ctx, inbound)
		}
	}
}

// DownloadMedia fetches one attachment into a transient local file. The
// caller owns the file and removes it when its delivery attempt ends.
func (a *Adapter) DownloadMedia(ctx context.Context, ref relay.MediaRef) (string, error) {
	file, err := a.bot.GetFile(ctx, &telego.GetFileParams{FileID: ref.FileID})
	if err != nil {
		return "", fmt.Errorf("resolve file %s: %w", ref.FileID, err)
	}

	data, err := tu.DownloadFile(a.bot.FileDownloadURL(file.FilePath))
	if err != nil {
		return "", fmt.Errorf("download file %s: %w", ref.FileID, err)
	}

	path := filepath.Join(os.TempDir(), "crosspost_media_"+uuid.NewString()+filepath.Ext(file.FilePath))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write transient media file: %w", err)
	}

	return path, nil
}

// SendMessage delivers plain text to a chat.
func (a *Adapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	if _, err := a.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		return fmt.Errorf("send message to %d: %w", chatID, err)
	}
	return nil
}

// SendFile delivers a local file with a caption to a chat.
func (a *Adapter) SendFile(ctx context.Context, chatID int64, path string, caption string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open media file: %w", err)
	}
	defer f.Close()

	document := tu.Document(tu.ID(chatID), tu.File(tu.NameReader(f, filepath.Base(path)))).
		WithCaption(caption)
	if _, err := a.bot.SendDocument(ctx, document); err != nil {
		return fmt.Errorf("send file to %d: %w", chatID, err)
	}
	return nil
}

// toInbound converts a Telegram message into the transport-neutral form.
// Captioned media carries its caption as the text payload.
func toInbound(message *telego.Message) relay.InboundMessage {
	text := message.Text
	if text == "" {
		text = message.Caption
	}

	return relay.InboundMessage{
		ID:     message.MessageID,
		ChatID: message.Chat.ID,
		Text:   text,
		Media:  mediaRef(message),
	}
}

// mediaRef picks the downloadable attachment of a message, if any. Photos
// arrive in multiple sizes; the largest one is relayed.
func mediaRef(message *telego.Message) *relay.MediaRef {
	switch {
	case len(message.Photo) > 0:
		largest := message.Photo[0]
		for _, size := range message.Photo[1:] {
			if size.FileSize > largest.FileSize {
				largest = size
			}
		}
		return &relay.MediaRef{FileID: largest.FileID, Size: int64(largest.FileSize)}
	case message.Video != nil:
		return &relay.MediaRef{FileID: message.Video.FileID, Size: int64(message.Video.FileSize)}
	case message.Animation != nil:
		return &relay.MediaRef{FileID: message.Animation.FileID, Size: int64(message.Animation.FileSize)}
	case message.Document != nil:
		return &relay.MediaRef{FileID: message.Document.FileID, Size: int64(message.Document.FileSize)}
	case message.Audio != nil:
		return &relay.MediaRef{FileID: message.Audio.FileID, Size: int64(message.Audio.FileSize)}
	case message.Voice != nil:
		return &relay.MediaRef{FileID: message.Voice.FileID, Size: int64(message.Voice.FileSize)}
	}

	return nil
}

// sourceSet normalizes the monitored channel list into a lookup set.
func sourceSet(channels []int64) map[int64]struct{} {
	sources := make(map[int64]struct{}, len(channels))
	for _, id := range channels {
		sources[id] = struct{}{}
	}
	return sources
}

// previewText returns a bounded log-safe preview of message text.
func previewText(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= messagePreviewLimit {
		return trimmed
	}

	return trimmed[:messagePreviewLimit] + "..."
}
