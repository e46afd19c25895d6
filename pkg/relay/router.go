// Package relay decides where each inbound message goes and carries it there:
// always to the log channel, and to the publisher when the processed text
// fits the length gate.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"crosspost/pkg/config"
	"crosspost/pkg/textproc"
)

// maxPostMediaBytes is the upload ceiling on the publisher side. Larger
// files fail that delivery attempt without touching the log leg.
const maxPostMediaBytes = 50 << 20

// Messenger is the source-platform client as the router needs it: media
// acquisition plus delivery to the log channel.
type Messenger interface {
	DownloadMedia(ctx context.Context, ref MediaRef) (string, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendFile(ctx context.Context, chatID int64, path string, caption string) error
}

// Publisher posts to the micro-blogging platform.
type Publisher interface {
	UploadMedia(ctx context.Context, path string) (string, error)
	CreatePost(ctx context.Context, text string, mediaIDs []string) (string, error)
}

// Router fans one inbound message out to both destinations. The attempts are
// independent: failure of one never blocks or rolls back the other, and no
// error escapes Route.
type Router struct {
	cfg       *config.Config
	messenger Messenger
	publisher Publisher
	log       *slog.Logger
}

// NewRouter wires the router against its two delivery surfaces.
func NewRouter(cfg *config.Config, messenger Messenger, publisher Publisher, log *slog.Logger) (*Router, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if messenger == nil {
		return nil, errors.New("messenger is required")
	}
	if publisher == nil {
		return nil, errors.New("publisher is required")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Router{
		cfg:       cfg,
		messenger: messenger,
		publisher: publisher,
		log:       log.With("component", "relay.router"),
	}, nil
}

// Route processes one message and attempts both deliveries sequentially: the
// log channel first (always), then the publisher unless the processed text
// exceeds the configured maximum and skipping is enabled. Per-destination
// failures are logged and reported in the outcome.
func (r *Router) Route(ctx context.Context, msg InboundMessage) Outcome {
	text := textproc.Process(msg.Text, r.cfg.Processing)
	outcome := Outcome{Text: text}

	skipPost := false
	if r.cfg.Processing.SkipLongPosts {
		if n := textproc.Length(text); n > r.cfg.Processing.MaxTwitterLength {
			r.log.Warn("Processed text too long for publishing",
				"message_id", msg.ID, "length", n, "max", r.cfg.Processing.MaxTwitterLength)
			skipPost = true
		}
	}

	outcome.Log = r.deliverLog(ctx, msg, text)

	if skipPost {
		outcome.Post = Delivery{Status: StatusSkipped, Detail: "exceeds max post length"}
		r.log.Info("Skipped publishing", "message_id", msg.ID)
	} else {
		outcome.Post = r.deliverPost(ctx, msg, text)
	}

	return outcome
}

// deliverLog relays the processed text (and media, when present) to the log
// channel without a forward tag.
func (r *Router) deliverLog(ctx context.Context, msg InboundMessage, text string) Delivery {
	if msg.Media == nil {
		if err := r.messenger.SendMessage(ctx, r.cfg.Telegram.LogChannel, text); err != nil {
			r.log.Error("Failed to relay to log channel", "message_id", msg.ID, "error", err)
			return Delivery{Status: StatusFailed, Detail: err.Error()}
		}
		r.log.Info("Relayed to log channel", "message_id", msg.ID, "chat_id", msg.ChatID)
		return Delivery{Status: StatusDelivered}
	}

	path, err := r.messenger.DownloadMedia(ctx, *msg.Media)
	if err != nil {
		r.log.Error("Failed to download media for log channel", "message_id", msg.ID, "error", err)
		return Delivery{Status: StatusFailed, Detail: err.Error()}
	}
	defer r.removeTransient(path)

	if err := r.messenger.SendFile(ctx, r.cfg.Telegram.LogChannel, path, text); err != nil {
		r.log.Error("Failed to relay media to log channel", "message_id", msg.ID, "error", err)
		return Delivery{Status: StatusFailed, Detail: err.Error()}
	}

	r.log.Info("Relayed media to log channel", "message_id", msg.ID, "chat_id", msg.ChatID)
	return Delivery{Status: StatusDelivered}
}

// deliverPost uploads media (when present) and creates the post. The
// transient file is removed on every exit path.
func (r *Router) deliverPost(ctx context.Context, msg InboundMessage, text string) Delivery {
	var mediaIDs []string

	if msg.Media != nil {
		path, err := r.messenger.DownloadMedia(ctx, *msg.Media)
		if err != nil {
			r.log.Error("Failed to download media for publishing", "message_id", msg.ID, "error", err)
			return Delivery{Status: StatusFailed, Detail: err.Error()}
		}
		defer r.removeTransient(path)

		info, err := os.Stat(path)
		if err != nil {
			r.log.Error("Failed to stat transient media", "message_id", msg.ID, "error", err)
			return Delivery{Status: StatusFailed, Detail: err.Error()}
		}
		if info.Size() > maxPostMediaBytes {
			detail := fmt.Sprintf("media size %d exceeds %d byte limit", info.Size(), maxPostMediaBytes)
			r.log.Warn("Media too large for publishing", "message_id", msg.ID, "size", info.Size())
			return Delivery{Status: StatusFailed, Detail: detail}
		}

		mediaID, err := r.publisher.UploadMedia(ctx, path)
		if err != nil {
			r.log.Error("Failed to upload media", "message_id", msg.ID, "error", err)
			return Delivery{Status: StatusFailed, Detail: err.Error()}
		}
		mediaIDs = append(mediaIDs, mediaID)
	}

	postID, err := r.publisher.CreatePost(ctx, text, mediaIDs)
	if err != nil {
		r.log.Error("Failed to create post", "message_id", msg.ID, "error", err)
		return Delivery{Status: StatusFailed, Detail: err.Error()}
	}

	r.log.Info("Published post", "message_id", msg.ID, "post_id", postID)
	return Delivery{Status: StatusDelivered, Detail: postID}
}

func (r *Router) removeTransient(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		r.log.Warn("Failed to remove transient media file", "path", path, "error", err)
	}
}
