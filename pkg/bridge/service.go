// Package bridge wires the relay together: source adapters feeding the
// router, the publisher credential check, and the liveness endpoint.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"crosspost/pkg/channel"
	"crosspost/pkg/config"
	"crosspost/pkg/health"
	"crosspost/pkg/relay"
)

// Publisher is the outbound platform as the service sees it: the router's
// delivery surface plus a startup credential check.
type Publisher interface {
	relay.Publisher
	Verify(ctx context.Context) error
}

// Service runs the bridge until its context is canceled or a component
// fails fatally.
type Service struct {
	cfg       *config.Config
	log       *slog.Logger
	router    *relay.Router
	publisher Publisher
	adapters  []channel.Adapter
	probe     *health.Server
}

// NewService assembles the bridge from its already-constructed parts.
func NewService(cfg *config.Config, adapters []channel.Adapter, router *relay.Router, publisher Publisher, log *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if len(adapters) == 0 {
		return nil, errors.New("at least one channel adapter is required")
	}
	if router == nil {
		return nil, errors.New("router is required")
	}
	if publisher == nil {
		return nil, errors.New("publisher is required")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		log:       log.With("component", "bridge.service"),
		router:    router,
		publisher: publisher,
		adapters:  adapters,
		probe:     health.NewServer(cfg.Health.Port, log),
	}, nil
}

// Run verifies publisher credentials, starts the liveness endpoint and the
// channel adapters, then blocks until cancellation or a fatal error. Per-
// message failures never reach this level; they end inside the router.
func (s *Service) Run(ctx context.Context) error {
	if err := s.publisher.Verify(ctx); err != nil {
		return fmt.Errorf("verify publisher credentials: %w", err)
	}

	probeErrors := make(chan error, 1)
	go func() {
		if err := s.probe.Run(ctx); err != nil {
			probeErrors <- err
		}
	}()

	adapterErrors := make(chan error, len(s.adapters))
	for _, adapter := range s.adapters {
		go func() {
			err := adapter.Run(ctx, s.handleInbound)
			if err != nil && !errors.Is(err, context.Canceled) {
				adapterErrors <- fmt.Errorf("run %s channel: %w", adapter.Name(), err)
			}
		}()
	}

	s.log.Info("Bridge started",
		"sources", len(s.cfg.Telegram.SourceChannels),
		"log_channel", s.cfg.Telegram.LogChannel,
		"max_post_length", s.cfg.Processing.MaxTwitterLength,
		"skip_long_posts", s.cfg.Processing.SkipLongPosts)

	select {
	case <-ctx.Done():
		return nil
	case err := <-probeErrors:
		return err
	case err := <-adapterErrors:
		return err
	}
}

// handleInbound routes one message. The router logs each delivery attempt;
// only the combined outcome is summarized here.
func (s *Service) handleInbound(ctx context.Context, msg relay.InboundMessage) {
	outcome := s.router.Route(ctx, msg)
	s.log.Info("Message handled",
		"message_id", msg.ID,
		"chat_id", msg.ChatID,
		"log_status", string(outcome.Log.Status),
		"post_status", string(outcome.Post.Status))
}
