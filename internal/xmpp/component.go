package xmpp

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"gosrc.io/xmpp"

	"github.com/mentari-platform/mentari/internal/config"
)

// Component is the XEP-0114 external component learners address to chat
// with the tutor.
type Component struct {
	sm        *xmpp.StreamManager
	comp      *xmpp.Component
	connected atomic.Bool
	cancel    context.CancelFunc
}

func componentOptions(cfg config.XMPPConfig) xmpp.ComponentOptions {
	return xmpp.ComponentOptions{
		TransportConfiguration: xmpp.TransportConfiguration{
			Address: cfg.ComponentAddr(),
			Domain:  cfg.ComponentName,
		},
		Domain:   cfg.ComponentName,
		Secret:   cfg.ComponentSecret,
		Name:     "Mentari Tutor",
		Category: "client",
		Type:     "bot",
	}
}

// NewComponent routes message, presence and iq stanzas to handler. It does
// not connect until Start.
func NewComponent(cfg config.XMPPConfig, handler *Handler) (*Component, error) {
	router := xmpp.NewRouter()
	router.HandleFunc("message", handler.HandleMessage)
	router.HandleFunc("presence", handler.HandlePresence)
	router.HandleFunc("iq", handler.HandleIQ)

	c := &Component{}
	comp, err := xmpp.NewComponent(componentOptions(cfg), router, func(err error) {
		c.connected.Store(false)
		slog.Error("XMPP component stream error", "domain", cfg.ComponentName, "error", err)
	})
	if err != nil {
		return nil, fmt.Errorf("creating XMPP component: %w", err)
	}
	c.comp = comp
	c.sm = xmpp.NewStreamManager(comp, func(xmpp.Sender) {
		c.connected.Store(true)
		slog.Info("XMPP component connected", "domain", cfg.ComponentName, "addr", cfg.ComponentAddr())
	})
	return c, nil
}

// Start blocks until ctx is done or the stream manager gives up.
func (c *Component) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- c.sm.Run()
	}()

	select {
	case <-ctx.Done():
		c.sm.Stop()
		return nil
	case err := <-errCh:
		c.connected.Store(false)
		if err != nil {
			return fmt.Errorf("running XMPP component: %w", err)
		}
		return nil
	}
}

// Connected reports whether the component stream is currently established.
func (c *Component) Connected() bool {
	return c.connected.Load()
}

func (c *Component) Sender() xmpp.Sender {
	return c.comp
}

func (c *Component) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.connected.Store(false)
	c.sm.Stop()
}
