package events

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"airport-query-engine/internal/common/config"
	"airport-query-engine/internal/common/logger"
)

// Connect dials the events server. The connection reconnects forever once
// established; only the initial dial can fail.
func Connect(cfg config.EventsConfig, log logger.Logger) (*nats.Conn, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.ConnectName),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("events connection lost", map[string]interface{}{"error": err.Error()})
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("events connection restored", map[string]interface{}{"url": c.ConnectedUrl()})
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to events server %s: %w", cfg.URL, err)
	}
	return conn, nil
}

var _ Conn = (*nats.Conn)(nil)
