// Package builtin registers the stock handlers with a registry.
package builtin

import (
	"time"

	"airport-query-engine/internal/common/config"
	"airport-query-engine/internal/common/logger"
	"airport-query-engine/internal/engine/handler"
	"airport-query-engine/internal/engine/registry"
	aircraftinfo "airport-query-engine/internal/handlers/aircraft/aircraft-info"
	aircraftstands "airport-query-engine/internal/handlers/aircraft/aircraft-stands"
	airlineinfo "airport-query-engine/internal/handlers/airline/airline-info"
	maintenancestatus "airport-query-engine/internal/handlers/maintenance/maintenance-status"
	standdetails "airport-query-engine/internal/handlers/stand/stand-details"
	standfind "airport-query-engine/internal/handlers/stand/stand-find"
)

// Definition pairs a handler name with its factory.
type Definition struct {
	Name    string
	Factory func(hc config.HandlerConfig) handler.Factory
}

// Definitions lists the stock handlers in registration order. Order matters
// when two handlers claim the same intent.
func Definitions() []Definition {
	return []Definition{
		{standdetails.Name, func(hc config.HandlerConfig) handler.Factory {
			return standdetails.Factory(standdetails.LoadConfig(hc))
		}},
		{standfind.Name, func(hc config.HandlerConfig) handler.Factory {
			return standfind.Factory(standfind.LoadConfig(hc))
		}},
		{aircraftstands.Name, func(hc config.HandlerConfig) handler.Factory {
			return aircraftstands.Factory(aircraftstands.LoadConfig(hc))
		}},
		{aircraftinfo.Name, func(hc config.HandlerConfig) handler.Factory {
			return aircraftinfo.Factory(aircraftinfo.LoadConfig(hc))
		}},
		{airlineinfo.Name, func(hc config.HandlerConfig) handler.Factory {
			return airlineinfo.Factory(airlineinfo.LoadConfig(hc))
		}},
		{maintenancestatus.Name, func(hc config.HandlerConfig) handler.Factory {
			return maintenancestatus.Factory(maintenancestatus.LoadConfig(hc))
		}},
	}
}

// Register adds every enabled stock handler. A handler whose required service
// is not wired in is skipped with a warning; the names of registered handlers
// are returned.
func Register(reg *registry.Registry, cfg *config.Config, log logger.Logger) ([]string, error) {
	var registered []string
	for _, def := range Definitions() {
		if !config.IsHandlerEnabled(cfg, def.Name) {
			log.Info("handler disabled", map[string]interface{}{"handler": def.Name})
			continue
		}
		hc := config.GetHandlerConfig(cfg, def.Name)
		h, err := reg.Register(def.Factory(hc), registry.RegisterOptions{
			CacheTTL: time.Duration(hc.CacheTTLSeconds) * time.Second,
		})
		if err != nil {
			if reg.Sealed() {
				return registered, err
			}
			log.Warn("handler not registered", map[string]interface{}{
				"handler": def.Name,
				"error":   err.Error(),
			})
			continue
		}
		registered = append(registered, h.Name())
		log.Info("handler registered", map[string]interface{}{
			"handler": h.Name(),
			"intents": h.Intents(),
		})
	}
	return registered, nil
}
