package main

const configTemplate = `// internal/handlers/{{.Category}}/{{.Name}}/config.go
package {{.PackageName}}

import (
	"time"

	"airport-query-engine/internal/common/config"
	"airport-query-engine/internal/engine/transform"
)

const Name = {{quote .Name}}

var Intents = []string{ {{- range $i, $in := .Intents}}{{if $i}}, {{end}}{{quote $in}}{{end -}} }

type Config struct {
	CacheTTL      time.Duration
	DefaultFormat string
}

func LoadConfig(hc config.HandlerConfig) *Config {
	return &Config{
		CacheTTL:      time.Duration(hc.CacheTTLSeconds) * time.Second,
		DefaultFormat: transform.FormatDetailed,
	}
}
`

const modelsTemplate = `// internal/handlers/{{.Category}}/{{.Name}}/models.go
package {{.PackageName}}

import (
	"airport-query-engine/internal/common/validation"
	"airport-query-engine/internal/engine/transform"
)

var fields = transform.FieldSet{
	Simple:  []string{"id", "name"},
	Summary: []string{},
}

var entitySchema = validation.EntitySchema{
	Properties: map[string]validation.Property{
		{{quote .Entity}}: {Type: "any"},
		"format": {Type: "string"},
	},
}
`

const handlerTemplate = `package {{.PackageName}}

import (
	"context"
	"fmt"

	apperrors "airport-query-engine/internal/common/errors"
	"airport-query-engine/internal/engine/handler"
	"airport-query-engine/internal/engine/response"
	"airport-query-engine/internal/engine/services"
	"airport-query-engine/internal/models"
)

// Handler {{.Description}}.
type Handler struct {
	handler.Base
	config *Config
}

func Factory(cfg *Config) handler.Factory {
	return func(b *services.Bundle) (handler.Handler, error) {
		if b.{{.Service}} == nil {
			return nil, fmt.Errorf("%s: {{.ServiceKey}} service is required", Name)
		}
		base, err := handler.NewBase(Name, Intents, b,
			handler.WithFields(fields),
			handler.WithDefaultFormat(cfg.DefaultFormat),
			handler.WithSchema(entitySchema),
			handler.WithCacheTTL(cfg.CacheTTL),
		)
		if err != nil {
			return nil, err
		}
		return &Handler{Base: base, config: cfg}, nil
	}
}

func (h *Handler) Handle(ctx context.Context, q *models.ParsedQuery, qctx *models.Context) *response.Response {
	return h.Guard(func() *response.Response {
		if resp := h.ValidateEntities(q); resp != nil {
			return resp
		}
		ident, resp := h.RequireEntity(q, qctx, {{quote .Entity}})
		if resp != nil {
			return resp
		}

		// TODO: resolve ident through the {{.ServiceKey}} service.
		return h.Fail(apperrors.NewNotFoundError({{quote .Entity}}, ident))
	})
}
`

const testTemplate = `package {{.PackageName}}

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airport-query-engine/internal/common/config"
	apperrors "airport-query-engine/internal/common/errors"
	"airport-query-engine/internal/handlers/handlertest"
	"airport-query-engine/internal/models"
)

func TestHandler_RequiresEntity(t *testing.T) {
	h, err := Factory(LoadConfig(config.HandlerConfig{}))(handlertest.FullBundle(t))
	require.NoError(t, err)

	resp := h.Handle(context.Background(), &models.ParsedQuery{
		Intent:   Intents[0],
		Entities: map[string]interface{}{},
	}, nil)

	assert.False(t, resp.Success)
	assert.Equal(t, apperrors.KindMissingEntity, resp.Kind())
}
`
