package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"airport-query-engine/internal/cache"
	apperrors "airport-query-engine/internal/common/errors"
	"airport-query-engine/internal/common/logger"
	"airport-query-engine/internal/common/validation"
	"airport-query-engine/internal/engine/entity"
	"airport-query-engine/internal/engine/response"
	"airport-query-engine/internal/engine/services"
	"airport-query-engine/internal/engine/transform"
	"airport-query-engine/internal/models"
)

// FormatEntity is the entity a query uses to ask for a presentation format.
const FormatEntity = "format"

// Base carries the helpers every handler shares. Concrete handlers embed it
// and override the methods whose default does not fit.
type Base struct {
	name          string
	intents       []string
	intentSet     map[string]bool
	defaultFormat string
	fields        transform.FieldSet
	schema        *validation.EntitySchema
	ttl           time.Duration

	Services    *services.Bundle
	Transformer *transform.Transformer
	Logger      logger.Logger
	errs        *apperrors.ErrorHandler
}

type Option func(*Base)

// WithFields sets the fields exposed by the simple and summary formats.
func WithFields(fs transform.FieldSet) Option {
	return func(b *Base) { b.fields = fs }
}

// WithDefaultFormat sets the format used when the query does not name one.
func WithDefaultFormat(format string) Option {
	return func(b *Base) { b.defaultFormat = transform.NormalizeFormat(format) }
}

// WithSchema validates query entities before Handle runs its lookup.
func WithSchema(schema validation.EntitySchema) Option {
	return func(b *Base) { b.schema = &schema }
}

// WithCacheTTL overrides the registry's default cache lifetime.
func WithCacheTTL(ttl time.Duration) Option {
	return func(b *Base) { b.ttl = ttl }
}

func NewBase(name string, intents []string, svc *services.Bundle, opts ...Option) (Base, error) {
	if len(intents) == 0 {
		return Base{}, fmt.Errorf("handler %s claims no intents", name)
	}
	if svc == nil {
		d := services.Defaults()
		svc = &d
	}

	b := Base{
		name:          name,
		intents:       append([]string(nil), intents...),
		intentSet:     make(map[string]bool, len(intents)),
		defaultFormat: transform.FormatDetailed,
		Services:      svc,
		Transformer:   svc.Transformer,
		Logger:        svc.Logger.With(map[string]interface{}{"handler": name}),
	}
	for _, in := range intents {
		b.intentSet[in] = true
	}
	for _, opt := range opts {
		opt(&b)
	}
	if b.schema != nil {
		if err := validation.Precompile(*b.schema); err != nil {
			return Base{}, fmt.Errorf("handler %s: %w", name, err)
		}
	}
	if b.Transformer == nil {
		b.Transformer = transform.New()
	}
	b.errs = apperrors.NewErrorHandler(b.Logger)
	return b, nil
}

func (b *Base) Name() string {
	return b.name
}

// Intents returns a copy of the claimed intents in declaration order.
func (b *Base) Intents() []string {
	return append([]string(nil), b.intents...)
}

func (b *Base) Claims(intent string) bool {
	return b.intentSet[intent]
}

// CanHandle is the default applicability test: the intent is claimed.
func (b *Base) CanHandle(q *models.ParsedQuery, _ *models.Context) bool {
	return q != nil && b.Claims(q.Intent)
}

// CacheKey keys on every entity a handler can resolve, context entities
// included, so follow-ups in one conversation never share an answer.
func (b *Base) CacheKey(q *models.ParsedQuery, qctx *models.Context) string {
	return cache.QueryKey(q.Intent, entity.Merged(q, qctx), qctx.ContextID())
}

func (b *Base) CacheTTL() time.Duration {
	return b.ttl
}

// Format shapes a record, or a list of records, with the handler's field set.
func (b *Base) Format(result interface{}, format string) interface{} {
	switch v := result.(type) {
	case nil:
		return nil
	case []interface{}:
		out := make([]interface{}, 0, len(v))
		for _, item := range v {
			out = append(out, b.Format(item, format))
		}
		return out
	default:
		shaped, err := b.Transformer.Shape(v, b.fields, format)
		if err != nil {
			return result
		}
		return shaped
	}
}

// FormatName returns the format the query asks for, or the handler default.
func (b *Base) FormatName(q *models.ParsedQuery) string {
	if s := entity.String(q.Entity(FormatEntity)); s != "" {
		return transform.NormalizeFormat(s)
	}
	return b.defaultFormat
}

// Resolve looks the entity up in the query and then in the conversation context.
func (b *Base) Resolve(q *models.ParsedQuery, qctx *models.Context, primary string, alternates ...string) (interface{}, bool) {
	return entity.FromQuery(q, qctx, primary, alternates...)
}

// RequireEntity resolves a mandatory entity. The returned envelope is non-nil
// when the entity is absent or blank.
func (b *Base) RequireEntity(q *models.ParsedQuery, qctx *models.Context, primary string, alternates ...string) (string, *response.Response) {
	v, ok := b.Resolve(q, qctx, primary, alternates...)
	s := entity.String(v)
	if !ok || s == "" {
		return "", b.Fail(apperrors.NewMissingEntityError(primary))
	}
	return s, nil
}

// ValidateEntities applies the handler's schema, if any.
func (b *Base) ValidateEntities(q *models.ParsedQuery) *response.Response {
	if b.schema == nil {
		return nil
	}
	res := validation.ValidateEntities(q.Entities, *b.schema)
	if res.Valid {
		return nil
	}
	if missing, ok := res.FirstWithCode(validation.CodeRequiredFieldMissing); ok {
		return b.Fail(apperrors.NewMissingEntityError(missing.Field))
	}
	first := res.Errors[0]
	err := apperrors.New(apperrors.KindMissingEntity,
		fmt.Sprintf("Entity '%s' is invalid: %s", first.Field, first.Message),
		map[string]interface{}{"entity": first.Field, "validationErrors": res.GetErrorMessages()})
	return b.Fail(err)
}

// Succeed wraps data, recording the format used.
func (b *Base) Succeed(data interface{}, format string, metadata map[string]interface{}) *response.Response {
	meta := make(map[string]interface{}, len(metadata)+1)
	for k, v := range metadata {
		if response.IsReserved(k) {
			continue
		}
		meta[k] = v
	}
	meta["format"] = format
	return response.Success(data, meta)
}

// Fail logs err and converts it into a Failure envelope.
func (b *Base) Fail(err error) *response.Response {
	engErr := b.errs.Handle(err, map[string]interface{}{"handler": b.name})
	return response.Failure(engErr.Kind, engErr.Message, engErr.Details)
}

// ServiceFailure classifies an error returned by a data service.
func (b *Base) ServiceFailure(ctx context.Context, service string, err error) *response.Response {
	if ctx.Err() != nil || apperrors.IsCancellation(err) {
		return b.Fail(apperrors.NewCancelledError(err))
	}
	var engErr *apperrors.EngineError
	if errors.As(err, &engErr) {
		return b.Fail(err)
	}
	return b.Fail(apperrors.NewServiceError(service, err))
}

// Guard runs fn and turns a panic into a processing failure.
func (b *Base) Guard(fn func() *response.Response) (resp *response.Response) {
	defer func() {
		if r := recover(); r != nil {
			engErr := b.errs.HandlePanic(r, map[string]interface{}{"handler": b.name})
			resp = response.Failure(engErr.Kind, engErr.Message, engErr.Details)
		}
	}()
	resp = fn()
	if resp == nil {
		resp = b.Fail(fmt.Errorf("handler %s returned no response", b.name))
	}
	return resp
}
