// Package registry owns the handlers, routes queries to them and wraps each
// dispatch with response caching and error handling.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	apperrors "airport-query-engine/internal/common/errors"
	"airport-query-engine/internal/common/logger"
	"airport-query-engine/internal/common/metrics"
	"airport-query-engine/internal/engine/handler"
	"airport-query-engine/internal/engine/response"
	"airport-query-engine/internal/engine/services"
	"airport-query-engine/internal/models"
)

// ComplexIntent routes a query to the reasoning engine regardless of its Complex flag.
const ComplexIntent = "reasoning.complex"

// ErrSealed is returned by Register once the registry has started serving.
var ErrSealed = errors.New("registry: sealed")

// Options are the registry settings exposed through configuration.
type Options struct {
	// EnableQueryCache writes successful envelopes back to the cache.
	EnableQueryCache bool
	// MaxPlanSteps caps reasoning plans; 0 means unbounded.
	MaxPlanSteps int
	// DefaultCacheTTL applies when a handler does not choose a TTL.
	DefaultCacheTTL time.Duration
}

func DefaultOptions() Options {
	return Options{
		EnableQueryCache: true,
		DefaultCacheTTL:  300 * time.Second,
	}
}

// Reasoner answers complex queries by planning and executing reasoning steps.
type Reasoner interface {
	Reason(ctx context.Context, q *models.ParsedQuery, qctx *models.Context) *response.Response
}

// Observer receives one call per processed query.
type Observer interface {
	RecordQuery(ctx context.Context, intent, status string, duration time.Duration)
}

// RegisterOptions tune a single registration.
type RegisterOptions struct {
	// CacheTTL overrides both the handler's and the registry's TTL when non-zero.
	CacheTTL time.Duration
}

type entry struct {
	handler  handler.Handler
	intents  map[string]bool
	cacheTTL time.Duration
}

type Registry struct {
	mu        sync.RWMutex
	sealed    bool
	entries   []*entry
	index     map[string][]*entry
	services  *services.Bundle
	opts      Options
	reasoner  Reasoner
	observers []Observer
	logger    logger.Logger
	errs      *apperrors.ErrorHandler
	now       func() time.Time
}

type Option func(*Registry)

func WithReasoner(r Reasoner) Option {
	return func(reg *Registry) { reg.reasoner = r }
}

// WithObserver adds o to the observers notified after every query.
func WithObserver(o Observer) Option {
	return func(reg *Registry) {
		if o != nil {
			reg.observers = append(reg.observers, o)
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(reg *Registry) { reg.now = now }
}

func New(bundle *services.Bundle, opts Options, extra ...Option) *Registry {
	if bundle == nil {
		d := services.Defaults()
		bundle = &d
	}
	if opts.DefaultCacheTTL <= 0 {
		opts.DefaultCacheTTL = DefaultOptions().DefaultCacheTTL
	}
	log := bundle.Logger.With(map[string]interface{}{"component": "registry"})
	r := &Registry{
		index:    make(map[string][]*entry),
		services: bundle,
		opts:     opts,
		logger:   log,
		errs:     apperrors.NewErrorHandler(log),
		now:      time.Now,
	}
	for _, o := range extra {
		o(r)
	}
	return r
}

// Register builds a handler with the shared bundle and indexes its intents.
func (r *Registry) Register(factory handler.Factory, opts RegisterOptions) (handler.Handler, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return nil, ErrSealed
	}

	h, err := factory(r.services)
	if err != nil {
		r.logger.Error("handler construction failed", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("construct handler: %w", err)
	}

	intents := h.Intents()
	if len(intents) == 0 {
		r.logger.Warn("handler claims no intents, rejected", map[string]interface{}{"handler": h.Name()})
		return nil, fmt.Errorf("handler %s claims no intents", h.Name())
	}

	e := &entry{handler: h, intents: make(map[string]bool, len(intents)), cacheTTL: opts.CacheTTL}
	for _, intent := range intents {
		if e.intents[intent] {
			continue
		}
		e.intents[intent] = true
		r.index[intent] = append(r.index[intent], e)
	}
	r.entries = append(r.entries, e)

	r.logger.Info("handler registered", map[string]interface{}{
		"handler": h.Name(),
		"intents": intents,
	})
	return h, nil
}

// Seal freezes the handler table. Process seals implicitly.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Options returns the settings the registry was built with.
func (r *Registry) Options() Options {
	return r.opts
}

// Process answers q. It never panics and never returns nil.
func (r *Registry) Process(ctx context.Context, q *models.ParsedQuery, qctx *models.Context) *response.Response {
	start := r.now()
	r.sealOnce()

	if q == nil {
		return r.finish(ctx, "", start, r.failure(apperrors.NewProcessingError(errors.New("query is nil")), nil))
	}
	fields := map[string]interface{}{"intent": q.Intent, "contextId": qctx.ContextID()}

	if err := ctx.Err(); err != nil {
		return r.finish(ctx, q.Intent, start, r.failure(apperrors.NewCancelledError(err), fields))
	}

	if q.Complex || q.Intent == ComplexIntent {
		return r.finish(ctx, q.Intent, start, r.reason(ctx, q, qctx, fields))
	}

	e, resp := r.selectHandler(q, qctx, fields)
	if resp != nil {
		return r.finish(ctx, q.Intent, start, resp)
	}
	fields["handler"] = e.handler.Name()

	key, resp := r.cacheKey(e.handler, q, qctx, fields)
	if resp != nil {
		return r.finish(ctx, q.Intent, start, resp)
	}

	if cached := r.lookup(ctx, key, fields); cached != nil {
		return r.finish(ctx, q.Intent, start, cached.WithMetadata(map[string]interface{}{response.MetaFromCache: true}))
	}

	resp = r.invoke(ctx, e.handler, q, qctx, fields)

	if err := ctx.Err(); err != nil {
		if resp.Success || resp.Kind() != apperrors.KindCancelled {
			resp = r.failure(apperrors.NewCancelledError(err), fields)
		}
		return r.finish(ctx, q.Intent, start, resp)
	}

	if resp.Success {
		canonical, err := resp.Canonical()
		if err != nil {
			return r.finish(ctx, q.Intent, start, r.failure(apperrors.NewProcessingError(fmt.Errorf("encode result: %w", err)), fields))
		}
		resp = canonical
		if r.opts.EnableQueryCache {
			r.store(ctx, key, resp, r.ttlFor(e), fields)
		}
	}
	return r.finish(ctx, q.Intent, start, resp)
}

func (r *Registry) sealOnce() {
	r.mu.RLock()
	sealed := r.sealed
	r.mu.RUnlock()
	if !sealed {
		r.Seal()
	}
}

func (r *Registry) reason(ctx context.Context, q *models.ParsedQuery, qctx *models.Context, fields map[string]interface{}) *response.Response {
	if r.reasoner == nil {
		return r.failure(apperrors.NewServiceUnavailableError("reasoning"), fields)
	}
	var resp *response.Response
	func() {
		defer func() {
			if p := recover(); p != nil {
				engErr := r.errs.HandlePanic(p, fields)
				resp = response.Failure(engErr.Kind, engErr.Message, engErr.Details)
			}
		}()
		resp = r.reasoner.Reason(ctx, q, qctx)
	}()
	if resp == nil {
		resp = r.failure(apperrors.NewProcessingError(errors.New("reasoner returned no response")), fields)
	}
	return resp
}

// selectHandler narrows the candidates to those whose CanHandle passes and
// keeps the first in registration order.
func (r *Registry) selectHandler(q *models.ParsedQuery, qctx *models.Context, fields map[string]interface{}) (*entry, *response.Response) {
	r.mu.RLock()
	candidates, indexed := r.index[q.Intent]
	if !indexed {
		candidates = r.entries
	}
	r.mu.RUnlock()

	for _, e := range candidates {
		ok, panicResp := r.canHandle(e.handler, q, qctx, fields)
		if panicResp != nil {
			return nil, panicResp
		}
		if ok {
			return e, nil
		}
	}
	return nil, r.failure(apperrors.NewNoHandlerError(q.Intent), fields)
}

func (r *Registry) canHandle(h handler.Handler, q *models.ParsedQuery, qctx *models.Context, fields map[string]interface{}) (ok bool, resp *response.Response) {
	defer func() {
		if p := recover(); p != nil {
			engErr := r.errs.HandlePanic(p, withHandler(fields, h.Name()))
			resp = response.Failure(engErr.Kind, engErr.Message, engErr.Details)
		}
	}()
	return h.CanHandle(q, qctx), nil
}

func (r *Registry) cacheKey(h handler.Handler, q *models.ParsedQuery, qctx *models.Context, fields map[string]interface{}) (key string, resp *response.Response) {
	defer func() {
		if p := recover(); p != nil {
			engErr := r.errs.HandlePanic(p, fields)
			resp = response.Failure(engErr.Kind, engErr.Message, engErr.Details)
		}
	}()
	return h.CacheKey(q, qctx), nil
}

func (r *Registry) invoke(ctx context.Context, h handler.Handler, q *models.ParsedQuery, qctx *models.Context, fields map[string]interface{}) (resp *response.Response) {
	defer func() {
		if p := recover(); p != nil {
			engErr := r.errs.HandlePanic(p, fields)
			resp = response.Failure(engErr.Kind, engErr.Message, engErr.Details)
		}
	}()
	resp = h.Handle(ctx, q, qctx)
	if resp == nil {
		resp = r.failure(apperrors.NewProcessingError(fmt.Errorf("handler %s returned no response", h.Name())), fields)
	}
	return resp
}

func (r *Registry) lookup(ctx context.Context, key string, fields map[string]interface{}) *response.Response {
	raw, ok, err := r.services.Cache.GetOperationalItem(ctx, key)
	if err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		r.logger.Warn("cache read failed", withError(fields, err))
		return nil
	}
	if !ok {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil
	}
	cached, err := response.Unmarshal(raw)
	if err != nil || !cached.Success {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		r.logger.Warn("discarding unreadable cache entry", map[string]interface{}{"key": key})
		return nil
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return cached
}

func (r *Registry) store(ctx context.Context, key string, resp *response.Response, ttl time.Duration, fields map[string]interface{}) {
	raw, err := resp.Marshal()
	if err != nil {
		r.logger.Warn("response not cacheable", withError(fields, err))
		return
	}
	if err := r.services.Cache.SetOperationalItem(ctx, key, raw, ttl); err != nil {
		r.logger.Warn("cache write failed", withError(fields, err))
	}
}

func (r *Registry) ttlFor(e *entry) time.Duration {
	if e.cacheTTL > 0 {
		return e.cacheTTL
	}
	if t, ok := e.handler.(handler.CacheTTLer); ok && t.CacheTTL() > 0 {
		return t.CacheTTL()
	}
	return r.opts.DefaultCacheTTL
}

func (r *Registry) failure(err error, fields map[string]interface{}) *response.Response {
	engErr := r.errs.Handle(err, fields)
	return response.Failure(engErr.Kind, engErr.Message, engErr.Details)
}

// finish stamps engine metadata on successes and records metrics.
func (r *Registry) finish(ctx context.Context, intent string, start time.Time, resp *response.Response) *response.Response {
	elapsed := r.now().Sub(start)
	if resp.Success {
		resp = resp.WithMetadata(map[string]interface{}{
			response.MetaIntent:          intent,
			response.MetaExecutionTimeMs: elapsed.Milliseconds(),
		})
	}

	status := resp.Status()
	metrics.QueriesProcessed.WithLabelValues(intent, status).Inc()
	metrics.QueryDuration.WithLabelValues(intent).Observe(elapsed.Seconds())
	for _, o := range r.observers {
		o.RecordQuery(ctx, intent, status, elapsed)
	}
	return resp
}

// Stats summarises the handler table.
type Stats struct {
	TotalHandlers  int            `json:"totalHandlers"`
	TotalIntents   int            `json:"totalIntents"`
	IntentHandlers map[string]int `json:"intentHandlers"`
}

func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Stats{
		TotalHandlers:  len(r.entries),
		TotalIntents:   len(r.index),
		IntentHandlers: make(map[string]int, len(r.index)),
	}
	for intent, list := range r.index {
		s.IntentHandlers[intent] = len(list)
	}
	return s
}

// HandlerInfo describes one registered handler.
type HandlerInfo struct {
	Name    string   `json:"name"`
	Intents []string `json:"intents"`
}

// Handlers lists registered handlers in registration order.
func (r *Registry) Handlers() []HandlerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]HandlerInfo, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, HandlerInfo{Name: e.handler.Name(), Intents: e.handler.Intents()})
	}
	return out
}

// Intents lists indexed intents in lexical order.
func (r *Registry) Intents() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.index))
	for intent := range r.index {
		out = append(out, intent)
	}
	sort.Strings(out)
	return out
}

// HandlersFor returns the handler names claiming intent, in dispatch order.
func (r *Registry) HandlersFor(intent string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.index[intent]
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.handler.Name())
	}
	return out
}

// Close releases handlers that hold resources.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sealed = true
	var errs []error
	for _, e := range r.entries {
		if c, ok := e.handler.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", e.handler.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}

func withHandler(fields map[string]interface{}, name string) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["handler"] = name
	return out
}

func withError(fields map[string]interface{}, err error) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["error"] = err.Error()
	return out
}
