package reasoning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "airport-query-engine/internal/common/errors"
	"airport-query-engine/internal/common/logger"
	"airport-query-engine/internal/common/metrics"
	"airport-query-engine/internal/engine/response"
	"airport-query-engine/internal/knowledge"
	"airport-query-engine/internal/oracle"
)

const tracerName = "airport-query-engine/reasoning"

// SourceParam names the data source of a data_retrieval step.
const SourceParam = "source"

var (
	ErrUnknownSource       = errors.New("unknown data source")
	ErrUnresolvedReference = errors.New("unresolved parameter reference")
)

var typePrompts = map[StepType]string{
	StepCalculation:    "Perform the calculation below. Answer with a JSON object holding the computed values.",
	StepValidation:     "Check whether the inputs below satisfy the stated condition. Answer with JSON {\"valid\": bool, \"issues\": [...]}.",
	StepComparison:     "Compare the options below. Answer with JSON {\"ranking\": [...], \"rationale\": \"...\"}.",
	StepRecommendation: "Recommend the best option given the inputs below. Answer with JSON {\"recommendation\": ..., \"rationale\": \"...\"}.",
	StepGeneric:        "Carry out the task below.",
}

type Executor struct {
	oracle  Oracle
	sources *knowledge.SourceRegistry
	logger  logger.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

type ExecutorOption func(*Executor)

func WithExecutorClock(now func() time.Time) ExecutorOption {
	return func(e *Executor) { e.now = now }
}

func WithTracer(t trace.Tracer) ExecutorOption {
	return func(e *Executor) { e.tracer = t }
}

func NewExecutor(o Oracle, sources *knowledge.SourceRegistry, log logger.Logger, opts ...ExecutorOption) *Executor {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	e := &Executor{
		oracle:  o,
		sources: sources,
		logger:  log.With(map[string]interface{}{"component": "executor"}),
		tracer:  otel.Tracer(tracerName),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs a validated plan step by step in plan order. The first failing
// step aborts the plan.
func (e *Executor) Execute(ctx context.Context, p *Plan, pctx map[string]interface{}) *response.Response {
	if p == nil {
		return response.FromError(apperrors.NewProcessingError(errors.New("no plan to execute")))
	}
	if err := p.transition(PlanExecuting); err != nil {
		return response.FromError(apperrors.NewProcessingError(err))
	}

	ctx, planSpan := e.tracer.Start(ctx, "reasoning.plan", trace.WithAttributes(
		attribute.String("query.id", p.QueryID),
		attribute.Int("plan.steps", len(p.Steps)),
	))
	defer planSpan.End()

	transcript := make([]map[string]interface{}, 0, len(p.Steps))
	for _, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			return e.abort(p, planSpan, apperrors.NewCancelledError(err).WithDetail("stepResults", transcript))
		}

		result := e.runStep(ctx, p, step, pctx)
		transcript = append(transcript, transcriptEntry(step))

		if result.Success {
			continue
		}
		if ctx.Err() != nil {
			return e.abort(p, planSpan, apperrors.NewCancelledError(ctx.Err()).WithDetail("stepResults", transcript))
		}
		engErr := apperrors.New(apperrors.KindProcessing,
			fmt.Sprintf("Step %d failed: %s", step.Number, result.Error),
			map[string]interface{}{
				"queryId":     p.QueryID,
				"failedStep":  step.ID,
				"stepResults": transcript,
			})
		return e.abort(p, planSpan, engErr)
	}

	_ = p.transition(PlanCompleted)
	metrics.Plans.WithLabelValues(string(PlanCompleted)).Inc()
	planSpan.SetStatus(codes.Ok, "")

	last := p.Steps[len(p.Steps)-1]
	return response.Success(last.Result.Result, map[string]interface{}{
		"queryId":     p.QueryID,
		"stepResults": transcript,
	})
}

func (e *Executor) abort(p *Plan, span trace.Span, engErr *apperrors.EngineError) *response.Response {
	_ = p.transition(PlanAborted)
	metrics.Plans.WithLabelValues(string(PlanAborted)).Inc()
	span.SetStatus(codes.Error, engErr.Message)
	e.logger.Warn("plan aborted", map[string]interface{}{
		"queryId":   p.QueryID,
		"errorKind": string(engErr.Kind),
		"reason":    engErr.Message,
	})
	if _, ok := engErr.Details["queryId"]; !ok {
		engErr = engErr.WithDetail("queryId", p.QueryID)
	}
	return response.FromError(engErr)
}

// runStep moves the step through running into a terminal state and records
// its result.
func (e *Executor) runStep(ctx context.Context, p *Plan, step *Step, pctx map[string]interface{}) *StepResult {
	ctx, span := e.tracer.Start(ctx, "reasoning.step", trace.WithAttributes(
		attribute.String("step.id", step.ID),
		attribute.Int("step.number", step.Number),
		attribute.String("step.type", string(step.Type)),
	))
	defer span.End()

	_ = step.transition(StepRunning)
	start := e.now()

	value, err := e.dispatch(ctx, p, step, pctx)

	result := &StepResult{ElapsedSeconds: e.now().Sub(start).Seconds()}
	if err != nil {
		result.Error = err.Error()
		_ = step.transition(StepFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		result.Success = true
		result.Result = value
		_ = step.transition(StepSucceeded)
	}
	step.Result = result
	metrics.PlanSteps.WithLabelValues(string(step.Type), string(step.Status)).Inc()

	e.logger.Debug("plan step finished", map[string]interface{}{
		"queryId":        p.QueryID,
		"stepId":         step.ID,
		"type":           string(step.Type),
		"success":        result.Success,
		"elapsedSeconds": result.ElapsedSeconds,
	})
	return result
}

func (e *Executor) dispatch(ctx context.Context, p *Plan, step *Step, pctx map[string]interface{}) (interface{}, error) {
	params, err := resolveParameters(p, step, pctx)
	if err != nil {
		return nil, err
	}

	if step.Type != StepDataRetrieval && e.oracle == nil {
		return nil, apperrors.NewServiceUnavailableError("reasoning oracle")
	}

	switch step.Type {
	case StepParameterExtraction:
		return e.extract(ctx, step, params, pctx)
	case StepDataRetrieval:
		return e.retrieve(ctx, params)
	case StepCalculation:
		completion, err := e.oracle.Process(ctx, e.prompt(p, step, params))
		if err != nil {
			return nil, err
		}
		return oracle.DecodeObject(completion.Text)
	default:
		completion, err := e.oracle.Process(ctx, e.prompt(p, step, params))
		if err != nil {
			return nil, err
		}
		if obj, err := oracle.DecodeObject(completion.Text); err == nil {
			return obj, nil
		}
		return map[string]interface{}{"text": completion.Text}, nil
	}
}

func (e *Executor) extract(ctx context.Context, step *Step, params, pctx map[string]interface{}) (interface{}, error) {
	text, _ := params["text"].(string)
	if text == "" {
		text, _ = pctx["rawText"].(string)
	}
	if text == "" {
		text = step.Description
	}
	ex, err := e.oracle.ExtractParameters(ctx, text)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"parameters": ex.Parameters,
		"confidence": ex.Confidence,
		"reasoning":  ex.Reasoning,
	}, nil
}

func (e *Executor) retrieve(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	name, _ := params[SourceParam].(string)
	src, ok := e.sources.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
	args := make(map[string]interface{}, len(params))
	for k, v := range params {
		if k != SourceParam {
			args[k] = v
		}
	}
	return src(ctx, args)
}

// prompt combines the type-specific instruction, the step description, its
// resolved parameters and the results of earlier steps.
func (e *Executor) prompt(p *Plan, step *Step, params map[string]interface{}) string {
	prior := map[string]interface{}{}
	for _, s := range p.Steps {
		if s == step {
			break
		}
		if s.Result != nil && s.Result.Success {
			prior[s.ID] = s.Result.Result
		}
	}
	paramsJSON, _ := json.Marshal(params)
	priorJSON, _ := json.Marshal(prior)
	return fmt.Sprintf("%s\n\nTask: %s\nParameters: %s\nPrevious results: %s",
		typePrompts[step.Type], step.Description, paramsJSON, priorJSON)
}

// resolveParameters substitutes "$name" references. Dependency outputs are
// searched nearest first, then the planning context.
func resolveParameters(p *Plan, step *Step, pctx map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(step.Parameters))
	for _, name := range sortedKeys(step.Parameters) {
		value := step.Parameters[name]
		ref, isRef := reference(value)
		if !isRef {
			out[name] = value
			continue
		}
		resolved, ok := fromDependencies(p, step, ref)
		if !ok {
			resolved, ok = fromContext(pctx, ref)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedReference, value)
		}
		out[name] = resolved
	}
	return out, nil
}

func fromDependencies(p *Plan, step *Step, ref string) (interface{}, bool) {
	seen := map[string]bool{}
	queue := make([]string, 0, len(step.DependsOn))
	for i := len(step.DependsOn) - 1; i >= 0; i-- {
		queue = append(queue, step.DependsOn[i])
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		dep, ok := p.Step(id)
		if !ok || dep.Result == nil || !dep.Result.Success {
			continue
		}
		if m, ok := dep.Result.Result.(map[string]interface{}); ok {
			if v, ok := m[ref]; ok && v != nil {
				return v, true
			}
			if nested, ok := m["parameters"].(map[string]interface{}); ok {
				if v, ok := nested[ref]; ok && v != nil {
					return v, true
				}
			}
		}
		queue = append(queue, dep.DependsOn...)
	}
	return nil, false
}

func fromContext(pctx map[string]interface{}, ref string) (interface{}, bool) {
	if pctx == nil {
		return nil, false
	}
	if params, ok := pctx["parameters"].(map[string]interface{}); ok {
		if v, ok := params[ref]; ok && v != nil {
			return v, true
		}
	}
	v, ok := pctx[ref]
	return v, ok && v != nil
}

func transcriptEntry(step *Step) map[string]interface{} {
	entry := map[string]interface{}{
		"stepId":         step.ID,
		"stepNumber":     step.Number,
		"success":        step.Result.Success,
		"elapsedSeconds": step.Result.ElapsedSeconds,
		"summary":        Summarize(step.Result.Result),
	}
	if !step.Result.Success {
		entry["error"] = step.Result.Error
	}
	return entry
}
