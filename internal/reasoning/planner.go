package reasoning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	apperrors "airport-query-engine/internal/common/errors"
	"airport-query-engine/internal/common/logger"
	"airport-query-engine/internal/oracle"
)

// proposalSchema is the shape the oracle must answer with.
var proposalSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"steps"},
	"properties": map[string]interface{}{
		"steps": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"description"},
				"properties": map[string]interface{}{
					"description": map[string]interface{}{"type": "string", "minLength": 1},
					"dependsOn": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": []interface{}{"integer", "string"}},
					},
					"parameters": map[string]interface{}{"type": "object"},
					"produces": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
				},
			},
		},
	},
}

const planPrompt = `You are planning how to answer a question about airport stand operations.
Break the question into ordered steps. Answer with JSON only:
{"steps":[{"description":"...","dependsOn":[<earlier step numbers>],"parameters":{...},"produces":["field", ...]}]}
Step descriptions start with one verb: extract, retrieve, calculate, validate, compare or recommend.
A parameter value "$name" refers to a field produced by an earlier step or given in the context.
Data retrieval steps name a "source" parameter, one of: %s.

Context:
%s

Question: %s`

type Planner struct {
	oracle   Oracle
	maxSteps int
	sources  []string
	logger   logger.Logger
	newID    func() string
}

type PlannerOption func(*Planner)

// WithSourceNames lists the data sources the oracle may reference.
func WithSourceNames(names []string) PlannerOption {
	return func(p *Planner) { p.sources = append([]string(nil), names...) }
}

func WithIDGenerator(fn func() string) PlannerOption {
	return func(p *Planner) { p.newID = fn }
}

// NewPlanner builds a planner. maxSteps 0 means unbounded.
func NewPlanner(o Oracle, maxSteps int, log logger.Logger, opts ...PlannerOption) *Planner {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	p := &Planner{
		oracle:   o,
		maxSteps: maxSteps,
		logger:   log.With(map[string]interface{}{"component": "planner"}),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan asks the oracle to decompose text into steps and validates the result.
// Errors are *apperrors.EngineError.
func (p *Planner) Plan(ctx context.Context, text string, pctx map[string]interface{}) (*Plan, error) {
	if p.oracle == nil {
		return nil, apperrors.NewServiceUnavailableError("reasoning oracle")
	}

	ctxJSON, _ := json.Marshal(pctx)
	prompt := fmt.Sprintf(planPrompt, strings.Join(p.sources, ", "), ctxJSON, text)

	completion, err := p.oracle.Process(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return nil, apperrors.NewCancelledError(err)
		}
		return nil, apperrors.NewServiceError("reasoning oracle", err)
	}

	proposal, err := oracle.DecodeObject(completion.Text)
	if err != nil {
		p.logger.Warn("oracle plan proposal not decodable", map[string]interface{}{"error": err.Error()})
		return nil, apperrors.NewInvalidPlanError("Oracle returned no usable plan", "Rephrase the question")
	}

	specs, err := specsFromProposal(proposal)
	if err != nil {
		p.logger.Warn("oracle plan proposal rejected", map[string]interface{}{"error": err.Error()})
		return nil, apperrors.NewInvalidPlanError(err.Error(), "Rephrase the question")
	}

	return p.Build(specs, pctx)
}

// Build places specs into a new plan and runs feasibility validation. The
// plan is validated on success and aborted otherwise.
func (p *Planner) Build(specs []StepSpec, pctx map[string]interface{}) (*Plan, error) {
	plan := NewPlan(p.newID(), specs)
	if engErr := Validate(plan, pctx, p.maxSteps); engErr != nil {
		_ = plan.transition(PlanAborted)
		p.logger.Info("plan rejected", map[string]interface{}{
			"queryId": plan.QueryID,
			"reason":  engErr.Message,
		})
		return plan, engErr
	}
	if err := plan.transition(PlanValidated); err != nil {
		return nil, apperrors.NewProcessingError(err)
	}
	p.logger.Debug("plan validated", map[string]interface{}{
		"queryId": plan.QueryID,
		"steps":   len(plan.Steps),
	})
	return plan, nil
}

// specsFromProposal checks the proposal against proposalSchema and converts
// it to step specs. Numeric dependencies refer to 1-based step numbers.
func specsFromProposal(proposal map[string]interface{}) ([]StepSpec, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(proposalSchema),
		gojsonschema.NewGoLoader(proposal),
	)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("plan proposal invalid: %s", strings.Join(errs, "; "))
	}

	rawSteps := proposal["steps"].([]interface{})
	specs := make([]StepSpec, 0, len(rawSteps))
	for _, raw := range rawSteps {
		step := raw.(map[string]interface{})
		spec := StepSpec{Description: step["description"].(string)}
		if deps, ok := step["dependsOn"].([]interface{}); ok {
			for _, d := range deps {
				spec.DependsOn = append(spec.DependsOn, dependencyID(d))
			}
		}
		if params, ok := step["parameters"].(map[string]interface{}); ok {
			spec.Parameters = params
		}
		if produces, ok := step["produces"].([]interface{}); ok {
			for _, f := range produces {
				spec.Produces = append(spec.Produces, f.(string))
			}
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func dependencyID(v interface{}) string {
	switch d := v.(type) {
	case float64:
		return StepID(int(d))
	case string:
		if n, err := strconv.Atoi(d); err == nil {
			return StepID(n)
		}
		return d
	default:
		return fmt.Sprint(d)
	}
}
