// Package reasoning plans complex queries as dependent steps and executes them.
package reasoning

import (
	"fmt"
	"strings"
)

type StepType string

const (
	StepParameterExtraction StepType = "parameter_extraction"
	StepDataRetrieval       StepType = "data_retrieval"
	StepCalculation         StepType = "calculation"
	StepValidation          StepType = "validation"
	StepComparison          StepType = "comparison"
	StepRecommendation      StepType = "recommendation"
	StepGeneric             StepType = "generic"
)

// ParseStepType maps a wire name to a StepType; unknown names become generic.
func ParseStepType(s string) StepType {
	switch t := StepType(strings.ToLower(strings.TrimSpace(s))); t {
	case StepParameterExtraction, StepDataRetrieval, StepCalculation,
		StepValidation, StepComparison, StepRecommendation:
		return t
	default:
		return StepGeneric
	}
}

// classificationRules are checked in order; the first keyword found wins.
var classificationRules = []struct {
	keywords []string
	stepType StepType
}{
	{[]string{"calculate"}, StepCalculation},
	{[]string{"extract"}, StepParameterExtraction},
	{[]string{"retrieve", "get"}, StepDataRetrieval},
	{[]string{"validate"}, StepValidation},
	{[]string{"compare"}, StepComparison},
	{[]string{"recommend"}, StepRecommendation},
}

// ClassifyStep infers a step type from its description.
func ClassifyStep(description string) StepType {
	d := strings.ToLower(description)
	for _, rule := range classificationRules {
		for _, kw := range rule.keywords {
			if strings.Contains(d, kw) {
				return rule.stepType
			}
		}
	}
	return StepGeneric
}

type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"
)

type PlanStatus string

const (
	PlanProposed  PlanStatus = "proposed"
	PlanValidated PlanStatus = "validated"
	PlanExecuting PlanStatus = "executing"
	PlanCompleted PlanStatus = "completed"
	PlanAborted   PlanStatus = "aborted"
)

var planTransitions = map[PlanStatus][]PlanStatus{
	PlanProposed:  {PlanValidated, PlanAborted},
	PlanValidated: {PlanExecuting},
	PlanExecuting: {PlanCompleted, PlanAborted},
}

var stepTransitions = map[StepStatus][]StepStatus{
	StepPending: {StepRunning},
	StepRunning: {StepSucceeded, StepFailed},
}

// Step is one unit of a plan. Parameters whose value is a string starting
// with "$" refer to a field produced by a dependency or found in the context.
type Step struct {
	ID          string                 `json:"stepId"`
	Number      int                    `json:"stepNumber"`
	Type        StepType               `json:"type"`
	Description string                 `json:"description"`
	DependsOn   []string               `json:"dependsOn,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
	Produces    []string               `json:"produces,omitempty"`
	Status      StepStatus             `json:"status"`
	Result      *StepResult            `json:"result,omitempty"`
}

func (s *Step) transition(to StepStatus) error {
	for _, allowed := range stepTransitions[s.Status] {
		if allowed == to {
			s.Status = to
			return nil
		}
	}
	return fmt.Errorf("step %s: illegal transition %s -> %s", s.ID, s.Status, to)
}

// StepResult is written exactly once, when the step leaves running.
type StepResult struct {
	Success        bool        `json:"success"`
	Result         interface{} `json:"result,omitempty"`
	Error          string      `json:"error,omitempty"`
	ElapsedSeconds float64     `json:"elapsedSeconds"`
}

type Plan struct {
	QueryID string     `json:"queryId"`
	Steps   []*Step    `json:"steps"`
	Status  PlanStatus `json:"status"`
}

func (p *Plan) transition(to PlanStatus) error {
	for _, allowed := range planTransitions[p.Status] {
		if allowed == to {
			p.Status = to
			return nil
		}
	}
	return fmt.Errorf("plan %s: illegal transition %s -> %s", p.QueryID, p.Status, to)
}

// Step returns the step with the given id.
func (p *Plan) Step(id string) (*Step, bool) {
	for _, s := range p.Steps {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// StepSpec describes a step before it is placed in a plan.
type StepSpec struct {
	ID          string
	Type        string
	Description string
	DependsOn   []string
	Parameters  map[string]interface{}
	Produces    []string
}

// StepID is the id given to the n-th step (1-based) when none is supplied.
func StepID(n int) string {
	return fmt.Sprintf("step-%d", n)
}

// NewPlan builds a proposed plan. Step numbers follow slice order.
func NewPlan(queryID string, specs []StepSpec) *Plan {
	p := &Plan{QueryID: queryID, Status: PlanProposed}
	for i, spec := range specs {
		id := spec.ID
		if id == "" {
			id = StepID(i + 1)
		}
		stepType := ParseStepType(spec.Type)
		if spec.Type == "" {
			stepType = ClassifyStep(spec.Description)
		}
		params := make(map[string]interface{}, len(spec.Parameters))
		for k, v := range spec.Parameters {
			params[k] = v
		}
		p.Steps = append(p.Steps, &Step{
			ID:          id,
			Number:      i + 1,
			Type:        stepType,
			Description: spec.Description,
			DependsOn:   append([]string(nil), spec.DependsOn...),
			Parameters:  params,
			Produces:    append([]string(nil), spec.Produces...),
			Status:      StepPending,
		})
	}
	return p
}
