package reasoning

import (
	"fmt"
	"sort"
	"strings"

	apperrors "airport-query-engine/internal/common/errors"
)

const (
	ReasonCircular = "Circular dependency detected"

	suggestSimplify = "Break the question into smaller questions that can be answered one at a time"
)

// Validate checks feasibility: acyclic dependencies, backward-only references,
// resolvable parameters and the step budget (0 = unbounded). pctx is the
// planning context; "$name" parameters may resolve from pctx["parameters"][name]
// or pctx[name].
func Validate(p *Plan, pctx map[string]interface{}, maxSteps int) *apperrors.EngineError {
	if p == nil || len(p.Steps) == 0 {
		return apperrors.NewInvalidPlanError("Plan has no steps", suggestSimplify)
	}

	if cycle := findCycle(p); cycle != nil {
		return apperrors.NewInvalidPlanError(ReasonCircular, suggestSimplify).
			WithDetail("cycle", cycle)
	}

	position := make(map[string]int, len(p.Steps))
	for i, s := range p.Steps {
		if _, dup := position[s.ID]; dup {
			return apperrors.NewInvalidPlanError(fmt.Sprintf("Duplicate step id %s", s.ID), "")
		}
		position[s.ID] = i
	}

	for i, s := range p.Steps {
		for _, dep := range s.DependsOn {
			at, ok := position[dep]
			if !ok {
				return apperrors.NewInvalidPlanError(
					fmt.Sprintf("Step %d depends on unknown step %s", s.Number, dep), "")
			}
			if at >= i {
				return apperrors.NewInvalidPlanError(
					fmt.Sprintf("Step %d depends on later step %s", s.Number, dep), "Reorder the steps so dependencies come first")
			}
		}
	}

	for _, s := range p.Steps {
		for _, name := range sortedKeys(s.Parameters) {
			ref, ok := reference(s.Parameters[name])
			if !ok {
				continue
			}
			if !producedByDependency(p, s, ref) && !inContext(pctx, ref) {
				return apperrors.NewInvalidPlanError(
					fmt.Sprintf("Parameter '%s' of step %d cannot be resolved", name, s.Number),
					fmt.Sprintf("Provide '%s' in the question or add a step that produces it", ref)).
					WithDetail("parameter", name).
					WithDetail("reference", ref)
			}
		}
	}

	if maxSteps > 0 && len(p.Steps) > maxSteps {
		return apperrors.NewInvalidPlanError(
			fmt.Sprintf("Plan has %d steps, the limit is %d", len(p.Steps), maxSteps), suggestSimplify)
	}

	return nil
}

const (
	white = iota // unvisited
	grey         // on the DFS stack
	black        // finished
)

// findCycle runs a three-colour depth-first search over dependsOn edges and
// returns the step ids on the first cycle found, or nil.
func findCycle(p *Plan) []string {
	colour := make(map[string]int, len(p.Steps))
	deps := make(map[string][]string, len(p.Steps))
	for _, s := range p.Steps {
		deps[s.ID] = s.DependsOn
	}

	var stack []string
	var visit func(id string) []string
	visit = func(id string) []string {
		colour[id] = grey
		stack = append(stack, id)
		for _, dep := range deps[id] {
			if _, known := deps[dep]; !known {
				continue
			}
			switch colour[dep] {
			case grey:
				for i, onStack := range stack {
					if onStack == dep {
						return append(append([]string(nil), stack[i:]...), dep)
					}
				}
			case white:
				if c := visit(dep); c != nil {
					return c
				}
			}
		}
		stack = stack[:len(stack)-1]
		colour[id] = black
		return nil
	}

	for _, s := range p.Steps {
		if colour[s.ID] == white {
			if c := visit(s.ID); c != nil {
				return c
			}
		}
	}
	return nil
}

// reference returns the referenced name of a "$name" parameter value.
func reference(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok || len(s) < 2 || !strings.HasPrefix(s, "$") {
		return "", false
	}
	return s[1:], true
}

// producedByDependency reports whether any transitive dependency of s declares ref.
func producedByDependency(p *Plan, s *Step, ref string) bool {
	seen := map[string]bool{}
	queue := append([]string(nil), s.DependsOn...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		dep, ok := p.Step(id)
		if !ok {
			continue
		}
		for _, field := range dep.Produces {
			if field == ref {
				return true
			}
		}
		queue = append(queue, dep.DependsOn...)
	}
	return false
}

func inContext(pctx map[string]interface{}, ref string) bool {
	if pctx == nil {
		return false
	}
	if params, ok := pctx["parameters"].(map[string]interface{}); ok {
		if v, ok := params[ref]; ok && v != nil {
			return true
		}
	}
	v, ok := pctx[ref]
	return ok && v != nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
