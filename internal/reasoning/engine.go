package reasoning

import (
	"context"
	"strings"

	apperrors "airport-query-engine/internal/common/errors"
	"airport-query-engine/internal/common/logger"
	"airport-query-engine/internal/engine/response"
	"airport-query-engine/internal/models"
)

// Engine answers complex queries by planning and then executing the plan.
type Engine struct {
	planner  *Planner
	executor *Executor
	logger   logger.Logger
}

func NewEngine(planner *Planner, executor *Executor, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Engine{planner: planner, executor: executor, logger: log}
}

func (e *Engine) Reason(ctx context.Context, q *models.ParsedQuery, qctx *models.Context) *response.Response {
	text := strings.TrimSpace(q.RawText)
	if text == "" {
		return response.FromError(apperrors.NewMissingEntityError("rawText"))
	}

	pctx := PlanningContext(q, qctx)
	plan, err := e.planner.Plan(ctx, text, pctx)
	if err != nil {
		return response.FromError(err)
	}

	e.logger.Info("executing reasoning plan", map[string]interface{}{
		"queryId":   plan.QueryID,
		"steps":     len(plan.Steps),
		"contextId": qctx.ContextID(),
	})
	return e.executor.Execute(ctx, plan, pctx)
}

// PlanningContext exposes the query and conversation to plan parameters.
// Query entities override context entities under "parameters".
func PlanningContext(q *models.ParsedQuery, qctx *models.Context) map[string]interface{} {
	params := map[string]interface{}{}
	if qctx != nil {
		for k, v := range qctx.Entities {
			params[k] = v
		}
	}
	for k, v := range q.Entities {
		params[k] = v
	}
	pctx := map[string]interface{}{
		"parameters": params,
		"rawText":    q.RawText,
		"intent":     q.Intent,
	}
	if id := qctx.ContextID(); id != "" {
		pctx["contextId"] = id
	}
	return pctx
}
