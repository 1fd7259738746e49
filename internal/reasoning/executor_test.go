package reasoning

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "airport-query-engine/internal/common/errors"
	"airport-query-engine/internal/engine/response"
	"airport-query-engine/internal/knowledge"
	"airport-query-engine/internal/oracle"
)

func standPlanSpecs() []StepSpec {
	return []StepSpec{
		{Description: "Extract the aircraft type", Produces: []string{"aircraftType"}},
		{Description: "Retrieve compatible stands", DependsOn: []string{"step-1"}, Produces: []string{"stands"},
			Parameters: map[string]interface{}{"source": "stands.compatible", "aircraftType": "$aircraftType", "terminal": "$terminal"}},
		{Description: "Calculate the best stand", DependsOn: []string{"step-2"},
			Parameters: map[string]interface{}{"stands": "$stands"}},
	}
}

func standPlanContext() map[string]interface{} {
	return map[string]interface{}{
		"rawText":    "Which T1 stand fits a B77W?",
		"parameters": map[string]interface{}{"terminal": "T1"},
	}
}

func validatedPlan(t *testing.T, specs []StepSpec, pctx map[string]interface{}) *Plan {
	t.Helper()
	plan, err := NewPlanner(nil, 0, nil, WithIDGenerator(fixedID)).Build(specs, pctx)
	require.NoError(t, err)
	return plan
}

type sourceCall struct {
	params map[string]interface{}
}

func standSources(calls *[]sourceCall, err error) *knowledge.SourceRegistry {
	r := knowledge.NewSourceRegistry()
	r.Register("stands.compatible", func(_ context.Context, p map[string]interface{}) (map[string]interface{}, error) {
		*calls = append(*calls, sourceCall{params: p})
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"stands": []interface{}{
				map[string]interface{}{"name": "A12", "terminal": "T1"},
				map[string]interface{}{"name": "A14", "terminal": "T1"},
			},
			"count": 2,
		}, nil
	})
	return r
}

func fixedClock() func() time.Time {
	t0 := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	return func() time.Time { return t0 }
}

func extractingOracle() *mockOracle {
	o := &mockOracle{}
	o.On("ExtractParameters", mock.Anything, "Which T1 stand fits a B77W?").Return(&oracle.Extraction{
		Parameters: map[string]interface{}{"aircraftType": "B77W"},
		Confidence: 0.9,
		Reasoning:  "aircraft code in question",
	}, nil)
	return o
}

func TestExecutor_Execute_Success(t *testing.T) {
	o := extractingOracle()
	o.On("Process", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Previous results:") && strings.Contains(prompt, "A14")
	})).Return(&oracle.Completion{Text: "```json\n{\"bestStand\": \"A12\", \"raw\": \"long text\"}\n```"}, nil)

	var calls []sourceCall
	exec := NewExecutor(o, standSources(&calls, nil), nil, WithExecutorClock(fixedClock()))
	plan := validatedPlan(t, standPlanSpecs(), standPlanContext())

	resp := exec.Execute(context.Background(), plan, standPlanContext())

	require.True(t, resp.Success, "%+v", resp.Error)
	assert.Equal(t, map[string]interface{}{"bestStand": "A12", "raw": "long text"}, resp.Data)
	assert.Equal(t, PlanCompleted, plan.Status)

	require.Len(t, calls, 1)
	assert.Equal(t, map[string]interface{}{"aircraftType": "B77W", "terminal": "T1"}, calls[0].params)

	qid, _ := resp.Meta("queryId")
	assert.Equal(t, "q-fixed", qid)
	raw, _ := resp.Meta("stepResults")
	transcript := raw.([]map[string]interface{})
	require.Len(t, transcript, 3)
	assert.Equal(t, "step-2", transcript[1]["stepId"])
	assert.Equal(t, 2, transcript[1]["stepNumber"])
	assert.Equal(t, true, transcript[1]["success"])
	assert.Equal(t, 0.0, transcript[1]["elapsedSeconds"])
	assert.Equal(t, "count: 2, stands: [2 items]", transcript[1]["summary"])
	assert.Equal(t, "bestStand: A12", transcript[2]["summary"])

	for _, s := range plan.Steps {
		assert.Equal(t, StepSucceeded, s.Status)
	}
	o.AssertExpectations(t)
}

func TestExecutor_Execute_StepFailureStopsPlan(t *testing.T) {
	o := extractingOracle()

	var calls []sourceCall
	exec := NewExecutor(o, standSources(&calls, errors.New("stand database unreachable")), nil, WithExecutorClock(fixedClock()))
	plan := validatedPlan(t, standPlanSpecs(), standPlanContext())

	resp := exec.Execute(context.Background(), plan, standPlanContext())

	require.False(t, resp.Success)
	assert.Equal(t, apperrors.KindProcessing, resp.Kind())
	assert.Equal(t, "Step 2 failed: stand database unreachable", resp.Error.Message)
	assert.Equal(t, "step-2", resp.Error.Details["failedStep"])
	assert.Equal(t, "q-fixed", resp.Error.Details["queryId"])

	transcript := resp.Error.Details["stepResults"].([]map[string]interface{})
	require.Len(t, transcript, 2)
	assert.Equal(t, true, transcript[0]["success"])
	assert.Equal(t, false, transcript[1]["success"])
	assert.Equal(t, "stand database unreachable", transcript[1]["error"])

	assert.Equal(t, PlanAborted, plan.Status)
	assert.Equal(t, StepSucceeded, plan.Steps[0].Status)
	assert.Equal(t, StepFailed, plan.Steps[1].Status)
	assert.Equal(t, StepPending, plan.Steps[2].Status)
	o.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
}

func TestExecutor_Execute_TranscriptIsDeterministic(t *testing.T) {
	run := func() *response.Response {
		o := extractingOracle()
		o.On("Process", mock.Anything, mock.Anything).Return(&oracle.Completion{Text: `{"bestStand": "A12"}`}, nil)
		var calls []sourceCall
		exec := NewExecutor(o, standSources(&calls, nil), nil, WithExecutorClock(fixedClock()))
		return exec.Execute(context.Background(), validatedPlan(t, standPlanSpecs(), standPlanContext()), standPlanContext())
	}

	first, second := run(), run()
	require.True(t, first.Success)
	a, _ := first.Meta("stepResults")
	b, _ := second.Meta("stepResults")
	assert.Equal(t, a, b)
	assert.Equal(t, first.Data, second.Data)
}

func TestExecutor_Execute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := &mockOracle{}
	var calls []sourceCall
	exec := NewExecutor(o, standSources(&calls, nil), nil)
	plan := validatedPlan(t, standPlanSpecs(), standPlanContext())

	resp := exec.Execute(ctx, plan, standPlanContext())

	assert.Equal(t, apperrors.KindCancelled, resp.Kind())
	assert.Equal(t, PlanAborted, plan.Status)
	assert.Empty(t, calls)
	o.AssertNotCalled(t, "ExtractParameters", mock.Anything, mock.Anything)
}

func TestExecutor_Execute_CancelledMidStep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	o := &mockOracle{}
	o.On("ExtractParameters", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, context.Canceled)

	var calls []sourceCall
	exec := NewExecutor(o, standSources(&calls, nil), nil)
	resp := exec.Execute(ctx, validatedPlan(t, standPlanSpecs(), standPlanContext()), standPlanContext())

	assert.Equal(t, apperrors.KindCancelled, resp.Kind())
	transcript := resp.Error.Details["stepResults"].([]map[string]interface{})
	assert.Len(t, transcript, 1)
}

func TestExecutor_Execute_RequiresValidatedPlan(t *testing.T) {
	exec := NewExecutor(&mockOracle{}, nil, nil)

	resp := exec.Execute(context.Background(), NewPlan("q", []StepSpec{{Description: "x"}}), nil)
	assert.Equal(t, apperrors.KindProcessing, resp.Kind())

	resp = exec.Execute(context.Background(), nil, nil)
	assert.Equal(t, apperrors.KindProcessing, resp.Kind())
}

func TestExecutor_Execute_StepStrategies(t *testing.T) {
	t.Run("calculation requires JSON", func(t *testing.T) {
		o := &mockOracle{}
		o.On("Process", mock.Anything, mock.Anything).Return(&oracle.Completion{Text: "about forty metres"}, nil)
		plan := validatedPlan(t, []StepSpec{{Description: "Calculate clearance"}}, nil)

		resp := NewExecutor(o, nil, nil).Execute(context.Background(), plan, nil)
		require.False(t, resp.Success)
		assert.Contains(t, resp.Error.Message, "Step 1 failed: no JSON object")
	})

	t.Run("generic keeps text", func(t *testing.T) {
		o := &mockOracle{}
		o.On("Process", mock.Anything, mock.Anything).Return(&oracle.Completion{Text: "Stand A12 is best."}, nil)
		plan := validatedPlan(t, []StepSpec{{Description: "Summarise findings"}}, nil)

		resp := NewExecutor(o, nil, nil).Execute(context.Background(), plan, nil)
		require.True(t, resp.Success)
		assert.Equal(t, map[string]interface{}{"text": "Stand A12 is best."}, resp.Data)
	})

	t.Run("unknown source", func(t *testing.T) {
		plan := validatedPlan(t, []StepSpec{{Description: "Retrieve data", Parameters: map[string]interface{}{"source": "flights.list"}}}, nil)

		resp := NewExecutor(nil, knowledge.NewSourceRegistry(), nil).Execute(context.Background(), plan, nil)
		require.False(t, resp.Success)
		assert.Contains(t, resp.Error.Message, "unknown data source")
	})

	t.Run("no oracle", func(t *testing.T) {
		plan := validatedPlan(t, []StepSpec{{Description: "Compare stands"}}, nil)

		resp := NewExecutor(nil, nil, nil).Execute(context.Background(), plan, nil)
		require.False(t, resp.Success)
		assert.Contains(t, resp.Error.Message, "Step 1 failed")
	})
}

func TestResolveParameters_UnresolvedAtRuntime(t *testing.T) {
	plan := NewPlan("q", []StepSpec{
		{Description: "Extract", Produces: []string{"airline"}},
		{Description: "Retrieve", DependsOn: []string{"step-1"}, Parameters: map[string]interface{}{"airline": "$airline"}},
	})
	plan.Steps[0].Result = &StepResult{Success: true, Result: map[string]interface{}{"parameters": map[string]interface{}{}}}

	_, err := resolveParameters(plan, plan.Steps[1], nil)
	assert.ErrorIs(t, err, ErrUnresolvedReference)
}

func TestExecutor_Execute_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	var calls []sourceCall
	exec := NewExecutor(extractingOracle(), standSources(&calls, errors.New("stand db down")), nil,
		WithTracer(provider.Tracer("test")))
	plan := validatedPlan(t, standPlanSpecs(), standPlanContext())

	resp := exec.Execute(context.Background(), plan, standPlanContext())
	require.False(t, resp.Success)

	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"reasoning.step", "reasoning.step", "reasoning.plan"}, names)

	failed := recorder.Ended()[1]
	assert.Equal(t, "Error", failed.Status().Code.String())
	assert.NotEmpty(t, failed.Events())
}
