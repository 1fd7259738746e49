// Package errors provides the error taxonomy shared by handlers, the registry and the reasoning engine.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
)

// ==========================
// 1. Error Kinds
// ==========================

// Kind classifies a failure. Kinds travel to callers inside Failure envelopes.
type Kind string

const (
	KindNoHandler          Kind = "no_handler"
	KindMissingEntity      Kind = "missing_entity"
	KindNotFound           Kind = "not_found"
	KindNoResults          Kind = "no_results"
	KindUnsupportedIntent  Kind = "unsupported_intent"
	KindUnsupportedFeature Kind = "unsupported_feature"
	KindServiceUnavailable Kind = "service_unavailable"
	KindServiceError       Kind = "service_error"
	KindProcessing         Kind = "processing"
	KindInvalidPlan        Kind = "invalid_plan"
	KindCancelled          Kind = "cancelled"
)

// AllKinds lists every kind in taxonomy order.
var AllKinds = []Kind{
	KindNoHandler,
	KindMissingEntity,
	KindNotFound,
	KindNoResults,
	KindUnsupportedIntent,
	KindUnsupportedFeature,
	KindServiceUnavailable,
	KindServiceError,
	KindProcessing,
	KindInvalidPlan,
	KindCancelled,
}

// EngineError is the structured error used inside the engine before it is
// turned into a Failure envelope.
type EngineError struct {
	Kind    Kind                   `json:"kind"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("EngineError[%s]: %s", e.Kind, e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}

// WithDetail returns the error with an extra detail entry set.
func (e *EngineError) WithDetail(key string, value interface{}) *EngineError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ==========================
// 2. Constructors
// ==========================

func New(kind Kind, message string, details map[string]interface{}) *EngineError {
	return &EngineError{Kind: kind, Message: message, Details: details}
}

func NewNoHandlerError(intent string) *EngineError {
	return New(KindNoHandler, fmt.Sprintf("No handler available for intent '%s'", intent),
		map[string]interface{}{"intent": intent})
}

func NewMissingEntityError(entity string) *EngineError {
	return New(KindMissingEntity, fmt.Sprintf("Required entity '%s' is missing", entity),
		map[string]interface{}{"entity": entity})
}

func NewNotFoundError(resource, identifier string) *EngineError {
	return New(KindNotFound, fmt.Sprintf("%s '%s' not found", resource, identifier),
		map[string]interface{}{"resource": resource, "identifier": identifier})
}

func NewNoResultsError(resource string, criteria map[string]interface{}) *EngineError {
	return New(KindNoResults, fmt.Sprintf("No %s matched the given criteria", resource),
		map[string]interface{}{"resource": resource, "criteria": criteria})
}

func NewUnsupportedIntentError(intent string) *EngineError {
	return New(KindUnsupportedIntent, fmt.Sprintf("Intent '%s' is not supported by this handler", intent),
		map[string]interface{}{"intent": intent})
}

func NewUnsupportedFeatureError(feature string) *EngineError {
	return New(KindUnsupportedFeature, fmt.Sprintf("Feature '%s' is not available", feature),
		map[string]interface{}{"feature": feature})
}

func NewServiceUnavailableError(service string) *EngineError {
	return New(KindServiceUnavailable, fmt.Sprintf("Service '%s' is not available", service),
		map[string]interface{}{"service": service})
}

func NewServiceError(service string, err error) *EngineError {
	return &EngineError{
		Kind:    KindServiceError,
		Message: fmt.Sprintf("Service '%s' failed", service),
		Details: map[string]interface{}{"service": service, "originalError": err.Error()},
		Cause:   err,
	}
}

func NewProcessingError(err error) *EngineError {
	return &EngineError{
		Kind:    KindProcessing,
		Message: "Error processing query",
		Details: map[string]interface{}{"originalError": err.Error()},
		Cause:   err,
	}
}

func NewInvalidPlanError(reason, suggestedAlternative string) *EngineError {
	details := map[string]interface{}{"reason": reason}
	if suggestedAlternative != "" {
		details["suggestedAlternative"] = suggestedAlternative
	}
	return New(KindInvalidPlan, reason, details)
}

func NewCancelledError(err error) *EngineError {
	return &EngineError{
		Kind:    KindCancelled,
		Message: "Query was cancelled",
		Details: map[string]interface{}{"originalError": err.Error()},
		Cause:   err,
	}
}

// ==========================
// 3. Normalization
// ==========================

// KindOf reports the kind carried by err, or KindProcessing for foreign errors.
func KindOf(err error) Kind {
	var engErr *EngineError
	if stderrors.As(err, &engErr) {
		return engErr.Kind
	}
	if IsCancellation(err) {
		return KindCancelled
	}
	return KindProcessing
}

// IsCancellation reports whether err stems from context cancellation or deadline.
func IsCancellation(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}

// Normalize ensures we always have an EngineError.
func Normalize(err error) *EngineError {
	if err == nil {
		return nil
	}
	var engErr *EngineError
	if stderrors.As(err, &engErr) {
		return engErr
	}
	if IsCancellation(err) {
		return NewCancelledError(err)
	}
	return NewProcessingError(err)
}

// ==========================
// 4. Utility Functions
// ==========================

// Category groups kinds for logging and transport mapping.
func Category(kind Kind) string {
	switch kind {
	case KindNoHandler, KindMissingEntity, KindNotFound, KindNoResults,
		KindUnsupportedIntent, KindUnsupportedFeature, KindInvalidPlan:
		return "client"
	case KindServiceUnavailable, KindServiceError:
		return "dependency"
	case KindCancelled:
		return "cancelled"
	default:
		return "internal"
	}
}

// ParseKind converts a wire string back into a Kind.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range AllKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}
