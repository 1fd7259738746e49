// internal/common/errors/handler.go
package errors

import "fmt"

// ErrorHandler normalizes and logs failures raised while serving a query.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle converts err into an EngineError and logs it. Client-side kinds are
// logged at warn level, everything else at error level.
func (h *ErrorHandler) Handle(err error, fields map[string]interface{}) *EngineError {
	engErr := Normalize(err)
	if engErr == nil {
		return nil
	}
	h.log(engErr, fields)
	return engErr
}

// HandlePanic converts a recovered panic value into a processing error.
func (h *ErrorHandler) HandlePanic(recovered interface{}, fields map[string]interface{}) *EngineError {
	var cause error
	switch v := recovered.(type) {
	case error:
		cause = v
	default:
		cause = panicError{value: v}
	}
	engErr := NewProcessingError(cause).WithDetail("panic", true)
	h.log(engErr, fields)
	return engErr
}

func (h *ErrorHandler) log(engErr *EngineError, fields map[string]interface{}) {
	if h.logger == nil {
		return
	}
	entry := map[string]interface{}{
		"errorKind":     string(engErr.Kind),
		"errorCategory": Category(engErr.Kind),
		"message":       engErr.Message,
	}
	if engErr.Cause != nil {
		entry["cause"] = engErr.Cause.Error()
	}
	for k, v := range fields {
		entry[k] = v
	}

	switch Category(engErr.Kind) {
	case "client", "cancelled":
		h.logger.Warn("query failed", entry)
	default:
		h.logger.Error("query failed", entry)
	}
}

type panicError struct {
	value interface{}
}

func (p panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}
