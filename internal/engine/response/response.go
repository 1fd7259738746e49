// Package response holds the envelope every query answer is wrapped in.
package response

import (
	"encoding/json"

	apperrors "airport-query-engine/internal/common/errors"
)

// Metadata keys written by the engine. Handlers must not set them.
const (
	MetaFromCache       = "fromCache"
	MetaIntent          = "intent"
	MetaExecutionTimeMs = "executionTimeMs"
)

var reservedKeys = map[string]bool{
	MetaFromCache:       true,
	MetaIntent:          true,
	MetaExecutionTimeMs: true,
}

// IsReserved reports whether key belongs to the engine.
func IsReserved(key string) bool {
	return reservedKeys[key]
}

// Response is either a Success (Data set, Error nil) or a Failure (Error set, Data nil).
type Response struct {
	Success  bool                   `json:"success"`
	Data     interface{}            `json:"data,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Error    *ErrorPayload          `json:"error,omitempty"`
}

type ErrorPayload struct {
	Kind    apperrors.Kind         `json:"errorKind"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Success wraps data. metadata may be nil.
func Success(data interface{}, metadata map[string]interface{}) *Response {
	if data == nil {
		data = map[string]interface{}{}
	}
	return &Response{
		Success:  true,
		Data:     data,
		Metadata: copyMap(metadata),
	}
}

// Failure builds an error envelope. details may be nil.
func Failure(kind apperrors.Kind, message string, details map[string]interface{}) *Response {
	return &Response{
		Success: false,
		Error: &ErrorPayload{
			Kind:    kind,
			Message: message,
			Details: copyMap(details),
		},
	}
}

// FromError converts any error into a Failure, normalizing foreign errors to processing.
func FromError(err error) *Response {
	engErr := apperrors.Normalize(err)
	if engErr == nil {
		engErr = apperrors.NewProcessingError(errNil{})
	}
	return Failure(engErr.Kind, engErr.Message, engErr.Details)
}

type errNil struct{}

func (errNil) Error() string { return "nil error" }

// Kind returns the failure kind, or "" for a success.
func (r *Response) Kind() apperrors.Kind {
	if r == nil || r.Error == nil {
		return ""
	}
	return r.Error.Kind
}

// Status is "success" or the failure kind; used as a metric label.
func (r *Response) Status() string {
	if r.Success {
		return "success"
	}
	return string(r.Kind())
}

// Meta reads a metadata value.
func (r *Response) Meta(key string) (interface{}, bool) {
	if r == nil || r.Metadata == nil {
		return nil, false
	}
	v, ok := r.Metadata[key]
	return v, ok
}

// FromCache reports whether the envelope was served from the response cache.
func (r *Response) FromCache() bool {
	v, _ := r.Meta(MetaFromCache)
	b, _ := v.(bool)
	return b
}

// WithMetadata returns a copy of r with extra merged over its metadata.
func (r *Response) WithMetadata(extra map[string]interface{}) *Response {
	out := *r
	out.Metadata = copyMap(r.Metadata)
	if out.Metadata == nil {
		out.Metadata = make(map[string]interface{}, len(extra))
	}
	for k, v := range extra {
		out.Metadata[k] = v
	}
	if r.Error != nil {
		e := *r.Error
		out.Error = &e
	}
	return &out
}

// Canonical returns a copy of r whose data is in its decoded JSON form, the
// same shape a cached copy of the envelope decodes to.
func (r *Response) Canonical() (*Response, error) {
	out := *r
	if r.Data == nil {
		return &out, nil
	}
	raw, err := json.Marshal(r.Data)
	if err != nil {
		return nil, err
	}
	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	out.Data = data
	return &out, nil
}

// Marshal encodes the envelope for the cache.
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// Unmarshal decodes a cached envelope.
func Unmarshal(raw []byte) (*Response, error) {
	var r Response
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
