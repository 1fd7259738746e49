package httpapi

import (
	"net/http"

	apperrors "airport-query-engine/internal/common/errors"
	"airport-query-engine/internal/engine/response"
)

// StatusClientClosedRequest is the non-standard code used for cancelled queries.
const StatusClientClosedRequest = 499

var kindStatus = map[apperrors.Kind]int{
	apperrors.KindNotFound:           http.StatusNotFound,
	apperrors.KindNoResults:          http.StatusNotFound,
	apperrors.KindMissingEntity:      http.StatusBadRequest,
	apperrors.KindInvalidPlan:        http.StatusBadRequest,
	apperrors.KindNoHandler:          http.StatusUnprocessableEntity,
	apperrors.KindUnsupportedIntent:  http.StatusUnprocessableEntity,
	apperrors.KindUnsupportedFeature: http.StatusUnprocessableEntity,
	apperrors.KindServiceUnavailable: http.StatusServiceUnavailable,
	apperrors.KindServiceError:       http.StatusBadGateway,
	apperrors.KindCancelled:          StatusClientClosedRequest,
	apperrors.KindProcessing:         http.StatusInternalServerError,
}

// StatusFor maps an envelope to an HTTP status code.
func StatusFor(resp *response.Response) int {
	if resp == nil {
		return http.StatusInternalServerError
	}
	if resp.Success {
		return http.StatusOK
	}
	if code, ok := kindStatus[resp.Kind()]; ok {
		return code
	}
	return http.StatusInternalServerError
}
