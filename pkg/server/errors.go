package server

import (
	"errors"
	"maps"
	"net/http"
	"time"

	"github.com/google/uuid"

	inverrors "github.com/NVIDIA/ssm-inventory/pkg/errors"
	"github.com/NVIDIA/ssm-inventory/pkg/serializer"
)

// WriteError writes an ErrorResponse with the given status.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code inverrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// WriteErrorFromErr maps err to a status and code. A StructuredError supplies
// its code, message and context; anything else is reported as internal with
// fallbackMessage. The cause text is added to details under "error".
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string, extraDetails map[string]any) {
	var se *inverrors.StructuredError
	if errors.As(err, &se) {
		details := mergeDetails(se.Context, extraDetails)
		if se.Cause != nil {
			if details == nil {
				details = map[string]any{}
			}
			details["error"] = se.Cause.Error()
		}
		WriteError(w, r, HTTPStatusFromCode(se.Code), se.Code, se.Message, retryableFromCode(se.Code), details)
		return
	}

	details := mergeDetails(extraDetails, map[string]any{"error": err.Error()})
	WriteError(w, r, http.StatusInternalServerError, inverrors.ErrCodeInternal, fallbackMessage,
		retryableFromCode(inverrors.ErrCodeInternal), details)
}

// HTTPStatusFromCode maps an error code to an HTTP status.
func HTTPStatusFromCode(code inverrors.ErrorCode) int {
	switch code {
	case inverrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case inverrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case inverrors.ErrCodeNotFound:
		return http.StatusNotFound
	case inverrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case inverrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case inverrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case inverrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func retryableFromCode(code inverrors.ErrorCode) bool {
	switch code {
	case inverrors.ErrCodeTimeout, inverrors.ErrCodeUnavailable,
		inverrors.ErrCodeRateLimitExceeded, inverrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

// mergeDetails returns a new map with b's entries layered over a's, or nil if both are empty.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	maps.Copy(out, a)
	maps.Copy(out, b)
	return out
}
