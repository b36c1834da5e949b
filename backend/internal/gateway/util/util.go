package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"honors_gwa/backend/internal/shared"
)

// JSONResponse structure for successful responses
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// JSONError structure for error responses
type JSONError struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Severity shared.Severity `json:"severity,omitempty"`
}

// WriteJSON is a helper to write JSON responses
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	var response interface{}

	// A map that already carries "success" is written as-is
	if responseMap, ok := payload.(map[string]interface{}); ok && responseMap["success"] != nil {
		response = payload
	} else if status >= 200 && status < 300 {
		response = JSONResponse{Success: true, Data: payload}
	} else {
		response = JSONError{Success: false, Message: "Unknown error"}
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error writing JSON response: %v", err)
	}
}

// WriteJSONError is a helper to write standardized error JSON responses
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	writeError(w, status, message, "")
}

func writeError(w http.ResponseWriter, status int, message string, severity shared.Severity) {
	log.Printf("HTTP Error %d: %s", status, message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResponse := JSONError{
		Success:  false,
		Message:  message,
		Severity: severity,
	}

	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Printf("Error writing JSON error response: %v", err)
	}
}

// HandleServiceError writes the recovered message and severity of a honors
// service error. Transport failures of the gRPC hop map onto 503 and 504.
func HandleServiceError(w http.ResponseWriter, err error) {
	var (
		validation *shared.ValidationError
		conflict   *shared.ConflictError
		missing    *shared.DataUnavailableError
		persist    *shared.PersistenceError
	)
	msg, severity := shared.Recover(err)

	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, msg, severity)
		return
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, msg, severity)
		return
	case errors.As(err, &missing):
		writeError(w, http.StatusNotFound, msg, severity)
		return
	case errors.As(err, &persist):
		writeError(w, http.StatusInternalServerError, msg, severity)
		return
	}

	st, ok := status.FromError(err)
	if !ok {
		log.Printf("ERROR: unclassified service error: %v", err)
		writeError(w, http.StatusInternalServerError, msg, severity)
		return
	}

	switch st.Code() {
	case codes.Unavailable:
		writeError(w, http.StatusServiceUnavailable, "Service Unavailable: The honors service is unreachable.", shared.SeverityError)
	case codes.DeadlineExceeded:
		writeError(w, http.StatusGatewayTimeout, "Service Timeout: The honors service took too long to respond.", shared.SeverityError)
	case codes.Unauthenticated:
		writeError(w, http.StatusUnauthorized, st.Message(), shared.SeverityWarning)
	case codes.PermissionDenied:
		writeError(w, http.StatusForbidden, st.Message(), shared.SeverityWarning)
	default:
		writeError(w, http.StatusInternalServerError, msg, severity)
	}
}

// ExtractToken extracts the token from the Authorization header (Bearer <token>)
func ExtractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}

// ============================================================================
// Request Validation
// ============================================================================

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeJSON decodes the request body into dst and validates its `validate`
// tags. Failures are returned as shared validation errors.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return shared.NewValidationError("Invalid request body")
	}
	return ValidateStruct(dst)
}

// ValidateStruct validates the `validate` tags of v
func ValidateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return shared.NewValidationError(err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", ")))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return shared.NewValidationError(strings.Join(msgs, "; "))
}
