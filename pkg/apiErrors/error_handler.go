package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Error codes returned by the admin API.
const (
	ErrInternalServer = "SRV_001"
)

var httpStatusMap = map[string]int{
	ErrInternalServer: http.StatusInternalServerError,
}

// APIError is the standard error body of the admin API.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteError writes the standard error body with the status mapped from the
// code.
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}
