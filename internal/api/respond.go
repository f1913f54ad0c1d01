package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const timestampLayout = "Jan 2, 2006 3:04 PM"

// Respond writes the success envelope: the payload's keys spread at the
// top level plus success, status and a human timestamp.
func Respond(w http.ResponseWriter, status int, payload map[string]interface{}) {
	body := make(map[string]interface{}, len(payload)+3)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true
	body["status"] = status
	body["timestamp"] = time.Now().Format(timestampLayout)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

type errorBody struct {
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	Success   bool        `json:"success"`
	Status    int         `json:"status"`
	Errors    interface{} `json:"errors"`
	Timestamp string      `json:"timestamp"`
}

// WriteError maps err onto the error envelope. Unclassified errors are
// logged and surface as a generic 500: no internals leak to the client.
func WriteError(w http.ResponseWriter, logger *zap.Logger, err error) {
	apiErr, ok := AsError(err)
	if !ok {
		logger.Error("unhandled error", zap.Error(err))
		apiErr = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Something went wrong. Please try again later.")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(errorBody{
		Title:     apiErr.Title,
		Message:   apiErr.Message,
		Success:   false,
		Status:    apiErr.Status,
		Errors:    apiErr.Errors,
		Timestamp: time.Now().Format(timestampLayout),
	})
}
