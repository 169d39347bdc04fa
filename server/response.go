package server

import (
	"encoding/json"
	"net/http"

	"MePlay/logger"
	"MePlay/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to write response", logger.ErrorField(err))
	}
}

// respond writes an envelope. data may be nil.
func respond(w http.ResponseWriter, status int, success bool, message string, data any) {
	env := model.Envelope{Success: success, Message: message}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			logger.Error("failed to encode response data", logger.ErrorField(err))
			writeJSON(w, http.StatusInternalServerError, model.Envelope{Message: "Server error"})
			return
		}
		env.Data = raw
	}
	writeJSON(w, status, env)
}

// respondList writes a successful envelope with a count, the shape of every
// listing endpoint.
func respondList[T any](w http.ResponseWriter, message string, items []T) {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		logger.Error("failed to encode response data", logger.ErrorField(err))
		writeJSON(w, http.StatusInternalServerError, model.Envelope{Message: "Server error"})
		return
	}
	count := len(items)
	writeJSON(w, http.StatusOK, model.Envelope{Success: true, Message: message, Data: raw, Count: &count})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, false, message, nil)
}

// respondServerError logs err and hides it from the client.
func respondServerError(w http.ResponseWriter, op string, err error) {
	logger.Error(op+" failed", logger.ErrorField(err))
	respondError(w, http.StatusInternalServerError, "Server error")
}
