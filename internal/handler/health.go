package handler

import (
	"net/http"
	"time"
)

const serviceName = "game-list-api"

// HandleRoot reports that the API is up.
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"message":   "Game List API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// HandleHealth is the liveness check.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}
