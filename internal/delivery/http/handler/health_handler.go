package handler

import (
	"net/http"
)

const welcomeText = "Welcome to Darion - Your AI-Powered Digital Assistant!"

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	SendJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Home handles GET /
func Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		SendError(w, "Not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(welcomeText))
}
