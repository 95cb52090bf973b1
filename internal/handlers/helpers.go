package handlers

import (
	"encoding/json"
	"net/http"
)

// respondJSON sends a JSON response with the given status and body.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondMessage sends a {"message": ...} JSON body. Authentication failures
// all pass through here with the same generic text so the response never
// reveals which check failed.
func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
