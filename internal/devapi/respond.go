package devapi

import (
	"context"
	"encoding/json"
	"net/http"
)

type recordKey struct{}

func withRecordIndex(ctx context.Context, idx int) context.Context {
	return context.WithValue(ctx, recordKey{}, idx)
}

// annotateLocked attaches upload details to the recorded request.
func (s *Server) annotateLocked(r *http.Request, field, file string) {
	idx, ok := r.Context().Value(recordKey{}).(int)
	if !ok || idx >= len(s.requests) {
		return
	}
	s.requests[idx].Field = field
	s.requests[idx].File = file
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"data": data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
