package server

import (
	"encoding/json"
	"net/http"

	"repoflow/internal/server/middleware"
)

func NewMux(ingestHandler *IngestHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ingest", ingestHandler.HandleIngest)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	return middleware.CORS(mux)
}
