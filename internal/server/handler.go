package server

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"repoflow/internal/diagram"
	"repoflow/internal/githubrepo"
	"repoflow/internal/ingest"
	"repoflow/internal/llm"
	"repoflow/internal/persist"
)

// xmlPreviewLen is how much of the artifact the envelope always carries.
const xmlPreviewLen = 1000

// IngestHandler exposes the pipeline over HTTP.
type IngestHandler struct {
	Pipeline *ingest.Pipeline
	Persist  *persist.Adapter
}

type ingestRequest struct {
	RepoURL string `json:"repo_url"`
	UserID  string `json:"user_id,omitempty"`
	Verbose bool   `json:"verbose,omitempty"`
}

type repoInfo struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

type ingestResponse struct {
	RepoInfo          repoInfo        `json:"repoInfo"`
	Metadata          ingest.Metadata `json:"metadata"`
	ArtifactSizeBytes int             `json:"artifactSizeBytes"`
	Diagrams          diagram.Pair    `json:"diagrams"`
	XMLContent        string          `json:"xmlContent,omitempty"`
	XMLPreview        string          `json:"xmlPreview"`
	XMLSaved          bool            `json:"xmlSaved"`
}

func (h *IngestHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.RepoURL) == "" {
		writeError(w, http.StatusBadRequest, "repo_url is required")
		return
	}

	caller := persist.Caller{SignedIn: strings.TrimSpace(req.UserID) != "", UserID: strings.TrimSpace(req.UserID)}
	ctx := llm.WithCallerKey(r.Context(), rateKey(r, caller))

	res, err := h.Pipeline.Ingest(ctx, req.RepoURL, ingest.Options{Verbose: req.Verbose})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, githubrepo.ErrInvalidRepositoryURL) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	outcome := h.Persist.Persist(ctx, res, caller)
	saved := outcome.Kind == persist.OutcomeDurable && outcome.WriteSucceeded

	resp := ingestResponse{
		RepoInfo: repoInfo{
			Owner: res.Identity.Owner,
			Name:  res.Identity.Name,
			URL:   res.RepoURL,
		},
		Metadata:          res.Metadata,
		ArtifactSizeBytes: res.ArtifactSize(),
		Diagrams:          res.Diagrams,
		XMLPreview:        preview(res.XML, xmlPreviewLen),
		XMLSaved:          saved,
	}
	// The full artifact is returned inline unless it is known to be stored.
	if !saved {
		resp.XMLContent = res.XML
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// rateKey buckets signed-in callers by user id and anonymous ones by
// remote address.
func rateKey(r *http.Request, caller persist.Caller) string {
	if caller.SignedIn {
		return "user:" + caller.UserID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "anon:" + host
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
