// Package api implements the component catalog REST API using chi.
package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/starford/vision2ui/internal/apperr"
	"github.com/starford/vision2ui/internal/checksum"
	"github.com/starford/vision2ui/internal/component"
	"github.com/starford/vision2ui/internal/prompts"
)

const (
	// ServiceName is reported by GET /.
	ServiceName = "vision2ui Component Metadata API"
	// ServiceVersion is reported by GET /.
	ServiceVersion = "0.1.0"

	maxUploadBytes = 10 << 20 // 10 MB
)

// Handler holds API route handlers.
type Handler struct {
	store *component.Store
	docs  *prompts.Docs
}

// NewHandler creates a new Handler.
func NewHandler(store *component.Store, docs *prompts.Docs) *Handler {
	return &Handler{store: store, docs: docs}
}

// componentName extracts {name} from the URL, decoding escaped characters.
func componentName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Info handles GET /.
//
//	@Summary	Service information
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	ServiceInfo
//	@Router		/ [get]
func (h *Handler) Info(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ServiceInfo{
		Name:        ServiceName,
		Version:     ServiceVersion,
		Status:      "running",
		Description: "API for accessing UI component library documentation",
	})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ListComponents handles GET /components.
//
//	@Summary	List all available components
//	@Tags		components
//	@Produce	json
//	@Success	200	{object}	ComponentListResponse
//	@Router		/components [get]
func (h *Handler) ListComponents(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, "list components", err)
		return
	}
	writeJSON(w, http.StatusOK, ComponentListResponse{Components: names, Count: len(names)})
}

// GetComponent handles GET /components/{name}.
//
//	@Summary	Get component documentation
//	@Tags		components
//	@Produce	json
//	@Param		name	path		string	true	"Component name"
//	@Success	200		{object}	ComponentContentResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/components/{name} [get]
func (h *Handler) GetComponent(w http.ResponseWriter, r *http.Request) {
	name := componentName(r)
	content, err := h.store.Get(r.Context(), name)
	if err != nil {
		writeError(w, "get component", err)
		return
	}
	etag := checksum.ETag([]byte(content))
	if r.Header.Get("If-None-Match") == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	writeJSON(w, http.StatusOK, ComponentContentResponse{ComponentName: name, Content: content})
}

// ComponentExists handles GET /components/{name}/exists.
//
//	@Summary	Check if a component exists
//	@Tags		components
//	@Produce	json
//	@Param		name	path		string	true	"Component name"
//	@Success	200		{object}	ComponentExistsResponse
//	@Router		/components/{name}/exists [get]
func (h *Handler) ComponentExists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ComponentExistsResponse{Exists: h.store.Exists(r.Context(), componentName(r))})
}

// ComponentInfo handles GET /components/{name}/info.
func (h *Handler) ComponentInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.store.Describe(r.Context(), componentName(r))
	if err != nil {
		writeError(w, "describe component", err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// UploadComponent handles POST /components/upload (multipart/form-data, field "file").
//
//	@Summary	Upload a new component documentation file
//	@Tags		components
//	@Accept		mpfd
//	@Produce	json
//	@Param		file	formData	file	true	"<component_name>-<version>.md"
//	@Success	201		{object}	UploadResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Router		/components/upload [post]
func (h *Handler) UploadComponent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid_request", "file too large or invalid multipart"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid_request", "missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid_request", "failed to read uploaded file"))
		return
	}

	name, err := h.store.Add(r.Context(), header.Filename, content)
	if err != nil {
		writeError(w, "upload component", err)
		return
	}
	slog.Info("component uploaded", slog.String("component", name), slog.String("filename", header.Filename))
	writeJSON(w, http.StatusCreated, UploadResponse{
		Message:       "Component uploaded successfully",
		ComponentName: name,
		Filename:      header.Filename,
	})
}

// MetadataPrompt handles GET /prompts/metadata-generation.
//
//	@Summary	Get the metadata generation prompt
//	@Tags		prompts
//	@Produce	plain
//	@Success	200	{string}	string
//	@Failure	404	{object}	ErrorResponse
//	@Router		/prompts/metadata-generation [get]
func (h *Handler) MetadataPrompt(w http.ResponseWriter, _ *http.Request) {
	h.serveDoc(w, prompts.MetadataPrompt)
}

// UsageGuide handles GET /prompts/usage-guide.
func (h *Handler) UsageGuide(w http.ResponseWriter, _ *http.Request) {
	h.serveDoc(w, prompts.UsageGuide)
}

func (h *Handler) serveDoc(w http.ResponseWriter, doc prompts.Doc) {
	text, err := h.docs.Get(doc)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not_found", err.Error()))
			return
		}
		writeError(w, "read "+string(doc), err)
		return
	}
	writeText(w, http.StatusOK, text)
}
