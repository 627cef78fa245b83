package webui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/docsift/pdf-extract-server/internal/annotation"
	"github.com/docsift/pdf-extract-server/internal/extract"
	"github.com/docsift/pdf-extract-server/internal/queue"
)

// Server serves the review surface: an HTML form for submitting documents
// plus JSON endpoints over queue and annotation state.
type Server struct {
	service *extract.Service
	queue   *queue.Queue
	store   *annotation.Store
	logger  *slog.Logger
	http    *http.Server
}

// New creates a review server listening on addr.
func New(addr string, service *extract.Service, q *queue.Queue, store *annotation.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		service: service,
		queue:   q,
		store:   store,
		logger:  logger.With("component", "webui"),
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the route table. Exposed for tests.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/", s.handleIndex)

	r.Route("/api", func(r chi.Router) {
		r.Get("/queue/status", s.handleQueueStatus)
		r.Get("/queue/items", s.handleQueueItems)
		r.Post("/queue/submit", s.handleQueueSubmit)
		r.Post("/queue/cancel/{id}", s.handleQueueCancel)

		r.Get("/annotations", s.handleAnnotationList)
		r.Get("/annotations/export", s.handleAnnotationExport)
		r.Post("/annotations/import", s.handleAnnotationImport)
		r.Post("/annotations/extract", s.handleAnnotationExtract)
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("review server listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>PDF Extract Review</title></head>
<body>
<h1>Submit a document</h1>
<form method="post" action="/api/queue/submit">
{{.PathInput}}
{{.PriorityInput}}
<button type="submit">Enqueue</button>
</form>
<h1>Queue</h1>
<p>{{.Status.CurrentProcessing}} of {{.Status.MaxConcurrent}} workers busy,
{{.Status.Pending}} pending, {{.Status.Completed}} completed, {{.Status.Failed}} failed.</p>
<ul>
{{range .Items}}<li>{{.Path}} [{{.Status}}]</li>
{{end}}</ul>
</body>
</html>`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	pathErr := r.URL.Query().Get("error")

	pathInput, err := Input{
		ID:          "document-path",
		Name:        "path",
		Label:       "Document path",
		Placeholder: "reports/datasheet.pdf",
		Required:    true,
		Error:       pathErr,
	}.Render()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	priorityInput, err := Input{
		ID:    "priority",
		Name:  "priority",
		Label: "Priority",
		Value: "10",
	}.Render()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	data := struct {
		PathInput     template.HTML
		PriorityInput template.HTML
		Status        queue.QueueStatus
		Items         []*queue.Item
	}{pathInput, priorityInput, s.queue.Status(), s.queue.List()}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Warn("failed to render index", "error", err)
	}
}

func (s *Server) handleQueueStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.queue.Status())
}

func (s *Server) handleQueueItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.queue.List())
}

// submitRequest is accepted both as JSON and as form fields.
type submitRequest struct {
	Path     string                `json:"path"`
	Priority int                   `json:"priority"`
	Config   extract.ProcessConfig `json:"config"`
}

func (s *Server) handleQueueSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest

	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		req.Path = r.PostFormValue("path")
		fmt.Sscanf(r.PostFormValue("priority"), "%d", &req.Priority)
	}

	item, err := s.queue.Submit(req.Path, req.Priority, req.Config)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, queue.ErrQueueFull) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, item)
}

func (s *Server) handleQueueCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := s.queue.Cancel(id)
	switch {
	case errors.Is(err, queue.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, queue.ErrNotPending):
		writeError(w, http.StatusConflict, err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, map[string]string{"id": id, "status": "cancelled"})
	}
}

func (s *Server) handleAnnotationList(w http.ResponseWriter, r *http.Request) {
	doc := r.URL.Query().Get("document")
	if doc == "" {
		writeError(w, http.StatusBadRequest, errors.New("document query parameter is required"))
		return
	}

	tool, err := s.store.Tool(doc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, tool.List())
}

func (s *Server) handleAnnotationExport(w http.ResponseWriter, r *http.Request) {
	doc := r.URL.Query().Get("document")
	if doc == "" {
		writeError(w, http.StatusBadRequest, errors.New("document query parameter is required"))
		return
	}

	raw, err := s.store.Export(doc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}

func (s *Server) handleAnnotationImport(w http.ResponseWriter, r *http.Request) {
	doc := r.URL.Query().Get("document")
	if doc == "" {
		writeError(w, http.StatusBadRequest, errors.New("document query parameter is required"))
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 10<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.Import(doc, raw); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAnnotationExtract runs region extraction for one annotation box.
func (s *Server) handleAnnotationExtract(w http.ResponseWriter, r *http.Request) {
	doc := r.URL.Query().Get("document")
	id := r.URL.Query().Get("id")
	if doc == "" || id == "" {
		writeError(w, http.StatusBadRequest, errors.New("document and id query parameters are required"))
		return
	}

	tool, err := s.store.Tool(doc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	box, err := tool.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	result, err := s.service.ProcessRegion(r.Context(), extract.ProcessRegionRequest{
		Path:       doc,
		PageNumber: box.PageNumber,
		Rect: extract.Rectangle{
			X:      box.Rect.X,
			Y:      box.Rect.Y,
			Width:  box.Rect.Width,
			Height: box.Rect.Height,
		},
		Role: box.Role,
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, result)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.WriteHeader(code)

	text := http.StatusText(code)
	if err != nil {
		text = err.Error()
	}
	w.Write([]byte(text))
}
