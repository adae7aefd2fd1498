// Package api serves one prospect session as a local JSON API for a UI
// collaborator. Every request recomputes its view from the session; an
// upload or remap swaps in a new one.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/config"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/export"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/fetcher"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/filter"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/mapping"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/pipeline"
)

var validate = validator.New()

// MaxUploadBytes caps an uploaded prospect file.
const MaxUploadBytes = 32 << 20

// Server exposes one loaded table over HTTP. Uploads and remaps replace the
// table, mapping and session together.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time

	mu      sync.RWMutex
	raw     *model.RawTable
	mapping mapping.Mapping
	session *pipeline.Session // nil while required fields are unmapped
}

// NewServer creates a Server for session.
func NewServer(session *pipeline.Session, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
		raw:     session.Raw,
		mapping: session.Mapping,
		session: session,
	}
}

// WithToday fixes the reference date used for contact ages and follow-ups.
func (s *Server) WithToday(day time.Time) *Server {
	s.now = func() time.Time { return day }
	return s
}

// Routes builds the chi router with logging, CORS and rate limiting.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(Logging(s.logger))
	r.Use(CORS(s.cfg.Server.AllowedOrigins, s.logger))
	if s.cfg.Server.RateLimit > 0 {
		r.Use(httprate.LimitByIP(s.cfg.Server.RateLimit, time.Minute))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{"status": "ok"}
		if sess := s.current(); sess != nil {
			body["session"] = sess.ID.String()
		}
		respondJSON(w, http.StatusOK, body)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", s.upload)
		r.Get("/columns", s.columns)
		r.Post("/mapping", s.remap)
		r.Get("/options", s.options)
		r.Post("/explore", s.explore)
		r.Get("/quality", s.quality)
		r.Post("/summary", s.summary)
		r.Post("/contacts", s.contacts)
		r.Post("/export", s.export)
	})

	return r
}

func (s *Server) current() *pipeline.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// ready returns the session, or answers 409 with the unmapped required
// fields when there is none.
func (s *Server) ready(w http.ResponseWriter) (*pipeline.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		msg := "no session"
		if err := s.mapping.Validate(); err != nil {
			msg = err.Error()
		}
		respondWithError(w, http.StatusConflict, msg)
		return nil, false
	}
	return s.session, true
}

// replace installs raw and m, building a session when m is valid.
func (s *Server) replace(raw *model.RawTable, m mapping.Mapping) (pipeline.Columns, error) {
	var sess *pipeline.Session
	if m.Validate() == nil {
		var err error
		if sess, err = pipeline.NewSession(raw, m, s.now()); err != nil {
			return pipeline.Columns{}, err
		}
	}

	s.mu.Lock()
	s.raw, s.mapping, s.session = raw, m, sess
	s.mu.Unlock()
	return pipeline.DescribeColumns(raw, m), nil
}

// ExploreRequest is one snapshot of the filter controls. A nil cadence uses
// the configured defaults.
type ExploreRequest struct {
	Filter  filter.Spec           `json:"filter"`
	Cadence *config.CadenceConfig `json:"cadence,omitempty"`
}

// APIError is the body of every error response.
type APIError struct {
	Status int               `json:"status"`
	Title  string            `json:"title"`
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, APIError{
		Status: status,
		Title:  http.StatusText(status),
		Detail: message,
	})
}

func respondValidationError(w http.ResponseWriter, err error) {
	fields := map[string]string{}
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			fields[fe.Namespace()] = fmt.Sprintf("failed %s %s", fe.Tag(), fe.Param())
		}
	}
	respondJSON(w, http.StatusBadRequest, APIError{
		Status: http.StatusBadRequest,
		Title:  "Validation Error",
		Detail: "One or more fields failed validation",
		Errors: fields,
	})
}

// decodeExplore reads and validates an ExploreRequest. An empty body is an
// unfiltered request.
func (s *Server) decodeExplore(w http.ResponseWriter, r *http.Request) (filter.Spec, config.CadenceConfig, bool) {
	var req ExploreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return filter.Spec{}, config.CadenceConfig{}, false
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return filter.Spec{}, config.CadenceConfig{}, false
	}

	cadence := s.cfg.Cadence
	if req.Cadence != nil {
		cadence = *req.Cadence
	}
	return req.Filter, cadence, true
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	raw, err := fetcher.LoadBytes(header.Filename, data, r.FormValue("sheet"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	cols, err := s.replace(raw, mapping.Guess(raw.Columns, mapping.DefaultAliases))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, cols)
}

func (s *Server) columns(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	cols := pipeline.DescribeColumns(s.raw, s.mapping)
	s.mu.RUnlock()
	respondJSON(w, http.StatusOK, cols)
}

// remap applies field: column choices on top of the current mapping. An empty
// column or "-" unmaps the field.
func (s *Server) remap(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	pairs := make([]string, 0, len(req))
	for field, col := range req {
		pairs = append(pairs, field+"="+col)
	}
	ov, err := mapping.ParseOverrides(pairs)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.RLock()
	raw, m := s.raw, s.mapping.Clone()
	s.mu.RUnlock()

	for f, col := range ov {
		if col == "" || col == mapping.Unmapped {
			m.Unset(f)
			continue
		}
		if err := m.Set(f, col, raw.Columns); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	cols, err := s.replace(raw, m)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	status := http.StatusOK
	if !cols.Valid {
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, cols)
}

func (s *Server) options(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.ready(w)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sess.Options())
}

func (s *Server) quality(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.ready(w)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sess.Quality())
}

func (s *Server) explore(w http.ResponseWriter, r *http.Request) {
	spec, cadence, ok := s.decodeExplore(w, r)
	if !ok {
		return
	}
	sess, ok := s.ready(w)
	if !ok {
		return
	}
	res, err := sess.Explore(spec, cadence, s.now())
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	res.Rows = pipeline.ProspectList(res.Rows)
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	spec, cadence, ok := s.decodeExplore(w, r)
	if !ok {
		return
	}
	sess, ok := s.ready(w)
	if !ok {
		return
	}
	res, err := sess.Explore(spec, cadence, s.now())
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Metrics pipeline.Metrics `json:"metrics"`
		pipeline.Summary
	}{res.Metrics, pipeline.Summarize(res.Rows)})
}

func (s *Server) contacts(w http.ResponseWriter, r *http.Request) {
	limit := 60
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	spec, cadence, ok := s.decodeExplore(w, r)
	if !ok {
		return
	}
	sess, ok := s.ready(w)
	if !ok {
		return
	}
	res, err := sess.Explore(spec, cadence, s.now())
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, pipeline.Contacts(res.Rows, r.URL.Query().Get("q"), limit))
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tmplName := q.Get("template")
	if tmplName == "" {
		tmplName = s.cfg.Export.Template
	}
	tmpl, err := export.ParseTemplate(tmplName)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	formatName := q.Get("format")
	if formatName == "" {
		formatName = string(export.FormatCSV)
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	spec, cadence, ok := s.decodeExplore(w, r)
	if !ok {
		return
	}
	sess, ok := s.ready(w)
	if !ok {
		return
	}
	res, err := sess.Explore(spec, cadence, s.now())
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	filename := s.cfg.Export.CSVName
	if format == export.FormatXLSX {
		filename = s.cfg.Export.XLSXName
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.Write(w, export.Build(res.Rows, tmpl), format); err != nil {
		s.logger.Error("api: export failed", zap.Error(err))
	}
}
