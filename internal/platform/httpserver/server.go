package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	mentalmaps "mentalmaps/contexts/mapping/mental-maps"
	"mentalmaps/contexts/mapping/mental-maps/domain/entities"
	domainerrors "mentalmaps/contexts/mapping/mental-maps/domain/errors"
	httptransport "mentalmaps/contexts/mapping/mental-maps/transport/http"
	_ "mentalmaps/internal/platform/httpserver/docs"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	apiPrefix      = "/api/v1"
	defaultService = "mental-maps-api"
	logModule      = "internal/platform/httpserver"
)

// Options tune the HTTP surface. Zero values fall back to defaults.
type Options struct {
	Addr          string
	ServiceName   string
	MaxBodyBytes  int64
	EnableSwagger bool
	EnableMetrics bool
}

type Server struct {
	mux          *http.ServeMux
	handler      http.Handler
	logger       *slog.Logger
	addr         string
	serviceName  string
	maxBodyBytes int64
	metrics      *httpMetrics
	mentalMaps   mentalmaps.Module
}

func New(module mentalmaps.Module, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = ":3000"
	}
	if opts.ServiceName == "" {
		opts.ServiceName = defaultService
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		addr:         opts.Addr,
		serviceName:  opts.ServiceName,
		maxBodyBytes: opts.MaxBodyBytes,
		mentalMaps:   module,
	}
	if opts.EnableMetrics {
		s.metrics = newHTTPMetrics()
	}
	s.registerRoutes(opts.EnableSwagger)

	var handler http.Handler = s.mux
	if s.metrics != nil {
		handler = s.metrics.instrument(s.mux, handler)
	}
	s.handler = cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "X-User-Id", "X-User-Role", "Idempotency-Key"},
	}).Handler(handler)
	return s
}

// Handler exposes the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", logModule,
		"layer", "platform",
		"addr", s.addr,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", logModule,
		"layer", "platform",
	)
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) registerRoutes(enableSwagger bool) {
	if enableSwagger {
		s.mux.Handle("/swagger/", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.handler())
	}

	s.mux.HandleFunc("GET "+apiPrefix+"/health", s.handleHealth)

	s.mux.HandleFunc("POST "+apiPrefix+"/maps", s.handleCreateMap)
	s.mux.HandleFunc("GET "+apiPrefix+"/maps", s.handleListMaps)
	s.mux.HandleFunc("GET "+apiPrefix+"/maps/{mapId}", s.handleGetMap)
	s.mux.HandleFunc("PUT "+apiPrefix+"/maps/{mapId}", s.handleUpdateMap)
	s.mux.HandleFunc("DELETE "+apiPrefix+"/maps/{mapId}", s.handleDeleteMap)

	s.mux.HandleFunc("POST "+apiPrefix+"/maps/{mapId}/elements", s.handleAddElement)
	s.mux.HandleFunc("GET "+apiPrefix+"/maps/{mapId}/elements", s.handleListElements)
	s.mux.HandleFunc("PUT "+apiPrefix+"/maps/{mapId}/elements/{elementId}", s.handleUpdateElement)
	s.mux.HandleFunc("DELETE "+apiPrefix+"/maps/{mapId}/elements/{elementId}", s.handleDeleteElement)

	s.mux.HandleFunc("POST "+apiPrefix+"/reports", s.handleCreateReport)
	s.mux.HandleFunc("GET "+apiPrefix+"/reports", s.handleListReports)
	s.mux.HandleFunc("PUT "+apiPrefix+"/reports/{reportId}", s.handleUpdateReport)
	s.mux.HandleFunc("DELETE "+apiPrefix+"/reports/{reportId}", s.handleDeleteReport)

	s.mux.HandleFunc("/", s.handleNotFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, httptransport.HealthResponse{
		Status:  "ok",
		Service: s.serviceName,
		Version: "v1",
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
}

func (s *Server) handleCreateMap(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req httptransport.CreateMapRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.mentalMaps.Handler.CreateMapHandler(r.Context(), actor, idempotencyKey(r), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	resp, err := s.mentalMaps.Handler.ListMapsHandler(r.Context(), actor, httptransport.ListMapsRequest{
		Visibility: query.Get("visibility"),
		Limit:      query.Get("limit"),
		Cursor:     query.Get("cursor"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.mentalMaps.Handler.GetMapHandler(r.Context(), actor, r.PathValue("mapId"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateMap(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req httptransport.UpdateMapRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.mentalMaps.Handler.UpdateMapHandler(r.Context(), actor, r.PathValue("mapId"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteMap(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.mentalMaps.Handler.DeleteMapHandler(r.Context(), actor, r.PathValue("mapId"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddElement(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req httptransport.AddElementRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.mentalMaps.Handler.AddElementHandler(r.Context(), actor, r.PathValue("mapId"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListElements(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.mentalMaps.Handler.ListElementsHandler(r.Context(), actor, r.PathValue("mapId"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateElement(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req httptransport.UpdateElementRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.mentalMaps.Handler.UpdateElementHandler(r.Context(), actor, r.PathValue("mapId"), r.PathValue("elementId"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteElement(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.mentalMaps.Handler.DeleteElementHandler(r.Context(), actor, r.PathValue("mapId"), r.PathValue("elementId"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req httptransport.CreateReportRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.mentalMaps.Handler.CreateReportHandler(r.Context(), actor, idempotencyKey(r), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	resp, err := s.mentalMaps.Handler.ListReportsHandler(r.Context(), actor, httptransport.ListReportsRequest{
		Status:    query.Get("status"),
		HasStatus: query.Has("status"),
		Limit:     query.Get("limit"),
		Cursor:    query.Get("cursor"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req httptransport.UpdateReportRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.mentalMaps.Handler.UpdateReportHandler(r.Context(), actor, r.PathValue("reportId"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.mentalMaps.Handler.DeleteReportHandler(r.Context(), actor, r.PathValue("reportId"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// requireActor resolves the caller from the identity headers. A missing user id
// is the only identity failure; unknown roles degrade to regular.
func requireActor(w http.ResponseWriter, r *http.Request) (entities.Actor, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "AUTH_REQUIRED", domainerrors.ErrAuthRequired.Error(), nil)
		return entities.Actor{}, false
	}
	return entities.Actor{
		ID:   userID,
		Role: entities.ParseRole(r.Header.Get("X-User-Role")),
	}, true
}

func idempotencyKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("Idempotency-Key"))
}

// decodeJSON reads a bounded JSON object body. An empty body decodes as {} so
// that field validation reports what is missing.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(target)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large", nil)
		return false
	}
	writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", domainerrors.ErrValidation.Error(), []httptransport.FieldIssueDTO{
		{Field: "body", Issue: "invalid_json"},
	})
	return false
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *domainerrors.ValidationError
	switch {
	case errors.As(err, &validation):
		details := make([]httptransport.FieldIssueDTO, 0, len(validation.Details))
		for _, detail := range validation.Details {
			details = append(details, httptransport.FieldIssueDTO{Field: detail.Field, Issue: detail.Issue})
		}
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", domainerrors.ErrValidation.Error(), details)
	case errors.Is(err, domainerrors.ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, domainerrors.ErrAuthRequired):
		writeError(w, http.StatusUnauthorized, "AUTH_REQUIRED", err.Error(), nil)
	case errors.Is(err, domainerrors.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, domainerrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	case errors.Is(err, domainerrors.ErrIdempotencyConflict):
		writeError(w, http.StatusConflict, "IDEMPOTENCY_CONFLICT", err.Error(), nil)
	default:
		s.logger.Error("request failed",
			"event", "http_request_failed",
			"module", logModule,
			"layer", "platform",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string, details []httptransport.FieldIssueDTO) {
	writeJSON(w, status, httptransport.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
