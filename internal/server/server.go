package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/prestafacil/avaluador/internal/app"
	"github.com/prestafacil/avaluador/internal/device"
	"github.com/prestafacil/avaluador/internal/engine"
	"github.com/prestafacil/avaluador/internal/interfaces"
	"github.com/prestafacil/avaluador/internal/logging"
	"github.com/prestafacil/avaluador/internal/predictor"
	"github.com/prestafacil/avaluador/internal/registry"
	"github.com/prestafacil/avaluador/internal/vision"
)

const maxUploadBytes = 32 << 20

// Server is the HTTP + WebSocket API surface for the appraisal service.
type Server struct {
	cfg      Config
	app      *app.Application
	router   chi.Router
	upgrader websocket.Upgrader
	logger   interfaces.Logger
}

// NewServer builds a Server with its own Application.
func NewServer(cfg Config) (*Server, error) {
	if cfg.AppConfig == nil {
		cfg.AppConfig = app.DefaultConfig()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("server")
	}

	application, err := app.NewApplication(context.Background(), cfg.AppConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("building application: %w", err)
	}

	r := chi.NewRouter()
	s := &Server{
		cfg:    cfg,
		app:    application,
		router: r,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
	}

	s.routes()
	return s, nil
}

// Application returns the underlying application for advanced use (tests, etc.).
func (s *Server) Application() *app.Application {
	return s.app
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/api/avaluo", s.optionsHandler("POST"))
	r.Options("/api/avaluo/imagenes", s.optionsHandler("POST"))
	r.Options("/api/avaluo/async", s.optionsHandler("POST"))
	r.Options("/api/avaluo/async/{jobID}", s.optionsHandler("GET, DELETE"))
	r.Options("/api/modelo", s.optionsHandler("GET"))
	r.Options("/api/modelos", s.optionsHandler("GET"))

	// Appraisals
	r.Post("/api/avaluo", s.handleAppraise)
	r.Post("/api/avaluo/imagenes", s.handleAppraiseImages)

	// Appraisal jobs
	r.Post("/api/avaluo/async", s.handleStartAppraisalJob)
	r.Get("/api/avaluo/async/{jobID}", s.handleGetJob)
	r.Delete("/api/avaluo/async/{jobID}", s.handleCancelJob)
	r.Get("/api/avaluo/async/{jobID}/ws", s.handleJobWS)

	// Model registry
	r.Get("/api/modelo", s.handleActiveModel)
	r.Get("/api/modelos", s.handleListModels)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []interfaces.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, interfaces.Field{Key: "query", Value: q})
	}

	// Multipart bodies carry image bytes; only JSON is worth echoing.
	if r.Body != nil && r.Method == http.MethodPost &&
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, interfaces.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close releases the application and its registry database.
func (s *Server) Close() {
	if s.app != nil {
		_ = s.app.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	addr := s.cfg.ListenAddr
	if addr == "" {
		addr = s.cfg.AppConfig.ListenAddr
	}
	return &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorRespuesta{Error: msg})
}

// --- request decoding ---

// decodeAppraisal accepts either a JSON body or a multipart form with
// campos, imagenes[] and notas.
func (s *Server) decodeAppraisal(r *http.Request) (app.AppraisalRequest, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return app.AppraisalRequest{}, fmt.Errorf("formulario inválido: %w", err)
		}
		images, err := readImages(r.MultipartForm)
		if err != nil {
			return app.AppraisalRequest{}, err
		}
		return app.AppraisalRequest{
			Raw:    rawFromForm(r),
			Images: images,
			Notes:  strings.TrimSpace(r.FormValue("notas")),
		}, nil
	}

	var body SolicitudAvaluo
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return app.AppraisalRequest{}, errors.New("json inválido")
	}
	return app.AppraisalRequest{Raw: body.raw(), Notes: body.Notas}, nil
}

// rawFromForm reads the specification from form fields named exactly like
// the JSON payload. Empty fields stay missing.
func rawFromForm(r *http.Request) device.RawSpecification {
	get := func(field string) any {
		v := strings.TrimSpace(r.FormValue(field))
		if v == "" {
			return nil
		}
		return v
	}
	return device.RawSpecification{
		FormFactor:           get(device.FieldFormFactor),
		Brand:                get(device.FieldBrand),
		ProcessorModel:       get(device.FieldProcessor),
		ProcessorGeneration:  get(device.FieldGeneration),
		RAMGB:                get(device.FieldRAM),
		DiskCapacityGB:       get(device.FieldDisk),
		DiskType:             get(device.FieldDiskType),
		HasDedicatedGraphics: get(device.FieldGraphics),
		Condition:            get(device.FieldCondition),
		AgeYears:             get(device.FieldAge),
	}
}

func readImages(form *multipart.Form) ([]vision.Image, error) {
	files := form.File["imagenes"]
	images := make([]vision.Image, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("abriendo %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("leyendo %s: %w", fh.Filename, err)
		}

		mime := fh.Header.Get("Content-Type")
		if mime == "" || mime == "application/octet-stream" {
			mime = http.DetectContentType(data)
		}
		images = append(images, vision.Image{MIMEType: mime, Data: data})
	}
	return images, nil
}

// --- HTTP handlers ---

// handleAppraise godoc
// @Summary Avaluar un equipo desde su especificación
// @Description Valora el equipo declarado y responde con la oferta o los motivos del bloqueo. Un avalúo bloqueado sigue siendo una respuesta 200.
// @Tags avaluo
// @Accept json
// @Produce json
// @Param solicitud body SolicitudAvaluo true "Especificación del equipo"
// @Success 200 {object} engine.Result
// @Failure 400 {object} ErrorRespuesta
// @Failure 503 {object} ErrorRespuesta
// @Router /api/avaluo [post]
func (s *Server) handleAppraise(w http.ResponseWriter, r *http.Request) {
	var body SolicitudAvaluo
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "json inválido")
		return
	}

	res, err := s.app.Orch.AppraiseDevice(r.Context(), body.raw(), nil, body.Notas)
	s.respondAppraisal(w, res, err)
}

// handleAppraiseImages godoc
// @Summary Avaluar un equipo con fotos
// @Description Variante multipart: campos de la especificación, archivos imagenes[] y notas. El análisis de imágenes corre antes de valorar.
// @Tags avaluo
// @Accept multipart/form-data
// @Produce json
// @Param form_factor formData string true "portatil o escritorio"
// @Param marca formData string true "Marca"
// @Param procesador formData string true "Procesador"
// @Param ram_gb formData integer true "RAM en GB"
// @Param disco_gb formData integer true "Disco en GB"
// @Param tipo_disco formData string true "ssd o hdd"
// @Param grafica formData boolean true "Gráfica dedicada"
// @Param condicion formData string true "Condición"
// @Param antiguedad formData integer true "Antigüedad en años"
// @Param imagenes formData file false "Fotos del equipo"
// @Param notas formData string false "Notas del vendedor"
// @Success 200 {object} engine.Result
// @Failure 400 {object} ErrorRespuesta
// @Failure 503 {object} ErrorRespuesta
// @Router /api/avaluo/imagenes [post]
func (s *Server) handleAppraiseImages(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeAppraisal(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.app.Orch.AppraiseDevice(r.Context(), req.Raw, req.Images, req.Notes)
	s.respondAppraisal(w, res, err)
}

func (s *Server) respondAppraisal(w http.ResponseWriter, res *engine.Result, err error) {
	if err != nil {
		s.writeAppraisalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) writeAppraisalError(w http.ResponseWriter, err error) {
	var verr *device.ValidationError
	switch {
	case errors.As(err, &verr):
		s.logger.Warn("rejected appraisal request",
			interfaces.Field{Key: "campo", Value: verr.Field},
			interfaces.Field{Key: "error", Value: verr.Reason})
		writeJSON(w, http.StatusBadRequest, ErrorRespuesta{Error: verr.Error(), Campo: verr.Field})
	case errors.Is(err, predictor.ErrPredictionUnavailable):
		s.logger.Error("price model unavailable", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusServiceUnavailable, "el modelo de precios no está disponible")
	default:
		s.logger.Error("appraisal failed", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// handleStartAppraisalJob godoc
// @Summary Iniciar un avalúo en segundo plano
// @Description Acepta el mismo cuerpo que /api/avaluo o la forma multipart de /api/avaluo/imagenes y responde de inmediato con el trabajo creado.
// @Tags avaluo
// @Accept json
// @Produce json
// @Param solicitud body SolicitudAvaluo true "Especificación del equipo"
// @Success 202 {object} app.Job
// @Failure 400 {object} ErrorRespuesta
// @Router /api/avaluo/async [post]
func (s *Server) handleStartAppraisalJob(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeAppraisal(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Jobs outlive the request; detach them from its context.
	job, err := s.app.Orch.StartAppraisalJob(context.Background(), req)
	if err != nil {
		s.logger.Warn("starting appraisal job", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("started appraisal job", interfaces.Field{Key: "job_id", Value: job.ID})
	snap, _ := s.app.Orch.SnapshotJob(job.ID)
	writeJSON(w, http.StatusAccepted, snap)
}

// handleGetJob godoc
// @Summary Consultar un avalúo en segundo plano
// @Tags avaluo
// @Produce json
// @Param jobID path string true "ID del trabajo"
// @Success 200 {object} app.Job
// @Failure 404 {object} ErrorRespuesta
// @Router /api/avaluo/async/{jobID} [get]
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	snap, ok := s.app.Orch.SnapshotJob(jobID)
	if !ok {
		writeError(w, http.StatusNotFound, "trabajo no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleCancelJob godoc
// @Summary Cancelar un avalúo en segundo plano
// @Tags avaluo
// @Param jobID path string true "ID del trabajo"
// @Success 204
// @Router /api/avaluo/async/{jobID} [delete]
func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	s.app.Orch.CancelJob(jobID)
	s.logger.Info("canceled job", interfaces.Field{Key: "job_id", Value: jobID})
	writeJSON(w, http.StatusNoContent, nil)
}

// handleJobWS streams job events over a websocket. The stream is
// single-consumer: a second socket on the same job competes for events.
func (s *Server) handleJobWS(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.app.Orch.GetJob(jobID)
	if job == nil {
		writeError(w, http.StatusNotFound, "trabajo no encontrado")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", interfaces.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	snap, _ := s.app.Orch.SnapshotJob(jobID)
	_ = conn.WriteJSON(snap)

	for ev := range job.Events {
		if err := conn.WriteJSON(ev); err != nil {
			// Viewer went away; the job keeps running.
			return
		}
	}

	// Events closed: the job finished. Send the final state with the result.
	if final, ok := s.app.Orch.SnapshotJob(jobID); ok {
		_ = conn.WriteJSON(final)
	}
}

// handleActiveModel godoc
// @Summary Modelo de precios en uso
// @Tags modelo
// @Produce json
// @Success 200 {object} ModeloRespuesta
// @Router /api/modelo [get]
func (s *Server) handleActiveModel(w http.ResponseWriter, r *http.Request) {
	entry, err := s.app.Orch.ActiveModel(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, ModeloRespuesta{
			Version:     entry.Version,
			Algoritmo:   entry.Algorithm,
			R2:          entry.R2,
			EntrenadoEn: entry.TrainedAt,
			Origen:      "registro",
		})
	case errors.Is(err, registry.ErrNoActiveArtifact):
		writeJSON(w, http.StatusOK, ModeloRespuesta{
			Version:   s.app.ModelVersion,
			Algoritmo: "heuristico",
			Origen:    "tradicional",
		})
	default:
		s.logger.Error("loading active model", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// handleListModels godoc
// @Summary Listar artefactos de modelo registrados
// @Tags modelo
// @Produce json
// @Success 200 {array} registry.Entry
// @Router /api/modelos [get]
func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	entries, err := s.app.Orch.ListModels(r.Context())
	if err != nil {
		s.logger.Error("listing models", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleHealthz godoc
// @Summary Sonda de salud
// @Tags salud
// @Produce json
// @Success 200 {object} SaludRespuesta
// @Router /healthz [get]
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SaludRespuesta{Estado: "ok", VersionModelo: s.app.ModelVersion})
}
