package httpapi

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/lebinh/edgeprobe/internal/httpapi/middleware"
	"github.com/lebinh/edgeprobe/internal/metrics"
	"github.com/lebinh/edgeprobe/internal/modules"
	"github.com/lebinh/edgeprobe/internal/probe"
)

type Server struct {
	Logger  *zap.Logger
	Modules *modules.Table
	Prober  *probe.Prober
	PopID   string
}

func NewServer(l *zap.Logger, t *modules.Table, p *probe.Prober, popID string) *Server {
	return &Server{Logger: l, Modules: t, Prober: p, PopID: popID}
}

func (s *Server) Router(rpm, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)
	r.Use(middleware.RequestID)
	r.Use(middleware.RateLimit(rpm, burst))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// All methods are routed so a non-GET gets the fixed 400 message
	// instead of chi's 405.
	r.HandleFunc("/probe", s.handleProbe)

	return r
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, &probe.UnsupportedMethodError{Method: r.Method})
		return
	}

	params, err := parseParams(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	cfg, err := s.Modules.Resolve(params.Module)
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := s.Prober.Probe(r.Context(), cfg, params.Target)
	if err != nil {
		writeError(w, err)
		return
	}

	s.Logger.Info("probe",
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("module", params.Module),
		zap.String("target", params.Target),
		zap.Bool("success", out.Success),
		zap.Int("status", out.StatusCode),
		zap.Float64("duration_seconds", out.DurationSeconds),
	)

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	_, _ = io.WriteString(w, metrics.Render(out, s.probeLabels(r)))
}

// probeLabels merges the static provenance of this point of presence with
// per-caller metadata the fronting layer may have stamped on the request.
func (s *Server) probeLabels(r *http.Request) map[string]string {
	labels := make(map[string]string, 3)
	if s.PopID != "" {
		labels["pop"] = s.PopID
	}
	if v := r.Header.Get("X-Client-Country"); v != "" {
		labels["country"] = v
	}
	if v := r.Header.Get("X-Client-ASN"); v != "" {
		labels["asn"] = v
	}
	return labels
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	_, _ = io.WriteString(w, "error: "+err.Error()+"\n")
}
