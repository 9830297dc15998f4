package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"autosync/serving/internal/engine"
	"autosync/serving/internal/metrics"
	"autosync/serving/internal/ports"
)

type Server struct {
	replay     *engine.Replay
	agent      *engine.Agent
	booker     ports.SlotBooker
	alerter    ports.Alerter
	vehicleReg string
	log        *zap.Logger

	upgrader websocket.Upgrader
	httpSrv  *http.Server
}

func NewServer(
	addr string,
	replay *engine.Replay,
	agent *engine.Agent,
	booker ports.SlotBooker,
	alerter ports.Alerter,
	vehicleReg string,
	log *zap.Logger,
) *Server {
	s := &Server{
		replay:     replay,
		agent:      agent,
		booker:     booker,
		alerter:    alerter,
		vehicleReg: vehicleReg,
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser dashboards connect from arbitrary dev origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/service-history/{reg}", s.handleServiceHistory)
	mux.HandleFunc("POST /api/book", s.handleManualBook)
	mux.HandleFunc("POST /api/voice-test", s.handleVoiceTest)
	mux.HandleFunc("GET /ws/simulation", s.handleSimulation)
	mux.HandleFunc("GET /metrics", metrics.HandleMetrics)

	return NewCORSMiddleware().Wrap(mux)
}

func (s *Server) ListenAndServe() error {
	s.log.Info("http server listening", zap.String("addr", s.httpSrv.Addr))
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}
