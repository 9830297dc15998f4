package http

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"autosync/serving/internal/domain"
)

// wsSink adapts a websocket connection to the replay engine's sink. A write
// error means the client is gone.
type wsSink struct {
	conn *websocket.Conn
}

func (s *wsSink) Emit(reading domain.Reading) error {
	return s.conn.WriteJSON(reading)
}

func (s *Server) handleSimulation(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	s.log.Info("websocket connected", zap.String("remote", conn.RemoteAddr().String()))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// No client messages are expected on this channel; the read loop only
	// notices the disconnect and cancels the session.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.replay.RunSession(ctx, &wsSink{conn: conn})
	s.log.Info("websocket disconnected", zap.String("remote", conn.RemoteAddr().String()))
}
