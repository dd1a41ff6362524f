package ws

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/codegoddy/skincare/internal/domain/broadcast"
	"github.com/codegoddy/skincare/internal/platform/logging"
	"github.com/codegoddy/skincare/internal/platform/observability"
)

// ServerConfig stores the settings for the websocket endpoint.
type ServerConfig struct {
	HandshakeTimeout time.Duration
	CheckOrigin      func(r *http.Request) bool
}

// Server upgrades subscriber connections and registers them on the hub.
// Clients pick a topic with the "topic" query parameter; the stream is
// one-way, client frames other than control messages are discarded.
type Server struct {
	cfg      ServerConfig
	hub      *broadcast.Hub
	logger   *logging.Logger
	upgrader *websocket.Upgrader
}

// NewServer builds the websocket endpoint; mount Handle on the HTTP router.
func NewServer(cfg ServerConfig, hub *broadcast.Hub, logger *logging.Logger) *Server {
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}

	upgrader := &websocket.Upgrader{
		HandshakeTimeout: cfg.HandshakeTimeout,
		CheckOrigin:      cfg.CheckOrigin,
	}
	if upgrader.CheckOrigin == nil {
		upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}

	return &Server{
		cfg:      cfg,
		hub:      hub,
		logger:   logger,
		upgrader: upgrader,
	}
}

// Handle upgrades the HTTP connection and subscribes it to the requested topic.
func (s *Server) Handle(w http.ResponseWriter, req *http.Request) {
	topic := resolveTopic(req)
	if topic == "" {
		http.Error(w, "unknown topic", http.StatusBadRequest)
		return
	}

	spanCtx, spanEnd := observability.StartSpan(req.Context(), "transport.websocket", "handle")
	var spanErr error
	defer func() {
		spanEnd(spanErr)
	}()

	socket, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		spanErr = err
		s.logger.Warn("websocket handshake failed: %v", err)
		return
	}

	conn := NewConnection(uuid.NewString(), socket)
	s.hub.Subscribe(topic, conn)
	s.logger.Info("websocket subscriber %s joined topic %s", conn.ID(), topic)
	observability.RecordMetric(spanCtx, "websocket.connection.opened", 1, map[string]string{
		"component": "transport.websocket",
		"topic":     topic,
	})

	go s.readLoop(topic, conn)
}

// readLoop drains client frames so ping/pong and close handshakes are
// serviced, then deregisters the subscriber.
func (s *Server) readLoop(topic string, conn *Connection) {
	defer func() {
		s.hub.Unsubscribe(topic, conn)
		_ = conn.Close()
		s.logger.Info("websocket subscriber %s left topic %s", conn.ID(), topic)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket subscriber %s read error: %v", conn.ID(), err)
			}
			return
		}
	}
}

func resolveTopic(req *http.Request) string {
	topic := req.URL.Query().Get("topic")
	switch topic {
	case "":
		return broadcast.TopicProducts
	case broadcast.TopicProducts, broadcast.TopicOrders, broadcast.TopicAdmin:
		return topic
	default:
		return ""
	}
}
