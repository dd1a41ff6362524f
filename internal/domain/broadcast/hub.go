package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	platformerrors "github.com/codegoddy/skincare/internal/platform/errors"
)

// Sender is one subscriber endpoint. The transport layer supplies a
// websocket-backed implementation; tests supply fakes.
type Sender interface {
	Send(ctx context.Context, data []byte) error
	Close() error
}

// Logger provides the minimal logging contract required by the hub.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config tunes the publish queue and delivery behaviour.
type Config struct {
	QueueSize   int
	Workers     int
	SendTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = 5 * time.Second
	}
	return c
}

type frame struct {
	topic   string
	payload []byte
}

// Hub fans broadcast frames out to topic subscribers. Publishers never
// block on slow clients: frames pass through a bounded queue, and a send
// that fails or overruns its timeout costs the subscriber its membership.
type Hub struct {
	cfg    Config
	logger Logger

	mutex  sync.RWMutex
	topics map[string]map[Sender]struct{}

	queue chan frame
	stop  chan struct{}
	wg    sync.WaitGroup
}

// NewHub builds a hub; call Start before publishing.
func NewHub(cfg Config, logger Logger) *Hub {
	cfg = cfg.withDefaults()
	return &Hub{
		cfg:    cfg,
		logger: logger,
		topics: make(map[string]map[Sender]struct{}),
		queue:  make(chan frame, cfg.QueueSize),
		stop:   make(chan struct{}),
	}
}

// Start launches the fan-out workers.
func (h *Hub) Start() {
	for i := 0; i < h.cfg.Workers; i++ {
		h.wg.Add(1)
		go h.worker()
	}
}

// Stop drains the workers and closes every subscriber.
func (h *Hub) Stop() {
	close(h.stop)
	h.wg.Wait()

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for topic, set := range h.topics {
		for s := range set {
			_ = s.Close()
		}
		delete(h.topics, topic)
	}
}

func (h *Hub) worker() {
	defer h.wg.Done()
	for {
		select {
		case <-h.stop:
			return
		case f := <-h.queue:
			h.Broadcast(f.topic, f.payload)
		}
	}
}

// Subscribe adds the sender to the topic. Re-subscribing the same sender
// is a no-op.
func (h *Hub) Subscribe(topic string, s Sender) {
	if s == nil {
		return
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	set, ok := h.topics[topic]
	if !ok {
		set = make(map[Sender]struct{})
		h.topics[topic] = set
	}
	set[s] = struct{}{}
}

// Unsubscribe removes the sender from the topic; absent senders are ignored.
func (h *Hub) Unsubscribe(topic string, s Sender) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	set, ok := h.topics[topic]
	if !ok {
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(h.topics, topic)
	}
}

// Count reports the number of subscribers on the topic.
func (h *Hub) Count(topic string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.topics[topic])
}

// Publish encodes the event once and enqueues it for fan-out. A full queue
// drops the frame with a warning instead of blocking the caller.
func (h *Hub) Publish(topic string, event any) error {
	const op = "broadcast.Publish"
	payload, err := sonic.Marshal(event)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindTransport, op, "encode event", err)
	}
	select {
	case h.queue <- frame{topic: topic, payload: payload}:
	default:
		h.logger.Warn("broadcast queue full, dropping frame on topic %s", topic)
	}
	return nil
}

// Broadcast delivers the frame to a snapshot of the topic's subscribers.
// Sends run in parallel under the per-send timeout; subscribers whose send
// fails are removed and closed after the pass.
func (h *Hub) Broadcast(topic string, payload []byte) {
	h.mutex.RLock()
	set := h.topics[topic]
	snapshot := make([]Sender, 0, len(set))
	for s := range set {
		snapshot = append(snapshot, s)
	}
	h.mutex.RUnlock()

	if len(snapshot) == 0 {
		return
	}

	var failedMu sync.Mutex
	var failed []Sender
	var sends sync.WaitGroup
	for _, s := range snapshot {
		sends.Add(1)
		go func(s Sender) {
			defer sends.Done()
			ctx, cancel := context.WithTimeout(context.Background(), h.cfg.SendTimeout)
			defer cancel()
			if err := s.Send(ctx, payload); err != nil {
				h.logger.Debug("broadcast send failed on topic %s: %v", topic, err)
				failedMu.Lock()
				failed = append(failed, s)
				failedMu.Unlock()
			}
		}(s)
	}
	sends.Wait()

	for _, s := range failed {
		h.Unsubscribe(topic, s)
		_ = s.Close()
	}
	if len(failed) > 0 {
		h.logger.Info("pruned %d dead subscriber(s) from topic %s", len(failed), topic)
	}
}
