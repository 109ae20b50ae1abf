// Package remotectl implements the remote-control subsystem: a
// gorilla/websocket listener that decodes typed mutation events and
// applies them to the ensemble under its writer lock (spec §6 Remote
// control). Adapted from the teacher's WebSocketHub broadcast pattern,
// turned into a mutation-event consumer rather than a status emitter.
package remotectl

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/magicbadger/dabmux/internal/model"
	"github.com/magicbadger/dabmux/internal/obslog"
)

// EventType names one of the mutation events spec §6 defines.
type EventType string

const (
	EventSetLabel             EventType = "set_label"
	EventSetDynamicLabel      EventType = "set_dynamic_label"
	EventTriggerAnnouncement  EventType = "trigger_announcement"
	EventStopAnnouncement     EventType = "stop_announcement"
	EventSetLogLevel          EventType = "set_log_level"
)

// Mutation is the wire shape of one inbound remote-control event.
type Mutation struct {
	Type          EventType `json:"type"`
	Entity        string    `json:"entity,omitempty"`
	Component     string    `json:"component,omitempty"`
	Text          string    `json:"text,omitempty"`
	Charset       int       `json:"charset,omitempty"`
	Service       string    `json:"service,omitempty"`
	AnnType       uint16    `json:"announcement_type,omitempty"`
	ClusterID     byte      `json:"cluster_id,omitempty"`
	Subchannel    string    `json:"subchannel,omitempty"`
	Level         string    `json:"level,omitempty"`
}

// Hub accepts remote-control websocket connections and applies the
// mutation events they send to ensemble.
type Hub struct {
	ensemble *model.Ensemble
	log      *obslog.Logger

	mu        sync.Mutex
	onLogLevel func(level string)
}

// NewHub builds a remote-control hub bound to ensemble.
func NewHub(ensemble *model.Ensemble, log *obslog.Logger) *Hub {
	return &Hub{ensemble: ensemble, log: log}
}

// OnLogLevel registers a callback invoked when a set_log_level event
// arrives (the core applies everything else directly; log level is
// owned by the logging subsystem, not the ensemble).
func (h *Hub) OnLogLevel(fn func(level string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onLogLevel = fn
}

// Handler returns an HTTP handler that upgrades connections and reads
// mutation events off them until the connection closes.
func (h *Hub) Handler() http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			http.Error(w, "websocket upgrade failed", http.StatusBadRequest)
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var m Mutation
			if err := json.Unmarshal(data, &m); err != nil {
				h.log.Warn("remotectl: malformed mutation event", obslog.Err(err))
				continue
			}
			if err := h.Apply(m); err != nil {
				h.log.Warn("remotectl: mutation rejected", obslog.Err(err), obslog.String("type", string(m.Type)))
			}
		}
	})
}

// Apply applies one decoded mutation event to the ensemble.
func (h *Hub) Apply(m Mutation) error {
	switch m.Type {
	case EventSetLabel:
		h.ensemble.SetLabel(model.Label{Text: m.Text})
		return nil
	case EventSetDynamicLabel:
		return h.ensemble.SetDynamicLabel(m.Component, m.Text)
	case EventTriggerAnnouncement:
		h.ensemble.TriggerAnnouncement(m.ClusterID, m.AnnType, m.Subchannel)
		return nil
	case EventStopAnnouncement:
		h.ensemble.StopAnnouncement(m.ClusterID)
		return nil
	case EventSetLogLevel:
		h.mu.Lock()
		cb := h.onLogLevel
		h.mu.Unlock()
		if cb != nil {
			cb(m.Level)
		}
		return nil
	default:
		return model.NewConfigError("remotectl.type", "unknown mutation type %q", m.Type)
	}
}
