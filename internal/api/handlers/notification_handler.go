package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jsimpson73/test-med-app/internal/domain/providers"
	"github.com/rs/zerolog/log"
)

const heartbeatInterval = 30 * time.Second

// NotificationHandler serves the session notification log and its live stream.
type NotificationHandler struct {
	sessions  *Sessions
	eventBus  providers.EventBus
	heartbeat time.Duration
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(sessions *Sessions, eventBus providers.EventBus) *NotificationHandler {
	return &NotificationHandler{sessions: sessions, eventBus: eventBus, heartbeat: heartbeatInterval}
}

// ListNotifications handles GET /api/notifications
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	store := h.sessions.Resolve(w, r)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": store.Notifications(),
	})
}

// ClearNotifications handles DELETE /api/notifications
func (h *NotificationHandler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	h.sessions.Resolve(w, r).ClearNotifications()
	w.WriteHeader(http.StatusNoContent)
}

// StreamNotifications handles GET /api/notifications/stream
func (h *NotificationHandler) StreamNotifications(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	store := h.sessions.Resolve(w, r)
	sessionID := store.SessionID()
	channel := providers.GetSessionChannel(sessionID)

	events, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("failed to subscribe to notifications")
		respondWithError(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sendEvent(w, "connected", map[string]interface{}{"timestamp": time.Now()})
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Str("session_id", sessionID).Msg("notification stream closed")
			return
		case <-ticker.C:
			sendEvent(w, "heartbeat", map[string]interface{}{"timestamp": time.Now()})
			flusher.Flush()
		case event, ok := <-events:
			if !ok {
				return
			}
			sendEvent(w, string(event.Notification.Kind), event.Notification)
			flusher.Flush()
		}
	}
}

func sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Warn().Err(err).Str("event", eventType).Msg("failed to marshal SSE event")
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload)
}
