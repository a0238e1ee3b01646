package ws

import (
	"encoding/json"
	"sync"
	"time"

	"taskboard/internal/logger"
)

// Hub fans activity events out to the websocket clients subscribed to
// each project. Subscriptions are torn down when the connection
// closes; empty rooms are dropped eagerly and a ticker sweeps any that
// linger.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

func (h *Hub) Subscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.ProjectID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.ProjectID] = room
	}
	room[c] = struct{}{}

	logger.Debug("feed subscribe", "project_id", c.ProjectID, "user_id", c.UserID)
}

func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.ProjectID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.ProjectID)
	}
}

// Notify implements service.FeedNotifier. A slow client never blocks
// the mutation path: full send buffers drop the event.
func (h *Hub) Notify(projectID, activityID string) {
	ev := ActivityEvent{
		Type:      EventActivity,
		ID:        activityID,
		ProjectID: projectID,
	}
	if err := ev.Validate(); err != nil {
		logger.Warn("not broadcasting malformed activity event",
			"project_id", projectID, "activity_id", activityID)
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[projectID] {
		select {
		case c.Send <- payload:
		default:
			logger.Warn("feed client buffer full, dropping event",
				"project_id", projectID, "user_id", c.UserID)
		}
	}
}

// Subscribers reports the number of clients watching a project.
func (h *Hub) Subscribers(projectID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[projectID])
}

// StartCleanup periodically drops rooms whose clients are all gone.
// Unsubscribe already removes empty rooms; the sweep covers clients
// that died without unsubscribing.
func (h *Hub) StartCleanup() {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			h.sweep()
		}
	}()
}

func (h *Hub) sweep() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for projectID, room := range h.rooms {
		for c := range room {
			if c.closed() {
				delete(room, c)
			}
		}
		if len(room) == 0 {
			delete(h.rooms, projectID)
		}
	}
}
