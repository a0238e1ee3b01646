package store

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"taskboard/internal/logger"
	"taskboard/internal/ws"
)

const feedReadWait = 60 * time.Second

// WSFeed is a FeedSubscription backed by a websocket connection to the
// /ws/feed endpoint. Events carries activity ids until the connection
// drops or Close is called.
type WSFeed struct {
	conn   *websocket.Conn
	events chan string
	once   sync.Once
}

// DialFeed connects the activity feed for one project. baseURL is the
// http(s) API base; the scheme is rewritten for the socket.
func DialFeed(ctx context.Context, baseURL, token, projectID string) (*WSFeed, error) {
	wsURL := strings.Replace(baseURL, "http", "ws", 1) + "/ws/feed"
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("token", token)
	q.Set("project_id", projectID)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}

	f := &WSFeed{
		conn:   conn,
		events: make(chan string, 16),
	}
	go f.readLoop()
	return f, nil
}

func (f *WSFeed) readLoop() {
	defer f.teardown()
	f.conn.SetReadDeadline(time.Now().Add(feedReadWait))
	f.conn.SetPingHandler(func(data string) error {
		f.conn.SetReadDeadline(time.Now().Add(feedReadWait))
		return f.conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second))
	})

	for {
		_, msg, err := f.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("feed connection lost", "error", err)
			}
			return
		}
		f.conn.SetReadDeadline(time.Now().Add(feedReadWait))

		var ev ws.ActivityEvent
		if err := json.Unmarshal(msg, &ev); err != nil || ev.Validate() != nil {
			logger.Warn("dropping malformed feed event", "payload", string(msg))
			continue
		}
		f.events <- ev.ID
	}
}

func (f *WSFeed) Events() <-chan string {
	return f.events
}

func (f *WSFeed) Close() error {
	err := f.conn.Close()
	// readLoop notices the closed conn and closes the channel
	return err
}

func (f *WSFeed) teardown() {
	f.once.Do(func() {
		f.conn.Close()
		close(f.events)
	})
}
