package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"blog_api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000
	feedBatch        = 50
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// The feed is public read-only data, so any origin may subscribe.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Live post feed
// @Description  WebSocket. Sends {"type":"posts","data":[...]} with posts newer than ?after (default 0), then every interval when new posts appear.
// @Tags         posts
// @Param        after        query  int     false  "Last post ID already seen"
// @Param        interval     query  string  false  "Poll interval, e.g. 2s (max 10s)"
// @Param        interval_ms  query  int     false  "Poll interval in ms (max 10000)"
// @Router       /ws/posts [get]
func (h *Handler) wsPosts(c *gin.Context) {
	interval := h.parseInterval(c)
	lastID, _ := strconv.Atoi(c.Query("after"))
	if lastID < 0 {
		lastID = 0
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()

	// Initial snapshot is sent even when empty so clients know they are subscribed.
	lastID, err = h.sendPosts(ctx, conn, lastID, true)
	if err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			lastID, err = h.sendPosts(ctx, conn, lastID, false)
			if err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return defaultInterval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Debugw("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendPosts writes posts newer than afterID and returns the new high-water mark.
// Empty batches are skipped unless always is set.
func (h *Handler) sendPosts(ctx context.Context, conn *websocket.Conn, afterID int, always bool) (int, error) {
	posts, err := h.services.ListPostsSince(ctx, afterID, feedBatch)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_list_posts_failed", "err", err, "after", afterID)
		}
		return afterID, err
	}
	if len(posts) == 0 && !always {
		return afterID, nil
	}
	for i := range posts {
		if posts[i].ID > afterID {
			afterID = posts[i].ID
		}
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return afterID, conn.WriteJSON(wsEnvelope{Type: "posts", Data: models.PostDicts(posts)})
}
