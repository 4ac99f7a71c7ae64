package realtime

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"sprintos.backend/internal/domain/entities"
	"sprintos.backend/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client streams one (table, team) subscription over a websocket connection.
// Clients only listen; anything they send besides control frames is ignored.
type Client struct {
	conn   *websocket.Conn
	hub    *Hub
	table  string
	teamID uuid.UUID
	userID uuid.UUID
}

// NewClient binds an upgraded connection to a hub subscription
func NewClient(conn *websocket.Conn, hub *Hub, table string, teamID, userID uuid.UUID) *Client {
	return &Client{conn: conn, hub: hub, table: table, teamID: teamID, userID: userID}
}

// Serve blocks until the peer disconnects or ctx is cancelled
func (c *Client) Serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	connectionGauge.Inc()
	defer connectionGauge.Dec()

	changes, unsubscribe := c.hub.Subscribe(c.table, c.teamID)
	defer unsubscribe()

	logger.Debug(ctx, "Realtime client connected",
		zap.String("table", c.table),
		zap.String("team_id", c.teamID.String()),
		zap.String("user_id", c.userID.String()),
	)

	go c.readPump(cancel)
	c.writePump(ctx, changes)
}

func (c *Client) readPump(cancel context.CancelFunc) {
	defer cancel()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn(context.Background(), "Realtime read error", zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) writePump(ctx context.Context, changes <-chan entities.Change) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(change); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
