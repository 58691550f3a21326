package hub

import (
	"encoding/json"
	"time"

	"drawsong-service/domain"

	"github.com/fasthttp/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBufferSize = 64
)

// InboundMessage is the envelope clients send over the socket.
type InboundMessage struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

// InboundFunc handles one parsed inbound message from a client.
type InboundFunc func(client *domain.Client, msg *InboundMessage)

// CloseFunc is called once when the client's connection is gone.
type CloseFunc func(client *domain.Client)

// clientPusher adapts a client's buffered send channel to the Pusher
// contract. A full or closed channel counts as a delivery failure so the hub
// prunes the subscriber instead of blocking the emitting goroutine.
type clientPusher struct {
	client *domain.Client
}

// NewClientPusher wraps the client as a push handle.
func NewClientPusher(client *domain.Client) domain.Pusher {
	return &clientPusher{client: client}
}

func (p *clientPusher) Push(ev *domain.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	select {
	case <-p.client.Done:
		return domain.ErrPushFailed
	default:
	}
	select {
	case p.client.Send <- payload:
		return nil
	default:
		zap.L().Warn("client send channel full, dropping subscriber",
			zap.String("room", p.client.RoomCode), zap.String("player", p.client.ID.String()))
		return domain.ErrPushFailed
	}
}

// ReadPump reads inbound messages until the connection dies, then reports
// the close. Run as its own goroutine per client.
func (h *Hub) ReadPump(client *domain.Client, onInbound InboundFunc, onClose CloseFunc) {
	defer func() {
		client.Conn.Close()
		onClose(client)
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				zap.L().Debug("client closed connection", zap.String("player", client.ID.String()))
			} else {
				zap.L().Debug("client read error", zap.String("player", client.ID.String()), zap.Error(err))
			}
			return
		}

		var msg InboundMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			zap.L().Debug("unparseable client message", zap.String("player", client.ID.String()), zap.Error(err))
			continue
		}
		onInbound(client, &msg)
	}
}

// WritePump drains the client's send channel onto the socket and keeps the
// connection alive with pings. Run as its own goroutine per client.
func (h *Hub) WritePump(client *domain.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			client.WriteLock.Lock()
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := client.Conn.WriteMessage(websocket.TextMessage, msg)
			client.WriteLock.Unlock()
			if err != nil {
				zap.L().Debug("websocket write error", zap.String("player", client.ID.String()), zap.Error(err))
				return
			}

		case <-ticker.C:
			client.WriteLock.Lock()
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := client.Conn.WriteMessage(websocket.PingMessage, nil)
			client.WriteLock.Unlock()
			if err != nil {
				return
			}

		case <-client.Done:
			return
		}
	}
}
