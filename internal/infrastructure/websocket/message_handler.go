package websocket

import (
	"context"
	"encoding/json"
	"time"

	"roomlink/internal/domain/service"
	"roomlink/pkg/logger"
)

const (
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
	MessageTypeNewMessage  = "new_message"
	MessageTypeMessageRead = "message_read"
	MessageTypeTyping      = "typing"
	MessageTypeMarkRead    = "mark_read"
	MessageTypeError       = "error"
)

// WSMessage is the envelope for every frame in both directions.
type WSMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp"`
}

type outbound struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type TypingData struct {
	ToUserID  string `json:"to_user_id"`
	UserID    string `json:"user_id,omitempty"`
	ListingID string `json:"listing_id"`
	Typing    bool   `json:"typing"`
}

type MarkReadData struct {
	OtherUserID string `json:"other_user_id"`
	ListingID   string `json:"listing_id"`
}

// InboundHandler applies client-originated events. Implementations enforce
// blocking and ownership rules.
type InboundHandler interface {
	Typing(ctx context.Context, fromUserID string, data TypingData) error
	MarkRead(ctx context.Context, readerID string, data MarkReadData) error
}

var _ service.RealtimePublisher = (*Manager)(nil)

// PublishToUser encodes an event and queues it for every connection of userID.
func (m *Manager) PublishToUser(userID, eventType string, data interface{}) {
	payload, err := encode(eventType, data)
	if err != nil {
		logger.Error("WebSocket: failed to encode %s event: %v", eventType, err)
		return
	}
	m.SendToUser(userID, payload)
}

func encode(eventType string, data interface{}) ([]byte, error) {
	return json.Marshal(outbound{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (m *Manager) HandleClientMessage(client *Client, raw []byte) {
	var msg WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		m.sendError(client, "Invalid message format")
		return
	}

	switch msg.Type {
	case MessageTypePing:
		m.sendToClient(client, MessageTypePong, map[string]string{"status": "alive"})

	case MessageTypeTyping:
		var data TypingData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.ToUserID == "" {
			m.sendError(client, "Invalid typing payload")
			return
		}
		m.dispatch(client, func(ctx context.Context, h InboundHandler) error {
			return h.Typing(ctx, client.UserID, data)
		})

	case MessageTypeMarkRead:
		var data MarkReadData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.OtherUserID == "" {
			m.sendError(client, "Invalid mark_read payload")
			return
		}
		m.dispatch(client, func(ctx context.Context, h InboundHandler) error {
			return h.MarkRead(ctx, client.UserID, data)
		})

	default:
		m.sendError(client, "Unknown message type")
	}
}

func (m *Manager) dispatch(client *Client, fn func(context.Context, InboundHandler) error) {
	if m.inbound == nil {
		m.sendError(client, "Not supported")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := fn(ctx, m.inbound); err != nil {
		logger.Debug("WebSocket inbound event from %s failed: %v", client.UserID, err)
		m.sendError(client, err.Error())
	}
}

func (m *Manager) sendToClient(client *Client, eventType string, data interface{}) {
	payload, err := encode(eventType, data)
	if err != nil {
		return
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if _, ok := m.clients[client.UserID][client]; !ok {
		return
	}
	select {
	case client.Send <- payload:
	default:
	}
}

func (m *Manager) sendError(client *Client, message string) {
	m.sendToClient(client, MessageTypeError, map[string]string{"message": message})
}
