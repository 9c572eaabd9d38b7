package websocket

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"promostore/pkg/logger"
)

// Client is one open chat socket, bound to a user and the order whose
// conversation it is viewing.
type Client struct {
	UserID  string
	OrderID string
	Conn    *websocket.Conn
	Send    chan []byte
}

// Manager tracks all open chat sockets so other parts of the system (order
// status mutations, for one) can push notifications at connected users.
type Manager struct {
	clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client] = true
				m.mutex.Unlock()
				logger.Debug("Chat socket registered: user=%s order=%s", client.UserID, client.OrderID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if _, ok := m.clients[client]; ok {
					delete(m.clients, client)
					close(client.Send)
				}
				m.mutex.Unlock()
				logger.Debug("Chat socket unregistered: user=%s order=%s", client.UserID, client.OrderID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// SendToUser delivers a payload to every socket the user has open.
func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for client := range m.clients {
		if client.UserID != userID {
			continue
		}
		select {
		case client.Send <- message:
		default:
			// Slow socket; the read/write pumps will tear it down.
		}
	}
}

// WritePump sends queued payloads to the socket until Send is closed.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Debug("Chat socket write error: %v", err)
			return
		}
	}
}
