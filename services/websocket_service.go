package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"feveo/taskmanager/broker"
	"feveo/taskmanager/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 256
)

// WebSocketServiceInterface defines the operations provided by the WebSocket service
type WebSocketServiceInterface interface {
	HandleConnection(w http.ResponseWriter, r *http.Request, userID uuid.UUID)
	HandleMessage(msg broker.Message)
	SendToUser(userID string, message []byte) int
	ClientCount(userID string) int
	Stop()
}

// Client represents a connected WebSocket client
type Client struct {
	ID     string
	UserID string
	Hub    *WebSocketService
	Conn   *websocket.Conn
	Send   chan []byte

	closeOnce sync.Once
}

// WebSocketService pushes task events to the sockets of the user who owns them.
type WebSocketService struct {
	clients      map[string]map[*Client]struct{}
	clientsMutex sync.RWMutex
	upgrader     websocket.Upgrader
}

// NewWebSocketService creates a hub accepting handshakes from the given
// origins. "*" accepts any origin.
func NewWebSocketService(allowedOrigins []string) *WebSocketService {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = true
	}

	return &WebSocketService{
		clients: make(map[string]map[*Client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins["*"] || origins[origin]
			},
		},
	}
}

// HandleConnection upgrades the request and registers the socket for userID.
// The caller must have authenticated userID.
func (ws *WebSocketService) HandleConnection(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading to WebSocket: %v", err)
		return
	}

	client := &Client{
		ID:     uuid.New().String(),
		UserID: userID.String(),
		Hub:    ws,
		Conn:   conn,
		Send:   make(chan []byte, sendBufferSize),
	}
	ws.register(client)

	go client.writePump()
	go client.readPump()
}

func (ws *WebSocketService) register(client *Client) {
	ws.clientsMutex.Lock()
	defer ws.clientsMutex.Unlock()

	if ws.clients[client.UserID] == nil {
		ws.clients[client.UserID] = make(map[*Client]struct{})
	}
	ws.clients[client.UserID][client] = struct{}{}
	log.Printf("Client connected: %s (user: %s)", client.ID, client.UserID)
}

func (ws *WebSocketService) unregister(client *Client) {
	ws.clientsMutex.Lock()
	defer ws.clientsMutex.Unlock()

	userClients, ok := ws.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := userClients[client]; !ok {
		return
	}
	delete(userClients, client)
	if len(userClients) == 0 {
		delete(ws.clients, client.UserID)
	}
	client.closeSend()
	log.Printf("Client disconnected: %s", client.ID)
}

// HandleMessage routes a published event envelope to its actor's sockets.
func (ws *WebSocketService) HandleMessage(msg broker.Message) {
	var envelope broker.EventEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		log.Printf("Discarding malformed event on %s: %v", msg.Subject, err)
		return
	}
	if envelope.ActorID == "" {
		return
	}

	var data map[string]interface{}
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			log.Printf("Could not decode data of event %s: %v", envelope.EventID, err)
		}
	}

	message := models.NewStandardMessage(models.EventMessage, envelope.Event, map[string]interface{}{
		"eventId":   envelope.EventID,
		"entity":    envelope.Entity,
		"operation": envelope.Operation,
		"data":      data,
	})
	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error encoding websocket message: %v", err)
		return
	}

	ws.SendToUser(envelope.ActorID, payload)
}

// SendToUser queues message for every socket of userID and returns how many
// accepted it. Sockets whose buffer is full are skipped.
func (ws *WebSocketService) SendToUser(userID string, message []byte) int {
	ws.clientsMutex.RLock()
	defer ws.clientsMutex.RUnlock()

	delivered := 0
	for client := range ws.clients[userID] {
		select {
		case client.Send <- message:
			delivered++
		default:
			log.Printf("Send buffer full for client %s, dropping message", client.ID)
		}
	}
	return delivered
}

func (ws *WebSocketService) ClientCount(userID string) int {
	ws.clientsMutex.RLock()
	defer ws.clientsMutex.RUnlock()
	return len(ws.clients[userID])
}

// Stop closes every client connection.
func (ws *WebSocketService) Stop() {
	ws.clientsMutex.Lock()
	defer ws.clientsMutex.Unlock()

	for userID, userClients := range ws.clients {
		for client := range userClients {
			client.closeSend()
			if client.Conn != nil {
				client.Conn.Close()
			}
		}
		delete(ws.clients, userID)
	}
	log.Println("WebSocket service stopped")
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.Send) })
}

// readPump only watches for close and pong frames; clients do not send commands.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Error reading from WebSocket: %v", err)
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var _ WebSocketServiceInterface = (*WebSocketService)(nil)
