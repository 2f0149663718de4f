package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// The hub pushes notification payloads to connected dashboards, keyed by
// account email. Delivery is best effort: a dead connection is dropped, never
// retried.

type Client struct {
	Email string
	Conn  *websocket.Conn
}

var clients = make(map[string]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Notification client registered: %s", client.Email)
			clientsMu.Lock()
			clients[client.Email] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Notification client unregistered: %s", client.Email)
			clientsMu.Lock()
			if conn, ok := clients[client.Email]; ok && conn == client.Conn {
				delete(clients, client.Email)
			}
			clientsMu.Unlock()
		}
	}
}

// Push writes a payload to the client registered for email, if any.
func Push(email string, payload interface{}) {
	clientsMu.RLock()
	conn, ok := clients[email]
	clientsMu.RUnlock()
	if !ok {
		return
	}
	if err := conn.WriteJSON(payload); err != nil {
		log.Printf("Error pushing notification to %s: %v", email, err)
		conn.Close()
		clientsMu.Lock()
		if cur, ok := clients[email]; ok && cur == conn {
			delete(clients, email)
		}
		clientsMu.Unlock()
	}
}

// UpgradeRequired rejects plain HTTP requests on the websocket route.
func UpgradeRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// Serve keeps a notification connection open for the authenticated email
// until the peer goes away.
func Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		email, _ := conn.Locals("ws_email").(string)
		if email == "" {
			conn.Close()
			return
		}

		client := &Client{Email: email, Conn: conn}
		Register <- client
		defer func() {
			Unregister <- client
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
