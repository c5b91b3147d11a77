// websocket/connection_handler.go
package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Период отправки ping-сообщений клиенту
	pingPeriod = 50 * time.Second

	// Таймаут ожидания pong-ответа от клиента
	pongWait = 60 * time.Second

	// Таймаут записи сообщения клиенту
	writeWait = 10 * time.Second
)

// HandleConnections обрабатывает подключение нового дашборда по WebSocket
func (manager *Manager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ Ошибка при обновлении соединения до WebSocket: %v", err)
		return
	}

	client := &Client{
		ID:     uuid.New().String(),
		Socket: conn,
		Send:   make(chan []byte, 16),
	}

	manager.Register <- client

	go client.writePump()
	client.readPump(manager)
}

// readPump читает входящие сообщения клиента. Дашборд ничего не
// отправляет по существу - цикл нужен для обработки pong-ответов
// и обнаружения разрыва соединения.
func (c *Client) readPump(manager *Manager) {
	defer func() {
		manager.Unregister <- c
		c.Socket.Close()
	}()

	c.Socket.SetReadLimit(512)
	c.Socket.SetReadDeadline(time.Now().Add(pongWait))
	c.Socket.SetPongHandler(func(string) error {
		c.Socket.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Socket.ReadMessage(); err != nil {
			break
		}
	}
}

// writePump отправляет клиенту уведомления из канала Send и
// периодические ping-сообщения
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Socket.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Socket.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Менеджер закрыл канал
				c.Socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Socket.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
