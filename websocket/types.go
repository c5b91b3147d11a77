// websocket/types.go
package websocket

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// RunNotification - уведомление подключенным дашбордам о том, что
// завершился новый запуск ETL и данные нужно перечитать
type RunNotification struct {
	Type       string    `json:"type"`
	RunID      string    `json:"runId"`
	FinishedAt time.Time `json:"finishedAt"`
	RowsLoaded int       `json:"rowsLoaded"`
}

// Клиент WebSocket (открытая вкладка дашборда)
type Client struct {
	ID     string
	Socket *websocket.Conn
	Send   chan []byte
}

// Менеджер WebSocket-соединений
type Manager struct {
	Clients    map[string]*Client
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
	DB         *sql.DB

	// ID последней успешной записи журнала ETL, о которой уже
	// уведомлены клиенты
	lastNotifiedRunID int
}

// Конфигурация WebSocket-соединения
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Разрешаем подключения с любого источника (для разработки)
	},
}
