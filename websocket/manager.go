// websocket/manager.go
package websocket

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"
)

// Интервал опроса журнала запусков ETL
const runPollInterval = 30 * time.Second

// NewManager создает новый менеджер WebSocket-соединений
func NewManager(db *sql.DB) *Manager {
	return &Manager{
		Clients:    make(map[string]*Client),
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		DB:         db,
	}
}

// Run запускает работу менеджера
func (manager *Manager) Run() {
	// Запускаем мониторинг журнала запусков ETL
	go manager.watchETLRuns()

	for {
		select {
		case client := <-manager.Register:
			manager.Clients[client.ID] = client
			log.Printf("👤 Дашборд %s подключился", client.ID)

		case client := <-manager.Unregister:
			if _, ok := manager.Clients[client.ID]; ok {
				delete(manager.Clients, client.ID)
				close(client.Send)
				log.Printf("👤 Дашборд %s отключился", client.ID)
			}

		case message := <-manager.Broadcast:
			// Рассылаем уведомление всем подключенным клиентам
			manager.broadcast(message)
		}
	}
}

// broadcast отправляет сообщение всем подключенным клиентам
func (manager *Manager) broadcast(message []byte) {
	delivered := 0
	for id, client := range manager.Clients {
		select {
		case client.Send <- message:
			delivered++
		default:
			close(client.Send)
			delete(manager.Clients, id)
		}
	}

	log.Printf("✅ Уведомление отправлено %d дашбордам", delivered)
}

// watchETLRuns опрашивает журнал запусков ETL и при появлении нового
// успешного запуска рассылает уведомление подключенным дашбордам
func (manager *Manager) watchETLRuns() {
	// Без подключения к БД мониторинг журнала не запускается
	if manager.DB == nil {
		return
	}

	// Запоминаем текущее состояние журнала, чтобы не уведомлять
	// о запусках, завершившихся до старта сервера
	if id, _, _, _, err := manager.lastSuccessfulRun(); err == nil {
		manager.lastNotifiedRunID = id
	}

	ticker := time.NewTicker(runPollInterval)
	defer ticker.Stop()

	for range ticker.C {
		id, runID, finishedAt, rowsLoaded, err := manager.lastSuccessfulRun()
		if err != nil {
			if err != sql.ErrNoRows {
				log.Printf("❌ Ошибка при опросе журнала ETL: %v", err)
			}
			continue
		}

		if id <= manager.lastNotifiedRunID {
			continue
		}
		manager.lastNotifiedRunID = id

		notification := RunNotification{
			Type:       "etl_run_completed",
			RunID:      runID,
			FinishedAt: finishedAt,
			RowsLoaded: rowsLoaded,
		}

		payload, err := json.Marshal(notification)
		if err != nil {
			log.Printf("❌ Ошибка при кодировании уведомления: %v", err)
			continue
		}

		// Карту Clients трогает только цикл Run - здесь лишь
		// передаем уведомление через канал
		log.Printf("✅ Новый запуск ETL %s, уведомляем дашборды", runID)
		manager.Broadcast <- payload
	}
}

// lastSuccessfulRun возвращает последнюю успешную запись журнала ETL
func (manager *Manager) lastSuccessfulRun() (int, string, time.Time, int, error) {
	var (
		id         int
		runID      string
		finishedAt time.Time
		rowsLoaded int
	)

	err := manager.DB.QueryRow(`
		SELECT id, run_id, end_time, rows_loaded
		FROM etl_run_log
		WHERE status = 'success'
		ORDER BY end_time DESC
		LIMIT 1
	`).Scan(&id, &runID, &finishedAt, &rowsLoaded)

	return id, runID, finishedAt, rowsLoaded, err
}
