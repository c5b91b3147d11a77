// routes/api_routes.go
package routes

import (
	"database/sql"
	"net/http"

	"github.com/LilVoxy/coursework_pulse/middleware"
	"github.com/LilVoxy/coursework_pulse/websocket"
	"github.com/gorilla/mux"
)

// SetupRoutes настраивает все маршруты API и WebSocket
func SetupRoutes(router *mux.Router, db *sql.DB, wsManager *websocket.Manager) {
	// Применяем CORS middleware
	router.Use(middleware.CORSMiddleware)

	// WebSocket соединения (live-обновление дашборда после запуска ETL)
	router.HandleFunc("/ws", wsManager.HandleConnections)

	// Сводные показатели и журнал запусков ETL
	router.HandleFunc("/api/overview", GetOverviewHandler(db)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/etl/runs", GetETLRunsHandler(db)).Methods("GET", "OPTIONS")

	// Сценарий 1: динамика транзакций
	router.HandleFunc("/api/transactions/trend", GetTransactionTrendHandler(db)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/transactions/types", GetTransactionTypesHandler(db)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/transactions/states", GetTransactionStatesHandler(db)).Methods("GET", "OPTIONS")

	// Сценарий 2: доминирование брендов устройств
	router.HandleFunc("/api/devices/brands", GetDeviceBrandsHandler(db)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/devices/states", GetDeviceStateBrandsHandler(db)).Methods("GET", "OPTIONS")

	// Сценарий 3: проникновение страхования
	router.HandleFunc("/api/insurance/trend", GetInsuranceTrendHandler(db)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/insurance/states", GetInsuranceStatesHandler(db)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/insurance/districts", GetInsuranceDistrictsHandler(db)).Methods("GET", "OPTIONS")

	// Сценарий 4: расширение рынка
	router.HandleFunc("/api/market/growth", GetMarketGrowthHandler(db)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/market/segments", GetMarketSegmentsHandler(db)).Methods("GET", "OPTIONS")

	// Сценарий 5: вовлеченность пользователей
	router.HandleFunc("/api/engagement/states", GetEngagementStatesHandler(db)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/engagement/districts", GetEngagementDistrictsHandler(db)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/engagement/pincodes", GetTopPincodesHandler(db)).Methods("GET", "OPTIONS")

	// Статические файлы
	router.PathPrefix("/").Handler(http.FileServer(http.Dir("public")))
}
