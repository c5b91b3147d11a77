// database/db.go
package database

import (
	"database/sql"

	"github.com/LilVoxy/coursework_pulse/ETL/config"
	_ "github.com/go-sql-driver/mysql"
)

// InitDB инициализирует соединение с базой данных для сервера дашборда.
// Параметры подключения берутся из переменных окружения PULSE_DB_*
// (та же конфигурация, что и у ETL Runner).
func InitDB() (*sql.DB, error) {
	cfg := config.GetConfig()
	return config.ConnectDatabase(cfg)
}
