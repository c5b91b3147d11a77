package config

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// ConnectDatabase устанавливает подключение к целевой базе данных Pulse
func ConnectDatabase(cfg ETLConfig) (*sql.DB, error) {
	db, err := sql.Open(cfg.DBConfig.Driver, cfg.EffectiveDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	// Настройка параметров пула соединений
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Проверка подключения
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось установить соединение с базой данных: %w", err)
	}

	log.Println("✅ Успешное подключение к базе данных", cfg.DBConfig.DBName)
	return db, nil
}

// CloseDatabase закрывает подключение к базе данных
func CloseDatabase(db *sql.DB) {
	if db == nil {
		return
	}

	if err := db.Close(); err != nil {
		log.Printf("❌ Ошибка при закрытии соединения с базой данных: %v", err)
		return
	}

	log.Println("Соединение с базой данных закрыто")
}
