package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ETLConfig содержит конфигурацию для ETL-процесса Pulse
type ETLConfig struct {
	// Конфигурация подключения к целевой БД
	DBConfig DatabaseConfig `json:"db_config"`

	// Готовая строка подключения; если задана, имеет приоритет
	// над полями DBConfig (кроме Driver)
	DSNOverride string `json:"dsn_override"`

	// Корневой каталог с данными PhonePe Pulse (data/)
	SourceDir string `json:"source_dir"`

	// Каталог для карантина повреждённых JSON-файлов
	QuarantineDir string `json:"quarantine_dir"`

	// Путь к JSON-файлу с пользовательским отображением названий штатов
	// (пустая строка - используется встроенное отображение)
	StateMappingFile string `json:"state_mapping_file"`

	// Допустимый диапазон годов в датасете
	MinYear int `json:"min_year"`
	MaxYear int `json:"max_year"`

	// Интервал запуска ETL в режиме scheduled
	RunInterval time.Duration `json:"run_interval"`

	// Включение/отключение подробного логирования
	EnableDetailedLogging bool `json:"enable_detailed_logging"`
}

// DatabaseConfig содержит настройки подключения к базе данных
type DatabaseConfig struct {
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
}

// DSN собирает строку подключения MySQL
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
	)
}

// EffectiveDSN возвращает строку подключения с учётом переопределения
func (c ETLConfig) EffectiveDSN() string {
	if c.DSNOverride != "" {
		return c.DSNOverride
	}
	return c.DBConfig.DSN()
}

// Относительные пути от корня данных до каталога штатов.
// Раскладка повторяет официальный репозиторий PhonePe Pulse;
// при другой раскладке пути переопределяются здесь.
var CategoryPaths = map[string]string{
	"aggregated": "aggregated/%s/country/india/state",
	"map":        "map/%s/hover/country/india/state",
	"top":        "top/%s/country/india/state",
}

// Значения конфигурации по умолчанию
var DefaultETLConfig = ETLConfig{
	DBConfig: DatabaseConfig{
		Driver:   "mysql",
		Host:     "localhost",
		Port:     3306,
		User:     "root",
		Password: "root",
		DBName:   "phonepe_data",
	},
	SourceDir:             "pulse/data",
	QuarantineDir:         "quarantine",
	MinYear:               2018,
	MaxYear:               2024,
	RunInterval:           24 * time.Hour,
	EnableDetailedLogging: true,
}

// GetConfig возвращает конфигурацию ETL с учётом переменных окружения
func GetConfig() ETLConfig {
	cfg := DefaultETLConfig

	// Параметры подключения к БД берём из окружения, если заданы
	cfg.DBConfig.Host = getenv("PULSE_DB_HOST", cfg.DBConfig.Host)
	cfg.DBConfig.User = getenv("PULSE_DB_USER", cfg.DBConfig.User)
	cfg.DBConfig.Password = getenv("PULSE_DB_PASSWORD", cfg.DBConfig.Password)
	cfg.DBConfig.DBName = getenv("PULSE_DB_NAME", cfg.DBConfig.DBName)
	if port := os.Getenv("PULSE_DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.DBConfig.Port = p
		}
	}

	cfg.SourceDir = getenv("PULSE_SOURCE_DIR", cfg.SourceDir)
	cfg.QuarantineDir = getenv("PULSE_QUARANTINE_DIR", cfg.QuarantineDir)
	cfg.StateMappingFile = getenv("PULSE_STATE_MAPPING_FILE", cfg.StateMappingFile)

	return cfg
}

// LoadStateMapping читает пользовательское отображение названий штатов из JSON-файла.
// Возвращает nil, если путь не задан (будет использовано встроенное отображение).
func LoadStateMapping(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла отображения штатов %s: %w", path, err)
	}

	mapping := make(map[string]string)
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("ошибка разбора файла отображения штатов %s: %w", path, err)
	}

	return mapping, nil
}

// getenv возвращает значение переменной окружения или значение по умолчанию
func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
