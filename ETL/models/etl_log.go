package models

import "time"

// ETLRunLog представляет запись журнала о запуске ETL
type ETLRunLog struct {
	ID                   int
	RunID                string
	StartTime            time.Time
	EndTime              time.Time
	Status               string // in_progress, success, failed
	FilesProcessed       int
	RecordsExtracted     int
	RowsLoaded           int
	ParseErrors          int
	RejectedRecords      int
	ErrorMessage         string
	ExecutionTimeSeconds float64
}

// ETLLogRepository - интерфейс репозитория журнала запусков ETL
type ETLLogRepository interface {
	// CreateETLLogTable создает таблицу журнала, если она не существует
	CreateETLLogTable() error

	// CreateLogEntry создает новую запись о запуске ETL
	CreateLogEntry(runID string, startTime time.Time) (int, error)

	// UpdateLogEntrySuccess обновляет запись при успешном завершении
	UpdateLogEntrySuccess(id int, endTime time.Time, files, records, rows, parseErrors, rejected int) error

	// UpdateLogEntryFailure обновляет запись при неудачном завершении
	UpdateLogEntryFailure(id int, endTime time.Time, errorMessage string) error

	// GetLastSuccessfulRun получает информацию о последнем успешном запуске
	GetLastSuccessfulRun() (*ETLRunLog, error)

	// GetRunHistory получает историю запусков за указанное число дней
	GetRunHistory(days int) ([]ETLRunLog, error)
}
