// routes/overview_handlers.go
package routes

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/LilVoxy/coursework_pulse/ETL/models"
	"github.com/LilVoxy/coursework_pulse/database"
)

// GetOverviewHandler возвращает сводные показатели по всему датасету
func GetOverviewHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		totals, err := database.GetOverviewTotals(db)
		if err != nil {
			log.Printf("❌ Ошибка при получении сводных показателей: %v", err)
			http.Error(w, "Ошибка при получении сводных показателей", http.StatusInternalServerError)
			return
		}

		writeJSON(w, totals)
	}
}

// ETLRunInfo информация о запуске ETL для дашборда
type ETLRunInfo struct {
	RunID            string    `json:"runId"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	Status           string    `json:"status"`
	FilesProcessed   int       `json:"filesProcessed"`
	RecordsExtracted int       `json:"recordsExtracted"`
	RowsLoaded       int       `json:"rowsLoaded"`
	ParseErrors      int       `json:"parseErrors"`
	RejectedRecords  int       `json:"rejectedRecords"`
	ErrorMessage     string    `json:"errorMessage,omitempty"`
	ExecutionSeconds float64   `json:"executionSeconds"`
}

// ETLRunsResponse структура ответа API для журнала запусков ETL
type ETLRunsResponse struct {
	Runs []ETLRunInfo `json:"runs"`
}

// GetETLRunsHandler возвращает историю запусков ETL за последние дни
// (параметр days, по умолчанию 30)
func GetETLRunsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := queryInt(r, "days", 30)
		if err != nil || days <= 0 {
			http.Error(w, "Неверный формат параметра days", http.StatusBadRequest)
			return
		}

		repo := models.NewMySQLETLLogRepository(db)
		history, err := repo.GetRunHistory(days)
		if err != nil {
			log.Printf("❌ Ошибка при получении истории запусков ETL: %v", err)
			http.Error(w, "Ошибка при получении истории запусков", http.StatusInternalServerError)
			return
		}

		runs := make([]ETLRunInfo, 0, len(history))
		for _, entry := range history {
			runs = append(runs, ETLRunInfo{
				RunID:            entry.RunID,
				StartTime:        entry.StartTime,
				EndTime:          entry.EndTime,
				Status:           entry.Status,
				FilesProcessed:   entry.FilesProcessed,
				RecordsExtracted: entry.RecordsExtracted,
				RowsLoaded:       entry.RowsLoaded,
				ParseErrors:      entry.ParseErrors,
				RejectedRecords:  entry.RejectedRecords,
				ErrorMessage:     entry.ErrorMessage,
				ExecutionSeconds: entry.ExecutionTimeSeconds,
			})
		}

		writeJSON(w, ETLRunsResponse{Runs: runs})
	}
}
