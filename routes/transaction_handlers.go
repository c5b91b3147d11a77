// routes/transaction_handlers.go
package routes

import (
	"database/sql"
	"log"
	"net/http"
)

// TransactionTrendPoint точка квартальной динамики транзакций
type TransactionTrendPoint struct {
	Year      int     `json:"year"`
	Quarter   int     `json:"quarter"`
	TxnCount  int64   `json:"txnCount"`
	TxnAmount float64 `json:"txnAmount"`
}

// TransactionTrendResponse структура ответа API для динамики транзакций
type TransactionTrendResponse struct {
	Trend []TransactionTrendPoint `json:"trend"`
}

// GetTransactionTrendHandler возвращает поквартальную динамику объема
// и количества транзакций. Параметр state ограничивает выборку штатом.
func GetTransactionTrendHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `
			SELECT year, quarter, SUM(txn_count), SUM(txn_amount)
			FROM aggregated_transaction
			WHERE 1=1
		`
		args := []interface{}{}

		if state := r.URL.Query().Get("state"); state != "" {
			query += " AND state = ?"
			args = append(args, state)
		}

		query += " GROUP BY year, quarter ORDER BY year, quarter"

		rows, err := db.Query(query, args...)
		if err != nil {
			log.Printf("❌ Ошибка при запросе динамики транзакций: %v", err)
			http.Error(w, "Ошибка при получении динамики транзакций", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var trend []TransactionTrendPoint
		for rows.Next() {
			var point TransactionTrendPoint
			if err := rows.Scan(&point.Year, &point.Quarter, &point.TxnCount, &point.TxnAmount); err != nil {
				log.Printf("❌ Ошибка при сканировании точки динамики: %v", err)
				continue
			}
			trend = append(trend, point)
		}

		if err = rows.Err(); err != nil {
			log.Printf("❌ Ошибка при итерации по динамике транзакций: %v", err)
			http.Error(w, "Ошибка при обработке динамики транзакций", http.StatusInternalServerError)
			return
		}

		writeJSON(w, TransactionTrendResponse{Trend: trend})
		log.Printf("✅ Отправлена динамика транзакций: %d точек", len(trend))
	}
}

// TransactionTypeStat статистика по категории транзакций
type TransactionTypeStat struct {
	TxnType   string  `json:"txnType"`
	TxnCount  int64   `json:"txnCount"`
	TxnAmount float64 `json:"txnAmount"`
}

// TransactionTypesResponse структура ответа API для категорий транзакций
type TransactionTypesResponse struct {
	Types []TransactionTypeStat `json:"types"`
}

// GetTransactionTypesHandler возвращает распределение транзакций по
// категориям. Параметры year и quarter ограничивают выборку.
func GetTransactionTypesHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `
			SELECT txn_type, SUM(txn_count), SUM(txn_amount)
			FROM aggregated_transaction
			WHERE 1=1
		`
		args := []interface{}{}

		query, args, err := periodFilter(r, query, args)
		if err != nil {
			http.Error(w, "Неверный формат параметра year или quarter", http.StatusBadRequest)
			return
		}

		query += " GROUP BY txn_type ORDER BY SUM(txn_amount) DESC"

		rows, err := db.Query(query, args...)
		if err != nil {
			log.Printf("❌ Ошибка при запросе категорий транзакций: %v", err)
			http.Error(w, "Ошибка при получении категорий транзакций", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var types []TransactionTypeStat
		for rows.Next() {
			var stat TransactionTypeStat
			if err := rows.Scan(&stat.TxnType, &stat.TxnCount, &stat.TxnAmount); err != nil {
				log.Printf("❌ Ошибка при сканировании категории: %v", err)
				continue
			}
			types = append(types, stat)
		}

		if err = rows.Err(); err != nil {
			log.Printf("❌ Ошибка при итерации по категориям транзакций: %v", err)
			http.Error(w, "Ошибка при обработке категорий транзакций", http.StatusInternalServerError)
			return
		}

		writeJSON(w, TransactionTypesResponse{Types: types})
	}
}

// StateTransactionStat статистика транзакций по штату
type StateTransactionStat struct {
	State     string  `json:"state"`
	TxnCount  int64   `json:"txnCount"`
	TxnAmount float64 `json:"txnAmount"`
}

// TransactionStatesResponse структура ответа API для рейтинга штатов
type TransactionStatesResponse struct {
	States []StateTransactionStat `json:"states"`
}

// GetTransactionStatesHandler возвращает рейтинг штатов по объему
// транзакций. Параметры year, quarter и limit ограничивают выборку.
func GetTransactionStatesHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit", 36)
		if err != nil || limit <= 0 {
			http.Error(w, "Неверный формат параметра limit", http.StatusBadRequest)
			return
		}

		query := `
			SELECT state, SUM(txn_count), SUM(txn_amount)
			FROM aggregated_transaction
			WHERE 1=1
		`
		args := []interface{}{}

		query, args, err = periodFilter(r, query, args)
		if err != nil {
			http.Error(w, "Неверный формат параметра year или quarter", http.StatusBadRequest)
			return
		}

		query += " GROUP BY state ORDER BY SUM(txn_amount) DESC LIMIT ?"
		args = append(args, limit)

		rows, err := db.Query(query, args...)
		if err != nil {
			log.Printf("❌ Ошибка при запросе рейтинга штатов: %v", err)
			http.Error(w, "Ошибка при получении рейтинга штатов", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var states []StateTransactionStat
		for rows.Next() {
			var stat StateTransactionStat
			if err := rows.Scan(&stat.State, &stat.TxnCount, &stat.TxnAmount); err != nil {
				log.Printf("❌ Ошибка при сканировании штата: %v", err)
				continue
			}
			states = append(states, stat)
		}

		if err = rows.Err(); err != nil {
			log.Printf("❌ Ошибка при итерации по рейтингу штатов: %v", err)
			http.Error(w, "Ошибка при обработке рейтинга штатов", http.StatusInternalServerError)
			return
		}

		writeJSON(w, TransactionStatesResponse{States: states})
	}
}
