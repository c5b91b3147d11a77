// routes/market_handlers.go
package routes

import (
	"database/sql"
	"log"
	"net/http"
	"sort"
)

// MarketGrowthPoint годовой объем транзакций штата с ростом год к году
type MarketGrowthPoint struct {
	State     string  `json:"state"`
	Year      int     `json:"year"`
	TxnAmount float64 `json:"txnAmount"`
	// Рост к предыдущему году в процентах; для первого года штата - 0
	GrowthPercent float64 `json:"growthPercent"`
}

// MarketGrowthResponse структура ответа API для роста рынка
type MarketGrowthResponse struct {
	Growth []MarketGrowthPoint `json:"growth"`
}

// GetMarketGrowthHandler возвращает годовые объемы транзакций по штатам
// с ростом год к году. Параметр state ограничивает выборку штатом.
func GetMarketGrowthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `
			SELECT state, year, SUM(txn_amount)
			FROM aggregated_transaction
			WHERE 1=1
		`
		args := []interface{}{}

		if state := r.URL.Query().Get("state"); state != "" {
			query += " AND state = ?"
			args = append(args, state)
		}

		query += " GROUP BY state, year ORDER BY state, year"

		rows, err := db.Query(query, args...)
		if err != nil {
			log.Printf("❌ Ошибка при запросе роста рынка: %v", err)
			http.Error(w, "Ошибка при получении роста рынка", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var growth []MarketGrowthPoint
		for rows.Next() {
			var point MarketGrowthPoint
			if err := rows.Scan(&point.State, &point.Year, &point.TxnAmount); err != nil {
				log.Printf("❌ Ошибка при сканировании точки роста: %v", err)
				continue
			}
			growth = append(growth, point)
		}

		if err = rows.Err(); err != nil {
			log.Printf("❌ Ошибка при итерации по росту рынка: %v", err)
			http.Error(w, "Ошибка при обработке роста рынка", http.StatusInternalServerError)
			return
		}

		// Рост год к году считается по соседним годам одного штата;
		// выборка отсортирована по (state, year)
		for i := 1; i < len(growth); i++ {
			prev := growth[i-1]
			if growth[i].State == prev.State && growth[i].Year == prev.Year+1 && prev.TxnAmount > 0 {
				growth[i].GrowthPercent = (growth[i].TxnAmount - prev.TxnAmount) / prev.TxnAmount * 100
			}
		}

		writeJSON(w, MarketGrowthResponse{Growth: growth})
	}
}

// MarketSegment сегмент штата по количеству и объему транзакций
type MarketSegment struct {
	State     string  `json:"state"`
	TxnCount  int64   `json:"txnCount"`
	TxnAmount float64 `json:"txnAmount"`
	// Сегмент относительно медианы по всем штатам:
	// "High Count - High Value", "High Count - Low Value",
	// "Low Count - High Value", "Low Count - Low Value"
	Segment string `json:"segment"`
}

// MarketSegmentsResponse структура ответа API для сегментации рынка
type MarketSegmentsResponse struct {
	MedianCount  float64         `json:"medianCount"`
	MedianAmount float64         `json:"medianAmount"`
	Segments     []MarketSegment `json:"segments"`
}

// GetMarketSegmentsHandler сегментирует штаты по количеству и объему
// транзакций относительно медианных значений. Параметры year и
// quarter ограничивают выборку.
func GetMarketSegmentsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `
			SELECT state, SUM(txn_count), SUM(txn_amount)
			FROM aggregated_transaction
			WHERE 1=1
		`
		args := []interface{}{}

		query, args, err := periodFilter(r, query, args)
		if err != nil {
			http.Error(w, "Неверный формат параметра year или quarter", http.StatusBadRequest)
			return
		}

		query += " GROUP BY state ORDER BY state"

		rows, err := db.Query(query, args...)
		if err != nil {
			log.Printf("❌ Ошибка при запросе сегментации рынка: %v", err)
			http.Error(w, "Ошибка при получении сегментации рынка", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var segments []MarketSegment
		for rows.Next() {
			var segment MarketSegment
			if err := rows.Scan(&segment.State, &segment.TxnCount, &segment.TxnAmount); err != nil {
				log.Printf("❌ Ошибка при сканировании сегмента: %v", err)
				continue
			}
			segments = append(segments, segment)
		}

		if err = rows.Err(); err != nil {
			log.Printf("❌ Ошибка при итерации по сегментации рынка: %v", err)
			http.Error(w, "Ошибка при обработке сегментации рынка", http.StatusInternalServerError)
			return
		}

		medianCount := medianInt64(segments, func(s MarketSegment) int64 { return s.TxnCount })
		medianAmount := medianFloat64(segments, func(s MarketSegment) float64 { return s.TxnAmount })

		for i := range segments {
			segments[i].Segment = classifySegment(segments[i], medianCount, medianAmount)
		}

		writeJSON(w, MarketSegmentsResponse{
			MedianCount:  medianCount,
			MedianAmount: medianAmount,
			Segments:     segments,
		})
	}
}

// classifySegment относит штат к одному из четырех сегментов
func classifySegment(s MarketSegment, medianCount, medianAmount float64) string {
	countLabel := "Low Count"
	if float64(s.TxnCount) >= medianCount {
		countLabel = "High Count"
	}

	valueLabel := "Low Value"
	if s.TxnAmount >= medianAmount {
		valueLabel = "High Value"
	}

	return countLabel + " - " + valueLabel
}

// medianInt64 медиана целочисленного показателя по сегментам
func medianInt64(segments []MarketSegment, value func(MarketSegment) int64) float64 {
	if len(segments) == 0 {
		return 0
	}

	values := make([]int64, len(segments))
	for i, s := range segments {
		values[i] = value(s)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	mid := len(values) / 2
	if len(values)%2 == 1 {
		return float64(values[mid])
	}
	return float64(values[mid-1]+values[mid]) / 2
}

// medianFloat64 медиана вещественного показателя по сегментам
func medianFloat64(segments []MarketSegment, value func(MarketSegment) float64) float64 {
	if len(segments) == 0 {
		return 0
	}

	values := make([]float64, len(segments))
	for i, s := range segments {
		values[i] = value(s)
	}
	sort.Float64s(values)

	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}
