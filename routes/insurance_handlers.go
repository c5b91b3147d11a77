// routes/insurance_handlers.go
package routes

import (
	"database/sql"
	"log"
	"net/http"
)

// InsuranceTrendPoint точка квартальной динамики страхования
type InsuranceTrendPoint struct {
	Year      int     `json:"year"`
	Quarter   int     `json:"quarter"`
	InsCount  int64   `json:"insCount"`
	InsAmount float64 `json:"insAmount"`
}

// InsuranceTrendResponse структура ответа API для динамики страхования
type InsuranceTrendResponse struct {
	Trend []InsuranceTrendPoint `json:"trend"`
}

// GetInsuranceTrendHandler возвращает поквартальную динамику страховых
// полисов. Параметр state ограничивает выборку штатом.
func GetInsuranceTrendHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `
			SELECT year, quarter, SUM(ins_count), SUM(ins_amount)
			FROM aggregated_insurance
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
			log.Printf("❌ Ошибка при запросе динамики страхования: %v", err)
			http.Error(w, "Ошибка при получении динамики страхования", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var trend []InsuranceTrendPoint
		for rows.Next() {
			var point InsuranceTrendPoint
			if err := rows.Scan(&point.Year, &point.Quarter, &point.InsCount, &point.InsAmount); err != nil {
				log.Printf("❌ Ошибка при сканировании точки динамики: %v", err)
				continue
			}
			trend = append(trend, point)
		}

		if err = rows.Err(); err != nil {
			log.Printf("❌ Ошибка при итерации по динамике страхования: %v", err)
			http.Error(w, "Ошибка при обработке динамики страхования", http.StatusInternalServerError)
			return
		}

		writeJSON(w, InsuranceTrendResponse{Trend: trend})
	}
}

// StateInsuranceStat статистика страхования по штату
type StateInsuranceStat struct {
	State     string  `json:"state"`
	InsCount  int64   `json:"insCount"`
	InsAmount float64 `json:"insAmount"`
}

// InsuranceStatesResponse структура ответа API для страхования по штатам
type InsuranceStatesResponse struct {
	States []StateInsuranceStat `json:"states"`
}

// GetInsuranceStatesHandler возвращает рейтинг штатов по объему
// страховых премий. Параметры year и quarter ограничивают выборку.
func GetInsuranceStatesHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `
			SELECT state, SUM(ins_count), SUM(ins_amount)
			FROM aggregated_insurance
			WHERE 1=1
		`
		args := []interface{}{}

		query, args, err := periodFilter(r, query, args)
		if err != nil {
			http.Error(w, "Неверный формат параметра year или quarter", http.StatusBadRequest)
			return
		}

		query += " GROUP BY state ORDER BY SUM(ins_amount) DESC"

		rows, err := db.Query(query, args...)
		if err != nil {
			log.Printf("❌ Ошибка при запросе страхования по штатам: %v", err)
			http.Error(w, "Ошибка при получении страхования по штатам", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var states []StateInsuranceStat
		for rows.Next() {
			var stat StateInsuranceStat
			if err := rows.Scan(&stat.State, &stat.InsCount, &stat.InsAmount); err != nil {
				log.Printf("❌ Ошибка при сканировании штата: %v", err)
				continue
			}
			states = append(states, stat)
		}

		if err = rows.Err(); err != nil {
			log.Printf("❌ Ошибка при итерации по страхованию штатов: %v", err)
			http.Error(w, "Ошибка при обработке страхования по штатам", http.StatusInternalServerError)
			return
		}

		writeJSON(w, InsuranceStatesResponse{States: states})
	}
}

// DistrictInsuranceStat статистика страхования по округу
type DistrictInsuranceStat struct {
	State     string  `json:"state"`
	District  string  `json:"district"`
	InsCount  int64   `json:"insCount"`
	InsAmount float64 `json:"insAmount"`
}

// InsuranceDistrictsResponse структура ответа API для страхования по округам
type InsuranceDistrictsResponse struct {
	Districts []DistrictInsuranceStat `json:"districts"`
}

// GetInsuranceDistrictsHandler возвращает рейтинг округов по объему
// страховых премий. Параметры state, year, quarter и limit ограничивают выборку.
func GetInsuranceDistrictsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit", 20)
		if err != nil || limit <= 0 {
			http.Error(w, "Неверный формат параметра limit", http.StatusBadRequest)
			return
		}

		query := `
			SELECT state, district, SUM(ins_count), SUM(ins_amount)
			FROM map_insurance
			WHERE 1=1
		`
		args := []interface{}{}

		if state := r.URL.Query().Get("state"); state != "" {
			query += " AND state = ?"
			args = append(args, state)
		}

		query, args, err = periodFilter(r, query, args)
		if err != nil {
			http.Error(w, "Неверный формат параметра year или quarter", http.StatusBadRequest)
			return
		}

		query += " GROUP BY state, district ORDER BY SUM(ins_amount) DESC LIMIT ?"
		args = append(args, limit)

		rows, err := db.Query(query, args...)
		if err != nil {
			log.Printf("❌ Ошибка при запросе страхования по округам: %v", err)
			http.Error(w, "Ошибка при получении страхования по округам", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var districts []DistrictInsuranceStat
		for rows.Next() {
			var stat DistrictInsuranceStat
			if err := rows.Scan(&stat.State, &stat.District, &stat.InsCount, &stat.InsAmount); err != nil {
				log.Printf("❌ Ошибка при сканировании округа: %v", err)
				continue
			}
			districts = append(districts, stat)
		}

		if err = rows.Err(); err != nil {
			log.Printf("❌ Ошибка при итерации по округам: %v", err)
			http.Error(w, "Ошибка при обработке страхования по округам", http.StatusInternalServerError)
			return
		}

		writeJSON(w, InsuranceDistrictsResponse{Districts: districts})
	}
}
