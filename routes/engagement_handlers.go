// routes/engagement_handlers.go
package routes

import (
	"database/sql"
	"log"
	"net/http"
)

// EngagementStat вовлеченность пользователей по региону
type EngagementStat struct {
	State           string  `json:"state"`
	District        string  `json:"district,omitempty"`
	RegisteredUsers int64   `json:"registeredUsers"`
	AppOpens        int64   `json:"appOpens"`
	EngagementRatio float64 `json:"engagementRatio"`
}

// EngagementResponse структура ответа API для вовлеченности
type EngagementResponse struct {
	Regions []EngagementStat `json:"regions"`
}

// GetEngagementStatesHandler возвращает вовлеченность пользователей по
// штатам (открытия приложения на зарегистрированного пользователя).
// Параметры year и quarter ограничивают выборку.
func GetEngagementStatesHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `
			SELECT state, SUM(registered_users), SUM(app_opens)
			FROM map_user
			WHERE 1=1
		`
		args := []interface{}{}

		query, args, err := periodFilter(r, query, args)
		if err != nil {
			http.Error(w, "Неверный формат параметра year или quarter", http.StatusBadRequest)
			return
		}

		query += " GROUP BY state ORDER BY SUM(registered_users) DESC"

		regions, err := scanEngagement(db, query, args, false)
		if err != nil {
			log.Printf("❌ Ошибка при запросе вовлеченности по штатам: %v", err)
			http.Error(w, "Ошибка при получении вовлеченности по штатам", http.StatusInternalServerError)
			return
		}

		writeJSON(w, EngagementResponse{Regions: regions})
	}
}

// GetEngagementDistrictsHandler возвращает вовлеченность пользователей
// по округам. Параметры state, year, quarter и limit ограничивают выборку.
func GetEngagementDistrictsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit", 20)
		if err != nil || limit <= 0 {
			http.Error(w, "Неверный формат параметра limit", http.StatusBadRequest)
			return
		}

		query := `
			SELECT state, district, SUM(registered_users), SUM(app_opens)
			FROM map_user
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

		query += " GROUP BY state, district ORDER BY SUM(registered_users) DESC LIMIT ?"
		args = append(args, limit)

		regions, err := scanEngagement(db, query, args, true)
		if err != nil {
			log.Printf("❌ Ошибка при запросе вовлеченности по округам: %v", err)
			http.Error(w, "Ошибка при получении вовлеченности по округам", http.StatusInternalServerError)
			return
		}

		writeJSON(w, EngagementResponse{Regions: regions})
	}
}

// scanEngagement выполняет запрос вовлеченности и считает отношение
// открытий приложения к числу пользователей
func scanEngagement(db *sql.DB, query string, args []interface{}, withDistrict bool) ([]EngagementStat, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regions []EngagementStat
	for rows.Next() {
		var stat EngagementStat

		if withDistrict {
			err = rows.Scan(&stat.State, &stat.District, &stat.RegisteredUsers, &stat.AppOpens)
		} else {
			err = rows.Scan(&stat.State, &stat.RegisteredUsers, &stat.AppOpens)
		}
		if err != nil {
			return nil, err
		}

		if stat.RegisteredUsers > 0 {
			stat.EngagementRatio = float64(stat.AppOpens) / float64(stat.RegisteredUsers)
		}

		regions = append(regions, stat)
	}

	return regions, rows.Err()
}

// PincodeStat зарегистрированные пользователи по пин-коду
type PincodeStat struct {
	ParentState     string `json:"parentState"`
	Pincode         string `json:"pincode"`
	RegisteredUsers int64  `json:"registeredUsers"`
}

// PincodesResponse структура ответа API для пин-кодов
type PincodesResponse struct {
	Pincodes []PincodeStat `json:"pincodes"`
}

// GetTopPincodesHandler возвращает пин-коды с наибольшим числом
// зарегистрированных пользователей. Параметры state, year, quarter
// и limit ограничивают выборку.
func GetTopPincodesHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit", 10)
		if err != nil || limit <= 0 {
			http.Error(w, "Неверный формат параметра limit", http.StatusBadRequest)
			return
		}

		query := `
			SELECT parent_state, entity_name, SUM(registered_users)
			FROM top_user
			WHERE entity_type = 'pincode'
		`
		args := []interface{}{}

		if state := r.URL.Query().Get("state"); state != "" {
			query += " AND parent_state = ?"
			args = append(args, state)
		}

		query, args, err = periodFilter(r, query, args)
		if err != nil {
			http.Error(w, "Неверный формат параметра year или quarter", http.StatusBadRequest)
			return
		}

		query += " GROUP BY parent_state, entity_name ORDER BY SUM(registered_users) DESC LIMIT ?"
		args = append(args, limit)

		rows, err := db.Query(query, args...)
		if err != nil {
			log.Printf("❌ Ошибка при запросе пин-кодов: %v", err)
			http.Error(w, "Ошибка при получении пин-кодов", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var pincodes []PincodeStat
		for rows.Next() {
			var stat PincodeStat
			if err := rows.Scan(&stat.ParentState, &stat.Pincode, &stat.RegisteredUsers); err != nil {
				log.Printf("❌ Ошибка при сканировании пин-кода: %v", err)
				continue
			}
			pincodes = append(pincodes, stat)
		}

		if err = rows.Err(); err != nil {
			log.Printf("❌ Ошибка при итерации по пин-кодам: %v", err)
			http.Error(w, "Ошибка при обработке пин-кодов", http.StatusInternalServerError)
			return
		}

		writeJSON(w, PincodesResponse{Pincodes: pincodes})
	}
}
