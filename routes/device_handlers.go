// routes/device_handlers.go
package routes

import (
	"database/sql"
	"log"
	"net/http"
)

// DeviceBrandStat статистика по бренду устройств
type DeviceBrandStat struct {
	Brand        string  `json:"brand"`
	UserCount    int64   `json:"userCount"`
	AverageShare float64 `json:"averageShare"`
}

// DeviceBrandsResponse структура ответа API для брендов устройств
type DeviceBrandsResponse struct {
	Brands []DeviceBrandStat `json:"brands"`
}

// GetDeviceBrandsHandler возвращает распределение зарегистрированных
// пользователей по брендам устройств. Параметры year и quarter
// ограничивают выборку (данные по брендам публикуются до 2022 Q1).
func GetDeviceBrandsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `
			SELECT device_brand, SUM(device_user_count), AVG(device_percentage)
			FROM aggregated_user
			WHERE device_brand IS NOT NULL
		`
		args := []interface{}{}

		query, args, err := periodFilter(r, query, args)
		if err != nil {
			http.Error(w, "Неверный формат параметра year или quarter", http.StatusBadRequest)
			return
		}

		query += " GROUP BY device_brand ORDER BY SUM(device_user_count) DESC"

		rows, err := db.Query(query, args...)
		if err != nil {
			log.Printf("❌ Ошибка при запросе брендов устройств: %v", err)
			http.Error(w, "Ошибка при получении брендов устройств", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var brands []DeviceBrandStat
		for rows.Next() {
			var stat DeviceBrandStat
			if err := rows.Scan(&stat.Brand, &stat.UserCount, &stat.AverageShare); err != nil {
				log.Printf("❌ Ошибка при сканировании бренда: %v", err)
				continue
			}
			brands = append(brands, stat)
		}

		if err = rows.Err(); err != nil {
			log.Printf("❌ Ошибка при итерации по брендам устройств: %v", err)
			http.Error(w, "Ошибка при обработке брендов устройств", http.StatusInternalServerError)
			return
		}

		writeJSON(w, DeviceBrandsResponse{Brands: brands})
	}
}

// StateDeviceStat доминирующие бренды и вовлеченность по штату
type StateDeviceStat struct {
	State           string  `json:"state"`
	Brand           string  `json:"brand"`
	UserCount       int64   `json:"userCount"`
	RegisteredUsers int64   `json:"registeredUsers"`
	AppOpens        int64   `json:"appOpens"`
	EngagementRatio float64 `json:"engagementRatio"`
}

// DeviceStatesResponse структура ответа API для брендов по штатам
type DeviceStatesResponse struct {
	States []StateDeviceStat `json:"states"`
}

// GetDeviceStateBrandsHandler возвращает доминирующий бренд устройств
// и вовлеченность по каждому штату. Параметры state, year и quarter
// ограничивают выборку.
func GetDeviceStateBrandsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Итоговые строки (device_brand IS NULL) дают число
		// пользователей и открытий приложения по штату
		totalsQuery := `
			SELECT state, SUM(total_registered_users), SUM(total_app_opens)
			FROM aggregated_user
			WHERE total_registered_users IS NOT NULL
		`
		totalsArgs := []interface{}{}

		if state := r.URL.Query().Get("state"); state != "" {
			totalsQuery += " AND state = ?"
			totalsArgs = append(totalsArgs, state)
		}

		totalsQuery, totalsArgs, err := periodFilter(r, totalsQuery, totalsArgs)
		if err != nil {
			http.Error(w, "Неверный формат параметра year или quarter", http.StatusBadRequest)
			return
		}

		totalsQuery += " GROUP BY state ORDER BY state"

		rows, err := db.Query(totalsQuery, totalsArgs...)
		if err != nil {
			log.Printf("❌ Ошибка при запросе пользователей по штатам: %v", err)
			http.Error(w, "Ошибка при получении статистики по штатам", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var states []StateDeviceStat
		for rows.Next() {
			var stat StateDeviceStat
			if err := rows.Scan(&stat.State, &stat.RegisteredUsers, &stat.AppOpens); err != nil {
				log.Printf("❌ Ошибка при сканировании штата: %v", err)
				continue
			}

			// Среднее число открытий приложения на пользователя
			if stat.RegisteredUsers > 0 {
				stat.EngagementRatio = float64(stat.AppOpens) / float64(stat.RegisteredUsers)
			}

			states = append(states, stat)
		}

		if err = rows.Err(); err != nil {
			log.Printf("❌ Ошибка при итерации по штатам: %v", err)
			http.Error(w, "Ошибка при обработке статистики по штатам", http.StatusInternalServerError)
			return
		}

		// Доминирующий бренд каждого штата
		for i := range states {
			brand, count, err := dominantBrand(db, r, states[i].State)
			if err != nil {
				if err != sql.ErrNoRows {
					log.Printf("❌ Ошибка при запросе доминирующего бренда для %s: %v", states[i].State, err)
				}
				continue
			}
			states[i].Brand = brand
			states[i].UserCount = count
		}

		writeJSON(w, DeviceStatesResponse{States: states})
	}
}

// dominantBrand возвращает бренд с наибольшим числом пользователей в штате
func dominantBrand(db *sql.DB, r *http.Request, state string) (string, int64, error) {
	query := `
		SELECT device_brand, SUM(device_user_count)
		FROM aggregated_user
		WHERE device_brand IS NOT NULL AND state = ?
	`
	args := []interface{}{state}

	query, args, err := periodFilter(r, query, args)
	if err != nil {
		return "", 0, err
	}

	query += " GROUP BY device_brand ORDER BY SUM(device_user_count) DESC LIMIT 1"

	var brand string
	var count int64
	err = db.QueryRow(query, args...).Scan(&brand, &count)
	return brand, count, err
}
