// routes/helpers.go
package routes

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
)

// writeJSON кодирует ответ в JSON и отправляет его клиенту
func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("❌ Ошибка при кодировании JSON: %v", err)
		http.Error(w, "Ошибка при формировании ответа", http.StatusInternalServerError)
	}
}

// queryInt читает целочисленный параметр запроса; при отсутствии
// возвращает значение по умолчанию, при неверном формате - ошибку
func queryInt(r *http.Request, name string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}

	return value, nil
}

// periodFilter добавляет к запросу условия по году и кварталу, если
// параметры year и quarter переданы. Возвращает дополненный SQL и аргументы.
func periodFilter(r *http.Request, query string, args []interface{}) (string, []interface{}, error) {
	year, err := queryInt(r, "year", 0)
	if err != nil {
		return "", nil, err
	}

	quarter, err := queryInt(r, "quarter", 0)
	if err != nil {
		return "", nil, err
	}

	if year > 0 {
		query += " AND year = ?"
		args = append(args, year)
	}

	if quarter > 0 {
		query += " AND quarter = ?"
		args = append(args, quarter)
	}

	return query, args, nil
}
