// database/stats.go
package database

import (
	"database/sql"
	"fmt"
)

// OverviewTotals - сводные показатели по всему датасету для главной
// страницы дашборда
type OverviewTotals struct {
	TotalTxnAmount       float64 `json:"totalTxnAmount"`
	TotalTxnCount        int64   `json:"totalTxnCount"`
	TotalRegisteredUsers int64   `json:"totalRegisteredUsers"`
	TotalInsuranceCount  int64   `json:"totalInsuranceCount"`
	TotalInsuranceAmount float64 `json:"totalInsuranceAmount"`
}

// GetOverviewTotals возвращает сводные показатели по таблицам
// aggregated_transaction, aggregated_user и aggregated_insurance
func GetOverviewTotals(db *sql.DB) (*OverviewTotals, error) {
	var totals OverviewTotals

	// Итоги по транзакциям
	err := db.QueryRow(`
		SELECT
			IFNULL(SUM(txn_amount), 0),
			IFNULL(SUM(txn_count), 0)
		FROM aggregated_transaction
	`).Scan(&totals.TotalTxnAmount, &totals.TotalTxnCount)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении итогов по транзакциям: %w", err)
	}

	// Итоги по пользователям (учитываются только итоговые строки,
	// строки брендов содержат NULL в total_registered_users)
	err = db.QueryRow(`
		SELECT IFNULL(SUM(total_registered_users), 0)
		FROM aggregated_user
		WHERE total_registered_users IS NOT NULL
	`).Scan(&totals.TotalRegisteredUsers)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении итогов по пользователям: %w", err)
	}

	// Итоги по страхованию
	err = db.QueryRow(`
		SELECT
			IFNULL(SUM(ins_count), 0),
			IFNULL(SUM(ins_amount), 0)
		FROM aggregated_insurance
	`).Scan(&totals.TotalInsuranceCount, &totals.TotalInsuranceAmount)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении итогов по страхованию: %w", err)
	}

	return &totals, nil
}
