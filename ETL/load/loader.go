package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/coursework_pulse/ETL/models"
	"github.com/LilVoxy/coursework_pulse/ETL/utils"
)

// Loader - интерфейс загрузки построенных таблиц в хранилище
type Loader interface {
	// LoadAggregatedTransactions загружает таблицу aggregated_transaction
	LoadAggregatedTransactions(rows []models.AggregatedTransactionRow) error

	// LoadAggregatedUsers загружает таблицу aggregated_user
	LoadAggregatedUsers(rows []models.AggregatedUserRow) error

	// LoadAggregatedInsurance загружает таблицу aggregated_insurance
	LoadAggregatedInsurance(rows []models.AggregatedInsuranceRow) error

	// LoadMapTransactions загружает таблицу map_transaction
	LoadMapTransactions(rows []models.MapTransactionRow) error

	// LoadMapUsers загружает таблицу map_user
	LoadMapUsers(rows []models.MapUserRow) error

	// LoadMapInsurance загружает таблицу map_insurance
	LoadMapInsurance(rows []models.MapInsuranceRow) error

	// LoadTopTransactions загружает таблицу top_transaction
	LoadTopTransactions(rows []models.TopTransactionRow) error

	// LoadTopUsers загружает таблицу top_user
	LoadTopUsers(rows []models.TopUserRow) error

	// LoadTopInsurance загружает таблицу top_insurance
	LoadTopInsurance(rows []models.TopInsuranceRow) error
}

// MySQLLoader реализация Loader для MySQL.
// Каждая таблица загружается в собственной транзакции с семантикой
// replace-on-run: прежнее содержимое удаляется, затем вставляются
// строки текущего запуска. Повторный запуск на тех же данных даёт
// идентичное содержимое таблиц.
type MySQLLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger
}

// NewMySQLLoader создает новый экземпляр MySQLLoader
func NewMySQLLoader(db *sql.DB, logger *utils.ETLLogger) *MySQLLoader {
	return &MySQLLoader{
		db:     db,
		logger: logger,
	}
}

// replaceRows очищает таблицу и вставляет строки в одной транзакции
func (l *MySQLLoader) replaceRows(table, insertSQL string, count int, args func(i int) []interface{}) error {
	startTime := time.Now()
	l.logger.Info("Загрузка таблицы %s (строк: %d)...", table, count)

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	// Очищаем таблицу от данных предыдущего запуска
	if _, err := tx.Exec("DELETE FROM " + table); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка очистки таблицы: %w", err)
	}

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при подготовке запроса: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < count; i++ {
		if _, err := stmt.Exec(args(i)...); err != nil {
			tx.Rollback()
			return fmt.Errorf("ошибка вставки строки %d: %w", i, err)
		}

		// Логируем прогресс каждые 10000 строк
		if (i+1)%10000 == 0 {
			l.logger.Debug("Загружено %d из %d строк в %s...", i+1, count, table)
		}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	l.logger.Info("Таблица %s загружена. Длительность: %v", table, time.Since(startTime))
	return nil
}

// LoadAggregatedTransactions загружает таблицу aggregated_transaction
func (l *MySQLLoader) LoadAggregatedTransactions(rows []models.AggregatedTransactionRow) error {
	insertSQL := `
		INSERT INTO aggregated_transaction
		(state, year, quarter, txn_type, txn_count, txn_amount)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	return l.replaceRows(models.TableAggregatedTransaction, insertSQL, len(rows), func(i int) []interface{} {
		r := rows[i]
		return []interface{}{r.State, r.Year, r.Quarter, r.TxnType, r.TxnCount, r.TxnAmount}
	})
}

// LoadAggregatedUsers загружает таблицу aggregated_user
func (l *MySQLLoader) LoadAggregatedUsers(rows []models.AggregatedUserRow) error {
	insertSQL := `
		INSERT INTO aggregated_user
		(state, year, quarter, device_brand, device_user_count, device_percentage,
		total_registered_users, total_app_opens)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	return l.replaceRows(models.TableAggregatedUser, insertSQL, len(rows), func(i int) []interface{} {
		r := rows[i]
		return []interface{}{r.State, r.Year, r.Quarter, r.DeviceBrand, r.DeviceUserCount,
			r.DevicePercentage, r.TotalRegisteredUsers, r.TotalAppOpens}
	})
}

// LoadAggregatedInsurance загружает таблицу aggregated_insurance
func (l *MySQLLoader) LoadAggregatedInsurance(rows []models.AggregatedInsuranceRow) error {
	insertSQL := `
		INSERT INTO aggregated_insurance
		(state, year, quarter, ins_count, ins_amount)
		VALUES (?, ?, ?, ?, ?)
	`
	return l.replaceRows(models.TableAggregatedInsurance, insertSQL, len(rows), func(i int) []interface{} {
		r := rows[i]
		return []interface{}{r.State, r.Year, r.Quarter, r.InsCount, r.InsAmount}
	})
}

// LoadMapTransactions загружает таблицу map_transaction
func (l *MySQLLoader) LoadMapTransactions(rows []models.MapTransactionRow) error {
	insertSQL := `
		INSERT INTO map_transaction
		(state, year, quarter, district, txn_count, txn_amount)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	return l.replaceRows(models.TableMapTransaction, insertSQL, len(rows), func(i int) []interface{} {
		r := rows[i]
		return []interface{}{r.State, r.Year, r.Quarter, r.District, r.TxnCount, r.TxnAmount}
	})
}

// LoadMapUsers загружает таблицу map_user
func (l *MySQLLoader) LoadMapUsers(rows []models.MapUserRow) error {
	insertSQL := `
		INSERT INTO map_user
		(state, year, quarter, district, registered_users, app_opens)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	return l.replaceRows(models.TableMapUser, insertSQL, len(rows), func(i int) []interface{} {
		r := rows[i]
		return []interface{}{r.State, r.Year, r.Quarter, r.District, r.RegisteredUsers, r.AppOpens}
	})
}

// LoadMapInsurance загружает таблицу map_insurance
func (l *MySQLLoader) LoadMapInsurance(rows []models.MapInsuranceRow) error {
	insertSQL := `
		INSERT INTO map_insurance
		(state, year, quarter, district, ins_count, ins_amount)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	return l.replaceRows(models.TableMapInsurance, insertSQL, len(rows), func(i int) []interface{} {
		r := rows[i]
		return []interface{}{r.State, r.Year, r.Quarter, r.District, r.InsCount, r.InsAmount}
	})
}

// LoadTopTransactions загружает таблицу top_transaction
func (l *MySQLLoader) LoadTopTransactions(rows []models.TopTransactionRow) error {
	insertSQL := `
		INSERT INTO top_transaction
		(parent_state, year, quarter, entity_type, entity_name, txn_count, txn_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	return l.replaceRows(models.TableTopTransaction, insertSQL, len(rows), func(i int) []interface{} {
		r := rows[i]
		return []interface{}{r.ParentState, r.Year, r.Quarter, r.EntityType, r.EntityName, r.TxnCount, r.TxnAmount}
	})
}

// LoadTopUsers загружает таблицу top_user
func (l *MySQLLoader) LoadTopUsers(rows []models.TopUserRow) error {
	insertSQL := `
		INSERT INTO top_user
		(parent_state, year, quarter, entity_type, entity_name, registered_users)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	return l.replaceRows(models.TableTopUser, insertSQL, len(rows), func(i int) []interface{} {
		r := rows[i]
		return []interface{}{r.ParentState, r.Year, r.Quarter, r.EntityType, r.EntityName, r.RegisteredUsers}
	})
}

// LoadTopInsurance загружает таблицу top_insurance
func (l *MySQLLoader) LoadTopInsurance(rows []models.TopInsuranceRow) error {
	insertSQL := `
		INSERT INTO top_insurance
		(parent_state, year, quarter, entity_type, entity_name, ins_count, ins_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	return l.replaceRows(models.TableTopInsurance, insertSQL, len(rows), func(i int) []interface{} {
		r := rows[i]
		return []interface{}{r.ParentState, r.Year, r.Quarter, r.EntityType, r.EntityName, r.InsCount, r.InsAmount}
	})
}
