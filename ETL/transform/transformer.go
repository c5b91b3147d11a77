package transform

import (
	"fmt"
	"time"

	"github.com/LilVoxy/coursework_pulse/ETL/models"
	"github.com/LilVoxy/coursework_pulse/ETL/utils"
)

// Transformer строит из извлечённых записей девять таблиц:
// нормализует названия штатов, проверяет инварианты строк и
// раскладывает записи по таблицам в порядке поступления
type Transformer struct {
	logger     *utils.ETLLogger
	normalizer *StateNormalizer
	minYear    int
	maxYear    int
}

// NewTransformer создает новый экземпляр Transformer
func NewTransformer(normalizer *StateNormalizer, minYear, maxYear int, logger *utils.ETLLogger) *Transformer {
	return &Transformer{
		logger:     logger,
		normalizer: normalizer,
		minYear:    minYear,
		maxYear:    maxYear,
	}
}

// Transform выполняет фазу построения таблиц.
// Пустые входные данные дают девять пустых таблиц - это не ошибка.
// Дедупликация не выполняется: повторы в источнике дают повторы строк.
func (t *Transformer) Transform(data *models.ExtractedData) *models.PulseTables {
	startTime := time.Now()
	t.logger.Info("Начало фазы Transform (Построение таблиц)")

	tables := &models.PulseTables{}

	for _, row := range data.AggregatedTransactions {
		if reason := t.checkRow(row.Year, row.Quarter, row.TxnCount, row.TxnAmount); reason != "" {
			t.reject(tables, models.TableAggregatedTransaction, row.State, row.Year, row.Quarter, reason)
			continue
		}
		row.State = t.normalizer.Normalize(row.State)
		tables.AggregatedTransactions = append(tables.AggregatedTransactions, row)
	}

	for _, row := range data.AggregatedUsers {
		if reason := t.checkUserRow(row); reason != "" {
			t.reject(tables, models.TableAggregatedUser, row.State, row.Year, row.Quarter, reason)
			continue
		}
		row.State = t.normalizer.Normalize(row.State)
		tables.AggregatedUsers = append(tables.AggregatedUsers, row)
	}

	for _, row := range data.AggregatedInsurance {
		if reason := t.checkRow(row.Year, row.Quarter, row.InsCount, row.InsAmount); reason != "" {
			t.reject(tables, models.TableAggregatedInsurance, row.State, row.Year, row.Quarter, reason)
			continue
		}
		row.State = t.normalizer.Normalize(row.State)
		tables.AggregatedInsurance = append(tables.AggregatedInsurance, row)
	}

	for _, row := range data.MapTransactions {
		if reason := t.checkRow(row.Year, row.Quarter, row.TxnCount, row.TxnAmount); reason != "" {
			t.reject(tables, models.TableMapTransaction, row.State, row.Year, row.Quarter, reason)
			continue
		}
		row.State = t.normalizer.Normalize(row.State)
		tables.MapTransactions = append(tables.MapTransactions, row)
	}

	for _, row := range data.MapUsers {
		reason := t.checkRow(row.Year, row.Quarter, row.RegisteredUsers, 0)
		if reason == "" && row.AppOpens < 0 {
			reason = fmt.Sprintf("отрицательное значение app_opens: %d", row.AppOpens)
		}
		if reason != "" {
			t.reject(tables, models.TableMapUser, row.State, row.Year, row.Quarter, reason)
			continue
		}
		row.State = t.normalizer.Normalize(row.State)
		tables.MapUsers = append(tables.MapUsers, row)
	}

	for _, row := range data.MapInsurance {
		if reason := t.checkRow(row.Year, row.Quarter, row.InsCount, row.InsAmount); reason != "" {
			t.reject(tables, models.TableMapInsurance, row.State, row.Year, row.Quarter, reason)
			continue
		}
		row.State = t.normalizer.Normalize(row.State)
		tables.MapInsurance = append(tables.MapInsurance, row)
	}

	for _, row := range data.TopTransactions {
		if reason := t.checkRow(row.Year, row.Quarter, row.TxnCount, row.TxnAmount); reason != "" {
			t.reject(tables, models.TableTopTransaction, row.ParentState, row.Year, row.Quarter, reason)
			continue
		}
		row.ParentState = t.normalizer.Normalize(row.ParentState)
		tables.TopTransactions = append(tables.TopTransactions, row)
	}

	for _, row := range data.TopUsers {
		if reason := t.checkRow(row.Year, row.Quarter, row.RegisteredUsers, 0); reason != "" {
			t.reject(tables, models.TableTopUser, row.ParentState, row.Year, row.Quarter, reason)
			continue
		}
		row.ParentState = t.normalizer.Normalize(row.ParentState)
		tables.TopUsers = append(tables.TopUsers, row)
	}

	for _, row := range data.TopInsurance {
		if reason := t.checkRow(row.Year, row.Quarter, row.InsCount, row.InsAmount); reason != "" {
			t.reject(tables, models.TableTopInsurance, row.ParentState, row.Year, row.Quarter, reason)
			continue
		}
		row.ParentState = t.normalizer.Normalize(row.ParentState)
		tables.TopInsurance = append(tables.TopInsurance, row)
	}

	if len(tables.Rejected) > 0 {
		t.logger.Warn("Отклонено записей при проверке: %d", len(tables.Rejected))
	}

	t.logger.Info("Фаза Transform завершена. Построено строк: %d. Длительность: %v",
		tables.TotalRows(), time.Since(startTime))

	return tables
}

// checkRow проверяет общие инварианты строки:
// квартал 1..4, год в допустимом диапазоне, count и amount неотрицательны
func (t *Transformer) checkRow(year, quarter int, count int64, amount float64) string {
	if quarter < 1 || quarter > 4 {
		return fmt.Sprintf("недопустимый квартал: %d", quarter)
	}
	if year < t.minYear || year > t.maxYear {
		return fmt.Sprintf("год %d вне диапазона %d-%d", year, t.minYear, t.maxYear)
	}
	if count < 0 {
		return fmt.Sprintf("отрицательное значение count: %d", count)
	}
	if amount < 0 {
		return fmt.Sprintf("отрицательное значение amount: %f", amount)
	}
	return ""
}

// checkUserRow проверяет строку aggregated_user с учётом NULL-полей
func (t *Transformer) checkUserRow(row models.AggregatedUserRow) string {
	if row.Quarter < 1 || row.Quarter > 4 {
		return fmt.Sprintf("недопустимый квартал: %d", row.Quarter)
	}
	if row.Year < t.minYear || row.Year > t.maxYear {
		return fmt.Sprintf("год %d вне диапазона %d-%d", row.Year, t.minYear, t.maxYear)
	}
	if row.DeviceUserCount.Valid && row.DeviceUserCount.Int64 < 0 {
		return fmt.Sprintf("отрицательное значение device_user_count: %d", row.DeviceUserCount.Int64)
	}
	if row.TotalRegisteredUsers.Valid && row.TotalRegisteredUsers.Int64 < 0 {
		return fmt.Sprintf("отрицательное значение total_registered_users: %d", row.TotalRegisteredUsers.Int64)
	}
	if row.TotalAppOpens.Valid && row.TotalAppOpens.Int64 < 0 {
		return fmt.Sprintf("отрицательное значение total_app_opens: %d", row.TotalAppOpens.Int64)
	}
	return ""
}

// reject фиксирует отклонённую запись
func (t *Transformer) reject(tables *models.PulseTables, table, state string, year, quarter int, reason string) {
	t.logger.Warn("Запись отклонена (%s, штат %s, %d Q%d): %s", table, state, year, quarter, reason)
	tables.Rejected = append(tables.Rejected, models.RejectedRecord{
		Table:   table,
		State:   state,
		Year:    year,
		Quarter: quarter,
		Reason:  reason,
	})
}
