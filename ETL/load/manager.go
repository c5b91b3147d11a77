package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/coursework_pulse/ETL/models"
	"github.com/LilVoxy/coursework_pulse/ETL/utils"
)

// LoadError - ошибка загрузки одной таблицы
type LoadError struct {
	Table string
	Err   error
}

// Error возвращает текст ошибки с названием таблицы
func (e *LoadError) Error() string {
	return fmt.Sprintf("таблица %s: %v", e.Table, e.Err)
}

// Unwrap возвращает исходную ошибку
func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadManager отвечает за управление процессом загрузки девяти таблиц
type LoadManager struct {
	db     *sql.DB
	logger *utils.ETLLogger
	loader Loader
}

// NewLoadManager создает новый экземпляр LoadManager
func NewLoadManager(db *sql.DB, logger *utils.ETLLogger) *LoadManager {
	return &LoadManager{
		db:     db,
		logger: logger,
		loader: NewMySQLLoader(db, logger),
	}
}

// EnsureSchema создает целевые таблицы, если они не существуют
func (m *LoadManager) EnsureSchema() error {
	return EnsureSchema(m.db, m.logger)
}

// Load выполняет фазу загрузки: все девять таблиц загружаются
// последовательно. Ошибка загрузки одной таблицы не прерывает
// загрузку остальных - таблицы независимы, межтабличный откат
// не выполняется. Возвращается список ошибок по таблицам
// (пустой список означает полный успех).
func (m *LoadManager) Load(tables *models.PulseTables) []*LoadError {
	startTime := time.Now()
	m.logger.Info("Начало фазы Load (Загрузка данных)")

	var failures []*LoadError

	steps := []struct {
		table string
		load  func() error
	}{
		{models.TableAggregatedTransaction, func() error { return m.loader.LoadAggregatedTransactions(tables.AggregatedTransactions) }},
		{models.TableAggregatedUser, func() error { return m.loader.LoadAggregatedUsers(tables.AggregatedUsers) }},
		{models.TableAggregatedInsurance, func() error { return m.loader.LoadAggregatedInsurance(tables.AggregatedInsurance) }},
		{models.TableMapTransaction, func() error { return m.loader.LoadMapTransactions(tables.MapTransactions) }},
		{models.TableMapUser, func() error { return m.loader.LoadMapUsers(tables.MapUsers) }},
		{models.TableMapInsurance, func() error { return m.loader.LoadMapInsurance(tables.MapInsurance) }},
		{models.TableTopTransaction, func() error { return m.loader.LoadTopTransactions(tables.TopTransactions) }},
		{models.TableTopUser, func() error { return m.loader.LoadTopUsers(tables.TopUsers) }},
		{models.TableTopInsurance, func() error { return m.loader.LoadTopInsurance(tables.TopInsurance) }},
	}

	for _, step := range steps {
		if err := step.load(); err != nil {
			m.logger.Error("Ошибка при загрузке таблицы %s: %v", step.table, err)
			failures = append(failures, &LoadError{Table: step.table, Err: err})
		}
	}

	duration := time.Since(startTime)
	if len(failures) > 0 {
		m.logger.Error("Фаза Load завершена с ошибками (%d из %d таблиц). Длительность: %v",
			len(failures), len(steps), duration)
	} else {
		m.logger.Info("Фаза Load завершена. Длительность: %v", duration)
	}

	return failures
}

// FailedTables возвращает названия таблиц из списка ошибок
func FailedTables(failures []*LoadError) []string {
	names := make([]string, 0, len(failures))
	for _, f := range failures {
		names = append(names, f.Table)
	}
	return names
}
