package load

import (
	"errors"
	"os"
	"testing"

	"github.com/LilVoxy/coursework_pulse/ETL/models"
	"github.com/LilVoxy/coursework_pulse/ETL/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp переводит тест во временный каталог и восстанавливает рабочий каталог по завершении
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
}

// newTestLogger создает логгер, пишущий лог-файл во временный каталог
func newTestLogger(t *testing.T) *utils.ETLLogger {
	t.Helper()
	chdirTemp(t)
	return utils.NewETLLogger(false)
}

// fakeLoader фиксирует вызовы и возвращает заданные ошибки по таблицам
type fakeLoader struct {
	called   []string
	failures map[string]error
}

func newFakeLoader(failures map[string]error) *fakeLoader {
	return &fakeLoader{failures: failures}
}

func (f *fakeLoader) load(table string) error {
	f.called = append(f.called, table)
	return f.failures[table]
}

func (f *fakeLoader) LoadAggregatedTransactions(rows []models.AggregatedTransactionRow) error {
	return f.load(models.TableAggregatedTransaction)
}

func (f *fakeLoader) LoadAggregatedUsers(rows []models.AggregatedUserRow) error {
	return f.load(models.TableAggregatedUser)
}

func (f *fakeLoader) LoadAggregatedInsurance(rows []models.AggregatedInsuranceRow) error {
	return f.load(models.TableAggregatedInsurance)
}

func (f *fakeLoader) LoadMapTransactions(rows []models.MapTransactionRow) error {
	return f.load(models.TableMapTransaction)
}

func (f *fakeLoader) LoadMapUsers(rows []models.MapUserRow) error {
	return f.load(models.TableMapUser)
}

func (f *fakeLoader) LoadMapInsurance(rows []models.MapInsuranceRow) error {
	return f.load(models.TableMapInsurance)
}

func (f *fakeLoader) LoadTopTransactions(rows []models.TopTransactionRow) error {
	return f.load(models.TableTopTransaction)
}

func (f *fakeLoader) LoadTopUsers(rows []models.TopUserRow) error {
	return f.load(models.TableTopUser)
}

func (f *fakeLoader) LoadTopInsurance(rows []models.TopInsuranceRow) error {
	return f.load(models.TableTopInsurance)
}

// allTables - ожидаемый порядок загрузки
var allTables = []string{
	models.TableAggregatedTransaction,
	models.TableAggregatedUser,
	models.TableAggregatedInsurance,
	models.TableMapTransaction,
	models.TableMapUser,
	models.TableMapInsurance,
	models.TableTopTransaction,
	models.TableTopUser,
	models.TableTopInsurance,
}

func TestLoadAllTablesSucceed(t *testing.T) {
	fake := newFakeLoader(nil)
	manager := &LoadManager{logger: newTestLogger(t), loader: fake}

	failures := manager.Load(&models.PulseTables{})

	assert.Empty(t, failures)
	assert.Equal(t, allTables, fake.called)
}

func TestLoadContinuesAfterTableFailure(t *testing.T) {
	loadErr := errors.New("ошибка соединения")
	fake := newFakeLoader(map[string]error{
		models.TableMapUser: loadErr,
	})
	manager := &LoadManager{logger: newTestLogger(t), loader: fake}

	failures := manager.Load(&models.PulseTables{})

	// Ошибка одной таблицы не прерывает загрузку остальных
	assert.Equal(t, allTables, fake.called)

	require.Len(t, failures, 1)
	assert.Equal(t, models.TableMapUser, failures[0].Table)
	assert.ErrorIs(t, failures[0], loadErr)
	assert.Contains(t, failures[0].Error(), models.TableMapUser)
}

func TestLoadCollectsMultipleFailures(t *testing.T) {
	fake := newFakeLoader(map[string]error{
		models.TableAggregatedUser: errors.New("ошибка 1"),
		models.TableTopInsurance:   errors.New("ошибка 2"),
	})
	manager := &LoadManager{logger: newTestLogger(t), loader: fake}

	failures := manager.Load(&models.PulseTables{})

	require.Len(t, failures, 2)
	assert.Equal(t,
		[]string{models.TableAggregatedUser, models.TableTopInsurance},
		FailedTables(failures))
}

func TestFailedTablesEmpty(t *testing.T) {
	assert.Empty(t, FailedTables(nil))
}
