package extractors

import (
	"os"
	"path/filepath"
	"testing"

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

// writeSourceFile записывает фикстуру в дерево данных Pulse
func writeSourceFile(t *testing.T, root, relPath, content string) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const aggregatedTxnDoc = `{
	"data": {
		"from": 1640975400000,
		"to": 1648751400000,
		"transactionData": [
			{
				"name": "Peer-to-peer payments",
				"paymentInstruments": [
					{"type": "TOTAL", "count": 150, "amount": 250000.5}
				]
			},
			{
				"name": "Recharge & bill payments",
				"paymentInstruments": [
					{"type": "TOTAL", "count": 80, "amount": 12000.0}
				]
			}
		]
	}
}`

const mapUserDoc = `{
	"data": {
		"hoverData": {
			"bengaluru urban district": {"registeredUsers": 9000, "appOpens": 45000},
			"mysuru district": {"registeredUsers": 3000, "appOpens": 12000}
		}
	}
}`

func TestExtractAggregatedTransactions(t *testing.T) {
	logger := newTestLogger(t)
	root := t.TempDir()

	writeSourceFile(t, root,
		"aggregated/transaction/country/india/state/karnataka/2022/1.json",
		aggregatedTxnDoc)

	extractor := NewExtractor(root, nil, logger)
	data, err := extractor.Extract()

	require.NoError(t, err)
	assert.Equal(t, 1, data.FilesProcessed)
	assert.Empty(t, data.ParseErrors)

	// По записи на каждый тип платежа; слаг штата ещё не нормализован
	require.Len(t, data.AggregatedTransactions, 2)
	assert.Equal(t, "karnataka", data.AggregatedTransactions[0].State)
	assert.Equal(t, 2022, data.AggregatedTransactions[0].Year)
	assert.Equal(t, 1, data.AggregatedTransactions[0].Quarter)
	assert.Equal(t, "Peer-to-peer payments", data.AggregatedTransactions[0].TxnType)
	assert.Equal(t, int64(150), data.AggregatedTransactions[0].TxnCount)
	assert.Equal(t, 250000.5, data.AggregatedTransactions[0].TxnAmount)
}

func TestExtractMapUsersSortedByDistrict(t *testing.T) {
	logger := newTestLogger(t)
	root := t.TempDir()

	writeSourceFile(t, root,
		"map/user/hover/country/india/state/karnataka/2021/4.json",
		mapUserDoc)

	extractor := NewExtractor(root, nil, logger)
	data, err := extractor.Extract()

	require.NoError(t, err)
	require.Len(t, data.MapUsers, 2)

	// Порядок округов детерминирован независимо от порядка ключей JSON
	assert.Equal(t, "bengaluru urban district", data.MapUsers[0].District)
	assert.Equal(t, "mysuru district", data.MapUsers[1].District)
	assert.Equal(t, int64(9000), data.MapUsers[0].RegisteredUsers)
	assert.Equal(t, int64(45000), data.MapUsers[0].AppOpens)
}

func TestExtractSkipsCorruptFile(t *testing.T) {
	logger := newTestLogger(t)
	root := t.TempDir()

	corruptPath := writeSourceFile(t, root,
		"aggregated/transaction/country/india/state/karnataka/2022/1.json",
		`{"data": {"transactionData": [`)
	writeSourceFile(t, root,
		"aggregated/transaction/country/india/state/kerala/2022/1.json",
		aggregatedTxnDoc)

	extractor := NewExtractor(root, nil, logger)
	data, err := extractor.Extract()

	// Повреждённый файл пропускается, остальные извлекаются
	require.NoError(t, err)
	assert.Equal(t, 2, data.FilesProcessed)
	require.Len(t, data.ParseErrors, 1)
	assert.Equal(t, corruptPath, data.ParseErrors[0].Path)

	require.Len(t, data.AggregatedTransactions, 2)
	assert.Equal(t, "kerala", data.AggregatedTransactions[0].State)
}

func TestExtractMissingDocumentKey(t *testing.T) {
	logger := newTestLogger(t)
	root := t.TempDir()

	// Синтаксически корректный JSON без обязательного ключа
	writeSourceFile(t, root,
		"aggregated/transaction/country/india/state/karnataka/2022/1.json",
		`{"data": {}}`)

	extractor := NewExtractor(root, nil, logger)
	data, err := extractor.Extract()

	require.NoError(t, err)
	require.Len(t, data.ParseErrors, 1)
	assert.Contains(t, data.ParseErrors[0].Reason, "transactionData")
	assert.Empty(t, data.AggregatedTransactions)
}

func TestExtractUserDocument(t *testing.T) {
	logger := newTestLogger(t)
	root := t.TempDir()

	writeSourceFile(t, root,
		"aggregated/user/country/india/state/goa/2021/2.json",
		`{
			"data": {
				"aggregated": {"registeredUsers": 100000, "appOpens": 500000},
				"usersByDevice": [
					{"brand": "Xiaomi", "count": 25000, "percentage": 0.25}
				]
			}
		}`)

	extractor := NewExtractor(root, nil, logger)
	data, err := extractor.Extract()

	require.NoError(t, err)
	assert.Empty(t, data.ParseErrors)

	// Итоговая строка штата плюс по строке на каждый бренд
	require.Len(t, data.AggregatedUsers, 2)
	assert.True(t, data.AggregatedUsers[0].TotalRegisteredUsers.Valid)
	assert.Equal(t, int64(100000), data.AggregatedUsers[0].TotalRegisteredUsers.Int64)
	assert.Equal(t, "Xiaomi", data.AggregatedUsers[1].DeviceBrand.String)
}

func TestExtractUserMissingAggregatedKey(t *testing.T) {
	logger := newTestLogger(t)
	root := t.TempDir()

	// Корректный JSON без ключа data.aggregated: файл пропускается,
	// нулевая итоговая строка не фабрикуется
	writeSourceFile(t, root,
		"aggregated/user/country/india/state/karnataka/2022/1.json",
		`{"data": {}}`)

	extractor := NewExtractor(root, nil, logger)
	data, err := extractor.Extract()

	require.NoError(t, err)
	require.Len(t, data.ParseErrors, 1)
	assert.Contains(t, data.ParseErrors[0].Reason, "aggregated")
	assert.Empty(t, data.AggregatedUsers)
}

func TestExtractEmptySourceDir(t *testing.T) {
	logger := newTestLogger(t)
	root := t.TempDir()

	// Пустой корень данных - девять комбинаций пропущены, ошибки нет
	extractor := NewExtractor(root, nil, logger)
	data, err := extractor.Extract()

	require.NoError(t, err)
	assert.Equal(t, 0, data.FilesProcessed)
	assert.Equal(t, 0, data.TotalRecords())
}

func TestExtractMissingSourceDir(t *testing.T) {
	logger := newTestLogger(t)

	extractor := NewExtractor(filepath.Join(t.TempDir(), "no-such-dir"), nil, logger)
	_, err := extractor.Extract()

	// Отсутствующий корень данных - ошибка конфигурации
	assert.Error(t, err)
}

func TestExtractIgnoresUnexpectedEntries(t *testing.T) {
	logger := newTestLogger(t)
	root := t.TempDir()

	writeSourceFile(t, root,
		"aggregated/transaction/country/india/state/karnataka/2022/1.json",
		aggregatedTxnDoc)
	// Посторонние файлы и каталоги не считаются кварталами
	writeSourceFile(t, root,
		"aggregated/transaction/country/india/state/karnataka/2022/readme.txt",
		"not a quarter")
	writeSourceFile(t, root,
		"aggregated/transaction/country/india/state/karnataka/notes/1.json",
		aggregatedTxnDoc)

	extractor := NewExtractor(root, nil, logger)
	data, err := extractor.Extract()

	require.NoError(t, err)
	assert.Equal(t, 1, data.FilesProcessed)
	assert.Len(t, data.AggregatedTransactions, 2)
}

func TestQuarantineRoundTrip(t *testing.T) {
	dir := t.TempDir()
	quarantine := NewQuarantine(dir, "run-123")
	require.NotNil(t, quarantine)

	original := []byte(`{"data": broken`)
	sourcePath := "/data/aggregated/transaction/country/india/state/karnataka/2022/1.json"

	require.NoError(t, quarantine.Save(sourcePath, original))

	restored, err := quarantine.Load(sourcePath)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestQuarantineDistinguishesSameFileNames(t *testing.T) {
	dir := t.TempDir()
	quarantine := NewQuarantine(dir, "run-123")

	// Файлы "1.json" из разных штатов не затирают друг друга
	require.NoError(t, quarantine.Save("/data/state/karnataka/2022/1.json", []byte("a")))
	require.NoError(t, quarantine.Save("/data/state/kerala/2022/1.json", []byte("b")))

	a, err := quarantine.Load("/data/state/karnataka/2022/1.json")
	require.NoError(t, err)
	b, err := quarantine.Load("/data/state/kerala/2022/1.json")
	require.NoError(t, err)

	assert.Equal(t, []byte("a"), a)
	assert.Equal(t, []byte("b"), b)
}

func TestQuarantineDisabled(t *testing.T) {
	// Пустой каталог отключает карантин
	assert.Nil(t, NewQuarantine("", "run-123"))
}

func TestExtractSendsCorruptFileToQuarantine(t *testing.T) {
	logger := newTestLogger(t)
	root := t.TempDir()
	quarantineDir := t.TempDir()

	corrupt := `{"data": {"transactionData": [`
	corruptPath := writeSourceFile(t, root,
		"aggregated/transaction/country/india/state/karnataka/2022/1.json",
		corrupt)

	quarantine := NewQuarantine(quarantineDir, "run-q")
	extractor := NewExtractor(root, quarantine, logger)

	_, err := extractor.Extract()
	require.NoError(t, err)

	restored, err := quarantine.Load(corruptPath)
	require.NoError(t, err)
	assert.Equal(t, []byte(corrupt), restored)
}
