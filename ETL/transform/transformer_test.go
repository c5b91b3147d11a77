package transform

import (
	"database/sql"
	"testing"

	"github.com/LilVoxy/coursework_pulse/ETL/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestTransformer создает Transformer с диапазоном лет датасета
func newTestTransformer(t *testing.T) *Transformer {
	t.Helper()
	logger := newTestLogger(t)
	return NewTransformer(NewStateNormalizer(nil, logger), 2018, 2024, logger)
}

func TestTransformEmptyInput(t *testing.T) {
	transformer := newTestTransformer(t)

	// Пустые входные данные дают девять пустых таблиц, а не ошибку
	tables := transformer.Transform(&models.ExtractedData{})

	require.NotNil(t, tables)
	assert.Equal(t, 0, tables.TotalRows())
	assert.Empty(t, tables.Rejected)
}

func TestTransformNormalizesStateNames(t *testing.T) {
	transformer := newTestTransformer(t)

	data := &models.ExtractedData{
		AggregatedTransactions: []models.AggregatedTransactionRow{
			{State: "andaman-&-nicobar-islands", Year: 2022, Quarter: 1, TxnType: "Peer-to-peer payments", TxnCount: 10, TxnAmount: 1000.0},
		},
	}

	tables := transformer.Transform(data)

	require.Len(t, tables.AggregatedTransactions, 1)
	row := tables.AggregatedTransactions[0]
	assert.Equal(t, "Andaman & Nicobar Islands", row.State)
	assert.Equal(t, 2022, row.Year)
	assert.Equal(t, 1, row.Quarter)
	assert.Equal(t, int64(10), row.TxnCount)
	assert.Equal(t, 1000.0, row.TxnAmount)
	assert.Empty(t, tables.Rejected)
}

func TestTransformRejectsInvalidRows(t *testing.T) {
	transformer := newTestTransformer(t)

	data := &models.ExtractedData{
		AggregatedTransactions: []models.AggregatedTransactionRow{
			// Недопустимый квартал
			{State: "karnataka", Year: 2022, Quarter: 5, TxnType: "Recharge & bill payments", TxnCount: 1, TxnAmount: 1},
			// Год вне диапазона
			{State: "karnataka", Year: 2017, Quarter: 1, TxnType: "Recharge & bill payments", TxnCount: 1, TxnAmount: 1},
			// Отрицательное количество
			{State: "karnataka", Year: 2022, Quarter: 1, TxnType: "Recharge & bill payments", TxnCount: -5, TxnAmount: 1},
			// Корректная строка
			{State: "karnataka", Year: 2022, Quarter: 1, TxnType: "Recharge & bill payments", TxnCount: 7, TxnAmount: 700},
		},
	}

	tables := transformer.Transform(data)

	// Корректная строка сохранена, остальные отклонены с причинами
	require.Len(t, tables.AggregatedTransactions, 1)
	assert.Equal(t, int64(7), tables.AggregatedTransactions[0].TxnCount)

	require.Len(t, tables.Rejected, 3)
	for _, rejected := range tables.Rejected {
		assert.Equal(t, models.TableAggregatedTransaction, rejected.Table)
		assert.Equal(t, "karnataka", rejected.State)
		assert.NotEmpty(t, rejected.Reason)
	}
}

func TestTransformPreservesInputOrder(t *testing.T) {
	transformer := newTestTransformer(t)

	data := &models.ExtractedData{
		MapTransactions: []models.MapTransactionRow{
			{State: "kerala", Year: 2021, Quarter: 3, District: "ernakulam district", TxnCount: 2, TxnAmount: 20},
			{State: "kerala", Year: 2021, Quarter: 3, District: "thrissur district", TxnCount: 1, TxnAmount: 10},
		},
	}

	tables := transformer.Transform(data)

	require.Len(t, tables.MapTransactions, 2)
	assert.Equal(t, "ernakulam district", tables.MapTransactions[0].District)
	assert.Equal(t, "thrissur district", tables.MapTransactions[1].District)
}

func TestTransformUserRows(t *testing.T) {
	transformer := newTestTransformer(t)

	data := &models.ExtractedData{
		AggregatedUsers: []models.AggregatedUserRow{
			// Итоговая строка штата
			{
				State: "goa", Year: 2021, Quarter: 2,
				TotalRegisteredUsers: sql.NullInt64{Int64: 100000, Valid: true},
				TotalAppOpens:        sql.NullInt64{Int64: 500000, Valid: true},
			},
			// Строка бренда устройства
			{
				State: "goa", Year: 2021, Quarter: 2,
				DeviceBrand:      sql.NullString{String: "Xiaomi", Valid: true},
				DeviceUserCount:  sql.NullInt64{Int64: 25000, Valid: true},
				DevicePercentage: sql.NullFloat64{Float64: 0.25, Valid: true},
			},
			// Отрицательное число пользователей бренда - отклоняется
			{
				State: "goa", Year: 2021, Quarter: 2,
				DeviceBrand:     sql.NullString{String: "Samsung", Valid: true},
				DeviceUserCount: sql.NullInt64{Int64: -1, Valid: true},
			},
		},
	}

	tables := transformer.Transform(data)

	require.Len(t, tables.AggregatedUsers, 2)
	assert.Equal(t, "Goa", tables.AggregatedUsers[0].State)
	assert.False(t, tables.AggregatedUsers[0].DeviceBrand.Valid)
	assert.True(t, tables.AggregatedUsers[1].DeviceBrand.Valid)

	require.Len(t, tables.Rejected, 1)
	assert.Equal(t, models.TableAggregatedUser, tables.Rejected[0].Table)
}

func TestTransformChecksAllTableFamilies(t *testing.T) {
	transformer := newTestTransformer(t)

	data := &models.ExtractedData{
		AggregatedInsurance: []models.AggregatedInsuranceRow{
			{State: "bihar", Year: 2023, Quarter: 4, InsCount: 10, InsAmount: 10000},
		},
		MapUsers: []models.MapUserRow{
			{State: "bihar", Year: 2023, Quarter: 4, District: "patna district", RegisteredUsers: 100, AppOpens: -1},
		},
		TopTransactions: []models.TopTransactionRow{
			{ParentState: "bihar", Year: 2023, Quarter: 4, EntityType: models.EntityDistrict, EntityName: "patna district", TxnCount: 5, TxnAmount: 50},
		},
		TopUsers: []models.TopUserRow{
			{ParentState: "bihar", Year: 2023, Quarter: 4, EntityType: models.EntityPincode, EntityName: "800001", RegisteredUsers: 42},
		},
	}

	tables := transformer.Transform(data)

	assert.Len(t, tables.AggregatedInsurance, 1)
	assert.Len(t, tables.TopTransactions, 1)
	assert.Len(t, tables.TopUsers, 1)
	assert.Equal(t, "Bihar", tables.TopUsers[0].ParentState)

	// Отрицательное app_opens в map_user отклоняется
	assert.Empty(t, tables.MapUsers)
	require.Len(t, tables.Rejected, 1)
	assert.Equal(t, models.TableMapUser, tables.Rejected[0].Table)
}
