package models

import "database/sql"

// Названия девяти целевых таблиц
const (
	TableAggregatedTransaction = "aggregated_transaction"
	TableAggregatedUser        = "aggregated_user"
	TableAggregatedInsurance   = "aggregated_insurance"
	TableMapTransaction        = "map_transaction"
	TableMapUser               = "map_user"
	TableMapInsurance          = "map_insurance"
	TableTopTransaction        = "top_transaction"
	TableTopUser               = "top_user"
	TableTopInsurance          = "top_insurance"
)

// Типы сущностей в рейтинговых (top) таблицах
const (
	EntityDistrict = "district"
	EntityPincode  = "pincode"
)

// AggregatedTransactionRow - строка таблицы aggregated_transaction
type AggregatedTransactionRow struct {
	State     string
	Year      int
	Quarter   int
	TxnType   string
	TxnCount  int64
	TxnAmount float64
}

// AggregatedUserRow - строка таблицы aggregated_user.
// Для каждой комбинации (штат, год, квартал) формируется одна итоговая
// строка с NULL-брендом и total_*, плюс по строке на каждый бренд
// устройства с NULL-итогами (в исходных данных usersByDevice может
// отсутствовать - тогда остаётся только итоговая строка).
type AggregatedUserRow struct {
	State                string
	Year                 int
	Quarter              int
	DeviceBrand          sql.NullString
	DeviceUserCount      sql.NullInt64
	DevicePercentage     sql.NullFloat64
	TotalRegisteredUsers sql.NullInt64
	TotalAppOpens        sql.NullInt64
}

// AggregatedInsuranceRow - строка таблицы aggregated_insurance
type AggregatedInsuranceRow struct {
	State     string
	Year      int
	Quarter   int
	InsCount  int64
	InsAmount float64
}

// MapTransactionRow - строка таблицы map_transaction (разбивка по округам)
type MapTransactionRow struct {
	State     string
	Year      int
	Quarter   int
	District  string
	TxnCount  int64
	TxnAmount float64
}

// MapUserRow - строка таблицы map_user
type MapUserRow struct {
	State           string
	Year            int
	Quarter         int
	District        string
	RegisteredUsers int64
	AppOpens        int64
}

// MapInsuranceRow - строка таблицы map_insurance
type MapInsuranceRow struct {
	State     string
	Year      int
	Quarter   int
	District  string
	InsCount  int64
	InsAmount float64
}

// TopTransactionRow - строка таблицы top_transaction (рейтинг округов/пин-кодов)
type TopTransactionRow struct {
	ParentState string
	Year        int
	Quarter     int
	EntityType  string
	EntityName  string
	TxnCount    int64
	TxnAmount   float64
}

// TopUserRow - строка таблицы top_user
type TopUserRow struct {
	ParentState     string
	Year            int
	Quarter         int
	EntityType      string
	EntityName      string
	RegisteredUsers int64
}

// TopInsuranceRow - строка таблицы top_insurance
type TopInsuranceRow struct {
	ParentState string
	Year        int
	Quarter     int
	EntityType  string
	EntityName  string
	InsCount    int64
	InsAmount   float64
}

// ParseError - файл, пропущенный в фазе Extract
type ParseError struct {
	Path   string
	Reason string
}

// ExtractedData содержит сырые записи, извлечённые из JSON-файлов.
// Названия штатов здесь ещё в виде каталожных слагов
// ("andaman-&-nicobar-islands") - нормализация выполняется в фазе Transform.
type ExtractedData struct {
	AggregatedTransactions []AggregatedTransactionRow
	AggregatedUsers        []AggregatedUserRow
	AggregatedInsurance    []AggregatedInsuranceRow
	MapTransactions        []MapTransactionRow
	MapUsers               []MapUserRow
	MapInsurance           []MapInsuranceRow
	TopTransactions        []TopTransactionRow
	TopUsers               []TopUserRow
	TopInsurance           []TopInsuranceRow

	// Статистика извлечения
	FilesProcessed int
	ParseErrors    []ParseError
}

// TotalRecords возвращает общее число извлечённых записей
func (d *ExtractedData) TotalRecords() int {
	return len(d.AggregatedTransactions) +
		len(d.AggregatedUsers) +
		len(d.AggregatedInsurance) +
		len(d.MapTransactions) +
		len(d.MapUsers) +
		len(d.MapInsurance) +
		len(d.TopTransactions) +
		len(d.TopUsers) +
		len(d.TopInsurance)
}

// RejectedRecord - запись, не прошедшая проверку в фазе Transform
type RejectedRecord struct {
	Table   string
	State   string
	Year    int
	Quarter int
	Reason  string
}

// PulseTables содержит девять построенных таблиц, готовых к загрузке.
// Названия штатов нормализованы, порядок строк - порядок поступления
// записей из фазы Extract.
type PulseTables struct {
	AggregatedTransactions []AggregatedTransactionRow
	AggregatedUsers        []AggregatedUserRow
	AggregatedInsurance    []AggregatedInsuranceRow
	MapTransactions        []MapTransactionRow
	MapUsers               []MapUserRow
	MapInsurance           []MapInsuranceRow
	TopTransactions        []TopTransactionRow
	TopUsers               []TopUserRow
	TopInsurance           []TopInsuranceRow

	// Отклонённые записи с причинами
	Rejected []RejectedRecord
}

// TotalRows возвращает общее число строк во всех девяти таблицах
func (t *PulseTables) TotalRows() int {
	return len(t.AggregatedTransactions) +
		len(t.AggregatedUsers) +
		len(t.AggregatedInsurance) +
		len(t.MapTransactions) +
		len(t.MapUsers) +
		len(t.MapInsurance) +
		len(t.TopTransactions) +
		len(t.TopUsers) +
		len(t.TopInsurance)
}
