package extractors

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/LilVoxy/coursework_pulse/ETL/models"
	"github.com/LilVoxy/coursework_pulse/ETL/utils"
)

// AggregatedExtractor разбирает документы категории aggregated
// (сводные показатели уровня штата за квартал)
type AggregatedExtractor struct {
	logger *utils.ETLLogger
}

// NewAggregatedExtractor создает новый экземпляр AggregatedExtractor
func NewAggregatedExtractor(logger *utils.ETLLogger) *AggregatedExtractor {
	return &AggregatedExtractor{
		logger: logger,
	}
}

// ParseTransaction разбирает документ aggregated/transaction: по записи
// на каждый тип платежа (Recharge & bill payments, Peer-to-peer payments...)
func (a *AggregatedExtractor) ParseTransaction(raw []byte, state string, year, quarter int, out *models.ExtractedData) error {
	var doc models.AggregatedTxnDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("некорректный JSON: %v", err)
	}

	if doc.Data.TransactionData == nil {
		return fmt.Errorf("отсутствует ключ data.transactionData")
	}

	for _, td := range doc.Data.TransactionData {
		count, amount := totalInstrument(td.PaymentInstruments)
		out.AggregatedTransactions = append(out.AggregatedTransactions, models.AggregatedTransactionRow{
			State:     state,
			Year:      year,
			Quarter:   quarter,
			TxnType:   td.Name,
			TxnCount:  count,
			TxnAmount: amount,
		})
	}

	return nil
}

// ParseUser разбирает документ aggregated/user: одна итоговая запись
// (registeredUsers, appOpens) плюс по записи на каждый бренд устройства.
// usersByDevice может быть null - в датасете Pulse разбивка по брендам
// публиковалась только до 2022 Q1.
func (a *AggregatedExtractor) ParseUser(raw []byte, state string, year, quarter int, out *models.ExtractedData) error {
	var doc models.AggregatedUserDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("некорректный JSON: %v", err)
	}

	if doc.Data.Aggregated == nil {
		return fmt.Errorf("отсутствует ключ data.aggregated")
	}

	// Итоговая запись по штату
	out.AggregatedUsers = append(out.AggregatedUsers, models.AggregatedUserRow{
		State:                state,
		Year:                 year,
		Quarter:              quarter,
		TotalRegisteredUsers: sql.NullInt64{Int64: doc.Data.Aggregated.RegisteredUsers, Valid: true},
		TotalAppOpens:        sql.NullInt64{Int64: doc.Data.Aggregated.AppOpens, Valid: true},
	})

	// Записи по брендам устройств
	for _, device := range doc.Data.UsersByDevice {
		out.AggregatedUsers = append(out.AggregatedUsers, models.AggregatedUserRow{
			State:            state,
			Year:             year,
			Quarter:          quarter,
			DeviceBrand:      sql.NullString{String: device.Brand, Valid: true},
			DeviceUserCount:  sql.NullInt64{Int64: device.Count, Valid: true},
			DevicePercentage: sql.NullFloat64{Float64: device.Percentage, Valid: true},
		})
	}

	return nil
}

// ParseInsurance разбирает документ aggregated/insurance - формат совпадает
// с aggregated/transaction, но тип всегда один (Insurance)
func (a *AggregatedExtractor) ParseInsurance(raw []byte, state string, year, quarter int, out *models.ExtractedData) error {
	var doc models.AggregatedTxnDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("некорректный JSON: %v", err)
	}

	if doc.Data.TransactionData == nil {
		return fmt.Errorf("отсутствует ключ data.transactionData")
	}

	for _, td := range doc.Data.TransactionData {
		count, amount := totalInstrument(td.PaymentInstruments)
		out.AggregatedInsurance = append(out.AggregatedInsurance, models.AggregatedInsuranceRow{
			State:     state,
			Year:      year,
			Quarter:   quarter,
			InsCount:  count,
			InsAmount: amount,
		})
	}

	return nil
}

// totalInstrument возвращает count/amount инструмента типа TOTAL;
// если такого нет - первого доступного
func totalInstrument(instruments []models.PaymentInstrument) (int64, float64) {
	for _, pi := range instruments {
		if pi.Type == "TOTAL" {
			return pi.Count, pi.Amount
		}
	}

	if len(instruments) > 0 {
		return instruments[0].Count, instruments[0].Amount
	}

	return 0, 0
}
