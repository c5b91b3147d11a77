package extractors

import (
	"encoding/json"
	"fmt"

	"github.com/LilVoxy/coursework_pulse/ETL/models"
	"github.com/LilVoxy/coursework_pulse/ETL/utils"
)

// TopExtractor разбирает документы категории top
// (рейтинги округов и пин-кодов внутри штата)
type TopExtractor struct {
	logger *utils.ETLLogger
}

// NewTopExtractor создает новый экземпляр TopExtractor
func NewTopExtractor(logger *utils.ETLLogger) *TopExtractor {
	return &TopExtractor{
		logger: logger,
	}
}

// ParseTransaction разбирает документ top/transaction: записи из списков
// districts и pincodes помечаются соответствующим типом сущности
func (t *TopExtractor) ParseTransaction(raw []byte, state string, year, quarter int, out *models.ExtractedData) error {
	var doc models.TopMetricDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("некорректный JSON: %v", err)
	}

	if doc.Data.Districts == nil && doc.Data.Pincodes == nil {
		return fmt.Errorf("отсутствуют ключи data.districts и data.pincodes")
	}

	for _, entity := range doc.Data.Districts {
		out.TopTransactions = append(out.TopTransactions, topTransactionRow(state, year, quarter, models.EntityDistrict, entity))
	}

	for _, entity := range doc.Data.Pincodes {
		out.TopTransactions = append(out.TopTransactions, topTransactionRow(state, year, quarter, models.EntityPincode, entity))
	}

	return nil
}

// ParseUser разбирает документ top/user - рейтинг округов и пин-кодов
// по числу зарегистрированных пользователей
func (t *TopExtractor) ParseUser(raw []byte, state string, year, quarter int, out *models.ExtractedData) error {
	var doc models.TopUserDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("некорректный JSON: %v", err)
	}

	if doc.Data.Districts == nil && doc.Data.Pincodes == nil {
		return fmt.Errorf("отсутствуют ключи data.districts и data.pincodes")
	}

	for _, entity := range doc.Data.Districts {
		out.TopUsers = append(out.TopUsers, models.TopUserRow{
			ParentState:     state,
			Year:            year,
			Quarter:         quarter,
			EntityType:      models.EntityDistrict,
			EntityName:      entity.Name,
			RegisteredUsers: entity.RegisteredUsers,
		})
	}

	for _, entity := range doc.Data.Pincodes {
		out.TopUsers = append(out.TopUsers, models.TopUserRow{
			ParentState:     state,
			Year:            year,
			Quarter:         quarter,
			EntityType:      models.EntityPincode,
			EntityName:      entity.Name,
			RegisteredUsers: entity.RegisteredUsers,
		})
	}

	return nil
}

// ParseInsurance разбирает документ top/insurance - формат совпадает
// с top/transaction
func (t *TopExtractor) ParseInsurance(raw []byte, state string, year, quarter int, out *models.ExtractedData) error {
	var doc models.TopMetricDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("некорректный JSON: %v", err)
	}

	if doc.Data.Districts == nil && doc.Data.Pincodes == nil {
		return fmt.Errorf("отсутствуют ключи data.districts и data.pincodes")
	}

	for _, entity := range doc.Data.Districts {
		out.TopInsurance = append(out.TopInsurance, topInsuranceRow(state, year, quarter, models.EntityDistrict, entity))
	}

	for _, entity := range doc.Data.Pincodes {
		out.TopInsurance = append(out.TopInsurance, topInsuranceRow(state, year, quarter, models.EntityPincode, entity))
	}

	return nil
}

func topTransactionRow(state string, year, quarter int, entityType string, entity models.TopEntity) models.TopTransactionRow {
	return models.TopTransactionRow{
		ParentState: state,
		Year:        year,
		Quarter:     quarter,
		EntityType:  entityType,
		EntityName:  entity.EntityName,
		TxnCount:    entity.Metric.Count,
		TxnAmount:   entity.Metric.Amount,
	}
}

func topInsuranceRow(state string, year, quarter int, entityType string, entity models.TopEntity) models.TopInsuranceRow {
	return models.TopInsuranceRow{
		ParentState: state,
		Year:        year,
		Quarter:     quarter,
		EntityType:  entityType,
		EntityName:  entity.EntityName,
		InsCount:    entity.Metric.Count,
		InsAmount:   entity.Metric.Amount,
	}
}
