package extractors

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/LilVoxy/coursework_pulse/ETL/models"
	"github.com/LilVoxy/coursework_pulse/ETL/utils"
)

// MapExtractor разбирает документы категории map
// (разбивка показателей штата по округам)
type MapExtractor struct {
	logger *utils.ETLLogger
}

// NewMapExtractor создает новый экземпляр MapExtractor
func NewMapExtractor(logger *utils.ETLLogger) *MapExtractor {
	return &MapExtractor{
		logger: logger,
	}
}

// ParseTransaction разбирает документ map/transaction/hover:
// по записи на каждый округ из hoverDataList
func (m *MapExtractor) ParseTransaction(raw []byte, state string, year, quarter int, out *models.ExtractedData) error {
	var doc models.MapMetricDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("некорректный JSON: %v", err)
	}

	if doc.Data.HoverDataList == nil {
		return fmt.Errorf("отсутствует ключ data.hoverDataList")
	}

	for _, hd := range doc.Data.HoverDataList {
		count, amount := totalInstrument(hd.Metric)
		out.MapTransactions = append(out.MapTransactions, models.MapTransactionRow{
			State:     state,
			Year:      year,
			Quarter:   quarter,
			District:  hd.Name,
			TxnCount:  count,
			TxnAmount: amount,
		})
	}

	return nil
}

// ParseUser разбирает документ map/user/hover. hoverData - JSON-объект
// с округами в качестве ключей; ключи сортируются, чтобы порядок строк
// не зависел от порядка обхода map в Go и повторные запуски давали
// идентичное содержимое таблиц.
func (m *MapExtractor) ParseUser(raw []byte, state string, year, quarter int, out *models.ExtractedData) error {
	var doc models.MapUserDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("некорректный JSON: %v", err)
	}

	if doc.Data.HoverData == nil {
		return fmt.Errorf("отсутствует ключ data.hoverData")
	}

	districts := make([]string, 0, len(doc.Data.HoverData))
	for district := range doc.Data.HoverData {
		districts = append(districts, district)
	}
	sort.Strings(districts)

	for _, district := range districts {
		entry := doc.Data.HoverData[district]
		out.MapUsers = append(out.MapUsers, models.MapUserRow{
			State:           state,
			Year:            year,
			Quarter:         quarter,
			District:        district,
			RegisteredUsers: entry.RegisteredUsers,
			AppOpens:        entry.AppOpens,
		})
	}

	return nil
}

// ParseInsurance разбирает документ map/insurance/hover - формат
// совпадает с map/transaction/hover
func (m *MapExtractor) ParseInsurance(raw []byte, state string, year, quarter int, out *models.ExtractedData) error {
	var doc models.MapMetricDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("некорректный JSON: %v", err)
	}

	if doc.Data.HoverDataList == nil {
		return fmt.Errorf("отсутствует ключ data.hoverDataList")
	}

	for _, hd := range doc.Data.HoverDataList {
		count, amount := totalInstrument(hd.Metric)
		out.MapInsurance = append(out.MapInsurance, models.MapInsuranceRow{
			State:     state,
			Year:      year,
			Quarter:   quarter,
			District:  hd.Name,
			InsCount:  count,
			InsAmount: amount,
		})
	}

	return nil
}
