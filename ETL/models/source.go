package models

// Структуры вложенных JSON-документов PhonePe Pulse.
// Формат повторяет официальный репозиторий pulse: каждый файл
// <состояние>/<год>/<квартал>.json содержит объект "data" с
// разбивкой, зависящей от категории и типа документа.

// PaymentInstrument - пара count/amount внутри разбивки
type PaymentInstrument struct {
	Type   string  `json:"type"`
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

// AggregatedTxnDocument - aggregated/transaction и aggregated/insurance
type AggregatedTxnDocument struct {
	Data struct {
		From            int64 `json:"from"`
		To              int64 `json:"to"`
		TransactionData []struct {
			Name               string              `json:"name"`
			PaymentInstruments []PaymentInstrument `json:"paymentInstruments"`
		} `json:"transactionData"`
	} `json:"data"`
}

// AggregatedUserDocument - aggregated/user.
// Aggregated - указатель, чтобы отличать отсутствующий ключ от нулевых значений.
type AggregatedUserDocument struct {
	Data struct {
		Aggregated *struct {
			RegisteredUsers int64 `json:"registeredUsers"`
			AppOpens        int64 `json:"appOpens"`
		} `json:"aggregated"`
		// После 2022 Q1 usersByDevice в датасете равен null
		UsersByDevice []struct {
			Brand      string  `json:"brand"`
			Count      int64   `json:"count"`
			Percentage float64 `json:"percentage"`
		} `json:"usersByDevice"`
	} `json:"data"`
}

// MapMetricDocument - map/transaction/hover и map/insurance/hover
type MapMetricDocument struct {
	Data struct {
		HoverDataList []struct {
			Name   string              `json:"name"`
			Metric []PaymentInstrument `json:"metric"`
		} `json:"hoverDataList"`
	} `json:"data"`
}

// MapUserDocument - map/user/hover
type MapUserDocument struct {
	Data struct {
		HoverData map[string]struct {
			RegisteredUsers int64 `json:"registeredUsers"`
			AppOpens        int64 `json:"appOpens"`
		} `json:"hoverData"`
	} `json:"data"`
}

// TopEntity - элемент рейтинга districts/pincodes с метрикой
type TopEntity struct {
	EntityName string `json:"entityName"`
	Metric     struct {
		Type   string  `json:"type"`
		Count  int64   `json:"count"`
		Amount float64 `json:"amount"`
	} `json:"metric"`
}

// TopMetricDocument - top/transaction и top/insurance
type TopMetricDocument struct {
	Data struct {
		Districts []TopEntity `json:"districts"`
		Pincodes  []TopEntity `json:"pincodes"`
	} `json:"data"`
}

// TopUserEntity - элемент рейтинга top/user
type TopUserEntity struct {
	Name            string `json:"name"`
	RegisteredUsers int64  `json:"registeredUsers"`
}

// TopUserDocument - top/user
type TopUserDocument struct {
	Data struct {
		Districts []TopUserEntity `json:"districts"`
		Pincodes  []TopUserEntity `json:"pincodes"`
	} `json:"data"`
}
