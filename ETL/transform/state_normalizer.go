package transform

import (
	"strings"

	"github.com/LilVoxy/coursework_pulse/ETL/utils"
)

// defaultStateMapping - встроенное отображение каталожных слагов Pulse
// в канонические названия штатов и союзных территорий Индии.
// Канонические названия служат ключом соединения для всех девяти таблиц
// и для карт на дашборде, поэтому написание должно быть единым.
var defaultStateMapping = map[string]string{
	"andaman-&-nicobar-islands":            "Andaman & Nicobar Islands",
	"andhra-pradesh":                       "Andhra Pradesh",
	"arunachal-pradesh":                    "Arunachal Pradesh",
	"assam":                                "Assam",
	"bihar":                                "Bihar",
	"chandigarh":                           "Chandigarh",
	"chhattisgarh":                         "Chhattisgarh",
	"dadra-&-nagar-haveli-&-daman-&-diu":   "Dadra & Nagar Haveli & Daman & Diu",
	"delhi":                                "Delhi",
	"goa":                                  "Goa",
	"gujarat":                              "Gujarat",
	"haryana":                              "Haryana",
	"himachal-pradesh":                     "Himachal Pradesh",
	"jammu-&-kashmir":                      "Jammu & Kashmir",
	"jharkhand":                            "Jharkhand",
	"karnataka":                            "Karnataka",
	"kerala":                               "Kerala",
	"ladakh":                               "Ladakh",
	"lakshadweep":                          "Lakshadweep",
	"madhya-pradesh":                       "Madhya Pradesh",
	"maharashtra":                          "Maharashtra",
	"manipur":                              "Manipur",
	"meghalaya":                            "Meghalaya",
	"mizoram":                              "Mizoram",
	"nagaland":                             "Nagaland",
	"odisha":                               "Odisha",
	"puducherry":                           "Puducherry",
	"punjab":                               "Punjab",
	"rajasthan":                            "Rajasthan",
	"sikkim":                               "Sikkim",
	"tamil-nadu":                           "Tamil Nadu",
	"telangana":                            "Telangana",
	"tripura":                              "Tripura",
	"uttar-pradesh":                        "Uttar Pradesh",
	"uttarakhand":                          "Uttarakhand",
	"west-bengal":                          "West Bengal",
}

// StateNormalizer приводит названия штатов к каноническому написанию.
// Для одного и того же исходного названия всегда возвращается одно и
// то же каноническое - функция чистая относительно заданного отображения.
type StateNormalizer struct {
	mapping map[string]string
	warned  map[string]bool
	logger  *utils.ETLLogger
}

// NewStateNormalizer создает нормализатор: встроенное отображение
// дополняется (и при совпадении ключей переопределяется) пользовательским
func NewStateNormalizer(custom map[string]string, logger *utils.ETLLogger) *StateNormalizer {
	mapping := make(map[string]string, len(defaultStateMapping)+len(custom))
	for slug, name := range defaultStateMapping {
		mapping[slug] = name
	}
	for slug, name := range custom {
		mapping[slug] = name
	}

	return &StateNormalizer{
		mapping: mapping,
		warned:  make(map[string]bool),
		logger:  logger,
	}
}

// Normalize возвращает каноническое название штата. Для неизвестного
// слага применяется детерминированное преобразование в Title Case
// с предупреждением (один раз на каждое новое название); запись
// не отбрасывается.
func (n *StateNormalizer) Normalize(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))

	if canonical, ok := n.mapping[key]; ok {
		return canonical
	}

	if !n.warned[key] {
		n.warned[key] = true
		n.logger.Warn("Штат %q отсутствует в каноническом отображении, применено автоматическое преобразование", raw)
	}

	return titleCaseSlug(key)
}

// titleCaseSlug превращает слаг "dadra-&-nagar-haveli" в "Dadra & Nagar Haveli"
func titleCaseSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, word := range words {
		if word == "" || word == "&" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
