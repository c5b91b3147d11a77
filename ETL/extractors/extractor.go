package extractors

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/LilVoxy/coursework_pulse/ETL/config"
	"github.com/LilVoxy/coursework_pulse/ETL/models"
	"github.com/LilVoxy/coursework_pulse/ETL/utils"
)

// Три типа данных внутри каждой категории
var kinds = []string{"transaction", "user", "insurance"}

// parseFunc разбирает содержимое одного JSON-файла и добавляет
// извлечённые записи в ExtractedData
type parseFunc func(raw []byte, state string, year, quarter int, out *models.ExtractedData) error

// Extractor координирует процесс извлечения данных из дерева JSON-файлов Pulse
type Extractor struct {
	sourceDir           string
	logger              *utils.ETLLogger
	quarantine          *Quarantine
	aggregatedExtractor *AggregatedExtractor
	mapExtractor        *MapExtractor
	topExtractor        *TopExtractor
}

// NewExtractor создает новый экземпляр Extractor
func NewExtractor(sourceDir string, quarantine *Quarantine, logger *utils.ETLLogger) *Extractor {
	return &Extractor{
		sourceDir:           sourceDir,
		logger:              logger,
		quarantine:          quarantine,
		aggregatedExtractor: NewAggregatedExtractor(logger),
		mapExtractor:        NewMapExtractor(logger),
		topExtractor:        NewTopExtractor(logger),
	}
}

// Extract выполняет обход всех девяти комбинаций (категория, тип)
// и возвращает извлечённые плоские записи
func (e *Extractor) Extract() (*models.ExtractedData, error) {
	startTime := time.Now()
	e.logger.LogExtractStart()

	// Корень данных должен существовать - пустой каталог допустим,
	// отсутствующий означает ошибку конфигурации
	if _, err := os.Stat(e.sourceDir); err != nil {
		return nil, fmt.Errorf("каталог данных %s недоступен: %w", e.sourceDir, err)
	}

	data := &models.ExtractedData{}

	// Сопоставление (категория, тип) → функция разбора документа
	buckets := []struct {
		category string
		kind     string
		parse    parseFunc
	}{
		{"aggregated", "transaction", e.aggregatedExtractor.ParseTransaction},
		{"aggregated", "user", e.aggregatedExtractor.ParseUser},
		{"aggregated", "insurance", e.aggregatedExtractor.ParseInsurance},
		{"map", "transaction", e.mapExtractor.ParseTransaction},
		{"map", "user", e.mapExtractor.ParseUser},
		{"map", "insurance", e.mapExtractor.ParseInsurance},
		{"top", "transaction", e.topExtractor.ParseTransaction},
		{"top", "user", e.topExtractor.ParseUser},
		{"top", "insurance", e.topExtractor.ParseInsurance},
	}

	for _, b := range buckets {
		if err := e.extractBucket(data, b.category, b.kind, b.parse); err != nil {
			return nil, err
		}
	}

	e.logger.LogExtractComplete(data.FilesProcessed, data.TotalRecords(), len(data.ParseErrors), time.Since(startTime))
	return data, nil
}

// extractBucket обходит дерево <база>/<штат>/<год>/<квартал>.json для одной
// комбинации (категория, тип). Повреждённый файл пропускается и попадает
// в карантин - обход продолжается.
func (e *Extractor) extractBucket(out *models.ExtractedData, category, kind string, parse parseFunc) error {
	base := filepath.Join(e.sourceDir, fmt.Sprintf(config.CategoryPaths[category], kind))

	stateDirs, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			// Отсутствие каталога категории не прерывает запуск -
			// соответствующая таблица останется пустой
			e.logger.Warn("Каталог %s отсутствует, комбинация %s/%s пропущена", base, category, kind)
			return nil
		}
		return fmt.Errorf("ошибка чтения каталога %s: %w", base, err)
	}

	e.logger.Debug("Обход %s/%s: найдено штатов: %d", category, kind, len(stateDirs))

	for _, stateDir := range stateDirs {
		if !stateDir.IsDir() {
			continue
		}
		state := stateDir.Name()

		yearDirs, err := os.ReadDir(filepath.Join(base, state))
		if err != nil {
			e.logger.Warn("Ошибка чтения каталога штата %s: %v", state, err)
			continue
		}

		for _, yearDir := range yearDirs {
			if !yearDir.IsDir() {
				continue
			}

			year, err := strconv.Atoi(yearDir.Name())
			if err != nil {
				e.logger.Debug("Каталог %s не является годом, пропущен", yearDir.Name())
				continue
			}

			quarterFiles, err := os.ReadDir(filepath.Join(base, state, yearDir.Name()))
			if err != nil {
				e.logger.Warn("Ошибка чтения каталога года %s/%d: %v", state, year, err)
				continue
			}

			for _, qf := range quarterFiles {
				name := qf.Name()
				if qf.IsDir() || !strings.HasSuffix(name, ".json") {
					continue
				}

				quarter, err := strconv.Atoi(strings.TrimSuffix(name, ".json"))
				if err != nil {
					e.logger.Debug("Файл %s не является кварталом, пропущен", name)
					continue
				}

				path := filepath.Join(base, state, yearDir.Name(), name)
				e.processFile(out, parse, path, state, year, quarter)
			}
		}
	}

	return nil
}

// processFile читает и разбирает один файл; ошибка разбора не фатальна
func (e *Extractor) processFile(out *models.ExtractedData, parse parseFunc, path, state string, year, quarter int) {
	out.FilesProcessed++

	raw, err := os.ReadFile(path)
	if err != nil {
		e.recordParseError(out, path, nil, fmt.Sprintf("ошибка чтения файла: %v", err))
		return
	}

	if err := parse(raw, state, year, quarter, out); err != nil {
		e.recordParseError(out, path, raw, err.Error())
	}
}

// recordParseError фиксирует пропущенный файл и отправляет его в карантин
func (e *Extractor) recordParseError(out *models.ExtractedData, path string, raw []byte, reason string) {
	e.logger.Warn("Файл %s пропущен: %s", path, reason)
	out.ParseErrors = append(out.ParseErrors, models.ParseError{Path: path, Reason: reason})

	if e.quarantine != nil && raw != nil {
		if err := e.quarantine.Save(path, raw); err != nil {
			e.logger.Error("Не удалось поместить файл %s в карантин: %v", path, err)
		}
	}
}
