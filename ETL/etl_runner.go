package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/LilVoxy/coursework_pulse/ETL/config"
	"github.com/LilVoxy/coursework_pulse/ETL/extractors"
	"github.com/LilVoxy/coursework_pulse/ETL/load"
	"github.com/LilVoxy/coursework_pulse/ETL/models"
	"github.com/LilVoxy/coursework_pulse/ETL/transform"
	"github.com/LilVoxy/coursework_pulse/ETL/utils"
	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
)

// ETLRunner выполняет полный цикл Extract → Transform → Load
// над деревом JSON-файлов PhonePe Pulse
type ETLRunner struct {
	config      config.ETLConfig
	db          *sql.DB
	logger      *utils.ETLLogger
	normalizer  *transform.StateNormalizer
	loadManager *load.LoadManager
	etlLogRepo  models.ETLLogRepository
}

// NewETLRunner создает новый экземпляр ETLRunner
func NewETLRunner(cfg config.ETLConfig) (*ETLRunner, error) {
	// Инициализируем логгер
	logger := utils.NewETLLogger(cfg.EnableDetailedLogging)
	logger.Info("Инициализация ETL Runner")

	// Подключаемся к базе данных
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	// Инициализируем репозиторий журнала запусков ETL
	etlLogRepo := models.NewMySQLETLLogRepository(db)

	// Создаем таблицу журнала, если она еще не существует
	if err := etlLogRepo.CreateETLLogTable(); err != nil {
		config.CloseDatabase(db)
		return nil, fmt.Errorf("ошибка при создании таблицы журнала ETL: %w", err)
	}

	// Загружаем пользовательское отображение названий штатов (если задано)
	customMapping, err := config.LoadStateMapping(cfg.StateMappingFile)
	if err != nil {
		config.CloseDatabase(db)
		return nil, err
	}

	// Создаем менеджер загрузки и проверяем схему
	loadManager := load.NewLoadManager(db, logger)
	if err := loadManager.EnsureSchema(); err != nil {
		config.CloseDatabase(db)
		return nil, fmt.Errorf("ошибка при создании целевых таблиц: %w", err)
	}

	return &ETLRunner{
		config:      cfg,
		db:          db,
		logger:      logger,
		normalizer:  transform.NewStateNormalizer(customMapping, logger),
		loadManager: loadManager,
		etlLogRepo:  etlLogRepo,
	}, nil
}

// Close закрывает соединение с базой данных
func (r *ETLRunner) Close() {
	r.logger.Info("Завершение работы ETL Runner")
	config.CloseDatabase(r.db)
}

// ExecuteETL выполняет полный ETL-процесс
func (r *ETLRunner) ExecuteETL() error {
	startTime := time.Now()
	runID := uuid.New().String()
	r.logger.LogETLStart(r.config.SourceDir)
	r.logger.Info("Идентификатор запуска: %s", runID)

	// Создаем запись в журнале ETL
	logID, err := r.etlLogRepo.CreateLogEntry(runID, startTime)
	if err != nil {
		r.logger.Error("Ошибка при создании записи в журнале ETL: %v", err)
		return fmt.Errorf("ошибка при создании записи в журнале ETL: %w", err)
	}

	// 1. Фаза извлечения данных (Extract)
	quarantine := extractors.NewQuarantine(r.config.QuarantineDir, runID)
	extractor := extractors.NewExtractor(r.config.SourceDir, quarantine, r.logger)

	extractedData, err := extractor.Extract()
	if err != nil {
		errMsg := fmt.Sprintf("Ошибка в фазе Extract: %v", err)
		r.logger.Error("%s", errMsg)
		r.updateETLRunLogFailure(logID, errMsg)
		return fmt.Errorf("ошибка в фазе Extract: %w", err)
	}

	// 2. Фаза построения таблиц (Transform)
	transformer := transform.NewTransformer(r.normalizer, r.config.MinYear, r.config.MaxYear, r.logger)
	tables := transformer.Transform(extractedData)

	// 3. Фаза загрузки данных (Load)
	failures := r.loadManager.Load(tables)
	if len(failures) > 0 {
		failed := strings.Join(load.FailedTables(failures), ", ")
		errMsg := fmt.Sprintf("Ошибка в фазе Load, таблицы: %s", failed)
		r.logger.Error("%s", errMsg)
		r.updateETLRunLogFailure(logID, errMsg)
		return fmt.Errorf("не удалось загрузить таблицы: %s", failed)
	}

	// Итоговая сводка по пропущенным файлам
	if len(extractedData.ParseErrors) > 0 {
		paths := make([]string, 0, len(extractedData.ParseErrors))
		for _, pe := range extractedData.ParseErrors {
			paths = append(paths, pe.Path)
		}
		r.logger.LogParseErrorSummary(paths)
	}

	// Обновляем запись в журнале с информацией об успешном выполнении
	r.updateETLRunLogSuccess(logID, extractedData, tables)

	r.logger.LogETLComplete(startTime, extractedData.FilesProcessed, extractedData.TotalRecords(), tables.TotalRows())
	return nil
}

// updateETLRunLogSuccess обновляет запись в журнале ETL при успешном завершении
func (r *ETLRunner) updateETLRunLogSuccess(logID int, extracted *models.ExtractedData, tables *models.PulseTables) {
	if err := r.etlLogRepo.UpdateLogEntrySuccess(
		logID,
		time.Now(),
		extracted.FilesProcessed,
		extracted.TotalRecords(),
		tables.TotalRows(),
		len(extracted.ParseErrors),
		len(tables.Rejected)); err != nil {
		r.logger.Error("Ошибка при обновлении записи в журнале ETL: %v", err)
	}
}

// updateETLRunLogFailure обновляет запись в журнале ETL при ошибке
func (r *ETLRunner) updateETLRunLogFailure(logID int, errorMessage string) {
	if err := r.etlLogRepo.UpdateLogEntryFailure(logID, time.Now(), errorMessage); err != nil {
		r.logger.Error("Ошибка при обновлении записи в журнале ETL: %v", err)
	}
}

// StartScheduler запускает планировщик для регулярного выполнения ETL
func (r *ETLRunner) StartScheduler(ctx context.Context) {
	scheduler := gocron.NewScheduler(time.UTC)

	r.logger.Info("Запуск планировщика ETL с интервалом %v", r.config.RunInterval)

	_, err := scheduler.Every(r.config.RunInterval).Do(func() {
		r.logger.Info("Запланированный запуск ETL процесса")
		if err := r.ExecuteETL(); err != nil {
			r.logger.Error("Ошибка при выполнении запланированного ETL: %v", err)
		}
	})

	if err != nil {
		r.logger.Error("Ошибка при настройке планировщика: %v", err)
		return
	}

	// Запускаем планировщик
	scheduler.StartAsync()

	// Ожидаем сигнал остановки из контекста
	<-ctx.Done()

	// Останавливаем планировщик
	scheduler.Stop()
	r.logger.Info("Планировщик ETL остановлен")
}

// RunOnce запускает ETL-процесс один раз и завершает программу
// с ненулевым кодом при любой ошибке
func RunOnce(cfg config.ETLConfig) {
	runner, err := NewETLRunner(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Ошибка при создании ETL Runner: %v\n", err)
		os.Exit(1)
	}

	if err := runner.ExecuteETL(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Ошибка при выполнении ETL: %v\n", err)
		runner.Close()
		os.Exit(1)
	}

	runner.Close()
}

// RunScheduled запускает ETL-процесс по расписанию
func RunScheduled(cfg config.ETLConfig) {
	// Создаем контекст, который будет отменен при получении сигнала завершения
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Настраиваем обработку сигналов завершения
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	// Запускаем горутину для обработки сигналов
	go func() {
		<-signalCh
		log.Println("Получен сигнал завершения. Останавливаем ETL Runner...")
		cancel()
	}()

	runner, err := NewETLRunner(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Ошибка при создании ETL Runner: %v\n", err)
		os.Exit(1)
	}
	defer runner.Close()

	// Запускаем планировщик
	runner.StartScheduler(ctx)
}

func main() {
	// Параметры командной строки
	modePtr := flag.String("mode", "once", "Режим работы: once или scheduled")
	sourcePtr := flag.String("source", "", "Корневой каталог данных Pulse (переопределяет PULSE_SOURCE_DIR)")
	dsnPtr := flag.String("dsn", "", "Строка подключения MySQL (переопределяет PULSE_DB_*)")
	quarantinePtr := flag.String("quarantine", "", "Каталог карантина для повреждённых файлов")
	stateMapPtr := flag.String("state-map", "", "JSON-файл с отображением названий штатов")

	flag.Parse()

	// Собираем конфигурацию: значения по умолчанию + окружение + флаги
	cfg := config.GetConfig()
	if *sourcePtr != "" {
		cfg.SourceDir = *sourcePtr
	}
	if *dsnPtr != "" {
		cfg.DSNOverride = *dsnPtr
	}
	if *quarantinePtr != "" {
		cfg.QuarantineDir = *quarantinePtr
	}
	if *stateMapPtr != "" {
		cfg.StateMappingFile = *stateMapPtr
	}

	log.Println("Запуск ETL Runner в режиме:", *modePtr)

	switch *modePtr {
	case "once":
		RunOnce(cfg)
	case "scheduled":
		RunScheduled(cfg)
	default:
		log.Println("Неизвестный режим работы:", *modePtr)
		log.Println("Доступные режимы: once, scheduled")
		os.Exit(1)
	}

	log.Println("ETL Runner завершил работу")
}
