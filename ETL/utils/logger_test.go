package utils

import (
	"fmt"
	"os"
	"testing"
	"time"

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

// readLogFile читает лог-файл текущего дня из рабочего каталога теста
func readLogFile(t *testing.T) string {
	t.Helper()

	name := fmt.Sprintf("pulse_etl_%s.log", time.Now().Format("2006-01-02"))
	content, err := os.ReadFile(name)
	require.NoError(t, err)
	return string(content)
}

func TestErrorKeepsPercentSignsLiteral(t *testing.T) {
	chdirTemp(t)
	logger := NewETLLogger(false)

	// Текст ошибки может содержать знаки процента (например, LIKE '%...%'
	// из SQL), они не должны трактоваться как глаголы форматирования
	errMsg := "Ошибка в фазе Load, таблицы: map_user (LIKE '%district%')"
	logger.Error("%s", errMsg)

	content := readLogFile(t)
	assert.Contains(t, content, errMsg)
	assert.NotContains(t, content, "%!")
}

func TestLoggerLevels(t *testing.T) {
	chdirTemp(t)
	logger := NewETLLogger(false)

	logger.Info("обработано %d файлов", 42)
	logger.Warn("пропущен: %s", "1.json")
	logger.Debug("отладка скрыта без verbose")

	content := readLogFile(t)
	assert.Contains(t, content, "INFO: ")
	assert.Contains(t, content, "обработано 42 файлов")
	assert.Contains(t, content, "WARN: пропущен: 1.json")
	assert.NotContains(t, content, "отладка скрыта")
}

func TestDebugLoggedWhenVerbose(t *testing.T) {
	chdirTemp(t)
	logger := NewETLLogger(true)

	logger.Debug("разбор файла %s", "2.json")

	content := readLogFile(t)
	assert.Contains(t, content, "разбор файла 2.json")
}
