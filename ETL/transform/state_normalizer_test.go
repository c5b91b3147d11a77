package transform

import (
	"os"
	"testing"

	"github.com/LilVoxy/coursework_pulse/ETL/utils"
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

// newTestLogger создает логгер, пишущий лог-файл во временный каталог
func newTestLogger(t *testing.T) *utils.ETLLogger {
	t.Helper()
	chdirTemp(t)
	return utils.NewETLLogger(false)
}

func TestNormalizeKnownStates(t *testing.T) {
	normalizer := NewStateNormalizer(nil, newTestLogger(t))

	// Слаги каталогов приводятся к каноническим названиям
	assert.Equal(t, "Karnataka", normalizer.Normalize("karnataka"))
	assert.Equal(t, "Tamil Nadu", normalizer.Normalize("tamil-nadu"))
	assert.Equal(t, "Andaman & Nicobar Islands", normalizer.Normalize("andaman-&-nicobar-islands"))
	assert.Equal(t, "Dadra & Nagar Haveli & Daman & Diu", normalizer.Normalize("dadra-&-nagar-haveli-&-daman-&-diu"))
}

func TestNormalizeIgnoresCaseAndWhitespace(t *testing.T) {
	normalizer := NewStateNormalizer(nil, newTestLogger(t))

	assert.Equal(t, "West Bengal", normalizer.Normalize("West-Bengal"))
	assert.Equal(t, "Kerala", normalizer.Normalize("  kerala "))
}

func TestNormalizeCustomOverride(t *testing.T) {
	custom := map[string]string{
		"odisha":    "Odisha (Orissa)",
		"new-state": "New State",
	}
	normalizer := NewStateNormalizer(custom, newTestLogger(t))

	// Пользовательское отображение переопределяет встроенное
	assert.Equal(t, "Odisha (Orissa)", normalizer.Normalize("odisha"))
	assert.Equal(t, "New State", normalizer.Normalize("new-state"))

	// Остальные слаги продолжают работать по встроенному отображению
	assert.Equal(t, "Punjab", normalizer.Normalize("punjab"))
}

func TestNormalizeUnknownSlug(t *testing.T) {
	normalizer := NewStateNormalizer(nil, newTestLogger(t))

	// Неизвестный слаг преобразуется детерминированно, запись не теряется
	first := normalizer.Normalize("newly-formed-territory")
	second := normalizer.Normalize("newly-formed-territory")

	assert.Equal(t, "Newly Formed Territory", first)
	assert.Equal(t, first, second)
}

func TestNormalizeUnknownSlugWithAmpersand(t *testing.T) {
	normalizer := NewStateNormalizer(nil, newTestLogger(t))

	assert.Equal(t, "Foo & Bar", normalizer.Normalize("foo-&-bar"))
}

func TestNormalizeIsConsistentAcrossCalls(t *testing.T) {
	normalizer := NewStateNormalizer(nil, newTestLogger(t))

	// Одинаковый вход всегда даёт одинаковый выход
	inputs := []string{"karnataka", "KARNATAKA", "unknown-slug", "unknown-slug"}
	for _, input := range inputs {
		assert.Equal(t, normalizer.Normalize(input), normalizer.Normalize(input))
	}
}
