package extractors

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
)

// Quarantine сохраняет повреждённые исходные файлы для последующего
// разбора оператором. Файлы сжимаются snappy и складываются в каталог
// запуска: <каталог карантина>/<run_id>/<закодированный путь>.snappy
type Quarantine struct {
	dir   string
	runID string
}

// NewQuarantine создает карантин для одного запуска ETL.
// Пустой каталог отключает карантин.
func NewQuarantine(dir, runID string) *Quarantine {
	if dir == "" {
		return nil
	}

	return &Quarantine{
		dir:   dir,
		runID: runID,
	}
}

// Save помещает содержимое повреждённого файла в карантин
func (q *Quarantine) Save(path string, raw []byte) error {
	runDir := filepath.Join(q.dir, q.runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("ошибка создания каталога карантина: %w", err)
	}

	// Путь к файлу кодируется в имя, чтобы файлы "1.json" из разных
	// штатов и годов не затирали друг друга
	name := encodeQuarantineName(path)
	target := filepath.Join(runDir, name)

	compressed := snappy.Encode(nil, raw)
	if err := os.WriteFile(target, compressed, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла карантина %s: %w", target, err)
	}

	return nil
}

// Load читает и распаковывает файл из карантина
func (q *Quarantine) Load(path string) ([]byte, error) {
	target := filepath.Join(q.dir, q.runID, encodeQuarantineName(path))

	compressed, err := os.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла карантина %s: %w", target, err)
	}

	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("ошибка распаковки файла карантина %s: %w", target, err)
	}

	return raw, nil
}

// encodeQuarantineName превращает путь к исходному файлу в плоское имя
func encodeQuarantineName(path string) string {
	name := filepath.ToSlash(path)
	name = strings.TrimPrefix(name, "/")
	name = strings.ReplaceAll(name, "/", "__")
	return name + ".snappy"
}
