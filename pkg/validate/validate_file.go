package validate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/notify_gateway/internal/ports"
)

// InputFormat — формат входного файла.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

// DetectFormat — формат по расширению; всё, кроме .jsonl, считается JSON.
func DetectFormat(path string) InputFormat {
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return FormatJSONL
	}
	return FormatJSON
}

// ValidateFile — проверяет файл с запросами и пишет валидные запросы в ow.
// Для JSON ошибка единственного запроса возвращается как ошибка;
// для JSONL невалидные строки только попадают в отчёт.
func ValidateFile(ctx context.Context, validator ports.OrderValidator, path string, format InputFormat, ow io.Writer) (Report, error) {
	if format == FormatAuto {
		format = DetectFormat(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return ValidateReader(ctx, validator, file, format, ow)
}

// ValidateReader — то же, что ValidateFile, для произвольного источника.
// FormatAuto здесь означает JSONL.
func ValidateReader(ctx context.Context, validator ports.OrderValidator, ir io.Reader, format InputFormat, ow io.Writer) (Report, error) {
	switch format {
	case FormatJSON:
		raw, err := io.ReadAll(ir)
		if err != nil {
			return Report{}, fmt.Errorf("read: %w", err)
		}
		req, err := ValidateOrderFromJSON(ctx, validator, raw)
		if err != nil {
			return Report{Invalid: []LineError{{Line: 1, Err: err}}}, err
		}
		if err := writeCompact(ow, req); err != nil {
			return Report{}, err
		}
		return Report{Valid: 1}, nil

	case FormatJSONL, FormatAuto:
		return ValidateJSONLStream(ctx, validator, ir, ow)

	default:
		return Report{}, fmt.Errorf("unsupported format: %s", format)
	}
}
