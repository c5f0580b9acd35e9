package validate

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/notify_gateway/internal/ports"
)

// LineError — причина отказа для одной строки JSONL (нумерация с 1).
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

// Report — итог проверки набора запросов.
type Report struct {
	Valid   int
	Invalid []LineError
}

// String — краткая сводка вида "3 valid / 1 invalid".
func (r Report) String() string {
	return fmt.Sprintf("%d valid / %d invalid", r.Valid, len(r.Invalid))
}

// maxLineSize — предел длины одной строки JSONL.
const maxLineSize = 10 * 1024 * 1024

// ValidateJSONLStream — построчная проверка запросов. Валидные записываются в ow
// компактным JSON по одному на строку, невалидные попадают в отчёт.
// Пустые строки пропускаются.
func ValidateJSONLStream(ctx context.Context, validator ports.OrderValidator, ir io.Reader, ow io.Writer) (Report, error) {
	var report Report

	scanner := bufio.NewScanner(ir)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		req, err := ValidateOrderFromJSON(ctx, validator, line)
		if err != nil {
			report.Invalid = append(report.Invalid, LineError{Line: lineNo, Err: err})
			continue
		}
		if err := writeCompact(ow, req); err != nil {
			return report, err
		}
		report.Valid++
	}
	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("scan: %w", err)
	}
	return report, nil
}

func writeCompact(ow io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := ow.Write(append(raw, '\n')); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
