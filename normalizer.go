package dlt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Normalize maps raw provider records to DrawRecords using the provider's
// rename table. It never fails the batch: missing fields stay empty and an
// unparseable date leaves DrawDate nil.
func Normalize(raw []RawRecord, m FieldMapping) []DrawRecord {
	records := make([]DrawRecord, 0, len(raw))
	for _, r := range raw {
		records = append(records, NormalizeRecord(r, m))
	}
	return records
}

// NormalizeRecord maps a single raw record
func NormalizeRecord(r RawRecord, m FieldMapping) DrawRecord {
	var rec DrawRecord
	var dateText string
	seen := make(map[string]bool, 3)

	for _, key := range m.Order {
		field := m.Keys[key]
		if seen[field] {
			continue
		}
		v, ok := r[key]
		if !ok || v == nil {
			continue
		}
		text := strings.TrimSpace(coerceString(v))
		if text == "" {
			continue
		}
		seen[field] = true

		switch field {
		case FieldID:
			rec.ID = text
		case FieldResult:
			rec.Result = text
		case FieldDate:
			dateText = text
		}
	}

	if dateText != "" {
		rec.DrawDate = parseDate(dateText, m.DateLayouts)
	}
	return rec
}

// coerceString renders scalar JSON values as text; numbers keep their integer form
func coerceString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		// 超出 int64 范围的浮点数转换结果未定义
		if x == math.Trunc(x) && x >= math.MinInt64 && x < math.MaxInt64 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case bool, []any, map[string]any:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

func parseDate(text string, layouts []string) *time.Time {
	if len(layouts) == 0 {
		layouts = commonDateLayouts
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return &t
		}
	}
	return nil
}
