package dlt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustProvider(t *testing.T, name string) FieldMapping {
	t.Helper()
	m, err := LookupProvider(name)
	require.NoError(t, err)
	return m
}

func TestNormalizeRecord(t *testing.T) {
	sporttery := mustProvider(t, "sporttery")

	t.Run("canonical_example", func(t *testing.T) {
		rec := NormalizeRecord(RawRecord{
			"lotteryDrawNum":    "25001",
			"lotteryDrawResult": "03 11 19 27 35 02 09",
			"lotteryDrawTime":   "2025-01-02",
		}, sporttery)

		assert.Equal(t, "25001", rec.ID)
		assert.Equal(t, "03 11 19 27 35 02 09", rec.Result)
		require.NotNil(t, rec.DrawDate)
		assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.Local), *rec.DrawDate)
	})

	t.Run("unknown_keys_dropped", func(t *testing.T) {
		rec := NormalizeRecord(RawRecord{
			"lotteryDrawNum":       "25002",
			"lotteryDrawResult":    "01 02 03 04 05 06 07",
			"poolBalanceAfterdraw": "800,000,000",
			"prizeLevelList":       []any{map[string]any{"prizeLevel": "一等奖"}},
		}, sporttery)

		assert.Equal(t, DrawRecord{ID: "25002", Result: "01 02 03 04 05 06 07"}, rec)
	})

	t.Run("bad_date_is_nil", func(t *testing.T) {
		rec := NormalizeRecord(RawRecord{
			"lotteryDrawNum":  "25003",
			"lotteryDrawTime": "not a date",
		}, sporttery)

		assert.Equal(t, "25003", rec.ID)
		assert.Nil(t, rec.DrawDate)
	})

	t.Run("numeric_id_coerced", func(t *testing.T) {
		rec := NormalizeRecord(RawRecord{"lotteryDrawNum": float64(25004)}, sporttery)
		assert.Equal(t, "25004", rec.ID)
	})

	t.Run("datetime_layout", func(t *testing.T) {
		rec := NormalizeRecord(RawRecord{"lotteryDrawTime": "2025-01-04 21:25:00"}, sporttery)
		require.NotNil(t, rec.DrawDate)
		assert.Equal(t, 21, rec.DrawDate.Hour())
	})

	t.Run("first_alias_wins", func(t *testing.T) {
		rec := NormalizeRecord(RawRecord{
			"expect":   "2025005",
			"issue":    "ignored",
			"opencode": "01 02 03 04 05 06 07",
			"openTime": "2025/01/06",
		}, mustProvider(t, "opencode"))

		assert.Equal(t, "2025005", rec.ID)
		assert.Equal(t, "01 02 03 04 05 06 07", rec.Result)
		require.NotNil(t, rec.DrawDate)
		assert.Equal(t, time.January, rec.DrawDate.Month())
	})

	t.Run("empty_alias_falls_through", func(t *testing.T) {
		rec := NormalizeRecord(RawRecord{"expect": "", "issue": "2025006"}, mustProvider(t, "opencode"))
		assert.Equal(t, "2025006", rec.ID)
	})
}

func TestNormalizeBatch(t *testing.T) {
	raw := []RawRecord{
		{"lotteryDrawNum": "1", "lotteryDrawResult": "01 02 03 04 05 06 07"},
		{},
		{"lotteryDrawNum": "3", "lotteryDrawResult": nil},
	}

	records := Normalize(raw, mustProvider(t, "sporttery"))

	require.Len(t, records, 3)
	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, DrawRecord{}, records[1])
	assert.Equal(t, DrawRecord{ID: "3"}, records[2])
}

func TestCoerceString(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		expected string
	}{
		{"integral_float", float64(25004), "25004"},
		{"fractional_float", 2.5, "2.5"},
		{"negative_integral", float64(-7), "-7"},
		{"beyond_int64", 1e20, "100000000000000000000"},
		{"below_int64", -1e20, "-100000000000000000000"},
		{"int64_boundary", float64(1 << 63), "9223372036854775808"},
		{"string", " 25001 ", " 25001 "},
		{"bool", true, ""},
		{"list", []any{"1"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, coerceString(tt.in))
		})
	}
}
