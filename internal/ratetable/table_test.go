package ratetable

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// sampleTable has five consecutive business days and two pairs.
func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New([]string{"USDCAD", "EURCAD"}, []Row{
		{Date: date("2024-01-05"), Values: []decimal.NullDecimal{dec("1.3377"), dec("1.4601")}},
		{Date: date("2024-01-02"), Values: []decimal.NullDecimal{dec("1.3316"), dec("1.4580")}},
		{Date: date("2024-01-03"), Values: []decimal.NullDecimal{dec("1.3366"), {}}},
		{Date: date("2024-01-04"), Values: []decimal.NullDecimal{dec("1.3341"), dec("1.4615")}},
		{Date: date("2024-01-08"), Values: []decimal.NullDecimal{dec("1.3361"), dec("1.4632")}},
	})
	require.NoError(t, err)
	return tbl
}

func dates(tbl *Table) []string {
	out := make([]string, 0, tbl.Len())
	for _, r := range tbl.Rows() {
		out = append(out, r.Date.Format(DateLayout))
	}
	return out
}

func TestNew(t *testing.T) {
	t.Run("sorts rows by date", func(t *testing.T) {
		tbl := sampleTable(t)
		assert.Equal(t, []string{"2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-08"}, dates(tbl))
	})

	t.Run("rejects duplicate dates", func(t *testing.T) {
		_, err := New([]string{"USDCAD"}, []Row{
			{Date: date("2024-01-02"), Values: []decimal.NullDecimal{dec("1")}},
			{Date: date("2024-01-02"), Values: []decimal.NullDecimal{dec("2")}},
		})
		assert.ErrorIs(t, err, ErrDuplicateDate)
	})

	t.Run("rejects ragged rows", func(t *testing.T) {
		_, err := New([]string{"USDCAD", "EURCAD"}, []Row{
			{Date: date("2024-01-02"), Values: []decimal.NullDecimal{dec("1")}},
		})
		assert.ErrorIs(t, err, ErrRowWidth)
	})

	t.Run("rejects duplicate columns", func(t *testing.T) {
		_, err := New([]string{"USDCAD", "USDCAD"}, nil)
		assert.ErrorIs(t, err, ErrDuplicateColumn)
	})

	t.Run("truncates timestamps to days", func(t *testing.T) {
		tbl, err := New([]string{"USDCAD"}, []Row{
			{Date: time.Date(2024, 1, 2, 16, 30, 0, 0, time.UTC), Values: []decimal.NullDecimal{dec("1")}},
		})
		require.NoError(t, err)
		minDate, ok := tbl.MinDate()
		require.True(t, ok)
		assert.Equal(t, date("2024-01-02"), minDate)
	})
}

func TestHeadTail(t *testing.T) {
	tbl := sampleTable(t)

	tests := []struct {
		name string
		got  *Table
		want []string
	}{
		{"head 2", tbl.Head(2), []string{"2024-01-02", "2024-01-03"}},
		{"head 0", tbl.Head(0), []string{}},
		{"head beyond length", tbl.Head(50), dates(tbl)},
		{"head negative drops last rows", tbl.Head(-3), []string{"2024-01-02", "2024-01-03"}},
		{"head very negative", tbl.Head(math.MinInt), []string{}},
		{"tail 2", tbl.Tail(2), []string{"2024-01-05", "2024-01-08"}},
		{"tail 0", tbl.Tail(0), []string{}},
		{"tail beyond length", tbl.Tail(math.MaxInt), dates(tbl)},
		{"tail negative drops first rows", tbl.Tail(-3), []string{"2024-01-05", "2024-01-08"}},
		{"tail very negative", tbl.Tail(math.MinInt), []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, dates(tc.got))
			assert.Equal(t, tbl.Columns(), tc.got.Columns())
		})
	}

	assert.Equal(t, 5, tbl.Len(), "receiver must not change")
}

func TestDateRanges(t *testing.T) {
	tbl := sampleTable(t)

	t.Run("from is inclusive", func(t *testing.T) {
		assert.Equal(t, []string{"2024-01-04", "2024-01-05", "2024-01-08"}, dates(tbl.From(date("2024-01-04"))))
	})

	t.Run("from between rows", func(t *testing.T) {
		assert.Equal(t, []string{"2024-01-08"}, dates(tbl.From(date("2024-01-06"))))
	})

	t.Run("until is inclusive", func(t *testing.T) {
		assert.Equal(t, []string{"2024-01-02", "2024-01-03"}, dates(tbl.Until(date("2024-01-03"))))
	})

	t.Run("between is inclusive on both ends", func(t *testing.T) {
		assert.Equal(t, []string{"2024-01-03", "2024-01-04", "2024-01-05"},
			dates(tbl.Between(date("2024-01-03"), date("2024-01-05"))))
	})

	t.Run("between with reversed bounds is empty", func(t *testing.T) {
		assert.True(t, tbl.Between(date("2024-01-05"), date("2024-01-03")).IsEmpty())
	})

	t.Run("between outside table is empty", func(t *testing.T) {
		assert.True(t, tbl.Between(date("2023-01-01"), date("2023-12-31")).IsEmpty())
	})

	t.Run("min and max dates", func(t *testing.T) {
		minDate, ok := tbl.MinDate()
		require.True(t, ok)
		maxDate, _ := tbl.MaxDate()
		assert.Equal(t, date("2024-01-02"), minDate)
		assert.Equal(t, date("2024-01-08"), maxDate)

		_, ok = Empty().MinDate()
		assert.False(t, ok)
	})
}

func TestSelect(t *testing.T) {
	tbl := sampleTable(t)

	t.Run("reorders columns as requested", func(t *testing.T) {
		got, err := tbl.Select([]string{"EURCAD", "USDCAD"})
		require.NoError(t, err)
		assert.Equal(t, []string{"EURCAD", "USDCAD"}, got.Columns())
		first := got.Rows()[0]
		assert.True(t, first.Values[0].Decimal.Equal(decimal.RequireFromString("1.4580")))
		assert.True(t, first.Values[1].Decimal.Equal(decimal.RequireFromString("1.3316")))
		assert.False(t, got.Rows()[1].Values[0].Valid, "missing cell stays missing")
	})

	t.Run("missing column fails atomically", func(t *testing.T) {
		got, err := tbl.Select([]string{"USDCAD", "INRCAD", "JPYCAD"})
		assert.Nil(t, got)
		require.ErrorIs(t, err, ErrColumnNotFound)
		assert.Contains(t, err.Error(), "INRCAD, JPYCAD")
	})

	t.Run("empty selection keeps rows", func(t *testing.T) {
		got, err := tbl.Select([]string{})
		require.NoError(t, err)
		assert.Equal(t, 5, got.Len())
		assert.Equal(t, 0, got.ColumnCount())
	})
}

func TestRowCount(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{10, 10},
		{2.9, 2},
		{0.5, 0},
		{-1.5, -2},
		{1e300, math.MaxInt},
		{-1e300, math.MinInt},
	}
	for _, tc := range tests {
		got, err := RowCount(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "RowCount(%v)", tc.in)
	}

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := RowCount(bad)
		assert.ErrorIs(t, err, ErrInvalidRowCount)
	}
}

func TestParseCSV(t *testing.T) {
	t.Run("parses sheet export", func(t *testing.T) {
		in := "date,USDCAD,AUDCAD\n" +
			"2024-01-03,1.3366,0.9012\n" +
			"2024-01-02,1.3316,NaN\n" +
			",,\n" +
			"1/4/2024, 1.3341 ,\n"
		tbl, err := ParseCSV(strings.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, []string{"USDCAD", "AUDCAD"}, tbl.Columns())
		assert.Equal(t, []string{"2024-01-02", "2024-01-03", "2024-01-04"}, dates(tbl))
		rows := tbl.Rows()
		assert.False(t, rows[0].Values[1].Valid)
		assert.False(t, rows[2].Values[1].Valid)
		assert.True(t, rows[2].Values[0].Decimal.Equal(decimal.RequireFromString("1.3341")))
	})

	t.Run("blank header cells are dropped", func(t *testing.T) {
		in := "date,USDCAD,,EURCAD,,\n" +
			"2024-01-02,1.3316,x,1.4580,,\n" +
			"2024-01-03,1.3366,,1.4601,,\n"
		tbl, err := ParseCSV(strings.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, []string{"USDCAD", "EURCAD"}, tbl.Columns())
		assert.Equal(t, []string{"2024-01-02", "2024-01-03"}, dates(tbl))
		assert.True(t, tbl.Rows()[0].Values[1].Decimal.Equal(decimal.RequireFromString("1.4580")))
	})

	t.Run("header without pair columns", func(t *testing.T) {
		tbl, err := ParseCSV(strings.NewReader("date,,\n2024-01-02,,\n"))
		require.NoError(t, err)
		assert.Equal(t, 0, tbl.ColumnCount())
		assert.Equal(t, 1, tbl.Len())
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyCSV)
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("date,USDCAD\nyesterday,1.3\n"))
		assert.Error(t, err)
	})

	t.Run("bad number", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("date,USDCAD\n2024-01-02,abc\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "USDCAD")
	})
}

func TestWriteCSVRoundTrip(t *testing.T) {
	tbl := sampleTable(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))
	assert.True(t, strings.HasPrefix(buf.String(), "date,USDCAD,EURCAD\n2024-01-02,1.3316,1.458\n"))
	assert.Contains(t, buf.String(), "2024-01-03,1.3366,\n")

	back, err := ParseCSV(&buf)
	require.NoError(t, err)
	assert.True(t, tbl.Equal(back))
}

func TestParseISODate(t *testing.T) {
	for _, ok := range []string{"2024-01-01", "2024-02-29", "1999-12-31"} {
		_, err := ParseISODate(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "2024-1-1", "2023-02-29", "2024-13-01", "01/02/2024", "2024-01-01T00:00:00Z", "20240101"} {
		_, err := ParseISODate(bad)
		assert.Error(t, err, bad)
	}
}
