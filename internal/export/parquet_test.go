package export

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxreader/internal/ratetable"
)

func sampleTable(t *testing.T) *ratetable.Table {
	t.Helper()
	tbl, err := ratetable.ParseCSV(strings.NewReader("date,USDCAD,EURCAD\n" +
		"2024-01-02,1.3316,1.458\n" +
		"2024-01-03,1.3366,\n" +
		"2024-01-04,1.3341,1.4615\n"))
	require.NoError(t, err)
	return tbl
}

func TestToRecord(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	rec := ToRecord(sampleTable(t), mem)
	defer rec.Release()

	assert.EqualValues(t, 3, rec.NumRows())
	assert.EqualValues(t, 3, rec.NumCols())
	assert.Equal(t, "date", rec.ColumnName(0))
	assert.Equal(t, "EURCAD", rec.ColumnName(2))

	dates := rec.Column(0).(*array.Date32)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), dates.Value(0).ToTime())

	eur := rec.Column(2).(*array.Float64)
	assert.Equal(t, 1, eur.NullN())
	assert.True(t, eur.IsNull(1))
	assert.InDelta(t, 1.4615, eur.Value(2), 1e-12)
}

func TestToRecord_EmptyTable(t *testing.T) {
	rec := ToRecord(ratetable.Empty(), memory.NewGoAllocator())
	defer rec.Release()

	assert.EqualValues(t, 0, rec.NumRows())
	assert.EqualValues(t, 1, rec.NumCols())
}

func TestWriteParquet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, sampleTable(t)))

	pf, err := file.NewParquetReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer pf.Close() //nolint:errcheck // test cleanup

	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	require.NoError(t, err)

	tbl, err := reader.ReadTable(context.Background())
	require.NoError(t, err)
	defer tbl.Release()

	assert.EqualValues(t, 3, tbl.NumRows())
	require.EqualValues(t, 3, tbl.NumCols())
	assert.Equal(t, "date", tbl.Schema().Field(0).Name)
	assert.True(t, arrow.TypeEqual(arrow.FixedWidthTypes.Date32, tbl.Schema().Field(0).Type))
	assert.Equal(t, 1, tbl.Column(2).NullN())
}
