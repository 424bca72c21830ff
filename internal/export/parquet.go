// Package export converts rate tables to Apache Arrow records and Parquet files.
package export

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"fxreader/internal/ratetable"
)

// DateField is the name of the index column in exported records.
const DateField = "date"

// Schema returns the Arrow schema for tbl: a non-null date32 index followed by
// one nullable float64 column per currency pair.
func Schema(tbl *ratetable.Table) *arrow.Schema {
	cols := tbl.Columns()
	fields := make([]arrow.Field, 0, len(cols)+1)
	fields = append(fields, arrow.Field{Name: DateField, Type: arrow.FixedWidthTypes.Date32})
	for _, c := range cols {
		fields = append(fields, arrow.Field{Name: c, Type: arrow.PrimitiveTypes.Float64, Nullable: true})
	}
	return arrow.NewSchema(fields, nil)
}

// ToRecord builds an Arrow record from tbl. The caller must Release it.
func ToRecord(tbl *ratetable.Table, mem memory.Allocator) arrow.Record {
	schema := Schema(tbl)
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	rows := tbl.Rows()
	dates := b.Field(0).(*array.Date32Builder)
	dates.Reserve(len(rows))
	for _, r := range rows {
		dates.Append(arrow.Date32FromTime(r.Date))
	}

	for i := range tbl.ColumnCount() {
		col := b.Field(i + 1).(*array.Float64Builder)
		col.Reserve(len(rows))
		for _, r := range rows {
			v := r.Values[i]
			if !v.Valid {
				col.AppendNull()
				continue
			}
			col.Append(v.Decimal.InexactFloat64())
		}
	}

	return b.NewRecord()
}

// WriteParquet writes tbl to w as a Snappy-compressed Parquet file.
func WriteParquet(w io.Writer, tbl *ratetable.Table) error {
	rec := ToRecord(tbl, memory.NewGoAllocator())
	defer rec.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(rec.Schema(), w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	if err := writer.Write(rec); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write table to parquet: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
