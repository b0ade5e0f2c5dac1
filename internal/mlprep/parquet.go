package mlprep

import (
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

const parquetChunkSize = 64 * 1024

// Schema builds the explicit arrow schema for a frame: int64 fields for
// encoded categoricals, float64 for scaled numerics.
func (f *Frame) Schema() *arrow.Schema {
	fields := make([]arrow.Field, len(f.Cols))
	for i, c := range f.Cols {
		t := arrow.PrimitiveTypes.Float64
		if c.Ints != nil {
			t = arrow.PrimitiveTypes.Int64
		}
		fields[i] = arrow.Field{Name: c.Name, Type: t}
	}
	return arrow.NewSchema(fields, nil)
}

// WriteParquet writes the frame as a snappy-compressed Parquet file.
func (f *Frame) WriteParquet(path string) error {
	schema := f.Schema()

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	for i, c := range f.Cols {
		switch b := builder.Field(i).(type) {
		case *array.Int64Builder:
			b.AppendValues(c.Ints, nil)
		case *array.Float64Builder:
			b.AppendValues(c.Floats, nil)
		default:
			return fmt.Errorf("column %s: unsupported builder %T", c.Name, b)
		}
	}

	record := builder.NewRecord()
	defer record.Release()

	table := array.NewTableFromRecords(schema, []arrow.Record{record})
	defer table.Release()

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	if err := pqarrow.WriteTable(table, out, parquetChunkSize, props, pqarrow.DefaultWriterProps()); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
