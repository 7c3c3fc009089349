// Package exporting persists vitals sample history to files: CSV for
// spreadsheets, JSONL for streaming consumers, Parquet for columnar
// analysis.
package exporting

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Record is one exported row: qualified column names to values. Missing keys
// are unavailable readings.
type Record = map[string]interface{}

// FormatWriter writes records of a fixed schema to one output file.
type FormatWriter interface {
	Init(path string, schema []string) error
	Write(record Record) error
	Close() error
	Extension() string
}

// NewFormatWriter creates a FormatWriter for the given format name.
func NewFormatWriter(format string) (FormatWriter, error) {
	switch strings.ToLower(format) {
	case "csv":
		return &csvWriter{}, nil
	case "jsonl":
		return &jsonlWriter{}, nil
	case "parquet":
		return &parquetWriter{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: csv, jsonl, parquet)", format)
	}
}

type csvWriter struct {
	file   *os.File
	writer *csv.Writer
	schema []string
}

func (w *csvWriter) Init(path string, schema []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv file: %w", err)
	}
	w.file = f
	w.writer = csv.NewWriter(f)
	w.schema = schema
	if err := w.writer.Write(schema); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	return nil
}

func (w *csvWriter) Write(record Record) error {
	row := make([]string, len(w.schema))
	for i, key := range w.schema {
		if val, ok := record[key]; ok && val != nil {
			row[i] = fmt.Sprintf("%v", val)
		}
	}
	return w.writer.Write(row)
}

func (w *csvWriter) Close() error {
	if w.writer != nil {
		w.writer.Flush()
		if err := w.writer.Error(); err != nil {
			return err
		}
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

func (w *csvWriter) Extension() string { return ".csv" }

type jsonlWriter struct {
	file   *os.File
	writer *bufio.Writer
	schema []string
}

func (w *jsonlWriter) Init(path string, schema []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating jsonl file: %w", err)
	}
	w.file = f
	w.writer = bufio.NewWriter(f)
	w.schema = schema
	return nil
}

func (w *jsonlWriter) Write(record Record) error {
	ordered := make(Record, len(w.schema))
	for _, key := range w.schema {
		if val, ok := record[key]; ok {
			ordered[key] = val
		}
	}
	data, err := json.Marshal(ordered)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	if _, err := w.writer.Write(data); err != nil {
		return err
	}
	return w.writer.WriteByte('\n')
}

func (w *jsonlWriter) Close() error {
	if w.writer != nil {
		if err := w.writer.Flush(); err != nil {
			return err
		}
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

func (w *jsonlWriter) Extension() string { return ".jsonl" }

type parquetWriter struct {
	file   *os.File
	writer *parquet.GenericWriter[any]
	schema []string
}

func (w *parquetWriter) Init(path string, schema []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating parquet file: %w", err)
	}
	w.file = f
	w.schema = schema

	fields := make(map[string]parquet.Node, len(schema))
	for _, name := range schema {
		if name == "time" {
			fields[name] = parquet.Optional(parquet.String())
			continue
		}
		fields[name] = parquet.Optional(parquet.Leaf(parquet.Int64Type))
	}
	w.writer = parquet.NewGenericWriter[any](f, parquet.NewSchema("vitals", parquet.Group(fields)))
	return nil
}

func (w *parquetWriter) Write(record Record) error {
	_, err := w.writer.Write([]any{record})
	return err
}

func (w *parquetWriter) Close() error {
	if w.writer != nil {
		if err := w.writer.Close(); err != nil {
			return fmt.Errorf("closing parquet writer: %w", err)
		}
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

func (w *parquetWriter) Extension() string { return ".parquet" }
