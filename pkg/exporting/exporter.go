package exporting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sapmachine/vitals/pkg/vitals"
)

// Exporter writes sample windows to session-named files in one directory.
type Exporter struct {
	dir     string
	session uuid.UUID
	logger  zerolog.Logger
}

// NewExporter creates the output directory if needed and picks a fresh
// session ID for file naming.
func NewExporter(dir string, logger zerolog.Logger) (*Exporter, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Exporter{dir: dir, session: uuid.New(), logger: logger}, nil
}

// Session returns the session ID used in exported file names.
func (e *Exporter) Session() uuid.UUID {
	return e.session
}

// ExportWindow persists the window in the requested format and returns the
// file path. The schema is the sample timestamp plus the qualified name of
// every active column; unavailable readings become missing fields.
func (e *Exporter) ExportWindow(reg *vitals.Registry, window []*vitals.Sample, format string) (string, error) {
	w, err := NewFormatWriter(format)
	if err != nil {
		return "", err
	}

	cols := reg.Columns()
	schema := make([]string, 0, len(cols)+1)
	schema = append(schema, "time")
	for _, c := range cols {
		schema = append(schema, c.QualifiedName())
	}

	path := filepath.Join(e.dir, fmt.Sprintf("vitals_%s%s", e.session, w.Extension()))
	if err := w.Init(path, schema); err != nil {
		return "", err
	}

	for _, s := range window {
		record := make(Record, len(schema))
		record["time"] = s.Timestamp().Format(time.RFC3339Nano)
		for _, c := range cols {
			if v := s.Value(c.Index()); vitals.IsValid(v) {
				record[c.QualifiedName()] = int64(v)
			}
		}
		if err := w.Write(record); err != nil {
			w.Close()
			return "", fmt.Errorf("writing record: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("closing %s export: %w", format, err)
	}
	e.logger.Debug().Str("path", path).Int("samples", len(window)).Msg("window exported")
	return path, nil
}
