// Package sqlite provides SQLite export of analysis sessions
package sqlite

import (
	"fmt"
	"math"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

const (
	// SchemaVersion is written to HeaderTable
	SchemaVersion = 1
	// Date format for HeaderTable (ISO 8601)
	headerDateFormat = "2006-01-02"
)

// Matrix names in IntensityTable
const (
	MatrixRaw     = "raw"
	MatrixWorking = "working"
)

// Header is the single HeaderTable row
type Header struct {
	Version      int    `db:"version"`
	CreationDate string `db:"CreationDate"`
	Software     string `db:"Software"`
	IndexColumn  string `db:"IndexColumn"`
	Description  string `db:"Description"`
}

// Writer handles writing a session to a SQLite database file
type Writer struct {
	db         *sqlx.DB
	tx         *sqlx.Tx
	outputPath string

	intensityStmt *sqlx.Stmt
	metadataStmt  *sqlx.Stmt
	stepStmt      *sqlx.Stmt
	resultStmt    *sqlx.Stmt

	header    Header
	finalized bool
}

// NewWriter creates a new SQLite writer. Everything is written in one transaction that
// Finalize commits.
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sqlx.Connect("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
		header:     Header{Version: SchemaVersion},
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if w.tx, err = db.Beginx(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := w.prepareStatements(); err != nil {
		w.tx.Rollback()
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS IntensityTable (
		Matrix TEXT NOT NULL,
		Sample TEXT NOT NULL,
		Protein TEXT NOT NULL,
		Intensity DOUBLE
	);

	CREATE TABLE IF NOT EXISTS MetadataTable (
		Sample TEXT NOT NULL,
		Variable TEXT NOT NULL,
		Value TEXT
	);

	CREATE TABLE IF NOT EXISTS PreprocessingTable (
		StepOrder INTEGER NOT NULL,
		Name TEXT NOT NULL,
		Value TEXT
	);

	CREATE TABLE IF NOT EXISTS ResultTable (
		Analysis TEXT NOT NULL,
		RowNumber INTEGER NOT NULL,
		ColumnName TEXT NOT NULL,
		Value TEXT
	);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		CreationDate TEXT,
		Software TEXT,
		IndexColumn TEXT,
		Description TEXT
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements() error {
	var err error

	w.intensityStmt, err = w.tx.Preparex(`INSERT INTO IntensityTable (Matrix, Sample, Protein, Intensity) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare intensity statement: %w", err)
	}

	w.metadataStmt, err = w.tx.Preparex(`INSERT INTO MetadataTable (Sample, Variable, Value) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare metadata statement: %w", err)
	}

	w.stepStmt, err = w.tx.Preparex(`INSERT INTO PreprocessingTable (StepOrder, Name, Value) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare preprocessing statement: %w", err)
	}

	w.resultStmt, err = w.tx.Preparex(`INSERT INTO ResultTable (Analysis, RowNumber, ColumnName, Value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare result statement: %w", err)
	}

	return nil
}

// WriteDataSet writes the raw and working matrices, the metadata and the preprocessing
// record of ds
func (w *Writer) WriteDataSet(ds *core.DataSet) error {
	w.header.Software = ds.Software
	w.header.IndexColumn = ds.IndexColumn

	if err := w.WriteMatrix(MatrixRaw, ds.RawMatrix); err != nil {
		return err
	}
	if err := w.WriteMatrix(MatrixWorking, ds.Matrix); err != nil {
		return err
	}
	if err := w.WriteMetadata(ds.Metadata); err != nil {
		return err
	}
	return w.WritePreprocessing(ds.Preprocessing)
}

// WriteMatrix writes m in long form, one row per sample and protein group. Missing
// values are stored as NULL.
func (w *Writer) WriteMatrix(name string, m *core.Matrix) error {
	samples, proteins := m.Dims()
	for i := 0; i < samples; i++ {
		for j := 0; j < proteins; j++ {
			var value interface{}
			if v := m.At(i, j); !math.IsNaN(v) {
				value = v
			}
			if _, err := w.intensityStmt.Exec(name, m.Samples[i], m.Proteins[j], value); err != nil {
				return fmt.Errorf("failed to insert intensity: %w", err)
			}
		}
	}
	return nil
}

// WriteMetadata writes every non sample column of t as Sample/Variable/Value rows
func (w *Writer) WriteMetadata(t *core.Table) error {
	idx := t.ColumnIndex(core.SampleColumn)
	if idx < 0 {
		return fmt.Errorf("%w: %s", core.ErrUnknownColumn, core.SampleColumn)
	}
	for _, row := range t.Rows {
		for k, variable := range t.Header {
			if k == idx {
				continue
			}
			if _, err := w.metadataStmt.Exec(row[idx], variable, row[k]); err != nil {
				return fmt.Errorf("failed to insert metadata: %w", err)
			}
		}
	}
	return nil
}

// WritePreprocessing writes the applied steps in order
func (w *Writer) WritePreprocessing(p core.Preprocessing) error {
	for i, s := range p.Steps {
		if _, err := w.stepStmt.Exec(i, s.Name, s.Value); err != nil {
			return fmt.Errorf("failed to insert preprocessing step: %w", err)
		}
	}
	return nil
}

// WriteResult writes an analysis result table cell by cell
func (w *Writer) WriteResult(analysis string, t *core.Table) error {
	for r, row := range t.Rows {
		for k, column := range t.Header {
			if _, err := w.resultStmt.Exec(analysis, r, column, row[k]); err != nil {
				return fmt.Errorf("failed to insert result: %w", err)
			}
		}
	}
	return nil
}

// Finalize writes the header table, commits and closes the database
func (w *Writer) Finalize() error {
	if w.finalized {
		return nil
	}
	w.finalized = true

	w.header.CreationDate = time.Now().Format(headerDateFormat)
	_, err := w.tx.NamedExec(`
		INSERT INTO HeaderTable (version, CreationDate, Software, IndexColumn, Description)
		VALUES (:version, :CreationDate, :Software, :IndexColumn, :Description)
	`, w.header)
	if err != nil {
		w.tx.Rollback()
		w.db.Close()
		return fmt.Errorf("failed to insert header: %w", err)
	}

	// Close prepared statements
	for _, stmt := range []*sqlx.Stmt{w.intensityStmt, w.metadataStmt, w.stepStmt, w.resultStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}

	if err := w.tx.Commit(); err != nil {
		w.db.Close()
		return fmt.Errorf("failed to commit: %w", err)
	}

	// Close database
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// SetDescription sets the header description
func (w *Writer) SetDescription(description string) {
	w.header.Description = description
}

// Close closes the database connection (alias for Finalize)
func (w *Writer) Close() error {
	return w.Finalize()
}
