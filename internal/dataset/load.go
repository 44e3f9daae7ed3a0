package dataset

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/nutriscan-cli/internal/food"
	"go.uber.org/zap"
)

// Dataset is the ordered set of valid records read from one file.
type Dataset struct {
	Name     string
	Rows     int // data rows seen, excluding the header
	Records  []food.Record
	Skipped  int
	Warnings []string
}

// Load reads the file at path into a Dataset.
func Load(path string, opt Options) (*Dataset, error) {
	src, err := sourceFor(path)
	if err != nil {
		return nil, err
	}
	rr, err := src.Open(path, opt)
	if err != nil {
		return nil, err
	}
	defer rr.Close()
	return Read(filepath.Base(path), rr, opt)
}

// Read consumes rows (header first) and keeps the rows that form valid records.
// Malformed rows are skipped with a warning, or fail the read when opt.Strict.
func Read(name string, rr RowReader, opt Options) (*Dataset, error) {
	log := opt.logger().With(zap.String("dataset", name))
	ds := &Dataset{Name: name}

	header, err := rr.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ds, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cm, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	processed := 0
	physical := 1 // header
	lines, _ := rr.(lineReporter)
	for {
		row, err := rr.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		physical++
		if blankRow(row) {
			continue
		}
		ds.Rows++
		if processed >= maxRows {
			continue
		}
		processed++
		line := physical
		if lines != nil {
			line = lines.Line()
		}
		rec, err := parseRow(row, cm, opt)
		if err != nil {
			if opt.Strict {
				return nil, fmt.Errorf("row %d: %w: %v", line, ErrMalformedRecord, err)
			}
			ds.Skipped++
			ds.Warnings = append(ds.Warnings, fmt.Sprintf("skipped row %d: %v", line, err))
			log.Debug("skipping malformed row", zap.Int("row", line), zap.Error(err))
			continue
		}
		ds.Records = append(ds.Records, rec)
	}
	if processed < ds.Rows {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", processed, ds.Rows))
	}
	log.Debug("dataset loaded", zap.Int("rows", ds.Rows), zap.Int("records", len(ds.Records)), zap.Int("skipped", ds.Skipped))
	return ds, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
