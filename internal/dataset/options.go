// Package dataset loads a single nutrition table (CSV, TSV or XLSX) into food records.
package dataset

import (
	"errors"

	"go.uber.org/zap"
)

// Options controls how a dataset file is read.
type Options struct {
	// Delimiter for CSV. If 0, sniffed from the header line (',' ';' '\t').
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune // optional; if 0, auto-detect common separators (',' '.' space)
	// XLSX sheet selection; SheetName wins over the 1-based SheetIndex.
	SheetName  string
	SheetIndex int
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
	// Strict fails the load on the first malformed row instead of skipping it.
	Strict bool
	// Logger receives a debug entry per skipped row. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

var (
	// ErrMissingColumn means a required column is absent from the header.
	ErrMissingColumn = errors.New("missing required column")
	// ErrMalformedRecord means a data row could not be turned into a valid record.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrUnsupported indicates the file extension has no reader.
	ErrUnsupported = errors.New("unsupported dataset format")
)
