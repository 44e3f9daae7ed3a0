package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// RowReader yields table rows, header first. Next returns io.EOF when done.
type RowReader interface {
	Next() ([]string, error)
	Close() error
}

// lineReporter is implemented by readers that know the file line of the
// last row returned by Next.
type lineReporter interface {
	Line() int
}

// Source opens a dataset file of a particular format.
type Source interface {
	CanRead(filename string) bool
	Open(path string, opt Options) (RowReader, error)
}

var registry []Source

// Register adds a source implementation to the registry.
func Register(s Source) {
	registry = append(registry, s)
}

func sourceFor(path string) (Source, error) {
	for _, s := range registry {
		if s.CanRead(path) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
}

func init() {
	Register(csvSource{})
	Register(xlsxSource{})
}

type csvSource struct{}

func (csvSource) CanRead(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

func (csvSource) Open(path string, opt Options) (RowReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	br := bufio.NewReader(f)
	delim := opt.Delimiter
	if delim == 0 {
		head, _ := br.Peek(4096)
		delim = sniffDelimiter(path, head)
	}
	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim
	return &csvRows{f: f, r: r}, nil
}

type csvRows struct {
	f    *os.File
	r    *csv.Reader
	line int
}

func (c *csvRows) Next() ([]string, error) {
	rec, err := c.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read row %d: %w", c.line+1, err)
	}
	c.line++
	return rec, nil
}

// Line is the 1-based file line where the last row started. Empty lines,
// which encoding/csv skips, are counted.
func (c *csvRows) Line() int {
	line, _ := c.r.FieldPos(0)
	return line
}

func (c *csvRows) Close() error { return c.f.Close() }
