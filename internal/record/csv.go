package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/rocketsim/internal/sim"
)

// CSVSink writes the header on creation and one row per record.
type CSVSink struct {
	out io.WriteCloser
	w   *csv.Writer
}

func NewCSVSink(out io.WriteCloser) (*CSVSink, error) {
	s := &CSVSink{out: out, w: csv.NewWriter(out)}
	if err := s.w.Write(Columns); err != nil {
		return nil, err
	}
	return s, nil
}

// CreateCSV truncates or creates path.
func CreateCSV(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", path, err)
	}
	s, err := NewCSVSink(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *CSVSink) Emit(r sim.Record) error {
	return s.w.Write(Fields(r))
}

func (s *CSVSink) Close() error {
	s.w.Flush()
	werr := s.w.Error()
	cerr := s.out.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

// ReadCSV loads every record from a file written by CSVSink.
func ReadCSV(r io.Reader) ([]sim.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []sim.Record{}, nil
	}

	out := make([]sim.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := Parse(i, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
