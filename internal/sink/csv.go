package sink

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yanun0323/errors"

	"mcpricer/internal/model"
)

// CSV writes records as text rows under a fixed header.
type CSV struct {
	w      *bufio.Writer
	closer io.Closer
	buf    []byte
}

// NewCSV writes the header to w and returns a sink appending rows to it.
func NewCSV(w io.Writer) (*CSV, error) {
	s := &CSV{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	if _, err := s.w.WriteString(model.RecordHeader + "\n"); err != nil {
		return nil, errors.Wrap(err, "write csv header")
	}
	return s, nil
}

// CreateCSV truncates path and opens a CSV sink on it.
func CreateCSV(path string) (*CSV, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create csv dir").With("dir", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "create csv file").With("path", path)
	}
	s, err := NewCSV(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return s, nil
}

func (s *CSV) Write(records ...model.PathRecord) error {
	for _, rec := range records {
		s.buf = appendRow(s.buf[:0], rec)
		if _, err := s.w.Write(s.buf); err != nil {
			return errors.Wrap(err, "write csv row").With("index", rec.Index)
		}
	}
	return nil
}

// Flush pushes buffered rows to the underlying writer.
func (s *CSV) Flush() error {
	return s.w.Flush()
}

// Close flushes and closes the underlying writer when it is closable.
func (s *CSV) Close() error {
	if err := s.w.Flush(); err != nil {
		return errors.Wrap(err, "flush csv")
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// FormatRow renders one record the way CSV writes it, without the trailing newline.
func FormatRow(rec model.PathRecord) string {
	b := appendRow(nil, rec)
	return string(b[:len(b)-1])
}

func appendRow(dst []byte, rec model.PathRecord) []byte {
	dst = strconv.AppendInt(dst, rec.Index, 10)
	dst = append(dst, ',')
	dst = strconv.AppendFloat(dst, rec.Mean, 'f', 2, 64)
	dst = append(dst, ',')
	dst = strconv.AppendFloat(dst, rec.Min, 'f', 2, 64)
	dst = append(dst, ',')
	dst = strconv.AppendFloat(dst, rec.Max, 'f', 2, 64)
	dst = append(dst, ',')
	dst = strconv.AppendFloat(dst, rec.StdDev, 'f', 2, 64)
	dst = append(dst, ',')
	dst = strconv.AppendFloat(dst, rec.LastPrice, 'f', 6, 64)
	return append(dst, '\n')
}

// ReadCSV parses a file written by CSV.
func ReadCSV(r io.Reader) ([]model.PathRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 6
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}
	if got := strings.Join(header, ","); got != model.RecordHeader {
		return nil, errors.Errorf("unexpected csv header %q", got)
	}

	var records []model.PathRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv row").With("line", line)
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, errors.Wrap(err, "parse csv row").With("line", line)
		}
		records = append(records, rec)
	}
}

func parseRow(row []string) (model.PathRecord, error) {
	var (
		rec model.PathRecord
		err error
	)
	if rec.Index, err = strconv.ParseInt(row[0], 10, 64); err != nil {
		return rec, err
	}
	fields := []*float64{&rec.Mean, &rec.Min, &rec.Max, &rec.StdDev, &rec.LastPrice}
	for i, f := range fields {
		if *f, err = strconv.ParseFloat(row[i+1], 64); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string) ([]model.PathRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open csv file").With("path", path)
	}
	defer f.Close()
	return ReadCSV(f)
}
