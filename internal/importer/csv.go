package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/appletgen/internal/domain"
)

// ErrNoFields is returned when the input holds no schema column at all.
var ErrNoFields = errors.New("no applet fields found")

// csvPreamble is written ahead of the field rows so the file reads well when
// opened in a spreadsheet. The reader skips it as unknown fields.
var csvPreamble = [][]string{
	{"APPLET CSV", ""},
	{"Complete the fields below to generate an applet.", ""},
}

// ReadRecord parses either layout of the tabular input:
//
//   - vertical: one "field,value" pair per row (the layout WriteRecord emits)
//   - horizontal: a header row of field names followed by one data row
func ReadRecord(r io.Reader) (*domain.AppletRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoFields
	}

	var fields map[fieldKey]string
	if isHorizontal(records) {
		fields = horizontalFields(records)
	} else {
		fields = verticalFields(records)
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	return buildRecord(fields), nil
}

// isHorizontal detects a header row that names several schema columns.
func isHorizontal(records [][]string) bool {
	if len(records) < 2 {
		return false
	}
	known := 0
	for _, h := range records[0] {
		if _, ok := parseField(h); ok {
			known++
		}
	}
	return known >= 2
}

func horizontalFields(records [][]string) map[fieldKey]string {
	fields := make(map[fieldKey]string)
	header, data := records[0], records[1]
	for i, h := range header {
		k, ok := parseField(h)
		if !ok || i >= len(data) {
			continue
		}
		fields[k] = data[i]
	}
	return fields
}

func verticalFields(records [][]string) map[fieldKey]string {
	fields := make(map[fieldKey]string)
	for _, row := range records {
		if len(row) < 2 {
			continue
		}
		k, ok := parseField(row[0])
		if !ok {
			continue
		}
		fields[k] = row[1]
	}
	return fields
}

// WriteRecord writes rec in the vertical layout. Output is deterministic for
// a given record.
func WriteRecord(w io.Writer, rec *domain.AppletRecord) error {
	cw := csv.NewWriter(w)
	for _, row := range csvPreamble {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}
	for _, kv := range rows(rec) {
		if err := cw.Write([]string{kv[0], kv[1]}); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// FormatRecord renders rec as CSV text.
func FormatRecord(rec *domain.AppletRecord) (string, error) {
	var b strings.Builder
	if err := WriteRecord(&b, rec); err != nil {
		return "", err
	}
	return b.String(), nil
}
