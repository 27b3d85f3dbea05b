// Package importer turns an uploaded CSV or XLSX sheet into employee payloads.
// The first row is a header naming the employee fields; column order is free.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"

	"hr-records/models"
)

type Kind string

const (
	KindCSV  Kind = "csv"
	KindXLSX Kind = "xlsx"
)

var (
	ErrUnsupportedType = errors.New("unsupported import file type")
	ErrMissingColumn   = errors.New("missing column in header")
	ErrEmptyFile       = errors.New("import file has no header row")
	ErrInvalidSalary   = errors.New("salary must be a finite number")
)

// Columns lists the header names recognised, in the order they are documented.
var Columns = []string{
	"name", "email", "phone", "dob", "address",
	"department_id", "position_id", "start_date", "salary",
}

// Record is one data row. Row counts data rows from 1, the header excluded.
// Err is set when the row could not be mapped onto a payload.
type Record struct {
	Row     int
	Payload models.EmployeePayload
	Err     error
}

// DetectKind sniffs the file content. Spreadsheets are zip archives and short CSV
// files are often plain text, so the extension settles those two cases.
func DetectKind(path string) (Kind, error) {
	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to detect file type: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))

	for m := mime; m != nil; m = m.Parent() {
		switch {
		case m.Is("text/csv"):
			return KindCSV, nil
		case m.Is("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"):
			return KindXLSX, nil
		case m.Is("application/zip") && ext == ".xlsx":
			return KindXLSX, nil
		case m.Is("text/plain") && ext == ".csv":
			return KindCSV, nil
		}
	}
	return "", fmt.Errorf("%s: %w", mime.String(), ErrUnsupportedType)
}

// Read parses the whole file according to kind.
func Read(r io.Reader, kind Kind) ([]Record, error) {
	switch kind {
	case KindCSV:
		return ReadCSV(r)
	case KindXLSX:
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("%s: %w", kind, ErrUnsupportedType)
	}
}

func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		rows = append(rows, fields)
	}
	return mapRows(rows)
}

// ReadXLSX reads the first sheet of the workbook.
func ReadXLSX(r io.Reader) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return mapRows(rows)
}

func mapRows(rows [][]string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows)-1)
	for _, fields := range rows[1:] {
		if blank(fields) {
			continue
		}
		record := Record{Row: len(records) + 1}
		record.Payload, record.Err = toPayload(fields, index)
		records = append(records, record)
	}
	return records, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, column := range Columns {
		if _, ok := index[column]; !ok {
			return nil, fmt.Errorf("%q: %w", column, ErrMissingColumn)
		}
	}
	return index, nil
}

func toPayload(fields []string, index map[string]int) (models.EmployeePayload, error) {
	get := func(column string) string {
		i := index[column]
		if i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	payload := models.EmployeePayload{
		Name:         get("name"),
		Email:        get("email"),
		Phone:        get("phone"),
		DOB:          get("dob"),
		Address:      get("address"),
		DepartmentID: get("department_id"),
		PositionID:   get("position_id"),
		StartDate:    get("start_date"),
	}

	raw := get("salary")
	if raw == "" {
		return payload, errors.New("salary: required")
	}
	salary, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return payload, fmt.Errorf("salary: %w", err)
	}
	if math.IsInf(salary, 0) || math.IsNaN(salary) {
		return payload, fmt.Errorf("salary %q: %w", raw, ErrInvalidSalary)
	}
	payload.Salary = salary
	return payload, nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// WriteTemplate writes an empty CSV with just the header row.
func WriteTemplate() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(Columns)
	w.Flush()
	return buf.Bytes()
}
