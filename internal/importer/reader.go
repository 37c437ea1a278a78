// Package importer loads parking candidates from CSV and Excel files.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/tomaru/internal/models"
)

// ErrUnsupportedFormat is returned for file extensions other than .csv and .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// SupportedExtensions lists the file extensions ReadFile accepts.
var SupportedExtensions = []string{".csv", ".xlsx"}

// Supported reports whether path has a supported extension.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Header aliases, matched case-insensitively.
var columnAliases = map[string]string{
	"id":                "id",
	"name":              "name",
	"lat":               "lat",
	"latitude":          "lat",
	"lng":               "lng",
	"lon":               "lng",
	"long":              "lng",
	"longitude":         "lng",
	"demand":            "demand",
	"probability":       "demand",
	"historical_demand": "demand",
}

// ReadFile reads candidates from a .csv or .xlsx file.
func ReadFile(path string) ([]*models.Candidate, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ReadBytes(content, strings.ToLower(filepath.Ext(path)))
}

// ReadBytes parses content based on ext, which includes the leading dot.
func ReadBytes(content []byte, ext string) ([]*models.Candidate, error) {
	var rows [][]string
	var err error
	switch ext {
	case ".csv":
		rows, err = readCSV(content)
	case ".xlsx":
		rows, err = readExcel(content)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	return parseRows(rows)
}

func readCSV(content []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse CSV: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// readExcel returns the rows of the first sheet.
func readExcel(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func parseRows(rows [][]string) ([]*models.Candidate, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing header row", models.ErrInvalidInput)
	}

	columns := make(map[string]int)
	for i, h := range rows[0] {
		if name, ok := columnAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, dup := columns[name]; !dup {
				columns[name] = i
			}
		}
	}
	for _, required := range []string{"name", "lat", "lng"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: missing %q column", models.ErrInvalidInput, required)
		}
	}

	candidates := make([]*models.Candidate, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if blank(row) {
			continue
		}
		in, err := parseRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		candidates = append(candidates, in.Candidate())
	}
	return candidates, nil
}

func parseRow(row []string, columns map[string]int) (*models.CandidateInput, error) {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	in := &models.CandidateInput{Name: cell("name")}
	var err error
	if v := cell("id"); v != "" {
		if in.ID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("%w: id %q", models.ErrInvalidInput, v)
		}
	}
	if in.Latitude, err = parseFloat("lat", cell("lat")); err != nil {
		return nil, err
	}
	if in.Longitude, err = parseFloat("lng", cell("lng")); err != nil {
		return nil, err
	}
	if v := cell("demand"); v != "" {
		if in.HistoricalDemand, err = parseFloat("demand", strings.TrimSuffix(v, "%")); err != nil {
			return nil, err
		}
	}
	return in, nil
}

func parseFloat(column, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", models.ErrInvalidInput, column, v)
	}
	return f, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
