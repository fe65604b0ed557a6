// Package table reads titration experiments from spreadsheet files.
//
// The expected grid is fixed (values are anchored by position, not by
// header text):
//
//	row 1, col C: sample volume (mL)
//	row 2, col C: sample concentration (mol/L)
//	row 3, col C: titrant concentration (mol/L)
//	rows 6..n, col A: titrant volumes (mL), one per measurement
//
// Excel-family workbooks are read with excelize; .csv files are parsed
// with the same grid rules.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aaronsalm/kurve/internal/curve"
)

// headerRows is the number of leading rows before the volume column starts.
const headerRows = 5

var (
	// ErrFileMissing is returned when the path does not exist or is not a
	// regular file.
	ErrFileMissing = errors.New("table: file does not exist")
	// ErrNoSheet is returned when a workbook contains no worksheets.
	ErrNoSheet = errors.New("table: workbook has no worksheet")
	// ErrMalformed is returned when the grid does not follow the expected
	// layout.
	ErrMalformed = errors.New("table: not correctly formatted")
)

// Extensions lists the file extensions the loader understands, used for
// the file-dialog filter.
var Extensions = []string{"xlsx", "xlsm", "xltx", "xltm", "csv"}

// Load parses the spreadsheet at path into a titration input.
func Load(path string) (curve.Input, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return curve.Input{}, ErrFileMissing
	}
	var rows [][]string
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		rows, err = readCSV(path)
	} else {
		rows, err = readWorkbook(path)
	}
	if err != nil {
		return curve.Input{}, err
	}
	return parseGrid(rows)
}

// LoadCurve parses the spreadsheet at path and computes its curve. This is
// the loader the worker drives.
func LoadCurve(path string) (*curve.Output, error) {
	in, err := Load(path)
	if err != nil {
		return nil, err
	}
	return in.Compute(), nil
}

func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("table: read workbook: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("table: read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("table: open csv: %w", err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	var rows [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("table: read csv: %w", err)
		}
		rows = append(rows, record)
	}
}

func parseGrid(rows [][]string) (curve.Input, error) {
	if len(rows) <= headerRows {
		return curve.Input{}, ErrMalformed
	}
	sampleVolume, ok1 := cellFloat(rows, 0, 2)
	sampleConc, ok2 := cellFloat(rows, 1, 2)
	titrantConc, ok3 := cellFloat(rows, 2, 2)
	if !ok1 || !ok2 || !ok3 {
		return curve.Input{}, ErrMalformed
	}
	volumes := make([]float64, 0, len(rows)-headerRows)
	for _, row := range rows[headerRows:] {
		v, ok := cellFloat([][]string{row}, 0, 0)
		if !ok {
			return curve.Input{}, ErrMalformed
		}
		volumes = append(volumes, v)
	}
	return curve.Input{
		SampleVolume:   sampleVolume,
		SampleConc:     sampleConc,
		TitrantConc:    titrantConc,
		TitrantVolumes: volumes,
	}, nil
}

// cellFloat reads the cell at (row, col) as a float. Spreadsheet locales
// that write decimal commas are accepted.
func cellFloat(rows [][]string, row, col int) (float64, bool) {
	if row >= len(rows) || col >= len(rows[row]) {
		return 0, false
	}
	s := strings.TrimSpace(rows[row][col])
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
