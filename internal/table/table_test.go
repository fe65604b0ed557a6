package table

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/aaronsalm/kurve/internal/curve"
)

// writeCSV writes rows as a csv file under dir and returns its path.
func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

const validGrid = `,,10,,,acid
,,0.1,,,
,,0.1,,,base
,,,,,
,,,,,
0,,,,,
5,,,,,
10,,,,,
`

func TestLoad_ValidCSV(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "exp.csv", validGrid)
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := curve.Input{
		SampleVolume:   10,
		SampleConc:     0.1,
		TitrantConc:    0.1,
		TitrantVolumes: []float64{0, 5, 10},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_DecimalComma(t *testing.T) {
	grid := `,,10,,,
,,"0,1",,,
,,"0,1",,,
,,,,,
,,,,,
"2,5",,,,,
`
	path := writeCSV(t, t.TempDir(), "comma.csv", grid)
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.SampleConc != 0.1 || got.TitrantVolumes[0] != 2.5 {
		t.Errorf("decimal comma not parsed: %+v", got)
	}
}

func TestLoad_ValidWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exp.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for cell, v := range map[string]float64{"C1": 10, "C2": 0.1, "C3": 0.1, "A6": 0, "A7": 5} {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("set cell %s: %v", cell, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.SampleVolume != 10 || len(got.TitrantVolumes) != 2 {
		t.Errorf("unexpected input: %+v", got)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.xlsx"))
	if !errors.Is(err, ErrFileMissing) {
		t.Errorf("error = %v, want ErrFileMissing", err)
	}
}

func TestLoad_Directory(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrFileMissing) {
		t.Errorf("error = %v, want ErrFileMissing", err)
	}
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"too few rows", ",,10\n,,0.1\n,,0.1\n"},
		{"missing header value", ",,10,,,\n,,,,,\n,,0.1,,,\n,,,,,\n,,,,,\n5,,,,,\n"},
		{"non numeric header", ",,ten,,,\n,,0.1,,,\n,,0.1,,,\n,,,,,\n,,,,,\n5,,,,,\n"},
		{"non numeric volume", ",,10,,,\n,,0.1,,,\n,,0.1,,,\n,,,,,\n,,,,,\nfive,,,,,\n"},
		{"empty volume row", ",,10,,,\n,,0.1,,,\n,,0.1,,,\n,,,,,\n,,,,,\n,,,,,\n"},
	}
	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, dir, "bad.csv", tt.content)
			if _, err := Load(path); !errors.Is(err, ErrMalformed) {
				t.Errorf("error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestLoad_UnreadableWorkbook(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "garbage.xlsx", "this is not a zip archive")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for garbage workbook")
	}
	if errors.Is(err, ErrFileMissing) || errors.Is(err, ErrMalformed) || errors.Is(err, ErrNoSheet) {
		t.Errorf("read failure misclassified: %v", err)
	}
}

func TestLoadCurve(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "exp.csv", validGrid)
	out, err := LoadCurve(path)
	if err != nil {
		t.Fatalf("LoadCurve() error: %v", err)
	}
	if len(out.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(out.Points))
	}
	if out.Points[2].PH != 7 {
		t.Errorf("equivalence point pH = %v, want 7", out.Points[2].PH)
	}
}
