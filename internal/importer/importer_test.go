package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("ID,Length,Width,Height,Qty\nA1,485,385,200,2\nB2,600,400,300,1\n")
	got := DetectCSVDelimiter(data)
	if got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("ID;Length;Width;Height;Qty\nA1;485;385;200;2\nB2;600;400;300;1\n")
	got := DetectCSVDelimiter(data)
	if got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("ID\tLength\tWidth\tHeight\tQty\nA1\t485\t385\t200\t2\n")
	got := DetectCSVDelimiter(data)
	if got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("ID|Length|Width|Height|Qty\nA1|485|385|200|2\n")
	got := DetectCSVDelimiter(data)
	if got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"ID", "Length", "Width", "Height", "Weight", "Quantity", "Rotation", "Family", "Stack"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{ID: 0, Length: 1, Width: 2, Height: 3, Weight: 4, Quantity: 5, Rotation: 6, Family: 7, Stack: 8}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_Aliases(t *testing.T) {
	row := []string{"Qty", "SKU", "L", "W", "H", "kg"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Quantity != 0 || mapping.ID != 1 || mapping.Length != 2 || mapping.Width != 3 || mapping.Height != 4 || mapping.Weight != 5 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
	if mapping.Family != -1 || mapping.Stack != -1 || mapping.Rotation != -1 {
		t.Errorf("expected absent columns at -1, got %+v", mapping)
	}
}

func TestDetectColumns_CaseInsensitive(t *testing.T) {
	row := []string{"  LENGTH ", "width", "HeIgHt", "QUANTITY"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Length != 0 || mapping.Width != 1 || mapping.Height != 2 || mapping.Quantity != 3 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	row := []string{"A1", "485", "385", "200", "17.4", "800"}
	mapping, isHeader := DetectColumns(row)

	if isHeader {
		t.Error("expected no header")
	}
	if mapping != positional {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "ID,Length,Width,Height,Weight,Qty,Rotation,Family,Stack\n" +
		"A1,485,385,200,17.4,800,all,A,yes\n" +
		"B2,1200,800,1000,250,4,none,B,no\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}

	a := result.Items[0]
	if a.ID != "A1" || a.Length != 485 || a.Width != 385 || a.Height != 200 {
		t.Errorf("unexpected first item %+v", a)
	}
	if a.Weight != 17.4 || a.Quantity != 800 {
		t.Errorf("expected weight 17.4 qty 800, got %v %d", a.Weight, a.Quantity)
	}
	if a.Rotation != model.RotationAll || a.Family != "A" || !a.Stackable {
		t.Errorf("unexpected flags %+v", a)
	}

	b := result.Items[1]
	if b.Rotation != model.RotationNone {
		t.Errorf("expected rotation none, got %q", b.Rotation)
	}
	if b.Stackable {
		t.Error("expected B2 to be non-stackable")
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "A1,485,385,200,17.4,800\nB2,600,400,300,10,3\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[1].ID != "B2" || result.Items[1].Quantity != 3 {
		t.Errorf("unexpected second item %+v", result.Items[1])
	}
	if !result.Items[1].Stackable {
		t.Error("expected items to default to stackable")
	}
}

func TestImportCSVFromReader_CommaDecimals(t *testing.T) {
	data := "ID;Length;Width;Height;Weight;Qty\nA1;485,5;385;200;17,4;2\n"

	result := ImportCSVFromReader(strings.NewReader(data), ';')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors %v)", len(result.Items), result.Errors)
	}
	if result.Items[0].Length != 485.5 || result.Items[0].Weight != 17.4 {
		t.Errorf("expected decimal comma parsing, got %+v", result.Items[0])
	}
}

func TestImportCSVFromReader_MissingRequiredColumns(t *testing.T) {
	data := "ID,Length,Width\nA1,485,385\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "Height") || !strings.Contains(result.Errors[0], "Quantity") {
		t.Errorf("expected missing Height and Quantity, got %q", result.Errors[0])
	}
}

func TestImportCSVFromReader_InvalidValues(t *testing.T) {
	data := "ID,Length,Width,Height,Qty\n" +
		"A1,abc,385,200,2\n" +
		"A2,485,385,200,x\n" +
		"A3,485,-1,200,2\n" +
		"A4,485,385,200,2\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(result.Errors), result.Errors)
	}
	if len(result.Items) != 1 || result.Items[0].ID != "A4" {
		t.Errorf("expected only A4 to be imported, got %+v", result.Items)
	}
	if !strings.HasPrefix(result.Errors[0], "Line 2:") {
		t.Errorf("expected error to name line 2, got %q", result.Errors[0])
	}
}

func TestImportCSVFromReader_QuantityCapped(t *testing.T) {
	data := "ID,Length,Width,Height,Weight,Qty\nA1,485,385,200,1,250000\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	if result.Items[0].Quantity != model.MaxQuantity {
		t.Errorf("expected quantity capped at %d, got %d", model.MaxQuantity, result.Items[0].Quantity)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "capped") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a cap warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_GeneratedIDs(t *testing.T) {
	data := "Length,Width,Height,Qty\n485,385,200,2\n600,400,300,1\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[0].ID != "ITEM-1" || result.Items[1].ID != "ITEM-2" {
		t.Errorf("expected generated ids, got %q %q", result.Items[0].ID, result.Items[1].ID)
	}
}

func TestImportCSVFromReader_SkipsEmptyRows(t *testing.T) {
	data := "ID,Length,Width,Height,Qty\nA1,485,385,200,2\n,,,,\nA2,485,385,200,2\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(result.Items))
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cargo.csv")
	content := "ID;Length;Width;Height;Qty\nA1;485;385;200;2\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors %v)", len(result.Items), result.Errors)
	}
	if result.Warnings[0] != "Detected semicolon delimiter" {
		t.Errorf("expected delimiter warning first, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/path/file.csv")

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cargo.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"SKU", "Length", "Width", "Height", "Weight", "Quantity", "Family"},
		{"A1", 485, 385, 200, 17.4, 800, "A"},
		{"B2", 1200, 800, 1000, 250, 4, "B"},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[0].ID != "A1" {
		t.Errorf("expected 'A1', got '%s'", result.Items[0].ID)
	}
	if result.Items[1].Length != 1200 {
		t.Errorf("expected length 1200, got %f", result.Items[1].Length)
	}
	if result.Items[1].Family != "B" {
		t.Errorf("expected family B, got %q", result.Items[1].Family)
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"A1", 485, 385, 200, 17.4, 2},
	})

	result := ImportExcel(path)

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors %v)", len(result.Items), result.Errors)
	}
	item := result.Items[0]
	if item.ID != "A1" || item.Weight != 17.4 || item.Quantity != 2 {
		t.Errorf("unexpected item %+v", item)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/cargo.xlsx")

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportFile_DispatchesOnExtension(t *testing.T) {
	xlsx := createTestExcel(t, [][]interface{}{
		{"ID", "L", "W", "H", "Qty"},
		{"A1", 485, 385, 200, 2},
	})
	if got := ImportFile(xlsx); len(got.Items) != 1 {
		t.Errorf("expected xlsx import of 1 item, got %+v", got)
	}

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "cargo.csv")
	if err := os.WriteFile(csvPath, []byte("ID,L,W,H,Qty\nA1,485,385,200,2\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if got := ImportFile(csvPath); len(got.Items) != 1 {
		t.Errorf("expected csv import of 1 item, got %+v", got)
	}
}
