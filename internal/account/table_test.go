package account

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatal(err)
		}
	}
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				t.Fatal(err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "accounts.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadReadsSuffixColumns(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]string{
		{"login_id", "suffixA3", "suffixB3", "suffixC3", "suffixD3"},
		{"seller1", "알파", "베타", "감마", "델타"},
		{"seller2", "A", "B", "C", "D"},
	})

	table, err := Load(path, "seller1")
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 2 {
		t.Fatalf("got %d accounts, want 2", table.Len())
	}

	acct, ok := table.Get("SELLER1")
	if !ok {
		t.Fatal("case-insensitive lookup failed")
	}
	want := [4]string{"알파", "베타", "감마", "델타"}
	if acct.Suffixes != want {
		t.Fatalf("got %v, want %v", acct.Suffixes, want)
	}
}

func TestLoadPrefersLoginSheet(t *testing.T) {
	f := excelize.NewFile()
	for i, val := range []string{"id", "suffixA3"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue("Sheet1", cell, val)
	}
	f.SetCellValue("Sheet1", "A2", "wrong")
	f.SetCellValue("Sheet1", "B2", "X")

	if _, err := f.NewSheet("seller9"); err != nil {
		t.Fatal(err)
	}
	f.SetCellValue("seller9", "A1", "id")
	f.SetCellValue("seller9", "B1", "suffixA3")
	f.SetCellValue("seller9", "A2", "seller9")
	f.SetCellValue("seller9", "B2", "정답")

	path := filepath.Join(t.TempDir(), "accounts.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	table, err := Load(path, "seller9")
	if err != nil {
		t.Fatal(err)
	}
	acct, ok := table.Get("seller9")
	if !ok {
		t.Fatal("account missing from named sheet")
	}
	if acct.Suffixes[0] != "정답" {
		t.Fatalf("got %q, want %q", acct.Suffixes[0], "정답")
	}
}

func TestLoadRejectsMissingLoginColumn(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]string{
		{"name", "suffixA3"},
		{"x", "y"},
	})
	if _, err := Load(path, "seller1"); err == nil {
		t.Fatal("workbook without a login column must not load")
	}
}
