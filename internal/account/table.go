// Package account loads the per-account configuration workbook: one row
// per login id, carrying the four shop title suffixes the fan-out flow
// appends.
package account

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// suffix column count matches the marketplace sibling slots.
const suffixColumns = 4

// Account is one workbook row.
type Account struct {
	LoginID  string
	Suffixes [suffixColumns]string
}

// Table holds the loaded workbook, keyed by lowercased login id.
type Table struct {
	accounts map[string]Account
}

// headerAliases maps recognized header names to their field.
var headerAliases = map[string]string{
	"id":        "login",
	"login_id":  "login",
	"loginid":   "login",
	"아이디":       "login",
	"suffixa3":  "s0",
	"suffix_a3": "s0",
	"suffixb3":  "s1",
	"suffix_b3": "s1",
	"suffixc3":  "s2",
	"suffix_c3": "s2",
	"suffixd3":  "s3",
	"suffix_d3": "s3",
}

// Load reads the workbook at path. When a sheet named loginID exists it is
// read alone; otherwise the first sheet is used.
func Load(path, loginID string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open account workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetList()[0]
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(name, loginID) {
			sheet = name
			break
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	// Resolve which column holds which field from the header row.
	cols := map[string]int{}
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if field, ok := headerAliases[key]; ok {
			cols[field] = i
		}
	}
	if _, ok := cols["login"]; !ok {
		return nil, fmt.Errorf("sheet %q has no login id column", sheet)
	}

	t := &Table{accounts: map[string]Account{}}
	for _, row := range rows[1:] {
		login := cell(row, cols["login"])
		if login == "" {
			continue
		}
		acct := Account{LoginID: login}
		for s := 0; s < suffixColumns; s++ {
			if idx, ok := cols[fmt.Sprintf("s%d", s)]; ok {
				acct.Suffixes[s] = cell(row, idx)
			}
		}
		t.accounts[strings.ToLower(login)] = acct
	}
	if len(t.accounts) == 0 {
		return nil, fmt.Errorf("sheet %q yielded no accounts", sheet)
	}
	return t, nil
}

// cell reads a trimmed cell value, tolerating short rows.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Get looks up an account by login id, case-insensitively.
func (t *Table) Get(loginID string) (Account, bool) {
	acct, ok := t.accounts[strings.ToLower(loginID)]
	return acct, ok
}

// Len reports the number of loaded accounts.
func (t *Table) Len() int {
	return len(t.accounts)
}
