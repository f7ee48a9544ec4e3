package entity

// Table yuklangan jadval: sarlavha va qatorlar
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// ColumnIndex ustun indeksini topish (-1 agar yo'q bo'lsa)
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// HasColumn ustun borligini tekshirish
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Cell qator va ustun bo'yicha qiymat; qisqa qatorlar bo'sh qiymat qaytaradi
func (t *Table) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}
