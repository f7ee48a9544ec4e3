package report

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/repository"
)

const (
	sheetDepartments = "Departments"
	sheetVolume      = "Volume"
	sheetHourly      = "Hourly"
	sheetBaskets     = "Baskets"
	sheetNotes       = "Notes"
)

type xlsxRenderer struct {
	title string
	bins  int
}

// NewXLSXRenderer dashboardni grafiklar bilan Excel faylga yozadigan renderer
func NewXLSXRenderer(title string, bins int) repository.ReportRenderer {
	if bins <= 0 {
		bins = DefaultBins
	}
	return &xlsxRenderer{title: title, bins: bins}
}

// Filename hisobot fayli nomi
func (r *xlsxRenderer) Filename() string {
	return "fulfil_dashboard.xlsx"
}

// Render to'rtta view va grafiklarni workbook ga yozish
func (r *xlsxRenderer) Render(d *entity.Dashboard) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("no dashboard to render")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetDepartments); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{sheetVolume, sheetHourly, sheetBaskets, sheetNotes} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	steps := []func(*excelize.File, *entity.Dashboard) error{
		r.writeDepartments,
		r.writeVolume,
		r.writeHourly,
		r.writeBaskets,
		r.writeNotes,
	}
	for _, step := range steps {
		if err := step(f, d); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *xlsxRenderer) writeDepartments(f *excelize.File, d *entity.Dashboard) error {
	rows := [][]interface{}{{"Department", "Units Sold", "Rows Without Quantity"}}
	for _, g := range d.ByDepartmentQuantity {
		rows = append(rows, []interface{}{g.Department.Label(), g.Quantity, g.Invalid})
	}
	if err := writeRows(f, sheetDepartments, rows); err != nil {
		return err
	}
	return addChart(f, sheetDepartments, excelize.Col, "Total Quantity Sold by Department", len(rows)-1)
}

func (r *xlsxRenderer) writeVolume(f *excelize.File, d *entity.Dashboard) error {
	rows := [][]interface{}{{"Department", "Total Volume", "Rows Without Volume"}}
	for _, g := range d.ByDepartmentVolume {
		rows = append(rows, []interface{}{g.Department.Label(), g.TotalVolume, g.Invalid})
	}
	if err := writeRows(f, sheetVolume, rows); err != nil {
		return err
	}
	return addChart(f, sheetVolume, excelize.Col, "Total Storage Volume by Department", len(rows)-1)
}

func (r *xlsxRenderer) writeHourly(f *excelize.File, d *entity.Dashboard) error {
	rows := [][]interface{}{{"Hour of Day", "Number of Transactions"}}
	for _, h := range d.Hourly {
		rows = append(rows, []interface{}{HourLabel(h.Hour), h.TransactionCount})
	}
	if err := writeRows(f, sheetHourly, rows); err != nil {
		return err
	}
	return addChart(f, sheetHourly, excelize.Line, "Transactions Per Hour", len(rows)-1)
}

func (r *xlsxRenderer) writeBaskets(f *excelize.File, d *entity.Dashboard) error {
	hist := BasketHistogram(d.Baskets, r.bins)
	rows := [][]interface{}{{"Number of Items in Basket", "Count"}}
	for _, b := range hist {
		rows = append(rows, []interface{}{BinLabel(b), b.Count})
	}
	if err := writeRows(f, sheetBaskets, rows); err != nil {
		return err
	}

	// Har bir xarid: D:E ustunlarda
	perPurchase := [][]interface{}{{"Purchase ID", "Basket Size"}}
	for _, b := range d.Baskets {
		perPurchase = append(perPurchase, []interface{}{b.PurchaseID, b.Size})
	}
	for i, row := range perPurchase {
		cell, err := excelize.CoordinatesToCellName(4, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetBaskets, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s: %w", sheetBaskets, err)
		}
	}

	title := "Distribution of Basket Sizes per Transaction"
	if d.MeanBasketSize.Valid {
		title = fmt.Sprintf("%s (Avg: %.2f)", title, d.MeanBasketSize.Value)
	}
	return addChart(f, sheetBaskets, excelize.Col, title, len(rows)-1)
}

func (r *xlsxRenderer) writeNotes(f *excelize.File, d *entity.Dashboard) error {
	mean := "n/a"
	if d.MeanBasketSize.Valid {
		mean = strconv.FormatFloat(d.MeanBasketSize.Value, 'f', 2, 64)
	}
	rows := [][]interface{}{
		{r.title},
		{"Generated At", d.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Line Items", d.LineCount},
		{"Products", d.ProductCount},
		{"Purchases", d.PurchaseCount},
		{"Average Basket Size", mean},
	}
	for _, w := range d.Warnings {
		rows = append(rows, []interface{}{"Warning", w})
	}
	return writeRows(f, sheetNotes, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s: %w", sheet, err)
		}
	}
	return nil
}

// addChart A ustun kategoriya, B ustun qiymat; data bo'lmasa grafik qo'shilmaydi
func addChart(f *excelize.File, sheet string, chartType excelize.ChartType, title string, n int) error {
	if n == 0 {
		return nil
	}
	series := excelize.ChartSeries{
		Name:       fmt.Sprintf("%s!$B$1", sheet),
		Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, n+1),
		Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheet, n+1),
	}
	if chartType == excelize.Line {
		series.Marker = excelize.ChartMarker{Symbol: "circle", Size: 6}
	}
	chart := &excelize.Chart{
		Type:   chartType,
		Series: []excelize.ChartSeries{series},
		Title:  []excelize.RichTextRun{{Text: title}},
		Legend: excelize.ChartLegend{Position: "none"},
		Dimension: excelize.ChartDimension{
			Width:  720,
			Height: 360,
		},
	}
	if err := f.AddChart(sheet, "G2", chart); err != nil {
		return fmt.Errorf("failed to add chart to %s: %w", sheet, err)
	}
	return nil
}

// HourLabel soat yoki "unknown"
func HourLabel(h entity.NullInt) string {
	if !h.Valid {
		return "unknown"
	}
	return strconv.Itoa(h.Value)
}

// BinLabel "3" yoki "3-5"
func BinLabel(b HistogramBin) string {
	if b.Start == b.End {
		return strconv.Itoa(b.Start)
	}
	return fmt.Sprintf("%d-%d", b.Start, b.End)
}
