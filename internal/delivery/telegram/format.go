package telegram

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
	"github.com/yourusername/fulfil-dashboard-bot/internal/infrastructure/report"
	"github.com/yourusername/fulfil-dashboard-bot/internal/pipeline"
	"github.com/yourusername/fulfil-dashboard-bot/internal/usecase"
)

const (
	maxMessageLen = 4000
	barWidth      = 20
	chatBins      = 10
	historyLimit  = 15

	waitingMessage = "Please upload all three CSV files to begin analysis."
)

// FormatDashboard dashboardni chat matniga aylantirish
func FormatDashboard(d *entity.Dashboard, showDocs bool, docs string, topN int) string {
	var sb strings.Builder

	if showDocs && docs != "" {
		sb.WriteString("ℹ️ About\n")
		sb.WriteString(docs)
		sb.WriteString("\n\n")
	}

	sb.WriteString("📊 Departmental Analysis\n")
	sb.WriteString("Quantity sold by department:\n")
	for i, row := range limit(len(d.ByDepartmentQuantity), topN) {
		q := d.ByDepartmentQuantity[row]
		fmt.Fprintf(&sb, "%d. %s: %s%s\n", i+1, q.Department.Label(), formatNumber(q.Quantity), invalidNote(q.Invalid))
	}
	writeMore(&sb, len(d.ByDepartmentQuantity), topN)

	sb.WriteString("\nTotal volume by department (cubic inches):\n")
	for i, row := range limit(len(d.ByDepartmentVolume), topN) {
		v := d.ByDepartmentVolume[row]
		fmt.Fprintf(&sb, "%d. %s: %.2f%s\n", i+1, v.Department.Label(), v.TotalVolume, invalidNote(v.Invalid))
	}
	writeMore(&sb, len(d.ByDepartmentVolume), topN)

	sb.WriteString("\n⏰ Hourly Transaction Pattern\n")
	maxCount := 0
	for _, h := range d.Hourly {
		if h.TransactionCount > maxCount {
			maxCount = h.TransactionCount
		}
	}
	for _, h := range d.Hourly {
		fmt.Fprintf(&sb, "%s %s %d\n", hourLabel(h.Hour), bar(h.TransactionCount, maxCount), h.TransactionCount)
	}
	if len(d.Hourly) == 0 {
		sb.WriteString("No transactions.\n")
	}

	sb.WriteString("\n🧺 Basket Size Analysis\n")
	fmt.Fprintf(&sb, "Purchases: %d, line items: %d\n", d.PurchaseCount, d.LineCount)
	if d.MeanBasketSize.Valid {
		fmt.Fprintf(&sb, "Average Basket Size: %.2f items\n", d.MeanBasketSize.Value)
	} else {
		sb.WriteString("Average Basket Size: n/a\n")
	}
	bins := report.BasketHistogram(d.Baskets, chatBins)
	maxBin := 0
	for _, b := range bins {
		if b.Count > maxBin {
			maxBin = b.Count
		}
	}
	for _, b := range bins {
		fmt.Fprintf(&sb, "%s items %s %d\n", report.BinLabel(b), bar(b.Count, maxBin), b.Count)
	}

	if len(d.Warnings) > 0 {
		sb.WriteString("\n")
		for _, w := range d.Warnings {
			sb.WriteString("⚠️ ")
			sb.WriteString(w)
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatStatus qaysi fayllar yuklangani
func FormatStatus(s *entity.Session) string {
	var sb strings.Builder
	sb.WriteString("📂 Uploads\n")
	for _, kind := range entity.AllUploadKinds {
		up, ok := s.Uploads[kind]
		if !ok {
			fmt.Fprintf(&sb, "⏳ %s: not uploaded\n", kind)
			continue
		}
		rows := 0
		if up.Table != nil {
			rows = len(up.Table.Rows)
		}
		fmt.Fprintf(&sb, "✅ %s: %s (%d rows)\n", kind, up.Filename, rows)
	}

	if !s.Ready() {
		sb.WriteString("\n")
		sb.WriteString(waitingMessage)
	} else if s.Dashboard != nil {
		sb.WriteString("\nDashboard ready: /dashboard or /report")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatHistory audit log yozuvlari, yangilari birinchi
func FormatHistory(actions []entity.Action) string {
	if len(actions) == 0 {
		return "No activity yet."
	}
	var sb strings.Builder
	sb.WriteString("🗂 Recent activity\n")
	for _, a := range actions {
		fmt.Fprintf(&sb, "%s %s", a.Timestamp.UTC().Format("2006-01-02 15:04"), a.Action)
		if a.Details != "" {
			fmt.Fprintf(&sb, ": %s", a.Details)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatUploadResult yuklash natijasi haqida qisqa xabar
func FormatUploadResult(r *usecase.UploadResult) string {
	verb := "Received"
	if r.Replaced {
		verb = "Replaced"
	}
	msg := fmt.Sprintf("✅ %s %s as %s (%d rows).", verb, r.Filename, r.Kind, r.Rows)
	if r.Waiting() {
		names := make([]string, len(r.Missing))
		for i, k := range r.Missing {
			names[i] = string(k)
		}
		msg += fmt.Sprintf("\nStill missing: %s\n%s", strings.Join(names, ", "), waitingMessage)
	}
	return msg
}

// userErrorMessage xatolikni foydalanuvchiga tushunarli matnga aylantirish
func userErrorMessage(err error) string {
	var schemaErr *pipeline.SchemaError
	switch {
	case errors.Is(err, usecase.ErrNotAuthenticated):
		return "🔐 Please /login first."
	case errors.Is(err, usecase.ErrWaitingForInput):
		return waitingMessage
	case errors.Is(err, usecase.ErrUnsupportedFile):
		return "❌ Only .csv and .xlsx files are accepted."
	case errors.Is(err, usecase.ErrUnknownTable):
		return "❌ Could not tell which file this is.\n\n" + uploadInstructions()
	case errors.As(err, &schemaErr):
		return "❌ " + schemaErr.Error()
	case errors.Is(err, usecase.ErrInsightsDisabled):
		return "🤖 Insights are disabled: no GEMINI_API_KEY configured."
	case isQuotaError(err):
		return "⏳ AI quota exceeded, please try again later."
	default:
		return fmt.Sprintf("❌ Something went wrong: %v", err)
	}
}

// uploadInstructions har bir fayl uchun kutilgan ustunlar
func uploadInstructions() string {
	var sb strings.Builder
	sb.WriteString("Expected files:")
	for _, kind := range entity.AllUploadKinds {
		fmt.Fprintf(&sb, "\n• %s: %s", kind, strings.Join(pipeline.ExpectedColumns(kind), ", "))
	}
	return sb.String()
}

func isSupportedUpload(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xlsx", ".xlsm":
		return true
	}
	return false
}

func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") || strings.Contains(msg, "retry in") || strings.Contains(msg, "rate limit")
}

func truncateString(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// limit birinchi topN qator indekslari (topN<=0 = hammasi)
func limit(n, topN int) []int {
	if topN > 0 && n > topN {
		n = topN
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func writeMore(sb *strings.Builder, n, topN int) {
	if topN > 0 && n > topN {
		fmt.Fprintf(sb, "… and %d more (see /report)\n", n-topN)
	}
}

func invalidNote(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf(" (%d rows without value)", n)
}

func hourLabel(h entity.NullInt) string {
	if !h.Valid {
		return "??:00"
	}
	return fmt.Sprintf("%02d:00", h.Value)
}

func bar(n, max int) string {
	if max <= 0 || n <= 0 {
		return ""
	}
	w := n * barWidth / max
	if w == 0 {
		w = 1
	}
	return strings.Repeat("█", w)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
