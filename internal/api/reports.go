package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mlipovsek/tillpoint/internal/mailer"
	"github.com/mlipovsek/tillpoint/internal/report"
	"github.com/mlipovsek/tillpoint/internal/store"
)

// ReportMailer sends rendered reports; satisfied by mailer.Mailer.
type ReportMailer interface {
	SendReport(to, subject string, htmlBody []byte, attachments ...mailer.Attachment) error
}

// ReportsHandler handles reporting and export endpoints. Mailer is nil when
// SMTP is not configured.
type ReportsHandler struct {
	DB     *sql.DB
	Mailer ReportMailer
}

// dateRange reads from/to query params, defaulting both to today.
func dateRange(r *http.Request) (string, string, error) {
	today := time.Now().Format("2006-01-02")
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" {
		from = today
	}
	if to == "" {
		to = today
	}
	for _, d := range []string{from, to} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return "", "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", d)
		}
	}
	return from, to, nil
}

// Summary handles GET /pos/reports/summary.
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := store.SalesSummary(r.Context(), h.DB, from, to)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}
	jsonResponse(w, http.StatusOK, summary)
}

// Hourly handles GET /pos/reports/hourly?date=YYYY-MM-DD.
func (h *ReportsHandler) Hourly(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("date")
	if day == "" {
		day = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", day); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	buckets, err := store.HourlyBreakdown(r.Context(), h.DB, day)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to build hourly breakdown")
		return
	}
	jsonResponse(w, http.StatusOK, buckets)
}

// Categories handles GET /pos/reports/categories.
func (h *ReportsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	breakdown, err := store.CategoryBreakdown(r.Context(), h.DB, from, to)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to build category breakdown")
		return
	}
	jsonResponse(w, http.StatusOK, breakdown)
}

// Cashflow handles GET /pos/reports/cashflow.
func (h *ReportsHandler) Cashflow(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	flow, err := store.Cashflow(r.Context(), h.DB, from, to)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to build cashflow")
		return
	}
	jsonResponse(w, http.StatusOK, flow)
}

// ExportExcel handles GET /pos/reports/export/excel.
func (h *ReportsHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := store.SalesSummary(r.Context(), h.DB, from, to)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}
	sales, err := store.ListSales(r.Context(), h.DB, from, to)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list sales")
		return
	}

	data, err := report.Excel(summary, sales)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to render workbook")
		return
	}

	filename := fmt.Sprintf("sales-%s-%s.xlsx", from, to)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(data)
}

// ExportCSV handles GET /pos/reports/export/csv.
func (h *ReportsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	sales, err := store.ListSales(r.Context(), h.DB, from, to)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list sales")
		return
	}

	data, err := report.CSV(sales)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to render csv")
		return
	}

	filename := fmt.Sprintf("sales-%s-%s.csv", from, to)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(data)
}

// Email handles POST /pos/reports/email: renders the summary for the range
// and sends it to the given address with a CSV attachment.
func (h *ReportsHandler) Email(w http.ResponseWriter, r *http.Request) {
	if h.Mailer == nil {
		jsonError(w, http.StatusServiceUnavailable, "mail delivery is not configured")
		return
	}

	var req struct {
		Email string `json:"email"`
		From  string `json:"from"`
		To    string `json:"to"`
	}
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		jsonError(w, http.StatusBadRequest, "email required")
		return
	}

	today := time.Now().Format("2006-01-02")
	if req.From == "" {
		req.From = today
	}
	if req.To == "" {
		req.To = today
	}
	for _, d := range []string{req.From, req.To} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
			return
		}
	}

	summary, err := store.SalesSummary(r.Context(), h.DB, req.From, req.To)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}
	sales, err := store.ListSales(r.Context(), h.DB, req.From, req.To)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list sales")
		return
	}

	body, err := report.HTML(summary)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to render report")
		return
	}
	csvData, err := report.CSV(sales)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to render csv")
		return
	}

	subject := fmt.Sprintf("Sales report %s to %s", req.From, req.To)
	attachment := mailer.Attachment{
		Filename: fmt.Sprintf("sales-%s-%s.csv", req.From, req.To),
		Data:     csvData,
	}
	if err := h.Mailer.SendReport(req.Email, subject, body, attachment); err != nil {
		slog.Error("report email failed", "to", req.Email, "error", err)
		jsonError(w, http.StatusBadGateway, "failed to send report email")
		return
	}

	slog.Info("report emailed", "to", req.Email, "from", req.From, "until", req.To)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "report sent"})
}
