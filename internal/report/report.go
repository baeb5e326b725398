// Package report renders aggregated sales data into the export formats the
// back office consumes: an Excel workbook, a CSV file, and an HTML summary
// used as the email body.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html/template"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/mlipovsek/tillpoint/internal/model"
)

// Excel builds a two-sheet workbook: a summary sheet and one row per sale.
func Excel(summary *model.SalesSummary, sales []model.Sale) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	f.SetSheetName("Sheet1", summarySheet)

	rows := [][]any{
		{"Period", summary.From + " to " + summary.To},
		{"Sales", summary.Count},
		{"Gross total", summary.Total.String()},
		{"Average ticket", summary.Average.String()},
		{},
		{"Payment method", "Total"},
	}
	for _, method := range sortedKeys(summary.ByPayment) {
		rows = append(rows, []any{method, summary.ByPayment[method].String()})
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("writing summary row: %w", err)
		}
	}

	const salesSheet = "Sales"
	if _, err := f.NewSheet(salesSheet); err != nil {
		return nil, fmt.Errorf("creating sales sheet: %w", err)
	}
	header := []any{"Receipt", "Date", "Payment", "Total"}
	if err := f.SetSheetRow(salesSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing sales header: %w", err)
	}
	for i, s := range sales {
		row := []any{
			s.ReceiptNumber,
			s.CreatedAt.Format("2006-01-02 15:04"),
			s.PaymentMethod,
			s.TotalAmount.String(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(salesSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("writing sale row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// CSV renders one row per sale.
func CSV(sales []model.Sale) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"receipt", "date", "payment", "total"}); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, s := range sales {
		record := []string{
			s.ReceiptNumber,
			s.CreatedAt.Format("2006-01-02 15:04"),
			s.PaymentMethod,
			s.TotalAmount.String(),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

var emailTemplate = template.Must(template.New("summary").Parse(`<html>
<body>
<h2>Sales report {{.From}} to {{.To}}</h2>
<table border="1" cellpadding="4" cellspacing="0">
<tr><td>Sales</td><td>{{.Count}}</td></tr>
<tr><td>Gross total</td><td>{{.Total}}</td></tr>
<tr><td>Average ticket</td><td>{{.Average}}</td></tr>
</table>
<h3>By payment method</h3>
<table border="1" cellpadding="4" cellspacing="0">
{{- range $method, $total := .ByPayment}}
<tr><td>{{$method}}</td><td>{{$total}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))

// HTML renders the summary as the email body.
func HTML(summary *model.SalesSummary) ([]byte, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, summary); err != nil {
		return nil, fmt.Errorf("rendering report html: %w", err)
	}
	return buf.Bytes(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
