package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mlipovsek/tillpoint/internal/model"
)

func testData() (*model.SalesSummary, []model.Sale) {
	summary := &model.SalesSummary{
		From:    "2026-08-01",
		To:      "2026-08-31",
		Count:   2,
		Total:   decimal.RequireFromString("8.00"),
		Average: decimal.RequireFromString("4.00"),
		ByPayment: map[string]decimal.Decimal{
			model.PaymentCash: decimal.RequireFromString("6.00"),
			model.PaymentCard: decimal.RequireFromString("2.00"),
		},
	}
	sales := []model.Sale{
		{ReceiptNumber: "R-AAAA1111", TotalAmount: decimal.RequireFromString("6.00"),
			PaymentMethod: model.PaymentCash, CreatedAt: time.Date(2026, 8, 30, 10, 15, 0, 0, time.UTC)},
		{ReceiptNumber: "R-BBBB2222", TotalAmount: decimal.RequireFromString("2.00"),
			PaymentMethod: model.PaymentCard, CreatedAt: time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC)},
	}
	return summary, sales
}

func TestExcel(t *testing.T) {
	summary, sales := testData()

	data, err := Excel(summary, sales)
	if err != nil {
		t.Fatalf("Excel: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("opening generated workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Sales", "A2")
	if err != nil {
		t.Fatalf("reading cell: %v", err)
	}
	if got != "R-AAAA1111" {
		t.Errorf("expected first receipt in A2, got %q", got)
	}

	rows, err := f.GetRows("Sales")
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}
	if len(rows) != 3 { // header + 2 sales
		t.Errorf("expected 3 rows, got %d", len(rows))
	}
}

func TestCSV(t *testing.T) {
	_, sales := testData()

	data, err := CSV(sales)
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "receipt,date,payment,total" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "R-AAAA1111,") {
		t.Errorf("unexpected first row: %q", lines[1])
	}
}

func TestHTML(t *testing.T) {
	summary, _ := testData()

	data, err := HTML(summary)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}

	body := string(data)
	for _, want := range []string{"2026-08-01", "8.00", "cash", "card"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
}
