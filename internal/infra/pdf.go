package infra

// pdf.go — printable forms using go-pdf/fpdf.
// Three documents come out of here:
//   - the Purchase Request preview form requisitioners print for signing
//   - the Request for Quotation form suppliers fill in
//   - the Purchase Order form sent to the winning supplier
// All are A4 portrait with the agency name as header. Output files land in
// storagePath and the absolute path is returned so the mailer can attach them.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"procuretrack/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GeneratePRPDF renders the purchase request preview form.
func GeneratePRPDF(pr *model.PurchaseRequest, agencyName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	name := "draft_" + pr.ID.String()
	if pr.PRNumber != nil {
		name = sanitizeFileName(*pr.PRNumber)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("pr_%s.pdf", name))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, agencyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, "Purchase Request", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 9)
	writeField(pdf, contentW, "PR No.", strDeref(pr.PRNumber))
	if pr.PRDate != nil {
		writeField(pdf, contentW, "Date", pr.PRDate.Format("02 January 2006"))
	}
	writeField(pdf, contentW, "Office/Section", strDeref(pr.OfficeSection))
	writeField(pdf, contentW, "Requisitioner", strDeref(pr.Requisitioner))
	writeField(pdf, contentW, "Designation", strDeref(pr.Designation))
	writeField(pdf, contentW, "Fund Source", strDeref(pr.Funding))
	if pr.ModeOfProcurement != nil {
		writeField(pdf, contentW, "Mode of Procurement", *pr.ModeOfProcurement)
	}
	pdf.Ln(3)

	// Item table
	colStock := contentW * 0.10
	colDesc := contentW * 0.42
	colQty := contentW * 0.08
	colUnit := contentW * 0.10
	colCost := contentW * 0.15
	colTotal := contentW * 0.15

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(colStock, 6, "Stock No.", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colDesc, 6, "Item Description", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colQty, 6, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colUnit, 6, "Unit", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colCost, 6, "Unit Cost", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colTotal, 6, "Total Cost", "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for i := range pr.Items {
		item := &pr.Items[i]
		desc := item.Description
		if len(desc) > 60 {
			desc = desc[:59] + "…"
		}
		pdf.CellFormat(colStock, 6, item.StockNo, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colDesc, 6, desc, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colUnit, 6, item.Unit, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colCost, 6, item.UnitCost.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, 6, item.TotalCost().StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colStock+colDesc+colQty+colUnit+colCost, 7, "TOTAL", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, 7, pr.TotalAmount().StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.Ln(4)

	if pr.Purpose != nil && *pr.Purpose != "" {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 5, "Purpose:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(contentW, 5, *pr.Purpose, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}

// GenerateRFQPDF renders the request-for-quotation form suppliers fill in.
// Items from every covered PR are listed with blank price columns.
func GenerateRFQPDF(rfq *model.RequestForQuotation, agencyName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	name := rfq.ID.String()
	if rfq.RFQNumber != nil {
		name = sanitizeFileName(*rfq.RFQNumber)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("rfq_%s.pdf", name))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, agencyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, "Request for Quotation", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 9)
	writeField(pdf, contentW, "RFQ No.", strDeref(rfq.RFQNumber))
	writeField(pdf, contentW, "Date", rfq.Date.Format("02 January 2006"))
	var prNumbers []string
	for _, pr := range rfq.PRs() {
		if pr.PRNumber != nil {
			prNumbers = append(prNumbers, *pr.PRNumber)
		}
	}
	writeField(pdf, contentW, "Covered PR No(s).", strings.Join(prNumbers, ", "))
	pdf.Ln(3)

	colDesc := contentW * 0.50
	colQty := contentW * 0.08
	colUnit := contentW * 0.12
	colPrice := contentW * 0.15
	colTotal := contentW * 0.15

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(colDesc, 6, "Item Description", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colQty, 6, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colUnit, 6, "Unit", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colPrice, 6, "Unit Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colTotal, 6, "Total", "1", 1, "C", false, 0, "")

	// Price columns stay empty; the supplier quotes by hand.
	pdf.SetFont("Helvetica", "", 8)
	for _, pr := range rfq.PRs() {
		for i := range pr.Items {
			item := &pr.Items[i]
			desc := item.Description
			if len(desc) > 70 {
				desc = desc[:69] + "…"
			}
			pdf.CellFormat(colDesc, 6, desc, "1", 0, "L", false, 0, "")
			pdf.CellFormat(colQty, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
			pdf.CellFormat(colUnit, 6, item.Unit, "1", 0, "C", false, 0, "")
			pdf.CellFormat(colPrice, 6, "", "1", 0, "R", false, 0, "")
			pdf.CellFormat(colTotal, 6, "", "1", 1, "R", false, 0, "")
		}
	}
	pdf.Ln(4)

	if rfq.Resolution != "" {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 5, "Remarks:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(contentW, 5, rfq.Resolution, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}

// GeneratePOPDF renders the purchase order form for the awarded supplier.
// The AOQ with lines and the supplier association must be loaded.
func GeneratePOPDF(po *model.PurchaseOrder, agencyName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	name := po.ID.String()
	if po.PONumber != nil {
		name = sanitizeFileName(*po.PONumber)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("po_%s.pdf", name))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, agencyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, "Purchase Order", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 9)
	writeField(pdf, contentW, "PO No.", strDeref(po.PONumber))
	writeField(pdf, contentW, "Date", po.CreatedAt.Format("02 January 2006"))
	if po.Supplier != nil {
		writeField(pdf, contentW, "Supplier", po.Supplier.Name)
		writeField(pdf, contentW, "Address", po.Supplier.Address)
		writeField(pdf, contentW, "TIN", po.Supplier.TIN)
	}
	writeField(pdf, contentW, "Place of Delivery", po.PlaceOfDelivery)
	if po.DateOfDelivery != nil {
		writeField(pdf, contentW, "Date of Delivery", po.DateOfDelivery.Format("02 January 2006"))
	}
	pdf.Ln(3)

	colDesc := contentW * 0.50
	colQty := contentW * 0.10
	colPrice := contentW * 0.20
	colTotal := contentW * 0.20

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(colDesc, 6, "Item Description", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colQty, 6, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colPrice, 6, "Unit Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colTotal, 6, "Amount", "1", 1, "C", false, 0, "")

	// Only the awarded supplier's responsive lines make it onto the form
	pdf.SetFont("Helvetica", "", 8)
	total := decimal.Zero
	if po.AOQ != nil {
		for i := range po.AOQ.Lines {
			line := &po.AOQ.Lines[i]
			if line.SupplierID != po.SupplierID || !line.Responsive {
				continue
			}
			desc, qty := "", 0
			if line.PRItem != nil {
				desc = line.PRItem.Description
				qty = line.PRItem.Quantity
			}
			if len(desc) > 70 {
				desc = desc[:69] + "…"
			}
			pdf.CellFormat(colDesc, 6, desc, "1", 0, "L", false, 0, "")
			pdf.CellFormat(colQty, 6, fmt.Sprintf("%d", qty), "1", 0, "C", false, 0, "")
			pdf.CellFormat(colPrice, 6, line.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(colTotal, 6, line.LineTotal().StringFixed(2), "1", 1, "R", false, 0, "")
			total = total.Add(line.LineTotal())
		}
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colDesc+colQty+colPrice, 7, "TOTAL", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, 7, total.StringFixed(2), "1", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}

func writeField(pdf *fpdf.Fpdf, contentW float64, label, value string) {
	if value == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW*0.25, 5, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW*0.75, 5, value, "", 1, "L", false, 0, "")
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func sanitizeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '_'
		}
		return r
	}, s)
}
