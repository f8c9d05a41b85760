// Package pdf renders rental agreement documents. The layout is a single A4
// page with a diagonal watermark, a header block identifying the agreement,
// party and product tables, and a signature footer.
package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const watermarkText = "RENTERRA DOCUMENT"

// AgreementDoc carries everything the renderer needs. Amount is the rental
// price in the product's listing currency.
type AgreementDoc struct {
	AgreementID string
	CreatedAt   time.Time

	ProductName string
	Price       float64
	TimeUnit    string

	OwnerName  string
	OwnerEmail string

	RenterName  string
	RenterEmail string

	PickupDate time.Time
	ReturnDate time.Time
}

// RenderAgreement writes the agreement document as a PDF to w.
func RenderAgreement(w io.Writer, doc AgreementDoc) error {
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetTitle("Rental Agreement "+doc.AgreementID, false)
	p.AddPage()

	watermark(p)

	p.SetFont("Helvetica", "B", 20)
	p.CellFormat(0, 12, "Rental Agreement", "", 1, "C", false, 0, "")
	p.SetFont("Helvetica", "", 10)
	p.SetTextColor(90, 90, 90)
	p.CellFormat(0, 6, fmt.Sprintf("Agreement %s", doc.AgreementID), "", 1, "C", false, 0, "")
	p.CellFormat(0, 6, "Generated "+doc.CreatedAt.Format("January 2, 2006"), "", 1, "C", false, 0, "")
	p.Ln(6)
	p.SetTextColor(0, 0, 0)

	section(p, "Product")
	row(p, "Item", doc.ProductName)
	row(p, "Price", fmt.Sprintf("%.2f per %s", doc.Price, doc.TimeUnit))

	section(p, "Parties")
	row(p, "Owner", fmt.Sprintf("%s <%s>", doc.OwnerName, doc.OwnerEmail))
	row(p, "Renter", fmt.Sprintf("%s <%s>", doc.RenterName, doc.RenterEmail))

	section(p, "Rental Period")
	row(p, "Pickup", doc.PickupDate.Format("January 2, 2006"))
	row(p, "Return", doc.ReturnDate.Format("January 2, 2006"))

	section(p, "Terms")
	p.SetFont("Helvetica", "", 10)
	p.MultiCell(0, 5,
		"The renter agrees to return the item in the condition received, by the "+
			"return date above. The owner agrees to hand over the item in working "+
			"order at pickup. Loss or damage beyond normal wear is the renter's "+
			"responsibility at the listed replacement value. Both parties accept "+
			"these terms upon payment of the rental price.",
		"", "L", false)

	p.Ln(16)
	signatures(p)

	return p.Output(w)
}

func watermark(p *gofpdf.Fpdf) {
	p.SetAlpha(0.08, "Normal")
	p.SetFont("Helvetica", "B", 60)
	p.SetTextColor(120, 120, 120)
	p.TransformBegin()
	p.TransformRotate(45, 105, 148)
	p.Text(30, 155, watermarkText)
	p.TransformEnd()
	p.SetAlpha(1.0, "Normal")
	p.SetTextColor(0, 0, 0)
}

func section(p *gofpdf.Fpdf, title string) {
	p.Ln(4)
	p.SetFont("Helvetica", "B", 12)
	p.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	p.Ln(1)
}

func row(p *gofpdf.Fpdf, label, value string) {
	p.SetFont("Helvetica", "B", 10)
	p.CellFormat(35, 6, label, "", 0, "L", false, 0, "")
	p.SetFont("Helvetica", "", 10)
	p.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func signatures(p *gofpdf.Fpdf) {
	y := p.GetY()
	p.SetFont("Helvetica", "", 10)
	p.Line(25, y, 85, y)
	p.Line(125, y, 185, y)
	p.SetXY(25, y+1)
	p.CellFormat(60, 5, "Owner signature", "", 0, "C", false, 0, "")
	p.SetXY(125, y+1)
	p.CellFormat(60, 5, "Renter signature", "", 1, "C", false, 0, "")
}
