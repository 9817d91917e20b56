package infra

// pdf.go: admin catalog sheet using go-pdf/fpdf.
// One A4 landscape table with a row per product:
//   - brand / name, seller, state
//   - active variation count and total stock
//   - price range across active variations
// followed by a per-state summary line.

import (
	"fmt"
	"io"
	"time"

	"buyonline/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// RenderCatalogSheet writes the catalog sheet for products to w.
func RenderCatalogSheet(w io.Writer, products []model.Product, generatedAt time.Time) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Catalog sheet", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Generated "+generatedAt.UTC().Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	cols := []struct {
		title string
		width float64
		align string
	}{
		{"Product", contentW * 0.34, "L"},
		{"Seller", contentW * 0.22, "L"},
		{"State", contentW * 0.10, "C"},
		{"Variations", contentW * 0.10, "C"},
		{"Stock", contentW * 0.08, "R"},
		{"Price", contentW * 0.16, "R"},
	}

	pdf.SetFont("Helvetica", "B", 8)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		pdf.CellFormat(c.width, 6, c.title, "B", ln, c.align, false, 0, "")
	}

	// ── Rows ─────────────────────────────────────────────────────────────────
	counts := map[model.LifecycleState]int{}
	pdf.SetFont("Helvetica", "", 8)
	for _, p := range products {
		counts[p.State]++
		seller := p.SellerID.String()
		if p.Seller != nil {
			seller = p.Seller.Email
		}
		n, stock, price := summarizeVariations(p.Variations)
		cells := []string{
			truncate(p.Brand+" "+p.Name, 60),
			truncate(seller, 40),
			string(p.State),
			fmt.Sprintf("%d", n),
			fmt.Sprintf("%d", stock),
			price,
		}
		for i, c := range cols {
			ln := 0
			if i == len(cols)-1 {
				ln = 1
			}
			pdf.CellFormat(c.width, 5, cells[i], "", ln, c.align, false, 0, "")
		}
	}

	// ── Summary ──────────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf(
		"%d products: %d draft, %d active, %d inactive, %d deleted",
		len(products),
		counts[model.StateDraft], counts[model.StateActive], counts[model.StateInactive], counts[model.StateDeleted],
	), "", 1, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write catalog sheet: %w", err)
	}
	return nil
}

// summarizeVariations counts active variations, their stock and price range.
func summarizeVariations(list []model.ProductVariation) (int, int, string) {
	var (
		n      int
		stock  int
		lo, hi decimal.Decimal
	)
	for _, v := range list {
		if !v.IsActive() {
			continue
		}
		if n == 0 || v.Price.LessThan(lo) {
			lo = v.Price
		}
		if n == 0 || v.Price.GreaterThan(hi) {
			hi = v.Price
		}
		n++
		stock += v.QuantityAvailable
	}
	switch {
	case n == 0:
		return 0, 0, "-"
	case lo.Equal(hi):
		return n, stock, lo.StringFixed(2)
	}
	return n, stock, lo.StringFixed(2) + " - " + hi.StringFixed(2)
}

// truncate keeps s within n runes. The core fonts are Latin-1 only, so the
// marker is plain ASCII.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
