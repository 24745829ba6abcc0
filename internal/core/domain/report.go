// internal/core/domain/report.go
package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Period is an inclusive range of sale dates; empty bounds are open.
type Period struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Validate checks both bounds are calendar days and ordered.
func (p Period) Validate() error {
	for _, d := range []string{p.From, p.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(SaleDateLayout, d); err != nil {
			return Validationf("date %q must be formatted as YYYY-MM-DD", d)
		}
	}
	if p.From != "" && p.To != "" && p.From > p.To {
		return Validationf("from %s is after to %s", p.From, p.To)
	}
	return nil
}

// Contains reports whether a sale date falls inside the period.
func (p Period) Contains(saleDate string) bool {
	if p.From != "" && saleDate < p.From {
		return false
	}
	if p.To != "" && saleDate > p.To {
		return false
	}
	return true
}

// Totals aggregates units and revenue.
type Totals struct {
	Sales   int             `json:"sales"`
	Units   int             `json:"units"`
	Revenue decimal.Decimal `json:"revenue"`
}

func (t *Totals) add(s *Sale) {
	t.Sales++
	t.Units += s.Quantity
	t.Revenue = t.Revenue.Add(s.TotalPrice)
}

// ProductTotals is the per-product line of a summary.
type ProductTotals struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Totals
}

// SalesSummary is the aggregate over a period.
type SalesSummary struct {
	Period    Period                   `json:"period"`
	Totals    Totals                   `json:"totals"`
	ByPayment map[PaymentMethod]Totals `json:"byPayment"`
	ByProduct []ProductTotals          `json:"byProduct"`
}

// Summarize aggregates the sales that fall within the period. Products are
// ordered by revenue, highest first.
func Summarize(period Period, sales []*Sale) *SalesSummary {
	summary := &SalesSummary{
		Period:    period,
		ByPayment: make(map[PaymentMethod]Totals),
		ByProduct: []ProductTotals{},
	}

	index := make(map[string]int)
	for _, s := range sales {
		if !period.Contains(s.SaleDate) {
			continue
		}
		summary.Totals.add(s)

		pt := summary.ByPayment[s.PaymentMethod]
		pt.add(s)
		summary.ByPayment[s.PaymentMethod] = pt

		i, ok := index[s.ProductID]
		if !ok {
			i = len(summary.ByProduct)
			index[s.ProductID] = i
			summary.ByProduct = append(summary.ByProduct, ProductTotals{
				ProductID:   s.ProductID,
				ProductName: s.ProductName,
			})
		}
		summary.ByProduct[i].add(s)
	}

	sortProductTotals(summary.ByProduct)
	return summary
}

func sortProductTotals(lines []ProductTotals) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Revenue.GreaterThan(lines[j].Revenue)
	})
}

// ReportStatus tracks an export job
type ReportStatus string

const (
	ReportPending    ReportStatus = "pending"
	ReportProcessing ReportStatus = "processing"
	ReportCompleted  ReportStatus = "completed"
	ReportFailed     ReportStatus = "failed"
)

// ReportJob is the state of a sales export
type ReportJob struct {
	ID          string       `json:"id"`
	Status      ReportStatus `json:"status"`
	Period      Period       `json:"period"`
	ObjectKey   string       `json:"objectKey,omitempty"`
	URL         string       `json:"url,omitempty"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}
