// backend-go/internal/advisor/po.go
package advisor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockcast/backend-go/internal/domain"
)

// draftCoverDays sizes baseline draft lines at 30 days of demand. This is
// intentionally simpler than the alert-time reorder formula: a draft is a
// starting point for a buyer, not a stockout response.
const draftCoverDays = 30

// POCandidate is one product proposed for a draft order.
type POCandidate struct {
	Product        domain.Product
	Supplier       *domain.Supplier
	AvgDailyDemand float64
}

// BuildDrafts groups candidates by supplier and prices a baseline order
// line for each product. Candidates without a supplier are dropped; an
// orphan order has nowhere to go. Output is ordered by supplier id, lines
// by product id, so repeated calls over the same inputs draft identically
// apart from the PO numbers.
func BuildDrafts(candidates []POCandidate, now time.Time) []domain.PODraft {
	bySupplier := make(map[int64][]POCandidate)
	suppliers := make(map[int64]*domain.Supplier)
	for _, c := range candidates {
		if c.Supplier == nil {
			continue
		}
		bySupplier[c.Supplier.ID] = append(bySupplier[c.Supplier.ID], c)
		suppliers[c.Supplier.ID] = c.Supplier
	}

	supplierIDs := make([]int64, 0, len(bySupplier))
	for id := range bySupplier {
		supplierIDs = append(supplierIDs, id)
	}
	sort.Slice(supplierIDs, func(i, j int) bool { return supplierIDs[i] < supplierIDs[j] })

	drafts := make([]domain.PODraft, 0, len(supplierIDs))
	for _, sid := range supplierIDs {
		group := bySupplier[sid]
		sort.Slice(group, func(i, j int) bool { return group[i].Product.ID < group[j].Product.ID })

		draft := domain.PODraft{
			PONumber:     newPONumber(now),
			SupplierID:   sid,
			SupplierName: suppliers[sid].Name,
			Status:       "draft",
			OrderDate:    now,
			Subtotal:     decimal.Zero,
			CreatedAt:    now,
		}

		for _, c := range group {
			qty := int(c.AvgDailyDemand * draftCoverDays)
			if qty < 1 {
				qty = 1
			}

			unitCost := decimal.NewFromFloat(c.Product.UnitCost)
			lineTotal := unitCost.Mul(decimal.NewFromInt(int64(qty))).Round(2)

			draft.Lines = append(draft.Lines, domain.PODraftLine{
				ProductID:   c.Product.ID,
				ProductSKU:  c.Product.SKU,
				ProductName: c.Product.Name,
				Quantity:    qty,
				UnitCost:    unitCost,
				LineTotal:   lineTotal,
			})
			draft.Subtotal = draft.Subtotal.Add(lineTotal)
		}

		drafts = append(drafts, draft)
	}

	return drafts
}

// newPONumber builds "PO-YYYYMMDD-XXXXXX" with a random hex suffix.
func newPONumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])

	return fmt.Sprintf("PO-%s-%s", now.Format("20060102"), suffix)
}
