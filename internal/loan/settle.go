package loan

import (
	"fmt"
	"sort"

	"trastienda/internal/domain"
	"trastienda/internal/errors"
)

// SettleResult is the outcome of folding a repayment across a product's
// outstanding loans: records left with a balance, and ids of records fully
// repaid, which must be deleted rather than kept as zero rows.
type SettleResult struct {
	Updated    []domain.Loan
	DeletedIDs []int64
}

// Settle applies a repayment FIFO across the given loan records, oldest
// first. It is pure: callers persist the returned updates and deletions.
// Requesting more than the aggregate outstanding quantity fails with
// InsufficientLoanBalanceError carrying the computable balance.
func Settle(records []domain.Loan, boxes, sachets int) (SettleResult, error) {
	if boxes < 0 || sachets < 0 {
		return SettleResult{}, errors.NewValidationError("repayment must not be negative", errors.ValidationDetail{
			Field:   "quantityBoxes",
			Message: "repayment quantities must be >= 0",
		})
	}
	if boxes == 0 && sachets == 0 {
		return SettleResult{}, errors.NewValidationError("repayment must not be empty", errors.ValidationDetail{
			Field:   "quantityBoxes",
			Message: "at least one of quantityBoxes or quantitySachets must be positive",
		})
	}

	var outstandingBoxes, outstandingSachets int
	for _, rec := range records {
		outstandingBoxes += rec.QuantityBoxes
		outstandingSachets += rec.QuantitySachets
	}

	if boxes > outstandingBoxes || sachets > outstandingSachets {
		return SettleResult{}, errors.NewInsufficientLoanBalanceError(
			fmt.Sprintf("repayment exceeds outstanding loan balance (%d boxes, %d sachets)", outstandingBoxes, outstandingSachets),
			outstandingBoxes, outstandingSachets,
		)
	}

	ordered := make([]domain.Loan, len(records))
	copy(ordered, records)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	var result SettleResult
	remainingBoxes, remainingSachets := boxes, sachets

	for _, rec := range ordered {
		if remainingBoxes == 0 && remainingSachets == 0 {
			break
		}

		takeBoxes := min(rec.QuantityBoxes, remainingBoxes)
		takeSachets := min(rec.QuantitySachets, remainingSachets)
		if takeBoxes == 0 && takeSachets == 0 {
			continue
		}

		rec.QuantityBoxes -= takeBoxes
		rec.QuantitySachets -= takeSachets
		remainingBoxes -= takeBoxes
		remainingSachets -= takeSachets

		if rec.IsSettled() {
			result.DeletedIDs = append(result.DeletedIDs, rec.ID)
		} else {
			result.Updated = append(result.Updated, rec)
		}
	}

	return result, nil
}
