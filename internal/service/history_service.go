package service

import (
	"context"
	"fmt"
	"time"

	"bankapi/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateFilterLayout = "2006-01-02"

// HistoryService is the stateless read side of the ledger.
type HistoryService struct {
	operationRepo *repository.OperationRepository
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{
		operationRepo: repository.NewOperationRepository(db),
	}
}

// OperationView is one ledger row shaped for the API: the stored type code is
// resolved to its display label.
type OperationView struct {
	Date           string          `json:"date"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	CounterpartyID *int64          `json:"counterparty_id,omitempty"`
}

// ListOperations returns the account's operations newest-first. startDate and
// endDate are optional YYYY-MM-DD strings; when present the filter covers the
// whole day on both ends ([start 00:00:00, end 23:59:59]). A date that does
// not parse is ErrInvalidDateFilter rather than a silently dropped filter.
func (s *HistoryService) ListOperations(ctx context.Context, accountID int64, startDate, endDate string) ([]OperationView, error) {
	var from, to *time.Time

	if startDate != "" {
		day, err := time.ParseInLocation(dateFilterLayout, startDate, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: start_date=%q", ErrInvalidDateFilter, startDate)
		}
		from = &day
	}
	if endDate != "" {
		day, err := time.ParseInLocation(dateFilterLayout, endDate, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: end_date=%q", ErrInvalidDateFilter, endDate)
		}
		endOfDay := day.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		to = &endOfDay
	}

	operations, err := s.operationRepo.ListByAccountID(ctx, accountID, from, to)
	if err != nil {
		return nil, err
	}

	views := make([]OperationView, 0, len(operations))
	for _, op := range operations {
		views = append(views, OperationView{
			Date:           op.CreatedAt.Format("2006-01-02 15:04:05"),
			Type:           op.Type.Label(),
			Amount:         op.Amount,
			CounterpartyID: op.CounterpartyID,
		})
	}
	return views, nil
}
