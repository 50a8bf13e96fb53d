package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go-pos-inventory/internal/apperrors"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// TransactionQuery is the raw history filter as received from the client.
// Dates are YYYY-MM-DD in the business timezone; DateTo is inclusive.
type TransactionQuery struct {
	Search   string
	Status   string
	DateFrom string
	DateTo   string
	UserID   *uuid.UUID
	Page     int
	PerPage  int
}

type TransactionService interface {
	ListTransactions(ctx context.Context, q TransactionQuery) ([]model.TransactionSummary, int64, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
}

type transactionService struct {
	repo repository.TransactionRepository
	loc  *time.Location
}

func NewTransactionService(repo repository.TransactionRepository, loc *time.Location) TransactionService {
	return &transactionService{repo: repo, loc: loc}
}

func (s *transactionService) ListTransactions(ctx context.Context, q TransactionQuery) ([]model.TransactionSummary, int64, error) {
	filter := repository.TransactionFilter{
		Search:  strings.TrimSpace(q.Search),
		UserID:  q.UserID,
		Page:    q.Page,
		PerPage: q.PerPage,
	}

	if q.Status != "" {
		status := model.TransactionStatus(q.Status)
		if !status.Valid() {
			return nil, 0, apperrors.Validation("status", "status must be one of completed, cancelled, pending")
		}
		filter.Status = status
	}

	if q.DateFrom != "" {
		from, err := time.ParseInLocation(dateLayout, q.DateFrom, s.loc)
		if err != nil {
			return nil, 0, apperrors.Validation("date_from", "date_from must use YYYY-MM-DD")
		}
		filter.DateFrom = &from
	}
	if q.DateTo != "" {
		to, err := time.ParseInLocation(dateLayout, q.DateTo, s.loc)
		if err != nil {
			return nil, 0, apperrors.Validation("date_to", "date_to must use YYYY-MM-DD")
		}
		end := to.AddDate(0, 0, 1)
		filter.DateTo = &end
	}
	if filter.DateFrom != nil && filter.DateTo != nil && !filter.DateFrom.Before(*filter.DateTo) {
		return nil, 0, apperrors.Validation("date_to", "date_to must not be before date_from")
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, storageErr("list transactions", err)
	}
	return rows, total, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	trx, err := s.repo.FindByID(ctx, id)
	if isNotFound(err) {
		return nil, apperrors.NotFound("transaction", id)
	}
	if err != nil {
		return nil, storageErr("get transaction", err)
	}
	// receipt lines follow cart order
	sort.SliceStable(trx.TransactionItems, func(i, j int) bool {
		return trx.TransactionItems[i].LineNo < trx.TransactionItems[j].LineNo
	})
	return trx, nil
}
