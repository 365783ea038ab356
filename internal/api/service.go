// internal/api/service.go
package api

import (
	"context"
	"errors"

	"submission-receipts/internal/store"
)

var (
	ErrNotFound  = errors.New("receipt not found")
	ErrForbidden = errors.New("receipt belongs to another owner")
)

// Service serves the owner-scoped query surface over materialized receipts.
// It only ever reads current state; the event stream is invisible here.
type Service struct {
	repo  *store.Repository
	cache *Cache
}

func NewService(repo *store.Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// ListForOwner returns every receipt belonging to an owner, full detail.
func (s *Service) ListForOwner(ctx context.Context, ownerID string) ([]ReceiptResponse, error) {
	if cached, ok := s.cache.GetOwnerList(ctx, ownerID); ok {
		return cached, nil
	}

	receipts, err := s.repo.ListForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	responses := make([]ReceiptResponse, 0, len(receipts))
	for i := range receipts {
		responses = append(responses, toReceiptResponse(&receipts[i]))
	}

	s.cache.SetOwnerList(ctx, ownerID, responses)
	return responses, nil
}

// ListHeadersForOwner returns the inbox view for an owner.
func (s *Service) ListHeadersForOwner(ctx context.Context, ownerID string) ([]ReceiptHeader, error) {
	receipts, err := s.ListForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	headers := make([]ReceiptHeader, 0, len(receipts))
	for _, r := range receipts {
		headers = append(headers, ReceiptHeader{
			SubmissionID: r.SubmissionID,
			Title:        r.Title,
			TopicCode:    r.TopicCode,
			FormNumber:   r.FormNumber,
			ReceivedAt:   r.ReceivedAt,
			CompletedAt:  r.CompletedAt,
		})
	}
	return headers, nil
}

// GetForOwner returns one receipt, distinguishing an unknown id from a
// receipt owned by someone else.
func (s *Service) GetForOwner(ctx context.Context, submissionID, ownerID string) (*ReceiptResponse, error) {
	receipt, err := s.repo.Get(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, ErrNotFound
	}
	if receipt.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	response := toReceiptResponse(receipt)
	return &response, nil
}
