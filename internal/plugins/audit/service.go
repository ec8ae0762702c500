package audit

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aitutor/academy/internal/apperror"
	"github.com/aitutor/academy/internal/plugins/auth"
)

// perPage is the number of login history entries returned per page.
const perPage = 50

// maxPage keeps the row offset within int range.
const maxPage = math.MaxInt/perPage + 1

// AuditService handles business logic for login history. It satisfies
// auth.LoginRecorder so the auth service can write through it.
type AuditService interface {
	// RecordLogin stores one login attempt. userID is nil when the attempt
	// cannot be linked to an account.
	RecordLogin(ctx context.Context, userID *string, client auth.ClientInfo, success bool) error

	// ListLogins returns one page of a user's login history. Pages are
	// 1-indexed; pages below 1 are clamped to 1 and absurdly large pages
	// to the last addressable one, which is empty.
	ListLogins(ctx context.Context, userID string, page int) (*LoginPage, error)
}

// auditService implements AuditService.
type auditService struct {
	repo LoginHistoryRepository
	now  func() time.Time
}

// NewAuditService creates a new audit service with the given repository.
func NewAuditService(repo LoginHistoryRepository) AuditService {
	return &auditService{repo: repo, now: time.Now}
}

// RecordLogin persists a login attempt. Failures are logged and returned;
// the auth service treats them as internal errors.
func (s *auditService) RecordLogin(ctx context.Context, userID *string, client auth.ClientInfo, success bool) error {
	entry := &LoginEntry{
		UserID:    userID,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
		Success:   success,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Log(ctx, entry); err != nil {
		slog.Error("failed to write login history",
			slog.Bool("success", success),
			slog.String("ip", client.IPAddress),
			slog.Any("error", err),
		)
		return fmt.Errorf("writing login history: %w", err)
	}

	return nil
}

// ListLogins returns a page of login history for userID.
func (s *auditService) ListLogins(ctx context.Context, userID string, page int) (*LoginPage, error) {
	if userID == "" {
		return nil, apperror.NewBadRequest("user ID is required")
	}
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}

	entries, total, err := s.repo.ListByUser(ctx, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing login history: %w", err))
	}
	if entries == nil {
		entries = []LoginEntry{}
	}

	return &LoginPage{
		Entries: entries,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}
