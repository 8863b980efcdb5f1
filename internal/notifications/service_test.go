package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/argvision/argvision-backend/pkg/db/models"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
	"github.com/argvision/argvision-backend/pkg/pagination"
)

type fakeRepository struct {
	created       []models.Notification
	createErr     error
	listFn        func(ctx context.Context, params listNotificationsParams) ([]models.Notification, error)
	markReadFn    func(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error)
	markAllReadFn func(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, notification *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *notification)
	return nil
}

func (f *fakeRepository) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil
}

func (f *fakeRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, userID, notificationID, now)
	}
	return notificationMarkResult{}, nil
}

func (f *fakeRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	if f.markAllReadFn != nil {
		return f.markAllReadFn(ctx, userID, now)
	}
	return 0, nil
}

func newServiceWithRepo(repo Repository) Service {
	svc, _ := NewService(repo)
	return svc
}

func TestService_ListNotifications(t *testing.T) {
	now := time.Now()
	rows := []models.Notification{
		{ID: uuid.New(), CreatedAt: now},
		{ID: uuid.New(), CreatedAt: now.Add(-time.Minute)},
		{ID: uuid.New(), CreatedAt: now.Add(-2 * time.Minute)},
	}

	userID := uuid.New()
	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listNotificationsParams) ([]models.Notification, error) {
			if params.UserID != userID {
				t.Fatalf("unexpected user id %s", params.UserID)
			}
			if !params.UnreadOnly {
				t.Fatalf("expected unread filter")
			}
			return rows, nil
		},
	}

	page, err := newServiceWithRepo(repo).List(context.Background(), ListParams{UserID: userID, Limit: 2, UnreadOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	cursor, err := pagination.ParseCursor(page.NextCursor)
	if err != nil || cursor == nil {
		t.Fatalf("expected next cursor, got %q (%v)", page.NextCursor, err)
	}
	if cursor.ID != rows[1].ID {
		t.Fatalf("cursor should point at the last returned row")
	}
}

func TestService_ListRejectsBadCursor(t *testing.T) {
	_, err := newServiceWithRepo(&fakeRepository{}).List(context.Background(), ListParams{UserID: uuid.New(), Cursor: "%%%"})
	if !pkgerrors.Is(err, pkgerrors.CodeBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestService_MarkRead(t *testing.T) {
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
			return notificationMarkResult{Found: false}, nil
		},
	}
	err := newServiceWithRepo(repo).MarkRead(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	repo.markReadFn = func(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
		return notificationMarkResult{}, errors.New("db down")
	}
	err = newServiceWithRepo(repo).MarkRead(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.Is(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestService_MarkAllRead(t *testing.T) {
	repo := &fakeRepository{
		markAllReadFn: func(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
			return 4, nil
		},
	}
	count, err := newServiceWithRepo(repo).MarkAllRead(context.Background(), uuid.New())
	if err != nil || count != 4 {
		t.Fatalf("expected 4 updated, got %d (%v)", count, err)
	}
	if _, err := newServiceWithRepo(repo).MarkAllRead(context.Background(), uuid.Nil); err == nil {
		t.Fatalf("expected validation error")
	}
}
