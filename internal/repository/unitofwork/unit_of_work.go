package unitofwork

import (
	"context"

	"souartista-be/internal/repository"
	"souartista-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ProfileRepository() contract.ProfileRepository
	SubscriptionRepository() contract.SubscriptionRepository
	PaymentHistoryRepository() contract.PaymentHistoryRepository
	NotificationRepository() repository.NotificationRepository
}
