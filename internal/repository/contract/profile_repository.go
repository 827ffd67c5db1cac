package contract

import (
	"context"

	"souartista-be/internal/entity"
	"souartista-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	Update(ctx context.Context, profile *entity.Profile) error
	Delete(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Profile, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Profile, error)

	// UpdatePlanColumns writes the denormalized plan fields without touching
	// the rest of the row.
	UpdatePlanColumns(ctx context.Context, userId uuid.UUID, columns map[string]interface{}) error
}
