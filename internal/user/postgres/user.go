package postgres

import (
	"context"

	"gorm.io/gorm"

	userDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/user"
)

// UserRepository also serves the read-only user lookups other features
// need (job request assignment targets, ticket assignees).
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *UserRepository) Update(ctx context.Context, row *userDatamodel.User) error {
	return r.db.WithContext(ctx).Save(row).Error
}
