package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/talentgrid/hiring-management/internal/auth"
	orgDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/organization"
	userDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/user"
)

// AuthRepository implements auth.Repository using GORM.
type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) auth.Repository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	var user userDatamodel.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var user userDatamodel.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, err
	}
	return &user, nil
}

// CreateClientWithOrganization creates the user, their organization and
// the coo membership in a single transaction so a partial failure never
// leaves an orphaned account.
func (r *AuthRepository) CreateClientWithOrganization(user *userDatamodel.User, orgName string) (int64, error) {
	var orgID int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		org := &orgDatamodel.Organization{
			Name:   orgName,
			Status: orgDatamodel.StatusActive,
		}
		if err := tx.Create(org).Error; err != nil {
			return err
		}

		membership := &orgDatamodel.Membership{
			UserID:         user.ID,
			OrganizationID: org.ID,
			Role:           orgDatamodel.RoleCOO,
			IsPrimary:      true,
		}
		if err := tx.Create(membership).Error; err != nil {
			return err
		}

		orgID = org.ID
		return nil
	})

	return orgID, err
}

func (r *AuthRepository) CreateCandidate(user *userDatamodel.User) error {
	return r.db.Create(user).Error
}
