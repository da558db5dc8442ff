package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the registration transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrFindOrganization is returned when the slug lookup fails inside the registration transaction.
	ErrFindOrganization = errors.New("user repository: find organization failed")
	// ErrCreateOrganization is returned when creating an organization fails inside the registration transaction.
	ErrCreateOrganization = errors.New("user repository: create organization failed")
	// ErrCreateOrganizationMember is returned when creating an organization member fails inside the registration transaction.
	ErrCreateOrganizationMember = errors.New("user repository: create organization member failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateWithOrganization creates a user and links it to the organization
// identified by slug atomically. The stage errors wrap the driver error, so
// errors.Is(err, gorm.ErrDuplicatedKey) still reports unique violations.
func (r *GormUserRepository) CreateWithOrganization(user *models.User, orgName, slug string) (*models.Organization, error) {
	var org models.Organization

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateUser, err)
		}

		role := models.RoleMember
		err := tx.Where("slug = ?", slug).First(&org).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			org = models.Organization{
				Slug:    slug,
				Name:    orgName,
				OwnerID: &user.ID,
			}
			if err := tx.Omit(clause.Associations).Create(&org).Error; err != nil {
				return fmt.Errorf("%w: %w", ErrCreateOrganization, err)
			}
			role = models.RoleOwner
		case err != nil:
			return fmt.Errorf("%w: %w", ErrFindOrganization, err)
		}

		member := models.OrganizationMember{
			OrganizationID: org.ID,
			UserID:         user.ID,
			Role:           role,
			JoinedAt:       time.Now(),
		}
		if err := tx.Omit(clause.Associations).Create(&member).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateOrganizationMember, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &org, nil
}
