package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/project-management-api/internal/authz"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"gorm.io/gorm"
)

var ErrOrganizationNotFound = newError(ErrNotFound, "organization not found")

// OrganizationService handles organization queries
type OrganizationService struct {
	orgRepo repository.OrganizationRepository
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{orgRepo: orgRepo}
}

// MyOrganization returns the organization the actor joined first. Anonymous
// actors and users without any membership get nil.
func (s *OrganizationService) MyOrganization(actor authz.Actor) (*models.Organization, error) {
	if !actor.IsAuthenticated() {
		return nil, nil
	}

	org, err := s.orgRepo.FirstForMember(actor.UserID())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	return org, nil
}

// AllOrganizations lists every organization. No authentication is required.
func (s *OrganizationService) AllOrganizations() ([]models.Organization, error) {
	orgs, err := s.orgRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}

// GetBySlug finds an organization by its slug.
func (s *OrganizationService) GetBySlug(slug string) (*models.Organization, error) {
	org, err := s.orgRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}

// ListMembers lists the members of an organization
func (s *OrganizationService) ListMembers(organizationID uint64) ([]models.OrganizationMember, error) {
	members, err := s.orgRepo.ListMembers(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// IsAdmin reports whether the actor owns org.
func (s *OrganizationService) IsAdmin(actor authz.Actor, org *models.Organization) bool {
	return authz.IsOrgAdmin(actor, org)
}
