package dto

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/services"
)

// OrganizationDTO represents an organization in API responses. IsAdmin is
// relative to the viewer of the response.
type OrganizationDTO struct {
	ID      uint64  `json:"id"`
	Slug    string  `json:"slug"`
	Name    string  `json:"name"`
	OwnerID *uint64 `json:"owner_id"`
	IsAdmin bool    `json:"is_admin"`
}

// OrganizationMemberDTO represents a member in an organization
type OrganizationMemberDTO struct {
	User     UserDTO                 `json:"user"`
	Role     models.OrganizationRole `json:"role"`
	JoinedAt time.Time               `json:"joined_at"`
}

// OrganizationWithProjectsDTO is an organization listed with its project summaries
type OrganizationWithProjectsDTO struct {
	OrganizationDTO
	Projects []ProjectDTO `json:"projects"`
}

// OrganizationDetailDTO represents the viewer's own organization
type OrganizationDetailDTO struct {
	OrganizationWithProjectsDTO
	Members []OrganizationMemberDTO `json:"members"`
}

// ProjectDTO represents a project with its derived task statistics
type ProjectDTO struct {
	ID             uint64     `json:"id"`
	OrganizationID uint64     `json:"organization_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	DueDate        *time.Time `json:"due_date"`
	Status         string     `json:"status"`
	TaskCount      int64      `json:"task_count"`
	CompletionRate float64    `json:"completion_rate"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// AuthResponse is returned by registration and login
type AuthResponse struct {
	User         UserDTO          `json:"user"`
	Organization *OrganizationDTO `json:"organization,omitempty"`
	Token        string           `json:"token"`
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization, isAdmin bool) OrganizationDTO {
	return OrganizationDTO{
		ID:      org.ID,
		Slug:    org.Slug,
		Name:    org.Name,
		OwnerID: org.OwnerID,
		IsAdmin: isAdmin,
	}
}

// ToOrganizationMemberDTO converts a member to DTO
func ToOrganizationMemberDTO(member models.OrganizationMember) OrganizationMemberDTO {
	return OrganizationMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToOrganizationWithProjectsDTO converts an organization with its project summaries
func ToOrganizationWithProjectsDTO(org models.Organization, isAdmin bool, projects []services.ProjectSummary) OrganizationWithProjectsDTO {
	projectDTOs := make([]ProjectDTO, len(projects))
	for i, summary := range projects {
		projectDTOs[i] = ToProjectDTO(summary)
	}

	return OrganizationWithProjectsDTO{
		OrganizationDTO: ToOrganizationDTO(org, isAdmin),
		Projects:        projectDTOs,
	}
}

// ToOrganizationDetailDTO converts an organization with members and project summaries
func ToOrganizationDetailDTO(org models.Organization, isAdmin bool, members []models.OrganizationMember, projects []services.ProjectSummary) OrganizationDetailDTO {
	memberDTOs := make([]OrganizationMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = ToOrganizationMemberDTO(member)
	}

	return OrganizationDetailDTO{
		OrganizationWithProjectsDTO: ToOrganizationWithProjectsDTO(org, isAdmin, projects),
		Members:                     memberDTOs,
	}
}

// ToProjectDTO converts a project summary to ProjectDTO
func ToProjectDTO(summary services.ProjectSummary) ProjectDTO {
	project := summary.Project
	return ProjectDTO{
		ID:             project.ID,
		OrganizationID: project.OrganizationID,
		Name:           project.Name,
		Description:    project.Description,
		DueDate:        project.DueDate,
		Status:         project.Status,
		TaskCount:      summary.TaskCount,
		CompletionRate: summary.CompletionRate,
		CreatedAt:      project.CreatedAt,
		UpdatedAt:      project.UpdatedAt,
	}
}
