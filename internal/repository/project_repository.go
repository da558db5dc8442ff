package repository

import (
	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Omit(clause.Associations).Create(project).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// ListByOrganization lists the projects of an organization ordered by ID
func (r *GormProjectRepository) ListByOrganization(organizationID uint64) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Where("organization_id = ?", organizationID).
		Order("id ASC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// UpdateStatus overwrites the status column of a project
func (r *GormProjectRepository) UpdateStatus(project *models.Project, status string) error {
	return r.db.Model(project).Omit(clause.Associations).Update("status", status).Error
}

// CountTasks returns the total number of tasks and how many have the given status
func (r *GormProjectRepository) CountTasks(projectID uint64, status models.TaskStatus) (int64, int64, error) {
	var total int64
	if err := r.db.Model(&models.Task{}).
		Where("project_id = ?", projectID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}

	if total == 0 {
		return 0, 0, nil
	}

	var matching int64
	if err := r.db.Model(&models.Task{}).
		Where("project_id = ? AND status = ?", projectID, status).
		Count(&matching).Error; err != nil {
		return 0, 0, err
	}

	return total, matching, nil
}
