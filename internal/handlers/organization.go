package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/services"
)

// OrganizationHandler serves organization queries.
type OrganizationHandler struct {
	orgService     *services.OrganizationService
	projectService *services.ProjectService
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgService *services.OrganizationService, projectService *services.ProjectService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService:     orgService,
		projectService: projectService,
	}
}

// ListOrganizations lists every organization with its project summaries;
// is_admin reflects the caller.
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	actor := middleware.GetActor(c)

	orgs, err := h.orgService.AllOrganizations()
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	orgDTOs := make([]dto.OrganizationWithProjectsDTO, len(orgs))
	for i := range orgs {
		projects, err := h.projectService.ListForOrganization(orgs[i].ID)
		if err != nil {
			apierrors.RespondWithServiceError(c, err)
			return
		}
		orgDTOs[i] = dto.ToOrganizationWithProjectsDTO(orgs[i], h.orgService.IsAdmin(actor, &orgs[i]), projects)
	}

	c.JSON(http.StatusOK, gin.H{
		"organizations": orgDTOs,
	})
}

// MyOrganization returns the caller's first organization with its members
// and project summaries, or null.
func (h *OrganizationHandler) MyOrganization(c *gin.Context) {
	actor := middleware.GetActor(c)

	org, err := h.orgService.MyOrganization(actor)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}
	if org == nil {
		c.JSON(http.StatusOK, gin.H{"organization": nil})
		return
	}

	members, err := h.orgService.ListMembers(org.ID)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	projects, err := h.projectService.ListForOrganization(org.ID)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"organization": dto.ToOrganizationDetailDTO(*org, h.orgService.IsAdmin(actor, org), members, projects),
	})
}
