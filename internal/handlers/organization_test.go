package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/dto"
)

type organizationsResponse struct {
	Organizations []dto.OrganizationWithProjectsDTO `json:"organizations"`
}

type myOrganizationResponse struct {
	Organization *dto.OrganizationDetailDTO `json:"organization"`
}

func TestListOrganizations_IsAdminPerViewer(t *testing.T) {
	env := setupHandlerTestEnv(t, nil)
	alice := env.register(t, "alice", "Acme")
	bob := env.register(t, "bob", "Acme")
	env.register(t, "carol", "Globex")

	w := env.do(t, http.MethodGet, "/api/organizations", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	anonymous := decode[organizationsResponse](t, w)
	require.Len(t, anonymous.Organizations, 2)
	for _, org := range anonymous.Organizations {
		assert.False(t, org.IsAdmin)
	}

	w = env.do(t, http.MethodGet, "/api/organizations", alice, nil)
	asAlice := decode[organizationsResponse](t, w)
	assert.Equal(t, "acme", asAlice.Organizations[0].Slug)
	assert.True(t, asAlice.Organizations[0].IsAdmin)
	assert.False(t, asAlice.Organizations[1].IsAdmin)

	w = env.do(t, http.MethodGet, "/api/organizations", bob, nil)
	asBob := decode[organizationsResponse](t, w)
	assert.False(t, asBob.Organizations[0].IsAdmin)
}

func TestListOrganizations_IncludesProjects(t *testing.T) {
	env := setupHandlerTestEnv(t, nil)
	alice := env.register(t, "alice", "Acme")
	env.register(t, "carol", "Globex")

	w := env.do(t, http.MethodPost, "/api/organizations/acme/projects", alice, gin.H{"name": "Launch"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/organizations", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[organizationsResponse](t, w)
	require.Len(t, list.Organizations, 2)
	require.Len(t, list.Organizations[0].Projects, 1)
	assert.Equal(t, "Launch", list.Organizations[0].Projects[0].Name)
	assert.Equal(t, int64(0), list.Organizations[0].Projects[0].TaskCount)
	assert.Empty(t, list.Organizations[1].Projects)
	assert.Contains(t, w.Body.String(), `"projects":[]`)
}

func TestMyOrganization(t *testing.T) {
	env := setupHandlerTestEnv(t, nil)
	alice := env.register(t, "alice", "Acme")
	bob := env.register(t, "bob", "Acme")

	w := env.do(t, http.MethodPost, "/api/organizations/acme/projects", alice, gin.H{"name": "Launch"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	project := decode[dto.ProjectDTO](t, w)

	for _, title := range []string{"a", "b"} {
		w = env.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", project.ID), alice, gin.H{"title": title})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	task := decode[dto.TaskDTO](t, w)
	w = env.do(t, http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), bob, gin.H{"status": "DONE"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/organizations/mine", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[myOrganizationResponse](t, w)
	require.NotNil(t, mine.Organization)
	assert.Equal(t, "acme", mine.Organization.Slug)
	assert.False(t, mine.Organization.IsAdmin)
	require.Len(t, mine.Organization.Members, 2)
	assert.Equal(t, "alice", mine.Organization.Members[0].User.Username)
	require.Len(t, mine.Organization.Projects, 1)
	assert.Equal(t, int64(2), mine.Organization.Projects[0].TaskCount)
	assert.Equal(t, 50.0, mine.Organization.Projects[0].CompletionRate)

	w = env.do(t, http.MethodGet, "/api/organizations/mine", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"organization":null}`, w.Body.String())
}

func TestCreateProject_UnknownOrganization(t *testing.T) {
	env := setupHandlerTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/organizations/nowhere/projects", "", gin.H{"name": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
