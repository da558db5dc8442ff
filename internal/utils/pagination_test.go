package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/project-management-api/internal/constants"
)

func TestNewPaginationParams_Clamps(t *testing.T) {
	p := NewPaginationParams(0, 1000)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, constants.DefaultPageSize, p.Limit)
	assert.Equal(t, 0, p.Offset)

	p = NewPaginationParams(3, 10)
	assert.Equal(t, 20, p.Offset)
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/projects/1/tasks?page=2&limit=5", nil)

	p := GetPaginationParams(c)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 5, p.Limit)
	assert.Equal(t, 5, p.Offset)
}

func TestPaginationParams_Response(t *testing.T) {
	resp := NewPaginationParams(1, 5).Response(11)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, int64(11), resp.Total)

	assert.Equal(t, 0, NewPaginationParams(1, 5).Response(0).TotalPages)
}
