package http

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"toolwatch/internal/api/dto"
	"toolwatch/internal/api/service"
)

type fakeToolService struct {
	tool     *dto.ToolResponse
	tools    []*dto.ToolResponse
	invoke   *dto.InvokeToolResponse
	err      error
	invoked  string
	lastArgs []string
}

func (f *fakeToolService) CreateTool(ctx context.Context, req *dto.CreateToolRequest) (*dto.ToolResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ToolResponse{ID: 1, Name: req.Name, Type: req.Type, Enabled: true}, nil
}

func (f *fakeToolService) UpdateTool(ctx context.Context, name string, req *dto.UpdateToolRequest) (*dto.ToolResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tool, nil
}

func (f *fakeToolService) GetToolByName(ctx context.Context, name string) (*dto.ToolResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tool, nil
}

func (f *fakeToolService) GetAllTools(ctx context.Context) ([]*dto.ToolResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tools, nil
}

func (f *fakeToolService) DeleteTool(ctx context.Context, name string) error {
	return f.err
}

func (f *fakeToolService) InvokeTool(ctx context.Context, name string, req *dto.InvokeToolRequest) (*dto.InvokeToolResponse, error) {
	f.invoked = name
	f.lastArgs = req.Arguments
	if f.err != nil {
		return nil, f.err
	}
	return f.invoke, nil
}

func TestCreateToolRequiresName(t *testing.T) {
	h := NewToolHandler(&fakeToolService{}, newTestLogger(t))

	c, rec := newRequestContext(http.MethodPost, "/tools", `{"type":"command","command":"true"}`)
	require.NoError(t, h.CreateTool(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"name is required"}`, rec.Body.String())
}

func TestCreateToolInvalidType(t *testing.T) {
	svc := &fakeToolService{err: fmt.Errorf("%w %q", service.ErrInvalidToolType, "grpc")}
	h := NewToolHandler(svc, newTestLogger(t))

	c, rec := newRequestContext(http.MethodPost, "/tools", `{"name":"bad","type":"grpc"}`)
	require.NoError(t, h.CreateTool(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid tool type")
}

func TestCreateToolCreated(t *testing.T) {
	h := NewToolHandler(&fakeToolService{}, newTestLogger(t))

	c, rec := newRequestContext(http.MethodPost, "/tools", `{"name":"disk-usage","type":"command","command":"df -h"}`)
	require.NoError(t, h.CreateTool(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"disk-usage"`)
}

func TestGetToolByNameNotFound(t *testing.T) {
	svc := &fakeToolService{err: gorm.ErrRecordNotFound}
	h := NewToolHandler(svc, newTestLogger(t))

	c, rec := newRequestContext(http.MethodGet, "/tools/ghost", "")
	c.SetParamNames("name")
	c.SetParamValues("ghost")
	require.NoError(t, h.GetToolByName(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Tool not found"}`, rec.Body.String())
}

func TestUpdateToolNotFoundStatus(t *testing.T) {
	svc := &fakeToolService{err: gorm.ErrRecordNotFound}
	h := NewToolHandler(svc, newTestLogger(t))

	c, rec := newRequestContext(http.MethodPut, "/tools/ghost", `{"command":"true"}`)
	c.SetParamNames("name")
	c.SetParamValues("ghost")
	require.NoError(t, h.UpdateTool(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteToolNoContent(t *testing.T) {
	h := NewToolHandler(&fakeToolService{}, newTestLogger(t))

	c, rec := newRequestContext(http.MethodDelete, "/tools/cleanup", "")
	c.SetParamNames("name")
	c.SetParamValues("cleanup")
	require.NoError(t, h.DeleteTool(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeleteToolNotFound(t *testing.T) {
	svc := &fakeToolService{err: gorm.ErrRecordNotFound}
	h := NewToolHandler(svc, newTestLogger(t))

	c, rec := newRequestContext(http.MethodDelete, "/tools/ghost", "")
	c.SetParamNames("name")
	c.SetParamValues("ghost")
	require.NoError(t, h.DeleteTool(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvokeToolAccepted(t *testing.T) {
	svc := &fakeToolService{invoke: &dto.InvokeToolResponse{TaskID: "task-123", Status: "queued"}}
	h := NewToolHandler(svc, newTestLogger(t))

	c, rec := newRequestContext(http.MethodPost, "/tools/backup/invoke", `{"arguments":["--full"]}`)
	c.SetParamNames("name")
	c.SetParamValues("backup")
	require.NoError(t, h.InvokeTool(c))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"task_id":"task-123","status":"queued"}`, rec.Body.String())
	assert.Equal(t, "backup", svc.invoked)
	assert.Equal(t, []string{"--full"}, svc.lastArgs)
}

func TestInvokeToolDisabledConflict(t *testing.T) {
	svc := &fakeToolService{err: service.ErrToolDisabled}
	h := NewToolHandler(svc, newTestLogger(t))

	c, rec := newRequestContext(http.MethodPost, "/tools/danger/invoke", "")
	c.SetParamNames("name")
	c.SetParamValues("danger")
	require.NoError(t, h.InvokeTool(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"Tool is disabled"}`, rec.Body.String())
}

func TestInvokeToolNotFound(t *testing.T) {
	svc := &fakeToolService{err: gorm.ErrRecordNotFound}
	h := NewToolHandler(svc, newTestLogger(t))

	c, rec := newRequestContext(http.MethodPost, "/tools/ghost/invoke", "")
	c.SetParamNames("name")
	c.SetParamValues("ghost")
	require.NoError(t, h.InvokeTool(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
