package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hugofmello/startup-pitch/model"
	"github.com/hugofmello/startup-pitch/service"
)

// TaskHandler exposes the task lifecycle: upload, list, poll, consume.
type TaskHandler struct {
	submit *service.SubmitService
	query  *service.QueryService
}

func NewTaskHandler(submit *service.SubmitService, query *service.QueryService) *TaskHandler {
	return &TaskHandler{submit: submit, query: query}
}

// Upload handles POST /upload. The JSON body is the only accepted shape;
// field-level validation lives in the submission service.
func (h *TaskHandler) Upload(c *gin.Context) {
	var req service.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	resp, err := h.submit.Submit(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// List handles GET /tasks.
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.query.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	if tasks == nil {
		tasks = []model.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// Get handles GET /tasks/:taskId.
func (h *TaskHandler) Get(c *gin.Context) {
	view, err := h.query.Get(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Consume handles POST /tasks/:taskId/consume.
func (h *TaskHandler) Consume(c *gin.Context) {
	view, err := h.query.Consume(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
