package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hugofmello/startup-pitch/apperr"
	"github.com/hugofmello/startup-pitch/model"
	"github.com/hugofmello/startup-pitch/service"
)

// StartupHandler is plain CRUD over the startups table.
type StartupHandler struct {
	store service.StartupStore
}

func NewStartupHandler(store service.StartupStore) *StartupHandler {
	return &StartupHandler{store: store}
}

type startupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Sector      string `json:"sector"`
}

// Create handles POST /startups.
func (h *StartupHandler) Create(c *gin.Context) {
	var req startupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if req.Name == "" {
		writeError(c, apperr.MissingFields("name"))
		return
	}

	now := time.Now().UTC()
	startup := model.Startup{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
		Sector:      req.Sector,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.Put(c.Request.Context(), startup); err != nil {
		writeError(c, apperr.Dependency("save startup", err))
		return
	}

	c.JSON(http.StatusCreated, startup)
}

// List handles GET /startups.
func (h *StartupHandler) List(c *gin.Context) {
	startups, err := h.store.List(c.Request.Context())
	if err != nil {
		writeError(c, apperr.Dependency("list startups", err))
		return
	}

	if startups == nil {
		startups = []model.Startup{}
	}
	c.JSON(http.StatusOK, startups)
}

// Get handles GET /startups/:id.
func (h *StartupHandler) Get(c *gin.Context) {
	id := c.Param("id")

	startup, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, apperr.Dependency("load startup", err))
		return
	}
	if startup == nil {
		writeError(c, apperr.NotFoundf("startup not found: %s", id))
		return
	}

	c.JSON(http.StatusOK, startup)
}

// Update handles PUT /startups/:id.
func (h *StartupHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req startupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	startup, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, apperr.Dependency("load startup", err))
		return
	}
	if startup == nil {
		writeError(c, apperr.NotFoundf("startup not found: %s", id))
		return
	}

	if req.Name != "" {
		startup.Name = req.Name
	}
	if req.Description != "" {
		startup.Description = req.Description
	}
	if req.Website != "" {
		startup.Website = req.Website
	}
	if req.Sector != "" {
		startup.Sector = req.Sector
	}
	startup.UpdatedAt = time.Now().UTC()

	if err := h.store.Put(c.Request.Context(), *startup); err != nil {
		writeError(c, apperr.Dependency("save startup", err))
		return
	}

	c.JSON(http.StatusOK, startup)
}

// Delete handles DELETE /startups/:id.
func (h *StartupHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	startup, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, apperr.Dependency("load startup", err))
		return
	}
	if startup == nil {
		writeError(c, apperr.NotFoundf("startup not found: %s", id))
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		writeError(c, apperr.Dependency("delete startup", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "startup deleted"})
}
