package handlers

import (
	"net/http"
	"strconv"

	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.Projects.List(c.Request.Context(), getUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, projects)
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req service.ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	p, err := h.Projects.Create(c.Request.Context(), getUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, p)
}

func (h *Handler) GetProject(c *gin.Context) {
	p, err := h.Projects.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	var req service.ProjectPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	p, err := h.Projects.Update(c.Request.Context(), getUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	if err := h.Projects.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{})
}

func (h *Handler) ProjectAnalytics(c *gin.Context) {
	a, err := h.Projects.Analytics(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, a)
}

// ProjectActivity returns recent audit entries; ?limit= caps the count.
func (h *Handler) ProjectActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	logs, err := h.Projects.Activity(c.Request.Context(), getUserID(c), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, logs)
}
