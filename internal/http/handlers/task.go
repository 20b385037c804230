package handlers

import (
	"net/http"

	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

type statusRequest struct {
	Status string `json:"status"`
}

// assignRequest treats a missing or null userId as "unassign".
type assignRequest struct {
	UserID service.OptionalID `json:"userId"`
}

func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.Tasks.List(c.Request.Context(), getUserID(c), c.Param("projectId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, tasks)
}

func (h *Handler) CreateTask(c *gin.Context) {
	var req service.TaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	t, err := h.Tasks.Create(c.Request.Context(), getUserID(c), c.Param("projectId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, t)
}

func (h *Handler) GetTask(c *gin.Context) {
	t, err := h.Tasks.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, t)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	var req service.TaskPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	t, err := h.Tasks.Update(c.Request.Context(), getUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, t)
}

func (h *Handler) UpdateTaskStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	t, err := h.Tasks.UpdateStatus(c.Request.Context(), getUserID(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, t)
}

func (h *Handler) AssignTask(c *gin.Context) {
	var req assignRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request body")
			return
		}
	}

	t, err := h.Tasks.Assign(c.Request.Context(), getUserID(c), c.Param("id"), req.UserID.ID())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, t)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	if err := h.Tasks.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{})
}
