package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type commentRequest struct {
	Message string `json:"message"`
}

func (h *Handler) ListComments(c *gin.Context) {
	comments, err := h.Comments.List(c.Request.Context(), getUserID(c), c.Param("taskId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, comments)
}

func (h *Handler) CreateComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	comment, err := h.Comments.Create(c.Request.Context(), getUserID(c), c.Param("taskId"), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, comment)
}

func (h *Handler) UpdateComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	comment, err := h.Comments.Update(c.Request.Context(), getUserID(c), c.Param("id"), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, comment)
}

func (h *Handler) DeleteComment(c *gin.Context) {
	if err := h.Comments.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{})
}
