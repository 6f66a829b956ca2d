package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budgetapp/middleware"
	"budgetapp/models"
	"budgetapp/services"
)

type InvitationHandler struct {
	Invitations *services.InvitationService
}

// InviteUser issues an invitation to join a budget. Owner only.
func (h *InvitationHandler) InviteUser(c *gin.Context) {
	userID := middleware.GetUserID(c)
	budgetID := c.Param("id")

	var req models.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inv, err := h.Invitations.Issue(c.Request.Context(), budgetID, userID, req.Identifier)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      inv.ID,
		"message": "Invitation sent successfully",
	})
}

// RespondInvitation accepts or declines a pending invitation. Only the
// invited user may respond, exactly once.
func (h *InvitationHandler) RespondInvitation(c *gin.Context) {
	userID := middleware.GetUserID(c)
	inviteID := c.Param("invite_id")

	var req models.RespondInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := h.Invitations.Respond(c.Request.Context(), inviteID, userID, req.Action)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"message": "Invitation " + status,
	})
}

// GetPendingInvites returns the caller's open invitations, newest first.
// Polled by clients; never mutates state.
func (h *InvitationHandler) GetPendingInvites(c *gin.Context) {
	userID := middleware.GetUserID(c)

	invites, err := h.Invitations.ListPending(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invites": invites})
}

// GetSentInvites returns invitations the caller has issued, any status.
func (h *InvitationHandler) GetSentInvites(c *gin.Context) {
	userID := middleware.GetUserID(c)

	invites, err := h.Invitations.ListSent(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invites": invites})
}
