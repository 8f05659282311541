package handlers

import (
	"sciarticles/helper"
	"sciarticles/middleware"
	"sciarticles/models"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	Helper *helper.HTTPHelper
}

func NewProfileHandler(h *helper.HTTPHelper) *ProfileHandler {
	return &ProfileHandler{Helper: h}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.Helper.SendServiceError(c, models.ErrorIdentityUnavailable{Message: models.MsgUserNotFound}, models.MsgUserNotFound)
		return
	}

	h.Helper.SendSuccess(c, user)
}
