package handlers

import (
	"sciarticles/helper"
	"sciarticles/services"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	articleService services.ArticleService
	Helper         *helper.HTTPHelper
}

func NewTagHandler(articleService services.ArticleService, h *helper.HTTPHelper) *TagHandler {
	return &TagHandler{articleService: articleService, Helper: h}
}

// GetTags lists tags used by published articles with their usage counts.
func (h *TagHandler) GetTags(c *gin.Context) {
	tags, err := h.articleService.ListTags(c.Request.Context())
	if err != nil {
		h.Helper.SendServiceError(c, err, "Failed to fetch tags")
		return
	}

	h.Helper.SendSuccess(c, tags)
}
