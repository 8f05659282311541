package handlers

import (
	"sciarticles/helper"
	"sciarticles/middleware"
	"sciarticles/models"
	"sciarticles/services"

	"github.com/gin-gonic/gin"
)

// searchResultCap bounds the search-bar style lookups that also match authors.
const searchResultCap = 8

type ArticleHandler struct {
	articleService services.ArticleService
	Helper         *helper.HTTPHelper
}

func NewArticleHandler(articleService services.ArticleService, h *helper.HTTPHelper) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, Helper: h}
}

func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, models.MsgUnauthorized)
		return
	}

	var req models.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, "Invalid request body")
		return
	}
	if err := h.Helper.ValidateStruct(req); err != nil {
		h.Helper.SendServiceError(c, err, models.MsgCreateFailed)
		return
	}

	article, err := h.articleService.CreateArticle(c.Request.Context(), req, user)
	if err != nil {
		h.Helper.SendServiceError(c, err, models.MsgCreateFailed)
		return
	}

	h.Helper.SendSuccess(c, article)
}

func (h *ArticleHandler) GetPublicArticles(c *gin.Context) {
	articles, err := h.articleService.ListPublished(c.Request.Context())
	if err != nil {
		h.Helper.SendServiceError(c, err, models.MsgListFailed)
		return
	}

	h.Helper.SendSuccess(c, articles)
}

func (h *ArticleHandler) SearchArticles(c *gin.Context) {
	var params models.SearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, "Invalid search parameters")
		return
	}

	opts := services.SearchOptions{Query: params.Query, Tag: params.Tag, Limit: params.Limit}
	if c.Query("scope") == "all" {
		opts.IncludeAuthor = true
		if opts.Limit == 0 {
			opts.Limit = searchResultCap
		}
	}

	articles, err := h.articleService.Search(c.Request.Context(), opts)
	if err != nil {
		h.Helper.SendServiceError(c, err, models.MsgListFailed)
		return
	}

	h.Helper.SendSuccess(c, articles)
}

func (h *ArticleHandler) GetPublicArticle(c *gin.Context) {
	article, err := h.articleService.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.Helper.SendServiceError(c, err, models.MsgFetchFailed)
		return
	}

	h.Helper.SendSuccess(c, models.NewPublicArticle(*article))
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, models.MsgUnauthorized)
		return
	}

	article, err := h.articleService.GetArticle(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		h.Helper.SendServiceError(c, err, models.MsgFetchFailed)
		return
	}

	h.Helper.SendSuccess(c, article)
}

func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, models.MsgUnauthorized)
		return
	}

	var req models.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, "Invalid request body")
		return
	}
	if err := h.Helper.ValidateStruct(req.Fields()); err != nil {
		h.Helper.SendServiceError(c, err, models.MsgUpdateFailed)
		return
	}

	article, err := h.articleService.UpdateArticle(c.Request.Context(), c.Param("id"), req, user)
	if err != nil {
		h.Helper.SendServiceError(c, err, models.MsgUpdateFailed)
		return
	}

	h.Helper.SendSuccess(c, article)
}

func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, models.MsgUnauthorized)
		return
	}

	if err := h.articleService.DeleteArticle(c.Request.Context(), c.Param("id"), user.ID); err != nil {
		h.Helper.SendServiceError(c, err, models.MsgDeleteFailed)
		return
	}

	h.Helper.SendSuccess(c, models.DeleteResponse{Success: true})
}

// GetMyArticles lists every article of the caller, drafts included.
func (h *ArticleHandler) GetMyArticles(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, models.MsgUnauthorized)
		return
	}

	articles, err := h.articleService.ListByAuthor(c.Request.Context(), user.ID)
	if err != nil {
		h.Helper.SendServiceError(c, err, models.MsgListFailed)
		return
	}

	h.Helper.SendSuccess(c, articles)
}
