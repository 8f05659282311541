package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"sciarticles/helper"
	"sciarticles/models"
	"sciarticles/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

var dataImagePattern = regexp.MustCompile(`^data:image/(png|jpeg|gif|webp);base64,[A-Za-z0-9+/]+={0,2}$`)

// coverImageCSS returns the background declaration for an http(s) or base64
// image data URL. Anything else yields an empty declaration.
func coverImageCSS(raw string) template.CSS {
	if dataImagePattern.MatchString(raw) {
		return template.CSS("background-image: url(" + raw + ");")
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	if strings.ContainsAny(raw, "'\"()\\<> \t\r\n;{}") {
		return ""
	}
	return template.CSS("background-image: url(" + raw + ");")
}

type coverView struct {
	Type         string
	Color1       string
	Color2       string
	ImageURL     string
	Background   template.CSS
	Blur         float64
	Grayscale    float64
	Brightness   float64
	Grain        float64
	GrainOpacity float64
	ShowTitle    bool
}

type articlePage struct {
	Title       string
	Abstract    string
	DisplayName string
	Tags        []string
	Cover       coverView
	Body        template.HTML
	Headings    []services.Heading
	References  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func newCoverView(raw *string) coverView {
	style := models.DefaultCoverStyle()
	if parsed := models.ParseCoverStyle(raw); parsed != nil {
		style = *parsed
	}

	view := coverView{
		Type:       style.Type,
		Color1:     style.Color1,
		Color2:     style.Color2,
		ImageURL:   style.ImageURL,
		Blur:       style.Value(style.Blur, 0),
		Grayscale:  style.Value(style.Grayscale, 0),
		Brightness: style.Value(style.Brightness, 100),
		Grain:      style.Value(style.Grain, 0),
		ShowTitle:  style.TitleVisible(),
	}
	view.GrainOpacity = view.Grain / 100
	if view.Type == models.CoverTypeImage {
		view.Background = coverImageCSS(view.ImageURL)
	}
	if view.Type == models.CoverTypeGradient {
		def := models.DefaultCoverStyle()
		if view.Color1 == "" {
			view.Color1 = def.Color1
		}
		if view.Color2 == "" {
			view.Color2 = def.Color2
		}
	}
	return view
}

// PageHandler serves the server-rendered public article page.
type PageHandler struct {
	articleService services.ArticleService
	renderer       services.MarkdownRenderer
	templates      *template.Template
	Helper         *helper.HTTPHelper
}

func NewPageHandler(articleService services.ArticleService, renderer services.MarkdownRenderer, h *helper.HTTPHelper) *PageHandler {
	return &PageHandler{
		articleService: articleService,
		renderer:       renderer,
		templates:      template.Must(template.ParseFS(templatesFS, "templates/*.html")),
		Helper:         h,
	}
}

func (h *PageHandler) html(c *gin.Context, status int, name string, data interface{}) {
	c.Render(status, render.HTML{Template: h.templates, Name: name, Data: data})
}

func (h *PageHandler) ArticlePage(c *gin.Context) {
	article, err := h.articleService.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		status, _ := h.Helper.GetStatusCode(err)
		if status == http.StatusNotFound {
			h.html(c, status, "not_found.html", nil)
			return
		}
		h.Helper.Log.Error("load article page", zap.Error(err), zap.String("slug", c.Param("slug")))
		h.html(c, http.StatusInternalServerError, "error.html", nil)
		return
	}

	doc, err := h.renderer.Render(article.Content)
	if err != nil {
		h.Helper.Log.Error("render article", zap.Error(err), zap.String("article_id", article.ID))
		h.html(c, http.StatusInternalServerError, "error.html", nil)
		return
	}

	page := articlePage{
		Title:       article.Title,
		Abstract:    article.Abstract,
		DisplayName: article.DisplayName(),
		Tags:        article.Tags,
		Cover:       newCoverView(article.CoverStyle),
		Body:        doc.HTML,
		Headings:    doc.Headings,
		CreatedAt:   article.CreatedAt,
		UpdatedAt:   article.UpdatedAt,
	}
	if article.References != nil {
		page.References = strings.TrimSpace(*article.References)
	}

	h.html(c, http.StatusOK, "article.html", page)
}
