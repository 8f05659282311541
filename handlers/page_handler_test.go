package handlers

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"sciarticles/helper"
	"sciarticles/models"
	"sciarticles/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func TestNewCoverView(t *testing.T) {
	def := models.DefaultCoverStyle()

	fallback := newCoverView(nil)
	assert.Equal(t, models.CoverTypeGradient, fallback.Type)
	assert.Equal(t, def.Color1, fallback.Color1)
	assert.Equal(t, def.Color2, fallback.Color2)
	assert.True(t, fallback.ShowTitle)
	assert.Equal(t, 100.0, fallback.Brightness)

	assert.Equal(t, fallback, newCoverView(strPtr(`{"type":"image","imageUrl":"x","blur":99}`)))

	image := newCoverView(strPtr(`{"type":"image","imageUrl":"https://example.com/a.png","blur":4,"grain":50,"showTitle":false}`))
	assert.Equal(t, models.CoverTypeImage, image.Type)
	assert.Equal(t, "https://example.com/a.png", image.ImageURL)
	assert.Equal(t, 4.0, image.Blur)
	assert.Equal(t, 0.5, image.GrainOpacity)
	assert.Equal(t, 100.0, image.Brightness)
	assert.False(t, image.ShowTitle)
	assert.Equal(t, template.CSS("background-image: url(https://example.com/a.png);"), image.Background)

	gradient := newCoverView(strPtr(`{"type":"gradient","color1":"#000000"}`))
	assert.Equal(t, "#000000", gradient.Color1)
	assert.Equal(t, def.Color2, gradient.Color2)
}

func TestCoverImageCSS(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"data:image/png;base64,iVBORw0KGgo=", "background-image: url(data:image/png;base64,iVBORw0KGgo=);"},
		{"https://example.com/covers/a.png?w=400", "background-image: url(https://example.com/covers/a.png?w=400);"},
		{"data:image/svg+xml;base64,PHN2Zz4=", ""},
		{"data:text/html;base64,PGI+", ""},
		{"javascript:alert(1)", ""},
		{"https://example.com/a.png);background:red", ""},
		{"/relative.png", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, template.CSS(tc.want), coverImageCSS(tc.url), tc.url)
	}
}

// unavailableArticles fails every lookup with a storage error.
type unavailableArticles struct {
	services.ArticleService
}

func (unavailableArticles) GetPublishedBySlug(context.Context, string) (*models.Article, error) {
	return nil, models.ErrorInternalServer{Message: models.MsgFetchFailed, Err: errors.New("connection refused")}
}

func TestArticlePageStorageFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewPageHandler(unavailableArticles{}, services.NewMarkdownRenderer(), helper.NewHTTPHelper(zap.NewNop()))

	r := gin.New()
	r.GET("/article/:slug", h.ArticlePage)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/article/any-slug-abcdefg", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Something went wrong")
	assert.NotContains(t, w.Body.String(), "not found")
}
