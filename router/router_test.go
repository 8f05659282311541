package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"sciarticles/helper"
	"sciarticles/middleware"
	"sciarticles/models"
	"sciarticles/repositories"
	"sciarticles/services"
	"sciarticles/testutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

var slugPattern = regexp.MustCompile(`^[a-z0-9-]*-[0-9a-z]{7}$`)

type IntegrationTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	alice  string
	bob    string
}

func (suite *IntegrationTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.db = testutil.NewDB(suite.T())

	log := zap.NewNop()
	verifier, err := middleware.NewSessionVerifier(testSecret, "")
	suite.Require().NoError(err)

	userRepo := repositories.NewUserRepository(suite.db)
	articleService := services.NewArticleService(
		repositories.NewArticleRepository(suite.db),
		repositories.NewTagRepository(suite.db),
		repositories.NewArticleCache(nil, 0),
		services.ArticleServiceOptions{},
		log,
	)

	suite.router = InitRouter(Dependencies{
		Log:             log,
		Helper:          helper.NewHTTPHelper(log),
		Verifier:        verifier,
		IdentityService: services.NewIdentityService(userRepo, services.ClaimsProfileProvider{}, log),
		ArticleService:  articleService,
		Renderer:        services.NewMarkdownRenderer(),
	})

	suite.alice = suite.sign("user_alice", "alice@example.com", "Alice Smith")
	suite.bob = suite.sign("user_bob", "bob@example.com", "Bob Jones")
}

func (suite *IntegrationTestSuite) sign(sub, email, name string) string {
	claims := middleware.Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	suite.Require().NoError(err)
	return token
}

func (suite *IntegrationTestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *IntegrationTestSuite) decode(w *httptest.ResponseRecorder, out interface{}) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (suite *IntegrationTestSuite) createArticle(token, title string, tags []string) models.Article {
	w := suite.request(http.MethodPost, "/api/articles", token, map[string]interface{}{
		"title":    title,
		"abstract": "An abstract about " + title,
		"content":  "## Introduction\n\nBody of " + title,
		"tags":     tags,
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var article models.Article
	suite.decode(w, &article)
	return article
}

func (suite *IntegrationTestSuite) publish(token, id string) {
	w := suite.request(http.MethodPatch, "/api/articles/"+id, token, map[string]interface{}{"published": true})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *IntegrationTestSuite) TestHealth() {
	w := suite.request(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "healthy")
}

func (suite *IntegrationTestSuite) TestCreateRequiresSession() {
	w := suite.request(http.MethodPost, "/api/articles", "", map[string]interface{}{"title": "x"})
	suite.Equal(http.StatusUnauthorized, w.Code)

	var body map[string]interface{}
	suite.decode(w, &body)
	suite.Equal(models.MsgUnauthorized, body["error"])

	var count int64
	suite.db.Model(&models.Article{}).Count(&count)
	suite.Zero(count)
}

func (suite *IntegrationTestSuite) TestRejectsTamperedToken() {
	w := suite.request(http.MethodGet, "/api/me", suite.alice+"x", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *IntegrationTestSuite) TestCreateArticle() {
	article := suite.createArticle(suite.alice, "Quantum Entanglement: A Primer!", []string{" physics ", "quantum", "physics"})

	suite.False(article.Published)
	suite.True(strings.HasPrefix(article.Slug, "quantum-entanglement-a-primer-"))
	suite.Regexp(slugPattern, article.Slug)
	suite.Equal([]string{"physics", "quantum"}, article.Tags)

	var user models.User
	suite.Require().NoError(suite.db.Where("clerk_id = ?", "user_alice").First(&user).Error)
	suite.Equal(user.ID, article.AuthorID)
	suite.Equal("Alice Smith", user.Name)
	suite.Equal("alice@example.com", user.Email)
}

func (suite *IntegrationTestSuite) TestCreateValidation() {
	w := suite.request(http.MethodPost, "/api/articles", suite.alice, map[string]interface{}{
		"abstract": "no title",
		"content":  "body",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	var body struct {
		Error    string              `json:"error"`
		CodeType string              `json:"code_type"`
		Fields   map[string][]string `json:"fields"`
	}
	suite.decode(w, &body)
	suite.Equal("validationError", body.CodeType)
	suite.Contains(body.Fields, "title")
}

func (suite *IntegrationTestSuite) TestCreateMalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/api/articles", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+suite.alice)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *IntegrationTestSuite) TestSessionCookie() {
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: suite.bob})
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var user models.User
	suite.decode(w, &user)
	suite.Equal("user_bob", user.ClerkID)
	suite.Equal("Bob Jones", user.Name)
}

func (suite *IntegrationTestSuite) TestOwnership() {
	article := suite.createArticle(suite.alice, "Private Draft", nil)

	w := suite.request(http.MethodGet, "/api/articles/"+article.ID, suite.alice, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, "/api/articles/"+article.ID, suite.bob, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodPatch, "/api/articles/"+article.ID, suite.bob, map[string]interface{}{"title": "Hijacked"})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodDelete, "/api/articles/"+article.ID, suite.bob, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	var stored models.Article
	suite.Require().NoError(suite.db.First(&stored, "id = ?", article.ID).Error)
	suite.Equal("Private Draft", stored.Title)

	w = suite.request(http.MethodGet, "/api/articles/missing-id", suite.alice, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IntegrationTestSuite) TestPublishFlow() {
	article := suite.createArticle(suite.alice, "Graph Theory Notes", []string{"math"})

	w := suite.request(http.MethodGet, "/api/articles", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list []models.PublicArticle
	suite.decode(w, &list)
	suite.Empty(list)

	w = suite.request(http.MethodGet, "/api/public/articles/"+article.Slug, "", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	suite.publish(suite.alice, article.ID)

	w = suite.request(http.MethodGet, "/api/articles", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &list)
	suite.Require().Len(list, 1)
	suite.Equal(article.ID, list[0].ID)
	suite.Equal("Alice Smith", list[0].Author.Name)
	suite.Equal("alice@example.com", list[0].Author.Email)

	// the slug is frozen once published
	w = suite.request(http.MethodPatch, "/api/articles/"+article.ID, suite.alice, map[string]interface{}{"title": "Graph Theory, Revised"})
	suite.Require().Equal(http.StatusOK, w.Code)
	var updated models.Article
	suite.decode(w, &updated)
	suite.Equal("Graph Theory, Revised", updated.Title)
	suite.Equal(article.Slug, updated.Slug)

	w = suite.request(http.MethodGet, "/api/public/articles/"+article.Slug, "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var public models.PublicArticle
	suite.decode(w, &public)
	suite.Equal("Graph Theory, Revised", public.Title)
}

func (suite *IntegrationTestSuite) TestPartialUpdate() {
	article := suite.createArticle(suite.alice, "Draft Title", []string{"a", "b"})

	w := suite.request(http.MethodPatch, "/api/articles/"+article.ID, suite.alice, map[string]interface{}{
		"references": "[1] Knuth, 1968",
		"pseudonym":  "A. Nonymous",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodPatch, "/api/articles/"+article.ID, suite.alice, map[string]interface{}{
		"pseudonym": nil,
		"title":     "New Draft Title",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	var updated models.Article
	suite.decode(w, &updated)
	suite.Equal("New Draft Title", updated.Title)
	suite.True(strings.HasPrefix(updated.Slug, "new-draft-title-"))
	suite.Nil(updated.Pseudonym)
	suite.Require().NotNil(updated.References)
	suite.Equal("[1] Knuth, 1968", *updated.References)
	suite.Equal([]string{"a", "b"}, updated.Tags)
	suite.Equal(article.Abstract, updated.Abstract)

	w = suite.request(http.MethodPatch, "/api/articles/"+article.ID, suite.alice, map[string]interface{}{"title": nil})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *IntegrationTestSuite) TestDelete() {
	article := suite.createArticle(suite.alice, "Short Lived", nil)

	w := suite.request(http.MethodDelete, "/api/articles/"+article.ID, suite.alice, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"success":true}`, w.Body.String())

	w = suite.request(http.MethodGet, "/api/articles/"+article.ID, suite.alice, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodDelete, "/api/articles/"+article.ID, suite.alice, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IntegrationTestSuite) TestMyArticles() {
	first := suite.createArticle(suite.alice, "First", nil)
	suite.createArticle(suite.alice, "Second", nil)
	suite.createArticle(suite.bob, "Not Mine", nil)
	suite.publish(suite.alice, first.ID)

	w := suite.request(http.MethodGet, "/api/me/articles", suite.alice, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var articles []models.Article
	suite.decode(w, &articles)
	suite.Len(articles, 2)
	for _, a := range articles {
		suite.NotEqual("Not Mine", a.Title)
	}
}

func (suite *IntegrationTestSuite) TestSearchAndTags() {
	ml := suite.createArticle(suite.alice, "Neural Networks", []string{"ml", "ai"})
	bio := suite.createArticle(suite.bob, "Protein Folding", []string{"biology", "ai"})
	suite.createArticle(suite.alice, "Unpublished Neural Work", []string{"ml"})
	suite.publish(suite.alice, ml.ID)
	suite.publish(suite.bob, bio.ID)

	w := suite.request(http.MethodGet, "/api/articles/search?q=NEURAL", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var found []models.PublicArticle
	suite.decode(w, &found)
	suite.Require().Len(found, 1)
	suite.Equal(ml.ID, found[0].ID)

	w = suite.request(http.MethodGet, "/api/articles/search?tag=ai", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &found)
	suite.Len(found, 2)

	w = suite.request(http.MethodGet, "/api/articles/search?q=protein&tag=ml", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &found)
	suite.Empty(found)

	w = suite.request(http.MethodGet, "/api/tags", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var tags []services.TagCount
	suite.decode(w, &tags)
	suite.Equal([]services.TagCount{
		{Name: "ai", Count: 2},
		{Name: "biology", Count: 1},
		{Name: "ml", Count: 1},
	}, tags)
}

func (suite *IntegrationTestSuite) TestArticlePage() {
	article := suite.createArticle(suite.alice, "Rendered Article", []string{"render"})

	w := suite.request(http.MethodGet, "/article/"+article.Slug, "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), "Article not found")

	w = suite.request(http.MethodPatch, "/api/articles/"+article.ID, suite.alice, map[string]interface{}{
		"published":  true,
		"pseudonym":  "Dr. Quill",
		"references": "[1] Source one",
		"coverStyle": `{"type":"image"`,
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, "/article/"+article.Slug, "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	page := w.Body.String()
	suite.Contains(page, "<h1>Rendered Article</h1>")
	suite.Contains(page, "Dr. Quill")
	suite.Contains(page, `href="#introduction"`)
	suite.Contains(page, "[1] Source one")
	// an unparseable cover falls back to the default gradient
	suite.Contains(page, "#3b82f6")

	w = suite.request(http.MethodGet, "/article/does-not-exist", "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IntegrationTestSuite) TestArticlePageImageCover() {
	article := suite.createArticle(suite.alice, "Uploaded Cover", nil)
	dataURL := "data:image/png;base64,iVBORw0KGgo="

	w := suite.request(http.MethodPatch, "/api/articles/"+article.ID, suite.alice, map[string]interface{}{
		"published":  true,
		"coverStyle": `{"type":"image","imageUrl":"` + dataURL + `","blur":2}`,
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.request(http.MethodGet, "/article/"+article.Slug, "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	page := w.Body.String()
	suite.Contains(page, "url("+dataURL+")")
	suite.Contains(page, "blur(2px)")
	suite.NotContains(page, "ZgotmplZ")
}

func (suite *IntegrationTestSuite) TestCreateRequiresAbstractAndContent() {
	w := suite.request(http.MethodPost, "/api/articles", suite.alice, map[string]interface{}{"title": "Title only"})
	suite.Equal(http.StatusBadRequest, w.Code)

	var body struct {
		Fields map[string][]string `json:"fields"`
	}
	suite.decode(w, &body)
	suite.Contains(body.Fields, "abstract")
	suite.Contains(body.Fields, "content")

	var count int64
	suite.db.Model(&models.Article{}).Count(&count)
	suite.Zero(count)
}

func (suite *IntegrationTestSuite) TestUpdateEnforcesCreateLimits() {
	article := suite.createArticle(suite.alice, "Bounded", []string{"ok"})

	cases := []map[string]interface{}{
		{"title": strings.Repeat("t", 300)},
		{"tags": []string{strings.Repeat("x", 100)}},
		{"pseudonym": strings.Repeat("p", 200)},
		{"content": ""},
	}
	for _, payload := range cases {
		w := suite.request(http.MethodPatch, "/api/articles/"+article.ID, suite.alice, payload)
		suite.Equal(http.StatusBadRequest, w.Code, w.Body.String())
	}

	var stored models.Article
	suite.Require().NoError(suite.db.First(&stored, "id = ?", article.ID).Error)
	suite.Equal("Bounded", stored.Title)
	suite.Equal([]string{"ok"}, stored.Tags)
	suite.Nil(stored.Pseudonym)

	w := suite.request(http.MethodPatch, "/api/articles/"+article.ID, suite.alice, map[string]interface{}{
		"title":     strings.Repeat("t", 255),
		"pseudonym": strings.Repeat("p", 120),
	})
	suite.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *IntegrationTestSuite) TestSubjectOnlyTokenIsNotProvisioned() {
	w := suite.request(http.MethodGet, "/api/me", suite.sign("user_blank", "", ""), nil)
	suite.Equal(http.StatusNotFound, w.Code)

	var body map[string]interface{}
	suite.decode(w, &body)
	suite.Equal(models.MsgUserNotFound, body["error"])

	var count int64
	suite.db.Model(&models.User{}).Where("clerk_id = ?", "user_blank").Count(&count)
	suite.Zero(count)
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
