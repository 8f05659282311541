package services

import (
	"context"
	"errors"
	"sort"

	"sciarticles/models"
	"sciarticles/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ArticleService interface {
	CreateArticle(ctx context.Context, req models.CreateArticleRequest, author *models.User) (*models.Article, error)
	GetArticle(ctx context.Context, id string, userID string) (*models.Article, error)
	UpdateArticle(ctx context.Context, id string, req models.UpdateArticleRequest, user *models.User) (*models.Article, error)
	DeleteArticle(ctx context.Context, id string, userID string) error
	ValidateOwnership(ctx context.Context, id string, userID string) (*models.Article, error)
	ListPublished(ctx context.Context) ([]models.PublicArticle, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error)
	ListByAuthor(ctx context.Context, userID string) ([]models.Article, error)
	Search(ctx context.Context, opts SearchOptions) ([]models.PublicArticle, error)
	ListTags(ctx context.Context) ([]TagCount, error)
}

type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ArticleServiceOptions struct {
	// RequirePublishCapability additionally gates publishing on User.CanPublish.
	RequirePublishCapability bool
}

type articleService struct {
	articleRepo repositories.ArticleRepository
	tagRepo     repositories.TagRepository
	cache       repositories.ArticleCache
	opts        ArticleServiceOptions
	log         *zap.Logger
}

func NewArticleService(
	articleRepo repositories.ArticleRepository,
	tagRepo repositories.TagRepository,
	cache repositories.ArticleCache,
	opts ArticleServiceOptions,
	log *zap.Logger,
) ArticleService {
	return &articleService{
		articleRepo: articleRepo,
		tagRepo:     tagRepo,
		cache:       cache,
		opts:        opts,
		log:         log,
	}
}

func (s *articleService) CreateArticle(ctx context.Context, req models.CreateArticleRequest, author *models.User) (*models.Article, error) {
	article := &models.Article{
		Title:      req.Title,
		Slug:       GenerateSlug(req.Title),
		Abstract:   req.Abstract,
		Content:    req.Content,
		References: emptyToNil(req.References),
		CoverStyle: emptyToNil(req.CoverStyle),
		Tags:       NormalizeTags(req.Tags),
		Pseudonym:  emptyToNil(req.Pseudonym),
		Published:  false,
		AuthorID:   author.ID,
	}

	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, models.ErrorInternalServer{Message: models.MsgCreateFailed, Err: err}
	}

	s.log.Info("article created",
		zap.String("article_id", article.ID),
		zap.String("author_id", author.ID),
		zap.String("slug", article.Slug),
	)
	s.invalidate(ctx)

	return article, nil
}

func (s *articleService) ValidateOwnership(ctx context.Context, id string, userID string) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: models.MsgArticleNotFound}
		}
		return nil, models.ErrorInternalServer{Message: models.MsgFetchFailed, Err: err}
	}

	if article.AuthorID != userID {
		return nil, models.ErrorForbidden{Message: models.MsgForbidden}
	}

	return article, nil
}

func (s *articleService) GetArticle(ctx context.Context, id string, userID string) (*models.Article, error) {
	return s.ValidateOwnership(ctx, id, userID)
}

func (s *articleService) UpdateArticle(ctx context.Context, id string, req models.UpdateArticleRequest, user *models.User) (*models.Article, error) {
	article, err := s.ValidateOwnership(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}

	if err := checkRequiredNotNull(req); err != nil {
		return nil, err
	}
	if req.Empty() {
		return article, nil
	}

	if req.Title.Set {
		if ShouldRegenerateSlug(article, req.Title.Value) {
			article.Slug = GenerateSlug(req.Title.Value)
		}
		article.Title = req.Title.Value
	}
	if req.Abstract.Set {
		article.Abstract = req.Abstract.Value
	}
	if req.Content.Set {
		article.Content = req.Content.Value
	}
	if req.References.Set {
		article.References = optionalToNullable(req.References)
	}
	if req.CoverStyle.Set {
		article.CoverStyle = optionalToNullable(req.CoverStyle)
	}
	if req.Pseudonym.Set {
		article.Pseudonym = optionalToNullable(req.Pseudonym)
	}
	if req.Tags.Set {
		article.Tags = NormalizeTags(req.Tags.Value)
	}
	if req.Published.Set {
		if req.Published.Value && !article.Published && s.opts.RequirePublishCapability && !user.CanPublish {
			return nil, models.ErrorForbidden{Message: models.MsgPublishForbidden}
		}
		article.Published = req.Published.Value
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, models.ErrorInternalServer{Message: models.MsgUpdateFailed, Err: err}
	}

	s.log.Info("article updated",
		zap.String("article_id", article.ID),
		zap.Bool("published", article.Published),
	)
	s.invalidate(ctx)

	return article, nil
}

func (s *articleService) DeleteArticle(ctx context.Context, id string, userID string) error {
	if _, err := s.ValidateOwnership(ctx, id, userID); err != nil {
		return err
	}

	if err := s.articleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrorNotFound{Message: models.MsgArticleNotFound}
		}
		return models.ErrorInternalServer{Message: models.MsgDeleteFailed, Err: err}
	}

	s.log.Info("article deleted", zap.String("article_id", id))
	s.invalidate(ctx)

	return nil
}

func (s *articleService) ListPublished(ctx context.Context) ([]models.PublicArticle, error) {
	cached, err := s.cache.GetPublished(ctx)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, repositories.ErrCacheMiss) {
		s.log.Warn("read article cache", zap.Error(err))
	}

	articles, err := s.articleRepo.ListPublished(ctx)
	if err != nil {
		return nil, models.ErrorInternalServer{Message: models.MsgListFailed, Err: err}
	}

	out := make([]models.PublicArticle, 0, len(articles))
	for _, a := range articles {
		out = append(out, models.NewPublicArticle(a))
	}

	if err := s.cache.SetPublished(ctx, out); err != nil {
		s.log.Warn("write article cache", zap.Error(err))
	}

	return out, nil
}

func (s *articleService) GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error) {
	article, err := s.articleRepo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: models.MsgArticleNotFound}
		}
		return nil, models.ErrorInternalServer{Message: models.MsgFetchFailed, Err: err}
	}
	return article, nil
}

func (s *articleService) ListByAuthor(ctx context.Context, userID string) ([]models.Article, error) {
	articles, err := s.articleRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, models.ErrorInternalServer{Message: models.MsgListFailed, Err: err}
	}
	return articles, nil
}

func (s *articleService) Search(ctx context.Context, opts SearchOptions) ([]models.PublicArticle, error) {
	articles, err := s.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	return FilterArticles(articles, opts), nil
}

// ListTags returns tags of published articles, most used first, ties by name.
func (s *articleService) ListTags(ctx context.Context) ([]TagCount, error) {
	counts, err := s.tagRepo.CountPublished(ctx)
	if err != nil {
		return nil, models.ErrorInternalServer{Message: "Failed to fetch tags", Err: err}
	}

	tags := make([]TagCount, 0, len(counts))
	for name, count := range counts {
		tags = append(tags, TagCount{Name: name, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Name < tags[j].Name
	})

	return tags, nil
}

func (s *articleService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("invalidate article cache", zap.Error(err))
	}
}

func checkRequiredNotNull(req models.UpdateArticleRequest) error {
	fields := map[string][]string{}
	if req.Title.Null {
		fields["title"] = append(fields["title"], "title cannot be null")
	}
	if req.Title.Set && !req.Title.Null && req.Title.Value == "" {
		fields["title"] = append(fields["title"], "title is a required field")
	}
	if req.Abstract.Null {
		fields["abstract"] = append(fields["abstract"], "abstract cannot be null")
	}
	if req.Content.Null {
		fields["content"] = append(fields["content"], "content cannot be null")
	}
	if req.Published.Null {
		fields["published"] = append(fields["published"], "published cannot be null")
	}
	if len(fields) > 0 {
		return models.ErrorValidation{Message: "Invalid article payload", Fields: fields}
	}
	return nil
}

func isEmptyString(s string) bool { return s == "" }

// optionalToNullable maps a present optional string to a column value:
// null or "" clears it.
func optionalToNullable(o models.Optional[string]) *string {
	if o.Cleared(isEmptyString) {
		return nil
	}
	v := o.Value
	return &v
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
