package repositories

import (
	"context"

	"sciarticles/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error)
	ListPublished(ctx context.Context) ([]models.Article, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Article, error)
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id string) error
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func selectAuthorSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email")
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(article).Error
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&article).Error
	return &article, err
}

func (r *articleRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).
		Preload("Author", selectAuthorSummary).
		Where("slug = ? AND published = ?", slug, true).
		First(&article).Error
	return &article, err
}

func (r *articleRepository) ListPublished(ctx context.Context) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.WithContext(ctx).
		Preload("Author", selectAuthorSummary).
		Where("published = ?", true).
		Order("created_at desc").
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("updated_at desc").
		Find(&articles).Error
	return articles, err
}

// Update writes every column of the article, so zero values and NULLs persist.
func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(article).Error
}

func (r *articleRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Article{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
