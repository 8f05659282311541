package repositories

import (
	"context"

	"sciarticles/models"

	"gorm.io/gorm"
)

type TagRepository interface {
	// CountPublished returns how many published articles carry each tag.
	CountPublished(ctx context.Context) (map[string]int, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) CountPublished(ctx context.Context) (map[string]int, error) {
	var rows []models.Article
	err := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Select("id", "tags").
		Where("published = ?", true).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, row := range rows {
		seen := make(map[string]struct{}, len(row.Tags))
		for _, tag := range row.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			counts[tag]++
		}
	}

	return counts, nil
}
