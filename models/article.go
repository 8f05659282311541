package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Article struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title      string    `json:"title" gorm:"not null"`
	Slug       string    `json:"slug" gorm:"uniqueIndex;not null"`
	Abstract   string    `json:"abstract" gorm:"type:text;not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	References *string   `json:"references" gorm:"type:text"`
	CoverStyle *string   `json:"coverStyle" gorm:"type:text"`
	Tags       []string  `json:"tags" gorm:"serializer:json;type:text"`
	Pseudonym  *string   `json:"pseudonym"`
	Published  bool      `json:"published" gorm:"default:false;index"`
	AuthorID   string    `json:"authorId" gorm:"type:varchar(36);not null;index"`
	Author     *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	CreatedAt  time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return nil
}

// DisplayName is the pseudonym when set, otherwise the author's name.
func (a *Article) DisplayName() string {
	if a.Pseudonym != nil && *a.Pseudonym != "" {
		return *a.Pseudonym
	}
	if a.Author != nil {
		return a.Author.Name
	}
	return ""
}

// AuthorSummary is the public projection of an article's author.
type AuthorSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PublicArticle is a published article as served to anonymous readers.
type PublicArticle struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Slug       string        `json:"slug"`
	Abstract   string        `json:"abstract"`
	Content    string        `json:"content"`
	References *string       `json:"references"`
	CoverStyle *string       `json:"coverStyle"`
	Tags       []string      `json:"tags"`
	Pseudonym  *string       `json:"pseudonym"`
	Published  bool          `json:"published"`
	AuthorID   string        `json:"authorId"`
	Author     AuthorSummary `json:"author"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

func NewPublicArticle(a Article) PublicArticle {
	p := PublicArticle{
		ID:         a.ID,
		Title:      a.Title,
		Slug:       a.Slug,
		Abstract:   a.Abstract,
		Content:    a.Content,
		References: a.References,
		CoverStyle: a.CoverStyle,
		Tags:       a.Tags,
		Pseudonym:  a.Pseudonym,
		Published:  a.Published,
		AuthorID:   a.AuthorID,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if a.Author != nil {
		p.Author = AuthorSummary{Name: a.Author.Name, Email: a.Author.Email}
	}
	return p
}
