package models

type CreateArticleRequest struct {
	Title      string   `json:"title" validate:"required,max=255"`
	Abstract   string   `json:"abstract" validate:"required"`
	Content    string   `json:"content" validate:"required"`
	References *string  `json:"references"`
	CoverStyle *string  `json:"coverStyle"`
	Tags       []string `json:"tags" validate:"omitempty,dive,max=64"`
	Pseudonym  *string  `json:"pseudonym" validate:"omitempty,max=120"`
}

// UpdateArticleRequest carries a partial update; absent fields stay untouched.
type UpdateArticleRequest struct {
	Title      Optional[string]   `json:"title"`
	Abstract   Optional[string]   `json:"abstract"`
	Content    Optional[string]   `json:"content"`
	References Optional[string]   `json:"references"`
	CoverStyle Optional[string]   `json:"coverStyle"`
	Tags       Optional[[]string] `json:"tags"`
	Pseudonym  Optional[string]   `json:"pseudonym"`
	Published  Optional[bool]     `json:"published"`
}

// Empty reports a payload with no recognised fields.
func (r UpdateArticleRequest) Empty() bool {
	return !r.Title.Set && !r.Abstract.Set && !r.Content.Set && !r.References.Set &&
		!r.CoverStyle.Set && !r.Tags.Set && !r.Pseudonym.Set && !r.Published.Set
}

// UpdateArticleFields carries the present, non-null values of an update so the
// create rules can be checked against them.
type UpdateArticleFields struct {
	Title     *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Abstract  *string  `json:"abstract" validate:"omitempty,min=1"`
	Content   *string  `json:"content" validate:"omitempty,min=1"`
	Tags      []string `json:"tags" validate:"omitempty,dive,max=64"`
	Pseudonym *string  `json:"pseudonym" validate:"omitempty,max=120"`
}

func presentValue[T any](o Optional[T]) *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

func (r UpdateArticleRequest) Fields() UpdateArticleFields {
	f := UpdateArticleFields{
		Title:     presentValue(r.Title),
		Abstract:  presentValue(r.Abstract),
		Content:   presentValue(r.Content),
		Pseudonym: presentValue(r.Pseudonym),
	}
	if tags := presentValue(r.Tags); tags != nil {
		f.Tags = *tags
	}
	return f
}

type SearchParams struct {
	Query string `form:"q"`
	Tag   string `form:"tag"`
	Limit int    `form:"limit"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}
