package domain

import "time"

// AllCategories is the sentinel category label meaning "no category filter".
const AllCategories = "전체 카테고리"

// CounterField names a numeric column that supports atomic increments.
type CounterField string

const (
	CounterViews CounterField = "views"
)

// DevLog is a blog ("dev log") post.
//
// The field list is mirrored by wire.DevLog; the two types convert into one
// another directly, so adding a field here without adding it there fails to
// compile.
type DevLog struct {
	ID        string
	Title     string
	Content   string
	Category  string
	Tags      []string
	ImageURL  *string
	Views     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DevLogInput carries the client-supplied fields of a new post.
type DevLogInput struct {
	Title    string
	Content  string
	Category string
	Tags     []string
	ImageURL *string
}

// DevLogPatch carries a partial update. Nil fields are left untouched.
type DevLogPatch struct {
	Title    *string
	Content  *string
	Category *string
	Tags     *[]string
	ImageURL *string
}

// Empty reports whether the patch would change nothing but the update timestamp.
func (p DevLogPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Category == nil && p.Tags == nil && p.ImageURL == nil
}

// DevLogFilter narrows a listing. Zero values mean "no filter".
type DevLogFilter struct {
	Category string
	Tags     []string
	Search   string
}

// CategoryFilter returns the category to match, or "" when the filter holds a sentinel.
func (f DevLogFilter) CategoryFilter() string {
	return NormalizeCategory(f.Category)
}

// NormalizeCategory maps the sentinel spellings to "".
func NormalizeCategory(category string) string {
	switch category {
	case "", AllCategories, "전체", "all":
		return ""
	}
	return category
}
