package domain

import "sort"

// Category is a taxonomy entry bookmarks are classified into.
//
// A Category is uniquely identified by its Slug. The materialized
// folder in the bookmark tree is derived from Emoji and Name and is
// never used as an identifier.
type Category struct {
	// Slug is the canonical unique identifier.
	// Example: "programming"
	Slug string `json:"slug" yaml:"slug"`

	// Name is the human-readable display name.
	// Example: "Programming"
	Name string `json:"name" yaml:"name"`

	// Emoji is an optional pictogram prefixed to the folder title.
	Emoji string `json:"emoji,omitempty" yaml:"emoji,omitempty"`

	// ParentSlug groups categories for display ordering.
	// Empty for top-level groups. Purely cosmetic: folders are
	// materialized flat under the organized root.
	ParentSlug string `json:"parentSlug,omitempty" yaml:"parent,omitempty"`

	// Order controls display position inside a group.
	Order int `json:"order" yaml:"order,omitempty"`
}

// FolderTitle returns the title of the materialized tree folder.
func (c *Category) FolderTitle() string {
	if c.Emoji == "" {
		return c.Name
	}
	return c.Emoji + " " + c.Name
}

// SortCategories orders definitions for display: by parent group,
// then Order, then name.
func SortCategories(cats []*Category) {
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].ParentSlug != cats[j].ParentSlug {
			return cats[i].ParentSlug < cats[j].ParentSlug
		}
		if cats[i].Order != cats[j].Order {
			return cats[i].Order < cats[j].Order
		}
		return cats[i].Name < cats[j].Name
	})
}
