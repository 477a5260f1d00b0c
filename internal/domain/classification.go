package domain

// Source identifies which stage of the classification cascade
// produced a result.
type Source string

const (
	// SourceManual means a user-curated record short-circuited the
	// cascade.
	SourceManual Source = "manual"

	// SourceDomain means a hostname rule matched.
	SourceDomain Source = "domain"

	// SourcePath means a URL path pattern matched.
	SourcePath Source = "path"

	// SourceRemote means an external classification provider
	// produced the result.
	SourceRemote Source = "remote"

	// SourceKeyword means page-content keyword scoring decided.
	SourceKeyword Source = "keyword"

	// SourceDefault means every stage abstained and the fallback
	// category was used.
	SourceDefault Source = "default"
)

// Classification is the outcome of running the cascade for one item.
// The zero value is not meaningful; the classifier always returns a
// populated result, falling back to the default category.
type Classification struct {
	// Category is the normalized category slug.
	Category string `json:"category"`

	// Description is a short page summary when one could be
	// extracted or generated. May be empty.
	Description string `json:"description,omitempty"`

	// Source records which stage decided.
	Source Source `json:"source"`
}
