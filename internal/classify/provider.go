package classify

import "context"

// ProviderInput is what a remote provider gets to work with. Text
// may be empty when the page could not be fetched.
type ProviderInput struct {
	URL        string
	Title      string
	Text       string
	Candidates []string
}

// ProviderResult is a provider's verdict. Category may name an
// existing slug or propose a new one.
type ProviderResult struct {
	Category    string
	Description string
}

// Provider is a remote classification backend. Returning (nil, nil)
// means no opinion; errors are treated the same way by the cascade
// and never abort a job.
type Provider interface {
	Name() string
	Classify(ctx context.Context, in ProviderInput) (*ProviderResult, error)
}
