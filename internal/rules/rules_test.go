package rules

import (
	"regexp"
	"testing"

	"github.com/MrSnakeDoc/curator/internal/domain"
)

func TestMatchURLDomains(t *testing.T) {
	e := New()

	tests := []struct {
		name string
		host string
		path string
		want string
	}{
		{
			name: "github maps to developer/programming",
			host: "github.com",
			path: "/",
			want: "developer/programming",
		},
		{
			name: "www prefix stripped",
			host: "www.github.com",
			path: "/",
			want: "developer/programming",
		},
		{
			name: "hostname case insensitive",
			host: "GitHub.com",
			path: "/",
			want: "developer/programming",
		},
		{
			name: "streaming site",
			host: "youtube.com",
			path: "/",
			want: "media/video",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := e.MatchURL(tt.host, tt.path)
			if m == nil {
				t.Fatalf("MatchURL(%q, %q) = nil, want %q", tt.host, tt.path, tt.want)
			}
			if m.Slug != tt.want {
				t.Errorf("slug = %q, want %q", m.Slug, tt.want)
			}
			if m.Source != domain.SourceDomain {
				t.Errorf("source = %q, want %q", m.Source, domain.SourceDomain)
			}
		})
	}
}

func TestMatchURLPathOrder(t *testing.T) {
	e := New()

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "wp-login is cms not auth",
			path: "/wp-login.php",
			want: "tools/cms",
		},
		{
			name: "plain login is auth",
			path: "/login",
			want: "tools/auth",
		},
		{
			name: "oauth flow is auth",
			path: "/oauth/authorize?client_id=x",
			want: "tools/auth",
		},
		{
			name: "dashboard is cms",
			path: "/dashboard/settings",
			want: "tools/cms",
		},
		{
			name: "docs section",
			path: "/docs/getting-started",
			want: "reading/docs",
		},
		{
			name: "video watch page",
			path: "/watch?v=abc123",
			want: "media/video",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := e.MatchURL("unknown-host.example", tt.path)
			if m == nil {
				t.Fatalf("MatchURL(path=%q) = nil, want %q", tt.path, tt.want)
			}
			if m.Slug != tt.want {
				t.Errorf("slug = %q, want %q", m.Slug, tt.want)
			}
			if m.Source != domain.SourcePath {
				t.Errorf("source = %q, want %q", m.Source, domain.SourcePath)
			}
		})
	}
}

func TestMatchURLNoOpinion(t *testing.T) {
	e := New()
	if m := e.MatchURL("unknown-host.example", "/some/random/page"); m != nil {
		t.Errorf("expected nil match, got %+v", m)
	}
}

func TestScoreKeywords(t *testing.T) {
	e := New()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "programming text",
			text: "learn to code with this programming framework and its api",
			want: "developer/programming",
		},
		{
			name: "phrase outweighs single word",
			text: "machine learning machine learning design",
			want: "developer/ai",
		},
		{
			name: "recipe text unmapped passthrough",
			text: "this recipe needs fresh ingredients, cook in the oven",
			want: "lifestyle/recipes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := e.ScoreKeywords(tt.text)
			if m == nil {
				t.Fatalf("ScoreKeywords(%q) = nil, want %q", tt.text, tt.want)
			}
			if m.Slug != tt.want {
				t.Errorf("slug = %q, want %q", m.Slug, tt.want)
			}
			if m.Source != domain.SourceKeyword {
				t.Errorf("source = %q, want %q", m.Source, domain.SourceKeyword)
			}
		})
	}
}

func TestScoreKeywordsZeroScore(t *testing.T) {
	e := New()
	if m := e.ScoreKeywords("lorem ipsum dolor sit amet"); m != nil {
		t.Errorf("expected nil on zero score, got %+v", m)
	}
	if m := e.ScoreKeywords("   "); m != nil {
		t.Errorf("expected nil on empty text, got %+v", m)
	}
}

func TestScoreKeywordsTokenBoundaries(t *testing.T) {
	e := New()

	// "encoder" must not count as a hit for "code".
	if m := e.ScoreKeywords("the encoder encodes"); m != nil {
		t.Errorf("substring leaked through token matching: %+v", m)
	}
}

func TestScoreKeywordsTieKeepsFirstDeclared(t *testing.T) {
	e := New()

	// One hit each for video ("stream") and music ("album"):
	// video is declared first and must win the tie.
	m := e.ScoreKeywords("stream the album")
	if m == nil {
		t.Fatal("expected a match")
	}
	if m.Slug != "media/video" {
		t.Errorf("tie went to %q, want media/video", m.Slug)
	}
}

func TestUserRulesPriority(t *testing.T) {
	e := New()
	e.SetUserRules(UserRules{
		Domains: map[string]string{"github.com": "work-stuff"},
		Paths: []PathRule{
			{regexp.MustCompile(`/login`), "intranet"},
		},
		Keywords: []KeywordRule{
			{"gardening", []string{"soil", "compost"}},
		},
	})

	if m := e.MatchURL("github.com", "/"); m == nil || m.Slug != "work-stuff" {
		t.Errorf("user domain rule not honored: %+v", m)
	}
	if m := e.MatchURL("other.example", "/login"); m == nil || m.Slug != "intranet" {
		t.Errorf("user path rule not honored: %+v", m)
	}
	if m := e.ScoreKeywords("soil and compost and more soil"); m == nil || m.Slug != "gardening" {
		t.Errorf("user keyword rule not honored: %+v", m)
	}
}

func TestNormalize(t *testing.T) {
	e := New()

	tests := []struct {
		raw  string
		want string
	}{
		{"devops", "developer/devops"},
		{"uxui", "tools/design-tools"},
		{"social", "social/networks"},
		{"gardening", "gardening"},
		{"other", "other"},
	}

	for _, tt := range tests {
		if got := e.Normalize(tt.raw); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCandidatesDistinctAndNormalized(t *testing.T) {
	e := New()

	candidates := e.Candidates()
	if len(candidates) == 0 {
		t.Fatal("no candidates")
	}

	seen := make(map[string]bool)
	for _, c := range candidates {
		if seen[c] {
			t.Errorf("duplicate candidate %q", c)
		}
		seen[c] = true
	}

	if !seen["developer/programming"] {
		t.Error("candidates missing developer/programming")
	}
	if seen["programming"] {
		t.Error("candidates contain unnormalized slug")
	}
}
