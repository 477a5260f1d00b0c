package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple lowercase",
			input: "programming",
			want:  "programming",
		},
		{
			name:  "mixed case with spaces",
			input: "Design Tools",
			want:  "design-tools",
		},
		{
			name:  "accents transliterated",
			input: "Café Recipes",
			want:  "cafe-recipes",
		},
		{
			name:  "punctuation collapsed",
			input: "News & Politics!!",
			want:  "news-politics",
		},
		{
			name:  "emoji dropped",
			input: "🎮 Gaming",
			want:  "gaming",
		},
		{
			name:  "leading and trailing noise",
			input: "  --Finance--  ",
			want:  "finance",
		},
		{
			name:  "nothing usable",
			input: "🎉🎉🎉",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Make(tt.input)
			if got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMakeCapsLength(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "abcdefgh "
	}

	got := Make(long)
	if len(got) > maxLength {
		t.Errorf("Make produced %d chars, cap is %d", len(got), maxLength)
	}
	if got[len(got)-1] == '-' {
		t.Errorf("Make left trailing hyphen after truncation: %q", got)
	}
}

func TestUnique(t *testing.T) {
	tests := []struct {
		name  string
		input string
		taken map[string]bool
		want  string
	}{
		{
			name:  "free base",
			input: "Gaming",
			taken: map[string]bool{},
			want:  "gaming",
		},
		{
			name:  "first collision",
			input: "Gaming",
			taken: map[string]bool{"gaming": true},
			want:  "gaming-1",
		},
		{
			name:  "sequential probing",
			input: "Gaming",
			taken: map[string]bool{"gaming": true, "gaming-1": true, "gaming-2": true},
			want:  "gaming-3",
		},
		{
			name:  "empty name falls back",
			input: "!!!",
			taken: map[string]bool{},
			want:  "category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Unique(tt.input, func(s string) bool { return tt.taken[s] })
			if got != tt.want {
				t.Errorf("Unique(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
