package rulesfile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadRules(t *testing.T) {
	path := writeFile(t, "rules.yaml", `---
domains:
  www.Allotment.example: gardening
  seeds.example: gardening
paths:
  - pattern: "/seed-catalogue"
    category: gardening
keywords:
  - category: gardening
    words: [compost, Mulch, ""]
`)

	loader := NewLoader(path, "")
	rf, err := loader.LoadRules()
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}
	if rf == nil {
		t.Fatal("LoadRules() returned nil for existing file")
	}

	user, err := NewMapper().MapRules(rf)
	if err != nil {
		t.Fatalf("MapRules() error = %v", err)
	}

	// Hosts are lowered and de-www'd.
	if user.Domains["allotment.example"] != "gardening" {
		t.Errorf("domains = %v", user.Domains)
	}
	if len(user.Paths) != 1 || !user.Paths[0].Pattern.MatchString("/seed-catalogue") {
		t.Errorf("paths = %v", user.Paths)
	}
	if len(user.Keywords) != 1 {
		t.Fatalf("keywords = %v", user.Keywords)
	}
	if got := user.Keywords[0].Words; len(got) != 2 || got[1] != "mulch" {
		t.Errorf("words = %v", got)
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "absent.yaml"), "")
	rf, err := loader.LoadRules()
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}
	if rf != nil {
		t.Errorf("missing file parsed to %+v", rf)
	}
}

func TestMapRulesRejectsBadPattern(t *testing.T) {
	rf := &RulesFile{
		Paths: []PathEntry{{Pattern: "([unclosed", Category: "x"}},
	}
	if _, err := NewMapper().MapRules(rf); err == nil {
		t.Error("MapRules() accepted an invalid pattern")
	}
}

func TestLoadTaxonomy(t *testing.T) {
	path := writeFile(t, "taxonomy.yaml", `---
categories:
  - name: Gardening
    emoji: "🌱"
    order: 10
  - slug: media/video
    name: Video
    emoji: "🎥"
    parent: media
    order: 20
  - name: ""
`)

	loader := NewLoader("", path)
	tf, err := loader.LoadTaxonomy()
	if err != nil {
		t.Fatalf("LoadTaxonomy() error = %v", err)
	}

	defs := NewMapper().MapTaxonomy(tf)
	if len(defs) != 2 {
		t.Fatalf("defs = %+v", defs)
	}
	if defs[0].Slug != "gardening" || defs[0].Emoji != "🌱" {
		t.Errorf("first def = %+v", defs[0])
	}
	if defs[1].Slug != "media/video" || defs[1].ParentSlug != "media" {
		t.Errorf("second def = %+v", defs[1])
	}
}
