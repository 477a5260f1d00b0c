package rulesfile

// RulesFile is the parsed shape of rules.yaml. Every section is
// optional; entries extend the built-in tables without replacing
// them.
type RulesFile struct {
	// Domains maps exact hostnames to category slugs.
	Domains map[string]string `yaml:"domains,omitempty"`

	// Paths are ordered regex rules over the URL path and query.
	Paths []PathEntry `yaml:"paths,omitempty"`

	// Keywords vote for a category when found in page text.
	Keywords []KeywordEntry `yaml:"keywords,omitempty"`
}

type PathEntry struct {
	Pattern  string `yaml:"pattern"`
	Category string `yaml:"category"`
}

type KeywordEntry struct {
	Category string   `yaml:"category"`
	Words    []string `yaml:"words"`
}

// TaxonomyFile is the parsed shape of taxonomy.yaml: a full category
// definition set applied by reconciliation.
type TaxonomyFile struct {
	Categories []CategoryEntry `yaml:"categories"`
}

type CategoryEntry struct {
	// Slug is optional; derived from Name when empty.
	Slug   string `yaml:"slug,omitempty"`
	Name   string `yaml:"name"`
	Emoji  string `yaml:"emoji,omitempty"`
	Parent string `yaml:"parent,omitempty"`
	Order  int    `yaml:"order,omitempty"`
}
