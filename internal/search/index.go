// Package search maintains the full-text index over organized
// bookmarks.
package search

import (
	"errors"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/logger"
)

const defaultLimit = 20

// Index wraps the bleve index. All methods are safe for concurrent
// use; bleve serializes writes internally.
type Index struct {
	index bleve.Index
	log   logger.Logger
}

// Document is the indexed shape of one organized bookmark.
type Document struct {
	ID          string
	Title       string
	URL         string
	Description string
	Category    string
	Tags        []string
}

// Result is one search hit.
type Result struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	URL       string              `json:"url"`
	Category  string              `json:"category,omitempty"`
	Score     float64             `json:"score"`
	Fragments map[string][]string `json:"fragments,omitempty"`
}

// Open opens the index at path, creating it when absent. An empty
// path selects an in-memory index that lives as long as the process.
func Open(path string, log logger.Logger) (*Index, error) {
	if path == "" {
		idx, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory index: %w", err)
		}
		log.Info("search index ready", logger.String("mode", "memory"))
		return &Index{index: idx, log: log}, nil
	}

	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create index at %s: %w", path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to open index at %s: %w", path, err)
	}
	log.Info("search index ready", logger.String("path", path))
	return &Index{index: idx, log: log}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	titleMapping := bleve.NewTextFieldMapping()
	titleMapping.Analyzer = "en"

	textMapping := bleve.NewTextFieldMapping()

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("Title", titleMapping)
	docMapping.AddFieldMappingsAt("Description", textMapping)
	docMapping.AddFieldMappingsAt("URL", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Category", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Tags", bleve.NewTextFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

func (i *Index) Close() error {
	return i.index.Close()
}

// IndexBookmark adds or updates one bookmark. Satisfies the engine's
// Indexer contract.
func (i *Index) IndexBookmark(b *domain.Bookmark, m *domain.BookmarkMeta) error {
	doc := &Document{ID: b.ID, Title: b.Title, URL: b.URL}
	if m != nil {
		doc.Description = m.Description
		doc.Category = m.Primary
		doc.Tags = m.Tags
	}
	return i.index.Index(doc.ID, doc)
}

func (i *Index) DeleteBookmark(id string) error {
	return i.index.Delete(id)
}

// Rebuild replaces the index contents with docs in one batch.
// Documents indexed earlier but absent from docs are deleted, so a
// persistent index never accumulates bookmarks removed while the
// process was down.
func (i *Index) Rebuild(docs []Document) error {
	keep := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		keep[doc.ID] = struct{}{}
	}

	existing, err := i.allDocIDs()
	if err != nil {
		return fmt.Errorf("failed to enumerate index: %w", err)
	}

	batch := i.index.NewBatch()
	removed := 0
	for _, id := range existing {
		if _, ok := keep[id]; !ok {
			batch.Delete(id)
			removed++
		}
	}
	for _, doc := range docs {
		if err := batch.Index(doc.ID, doc); err != nil {
			return fmt.Errorf("failed to stage %s: %w", doc.ID, err)
		}
	}
	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to commit index batch: %w", err)
	}
	i.log.Info("search index rebuilt",
		logger.Int("documents", len(docs)),
		logger.Int("removed", removed))
	return nil
}

// allDocIDs enumerates every indexed document via a match-all query.
func (i *Index) allDocIDs() ([]string, error) {
	count, err := i.index.DocCount()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), int(count), 0, false)
	res, err := i.index.Search(req)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Search runs a query-string query (quotes, boolean operators and
// fuzzy ~ supported) and returns scored hits with highlights.
func (i *Index) Search(queryStr string, limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	query := bleve.NewQueryStringQuery(queryStr)
	req := bleve.NewSearchRequestOptions(query, limit, 0, false)
	req.Highlight = bleve.NewHighlightWithStyle("html")
	req.Fields = []string{"Title", "URL", "Category"}

	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		r := &Result{
			ID:        hit.ID,
			Score:     hit.Score,
			Fragments: hit.Fragments,
		}
		if title, ok := hit.Fields["Title"].(string); ok {
			r.Title = title
		}
		if u, ok := hit.Fields["URL"].(string); ok {
			r.URL = u
		}
		if cat, ok := hit.Fields["Category"].(string); ok {
			r.Category = cat
		}
		out = append(out, r)
	}
	return out, nil
}

// Count returns the number of indexed documents.
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}
