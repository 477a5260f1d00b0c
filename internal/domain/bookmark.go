package domain

import "sort"

// Bookmark represents a single node of the bookmark tree.
//
// A node is either a folder (URL empty) or a leaf bookmark (URL set).
// The tree itself lives in a store; Bookmark carries no child pointers.
//
// A Bookmark is uniquely identified by its ID, assigned by the store
// on creation.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier, assigned by the store.
	ID string

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// Title is the display title of the node.
	// For folders this is the folder name.
	Title string

	// URL is the target address of a leaf bookmark.
	// Empty for folders.
	URL string

	// ─────────────────────────────
	// Tree placement
	// ─────────────────────────────

	// ParentID is the ID of the containing folder.
	// Empty for the tree root.
	ParentID string

	// Path holds the titles of all ancestor folders, root first.
	// It is filled by store listing operations and is a snapshot,
	// not a live pointer into the tree.
	Path []string

	// ─────────────────────────────
	// Provenance
	// ─────────────────────────────

	// DateAdded is the creation timestamp in epoch milliseconds,
	// as carried by browser exports. Zero when unknown.
	DateAdded int64
}

// IsFolder reports whether the node is a folder.
func (b *Bookmark) IsFolder() bool {
	return b.URL == ""
}

// Under reports whether the node sits inside the subtree rooted at
// the folder with the given ID, using the ParentID chain captured in
// the lookup map. The node itself does not count as being under
// its own ID.
func (b *Bookmark) Under(rootID string, byID map[string]*Bookmark) bool {
	seen := 0
	for cur := b.ParentID; cur != ""; {
		if cur == rootID {
			return true
		}
		parent, ok := byID[cur]
		if !ok {
			return false
		}
		cur = parent.ParentID

		// Guard against cycles in corrupted trees.
		seen++
		if seen > len(byID) {
			return false
		}
	}
	return false
}

// FillPaths computes the ancestor title chain of every node in place.
func FillPaths(nodes []*Bookmark) {
	byID := make(map[string]*Bookmark, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	for _, n := range nodes {
		var path []string
		seen := 0
		for cur := n.ParentID; cur != ""; {
			parent, ok := byID[cur]
			if !ok {
				break
			}
			path = append([]string{parent.Title}, path...)
			cur = parent.ParentID

			// Guard against cycles in corrupted trees.
			seen++
			if seen > len(nodes) {
				break
			}
		}
		n.Path = path
	}
}

// SortBookmarks orders nodes by DateAdded, then title, for stable
// listings.
func SortBookmarks(nodes []*Bookmark) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].DateAdded != nodes[j].DateAdded {
			return nodes[i].DateAdded < nodes[j].DateAdded
		}
		return nodes[i].Title < nodes[j].Title
	})
}
