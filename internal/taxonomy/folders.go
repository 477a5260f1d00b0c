package taxonomy

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/store"
)

// Root returns the organized root folder, or ErrNotFound when no job
// has materialized anything yet.
func (m *Manager) Root(ctx context.Context) (*domain.Bookmark, error) {
	top, err := m.store.Children(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list top-level folders: %w", err)
	}
	for _, n := range top {
		if n.IsFolder() && n.Title == m.rootTitle {
			return n, nil
		}
	}
	return nil, fmt.Errorf("organized root %q: %w", m.rootTitle, store.ErrNotFound)
}

// EnsureRoot returns the organized root folder, creating it at the
// tree top level when absent.
func (m *Manager) EnsureRoot(ctx context.Context) (*domain.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensureRoot(ctx)
}

// Folder returns the materialized folder of a category under the
// organized root, or ErrNotFound.
func (m *Manager) Folder(ctx context.Context, c *domain.Category) (*domain.Bookmark, error) {
	root, err := m.Root(ctx)
	if err != nil {
		return nil, err
	}
	return m.folderUnder(ctx, root, c)
}

// EnsureFolder returns the materialized folder of a category,
// creating the organized root and the folder as needed. Folders are
// flat: every category folder is a direct child of the root, with
// grouping expressed only in display ordering.
func (m *Manager) EnsureFolder(ctx context.Context, c *domain.Category) (*domain.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensureFolder(ctx, c)
}

// ensureRoot must be called with the manager mutex held.
func (m *Manager) ensureRoot(ctx context.Context) (*domain.Bookmark, error) {
	root, err := m.Root(ctx)
	if err == nil {
		return root, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	root, err = m.store.CreateNode(ctx, &domain.Bookmark{Title: m.rootTitle})
	if err != nil {
		return nil, fmt.Errorf("failed to create organized root: %w", err)
	}
	m.log.Info("organized root created", logger.String("title", m.rootTitle))
	return root, nil
}

// ensureFolder must be called with the manager mutex held.
func (m *Manager) ensureFolder(ctx context.Context, c *domain.Category) (*domain.Bookmark, error) {
	root, err := m.ensureRoot(ctx)
	if err != nil {
		return nil, err
	}

	folder, err := m.folderUnder(ctx, root, c)
	if err == nil {
		return folder, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	folder, err = m.store.CreateNode(ctx, &domain.Bookmark{
		Title:    c.FolderTitle(),
		ParentID: root.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create folder for %s: %w", c.Slug, err)
	}
	m.log.Debug("category folder created",
		logger.String("slug", c.Slug),
		logger.String("title", folder.Title))
	return folder, nil
}

func (m *Manager) folderUnder(ctx context.Context, root *domain.Bookmark, c *domain.Category) (*domain.Bookmark, error) {
	children, err := m.store.Children(ctx, root.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organized folders: %w", err)
	}

	want := c.FolderTitle()
	for _, n := range children {
		if n.IsFolder() && n.Title == want {
			return n, nil
		}
	}
	return nil, fmt.Errorf("folder for %s: %w", c.Slug, store.ErrNotFound)
}
