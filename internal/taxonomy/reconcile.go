package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/slug"
	"github.com/MrSnakeDoc/curator/internal/store"
)

// Delete removes a category. Member items are reassigned to the
// fallback category and physically moved into its folder; their
// records are marked manual so a later job run does not silently
// reclassify what the user just triaged.
func (m *Manager) Delete(ctx context.Context, s string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doomed, err := m.store.Category(ctx, s)
	if err != nil {
		return fmt.Errorf("failed to load category %s: %w", s, err)
	}

	fallback, err := m.fallbackFor(ctx, s, nil)
	if err != nil {
		return err
	}

	if err := m.drainCategory(ctx, doomed, fallback); err != nil {
		return err
	}

	if err := m.store.DeleteCategory(ctx, s); err != nil {
		return fmt.Errorf("failed to delete category %s: %w", s, err)
	}
	m.log.Info("category deleted", logger.String("slug", s))
	return nil
}

// Rename changes a category's display name and emoji, regenerating
// the slug. Member records follow the new slug; classification flags
// are left untouched. The folder is rebuilt because tree nodes
// cannot be retitled in place.
func (m *Manager) Rename(ctx context.Context, oldSlug, newName, newEmoji string) (*domain.Category, error) {
	if strings.TrimSpace(newName) == "" {
		return nil, errors.New("category name must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	old, err := m.store.Category(ctx, oldSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to load category %s: %w", oldSlug, err)
	}

	newSlug := slug.Make(newName)
	if newSlug == "" {
		return nil, fmt.Errorf("name %q produces no usable slug", newName)
	}
	if newSlug != oldSlug {
		var probeErr error
		newSlug = slug.Unique(newName, func(candidate string) bool {
			if candidate == oldSlug {
				return false
			}
			_, err := m.store.Category(ctx, candidate)
			if err == nil {
				return true
			}
			if !errors.Is(err, store.ErrNotFound) {
				probeErr = err
			}
			return false
		})
		if probeErr != nil {
			return nil, fmt.Errorf("failed to probe slug for %s: %w", newName, probeErr)
		}
	}

	renamed := &domain.Category{
		Slug:       newSlug,
		Name:       strings.TrimSpace(newName),
		Emoji:      newEmoji,
		ParentSlug: old.ParentSlug,
		Order:      old.Order,
	}
	if renamed.Emoji == "" {
		renamed.Emoji = old.Emoji
	}

	if err := m.store.SaveCategory(ctx, renamed); err != nil {
		return nil, fmt.Errorf("failed to save renamed category: %w", err)
	}

	if newSlug != oldSlug {
		if err := m.retagMembers(ctx, oldSlug, newSlug, false); err != nil {
			return nil, err
		}
		if err := m.store.DeleteCategory(ctx, oldSlug); err != nil {
			return nil, fmt.Errorf("failed to delete old category %s: %w", oldSlug, err)
		}
	}

	if err := m.rebuildFolder(ctx, old, renamed); err != nil {
		return nil, err
	}

	m.log.Info("category renamed",
		logger.String("from", oldSlug),
		logger.String("to", newSlug))
	return renamed, nil
}

// Reconcile applies a full replacement definition set: removed
// categories are drained into a fallback from the new set, new and
// changed definitions are saved, and folders for the surviving set
// are proactively materialized.
func (m *Manager) Reconcile(ctx context.Context, newDefs []domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, err := m.store.Categories(ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	newBySlug := make(map[string]*domain.Category, len(newDefs))
	for i := range newDefs {
		newBySlug[newDefs[i].Slug] = &newDefs[i]
	}

	// Drain and drop removed categories first so their members land
	// in folders that survive.
	for _, oldCat := range old {
		if _, kept := newBySlug[oldCat.Slug]; kept {
			continue
		}
		fallback, err := m.fallbackFor(ctx, oldCat.Slug, newDefs)
		if err != nil {
			return err
		}
		if err := m.drainCategory(ctx, oldCat, fallback); err != nil {
			return err
		}
		if err := m.store.DeleteCategory(ctx, oldCat.Slug); err != nil {
			return fmt.Errorf("failed to delete category %s: %w", oldCat.Slug, err)
		}
		m.log.Info("category removed by reconciliation", logger.String("slug", oldCat.Slug))
	}

	for i := range newDefs {
		def := newDefs[i]
		if err := m.store.SaveCategory(ctx, &def); err != nil {
			return fmt.Errorf("failed to save category %s: %w", def.Slug, err)
		}
	}

	// Folder creation is lazy everywhere else; reconciliation
	// materializes the surviving set eagerly.
	for i := range newDefs {
		if _, err := m.ensureFolder(ctx, &newDefs[i]); err != nil {
			return err
		}
	}

	return nil
}

// fallbackFor picks the category that absorbs members of a removed
// one: the fallback sink if it survives, else the first surviving
// category, else the built-in sink recreated on the spot. Only the
// sink itself may be deleted into nothing, in which case nil is
// returned and members are parked at the organized root.
func (m *Manager) fallbackFor(ctx context.Context, removed string, newDefs []domain.Category) (*domain.Category, error) {
	if newDefs == nil {
		cats, err := m.store.Categories(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		for _, c := range cats {
			newDefs = append(newDefs, *c)
		}
	}

	survivors := slices.DeleteFunc(slices.Clone(newDefs), func(c domain.Category) bool {
		return c.Slug == removed
	})

	for i := range survivors {
		if survivors[i].Slug == FallbackSlug {
			return &survivors[i], nil
		}
	}
	if removed != FallbackSlug {
		sink := domain.Category{Slug: FallbackSlug, Name: "Other", Emoji: "📦", Order: 99}
		if err := m.store.SaveCategory(ctx, &sink); err != nil {
			return nil, fmt.Errorf("failed to ensure fallback category: %w", err)
		}
		return &sink, nil
	}

	// The sink itself is being deleted: drain into the first
	// surviving category, or nowhere when the taxonomy is empty.
	ptrs := survivorPtrs(survivors)
	domain.SortCategories(ptrs)
	if len(ptrs) > 0 {
		return ptrs[0], nil
	}
	return nil, nil
}

// drainCategory reassigns and moves every member of doomed into
// fallback, then removes the emptied folder. A nil fallback parks
// members at the organized root with their classification cleared.
func (m *Manager) drainCategory(ctx context.Context, doomed, fallback *domain.Category) error {
	folder, err := m.Folder(ctx, doomed)
	if err != nil {
		if isNotFound(err) {
			// Never materialized; only metadata may reference it.
			return m.retagMembers(ctx, doomed.Slug, fallbackSlugOf(fallback), fallback != nil)
		}
		return err
	}

	var destID string
	if fallback != nil {
		dest, err := m.ensureFolder(ctx, fallback)
		if err != nil {
			return err
		}
		destID = dest.ID
	} else {
		root, err := m.ensureRoot(ctx)
		if err != nil {
			return err
		}
		destID = root.ID
	}

	members, err := m.store.Children(ctx, folder.ID)
	if err != nil {
		return fmt.Errorf("failed to list members of %s: %w", doomed.Slug, err)
	}
	for _, item := range members {
		if err := m.store.MoveNode(ctx, item.ID, destID); err != nil {
			return fmt.Errorf("failed to move %s out of %s: %w", item.ID, doomed.Slug, err)
		}
	}

	if err := m.retagMembers(ctx, doomed.Slug, fallbackSlugOf(fallback), fallback != nil); err != nil {
		return err
	}

	if err := m.store.RemoveNode(ctx, folder.ID); err != nil {
		return fmt.Errorf("failed to remove folder of %s: %w", doomed.Slug, err)
	}
	return nil
}

// retagMembers rewrites every record pointing at oldSlug. markManual
// pins reassigned records so the next job run does not undo the
// user's taxonomy decision.
func (m *Manager) retagMembers(ctx context.Context, oldSlug, newSlug string, markManual bool) error {
	all, err := m.store.AllMeta(ctx)
	if err != nil {
		return fmt.Errorf("failed to list meta records: %w", err)
	}

	var touched []*domain.BookmarkMeta
	for _, rec := range all {
		dirty := false
		if rec.Primary == oldSlug {
			rec.Primary = newSlug
			if markManual {
				rec.Manual = true
			}
			dirty = true
		}
		if i := slices.Index(rec.Tags, oldSlug); i >= 0 {
			rec.Tags = slices.Delete(rec.Tags, i, i+1)
			dirty = true
		}
		if dirty {
			touched = append(touched, rec)
		}
	}
	if len(touched) == 0 {
		return nil
	}
	if err := m.store.SaveMetaMany(ctx, touched); err != nil {
		return fmt.Errorf("failed to update %d meta records: %w", len(touched), err)
	}
	return nil
}

// rebuildFolder moves the members of old's folder into a fresh
// folder titled after renamed, then drops the old folder.
func (m *Manager) rebuildFolder(ctx context.Context, old, renamed *domain.Category) error {
	folder, err := m.Folder(ctx, old)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}

	if old.FolderTitle() == renamed.FolderTitle() {
		return nil
	}

	dest, err := m.ensureFolder(ctx, renamed)
	if err != nil {
		return err
	}

	members, err := m.store.Children(ctx, folder.ID)
	if err != nil {
		return fmt.Errorf("failed to list members of %s: %w", old.Slug, err)
	}
	for _, item := range members {
		if err := m.store.MoveNode(ctx, item.ID, dest.ID); err != nil {
			return fmt.Errorf("failed to move %s into renamed folder: %w", item.ID, err)
		}
	}

	if err := m.store.RemoveNode(ctx, folder.ID); err != nil {
		return fmt.Errorf("failed to remove old folder of %s: %w", old.Slug, err)
	}
	return nil
}

func fallbackSlugOf(c *domain.Category) string {
	if c == nil {
		return ""
	}
	return c.Slug
}

func survivorPtrs(cats []domain.Category) []*domain.Category {
	out := make([]*domain.Category, len(cats))
	for i := range cats {
		out[i] = &cats[i]
	}
	return out
}
