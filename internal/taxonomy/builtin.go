package taxonomy

import "github.com/MrSnakeDoc/curator/internal/domain"

// BuiltinCategories returns the default taxonomy seeded on first
// start. Slugs line up with what the classification rules produce.
func BuiltinCategories() []domain.Category {
	return []domain.Category{
		{Slug: "developer/programming", Name: "Programming", Emoji: "⌨️", ParentSlug: "developer", Order: 1},
		{Slug: "developer/devops", Name: "DevOps", Emoji: "⚙️", ParentSlug: "developer", Order: 2},
		{Slug: "developer/ai", Name: "AI", Emoji: "🤖", ParentSlug: "developer", Order: 3},
		{Slug: "developer/cloud", Name: "Cloud", Emoji: "☁️", ParentSlug: "developer", Order: 4},
		{Slug: "tools/design-tools", Name: "Design Tools", Emoji: "🎨", ParentSlug: "tools", Order: 1},
		{Slug: "tools/productivity", Name: "Productivity", Emoji: "📋", ParentSlug: "tools", Order: 2},
		{Slug: "tools/cms", Name: "CMS", Emoji: "🧩", ParentSlug: "tools", Order: 3},
		{Slug: "tools/auth", Name: "Auth", Emoji: "🔐", ParentSlug: "tools", Order: 4},
		{Slug: "media/video", Name: "Video", Emoji: "🎥", ParentSlug: "media", Order: 1},
		{Slug: "media/music", Name: "Music", Emoji: "🎵", ParentSlug: "media", Order: 2},
		{Slug: "media/gaming", Name: "Gaming", Emoji: "🎮", ParentSlug: "media", Order: 3},
		{Slug: "reading/news", Name: "News", Emoji: "📰", ParentSlug: "reading", Order: 1},
		{Slug: "reading/docs", Name: "Docs", Emoji: "📚", ParentSlug: "reading", Order: 2},
		{Slug: "reading/blogs", Name: "Blogs", Emoji: "✍️", ParentSlug: "reading", Order: 3},
		{Slug: "social/networks", Name: "Social", Emoji: "💬", ParentSlug: "social", Order: 1},
		{Slug: "learning/courses", Name: "Courses", Emoji: "🎓", ParentSlug: "learning", Order: 1},
		{Slug: "learning/work", Name: "Work", Emoji: "💼", ParentSlug: "learning", Order: 2},
		{Slug: "lifestyle/shopping", Name: "Shopping", Emoji: "🛒", ParentSlug: "lifestyle", Order: 1},
		{Slug: "lifestyle/finance", Name: "Finance", Emoji: "💰", ParentSlug: "lifestyle", Order: 2},
		{Slug: "lifestyle/travel", Name: "Travel", Emoji: "✈️", ParentSlug: "lifestyle", Order: 3},
		{Slug: "lifestyle/recipes", Name: "Recipes", Emoji: "🍳", ParentSlug: "lifestyle", Order: 4},
		{Slug: "lifestyle/health", Name: "Health", Emoji: "💪", ParentSlug: "lifestyle", Order: 5},
		{Slug: FallbackSlug, Name: "Other", Emoji: "📦", ParentSlug: "", Order: 99},
	}
}
