package rules

import "regexp"

// builtinDomains maps exact hostnames (leading "www." already
// stripped by the caller) to fine-grained category slugs.
var builtinDomains = map[string]string{
	// Development
	"github.com":           "programming",
	"gitlab.com":           "programming",
	"bitbucket.org":        "programming",
	"stackoverflow.com":    "programming",
	"news.ycombinator.com": "programming",
	"leetcode.com":         "programming",
	"go.dev":               "programming",
	"pkg.go.dev":           "programming",
	"docker.com":           "devops",
	"hub.docker.com":       "devops",
	"kubernetes.io":        "devops",
	"grafana.com":          "devops",
	"terraform.io":         "devops",
	"aws.amazon.com":       "cloud",
	"cloud.google.com":     "cloud",
	"azure.microsoft.com":  "cloud",
	"digitalocean.com":     "cloud",
	"cloudflare.com":       "cloud",
	"huggingface.co":       "ai",
	"openai.com":           "ai",
	"chat.openai.com":      "ai",
	"arxiv.org":            "ai",
	"kaggle.com":           "ai",

	// Tools
	"figma.com":        "uxui",
	"dribbble.com":     "uxui",
	"behance.net":      "uxui",
	"fonts.google.com": "uxui",
	"notion.so":        "productivity",
	"trello.com":       "productivity",
	"todoist.com":      "productivity",

	// Media
	"youtube.com":            "video",
	"vimeo.com":              "video",
	"netflix.com":            "video",
	"twitch.tv":              "video",
	"spotify.com":            "music",
	"soundcloud.com":         "music",
	"bandcamp.com":           "music",
	"store.steampowered.com": "gaming",
	"itch.io":                "gaming",
	"ign.com":                "gaming",

	// Reading
	"nytimes.com":           "news",
	"bbc.com":               "news",
	"bbc.co.uk":             "news",
	"theguardian.com":       "news",
	"cnn.com":               "news",
	"reuters.com":           "news",
	"medium.com":            "blog",
	"dev.to":                "blog",
	"substack.com":          "blog",
	"wikipedia.org":         "docs",
	"en.wikipedia.org":      "docs",
	"developer.mozilla.org": "docs",

	// Social
	"reddit.com":      "social",
	"twitter.com":     "social",
	"x.com":           "social",
	"facebook.com":    "social",
	"instagram.com":   "social",
	"linkedin.com":    "social",
	"mastodon.social": "social",

	// Learning
	"coursera.org":    "courses",
	"udemy.com":       "courses",
	"khanacademy.org": "courses",
	"edx.org":         "courses",

	// Lifestyle
	"amazon.com":     "shopping",
	"ebay.com":       "shopping",
	"etsy.com":       "shopping",
	"aliexpress.com": "shopping",
	"booking.com":    "travel",
	"airbnb.com":     "travel",
	"expedia.com":    "travel",
	"coinbase.com":   "finance",
	"paypal.com":     "finance",
	"wise.com":       "finance",
}

// builtinPaths is evaluated in order against the lowercase
// path+query. Specific patterns must stay above the generic ones:
// wp-login is CMS territory even though it contains "login", so it
// is declared before the auth rule, and the bare admin/dashboard
// rule comes after auth so OAuth dashboards do not land in cms.
var builtinPaths = []PathRule{
	{regexp.MustCompile(`/wp-(admin|login|content)`), "cms"},
	{regexp.MustCompile(`/(login|signin|sign-in|signup|sign-up|auth|oauth|sso)(/|$|\?)`), "auth"},
	{regexp.MustCompile(`/(admin|dashboard|console)(/|$|\?)`), "cms"},
	{regexp.MustCompile(`/(docs|documentation|api-reference|reference|manual)(/|$|\?)`), "docs"},
	{regexp.MustCompile(`/(blog|posts?|articles?)(/|$|\?)`), "blog"},
	{regexp.MustCompile(`/(watch|videos?|embed)(/|$|\?)`), "video"},
	{regexp.MustCompile(`/(cart|checkout|products?|shop|store)(/|$|\?)`), "shopping"},
	{regexp.MustCompile(`/(courses?|learn|tutorials?|lessons?)(/|$|\?)`), "courses"},
	{regexp.MustCompile(`/(forums?|threads?|community)(/|$|\?)`), "social"},
	{regexp.MustCompile(`/(news|press)(/|$|\?)`), "news"},
	{regexp.MustCompile(`/wiki(/|$|\?)`), "docs"},
	{regexp.MustCompile(`/(jobs?|careers?)(/|$|\?)`), "work"},
}

// builtinKeywords vote on the extracted text bag. Declaration order
// breaks ties.
var builtinKeywords = []KeywordRule{
	{"programming", []string{"code", "coding", "developer", "programming", "software", "api", "framework", "compiler", "debugging", "open source"}},
	{"devops", []string{"docker", "kubernetes", "deployment", "pipeline", "terraform", "ansible", "observability", "cluster"}},
	{"ai", []string{"machine learning", "neural", "llm", "dataset", "artificial intelligence", "transformer", "inference", "prompt"}},
	{"uxui", []string{"design", "figma", "typography", "wireframe", "prototype", "palette", "user interface"}},
	{"video", []string{"video", "stream", "episode", "watch", "trailer", "season"}},
	{"music", []string{"music", "album", "playlist", "song", "artist", "concert"}},
	{"gaming", []string{"game", "gaming", "player", "quest", "console", "multiplayer"}},
	{"shopping", []string{"price", "cart", "buy", "shipping", "discount", "checkout"}},
	{"news", []string{"breaking", "report", "politics", "election", "economy", "headline"}},
	{"finance", []string{"invest", "stock", "crypto", "bank", "portfolio", "trading", "budget"}},
	{"travel", []string{"travel", "flight", "hotel", "itinerary", "destination", "booking"}},
	{"courses", []string{"course", "lesson", "tutorial", "learn", "certificate", "curriculum"}},
	{"recipes", []string{"recipe", "ingredients", "cook", "bake", "oven", "dish"}},
	{"health", []string{"workout", "fitness", "nutrition", "health", "exercise", "sleep"}},
	{"docs", []string{"documentation", "reference", "guide", "manual", "specification"}},
}

// normalization folds fine-grained slugs into the general
// group/subgroup taxonomy. Slugs absent from this table pass through
// unchanged.
var normalization = map[string]string{
	"programming":  "developer/programming",
	"devops":       "developer/devops",
	"ai":           "developer/ai",
	"cloud":        "developer/cloud",
	"uxui":         "tools/design-tools",
	"productivity": "tools/productivity",
	"cms":          "tools/cms",
	"auth":         "tools/auth",
	"video":        "media/video",
	"music":        "media/music",
	"gaming":       "media/gaming",
	"news":         "reading/news",
	"docs":         "reading/docs",
	"blog":         "reading/blogs",
	"shopping":     "lifestyle/shopping",
	"finance":      "lifestyle/finance",
	"travel":       "lifestyle/travel",
	"recipes":      "lifestyle/recipes",
	"health":       "lifestyle/health",
	"social":       "social/networks",
	"courses":      "learning/courses",
	"work":         "learning/work",
}
