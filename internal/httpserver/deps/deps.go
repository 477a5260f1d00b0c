package deps

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/curator/internal/engine"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/search"
	"github.com/MrSnakeDoc/curator/internal/sources/netscape"
	"github.com/MrSnakeDoc/curator/internal/store"
	"github.com/MrSnakeDoc/curator/internal/taxonomy"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	AllowedHosts []string // Host headers allowed to access the server
	AllowedCIDRS []string // IPs allowed to access healthz/readyz endpoints
	TrustProxy   bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)

	Store       store.Store        // durable bookmark/meta/taxonomy/state store
	Engine      *engine.Engine     // organize job engine
	Taxonomy    *taxonomy.Manager  // category definitions and folders
	SearchIndex *search.Index      // full-text index over organized bookmarks
	Importer    *netscape.Importer // bookmark export importer

	RedisClient  *redis.Client        // nil when running on the memory store
	StoreMode    string               // "redis" | "memory", for the infra report
	PromRegistry *prometheus.Registry // backing registry for /metrics

	RulesReloadTrigger chan struct{} // channel to trigger manual rules/taxonomy reload
}
