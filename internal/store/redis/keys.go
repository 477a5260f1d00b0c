package redis

const (
	// KeyPrefixNode is the prefix for bookmark tree node keys
	KeyPrefixNode = "curator:node:"
	// KeyPrefixMeta is the prefix for classification record keys
	KeyPrefixMeta = "curator:meta:"
	// KeyPrefixCategory is the prefix for category definition keys
	KeyPrefixCategory = "curator:category:"
	// KeyAllNodes is the key for the set of all node IDs
	KeyAllNodes = "curator:nodes:all"
	// KeyAllMeta is the key for the set of all meta record IDs
	KeyAllMeta = "curator:meta:all"
	// KeyAllCategories is the key for the set of all category slugs
	KeyAllCategories = "curator:categories:all"
	// KeyJobState is the singleton key for the organize job state
	KeyJobState = "curator:job:state"
	// KeyStats is the singleton key for the stats snapshot
	KeyStats = "curator:stats"
)

// NodeKey returns the Redis key for a tree node by ID
func NodeKey(id string) string {
	return KeyPrefixNode + id
}

// MetaKey returns the Redis key for a classification record by node ID
func MetaKey(id string) string {
	return KeyPrefixMeta + id
}

// CategoryKey returns the Redis key for a category by slug
func CategoryKey(slug string) string {
	return KeyPrefixCategory + slug
}
