package constant

// Conversation types
const (
	ConvTypeUserHost = "user_host" // renter <-> listing host, scoped to one listing
	ConvTypeDirect   = "direct"    // 1:1, not tied to any listing
	ConvTypeSupport  = "support"   // user <-> support account
)

// Conversation key prefixes
const (
	ListingConversationPrefix = "lh_"
	DirectConversationPrefix  = "dm_"
	SupportConversationPrefix = "sp_"
)

// SupportDisplayName is the inbox label shown when a conversation has no
// resolvable other party.
const SupportDisplayName = "Gida Support"

// Redis key patterns (without prefix, use RedisKey*() to get full key)
const (
	redisKeyOnline  = "online:%s"  // online:{user_id}
	redisKeyProfile = "profile:%s" // profile:{user_id}
)

// redisKeyPrefix is the global prefix for all Redis keys
var redisKeyPrefix = "gida:"

// InitRedisKeyPrefix initializes the Redis key prefix from config
func InitRedisKeyPrefix(prefix string) {
	if prefix != "" {
		redisKeyPrefix = prefix
	}
}

// GetRedisKeyPrefix returns the current Redis key prefix
func GetRedisKeyPrefix() string {
	return redisKeyPrefix
}

// Redis key getters with prefix
func RedisKeyOnline() string  { return redisKeyPrefix + redisKeyOnline }
func RedisKeyProfile() string { return redisKeyPrefix + redisKeyProfile }
