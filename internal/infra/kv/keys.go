package kv

// Key layout shared by the cache layer and the job queue. Cache keys are
// namespace- and tenant-prefixed so a whole tenant (or namespace) can be
// invalidated by prefix match without knowing every cached shape.

const (
	jobKeyPrefix   = "job:"
	leaseKeyPrefix = "job:lease:"
)

func jobKey(id string) string {
	return jobKeyPrefix + id
}

func leaseKey(id string) string {
	return leaseKeyPrefix + id
}

func waitingKey(queue string) string {
	return "queue:" + queue + ":waiting"
}

func processingKey(queue string) string {
	return "queue:" + queue + ":processing"
}

func delayedKey(queue string) string {
	return "queue:" + queue + ":delayed"
}

// TenantKey composes a cache key under a tenant prefix:
// tenant:{id}[:qualifier...]. The namespace prefix is added by the cache.
func TenantKey(tenantID string, qualifiers ...string) string {
	key := "tenant:" + tenantID
	for _, q := range qualifiers {
		key += ":" + q
	}
	return key
}

func tenantPattern(tenantID string) string {
	return "tenant:" + tenantID + ":*"
}
