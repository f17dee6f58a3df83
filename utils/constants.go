package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// EscalationLeaseKey guards the escalation sweep across instances.
const EscalationLeaseKey = "lease:escalation"
