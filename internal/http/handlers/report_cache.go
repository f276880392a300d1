package handlers

import (
	"strings"
	"sync"
	"time"
)

// Report composition is pure, so a short TTL cache in front of it only
// trades staleness for load; entries are also invalidated whenever a write
// handler touches one of the source tables.

type reportCacheEntry struct {
	value     any
	expiresAt time.Time
}

const reportCacheMaxEntries = 200

var (
	reportCacheMu sync.Mutex
	reportCache   = map[string]reportCacheEntry{}
)

func reportCacheKey(prefix string, parts ...string) string {
	segments := make([]string, 0, 1+len(parts))
	segments = append(segments, prefix)
	segments = append(segments, parts...)
	return strings.Join(segments, "|")
}

func getReportCache(key string) (any, bool) {
	reportCacheMu.Lock()
	defer reportCacheMu.Unlock()

	entry, ok := reportCache[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(reportCache, key)
		return nil, false
	}
	return entry.value, true
}

func setReportCache(key string, value any, ttl time.Duration) {
	reportCacheMu.Lock()
	defer reportCacheMu.Unlock()

	reportCache[key] = reportCacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
	if len(reportCache) > reportCacheMaxEntries {
		reportCache = map[string]reportCacheEntry{}
	}
}

func invalidateReportCache(prefixes ...string) {
	reportCacheMu.Lock()
	defer reportCacheMu.Unlock()

	if len(prefixes) == 0 {
		reportCache = map[string]reportCacheEntry{}
		return
	}
	for key := range reportCache {
		for _, prefix := range prefixes {
			if key == prefix || strings.HasPrefix(key, prefix+"|") {
				delete(reportCache, key)
				break
			}
		}
	}
}

const (
	reportCachePrefixDashboard  = "dashboard"
	reportCachePrefixStatistics = "statistics"
)
