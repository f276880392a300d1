package handlers

import (
	"testing"
	"time"
)

func resetReportCache() {
	reportCacheMu.Lock()
	reportCache = map[string]reportCacheEntry{}
	reportCacheMu.Unlock()
}

func TestReportCacheRoundTrip(t *testing.T) {
	resetReportCache()

	key := reportCacheKey(reportCachePrefixDashboard, "2026-08-31")
	setReportCache(key, "payload", time.Minute)

	value, ok := getReportCache(key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if value != "payload" {
		t.Fatalf("unexpected cached value: %v", value)
	}
}

func TestReportCacheExpiry(t *testing.T) {
	resetReportCache()

	key := reportCacheKey(reportCachePrefixDashboard, "2026-08-31")
	setReportCache(key, "payload", -time.Second)

	if _, ok := getReportCache(key); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestInvalidateReportCacheByPrefix(t *testing.T) {
	resetReportCache()

	dashboardKey := reportCacheKey(reportCachePrefixDashboard, "2026-08-31")
	statisticsKey := reportCacheKey(reportCachePrefixStatistics, "2026-08-31")
	setReportCache(dashboardKey, 1, time.Minute)
	setReportCache(statisticsKey, 2, time.Minute)

	invalidateReportCache(reportCachePrefixDashboard)

	if _, ok := getReportCache(dashboardKey); ok {
		t.Fatal("expected dashboard entry to be invalidated")
	}
	if _, ok := getReportCache(statisticsKey); !ok {
		t.Fatal("expected statistics entry to survive")
	}
}

func TestInvalidateReportCacheAll(t *testing.T) {
	resetReportCache()

	setReportCache(reportCacheKey(reportCachePrefixDashboard, "a"), 1, time.Minute)
	setReportCache(reportCacheKey(reportCachePrefixStatistics, "b"), 2, time.Minute)

	invalidateReportCache()

	if _, ok := getReportCache(reportCacheKey(reportCachePrefixDashboard, "a")); ok {
		t.Fatal("expected full invalidation")
	}
}
