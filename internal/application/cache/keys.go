// Package cache implements the remote caching tier: key registry, TTL
// policy, the fail-open orchestrator, hit-rate metrics, and the
// event-driven invalidation fan-out.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key builders, one per namespace. Keys are deterministic: the same logical
// query always produces the same key, and namespaces never overlap.

func ProductKey(id string) string { return "product:" + id }

// SearchKey folds the filter set into a short canonical digest. Filters are
// serialized with encoding/json, which writes map keys in sorted order, so
// two filter maps with the same pairs in different insertion order collide
// on the same key instead of fragmenting the cache.
func SearchKey(query string, filters any) string {
	return fmt.Sprintf("search:%s:%s", query, filterDigest(filters))
}

func RecommendationsKey(questionnaireID string) string {
	return "recommendations:" + questionnaireID
}

func CategoryKey(categoryID string, page int) string {
	return fmt.Sprintf("category:%s:page:%d", categoryID, page)
}

func UserProfileKey(userID string) string       { return "user:" + userID }
func UserQuestionnaireKey(userID string) string { return "questionnaire:" + userID }
func UserFavoritesKey(userID string) string     { return "favorites:" + userID }

func ProductStatsKey(productID string) string { return "stats:" + productID }
func DailyAnalyticsKey(date string) string    { return "analytics:daily:" + date }
func ConversionFunnelKey() string             { return "analytics:funnel" }
func TopProductsKey(period string) string     { return "top_products:" + period }

func BrandsKey() string     { return "brands:all" }
func CategoriesKey() string { return "categories:tree" }

func AffiliateLinksKey(productID string) string { return "affiliate:" + productID }

// LinkValidationKey caches a probe verdict per URL. The URL is hashed so
// arbitrary characters never leak into the keyspace.
func LinkValidationKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "linkcheck:" + hex.EncodeToString(sum[:8])
}

// Interaction counters are day-bucketed so dates never collide; writers
// attach the analytics tier TTL.
func InteractionCounterKey(productID, interactionType, date string) string {
	return fmt.Sprintf("counter:%s:%s:%s", productID, interactionType, date)
}

func GlobalCounterKey(interactionType, date string) string {
	return fmt.Sprintf("counter:global:%s:%s", interactionType, date)
}

// filterDigest hashes the whole canonical encoding so filter sets that share
// a long common prefix still land on distinct keys.
func filterDigest(filters any) string {
	b, err := json.Marshal(filters)
	if err != nil {
		return "none"
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:5])
}
