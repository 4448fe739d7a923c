package recommend

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"procureMatch/domain"
)

// NormalizeQuery lowercases and collapses whitespace so trivial
// formatting differences do not defeat the cache.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// Fingerprint is the deterministic cache key for one invocation. It is
// computed before extraction so a cache hit can skip the pipeline
// entirely; the requirement set gets its own digest inside the entry.
func Fingerprint(query, userID string, limit int) string {
	payload := fmt.Sprintf("q=%s|u=%s|n=%d", NormalizeQuery(query), userID, limit)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// RequirementDigest fingerprints the structured requirement set for
// observability and invalidation audits.
func RequirementDigest(reqs domain.RequirementSet) string {
	var b strings.Builder
	for _, r := range reqs.Requirements {
		b.WriteString(strings.ToLower(r.Text))
		b.WriteString("|")
		b.WriteString(string(r.Category))
		if r.Quantity != nil {
			fmt.Fprintf(&b, "|%g", *r.Quantity)
		}
		b.WriteString("\n")
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
