// Package dedupe builds the deterministic identifiers that make persisted
// signals and alerts idempotent: the same inputs always hash to the same
// id, and repeated detections inside one hour collapse onto one cooldown
// key. Uniqueness is enforced by the store's upsert, not by locking.
package dedupe

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// SignalID derives a stable id for a signal from its type and the sorted
// ids of the clusters it covers.
func SignalID(signalType string, clusterIDs []string) string {
	sorted := make([]string, len(clusterIDs))
	copy(sorted, clusterIDs)
	sort.Strings(sorted)
	content := signalType + ":" + strings.Join(sorted, ":")
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])[:16]
}

// CooldownKey builds the cooldown dedupe key: type, scope, and the hour
// bucket the detection fell into. Two runs inside the same hour for the
// same scope produce the same key.
func CooldownKey(signalType, scopeKey string, hourBucket int64) string {
	return fmt.Sprintf("%s:%s:%d", signalType, scopeKey, hourBucket)
}

// HourBucket maps a wall-clock time to its integer hour index.
func HourBucket(t time.Time) int64 {
	return t.Unix() / 3600
}
