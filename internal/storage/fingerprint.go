package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/Korpiaveli/filingsflow-sub000/internal/cluster"
)

// FingerprintKey reduces a participant to a stable identity token: the
// external identifier when the row carries one, otherwise the display name
// collapsed to lowercase alphanumerics. Two detections of the same people
// must key identically regardless of name punctuation or casing.
func FingerprintKey(p cluster.Participant) string {
	return collapseKey(p.Key())
}

func collapseKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Fingerprint hashes the sorted distinct participant keys into a 32-hex-char
// identity. Invariant to participant order, sensitive to membership.
func Fingerprint(participants []cluster.Participant) string {
	seen := make(map[string]struct{}, len(participants))
	keys := make([]string, 0, len(participants))
	for _, p := range participants {
		key := FingerprintKey(p)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	sum := sha256.Sum256([]byte(strings.Join(keys, "|")))
	return hex.EncodeToString(sum[:])[:32]
}
