// Package identity derives the stable posting id and the change fingerprint.
//
// Both digests are SHA-256 over lower-cased, trimmed fields joined with "|".
// Collisions in the 256-bit space are an accepted risk and are not handled.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/jonathan/job-tracker/internal/types"
)

// Resolve fills in the derived id and fingerprint of a normalized posting.
func Resolve(p *types.Posting) {
	p.ID = PostingID(p.Source, p.URL)
	p.Fingerprint = Fingerprint(p.Title, p.Location, p.Description)
}

// PostingID derives the dataset-wide unique id for a posting. The same
// source and canonical URL always hash to the same id across runs and
// process restarts. The source participates in the key, so the same URL
// observed on two sites yields two distinct postings.
func PostingID(source, normalizedURL string) string {
	return hashFields(source, normalizedURL)
}

// Fingerprint hashes the mutable display fields of a posting. A changed
// fingerprint on a known id means the posting was edited upstream.
func Fingerprint(title, location, description string) string {
	return hashFields(title, location, description)
}

func hashFields(fields ...string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = strings.ToLower(strings.TrimSpace(f))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
