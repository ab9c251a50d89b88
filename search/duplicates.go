package search

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-crypt/x/blake2b"
)

// DuplicateGroup is a set of indexed papers sharing one fingerprint.
type DuplicateGroup struct {
	Fingerprint string
	Kind        string // "doi" or "title"
	IDs         []string
}

// scanPageSize bounds how many documents a duplicate scan pulls per
// request.
const scanPageSize = 500

// FindDuplicates scans the index and groups papers whose DOI or
// normalized title collide. Fingerprints are content-based BLAKE2b
// hashes, so the scan needs only id, doi and title from each document.
func (s *Service) FindDuplicates(ctx context.Context) ([]DuplicateGroup, error) {
	byFingerprint := make(map[string]*DuplicateGroup)

	from := 0
	for {
		body := &SearchBody{
			From:           from,
			Size:           scanPageSize,
			Query:          &QueryClause{MatchAll: &MatchAllClause{}},
			Sort:           []SortClause{{Field: "id", Order: "asc"}},
			Source:         &SourceFilter{Includes: []string{"id", "doi", "title"}},
			TrackTotalHits: true,
		}

		result, err := s.execute(ctx, body)
		if err != nil {
			return nil, fmt.Errorf("duplicate scan failed at offset %d: %w", from, err)
		}
		if result.Degraded {
			return nil, fmt.Errorf("duplicate scan failed at offset %d: unparseable engine response", from)
		}

		for _, hit := range result.Hits {
			paper := hit.Source
			if doi := strings.ToLower(strings.TrimSpace(paper.DOI)); doi != "" {
				record(byFingerprint, fingerprint("doi:"+doi), "doi", paper.Id)
			}
			if title := normalizeForFingerprint(paper.Title); title != "" {
				record(byFingerprint, fingerprint("title:"+title), "title", paper.Id)
			}
		}

		if len(result.Hits) < scanPageSize {
			break
		}
		from += scanPageSize
	}

	var groups []DuplicateGroup
	for _, group := range byFingerprint {
		if len(group.IDs) > 1 {
			groups = append(groups, *group)
		}
	}
	return groups, nil
}

func record(groups map[string]*DuplicateGroup, fp, kind, id string) {
	group, ok := groups[fp]
	if !ok {
		group = &DuplicateGroup{Fingerprint: fp, Kind: kind}
		groups[fp] = group
	}
	group.IDs = append(group.IDs, id)
}

// fingerprint generates a deterministic content hash, so identical
// content always maps to the same group.
func fingerprint(text string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// normalizeForFingerprint lowercases a title and strips everything but
// letters and digits, so punctuation and spacing variants collide.
func normalizeForFingerprint(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
