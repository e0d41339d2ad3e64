package publish

import (
	"strconv"
	"strings"

	"reelforge/internal/session"
)

// Title builds the upload title. archived is the number of records already
// archived for the session date; when non-zero the title gains a
// " Video N" suffix with N = archived+1 so same-day uploads stay distinct.
func Title(prefix string, sess session.Session, archived int) string {
	title := strings.TrimSpace(prefix) + " " + sess.DisplayDate()
	if archived > 0 {
		title += " Video " + strconv.Itoa(archived+1)
	}
	return strings.TrimSpace(title)
}

// MergeTags appends extra to base, dropping blanks and case-insensitive
// duplicates while keeping first-seen order.
func MergeTags(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	merged := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, tag := range list {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			key := strings.ToLower(tag)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, tag)
		}
	}
	return merged
}
