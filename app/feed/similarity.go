package feed

import "github.com/xrash/smetrics"

// similarityThreshold is the ratio above which two titles are considered
// the same underlying post. It tolerates the drift the pipeline itself
// introduces: trailing punctuation, reformatting, "by <author>" suffixes
// and forum abbreviation prefixes.
const similarityThreshold = 0.9

// TitlesMatch reports whether two titles denote the same post, using a
// normalized edit-similarity ratio. With unit insert/delete costs and a
// substitution cost of 2, the Wagner-Fischer distance equals
// len(a)+len(b)-2*M for M matched characters, so the ratio below is the
// familiar 2*M/(len(a)+len(b)).
func TitlesMatch(a, b string) bool {
	if a == b {
		return a != ""
	}
	total := len(a) + len(b)
	if total == 0 {
		return false
	}
	distance := smetrics.WagnerFischer(a, b, 1, 1, 2)
	ratio := 1 - float64(distance)/float64(total)
	return ratio > similarityThreshold
}

// IsDuplicate reports whether title matches any of the known titles.
// Cost is O(len(known)) similarity checks, so callers run it on the
// already-reduced candidate set, never on a full unfiltered source feed.
func IsDuplicate(title string, known []string) bool {
	for _, existing := range known {
		if TitlesMatch(title, existing) {
			return true
		}
	}
	return false
}
