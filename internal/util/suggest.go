package util

import "strings"

// Closest returns the candidate nearest to input by Levenshtein distance,
// ignoring case. It returns "" when no candidate is within maxDistance.
// Ties go to the earliest candidate.
func Closest(input string, candidates []string, maxDistance int) string {
	input = strings.ToLower(strings.TrimSpace(input))
	bestDistance := maxDistance + 1
	var bestMatch string

	for _, c := range candidates {
		distance := levenshteinDistance(input, strings.ToLower(c))
		if distance < bestDistance {
			bestDistance = distance
			bestMatch = c
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshteinDistance calculates the Levenshtein distance between two strings:
// the minimum number of single-character insertions, deletions or
// substitutions that turn one into the other.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Only the previous row is needed.
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
