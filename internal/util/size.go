// Package util holds small parsing and formatting helpers shared by the
// command line, the wizard and the HTTP server.
package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var sizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)(B|KB|MB|GB)$`)

var sizeMultipliers = map[string]int64{
	"B":  1,
	"KB": 1024,
	"MB": 1024 * 1024,
	"GB": 1024 * 1024 * 1024,
}

// ParseSize parses a size string (e.g., "10MB", "512KB") into bytes.
//
// Supported units: B, KB, MB, GB (case-insensitive, binary multiples).
func ParseSize(sizeStr string) (int64, error) {
	matches := sizePattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(sizeStr)))
	if matches == nil {
		return 0, fmt.Errorf("invalid format: '%s'. Use format like '512KB', '10MB'", sizeStr)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value: %w", err)
	}

	return int64(value * float64(sizeMultipliers[matches[2]])), nil
}

// FormatSize renders a byte count with the largest unit that keeps the
// value at or above one.
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < 2; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMG"[exp])
}
