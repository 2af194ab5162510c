package runner

import (
	"mirrorsync/internal/model"
	"regexp"
	"strconv"
	"strings"
)

var sentRe = regexp.MustCompile(`sent ([0-9][0-9,]*) bytes`)

// ParseStats extracts transfer figures from rsync's --stats summary.
// Parsing is best-effort: a line that does not match is simply skipped,
// and a summary-free output yields zero stats, never an error.
func ParseStats(output string) model.TransferStats {
	var stats model.TransferStats

	for _, line := range strings.Split(output, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		switch strings.TrimSpace(key) {
		case "Number of files":
			stats.TotalFiles = firstNumber(value)
		case "Number of created files":
			stats.CreatedFiles = firstNumber(value)
		case "Number of deleted files":
			stats.DeletedFiles = firstNumber(value)
		case "Total transferred file size":
			stats.TransferredSize = firstNumber(value)
		case "Total file size":
			stats.TotalSize = firstNumber(value)
		}
	}

	return stats
}

// bytesTransferred prefers the --stats figure and falls back to the
// "sent N bytes" line rsync prints even without --stats.
func bytesTransferred(stats model.TransferStats, output string) int64 {
	if stats.TransferredSize > 0 {
		return stats.TransferredSize
	}

	if m := sentRe.FindStringSubmatch(output); m != nil {
		return firstNumber(m[1])
	}

	return 0
}

// firstNumber pulls the leading integer out of strings like
// " 1,416 (reg: 1,316, dir: 100)". Returns 0 when there is none.
func firstNumber(s string) int64 {
	s = strings.TrimSpace(s)

	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == ',') {
		end++
	}

	n, err := strconv.ParseInt(strings.ReplaceAll(s[:end], ",", ""), 10, 64)
	if err != nil {
		return 0
	}

	return n
}
