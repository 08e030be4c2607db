package diff

import (
	"strconv"
	"strings"
)

// PositionIndex maps a post-image file path to the mapping from new-file
// line number to diff position. A file appears only if at least one of its
// hunks was parsed; deleted lines are never keys.
type PositionIndex map[string]map[int]int

// Position looks up the diff position for a line of a file. The second
// return value reports whether the (file, line) pair is in the diff.
func (idx PositionIndex) Position(file string, line int) (int, bool) {
	lines, ok := idx[file]
	if !ok {
		return 0, false
	}
	pos, ok := lines[line]
	return pos, ok
}

// HasFile reports whether any hunk was parsed for the given file.
func (idx PositionIndex) HasFile(file string) bool {
	_, ok := idx[file]
	return ok
}

// Index parses unified diff text into a PositionIndex in a single forward
// pass. It never fails: malformed hunk headers and stray lines are skipped,
// degrading to a smaller index rather than aborting, since partial review
// coverage beats losing the whole run. Identical input always yields an
// identical index.
func Index(diffText string) PositionIndex {
	index := make(PositionIndex)

	var currentFile string
	inHunk := false  // a parsable hunk header was seen for currentFile
	position := 0    // runs continuously across hunks of the current file
	nextNewLine := 0 // new-file line number of the next context/added line

	for _, line := range strings.Split(diffText, "\n") {
		if file, ok := parseFileHeader(line); ok {
			currentFile = file
			if _, seen := index[currentFile]; !seen {
				index[currentFile] = make(map[int]int)
			}
			inHunk = false
			position = 0
			nextNewLine = 0
			continue
		}

		if strings.HasPrefix(line, "@@") {
			if currentFile == "" {
				continue
			}
			if start, ok := parseNewStart(line); ok {
				nextNewLine = start
				inHunk = true
			} else {
				// Unparsable header: skip the hunk body too rather than
				// mapping its lines onto stale counters.
				inHunk = false
			}
			continue
		}

		if currentFile == "" || !inHunk {
			// Preamble before any file header, the index/---/+++ lines
			// between file header and first hunk, or the body of a hunk
			// whose header we could not parse.
			continue
		}

		if line == "" || (line[0] != '+' && line[0] != '-' && line[0] != ' ') {
			// Not a hunk body line, e.g. "\ No newline at end of file".
			continue
		}

		position++
		if line[0] == '+' || line[0] == ' ' {
			// nextNewLine is 0 only for malformed input pairing a +0,0
			// header with non-deletion lines; drop those instead of
			// recording an impossible line number.
			if nextNewLine > 0 {
				index[currentFile][nextNewLine] = position
			}
			nextNewLine++
		}
		// Deleted lines consume a position but have no new-file line.
	}

	return index
}

// parseFileHeader extracts the post-image path from a "diff --git a/X b/Y"
// line. Returns false for anything else.
func parseFileHeader(line string) (string, bool) {
	if !strings.HasPrefix(line, "diff --git ") {
		return "", false
	}
	_, after, found := strings.Cut(line, " b/")
	if !found || after == "" {
		return "", false
	}
	return after, true
}

// parseNewStart extracts the new-file starting line from a hunk header like
// "@@ -5,10 +5,11 @@ optional context". A zero start ("+0,0", emitted for
// whole-file deletions) is valid: the hunk has no new-side lines to record
// but its deletions still consume positions. Returns false when the +start
// field is missing or not a number.
func parseNewStart(line string) (int, bool) {
	fields := strings.Fields(line)
	for _, field := range fields[1:] {
		if field == "@@" {
			break
		}
		if !strings.HasPrefix(field, "+") {
			continue
		}
		numText := strings.TrimPrefix(field, "+")
		if idx := strings.Index(numText, ","); idx >= 0 {
			numText = numText[:idx]
		}
		start, err := strconv.Atoi(numText)
		if err != nil || start < 0 {
			return 0, false
		}
		return start, true
	}
	return 0, false
}
