// Package diff parses unified diff text and maps new-file line numbers to
// diff positions for GitHub PR review comments.
//
// A diff position is a 1-based ordinal counted from the line immediately
// after a file's first @@ hunk header. Context, added, and deleted lines all
// consume a position; only context and added lines have a new-file line
// number and therefore appear in the index. The counter is scoped per file
// and runs continuously across all of that file's hunks, so line-to-position
// is monotonic but not linear (deletions advance position without advancing
// the line number).
package diff
