package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prguardian/prguardian/internal/adapter/github"
	"github.com/prguardian/prguardian/internal/diff"
	"github.com/prguardian/prguardian/internal/domain"
)

type warningRecorder struct {
	warnings []string
	fields   []map[string]interface{}
}

func (w *warningRecorder) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	w.warnings = append(w.warnings, message)
	w.fields = append(w.fields, fields)
}

func (w *warningRecorder) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {}

func TestTranslate_MapsFindingToComment(t *testing.T) {
	index := diff.PositionIndex{
		"src/config.py": {8: 5},
	}
	findings := []domain.Finding{
		{File: "src/config.py", Line: 8, Severity: "error", Comment: "Hardcoded credential detected."},
	}

	comments := Translate(findings, index, nil)

	require.Len(t, comments, 1)
	assert.Equal(t, github.ReviewComment{
		Path:     "src/config.py",
		Position: 5,
		Body:     "**[ERROR]** Hardcoded credential detected.",
	}, comments[0])
}

func TestTranslate_SkipsFileOutsideDiff(t *testing.T) {
	index := diff.PositionIndex{
		"src/config.py": {8: 5},
	}
	findings := []domain.Finding{
		{File: "src/other.py", Line: 8, Severity: "error", Comment: "x"},
		{File: "src/config.py", Line: 8, Severity: "warning", Comment: "y"},
	}
	log := &warningRecorder{}

	comments := Translate(findings, index, log)

	require.Len(t, comments, 1)
	assert.Equal(t, "src/config.py", comments[0].Path)
	require.Len(t, log.warnings, 1)
	assert.Equal(t, "src/other.py", log.fields[0]["file"])
	assert.Equal(t, 8, log.fields[0]["line"])
}

func TestTranslate_SkipsLineWithoutPosition(t *testing.T) {
	// Line 9 was deleted or untouched; only line 8 has a position.
	index := diff.PositionIndex{
		"src/config.py": {8: 5},
	}
	findings := []domain.Finding{
		{File: "src/config.py", Line: 9, Severity: "error", Comment: "on a deleted line"},
	}
	log := &warningRecorder{}

	comments := Translate(findings, index, log)

	assert.Empty(t, comments)
	require.Len(t, log.warnings, 1)
}

func TestTranslate_PreservesOrderAndDuplicates(t *testing.T) {
	index := diff.PositionIndex{
		"a.go": {1: 1, 2: 2},
		"b.go": {5: 3},
	}
	findings := []domain.Finding{
		{File: "b.go", Line: 5, Severity: "info", Comment: "first"},
		{File: "a.go", Line: 2, Severity: "warning", Comment: "second"},
		{File: "b.go", Line: 5, Severity: "info", Comment: "first"},
		{File: "a.go", Line: 1, Severity: "error", Comment: "third"},
	}

	comments := Translate(findings, index, nil)

	require.Len(t, comments, 4)
	assert.Equal(t, "b.go", comments[0].Path)
	assert.Equal(t, "a.go", comments[1].Path)
	assert.Equal(t, comments[0], comments[2])
	assert.Equal(t, "**[ERROR]** third", comments[3].Body)
}

func TestTranslate_EmptyIndexSkipsEverything(t *testing.T) {
	findings := []domain.Finding{
		{File: "a.go", Line: 1, Severity: "error", Comment: "x"},
		{File: "b.go", Line: 2, Severity: "warning", Comment: "y"},
	}
	log := &warningRecorder{}

	comments := Translate(findings, diff.PositionIndex{}, log)

	assert.Empty(t, comments)
	assert.Len(t, log.warnings, 2)
}

func TestTranslate_NoFindings(t *testing.T) {
	comments := Translate(nil, diff.PositionIndex{"a.go": {1: 1}}, nil)
	assert.Empty(t, comments)
}

func TestTranslate_DoesNotModifyInputs(t *testing.T) {
	index := diff.PositionIndex{
		"a.go": {1: 1},
	}
	findings := []domain.Finding{
		{File: "a.go", Line: 1, Severity: "info", Comment: "x"},
		{File: "gone.go", Line: 9, Severity: "info", Comment: "y"},
	}

	Translate(findings, index, nil)

	assert.Equal(t, domain.Finding{File: "a.go", Line: 1, Severity: "info", Comment: "x"}, findings[0])
	assert.Equal(t, domain.Finding{File: "gone.go", Line: 9, Severity: "info", Comment: "y"}, findings[1])
	assert.Equal(t, diff.PositionIndex{"a.go": {1: 1}}, index)
}

func TestTranslate_SeverityCaseNormalizedInBadge(t *testing.T) {
	index := diff.PositionIndex{"a.go": {1: 1}}
	findings := []domain.Finding{
		{File: "a.go", Line: 1, Severity: "WaRnInG", Comment: "mixed case"},
		{File: "a.go", Line: 1, Severity: "", Comment: "unlabeled"},
	}

	comments := Translate(findings, index, nil)

	require.Len(t, comments, 2)
	assert.Equal(t, "**[WARNING]** mixed case", comments[0].Body)
	assert.Equal(t, "**[INFO]** unlabeled", comments[1].Body)
}
