package extraction

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lunahealth/luna/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryFromDir(t *testing.T) {
	tests := []struct {
		dir      string
		expected string
	}{
		{"1_guidelines", "guidelines"},
		{"02_nutrition", "nutrition"},
		{"research", "research"},
		{"10_lifestyle", "lifestyle"},
	}
	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			assert.Equal(t, tt.expected, CategoryFromDir(tt.dir))
		})
	}
}

func TestExtractFile_PlainText(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "1_guidelines")
	require.NoError(t, os.MkdirAll(dir, 0755))

	content := strings.Repeat("Diagnosis requires at least two of the three criteria. ", 5)
	path := filepath.Join(dir, "criteria.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	svc := NewService(common.GetLogger())
	doc, err := svc.ExtractFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "criteria.txt", doc.Source)
	assert.Equal(t, "guidelines", doc.Category)
	assert.Equal(t, "plaintext", doc.ExtractionMethod)
	assert.GreaterOrEqual(t, len(doc.Text), minExtractedChars)
}

func TestExtractFile_BelowThreshold(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "2_research")
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, "tiny.txt")
	require.NoError(t, os.WriteFile(path, []byte("too short"), 0644))

	svc := NewService(common.GetLogger())
	_, err := svc.ExtractFile(context.Background(), path)
	require.Error(t, err)
}

func TestExtractFile_HTML(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "3_lifestyle")
	require.NoError(t, os.MkdirAll(dir, 0755))

	html := `<html><head><script>alert(1)</script><style>p{}</style></head>
<body><nav>menu</nav><h1>Exercise Guidance</h1>
<p>Regular moderate exercise improves insulin sensitivity and supports
hormone balance. Aim for at least 150 minutes per week of moderate
aerobic activity combined with resistance training.</p></body></html>`
	path := filepath.Join(dir, "exercise.html")
	require.NoError(t, os.WriteFile(path, []byte(html), 0644))

	svc := NewService(common.GetLogger())
	doc, err := svc.ExtractFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "html", doc.ExtractionMethod)
	assert.Contains(t, doc.Text, "Exercise Guidance")
	assert.Contains(t, doc.Text, "insulin sensitivity")
	assert.NotContains(t, doc.Text, "alert(1)")
	assert.NotContains(t, doc.Text, "menu")
}

func TestExtractDir_SkipsFailingDocuments(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "1_guidelines")
	require.NoError(t, os.MkdirAll(dir, 0755))

	good := strings.Repeat("Ultrasound findings support the diagnosis in adults. ", 5)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.txt"), []byte(good), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.docx"), []byte("binary"), 0644))

	svc := NewService(common.GetLogger())
	docs, err := svc.ExtractDir(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "good.txt", docs[0].Source)
}

func TestExtractDir_MissingRoot(t *testing.T) {
	svc := NewService(common.GetLogger())
	_, err := svc.ExtractDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestNormalizeText(t *testing.T) {
	in := "Line one.  \r\nLine two.\n\n\n\nNext paragraph.\n"
	out := normalizeText(in)
	assert.Equal(t, "Line one.\nLine two.\n\nNext paragraph.", out)
}
