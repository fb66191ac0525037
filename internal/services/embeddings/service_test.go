package embeddings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/lunahealth/luna/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEncoder derives a deterministic vector from each text's length so
// order preservation is observable.
type fakeEncoder struct {
	dimension  int
	batchSizes []int
}

func (f *fakeEncoder) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.batchSizes = append(f.batchSizes, len(texts))
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, f.dimension)
		v[0] = float32(len(text))
		vectors[i] = v
	}
	return vectors, nil
}

func (f *fakeEncoder) Dimension() int { return f.dimension }

func newTestService(t *testing.T, batchSize int, expand bool) (*Service, *fakeEncoder) {
	t.Helper()
	enc := &fakeEncoder{dimension: 4}
	svc, err := NewService(enc, &common.EmbeddingConfig{
		BatchSize:      batchSize,
		Dimension:      4,
		ExpandAcronyms: expand,
	}, common.GetLogger())
	require.NoError(t, err)
	return svc, enc
}

func TestEmbedBatch_OrderPreservedAcrossBatches(t *testing.T) {
	svc, enc := newTestService(t, 3, false)

	texts := make([]string, 8)
	for i := range texts {
		texts[i] = fmt.Sprintf("%0*d", i+1, 0) // length i+1
	}

	vectors, err := svc.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, 8)
	for i, v := range vectors {
		assert.Equal(t, float32(i+1), v[0], "vector %d must match text %d", i, i)
	}
	assert.Equal(t, []int{3, 3, 2}, enc.batchSizes)
}

func TestEmbedBatch_EmptyInputs(t *testing.T) {
	svc, _ := newTestService(t, 3, false)

	vectors, err := svc.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)

	_, err = svc.EmbedBatch(context.Background(), []string{"ok", "  "})
	require.Error(t, err)
}

func TestEmbedText_EmptyIsError(t *testing.T) {
	svc, _ := newTestService(t, 3, false)
	_, err := svc.EmbedText(context.Background(), "   ")
	require.Error(t, err)
}

func TestCosineSimilarity(t *testing.T) {
	svc, _ := newTestService(t, 3, false)

	assert.InDelta(t, 1.0, svc.CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, svc.CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, svc.CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)

	// Zero norm never yields NaN
	assert.Equal(t, 0.0, svc.CosineSimilarity([]float32{0, 0}, []float32{1, 0}))
	assert.Equal(t, 0.0, svc.CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
}

func TestAcronymExpander_FirstOccurrenceOnly(t *testing.T) {
	expander, err := NewAcronymExpander("")
	require.NoError(t, err)

	out := expander.Expand("PCOS affects hormones. Managing PCOS needs BMI tracking.")
	assert.Equal(t,
		"PCOS (Polycystic Ovary Syndrome) affects hormones. Managing PCOS needs BMI (Body Mass Index) tracking.",
		out)
}

func TestAcronymExpander_WholeWordOnly(t *testing.T) {
	expander, err := NewAcronymExpander("")
	require.NoError(t, err)

	// IR must not match inside IRregular
	out := expander.Expand("IRregular cycles relate to IR over time.")
	assert.Equal(t, "IRregular cycles relate to IR (Insulin Resistance) over time.", out)
}

func TestAcronymExpander_YAMLOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acronyms.yaml")
	require.NoError(t, os.WriteFile(path, []byte("PCOS: Custom Expansion\nXYZ: Example Entry\n"), 0644))

	expander, err := NewAcronymExpander(path)
	require.NoError(t, err)

	assert.Equal(t, "PCOS (Custom Expansion)", expander.Expand("PCOS"))
	assert.Equal(t, "XYZ (Example Entry) and BMI (Body Mass Index)", expander.Expand("XYZ and BMI"))
}

func TestEmbedText_AppliesExpansion(t *testing.T) {
	svc, _ := newTestService(t, 3, true)

	// Expanded text is longer, which the fake encoder surfaces as v[0]
	plain, err := svc.EmbedText(context.Background(), "nothing to expand")
	require.NoError(t, err)
	expanded, err := svc.EmbedText(context.Background(), "PCOS is common.")
	require.NoError(t, err)

	assert.Equal(t, float32(len("nothing to expand")), plain[0])
	assert.Equal(t, float32(len("PCOS (Polycystic Ovary Syndrome) is common.")), expanded[0])
}
