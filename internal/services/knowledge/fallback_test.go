package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/lunahealth/luna/internal/common"
	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/lunahealth/luna/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRetriever returns a fixed answer or error
type stubRetriever struct {
	name   string
	answer *models.Answer
	err    error
	calls  int
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string, opts interfaces.RetrieveOptions) (*models.Answer, error) {
	s.calls++
	return s.answer, s.err
}

func (s *stubRetriever) Name() string { return s.name }

func TestFallbackRetriever_PrimarySucceeds(t *testing.T) {
	primary := &stubRetriever{name: "vector", answer: &models.Answer{Success: true, System: "vector"}}
	secondary := &stubRetriever{name: "curated", answer: &models.Answer{Success: true, System: "curated"}}
	r := NewFallbackRetriever(primary, secondary, common.GetLogger())

	answer, err := r.Retrieve(context.Background(), "q", interfaces.RetrieveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "vector", answer.System)
	assert.True(t, answer.FallbackAvailable)
	assert.Equal(t, 0, secondary.calls, "secondary must not run when primary answers")
}

func TestFallbackRetriever_PrimaryErrorUsesSecondary(t *testing.T) {
	primary := &stubRetriever{name: "vector", err: errors.New("store unavailable")}
	secondary := &stubRetriever{name: "curated", answer: &models.Answer{Success: true, System: "curated"}}
	r := NewFallbackRetriever(primary, secondary, common.GetLogger())

	answer, err := r.Retrieve(context.Background(), "q", interfaces.RetrieveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "curated", answer.System)
}

func TestFallbackRetriever_PrimaryNoResultsUsesSecondary(t *testing.T) {
	primary := &stubRetriever{name: "vector", answer: &models.Answer{Success: false, System: "vector"}}
	secondary := &stubRetriever{name: "curated", answer: &models.Answer{Success: true, System: "curated"}}
	r := NewFallbackRetriever(primary, secondary, common.GetLogger())

	answer, err := r.Retrieve(context.Background(), "q", interfaces.RetrieveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "curated", answer.System)
}

func TestFallbackRetriever_BothFail(t *testing.T) {
	primary := &stubRetriever{name: "vector", err: errors.New("store unavailable")}
	secondary := &stubRetriever{name: "curated", err: errors.New("also broken")}
	r := NewFallbackRetriever(primary, secondary, common.GetLogger())

	_, err := r.Retrieve(context.Background(), "q", interfaces.RetrieveOptions{})
	require.Error(t, err)
}

func TestFallbackRetriever_NoSecondary(t *testing.T) {
	primary := &stubRetriever{name: "vector", answer: &models.Answer{Success: false, System: "vector"}}
	r := NewFallbackRetriever(primary, nil, common.GetLogger())

	answer, err := r.Retrieve(context.Background(), "q", interfaces.RetrieveOptions{})
	require.NoError(t, err)
	assert.False(t, answer.Success)
	assert.False(t, answer.FallbackAvailable)
}
