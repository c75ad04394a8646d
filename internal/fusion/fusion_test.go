package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castnet/castnet-go/internal/errors"
)

const floatEpsilon = 1e-9

func TestFuseBothResultsAgree(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	tests := []struct {
		name         string
		primary      ClassifierResult
		secondary    ClassifierResult
		wantSpecies  string
		wantFused    float64
	}{
		{
			name:        "walleye_reference_scenario",
			primary:     ClassifierResult{Label: "walleye", Confidence: 0.94},
			secondary:   ClassifierResult{Label: "walleye", Confidence: 0.91},
			wantSpecies: "walleye",
			wantFused:   0.7*0.94 + 0.3*0.91, // 0.931
		},
		{
			name:        "secondary_more_confident",
			primary:     ClassifierResult{Label: "bass", Confidence: 0.55},
			secondary:   ClassifierResult{Label: "bass", Confidence: 0.95},
			wantSpecies: "bass",
			wantFused:   0.7*0.55 + 0.3*0.95,
		},
		{
			name:        "case_and_whitespace_insensitive_agreement",
			primary:     ClassifierResult{Label: "Northern  Pike", Confidence: 0.80},
			secondary:   ClassifierResult{Label: "northern pike", Confidence: 0.60},
			wantSpecies: "Northern  Pike",
			wantFused:   0.7*0.80 + 0.3*0.60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fused, err := engine.Fuse(&tt.primary, &tt.secondary)
			require.NoError(t, err)

			assert.Equal(t, tt.wantSpecies, fused.Species)
			assert.InDelta(t, tt.wantFused, fused.Confidence, floatEpsilon)
			assert.Equal(t, MethodHybridAgree, fused.Method)
			require.NotNil(t, fused.PrimaryConfidence)
			require.NotNil(t, fused.SecondaryConfidence)
			assert.InDelta(t, tt.primary.Confidence, *fused.PrimaryConfidence, floatEpsilon)
			assert.InDelta(t, tt.secondary.Confidence, *fused.SecondaryConfidence, floatEpsilon)
		})
	}
}

func TestFuseDisagreementPrefersPrimaryLabel(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	primary := &ClassifierResult{Label: "pike", Confidence: 0.60}
	secondary := &ClassifierResult{Label: "bass", Confidence: 0.90}

	fused, err := engine.Fuse(primary, secondary)
	require.NoError(t, err)

	// Label selection is a policy choice: the primary wins even when the
	// secondary is more confident, the blend only adjusts the confidence.
	assert.Equal(t, "pike", fused.Species)
	assert.InDelta(t, 0.69, fused.Confidence, floatEpsilon)
	assert.Equal(t, MethodHybridDisagree, fused.Method)

	require.NotNil(t, fused.PrimaryConfidence)
	require.NotNil(t, fused.SecondaryConfidence)
	assert.InDelta(t, 0.60, *fused.PrimaryConfidence, floatEpsilon)
	assert.InDelta(t, 0.90, *fused.SecondaryConfidence, floatEpsilon)
}

func TestFuseSingleResultPassthrough(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	t.Run("primary_only", func(t *testing.T) {
		primary := &ClassifierResult{Label: "trout", Confidence: 0.72}

		fused, err := engine.Fuse(primary, nil)
		require.NoError(t, err)

		assert.Equal(t, "trout", fused.Species)
		assert.InDelta(t, 0.72, fused.Confidence, floatEpsilon)
		assert.Equal(t, MethodPrimaryOnly, fused.Method)
		require.NotNil(t, fused.PrimaryConfidence)
		assert.Nil(t, fused.SecondaryConfidence)
	})

	t.Run("secondary_only", func(t *testing.T) {
		secondary := &ClassifierResult{Label: "perch", Confidence: 0.58}

		fused, err := engine.Fuse(nil, secondary)
		require.NoError(t, err)

		assert.Equal(t, "perch", fused.Species)
		assert.InDelta(t, 0.58, fused.Confidence, floatEpsilon)
		assert.Equal(t, MethodSecondaryOnly, fused.Method)
		assert.Nil(t, fused.PrimaryConfidence)
		require.NotNil(t, fused.SecondaryConfidence)
	})
}

func TestFuseErrors(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	t.Run("no_results", func(t *testing.T) {
		_, err := engine.Fuse(nil, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoClassifierResult)
	})

	t.Run("confidence_above_one", func(t *testing.T) {
		primary := &ClassifierResult{Label: "walleye", Confidence: 1.2}
		_, err := engine.Fuse(primary, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfidence)
	})

	t.Run("negative_secondary_confidence", func(t *testing.T) {
		primary := &ClassifierResult{Label: "walleye", Confidence: 0.9}
		secondary := &ClassifierResult{Label: "walleye", Confidence: -0.1}
		_, err := engine.Fuse(primary, secondary)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfidence)
		assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
	})
}

func TestFuseIsDeterministic(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	primary := &ClassifierResult{Label: "walleye", Confidence: 0.87}
	secondary := &ClassifierResult{Label: "walleye", Confidence: 0.64}

	first, err := engine.Fuse(primary, secondary)
	require.NoError(t, err)

	for range 10 {
		next, err := engine.Fuse(primary, secondary)
		require.NoError(t, err)
		assert.Equal(t, first, next)
	}
}
