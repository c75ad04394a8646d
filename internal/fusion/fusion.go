// Package fusion reconciles the outputs of the two independent fish
// classifiers into a single identification with a disclosed method tag.
// The engine is a pure function of its inputs: no I/O, no clock reads,
// no shared state.
package fusion

import (
	"strings"

	"github.com/castnet/castnet-go/internal/errors"
)

// Sentinel errors for the fusion contract.
var (
	// ErrNoClassifierResult is returned when both classifier inputs are absent.
	ErrNoClassifierResult = errors.NewStd("no classifier result available")
	// ErrInvalidConfidence is returned when a confidence falls outside [0, 1].
	ErrInvalidConfidence = errors.NewStd("classifier confidence outside [0, 1]")
)

// Method identifies how a fused identification was derived. Callers can
// branch on provenance, so the tag set is part of the contract.
type Method string

const (
	MethodPrimaryOnly    Method = "primary_only"
	MethodSecondaryOnly  Method = "secondary_only"
	MethodHybridAgree    Method = "hybrid_agree"
	MethodHybridDisagree Method = "hybrid_disagree"
)

// ClassifierResult is one classifier's answer for a single image. The
// primary result comes from the taxonomy-specific convolutional model,
// the secondary from embedding similarity search.
type ClassifierResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// FusedIdentification is the reconciled answer for one scan. Raw
// confidences are retained whenever the corresponding classifier
// produced a result, so callers can always audit the blend.
type FusedIdentification struct {
	Species             string   `json:"species"`
	Confidence          float64  `json:"confidence"`
	PrimaryConfidence   *float64 `json:"primary_confidence"`
	SecondaryConfidence *float64 `json:"secondary_confidence"`
	Method              Method   `json:"method"`
}

// Config holds the fusion blend weights. The primary classifier is the
// higher-trust signal; the secondary acts as a minority corrective vote
// and never overrides the primary label.
type Config struct {
	PrimaryWeight   float64
	SecondaryWeight float64
}

// DefaultConfig returns the reference deployment weights.
func DefaultConfig() Config {
	return Config{
		PrimaryWeight:   0.7,
		SecondaryWeight: 0.3,
	}
}

// Engine fuses classifier results using a fixed weight configuration.
type Engine struct {
	cfg Config
}

// NewEngine creates a fusion engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Fuse combines up to two classifier results into one identification.
//
// With a single input the result is passed through verbatim. With both
// inputs the confidence is always the weighted blend of the two raw
// confidences; agreement and disagreement differ only in the method tag
// and in which label wins (the primary's, always).
func (e *Engine) Fuse(primary, secondary *ClassifierResult) (FusedIdentification, error) {
	if primary == nil && secondary == nil {
		return FusedIdentification{}, errors.New(ErrNoClassifierResult).
			Component("fusion").
			Category(errors.CategoryFusion).
			Build()
	}

	if err := validateResult(primary, "primary"); err != nil {
		return FusedIdentification{}, err
	}
	if err := validateResult(secondary, "secondary"); err != nil {
		return FusedIdentification{}, err
	}

	switch {
	case secondary == nil:
		return FusedIdentification{
			Species:           primary.Label,
			Confidence:        primary.Confidence,
			PrimaryConfidence: ptr(primary.Confidence),
			Method:            MethodPrimaryOnly,
		}, nil
	case primary == nil:
		return FusedIdentification{
			Species:             secondary.Label,
			Confidence:          secondary.Confidence,
			SecondaryConfidence: ptr(secondary.Confidence),
			Method:              MethodSecondaryOnly,
		}, nil
	}

	blended := e.cfg.PrimaryWeight*primary.Confidence + e.cfg.SecondaryWeight*secondary.Confidence

	method := MethodHybridDisagree
	if labelsEqual(primary.Label, secondary.Label) {
		method = MethodHybridAgree
	}

	return FusedIdentification{
		Species:             primary.Label,
		Confidence:          blended,
		PrimaryConfidence:   ptr(primary.Confidence),
		SecondaryConfidence: ptr(secondary.Confidence),
		Method:              method,
	}, nil
}

// validateResult rejects confidences outside [0, 1]. A nil result is
// valid, it means that classifier was unavailable for this scan.
func validateResult(r *ClassifierResult, role string) error {
	if r == nil {
		return nil
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return errors.New(ErrInvalidConfidence).
			Component("fusion").
			Category(errors.CategoryValidation).
			Context("classifier", role).
			Context("confidence", r.Confidence).
			Build()
	}
	return nil
}

// labelsEqual compares labels case-insensitively with whitespace
// normalized, so "Northern  Pike" and "northern pike" agree.
func labelsEqual(a, b string) bool {
	return normalizeLabel(a) == normalizeLabel(b)
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

func ptr(v float64) *float64 {
	return &v
}
