package model

// Provenance identifies which tier of the sentiment fallback chain
// produced a score.
type Provenance string

const (
	ProvenancePrimary     Provenance = "primary"
	ProvenanceSecondary   Provenance = "secondary"
	ProvenanceDerived     Provenance = "derived"
	ProvenancePlaceholder Provenance = "placeholder"
)

// Remote reports whether the score came from an actual sentiment provider
// rather than a local estimate or a fixed fallback.
func (p Provenance) Remote() bool {
	return p == ProvenancePrimary || p == ProvenanceSecondary
}

// SentimentScore is a market-mood reading in [0,100] with a qualitative
// label and the tier that produced it.
type SentimentScore struct {
	Score      float64    `json:"score"`
	Label      string     `json:"label"`
	Provenance Provenance `json:"provenance"`
}
