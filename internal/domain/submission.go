package domain

// Submission is the reviewer-facing snapshot of a dataset submission. The
// assistance layer only reads it; the form pipeline owns the real record.
type Submission struct {
	ID            string
	Title         string
	Abstract      string
	Expedition    Expedition
	Category      string
	ISOTopic      string
	Keywords      []string
	Purpose       string
	Progress      string
	TemporalStart string
	TemporalEnd   string
	Bounds        *BBox
	HasFile       bool
}
