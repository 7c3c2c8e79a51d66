package model

// Quality rating bands.
const (
	RatingExcellent = "excellent"
	RatingGood      = "good"
	RatingFair      = "fair"
	RatingPoor      = "poor"
)

// Risk levels derived from the latest credit score.
const (
	RiskLow     = "low"
	RiskMedium  = "medium"
	RiskHigh    = "high"
	RiskUnknown = "unknown"
)

// QualityAssessment is the completeness/quality verdict for a consolidated
// profile. Issues carry machine-readable codes; Recommendations are the
// human-readable counterparts.
type QualityAssessment struct {
	Score             float64  `json:"score"`
	Rating            string   `json:"rating"`
	RiskLevel         string   `json:"risk_level"`
	PrimaryIdentifier string   `json:"primary_identifier"`
	Issues            []string `json:"issues,omitempty"`
	Recommendations   []string `json:"recommendations,omitempty"`
}
