// Package insight scores a consolidated profile for completeness and
// reliability. The score decides whether the profile is trustworthy enough
// to answer a user's question; a low score surfaces as "insufficient data"
// in the calling layer rather than an error here.
package insight

import (
	"math"

	"go.uber.org/zap"

	"github.com/TheCreditPros/tilores-X-sub005/internal/model"
)

// Risk-level thresholds on the latest credit score.
const (
	lowRiskScore    = 750
	mediumRiskScore = 650
)

// Score produces the 0-100 quality assessment for a profile and its
// temporal credit index. It never mutates its inputs and is idempotent:
// scoring an unchanged profile twice yields identical assessments.
func Score(profile *model.ConsolidatedProfile, credit *model.TemporalCreditIndex) *model.QualityAssessment {
	qa := &model.QualityAssessment{}

	email := profile.Identity["email"]
	phone := profile.Identity["phone"]

	// Contact information: +30.
	if email != "" || phone != "" {
		qa.Score += 30
	} else {
		addIssue(qa, "missing_contact_info", "Add email or phone number")
	}

	// Data completeness: +40 scaled by populated/observed fields. The
	// inventory only records non-empty values, so the ratio drops below 1
	// only when observed fields lost every value to normalization.
	observed := len(profile.FieldInventory)
	if observed > 0 {
		populated := 0
		for _, values := range profile.FieldInventory {
			if len(values) > 0 {
				populated++
			}
		}
		qa.Score += 40 * float64(populated) / float64(observed)
	} else {
		addIssue(qa, "no_fields_observed", "Supply at least one source record for this customer")
	}

	// Identity fragmentation: +10 per stable contact field.
	if len(profile.FieldInventory[model.FieldEmail]) <= 1 {
		qa.Score += 10
	} else {
		addIssue(qa, "conflicting_emails", "Verify which email address is current")
	}
	if len(profile.FieldInventory[model.FieldPhone]) <= 1 {
		qa.Score += 10
	} else {
		addIssue(qa, "conflicting_phones", "Verify which phone number is current")
	}

	// Primary identifier: +10.
	switch {
	case profile.Identity["client_id"] != "":
		qa.PrimaryIdentifier = profile.Identity["client_id"]
		qa.Score += 10
	case email != "":
		qa.PrimaryIdentifier = email
		qa.Score += 10
	case phone != "":
		qa.PrimaryIdentifier = phone
		qa.Score += 10
	default:
		qa.PrimaryIdentifier = "unknown"
		addIssue(qa, "no_primary_identifier", "Provide a client ID, email, or phone number")
	}

	qa.Score = math.Round(math.Min(100, math.Max(0, qa.Score))*100) / 100
	qa.Rating = rating(qa.Score)
	qa.RiskLevel = riskLevel(credit)

	zap.L().Debug("insight: profile scored",
		zap.Float64("score", qa.Score),
		zap.String("rating", qa.Rating),
		zap.String("risk_level", qa.RiskLevel),
	)

	return qa
}

func rating(score float64) string {
	switch {
	case score >= 80:
		return model.RatingExcellent
	case score >= 60:
		return model.RatingGood
	case score >= 40:
		return model.RatingFair
	default:
		return model.RatingPoor
	}
}

// riskLevel bands the latest-by-date credit score. A customer with no
// scored report is unknown, not high.
func riskLevel(credit *model.TemporalCreditIndex) string {
	latest, ok := credit.LatestScore()
	if !ok {
		return model.RiskUnknown
	}
	switch {
	case latest.Value >= lowRiskScore:
		return model.RiskLow
	case latest.Value >= mediumRiskScore:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}

func addIssue(qa *model.QualityAssessment, code, recommendation string) {
	qa.Issues = append(qa.Issues, code)
	qa.Recommendations = append(qa.Recommendations, recommendation)
}
