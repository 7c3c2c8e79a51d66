package insight

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCreditPros/tilores-X-sub005/internal/consolidate"
	"github.com/TheCreditPros/tilores-X-sub005/internal/model"
	"github.com/TheCreditPros/tilores-X-sub005/internal/temporal"
)

func buildViews(records []model.RawRecord) (*model.ConsolidatedProfile, *model.TemporalCreditIndex) {
	return consolidate.Consolidate(records), temporal.BuildIndex(records)
}

func TestScore_EmptyProfile(t *testing.T) {
	profile, credit := buildViews(nil)
	qa := Score(profile, credit)

	assert.GreaterOrEqual(t, qa.Score, 0.0)
	assert.LessOrEqual(t, qa.Score, 100.0)
	assert.Equal(t, model.RiskUnknown, qa.RiskLevel)
	assert.Equal(t, "unknown", qa.PrimaryIdentifier)
	assert.Contains(t, qa.Issues, "missing_contact_info")
	assert.Contains(t, qa.Issues, "no_primary_identifier")
}

func TestScore_CompleteProfileBeatsEmpty(t *testing.T) {
	emptyProfile, emptyCredit := buildViews(nil)
	empty := Score(emptyProfile, emptyCredit)

	profile, credit := buildViews([]model.RawRecord{
		{"EMAIL": "a@x.com", "CLIENT_ID": "C-1", "PHONE_EXTERNAL": "5551234567"},
	})
	full := Score(profile, credit)

	assert.Greater(t, full.Score, empty.Score)
	assert.Equal(t, 100.0, full.Score)
	assert.Equal(t, model.RatingExcellent, full.Rating)
	assert.Equal(t, "C-1", full.PrimaryIdentifier)
	assert.Empty(t, full.Issues)
}

func TestScore_ConflictingEmailsPenalized(t *testing.T) {
	profile, credit := buildViews([]model.RawRecord{
		{"EMAIL": "a@x.com"},
		{"EMAIL": "b@x.com"},
	})
	qa := Score(profile, credit)

	assert.Contains(t, qa.Issues, "conflicting_emails")
	assert.Contains(t, qa.Recommendations, "Verify which email address is current")
	assert.Less(t, qa.Score, 100.0)
}

func TestScore_RatingBands(t *testing.T) {
	assert.Equal(t, model.RatingExcellent, rating(80))
	assert.Equal(t, model.RatingGood, rating(79.99))
	assert.Equal(t, model.RatingGood, rating(60))
	assert.Equal(t, model.RatingFair, rating(59.99))
	assert.Equal(t, model.RatingFair, rating(40))
	assert.Equal(t, model.RatingPoor, rating(39.99))
	assert.Equal(t, model.RatingPoor, rating(0))
}

func TestScore_RiskFromLatestReportDate(t *testing.T) {
	// Worked two-record scenario: the 720 report is older than the 705
	// report, so risk must resolve from 705 (medium), not 720.
	profile, credit := buildViews([]model.RawRecord{
		{
			"EMAIL": "a@x.com",
			"CREDIT_RESPONSE": map[string]any{
				"CREDIT_BUREAU":               "Experian",
				"CreditReportFirstIssuedDate": "2024-01-01",
				"CREDIT_SCORE":                []any{map[string]any{"Value": "720"}},
			},
		},
		{
			"FIRST_NAME": "Jane",
			"CREDIT_RESPONSE": map[string]any{
				"CREDIT_BUREAU":               "Experian",
				"CreditReportFirstIssuedDate": "2024-06-01",
				"CREDIT_SCORE":                []any{map[string]any{"Value": "705"}},
			},
		},
	})

	assert.Equal(t, "a@x.com", profile.Identity["email"])
	assert.Equal(t, "Jane", profile.Identity["first_name"])
	require.Len(t, profile.CreditReports, 2)

	qa := Score(profile, credit)
	assert.Equal(t, model.RiskMedium, qa.RiskLevel)
}

func TestScore_RiskBands(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{780, model.RiskLow},
		{750, model.RiskLow},
		{700, model.RiskMedium},
		{650, model.RiskMedium},
		{600, model.RiskHigh},
	}
	for _, tc := range cases {
		profile, credit := buildViews([]model.RawRecord{
			{
				"EMAIL": "a@x.com",
				"CREDIT_RESPONSE": map[string]any{
					"CREDIT_BUREAU":               "Experian",
					"CreditReportFirstIssuedDate": "2024-01-01",
					"CREDIT_SCORE":                []any{map[string]any{"Value": tc.score}},
				},
			},
		})
		qa := Score(profile, credit)
		assert.Equal(t, tc.want, qa.RiskLevel, "score %d", tc.score)
	}
}

func TestScore_Idempotent(t *testing.T) {
	profile, credit := buildViews([]model.RawRecord{
		{"EMAIL": "a@x.com", "PRODUCT_NAME": "credit-repair"},
	})

	first, err := json.Marshal(Score(profile, credit))
	require.NoError(t, err)
	second, err := json.Marshal(Score(profile, credit))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestScore_BoundsForArbitraryInput(t *testing.T) {
	profile, credit := buildViews([]model.RawRecord{
		{"EMAIL": "a@x.com"}, {"EMAIL": "b@x.com"}, {"EMAIL": "c@x.com"},
		{"PHONE_EXTERNAL": "111"}, {"PHONE_EXTERNAL": "222"},
	})
	qa := Score(profile, credit)

	assert.GreaterOrEqual(t, qa.Score, 0.0)
	assert.LessOrEqual(t, qa.Score, 100.0)
}
