package model

// TemporalCreditIndex is the bureau×date-bucketed view of a customer's
// credit reports. It is purely derived from the raw records: recomputed
// whenever the report list changes, never edited independently.
type TemporalCreditIndex struct {
	// Buckets maps bureau name -> report date -> bucket.
	Buckets map[string]map[string]*CreditBucket `json:"buckets"`

	// CreditBureaus and Vendors are deduplicated in discovery order.
	CreditBureaus []string `json:"credit_bureaus"`
	Vendors       []string `json:"vendors"`

	// ReportTimeline is sorted ascending by date string; empty dates first.
	ReportTimeline []TimelineEntry `json:"report_timeline"`
}

// CreditBucket holds the scores and summary parameters for one
// (bureau, report date) pair. The scalar fields are extracted from
// SummaryParameters by keyword category; a parameter whose value fails
// numeric coercion keeps its verbatim entry but leaves the scalar nil.
type CreditBucket struct {
	Scores            []CreditScore     `json:"scores"`
	SummaryParameters map[string]string `json:"summary_parameters"`

	Utilization   *float64 `json:"utilization,omitempty"`
	Inquiries     *int     `json:"inquiries,omitempty"`
	Accounts      *int     `json:"accounts,omitempty"`
	Payments      *float64 `json:"payments,omitempty"`
	Delinquencies *int     `json:"delinquencies,omitempty"`
}

// CreditScore is one score entry from a credit response.
type CreditScore struct {
	Value int    `json:"value"`
	Model string `json:"model,omitempty"`
}

// TimelineEntry is one report occurrence on the customer's credit timeline.
type TimelineEntry struct {
	Date     string `json:"date"`
	Bureau   string `json:"bureau"`
	ReportID string `json:"report_id,omitempty"`
	Vendor   string `json:"vendor,omitempty"`
}

// Bucket returns the bucket for (bureau, date), or nil if absent.
func (idx *TemporalCreditIndex) Bucket(bureau, date string) *CreditBucket {
	if idx == nil || idx.Buckets == nil {
		return nil
	}
	return idx.Buckets[bureau][date]
}

// LatestScore returns the most recent credit score by report date, walking
// the timeline backwards until a bucket with at least one score is found.
// The second return is false when no bucket carries a score.
func (idx *TemporalCreditIndex) LatestScore() (CreditScore, bool) {
	if idx == nil {
		return CreditScore{}, false
	}
	for i := len(idx.ReportTimeline) - 1; i >= 0; i-- {
		e := idx.ReportTimeline[i]
		b := idx.Bucket(e.Bureau, e.Date)
		if b != nil && len(b.Scores) > 0 {
			return b.Scores[0], true
		}
	}
	return CreditScore{}, false
}
