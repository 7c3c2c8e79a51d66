package model

import "time"

// ConsolidatedProfile is the merged, per-domain-structured view of all
// RawRecords for one customer. It is the unit of work for the aggregation
// pipeline and the value stored in the cache.
type ConsolidatedProfile struct {
	Identity       map[string]string   `json:"identity"`
	CreditReports  []CreditReportRef   `json:"credit_reports"`
	Transactions   []map[string]any    `json:"transactions"`
	Cards          []map[string]any    `json:"cards"`
	PhoneCalls     []map[string]any    `json:"phone_calls"`
	Tickets        []map[string]any    `json:"tickets"`
	BusinessData   map[string]string   `json:"business_data"`
	FieldInventory map[string][]string `json:"field_inventory"`
}

// NewConsolidatedProfile returns an empty profile with initialized maps.
// An empty profile is a valid, non-error result of consolidating zero records.
func NewConsolidatedProfile() *ConsolidatedProfile {
	return &ConsolidatedProfile{
		Identity:       make(map[string]string),
		BusinessData:   make(map[string]string),
		FieldInventory: make(map[string][]string),
	}
}

// CreditReportRef is one raw per-report summary collected during
// consolidation, in record iteration order (not chronological order).
type CreditReportRef struct {
	Bureau     string `json:"bureau"`
	ReportDate string `json:"report_date"`
	ReportID   string `json:"report_id,omitempty"`
	Vendor     string `json:"vendor,omitempty"`
}

// CustomerView is the finished pipeline output for one customer key:
// the consolidated profile plus its derived credit and quality views.
// Views are immutable once built and may be shared without locking.
type CustomerView struct {
	Profile *ConsolidatedProfile `json:"profile"`
	Credit  *TemporalCreditIndex `json:"credit"`
	Quality *QualityAssessment   `json:"quality"`
	BuiltAt time.Time            `json:"built_at"`
}
