// Package temporal builds the bureau×date-bucketed credit index from raw
// records carrying credit-response blocks.
package temporal

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/TheCreditPros/tilores-X-sub005/internal/model"
)

// scalarKind selects the numeric type a category coerces into.
type scalarKind int

const (
	kindFloat scalarKind = iota
	kindInt
)

// category is one row of the summary-parameter classification table.
// Upstream parameter names are free-text labels that vary by bureau and
// vendor, so classification is a case-insensitive substring match rather
// than a fixed schema. New vendors are supported by adding table rows.
type category struct {
	name     string
	keywords []string
	kind     scalarKind
	assign   func(b *model.CreditBucket, f float64, i int)
}

var categories = []category{
	{"utilization", []string{"utilization"}, kindFloat,
		func(b *model.CreditBucket, f float64, _ int) { b.Utilization = &f }},
	{"inquiries", []string{"inquir"}, kindInt,
		func(b *model.CreditBucket, _ float64, i int) { b.Inquiries = &i }},
	{"accounts", []string{"tradeline", "account"}, kindInt,
		func(b *model.CreditBucket, _ float64, i int) { b.Accounts = &i }},
	{"payments", []string{"payment"}, kindFloat,
		func(b *model.CreditBucket, f float64, _ int) { b.Payments = &f }},
	{"delinquencies", []string{"delinq"}, kindInt,
		func(b *model.CreditBucket, _ float64, i int) { b.Delinquencies = &i }},
}

// BuildIndex walks the raw records and builds the temporal credit index.
// Records without a credit response, or whose response lacks a bureau name
// or report date, are skipped for indexing (they still reach the profile's
// credit_reports list via consolidation).
func BuildIndex(records []model.RawRecord) *model.TemporalCreditIndex {
	idx := &model.TemporalCreditIndex{
		Buckets: make(map[string]map[string]*model.CreditBucket),
	}

	for _, rec := range records {
		cr := rec.Map(model.FieldCreditResponse)
		if cr == nil {
			continue
		}
		bureau := cr.Str(model.FieldBureau)
		date := cr.Str(model.FieldReportDate)
		if bureau == "" || date == "" {
			zap.L().Debug("temporal: credit response missing bureau or date, skipping")
			continue
		}

		bucket := ensureBucket(idx, bureau, date)
		addScores(bucket, cr)
		addSummaryParameters(bucket, cr)

		appendUnique(&idx.CreditBureaus, bureau)
		if vendor := cr.Str(model.FieldVendor); vendor != "" {
			appendUnique(&idx.Vendors, vendor)
		}

		idx.ReportTimeline = append(idx.ReportTimeline, model.TimelineEntry{
			Date:     date,
			Bureau:   bureau,
			ReportID: cr.Str(model.FieldReportID),
			Vendor:   cr.Str(model.FieldVendor),
		})
	}

	// Dates are ISO-formatted upstream, so lexical order is chronological.
	// Empty dates sort first; ties keep discovery order.
	sort.SliceStable(idx.ReportTimeline, func(i, j int) bool {
		return idx.ReportTimeline[i].Date < idx.ReportTimeline[j].Date
	})

	return idx
}

func ensureBucket(idx *model.TemporalCreditIndex, bureau, date string) *model.CreditBucket {
	byDate := idx.Buckets[bureau]
	if byDate == nil {
		byDate = make(map[string]*model.CreditBucket)
		idx.Buckets[bureau] = byDate
	}
	bucket := byDate[date]
	if bucket == nil {
		bucket = &model.CreditBucket{SummaryParameters: make(map[string]string)}
		byDate[date] = bucket
	}
	return bucket
}

// addScores appends every parseable score entry. The upstream emits the
// literal string "None" for absent scores; those and non-numeric values
// are ignored.
func addScores(bucket *model.CreditBucket, cr model.RawRecord) {
	for _, item := range cr.List(model.FieldCreditScore) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		raw := model.RawRecord(entry)
		value := raw.Str("Value")
		if value == "" || value == "None" {
			continue
		}
		n, ok := model.ToInt(value)
		if !ok {
			continue
		}
		bucket.Scores = append(bucket.Scores, model.CreditScore{
			Value: n,
			Model: raw.Str("ModelNameType"),
		})
	}
}

// addSummaryParameters stores every (name, value) pair verbatim, then
// classifies the name against the category table. The first matching
// category wins; a coercion failure leaves the scalar slot unset while the
// verbatim entry remains.
func addSummaryParameters(bucket *model.CreditBucket, cr model.RawRecord) {
	summary := cr.Map(model.FieldCreditSummary)
	if summary == nil {
		return
	}
	for _, item := range summary.List(model.FieldDataSet) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		raw := model.RawRecord(entry)
		name := raw.Str("Name")
		if name == "" {
			name = raw.Str("ID")
		}
		if name == "" {
			continue
		}
		value := raw.Str("Value")
		bucket.SummaryParameters[name] = value
		classify(bucket, name, value)
	}
}

func classify(bucket *model.CreditBucket, name, value string) {
	lower := strings.ToLower(name)
	for _, cat := range categories {
		if !matchesAny(lower, cat.keywords) {
			continue
		}
		switch cat.kind {
		case kindFloat:
			if f, ok := model.ToFloat64(value); ok {
				cat.assign(bucket, f, 0)
			}
		case kindInt:
			if n, ok := model.ToInt(value); ok {
				cat.assign(bucket, 0, n)
			}
		}
		return
	}
}

func matchesAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func appendUnique(list *[]string, s string) {
	for _, v := range *list {
		if v == s {
			return
		}
	}
	*list = append(*list, s)
}
