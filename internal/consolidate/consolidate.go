// Package consolidate merges an ordered batch of raw records for one
// customer into a single ConsolidatedProfile.
package consolidate

import (
	"go.uber.org/zap"

	"github.com/TheCreditPros/tilores-X-sub005/internal/model"
	"github.com/TheCreditPros/tilores-X-sub005/internal/normalize"
)

// identityFields maps canonical identity keys to upstream field names, in
// merge order. Values are normalized on write.
var identityFields = []fieldMapping{
	{"email", model.FieldEmail, normalize.Email},
	{"first_name", model.FieldFirstName, normalize.Name},
	{"last_name", model.FieldLastName, normalize.Name},
	{"middle_name", model.FieldMiddleName, normalize.Name},
	{"phone", model.FieldPhone, normalize.Phone},
	{"client_id", model.FieldClientID, nil},
}

// businessFields maps canonical business-data keys to upstream field names.
var businessFields = []fieldMapping{
	{"product_name", "PRODUCT_NAME", nil},
	{"current_product", "CURRENT_PRODUCT", nil},
	{"status", "STATUS", nil},
	{"enrollment_date", "ENROLLMENT_DATE", nil},
	{"enrollment_fee", "ENROLLMENT_FEE", nil},
	{"sponsor_code", "SPONSOR_CODE", nil},
}

type fieldMapping struct {
	canonical string
	upstream  string
	normalize func(string) string
}

// Per-domain projection fields. A record contributes to a domain list only
// when its discriminator field is present; the projection then copies the
// domain's known sub-fields that the record actually carries.
var (
	transactionFields = []string{
		model.FieldTransactionAmount, "TRANSACTION_DATE", "PAYMENT_METHOD",
		"TRANSACTION_TYPE", "TRANSACTION_STATUS",
	}
	cardFields = []string{
		model.FieldCardLast4, "CARD_TYPE", "CARD_EXPIRATION", "CARD_STATUS",
	}
	callFields = []string{
		model.FieldCallID, "CALL_START_TIME", "CALL_DURATION", "CALL_TYPE",
		"AGENT_USERNAME", "CAMPAIGN_NAME",
	}
	ticketFields = []string{
		model.FieldTicketNumber, "TICKET_STATUS", "TICKET_CATEGORY",
		"TICKET_SUBJECT", "CREATED_DATE", "CLOSED_DATE",
	}
)

// Consolidate merges records into one profile in a single pass over the
// input, in input order. Identity and business fields follow first-non-null-
// wins: once set they are never overwritten, so repeated runs over a stably
// ordered record set produce identical identity data. Domain lists get one
// entry per record that carries the domain's discriminator. Records are
// never mutated or re-ordered; an empty input yields a valid empty profile.
func Consolidate(records []model.RawRecord) *model.ConsolidatedProfile {
	p := model.NewConsolidatedProfile()

	for _, rec := range records {
		mergeSingleton(p.Identity, rec, identityFields)
		mergeSingleton(p.BusinessData, rec, businessFields)

		if cr := rec.Map(model.FieldCreditResponse); cr != nil {
			p.CreditReports = append(p.CreditReports, model.CreditReportRef{
				Bureau:     cr.Str(model.FieldBureau),
				ReportDate: cr.Str(model.FieldReportDate),
				ReportID:   cr.Str(model.FieldReportID),
				Vendor:     cr.Str(model.FieldVendor),
			})
		}
		if rec.Has(model.FieldTransactionAmount) {
			p.Transactions = append(p.Transactions, project(rec, transactionFields))
		}
		if rec.Has(model.FieldCardLast4) {
			p.Cards = append(p.Cards, project(rec, cardFields))
		}
		if rec.Has(model.FieldCallID) {
			p.PhoneCalls = append(p.PhoneCalls, project(rec, callFields))
		}
		if rec.Has(model.FieldTicketNumber) {
			p.Tickets = append(p.Tickets, project(rec, ticketFields))
		}

		accumulateInventory(p.FieldInventory, rec)
	}

	zap.L().Debug("consolidate: merged records",
		zap.Int("records", len(records)),
		zap.Int("credit_reports", len(p.CreditReports)),
		zap.Int("identity_fields", len(p.Identity)),
	)

	return p
}

// mergeSingleton applies first-non-null-wins for each mapped field.
// Conflicting later values are silently discarded; fragmentation is
// surfaced by the quality scorer, not here.
func mergeSingleton(dst map[string]string, rec model.RawRecord, fields []fieldMapping) {
	for _, fm := range fields {
		if _, set := dst[fm.canonical]; set {
			continue
		}
		if !rec.Has(fm.upstream) {
			continue
		}
		v := rec.Str(fm.upstream)
		if v == "" {
			continue
		}
		if fm.normalize != nil {
			v = fm.normalize(v)
		}
		dst[fm.canonical] = v
	}
}

// project copies the listed fields the record actually carries.
func project(rec model.RawRecord, fields []string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if rec.Has(f) {
			out[f] = rec[f]
		}
	}
	return out
}

// accumulateInventory adds every non-null, non-empty scalar value to the
// per-field distinct value set, preserving discovery order.
func accumulateInventory(inv map[string][]string, rec model.RawRecord) {
	for field, v := range rec {
		if v == nil || !model.IsScalar(v) {
			continue
		}
		s := model.Stringify(v)
		if s == "" {
			continue
		}
		if !contains(inv[field], s) {
			inv[field] = append(inv[field], s)
		}
	}
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
