package model

// RawRecord is one untyped source record for a customer, as delivered by the
// upstream record store. No two records are guaranteed to share a schema; any
// field may be absent. Records are read-only inputs to the pipeline.
type RawRecord map[string]any

// Upstream field names. The source systems emit flat uppercase keys for
// identity and domain discriminators, and a nested CREDIT_RESPONSE block for
// bureau reports.
const (
	FieldEmail      = "EMAIL"
	FieldFirstName  = "FIRST_NAME"
	FieldLastName   = "LAST_NAME"
	FieldMiddleName = "MIDDLE_NAME"
	FieldPhone      = "PHONE_EXTERNAL"
	FieldClientID   = "CLIENT_ID"

	FieldCreditResponse = "CREDIT_RESPONSE"
	FieldBureau         = "CREDIT_BUREAU"
	FieldReportDate     = "CreditReportFirstIssuedDate"
	FieldReportID       = "Report_ID"
	FieldVendor         = "Vendor"
	FieldCreditScore    = "CREDIT_SCORE"
	FieldCreditSummary  = "CREDIT_SUMMARY"
	FieldDataSet        = "DATA_SET"

	FieldTransactionAmount = "TRANSACTION_AMOUNT"
	FieldCardLast4         = "CARD_LAST_4"
	FieldCallID            = "CALL_ID"
	FieldTicketNumber      = "TICKET_NUMBER"
)

// Has reports whether the record carries a non-nil value for key.
func (r RawRecord) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Str returns the record value for key stringified, or "" when the value is
// absent, nil, or not a scalar.
func (r RawRecord) Str(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	return Stringify(v)
}

// Map returns a nested map value as a RawRecord, or nil when the value is
// absent or not a map.
func (r RawRecord) Map(key string) RawRecord {
	switch m := r[key].(type) {
	case map[string]any:
		return RawRecord(m)
	case RawRecord:
		return m
	default:
		return nil
	}
}

// List returns a list value, or nil when the value is absent or not a list.
func (r RawRecord) List(key string) []any {
	if l, ok := r[key].([]any); ok {
		return l
	}
	return nil
}
