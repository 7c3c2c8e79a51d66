// Package fetch resolves customer identifiers into raw record batches.
// It is the outbound boundary of the core: the cache and pre-warmer call a
// RecordSource on misses, and only this path can fail.
package fetch

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/TheCreditPros/tilores-X-sub005/internal/model"
)

// ErrFetchFailed marks an upstream record-fetch failure. Single-flight
// waiters of a cache miss all receive an error wrapping this sentinel.
var ErrFetchFailed = eris.New("upstream record fetch failed")

// RecordSource fetches the raw records for one customer identifier.
type RecordSource interface {
	FetchRecords(ctx context.Context, identifier string) ([]model.RawRecord, error)
}

// IdentifierKind classifies a customer identifier for query construction.
type IdentifierKind string

const (
	KindEmail    IdentifierKind = "email"
	KindPhone    IdentifierKind = "phone"
	KindClientID IdentifierKind = "client_id"
	KindName     IdentifierKind = "name"
)

// Identifier is a parsed customer identifier.
type Identifier struct {
	Kind      IdentifierKind
	Value     string
	FirstName string // set for KindName
	LastName  string // set for KindName
}

// ParseIdentifier classifies an identifier heuristically: an @ makes it an
// email, seven or more digits make it a phone number, internal whitespace
// makes it a full name split into first/last, anything else is a client id.
func ParseIdentifier(s string) Identifier {
	s = strings.TrimSpace(s)

	if strings.Contains(s, "@") {
		return Identifier{Kind: KindEmail, Value: strings.ToLower(s)}
	}

	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits >= 7 && digits >= len(s)-4 {
		return Identifier{Kind: KindPhone, Value: s}
	}

	if fields := strings.Fields(s); len(fields) >= 2 {
		return Identifier{
			Kind:      KindName,
			Value:     s,
			FirstName: fields[0],
			LastName:  fields[len(fields)-1],
		}
	}

	return Identifier{Kind: KindClientID, Value: s}
}
