package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Identifier
	}{
		{
			name: "email",
			in:   "Jane.Doe@Example.com",
			want: Identifier{Kind: KindEmail, Value: "jane.doe@example.com"},
		},
		{
			name: "email wins over digits",
			in:   "user12345678@example.com",
			want: Identifier{Kind: KindEmail, Value: "user12345678@example.com"},
		},
		{
			name: "formatted phone",
			in:   "(555) 123-4567",
			want: Identifier{Kind: KindPhone, Value: "(555) 123-4567"},
		},
		{
			name: "bare phone",
			in:   "5551234567",
			want: Identifier{Kind: KindPhone, Value: "5551234567"},
		},
		{
			name: "full name",
			in:   "Jane Doe",
			want: Identifier{Kind: KindName, Value: "Jane Doe", FirstName: "Jane", LastName: "Doe"},
		},
		{
			name: "name with middle keeps first and last",
			in:   "Jane Q Doe",
			want: Identifier{Kind: KindName, Value: "Jane Q Doe", FirstName: "Jane", LastName: "Doe"},
		},
		{
			name: "client id",
			in:   "CUST-0042",
			want: Identifier{Kind: KindClientID, Value: "CUST-0042"},
		},
		{
			name: "short digits stay client id",
			in:   "12345",
			want: Identifier{Kind: KindClientID, Value: "12345"},
		},
		{
			name: "whitespace trimmed",
			in:   "  cust-1  ",
			want: Identifier{Kind: KindClientID, Value: "cust-1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIdentifier(tt.in))
		})
	}
}

func TestBuildQuery(t *testing.T) {
	q, args := buildQuery(Identifier{Kind: KindEmail, Value: "jane@example.com"})
	assert.Contains(t, q, "EMAIL")
	assert.Equal(t, []any{"jane@example.com"}, args)

	q, args = buildQuery(Identifier{Kind: KindName, FirstName: "Jane", LastName: "Doe"})
	assert.Contains(t, q, "FIRST_NAME")
	assert.Contains(t, q, "LAST_NAME")
	assert.Equal(t, []any{"Jane", "Doe"}, args)

	q, args = buildQuery(Identifier{Kind: KindClientID, Value: "cust-1"})
	assert.Contains(t, q, "CLIENT_ID")
	assert.Equal(t, []any{"cust-1"}, args)

	q, args = buildQuery(Identifier{Kind: KindPhone, Value: "5551234567"})
	assert.Contains(t, q, "PHONE_EXTERNAL")
	assert.Equal(t, []any{"5551234567"}, args)
}
