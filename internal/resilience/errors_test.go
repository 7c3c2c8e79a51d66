package resilience

import (
	"syscall"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"typed transient", NewTransientError(eris.New("anything")), true},
		{"wrapped typed transient", eris.Wrap(NewTransientError(eris.New("inner")), "outer"), true},
		{"econnrefused", syscall.ECONNREFUSED, true},
		{"econnreset", syscall.ECONNRESET, true},
		{"conn busy", eris.New("pgx: conn busy"), true},
		{"sqlite locked", eris.New("database is locked (5) (SQLITE_BUSY)"), true},
		{"too many connections", eris.New("FATAL: too many connections for role"), true},
		{"broken pipe", eris.New("write tcp: broken pipe"), true},
		{"io timeout", eris.New("read tcp: i/o timeout"), true},
		{"plain error", eris.New("no such customer"), false},
		{"constraint violation", eris.New("duplicate key value violates unique constraint"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestTransientError_Unwrap(t *testing.T) {
	inner := eris.New("inner cause")
	te := NewTransientError(inner)

	assert.Equal(t, "inner cause", te.Error())
	assert.ErrorIs(t, te, inner)
}
