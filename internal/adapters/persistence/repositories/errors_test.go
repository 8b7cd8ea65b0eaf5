package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"somity-ledger/internal/core/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		notFound error
		want     error
	}{
		{"nil", nil, nil, nil},
		{"record not found default", gorm.ErrRecordNotFound, nil, domain.ErrNotFound},
		{"record not found specific", gorm.ErrRecordNotFound, domain.ErrLoanNotFound, domain.ErrLoanNotFound},
		{"deadlock", &mysql.MySQLError{Number: 1213, Message: "Deadlock found"}, nil, domain.ErrTransientStore},
		{"lock wait", &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout"}, nil, domain.ErrTransientStore},
		{"bad conn", fmt.Errorf("exec: %w", mysql.ErrInvalidConn), nil, domain.ErrTransientStore},
		{"deadline", context.DeadlineExceeded, nil, domain.ErrTransientStore},
		{"duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, nil, domain.ErrConflict},
		{"domain passthrough", domain.ErrDepositResolved, nil, domain.ErrDepositResolved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, tt.notFound)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestMapError_UnknownPassesThrough(t *testing.T) {
	raw := errors.New("syntax error")
	assert.Same(t, raw, mapError(raw, nil))
}
