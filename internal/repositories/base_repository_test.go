// file: internal/repositories/base_repository_test.go
package repositories

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestPGErrorCode(t *testing.T) {
	assert.Equal(t, pgUniqueViolation, PGErrorCode(&pq.Error{Code: "23505"}))
	assert.Equal(t, pgCheckViolation, PGErrorCode(&pq.Error{Code: "23514"}))
	assert.Equal(t, "", PGErrorCode(errors.New("plain error")))
	assert.Equal(t, "", PGErrorCode(nil))
}

func TestPGConstraint(t *testing.T) {
	err := &pq.Error{Code: "23514", Constraint: "no_self_mentorship"}
	assert.Equal(t, "no_self_mentorship", PGConstraint(err))
	assert.Equal(t, "", PGConstraint(errors.New("plain error")))
	assert.Equal(t, "", PGConstraint(nil))
}
