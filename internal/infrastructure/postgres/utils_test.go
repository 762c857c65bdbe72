package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

// isUniqueViolation é o guard que faz os Create traduzirem 23505 em
// domain.ErrDuplicate; precisa enxergar o PgError mesmo embrulhado.
func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "producers_tax_id_key"}
	assert.True(t, isUniqueViolation(unique))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert producer: %w", unique)),
		"deve detectar o PgError embrulhado")

	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}),
		"violação de FK não é duplicidade")
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
}

func TestJSONOrNilRoundTrip(t *testing.T) {
	raw, err := jsonOrNil(nil)
	assert.NoError(t, err)
	assert.Nil(t, raw, "map vazio vira coluna NULL")

	raw, err = jsonOrNil(map[string]string{"cfop": "5102"})
	assert.NoError(t, err)

	m, err := mapFromJSON(raw)
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"cfop": "5102"}, m)

	m, err = mapFromJSON(nil)
	assert.NoError(t, err)
	assert.Nil(t, m, "coluna NULL vira map nil")
}
