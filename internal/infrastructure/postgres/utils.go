package postgres

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica se o erro é violação de constraint única (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// nullIfEmpty devolve nil para string vazia (coluna NULL em vez de "").
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// jsonOrNil serializa o map para JSONB; map vazio ou nil vira coluna NULL.
func jsonOrNil(m map[string]string) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

// mapFromJSON desserializa uma coluna JSONB opcional em map; NULL vira nil.
func mapFromJSON(raw []byte) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
