package errors_test

import (
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	apperror "pontoestagio/internal/errors"
)

func TestIsUniqueViolation_Codigo23505(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "frequencias_estagiario_data_idx"}

	assert.True(t, apperror.IsUniqueViolation(err))
}

func TestIsUniqueViolation_ErroEncapsulado(t *testing.T) {
	err := fmt.Errorf("inserindo frequência: %w", &pq.Error{Code: "23505"})

	assert.True(t, apperror.IsUniqueViolation(err))
}

func TestIsUniqueViolation_OutrosErros(t *testing.T) {
	assert.False(t, apperror.IsUniqueViolation(nil))
	assert.False(t, apperror.IsUniqueViolation(goerrors.New("connection refused")))
	// 23503 = violação de chave estrangeira
	assert.False(t, apperror.IsUniqueViolation(&pq.Error{Code: "23503"}))
}
