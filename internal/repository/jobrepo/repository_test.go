package jobrepo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsInvalidUUID(t *testing.T) {
	// Um path ID fora do formato uuid chega ao FindByID e vira 22P02 no
	// driver; para a API o job simplesmente não existe.
	assert.True(t, isInvalidUUID(&pq.Error{Code: "22P02"}))
	assert.True(t, isInvalidUUID(fmt.Errorf("consulta falhou: %w", &pq.Error{Code: "22P02"})))

	assert.False(t, isInvalidUUID(&pq.Error{Code: "23505"}))
	assert.False(t, isInvalidUUID(errors.New("falha de conexão")))
	assert.False(t, isInvalidUUID(nil))
}
