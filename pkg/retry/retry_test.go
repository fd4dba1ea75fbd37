package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-pro/pkg/retry"
)

// Caso 1: la operación falla dos veces y tiene éxito en el tercer intento.
func TestDo_ReintentaHastaExito(t *testing.T) {
	attempts := 0
	p := retry.Constant(3, time.Millisecond)

	got, err := retry.Do(context.Background(), p, func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transitorio")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, attempts, "debe consumir exactamente tres intentos")
}

// Caso 2: se agotan los intentos -> devuelve el último error.
func TestDo_AgotaIntentos(t *testing.T) {
	attempts := 0
	p := retry.Constant(3, time.Millisecond)

	_, err := retry.Do(context.Background(), p, func(ctx context.Context) (int, error) {
		attempts++
		return 0, errors.New("siempre falla")
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts, "no debe superar el máximo de intentos")
}

// Caso 3: resultado sin error pero vacío -> el predicado fuerza el reintento.
func TestDoAccept_ReintentaResultadoNoAceptado(t *testing.T) {
	attempts := 0
	p := retry.Constant(3, time.Millisecond)

	got, err := retry.DoAccept(context.Background(), p,
		func(ctx context.Context) ([]string, error) {
			attempts++
			if attempts < 2 {
				return nil, nil // sin error, pero vacío
			}
			return []string{"empresa"}, nil
		},
		func(v []string) bool { return len(v) > 0 },
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"empresa"}, got)
	assert.Equal(t, 2, attempts)
}

// Caso 4: todos los resultados vacíos -> ErrNotAccepted tras agotar intentos.
func TestDoAccept_TodoVacio(t *testing.T) {
	p := retry.Constant(2, time.Millisecond)

	_, err := retry.DoAccept(context.Background(), p,
		func(ctx context.Context) ([]string, error) { return nil, nil },
		func(v []string) bool { return len(v) > 0 },
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, retry.ErrNotAccepted)
}
