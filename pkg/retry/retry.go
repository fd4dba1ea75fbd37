package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ErrNotAccepted indica que la operación terminó sin error pero el resultado
// no cumplió el predicado de aceptación, por lo que se reintenta.
var ErrNotAccepted = errors.New("retry: resultado no aceptado")

// Policy define una política de reintentos reutilizable: número máximo de
// intentos y la función de espera entre ellos. NewBackOff es una fábrica para
// que cada ejecución tenga su propio estado (los backoff exponenciales son mutables).
type Policy struct {
	MaxAttempts uint
	NewBackOff  func() backoff.BackOff
}

// Constant crea una política de intervalo fijo entre intentos.
func Constant(maxAttempts uint, interval time.Duration) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		NewBackOff: func() backoff.BackOff {
			return backoff.NewConstantBackOff(interval)
		},
	}
}

// Exponential crea una política con backoff exponencial (valores por defecto de la librería).
func Exponential(maxAttempts uint) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		NewBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

// Do ejecuta op hasta que devuelva sin error o se agoten los intentos.
// Respeta la cancelación del contexto entre esperas.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	return backoff.Retry(ctx,
		func() (T, error) { return op(ctx) },
		backoff.WithBackOff(p.NewBackOff()),
		backoff.WithMaxTries(p.MaxAttempts),
	)
}

// DoAccept ejecuta op hasta obtener un resultado que cumpla accept.
// Un resultado no aceptado cuenta como intento fallido (ErrNotAccepted).
func DoAccept[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error), accept func(T) bool) (T, error) {
	return Do(ctx, p, func(ctx context.Context) (T, error) {
		v, err := op(ctx)
		if err != nil {
			return v, err
		}
		if !accept(v) {
			return v, ErrNotAccepted
		}
		return v, nil
	})
}
