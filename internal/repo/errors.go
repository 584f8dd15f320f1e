package repo

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound é retornado quando nenhum registro é encontrado.
	ErrNotFound = errors.New("registro não encontrado")
	// ErrConflito é retornado quando restrição de unicidade é violada.
	ErrConflito = errors.New("dados já existem no sistema")
	// ErrReferenciado é retornado quando o registro está em uso por outro.
	ErrReferenciado = errors.New("registro em uso por outros dados")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// MapPgError traduz violações de restrição do Postgres para erros do domínio.
// A restrição de unicidade no banco é o sinal autoritativo de conflito: duas
// requisições concorrentes podem passar pela pré-checagem, mas apenas uma insere.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrConflito
		case pgForeignKeyViolation:
			return ErrReferenciado
		}
	}
	return err
}
