package curso

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestaoseminario/api/internal/repo"
)

const cursoColumns = `id, cod, nome, descricao, ativo, criado_em, atualizado_em`

// Repository acessa a tabela cursos.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Curso, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+cursoColumns+` FROM cursos WHERE id = $1`, id)
	return scanCurso(row)
}

// List pagina cursos com filtro opcional por nome ou código.
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]Curso, int, error) {
	var (
		where string
		args  []any
	)
	if s := strings.TrimSpace(search); s != "" {
		where = ` WHERE nome ILIKE $1 OR cod ILIKE $1`
		args = append(args, "%"+s+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cursos`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+cursoColumns+` FROM cursos`+where+` ORDER BY nome LIMIT $%d OFFSET $%d`,
		len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	cursos := make([]Curso, 0)
	for rows.Next() {
		c, err := scanCurso(rows)
		if err != nil {
			return nil, 0, err
		}
		cursos = append(cursos, c)
	}
	return cursos, total, rows.Err()
}

func (r *Repository) ExistsCod(ctx context.Context, cod string, exceto uuid.UUID) (bool, error) {
	var existe bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM cursos WHERE cod = $1 AND id <> $2)`,
		cod, exceto).Scan(&existe)
	return existe, err
}

// CodigosComPrefixo devolve os códigos já usados com o prefixo informado,
// para que o gerador escolha o menor sufixo livre sem sondar o banco
// código a código.
func (r *Repository) CodigosComPrefixo(ctx context.Context, prefixo string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT cod FROM cursos WHERE cod LIKE $1 || '%'`, prefixo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codigos := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		codigos = append(codigos, c)
	}
	return codigos, rows.Err()
}

func (r *Repository) Create(ctx context.Context, cod, nome string, descricao *string) (Curso, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO cursos (cod, nome, descricao)
		 VALUES ($1, $2, $3)
		 RETURNING `+cursoColumns,
		cod, strings.TrimSpace(nome), descricao)
	c, err := scanCurso(row)
	if err != nil {
		return Curso{}, repo.MapPgError(err)
	}
	return c, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Curso, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE cursos SET
			cod = COALESCE($2, cod),
			nome = COALESCE($3, nome),
			descricao = COALESCE($4, descricao),
			ativo = COALESCE($5, ativo),
			atualizado_em = NOW()
		 WHERE id = $1
		 RETURNING `+cursoColumns,
		id, in.Cod, in.Nome, in.Descricao, in.Ativo)
	c, err := scanCurso(row)
	if err != nil {
		return Curso{}, repo.MapPgError(err)
	}
	return c, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cursos WHERE id = $1`, id)
	if err != nil {
		return repo.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func scanCurso(row pgx.Row) (Curso, error) {
	var c Curso
	err := row.Scan(&c.ID, &c.Cod, &c.Nome, &c.Descricao, &c.Ativo, &c.CriadoEm, &c.AtualizadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Curso{}, repo.ErrNotFound
	}
	return c, err
}
