package local

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

const localColumns = `id, cod, nome, tipo_local, capacidade, descricao, ativo, criado_em, atualizado_em`

// Repository acessa a tabela locais.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Local, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+localColumns+` FROM locais WHERE id = $1`, id)
	return scanLocal(row)
}

// List pagina locais aplicando os filtros informados. Eventos são casados
// pelo nome do local, que é como a agenda os referencia.
func (r *Repository) List(ctx context.Context, f ListFilter, limit, offset int) ([]Local, int, error) {
	conds := make([]string, 0, 4)
	args := make([]any, 0, 6)

	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		conds = append(conds, fmt.Sprintf("(nome ILIKE $%d OR cod ILIKE $%d)", len(args), len(args)))
	}
	if t := strings.TrimSpace(f.TipoLocal); t != "" {
		args = append(args, t)
		conds = append(conds, fmt.Sprintf("tipo_local = $%d", len(args)))
	}
	if f.CapacidadeMin > 0 {
		args = append(args, f.CapacidadeMin)
		conds = append(conds, fmt.Sprintf("capacidade >= $%d", len(args)))
	}
	if f.ComEventos {
		conds = append(conds, "EXISTS (SELECT 1 FROM trabalhos t WHERE t.sala = locais.nome)")
	}

	var where string
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM locais`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+localColumns+` FROM locais`+where+` ORDER BY nome LIMIT $%d OFFSET $%d`,
		len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	locais := make([]Local, 0)
	for rows.Next() {
		l, err := scanLocal(rows)
		if err != nil {
			return nil, 0, err
		}
		locais = append(locais, l)
	}
	return locais, total, rows.Err()
}

// ListComEventos devolve os locais que têm ao menos um evento, com o total
// de eventos de cada um.
func (r *Repository) ListComEventos(ctx context.Context) ([]LocalComEventos, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT l.id, l.cod, l.nome, l.tipo_local, l.capacidade, l.descricao, l.ativo,
		        l.criado_em, l.atualizado_em, COUNT(t.id) AS total_eventos
		   FROM locais l
		   JOIN trabalhos t ON t.sala = l.nome
		  GROUP BY l.id
		  ORDER BY total_eventos DESC, l.nome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LocalComEventos, 0)
	for rows.Next() {
		var le LocalComEventos
		if err := rows.Scan(&le.ID, &le.Cod, &le.Nome, &le.TipoLocal, &le.Capacidade,
			&le.Descricao, &le.Ativo, &le.CriadoEm, &le.AtualizadoEm, &le.TotalEventos); err != nil {
			return nil, err
		}
		out = append(out, le)
	}
	return out, rows.Err()
}

func (r *Repository) ExistsCod(ctx context.Context, cod string, exceto uuid.UUID) (bool, error) {
	var existe bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM locais WHERE cod = $1 AND id <> $2)`,
		cod, exceto).Scan(&existe)
	return existe, err
}

func (r *Repository) Create(ctx context.Context, in CreateInput, cod string) (Local, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO locais (cod, nome, tipo_local, capacidade, descricao)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+localColumns,
		cod, strings.TrimSpace(in.Nome), in.TipoLocal, in.Capacidade, in.Descricao)
	l, err := scanLocal(row)
	if err != nil {
		return Local{}, repo.MapPgError(err)
	}
	return l, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Local, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE locais SET
			cod = COALESCE($2, cod),
			nome = COALESCE($3, nome),
			tipo_local = COALESCE($4, tipo_local),
			capacidade = COALESCE($5, capacidade),
			descricao = COALESCE($6, descricao),
			ativo = COALESCE($7, ativo),
			atualizado_em = NOW()
		 WHERE id = $1
		 RETURNING `+localColumns,
		id, in.Cod, in.Nome, in.TipoLocal, in.Capacidade, in.Descricao, in.Ativo)
	l, err := scanLocal(row)
	if err != nil {
		return Local{}, repo.MapPgError(err)
	}
	return l, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM locais WHERE id = $1`, id)
	if err != nil {
		return repo.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func scanLocal(row pgx.Row) (Local, error) {
	var l Local
	err := row.Scan(&l.ID, &l.Cod, &l.Nome, &l.TipoLocal, &l.Capacidade, &l.Descricao,
		&l.Ativo, &l.CriadoEm, &l.AtualizadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Local{}, repo.ErrNotFound
	}
	return l, err
}
