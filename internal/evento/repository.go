package evento

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestaoseminario/api/internal/db"
	"github.com/gestaoseminario/api/internal/repo"
)

// A tabela chama-se trabalhos por herança do sistema anterior; o restante
// do código fala apenas em eventos.
const eventoSelect = `
	SELECT t.id, t.cod, to_char(t.data, 'YYYY-MM-DD'), to_char(t.hora, 'HH24:MI'),
	       t.duracao, t.tema, t.autores, t.palestrante, t.orientador, t.sala,
	       t.tipo_evento, t.curso_id,
	       COALESCE(array_agg(tc.curso_id ORDER BY tc.curso_id)
	                FILTER (WHERE tc.curso_id IS NOT NULL), '{}'),
	       t.resumo, t.criado_em, t.atualizado_em
	  FROM trabalhos t
	  LEFT JOIN trabalhos_cursos tc ON tc.trabalho_id = t.id`

// Repository acessa a tabela trabalhos e sua junção com cursos.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Evento, error) {
	row := r.pool.QueryRow(ctx, eventoSelect+` WHERE t.id = $1 GROUP BY t.id`, id)
	return scanEvento(row)
}

// List pagina eventos aplicando os filtros informados.
func (r *Repository) List(ctx context.Context, f ListFilter, limit, offset int) ([]Evento, int, error) {
	conds := make([]string, 0, 5)
	args := make([]any, 0, 7)

	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(t.tema ILIKE $%d OR t.cod ILIKE $%d OR t.sala ILIKE $%d OR t.palestrante ILIKE $%d)", n, n, n, n))
	}
	if t := strings.TrimSpace(f.TipoEvento); t != "" {
		args = append(args, t)
		conds = append(conds, fmt.Sprintf("t.tipo_evento = $%d", len(args)))
	}
	if d := strings.TrimSpace(f.Data); d != "" {
		args = append(args, d)
		conds = append(conds, fmt.Sprintf("t.data = $%d::date", len(args)))
	}
	if l := strings.TrimSpace(f.Local); l != "" {
		args = append(args, l)
		conds = append(conds, fmt.Sprintf("t.sala = $%d", len(args)))
	}
	if f.Curso != uuid.Nil {
		args = append(args, f.Curso)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM trabalhos_cursos c WHERE c.trabalho_id = t.id AND c.curso_id = $%d)", len(args)))
	}

	var where string
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM trabalhos t`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(eventoSelect+where+` GROUP BY t.id ORDER BY t.data, t.hora LIMIT $%d OFFSET $%d`,
		len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	eventos := make([]Evento, 0)
	for rows.Next() {
		e, err := scanEvento(rows)
		if err != nil {
			return nil, 0, err
		}
		eventos = append(eventos, e)
	}
	return eventos, total, rows.Err()
}

// Cronograma devolve os eventos de um dia em ordem de horário.
func (r *Repository) Cronograma(ctx context.Context, data string) ([]Evento, error) {
	rows, err := r.pool.Query(ctx,
		eventoSelect+` WHERE t.data = $1::date GROUP BY t.id ORDER BY t.hora, t.sala`, data)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	eventos := make([]Evento, 0)
	for rows.Next() {
		e, err := scanEvento(rows)
		if err != nil {
			return nil, err
		}
		eventos = append(eventos, e)
	}
	return eventos, rows.Err()
}

// Estatisticas totaliza a agenda por tipo e por dia.
func (r *Repository) Estatisticas(ctx context.Context) (Estatisticas, error) {
	var est Estatisticas
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM trabalhos`).Scan(&est.Total); err != nil {
		return Estatisticas{}, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT tipo_evento, COUNT(*) FROM trabalhos GROUP BY tipo_evento ORDER BY COUNT(*) DESC`)
	if err != nil {
		return Estatisticas{}, err
	}
	defer rows.Close()
	est.PorTipo = make([]ContagemPorTipo, 0)
	for rows.Next() {
		var c ContagemPorTipo
		if err := rows.Scan(&c.TipoEvento, &c.Total); err != nil {
			return Estatisticas{}, err
		}
		est.PorTipo = append(est.PorTipo, c)
	}
	if err := rows.Err(); err != nil {
		return Estatisticas{}, err
	}

	rows, err = r.pool.Query(ctx,
		`SELECT to_char(data, 'YYYY-MM-DD'), COUNT(*) FROM trabalhos GROUP BY data ORDER BY data`)
	if err != nil {
		return Estatisticas{}, err
	}
	defer rows.Close()
	est.PorData = make([]ContagemPorData, 0)
	for rows.Next() {
		var c ContagemPorData
		if err := rows.Scan(&c.Data, &c.Total); err != nil {
			return Estatisticas{}, err
		}
		est.PorData = append(est.PorData, c)
	}
	return est, rows.Err()
}

func (r *Repository) ExistsCod(ctx context.Context, cod string, exceto uuid.UUID) (bool, error) {
	var existe bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM trabalhos WHERE cod = $1 AND id <> $2)`,
		cod, exceto).Scan(&existe)
	return existe, err
}

// MaxSufixo devolve o maior sufixo numérico já usado para o prefixo, em
// valor numérico e não lexicográfico, para a sequência nunca regredir.
func (r *Repository) MaxSufixo(ctx context.Context, prefixo string) (int, error) {
	var max int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX((substring(cod FROM '[0-9]+$'))::int), 0)
		   FROM trabalhos WHERE cod LIKE $1 || '%'`, prefixo).Scan(&max)
	return max, err
}

// ExisteConflito informa se outro evento ocupa a mesma sala no mesmo dia e
// horário.
func (r *Repository) ExisteConflito(ctx context.Context, sala, data, hora string, exceto uuid.UUID) (bool, error) {
	var existe bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM trabalhos
			 WHERE sala = $1 AND data = $2::date AND hora = $3::time AND id <> $4)`,
		sala, data, hora, exceto).Scan(&existe)
	return existe, err
}

// Create insere o evento e os vínculos de curso na mesma transação.
func (r *Repository) Create(ctx context.Context, e Evento) (Evento, error) {
	err := db.WithTx(ctx, r.pool, func(pctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(pctx,
			`INSERT INTO trabalhos
				(cod, data, hora, duracao, tema, autores, palestrante, orientador,
				 sala, tipo_evento, curso_id, resumo)
			 VALUES ($1, $2::date, $3::time, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 RETURNING id, criado_em`,
			e.Cod, e.Data, e.Hora, e.Duracao, e.Tema, e.Autores, e.Palestrante,
			e.Orientador, e.Sala, e.TipoEvento, e.CursoID, e.Resumo).
			Scan(&e.ID, &e.CriadoEm)
		if err != nil {
			return err
		}
		return vincularCursos(pctx, tx, e.ID, e.Cursos)
	})
	if err != nil {
		return Evento{}, repo.MapPgError(err)
	}
	return e, nil
}

// Update substitui o registro e refaz os vínculos de curso na mesma
// transação. O código nunca muda após a criação.
func (r *Repository) Update(ctx context.Context, e Evento) (Evento, error) {
	err := db.WithTx(ctx, r.pool, func(pctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(pctx,
			`UPDATE trabalhos SET
				data = $2::date, hora = $3::time, duracao = $4, tema = $5,
				autores = $6, palestrante = $7, orientador = $8, sala = $9,
				tipo_evento = $10, curso_id = $11, resumo = $12,
				atualizado_em = NOW()
			 WHERE id = $1`,
			e.ID, e.Data, e.Hora, e.Duracao, e.Tema, e.Autores, e.Palestrante,
			e.Orientador, e.Sala, e.TipoEvento, e.CursoID, e.Resumo)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return repo.ErrNotFound
		}
		if _, err := tx.Exec(pctx,
			`DELETE FROM trabalhos_cursos WHERE trabalho_id = $1`, e.ID); err != nil {
			return err
		}
		return vincularCursos(pctx, tx, e.ID, e.Cursos)
	})
	if err != nil {
		return Evento{}, repo.MapPgError(err)
	}
	return r.GetByID(ctx, e.ID)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM trabalhos WHERE id = $1`, id)
	if err != nil {
		return repo.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func vincularCursos(ctx context.Context, tx pgx.Tx, trabalhoID uuid.UUID, cursos []uuid.UUID) error {
	for _, cursoID := range cursos {
		if _, err := tx.Exec(ctx,
			`INSERT INTO trabalhos_cursos (trabalho_id, curso_id)
			 VALUES ($1, $2) ON CONFLICT DO NOTHING`, trabalhoID, cursoID); err != nil {
			return err
		}
	}
	return nil
}

func scanEvento(row pgx.Row) (Evento, error) {
	var e Evento
	err := row.Scan(&e.ID, &e.Cod, &e.Data, &e.Hora, &e.Duracao, &e.Tema, &e.Autores,
		&e.Palestrante, &e.Orientador, &e.Sala, &e.TipoEvento, &e.CursoID, &e.Cursos,
		&e.Resumo, &e.CriadoEm, &e.AtualizadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Evento{}, repo.ErrNotFound
	}
	return e, err
}
