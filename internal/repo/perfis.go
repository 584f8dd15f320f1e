package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestaoseminario/api/internal/db"
)

// PerfilRepository provê acesso ao armazenamento de perfis.
type PerfilRepository struct {
	pool *pgxpool.Pool
}

// NewPerfilRepository cria um novo repositório de perfis.
func NewPerfilRepository(pool *pgxpool.Pool) *PerfilRepository {
	return &PerfilRepository{pool: pool}
}

const perfilColumns = `id, nome, descricao, ativo, criado_em, atualizado_em`

// GetByID busca perfil pelo identificador.
func (r *PerfilRepository) GetByID(ctx context.Context, id uuid.UUID) (Perfil, error) {
	const query = `SELECT ` + perfilColumns + ` FROM perfis WHERE id = $1`
	return scanPerfil(r.pool.QueryRow(ctx, query, id))
}

// GetComPermissoes busca perfil com as permissões resolvidas.
func (r *PerfilRepository) GetComPermissoes(ctx context.Context, id uuid.UUID) (PerfilComPermissoes, error) {
	perfil, err := r.GetByID(ctx, id)
	if err != nil {
		return PerfilComPermissoes{}, err
	}

	const query = `
        SELECT ` + permissaoColumnsPrefixed + `
        FROM permissoes pe
        JOIN perfis_permissoes pp ON pp.permissao_id = pe.id
        WHERE pp.perfil_id = $1
        ORDER BY pe.modulo, pe.nome
    `
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return PerfilComPermissoes{}, err
	}
	defer rows.Close()

	result := PerfilComPermissoes{Perfil: perfil}
	for rows.Next() {
		p, err := scanPermissao(rows)
		if err != nil {
			return PerfilComPermissoes{}, err
		}
		result.Permissoes = append(result.Permissoes, p)
	}
	if rows.Err() != nil {
		return PerfilComPermissoes{}, rows.Err()
	}
	return result, nil
}

// List devolve perfis ativos ordenados por nome.
func (r *PerfilRepository) List(ctx context.Context) ([]Perfil, error) {
	const query = `SELECT ` + perfilColumns + ` FROM perfis WHERE ativo ORDER BY nome`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perfis []Perfil
	for rows.Next() {
		p, err := scanPerfil(rows)
		if err != nil {
			return nil, err
		}
		perfis = append(perfis, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return perfis, nil
}

// ExistsNome verifica existência de nome, opcionalmente excluindo um id.
func (r *PerfilRepository) ExistsNome(ctx context.Context, nome string, exceto uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM perfis WHERE nome = $1 AND id <> $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, strings.TrimSpace(nome), exceto).Scan(&exists)
	return exists, err
}

// Create insere perfil e vincula o conjunto inicial de permissões.
func (r *PerfilRepository) Create(ctx context.Context, nome string, descricao *string, permissaoIDs []uuid.UUID) (Perfil, error) {
	var perfil Perfil
	err := db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		const query = `
            INSERT INTO perfis (nome, descricao, ativo)
            VALUES ($1, $2, TRUE)
            RETURNING ` + perfilColumns + `
        `
		p, err := scanPerfil(tx.QueryRow(ctx, query, strings.TrimSpace(nome), descricao))
		if err != nil {
			return MapPgError(err)
		}
		perfil = p
		return vincularPermissoes(ctx, tx, perfil.ID, permissaoIDs)
	})
	if err != nil {
		return Perfil{}, err
	}
	return perfil, nil
}

// UpdatePerfilInput reúne campos para atualização; nil mantém o valor atual.
type UpdatePerfilInput struct {
	Nome       *string
	Descricao  *string
	Ativo      *bool
	Permissoes []uuid.UUID // nil mantém o conjunto atual; vazio remove todas
}

// Update aplica alterações ao perfil e, quando fornecido, substitui o conjunto de permissões.
func (r *PerfilRepository) Update(ctx context.Context, id uuid.UUID, input UpdatePerfilInput) (Perfil, error) {
	var perfil Perfil
	err := db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		const query = `
            UPDATE perfis
            SET nome = COALESCE($2, nome),
                descricao = COALESCE($3, descricao),
                ativo = COALESCE($4, ativo),
                atualizado_em = now()
            WHERE id = $1
            RETURNING ` + perfilColumns + `
        `
		p, err := scanPerfil(tx.QueryRow(ctx, query, id, input.Nome, input.Descricao, input.Ativo))
		if err != nil {
			return MapPgError(err)
		}
		perfil = p

		if input.Permissoes == nil {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM perfis_permissoes WHERE perfil_id = $1`, id); err != nil {
			return err
		}
		return vincularPermissoes(ctx, tx, id, input.Permissoes)
	})
	if err != nil {
		return Perfil{}, err
	}
	return perfil, nil
}

// AdicionarPermissoes acrescenta permissões ao perfil sem duplicar vínculos.
func (r *PerfilRepository) AdicionarPermissoes(ctx context.Context, id uuid.UUID, permissaoIDs []uuid.UUID) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		return vincularPermissoes(ctx, tx, id, permissaoIDs)
	})
}

// RemoverPermissoes desvincula permissões do perfil.
func (r *PerfilRepository) RemoverPermissoes(ctx context.Context, id uuid.UUID, permissaoIDs []uuid.UUID) error {
	const query = `DELETE FROM perfis_permissoes WHERE perfil_id = $1 AND permissao_id = ANY($2)`
	_, err := r.pool.Exec(ctx, query, id, permissaoIDs)
	return err
}

// Delete remove o perfil; usuários vinculados impedem a remoção.
func (r *PerfilRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM perfis WHERE id = $1`, id)
	if err != nil {
		return MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func vincularPermissoes(ctx context.Context, tx pgx.Tx, perfilID uuid.UUID, permissaoIDs []uuid.UUID) error {
	for _, permissaoID := range permissaoIDs {
		const query = `
            INSERT INTO perfis_permissoes (perfil_id, permissao_id)
            VALUES ($1, $2)
            ON CONFLICT DO NOTHING
        `
		if _, err := tx.Exec(ctx, query, perfilID, permissaoID); err != nil {
			return MapPgError(err)
		}
	}
	return nil
}

func scanPerfil(row pgx.Row) (Perfil, error) {
	var p Perfil
	err := row.Scan(&p.ID, &p.Nome, &p.Descricao, &p.Ativo, &p.CriadoEm, &p.AtualizadoEm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Perfil{}, ErrNotFound
		}
		return Perfil{}, err
	}
	return p, nil
}
