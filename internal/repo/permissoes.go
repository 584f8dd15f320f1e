package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PermissaoRepository provê acesso ao armazenamento de permissões.
type PermissaoRepository struct {
	pool *pgxpool.Pool
}

// NewPermissaoRepository cria um novo repositório de permissões.
func NewPermissaoRepository(pool *pgxpool.Pool) *PermissaoRepository {
	return &PermissaoRepository{pool: pool}
}

const (
	permissaoColumns         = `id, nome, codigo, modulo, descricao, ativo, criado_em, atualizado_em`
	permissaoColumnsPrefixed = `pe.id, pe.nome, pe.codigo, pe.modulo, pe.descricao, pe.ativo, pe.criado_em, pe.atualizado_em`
)

// GetByID busca permissão pelo identificador.
func (r *PermissaoRepository) GetByID(ctx context.Context, id uuid.UUID) (Permissao, error) {
	const query = `SELECT ` + permissaoColumns + ` FROM permissoes WHERE id = $1`
	return scanPermissao(r.pool.QueryRow(ctx, query, id))
}

// List devolve permissões ativas ordenadas por módulo e nome.
func (r *PermissaoRepository) List(ctx context.Context) ([]Permissao, error) {
	const query = `SELECT ` + permissaoColumns + ` FROM permissoes WHERE ativo ORDER BY modulo, nome`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissoes []Permissao
	for rows.Next() {
		p, err := scanPermissao(rows)
		if err != nil {
			return nil, err
		}
		permissoes = append(permissoes, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return permissoes, nil
}

// ListCodigos devolve apenas os códigos de permissões ativas.
func (r *PermissaoRepository) ListCodigos(ctx context.Context) ([]string, error) {
	const query = `SELECT codigo FROM permissoes WHERE ativo ORDER BY codigo`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codigos []string
	for rows.Next() {
		var codigo string
		if err := rows.Scan(&codigo); err != nil {
			return nil, err
		}
		codigos = append(codigos, codigo)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return codigos, nil
}

// ExistsCodigo verifica existência de código, opcionalmente excluindo um id.
func (r *PermissaoRepository) ExistsCodigo(ctx context.Context, codigo string, exceto uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM permissoes WHERE codigo = $1 AND id <> $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, normalizeCodigo(codigo), exceto).Scan(&exists)
	return exists, err
}

// Create insere uma nova permissão ativa.
func (r *PermissaoRepository) Create(ctx context.Context, nome, codigo, modulo string, descricao *string) (Permissao, error) {
	const query = `
        INSERT INTO permissoes (nome, codigo, modulo, descricao, ativo)
        VALUES ($1, $2, $3, $4, TRUE)
        RETURNING ` + permissaoColumns + `
    `
	row := r.pool.QueryRow(ctx, query, strings.TrimSpace(nome), normalizeCodigo(codigo), modulo, descricao)
	p, err := scanPermissao(row)
	if err != nil {
		return Permissao{}, MapPgError(err)
	}
	return p, nil
}

// UpdatePermissaoInput reúne campos para atualização; nil mantém o valor atual.
type UpdatePermissaoInput struct {
	Nome      *string
	Codigo    *string
	Modulo    *string
	Descricao *string
	Ativo     *bool
}

// Update aplica alterações parciais à permissão.
func (r *PermissaoRepository) Update(ctx context.Context, id uuid.UUID, input UpdatePermissaoInput) (Permissao, error) {
	const query = `
        UPDATE permissoes
        SET nome = COALESCE($2, nome),
            codigo = COALESCE($3, codigo),
            modulo = COALESCE($4, modulo),
            descricao = COALESCE($5, descricao),
            ativo = COALESCE($6, ativo),
            atualizado_em = now()
        WHERE id = $1
        RETURNING ` + permissaoColumns + `
    `
	var codigo *string
	if input.Codigo != nil {
		normalized := normalizeCodigo(*input.Codigo)
		codigo = &normalized
	}
	row := r.pool.QueryRow(ctx, query, id, input.Nome, codigo, input.Modulo, input.Descricao, input.Ativo)
	p, err := scanPermissao(row)
	if err != nil {
		return Permissao{}, MapPgError(err)
	}
	return p, nil
}

// Delete remove a permissão; perfis vinculados impedem a remoção.
func (r *PermissaoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM permissoes WHERE id = $1`, id)
	if err != nil {
		return MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizeCodigo(codigo string) string {
	return strings.ToUpper(strings.TrimSpace(codigo))
}

func scanPermissao(row pgx.Row) (Permissao, error) {
	var p Permissao
	err := row.Scan(&p.ID, &p.Nome, &p.Codigo, &p.Modulo, &p.Descricao, &p.Ativo, &p.CriadoEm, &p.AtualizadoEm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Permissao{}, ErrNotFound
		}
		return Permissao{}, err
	}
	return p, nil
}
