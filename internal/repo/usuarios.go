package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UsuarioRepository provê acesso ao armazenamento de usuários.
type UsuarioRepository struct {
	pool *pgxpool.Pool
}

// NewUsuarioRepository cria um novo repositório de usuários.
func NewUsuarioRepository(pool *pgxpool.Pool) *UsuarioRepository {
	return &UsuarioRepository{pool: pool}
}

const usuarioColumns = `id, nome, email, senha_hash, perfil_id, curso, ativo, ultimo_login, token_expiracao, criado_em, atualizado_em`

// GetByEmail busca usuário pelo email normalizado.
func (r *UsuarioRepository) GetByEmail(ctx context.Context, email string) (Usuario, error) {
	const query = `
        SELECT ` + usuarioColumns + `
        FROM usuarios
        WHERE email = $1
    `
	row := r.pool.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email)))
	return scanUsuario(row)
}

// GetByID busca usuário pelo identificador.
func (r *UsuarioRepository) GetByID(ctx context.Context, id uuid.UUID) (Usuario, error) {
	const query = `
        SELECT ` + usuarioColumns + `
        FROM usuarios
        WHERE id = $1
    `
	row := r.pool.QueryRow(ctx, query, id)
	return scanUsuario(row)
}

// GetAutenticado carrega usuário com perfil e permissões resolvidas em uma consulta.
func (r *UsuarioRepository) GetAutenticado(ctx context.Context, id uuid.UUID) (UsuarioAutenticado, error) {
	const query = `
        SELECT u.id, u.nome, u.email, u.ativo, u.token_expiracao,
               p.id, p.nome,
               COALESCE(array_agg(pe.codigo ORDER BY pe.codigo) FILTER (WHERE pe.id IS NOT NULL AND pe.ativo), '{}')
        FROM usuarios u
        JOIN perfis p ON p.id = u.perfil_id
        LEFT JOIN perfis_permissoes pp ON pp.perfil_id = p.id
        LEFT JOIN permissoes pe ON pe.id = pp.permissao_id
        WHERE u.id = $1
        GROUP BY u.id, p.id
    `

	var ident UsuarioAutenticado
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&ident.ID,
		&ident.Nome,
		&ident.Email,
		&ident.Ativo,
		&ident.TokenExpiracao,
		&ident.PerfilID,
		&ident.PerfilNome,
		&ident.Permissoes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UsuarioAutenticado{}, ErrNotFound
		}
		return UsuarioAutenticado{}, err
	}
	return ident, nil
}

// List devolve usuários ativos ordenados por nome, com paginação.
func (r *UsuarioRepository) List(ctx context.Context, search string, limit, offset int) ([]Usuario, int, error) {
	where := `WHERE ativo`
	args := []any{}
	if s := strings.TrimSpace(search); s != "" {
		where += ` AND (nome ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')`
		args = append(args, s)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM usuarios `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
        SELECT `+usuarioColumns+`
        FROM usuarios %s
        ORDER BY nome
        LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var usuarios []Usuario
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, 0, err
		}
		usuarios = append(usuarios, u)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}
	return usuarios, total, nil
}

// ExistsEmail verifica existência de email, opcionalmente excluindo um id.
func (r *UsuarioRepository) ExistsEmail(ctx context.Context, email string, exceto uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM usuarios WHERE email = $1 AND id <> $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email)), exceto).Scan(&exists)
	return exists, err
}

// CreateUsuarioInput reúne campos para criação.
type CreateUsuarioInput struct {
	Nome      string
	Email     string
	SenhaHash string
	PerfilID  uuid.UUID
	Curso     *string
}

// Create insere um novo usuário ativo.
func (r *UsuarioRepository) Create(ctx context.Context, input CreateUsuarioInput) (Usuario, error) {
	const query = `
        INSERT INTO usuarios (nome, email, senha_hash, perfil_id, curso, ativo)
        VALUES ($1, $2, $3, $4, $5, TRUE)
        RETURNING ` + usuarioColumns + `
    `
	row := r.pool.QueryRow(ctx, query,
		strings.TrimSpace(input.Nome),
		strings.ToLower(strings.TrimSpace(input.Email)),
		input.SenhaHash,
		input.PerfilID,
		input.Curso,
	)
	u, err := scanUsuario(row)
	if err != nil {
		return Usuario{}, MapPgError(err)
	}
	return u, nil
}

// UpdateUsuarioInput reúne campos para atualização; nil mantém o valor atual.
type UpdateUsuarioInput struct {
	Nome     *string
	Email    *string
	PerfilID *uuid.UUID
	Curso    *string
	Ativo    *bool
}

// Update aplica alterações parciais ao usuário.
func (r *UsuarioRepository) Update(ctx context.Context, id uuid.UUID, input UpdateUsuarioInput) (Usuario, error) {
	const query = `
        UPDATE usuarios
        SET nome = COALESCE($2, nome),
            email = COALESCE($3, email),
            perfil_id = COALESCE($4, perfil_id),
            curso = COALESCE($5, curso),
            ativo = COALESCE($6, ativo),
            atualizado_em = now()
        WHERE id = $1
        RETURNING ` + usuarioColumns + `
    `
	var email *string
	if input.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*input.Email))
		email = &normalized
	}
	row := r.pool.QueryRow(ctx, query, id, input.Nome, email, input.PerfilID, input.Curso, input.Ativo)
	u, err := scanUsuario(row)
	if err != nil {
		return Usuario{}, MapPgError(err)
	}
	return u, nil
}

// UpdateSenhaHash grava um novo hash de senha.
func (r *UsuarioRepository) UpdateSenhaHash(ctx context.Context, id uuid.UUID, senhaHash string) error {
	const query = `UPDATE usuarios SET senha_hash = $2, atualizado_em = now() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, senhaHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Desativar marca o usuário como inativo (exclusão lógica).
func (r *UsuarioRepository) Desativar(ctx context.Context, id uuid.UUID) (Usuario, error) {
	const query = `
        UPDATE usuarios
        SET ativo = FALSE, atualizado_em = now()
        WHERE id = $1
        RETURNING ` + usuarioColumns + `
    `
	return scanUsuario(r.pool.QueryRow(ctx, query, id))
}

// RegistrarLogin grava último login e a nova janela de validade do token.
func (r *UsuarioRepository) RegistrarLogin(ctx context.Context, id uuid.UUID, momento, expiracao time.Time) error {
	const query = `
        UPDATE usuarios
        SET ultimo_login = $2, token_expiracao = $3, atualizado_em = now()
        WHERE id = $1
    `
	tag, err := r.pool.Exec(ctx, query, id, momento, expiracao)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ExpirarToken antecipa a expiração da sessão para o passado (logout).
func (r *UsuarioRepository) ExpirarToken(ctx context.Context, id uuid.UUID, momento time.Time) error {
	const query = `UPDATE usuarios SET token_expiracao = $2, atualizado_em = now() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, momento)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUsuario(row pgx.Row) (Usuario, error) {
	var u Usuario
	err := row.Scan(
		&u.ID,
		&u.Nome,
		&u.Email,
		&u.SenhaHash,
		&u.PerfilID,
		&u.Curso,
		&u.Ativo,
		&u.UltimoLogin,
		&u.TokenExpiracao,
		&u.CriadoEm,
		&u.AtualizadoEm,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Usuario{}, ErrNotFound
		}
		return Usuario{}, err
	}
	return u, nil
}
