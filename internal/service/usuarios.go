package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/gestaoseminario/api/internal/auth"
	"github.com/gestaoseminario/api/internal/repo"
	"github.com/gestaoseminario/api/internal/util"
)

var (
	ErrEmailEmUso        = errors.New("já existe um usuário com este e-mail")
	ErrPerfilInexistente = errors.New("perfil informado não existe")
	ErrAutoDesativacao   = errors.New("não é possível desativar a própria conta")
	ErrSenhaAtual        = errors.New("senha atual incorreta")
)

// ValidationError marca falhas de entrada que viram resposta 400.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

type usuariosRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (repo.Usuario, error)
	List(ctx context.Context, search string, limit, offset int) ([]repo.Usuario, int, error)
	ExistsEmail(ctx context.Context, email string, exceto uuid.UUID) (bool, error)
	Create(ctx context.Context, input repo.CreateUsuarioInput) (repo.Usuario, error)
	Update(ctx context.Context, id uuid.UUID, input repo.UpdateUsuarioInput) (repo.Usuario, error)
	UpdateSenhaHash(ctx context.Context, id uuid.UUID, senhaHash string) error
	Desativar(ctx context.Context, id uuid.UUID) (repo.Usuario, error)
}

type perfisLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (repo.Perfil, error)
}

// UsuarioService aplica as regras de contas: unicidade de e-mail, perfil
// existente, troca de senha e desligamento lógico.
type UsuarioService struct {
	usuarios usuariosRepo
	perfis   perfisLookup
}

func NewUsuarioService(usuarios usuariosRepo, perfis perfisLookup) *UsuarioService {
	return &UsuarioService{usuarios: usuarios, perfis: perfis}
}

func (s *UsuarioService) Get(ctx context.Context, id uuid.UUID) (repo.Usuario, error) {
	return s.usuarios.GetByID(ctx, id)
}

func (s *UsuarioService) List(ctx context.Context, search string, page, perPage int) ([]repo.Usuario, int, error) {
	return s.usuarios.List(ctx, search, perPage, (page-1)*perPage)
}

// CreateUsuarioInput é o payload de criação vindo do HTTP.
type CreateUsuarioInput struct {
	Nome     string    `json:"nome"`
	Email    string    `json:"email"`
	Senha    string    `json:"senha"`
	PerfilID uuid.UUID `json:"perfilId"`
	Curso    *string   `json:"curso"`
}

func (s *UsuarioService) Create(ctx context.Context, in CreateUsuarioInput) (repo.Usuario, error) {
	if err := util.ValidateNome(in.Nome); err != nil {
		return repo.Usuario{}, ValidationError(err.Error())
	}
	if err := util.ValidateEmail(in.Email); err != nil {
		return repo.Usuario{}, ValidationError(err.Error())
	}
	if err := util.ValidatePassword(in.Senha); err != nil {
		return repo.Usuario{}, ValidationError(err.Error())
	}
	if in.PerfilID == uuid.Nil {
		return repo.Usuario{}, ValidationError("perfil é obrigatório")
	}

	if _, err := s.perfis.GetByID(ctx, in.PerfilID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return repo.Usuario{}, ErrPerfilInexistente
		}
		return repo.Usuario{}, err
	}

	emUso, err := s.usuarios.ExistsEmail(ctx, in.Email, uuid.Nil)
	if err != nil {
		return repo.Usuario{}, err
	}
	if emUso {
		return repo.Usuario{}, ErrEmailEmUso
	}

	hash, err := auth.Hash(in.Senha)
	if err != nil {
		return repo.Usuario{}, err
	}

	u, err := s.usuarios.Create(ctx, repo.CreateUsuarioInput{
		Nome:      in.Nome,
		Email:     in.Email,
		SenhaHash: hash,
		PerfilID:  in.PerfilID,
		Curso:     in.Curso,
	})
	if errors.Is(err, repo.ErrConflito) {
		return repo.Usuario{}, ErrEmailEmUso
	}
	return u, err
}

// UpdateUsuarioInput é o payload de atualização parcial vindo do HTTP.
type UpdateUsuarioInput struct {
	Nome     *string    `json:"nome"`
	Email    *string    `json:"email"`
	PerfilID *uuid.UUID `json:"perfilId"`
	Curso    *string    `json:"curso"`
	Ativo    *bool      `json:"ativo"`
}

func (s *UsuarioService) Update(ctx context.Context, id uuid.UUID, in UpdateUsuarioInput, executorID uuid.UUID) (repo.Usuario, error) {
	if in.Nome != nil {
		if err := util.ValidateNome(*in.Nome); err != nil {
			return repo.Usuario{}, ValidationError(err.Error())
		}
	}
	if in.Email != nil {
		if err := util.ValidateEmail(*in.Email); err != nil {
			return repo.Usuario{}, ValidationError(err.Error())
		}
		emUso, err := s.usuarios.ExistsEmail(ctx, *in.Email, id)
		if err != nil {
			return repo.Usuario{}, err
		}
		if emUso {
			return repo.Usuario{}, ErrEmailEmUso
		}
	}
	if in.PerfilID != nil {
		if _, err := s.perfis.GetByID(ctx, *in.PerfilID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return repo.Usuario{}, ErrPerfilInexistente
			}
			return repo.Usuario{}, err
		}
	}
	if in.Ativo != nil && !*in.Ativo && id == executorID {
		return repo.Usuario{}, ErrAutoDesativacao
	}

	u, err := s.usuarios.Update(ctx, id, repo.UpdateUsuarioInput{
		Nome:     in.Nome,
		Email:    in.Email,
		PerfilID: in.PerfilID,
		Curso:    in.Curso,
		Ativo:    in.Ativo,
	})
	if errors.Is(err, repo.ErrConflito) {
		return repo.Usuario{}, ErrEmailEmUso
	}
	return u, err
}

// AlterarSenha troca a senha do usuário. Quando senhaAtual vem preenchida
// ela é conferida antes; administradores redefinem sem informá-la.
func (s *UsuarioService) AlterarSenha(ctx context.Context, id uuid.UUID, senhaAtual *string, novaSenha string) error {
	if err := util.ValidatePassword(novaSenha); err != nil {
		return ValidationError(err.Error())
	}

	u, err := s.usuarios.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if senhaAtual != nil && *senhaAtual != "" {
		ok, err := auth.Verify(*senhaAtual, u.SenhaHash)
		if err != nil {
			return err
		}
		if !ok {
			return ErrSenhaAtual
		}
	}

	hash, err := auth.Hash(novaSenha)
	if err != nil {
		return err
	}
	return s.usuarios.UpdateSenhaHash(ctx, id, hash)
}

// Desativar faz o desligamento lógico da conta; o registro permanece
// consultável por id, mas o login passa a ser recusado.
func (s *UsuarioService) Desativar(ctx context.Context, id, executorID uuid.UUID) (repo.Usuario, error) {
	if id == executorID {
		return repo.Usuario{}, ErrAutoDesativacao
	}
	return s.usuarios.Desativar(ctx, id)
}
