package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/gestaoseminario/api/internal/repo"
)

var ErrNomePerfilEmUso = errors.New("já existe um perfil com este nome")

type perfisRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (repo.Perfil, error)
	GetComPermissoes(ctx context.Context, id uuid.UUID) (repo.PerfilComPermissoes, error)
	List(ctx context.Context) ([]repo.Perfil, error)
	ExistsNome(ctx context.Context, nome string, exceto uuid.UUID) (bool, error)
	Create(ctx context.Context, nome string, descricao *string, permissaoIDs []uuid.UUID) (repo.Perfil, error)
	Update(ctx context.Context, id uuid.UUID, input repo.UpdatePerfilInput) (repo.Perfil, error)
	AdicionarPermissoes(ctx context.Context, id uuid.UUID, permissaoIDs []uuid.UUID) error
	RemoverPermissoes(ctx context.Context, id uuid.UUID, permissaoIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PerfilService gerencia perfis e seus conjuntos de permissões.
type PerfilService struct {
	perfis perfisRepo
}

func NewPerfilService(perfis perfisRepo) *PerfilService {
	return &PerfilService{perfis: perfis}
}

func (s *PerfilService) List(ctx context.Context) ([]repo.Perfil, error) {
	return s.perfis.List(ctx)
}

func (s *PerfilService) Get(ctx context.Context, id uuid.UUID) (repo.PerfilComPermissoes, error) {
	return s.perfis.GetComPermissoes(ctx, id)
}

// CreatePerfilInput é o payload de criação vindo do HTTP.
type CreatePerfilInput struct {
	Nome       string      `json:"nome"`
	Descricao  *string     `json:"descricao"`
	Permissoes []uuid.UUID `json:"permissoes"`
}

func (s *PerfilService) Create(ctx context.Context, in CreatePerfilInput) (repo.Perfil, error) {
	nome := strings.TrimSpace(in.Nome)
	if nome == "" {
		return repo.Perfil{}, ValidationError("nome do perfil é obrigatório")
	}

	emUso, err := s.perfis.ExistsNome(ctx, nome, uuid.Nil)
	if err != nil {
		return repo.Perfil{}, err
	}
	if emUso {
		return repo.Perfil{}, ErrNomePerfilEmUso
	}

	p, err := s.perfis.Create(ctx, nome, in.Descricao, in.Permissoes)
	if errors.Is(err, repo.ErrConflito) {
		return repo.Perfil{}, ErrNomePerfilEmUso
	}
	return p, err
}

// UpdatePerfilInput é o payload de atualização parcial vindo do HTTP.
// Permissoes nil mantém o conjunto atual; vazio remove todas.
type UpdatePerfilInput struct {
	Nome       *string     `json:"nome"`
	Descricao  *string     `json:"descricao"`
	Ativo      *bool       `json:"ativo"`
	Permissoes []uuid.UUID `json:"permissoes"`
}

func (s *PerfilService) Update(ctx context.Context, id uuid.UUID, in UpdatePerfilInput) (repo.Perfil, error) {
	if in.Nome != nil {
		nome := strings.TrimSpace(*in.Nome)
		if nome == "" {
			return repo.Perfil{}, ValidationError("nome do perfil não pode ficar vazio")
		}
		emUso, err := s.perfis.ExistsNome(ctx, nome, id)
		if err != nil {
			return repo.Perfil{}, err
		}
		if emUso {
			return repo.Perfil{}, ErrNomePerfilEmUso
		}
		in.Nome = &nome
	}

	p, err := s.perfis.Update(ctx, id, repo.UpdatePerfilInput{
		Nome:       in.Nome,
		Descricao:  in.Descricao,
		Ativo:      in.Ativo,
		Permissoes: in.Permissoes,
	})
	if errors.Is(err, repo.ErrConflito) {
		return repo.Perfil{}, ErrNomePerfilEmUso
	}
	return p, err
}

func (s *PerfilService) AdicionarPermissoes(ctx context.Context, id uuid.UUID, permissaoIDs []uuid.UUID) (repo.PerfilComPermissoes, error) {
	if len(permissaoIDs) == 0 {
		return repo.PerfilComPermissoes{}, ValidationError("informe ao menos uma permissão")
	}
	if err := s.perfis.AdicionarPermissoes(ctx, id, permissaoIDs); err != nil {
		return repo.PerfilComPermissoes{}, err
	}
	return s.perfis.GetComPermissoes(ctx, id)
}

func (s *PerfilService) RemoverPermissoes(ctx context.Context, id uuid.UUID, permissaoIDs []uuid.UUID) (repo.PerfilComPermissoes, error) {
	if len(permissaoIDs) == 0 {
		return repo.PerfilComPermissoes{}, ValidationError("informe ao menos uma permissão")
	}
	if err := s.perfis.RemoverPermissoes(ctx, id, permissaoIDs); err != nil {
		return repo.PerfilComPermissoes{}, err
	}
	return s.perfis.GetComPermissoes(ctx, id)
}

func (s *PerfilService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.perfis.Delete(ctx, id)
}
