package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/gestaoseminario/api/internal/permissao"
	"github.com/gestaoseminario/api/internal/repo"
)

var ErrCodigoPermissaoEmUso = errors.New("já existe uma permissão com este código")

type permissoesRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (repo.Permissao, error)
	List(ctx context.Context) ([]repo.Permissao, error)
	ExistsCodigo(ctx context.Context, codigo string, exceto uuid.UUID) (bool, error)
	Create(ctx context.Context, nome, codigo, modulo string, descricao *string) (repo.Permissao, error)
	Update(ctx context.Context, id uuid.UUID, input repo.UpdatePermissaoInput) (repo.Permissao, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PermissaoService gerencia o catálogo de permissões.
type PermissaoService struct {
	permissoes permissoesRepo
}

func NewPermissaoService(permissoes permissoesRepo) *PermissaoService {
	return &PermissaoService{permissoes: permissoes}
}

func (s *PermissaoService) List(ctx context.Context) ([]repo.Permissao, error) {
	return s.permissoes.List(ctx)
}

// ListPorModulo agrupa o catálogo pelos módulos da enumeração fixa.
func (s *PermissaoService) ListPorModulo(ctx context.Context) (map[string][]repo.Permissao, error) {
	todas, err := s.permissoes.List(ctx)
	if err != nil {
		return nil, err
	}
	porModulo := make(map[string][]repo.Permissao, len(permissao.Modulos()))
	for _, p := range todas {
		porModulo[p.Modulo] = append(porModulo[p.Modulo], p)
	}
	return porModulo, nil
}

func (s *PermissaoService) Get(ctx context.Context, id uuid.UUID) (repo.Permissao, error) {
	return s.permissoes.GetByID(ctx, id)
}

// CreatePermissaoInput é o payload de criação vindo do HTTP.
type CreatePermissaoInput struct {
	Nome      string  `json:"nome"`
	Codigo    string  `json:"codigo"`
	Modulo    string  `json:"modulo"`
	Descricao *string `json:"descricao"`
}

func (s *PermissaoService) Create(ctx context.Context, in CreatePermissaoInput) (repo.Permissao, error) {
	nome := strings.TrimSpace(in.Nome)
	codigo := strings.ToUpper(strings.TrimSpace(in.Codigo))
	modulo := strings.TrimSpace(in.Modulo)

	if nome == "" {
		return repo.Permissao{}, ValidationError("nome da permissão é obrigatório")
	}
	if codigo == "" {
		return repo.Permissao{}, ValidationError("código da permissão é obrigatório")
	}
	if !permissao.ModuloValido(modulo) {
		return repo.Permissao{}, ValidationError("módulo inválido")
	}

	emUso, err := s.permissoes.ExistsCodigo(ctx, codigo, uuid.Nil)
	if err != nil {
		return repo.Permissao{}, err
	}
	if emUso {
		return repo.Permissao{}, ErrCodigoPermissaoEmUso
	}

	p, err := s.permissoes.Create(ctx, nome, codigo, modulo, in.Descricao)
	if errors.Is(err, repo.ErrConflito) {
		return repo.Permissao{}, ErrCodigoPermissaoEmUso
	}
	return p, err
}

// UpdatePermissaoInput é o payload de atualização parcial vindo do HTTP.
type UpdatePermissaoInput struct {
	Nome      *string `json:"nome"`
	Codigo    *string `json:"codigo"`
	Modulo    *string `json:"modulo"`
	Descricao *string `json:"descricao"`
	Ativo     *bool   `json:"ativo"`
}

func (s *PermissaoService) Update(ctx context.Context, id uuid.UUID, in UpdatePermissaoInput) (repo.Permissao, error) {
	if in.Codigo != nil {
		codigo := strings.ToUpper(strings.TrimSpace(*in.Codigo))
		if codigo == "" {
			return repo.Permissao{}, ValidationError("código da permissão não pode ficar vazio")
		}
		emUso, err := s.permissoes.ExistsCodigo(ctx, codigo, id)
		if err != nil {
			return repo.Permissao{}, err
		}
		if emUso {
			return repo.Permissao{}, ErrCodigoPermissaoEmUso
		}
		in.Codigo = &codigo
	}
	if in.Modulo != nil && !permissao.ModuloValido(strings.TrimSpace(*in.Modulo)) {
		return repo.Permissao{}, ValidationError("módulo inválido")
	}

	p, err := s.permissoes.Update(ctx, id, repo.UpdatePermissaoInput{
		Nome:      in.Nome,
		Codigo:    in.Codigo,
		Modulo:    in.Modulo,
		Descricao: in.Descricao,
		Ativo:     in.Ativo,
	})
	if errors.Is(err, repo.ErrConflito) {
		return repo.Permissao{}, ErrCodigoPermissaoEmUso
	}
	return p, err
}

// Delete remove a permissão; o vínculo com perfis é protegido por chave
// estrangeira e vira conflito em vez de referência pendurada.
func (s *PermissaoService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.permissoes.Delete(ctx, id)
}
