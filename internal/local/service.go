package local

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/gestaoseminario/api/internal/repo"
)

// ValidationError marca falhas de entrada que viram resposta 400.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

var (
	ErrCodigoEmUso      = errors.New("já existe um local com este código")
	ErrCodigosEsgotados = errors.New("não foi possível gerar um código livre para o local")
)

// prefixos de código por tipo; o mapa também é a enumeração aceita na
// validação. No gerador avulso, tipos fora da lista caem em LOC.
var prefixoPorTipo = map[string]string{
	TipoSalaDeAula:  "SA",
	TipoBiblioteca:  "BIB",
	TipoLaboratorio: "LAB",
	TipoAuditorio:   "AUD",
	TipoAnfiteatro:  "ANF",
	TipoPatio:       "PAT",
	TipoQuadra:      "QUA",
	TipoEspaco:      "ESP",
}

const maxTentativasCodigo = 100

type repositorio interface {
	GetByID(ctx context.Context, id uuid.UUID) (Local, error)
	List(ctx context.Context, f ListFilter, limit, offset int) ([]Local, int, error)
	ListComEventos(ctx context.Context) ([]LocalComEventos, error)
	ExistsCod(ctx context.Context, cod string, exceto uuid.UUID) (bool, error)
	Create(ctx context.Context, in CreateInput, cod string) (Local, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Local, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service aplica as regras de negócio de locais, incluindo a geração do
// código com sufixo aleatório.
type Service struct {
	repo repositorio

	// sorteioSufixo devolve um sufixo entre 0 e 999; substituível em teste.
	sorteioSufixo func() int
}

func NewService(r repositorio) *Service {
	return &Service{
		repo:          r,
		sorteioSufixo: func() int { return rand.IntN(1000) },
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Local, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter, page, perPage int) ([]Local, int, error) {
	return s.repo.List(ctx, f, perPage, (page-1)*perPage)
}

func (s *Service) ListComEventos(ctx context.Context) ([]LocalComEventos, error) {
	return s.repo.ListComEventos(ctx)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Local, error) {
	in.Nome = strings.TrimSpace(in.Nome)
	in.TipoLocal = strings.TrimSpace(in.TipoLocal)
	if err := validar(in.Nome, in.TipoLocal, in.Capacidade); err != nil {
		return Local{}, err
	}

	var cod string
	if in.Cod != nil && strings.TrimSpace(*in.Cod) != "" {
		cod = strings.ToUpper(strings.TrimSpace(*in.Cod))
		emUso, err := s.repo.ExistsCod(ctx, cod, uuid.Nil)
		if err != nil {
			return Local{}, err
		}
		if emUso {
			return Local{}, ErrCodigoEmUso
		}
	} else {
		var err error
		cod, err = s.GerarCodigo(ctx, in.TipoLocal)
		if err != nil {
			return Local{}, err
		}
	}

	l, err := s.repo.Create(ctx, in, cod)
	if errors.Is(err, repo.ErrConflito) {
		return Local{}, ErrCodigoEmUso
	}
	return l, err
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Local, error) {
	atual, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Local{}, err
	}

	nome := atual.Nome
	if in.Nome != nil {
		nome = strings.TrimSpace(*in.Nome)
		in.Nome = &nome
	}
	tipo := atual.TipoLocal
	if in.TipoLocal != nil {
		tipo = strings.TrimSpace(*in.TipoLocal)
		in.TipoLocal = &tipo
	}
	capacidade := atual.Capacidade
	if in.Capacidade != nil {
		capacidade = in.Capacidade
	}
	if err := validar(nome, tipo, capacidade); err != nil {
		return Local{}, err
	}

	// Mudar o tipo não regenera o código; a troca é sempre explícita e
	// passa pela checagem de unicidade.
	if in.Cod != nil {
		cod := strings.ToUpper(strings.TrimSpace(*in.Cod))
		if cod == "" {
			return Local{}, ValidationError("código do local não pode ficar vazio")
		}
		emUso, err := s.repo.ExistsCod(ctx, cod, id)
		if err != nil {
			return Local{}, err
		}
		if emUso {
			return Local{}, ErrCodigoEmUso
		}
		in.Cod = &cod
	}

	l, err := s.repo.Update(ctx, id, in)
	if errors.Is(err, repo.ErrConflito) {
		return Local{}, ErrCodigoEmUso
	}
	return l, err
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func validar(nome, tipo string, capacidade *int) error {
	if nome == "" {
		return ValidationError("nome do local é obrigatório")
	}
	if tipo == "" {
		return ValidationError("tipo do local é obrigatório")
	}
	if _, ok := prefixoPorTipo[tipo]; !ok {
		return ValidationError("tipo de local deve ser: Sala de Aula, Biblioteca, Laboratório, Auditório, Anfiteatro, Pátio, Quadra ou Espaço")
	}
	// Espaços abertos não têm lotação definida; os demais tipos exigem.
	if capacidade == nil && tipo != TipoEspaco {
		return ValidationError("capacidade é obrigatória para este tipo de local")
	}
	if capacidade != nil && *capacidade <= 0 {
		return ValidationError("capacidade deve ser um número positivo")
	}
	return nil
}

// GerarCodigo sorteia sufixos de três dígitos até achar um código livre
// para o prefixo do tipo informado.
func (s *Service) GerarCodigo(ctx context.Context, tipo string) (string, error) {
	prefixo, ok := prefixoPorTipo[tipo]
	if !ok {
		prefixo = "LOC"
	}

	for i := 0; i < maxTentativasCodigo; i++ {
		cod := fmt.Sprintf("%s%03d", prefixo, s.sorteioSufixo())
		ocupado, err := s.repo.ExistsCod(ctx, cod, uuid.Nil)
		if err != nil {
			return "", err
		}
		if !ocupado {
			return cod, nil
		}
	}
	return "", ErrCodigosEsgotados
}
