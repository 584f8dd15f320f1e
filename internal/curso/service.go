package curso

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/gestaoseminario/api/internal/repo"
)

// ValidationError marca falhas de entrada que viram resposta 400.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

var (
	ErrCodigoEmUso      = errors.New("já existe um curso com este código")
	ErrNomeInsuficiente = ValidationError("nome do curso não possui letras suficientes para gerar o código")
	ErrCodigosEsgotados = errors.New("não há códigos disponíveis para este prefixo de curso")
)

type repositorio interface {
	GetByID(ctx context.Context, id uuid.UUID) (Curso, error)
	List(ctx context.Context, search string, limit, offset int) ([]Curso, int, error)
	ExistsCod(ctx context.Context, cod string, exceto uuid.UUID) (bool, error)
	CodigosComPrefixo(ctx context.Context, prefixo string) ([]string, error)
	Create(ctx context.Context, cod, nome string, descricao *string) (Curso, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Curso, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service aplica as regras de negócio de cursos, incluindo a geração do
// código institucional a partir do nome.
type Service struct {
	repo repositorio
}

func NewService(r repositorio) *Service {
	return &Service{repo: r}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Curso, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, search string, page, perPage int) ([]Curso, int, error) {
	return s.repo.List(ctx, search, perPage, (page-1)*perPage)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Curso, error) {
	nome := strings.TrimSpace(in.Nome)
	if nome == "" {
		return Curso{}, ValidationError("nome do curso é obrigatório")
	}

	var cod string
	if in.Cod != nil && strings.TrimSpace(*in.Cod) != "" {
		cod = strings.ToUpper(strings.TrimSpace(*in.Cod))
		emUso, err := s.repo.ExistsCod(ctx, cod, uuid.Nil)
		if err != nil {
			return Curso{}, err
		}
		if emUso {
			return Curso{}, ErrCodigoEmUso
		}
	} else {
		var err error
		cod, err = s.gerarCodigo(ctx, nome)
		if err != nil {
			return Curso{}, err
		}
	}

	c, err := s.repo.Create(ctx, cod, nome, in.Descricao)
	if errors.Is(err, repo.ErrConflito) {
		// Índice único venceu uma corrida com outra criação.
		return Curso{}, ErrCodigoEmUso
	}
	return c, err
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Curso, error) {
	if in.Nome != nil {
		nome := strings.TrimSpace(*in.Nome)
		if nome == "" {
			return Curso{}, ValidationError("nome do curso é obrigatório")
		}
		in.Nome = &nome
	}
	if in.Cod != nil {
		cod := strings.ToUpper(strings.TrimSpace(*in.Cod))
		if cod == "" {
			return Curso{}, ValidationError("código do curso não pode ficar vazio")
		}
		emUso, err := s.repo.ExistsCod(ctx, cod, id)
		if err != nil {
			return Curso{}, err
		}
		if emUso {
			return Curso{}, ErrCodigoEmUso
		}
		in.Cod = &cod
	}

	c, err := s.repo.Update(ctx, id, in)
	if errors.Is(err, repo.ErrConflito) {
		return Curso{}, ErrCodigoEmUso
	}
	return c, err
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// gerarCodigo monta o prefixo de três letras a partir do nome e escolhe o
// menor sufixo numérico livre entre 001 e 999.
func (s *Service) gerarCodigo(ctx context.Context, nome string) (string, error) {
	base, err := baseDoNome(nome)
	if err != nil {
		return "", err
	}

	existentes, err := s.repo.CodigosComPrefixo(ctx, base)
	if err != nil {
		return "", err
	}
	usados := make(map[string]struct{}, len(existentes))
	for _, c := range existentes {
		usados[c] = struct{}{}
	}

	for n := 1; n <= 999; n++ {
		cod := fmt.Sprintf("%s%03d", base, n)
		if _, ocupado := usados[cod]; !ocupado {
			return cod, nil
		}
	}
	return "", ErrCodigosEsgotados
}

// baseDoNome extrai três letras maiúsculas sem acento: nome de uma palavra
// usa as três primeiras letras; nomes compostos usam a inicial de até três
// palavras, completando com letras restantes da primeira palavra.
func baseDoNome(nome string) (string, error) {
	palavras := make([][]rune, 0, 4)
	for _, p := range strings.Fields(nome) {
		letras := somenteLetras(p)
		if len(letras) > 0 {
			palavras = append(palavras, letras)
		}
	}
	if len(palavras) == 0 {
		return "", ErrNomeInsuficiente
	}

	base := make([]rune, 0, 3)
	if len(palavras) == 1 {
		base = append(base, palavras[0]...)
	} else {
		for i := 0; i < len(palavras) && i < 3; i++ {
			base = append(base, palavras[i][0])
		}
		// Duas palavras rendem duas iniciais: completa com a segunda
		// letra em diante da primeira palavra.
		for i := 1; len(base) < 3 && i < len(palavras[0]); i++ {
			base = append(base, palavras[0][i])
		}
	}
	if len(base) < 3 {
		return "", ErrNomeInsuficiente
	}
	return string(base[:3]), nil
}

func somenteLetras(palavra string) []rune {
	letras := make([]rune, 0, len(palavra))
	for _, r := range palavra {
		r = semAcento(r)
		if r >= 'a' && r <= 'z' {
			r = unicode.ToUpper(r)
		}
		if r >= 'A' && r <= 'Z' {
			letras = append(letras, r)
		}
	}
	return letras
}

func semAcento(r rune) rune {
	switch r {
	case 'á', 'à', 'â', 'ã', 'ä':
		return 'a'
	case 'Á', 'À', 'Â', 'Ã', 'Ä':
		return 'A'
	case 'é', 'è', 'ê', 'ë':
		return 'e'
	case 'É', 'È', 'Ê', 'Ë':
		return 'E'
	case 'í', 'ì', 'î', 'ï':
		return 'i'
	case 'Í', 'Ì', 'Î', 'Ï':
		return 'I'
	case 'ó', 'ò', 'ô', 'õ', 'ö':
		return 'o'
	case 'Ó', 'Ò', 'Ô', 'Õ', 'Ö':
		return 'O'
	case 'ú', 'ù', 'û', 'ü':
		return 'u'
	case 'Ú', 'Ù', 'Û', 'Ü':
		return 'U'
	case 'ç':
		return 'c'
	case 'Ç':
		return 'C'
	}
	return r
}
