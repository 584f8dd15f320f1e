package evento

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gestaoseminario/api/internal/repo"
)

// ValidationError marca falhas de entrada que viram resposta 400.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

var (
	ErrCodigoEmUso      = errors.New("já existe um evento com este código")
	ErrConflitoAgenda   = errors.New("já existe um evento nesta sala, data e horário")
	ErrTipoDesconhecido = ValidationError("tipo de evento inválido")
)

const (
	duracaoMinima = 15
	duracaoMaxima = 480
	duracaoPadrao = 60
)

// prefixos de código por tipo; tipos fora do mapa caem em EVT.
var prefixoPorTipo = map[string]string{
	TipoPalestraPrincipal: "PAL",
	TipoApresentacao:      "APT",
	TipoOficina:           "OFC",
	TipoBanner:            "BAN",
}

var tiposValidos = map[string]bool{
	TipoPalestraPrincipal: true,
	TipoApresentacao:      true,
	TipoOficina:           true,
	TipoBanner:            true,
}

type repositorio interface {
	GetByID(ctx context.Context, id uuid.UUID) (Evento, error)
	List(ctx context.Context, f ListFilter, limit, offset int) ([]Evento, int, error)
	Cronograma(ctx context.Context, data string) ([]Evento, error)
	Estatisticas(ctx context.Context) (Estatisticas, error)
	ExistsCod(ctx context.Context, cod string, exceto uuid.UUID) (bool, error)
	MaxSufixo(ctx context.Context, prefixo string) (int, error)
	ExisteConflito(ctx context.Context, sala, data, hora string, exceto uuid.UUID) (bool, error)
	Create(ctx context.Context, e Evento) (Evento, error)
	Update(ctx context.Context, e Evento) (Evento, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service aplica as regras da agenda: validação por tipo, geração de código
// sequencial e detecção de choque de sala/horário.
type Service struct {
	repo repositorio
}

func NewService(r repositorio) *Service {
	return &Service{repo: r}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Evento, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter, page, perPage int) ([]Evento, int, error) {
	return s.repo.List(ctx, f, perPage, (page-1)*perPage)
}

func (s *Service) Cronograma(ctx context.Context, data string) ([]Evento, error) {
	if _, err := time.Parse("2006-01-02", data); err != nil {
		return nil, ValidationError("data deve estar no formato YYYY-MM-DD")
	}
	return s.repo.Cronograma(ctx, data)
}

func (s *Service) Estatisticas(ctx context.Context) (Estatisticas, error) {
	return s.repo.Estatisticas(ctx)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Evento, error) {
	e := Evento{
		Data:        strings.TrimSpace(in.Data),
		Hora:        strings.TrimSpace(in.Hora),
		Duracao:     duracaoPadrao,
		Tema:        strings.TrimSpace(in.Tema),
		Autores:     limparAutores(in.Autores),
		Palestrante: in.Palestrante,
		Orientador:  in.Orientador,
		Sala:        strings.TrimSpace(in.Sala),
		TipoEvento:  strings.TrimSpace(in.TipoEvento),
		Cursos:      in.Cursos,
		Resumo:      in.Resumo,
	}
	if in.Duracao != nil {
		e.Duracao = *in.Duracao
	}
	if e.Cursos == nil {
		e.Cursos = []uuid.UUID{}
	}
	sincronizarCursoLegado(&e)

	if err := validar(&e); err != nil {
		return Evento{}, err
	}

	if in.Cod != nil && strings.TrimSpace(*in.Cod) != "" {
		e.Cod = strings.ToUpper(strings.TrimSpace(*in.Cod))
		emUso, err := s.repo.ExistsCod(ctx, e.Cod, uuid.Nil)
		if err != nil {
			return Evento{}, err
		}
		if emUso {
			return Evento{}, ErrCodigoEmUso
		}
	} else {
		cod, err := s.proximoCodigo(ctx, e.TipoEvento)
		if err != nil {
			return Evento{}, err
		}
		e.Cod = cod
	}

	conflito, err := s.repo.ExisteConflito(ctx, e.Sala, e.Data, e.Hora, uuid.Nil)
	if err != nil {
		return Evento{}, err
	}
	if conflito {
		return Evento{}, ErrConflitoAgenda
	}

	criado, err := s.repo.Create(ctx, e)
	if errors.Is(err, repo.ErrConflito) {
		// Índice único de sala+data+hora (ou de código) venceu uma
		// corrida entre a checagem e o insert.
		return Evento{}, ErrConflitoAgenda
	}
	return criado, err
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Evento, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Evento{}, err
	}

	if in.Data != nil {
		e.Data = strings.TrimSpace(*in.Data)
	}
	if in.Hora != nil {
		e.Hora = strings.TrimSpace(*in.Hora)
	}
	if in.Duracao != nil {
		e.Duracao = *in.Duracao
	}
	if in.Tema != nil {
		e.Tema = strings.TrimSpace(*in.Tema)
	}
	if in.Autores != nil {
		e.Autores = limparAutores(in.Autores)
	}
	if in.Palestrante != nil {
		e.Palestrante = in.Palestrante
	}
	if in.Orientador != nil {
		e.Orientador = in.Orientador
	}
	if in.Sala != nil {
		e.Sala = strings.TrimSpace(*in.Sala)
	}
	if in.TipoEvento != nil {
		e.TipoEvento = strings.TrimSpace(*in.TipoEvento)
	}
	if in.Cursos != nil {
		e.Cursos = in.Cursos
	}
	if in.Resumo != nil {
		e.Resumo = in.Resumo
	}
	sincronizarCursoLegado(&e)

	if err := validar(&e); err != nil {
		return Evento{}, err
	}

	conflito, err := s.repo.ExisteConflito(ctx, e.Sala, e.Data, e.Hora, id)
	if err != nil {
		return Evento{}, err
	}
	if conflito {
		return Evento{}, ErrConflitoAgenda
	}

	atualizado, err := s.repo.Update(ctx, e)
	if errors.Is(err, repo.ErrConflito) {
		return Evento{}, ErrConflitoAgenda
	}
	return atualizado, err
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// proximoCodigo continua a sequência numérica do prefixo do tipo.
func (s *Service) proximoCodigo(ctx context.Context, tipo string) (string, error) {
	prefixo, ok := prefixoPorTipo[tipo]
	if !ok {
		prefixo = "EVT"
	}
	max, err := s.repo.MaxSufixo(ctx, prefixo)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", prefixo, max+1), nil
}

func validar(e *Evento) error {
	if _, err := time.Parse("2006-01-02", e.Data); err != nil {
		return ValidationError("data deve estar no formato YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", e.Hora); err != nil {
		return ValidationError("hora deve estar no formato HH:MM")
	}
	if e.Duracao < duracaoMinima || e.Duracao > duracaoMaxima {
		return ValidationError(fmt.Sprintf("duração deve estar entre %d e %d minutos", duracaoMinima, duracaoMaxima))
	}
	if n := len([]rune(e.Tema)); n < 5 || n > 200 {
		return ValidationError("tema deve ter entre 5 e 200 caracteres")
	}
	if e.Resumo != nil && len([]rune(*e.Resumo)) > 1000 {
		return ValidationError("resumo deve ter no máximo 1000 caracteres")
	}
	if e.Sala == "" {
		return ValidationError("sala é obrigatória")
	}
	if !tiposValidos[e.TipoEvento] {
		return ErrTipoDesconhecido
	}
	if e.TipoEvento == TipoPalestraPrincipal {
		if e.Palestrante == nil || strings.TrimSpace(*e.Palestrante) == "" {
			return ValidationError("palestrante é obrigatório para Palestra Principal")
		}
	} else if len(e.Autores) == 0 {
		return ValidationError("informe ao menos um autor")
	}
	return nil
}

// sincronizarCursoLegado mantém o campo curso_id igual ao primeiro curso da
// lista, compatibilidade exigida por consumidores antigos.
func sincronizarCursoLegado(e *Evento) {
	if len(e.Cursos) > 0 {
		id := e.Cursos[0]
		e.CursoID = &id
	} else {
		e.CursoID = nil
	}
}

func limparAutores(autores []string) []string {
	out := make([]string, 0, len(autores))
	for _, a := range autores {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
