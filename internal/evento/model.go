package evento

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de evento aceitos pela agenda do seminário.
const (
	TipoPalestraPrincipal = "Palestra Principal"
	TipoApresentacao      = "Apresentação de Trabalhos"
	TipoOficina           = "Oficina"
	TipoBanner            = "Banner"
)

// Evento representa uma atividade agendada do seminário. A data circula em
// formato YYYY-MM-DD e a hora em HH:MM, granularidades com que a agenda
// trabalha.
type Evento struct {
	ID           uuid.UUID   `json:"id"`
	Cod          string      `json:"cod"`
	Data         string      `json:"data"`
	Hora         string      `json:"hora"`
	Duracao      int         `json:"duracao"`
	Tema         string      `json:"tema"`
	Autores      []string    `json:"autores"`
	Palestrante  *string     `json:"palestrante,omitempty"`
	Orientador   *string     `json:"orientador,omitempty"`
	Sala         string      `json:"sala"`
	TipoEvento   string      `json:"tipoEvento"`
	CursoID      *uuid.UUID  `json:"cursoId,omitempty"`
	Cursos       []uuid.UUID `json:"cursos"`
	Resumo       *string     `json:"resumo,omitempty"`
	CriadoEm     time.Time   `json:"criadoEm"`
	AtualizadoEm *time.Time  `json:"atualizadoEm,omitempty"`
}

// CreateInput carrega os campos aceitos na criação. Quando cod vem vazio,
// o serviço gera o próximo da sequência do tipo.
type CreateInput struct {
	Cod         *string     `json:"cod"`
	Data        string      `json:"data"`
	Hora        string      `json:"hora"`
	Duracao     *int        `json:"duracao"`
	Tema        string      `json:"tema"`
	Autores     []string    `json:"autores"`
	Palestrante *string     `json:"palestrante"`
	Orientador  *string     `json:"orientador"`
	Sala        string      `json:"sala"`
	TipoEvento  string      `json:"tipoEvento"`
	Cursos      []uuid.UUID `json:"cursos"`
	Resumo      *string     `json:"resumo"`
}

// UpdateInput carrega alterações parciais; campos nil são preservados.
// Autores e Cursos nil mantêm o valor atual; vazios limpam a lista.
type UpdateInput struct {
	Data        *string     `json:"data"`
	Hora        *string     `json:"hora"`
	Duracao     *int        `json:"duracao"`
	Tema        *string     `json:"tema"`
	Autores     []string    `json:"autores"`
	Palestrante *string     `json:"palestrante"`
	Orientador  *string     `json:"orientador"`
	Sala        *string     `json:"sala"`
	TipoEvento  *string     `json:"tipoEvento"`
	Cursos      []uuid.UUID `json:"cursos"`
	Resumo      *string     `json:"resumo"`
}

// ListFilter reúne os filtros aceitos na listagem.
type ListFilter struct {
	Search     string
	TipoEvento string
	Data       string
	Local      string
	Curso      uuid.UUID
}

// ContagemPorTipo totaliza eventos de um tipo.
type ContagemPorTipo struct {
	TipoEvento string `json:"tipoEvento"`
	Total      int    `json:"total"`
}

// ContagemPorData totaliza eventos de um dia.
type ContagemPorData struct {
	Data  string `json:"data"`
	Total int    `json:"total"`
}

// Estatisticas resume a agenda para o painel administrativo.
type Estatisticas struct {
	Total   int               `json:"total"`
	PorTipo []ContagemPorTipo `json:"porTipo"`
	PorData []ContagemPorData `json:"porData"`
}
