package local

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de local reconhecidos pelo gerador de código.
const (
	TipoSalaDeAula  = "Sala de Aula"
	TipoBiblioteca  = "Biblioteca"
	TipoLaboratorio = "Laboratório"
	TipoAuditorio   = "Auditório"
	TipoAnfiteatro  = "Anfiteatro"
	TipoPatio       = "Pátio"
	TipoQuadra      = "Quadra"
	TipoEspaco      = "Espaço"
)

// Local representa um espaço físico onde eventos acontecem.
type Local struct {
	ID           uuid.UUID  `json:"id"`
	Cod          string     `json:"cod"`
	Nome         string     `json:"nome"`
	TipoLocal    string     `json:"tipoLocal"`
	Capacidade   *int       `json:"capacidade,omitempty"`
	Descricao    *string    `json:"descricao,omitempty"`
	Ativo        bool       `json:"ativo"`
	CriadoEm     time.Time  `json:"criadoEm"`
	AtualizadoEm *time.Time `json:"atualizadoEm,omitempty"`
}

// LocalComEventos agrega um local à quantidade de eventos marcados nele.
type LocalComEventos struct {
	Local
	TotalEventos int `json:"totalEventos"`
}

// CreateInput carrega os campos aceitos na criação; sem código informado,
// um é gerado a partir do tipo.
type CreateInput struct {
	Cod        *string `json:"cod"`
	Nome       string  `json:"nome"`
	TipoLocal  string  `json:"tipoLocal"`
	Capacidade *int    `json:"capacidade"`
	Descricao  *string `json:"descricao"`
}

// UpdateInput carrega alterações parciais; campos nil são preservados.
type UpdateInput struct {
	Cod        *string `json:"cod"`
	Nome       *string `json:"nome"`
	TipoLocal  *string `json:"tipoLocal"`
	Capacidade *int    `json:"capacidade"`
	Descricao  *string `json:"descricao"`
	Ativo      *bool   `json:"ativo"`
}

// ListFilter reúne os filtros aceitos na listagem.
type ListFilter struct {
	Search        string
	TipoLocal     string
	CapacidadeMin int
	ComEventos    bool
}
