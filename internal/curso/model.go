package curso

import (
	"time"

	"github.com/google/uuid"
)

// Curso representa um curso de graduação vinculável a eventos e usuários.
type Curso struct {
	ID           uuid.UUID  `json:"id"`
	Cod          string     `json:"cod"`
	Nome         string     `json:"nome"`
	Descricao    *string    `json:"descricao,omitempty"`
	Ativo        bool       `json:"ativo"`
	CriadoEm     time.Time  `json:"criadoEm"`
	AtualizadoEm *time.Time `json:"atualizadoEm,omitempty"`
}

// CreateInput carrega os campos aceitos na criação. Quando cod vem vazio,
// o serviço gera um a partir do nome.
type CreateInput struct {
	Cod       *string `json:"cod"`
	Nome      string  `json:"nome"`
	Descricao *string `json:"descricao"`
}

// UpdateInput carrega alterações parciais; campos nil são preservados.
type UpdateInput struct {
	Cod       *string `json:"cod"`
	Nome      *string `json:"nome"`
	Descricao *string `json:"descricao"`
	Ativo     *bool   `json:"ativo"`
}
