package repo

import (
	"time"

	"github.com/google/uuid"
)

// Usuario representa um usuário administrativo do sistema. O hash de senha
// e a janela de sessão nunca saem na serialização.
type Usuario struct {
	ID             uuid.UUID  `json:"id"`
	Nome           string     `json:"nome"`
	Email          string     `json:"email"`
	SenhaHash      string     `json:"-"`
	PerfilID       uuid.UUID  `json:"perfilId"`
	Curso          *string    `json:"curso,omitempty"`
	Ativo          bool       `json:"ativo"`
	UltimoLogin    *time.Time `json:"ultimoLogin,omitempty"`
	TokenExpiracao *time.Time `json:"-"`
	CriadoEm       time.Time  `json:"criadoEm"`
	AtualizadoEm   time.Time  `json:"atualizadoEm"`
}

// Perfil agrupa permissões sob um nome único.
type Perfil struct {
	ID           uuid.UUID `json:"id"`
	Nome         string    `json:"nome"`
	Descricao    *string   `json:"descricao,omitempty"`
	Ativo        bool      `json:"ativo"`
	CriadoEm     time.Time `json:"criadoEm"`
	AtualizadoEm time.Time `json:"atualizadoEm"`
}

// Permissao é uma capacidade atômica vinculada a um módulo.
type Permissao struct {
	ID           uuid.UUID `json:"id"`
	Nome         string    `json:"nome"`
	Codigo       string    `json:"codigo"`
	Modulo       string    `json:"modulo"`
	Descricao    *string   `json:"descricao,omitempty"`
	Ativo        bool      `json:"ativo"`
	CriadoEm     time.Time `json:"criadoEm"`
	AtualizadoEm time.Time `json:"atualizadoEm"`
}

// PerfilComPermissoes agrega perfil com suas permissões resolvidas.
type PerfilComPermissoes struct {
	Perfil
	Permissoes []Permissao `json:"permissoes"`
}

// UsuarioAutenticado é a identidade resolvida anexada a cada requisição.
type UsuarioAutenticado struct {
	ID             uuid.UUID  `json:"id"`
	Nome           string     `json:"nome"`
	Email          string     `json:"email"`
	Ativo          bool       `json:"ativo"`
	TokenExpiracao *time.Time `json:"-"`
	PerfilID       uuid.UUID  `json:"perfilId"`
	PerfilNome     string     `json:"perfil"`
	Permissoes     []string   `json:"permissoes"`
}
