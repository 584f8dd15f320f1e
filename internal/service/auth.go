package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gestaoseminario/api/internal/auth"
	"github.com/gestaoseminario/api/internal/repo"
)

// ErrCredenciaisInvalidas cobre e-mail desconhecido, senha errada e conta
// desativada; o cliente nunca descobre qual dos três falhou.
var ErrCredenciaisInvalidas = errors.New("credenciais inválidas")

type usuariosAuth interface {
	GetByEmail(ctx context.Context, email string) (repo.Usuario, error)
	GetAutenticado(ctx context.Context, id uuid.UUID) (repo.UsuarioAutenticado, error)
	RegistrarLogin(ctx context.Context, id uuid.UUID, momento, expiracao time.Time) error
	ExpirarToken(ctx context.Context, id uuid.UUID, momento time.Time) error
}

type sessoes interface {
	Guardar(ctx context.Context, userID uuid.UUID, expiraEm time.Time) error
	Remover(ctx context.Context, userID uuid.UUID) error
}

// AuthService resolve login, logout e verificação de sessão.
type AuthService struct {
	usuarios usuariosAuth
	tokens   *auth.TokenManager
	sessoes  sessoes
}

// NewAuthService monta o serviço; sessoes pode ser nil quando o Redis não
// está configurado.
func NewAuthService(usuarios usuariosAuth, tokens *auth.TokenManager, sessoes sessoes) *AuthService {
	return &AuthService{usuarios: usuarios, tokens: tokens, sessoes: sessoes}
}

// LoginOutput devolve o token emitido e o retrato do usuário autenticado.
type LoginOutput struct {
	Token    string                  `json:"token"`
	ExpiraEm time.Time               `json:"expiresAt"`
	Usuario  repo.UsuarioAutenticado `json:"user"`
}

// Login valida as credenciais, emite o token e registra a janela de sessão
// no banco (autoritativo) e no Redis (caminho rápido).
func (s *AuthService) Login(ctx context.Context, email, senha string) (LoginOutput, error) {
	u, err := s.usuarios.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return LoginOutput{}, ErrCredenciaisInvalidas
	}
	if err != nil {
		return LoginOutput{}, err
	}
	if !u.Ativo {
		return LoginOutput{}, ErrCredenciaisInvalidas
	}

	ok, err := auth.Verify(senha, u.SenhaHash)
	if err != nil || !ok {
		return LoginOutput{}, ErrCredenciaisInvalidas
	}

	token, expiraEm, err := s.tokens.Generate(u.ID.String(), u.Email)
	if err != nil {
		return LoginOutput{}, err
	}

	agora := time.Now()
	if err := s.usuarios.RegistrarLogin(ctx, u.ID, agora, expiraEm); err != nil {
		return LoginOutput{}, err
	}
	if s.sessoes != nil {
		if err := s.sessoes.Guardar(ctx, u.ID, expiraEm); err != nil {
			log.Warn().Err(err).Str("usuario", u.ID.String()).Msg("falha ao espelhar sessão no redis")
		}
	}

	autenticado, err := s.usuarios.GetAutenticado(ctx, u.ID)
	if err != nil {
		return LoginOutput{}, err
	}

	return LoginOutput{Token: token, ExpiraEm: expiraEm, Usuario: autenticado}, nil
}

// Logout encerra a sessão gravando uma expiração no passado; tokens já
// emitidos passam a ser recusados pelo middleware mesmo dentro da janela
// assinada.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.usuarios.ExpirarToken(ctx, userID, time.Now().Add(-time.Second)); err != nil {
		return err
	}
	if s.sessoes != nil {
		if err := s.sessoes.Remover(ctx, userID); err != nil {
			log.Warn().Err(err).Str("usuario", userID.String()).Msg("falha ao remover sessão do redis")
		}
	}
	return nil
}
