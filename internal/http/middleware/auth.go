package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gestaoseminario/api/internal/auth"
	"github.com/gestaoseminario/api/internal/permissao"
	"github.com/gestaoseminario/api/internal/repo"
)

type contextKey string

const contextKeyUsuario contextKey = "usuario"

// IdentidadeLoader resolve o usuário autenticado com perfil e permissões.
type IdentidadeLoader interface {
	GetAutenticado(ctx context.Context, id uuid.UUID) (repo.UsuarioAutenticado, error)
}

// SessaoCache consulta a expiração de sessão em um armazenamento rápido;
// ok=false indica ausência e devolve a decisão ao registro do usuário.
type SessaoCache interface {
	Expiracao(ctx context.Context, userID uuid.UUID) (time.Time, bool, error)
}

// Auth valida o bearer token e resolve a identidade completa do usuário
// antes de liberar a requisição. Cada saída antecipada é um estado terminal:
// sem token, token inválido, token expirado, usuário inexistente, usuário
// inativo ou sessão encerrada no servidor.
func Auth(tokens *auth.TokenManager, usuarios IdentidadeLoader, sessoes SessaoCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				writeError(w, http.StatusUnauthorized, "token de acesso não fornecido")
				return
			}

			claims, err := tokens.Parse(parts[1])
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpirado) {
					writeError(w, http.StatusUnauthorized, "token expirado")
				} else {
					writeError(w, http.StatusUnauthorized, "token inválido")
				}
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "token inválido")
				return
			}

			u, err := usuarios.GetAutenticado(r.Context(), userID)
			if errors.Is(err, repo.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "usuário não encontrado")
				return
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, "erro interno do servidor")
				return
			}
			if !u.Ativo {
				writeError(w, http.StatusUnauthorized, "usuário inativo")
				return
			}

			// Logout grava uma expiração no passado; tokens assinados e
			// ainda dentro da janela criptográfica morrem aqui.
			if !sessaoViva(r.Context(), sessoes, u) {
				writeError(w, http.StatusUnauthorized, "token expirado")
				return
			}

			next.ServeHTTP(w, r.WithContext(ComUsuario(r.Context(), u)))
		})
	}
}

func sessaoViva(ctx context.Context, sessoes SessaoCache, u repo.UsuarioAutenticado) bool {
	if sessoes != nil {
		if exp, ok, err := sessoes.Expiracao(ctx, u.ID); err == nil && ok {
			return time.Now().Before(exp)
		}
	}
	if u.TokenExpiracao == nil {
		return false
	}
	return time.Now().Before(*u.TokenExpiracao)
}

// ComUsuario anexa a identidade ao contexto, como o Auth faz ao liberar a
// requisição.
func ComUsuario(ctx context.Context, u repo.UsuarioAutenticado) context.Context {
	return context.WithValue(ctx, contextKeyUsuario, u)
}

// GetUsuario recupera a identidade resolvida pelo Auth.
func GetUsuario(ctx context.Context) (repo.UsuarioAutenticado, bool) {
	u, ok := ctx.Value(contextKeyUsuario).(repo.UsuarioAutenticado)
	return u, ok
}

var (
	guardasMu sync.Mutex
	guardas   = make(map[permissao.Codigo]struct{})
)

// CodigosGuardados lista os códigos exigidos pelas rotas montadas até aqui;
// o roteador confere cada um contra o catálogo carregado na subida.
func CodigosGuardados() []permissao.Codigo {
	guardasMu.Lock()
	defer guardasMu.Unlock()
	out := make([]permissao.Codigo, 0, len(guardas))
	for c := range guardas {
		out = append(out, c)
	}
	return out
}

// RequirePermission exige que o código esteja no conjunto de permissões do
// perfil do usuário.
func RequirePermission(codigo permissao.Codigo) func(http.Handler) http.Handler {
	guardasMu.Lock()
	guardas[codigo] = struct{}{}
	guardasMu.Unlock()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := GetUsuario(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "token de acesso não fornecido")
				return
			}
			for _, p := range u.Permissoes {
				if p == string(codigo) {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "acesso negado: permissão insuficiente")
		})
	}
}

// RequireAdmin restringe a operação ao perfil Administrador ou a quem
// carrega o código de acesso total; usado em cima do RequirePermission nas
// rotas destrutivas. A identidade vem do contexto: o Auth já a carregou do
// banco nesta mesma requisição, então o perfil conferido aqui é o estado
// atual e não o do momento da emissão do token.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := GetUsuario(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "token de acesso não fornecido")
			return
		}
		if u.PerfilNome == permissao.PerfilAdministrador {
			next.ServeHTTP(w, r)
			return
		}
		for _, p := range u.Permissoes {
			if p == string(permissao.AdminTotal) {
				next.ServeHTTP(w, r)
				return
			}
		}
		writeError(w, http.StatusForbidden, "acesso negado: requer privilégios de administrador")
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
