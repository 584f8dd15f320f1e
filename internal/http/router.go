package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/gestaoseminario/api/internal/auth"
	"github.com/gestaoseminario/api/internal/config"
	"github.com/gestaoseminario/api/internal/curso"
	"github.com/gestaoseminario/api/internal/evento"
	httpmiddleware "github.com/gestaoseminario/api/internal/http/middleware"
	"github.com/gestaoseminario/api/internal/local"
	"github.com/gestaoseminario/api/internal/repo"
	"github.com/gestaoseminario/api/internal/service"
)

// Handler agrega as dependências do roteador.
type Handler struct {
	cfg           *config.Config
	pool          *pgxpool.Pool
	redis         *redis.Client
	tokens        *auth.TokenManager
	usuariosRepo  *repo.UsuarioRepository
	sessoes       *auth.SessionStore
	authHandler   *AuthHandler
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
}

// NewRouter monta o roteador completo: middlewares globais, rotas públicas
// de saúde e login, e o bloco autenticado com os recursos da API. O registry,
// quando presente, confere na montagem os códigos exigidos pelas guardas.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, tokens *auth.TokenManager, registry *service.Registry) http.Handler {
	usuariosRepo := repo.NewUsuarioRepository(pool)
	perfisRepo := repo.NewPerfilRepository(pool)
	permissoesRepo := repo.NewPermissaoRepository(pool)

	// Ponteiro nulo embrulhado em interface deixaria de ser nil; só
	// entrega o store quando o Redis existe de fato.
	var sessoes *auth.SessionStore
	var sessoesCache httpmiddleware.SessaoCache
	authService := service.NewAuthService(usuariosRepo, tokens, nil)
	if redisClient != nil {
		sessoes = auth.NewSessionStore(redisClient)
		sessoesCache = sessoes
		authService = service.NewAuthService(usuariosRepo, tokens, sessoes)
	}

	h := &Handler{
		cfg:           cfg,
		pool:          pool,
		redis:         redisClient,
		tokens:        tokens,
		usuariosRepo:  usuariosRepo,
		sessoes:       sessoes,
		authHandler:   NewAuthHandler(authService),
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
	}

	usuarioHandler := NewUsuarioHandler(service.NewUsuarioService(usuariosRepo, perfisRepo))
	perfilHandler := NewPerfilHandler(service.NewPerfilService(perfisRepo))
	permissaoHandler := NewPermissaoHandler(service.NewPermissaoService(permissoesRepo))
	cursoHandler := curso.NewHandler(curso.NewService(curso.NewRepository(pool)))
	localHandler := local.NewHandler(local.NewService(local.NewRepository(pool)))
	eventoHandler := evento.NewHandler(evento.NewService(evento.NewRepository(pool)))

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))
		public.Get("/health", h.Health)
		public.Get("/ready", h.Ready)
	})

	r.Route("/api", func(api chi.Router) {
		api.Group(func(login chi.Router) {
			login.Use(httpmiddleware.IPRateLimit(h.authLimiter))
			login.Post("/auth/login", h.authHandler.HandleLogin)
		})

		api.Group(func(protegido chi.Router) {
			protegido.Use(httpmiddleware.Auth(tokens, usuariosRepo, sessoesCache))
			protegido.Use(httpmiddleware.UserRateLimit(h.publicLimiter))

			protegido.Get("/auth/verify", h.authHandler.HandleVerify)
			protegido.Post("/auth/logout", h.authHandler.HandleLogout)

			usuarioHandler.RegisterRoutes(protegido)
			perfilHandler.RegisterRoutes(protegido)
			permissaoHandler.RegisterRoutes(protegido)
			cursoHandler.RegisterRoutes(protegido)
			localHandler.RegisterRoutes(protegido)
			eventoHandler.RegisterRoutes(protegido)
		})
	})

	// Um código de guarda fora do catálogo negaria acesso para sempre sem
	// aviso; a conferência acontece aqui, com todas as rotas já montadas.
	if registry != nil {
		for _, c := range httpmiddleware.CodigosGuardados() {
			if !registry.Existe(c) {
				log.Warn().Str("codigo", string(c)).
					Msg("rota exige permissão ausente do catálogo")
			}
		}
	}

	return r
}

// Health responde vivo sem tocar dependências.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, "", map[string]bool{"ok": true})
}

// Ready confere banco e, quando configurado, o Redis.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.pool.Ping(ctx); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "banco de dados indisponível", nil)
		return
	}
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			WriteError(w, http.StatusServiceUnavailable, "redis indisponível", nil)
			return
		}
	}
	WriteJSON(w, http.StatusOK, "", map[string]bool{"ready": true})
}
