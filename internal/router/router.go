package router

import (
	"database/sql"
	"net/http"

	"amicus-backend/internal/adapters/storage/memory"
	pg "amicus-backend/internal/adapters/storage/postgres"
	"amicus-backend/internal/domain/access"
	"amicus-backend/internal/domain/accounts"
	"amicus-backend/internal/domain/clients"
	"amicus-backend/internal/domain/herds"
	"amicus-backend/internal/domain/memberships"
	"amicus-backend/internal/domain/organizations"
	"amicus-backend/internal/domain/users"
	"amicus-backend/internal/middleware"
	"amicus-backend/internal/platform/logger"
	"amicus-backend/internal/platform/metrics"
	"amicus-backend/internal/platform/security"
	"amicus-backend/internal/ports/auth"

	_ "amicus-backend/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	TokenIssuer  auth.TokenIssuer  // nil => /auth/login no emite token

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger  logger.Logger
	Metrics *metrics.Metrics

	BcryptCost       int
	CredentialLength int
}

// store agrupa lo que ofrecen memory.Store y postgres.Store.
type store interface {
	clients.Store
	Users() users.Repository
	Organizations() organizations.Repository
	Memberships() memberships.Repository
	Herds() herds.Repository
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(middleware.RequestLogger(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var st store
	if opts.DB != nil {
		st = pg.NewStore(opts.DB)
	} else {
		st = memory.NewStore()
	}

	hasher := security.NewHasher(opts.BcryptCost) // 0 => bcrypt.DefaultCost

	// Núcleo de autorización
	dir := memberships.NewDirectory(st.Memberships())
	resolver := access.NewResolver(dir, organizations.StatusOf(st.Organizations()))
	evaluator := access.NewEvaluator(dir)

	// Services por módulo
	usersSvc := users.NewService(st.Users(), dir, resolver, evaluator)
	orgsSvc := organizations.NewService(st.Organizations(), resolver)
	membershipsSvc := memberships.NewService(st.Memberships(), dir, resolver, usersSvc.Exists)
	herdsSvc := herds.NewService(st.Herds(), resolver)
	accountsSvc := accounts.NewService(st.Users(), hasher, opts.TokenIssuer)
	coordinator := clients.NewCoordinator(st, hasher, clients.Options{
		CredentialLength: opts.CredentialLength,
		Logger:           log.With(map[string]any{"component": "provisioning"}),
		Observer:         opts.Metrics,
	})

	// Rutas públicas
	accounts.RegisterRoutes(r, accountsSvc)

	// Rutas autenticadas
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.AuthContext(opts.AuthVerifier))

		organizations.RegisterRoutes(pr, orgsSvc)
		memberships.RegisterRoutes(pr, membershipsSvc)
		herds.RegisterRoutes(pr, herdsSvc)
		users.RegisterRoutes(pr, usersSvc)
		clients.RegisterRoutes(pr, coordinator)
	})

	return r
}
