package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Ayavuzer/manushotspot/config"
	"github.com/Ayavuzer/manushotspot/core/auth"
	"github.com/Ayavuzer/manushotspot/core/broker"
	"github.com/Ayavuzer/manushotspot/core/cache"
	"github.com/Ayavuzer/manushotspot/core/rbac"
	"github.com/Ayavuzer/manushotspot/core/store"
	"github.com/Ayavuzer/manushotspot/core/utils"
)

type Server struct {
	cfg        *config.AppConfig
	router     *chi.Mux
	httpServer *http.Server
	logger     *utils.Logger
	db         *sql.DB

	orgs        store.OrganizationsStore
	users       store.UsersStore
	roles       store.RolesStore
	firewalls   store.FirewallsStore
	logs        store.FirewallLogsStore
	pms         store.PMSIntegrationsStore
	authMethods store.AuthMethodsStore

	encryptor *utils.Encryptor
	issuer    *auth.TokenIssuer
	authSvc   *auth.Service
	resolver  *rbac.Resolver
	refresh   *cache.RefreshTokenStore
	publisher broker.Publisher

	rbacStop func()

	requestCounter *prometheus.CounterVec
}

func NewServer(cfg *config.AppConfig, db *sql.DB, refresh *cache.RefreshTokenStore, publisher broker.Publisher, logger *utils.Logger) (*Server, error) {
	encryptor, err := utils.NewEncryptorFromString(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}
	users := store.NewUsersStore(db)
	roles := store.NewRolesStore(db)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	resolver, err := rbac.NewResolver(users, roles, logger)
	if err != nil {
		return nil, err
	}
	if err := resolver.Sync(context.Background()); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:         cfg,
		router:      chi.NewRouter(),
		logger:      logger,
		db:          db,
		orgs:        store.NewOrganizationsStore(db),
		users:       users,
		roles:       roles,
		firewalls:   store.NewFirewallsStore(db, encryptor),
		logs:        store.NewFirewallLogsStore(db),
		pms:         store.NewPMSIntegrationsStore(db, encryptor),
		authMethods: store.NewAuthMethodsStore(db, encryptor),
		encryptor:   encryptor,
		issuer:      issuer,
		authSvc:     auth.NewService(users, roles, issuer, refresh, cfg.Pepper, rbac.RoleUser, logger),
		resolver:    resolver,
		refresh:     refresh,
		publisher:   publisher,
		requestCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hotspot_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
	}
	s.registerRoutes()
	s.registerObservabilityRoutes()
	return s, nil
}

func (s *Server) Start() error {
	stop, err := s.resolver.StartResync(context.Background(), s.cfg.RBAC.ResyncSpec)
	if err != nil {
		return err
	}
	s.rbacStop = stop

	s.httpServer = &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	if s.logger != nil {
		s.logger.Printf("listening on %s", s.cfg.ListenAddr)
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.rbacStop != nil {
		s.rbacStop()
	}
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
