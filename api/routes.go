package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ayavuzer/manushotspot/api/handlers"
	"github.com/Ayavuzer/manushotspot/core/rbac"
)

func (s *Server) registerRoutes() {
	s.router.Use(s.recoverMiddleware)
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)

	h := &handlers.API{
		Auth:        s.authSvc,
		Orgs:        s.orgs,
		Users:       s.users,
		Roles:       s.roles,
		Firewalls:   s.firewalls,
		Logs:        s.logs,
		PMS:         s.pms,
		AuthMethods: s.authMethods,
		Publisher:   s.publisher,
		Logger:      s.logger,
	}

	apiRouter := chi.NewRouter()
	apiRouter.Use(s.jsonMiddleware)

	// guarded builds the standard chain: token, permission, tenant scope.
	guarded := func(perm string, fn http.HandlerFunc) http.HandlerFunc {
		return s.authenticate(s.requirePermission(perm)(s.restrictToOrganization(fn)))
	}

	apiRouter.Post("/auth/login", h.Login)
	apiRouter.Post("/auth/refresh-token", h.RefreshToken)
	apiRouter.Post("/auth/register", h.Register)
	apiRouter.Post("/auth/logout", s.authenticate(h.Logout))
	apiRouter.Get("/auth/profile", s.authenticate(h.Profile))
	apiRouter.Put("/auth/password", s.authenticate(h.ChangePassword))

	apiRouter.Get("/organizations", guarded(rbac.PermOrganizationView, h.ListOrganizations))
	apiRouter.Post("/organizations", guarded(rbac.PermOrganizationCreate, h.CreateOrganization))
	apiRouter.Get("/organizations/{id}", guarded(rbac.PermOrganizationView, h.GetOrganization))
	apiRouter.Put("/organizations/{id}", guarded(rbac.PermOrganizationEdit, h.UpdateOrganization))
	apiRouter.Delete("/organizations/{id}", s.authenticate(s.requirePermission(rbac.PermOrganizationDelete)(h.DeleteOrganization)))
	apiRouter.Get("/organizations/{id}/users", guarded(rbac.PermUserView, h.ListOrganizationUsers))
	apiRouter.Get("/organizations/{id}/auth-methods", guarded(rbac.PermOrganizationView, h.ListOrganizationAuthMethods))
	apiRouter.Post("/organizations/{id}/auth-methods", guarded(rbac.PermOrganizationEdit, h.UpsertOrganizationAuthMethod))

	apiRouter.Get("/users", guarded(rbac.PermUserView, h.ListUsers))
	apiRouter.Post("/users", guarded(rbac.PermUserCreate, h.CreateUser))
	apiRouter.Get("/users/{id}", guarded(rbac.PermUserView, h.GetUser))
	apiRouter.Put("/users/{id}", guarded(rbac.PermUserEdit, h.UpdateUser))
	apiRouter.Delete("/users/{id}", guarded(rbac.PermUserDelete, h.DeleteUser))

	apiRouter.Post("/user-organizations/assign", s.authenticate(s.requirePermission(rbac.PermAssignUserToOrganization)(h.AssignUserToOrganization)))
	apiRouter.Get("/user-organizations/{userId}", s.authenticate(s.requirePermission(rbac.PermUserView)(h.GetUserOrganization)))
	apiRouter.Delete("/user-organizations/{userId}", s.authenticate(s.requirePermission(rbac.PermAssignUserToOrganization)(h.RemoveUserFromOrganization)))

	apiRouter.Get("/roles", s.authenticate(s.requirePermission(rbac.PermUserView)(h.ListRoles)))
	apiRouter.Get("/permissions", s.authenticate(s.requirePermission(rbac.PermUserView)(h.ListPermissions)))

	apiRouter.Get("/firewalls", guarded(rbac.PermFirewallView, h.ListFirewalls))
	apiRouter.Post("/firewalls", guarded(rbac.PermFirewallCreate, h.CreateFirewall))
	apiRouter.Get("/firewalls/{id}", guarded(rbac.PermFirewallView, h.GetFirewall))
	apiRouter.Put("/firewalls/{id}", guarded(rbac.PermFirewallEdit, h.UpdateFirewall))
	apiRouter.Delete("/firewalls/{id}", guarded(rbac.PermFirewallDelete, h.DeleteFirewall))
	apiRouter.Post("/firewalls/{id}/test-connection", guarded(rbac.PermFirewallEdit, h.TestFirewallConnection))
	apiRouter.Get("/firewall-types", guarded(rbac.PermFirewallView, h.ListFirewallTypes))

	apiRouter.Get("/firewall-logs", guarded(rbac.PermLogView, h.ListFirewallLogs))
	apiRouter.Post("/firewall-logs", guarded(rbac.PermLogView, h.AddFirewallLog))
	apiRouter.Get("/firewall-logs/export", guarded(rbac.PermLogExport, h.ExportFirewallLogs))

	apiRouter.Get("/pms-integrations", guarded(rbac.PermOrganizationView, h.ListPMSIntegrations))
	apiRouter.Post("/pms-integrations", guarded(rbac.PermOrganizationEdit, h.CreatePMSIntegration))
	apiRouter.Put("/pms-integrations/{id}", guarded(rbac.PermOrganizationEdit, h.UpdatePMSIntegration))
	apiRouter.Delete("/pms-integrations/{id}", guarded(rbac.PermOrganizationEdit, h.DeletePMSIntegration))

	apiRouter.Get("/auth-methods", s.authenticate(s.requirePermission(rbac.PermOrganizationView)(h.ListAuthMethods)))

	s.router.Mount(s.cfg.APIPrefix, apiRouter)
}
