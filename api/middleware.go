package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/Ayavuzer/manushotspot/api/handlers"
	"github.com/Ayavuzer/manushotspot/core/auth"
)

const requestIDHeader = "X-Request-ID"

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if s.logger != nil {
					s.logger.Errorf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				}
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			if v, err := uuid.NewV4(); err == nil {
				id = v.String()
			}
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.requestCounter.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		if s.logger != nil {
			user := "-"
			if p, ok := auth.PrincipalFromContext(r.Context()); ok {
				user = p.Username
			}
			s.logger.Printf("RESP %s %s user=%s status=%d dur=%s bytes=%d",
				r.Method, r.URL.Path, user, rec.status, time.Since(start), rec.size)
		}
	})
}

func (s *Server) jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// authenticate validates the Bearer token and puts the principal on the
// request context. Claims identify the user; permissions are still resolved
// from the database per request.
func (s *Server) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(w, http.StatusUnauthorized, "authorization token required")
			return
		}
		claims, err := s.issuer.ParseAccessToken(strings.TrimSpace(token))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		p := &auth.Principal{
			UserID:         claims.ID,
			Username:       claims.Username,
			Email:          claims.Email,
			RoleID:         claims.RoleID,
			IsSuperAdmin:   claims.IsSuperAdmin,
			OrganizationID: claims.OrganizationID,
		}
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
	}
}

func (s *Server) requirePermission(perm string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "authorization token required")
				return
			}
			allowed, err := s.resolver.HasPermission(r.Context(), p.UserID, perm)
			if err != nil {
				if s.logger != nil {
					s.logger.Errorf("permission check %s for user %d: %v", perm, p.UserID, err)
				}
				writeError(w, http.StatusInternalServerError, "permission check failed")
				return
			}
			if !allowed {
				if s.logger != nil {
					s.logger.Printf("PERM fail %s %s user=%s need=%s", r.Method, r.URL.Path, p.Username, perm)
				}
				writeError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		}
	}
}

// restrictToOrganization derives the tenant scope for the request. Super
// admins are unrestricted and may narrow the view with ?organization_id.
// Everyone else is pinned to their own organization; naming a different one
// explicitly is rejected rather than silently overridden.
func (s *Server) restrictToOrganization(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "authorization token required")
			return
		}
		requested, badParam := parseOrgParam(r)
		if badParam {
			writeError(w, http.StatusBadRequest, "invalid organization_id")
			return
		}
		var scope *int64
		if p.IsSuperAdmin {
			scope = requested
		} else {
			if p.OrganizationID == nil {
				writeError(w, http.StatusForbidden, "no organization assigned")
				return
			}
			if requested != nil && *requested != *p.OrganizationID {
				writeError(w, http.StatusForbidden, "access to this organization is not allowed")
				return
			}
			scope = p.OrganizationID
		}
		next.ServeHTTP(w, r.WithContext(handlers.WithOrgScope(r.Context(), scope)))
	}
}

func parseOrgParam(r *http.Request) (*int64, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("organization_id"))
	if raw == "" {
		return nil, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, true
	}
	return &id, false
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
