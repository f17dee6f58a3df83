package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"appointly/database/repository/memory"
	"appointly/models"
	"appointly/services/user"
	"appointly/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mapRoleCache is an in-process utils.RoleCache.
type mapRoleCache struct {
	mu    sync.Mutex
	roles map[string]models.Role
	hits  int
}

func newMapRoleCache() *mapRoleCache {
	return &mapRoleCache{roles: make(map[string]models.Role)}
}

func (c *mapRoleCache) Role(_ context.Context, userID string) (models.Role, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	role, ok := c.roles[userID]
	if ok {
		c.hits++
	}
	return role, ok
}

func (c *mapRoleCache) Remember(_ context.Context, userID string, role models.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roles[userID] = role
}

func (c *mapRoleCache) Forget(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.roles, userID)
	return nil
}

func newAuthRouter(t *testing.T, roles utils.RoleCache) (*gin.Engine, *memory.UserRepo) {
	t.Helper()
	users := memory.NewUserRepo()
	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(users, roles), func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"userId": p.UserID, "role": p.Role})
	})
	r.GET("/admin", JWTAuthMiddleware(users, roles), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, users
}

func request(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	r, users := newAuthRouter(t, nil)
	_ = users.Create(context.Background(), &models.User{ID: "u1", Email: "u1@example.com", Role: models.RoleUser})
	_ = users.Create(context.Background(), &models.User{ID: "a1", Email: "a1@example.com", Role: models.RoleAdmin})

	userToken, _ := utils.GenerateToken("u1", models.RoleUser, time.Hour)
	adminToken, _ := utils.GenerateToken("a1", models.RoleAdmin, time.Hour)
	expired, _ := utils.GenerateToken("u1", models.RoleUser, -time.Hour)
	ghost, _ := utils.GenerateToken("ghost", models.RoleUser, time.Hour)
	// A token claiming admin for a regular account must not elevate it.
	forged, _ := utils.GenerateToken("u1", models.RoleAdmin, time.Hour)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"no token", "/me", "", http.StatusUnauthorized},
		{"garbage", "/me", "not-a-jwt", http.StatusUnauthorized},
		{"expired", "/me", expired, http.StatusUnauthorized},
		{"deleted account", "/me", ghost, http.StatusUnauthorized},
		{"user", "/me", userToken, http.StatusOK},
		{"user on admin route", "/admin", userToken, http.StatusForbidden},
		{"stale admin claim", "/admin", forged, http.StatusForbidden},
		{"admin", "/admin", adminToken, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := request(r, tt.path, tt.token); w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestDemotedAdminLosesAccessImmediately(t *testing.T) {
	roles := newMapRoleCache()
	r, users := newAuthRouter(t, roles)
	ctx := context.Background()
	svc := &user.DefaultUserService{Repo: users, RoleCache: roles}

	if _, err := svc.CreateAdmin(ctx, user.RegisterInput{Name: "Ada Admin", Email: "ada@example.com", Password: "Adm1n!pass"}); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	login, err := svc.AuthenticateUser(ctx, "ada@example.com", "Adm1n!pass")
	if err != nil {
		t.Fatalf("AuthenticateUser: %v", err)
	}

	for i := 0; i < 2; i++ {
		if w := request(r, "/admin", login.Token); w.Code != http.StatusNoContent {
			t.Fatalf("admin request %d = %d", i, w.Code)
		}
	}
	if roles.hits != 1 {
		t.Fatalf("cache hits = %d, want 1", roles.hits)
	}

	if _, err := svc.SetRole(ctx, "ada@example.com", models.RoleUser); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if w := request(r, "/admin", login.Token); w.Code != http.StatusForbidden {
		t.Errorf("demoted admin = %d, want 403", w.Code)
	}
	if w := request(r, "/me", login.Token); w.Code != http.StatusOK {
		t.Errorf("demoted admin on user route = %d, want 200", w.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "10.0.0.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("other client limited: %d", w.Code)
	}
}
