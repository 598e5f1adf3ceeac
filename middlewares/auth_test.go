// file: middlewares/auth_test.go
package middlewares

import (
	"NovaCTF/config"
	"NovaCTF/database"
	"NovaCTF/models"
	"NovaCTF/utils"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) {
	t.Helper()
	config.Load()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db
}

func makeUser(t *testing.T, role models.UserRole, status models.UserStatus) (models.User, string) {
	t.Helper()
	user := models.User{
		Username: "u-" + string(role) + "-" + string(status),
		Password: "password-123",
		Email:    string(role) + string(status) + "@example.com",
		Role:     role,
		Status:   status,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := utils.GenerateToken(user)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return user, token
}

func protectedRouter(roles ...models.UserRole) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{JWTAuthMiddleware()}
	if len(roles) > 0 {
		handlers = append(handlers, RoleAuthMiddleware(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	r.GET("/protected", handlers...)
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMissingHeader(t *testing.T) {
	setupAuthTest(t)
	w := doRequest(protectedRouter(), "")
	if body := w.Body.String(); !strings.Contains(body, `"code":4001`) {
		t.Fatalf("expected 4001 envelope, got %s", body)
	}
}

func TestAuthValidToken(t *testing.T) {
	setupAuthTest(t)
	_, token := makeUser(t, models.RoleUser, models.StatusActive)
	w := doRequest(protectedRouter(), token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"user_id":`) {
		t.Fatalf("missing user id in %s", w.Body.String())
	}
}

func TestAuthBannedUserRejected(t *testing.T) {
	setupAuthTest(t)
	_, token := makeUser(t, models.RoleUser, models.StatusBanned)
	w := doRequest(protectedRouter(), token)
	if !strings.Contains(w.Body.String(), `"code":2005`) {
		t.Fatalf("expected banned rejection, got %s", w.Body.String())
	}
}

// The role gate reads the role freshly loaded from the database, so demoting
// an admin takes effect on their very next request even with an old token.
func TestRoleDerivedFromStoreNotToken(t *testing.T) {
	setupAuthTest(t)
	user, token := makeUser(t, models.RoleAdmin, models.StatusActive)

	r := protectedRouter(models.RoleAdmin)
	if w := doRequest(r, token); w.Code != http.StatusOK {
		t.Fatalf("admin rejected: %d", w.Code)
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("role", models.RoleUser).Error; err != nil {
		t.Fatalf("demote: %v", err)
	}
	if w := doRequest(r, token); w.Code != http.StatusForbidden {
		t.Fatalf("demoted admin still passes with old token: %d", w.Code)
	}
}

func TestRootAdminPassesAllGates(t *testing.T) {
	setupAuthTest(t)
	_, token := makeUser(t, models.RoleRootAdmin, models.StatusActive)
	if w := doRequest(protectedRouter(models.RoleAdmin), token); w.Code != http.StatusOK {
		t.Fatalf("root_admin rejected: %d", w.Code)
	}
}

