package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"chama_fund/internal/auth"
	"chama_fund/internal/config"
	"chama_fund/internal/models"
	"chama_fund/internal/routes"
)

const testPassword = "correct-horse"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

type testEnv struct {
	db     *gorm.DB
	tokens *auth.TokenManager
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// In-memory sqlite gives every connection its own database, so the
	// pool must stay at one connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))

	tm, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	return &testEnv{db: db, tokens: tm, router: routes.SetupRouter(db, tm)}
}

func (env *testEnv) seedUser(t *testing.T, name, email string, role models.Role) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{Name: name, Email: email, Password: string(hash), Role: role}
	require.NoError(t, env.db.Create(&user).Error)

	token, err := env.tokens.Generate(user.ID, user.Role)
	require.NoError(t, err)
	return user, token
}

func (env *testEnv) seedAdmin(t *testing.T) (models.User, string) {
	return env.seedUser(t, "Head Admin", "admin@example.com", models.RoleAdmin)
}

func (env *testEnv) seedArea(t *testing.T, name string) models.Area {
	t.Helper()
	area := models.Area{Name: name}
	require.NoError(t, env.db.Create(&area).Error)
	return area
}

func (env *testEnv) seedMember(t *testing.T, name string, areaID uint, assignedTo *uint) models.Member {
	t.Helper()
	member := models.Member{
		Name:                name,
		MonthlyAmount:       100,
		AreaID:              areaID,
		AssignedAreaAdminID: assignedTo,
	}
	require.NoError(t, env.db.Create(&member).Error)
	return member
}

// do performs a request against the router and returns the recorder.
func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func paymentBody(memberID uint, month, year int) map[string]any {
	return map[string]any{
		"member_id":      memberID,
		"amount_paid":    100.0,
		"payment_method": "Cash",
		"payment_month":  month,
		"payment_year":   year,
	}
}

func itemPath(base string, id uint) string {
	return fmt.Sprintf("%s/%d", base, id)
}
