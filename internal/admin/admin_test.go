package admin

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rob-j-au/djtip/internal/middleware"
	"github.com/rob-j-au/djtip/internal/models"
)

type adminEnv struct {
	db      *gorm.DB
	router  *gin.Engine
	cookies []*http.Cookie
}

func setupAdminEnv(t *testing.T) *adminEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Event{}, &models.User{}, &models.Performer{}, &models.Tip{}))

	r := gin.New()
	r.LoadHTMLGlob("../../templates/*.html")
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(sessions.Sessions("djtip_session", cookie.NewStore([]byte("test-session-secret"))))

	r.GET("/admin/login", ShowLogin)
	r.POST("/admin/login", PerformLogin)
	r.GET("/admin/logout", Logout)

	guarded := r.Group("/admin")
	guarded.Use(middleware.AdminRequired())
	{
		guarded.GET("", Dashboard)
		guarded.GET("/events", EventsIndex)
		guarded.POST("/events", EventsCreate)
		guarded.GET("/users", UsersIndex)
		guarded.POST("/users/:id/delete", UsersDestroy)
		guarded.POST("/users/:id/toggle_admin", UsersToggleAdmin)
	}

	return &adminEnv{db: db, router: r}
}

func (env *adminEnv) createAdmin(t *testing.T, email, password string) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Name: "Admin", Email: email, Admin: true, PasswordHash: string(hashed)}
	require.NoError(t, env.db.Create(&user).Error)
	return user
}

func (env *adminEnv) do(t *testing.T, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range env.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if set := w.Result().Cookies(); len(set) > 0 {
		env.cookies = set
	}
	return w
}

func (env *adminEnv) login(t *testing.T, email, password string) {
	t.Helper()
	w := env.do(t, http.MethodPost, "/admin/login", url.Values{
		"email":    {email},
		"password": {password},
	})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/admin", w.Header().Get("Location"))
}

func TestAdminGuardRedirectsAnonymous(t *testing.T) {
	env := setupAdminEnv(t)

	w := env.do(t, http.MethodGet, "/admin/users", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login?alert=Access+denied.+Admin+privileges+required.", w.Header().Get("Location"))
}

func TestAdminGuardRejectsNonAdmins(t *testing.T) {
	env := setupAdminEnv(t)

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Name: "Dana", Email: "dana@example.com", PasswordHash: string(hashed)}
	require.NoError(t, env.db.Create(&user).Error)

	w := env.do(t, http.MethodPost, "/admin/login", url.Values{
		"email":    {"dana@example.com"},
		"password": {"secret123"},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminLoginAndDashboard(t *testing.T) {
	env := setupAdminEnv(t)
	env.createAdmin(t, "admin@example.com", "secret123")

	env.login(t, "admin@example.com", "secret123")

	w := env.do(t, http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	env := setupAdminEnv(t)
	env.createAdmin(t, "admin@example.com", "secret123")

	w := env.do(t, http.MethodPost, "/admin/login", url.Values{
		"email":    {"admin@example.com"},
		"password": {"wrong"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminCannotDeleteThemselves(t *testing.T) {
	env := setupAdminEnv(t)
	self := env.createAdmin(t, "admin@example.com", "secret123")
	env.login(t, "admin@example.com", "secret123")

	w := env.do(t, http.MethodPost, "/admin/users/"+self.ID.String()+"/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/users?alert="+url.QueryEscape("You cannot delete yourself."), w.Header().Get("Location"))

	var count int64
	env.db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count, "the account must survive")
}

func TestAdminCanDeleteOthers(t *testing.T) {
	env := setupAdminEnv(t)
	env.createAdmin(t, "admin@example.com", "secret123")
	other := models.User{Name: "Dana", Email: "dana@example.com"}
	require.NoError(t, env.db.Create(&other).Error)
	env.login(t, "admin@example.com", "secret123")

	w := env.do(t, http.MethodPost, "/admin/users/"+other.ID.String()+"/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)

	var count int64
	env.db.Model(&models.User{}).Where("id = ?", other.ID).Count(&count)
	assert.Zero(t, count)
}

func TestAdminCannotToggleOwnAdminFlag(t *testing.T) {
	env := setupAdminEnv(t)
	self := env.createAdmin(t, "admin@example.com", "secret123")
	env.login(t, "admin@example.com", "secret123")

	w := env.do(t, http.MethodPost, "/admin/users/"+self.ID.String()+"/toggle_admin", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), url.QueryEscape("You cannot change your own admin status."))

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, "id = ?", self.ID).Error)
	assert.True(t, reloaded.Admin, "the flag must not change")
}

func TestAdminCanToggleOthers(t *testing.T) {
	env := setupAdminEnv(t)
	env.createAdmin(t, "admin@example.com", "secret123")
	other := models.User{Name: "Dana", Email: "dana@example.com"}
	require.NoError(t, env.db.Create(&other).Error)
	env.login(t, "admin@example.com", "secret123")

	w := env.do(t, http.MethodPost, "/admin/users/"+other.ID.String()+"/toggle_admin", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t,
		"/admin/users/"+other.ID.String()+"?notice="+url.QueryEscape("Admin privileges granted."),
		w.Header().Get("Location"))

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, "id = ?", other.ID).Error)
	assert.True(t, reloaded.Admin)

	// Toggling back reports the revocation.
	w = env.do(t, http.MethodPost, "/admin/users/"+other.ID.String()+"/toggle_admin", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), url.QueryEscape("Admin privileges revoked."))

	require.NoError(t, env.db.First(&reloaded, "id = ?", other.ID).Error)
	assert.False(t, reloaded.Admin)
}

func TestEventsCreateCombinesDateAndTime(t *testing.T) {
	env := setupAdminEnv(t)
	env.createAdmin(t, "admin@example.com", "secret123")
	env.login(t, "admin@example.com", "secret123")

	w := env.do(t, http.MethodPost, "/admin/events", url.Values{
		"title":    {"Disco Night"},
		"location": {"Warehouse 5"},
		"date":     {"2026-06-15"},
		"hour":     {"9"},
		"minute":   {"30"},
		"meridiem": {"PM"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	var event models.Event
	require.NoError(t, env.db.First(&event, "title = ?", "Disco Night").Error)
	assert.Equal(t, 21, event.Date.Hour())
	assert.Equal(t, 30, event.Date.Minute())
}

func TestEventsCreateRerendersFormOnErrors(t *testing.T) {
	env := setupAdminEnv(t)
	env.createAdmin(t, "admin@example.com", "secret123")
	env.login(t, "admin@example.com", "secret123")

	w := env.do(t, http.MethodPost, "/admin/events", url.Values{
		"description": {"missing everything else"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Title can&#39;t be blank")
}
