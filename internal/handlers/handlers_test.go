package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rob-j-au/djtip/internal/middleware"
	"github.com/rob-j-au/djtip/internal/models"
	"github.com/rob-j-au/djtip/internal/uploads"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Event{}, &models.User{}, &models.Performer{}, &models.Tip{}))
	return db
}

// fakeScheduler records scheduled jobs instead of running them, so tests
// can assert on the scheduling side-effects of a request.
type fakeScheduler struct {
	promotions    []uuid.UUID
	destructions  [][]string
	notifications []uuid.UUID
}

func (f *fakeScheduler) SchedulePromotion(entity string, recordID uuid.UUID) error {
	f.promotions = append(f.promotions, recordID)
	return nil
}

func (f *fakeScheduler) ScheduleDestruction(paths []string) error {
	f.destructions = append(f.destructions, paths)
	return nil
}

func (f *fakeScheduler) ScheduleTipNotification(tipID uuid.UUID) error {
	f.notifications = append(f.notifications, tipID)
	return nil
}

type testEnv struct {
	db        *gorm.DB
	store     *uploads.Store
	scheduler *fakeScheduler
	router    *gin.Engine
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	base := t.TempDir()
	store := uploads.NewStore(base+"/cache", base+"/store", "test-secret")
	scheduler := &fakeScheduler{}

	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.StoreMiddleware(store))
	r.Use(middleware.SchedulerMiddleware(scheduler))

	r.GET("/v1/events", ListEvents)
	r.POST("/v1/events", CreateEvent)
	r.GET("/v1/events/:id", GetEvent)
	r.PUT("/v1/events/:id", UpdateEvent)
	r.DELETE("/v1/events/:id", DeleteEvent)
	r.GET("/v1/events/:id/qr", EventQR)
	r.GET("/v1/events/:id/tips", withEventID(ListEventTips))
	r.POST("/v1/events/:id/tips", withEventID(CreateEventTip))

	r.GET("/v1/users", ListUsers)
	r.POST("/v1/users", CreateUser)
	r.GET("/v1/users/:id", GetUser)
	r.PUT("/v1/users/:id", UpdateUser)
	r.DELETE("/v1/users/:id", DeleteUser)
	r.POST("/v1/users/:id/image", UploadUserImage)
	r.DELETE("/v1/users/:id/image", DeleteUserImage)

	r.GET("/v1/performers", ListPerformers)
	r.POST("/v1/performers", CreatePerformer)
	r.GET("/v1/performers/:id", GetPerformer)
	r.PUT("/v1/performers/:id", UpdatePerformer)
	r.DELETE("/v1/performers/:id", DeletePerformer)

	r.GET("/v1/tips/:id", GetTip)
	r.PUT("/v1/tips/:id", UpdateTip)
	r.DELETE("/v1/tips/:id", DeleteTip)

	r.POST("/v1/register", Register)
	r.POST("/v1/login", Login)
	r.GET("/up", Health)
	r.GET("/uploads/*path", ServeUpload)

	return &testEnv{db: db, store: store, scheduler: scheduler, router: r}
}

// Tip routes nest under the events group, which registers them with the
// :id param; this mirrors the production route shim.
func withEventID(handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Params = append(c.Params, gin.Param{Key: "event_id", Value: c.Param("id")})
		handler(c)
	}
}

func (env *testEnv) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (env *testEnv) createEvent(t *testing.T, title string, date time.Time) models.Event {
	t.Helper()
	event := models.Event{Title: title, Date: date, Location: "Warehouse"}
	require.NoError(t, env.db.Create(&event).Error)
	return event
}

func (env *testEnv) createUser(t *testing.T, name, email string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: email}
	require.NoError(t, env.db.Create(&user).Error)
	return user
}

func (env *testEnv) createTip(t *testing.T, amount float64, eventID, userID uuid.UUID) models.Tip {
	t.Helper()
	tip := models.Tip{Amount: amount, EventID: eventID, UserID: userID}
	require.NoError(t, env.db.Create(&tip).Error)
	return tip
}

func pngUpload(t *testing.T, fieldFilename string) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for x := 0; x < 400; x++ {
		for y := 0; y < 300; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 60, A: 255})
		}
	}
	var content bytes.Buffer
	require.NoError(t, png.Encode(&content, img))
	return multipartBody(t, fieldFilename, content.Bytes())
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func (env *testEnv) upload(t *testing.T, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}
