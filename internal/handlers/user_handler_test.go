package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rob-j-au/djtip/internal/models"
)

func TestCreateUser(t *testing.T) {
	env := setupEnv(t)

	w := env.request(t, http.MethodPost, "/v1/users", map[string]interface{}{
		"name":     "Dana",
		"email":    "dana@example.com",
		"password": "secret123",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Dana", body["name"])
	assert.NotContains(t, w.Body.String(), "secret123")
	assert.NotContains(t, w.Body.String(), "password")
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	env := setupEnv(t)
	env.createUser(t, "Dana", "dana@example.com")

	w := env.request(t, http.MethodPost, "/v1/users", map[string]interface{}{
		"name":  "Other Dana",
		"email": "dana@example.com",
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Failed to create user", body["error"])
	details := body["details"].([]interface{})
	assert.Contains(t, details, "Email has already been taken")
}

func TestCreateUserAttachesToEvent(t *testing.T) {
	env := setupEnv(t)
	event := env.createEvent(t, "Disco Night", time.Now())

	w := env.request(t, http.MethodPost, "/v1/users", map[string]interface{}{
		"name":     "Dana",
		"email":    "dana@example.com",
		"event_id": event.ID.String(),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var joinCount int64
	env.db.Table("event_users").Where("event_id = ?", event.ID).Count(&joinCount)
	assert.Equal(t, int64(1), joinCount)
}

func TestUploadUserImage(t *testing.T) {
	env := setupEnv(t)
	user := env.createUser(t, "Dana", "dana@example.com")

	body, contentType := pngUpload(t, "avatar.png")
	w := env.upload(t, "/v1/users/"+user.ID.String()+"/image", body, contentType)

	require.Equal(t, http.StatusAccepted, w.Code)

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, "id = ?", user.ID).Error)
	assert.True(t, strings.HasPrefix(reloaded.ImageOriginal, "cache/"))
	assert.Equal(t, models.ImageStatusPending, reloaded.ImageStatus)
	assert.Empty(t, reloaded.ImageThumb)

	require.Len(t, env.scheduler.promotions, 1)
	assert.Equal(t, user.ID, env.scheduler.promotions[0])
	assert.Empty(t, env.scheduler.destructions, "first upload has no old files to destroy")
}

func TestUploadUserImageReplacesOld(t *testing.T) {
	env := setupEnv(t)
	user := env.createUser(t, "Dana", "dana@example.com")
	require.NoError(t, env.db.Model(&user).Updates(map[string]interface{}{
		"image_original": "store/old.jpg",
		"image_thumb":    "store/old_thumb.jpg",
		"image_medium":   "store/old_medium.jpg",
		"image_status":   models.ImageStatusStored,
	}).Error)

	body, contentType := pngUpload(t, "avatar.png")
	w := env.upload(t, "/v1/users/"+user.ID.String()+"/image", body, contentType)
	require.Equal(t, http.StatusAccepted, w.Code)

	require.Len(t, env.scheduler.destructions, 1)
	assert.Equal(t, []string{"store/old.jpg", "store/old_thumb.jpg", "store/old_medium.jpg"}, env.scheduler.destructions[0])
}

func TestUploadUserImageRejectsNonImage(t *testing.T) {
	env := setupEnv(t)
	user := env.createUser(t, "Dana", "dana@example.com")

	body, contentType := multipartBody(t, "notes.txt", []byte("plain text, not pixels"))
	w := env.upload(t, "/v1/users/"+user.ID.String()+"/image", body, contentType)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "Failed to attach image", resp["error"])
	details := resp["details"].([]interface{})
	assert.Contains(t, details, "Image type must be one of: image/jpeg, image/png, image/gif")

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Empty(t, reloaded.ImageOriginal)
	assert.Empty(t, env.scheduler.promotions)
}

func TestUploadUserImageRejectsOversized(t *testing.T) {
	env := setupEnv(t)
	user := env.createUser(t, "Dana", "dana@example.com")

	content := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 5*1024*1024)...)
	body, contentType := multipartBody(t, "huge.png", content)
	w := env.upload(t, "/v1/users/"+user.ID.String()+"/image", body, contentType)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "Failed to attach image", resp["error"])
	details := resp["details"].([]interface{})
	assert.Contains(t, details, "Image is too large (max is 5MB)")

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Empty(t, reloaded.ImageOriginal, "nothing is attached")
}

func TestDeleteUserImage(t *testing.T) {
	env := setupEnv(t)
	user := env.createUser(t, "Dana", "dana@example.com")
	require.NoError(t, env.db.Model(&user).Updates(map[string]interface{}{
		"image_original": "store/old.jpg",
		"image_thumb":    "store/old_thumb.jpg",
		"image_medium":   "store/old_medium.jpg",
		"image_status":   models.ImageStatusStored,
	}).Error)

	w := env.request(t, http.MethodDelete, "/v1/users/"+user.ID.String()+"/image", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Empty(t, reloaded.ImageOriginal)
	assert.Empty(t, reloaded.ImageStatus)

	require.Len(t, env.scheduler.destructions, 1)
	assert.Equal(t, []string{"store/old.jpg", "store/old_thumb.jpg", "store/old_medium.jpg"}, env.scheduler.destructions[0])
}

func TestDeleteUserImageWithoutAttachment(t *testing.T) {
	env := setupEnv(t)
	user := env.createUser(t, "Dana", "dana@example.com")

	w := env.request(t, http.MethodDelete, "/v1/users/"+user.ID.String()+"/image", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, env.scheduler.destructions)
}

func TestDeleteUserSchedulesFileCleanup(t *testing.T) {
	env := setupEnv(t)
	event := env.createEvent(t, "Disco Night", time.Now())
	user := env.createUser(t, "Dana", "dana@example.com")
	require.NoError(t, env.db.Model(&event).Association("Users").Append(&user))
	require.NoError(t, env.db.Model(&user).Updates(map[string]interface{}{
		"image_original": "store/old.jpg",
		"image_status":   models.ImageStatusStored,
	}).Error)

	w := env.request(t, http.MethodDelete, "/v1/users/"+user.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	env.db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count)
	assert.Zero(t, count)

	var joinCount int64
	env.db.Table("event_users").Where("user_id = ?", user.ID).Count(&joinCount)
	assert.Zero(t, joinCount)

	require.Len(t, env.scheduler.destructions, 1)
	assert.Equal(t, "store/old.jpg", env.scheduler.destructions[0][0])
}

func TestGetUserNotFound(t *testing.T) {
	env := setupEnv(t)

	w := env.request(t, http.MethodGet, "/v1/users/00000000-0000-0000-0000-000000000000", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "Resource not found"}`, w.Body.String())
}
