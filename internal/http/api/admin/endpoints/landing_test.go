package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/fancard/internal/db"
	"github.com/Nixie-Tech-LLC/fancard/internal/gateway"
	"github.com/Nixie-Tech-LLC/fancard/internal/http/api"
	"github.com/Nixie-Tech-LLC/fancard/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/fancard/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/fancard/internal/model"
)

const jwtSecret = "supersecret"

type fixture struct {
	store  *db.MemoryStore
	pages  *gateway.Gateway
	router *gin.Engine
	album  *model.Album
	token  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := db.NewMemoryStore()
	pages := gateway.New(store)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: jwtSecret,
		Users:     store,
	},
		LandingModule(store, pages),
		MediaModule(store),
		EditorModule(store, pages, nil),
	)

	store.AddUser(1, "artist@example.com")
	store.AddUser(2, "someone@example.com")
	album := store.AddAlbum(1, "Debut")

	return &fixture{store: store, pages: pages, router: r, album: album, token: tokenFor(t, 1)}
}

func tokenFor(t *testing.T, userID int) string {
	t.Helper()
	token, err := middleware.GenerateJWT(userID, jwtSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func (f *fixture) do(method, path, token string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) pagePath() string {
	return "/api/admin/albums/" + f.album.ID + "/landing-page"
}

func textDocument(albumID string) model.Document {
	doc := model.NewDocument(albumID, "Debut Landing Page")
	doc.Elements = []model.Element{{
		ID:         "a",
		Type:       model.ElementText,
		Position:   model.Position{X: 50, Y: 50},
		Size:       model.Size{Width: 200, Height: 100},
		Properties: model.TextProperties{Content: "Out now", FontSize: 16, FontWeight: "normal"},
	}}
	return doc
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestRequiresToken(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/api/admin/palette", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPalette(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/api/admin/palette", f.token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Elements []struct {
			Type  string `json:"type"`
			Label string `json:"label"`
		} `json:"elements"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Elements, 5)
	assert.Equal(t, "text", resp.Elements[0].Type)
	assert.Equal(t, "button", resp.Elements[4].Type)
}

func TestGetLandingPageDefault(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, f.pagePath(), f.token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp packets.LandingPageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Persisted)
	assert.Empty(t, resp.Document.ID)
	assert.Equal(t, f.album.ID, resp.Document.AlbumID)
	assert.Equal(t, "Debut Landing Page", resp.Document.Title)
	assert.Equal(t, model.DefaultTheme(), resp.Document.Theme)
	assert.Empty(t, resp.Document.Elements)

	// nothing was written by the read
	stored, err := f.store.FindLandingPageByAlbum(context.Background(), f.album.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSaveThenPublish(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPut, f.pagePath(), f.token, mustJSON(t, textDocument(f.album.ID)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var saved packets.SaveLandingPageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	require.NotEmpty(t, saved.ID)

	w = f.do(http.MethodGet, f.pagePath(), f.token, nil)
	var got packets.LandingPageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Persisted)
	assert.Equal(t, saved.ID, got.Document.ID)
	require.Len(t, got.Document.Elements, 1)
	assert.Equal(t, model.TextProperties{Content: "Out now", FontSize: 16, FontWeight: "normal"}, got.Document.Elements[0].Properties)

	for i := 0; i < 2; i++ {
		w = f.do(http.MethodPut, "/api/admin/landing-pages/"+saved.ID+"/published", f.token, []byte(`{"is_published":true}`))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"id":"`+saved.ID+`","is_published":true}`, w.Body.String())
	}

	pub, err := f.pages.LoadPublished(context.Background(), f.album.ID)
	require.NoError(t, err)
	require.NotNil(t, pub)
	assert.Equal(t, saved.ID, pub.ID)
}

func TestSaveRejectsInvalidDocuments(t *testing.T) {
	f := newFixture(t)

	negative := textDocument(f.album.ID)
	negative.Elements[0].Position = model.Position{X: -1, Y: 0}
	w := f.do(http.MethodPut, f.pagePath(), f.token, mustJSON(t, negative))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	untitled := textDocument(f.album.ID)
	untitled.Title = "  "
	w = f.do(http.MethodPut, f.pagePath(), f.token, mustJSON(t, untitled))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title")

	other := textDocument("1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	w = f.do(http.MethodPut, f.pagePath(), f.token, mustJSON(t, other))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	stored, err := f.store.FindLandingPageByAlbum(context.Background(), f.album.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestOtherArtistIsForbidden(t *testing.T) {
	f := newFixture(t)
	other := tokenFor(t, 2)

	w := f.do(http.MethodGet, f.pagePath(), other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	id, err := f.pages.Save(context.Background(), textDocument(f.album.ID))
	require.NoError(t, err)
	w = f.do(http.MethodPut, "/api/admin/landing-pages/"+id+"/published", other, []byte(`{"is_published":true}`))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodGet, "/api/admin/albums/not-a-uuid/landing-page", f.token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewModes(t *testing.T) {
	f := newFixture(t)
	body := mustJSON(t, textDocument(f.album.ID))

	w := f.do(http.MethodPost, f.pagePath()+"/preview", f.token, body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Out now")
	assert.NotContains(t, w.Body.String(), "data-element-id")

	w = f.do(http.MethodPost, f.pagePath()+"/preview?mode=editor&selected=a", f.token, body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Out now")
	assert.Contains(t, w.Body.String(), `data-element-id="a"`)
	assert.Contains(t, w.Body.String(), "fc-selected")
}

func TestListMedia(t *testing.T) {
	f := newFixture(t)
	f.store.AddTrack(f.album.ID, model.Track{ID: "t1", Title: "Opening", FileURL: "https://cdn.example.com/t1.mp3"})
	f.store.AddVideo(1, model.Video{ID: "v1", Title: "Live", FileURL: "https://cdn.example.com/v1.mp4"})

	w := f.do(http.MethodGet, "/api/admin/albums/"+f.album.ID+"/media", f.token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp packets.MediaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Tracks, 1)
	require.Len(t, resp.Videos, 1)
	assert.Equal(t, "t1", resp.Tracks[0].ID)
	assert.Equal(t, "v1", resp.Videos[0].ID)
}
