package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/Kariqs/storefront-api/middlewares"
	"github.com/Kariqs/storefront-api/utils"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type fakeUploader struct {
	mu      sync.Mutex
	folders []string
}

func (f *fakeUploader) Upload(_ context.Context, in utils.UploadInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := io.ReadAll(in.Body); err != nil {
		return "", err
	}
	f.folders = append(f.folders, in.Folder)
	return "https://cdn.test/" + in.Folder + "/" + in.Filename, nil
}

type testServer struct {
	t        *testing.T
	router   *gin.Engine
	uploader *fakeUploader
}

// newTestServer wires the router to a private in-memory sqlite database.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerOn(t, "file:"+uuid.NewString()+"?mode=memory&cache=shared", 1)
}

func newTestServerOn(t *testing.T, dsn string, maxConns int) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := initializers.OpenDatabase("sqlite", dsn, gormlogger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(maxConns)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, initializers.SyncDatabase(db))

	uploader := &fakeUploader{}
	initializers.DB = db
	initializers.Uploader = uploader
	initializers.Config = initializers.AppConfig{
		Env:          "test",
		JWTSecret:    "test-secret",
		JWTExpiresIn: 144 * time.Hour,
		CORSOrigins:  []string{"http://localhost:5173"},
	}

	return &testServer{t: t, router: SetupRouter(), uploader: uploader}
}

type response struct {
	*httptest.ResponseRecorder
	body map[string]any
}

func (r response) message() string {
	msg, _ := r.body["message"].(string)
	return msg
}

func (r response) data() map[string]any {
	data, _ := r.body["data"].(map[string]any)
	return data
}

func (r response) list() []any {
	items, _ := r.body["data"].([]any)
	return items
}

func (s *testServer) serve(req *http.Request, token string) response {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	res := response{ResponseRecorder: rec, body: map[string]any{}}
	if rec.Body.Len() > 0 && json.Valid(rec.Body.Bytes()) {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &res.body))
	}
	return res
}

func (s *testServer) do(method, path string, body any, token string) response {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, APIPrefix+path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.serve(req, token)
}

func (s *testServer) upload(method, path string, fields map[string]string, filename string, content []byte, token string) response {
	s.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(s.t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("image", filename)
		require.NoError(s.t, err)
		_, err = part.Write(content)
		require.NoError(s.t, err)
	}
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest(method, APIPrefix+path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return s.serve(req, token)
}

type account struct {
	id    uint
	role  string
	token string
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middlewares.SessionCookie {
			return c
		}
	}
	return nil
}

func (s *testServer) register(username, email, phone string) account {
	s.t.Helper()
	res := s.do(http.MethodPost, "/auth/register", gin.H{
		"username":    username,
		"email":       email,
		"password":    "secret123",
		"phoneNumber": phone,
	}, "")
	require.Equal(s.t, http.StatusCreated, res.Code, res.Body.String())

	cookie := sessionCookie(res.ResponseRecorder)
	require.NotNil(s.t, cookie)
	data := res.data()
	return account{id: idOf(data), role: data["role"].(string), token: cookie.Value}
}

func (s *testServer) createProduct(owner account, name string, price float64) uint {
	s.t.Helper()
	res := s.do(http.MethodPost, "/product", gin.H{
		"name":        name,
		"price":       price,
		"description": "A fine " + name,
		"category":    "shirt",
		"stock":       10,
	}, owner.token)
	require.Equal(s.t, http.StatusCreated, res.Code, res.Body.String())
	return idOf(res.data())
}

func idOf(m map[string]any) uint {
	id, _ := m["id"].(float64)
	return uint(id)
}

func (s *testServer) dbCount(model any, count *int64) {
	s.t.Helper()
	require.NoError(s.t, initializers.DB.Model(model).Count(count).Error)
}
