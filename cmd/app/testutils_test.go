package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/nightblog/internal/blogservice"
	"github.com/sushihentaime/nightblog/internal/common"
	"github.com/sushihentaime/nightblog/internal/mediaservice"
	"github.com/sushihentaime/nightblog/internal/userservice"
)

// fakeIdentityProvider serves the provider session endpoint from an in-memory table.
type fakeIdentityProvider struct {
	mu       sync.Mutex
	sessions map[string]userservice.Identity
}

func (p *fakeIdentityProvider) add(sessionID string, identity userservice.Identity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[sessionID] = identity
}

func (p *fakeIdentityProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	identity, ok := p.sessions[r.Header.Get("X-Session-ID")]
	p.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid session"}`))
		return
	}

	json.NewEncoder(w).Encode(identity)
}

type testApplication struct {
	*application
	db  *sql.DB
	idp *fakeIdentityProvider
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *Config {
	return &Config{
		Port:           "4000",
		Environment:    "testing",
		Version:        "test",
		TrustedOrigins: []string{"https://nightblog.example.com"},
	}
}

func newTestApplication(t *testing.T) *testApplication {
	t.Helper()

	db := common.TestDB(t)
	logger := discardLogger()

	idp := &fakeIdentityProvider{sessions: map[string]userservice.Identity{}}
	idpServer := httptest.NewServer(idp)
	t.Cleanup(idpServer.Close)

	uploads, err := mediaservice.NewDiskStore(t.TempDir(), "http://localhost:4000/uploads")
	require.NoError(t, err)

	app := &application{
		config:      newTestConfig(),
		logger:      logger,
		userService: userservice.NewUserService(db, userservice.NewHTTPIdentityProvider(idpServer.URL, time.Second), uploads, nil, logger),
		blogService: blogservice.NewBlogService(db, uploads),
		uploads:     uploads,
	}

	return &testApplication{application: app, db: db, idp: idp}
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

type testRequest struct {
	method      string
	path        string
	token       string
	cookie      string
	body        io.Reader
	contentType string
}

func (ts *testServer) do(t *testing.T, tr testRequest) (int, http.Header, envelope) {
	t.Helper()

	req, err := http.NewRequest(tr.method, ts.URL+tr.path, tr.body)
	require.NoError(t, err)

	if tr.contentType != "" {
		req.Header.Set("Content-Type", tr.contentType)
	}
	if tr.token != "" {
		req.Header.Set("Authorization", "Bearer "+tr.token)
	}
	if tr.cookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: tr.cookie})
	}

	res, err := ts.Client().Do(req)
	require.NoError(t, err)

	return readResponse(t, res)
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	t.Helper()
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var env envelope
	err = json.Unmarshal(responseBody, &env)
	require.NoError(t, err, string(responseBody))

	return res.StatusCode, res.Header, env
}

func (ts *testServer) get(t *testing.T, path, token string) (int, http.Header, envelope) {
	return ts.do(t, testRequest{method: http.MethodGet, path: path, token: token})
}

func (ts *testServer) delete(t *testing.T, path, token string) (int, http.Header, envelope) {
	return ts.do(t, testRequest{method: http.MethodDelete, path: path, token: token})
}

func (ts *testServer) postForm(t *testing.T, path, token string, form url.Values) (int, http.Header, envelope) {
	return ts.do(t, testRequest{
		method:      http.MethodPost,
		path:        path,
		token:       token,
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	})
}

// multipartBody encodes fields and files as multipart/form-data.
func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	for field, content := range files {
		fw, err := mw.CreateFormFile(field, field+".png")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func (ts *testServer) sendMultipart(t *testing.T, method, path, token string, fields map[string]string, files map[string][]byte) (int, http.Header, envelope) {
	body, contentType := multipartBody(t, fields, files)
	return ts.do(t, testRequest{method: method, path: path, token: token, body: body, contentType: contentType})
}

// login signs a user in through the fake provider and returns the session token and user id.
func (ts *testServer) login(t *testing.T, app *testApplication, email, name string) (string, string) {
	t.Helper()

	sessionID := "sid-" + email
	token := "tok-" + email
	app.idp.add(sessionID, userservice.Identity{ID: email, Email: email, Name: name, SessionToken: token})

	status, _, body := ts.postForm(t, "/api/v1/auth/session", "", url.Values{"session_id": {sessionID}})
	require.Equal(t, http.StatusOK, status, body)

	user := body["user"].(map[string]any)

	return token, user["id"].(string)
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x88, A: 0xff})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}
