package server

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"yatube/internal/config"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/service"
	"yatube/internal/storage"
	"yatube/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "Quiet-River-2024"

type testEnv struct {
	t     *testing.T
	cfg   *config.Config
	srv   *Server
	app   *fiber.App
	db    *gorm.DB
	mr    *miniredis.Miniredis
	media *storage.LocalStore
}

type envOption func(*config.Config)

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	cfg := testutil.TestConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	db := testutil.NewTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	media, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	srv, err := NewServerWithDeps(cfg, db, rdb, media)
	require.NoError(t, err)
	srv.userService = service.NewUserServiceWithCost(srv.userRepo, bcrypt.MinCost)

	return &testEnv{t: t, cfg: cfg, srv: srv, app: srv.App(), db: db, mr: mr, media: media}
}

func (e *testEnv) user(username string) *models.User {
	e.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(e.t, err)
	u := &models.User{Username: username, Password: string(hash)}
	require.NoError(e.t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) admin(username string) *models.User {
	e.t.Helper()
	u := e.user(username)
	require.NoError(e.t, e.db.Model(u).Update("is_admin", true).Error)
	u.IsAdmin = true
	return u
}

func (e *testEnv) group(slug string) *models.Group {
	e.t.Helper()
	g := &models.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug}
	require.NoError(e.t, e.db.Create(g).Error)
	return g
}

func (e *testEnv) post(author *models.User, group *models.Group, text string) *models.Post {
	e.t.Helper()
	p := &models.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(e.t, e.db.Create(p).Error)
	return p
}

// posts creates n posts with increasing publication dates.
func (e *testEnv) posts(author *models.User, group *models.Group, n int) {
	e.t.Helper()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < n; i++ {
		p := &models.Post{Text: "post number " + strings.Repeat("x", i), AuthorID: author.ID, PubDate: base.Add(time.Duration(i) * time.Second)}
		if group != nil {
			p.GroupID = &group.ID
		}
		require.NoError(e.t, e.db.Create(p).Error)
	}
}

func (e *testEnv) count(model interface{}, query string, args ...interface{}) int64 {
	e.t.Helper()
	var n int64
	tx := e.db.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	require.NoError(e.t, tx.Count(&n).Error)
	return n
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	as          *models.User
	cookies     []*http.Cookie
}

func (e *testEnv) do(r request) (*http.Response, string) {
	e.t.Helper()
	if r.method == "" {
		r.method = http.MethodGet
	}
	req := httptest.NewRequest(r.method, r.path, r.body)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.as != nil {
		token, err := e.srv.sessions.Token(r.as, time.Now())
		require.NoError(e.t, err)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	_ = resp.Body.Close()
	return resp, string(body)
}

func (e *testEnv) get(path string, as *models.User) (*http.Response, string) {
	return e.do(request{path: path, as: as})
}

func (e *testEnv) postForm(path string, values url.Values, as *models.User) (*http.Response, string) {
	return e.do(request{
		method:      http.MethodPost,
		path:        path,
		body:        strings.NewReader(values.Encode()),
		contentType: fiber.MIMEApplicationForm,
		as:          as,
	})
}

type upload struct {
	filename string
	data     []byte
}

func (e *testEnv) postMultipart(path string, values map[string]string, file *upload, as *models.User) (*http.Response, string) {
	e.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range values {
		require.NoError(e.t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile("image", file.filename)
		require.NoError(e.t, err)
		_, err = part.Write(file.data)
		require.NoError(e.t, err)
	}
	require.NoError(e.t, w.Close())

	return e.do(request{
		method:      http.MethodPost,
		path:        path,
		body:        &body,
		contentType: w.FormDataContentType(),
		as:          as,
	})
}

func postCards(body string) int {
	return strings.Count(body, `<article class="post">`)
}
