package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pawmart/pawmart/internal/api"
	"github.com/pawmart/pawmart/internal/auth"
	"github.com/pawmart/pawmart/internal/gate"
	"github.com/pawmart/pawmart/internal/store"
	"github.com/pawmart/pawmart/internal/testutil"
)

// fakeAssets is an in-memory asset store. Deletes for URLs in failOn fail,
// which lets tests exercise the best-effort cleanup path.
type fakeAssets struct {
	mu      sync.Mutex
	stored  map[string][]byte
	deleted []string
	failOn  map[string]bool
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{stored: map[string][]byte{}, failOn: map[string]bool{}}
}

func (f *fakeAssets) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored["/uploads/"+key] = b
	return "/uploads/" + key, nil
}

func (f *fakeAssets) Delete(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[url] {
		return errors.New("backend unavailable")
	}
	delete(f.stored, url)
	f.deleted = append(f.deleted, url)
	return nil
}

// testEnv wires the full router against an in-memory database, served over
// httptest so the session cookie round-trips like production.
type testEnv struct {
	Server   *httptest.Server
	Client   *http.Client
	Users    *store.UserStore
	Pets     *store.PetStore
	Products *store.ProductStore
	Assets   *fakeAssets
}

func newTestEnv(t *testing.T, allowAnonymous bool) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	users := store.NewUserStore(db)
	pets := store.NewPetStore(db)
	products := store.NewProductStore(db)
	fa := newFakeAssets()

	sessions := auth.NewSessionManager(db, "sqlite3", time.Hour, false)
	mw := auth.NewMiddleware(sessions, users)

	router := api.NewRouter(api.Deps{
		Sessions:       sessions,
		AuthHandlers:   nil,
		AuthMW:         mw,
		Pets:           pets,
		Products:       products,
		Gate:           gate.New(fa),
		Assets:         fa,
		AllowAnonymous: allowAnonymous,
	})

	// Test-only route to mint a logged-in session without the OIDC dance.
	router.Get("/test/login/{uid}", func(w http.ResponseWriter, r *http.Request) {
		uid := chi.URLParam(r, "uid")
		if err := sessions.RenewToken(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		sessions.Put(r.Context(), auth.SessionUserIDKey, uid)
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}

	return &testEnv{
		Server:   srv,
		Client:   &http.Client{Jar: jar},
		Users:    users,
		Pets:     pets,
		Products: products,
		Assets:   fa,
	}
}

// seedUser creates a local identity the way a login would.
func seedUser(t *testing.T, env *testEnv, provider, subject string) *store.User {
	t.Helper()
	u, err := env.Users.Resolve(context.Background(), store.Principal{
		Provider:    provider,
		Subject:     subject,
		Email:       subject + "@example.com",
		DisplayName: "Test User",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// login gives the env's client a session cookie for u.
func login(t *testing.T, env *testEnv, u *store.User) {
	t.Helper()
	resp, err := env.Client.Get(env.Server.URL + "/test/login/" + u.ID)
	if err != nil {
		t.Fatalf("test login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("test login status = %d", resp.StatusCode)
	}
}

// logout clears the client's cookies so subsequent requests are anonymous.
func logout(t *testing.T, env *testEnv) {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	env.Client.Jar = jar
}

// decodeBody decodes a JSON response body into out.
func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// doJSON issues a request with an optional JSON body and decodes the JSON
// response into out when out is non-nil.
func doJSON(t *testing.T, env *testEnv, method, path string, body, out any) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, env.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := env.Client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("unmarshal response %q: %v", raw, err)
		}
	}
	return resp
}
