package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/msomdec/game-list/internal/handler"
	"github.com/msomdec/game-list/internal/service"
)

func (e *testEnv) router(limiter *service.TokenBucket) http.Handler {
	return handler.NewRouter(e.routerConfig(limiter))
}

func (e *testEnv) routerConfig(limiter *service.TokenBucket) handler.RouterConfig {
	return handler.RouterConfig{
		Auth:           e.auth,
		Lists:          e.lists,
		Items:          e.items,
		AuthLimiter:    limiter,
		AllowedOrigins: []string{"*"},
	}
}

type apiClient struct {
	t   *testing.T
	url string
}

func newAPI(t *testing.T, limiter *service.TokenBucket) *apiClient {
	t.Helper()
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router(limiter))
	t.Cleanup(srv.Close)
	return &apiClient{t: t, url: srv.URL}
}

// do sends body as JSON (a string is sent verbatim) and decodes the response into out.
func (c *apiClient) do(method, path, token string, body, out any) int {
	c.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.url+path, r)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

type authResponse struct {
	User struct {
		ID       int64  `json:"id"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	} `json:"user"`
	Token string `json:"token"`
}

type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
	Fields     []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"fields"`
}

type listResponse struct {
	ID    int64          `json:"id"`
	Name  string         `json:"name"`
	Type  string         `json:"type"`
	Items []itemResponse `json:"items"`
}

type itemResponse struct {
	ID     int64    `json:"id"`
	ListID int64    `json:"listId"`
	Title  string   `json:"title"`
	Status string   `json:"status"`
	Rating *float64 `json:"rating"`
}

func (c *apiClient) register(email, name string) authResponse {
	c.t.Helper()
	var res authResponse
	status := c.do(http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "name": name, "password": "secret1",
	}, &res)
	if status != http.StatusCreated {
		c.t.Fatalf("register %s: expected 201, got %d", email, status)
	}
	return res
}

func TestIntegration_RegisterLoginProfile(t *testing.T) {
	api := newAPI(t, nil)

	var raw map[string]map[string]any
	status := api.do(http.MethodPost, "/auth/register", "", map[string]string{
		"email": "a@x.com", "name": "A", "password": "secret1",
	}, &raw)
	if status != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", status)
	}
	if _, ok := raw["user"]["password"]; ok {
		t.Fatal("register response leaked a password field")
	}
	if _, ok := raw["user"]["passwordHash"]; ok {
		t.Fatal("register response leaked a password hash")
	}

	var login authResponse
	if status := api.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "secret1",
	}, &login); status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", status)
	}
	if login.Token == "" || login.User.Email != "a@x.com" {
		t.Fatalf("unexpected login response %+v", login)
	}

	var profile struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if status := api.do(http.MethodGet, "/auth/profile", login.Token, nil, &profile); status != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", status)
	}
	if profile.Email != "a@x.com" || profile.Name != "A" || profile.ID != login.User.ID {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestIntegration_RegisterDuplicate(t *testing.T) {
	api := newAPI(t, nil)
	api.register("a@x.com", "A")

	var errRes errorResponse
	status := api.do(http.MethodPost, "/auth/register", "", map[string]string{
		"email": "a@x.com", "name": "Other", "password": "secret2",
	}, &errRes)
	if status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
	if errRes.StatusCode != http.StatusConflict || errRes.Message == "" {
		t.Fatalf("unexpected error body %+v", errRes)
	}
}

func TestIntegration_RegisterValidation(t *testing.T) {
	api := newAPI(t, nil)

	var errRes errorResponse
	status := api.do(http.MethodPost, "/auth/register", "", map[string]string{
		"email": "not-an-email", "name": "", "password": "123",
	}, &errRes)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	got := map[string]bool{}
	for _, f := range errRes.Fields {
		got[f.Field] = true
	}
	for _, field := range []string{"email", "name", "password"} {
		if !got[field] {
			t.Fatalf("expected a %q field error, got %+v", field, errRes.Fields)
		}
	}
}

func TestIntegration_RejectsBadBodies(t *testing.T) {
	api := newAPI(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"unknown field", `{"email":"a@x.com","name":"A","password":"secret1","isAdmin":true}`},
		{"malformed", `{"email":`},
		{"empty", ``},
		{"wrong type", `{"email":1,"name":"A","password":"secret1"}`},
		{"trailing data", `{"email":"a@x.com","name":"A","password":"secret1"} {}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var errRes errorResponse
			if status := api.do(http.MethodPost, "/auth/register", "", tc.body, &errRes); status != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", status)
			}
		})
	}
}

func TestIntegration_LoginFailuresLookTheSame(t *testing.T) {
	api := newAPI(t, nil)
	api.register("a@x.com", "A")

	var wrongPassword, unknownEmail errorResponse
	s1 := api.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "a@x.com", "password": "wrong-password"}, &wrongPassword)
	s2 := api.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "nobody@x.com", "password": "secret1"}, &unknownEmail)

	if s1 != http.StatusUnauthorized || s2 != http.StatusUnauthorized {
		t.Fatalf("expected 401 for both, got %d and %d", s1, s2)
	}
	if wrongPassword.Message != unknownEmail.Message {
		t.Fatalf("login failures are distinguishable: %q vs %q", wrongPassword.Message, unknownEmail.Message)
	}
}

func TestIntegration_ProtectedRoutesRequireToken(t *testing.T) {
	api := newAPI(t, nil)

	for _, path := range []string{"/auth/profile", "/lists", "/lists/1", "/items", "/items/1"} {
		var errRes errorResponse
		if status := api.do(http.MethodGet, path, "", nil, &errRes); status != http.StatusUnauthorized {
			t.Fatalf("GET %s: expected 401, got %d", path, status)
		}
	}
}

func TestIntegration_ListsAndItems(t *testing.T) {
	api := newAPI(t, nil)
	alice := api.register("alice@x.com", "Alice")

	var list listResponse
	if status := api.do(http.MethodPost, "/lists", alice.Token, map[string]string{
		"name": "Played", "type": "games_played",
	}, &list); status != http.StatusCreated {
		t.Fatalf("create list: expected 201, got %d", status)
	}
	if list.Items == nil {
		t.Fatal("expected items to be an empty array, not null")
	}

	var item itemResponse
	if status := api.do(http.MethodPost, "/items", alice.Token, map[string]any{
		"title": "Celeste", "type": "game", "status": "completed", "rating": 9.5, "listId": list.ID,
	}, &item); status != http.StatusCreated {
		t.Fatalf("create item: expected 201, got %d", status)
	}
	if item.ListID != list.ID || item.Rating == nil || *item.Rating != 9.5 {
		t.Fatalf("unexpected item %+v", item)
	}

	var got listResponse
	if status := api.do(http.MethodGet, fmt.Sprintf("/lists/%d", list.ID), alice.Token, nil, &got); status != http.StatusOK {
		t.Fatalf("get list: expected 200, got %d", status)
	}
	if len(got.Items) != 1 || got.Items[0].Title != "Celeste" {
		t.Fatalf("expected list with its item, got %+v", got)
	}

	var filtered []listResponse
	api.do(http.MethodGet, "/lists?type=movies_watched", alice.Token, nil, &filtered)
	if len(filtered) != 0 {
		t.Fatalf("expected no movie lists, got %d", len(filtered))
	}

	var found []itemResponse
	api.do(http.MethodGet, "/items?search=cel&status=completed", alice.Token, nil, &found)
	if len(found) != 1 {
		t.Fatalf("expected search to find the item, got %d", len(found))
	}

	var updated itemResponse
	if status := api.do(http.MethodPatch, fmt.Sprintf("/items/%d", item.ID), alice.Token, map[string]string{
		"status": "in_progress",
	}, &updated); status != http.StatusOK {
		t.Fatalf("patch item: expected 200, got %d", status)
	}
	if updated.Status != "in_progress" || updated.Title != "Celeste" {
		t.Fatalf("unexpected updated item %+v", updated)
	}

	if status := api.do(http.MethodDelete, fmt.Sprintf("/lists/%d", list.ID), alice.Token, nil, nil); status != http.StatusNoContent {
		t.Fatalf("delete list: expected 204, got %d", status)
	}
	var errRes errorResponse
	if status := api.do(http.MethodGet, fmt.Sprintf("/items/%d", item.ID), alice.Token, nil, &errRes); status != http.StatusNotFound {
		t.Fatalf("item after list delete: expected 404, got %d", status)
	}
}

func TestIntegration_OwnershipIsolation(t *testing.T) {
	api := newAPI(t, nil)
	alice := api.register("alice@x.com", "Alice")
	bob := api.register("bob@x.com", "Bob")

	var bobsList listResponse
	api.do(http.MethodPost, "/lists", bob.Token, map[string]string{"name": "Bob's", "type": "series_watched"}, &bobsList)
	var bobsItem itemResponse
	api.do(http.MethodPost, "/items", bob.Token, map[string]any{
		"title": "Dark", "type": "series", "status": "completed", "listId": bobsList.ID,
	}, &bobsItem)

	var missing errorResponse
	api.do(http.MethodGet, "/lists/999999", alice.Token, nil, &missing)

	requests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, fmt.Sprintf("/lists/%d", bobsList.ID), nil},
		{http.MethodPatch, fmt.Sprintf("/lists/%d", bobsList.ID), map[string]string{"name": "Mine"}},
		{http.MethodDelete, fmt.Sprintf("/lists/%d", bobsList.ID), nil},
		{http.MethodGet, fmt.Sprintf("/items/%d", bobsItem.ID), nil},
		{http.MethodPatch, fmt.Sprintf("/items/%d", bobsItem.ID), map[string]string{"title": "Mine"}},
		{http.MethodDelete, fmt.Sprintf("/items/%d", bobsItem.ID), nil},
		{http.MethodPost, "/items", map[string]any{"title": "X", "type": "game", "status": "completed", "listId": bobsList.ID}},
	}
	for _, req := range requests {
		var errRes errorResponse
		status := api.do(req.method, req.path, alice.Token, req.body, &errRes)
		if status != http.StatusNotFound {
			t.Fatalf("%s %s as another user: expected 404, got %d", req.method, req.path, status)
		}
		if errRes.Message != missing.Message {
			t.Fatalf("%s %s: foreign resource distinguishable from missing: %q vs %q", req.method, req.path, errRes.Message, missing.Message)
		}
	}

	var aliceItems []itemResponse
	api.do(http.MethodGet, fmt.Sprintf("/items?listId=%d", bobsList.ID), alice.Token, nil, &aliceItems)
	if len(aliceItems) != 0 {
		t.Fatalf("expected no items from another user's list, got %d", len(aliceItems))
	}

	var stillThere listResponse
	if status := api.do(http.MethodGet, fmt.Sprintf("/lists/%d", bobsList.ID), bob.Token, nil, &stillThere); status != http.StatusOK {
		t.Fatalf("owner get: expected 200, got %d", status)
	}
	if stillThere.Name != "Bob's" || len(stillThere.Items) != 1 {
		t.Fatalf("owner's list was modified: %+v", stillThere)
	}
}

func TestIntegration_BadParameters(t *testing.T) {
	api := newAPI(t, nil)
	alice := api.register("alice@x.com", "Alice")

	for _, path := range []string{
		"/lists?type=books",
		"/items?type=podcast",
		"/items?status=paused",
		"/items?listId=abc",
		"/lists/abc",
		"/items/0",
	} {
		var errRes errorResponse
		if status := api.do(http.MethodGet, path, alice.Token, nil, &errRes); status != http.StatusBadRequest {
			t.Fatalf("GET %s: expected 400, got %d", path, status)
		}
	}
}

func TestIntegration_AuthRateLimit(t *testing.T) {
	api := newAPI(t, service.NewTokenBucket(0, 2))
	creds := map[string]string{"email": "nobody@x.com", "password": "secret1"}

	for i := 0; i < 2; i++ {
		var errRes errorResponse
		if status := api.do(http.MethodPost, "/auth/login", "", creds, &errRes); status != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, status)
		}
	}

	var errRes errorResponse
	if status := api.do(http.MethodPost, "/auth/login", "", creds, &errRes); status != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", status)
	}
	if errRes.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("unexpected error body %+v", errRes)
	}
}

// loginFrom posts bad credentials to /auth/login through h with the given
// peer address and X-Forwarded-For value.
func loginFrom(t *testing.T, h http.Handler, remoteAddr, forwardedFor string) int {
	t.Helper()
	body := strings.NewReader(`{"email":"nobody@x.com","password":"secret1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code
}

func TestIntegration_AuthRateLimitIgnoresForwardedHeaders(t *testing.T) {
	env := newTestEnv(t)
	h := env.router(service.NewTokenBucket(0, 2))

	var got []int
	for i := 1; i <= 6; i++ {
		got = append(got, loginFrom(t, h, "203.0.113.9:40000", fmt.Sprintf("10.0.0.%d", i)))
	}

	want := []int{401, 401, 429, 429, 429, 429}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rotating X-Forwarded-For from one peer: expected %v, got %v", want, got)
		}
	}
}

func TestIntegration_AuthRateLimitTrustsProxyWhenEnabled(t *testing.T) {
	env := newTestEnv(t)
	cfg := env.routerConfig(service.NewTokenBucket(0, 1))
	cfg.TrustProxyHeaders = true
	h := handler.NewRouter(cfg)

	// Every request arrives from the proxy; the forwarded client decides the bucket.
	if code := loginFrom(t, h, "192.0.2.1:443", "198.51.100.1"); code != http.StatusUnauthorized {
		t.Fatalf("first client: expected 401, got %d", code)
	}
	if code := loginFrom(t, h, "192.0.2.1:443", "198.51.100.2"); code != http.StatusUnauthorized {
		t.Fatalf("second client: expected 401, got %d", code)
	}
	if code := loginFrom(t, h, "192.0.2.1:443", "198.51.100.1"); code != http.StatusTooManyRequests {
		t.Fatalf("first client again: expected 429, got %d", code)
	}
}
