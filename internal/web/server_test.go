package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cloudcollect/server/internal/config"
	"github.com/cloudcollect/server/internal/ingest"
	"github.com/cloudcollect/server/internal/store"
)

// fakeStore implements DataStore with overridable behavior per test.
type fakeStore struct {
	pingErr error

	debtors  map[string]store.Debtor
	inserted []ingest.Record

	bulkInsertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{debtors: map[string]store.Debtor{}}
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeStore) CreateDebtor(ctx context.Context, companyID string, rec ingest.Record) (*store.Debtor, error) {
	d := store.Debtor{ID: "d-new", CompanyID: companyID, FirstName: rec.FirstName,
		LastName: rec.LastName, AccountNumber: rec.AccountNumber,
		OriginalBalance: rec.OriginalBalance, CurrentBalance: rec.CurrentBalance,
		Status: rec.Status}
	f.debtors[d.ID] = d
	return &d, nil
}

func (f *fakeStore) BulkInsertDebtors(ctx context.Context, companyID string, records []ingest.Record) (int64, error) {
	if f.bulkInsertErr != nil {
		return 0, f.bulkInsertErr
	}
	f.inserted = append(f.inserted, records...)
	return int64(len(records)), nil
}

func (f *fakeStore) GetDebtor(ctx context.Context, companyID, id string) (*store.Debtor, error) {
	d, ok := f.debtors[id]
	if !ok || d.CompanyID != companyID {
		return nil, store.ErrNotFound
	}
	return &d, nil
}

func (f *fakeStore) ListDebtors(ctx context.Context, companyID string, limit, offset int) ([]store.Debtor, error) {
	out := []store.Debtor{}
	for _, d := range f.debtors {
		if d.CompanyID == companyID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) SearchDebtors(ctx context.Context, companyID, term string) ([]store.Debtor, error) {
	out := []store.Debtor{}
	for _, d := range f.debtors {
		if d.CompanyID == companyID && strings.Contains(strings.ToLower(d.LastName), strings.ToLower(term)) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateDebtor(ctx context.Context, companyID, id string, d store.Debtor) error {
	if _, ok := f.debtors[id]; !ok {
		return store.ErrNotFound
	}
	d.ID = id
	d.CompanyID = companyID
	f.debtors[id] = d
	return nil
}

func (f *fakeStore) DeleteDebtor(ctx context.Context, companyID, id string) error {
	if _, ok := f.debtors[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.debtors, id)
	return nil
}

func (f *fakeStore) CreatePayment(ctx context.Context, companyID string, p store.Payment) (*store.Payment, error) {
	if p.Amount <= 0 {
		return nil, errPaymentAmount
	}
	if _, ok := f.debtors[p.DebtorID]; !ok {
		return nil, store.ErrNotFound
	}
	p.ID = "p-new"
	p.CompanyID = companyID
	p.CreatedAt = time.Now()
	return &p, nil
}

func (f *fakeStore) ListPaymentsByDebtor(ctx context.Context, companyID, debtorID string) ([]store.Payment, error) {
	if _, ok := f.debtors[debtorID]; !ok {
		return []store.Payment{}, nil
	}
	return []store.Payment{{ID: "p1", CompanyID: companyID, DebtorID: debtorID, Amount: 50}}, nil
}

func (f *fakeStore) ListUsers(ctx context.Context, companyID string) ([]store.User, error) {
	return []store.User{{ID: "u1", CompanyID: companyID, Email: "admin@example.com"}}, nil
}

func (f *fakeStore) CreateUser(ctx context.Context, companyID string, u store.User) (*store.User, error) {
	u.ID = "u-new"
	u.CompanyID = companyID
	return &u, nil
}

func (f *fakeStore) UpdateUser(ctx context.Context, companyID, id string, u store.User) error {
	return nil
}

func (f *fakeStore) DeleteUser(ctx context.Context, companyID, id string) error {
	return nil
}

func (f *fakeStore) DashboardStatsFor(ctx context.Context, companyID string) (*store.DashboardStats, error) {
	return &store.DashboardStats{
		TotalDebtors:         2,
		TotalOriginalBalance: 3500,
		TotalCurrentBalance:  2750,
		TotalCollected:       750,
		StatusCounts:         map[string]int64{"active": 2},
	}, nil
}

var errPaymentAmount = &paymentAmountError{}

type paymentAmountError struct{}

func (e *paymentAmountError) Error() string { return "payment amount must be positive" }

// testConfig returns a config suitable for handler tests.
func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, RequestTimeout: 10 * time.Second},
		Import: config.ImportConfig{
			MaxFileSize:   10 << 20,
			MaxConcurrent: 2,
			MaxWaitTime:   100 * time.Millisecond,
		},
		Rate: config.RateLimitConfig{Enabled: false},
		Security: config.SecurityConfig{
			SessionTTL:      time.Hour,
			DemoCompanyCode: "1234",
			DemoCompanyID:   "company-1234",
			DemoEmail:       "admin@example.com",
			DemoPassword:    "password",
		},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}
}

// newTestServer builds a server around the fake store and returns a
// session token for authenticated requests.
func newTestServer(t *testing.T, fs *fakeStore) (*Server, string) {
	t.Helper()
	s := NewServer(testConfig(), fs)
	token, _ := s.sessions.Create("company-1234", "admin@example.com")
	return s, token
}

// doJSON performs a request against the router with an optional session token.
func doJSON(s *Server, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid credentials",
			body:       `{"companyCode":"1234","email":"admin@example.com","password":"password"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong password",
			body:       `{"companyCode":"1234","email":"admin@example.com","password":"nope"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong company code",
			body:       `{"companyCode":"9999","email":"admin@example.com","password":"password"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed body",
			body:       `{"companyCode":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, newFakeStore())
			rec := doJSON(s, http.MethodPost, "/api/login", "", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}

			if tt.wantStatus == http.StatusOK {
				var resp loginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if resp.Token == "" {
					t.Error("expected a session token")
				}
				if resp.User.CompanyID != "company-1234" {
					t.Errorf("CompanyID = %q, want company-1234", resp.User.CompanyID)
				}
				cookies := rec.Result().Cookies()
				found := false
				for _, c := range cookies {
					if c.Name == "cc_session" && c.Value == resp.Token {
						found = true
						if !c.HttpOnly {
							t.Error("session cookie should be HttpOnly")
						}
					}
				}
				if !found {
					t.Error("session cookie not set")
				}
			}
		})
	}
}

func TestAuthRequired(t *testing.T) {
	s, token := newTestServer(t, newFakeStore())

	// No token
	rec := doJSON(s, http.MethodGet, "/api/debtors", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", rec.Code)
	}

	// Garbage token
	rec = doJSON(s, http.MethodGet, "/api/debtors", "not-a-token", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d, want 401", rec.Code)
	}

	// Valid token
	rec = doJSON(s, http.MethodGet, "/api/debtors", token, "")
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	s, token := newTestServer(t, newFakeStore())

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: "cc_session", Value: token})
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}

	rec = doJSON(s, http.MethodGet, "/api/debtors", token, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status after logout = %d, want 401", rec.Code)
	}
}

func TestGetDebtorNotFound(t *testing.T) {
	s, token := newTestServer(t, newFakeStore())

	rec := doJSON(s, http.MethodGet, "/api/debtors/missing", token, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Code != "REQ001" {
		t.Errorf("Code = %q, want REQ001", resp.Code)
	}
}

func TestCreateDebtorValidation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid",
			body:       `{"firstName":"John","lastName":"Doe","accountNumber":"ACC-1","originalBalance":100,"status":"active"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing first name",
			body:       `{"lastName":"Doe","accountNumber":"ACC-1","originalBalance":100}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zero balance",
			body:       `{"firstName":"John","lastName":"Doe","accountNumber":"ACC-1","originalBalance":0}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad status",
			body:       `{"firstName":"John","lastName":"Doe","accountNumber":"ACC-1","originalBalance":100,"status":"pending"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, token := newTestServer(t, newFakeStore())
			rec := doJSON(s, http.MethodPost, "/api/debtors", token, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestSearchRequiresTerm(t *testing.T) {
	s, token := newTestServer(t, newFakeStore())

	rec := doJSON(s, http.MethodGet, "/api/debtors/search", token, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty term status = %d, want 400", rec.Code)
	}

	rec = doJSON(s, http.MethodGet, "/api/debtors/search?q=doe", token, "")
	if rec.Code != http.StatusOK {
		t.Errorf("search status = %d, want 200", rec.Code)
	}
}

func TestCreatePaymentRejectsNonPositiveAmount(t *testing.T) {
	fs := newFakeStore()
	fs.debtors["d1"] = store.Debtor{ID: "d1", CompanyID: "company-1234", CurrentBalance: 100}
	s, token := newTestServer(t, fs)

	rec := doJSON(s, http.MethodPost, "/api/debtors/d1/payments", token, `{"amount":-5}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(s, http.MethodPost, "/api/debtors/d1/payments", token, `{"amount":25,"method":"card"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
}

func TestDashboardStats(t *testing.T) {
	s, token := newTestServer(t, newFakeStore())

	rec := doJSON(s, http.MethodGet, "/api/dashboard/stats", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var stats store.DashboardStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stats.TotalDebtors != 2 {
		t.Errorf("TotalDebtors = %d, want 2", stats.TotalDebtors)
	}
	if stats.TotalCollected != 750 {
		t.Errorf("TotalCollected = %v, want 750", stats.TotalCollected)
	}
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, newFakeStore())

	rec := doJSON(s, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("healthy status = %d, want 200", rec.Code)
	}

	fs := newFakeStore()
	fs.pingErr = context.DeadlineExceeded
	s, _ = newTestServer(t, fs)
	rec = doJSON(s, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy status = %d, want 503", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t, newFakeStore())

	req := httptest.NewRequest(http.MethodOptions, "/api/debtors", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}

func TestLoginPageServed(t *testing.T) {
	s, _ := newTestServer(t, newFakeStore())

	rec := doJSON(s, http.MethodGet, "/", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(rec.Body.String(), "CloudCollect") {
		t.Error("login page should mention CloudCollect")
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		errText  string
		wantCode string
	}{
		{"duplicate key value violates unique constraint", "DB001"},
		{"malformed spreadsheet: zip: not a valid zip file", "FILE002"},
		{"too many concurrent imports, please try again later", "IMP001"},
		{"debtor not found", "REQ001"},
		{"payment amount must be positive", "REQ002"},
		{"something completely novel", "ERR000"},
	}

	for _, tt := range tests {
		msg := MapError(errorString(tt.errText))
		if msg.Code != tt.wantCode {
			t.Errorf("MapError(%q).Code = %q, want %q", tt.errText, msg.Code, tt.wantCode)
		}
	}
}

type errorString string

func (e errorString) Error() string { return string(e) }
