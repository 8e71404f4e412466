package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agentui/agentui/pkg/domain"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("login must not carry an Authorization header, got %q", r.Header.Get("Authorization"))
		}
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Email != "a@b.c" || req.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(LoginResponse{AccessToken: "tok", TokenType: "bearer", Message: "ok"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Login(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if resp.AccessToken != "tok" {
		t.Errorf("AccessToken = %q, want %q", resp.AccessToken, "tok")
	}

	_, err = c.Login(context.Background(), "a@b.c", "wrong")
	if err == nil {
		t.Fatal("expected error for bad credentials")
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("IsStatus(err, 401) = false for %v", err)
	}
	if got := ServerMessage(err); got != "Invalid credentials" {
		t.Errorf("ServerMessage() = %q, want %q", got, "Invalid credentials")
	}
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	paths := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		json.NewEncoder(w).Encode(LoginResponse{AccessToken: "tok"}) //nolint:errcheck
	}))
	defer srv.Close()

	if _, err := New(srv.URL+"/").Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if got := <-paths; got != "/auth/login" {
		t.Errorf("path = %q, want /auth/login", got)
	}
}

func TestGetUserDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/user-details" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Not authenticated"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.UserDetails{ //nolint:errcheck
			Email: "admin@example.com",
			Roles: []domain.RoleAssignment{{RoleName: "ADMIN"}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL).WithAuthorization("Bearer test-token")
	u, err := c.GetUserDetails(context.Background())
	if err != nil {
		t.Fatalf("GetUserDetails() error: %v", err)
	}
	if u.Email != "admin@example.com" || !u.HasRole("ADMIN") {
		t.Errorf("unexpected profile %+v", u)
	}

	_, err = New(srv.URL).GetUserDetails(context.Background())
	if err == nil {
		t.Fatal("expected error without credentials")
	}
	if got := err.Error(); !strings.Contains(got, "HTTP 401") || !strings.Contains(got, "Not authenticated") {
		t.Errorf("error = %q, want HTTP 401 with detail", got)
	}
}

func TestWithAuthorizationDoesNotMutateParent(t *testing.T) {
	base := New("http://example.invalid")
	authed := base.WithAuthorization("Bearer x")
	if base.authorization != "" {
		t.Errorf("parent authorization = %q, want empty", base.authorization)
	}
	if authed.authorization != "Bearer x" {
		t.Errorf("child authorization = %q, want %q", authed.authorization, "Bearer x")
	}
}

func TestLogoutSendsEmptyObject(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body) //nolint:errcheck
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := New(srv.URL).WithAuthorization("Bearer t").Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}
	if gotBody != "{}" {
		t.Errorf("logout body = %q, want {}", gotBody)
	}
}

func TestListChatbots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chatbot" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("per_page") != "9" {
			t.Errorf("query = %q, want page=2&per_page=9", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(domain.ChatbotPage{ //nolint:errcheck
			Total: 11, Page: 2, PerPage: 9,
			Chatbots: []domain.Chatbot{{ChatbotID: "cb_010"}, {ChatbotID: "cb_011"}},
		})
	}))
	defer srv.Close()

	p, err := New(srv.URL).ListChatbots(context.Background(), 2, 9)
	if err != nil {
		t.Fatalf("ListChatbots() error: %v", err)
	}
	if p.Total != 11 || len(p.Chatbots) != 2 {
		t.Errorf("page = %+v", p)
	}
}

func TestCreateChatbotDefaultsVectorDBName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var d domain.ChatbotDetails
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if d.VectorDBName != "faiss/cb" {
			t.Errorf("vector_db_name = %q, want it to default to the path", d.VectorDBName)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"message": "Chatbot created"}) //nolint:errcheck
	}))
	defer srv.Close()

	msg, err := New(srv.URL).CreateChatbot(context.Background(), domain.ChatbotDetails{
		ChatbotID:    "cb",
		VectorDBPath: "faiss/cb",
	})
	if err != nil {
		t.Fatalf("CreateChatbot() error: %v", err)
	}
	if msg != "Chatbot created" {
		t.Errorf("message = %q", msg)
	}
}

func TestUploadCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if got := r.FormValue("chatbot_id"); got != "cb_001" {
			t.Errorf("chatbot_id = %q", got)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f) //nolint:errcheck
		if hdr.Filename != "faq.csv" || string(data) != "q,a\n" {
			t.Errorf("file = %q %q", hdr.Filename, data)
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "uploaded"}) //nolint:errcheck
	}))
	defer srv.Close()

	msg, err := New(srv.URL).UploadCSV(context.Background(), "cb_001", "faq.csv", strings.NewReader("q,a\n"))
	if err != nil {
		t.Fatalf("UploadCSV() error: %v", err)
	}
	if msg != "uploaded" {
		t.Errorf("message = %q", msg)
	}
}

func TestListIntegrationKeysAndUsage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/integration/user-integration-keys":
			json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
				"integrationKeys": []domain.IntegrationKey{{IntegrationKey: "ik_1", TotalAPIQuota: 10, APIQuotaLeft: 1}},
			})
		case "/integration/user-usage-report":
			json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
				"usageReport": []domain.UsageReport{{ChatbotID: "cb_001", Hits: 4}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	keys, err := c.ListIntegrationKeys(context.Background())
	if err != nil {
		t.Fatalf("ListIntegrationKeys() error: %v", err)
	}
	if len(keys) != 1 || keys[0].IntegrationKey != "ik_1" {
		t.Errorf("keys = %+v", keys)
	}
	report, err := c.UsageReport(context.Background())
	if err != nil {
		t.Fatalf("UsageReport() error: %v", err)
	}
	if len(report) != 1 || report[0].Hits != 4 {
		t.Errorf("report = %+v", report)
	}
}

func TestHTTPError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message", `{"message":"boom"}`, "boom"},
		{"error", `{"error":"bad"}`, "bad"},
		{"detail string", `{"detail":"nope"}`, "nope"},
		{"detail list", `{"detail":[{"msg":"field required"},{"msg":"too short"}]}`, "field required; too short"},
		{"plain text", "Internal Server Error", "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				io.WriteString(w, tt.body) //nolint:errcheck
			}))
			defer srv.Close()

			_, err := New(srv.URL).GetUserDetails(context.Background())
			if err == nil {
				t.Fatal("expected error for 500 response")
			}
			if got := err.Error(); !strings.Contains(got, tt.want) {
				t.Errorf("error = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	seen := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen[r.Header.Get("X-Request-ID")] = true
		json.NewEncoder(w).Encode([]any{}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL)
	for i := 0; i < 3; i++ {
		if _, err := c.ListModelKeys(context.Background()); err != nil {
			// body is an array, not the wrapper object
			if !strings.Contains(err.Error(), "decode response") {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	}
	if len(seen) != 3 || seen[""] {
		t.Errorf("expected 3 distinct request ids, got %v", seen)
	}
}

func TestDoRequest_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(5 * time.Second) // slow server
		json.NewEncoder(w).Encode(domain.UserDetails{}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := c.GetUserDetails(ctx)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}
