package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentui/agentui/pkg/domain"
)

// DefaultTimeout bounds every request made by a Client.
const DefaultTimeout = 30 * time.Second

// Client is the chatbot platform API client. A Client carries at most one
// Authorization header value; use WithAuthorization to derive an
// authenticated copy.
type Client struct {
	baseURL       string
	authorization string
	httpClient    *http.Client
}

// New creates a new API client with no credentials attached.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// WithTimeout returns a copy of c whose requests time out after d.
func (c *Client) WithTimeout(d time.Duration) *Client {
	cp := *c
	cp.httpClient = &http.Client{Timeout: d, Transport: c.httpClient.Transport}
	return &cp
}

// WithAuthorization returns a copy of c that sends header verbatim as the
// Authorization value. The header is not inspected.
func (c *Client) WithAuthorization(header string) *Client {
	cp := *c
	cp.authorization = header
	return &cp
}

// BaseURL returns the API origin this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LoginRequest is the password login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful password login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Message     string `json:"message"`
}

// messageResponse is the common {"message": ...} acknowledgement body.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, "/auth/login", LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// GetUserDetails returns the authenticated user's profile, roles and screen
// permissions.
func (c *Client) GetUserDetails(ctx context.Context) (*domain.UserDetails, error) {
	var u domain.UserDetails
	if err := c.get(ctx, "/auth/user-details", &u); err != nil {
		return nil, fmt.Errorf("client.GetUserDetails: %w", err)
	}
	return &u, nil
}

// Logout tells the backend to end the current session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodPost, "/auth/logout", struct{}{}, nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// --- Users ---

// RegisterUser creates a console account.
func (c *Client) RegisterUser(ctx context.Context, email, password string) error {
	if err := c.post(ctx, "/auth/register", LoginRequest{Email: email, Password: password}, nil); err != nil {
		return fmt.Errorf("client.RegisterUser: %w", err)
	}
	return nil
}

// ListUsers fetches one page of console accounts. Pages start at 1.
func (c *Client) ListUsers(ctx context.Context, page, perPage int) (*domain.UserPage, error) {
	var p domain.UserPage
	if err := c.get(ctx, "/auth/login-user-list?"+pageParams(page, perPage), &p); err != nil {
		return nil, fmt.Errorf("client.ListUsers: %w", err)
	}
	return &p, nil
}

// --- Chatbots ---

// ListChatbots fetches one page of chatbots. Pages start at 1.
func (c *Client) ListChatbots(ctx context.Context, page, perPage int) (*domain.ChatbotPage, error) {
	var p domain.ChatbotPage
	if err := c.get(ctx, "/chatbot?"+pageParams(page, perPage), &p); err != nil {
		return nil, fmt.Errorf("client.ListChatbots: %w", err)
	}
	return &p, nil
}

// GetChatbot fetches a chatbot's configuration.
func (c *Client) GetChatbot(ctx context.Context, id string) (*domain.ChatbotDetails, error) {
	var d domain.ChatbotDetails
	if err := c.get(ctx, "/chatbot/"+url.PathEscape(id), &d); err != nil {
		return nil, fmt.Errorf("client.GetChatbot: %w", err)
	}
	return &d, nil
}

// CreateChatbot creates a chatbot and returns the backend's message.
func (c *Client) CreateChatbot(ctx context.Context, d domain.ChatbotDetails) (string, error) {
	if d.VectorDBName == "" {
		d.VectorDBName = d.VectorDBPath
	}
	var resp messageResponse
	if err := c.post(ctx, "/chatbot", d, &resp); err != nil {
		return "", fmt.Errorf("client.CreateChatbot: %w", err)
	}
	return resp.Message, nil
}

// UpdateChatbot saves a chatbot's configuration.
func (c *Client) UpdateChatbot(ctx context.Context, d domain.ChatbotDetails) error {
	if d.VectorDBName == "" {
		d.VectorDBName = d.VectorDBPath
	}
	body := struct {
		PromptTemplate string `json:"prompt_template"`
		VectorDBPath   string `json:"vector_db_path"`
		VectorDBName   string `json:"vector_db_name"`
		Description    string `json:"description"`
	}{d.PromptTemplate, d.VectorDBPath, d.VectorDBName, d.Description}
	if err := c.doRequest(ctx, http.MethodPut, "/chatbot/"+url.PathEscape(d.ChatbotID), body, nil); err != nil {
		return fmt.Errorf("client.UpdateChatbot: %w", err)
	}
	return nil
}

// DeleteChatbot removes a chatbot.
func (c *Client) DeleteChatbot(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/chatbot/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteChatbot: %w", err)
	}
	return nil
}

// --- Models ---

// ListModelKeys returns the user's registered LLM keys.
func (c *Client) ListModelKeys(ctx context.Context) ([]domain.ModelKey, error) {
	var resp struct {
		Details []domain.ModelKey `json:"user_model_details"`
	}
	if err := c.get(ctx, "/model/user-model-details", &resp); err != nil {
		return nil, fmt.Errorf("client.ListModelKeys: %w", err)
	}
	return resp.Details, nil
}

// AddModelKey registers an LLM key.
func (c *Client) AddModelKey(ctx context.Context, modelName, apiKey string) (string, error) {
	body := map[string]string{"model_name": modelName, "api_key": apiKey}
	var resp messageResponse
	if err := c.post(ctx, "/model/user-model-details", body, &resp); err != nil {
		return "", fmt.Errorf("client.AddModelKey: %w", err)
	}
	return resp.Message, nil
}

// ListModels returns the models available to the chat harness.
func (c *Client) ListModels(ctx context.Context) ([]domain.ModelSummary, error) {
	var resp struct {
		Details []domain.ModelSummary `json:"user_model_details"`
	}
	if err := c.get(ctx, "/model/user-model-details-list", &resp); err != nil {
		return nil, fmt.Errorf("client.ListModels: %w", err)
	}
	return resp.Details, nil
}

// --- Chat & training ---

// Chat asks a chatbot a question.
func (c *Client) Chat(ctx context.Context, req domain.ChatRequest) (string, error) {
	var resp domain.ChatResponse
	if err := c.post(ctx, "/chat", req, &resp); err != nil {
		return "", fmt.Errorf("client.Chat: %w", err)
	}
	return resp.Answer, nil
}

// UploadCSV uploads a CSV knowledge file for a chatbot.
func (c *Client) UploadCSV(ctx context.Context, chatbotID, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("chatbot_id", chatbotID); err != nil {
		return "", fmt.Errorf("client.UploadCSV: %w", err)
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("client.UploadCSV: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", fmt.Errorf("client.UploadCSV: copy file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("client.UploadCSV: %w", err)
	}

	var resp messageResponse
	if err := c.send(ctx, http.MethodPost, "/rag/upload_csv", &buf, mw.FormDataContentType(), &resp); err != nil {
		return "", fmt.Errorf("client.UploadCSV: %w", err)
	}
	return resp.Message, nil
}

// AddFieldValueResponse acknowledges a stored knowledge entry.
type AddFieldValueResponse struct {
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
}

// AddFieldValue stores a single field/value knowledge entry.
func (c *Client) AddFieldValue(ctx context.Context, fv domain.FieldValue) (*AddFieldValueResponse, error) {
	var resp AddFieldValueResponse
	if err := c.post(ctx, "/rag/add_field_value", fv, &resp); err != nil {
		return nil, fmt.Errorf("client.AddFieldValue: %w", err)
	}
	return &resp, nil
}

// --- Integrations ---

// ListIntegrationKeys returns the user's integration keys with quotas.
func (c *Client) ListIntegrationKeys(ctx context.Context) ([]domain.IntegrationKey, error) {
	var resp struct {
		Keys []domain.IntegrationKey `json:"integrationKeys"`
	}
	if err := c.get(ctx, "/integration/user-integration-keys", &resp); err != nil {
		return nil, fmt.Errorf("client.ListIntegrationKeys: %w", err)
	}
	return resp.Keys, nil
}

// CreateIntegrationKey issues a new integration key.
func (c *Client) CreateIntegrationKey(ctx context.Context) (string, error) {
	var resp messageResponse
	if err := c.post(ctx, "/integration/user-integration-keys", map[string]string{"desc": "create user"}, &resp); err != nil {
		return "", fmt.Errorf("client.CreateIntegrationKey: %w", err)
	}
	return resp.Message, nil
}

// UsageReport returns per-chatbot integration usage.
func (c *Client) UsageReport(ctx context.Context) ([]domain.UsageReport, error) {
	var resp struct {
		Report []domain.UsageReport `json:"usageReport"`
	}
	if err := c.get(ctx, "/integration/user-usage-report", &resp); err != nil {
		return nil, fmt.Errorf("client.UsageReport: %w", err)
	}
	return resp.Report, nil
}

func pageParams(page, perPage int) string {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	return params.Encode()
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	if body == nil {
		return c.send(ctx, method, path, nil, "", out)
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	return c.send(ctx, method, path, bytes.NewReader(data), "application/json", out)
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.authorization != "" {
		req.Header.Set("Authorization", c.authorization)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		return newHTTPError(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
