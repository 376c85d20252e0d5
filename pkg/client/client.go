package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BuzzLyutic/taskflow/internal/model"
)

// FieldError повторяет формат ошибок валидации бэкенда.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError - любой неуспешный ответ API.
type APIError struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// envelope - конверт всех ответов API с отложенным разбором data.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Errors  []FieldError    `json:"errors"`
}

// Client - тонкая обертка над REST API. Bearer-токен берется из
// хранилища сессии и подставляется в каждый запрос сам.
type Client struct {
	baseURL string
	http    *http.Client
	session *SessionStore
}

func New(baseURL string, session *SessionStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
	}
}

func (c *Client) Session() *SessionStore {
	return c.session
}

// AuthSession - ответ register/login.
type AuthSession struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      model.User `json:"user"`
}

func (c *Client) Register(ctx context.Context, name, email, password string) (AuthSession, error) {
	return c.authenticate(ctx, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	})
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthSession, error) {
	return c.authenticate(ctx, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	})
}

// authenticate сохраняет полученную сессию в хранилище.
func (c *Client) authenticate(ctx context.Context, path string, body any) (AuthSession, error) {
	var session AuthSession
	if err := c.do(ctx, http.MethodPost, path, nil, body, &session, nil); err != nil {
		return session, err
	}

	err := c.session.Set(Session{
		Token:     session.Token,
		User:      &session.User,
		ExpiresAt: session.ExpiresAt,
	})
	return session, err
}

func (c *Client) Logout() error {
	return c.session.Clear()
}

func (c *Client) Me(ctx context.Context) (model.User, error) {
	var data struct {
		User model.User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &data, nil)
	return data.User, err
}

// ProfileUpdate - частичное обновление профиля, nil-поле не меняется.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

func (c *Client) UpdateMe(ctx context.Context, update ProfileUpdate) (model.User, error) {
	var data struct {
		User model.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPut, "/api/auth/me", nil, update, &data, nil)
	return data.User, err
}

// ListTasks возвращает задачи и count из конверта.
func (c *Client) ListTasks(ctx context.Context, filter model.TaskFilter) ([]model.Task, int, error) {
	params := url.Values{}
	if filter.Search != "" {
		params.Set("search", filter.Search)
	}
	if filter.Status != "" {
		params.Set("status", filter.Status)
	}
	if filter.Priority != "" {
		params.Set("priority", filter.Priority)
	}
	if filter.SortBy != "" {
		params.Set("sortBy", filter.SortBy)
	}
	if filter.Order != "" {
		params.Set("order", filter.Order)
	}

	var data struct {
		Tasks []model.Task `json:"tasks"`
	}
	var count int
	if err := c.do(ctx, http.MethodGet, "/api/tasks", params, nil, &data, &count); err != nil {
		return nil, 0, err
	}
	return data.Tasks, count, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (model.Task, error) {
	var data struct {
		Task model.Task `json:"task"`
	}
	err := c.do(ctx, http.MethodGet, "/api/tasks/"+id, nil, nil, &data, nil)
	return data.Task, err
}

func (c *Client) CreateTask(ctx context.Context, in model.TaskCreate) (model.Task, error) {
	var data struct {
		Task model.Task `json:"task"`
	}
	err := c.do(ctx, http.MethodPost, "/api/tasks", nil, in, &data, nil)
	return data.Task, err
}

func (c *Client) UpdateTask(ctx context.Context, id string, in model.TaskUpdate) (model.Task, error) {
	var data struct {
		Task model.Task `json:"task"`
	}
	err := c.do(ctx, http.MethodPut, "/api/tasks/"+id, nil, in, &data, nil)
	return data.Task, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil, nil, nil)
}

func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var data struct {
		Stats model.Stats `json:"stats"`
	}
	err := c.do(ctx, http.MethodGet, "/api/tasks/stats/summary", nil, nil, &data, nil)
	return data.Stats, err
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any, count *int) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{Status: resp.StatusCode, Message: "malformed response"}
	}

	if !env.Success {
		message := env.Message
		if message == "" {
			message = env.Error
		}
		return &APIError{Status: resp.StatusCode, Message: message, Fields: env.Errors}
	}

	if count != nil {
		*count = env.Count
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}
