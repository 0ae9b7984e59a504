package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/proctor/core"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestClient_Do_responses(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantNoContent bool
		wantRaw       string
		wantBody      string
		wantStatus    int // APIError status, 0 when no error expected
		wantMessage   string
		wantFields    map[string]string
	}{
		{name: "204", status: http.StatusNoContent, wantNoContent: true},
		{name: "empty 200", status: http.StatusOK, wantNoContent: true},
		{name: "json 200", status: http.StatusOK, body: `{"users":[]}`, wantBody: `{"users":[]}`},
		{name: "malformed 200", status: http.StatusOK, body: `<html>oops</html>`, wantRaw: "<html>oops</html>"},
		{name: "404 error field", status: http.StatusNotFound, body: `{"error":"not found"}`, wantStatus: 404, wantMessage: "not found"},
		{name: "400 message field", status: http.StatusBadRequest, body: `{"message":"bad"}`, wantStatus: 400, wantMessage: "bad"},
		{
			name: "422 field errors", status: http.StatusUnprocessableEntity,
			body:       `{"error":"invalid","errors":{"email":"already taken"}}`,
			wantStatus: 422, wantMessage: "invalid", wantFields: map[string]string{"email": "already taken"},
		},
		{name: "500 raw text", status: http.StatusInternalServerError, body: "boom", wantStatus: 500, wantMessage: "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			resp, err := c.Do(context.Background(), Request{Path: "/admin/users"})
			if tt.wantStatus != 0 {
				var apiErr *core.APIError
				require.True(t, errors.As(err, &apiErr), "want *core.APIError, got %v", err)
				assert.Equal(t, tt.wantStatus, apiErr.Status)
				assert.Equal(t, tt.wantMessage, apiErr.Message)
				assert.Equal(t, tt.wantFields, apiErr.Fields)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNoContent, resp.NoContent)
			assert.Equal(t, tt.wantRaw, resp.Raw)
			assert.Equal(t, tt.wantBody, string(resp.Body))
		})
	}
}

func TestClient_Do_noContentYieldsNoValue(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	resp, err := c.Do(context.Background(), Request{Method: http.MethodDelete, Path: "/admin/users/1"})
	require.NoError(t, err)

	v, err := resp.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	var out map[string]interface{}
	require.NoError(t, resp.Decode(&out))
	assert.Nil(t, out)
}

func TestClient_Do_malformedBodyYieldsRawText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "not json {")
	})
	resp, err := c.Do(context.Background(), Request{Path: "/bot/status"})
	require.NoError(t, err)

	v, err := resp.Value()
	require.NoError(t, err)
	assert.Equal(t, RawText{Text: "not json {"}, v)

	var raw RawText
	require.NoError(t, resp.Decode(&raw))
	assert.Equal(t, "not json {", raw.Text)

	var obj map[string]interface{}
	assert.Error(t, resp.Decode(&obj))
}

func TestClient_Do_authorization(t *testing.T) {
	tests := []struct {
		name     string
		source   TokenSource
		ctxToken string
		reqToken string
		want     string
	}{
		{name: "no token", want: ""},
		{name: "token source", source: TokenFunc(func() string { return "src" }), want: "Bearer src"},
		{name: "context wins over source", source: TokenFunc(func() string { return "src" }), ctxToken: "ctx", want: "Bearer ctx"},
		{name: "explicit wins", source: TokenFunc(func() string { return "src" }), ctxToken: "ctx", reqToken: "req", want: "Bearer req"},
		{name: "empty source", source: TokenFunc(func() string { return "" }), want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			var opts []Option
			if tt.source != nil {
				opts = append(opts, WithTokenSource(tt.source))
			}
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
				assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
				w.WriteHeader(http.StatusNoContent)
			}, opts...)

			ctx := context.Background()
			if tt.ctxToken != "" {
				ctx = ContextWithToken(ctx, tt.ctxToken)
			}
			_, err := c.Do(ctx, Request{Path: "/admin/audit", Token: tt.reqToken})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_JSON_bodyAndQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/admin/users/7/status", r.URL.Path)
		assert.Equal(t, "abc", r.URL.Query().Get("q"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "suspended", in["status"])
		_, _ = io.WriteString(w, `{"user":{"id":7,"status":"suspended"},"token":"renewed"}`)
	})

	var out struct {
		User struct {
			ID     core.ID `json:"id"`
			Status string  `json:"status"`
		} `json:"user"`
	}
	err := c.JSON(context.Background(), Request{
		Method: http.MethodPatch,
		Path:   "/admin/users/7/status",
		Query:  url.Values{"q": {"abc"}},
		JSON:   map[string]string{"status": "suspended"},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, core.ID("7"), out.User.ID)
	assert.Equal(t, "suspended", out.User.Status)
}

func TestClient_Do_doesNotPersistResponseTokens(t *testing.T) {
	current := "original"
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"token":"sneaky"}`)
	}, WithTokenSource(TokenFunc(func() string { return current })))

	_, err := c.Do(context.Background(), Request{Path: "/admin/users"})
	require.NoError(t, err)
	assert.Equal(t, "original", current)
}

func TestClient_Do_multipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "users.csv", hdr.Filename)
		assert.Equal(t, "username,email\nami,ami@test.cd\n", string(data))
		_, _ = io.WriteString(w, `{"created":1,"failed":0}`)
	})

	form := NewFileForm("file", "users.csv", strings.NewReader("username,email\nami,ami@test.cd\n"))
	var out struct {
		Created int `json:"created"`
	}
	err := c.JSON(context.Background(), Request{Method: http.MethodPost, Path: "/admin/users/bulk", Form: form, Token: "tok"}, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Created)
}

func TestClient_Do_transportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := New(srv.URL)
	require.NoError(t, err)
	srv.Close()

	_, err = c.Do(context.Background(), Request{Path: "/admin/users"})
	var trErr *core.TransportError
	assert.True(t, errors.As(err, &trErr), "want *core.TransportError, got %v", err)
}

func TestClient_Do_cancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Do(ctx, Request{Path: "/admin/users"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Do_keepsEscapedPath(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	tests := []struct {
		base string
		path string
		want string
	}{
		{base: srv.URL, path: "/admin/users/a%2Fb/role", want: "/admin/users/a%2Fb/role"},
		{base: srv.URL, path: "admin/users/a%20b", want: "/admin/users/a%20b"},
		{base: srv.URL + "/api/v2/", path: "/admin/exams/7", want: "/api/v2/admin/exams/7"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			c, err := New(tt.base)
			require.NoError(t, err)
			_, err = c.Do(context.Background(), Request{Path: tt.path})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithHTTPClient_leavesCallerClientAlone(t *testing.T) {
	hc := &http.Client{}
	c, err := New("http://backend.test", WithHTTPClient(hc), WithTimeout(5*time.Second))
	require.NoError(t, err)

	assert.Nil(t, hc.Jar)
	assert.Zero(t, hc.Timeout)
	assert.NotNil(t, c.http.Jar)
	assert.Equal(t, 5*time.Second, c.http.Timeout)
}

func TestNew_requiresBaseURL(t *testing.T) {
	_, err := New(" ")
	assert.Equal(t, errNoBaseURL, err)
}
