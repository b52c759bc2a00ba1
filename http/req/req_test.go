package req_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/req"
)

func newFormRequest(method, target string, form url.Values) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestBuildMethodsAndInput(t *testing.T) {
	tcs := []struct {
		name     string
		req      *http.Request
		method   string
		spoofed  bool
		expected url.Values
	}{
		{
			name:     "GET",
			req:      httptest.NewRequest(http.MethodGet, "/users?q=a&__spoofer=PUT", nil),
			method:   http.MethodGet,
			expected: url.Values{"q": {"a"}},
		},
		{
			name:     "POST",
			req:      newFormRequest(http.MethodPost, "/users?q=a", url.Values{"name": {"b"}}),
			method:   http.MethodPost,
			expected: url.Values{"name": {"b"}},
		},
		{
			name:     "POST-Spoofed-PUT",
			req:      newFormRequest(http.MethodPost, "/users/1", url.Values{"name": {"c"}, req.Spoofer: {"put"}}),
			method:   http.MethodPut,
			spoofed:  true,
			expected: url.Values{"name": {"c"}},
		},
		{
			name:     "POST-Spoofed-DELETE",
			req:      newFormRequest(http.MethodPost, "/users/1", url.Values{req.Spoofer: {"DELETE"}}),
			method:   http.MethodDelete,
			spoofed:  true,
			expected: url.Values{},
		},
		{
			name:     "PUT-Native",
			req:      httptest.NewRequest(http.MethodPut, "/users/1", strings.NewReader("name=d&__spoofer=x")),
			method:   http.MethodPut,
			expected: url.Values{"name": {"d"}},
		},
		{
			name:     "DELETE-Native",
			req:      httptest.NewRequest(http.MethodDelete, "/users/1", strings.NewReader("")),
			method:   http.MethodDelete,
			expected: url.Values{},
		},
		{
			name:     "PATCH",
			req:      httptest.NewRequest(http.MethodPatch, "/users/1?q=a", strings.NewReader("name=e")),
			method:   http.MethodPatch,
			expected: url.Values{},
		},
		{
			name:     "POST-Empty-Spoofer",
			req:      newFormRequest(http.MethodPost, "/users", url.Values{req.Spoofer: {""}, "name": {"f"}}),
			method:   http.MethodPost,
			expected: url.Values{"name": {"f"}},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			c, err := req.Build(tc.req)

			// Assert
			require.Nil(t, err)
			require.Equal(t, tc.method, c.Method)
			require.Equal(t, tc.spoofed, c.Spoofed)
			require.Equal(t, tc.expected, c.Input)
			require.False(t, c.Input.Has(req.Spoofer))
		})
	}
}

func TestBuildBodyInput(t *testing.T) {
	tcs := []struct {
		name     string
		method   string
		ct       string
		body     string
		expected url.Values
	}{
		{"PUT-JSON", http.MethodPut, "application/json", `{"discount":"100%"}`, url.Values{}},
		{"DELETE-JSON", http.MethodDelete, "application/json; charset=utf-8", `{"id":7}`, url.Values{}},
		{"PUT-Semicolon", http.MethodPut, "", "a=1;b=2&c=3", url.Values{"c": {"3"}}},
		{"PUT-Bad-Escape", http.MethodPut, "application/x-www-form-urlencoded", "name=x&bad=%zz", url.Values{"name": {"x"}}},
		{"POST-Bad-Escape", http.MethodPost, "application/x-www-form-urlencoded", "name=x&bad=%zz", url.Values{"name": {"x"}}},
		{"POST-JSON", http.MethodPost, "application/json", `{"name":"x"}`, url.Values{}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			r := httptest.NewRequest(tc.method, "/users/1", strings.NewReader(tc.body))
			if tc.ct != "" {
				r.Header.Set("Content-Type", tc.ct)
			}

			// Act
			c, err := req.Build(r)

			// Assert
			require.Nil(t, err)
			require.Equal(t, tc.method, c.Method)
			require.Equal(t, tc.expected, c.Input)
			require.Equal(t, []byte(tc.body), c.Body)
		})
	}
}

func TestBuildBodyTooLarge(t *testing.T) {
	// Arrange
	body := strings.NewReader("name=" + strings.Repeat("a", req.MaxBodyBytes))
	r := httptest.NewRequest(http.MethodPost, "/users", body)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	// Act
	c, err := req.Build(r)

	// Assert
	require.ErrorIs(t, err, trailhead.ErrNotValid)
	require.Nil(t, c)
}

func TestBuildMultipart(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	w := multipart.NewWriter(b)
	require.Nil(t, w.WriteField("name", "g"))
	require.Nil(t, w.WriteField(req.Spoofer, "PUT"))
	require.Nil(t, w.Close())

	r := httptest.NewRequest(http.MethodPost, "/users/1", b)
	r.Header.Set("Content-Type", w.FormDataContentType())

	// Act
	c, err := req.Build(r)

	// Assert
	require.Nil(t, err)
	require.Equal(t, http.MethodPut, c.Method)
	require.Equal(t, url.Values{"name": {"g"}}, c.Input)
}

func TestBuildSegmentsAndBody(t *testing.T) {
	// Arrange
	r := httptest.NewRequest(http.MethodPut, "/admin/users//7/", strings.NewReader("a=1"))

	// Act
	c, err := req.Build(r)

	// Assert
	require.Nil(t, err)
	require.Equal(t, []string{"admin", "users", "7"}, c.Segments)
	require.Equal(t, []byte("a=1"), c.Body)

	first, ok := c.Segment(0)
	require.True(t, ok)
	require.Equal(t, "admin", first)

	_, ok = c.Segment(3)
	require.False(t, ok)

	replay := new(bytes.Buffer)
	_, err = replay.ReadFrom(r.Body)
	require.Nil(t, err)
	require.Equal(t, "a=1", replay.String())
}

func TestBuildRequestID(t *testing.T) {
	// Arrange
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	withID := r.WithContext(trailhead.NewRequestIDContext(context.Background(), "abc"))

	// Act
	minted, err := req.Build(r)
	require.Nil(t, err)
	stashed, err := req.Build(withID)
	require.Nil(t, err)

	// Assert
	require.NotEmpty(t, minted.RequestID)
	require.Equal(t, "abc", stashed.RequestID)
}

func TestBuildNil(t *testing.T) {
	// Act
	c, err := req.Build(nil)

	// Assert
	require.ErrorIs(t, err, trailhead.ErrMissingData)
	require.Nil(t, c)
}

func TestSegments(t *testing.T) {
	require.Equal(t, []string{}, req.Segments("/"))
	require.Equal(t, []string{}, req.Segments(""))
	require.Equal(t, []string{"a", "b"}, req.Segments("a/b"))
}

type testEnum string

func (t testEnum) Valid() error {
	if t == "ok" {
		return nil
	}
	return errors.New("oops")
}

func TestContextBind(t *testing.T) {
	type form struct {
		Name  string   `schema:"name" validate:"required"`
		Age   int      `schema:"age" validate:"gte=18"`
		Kind  testEnum `schema:"kind" validate:"enum"`
		Other string   `schema:"-"`
	}

	t.Run("Valid", func(t *testing.T) {
		// Arrange
		c := &req.Context{Method: http.MethodPost, Input: url.Values{"name": {"ann"}, "age": {"30"}, "kind": {"ok"}, "extra": {"x"}}}
		var dst form

		// Act
		err := c.Bind(&dst)

		// Assert
		require.Nil(t, err)
		require.Equal(t, form{Name: "ann", Age: 30, Kind: "ok"}, dst)
	})

	t.Run("Not-Pointer", func(t *testing.T) {
		// Arrange
		c := &req.Context{Method: http.MethodPost, Input: url.Values{}}

		// Act
		err := c.Bind(form{})

		// Assert
		require.ErrorIs(t, err, trailhead.ErrBadAny)
	})

	t.Run("Conversion", func(t *testing.T) {
		// Arrange
		c := &req.Context{Method: http.MethodPost, Input: url.Values{"age": {"old"}}}
		var actual req.ValidationErrors

		// Act
		err := c.Bind(&form{})

		// Assert
		require.ErrorIs(t, err, trailhead.ErrNotValid)
		require.ErrorAs(t, err, &actual)
		require.Equal(t, req.ValidationErrors{{Field: "age", Got: "bad value at index 0", Rule: "must be int"}}, actual)
	})

	t.Run("Validation", func(t *testing.T) {
		// Arrange
		c := &req.Context{Method: http.MethodPost, Input: url.Values{"age": {"12"}, "kind": {"bad"}}}
		var actual req.ValidationErrors

		// Act
		err := c.Bind(&form{})

		// Assert
		require.ErrorIs(t, err, trailhead.ErrNotValid)
		require.ErrorAs(t, err, &actual)
		require.Equal(t, req.ValidationErrors{
			{Field: "name", Got: "", Rule: "required; string"},
			{Field: "age", Got: 12, Rule: "gte=18; int"},
			{Field: "kind", Got: testEnum("bad"), Rule: "enum; req_test.testEnum"},
		}, actual)
	})
}
