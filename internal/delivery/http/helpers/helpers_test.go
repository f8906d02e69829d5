package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventplanner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.Invalid("bad"), http.StatusBadRequest},
		{domain.ErrAlreadyInvited, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrEditForbidden, http.StatusForbidden},
		{fmt.Errorf("get event: %w", domain.ErrEventNotFound), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestWriteServiceError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"domain error keeps message", domain.ErrNotInvitee, http.StatusForbidden, "You can only respond to your own invitations"},
		{"wrapped domain error", fmt.Errorf("x: %w", domain.ErrInvitationNotFound), http.StatusNotFound, "Invitation not found"},
		{"internal error hides detail", errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			WriteServiceError(rec, req, logger, tt.err)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantMessage, body.Error)
		})
	}
}

type sampleRequest struct {
	Name string `json:"name"`
}

func (s sampleRequest) Validate() []string {
	if s.Name == "" {
		return []string{"name is required"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantSubstr string
	}{
		{name: "valid", body: `{"name":"x"}`, wantOK: true},
		{name: "unknown field", body: `{"name":"x","extra":1}`, wantSubstr: "Invalid request body"},
		{name: "malformed", body: `{`, wantSubstr: "Invalid request body"},
		{name: "validation", body: `{}`, wantSubstr: "name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dest sampleRequest
			ok := DecodeAndValidate(rec, req, &dest)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				return
			}
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantSubstr)
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		value  string
		want   int64
		wantOK bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.SetPathValue("id", tt.value)
			got, ok := ParseID(req, "id")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	for _, s := range []string{"2025-06-01T18:00:00Z", "2025-06-01T20:00:00+02:00", "2025-06-01T18:00:00", "2025-06-01T18:00"} {
		t.Run(s, func(t *testing.T) {
			got, err := ParseDate(s)
			require.NoError(t, err)
			assert.True(t, want.Equal(got))
		})
	}
	day, err := ParseDate("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), day)

	_, err = ParseDate("next tuesday")
	assert.Error(t, err)
}

func TestOptional(t *testing.T) {
	var body struct {
		Description Optional[string] `json:"description"`
		Location    Optional[string] `json:"location"`
		Title       Optional[string] `json:"title"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"description":null,"location":""}`), &body))

	assert.True(t, body.Description.Set)
	assert.Nil(t, body.Description.Value)
	assert.True(t, body.Location.Set)
	require.NotNil(t, body.Location.Value)
	assert.Equal(t, "", *body.Location.Value)
	assert.False(t, body.Title.Set)
}
