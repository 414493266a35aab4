package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Freeeeeet/time_tracker/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFlexID(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{input: `12`, want: 12},
		{input: `"12"`, want: 12},
		{input: `" 7 "`, want: 7},
		{input: `"08"`, want: 8},
		{input: `"010"`, want: 10},
		{input: `1.5`, wantErr: true},
		{input: `"0x10"`, wantErr: true},
		{input: `0`, wantErr: true},
		{input: `-3`, wantErr: true},
		{input: `"abc"`, wantErr: true},
		{input: `true`, wantErr: true},
		{input: `[1]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got struct {
				ID *FlexID `json:"id"`
			}
			err := json.Unmarshal([]byte(`{"id":`+tt.input+`}`), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got.ID.Ptr())
		})
	}
}

func TestFlexID_Absent(t *testing.T) {
	var got struct {
		ID *FlexID `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &got))
	assert.Nil(t, got.ID.Ptr())
}

func TestFlexString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: `123456789`, want: "123456789"},
		{input: `"123456789"`, want: "123456789"},
		{input: `"  42 "`, want: "42"},
		{input: `null`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got struct {
				V FlexString `json:"v"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"v":`+tt.input+`}`), &got))
			assert.Equal(t, tt.want, string(got.V))
		})
	}
}

func TestFlexInt(t *testing.T) {
	var got struct {
		N FlexInt `json:"n"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"n":"45"}`), &got))
	assert.Equal(t, 45, int(got.N))

	require.NoError(t, json.Unmarshal([]byte(`{"n":30}`), &got))
	assert.Equal(t, 30, int(got.N))

	require.NoError(t, json.Unmarshal([]byte(`{"n":"090"}`), &got))
	assert.Equal(t, 90, int(got.N))

	assert.Error(t, json.Unmarshal([]byte(`{"n":"полчаса"}`), &got))
}

func TestPathID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "14", want: 14},
		{raw: "016", want: 16},
		{raw: "09", want: 9},
		{raw: "0", wantErr: true},
		{raw: "0o17", wantErr: true},
		{raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodDelete, "/", nil)
			r.SetPathValue("id", tt.raw)

			got, err := pathID(r, "id")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("wrap: %w", service.ErrValidation), want: http.StatusBadRequest},
		{err: service.ErrUnauthorized, want: http.StatusUnauthorized},
		{err: &service.Error{Kind: service.ErrNotFound, Message: "nope"}, want: http.StatusNotFound},
		{err: &service.Error{Kind: service.ErrConflict, Message: "dup"}, want: http.StatusConflict},
		{err: errors.New("db is down"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestWriteError(t *testing.T) {
	h := &Handlers{logger: zap.NewNop()}

	t.Run("conflict carries existing id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.writeError(rec, "test", &service.Error{Kind: service.ErrConflict, Message: "category already exists", ExistingID: 7})

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.JSONEq(t, `{"error":"category already exists","existing_id":7}`, rec.Body.String())
	})

	t.Run("internal error is hidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.writeError(rec, "test", errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	})
}

func TestDecodeJSON(t *testing.T) {
	var dst map[string]any

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("  "))
	assert.Error(t, decodeJSON(r, &dst))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{broken"))
	assert.Error(t, decodeJSON(r, &dst))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
	require.NoError(t, decodeJSON(r, &dst))
	assert.EqualValues(t, 1, dst["a"])
}

func TestSessionToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, sessionToken(r))

	r.Header.Set("Authorization", "Bearer abc.def")
	assert.Equal(t, "abc.def", sessionToken(r))

	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", sessionToken(r))
}
