package openai

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/dverbeek/mockmate/internal/provider"
)

// readJSON decodes a request body into v. Shared across the HTTP tests.
func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func TestMapHTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    error  // sentinel to match with errors.Is, nil to skip
		wantNil    bool   // expect no error
		wantSubstr string // substring the message must carry
	}{
		{
			name:       "success",
			statusCode: 200,
			wantNil:    true,
		},
		{
			name:       "created",
			statusCode: 201,
			wantNil:    true,
		},
		{
			name:       "rate limited",
			statusCode: 429,
			body:       `{"error":{"message":"slow down"}}`,
			wantErr:    provider.ErrRateLimit,
			wantSubstr: "slow down",
		},
		{
			name:       "unauthorized",
			statusCode: 401,
			body:       `{"error":{"message":"bad key"}}`,
			wantErr:    errAuth,
			wantSubstr: "bad key",
		},
		{
			name:       "server error",
			statusCode: 503,
			body:       `upstream down`,
			wantErr:    provider.ErrProviderDown,
			wantSubstr: "upstream down",
		},
		{
			name:       "plain client error keeps status",
			statusCode: 418,
			body:       `teapot`,
			wantSubstr: "HTTP 418",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := mapHTTPError(tt.statusCode, []byte(tt.body))
			if tt.wantNil {
				if err != nil {
					t.Fatalf("mapHTTPError = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("mapHTTPError = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error %v does not wrap %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantSubstr) {
				t.Errorf("error %q does not contain %q", err, tt.wantSubstr)
			}
		})
	}
}
