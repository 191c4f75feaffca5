package fx_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"findalleasy/internal/fx"
)

func jsonResponse(t *testing.T, status int, body any) *http.Response {
	t.Helper()
	buffer := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(buffer).Encode(body))
	return &http.Response{StatusCode: status, Body: io.NopCloser(buffer)}
}

func TestLatest(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock HTTP client
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, http.MethodGet, req.Method)
			require.Equal(t, "/latest", req.URL.Path)
			require.Equal(t, "TRY", req.URL.Query().Get("base"))
			require.Equal(t, "secret", req.URL.Query().Get("access_key"))

			return jsonResponse(t, http.StatusOK, map[string]any{
				"success": true,
				"rates":   map[string]any{"usd": 0.034, "EUR": 0.031},
			}), nil
		}).
		Times(1)

	client := fx.NewClient(fx.WithHTTPClient(httpClient), fx.WithAccessKey("secret"))

	// Act: fetch rates
	rates, err := client.Latest(t.Context(), "try")
	require.NoError(t, err)

	// Assert: codes are upper-cased and the base is present
	require.Len(t, rates, 3)
	require.Equal(t, "0.034", rates["USD"].String())
	require.Equal(t, "0.031", rates["EUR"].String())
	require.Equal(t, "1", rates["TRY"].String())
}

func TestLatest_KeepsReportedBaseRate(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(jsonResponse(t, http.StatusOK, map[string]any{"rates": map[string]any{"USD": 1, "EUR": 0.9}}), nil).
		Times(1)

	client := fx.NewClient(fx.WithHTTPClient(httpClient))
	rates, err := client.Latest(t.Context(), "USD")
	require.NoError(t, err)
	require.Equal(t, "1", rates["USD"].String())
	require.Equal(t, "0.9", rates["EUR"].String())
}

func TestLatest_MissingRatesIsEmptyTable(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(jsonResponse(t, http.StatusOK, map[string]any{}), nil).
		Times(1)

	client := fx.NewClient(fx.WithHTTPClient(httpClient))
	rates, err := client.Latest(t.Context(), "TRY")
	require.NoError(t, err)
	require.Len(t, rates, 1)
	require.Equal(t, "1", rates["TRY"].String())
}

func TestLatest_WithBaseURLAndHeader(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	baseURL := "http://localhost:8080/"

	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Truef(t, strings.HasPrefix(req.URL.String(), "http://localhost:8080/latest?"), "unexpected url: %s", req.URL.String())
			require.Equal(t, "bar", req.Header.Get("foo"))
			return jsonResponse(t, http.StatusOK, map[string]any{"rates": map[string]any{}}), nil
		}).
		Times(1)

	client := fx.NewClient(
		fx.WithHTTPClient(httpClient),
		fx.WithBaseURL(baseURL),
		fx.WithHeader(http.Header{"foo": []string{"bar"}}),
	)
	_, err := client.Latest(t.Context(), "TRY")
	require.NoError(t, err)
}

func TestLatest_ErrCreatingRequest(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().Do(gomock.Any()).Times(0)

	client := fx.NewClient(fx.WithHTTPClient(httpClient))
	rates, err := client.Latest(t.Context(), "TRY", fx.WithBaseURL(string([]rune{0x7f})))
	require.Error(t, err)
	require.Nil(t, rates)
}

func TestLatest_ErrPerformingRequest(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(nil, errors.New("connection refused")).
		Times(1)

	client := fx.NewClient(fx.WithHTTPClient(httpClient))
	rates, err := client.Latest(t.Context(), "TRY")
	require.ErrorContains(t, err, "performing request")
	require.Nil(t, rates)
}

func TestLatest_StatusCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, fx.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, fx.ErrUnauthorized},
		{"rate limited", http.StatusTooManyRequests, fx.ErrRateLimited},
		{"server error", http.StatusInternalServerError, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			httpClient := NewMockHTTPClient(ctrl)
			httpClient.EXPECT().
				Do(gomock.Any()).
				Return(jsonResponse(t, tc.status, map[string]any{}), nil).
				Times(1)

			client := fx.NewClient(fx.WithHTTPClient(httpClient))
			rates, err := client.Latest(t.Context(), "TRY")
			require.Error(t, err)
			require.Nil(t, rates)
			if tc.want != nil {
				require.ErrorIs(t, err, tc.want)
			} else {
				require.ErrorContains(t, err, "unexpected status code: 500")
			}
		})
	}
}

func TestLatest_ErrMalformedBody(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(&http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("<html>"))}, nil).
		Times(1)

	client := fx.NewClient(fx.WithHTTPClient(httpClient))
	rates, err := client.Latest(t.Context(), "TRY")
	require.ErrorContains(t, err, "decoding rates response")
	require.Nil(t, rates)
}

func TestLatest_ErrAPIFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(jsonResponse(t, http.StatusOK, map[string]any{
			"success": false,
			"error":   map[string]any{"code": 101, "type": "missing_access_key"},
		}), nil).
		Times(1)

	client := fx.NewClient(fx.WithHTTPClient(httpClient))
	rates, err := client.Latest(t.Context(), "TRY")
	require.ErrorContains(t, err, "missing_access_key")
	require.Nil(t, rates)
}
