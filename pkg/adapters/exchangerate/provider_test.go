package exchangerate_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/metron/pkg/adapters/exchangerate"
	"github.com/aretw0/metron/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &gotPath
}

func TestProvider_Latest(t *testing.T) {
	srv, path := serve(t, http.StatusOK, `{"base":"USD","date":"2026-10-18","rates":{"USD":1,"EUR":0.92,"JPY":151.3}}`)

	p := exchangerate.New(exchangerate.WithBaseURL(srv.URL + "/v4/latest"))
	table, err := p.Latest(context.Background(), "USD")
	require.NoError(t, err)

	assert.Equal(t, "/v4/latest/USD", *path)
	assert.Equal(t, "USD", table.Base)
	assert.Equal(t, 0.92, table.Rates["EUR"])
	assert.Equal(t, 151.3, table.Rates["JPY"])
	assert.False(t, table.FetchedAt.IsZero())
}

func TestProvider_CustomRatesPath(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `{"result":"success","conversion_rates":{"EUR":0.5}}`)

	p := exchangerate.New(
		exchangerate.WithBaseURL(srv.URL+"/"),
		exchangerate.WithRatesPath("$.conversion_rates"),
	)
	table, err := p.Latest(context.Background(), "GBP")
	require.NoError(t, err)
	assert.Equal(t, 0.5, table.Rates["EUR"])
}

func TestProvider_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   domain.FetchFailure
	}{
		{"server error", http.StatusInternalServerError, `oops`, domain.FailureStatus},
		{"not found", http.StatusNotFound, `{"result":"error"}`, domain.FailureStatus},
		{"garbage", http.StatusOK, `<html>`, domain.FailurePayload},
		{"no rates field", http.StatusOK, `{"base":"USD"}`, domain.FailurePayload},
		{"rates not object", http.StatusOK, `{"rates":[1,2]}`, domain.FailurePayload},
		{"empty rates", http.StatusOK, `{"rates":{}}`, domain.FailurePayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := serve(t, tt.status, tt.body)
			p := exchangerate.New(exchangerate.WithBaseURL(srv.URL))

			_, err := p.Latest(context.Background(), "USD")
			require.ErrorIs(t, err, domain.ErrRatesUnavailable)

			var rfe *domain.RateFetchError
			require.ErrorAs(t, err, &rfe)
			assert.Equal(t, tt.want, rfe.Kind)
		})
	}
}

func TestProvider_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := exchangerate.New(exchangerate.WithBaseURL(url))
	_, err := p.Latest(context.Background(), "USD")

	var rfe *domain.RateFetchError
	require.ErrorAs(t, err, &rfe)
	assert.Equal(t, domain.FailureNetwork, rfe.Kind)
}

func TestProvider_ContextCanceled(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `{"rates":{"EUR":1}}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := exchangerate.New(exchangerate.WithBaseURL(srv.URL)).Latest(ctx, "USD")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, domain.ErrRatesUnavailable)
}
