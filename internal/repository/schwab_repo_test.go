package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"finsight-trading/config"
	"finsight-trading/internal/dto"
	"finsight-trading/pkg/common"
	"finsight-trading/pkg/httpclient"
	"finsight-trading/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHTTPClient struct {
	authToken  string
	onGet      func(endpoint string, queryParams map[string]string, result interface{}) (*httpclient.BaseResponse, error)
	onPostForm func(endpoint string, form map[string]string, headers map[string]string, result interface{}) (*httpclient.BaseResponse, error)
}

func (f *fakeHTTPClient) Get(ctx context.Context, endpoint string, queryParams map[string]string, headers map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
	if f.onGet != nil {
		return f.onGet(endpoint, queryParams, result)
	}
	return &httpclient.BaseResponse{StatusCode: http.StatusOK}, nil
}

func (f *fakeHTTPClient) Post(ctx context.Context, endpoint string, body interface{}, headers map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
	return &httpclient.BaseResponse{StatusCode: http.StatusOK}, nil
}

func (f *fakeHTTPClient) PostForm(ctx context.Context, endpoint string, form map[string]string, headers map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
	if f.onPostForm != nil {
		return f.onPostForm(endpoint, form, headers, result)
	}
	return &httpclient.BaseResponse{StatusCode: http.StatusOK}, nil
}

func (f *fakeHTTPClient) Delete(ctx context.Context, endpoint string, headers map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
	return &httpclient.BaseResponse{StatusCode: http.StatusOK}, nil
}

func (f *fakeHTTPClient) SetAuthToken(token string) {
	f.authToken = token
}

func testSchwabConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Schwab: config.Schwab{
			AppKey:              strings.Repeat("k", 32),
			AppSecret:           strings.Repeat("s", 16),
			CallbackURL:         "https://127.0.0.1",
			BaseURL:             "https://api.example.com",
			AuthBaseURL:         "https://api.example.com/v1/oauth",
			TokensFile:          filepath.Join(t.TempDir(), "tokens.json"),
			Timeout:             time.Second,
			MaxRequestPerMinute: 6000,
		},
	}
}

// newTestSchwabRepo wires a configured repository whose REST clients are the
// given fake, so no test touches the network.
func newTestSchwabRepo(t *testing.T, cfg *config.Config, fake *fakeHTTPClient) *schwabRepository {
	t.Helper()

	repo, err := NewSchwabRepository(cfg, logger.NewNop())
	require.NoError(t, err)

	impl, ok := repo.(*schwabRepository)
	require.True(t, ok)
	impl.newClient = func(baseURL string, timeout time.Duration, bearerToken string) httpclient.HTTPClient {
		return fake
	}
	return impl
}

func TestNewSchwabRepository_Validation(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		secret     string
		wantErr    bool
		configured bool
	}{
		{
			name:       "missing credentials is unconfigured, not an error",
			key:        "",
			secret:     "",
			wantErr:    false,
			configured: false,
		},
		{
			name:    "placeholder credentials rejected",
			key:     "your-app-key",
			secret:  strings.Repeat("s", 16),
			wantErr: true,
		},
		{
			name:    "key length rejected",
			key:     strings.Repeat("k", 20),
			secret:  strings.Repeat("s", 16),
			wantErr: true,
		},
		{
			name:    "secret length rejected",
			key:     strings.Repeat("k", 32),
			secret:  strings.Repeat("s", 20),
			wantErr: true,
		},
		{
			name:       "32 char key with 16 char secret accepted",
			key:        strings.Repeat("k", 32),
			secret:     strings.Repeat("s", 16),
			wantErr:    false,
			configured: true,
		},
		{
			name:       "48 char key with 64 char secret accepted",
			key:        strings.Repeat("k", 48),
			secret:     strings.Repeat("s", 64),
			wantErr:    false,
			configured: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testSchwabConfig(t)
			cfg.Schwab.AppKey = tt.key
			cfg.Schwab.AppSecret = tt.secret

			repo, err := NewSchwabRepository(cfg, logger.NewNop())
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrNotConfigured)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.configured, repo.IsConfigured())
		})
	}
}

func TestSchwabRepository_GetAuthorizationURL(t *testing.T) {
	t.Run("empty when unconfigured", func(t *testing.T) {
		cfg := testSchwabConfig(t)
		cfg.Schwab.AppKey = ""
		cfg.Schwab.AppSecret = ""

		repo, err := NewSchwabRepository(cfg, logger.NewNop())
		require.NoError(t, err)
		assert.Empty(t, repo.GetAuthorizationURL())
	})

	t.Run("carries client id and redirect uri", func(t *testing.T) {
		cfg := testSchwabConfig(t)
		repo := newTestSchwabRepo(t, cfg, &fakeHTTPClient{})

		url := repo.GetAuthorizationURL()
		assert.Contains(t, url, cfg.Schwab.AuthBaseURL+"/authorize")
		assert.Contains(t, url, "client_id="+cfg.Schwab.AppKey)
		assert.Contains(t, url, "redirect_uri="+cfg.Schwab.CallbackURL)
	})
}

func TestSchwabRepository_RequiresInitialization(t *testing.T) {
	cfg := testSchwabConfig(t)
	repo := newTestSchwabRepo(t, cfg, &fakeHTTPClient{})
	ctx := context.Background()

	_, err := repo.GetQuotes(ctx, []string{"AAPL"})
	assert.ErrorIs(t, err, common.ErrNotInitialized)

	_, err = repo.GetAccounts(ctx)
	assert.ErrorIs(t, err, common.ErrNotInitialized)

	assert.False(t, repo.IsAuthenticated(ctx), "must not report authenticated without a client")
}

func TestSchwabRepository_ExchangeCode(t *testing.T) {
	cfg := testSchwabConfig(t)
	fake := &fakeHTTPClient{}
	fake.onPostForm = func(endpoint string, form map[string]string, headers map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
		assert.Equal(t, "/token", endpoint)
		assert.Equal(t, "authorization_code", form["grant_type"])
		assert.Equal(t, "test-code", form["code"])
		assert.Equal(t, cfg.Schwab.CallbackURL, form["redirect_uri"])
		assert.True(t, strings.HasPrefix(headers["Authorization"], "Basic "))

		*(result.(*dto.Token)) = dto.Token{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			TokenType:    "Bearer",
			ExpiresIn:    1800,
		}
		return &httpclient.BaseResponse{StatusCode: http.StatusOK}, nil
	}

	repo := newTestSchwabRepo(t, cfg, fake)
	ctx := context.Background()

	require.NoError(t, repo.ExchangeCode(ctx, "test-code"))
	assert.Equal(t, "access-1", fake.authToken)

	raw, err := os.ReadFile(cfg.Schwab.TokensFile)
	require.NoError(t, err)

	var persisted dto.Token
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, "access-1", persisted.AccessToken)
	assert.Equal(t, "refresh-1", persisted.RefreshToken)
	assert.NotZero(t, persisted.IssuedAt)
}

func TestSchwabRepository_RefreshToken(t *testing.T) {
	cfg := testSchwabConfig(t)
	fake := &fakeHTTPClient{}

	var gotGrant string
	fake.onPostForm = func(endpoint string, form map[string]string, headers map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
		gotGrant = form["grant_type"]
		token := dto.Token{AccessToken: "access-2", RefreshToken: "refresh-2"}
		if form["grant_type"] == "refresh_token" {
			// Rotated access token without a new refresh token.
			token = dto.Token{AccessToken: "access-3"}
		}
		*(result.(*dto.Token)) = token
		return &httpclient.BaseResponse{StatusCode: http.StatusOK}, nil
	}

	repo := newTestSchwabRepo(t, cfg, fake)
	ctx := context.Background()

	t.Run("without a token is not authenticated", func(t *testing.T) {
		require.NoError(t, repo.InitializeClient(ctx))
		assert.ErrorIs(t, repo.RefreshToken(ctx), common.ErrNotAuthenticated)
	})

	t.Run("keeps prior refresh token when response omits one", func(t *testing.T) {
		require.NoError(t, repo.ExchangeCode(ctx, "code"))
		require.NoError(t, repo.RefreshToken(ctx))

		assert.Equal(t, "refresh_token", gotGrant)
		assert.Equal(t, "access-3", fake.authToken)

		raw, err := os.ReadFile(cfg.Schwab.TokensFile)
		require.NoError(t, err)
		var persisted dto.Token
		require.NoError(t, json.Unmarshal(raw, &persisted))
		assert.Equal(t, "refresh-2", persisted.RefreshToken)
	})
}

func TestSchwabRepository_RefreshTokenDeniedGrant(t *testing.T) {
	cfg := testSchwabConfig(t)
	fake := &fakeHTTPClient{}
	fake.onPostForm = func(endpoint string, form map[string]string, headers map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
		if form["grant_type"] == "authorization_code" {
			*(result.(*dto.Token)) = dto.Token{AccessToken: "access", RefreshToken: "expired"}
			return &httpclient.BaseResponse{StatusCode: http.StatusOK}, nil
		}
		return &httpclient.BaseResponse{
			StatusCode: http.StatusBadRequest,
			Body:       []byte(`{"error":"invalid_grant"}`),
		}, nil
	}

	repo := newTestSchwabRepo(t, cfg, fake)
	ctx := context.Background()
	require.NoError(t, repo.ExchangeCode(ctx, "code"))

	err := repo.RefreshToken(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotAuthenticated, "a denied grant must demand re-authentication")
	assert.NotErrorIs(t, err, common.ErrGateway)
}

func TestSchwabRepository_RefreshTokenTransportError(t *testing.T) {
	cfg := testSchwabConfig(t)
	fake := &fakeHTTPClient{}
	fake.onPostForm = func(endpoint string, form map[string]string, headers map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
		if form["grant_type"] == "authorization_code" {
			*(result.(*dto.Token)) = dto.Token{AccessToken: "access", RefreshToken: "refresh"}
			return &httpclient.BaseResponse{StatusCode: http.StatusOK}, nil
		}
		return nil, errors.New("dial tcp: connection refused")
	}

	repo := newTestSchwabRepo(t, cfg, fake)
	ctx := context.Background()
	require.NoError(t, repo.ExchangeCode(ctx, "code"))

	err := repo.RefreshToken(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrGateway)
	assert.NotErrorIs(t, err, common.ErrNotAuthenticated)
}

func TestSchwabRepository_GetQuotes(t *testing.T) {
	cfg := testSchwabConfig(t)
	fake := &fakeHTTPClient{}
	fake.onGet = func(endpoint string, queryParams map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
		assert.Equal(t, "/marketdata/v1/quotes", endpoint)
		assert.Equal(t, "AAPL,MSFT", queryParams["symbols"])
		assert.Equal(t, "quote", queryParams["fields"])

		*(result.(*map[string]dto.QuoteEnvelope)) = map[string]dto.QuoteEnvelope{
			"AAPL": {Quote: dto.Quote{LastPrice: 185.5}},
			"MSFT": {Quote: dto.Quote{LastPrice: 410.2}},
		}
		return &httpclient.BaseResponse{StatusCode: http.StatusOK}, nil
	}

	repo := newTestSchwabRepo(t, cfg, fake)
	ctx := context.Background()
	require.NoError(t, repo.InitializeClient(ctx))

	quotes, err := repo.GetQuotes(ctx, []string{" aapl", "msft "})
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "AAPL", quotes["AAPL"].Symbol)
	assert.Equal(t, 185.5, quotes["AAPL"].LastPrice)

	t.Run("empty symbol list is a validation error", func(t *testing.T) {
		_, err := repo.GetQuotes(ctx, []string{" ", ""})
		assert.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("401 maps to ErrNotAuthenticated", func(t *testing.T) {
		fake.onGet = func(endpoint string, queryParams map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
			return &httpclient.BaseResponse{StatusCode: http.StatusUnauthorized}, nil
		}
		_, err := repo.GetQuotes(ctx, []string{"AAPL"})
		assert.ErrorIs(t, err, common.ErrNotAuthenticated)
	})
}

func TestSchwabRepository_GetPriceHistory(t *testing.T) {
	cfg := testSchwabConfig(t)
	fake := &fakeHTTPClient{}
	fake.onGet = func(endpoint string, queryParams map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
		assert.Equal(t, "/marketdata/v1/pricehistory", endpoint)
		assert.Equal(t, "AAPL", queryParams["symbol"])
		assert.Equal(t, "day", queryParams["periodType"])
		assert.Equal(t, "10", queryParams["period"])
		assert.Equal(t, "minute", queryParams["frequencyType"])
		assert.Equal(t, "1", queryParams["frequency"])

		*(result.(*dto.PriceHistory)) = dto.PriceHistory{
			Symbol:  "AAPL",
			Candles: []dto.Candle{{Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100}},
		}
		return &httpclient.BaseResponse{StatusCode: http.StatusOK}, nil
	}

	repo := newTestSchwabRepo(t, cfg, fake)
	ctx := context.Background()
	require.NoError(t, repo.InitializeClient(ctx))

	history, err := repo.GetPriceHistory(ctx, "aapl", "day", 10)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", history.Symbol)
	assert.Len(t, history.Candles, 1)
}

func TestSchwabRepository_Logout(t *testing.T) {
	cfg := testSchwabConfig(t)
	fake := &fakeHTTPClient{}
	fake.onPostForm = func(endpoint string, form map[string]string, headers map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
		*(result.(*dto.Token)) = dto.Token{AccessToken: "access", RefreshToken: "refresh"}
		return &httpclient.BaseResponse{StatusCode: http.StatusOK}, nil
	}

	repo := newTestSchwabRepo(t, cfg, fake)
	ctx := context.Background()

	require.NoError(t, repo.ExchangeCode(ctx, "code"))
	require.FileExists(t, cfg.Schwab.TokensFile)

	require.NoError(t, repo.Logout(ctx))
	assert.NoFileExists(t, cfg.Schwab.TokensFile)
	assert.False(t, repo.IsAuthenticated(ctx))

	t.Run("repeatable from any state", func(t *testing.T) {
		require.NoError(t, repo.Logout(ctx))
	})
}

func TestSchwabRepository_StartStreamFallbackURL(t *testing.T) {
	wsURL, requests := startStreamServer(t)

	cfg := testSchwabConfig(t)
	cfg.Schwab.StreamerURL = wsURL

	// Preference call succeeds but carries no streamer block.
	fake := &fakeHTTPClient{}
	repo := newTestSchwabRepo(t, cfg, fake)
	ctx := context.Background()

	require.NoError(t, repo.InitializeClient(ctx))
	repo.token = &dto.Token{AccessToken: "access"}

	require.NoError(t, repo.StartStream(ctx, []string{"AAPL"}, nil))
	defer repo.StopStream()

	select {
	case envelope := <-requests:
		require.Len(t, envelope.Requests, 1)
		assert.Equal(t, "LOGIN", envelope.Requests[0].Command)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for login on fallback endpoint")
	}
}

func TestSchwabRepository_StartStreamNoStreamerInfo(t *testing.T) {
	cfg := testSchwabConfig(t)
	cfg.Schwab.StreamerURL = ""

	fake := &fakeHTTPClient{}
	repo := newTestSchwabRepo(t, cfg, fake)
	ctx := context.Background()

	require.NoError(t, repo.InitializeClient(ctx))
	repo.token = &dto.Token{AccessToken: "access"}

	err := repo.StartStream(ctx, []string{"AAPL"}, nil)
	assert.ErrorIs(t, err, common.ErrGateway)
}

func TestSchwabRepository_InitializeClientLoadsPersistedToken(t *testing.T) {
	cfg := testSchwabConfig(t)
	raw, err := json.Marshal(dto.Token{AccessToken: "persisted", RefreshToken: "persisted-refresh"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfg.Schwab.TokensFile, raw, 0o600))

	fake := &fakeHTTPClient{}
	repo := newTestSchwabRepo(t, cfg, fake)
	ctx := context.Background()

	require.NoError(t, repo.InitializeClient(ctx))
	assert.Equal(t, "persisted", fake.authToken)
	assert.True(t, repo.IsAuthenticated(ctx))
}
