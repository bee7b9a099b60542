package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"finsight-trading/config"
	"finsight-trading/internal/dto"
	"finsight-trading/pkg/common"
	"finsight-trading/pkg/httpclient"
	"finsight-trading/pkg/logger"
	"finsight-trading/pkg/utils"

	"golang.org/x/time/rate"
)

// StreamHandler receives each inbound stream message synchronously on the
// websocket read goroutine.
type StreamHandler func(msg dto.StreamMessage)

// SchwabRepository is the single point of contact with the Schwab brokerage
// API: OAuth lifecycle, quotes, price history, accounts and the level-one
// equity stream.
type SchwabRepository interface {
	IsConfigured() bool
	InitializeClient(ctx context.Context) error
	GetAuthorizationURL() string
	ExchangeCode(ctx context.Context, code string) error
	IsAuthenticated(ctx context.Context) bool
	RefreshToken(ctx context.Context) error
	Logout(ctx context.Context) error
	GetAccounts(ctx context.Context) ([]dto.Account, error)
	GetQuotes(ctx context.Context, symbols []string) (map[string]dto.Quote, error)
	GetPriceHistory(ctx context.Context, symbol, periodType string, period int) (*dto.PriceHistory, error)
	StartStream(ctx context.Context, symbols []string, handler StreamHandler) error
	StopStream()
}

type schwabRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	configured     bool
	requestLimiter *rate.Limiter

	// mu guards the mutable client, token and streamer handles. Init, token
	// exchange, logout and stream transitions may be called concurrently from
	// independent HTTP requests.
	mu         sync.Mutex
	apiClient  httpclient.HTTPClient
	authClient httpclient.HTTPClient
	token      *dto.Token
	streamer   *SchwabStreamer

	newClient func(baseURL string, timeout time.Duration, bearerToken string) httpclient.HTTPClient
}

var credentialPlaceholders = []string{"your-app-key", "your-app-secret", "changeme"}

// NewSchwabRepository builds the gateway. Missing credentials leave it in the
// unconfigured state; malformed credentials are a configuration error.
func NewSchwabRepository(cfg *config.Config, log *logger.Logger) (SchwabRepository, error) {
	r := &schwabRepository{
		cfg:            cfg,
		log:            log,
		newClient:      httpclient.New,
		requestLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(maxInt(cfg.Schwab.MaxRequestPerMinute, 1))), 1),
	}

	key, secret := cfg.Schwab.AppKey, cfg.Schwab.AppSecret
	if key == "" || secret == "" {
		log.Warn("Schwab API credentials not set, gateway is unconfigured")
		return r, nil
	}

	if utils.ContainsString(credentialPlaceholders, strings.ToLower(key)) ||
		utils.ContainsString(credentialPlaceholders, strings.ToLower(secret)) {
		return nil, fmt.Errorf("%w: APP_KEY/APP_SECRET are placeholder values", common.ErrNotConfigured)
	}
	if len(key) != 32 && len(key) != 48 {
		return nil, fmt.Errorf("%w: APP_KEY has invalid length %d (expected 32 or 48)", common.ErrNotConfigured, len(key))
	}
	if len(secret) != 16 && len(secret) != 64 {
		return nil, fmt.Errorf("%w: APP_SECRET has invalid length %d (expected 16 or 64)", common.ErrNotConfigured, len(secret))
	}

	r.configured = true
	return r, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (r *schwabRepository) IsConfigured() bool {
	return r.configured
}

// InitializeClient builds the REST clients and loads a previously persisted
// token when one exists.
func (r *schwabRepository) InitializeClient(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.configured {
		return common.ErrNotConfigured
	}
	if r.apiClient != nil {
		return nil
	}

	r.authClient = r.newClient(r.cfg.Schwab.AuthBaseURL, r.cfg.Schwab.Timeout, "")
	apiClient := r.newClient(r.cfg.Schwab.BaseURL, r.cfg.Schwab.Timeout, "")

	if token, err := r.loadToken(); err == nil && token != nil {
		r.token = token
		apiClient.SetAuthToken(token.AccessToken)
		r.log.Info("Loaded persisted Schwab token", logger.StringField("tokens_file", r.cfg.Schwab.TokensFile))
	}

	r.apiClient = apiClient
	r.log.InfoContext(ctx, "Schwab API client initialized")
	return nil
}

func (r *schwabRepository) GetAuthorizationURL() string {
	if !r.configured {
		return ""
	}
	return fmt.Sprintf("%s/authorize?client_id=%s&redirect_uri=%s",
		r.cfg.Schwab.AuthBaseURL, r.cfg.Schwab.AppKey, r.cfg.Schwab.CallbackURL)
}

// ExchangeCode performs the one-shot authorization-code exchange and persists
// the resulting token. The raw token never leaves the gateway.
func (r *schwabRepository) ExchangeCode(ctx context.Context, code string) error {
	if err := r.InitializeClient(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	form := map[string]string{
		"grant_type":   "authorization_code",
		"code":         code,
		"redirect_uri": r.cfg.Schwab.CallbackURL,
	}
	token, _, err := r.requestToken(ctx, form)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrGateway, err)
	}

	r.token = token
	r.apiClient.SetAuthToken(token.AccessToken)
	if err := r.saveToken(token); err != nil {
		r.log.ErrorContext(ctx, "Failed to persist Schwab token", logger.ErrorField(err))
		return err
	}
	r.log.InfoContext(ctx, "Exchanged authorization code for Schwab tokens")
	return nil
}

// IsAuthenticated is a cheap liveness probe. It never touches the network
// when no client handle is set.
func (r *schwabRepository) IsAuthenticated(ctx context.Context) bool {
	r.mu.Lock()
	client, token := r.apiClient, r.token
	r.mu.Unlock()

	if client == nil || token == nil {
		return false
	}

	resp, err := client.Get(ctx, "/trader/v1/accounts/accountNumbers", nil, nil, &[]dto.Account{})
	if err != nil {
		r.log.WarnContext(ctx, "Schwab auth probe failed", logger.ErrorField(err))
		return false
	}
	return resp.StatusCode == http.StatusOK
}

// RefreshToken exchanges the stored refresh token for a new access token and
// persists the rotated pair.
func (r *schwabRepository) RefreshToken(ctx context.Context) error {
	if err := r.InitializeClient(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.token == nil || r.token.RefreshToken == "" {
		return common.ErrNotAuthenticated
	}

	form := map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": r.token.RefreshToken,
	}
	token, status, err := r.requestToken(ctx, form)
	if err != nil {
		if status != 0 {
			// A denied grant means the refresh token is expired or revoked;
			// the caller must re-authenticate.
			return fmt.Errorf("%w: refresh grant denied (status %d)", common.ErrNotAuthenticated, status)
		}
		return fmt.Errorf("%w: %v", common.ErrGateway, err)
	}
	if token.RefreshToken == "" {
		token.RefreshToken = r.token.RefreshToken
	}

	r.token = token
	r.apiClient.SetAuthToken(token.AccessToken)
	if err := r.saveToken(token); err != nil {
		r.log.ErrorContext(ctx, "Failed to persist refreshed Schwab token", logger.ErrorField(err))
		return err
	}
	r.log.InfoContext(ctx, "Refreshed Schwab token")
	return nil
}

// Logout clears all handles and removes the persisted token artifact.
// Idempotent from any state.
func (r *schwabRepository) Logout(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.streamer != nil {
		r.streamer.Stop()
		r.streamer = nil
	}
	r.apiClient = nil
	r.authClient = nil
	r.token = nil

	if err := os.Remove(r.cfg.Schwab.TokensFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	r.log.InfoContext(ctx, "Logged out from Schwab API")
	return nil
}

func (r *schwabRepository) GetAccounts(ctx context.Context) ([]dto.Account, error) {
	client, err := r.client()
	if err != nil {
		return nil, err
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var accounts []dto.Account
	resp, err := client.Get(ctx, "/trader/v1/accounts/accountNumbers", nil, nil, &accounts)
	if err != nil {
		return nil, fmt.Errorf("%w: accounts: %v", common.ErrGateway, err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, common.ErrNotAuthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: accounts returned status %d", common.ErrGateway, resp.StatusCode)
	}
	return accounts, nil
}

// GetQuotes fetches real-time quotes for up to 50 symbols in one batched,
// comma-joined request.
func (r *schwabRepository) GetQuotes(ctx context.Context, symbols []string) (map[string]dto.Quote, error) {
	client, err := r.client()
	if err != nil {
		return nil, err
	}

	normalized := utils.NormalizeSymbols(symbols)
	if len(normalized) == 0 {
		return nil, fmt.Errorf("%w: no symbols provided", common.ErrValidation)
	}
	if len(normalized) > common.MaxQuoteSymbols {
		normalized = normalized[:common.MaxQuoteSymbols]
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"symbols": strings.Join(normalized, ","),
		"fields":  "quote",
	}
	var envelopes map[string]dto.QuoteEnvelope
	resp, err := client.Get(ctx, "/marketdata/v1/quotes", queryParams, nil, &envelopes)
	if err != nil {
		return nil, fmt.Errorf("%w: quotes: %v", common.ErrGateway, err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, common.ErrNotAuthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: quotes returned status %d", common.ErrGateway, resp.StatusCode)
	}

	quotes := make(map[string]dto.Quote, len(envelopes))
	for symbol, envelope := range envelopes {
		quote := envelope.Quote
		quote.Symbol = symbol
		quotes[symbol] = quote
	}
	r.log.DebugContext(ctx, "Retrieved quotes", logger.IntField("symbols", len(quotes)))
	return quotes, nil
}

// GetPriceHistory fetches historical OHLCV. Granularity is always requested
// as minute/1, regardless of the caller's period bucket.
func (r *schwabRepository) GetPriceHistory(ctx context.Context, symbol, periodType string, period int) (*dto.PriceHistory, error) {
	client, err := r.client()
	if err != nil {
		return nil, err
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"symbol":        utils.NormalizeSymbol(symbol),
		"periodType":    periodType,
		"period":        strconv.Itoa(period),
		"frequencyType": "minute",
		"frequency":     "1",
	}
	var history dto.PriceHistory
	resp, err := client.Get(ctx, "/marketdata/v1/pricehistory", queryParams, nil, &history)
	if err != nil {
		return nil, fmt.Errorf("%w: price history: %v", common.ErrGateway, err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, common.ErrNotAuthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: price history returned status %d", common.ErrGateway, resp.StatusCode)
	}
	return &history, nil
}

// StartStream opens the level-one equity subscription. One subscription is
// modeled; starting again replaces the previous one.
func (r *schwabRepository) StartStream(ctx context.Context, symbols []string, handler StreamHandler) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	normalized := utils.NormalizeSymbols(symbols)
	if len(normalized) == 0 {
		return fmt.Errorf("%w: no symbols provided", common.ErrValidation)
	}

	var preference dto.UserPreference
	resp, err := client.Get(ctx, "/trader/v1/userPreference", nil, nil, &preference)
	if err != nil {
		return fmt.Errorf("%w: user preference: %v", common.ErrGateway, err)
	}

	var info dto.StreamerInfo
	switch {
	case resp.StatusCode == http.StatusOK && len(preference.StreamerInfo) > 0:
		info = preference.StreamerInfo[0]
	case r.cfg.Schwab.StreamerURL != "":
		// Fallback endpoint for accounts whose preference payload carries no
		// streamer block.
		info = dto.StreamerInfo{StreamerSocketURL: r.cfg.Schwab.StreamerURL}
	default:
		return fmt.Errorf("%w: no streamer info available (status %d)", common.ErrGateway, resp.StatusCode)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.streamer != nil {
		r.streamer.Stop()
		r.streamer = nil
	}
	if r.token == nil {
		return common.ErrNotAuthenticated
	}

	streamer := NewSchwabStreamer(r.log, info, r.token.AccessToken)
	if err := streamer.Start(ctx, handler); err != nil {
		return err
	}
	if err := streamer.SubscribeLevelOneEquities(normalized); err != nil {
		streamer.Stop()
		return err
	}

	r.streamer = streamer
	r.log.InfoContext(ctx, "Started real-time stream", logger.Field("symbols", normalized))
	return nil
}

// StopStream is a no-op when not streaming.
func (r *schwabRepository) StopStream() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.streamer == nil {
		return
	}
	r.streamer.Stop()
	r.streamer = nil
	r.log.Info("Stopped real-time stream")
}

func (r *schwabRepository) client() (httpclient.HTTPClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.configured {
		return nil, common.ErrNotConfigured
	}
	if r.apiClient == nil {
		return nil, common.ErrNotInitialized
	}
	return r.apiClient, nil
}

// requestToken posts a grant to the token endpoint. The returned status is 0
// on transport errors; callers wrap the error with the sentinel their surface
// requires.
func (r *schwabRepository) requestToken(ctx context.Context, form map[string]string) (*dto.Token, int, error) {
	headers := map[string]string{
		"Authorization": "Basic " + base64.StdEncoding.EncodeToString(
			[]byte(r.cfg.Schwab.AppKey+":"+r.cfg.Schwab.AppSecret)),
	}

	var token dto.Token
	resp, err := r.authClient.PostForm(ctx, "/token", form, headers, &token)
	if err != nil {
		return nil, 0, fmt.Errorf("token request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("token request returned status %d: %s", resp.StatusCode, string(resp.Body))
	}
	token.IssuedAt = time.Now().Unix()
	return &token, resp.StatusCode, nil
}

func (r *schwabRepository) loadToken() (*dto.Token, error) {
	raw, err := os.ReadFile(r.cfg.Schwab.TokensFile)
	if err != nil {
		return nil, err
	}
	var token dto.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token file %s has no access token", r.cfg.Schwab.TokensFile)
	}
	return &token, nil
}

func (r *schwabRepository) saveToken(token *dto.Token) error {
	raw, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.cfg.Schwab.TokensFile, raw, 0o600)
}
