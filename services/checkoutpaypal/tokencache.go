package checkoutpaypal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MarcGrol/storefrontbackend/lib/myerrors"
	"github.com/MarcGrol/storefrontbackend/lib/mylog"
	"github.com/MarcGrol/storefrontbackend/lib/mytime"
)

const (
	// stop using a cached token this long before it actually expires
	expirySafetyMargin = 30 * time.Second

	tokenExchangeTimeout = 5 * time.Second
	tokenRetryDelay      = 250 * time.Millisecond
)

//go:generate mockgen -source=tokencache.go -package checkoutpaypal -destination token_provider_mock.go TokenProvider
type TokenProvider interface {
	GetToken(c context.Context) (string, error)
}

// cachedTokenProvider shields all callers from the credential exchange:
// one short-lived bearer token per process, refreshed on demand.
type cachedTokenProvider struct {
	logger     mylog.Logger
	nower      mytime.Nower
	config     Config
	httpClient *http.Client
	retryDelay time.Duration

	mutex     sync.Mutex
	token     string
	expiresAt int64 // epoch seconds
}

func NewCachedTokenProvider(config Config, nower mytime.Nower) *cachedTokenProvider {
	return &cachedTokenProvider{
		logger: mylog.New("tokencache"),
		nower:  nower,
		config: config,
		httpClient: &http.Client{
			Timeout: tokenExchangeTimeout,
		},
		retryDelay: tokenRetryDelay,
	}
}

// GetToken returns the cached token while it remains comfortably valid,
// otherwise performs the client-credentials exchange. The mutex is held
// across the exchange so concurrent cache-misses coalesce into one
// upstream call.
func (p *cachedTokenProvider) GetToken(c context.Context) (string, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	now := p.nower.Now().Unix()
	if p.token != "" && now+int64(expirySafetyMargin.Seconds()) < p.expiresAt {
		return p.token, nil
	}

	if p.config.ClientID == "" || p.config.ClientSecret == "" {
		return "", myerrors.NewInternalError(fmt.Errorf("missing processor credentials: set client-id and client-secret"))
	}

	resp, err := p.exchangeWithRetry(c)
	if err != nil {
		return "", err
	}

	expiresIn := resp.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600
	}

	p.token = resp.AccessToken
	p.expiresAt = now + expiresIn

	p.logger.Log(c, "", mylog.SeverityInfo, "Fetched fresh access-token, valid for %d seconds", expiresIn)

	return p.token, nil
}

// Invalidate drops the cached credential so the next caller re-exchanges.
func (p *cachedTokenProvider) Invalidate() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.token = ""
	p.expiresAt = 0
}

// exchangeWithRetry performs the credential exchange with a single retry.
// The token endpoint is idempotent, so a retry here is safe; order-create
// and capture are never retried.
func (p *cachedTokenProvider) exchangeWithRetry(c context.Context) (tokenResponse, error) {
	resp, err := p.exchange(c)
	if err == nil {
		return resp, nil
	}

	select {
	case <-c.Done():
		return tokenResponse{}, myerrors.NewUpstreamError(c.Err())
	case <-time.After(p.retryDelay):
	}

	return p.exchange(c)
}

func (p *cachedTokenProvider) exchange(c context.Context) (tokenResponse, error) {
	body := strings.NewReader("grant_type=client_credentials")

	httpReq, err := http.NewRequestWithContext(c, http.MethodPost, p.config.BaseURL+"/v1/oauth2/token", body)
	if err != nil {
		return tokenResponse{}, myerrors.NewInternalError(fmt.Errorf("error creating token-request: %s", err))
	}

	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(p.config.ClientID, p.config.ClientSecret)

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return tokenResponse{}, myerrors.NewUpstreamError(fmt.Errorf("error calling token-endpoint: %s", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return tokenResponse{}, myerrors.NewUpstreamError(fmt.Errorf("error reading token-response: %s", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		return tokenResponse{}, myerrors.NewUpstreamErrorf("token fetch failed: %d: %s", httpResp.StatusCode, respBody)
	}

	resp := tokenResponse{}
	err = json.Unmarshal(respBody, &resp)
	if err != nil {
		return tokenResponse{}, myerrors.NewUpstreamError(fmt.Errorf("error parsing token-response: %s", err))
	}

	if resp.AccessToken == "" {
		return tokenResponse{}, myerrors.NewUpstreamErrorf("token missing in response: %s", respBody)
	}

	return resp, nil
}
