package msads

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"

	"github.com/xavierca1/oxyllium-leads/internal/config"
)

const (
	applyOfflineConversionsPath = "/CampaignManagement/v13/OfflineConversions/Apply"

	scopeManage        = "https://ads.microsoft.com/msads.manage"
	scopeOfflineAccess = "offline_access"
)

// Client talks to Microsoft Advertising with a long-lived refresh token.
type Client struct {
	cfg     config.MSAdsConfig
	http    *http.Client
	oauth   *oauth2.Config
	log     zerolog.Logger
	now     func() time.Time
	onError func(op string)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithErrorHook is called once per failed upstream call.
func WithErrorHook(fn func(op string)) Option {
	return func(c *Client) {
		c.onError = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func NewClient(cfg config.MSAdsConfig, log zerolog.Logger, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: []string{scopeManage, scopeOfflineAccess},
		},
		log: log,
		now: time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Configured reports whether uploads will be attempted at all.
func (c *Client) Configured() bool {
	return c.cfg.Configured()
}

// Authenticate exchanges the refresh token for an access token.
// It returns "" without error when the integration is not configured.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	if !c.Configured() {
		return "", nil
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	tok, err := c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: c.cfg.RefreshToken}).Token()
	if err != nil {
		c.failed("auth")
		return "", eris.Wrap(err, "msads: refresh access token")
	}
	if tok.RefreshToken != "" && tok.RefreshToken != c.cfg.RefreshToken {
		c.log.Warn().Msg("msads: refresh token was rotated; update MSADS_REFRESH_TOKEN")
	}
	return tok.AccessToken, nil
}

// UploadConversion records one offline conversion for a click. Empty click ids
// and an unconfigured client are no-ops.
func (c *Client) UploadConversion(ctx context.Context, clickID string, value decimal.Decimal) error {
	if clickID == "" || !c.Configured() {
		return nil
	}

	token, err := c.Authenticate(ctx)
	if err != nil {
		return err
	}

	payload := applyOfflineConversionsRequest{
		OfflineConversions: []offlineConversion{{
			ConversionCurrencyCode: c.cfg.CurrencyCode,
			ConversionName:         c.cfg.ConversionName,
			ConversionTime:         c.now().UTC().Format(time.RFC3339),
			ConversionValue:        value.InexactFloat64(),
			MicrosoftClickId:       clickID,
		}},
	}

	var resp applyOfflineConversionsResponse
	if err := c.post(ctx, token, c.cfg.APIBaseURL+applyOfflineConversionsPath, payload, &resp); err != nil {
		c.failed("upload_conversion")
		return err
	}

	if len(resp.PartialErrors) > 0 {
		c.failed("upload_conversion")
		msgs := make([]string, 0, len(resp.PartialErrors))
		for _, e := range resp.PartialErrors {
			msgs = append(msgs, e.ErrorCode+": "+e.Message)
		}
		return eris.Errorf("msads: conversion rejected: %s", strings.Join(msgs, "; "))
	}

	c.log.Info().Str("msclkid", clickID).Str("value", value.StringFixed(2)).Msg("msads: offline conversion applied")
	return nil
}

func (c *Client) post(ctx context.Context, token, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "msads: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "msads: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("DeveloperToken", c.cfg.DeveloperToken)
	req.Header.Set("CustomerId", c.cfg.CustomerID)
	req.Header.Set("CustomerAccountId", c.cfg.AccountID)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "msads: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "msads: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("msads: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "msads: decode response")
	}
	return nil
}

func (c *Client) failed(op string) {
	if c.onError != nil {
		c.onError(op)
	}
}
