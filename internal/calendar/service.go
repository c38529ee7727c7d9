// Package calendar connects focusboard to Google Calendar: the OAuth
// authorization-code flow, stored connection records, and event listing.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dori/focusboard/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// DefaultUserID keys the single local connection record.
	DefaultUserID = "local"

	defaultAPIBase     = "https://www.googleapis.com/calendar/v3"
	defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	defaultRevokeURL   = "https://oauth2.googleapis.com/revoke"
)

// DefaultScopes are requested when the config lists none.
var DefaultScopes = []string{
	"openid",
	"https://www.googleapis.com/auth/calendar.readonly",
	"https://www.googleapis.com/auth/calendar.events",
	"https://www.googleapis.com/auth/userinfo.email",
}

var (
	ErrNotConfigured = errors.New("google calendar is not configured: set calendar.client_id and calendar.client_secret")
	ErrNotConnected  = errors.New("not connected to google calendar")
)

// Options overrides endpoints and collaborators, mainly for tests.
type Options struct {
	Logger      *zerolog.Logger
	HTTPClient  *http.Client
	Endpoint    *oauth2.Endpoint
	APIBase     string
	UserInfoURL string
	RevokeURL   string
	UserID      string
	Now         func() time.Time
}

// Service is the calendar collaborator. Construct one per process and pass
// it to whatever needs it.
type Service struct {
	oauth       oauth2.Config
	repo        Repository
	log         zerolog.Logger
	client      *http.Client
	apiBase     string
	userInfoURL string
	revokeURL   string
	userID      string
	now         func() time.Time
}

func New(cfg config.Calendar, repo Repository, opts Options) *Service {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	endpoint := google.Endpoint
	if opts.Endpoint != nil {
		endpoint = *opts.Endpoint
	}
	s := &Service{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		repo:        repo,
		client:      opts.HTTPClient,
		apiBase:     strings.TrimRight(or(opts.APIBase, defaultAPIBase), "/"),
		userInfoURL: or(opts.UserInfoURL, defaultUserInfoURL),
		revokeURL:   or(opts.RevokeURL, defaultRevokeURL),
		userID:      or(opts.UserID, DefaultUserID),
		now:         opts.Now,
	}
	if opts.Logger != nil {
		s.log = *opts.Logger
	} else {
		s.log = zerolog.Nop()
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: 30 * time.Second}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// IsConfigured reports whether OAuth client credentials are present.
func (s *Service) IsConfigured() bool {
	id, secret := s.oauth.ClientID, s.oauth.ClientSecret
	return id != "" && secret != "" && id != "YOUR_GOOGLE_CLIENT_ID" && secret != "YOUR_GOOGLE_CLIENT_SECRET"
}

// RedirectURL returns the configured OAuth redirect target.
func (s *Service) RedirectURL() string {
	return s.oauth.RedirectURL
}

// AuthCodeURL returns the consent page URL. Offline access with forced
// consent makes Google issue a refresh token every time.
func (s *Service) AuthCodeURL(state string) (string, error) {
	if !s.IsConfigured() {
		return "", ErrNotConfigured
	}
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

func (s *Service) ctx(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.client)
}

// Exchange trades an authorization code for tokens and stores the connection.
func (s *Service) Exchange(ctx context.Context, code string) (Connection, error) {
	if !s.IsConfigured() {
		return Connection{}, ErrNotConfigured
	}
	tok, err := s.oauth.Exchange(s.ctx(ctx), code)
	if err != nil {
		return Connection{}, fmt.Errorf("exchange authorization code: %w", err)
	}
	if tok.AccessToken == "" || tok.RefreshToken == "" {
		return Connection{}, errors.New("token response is missing the access or refresh token")
	}

	email := emailFromIDToken(tok)
	if email == "" {
		email, err = s.fetchEmail(ctx, tok.AccessToken)
		if err != nil {
			return Connection{}, err
		}
	}

	conn := Connection{
		UserID:       s.userID,
		Email:        email,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
		CreatedAt:    s.now(),
	}
	if conn.ExpiresAt.IsZero() {
		conn.ExpiresAt = s.now().Add(time.Hour)
	}
	if err := s.repo.Upsert(ctx, conn); err != nil {
		return Connection{}, fmt.Errorf("store connection: %w", err)
	}
	s.log.Info().Str("email", email).Msg("google calendar connected")
	return conn, nil
}

// emailFromIDToken reads the email claim of the id_token returned alongside
// the access token. The token comes straight from the token endpoint over
// TLS, so its signature is not checked.
func emailFromIDToken(tok *oauth2.Token) string {
	raw, _ := tok.Extra("id_token").(string)
	if raw == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}

func (s *Service) fetchEmail(ctx context.Context, accessToken string) (string, error) {
	body, err := s.get(ctx, s.userInfoURL, accessToken)
	if err != nil {
		return "", fmt.Errorf("get user info: %w", err)
	}
	return gjson.GetBytes(body, "email").String(), nil
}

// token returns a usable token, refreshing and persisting it when expired.
func (s *Service) token(ctx context.Context) (*oauth2.Token, Connection, error) {
	conn, ok, err := s.repo.Get(ctx, s.userID)
	if err != nil {
		return nil, Connection{}, fmt.Errorf("load connection: %w", err)
	}
	if !ok {
		return nil, Connection{}, ErrNotConnected
	}
	tok := &oauth2.Token{
		AccessToken:  conn.AccessToken,
		RefreshToken: conn.RefreshToken,
		Expiry:       conn.ExpiresAt,
		TokenType:    "Bearer",
	}
	if !conn.Expired(s.now()) {
		return tok, conn, nil
	}
	if conn.RefreshToken == "" {
		return nil, conn, ErrNotConnected
	}

	fresh, err := s.oauth.TokenSource(s.ctx(ctx), &oauth2.Token{RefreshToken: conn.RefreshToken}).Token()
	if err != nil {
		return nil, conn, fmt.Errorf("refresh access token: %w", err)
	}
	expires := fresh.Expiry
	if expires.IsZero() {
		expires = s.now().Add(time.Hour)
	}
	if err := s.repo.UpdateToken(ctx, s.userID, fresh.AccessToken, fresh.RefreshToken, expires); err != nil {
		s.log.Error().Err(err).Msg("persist refreshed token")
	}
	conn.AccessToken, conn.RefreshToken, conn.ExpiresAt = fresh.AccessToken, fresh.RefreshToken, expires
	s.log.Debug().Time("expires", expires).Msg("refreshed google access token")
	return fresh, conn, nil
}

// IsConnected reports whether a usable connection exists. Expired tokens are
// refreshed; any failure reads as not connected.
func (s *Service) IsConnected(ctx context.Context) bool {
	if _, _, err := s.token(ctx); err != nil {
		if !errors.Is(err, ErrNotConnected) {
			s.log.Warn().Err(err).Msg("check calendar connection")
		}
		return false
	}
	return true
}

// ConnectionEmail returns the email of the connected account.
func (s *Service) ConnectionEmail(ctx context.Context) (string, bool) {
	conn, ok, err := s.repo.Get(ctx, s.userID)
	if err != nil {
		s.log.Warn().Err(err).Msg("load connection email")
		return "", false
	}
	if !ok {
		return "", false
	}
	return conn.Email, true
}

// Disconnect revokes the token with Google (best effort) and deletes every
// stored connection.
func (s *Service) Disconnect(ctx context.Context) error {
	conn, ok, err := s.repo.Get(ctx, s.userID)
	if err != nil {
		s.log.Warn().Err(err).Msg("load connection for revoke")
	}
	if ok && conn.AccessToken != "" {
		if err := s.revoke(ctx, conn.AccessToken); err != nil {
			s.log.Warn().Err(err).Msg("revoke google token")
		}
	}
	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete connections: %w", err)
	}
	s.log.Info().Msg("google calendar disconnected")
	return nil
}

func (s *Service) revoke(ctx context.Context, token string) error {
	u := s.revokeURL + "?token=" + url.QueryEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("revoke returned %s", resp.Status)
	}
	return nil
}

// Events lists single events of calendarID between timeMin and timeMax,
// ordered by start time. Zero bounds default to now and now+7d.
func (s *Service) Events(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error) {
	tok, _, err := s.token(ctx)
	if err != nil {
		return nil, err
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	if timeMin.IsZero() {
		timeMin = s.now()
	}
	if timeMax.IsZero() {
		timeMax = timeMin.Add(7 * 24 * time.Hour)
	}

	params := url.Values{}
	params.Set("timeMin", timeMin.UTC().Format(time.RFC3339))
	params.Set("timeMax", timeMax.UTC().Format(time.RFC3339))
	params.Set("singleEvents", "true")
	params.Set("orderBy", "startTime")
	u := fmt.Sprintf("%s/calendars/%s/events?%s", s.apiBase, url.PathEscape(calendarID), params.Encode())

	body, err := s.get(ctx, u, tok.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar events: %w", err)
	}
	return parseEvents(body), nil
}

func (s *Service) get(ctx context.Context, u, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("google api: %s", msg)
	}
	return body, nil
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
