package calendar

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type callbackResult struct {
	code string
	err  error
}

// Connect runs the authorization-code flow: it listens on the redirect URL,
// hands the consent URL to open, waits for Google to redirect back, and
// exchanges the code. ctx bounds the wait.
func (s *Service) Connect(ctx context.Context, open func(authURL string) error) (Connection, error) {
	if !s.IsConfigured() {
		return Connection{}, ErrNotConfigured
	}
	redirect, err := url.Parse(s.oauth.RedirectURL)
	if err != nil || redirect.Host == "" {
		return Connection{}, fmt.Errorf("invalid redirect url %q", s.oauth.RedirectURL)
	}
	ln, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return Connection{}, fmt.Errorf("listen for oauth callback: %w", err)
	}

	state := uuid.NewString()
	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           callbackRouter(redirect.Path, state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("oauth callback server")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	authURL, err := s.AuthCodeURL(state)
	if err != nil {
		return Connection{}, err
	}
	if err := open(authURL); err != nil {
		return Connection{}, err
	}

	select {
	case <-ctx.Done():
		return Connection{}, ctx.Err()
	case res := <-results:
		if res.err != nil {
			return Connection{}, res.err
		}
		return s.Exchange(ctx, res.code)
	}
}

// callbackRouter serves the OAuth redirect. Only the first request with a
// matching state is delivered.
func callbackRouter(path, state string, results chan<- callbackResult) http.Handler {
	if path == "" {
		path = "/"
	}
	r := mux.NewRouter()
	r.HandleFunc(path, func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		var res callbackResult
		switch {
		case q.Get("state") != state:
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		case q.Get("error") != "":
			res.err = fmt.Errorf("oauth error: %s", q.Get("error"))
		case q.Get("code") == "":
			res.err = errors.New("oauth callback without code")
		default:
			res.code = q.Get("code")
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if res.err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "<p>Connection failed: %s</p>", html.EscapeString(res.err.Error()))
		} else {
			fmt.Fprint(w, "<p>Google Calendar connected. You can close this window.</p>")
		}
		select {
		case results <- res:
		default:
		}
	}).Methods(http.MethodGet)
	return r
}
