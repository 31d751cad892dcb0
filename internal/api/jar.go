package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Jar wraps an in-memory cookie jar with file persistence so the
// server-issued session cookie survives between CLI invocations.
// The caller never reads or constructs the session token itself.
type Jar struct {
	mu     sync.Mutex
	inner  http.CookieJar
	path   string
	origin *url.URL
}

// storedCookie is the on-disk cookie shape.
type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

// NewJar creates a Jar persisting to path. An empty path disables persistence.
func NewJar(inner http.CookieJar, path string) *Jar {
	return &Jar{inner: inner, path: path}
}

// Load reads persisted cookies for the given origin.
func (j *Jar) Load(origin string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("parse origin: %w", err)
	}
	j.origin = u

	if j.path == "" {
		return nil
	}

	data, err := os.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read cookie file: %w", err)
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("unmarshal cookie file: %w", err)
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	now := time.Now()
	for _, sc := range stored {
		if !sc.Expires.IsZero() && sc.Expires.Before(now) {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:    sc.Name,
			Value:   sc.Value,
			Path:    sc.Path,
			Expires: sc.Expires,
		})
	}
	j.inner.SetCookies(u, cookies)
	return nil
}

// Save writes the current cookies for the origin back to disk.
func (j *Jar) Save() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.path == "" || j.origin == nil {
		return nil
	}

	cookies := j.inner.Cookies(j.origin)
	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Expires: c.Expires,
		})
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cookies: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	// Session cookies are credentials; keep the file private.
	if err := os.WriteFile(j.path, data, 0o600); err != nil {
		return fmt.Errorf("write cookie file: %w", err)
	}
	return nil
}

// Clear drops all cookies for the origin and removes the persisted file.
func (j *Jar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.origin != nil {
		// Overwrite with expired cookies so the jar evicts them.
		for _, c := range j.inner.Cookies(j.origin) {
			j.inner.SetCookies(j.origin, []*http.Cookie{{
				Name:    c.Name,
				Value:   "",
				Expires: time.Unix(0, 0),
				MaxAge:  -1,
			}})
		}
	}
	if j.path == "" {
		return nil
	}
	if err := os.Remove(j.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cookie file: %w", err)
	}
	return nil
}

// SetCookies implements http.CookieJar.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.inner.SetCookies(u, cookies)
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}
