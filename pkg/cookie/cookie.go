// Package cookie writes encrypted cookies and one-shot flash values.
//
// Values are sealed with AES-256-GCM using a key derived from the secret, so
// clients can neither read nor forge them. Without a valid secret the manager
// still sets plain cookies but every encrypted operation returns ErrNoSecret.
package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// MinSecretLength is the shortest accepted secret.
const MinSecretLength = 32

const flashPrefix = "flash_"

var (
	ErrNotFound = errors.New("cookie: not found")
	ErrNoSecret = errors.New("cookie: secret required")
	ErrDecrypt  = errors.New("cookie: decryption failed")
	ErrEncode   = errors.New("cookie: failed to encode value")
)

// Config holds cookie configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Secret string `env:"COOKIE_SECRET"`
	Secure bool   `env:"COOKIE_SECURE" envDefault:"true"`
}

// Manager sets and reads cookies with shared attributes.
type Manager struct {
	aead     cipher.AEAD
	path     string
	domain   string
	secure   bool
	sameSite http.SameSite
}

// Option configures the Manager.
type Option func(*Manager)

// WithSecret enables encryption. Secrets shorter than MinSecretLength are ignored.
func WithSecret(secret string) Option {
	return func(m *Manager) {
		if len(secret) < MinSecretLength {
			return
		}
		key := sha256.Sum256([]byte(secret))
		block, err := aes.NewCipher(key[:])
		if err != nil {
			return
		}
		if aead, err := cipher.NewGCM(block); err == nil {
			m.aead = aead
		}
	}
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(m *Manager) {
		m.domain = domain
	}
}

// WithPath sets the cookie path. Default "/".
func WithPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

// WithSecure sets the Secure attribute.
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithSameSite sets the SameSite attribute. Default Lax.
func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) {
		m.sameSite = ss
	}
}

// New creates a Manager. Cookies are HttpOnly.
func New(opts ...Option) *Manager {
	m := &Manager{
		path:     "/",
		secure:   true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FromConfig creates a Manager from cfg.
func FromConfig(cfg Config, opts ...Option) *Manager {
	return New(append([]Option{WithSecret(cfg.Secret), WithSecure(cfg.Secure)}, opts...)...)
}

// CanEncrypt reports whether a usable secret is configured.
func (m *Manager) CanEncrypt() bool {
	return m.aead != nil
}

// Get returns the raw value of the named cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Set writes a plain cookie. maxAge 0 makes it a session cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, m.cookie(name, value, maxAge))
}

// Delete expires the named cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, m.cookie(name, "", -1))
}

// SetEncrypted writes an encrypted cookie.
func (m *Manager) SetEncrypted(w http.ResponseWriter, name, value string, maxAge int) error {
	if m.aead == nil {
		return ErrNoSecret
	}

	nonce := make([]byte, m.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	sealed := m.aead.Seal(nonce, nonce, []byte(value), []byte(name))

	m.Set(w, name, base64.RawURLEncoding.EncodeToString(sealed), maxAge)
	return nil
}

// GetEncrypted reads a cookie written by SetEncrypted.
// The cookie name is authenticated, a value copied to another name fails.
func (m *Manager) GetEncrypted(r *http.Request, name string) (string, error) {
	if m.aead == nil {
		return "", ErrNoSecret
	}

	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}

	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil || len(data) < m.aead.NonceSize() {
		return "", ErrDecrypt
	}

	n := m.aead.NonceSize()
	plain, err := m.aead.Open(nil, data[:n], data[n:], []byte(name))
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

// SetFlash stores value as JSON in an encrypted session cookie.
func (m *Manager) SetFlash(w http.ResponseWriter, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return m.SetEncrypted(w, flashPrefix+key, string(data), 0)
}

// Flash reads a flash value into dest and deletes the cookie.
// The cookie is deleted even when it cannot be decoded.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, key string, dest any) error {
	name := flashPrefix + key
	raw, err := m.GetEncrypted(r, name)
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoSecret) {
		return err
	}
	m.Delete(w, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return nil
}

func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: m.sameSite,
	}
}
