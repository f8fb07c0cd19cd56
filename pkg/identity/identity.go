// Package identity yields a stable opaque identifier per installation,
// best-effort unique. It is a convenience key for "my own comments", not
// a security boundary: the id is trivially spoofable and nothing on the
// server verifies it.
package identity

import (
	"hash/fnv"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

const (
	deviceIDKey = "deviceId"
	usernameKey = "currentUsername"
)

// Store persists identity fields as a flat string key-value map.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Provider reads and writes identity state through a primary store,
// transparently falling back to a secondary one when the primary is
// unavailable. No operation fails outward.
type Provider struct {
	primary  Store
	fallback Store
}

// NewProvider creates a Provider over a primary and a fallback store
func NewProvider(primary, fallback Store) *Provider {
	return &Provider{primary: primary, fallback: fallback}
}

// NewDefaultProvider persists to a JSON file under the user config dir,
// with an in-memory fallback when the filesystem is unavailable.
func NewDefaultProvider() *Provider {
	dir, err := os.UserConfigDir()
	if err != nil {
		return NewProvider(NewMemStore(), NewMemStore())
	}
	return NewProvider(NewFileStore(dir+"/universal-comments/identity.json"), NewMemStore())
}

// DeviceID returns the persisted device identifier, synthesizing and
// persisting a new one on first use.
func (p *Provider) DeviceID() string {
	if id, ok := p.get(deviceIDKey); ok && id != "" {
		return id
	}
	id := fingerprint()
	p.set(deviceIDKey, id)
	return id
}

// CurrentUsername returns the persisted display name, or "" when unset
func (p *Provider) CurrentUsername() string {
	name, _ := p.get(usernameKey)
	return name
}

// SaveCurrentUsername persists the display name for future sessions
func (p *Provider) SaveCurrentUsername(name string) {
	p.set(usernameKey, name)
}

func (p *Provider) get(key string) (string, bool) {
	if value, ok := p.primary.Get(key); ok {
		return value, true
	}
	return p.fallback.Get(key)
}

func (p *Provider) set(key, value string) {
	if err := p.primary.Set(key, value); err != nil {
		_ = p.fallback.Set(key, value)
	}
}

// fingerprint derives a short identifier from low-entropy host attributes
// hashed to base36, suffixed with the current time for uniqueness.
func fingerprint() string {
	hostname, _ := os.Hostname()
	_, tzOffset := time.Now().Zone()

	seed := strings.Join([]string{
		hostname,
		runtime.GOOS,
		runtime.GOARCH,
		os.Getenv("LANG"),
		strconv.Itoa(tzOffset),
	}, "|")

	h := fnv.New32a()
	h.Write([]byte(seed))
	return strconv.FormatUint(uint64(h.Sum32()), 36) + strconv.FormatInt(time.Now().UnixMilli(), 36)
}
