package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key namespaces.
const (
	nsMap = "map"
	nsDOT = "dot"
)

// MapKeyOpts are the render options that change map output.
type MapKeyOpts struct {
	Padding      float64 `json:"padding"`
	Labels       bool    `json:"labels"`
	StatusColors bool    `json:"status_colors"`
}

// Keyer builds cache keys for rendered artifacts.
type Keyer interface {
	// MapKey identifies an SVG aim map of the graph with the given hash.
	MapKey(graphHash string, opts MapKeyOpts) string
	// DOTKey identifies a DOT export of the graph with the given hash.
	DOTKey(graphHash string, detailed bool) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// MapKey implements Keyer.
func (DefaultKeyer) MapKey(graphHash string, opts MapKeyOpts) string {
	return hashKey(nsMap, graphHash, opts)
}

// DOTKey implements Keyer.
func (DefaultKeyer) DOTKey(graphHash string, detailed bool) string {
	return hashKey(nsDOT, graphHash, detailed)
}

// ScopedKeyer prefixes every key, giving each repository its own namespace
// in a shared backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (DefaultKeyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// RepoPrefix derives a stable key prefix from a repository path.
func RepoPrefix(repoPath string) string {
	return "repo:" + Hash([]byte(repoPath))[:16] + ":"
}

// MapKey implements Keyer.
func (k *ScopedKeyer) MapKey(graphHash string, opts MapKeyOpts) string {
	return k.prefix + k.inner.MapKey(graphHash, opts)
}

// DOTKey implements Keyer.
func (k *ScopedKeyer) DOTKey(graphHash string, detailed bool) string {
	return k.prefix + k.inner.DOTKey(graphHash, detailed)
}

// hashKey formats prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
