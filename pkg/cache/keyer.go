package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey identifies a layout computed from the records with the given hash.
	LayoutKey(recordsHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies an artifact rendered from the layout with the given hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a computed layout.
type LayoutKeyOpts struct {
	Strategy        string         `json:"strategy"`
	Width           float64        `json:"width"`
	Height          float64        `json:"height"`
	Padding         float64        `json:"padding"`
	FallbackRadius  float64        `json:"fallback_radius"`
	Seed            uint64         `json:"seed"`
	Frames          int            `json:"frames"`
	PreviousHash    string         `json:"previous_hash,omitempty"`
	StrategyOptions map[string]any `json:"strategy_options,omitempty"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Labels      bool    `json:"labels"`
	Regions     bool    `json:"regions"`
	InnerRadius bool    `json:"inner_radius"`
	Animate     float64 `json:"animate"`
	Scale       float64 `json:"scale"`
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(recordsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", recordsHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Hash returns the hex SHA-256 of data. Records and layouts are hashed in
// their JSON form before keying.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns prefix + ":" + Hash of the JSON-encoded parts. Struct
// fields encode in declaration order and map keys sorted, so equal options
// give equal keys.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}
