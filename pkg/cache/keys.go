package cache

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey returns the key of the layout of the graph whose serialized
	// form hashes to graphHash, computed with opts. opts must marshal to
	// JSON deterministically.
	LayoutKey(graphHash string, opts any) string
}

// DefaultKeyer produces "layout:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(graphHash string, opts any) string {
	return hashKey("layout", graphHash, opts)
}
