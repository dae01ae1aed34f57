package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments or
// tenants can share one backend without colliding.
//
//	keyer := cache.NewScopedKeyer(nil, "layered:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts any) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}
