package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when several servers share a Redis instance but must not
// see each other's entries, for example staging and production:
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DistanceKey generates a prefixed key for distance table caching.
func (k *ScopedKeyer) DistanceKey(networkHash string) string {
	return k.prefix + k.inner.DistanceKey(networkHash)
}

// ResultKey generates a prefixed key for search result caching.
func (k *ScopedKeyer) ResultKey(networkHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(networkHash, opts)
}
