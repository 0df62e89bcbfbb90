package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one cache backend without seeing each other's entries.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// ViewModelKey generates a prefixed view model key.
func (k *ScopedKeyer) ViewModelKey(datasetHash string, opts any) (string, error) {
	return k.scope(k.inner.ViewModelKey(datasetHash, opts))
}

// SourceKey generates a prefixed source key.
func (k *ScopedKeyer) SourceKey(kind, location string) (string, error) {
	return k.scope(k.inner.SourceKey(kind, location))
}

func (k *ScopedKeyer) scope(key string, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return k.prefix + key, nil
}
