package cache

// ScopedKeyer prefixes every key of an inner Keyer. The server uses it to
// keep caches of different deployments apart in a shared Redis.
//
//	k := cache.NewScopedKeyer(nil, "barstack:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) FigureKey(url string) string {
	return k.prefix + k.inner.FigureKey(url)
}

func (k *ScopedKeyer) LayoutKey(figureHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(figureHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}
