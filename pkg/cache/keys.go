package cache

// MeasureKeyOpts are the options that distinguish measurement cache entries.
type MeasureKeyOpts struct {
	Columns     int
	ColumnWidth int
	Overhead    float64
	LineHeight  float64
	FontPath    string
	FontSize    float64
}

// GridKeyOpts are the options that distinguish grid (allocation) entries.
type GridKeyOpts struct {
	HeightBudget  float64
	MinRowHeight  float64
	MaxIterations int
}

// ArtifactKeyOpts are the options that distinguish rendered artifacts.
type ArtifactKeyOpts struct {
	Format    string
	Scale     float64
	ShowStats bool
}

// Keyer generates cache keys for each pipeline stage.
type Keyer interface {
	// MeasureKey keys a measurement result by deck content hash.
	MeasureKey(deckHash string, opts MeasureKeyOpts) string

	// GridKey keys a computed grid by measurement content hash.
	GridKey(measureHash string, opts GridKeyOpts) string

	// ArtifactKey keys a rendered artifact by grid content hash.
	ArtifactKey(gridHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme: stage prefix + SHA-256 over the
// content hash and the stage options.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// MeasureKey generates a key for measurement caching.
func (k *DefaultKeyer) MeasureKey(deckHash string, opts MeasureKeyOpts) string {
	return hashKey("measure", deckHash, opts)
}

// GridKey generates a key for grid caching.
func (k *DefaultKeyer) GridKey(measureHash string, opts GridKeyOpts) string {
	return hashKey("grid", measureHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(gridHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", gridHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix, giving callers (e.g. multi-tenant
// server deployments) separate cache namespaces over one backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// MeasureKey generates a prefixed measurement key.
func (k *ScopedKeyer) MeasureKey(deckHash string, opts MeasureKeyOpts) string {
	return k.prefix + k.inner.MeasureKey(deckHash, opts)
}

// GridKey generates a prefixed grid key.
func (k *ScopedKeyer) GridKey(measureHash string, opts GridKeyOpts) string {
	return k.prefix + k.inner.GridKey(measureHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(gridHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(gridHash, opts)
}
