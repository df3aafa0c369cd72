package cacheaside

// Metrics receives protocol-level signals. Hit and Miss fire exactly once
// per Read; StoreError fires for every failed store call.
type Metrics interface {
	Hit()
	Miss()
	StoreError(op string)
}

// NoopMetrics is the default Metrics implementation.
type NoopMetrics struct{}

func (NoopMetrics) Hit()              {}
func (NoopMetrics) Miss()             {}
func (NoopMetrics) StoreError(string) {}

var _ Metrics = NoopMetrics{}

// Stats is a point-in-time view of the coordinator.
// CacheSize is approximate while operations are in flight; Hits and Misses
// are exact once all Reads have returned.
type Stats struct {
	CacheSize int    `json:"cache_size"`
	Hits      uint64 `json:"cache_hits"`
	Misses    uint64 `json:"cache_misses"`
	Evictions uint64 `json:"cache_evictions"`
}
