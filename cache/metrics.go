package cache

// NoopMetrics is a Metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) Evict() {}

var _ Metrics = NoopMetrics{}
