package stats

// Nop is a StatsProvider that records nothing, for views that run
// without metrics.
type Nop struct{}

func (Nop) Incr(string)           {}
func (Nop) Decr(string)           {}
func (Nop) RegisterMetric(string) {}
func (Nop) Run()                  {}
