package stats

import (
	"expvar"
	"time"
)

// Metric names registered by the messaging views.
const (
	MessagesSent        = "MessagesSent"
	NotificationsPlayed = "NotificationsPlayed"
	StoreReloads        = "StoreReloads"
	Heartbeats          = "Heartbeats"
	MonitorRefreshes    = "MonitorRefreshes"
)

type StatsProvider interface {
	Incr(name string)
	Decr(name string)
	RegisterMetric(name string)
	Run()
}

type StatsUpdater struct {
	vars       *expvar.Map
	updateChan chan *metricsUpdateReq
}

type metricsUpdateReq struct {
	name  string
	value int
}

// NewStatsUpdater creates a new stats updater instance.
func NewStatsUpdater() *StatsUpdater {
	su := &StatsUpdater{
		updateChan: make(chan *metricsUpdateReq, 512),
	}
	su.vars = statsMap()
	su.initializeMetrics()

	return su
}

const statsMapName = "messenger-stats"

// statsMap reuses the published map when one exists; expvar panics on a
// duplicate publish.
func statsMap() *expvar.Map {
	if v := expvar.Get(statsMapName); v != nil {
		return v.(*expvar.Map)
	}
	return expvar.NewMap(statsMapName)
}

func (su *StatsUpdater) initializeMetrics() {
	startTime := time.Now()
	su.vars.Set("Uptime", expvar.Func(func() any {
		return time.Since(startTime).Milliseconds()
	}))
}

func (su *StatsUpdater) updateMetrics() {
	for req := range su.updateChan {
		metric := su.vars.Get(req.name)
		if metric == nil {
			panic("metric not found: " + req.name)
		}

		metric.(*expvar.Int).Add(int64(req.value))
	}
}

func (su *StatsUpdater) Incr(name string) {
	su.updateChan <- &metricsUpdateReq{name: name, value: 1}
}

func (su *StatsUpdater) Decr(name string) {
	su.updateChan <- &metricsUpdateReq{name: name, value: -1}
}

func (su *StatsUpdater) RegisterMetric(name string) {
	su.vars.Set(name, expvar.NewInt(name))
}

func (su *StatsUpdater) Run() {
	go su.updateMetrics()
}

func (su *StatsUpdater) Stop() {
	close(su.updateChan)
}
