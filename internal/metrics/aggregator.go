package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/yungbote/flagbridge-backend/internal/logger"
)

// TogglesMetrics is the rolling-window snapshot served to the admin API.
type TogglesMetrics struct {
	LastHour   map[string]Count `json:"lastHour"`
	LastMinute map[string]Count `json:"lastMinute"`
}

// AppToggles summarizes one application's reported usage.
type AppToggles struct {
	AppName      string   `json:"appName"`
	SeenToggles  []string `json:"seenToggles"`
	MetricsCount int      `json:"metricsCount"`
}

// SeenApp is one entry of the toggle-to-applications reverse index.
type SeenApp struct {
	AppName string `json:"appName"`
}

type appUsage struct {
	seenToggles map[string]struct{}
	count       int
}

// Aggregator keeps the last-minute and last-hour usage of every toggle,
// built from the raw metrics stream. Buckets are added to two TTL windows
// and two projections; window expiry subtracts what the bucket added, so
// each projection always equals the sum of the buckets its window still
// holds.
type Aggregator struct {
	mu          sync.RWMutex
	log         *logger.Logger
	apps        map[string]*appUsage
	globalCount int

	lastHourProjection   *Projection
	lastMinuteProjection *Projection
	lastHourWindow       *Window
	lastMinuteWindow     *Window
}

func NewAggregator(baseLog *logger.Logger, source Source) *Aggregator {
	return newAggregator(baseLog, source, nil)
}

func newAggregator(baseLog *logger.Logger, source Source, now func() time.Time) *Aggregator {
	a := &Aggregator{
		log:                  baseLog.With("service", "MetricsAggregator"),
		apps:                 make(map[string]*appUsage),
		lastHourProjection:   NewProjection(),
		lastMinuteProjection: NewProjection(),
	}
	a.lastHourWindow = NewWindow(WindowConfig{
		MaxAge:   time.Hour,
		OnExpire: a.expireFrom(a.lastHourProjection),
		now:      now,
	})
	a.lastMinuteWindow = NewWindow(WindowConfig{
		MaxAge:   time.Minute,
		OnExpire: a.expireFrom(a.lastMinuteProjection),
		now:      now,
	})
	if source != nil {
		source.OnMetrics(a.AddPayload)
	}
	return a
}

func (a *Aggregator) expireFrom(p *Projection) func(map[string]ToggleCounts) {
	return func(toggles map[string]ToggleCounts) {
		for name, tc := range toggles {
			p.Subtract(name, foldCounts(tc))
		}
	}
}

// AddPayload folds one bucket into both windows and projections and
// records the toggles as seen for the reporting application.
func (a *Aggregator) AddPayload(payload ClientMetricsPayload) {
	bucket := payload.Bucket
	count := 0
	for name, tc := range bucket.Toggles {
		c := foldCounts(tc)
		a.lastHourProjection.Add(name, c)
		a.lastMinuteProjection.Add(name, c)
		count += c.Yes + c.No
	}

	a.lastHourWindow.Add(bucket.Toggles, bucket.Stop)
	a.lastMinuteWindow.Add(bucket.Toggles, bucket.Stop)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.globalCount += count
	app := a.apps[payload.AppName]
	if app == nil {
		app = &appUsage{seenToggles: make(map[string]struct{})}
		a.apps[payload.AppName] = app
	}
	app.count += count
	for name := range bucket.Toggles {
		app.seenToggles[name] = struct{}{}
	}
}

func (a *Aggregator) GetTogglesMetrics() TogglesMetrics {
	return TogglesMetrics{
		LastHour:   a.lastHourProjection.Snapshot(),
		LastMinute: a.lastMinuteProjection.Snapshot(),
	}
}

func (a *Aggregator) GetAppsWithToggles() []AppToggles {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]AppToggles, 0, len(a.apps))
	for appName, app := range a.apps {
		out = append(out, AppToggles{
			AppName:      appName,
			SeenToggles:  sortedKeys(app.seenToggles),
			MetricsCount: app.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppName < out[j].AppName })
	return out
}

func (a *Aggregator) GetSeenTogglesByAppName(appName string) []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	app := a.apps[appName]
	if app == nil {
		return []string{}
	}
	return sortedKeys(app.seenToggles)
}

// GetSeenAppsPerToggle returns the reverse index from toggle name to the
// applications that reported it.
func (a *Aggregator) GetSeenAppsPerToggle() map[string][]SeenApp {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[string][]SeenApp)
	for appName, app := range a.apps {
		for toggleName := range app.seenToggles {
			out[toggleName] = append(out[toggleName], SeenApp{AppName: appName})
		}
	}
	for _, apps := range out {
		sort.Slice(apps, func(i, j int) bool { return apps[i].AppName < apps[j].AppName })
	}
	return out
}

func (a *Aggregator) GlobalCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.globalCount
}

func (a *Aggregator) Destroy() {
	a.lastHourWindow.Destroy()
	a.lastMinuteWindow.Destroy()
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
