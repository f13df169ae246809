package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/yungbote/flagbridge-backend/internal/logger"
)

func payload(appName string, stop time.Time, toggles map[string]ToggleCounts) ClientMetricsPayload {
	return ClientMetricsPayload{
		AppName:    appName,
		InstanceID: "instance-1",
		Bucket:     Bucket{Start: stop.Add(-time.Second), Stop: stop, Toggles: toggles},
	}
}

func TestAggregatorAccumulatesFromStream(t *testing.T) {
	stream := NewStream()
	agg := NewAggregator(logger.NewNop(), stream)
	defer agg.Destroy()

	stream.Emit(payload("appName", time.Now(), map[string]ToggleCounts{
		"toggleX": {Yes: 123, No: 0},
	}))

	if got := agg.GlobalCount(); got != 123 {
		t.Fatalf("global count = %d, want 123", got)
	}
	m := agg.GetTogglesMetrics()
	if m.LastHour["toggleX"] != (Count{Yes: 123}) || m.LastMinute["toggleX"] != (Count{Yes: 123}) {
		t.Fatalf("toggleX metrics = %+v / %+v, want {123 0} in both windows", m.LastHour["toggleX"], m.LastMinute["toggleX"])
	}

	stream.Emit(payload("appName", time.Now(), map[string]ToggleCounts{
		"toggleX": {Yes: 10, No: 10},
	}))

	if got := agg.GlobalCount(); got != 143 {
		t.Fatalf("global count = %d, want 143", got)
	}
	m = agg.GetTogglesMetrics()
	if m.LastHour["toggleX"] != (Count{Yes: 133, No: 10}) {
		t.Fatalf("lastHour toggleX = %+v, want {133 10}", m.LastHour["toggleX"])
	}
}

func TestAggregatorRollingWindows(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	current := base

	stream := NewStream()
	agg := newAggregator(logger.NewNop(), stream, func() time.Time { return current })
	defer agg.Destroy()

	stream.Emit(payload("appName", base, map[string]ToggleCounts{
		"toggleX": {Yes: 123, No: 0},
	}))

	// Past the minute threshold: minute window empties, hour keeps it.
	current = base.Add(61 * time.Second)
	agg.lastMinuteWindow.sweep()
	agg.lastHourWindow.sweep()

	m := agg.GetTogglesMetrics()
	if m.LastMinute["toggleX"] != (Count{}) {
		t.Fatalf("lastMinute toggleX = %+v after a minute, want zero", m.LastMinute["toggleX"])
	}
	if m.LastHour["toggleX"] != (Count{Yes: 123}) {
		t.Fatalf("lastHour toggleX = %+v after a minute, want {123 0}", m.LastHour["toggleX"])
	}

	// Past the hour threshold too.
	current = current.Add(3600 * time.Second)
	agg.lastMinuteWindow.sweep()
	agg.lastHourWindow.sweep()

	m = agg.GetTogglesMetrics()
	if m.LastHour["toggleX"] != (Count{}) {
		t.Fatalf("lastHour toggleX = %+v after an hour, want zero", m.LastHour["toggleX"])
	}
}

func TestAggregatorVariantFolding(t *testing.T) {
	stream := NewStream()
	agg := NewAggregator(logger.NewNop(), stream)
	defer agg.Destroy()

	stream.Emit(payload("appName", time.Now(), map[string]ToggleCounts{
		"toggleX": {Yes: 1, No: 2, Variants: map[string]int{"disabled": 5, "blue": 3, "green": 4}},
	}))

	m := agg.GetTogglesMetrics()
	if m.LastMinute["toggleX"] != (Count{Yes: 8, No: 7}) {
		t.Fatalf("folded toggleX = %+v, want {8 7}", m.LastMinute["toggleX"])
	}
}

func TestAggregatorIgnoresMissingYesNoFields(t *testing.T) {
	stream := NewStream()
	agg := NewAggregator(logger.NewNop(), stream)
	defer agg.Destroy()

	stream.Emit(payload("appName", time.Now(), map[string]ToggleCounts{
		"toggleX": {Yes: 123, No: 0},
	}))
	// A bucket with no usable counts at all.
	stream.Emit(payload("appName", time.Now(), map[string]ToggleCounts{
		"toggleX": {},
	}))

	if got := agg.GlobalCount(); got != 123 {
		t.Fatalf("global count = %d, want 123", got)
	}
	if got := agg.GetTogglesMetrics().LastMinute["toggleX"]; got != (Count{Yes: 123}) {
		t.Fatalf("lastMinute toggleX = %+v, want {123 0}", got)
	}
}

func TestAggregatorSeenToggles(t *testing.T) {
	stream := NewStream()
	agg := NewAggregator(logger.NewNop(), stream)
	defer agg.Destroy()

	stream.Emit(payload("appName", time.Now(), map[string]ToggleCounts{
		"toggleX": {Yes: 123},
		"toggleY": {Yes: 50, No: 50},
	}))

	apps := agg.GetAppsWithToggles()
	if len(apps) != 1 {
		t.Fatalf("apps = %d, want 1", len(apps))
	}
	if len(apps[0].SeenToggles) != 2 {
		t.Fatalf("seen toggles = %v, want 2 entries", apps[0].SeenToggles)
	}

	seen := agg.GetSeenTogglesByAppName("appName")
	if len(seen) != 2 || seen[0] != "toggleX" || seen[1] != "toggleY" {
		t.Fatalf("seen toggles for app = %v, want [toggleX toggleY]", seen)
	}
	if got := agg.GetSeenTogglesByAppName("unknown"); len(got) != 0 {
		t.Fatalf("seen toggles for unknown app = %v, want empty", got)
	}

	perToggle := agg.GetSeenAppsPerToggle()
	if apps := perToggle["toggleX"]; len(apps) != 1 || apps[0].AppName != "appName" {
		t.Fatalf("seen apps for toggleX = %v, want [{appName}]", apps)
	}
}

func TestAggregatorHandlesManyToggles(t *testing.T) {
	stream := NewStream()
	agg := NewAggregator(logger.NewNop(), stream)
	defer agg.Destroy()

	toggles := make(map[string]ToggleCounts, 100)
	for i := 0; i < 100; i++ {
		toggles[fmt.Sprintf("toggle%d", i)] = ToggleCounts{Yes: i, No: i}
	}
	stream.Emit(payload("appName", time.Now(), toggles))

	if got := agg.GetSeenTogglesByAppName("appName"); len(got) != 100 {
		t.Fatalf("seen toggles = %d, want 100", len(got))
	}
}
