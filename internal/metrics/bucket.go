package metrics

import "time"

// ToggleCounts is the raw per-toggle count object reported by an SDK.
// Older SDKs send yes/no, newer ones may add per-variant counts.
type ToggleCounts struct {
	Yes      int            `json:"yes"`
	No       int            `json:"no"`
	Variants map[string]int `json:"variants,omitempty"`
}

// Bucket is one time-bounded window of per-toggle counts from a client.
type Bucket struct {
	Start   time.Time               `json:"start"`
	Stop    time.Time               `json:"stop"`
	Toggles map[string]ToggleCounts `json:"toggles"`
}

// ClientMetricsPayload is the ingestion document shape: one bucket from
// one instance of one application.
type ClientMetricsPayload struct {
	AppName    string `json:"appName"`
	InstanceID string `json:"instanceId"`
	Bucket     Bucket `json:"bucket"`
}

// Count is the folded yes/no pair tracked by projections. Variant counts
// fold in by name: a variant named "disabled" counts toward No, every
// other variant counts toward Yes. This mirrors the upstream reporting
// policy and is deliberately not generalized.
type Count struct {
	Yes int `json:"yes"`
	No  int `json:"no"`
}

func foldCounts(tc ToggleCounts) Count {
	c := Count{Yes: tc.Yes, No: tc.No}
	for name, n := range tc.Variants {
		if name == "disabled" {
			c.No += n
		} else {
			c.Yes += n
		}
	}
	return c
}
