package metrics

import "testing"

func TestProjectionAdditivity(t *testing.T) {
	p := NewProjection()

	p.Add("toggleX", Count{Yes: 10, No: 5})
	p.Add("toggleX", Count{Yes: 1, No: 2})
	p.Add("toggleY", Count{Yes: 7})

	snap := p.Snapshot()
	if got := snap["toggleX"]; got != (Count{Yes: 11, No: 7}) {
		t.Fatalf("toggleX = %+v, want {11 7}", got)
	}
	if got := snap["toggleY"]; got != (Count{Yes: 7, No: 0}) {
		t.Fatalf("toggleY = %+v, want {7 0}", got)
	}
}

func TestProjectionSubtractRoundTrip(t *testing.T) {
	p := NewProjection()

	p.Add("toggleX", Count{Yes: 10, No: 5})
	p.Add("toggleX", Count{Yes: 3, No: 4})
	p.Subtract("toggleX", Count{Yes: 3, No: 4})

	if got := p.Snapshot()["toggleX"]; got != (Count{Yes: 10, No: 5}) {
		t.Fatalf("after round trip toggleX = %+v, want {10 5}", got)
	}

	p.Subtract("toggleX", Count{Yes: 10, No: 5})
	if got := p.Snapshot()["toggleX"]; got != (Count{}) {
		t.Fatalf("after full drain toggleX = %+v, want zero", got)
	}
}

func TestProjectionSnapshotIsACopy(t *testing.T) {
	p := NewProjection()
	p.Add("toggleX", Count{Yes: 1})

	snap := p.Snapshot()
	snap["toggleX"] = Count{Yes: 99}

	if got := p.Snapshot()["toggleX"]; got != (Count{Yes: 1}) {
		t.Fatalf("mutating a snapshot leaked into the projection: %+v", got)
	}
}
