package pulse

import (
	"slices"
	"testing"
)

type recordingReleaser struct {
	name string
	log  *[]string
}

func (r recordingReleaser) Release() {
	*r.log = append(*r.log, r.name)
}

func TestFrameScopeReleasesInReverseOrder(t *testing.T) {
	var log []string

	var scope FrameScope
	Track(&scope, recordingReleaser{name: "drawable", log: &log})
	Track(&scope, recordingReleaser{name: "commandBuffer", log: &log})
	Track(&scope, recordingReleaser{name: "pass", log: &log})

	if scope.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", scope.Len())
	}

	scope.Release()

	want := []string{"pass", "commandBuffer", "drawable"}
	if !slices.Equal(log, want) {
		t.Errorf("release order = %v, want %v", log, want)
	}

	if scope.Len() != 0 {
		t.Errorf("Len() after Release = %d, want 0", scope.Len())
	}

	// a second release must not release anything again
	scope.Release()
	if len(log) != 3 {
		t.Errorf("second Release released %d values", len(log)-3)
	}
}

func TestReleaseGuard(t *testing.T) {
	var log []string

	guard := NewReleaseGuard(recordingReleaser{name: "a", log: &log})
	guard.Release()
	guard.Release()

	if len(log) != 1 {
		t.Errorf("released %d times, want 1", len(log))
	}

	kept := NewReleaseGuard(recordingReleaser{name: "b", log: &log})
	kept.Keep()
	kept.Release()

	if len(log) != 1 {
		t.Errorf("kept value was released")
	}
}
