package pipeline

import (
	"testing"

	"github.com/jdharrison/smith/internal/manifest"
)

func TestSortPlansNewestFirst(t *testing.T) {
	plans := []*manifest.PlanManifest{
		{ShortID: "aaa", CreatedAtUnix: 100},
		{ShortID: "bbb", CreatedAtUnix: 300},
		{ShortID: "ccc", CreatedAtUnix: 200},
	}
	sortPlansNewestFirst(plans)
	got := []string{plans[0].ShortID, plans[1].ShortID, plans[2].ShortID}
	want := []string{"bbb", "ccc", "aaa"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sortPlansNewestFirst() order = %v, want %v", got, want)
		}
	}
}

func TestSortPlansNewestFirstTieBreaksByShortID(t *testing.T) {
	plans := []*manifest.PlanManifest{
		{ShortID: "aaa", CreatedAtUnix: 100},
		{ShortID: "zzz", CreatedAtUnix: 100},
	}
	sortPlansNewestFirst(plans)
	if plans[0].ShortID != "zzz" {
		t.Fatalf("sortPlansNewestFirst() tie-break = %s, want zzz first", plans[0].ShortID)
	}
}
