package types

import "testing"

func TestSnapshotIsDetachedCopy(t *testing.T) {
	state := &RunState{}
	state.AppendLog("first")
	state.Elements = append(state.Elements, Element{Kind: ElementButton, Text: "Go"})

	snap := state.Snapshot(1)

	state.AppendLog("second")
	state.Elements = append(state.Elements, Element{Kind: ElementLink})

	if len(snap.Log) != 1 || snap.Log[0] != "first" {
		t.Errorf("snapshot log mutated by later appends: %v", snap.Log)
	}
	if len(snap.Elements) != 1 {
		t.Errorf("snapshot elements mutated by later appends: %d", len(snap.Elements))
	}
}

func TestSnapshotLogPrefixProperty(t *testing.T) {
	state := &RunState{}
	var snaps []Snapshot
	for i, line := range []string{"a", "b", "c"} {
		state.AppendLog(line)
		snaps = append(snaps, state.Snapshot(int64(i+1)))
	}

	for i := 1; i < len(snaps); i++ {
		prev, cur := snaps[i-1], snaps[i]
		if len(prev.Log) > len(cur.Log) {
			t.Fatalf("log shrank between snapshots %d and %d", i-1, i)
		}
		for j, line := range prev.Log {
			if cur.Log[j] != line {
				t.Fatalf("snapshot %d log is not a prefix of snapshot %d log", i-1, i)
			}
		}
	}
}

func TestSnapshotLastLog(t *testing.T) {
	var empty Snapshot
	if empty.LastLog() != "" {
		t.Errorf("empty snapshot LastLog = %q", empty.LastLog())
	}

	s := Snapshot{Log: []string{"one", "two"}}
	if s.LastLog() != "two" {
		t.Errorf("LastLog = %q, want %q", s.LastLog(), "two")
	}
}

func TestTruncate(t *testing.T) {
	small := make([]Element, 3)
	view, truncated := Truncate(small)
	if truncated || len(view) != 3 {
		t.Errorf("small sequence should not truncate")
	}

	big := make([]Element, PromptCap+25)
	view, truncated = Truncate(big)
	if !truncated {
		t.Error("oversized sequence should truncate")
	}
	if len(view) != PromptCap {
		t.Errorf("truncated view length = %d, want %d", len(view), PromptCap)
	}
}
