package metrics

import (
	"testing"
	"time"

	"github.com/studyace/studyace-server/internal/llm"
)

func TestRecordSuccess(t *testing.T) {
	store := NewStore()
	store.RecordSuccess("analyze", 120*time.Millisecond, llm.Usage{InputTokens: 100, OutputTokens: 40})
	store.RecordSuccess("chat", 80*time.Millisecond, llm.Usage{InputTokens: 30, OutputTokens: 20})

	totals := store.UsageTotals()
	if totals.InputTokens != 130 {
		t.Fatalf("input tokens = %d, want 130", totals.InputTokens)
	}
	if totals.OutputTokens != 60 {
		t.Fatalf("output tokens = %d, want 60", totals.OutputTokens)
	}
	if totals.TotalTokens != 190 {
		t.Fatalf("total tokens = %d, want 190", totals.TotalTokens)
	}

	snapshot := store.Snapshot()
	if snapshot["total_calls"].(int64) != 2 {
		t.Fatalf("total_calls = %v, want 2", snapshot["total_calls"])
	}
	if snapshot["total_errors"].(int64) != 0 {
		t.Fatalf("total_errors = %v, want 0", snapshot["total_errors"])
	}
}

func TestRecordErrorPerTask(t *testing.T) {
	store := NewStore()
	store.RecordSuccess("analyze", time.Millisecond, llm.Usage{})
	store.RecordError("analyze", time.Millisecond)
	store.RecordError("studyplan", time.Millisecond)

	snapshot := store.Snapshot()
	tasks := snapshot["tasks"].(map[string]map[string]int64)
	if tasks["analyze"]["calls"] != 2 || tasks["analyze"]["errors"] != 1 {
		t.Fatalf("analyze counters = %v", tasks["analyze"])
	}
	if tasks["studyplan"]["calls"] != 1 || tasks["studyplan"]["errors"] != 1 {
		t.Fatalf("studyplan counters = %v", tasks["studyplan"])
	}
	if snapshot["total_errors"].(int64) != 2 {
		t.Fatalf("total_errors = %v, want 2", snapshot["total_errors"])
	}
}
