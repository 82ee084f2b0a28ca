package rank

import (
	"TopSpectra/internal/config"
	"TopSpectra/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestTask(t *testing.T) model.Task {
	t.Helper()
	task, err := New(config.RankTaskDef{
		Name:      "test_rank",
		K:         2,
		Hop:       "10ms",
		Window:    "20ms",
		NumShards: 4,
	})
	require.NoError(t, err)
	return task
}

func event(group string, value int64, ms int64) *model.Event {
	return &model.Event{Timestamp: time.UnixMilli(ms), Group: group, Value: value}
}

func TestNewRejectsBadDefinition(t *testing.T) {
	_, err := New(config.RankTaskDef{Name: "t", K: 2, Hop: "not-a-duration", Window: "20ms"})
	require.Error(t, err)
	_, err = New(config.RankTaskDef{Name: "t", K: 2, Hop: "20ms", Window: "10ms"})
	require.Error(t, err)
	_, err = New(config.RankTaskDef{Name: "t", K: 0, Hop: "10ms", Window: "20ms"})
	require.Error(t, err)
}

func TestTaskRanksPerGroup(t *testing.T) {
	task := newTestTask(t)

	task.ProcessEvent(event("a", 5, 0))
	task.ProcessEvent(event("a", 9, 5))
	task.ProcessEvent(event("a", 7, 12))
	// Far-future event closes every window still covering the burst.
	task.ProcessEvent(event("a", 1, 45))

	snapshot, ok := task.Snapshot().(RankingData)
	require.True(t, ok)
	require.Equal(t, "test_rank", snapshot.TaskName)
	require.Len(t, snapshot.Groups, 1)

	got := snapshot.Groups[0]
	require.Equal(t, "a", got.Group)
	// The last non-empty window is [10ms, 30ms), holding only the event at 12ms.
	require.Equal(t, time.UnixMilli(30), got.WindowEnd)
	require.Equal(t, []RankEntry{{Value: 7, Count: 1}}, got.Entries)
}

func TestTaskKeepsGroupsIndependent(t *testing.T) {
	task := newTestTask(t)

	task.ProcessEvent(event("a", 100, 0))
	task.ProcessEvent(event("b", 3, 0))
	task.ProcessEvent(event("a", 1, 50))
	task.ProcessEvent(event("b", 1, 50))

	snapshot := task.Snapshot().(RankingData)
	require.Len(t, snapshot.Groups, 2)
	// Groups are sorted by name in the snapshot.
	require.Equal(t, "a", snapshot.Groups[0].Group)
	require.Equal(t, int64(100), snapshot.Groups[0].Entries[0].Value)
	require.Equal(t, "b", snapshot.Groups[1].Group)
	require.Equal(t, int64(3), snapshot.Groups[1].Entries[0].Value)
}

func TestTaskDropsOutOfOrderEvent(t *testing.T) {
	task := newTestTask(t)

	task.ProcessEvent(event("a", 5, 50))
	task.ProcessEvent(event("a", 9, 3)) // behind the open hop, dropped
	task.ProcessEvent(event("a", 1, 95))

	snapshot := task.Snapshot().(RankingData)
	require.Len(t, snapshot.Groups, 1)
	require.Equal(t, int64(5), snapshot.Groups[0].Entries[0].Value)
}

func TestTaskReset(t *testing.T) {
	task := newTestTask(t)

	task.ProcessEvent(event("a", 5, 0))
	task.ProcessEvent(event("a", 1, 50))
	require.NotEmpty(t, task.Snapshot().(RankingData).Groups)

	task.Reset()
	require.Empty(t, task.Snapshot().(RankingData).Groups)

	// The task accepts a fresh stream after a reset.
	task.ProcessEvent(event("a", 8, 0))
	task.ProcessEvent(event("a", 1, 50))
	snapshot := task.Snapshot().(RankingData)
	require.Len(t, snapshot.Groups, 1)
	require.Equal(t, int64(8), snapshot.Groups[0].Entries[0].Value)
}

func TestAlerterMsg(t *testing.T) {
	task := newTestTask(t)

	task.ProcessEvent(event("a", 500, 0))
	task.ProcessEvent(event("a", 1, 50))

	rules := []config.AlerterRule{
		{Name: "high value", TaskName: "test_rank", Metric: "top_value", Operator: ">", Threshold: 100},
		{Name: "other task", TaskName: "other", Metric: "top_value", Operator: ">", Threshold: 0},
		{Name: "many groups", TaskName: "test_rank", Metric: "group_count", Operator: ">", Threshold: 10},
	}

	msg := task.AlerterMsg(rules)
	require.Contains(t, msg, "high value")
	require.NotContains(t, msg, "other task")
	require.NotContains(t, msg, "many groups")

	require.Empty(t, task.AlerterMsg(nil))
}
