package rank

import (
	"TopSpectra/internal/config"
	"TopSpectra/internal/core/container"
	"TopSpectra/internal/engine/window"
	"TopSpectra/internal/factory"
	"TopSpectra/internal/model"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// --- Factory Registration ---

func init() {
	factory.RegisterAggregator("rank", func(cfg *config.Config) (*factory.TaskGroup, error) {
		rankCfg := cfg.Aggregator.Rank

		// Create all enabled writers for this aggregator group
		writers := make([]model.Writer, 0, len(rankCfg.Writers))
		for _, writerDef := range rankCfg.Writers {
			if !writerDef.Enabled {
				continue
			}

			interval, err := time.ParseDuration(writerDef.SnapshotInterval)
			if err != nil {
				log.Printf("Warning: invalid snapshot_interval for writer type '%s': %v, skipping.", writerDef.Type, err)
				continue
			}

			var writer model.Writer
			switch writerDef.Type {
			case "gob":
				writer = NewGobWriter(writerDef.RootPath, interval)
			case "text":
				writer = NewTextWriter(writerDef.RootPath, interval)
			case "clickhouse":
				writer, err = NewClickHouseWriter(writerDef.ClickHouse, interval)
				if err != nil {
					log.Printf("Warning: failed to create writer type '%s': %v, skipping.", writerDef.Type, err)
					continue
				}
			default:
				log.Printf("Warning: unknown writer type '%s' in config, skipping.", writerDef.Type)
				continue
			}
			writers = append(writers, writer)
		}

		// Create all tasks for this aggregator group
		tasks := make([]model.Task, 0, len(rankCfg.Tasks))
		for _, taskCfg := range rankCfg.Tasks {
			task, err := New(taskCfg)
			if err != nil {
				return nil, fmt.Errorf("failed to create rank task '%s': %w", taskCfg.Name, err)
			}
			tasks = append(tasks, task)
		}

		return &factory.TaskGroup{Tasks: tasks, Writers: writers}, nil
	})
}

// --- Task Implementation ---

const defaultShardCount = 64

// groupState is the per-group window machinery plus the last closed ranking.
type groupState struct {
	op     *window.Operator[int64]
	latest *GroupRanking
}

type shard struct {
	mu     sync.RWMutex
	groups map[string]*groupState
}

// Task maintains a windowed top-K ranking per group using a sharded map of
// window operators. It implements the model.Task interface.
type Task struct {
	name       string
	k          int
	hop        time.Duration
	window     time.Duration
	shards     []*shard
	shardCount uint32
}

// New creates a new rank task from its config definition.
func New(def config.RankTaskDef) (model.Task, error) {
	hop, err := time.ParseDuration(def.Hop)
	if err != nil {
		return nil, fmt.Errorf("invalid hop: %w", err)
	}
	windowSize, err := time.ParseDuration(def.Window)
	if err != nil {
		return nil, fmt.Errorf("invalid window: %w", err)
	}
	if hop <= 0 || windowSize < hop {
		return nil, fmt.Errorf("window %s and hop %s must satisfy 0 < hop <= window", def.Window, def.Hop)
	}
	if def.K <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", def.K)
	}

	numShards := def.NumShards
	if numShards <= 0 || numShards >= 32768 {
		numShards = defaultShardCount
	}
	log.Printf("Creating RankTask '%s' with k=%d, hop=%s, window=%s, %d shards", def.Name, def.K, hop, windowSize, numShards)

	task := &Task{
		name:       def.Name,
		k:          def.K,
		hop:        hop,
		window:     windowSize,
		shards:     make([]*shard, numShards),
		shardCount: numShards,
	}
	for i := 0; i < int(numShards); i++ {
		task.shards[i] = &shard{groups: make(map[string]*groupState)}
	}
	return task, nil
}

// Name returns the name of the task.
func (t *Task) Name() string {
	return t.name
}

// ProcessEvent routes one event to its group's window operator and records
// any ranking the event closed. Events behind a group's open hop are dropped.
func (t *Task) ProcessEvent(event *model.Event) {
	s := t.getShard(event.Group)
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[event.Group]
	if !ok {
		op, err := window.NewOperator(window.Config{
			Hop:    t.hop.Milliseconds(),
			Window: t.window.Milliseconds(),
			K:      t.k,
		}, valueFactory())
		if err != nil {
			log.Printf("Error creating window operator for task '%s': %v", t.name, err)
			return
		}
		g = &groupState{op: op}
		s.groups[event.Group] = g
	}

	rankings, err := g.op.Process(event.Value, event.Timestamp.UnixMilli())
	if err != nil {
		log.Printf("Task '%s': dropping event for group '%s': %v", t.name, event.Group, err)
	}
	if n := len(rankings); n > 0 {
		g.latest = toGroupRanking(event.Group, rankings[n-1])
	}
}

// Snapshot returns the latest closed ranking of every group, sorted by group.
// Concurrent writes are safe; each shard is copied under its read lock.
func (t *Task) Snapshot() interface{} {
	perShard := make([][]GroupRanking, t.shardCount)
	var wg sync.WaitGroup
	wg.Add(int(t.shardCount))

	for i := 0; i < int(t.shardCount); i++ {
		go func(i int) {
			defer wg.Done()

			s := t.shards[i]
			s.mu.RLock()
			copied := make([]GroupRanking, 0, len(s.groups))
			for _, g := range s.groups {
				if g.latest == nil {
					continue
				}
				gr := *g.latest
				gr.Entries = append([]RankEntry(nil), g.latest.Entries...)
				copied = append(copied, gr)
			}
			s.mu.RUnlock()

			perShard[i] = copied
		}(i)
	}

	wg.Wait()

	var groups []GroupRanking
	for _, part := range perShard {
		groups = append(groups, part...)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Group < groups[j].Group })

	return RankingData{TaskName: t.name, Groups: groups}
}

// Reset clears the internal state of the task, preparing for a new measurement period.
func (t *Task) Reset() {
	var wait sync.WaitGroup
	wait.Add(int(t.shardCount))

	for i := 0; i < int(t.shardCount); i++ {
		go func(i int) {
			defer wait.Done()
			s := t.shards[i]
			s.mu.Lock()
			s.groups = make(map[string]*groupState)
			s.mu.Unlock()
		}(i)
	}

	wait.Wait()
}

// AlerterMsg evaluates rules against the task's latest rankings and returns an HTML fragment if triggered.
func (t *Task) AlerterMsg(rules []config.AlerterRule) string {
	snapshot, ok := t.Snapshot().(RankingData)
	if !ok {
		log.Printf("ERROR: AlerterMsg in rank task received unexpected snapshot type: %T", t.Snapshot())
		return ""
	}

	var topValue int64
	for _, g := range snapshot.Groups {
		if len(g.Entries) > 0 && g.Entries[0].Value > topValue {
			topValue = g.Entries[0].Value
		}
	}
	groupCount := len(snapshot.Groups)

	var triggeredMessages []string

	for _, rule := range rules {
		if rule.TaskName != t.name {
			continue
		}

		var triggered bool
		var currentValue float64
		var unit string

		switch rule.Metric {
		case "top_value":
			currentValue = float64(topValue)
			unit = "value"
			if check(currentValue, rule.Threshold, rule.Operator) {
				triggered = true
			}
		case "group_count":
			currentValue = float64(groupCount)
			unit = "groups"
			if check(currentValue, rule.Threshold, rule.Operator) {
				triggered = true
			}
		}

		if triggered {
			msg := fmt.Sprintf("<h3>Alert: %s</h3>"+
				"<ul>"+
				"<li><b>Task:</b> <code>%s</code></li>"+
				"<li><b>Metric:</b> <code>%s</code></li>"+
				"<li><b>Condition:</b> <code>%s %.2f</code></li>"+
				"<li><b>Observed Value:</b> <code>%.0f %s</code></li>"+
				"</ul>",
				rule.Name, rule.TaskName, rule.Metric, rule.Operator, rule.Threshold, currentValue, unit)
			triggeredMessages = append(triggeredMessages, msg)
		}
	}

	return strings.Join(triggeredMessages, "<br><hr><br>")
}

// check compares a value against a threshold based on an operator.
func check(value, threshold float64, operator string) bool {
	switch operator {
	case ">":
		return value > threshold
	case "<":
		return value < threshold
	case "=":
		return value == threshold
	case ">=":
		return value >= threshold
	case "<=":
		return value <= threshold
	default:
		log.Printf("Warning: unknown operator '%s' in alerter rule", operator)
		return false
	}
}

// getShard returns the appropriate shard for a given group.
func (t *Task) getShard(group string) *shard {
	return t.shards[xxhash.Sum64String(group)%uint64(t.shardCount)]
}

func valueFactory() container.Factory[int64] {
	return container.NewBTreeFactory(func(a, b int64) bool { return a < b })
}

func toGroupRanking(group string, r window.Ranking[int64]) *GroupRanking {
	entries := make([]RankEntry, 0, len(r.Entries))
	for _, e := range r.Entries {
		entries = append(entries, RankEntry{Value: e.Value, Count: e.Count})
	}
	return &GroupRanking{
		Group:     group,
		WindowEnd: time.UnixMilli(r.Boundary),
		Entries:   entries,
	}
}
