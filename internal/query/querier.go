package query

import (
	"TopSpectra/internal/config"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// RankingQuery selects which persisted rankings to fetch.
type RankingQuery struct {
	TaskName string
	Group    string     // optional, all groups when empty
	EndTime  *time.Time // optional, newest snapshot not after this time
	Limit    int
}

// RankingRow is one persisted ranking entry.
type RankingRow struct {
	Timestamp    time.Time
	TaskName     string
	Group        string
	WindowEnd    time.Time
	Rank         uint32
	Value        int64
	Multiplicity uint32
}

// TaskSummary aggregates the persisted rankings of one task.
type TaskSummary struct {
	TaskName   string
	GroupCount uint64
	TopValue   int64
}

// Querier defines the interface for querying persisted ranking data.
type Querier interface {
	Rankings(ctx context.Context, req RankingQuery) ([]RankingRow, error)
	SummarizeTasks(ctx context.Context, endTime *time.Time) ([]TaskSummary, error)
}

// clickhouseQuerier implements the Querier interface for ClickHouse.
type clickhouseQuerier struct {
	conn clickhouse.Conn
}

// NewClickHouseQuerier creates a new querier for ClickHouse.
func NewClickHouseQuerier(cfg config.ClickHouseConfig) (Querier, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	return &clickhouseQuerier{conn: conn}, nil
}

func connect(cfg config.ClickHouseConfig) (clickhouse.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})

	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

const defaultQueryLimit = 1000

// Rankings builds and executes a dynamic query over the topk_rankings table,
// newest snapshots first.
func (q *clickhouseQuerier) Rankings(ctx context.Context, req RankingQuery) ([]RankingRow, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT
			Timestamp,
			TaskName,
			GroupName,
			WindowEnd,
			Rank,
			Value,
			Multiplicity
		FROM topk_rankings
	`)

	var whereClauses []string
	args := []interface{}{}

	if req.TaskName != "" {
		whereClauses = append(whereClauses, "TaskName = ?")
		args = append(args, req.TaskName)
	}
	if req.Group != "" {
		whereClauses = append(whereClauses, "GroupName = ?")
		args = append(args, req.Group)
	}
	if req.EndTime != nil {
		whereClauses = append(whereClauses, "Timestamp <= ?")
		args = append(args, *req.EndTime)
	}

	if len(whereClauses) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(whereClauses, " AND "))
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	queryBuilder.WriteString(" ORDER BY Timestamp DESC, GroupName, Rank LIMIT ?")
	args = append(args, limit)

	rows, err := q.conn.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var out []RankingRow
	for rows.Next() {
		var row RankingRow
		if err := rows.Scan(&row.Timestamp, &row.TaskName, &row.Group, &row.WindowEnd, &row.Rank, &row.Value, &row.Multiplicity); err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		out = append(out, row)
	}

	return out, nil
}

// SummarizeTasks reports, per task, how many groups have persisted rankings
// and the highest ranked value seen.
func (q *clickhouseQuerier) SummarizeTasks(ctx context.Context, endTime *time.Time) ([]TaskSummary, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT
			TaskName,
			COUNT(DISTINCT GroupName) AS GroupCount,
			MAX(Value) AS TopValue
		FROM topk_rankings
	`)

	args := []interface{}{}
	if endTime != nil {
		queryBuilder.WriteString(" WHERE Timestamp <= ?")
		args = append(args, *endTime)
	}

	queryBuilder.WriteString(" GROUP BY TaskName")

	rows, err := q.conn.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var summaries []TaskSummary
	for rows.Next() {
		var summary TaskSummary
		if err := rows.Scan(&summary.TaskName, &summary.GroupCount, &summary.TopValue); err != nil {
			return nil, fmt.Errorf("failed to scan summary result: %w", err)
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}
