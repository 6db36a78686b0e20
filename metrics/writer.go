package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type MoveRecord struct {
	Game string // GameMetric.ID
	MoveMetric
}

// ThroughputRecord is one row of a throughput experiment.
type ThroughputRecord struct {
	Game              string
	Workers           int
	Duration          time.Duration
	DepthCharges      int
	DepthChargeRate   float64
	Iterations        int
	Rollouts          int
	RolloutRate       float64
	AverageSampleSize float64
}

type Writer struct {
	baseDir string
}

// NewWriter creates a timestamped subfolder of dir to hold the records.
func NewWriter(dir string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(dir, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	for _, row := range rows {
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (w *Writer) WriteGameRecords(records []GameMetric) error {
	header := []string{"id", "roles", "goals", "start_time", "end_time", "duration", "total_moves"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		goals := make([]string, len(record.Goals))
		for i, g := range record.Goals {
			goals[i] = strconv.Itoa(g)
		}
		rows = append(rows, []string{
			record.ID,
			strings.Join(record.Roles, ";"),
			strings.Join(goals, ";"),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		})
	}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "role", "move", "workers", "duration", "iterations", "rollouts",
		"evictions", "stale_results", "sample_size", "utilization", "nodes", "root_visits", "root_score",
		"root_complete", "is_tree_reset"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Game,
			strconv.Itoa(record.Step),
			record.Role,
			record.Move,
			strconv.Itoa(record.Workers),
			record.Duration.String(),
			strconv.Itoa(record.Iterations),
			strconv.Itoa(record.Rollouts),
			strconv.Itoa(record.Evictions),
			strconv.Itoa(record.StaleResults),
			strconv.Itoa(record.SampleSize),
			strconv.FormatFloat(record.Utilization, 'f', 3, 64),
			strconv.Itoa(record.NodesInUse),
			strconv.Itoa(record.RootVisits),
			strconv.FormatFloat(record.RootScore, 'f', 2, 64),
			strconv.FormatBool(record.RootComplete),
			strconv.FormatBool(record.IsTreeReset),
		})
	}
	return w.write("move_records.csv", header, rows)
}

func (w *Writer) WriteThroughputRecords(records []ThroughputRecord) error {
	header := []string{"game", "workers", "duration", "depth_charges", "depth_charges_per_second",
		"iterations", "rollouts", "rollouts_per_second", "average_sample_size"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Game,
			strconv.Itoa(record.Workers),
			record.Duration.String(),
			strconv.Itoa(record.DepthCharges),
			strconv.FormatFloat(record.DepthChargeRate, 'f', 1, 64),
			strconv.Itoa(record.Iterations),
			strconv.Itoa(record.Rollouts),
			strconv.FormatFloat(record.RolloutRate, 'f', 1, 64),
			strconv.FormatFloat(record.AverageSampleSize, 'f', 2, 64),
		})
	}
	return w.write("throughput_records.csv", header, rows)
}
