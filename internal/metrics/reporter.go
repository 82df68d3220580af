package metrics

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Reporter persists session metrics and keeps run history.
type Reporter struct {
	outputDir   string
	historyFile string
}

// NewReporter creates a reporter writing under dir/metrics.
func NewReporter(dir string) *Reporter {
	metricsDir := filepath.Join(dir, "metrics")
	os.MkdirAll(metricsDir, 0755)

	return &Reporter{
		outputDir:   metricsDir,
		historyFile: filepath.Join(metricsDir, "history.jsonl"),
	}
}

// Write persists one session: latest.json is overwritten, a per-session
// file is created, and a compact line is appended to history.
func (r *Reporter) Write(m *SessionMetrics) error {
	latestPath := filepath.Join(r.outputDir, "latest.json")
	if err := r.writeJSON(latestPath, m); err != nil {
		return fmt.Errorf("failed to write latest.json: %w", err)
	}

	sessionPath := filepath.Join(r.outputDir, fmt.Sprintf("session_%s.json", m.SessionID))
	if err := r.writeJSON(sessionPath, m); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	if err := r.appendHistory(m); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}

	return nil
}

func (r *Reporter) writeJSON(path string, m *SessionMetrics) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(m)
}

func (r *Reporter) appendHistory(m *SessionMetrics) error {
	file, err := os.OpenFile(r.historyFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	line, err := json.Marshal(m)
	if err != nil {
		return err
	}

	_, err = file.WriteString(string(line) + "\n")
	return err
}

// ReadHistory reads the last N sessions from history. Malformed lines are
// skipped.
func (r *Reporter) ReadHistory(limit int) ([]*SessionMetrics, error) {
	file, err := os.Open(r.historyFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var sessions []*SessionMetrics
	scanner := bufio.NewScanner(file)

	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		var s SessionMetrics
		if err := json.Unmarshal(scanner.Bytes(), &s); err != nil {
			continue
		}
		sessions = append(sessions, &s)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if limit > 0 && len(sessions) > limit {
		sessions = sessions[len(sessions)-limit:]
	}

	return sessions, nil
}

// LastSession returns the most recent session from history.
func (r *Reporter) LastSession() (*SessionMetrics, error) {
	sessions, err := r.ReadHistory(1)
	if err != nil || len(sessions) == 0 {
		return nil, err
	}
	return sessions[0], nil
}

// Comparison measures coverage drift between two sessions.
type Comparison struct {
	CurrentSessionID  string  `json:"current_session_id"`
	PreviousSessionID string  `json:"previous_session_id"`
	UnknownRate       float64 `json:"unknown_rate"`
	UnknownRateDiff   float64 `json:"unknown_rate_diff"`
	TokensDiff        int64   `json:"tokens_diff"`
	ThroughputDiff    float64 `json:"throughput_diff"`
}

// CompareSessions compares the current session against a previous one.
func CompareSessions(current, previous *SessionMetrics) *Comparison {
	if current == nil || previous == nil {
		return nil
	}

	rate := unknownRate(current.Totals)
	return &Comparison{
		CurrentSessionID:  current.SessionID,
		PreviousSessionID: previous.SessionID,
		UnknownRate:       rate,
		UnknownRateDiff:   rate - unknownRate(previous.Totals),
		TokensDiff:        current.Totals.TokensProcessed - previous.Totals.TokensProcessed,
		ThroughputDiff:    current.Totals.Throughput - previous.Totals.Throughput,
	}
}

func unknownRate(t *TotalMetrics) float64 {
	if t.TokensProcessed == 0 {
		return 0
	}
	return float64(t.UnknownTokens) / float64(t.TokensProcessed)
}

// FormatComparison returns a one-line human-readable comparison.
func FormatComparison(c *Comparison) string {
	if c == nil {
		return "No previous session to compare"
	}

	trend := "improved"
	if c.UnknownRateDiff > 0 {
		trend = "worsened"
	}

	return fmt.Sprintf(
		"unknown rate %.1f%% (%s by %+.1f points, %+d tokens)",
		c.UnknownRate*100,
		trend,
		c.UnknownRateDiff*100,
		c.TokensDiff,
	)
}
