package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

type entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Error     string                 `json:"error"`
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []entry {
	t.Helper()
	var out []entry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("log line is not JSON: %q: %v", line, err)
		}
		out = append(out, e)
	}
	return out
}

func TestLogger_Log(t *testing.T) {
	tests := []struct {
		name    string
		level   Level
		message string
		fields  Fields
		err     error
		want    bool // should log
	}{
		{
			name:    "info message",
			level:   LevelInfo,
			message: "page extracted",
			fields:  Fields{"page": 2},
			want:    true,
		},
		{
			name:    "debug below threshold",
			level:   LevelDebug,
			message: "row dropped",
			want:    false,
		},
		{
			name:    "error with err",
			level:   LevelError,
			message: "navigation failed",
			err:     errors.New("timeout"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(LevelInfo, &buf)

			l.log(tt.level, tt.message, tt.fields, tt.err)

			logged := buf.Len() > 0
			if logged != tt.want {
				t.Fatalf("log() logged = %v, want %v", logged, tt.want)
			}
			if !logged {
				return
			}

			entries := decodeLines(t, &buf)
			if len(entries) != 1 {
				t.Fatalf("got %d entries, want 1", len(entries))
			}
			e := entries[0]
			if e.Message != tt.message {
				t.Errorf("Message = %q, want %q", e.Message, tt.message)
			}
			if e.Level != string(tt.level) {
				t.Errorf("Level = %q, want %q", e.Level, tt.level)
			}
			if e.Timestamp == "" {
				t.Error("Timestamp is empty")
			}
			if tt.err != nil && e.Error != tt.err.Error() {
				t.Errorf("Error = %q, want %q", e.Error, tt.err.Error())
			}
			if tt.fields != nil && e.Fields["page"] != float64(2) {
				t.Errorf("Fields = %v, want page=2", e.Fields)
			}
		})
	}
}

func TestLogger_WarnWithError(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelDebug, &buf)

	l.Warn("skipping page", Fields{"page": 3}, errors.New("link not found"))
	l.Warn("no error attached", nil)

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Error != "link not found" {
		t.Errorf("first entry error = %q", entries[0].Error)
	}
	if entries[1].Error != "" {
		t.Errorf("second entry error = %q, want empty", entries[1].Error)
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug logs at debug", LevelDebug, LevelDebug, true},
		{"info logs at debug", LevelDebug, LevelInfo, true},
		{"debug doesn't log at info", LevelInfo, LevelDebug, false},
		{"warn doesn't log at error", LevelError, LevelWarn, false},
		{"error always logs", LevelDebug, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(tt.minLevel, &buf)

			l.log(tt.logLevel, "test", nil, nil)

			if logged := buf.Len() > 0; logged != tt.shouldLog {
				t.Errorf("shouldLog = %v, want %v", logged, tt.shouldLog)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{" INFO ", LevelInfo, false},
		{"Warn", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMetrics_Counter(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("pages.visited")
	m.IncrCounter("pages.visited")
	m.AddCounter("pages.visited", 3)

	if got := m.Counter("pages.visited"); got != 5 {
		t.Errorf("Counter = %v, want 5", got)
	}
	if got := m.Snapshot().Counters["pages.visited"]; got != 5 {
		t.Errorf("Snapshot counter = %v, want 5", got)
	}
}

func TestMetrics_Gauge(t *testing.T) {
	m := NewMetrics()

	m.SetGauge("pages.total", 2)
	m.SetGauge("pages.total", 4)

	if got := m.Snapshot().Gauges["pages.total"]; got != 4 {
		t.Errorf("Gauge = %v, want 4", got)
	}
}

func TestMetrics_Timing(t *testing.T) {
	m := NewMetrics()

	m.RecordTiming("page.extract", 100*time.Millisecond)
	m.RecordTiming("page.extract", 200*time.Millisecond)
	m.RecordTiming("page.extract", 150*time.Millisecond)

	stats := m.Snapshot().Timings["page.extract"]
	if stats.Count != 3 {
		t.Errorf("Timing count = %v, want 3", stats.Count)
	}
	if stats.Min != 100*time.Millisecond {
		t.Errorf("Min timing = %v, want 100ms", stats.Min)
	}
	if stats.Max != 200*time.Millisecond {
		t.Errorf("Max timing = %v, want 200ms", stats.Max)
	}
	if stats.Average != 150*time.Millisecond {
		t.Errorf("Average timing = %v, want 150ms", stats.Average)
	}
}

func TestMetrics_SnapshotIsCopy(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter("rows.dropped")

	snap := m.Snapshot()
	m.IncrCounter("rows.dropped")

	if snap.Counters["rows.dropped"] != 1 {
		t.Errorf("snapshot changed after later update: %v", snap.Counters["rows.dropped"])
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	var buf bytes.Buffer
	prev := Default()
	SetDefault(New(LevelDebug, &buf))
	defer SetDefault(prev)

	Debug("test debug", nil)
	Info("test info", Fields{"key": "value"})
	Warn("test warning", nil)
	Error("test error", Fields{"component": "test"}, errors.New("test"))

	if got := len(decodeLines(t, &buf)); got != 4 {
		t.Errorf("logged %d entries, want 4", got)
	}

	IncrCounter("test")
	SetGauge("test", 42.0)
	RecordTiming("test", time.Second)

	if DefaultMetrics().Counter("test") < 1 {
		t.Error("default metrics counter not incremented")
	}
}
