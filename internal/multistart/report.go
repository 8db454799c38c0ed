package multistart

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"
)

// Summary is the final aggregate of a run, built after every trial finished
type Summary struct {
	RunID       string
	Elapsed     time.Duration
	Trials      int
	Evaluations uint64
	Best        BestState
}

// Reporter receives one call per finished trial, from any goroutine, and a
// single Summary call after the barrier. Implementations write each trial as
// one uninterrupted unit.
type Reporter interface {
	Trial(r TrialResult) error
	Summary(s Summary) error
}

// TextReporter writes the human readable block layout
type TextReporter struct {
	mu    sync.Mutex
	w     io.Writer
	label string
}

// NewTextReporter creates a text reporter. label names the local search in
// every trial header, e.g. "MDS".
func NewTextReporter(w io.Writer, label string) *TextReporter {
	return &TextReporter{w: w, label: strings.ToUpper(label)}
}

// Trial writes one trial block
func (tr *TextReporter) Trial(r TrialResult) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "\n\n%s %d USED %d ITERATIONS AND %d FUNCTION CALLS, AND RETURNED\n",
		tr.label, r.Index, r.Iterations, r.Evaluations)
	writePoint(&buf, r.End, r.Value)
	fmt.Fprintf(&buf, "termination = %s\n", r.Termination)

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if _, err := tr.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write trial %d: %w", r.Index, err)
	}
	return nil
}

// Summary writes the final block
func (tr *TextReporter) Summary(s Summary) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "\n\nFINAL RESULTS:\n")
	fmt.Fprintf(&buf, "Run ID = %s\n", s.RunID)
	fmt.Fprintf(&buf, "Elapsed time = %.3f s\n", s.Elapsed.Seconds())
	fmt.Fprintf(&buf, "Total number of trials = %d\n", s.Trials)
	fmt.Fprintf(&buf, "Total number of function evaluations = %d\n", s.Evaluations)
	if s.Best.Found() {
		fmt.Fprintf(&buf, "Best result at trial %d used %d iterations, %d function calls and returned\n",
			s.Best.Trial, s.Best.Iterations, s.Best.Evaluations)
		writePoint(&buf, s.Best.Point, s.Best.Value)
	} else {
		fmt.Fprintf(&buf, "No trial returned a comparable value\n")
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if _, err := tr.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func writePoint(buf *bytes.Buffer, x []float64, value float64) {
	for i, v := range x {
		fmt.Fprintf(buf, "x[%3d] = %15.7e \n", i, v)
	}
	fmt.Fprintf(buf, "f(x) = %15.7e\n", value)
}

// trialRecord is one JSON line per finished trial
type trialRecord struct {
	Type        string    `json:"type"`
	RunID       string    `json:"runId"`
	Trial       int       `json:"trial"`
	Iterations  int       `json:"iterations"`
	Evaluations int       `json:"evaluations"`
	Termination string    `json:"termination"`
	Start       []float64 `json:"start"`
	Point       []float64 `json:"point"`
	Value       *float64  `json:"value"` // null when not finite
}

// summaryRecord is the final JSON line
type summaryRecord struct {
	Type        string    `json:"type"`
	RunID       string    `json:"runId"`
	ElapsedSec  float64   `json:"elapsedSec"`
	Trials      int       `json:"trials"`
	Evaluations uint64    `json:"evaluations"`
	BestTrial   int       `json:"bestTrial"`
	Iterations  int       `json:"iterations"`
	BestEvals   int       `json:"bestEvaluations"`
	Point       []float64 `json:"point,omitempty"`
	Value       *float64  `json:"value"`
}

// JSONReporter writes one JSON object per line.
// Each record is assembled in a buffer and flushed to the underlying writer
// as a single write before the lock is released, so a record is visible as
// soon as its trial finishes. Safe for concurrent use.
type JSONReporter struct {
	mu     sync.Mutex
	writer *bufio.Writer
	runID  string
}

// NewJSONReporter creates a JSON lines reporter tagging every record with runID
func NewJSONReporter(w io.Writer, runID string) *JSONReporter {
	return &JSONReporter{
		writer: bufio.NewWriterSize(w, 4*1024),
		runID:  runID,
	}
}

// Trial appends a trial record
func (jr *JSONReporter) Trial(r TrialResult) error {
	return jr.write(trialRecord{
		Type:        "trial",
		RunID:       jr.runID,
		Trial:       r.Index,
		Iterations:  r.Iterations,
		Evaluations: r.Evaluations,
		Termination: r.Termination.String(),
		Start:       r.Start,
		Point:       r.End,
		Value:       finite(r.Value),
	})
}

// Summary appends the summary record
func (jr *JSONReporter) Summary(s Summary) error {
	return jr.write(summaryRecord{
		Type:        "summary",
		RunID:       s.RunID,
		ElapsedSec:  s.Elapsed.Seconds(),
		Trials:      s.Trials,
		Evaluations: s.Evaluations,
		BestTrial:   s.Best.Trial,
		Iterations:  s.Best.Iterations,
		BestEvals:   s.Best.Evaluations,
		Point:       s.Best.Point,
		Value:       finite(s.Best.Value),
	})
}

func (jr *JSONReporter) write(record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal report record: %w", err)
	}

	jr.mu.Lock()
	defer jr.mu.Unlock()

	if _, err := jr.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write report record: %w", err)
	}
	if err := jr.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	if err := jr.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush report record: %w", err)
	}
	return nil
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
