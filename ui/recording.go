package ui

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Entry is one recorded UI call.
type Entry struct {
	Method string
	Value  string
}

type recording struct {
	entries []Entry
	answers []string
	next    int
}

// RecordingUI records every call and answers Confirm from a script. Tables
// and key/value blocks are recorded as their rendered lines, joined with
// newlines. Running out of answers panics.
type RecordingUI struct {
	rec   *recording
	level int
}

func NewRecordingUI(answers ...string) *RecordingUI {
	return &RecordingUI{rec: &recording{answers: answers}}
}

func (r *RecordingUI) record(method, value string) {
	r.rec.entries = append(r.rec.entries, Entry{Method: method, Value: value})
}

func (r *RecordingUI) Info(format string, args ...any) {
	r.record("Info", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Success(format string, args ...any) {
	r.record("Success", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Warn(format string, args ...any) {
	r.record("Warn", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Error(format string, args ...any) {
	r.record("Error", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Section(title string) {
	r.record("Section", title)
}

func (r *RecordingUI) KeyValue(rows [][2]string) {
	r.record("KeyValue", strings.Join(renderKeyValue(rows), "\n"))
}

func (r *RecordingUI) Table(headers []string, rows [][]string) {
	plain := func(s string) string { return s }
	r.record("Table", strings.Join(renderTable(headers, rows, plain), "\n"))
}

func (r *RecordingUI) JSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	r.record("JSON", string(data))
	return nil
}

func (r *RecordingUI) Spinner(msg string) func() {
	r.record("Spinner", msg)
	return func() {}
}

func (r *RecordingUI) Confirm(prompt string, defaultYes bool) bool {
	r.record("Confirm", prompt)
	if r.rec.next >= len(r.rec.answers) {
		panic(fmt.Sprintf("RecordingUI: no scripted answer left for %q", prompt))
	}
	answer := strings.ToLower(strings.TrimSpace(r.rec.answers[r.rec.next]))
	r.rec.next++
	if answer == "" {
		return defaultYes
	}
	return answer == "y" || answer == "yes"
}

func (r *RecordingUI) Indent() UI {
	return &RecordingUI{rec: r.rec, level: r.level + 1}
}

func (r *RecordingUI) Entries() []Entry {
	return r.rec.entries
}

// Messages returns the values recorded by method, e.g. "Warn".
func (r *RecordingUI) Messages(method string) []string {
	var out []string
	for _, e := range r.rec.entries {
		if e.Method == method {
			out = append(out, e.Value)
		}
	}
	return out
}

// HasMessage reports whether any recorded value contains substr, case
// insensitively.
func (r *RecordingUI) HasMessage(substr string) bool {
	lower := strings.ToLower(substr)
	for _, e := range r.rec.entries {
		if strings.Contains(strings.ToLower(e.Value), lower) {
			return true
		}
	}
	return false
}
