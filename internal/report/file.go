package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/focuscrawl/focuscrawl/internal/telemetry"
)

// RenderFile formats the persisted plain-text artifact. Section order is
// fixed: unique-page count, longest page, top-50 words, subdomains.
func RenderFile(s telemetry.Snapshot) string {
	var b strings.Builder

	b.WriteString("WEB CRAWLER FINAL REPORT\n")
	b.WriteString(strings.Repeat("=", lineWidth) + "\n\n")

	fmt.Fprintf(&b, "1. UNIQUE PAGES FOUND: %d\n\n", s.UniquePages)

	b.WriteString("2. LONGEST PAGE:\n")
	fmt.Fprintf(&b, "   URL: %s\n", s.LongestPage.URL)
	fmt.Fprintf(&b, "   Word Count: %d\n\n", s.LongestPage.WordCount)

	b.WriteString("3. TOP 50 MOST COMMON WORDS:\n")
	for _, e := range topByCount(s.Words, fileWordCount) {
		fmt.Fprintf(&b, "   %s, %d\n", e.Key, e.Count)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "4. SUBDOMAINS (%d total):\n", len(s.Subdomains))
	for _, e := range sortedByKey(s.Subdomains) {
		fmt.Fprintf(&b, "   %s, %d\n", e.Key, e.Count)
	}

	return b.String()
}

// TextSink persists the plain-text report, replacing the previous file
// wholesale on every write.
type TextSink struct {
	path string
}

// NewTextSink writes the report to path.
func NewTextSink(path string) *TextSink {
	return &TextSink{path: path}
}

// Write implements telemetry.Sink.
func (s *TextSink) Write(snap telemetry.Snapshot) error {
	if err := writeFileAtomic(s.path, []byte(RenderFile(snap))); err != nil {
		return fmt.Errorf("write report %s: %w", s.path, err)
	}
	return nil
}

// StatsSink persists the full snapshot as JSON so the report can be
// regenerated offline after a crash.
type StatsSink struct {
	path string
}

// NewStatsSink writes snapshots to path.
func NewStatsSink(path string) *StatsSink {
	return &StatsSink{path: path}
}

// Write implements telemetry.Sink.
func (s *StatsSink) Write(snap telemetry.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := writeFileAtomic(s.path, append(data, '\n')); err != nil {
		return fmt.Errorf("write stats %s: %w", s.path, err)
	}
	return nil
}

// ReadStats loads a snapshot previously written by a StatsSink.
func ReadStats(path string) (telemetry.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return telemetry.Snapshot{}, fmt.Errorf("read stats %s: %w", path, err)
	}
	var snap telemetry.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return telemetry.Snapshot{}, fmt.Errorf("decode stats %s: %w", path, err)
	}
	return snap, nil
}

// writeFileAtomic writes through a temp file and rename so a crash or a
// concurrent reader never sees a partial report.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
