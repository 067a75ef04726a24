package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ironsheep/roster-attendance/internal/roster"
)

// fakeExtractor serves canned text per path and counts calls.
type fakeExtractor struct {
	texts map[string]string
	errs  map[string]error
	delay time.Duration

	mu    sync.Mutex
	calls map[string]int

	running atomic.Int64
	peak    atomic.Int64
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{
		texts: make(map[string]string),
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (f *fakeExtractor) Extract(ctx context.Context, path string) (*image.Gray, string, error) {
	n := f.running.Add(1)
	defer f.running.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls[path]++
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err, ok := f.errs[path]; ok {
		return nil, "", err
	}
	text, ok := f.texts[path]
	if !ok {
		return nil, "", fmt.Errorf("no fixture for %s", path)
	}
	return image.NewGray(image.Rect(0, 0, 1, 1)), text, nil
}

func (f *fakeExtractor) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

// sheetText renders a well-formed sheet for the given entries.
func sheetText(entries ...roster.Entry) string {
	var names, one, two []string
	for _, e := range entries {
		names = append(names, e.Name)
		one = append(one, e.Session1)
		two = append(two, e.Session2)
	}
	return "Liste\n" + strings.Join(names, "\n") +
		"\n" + roster.SessionOneHeader + "\n" + strings.Join(one, "\n") +
		"\n" + roster.SessionTwoHeader + "\nhead\n" + strings.Join(two, "\n") + "\ntail"
}

func TestRun_NoImages(t *testing.T) {
	ext := newFakeExtractor()
	report, err := New(ext).Run(context.Background(), nil)
	if !errors.Is(err, ErrNoImages) {
		t.Fatalf("expected ErrNoImages, got %v", err)
	}
	if report != nil {
		t.Errorf("no report expected, got %+v", report)
	}
	if len(ext.calls) != 0 {
		t.Errorf("extractor should not be called, got %v", ext.calls)
	}
}

func TestRun_SingleSheet(t *testing.T) {
	ext := newFakeExtractor()
	ext.texts["a.png"] = "Header\nAlice\nBob\nSéance 1 (10h-10h30)\npresent\nabsent\nSéance 2 (10h45-12h15)\nJUNK\npresent\nabsent\nJUNK2"

	report, err := New(ext).Run(context.Background(), []string{"a.png"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Total != 1 || report.Processed != 1 || report.FailureCount() != 0 {
		t.Errorf("report: total=%d processed=%d failed=%d", report.Total, report.Processed, report.FailureCount())
	}
	if c := report.Counts["Alice"]; c.Present != 2 || c.Absent != 0 {
		t.Errorf("Alice: got %+v", c)
	}
	if c := report.Counts["Bob"]; c.Present != 0 || c.Absent != 2 {
		t.Errorf("Bob: got %+v", c)
	}
	if report.BatchID == "" {
		t.Error("BatchID should be set")
	}
}

func TestRun_FailuresAreIsolated(t *testing.T) {
	ext := newFakeExtractor()
	ext.texts["good1.png"] = sheetText(roster.Entry{Name: "Alice", Session1: "present", Session2: "present"})
	ext.texts["good2.png"] = sheetText(roster.Entry{Name: "Alice", Session1: "absent", Session2: "present"})
	ext.texts["noheader.png"] = "Header\nAlice\n" + roster.SessionOneHeader + "\npresent\n"
	ext.texts["mismatch.png"] = sheetText(roster.Entry{Name: "Bob", Session1: "present", Session2: "present"}) + "\nextra\nlines"
	ext.errs["corrupt.png"] = errors.New("decode failed")

	paths := []string{"good1.png", "noheader.png", "corrupt.png", "good2.png", "mismatch.png"}
	report, err := New(ext, WithWorkers(3)).Run(context.Background(), paths)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Processed != 2 {
		t.Errorf("Processed: got %d, want 2", report.Processed)
	}
	if report.FailureCount() != 3 {
		t.Fatalf("FailureCount: got %d, want 3 (%v)", report.FailureCount(), report.Failures)
	}

	stages := map[string]Stage{}
	for _, f := range report.Failures {
		stages[f.Path] = f.Stage
	}
	want := map[string]Stage{
		"noheader.png": StageParse,
		"mismatch.png": StageParse,
		"corrupt.png":  StageExtract,
	}
	for path, stage := range want {
		if stages[path] != stage {
			t.Errorf("%s: stage %q, want %q", path, stages[path], stage)
		}
	}

	for _, f := range report.Failures {
		if f.Stage == StageParse {
			var pe *roster.ParseError
			if !errors.As(f, &pe) {
				t.Errorf("%s: parse failure should wrap a *roster.ParseError, got %v", f.Path, f.Err)
			}
		}
	}

	if _, ok := report.Counts["Bob"]; ok {
		t.Error("a failed parse must not reach the store")
	}
	if c := report.Counts["Alice"]; c.Present != 3 || c.Absent != 1 {
		t.Errorf("Alice: got %+v, want 3/1", c)
	}
}

func TestRun_EveryPathExactlyOnce(t *testing.T) {
	const images = 30

	for _, workers := range []int{1, 3, 5, 10} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			ext := newFakeExtractor()
			ext.delay = time.Millisecond

			var paths []string
			for i := 0; i < images; i++ {
				p := fmt.Sprintf("sheet-%02d.png", i)
				paths = append(paths, p)
				// Disjoint students per image.
				ext.texts[p] = sheetText(
					roster.Entry{Name: fmt.Sprintf("s%02d-a", i), Session1: "present", Session2: "absent"},
					roster.Entry{Name: fmt.Sprintf("s%02d-b", i), Session1: "absent", Session2: "absent"},
				)
			}

			report, err := New(ext, WithWorkers(workers), WithAdmissionLimit(3)).Run(context.Background(), paths)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			for _, p := range paths {
				if n := ext.callCount(p); n != 1 {
					t.Errorf("%s extracted %d times", p, n)
				}
			}
			if report.Processed != images {
				t.Errorf("Processed: got %d, want %d", report.Processed, images)
			}
			if len(report.Statuses) != 2*images {
				t.Errorf("students: got %d, want %d", len(report.Statuses), 2*images)
			}
			for i := 0; i < images; i++ {
				a := report.Statuses[fmt.Sprintf("s%02d-a", i)]
				if len(a) != 2 || a[0] != "present" || a[1] != "absent" {
					t.Errorf("s%02d-a: got %v", i, a)
				}
			}
			if report.PeakAdmitted > min(3, workers) {
				t.Errorf("PeakAdmitted %d exceeds limit %d", report.PeakAdmitted, min(3, workers))
			}
			if int(ext.peak.Load()) > workers {
				t.Errorf("%d concurrent extractions with %d workers", ext.peak.Load(), workers)
			}
		})
	}
}

func TestRun_Progress(t *testing.T) {
	ext := newFakeExtractor()
	paths := []string{"a.png", "b.png", "c.png", "d.png"}
	for _, p := range paths[:3] {
		ext.texts[p] = sheetText(roster.Entry{Name: "Alice", Session1: "present", Session2: "present"})
	}
	ext.errs["d.png"] = errors.New("unreadable")

	var mu sync.Mutex
	var outcomes []Outcome
	d := New(ext, WithWorkers(2), WithProgress(func(o Outcome) {
		mu.Lock()
		outcomes = append(outcomes, o)
		mu.Unlock()
	}))

	if _, err := d.Run(context.Background(), paths); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(outcomes) != len(paths) {
		t.Fatalf("progress calls: got %d, want %d", len(outcomes), len(paths))
	}

	var seen []string
	failed := 0
	for i, o := range outcomes {
		if o.Done != i+1 || o.Total != len(paths) {
			t.Errorf("outcome %d: Done=%d Total=%d", i, o.Done, o.Total)
		}
		if o.Err != nil {
			failed++
		}
		seen = append(seen, o.Path)
	}
	sort.Strings(seen)
	if strings.Join(seen, ",") != strings.Join(paths, ",") {
		t.Errorf("progress paths: got %v", seen)
	}
	if failed != 1 {
		t.Errorf("failed outcomes: got %d, want 1", failed)
	}
}

func TestRun_Canceled(t *testing.T) {
	ext := newFakeExtractor()
	paths := []string{"a.png", "b.png", "c.png"}
	for _, p := range paths {
		ext.texts[p] = sheetText(roster.Entry{Name: "Alice", Session1: "present", Session2: "present"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(ext, WithWorkers(2)).Run(ctx, paths)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if report == nil {
		t.Fatal("canceled run should still return a report")
	}
	if report.FailureCount() != len(paths) {
		t.Errorf("FailureCount: got %d, want %d", report.FailureCount(), len(paths))
	}
	for _, f := range report.Failures {
		if f.Stage != StageCanceled {
			t.Errorf("%s: stage %q, want %q", f.Path, f.Stage, StageCanceled)
		}
	}
	for _, p := range paths {
		if ext.callCount(p) != 0 {
			t.Errorf("%s should not be extracted after cancel", p)
		}
	}
}

func TestNew_Options(t *testing.T) {
	d := New(newFakeExtractor())
	if d.Workers() != DefaultWorkers || d.AdmissionLimit() != DefaultAdmissionLimit {
		t.Errorf("defaults: workers=%d limit=%d", d.Workers(), d.AdmissionLimit())
	}

	d = New(newFakeExtractor(), WithWorkers(2), WithAdmissionLimit(8))
	if d.Workers() != 2 || d.AdmissionLimit() != 2 {
		t.Errorf("limit should be capped at pool size: workers=%d limit=%d", d.Workers(), d.AdmissionLimit())
	}

	d = New(newFakeExtractor(), WithWorkers(0), WithAdmissionLimit(-1))
	if d.Workers() != DefaultWorkers || d.AdmissionLimit() != DefaultAdmissionLimit {
		t.Errorf("invalid options should be ignored: workers=%d limit=%d", d.Workers(), d.AdmissionLimit())
	}
}

func TestQueue(t *testing.T) {
	q := NewQueue([]string{"a", "b"})
	if q.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", q.Len())
	}
	if p, ok := q.Pop(); !ok || p != "a" {
		t.Errorf("first Pop: got %q %v", p, ok)
	}
	if p, ok := q.Pop(); !ok || p != "b" {
		t.Errorf("second Pop: got %q %v", p, ok)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, ok := q.Pop(); ok {
			t.Error("Pop on an empty queue should report false")
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Pop on an empty queue blocked")
	}
	if q.Len() != 0 {
		t.Errorf("Len after drain: got %d", q.Len())
	}
}

func TestQueue_ConcurrentPop(t *testing.T) {
	var paths []string
	for i := 0; i < 200; i++ {
		paths = append(paths, fmt.Sprintf("p%d", i))
	}
	q := NewQueue(paths)

	var mu sync.Mutex
	seen := make(map[string]int)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				p, ok := q.Pop()
				if !ok {
					return
				}
				mu.Lock()
				seen[p]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != len(paths) {
		t.Errorf("distinct paths: got %d, want %d", len(seen), len(paths))
	}
	for p, n := range seen {
		if n != 1 {
			t.Errorf("%s popped %d times", p, n)
		}
	}
}

func TestExistingFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sheet.png")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "gone.png")

	kept, gone := ExistingFiles([]string{file, missing, dir})
	if len(kept) != 1 || kept[0] != file {
		t.Errorf("kept: got %v", kept)
	}
	if len(gone) != 2 || gone[0] != missing || gone[1] != dir {
		t.Errorf("missing: got %v", gone)
	}
}

func TestFailure_Error(t *testing.T) {
	inner := errors.New("boom")
	f := Failure{Path: "a.png", Stage: StageExtract, Err: inner}

	if !errors.Is(f, inner) {
		t.Error("Failure should unwrap to its cause")
	}
	if !strings.Contains(f.Error(), "a.png") || !strings.Contains(f.Error(), "extract") {
		t.Errorf("unexpected message: %s", f.Error())
	}
}
