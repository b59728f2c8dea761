package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/neuronpad/internal/checksum"
	"github.com/starford/neuronpad/internal/storage"
	"github.com/starford/neuronpad/internal/testutil"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

type recorder struct {
	mu   sync.Mutex
	sums []string
}

func (r *recorder) record(sum string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sums = append(r.sums, sum)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sums...)
}

func startWatch(t *testing.T, file string, rec *recorder) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := Watch(ctx, file, testutil.Logger(), rec.record); err != nil {
			t.Errorf("Watch: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(100 * time.Millisecond)
}

func TestWatch_AtomicPutNotifies(t *testing.T) {
	fs := testutil.TestFS(t)
	file, _ := fs.PathFor(storage.KeyNotes)
	rec := &recorder{}
	startWatch(t, file, rec)

	data := []byte(`[{"id":"x"}]`)
	if err := fs.Put(context.Background(), storage.KeyNotes, data); err != nil {
		t.Fatal(err)
	}

	want := checksum.Sum(data)
	eventually(t, 2*time.Second, 20*time.Millisecond, func() bool {
		s := rec.snapshot()
		return len(s) > 0 && s[len(s)-1] == want
	}, "expected change notification with new checksum")
}

func TestWatch_SameContentIsQuiet(t *testing.T) {
	fs := testutil.TestFS(t)
	ctx := context.Background()
	data := []byte(`[]`)
	_ = fs.Put(ctx, storage.KeyNotes, data)
	file, _ := fs.PathFor(storage.KeyNotes)

	rec := &recorder{}
	startWatch(t, file, rec)

	_ = fs.Put(ctx, storage.KeyNotes, data)
	time.Sleep(400 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("unexpected notifications: %v", got)
	}
}

func TestWatch_OtherFilesIgnored(t *testing.T) {
	fs := testutil.TestFS(t)
	file, _ := fs.PathFor(storage.KeyNotes)
	rec := &recorder{}
	startWatch(t, file, rec)

	_ = os.WriteFile(filepath.Join(filepath.Dir(file), "unrelated.txt"), []byte("x"), 0o644)
	_ = fs.Put(context.Background(), storage.KeyAuth, []byte("true"))
	time.Sleep(400 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("unexpected notifications: %v", got)
	}
}

func TestWatch_RemovalReportsEmptySum(t *testing.T) {
	fs := testutil.TestFS(t)
	ctx := context.Background()
	_ = fs.Put(ctx, storage.KeyNotes, []byte(`[]`))
	file, _ := fs.PathFor(storage.KeyNotes)

	rec := &recorder{}
	startWatch(t, file, rec)

	_ = fs.Delete(ctx, storage.KeyNotes)
	eventually(t, 2*time.Second, 20*time.Millisecond, func() bool {
		s := rec.snapshot()
		return len(s) == 1 && s[0] == ""
	}, "expected removal notification")
}
