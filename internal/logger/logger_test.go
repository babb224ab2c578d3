// internal/logger/logger_test.go
//
// Unit-tests for the rotating logger and its context helpers.

package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNew_CreatesDailyFile(t *testing.T) {
	root := t.TempDir()
	prev := zap.S()
	t.Cleanup(func() { zap.ReplaceGlobals(prev.Desugar()) })

	l, err := New(root, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Infow("hello", "k", "v")
	_ = l.Sync()

	want := filepath.Join(root, "logs", time.Now().Format("2006-01-02")+".log")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("log file missing: %v", err)
	}
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	if got := FromContext(context.Background()); got != zap.S() {
		t.Fatalf("expected global sugared logger")
	}

	l := zap.NewNop().Sugar()
	ctx := WithContext(context.Background(), l)
	if got := FromContext(ctx); got != l {
		t.Fatalf("expected attached logger")
	}

	if got := WithContext(ctx, nil); FromContext(got) != l {
		t.Fatalf("nil logger must not replace the attached one")
	}
}
