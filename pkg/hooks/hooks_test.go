package hooks_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/barrenmains/embed-report/pkg/hooks"
)

// TestFireRunsMatchingHooks tests that only hooks for the fired event
// run, and that env entries reach the command.
func TestFireRunsMatchingHooks(t *testing.T) {
	dir := t.TempDir()
	successMark := filepath.Join(dir, "success")
	failureMark := filepath.Join(dir, "failure")

	runner := hooks.NewRunner([]hooks.Hook{
		{Name: "on-ok", Event: hooks.EventOnSuccess, Command: "touch \"$MARK_SUCCESS\""},
		{Name: "on-bad", Event: hooks.EventOnFailure, Command: "touch \"$MARK_FAILURE\""},
	}, nil)

	results := runner.Fire(context.Background(), hooks.EventOnSuccess, map[string]string{
		"MARK_SUCCESS": successMark,
		"MARK_FAILURE": failureMark,
	})

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if !results[0].Success {
		t.Errorf("Expected hook success, got %+v", results[0])
	}
	if _, err := os.Stat(successMark); err != nil {
		t.Errorf("Expected success hook to run: %v", err)
	}
	if _, err := os.Stat(failureMark); !os.IsNotExist(err) {
		t.Error("Failure hook must not run on success event")
	}
}

// TestFireReportsCommandFailure tests that a failing command is
// reported in the result but does not panic or abort.
func TestFireReportsCommandFailure(t *testing.T) {
	runner := hooks.NewRunner([]hooks.Hook{
		{Name: "broken", Event: hooks.EventOnFailure, Command: "exit 3"},
	}, nil)

	results := runner.Fire(context.Background(), hooks.EventOnFailure, nil)
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Success {
		t.Error("Expected hook failure")
	}
	if results[0].Err == nil {
		t.Error("Expected an error in the result")
	}
}

// TestFireHonorsTimeout tests that a hung command is killed.
func TestFireHonorsTimeout(t *testing.T) {
	runner := hooks.NewRunner([]hooks.Hook{
		{Name: "slow", Event: hooks.EventOnSuccess, Command: "sleep 10", Timeout: 50 * time.Millisecond},
	}, nil)

	start := time.Now()
	results := runner.Fire(context.Background(), hooks.EventOnSuccess, nil)
	if len(results) != 1 || results[0].Success {
		t.Fatalf("Expected one failed result, got %+v", results)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Expected the timeout to kill the command promptly")
	}
}

// TestValidEvent tests event name validation.
func TestValidEvent(t *testing.T) {
	if !hooks.ValidEvent("on_success") || !hooks.ValidEvent("on_failure") {
		t.Error("Expected known events to validate")
	}
	if hooks.ValidEvent("on_meltdown") || hooks.ValidEvent("") {
		t.Error("Expected unknown events to be rejected")
	}
}
