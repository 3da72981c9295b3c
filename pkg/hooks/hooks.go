// Copyright 2026 Embed Report Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package hooks runs user-configured commands after a publish.
package hooks

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// EventType represents the event that triggers a hook.
type EventType string

const (
	EventOnSuccess EventType = "on_success"
	EventOnFailure EventType = "on_failure"
)

// ValidEvent reports whether s names a known event.
func ValidEvent(s string) bool {
	switch EventType(s) {
	case EventOnSuccess, EventOnFailure:
		return true
	}
	return false
}

// Hook is one configured command, run when its event fires.
type Hook struct {
	Name    string
	Event   EventType
	Command string
	Timeout time.Duration
}

// DefaultTimeout bounds hook commands that configure no timeout.
const DefaultTimeout = 30 * time.Second

// Result records the outcome of one hook execution.
type Result struct {
	Hook     string
	Success  bool
	Err      error
	Duration time.Duration
}

// Runner fires hooks for publish events. Hook failures are logged and
// reported in results but never fail the build step.
type Runner struct {
	hooks  []Hook
	logger *slog.Logger
}

// NewRunner creates a hook runner. logger may be nil.
func NewRunner(hooks []Hook, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{hooks: hooks, logger: logger}
}

// Fire runs every hook registered for the event, sequentially and in
// configuration order. env entries are exported to the hook command.
func (r *Runner) Fire(ctx context.Context, event EventType, env map[string]string) []Result {
	var results []Result
	for _, h := range r.hooks {
		if h.Event != event {
			continue
		}
		results = append(results, r.run(ctx, h, env))
	}
	return results
}

func (r *Runner) run(ctx context.Context, h Hook, env map[string]string) Result {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "sh", "-c", h.Command)
	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	start := time.Now()
	err := cmd.Run()
	result := Result{
		Hook:     h.Name,
		Success:  err == nil,
		Err:      err,
		Duration: time.Since(start),
	}

	if err != nil {
		r.logger.Error("hook failed", "hook", h.Name, "event", string(h.Event), "error", err)
	} else {
		r.logger.Debug("hook completed", "hook", h.Name, "event", string(h.Event), "duration", result.Duration)
	}
	return result
}
