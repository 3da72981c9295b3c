// Copyright 2026 Embed Report Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package config provides configuration management for embed-report.
//
// Configuration Loading Order (later overrides earlier):
// 1. Defaults (hardcoded)
// 2. Config file: .embed-report.yaml in the current directory or a parent,
//    falling back to $XDG_CONFIG_HOME/embed-report/config.yaml
// 3. Environment Variables: EMBED_REPORT_*
package config

import (
	"time"

	"github.com/barrenmains/embed-report/pkg/hooks"
	"github.com/barrenmains/embed-report/pkg/target"
)

// Config represents the complete application configuration.
type Config struct {
	Project string         `yaml:"project"`
	DataDir string         `yaml:"data_dir"`
	Targets []TargetConfig `yaml:"targets"`
	Server  ServerConfig   `yaml:"server"`
	Hooks   []HookConfig   `yaml:"hooks,omitempty"`
	Global  GlobalConfig   `yaml:"global"`
}

// TargetConfig is the configuration form of one report target.
type TargetConfig struct {
	// Name is used as both directory name and URL suffix.
	Name string `yaml:"name"`

	// File is the primary report file, relative to the workspace.
	File string `yaml:"file"`

	// AdditionalFiles is a comma-separated list of extra files to
	// archive next to the primary one.
	AdditionalFiles string `yaml:"additional_files,omitempty"`

	// Height is the iframe height in pixels.
	Height int `yaml:"height"`

	// Association is one of project_only, build_only, both.
	Association string `yaml:"association"`
}

// ServerConfig contains the report server settings.
type ServerConfig struct {
	// Listen is the address the serve command binds to.
	Listen string `yaml:"listen"`

	// BuildLimit is how many recent builds the project page lists.
	BuildLimit int `yaml:"build_limit"`
}

// HookConfig is one post-publish hook.
type HookConfig struct {
	Name    string        `yaml:"name"`
	Event   string        `yaml:"event"` // on_success, on_failure
	Command string        `yaml:"command"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// GlobalConfig contains global application settings.
type GlobalConfig struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
}

// BuildTargets converts the target configurations into validated
// target values, in configuration order.
func (c *Config) BuildTargets() ([]target.Target, error) {
	targets := make([]target.Target, 0, len(c.Targets))
	for _, tc := range c.Targets {
		t, err := target.New(tc.Name, tc.File, tc.AdditionalFiles, tc.Height, tc.Association)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// BuildHooks converts the hook configurations into hook values.
func (c *Config) BuildHooks() []hooks.Hook {
	out := make([]hooks.Hook, 0, len(c.Hooks))
	for _, hc := range c.Hooks {
		out = append(out, hooks.Hook{
			Name:    hc.Name,
			Event:   hooks.EventType(hc.Event),
			Command: hc.Command,
			Timeout: hc.Timeout,
		})
	}
	return out
}
