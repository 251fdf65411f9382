// SPDX-License-Identifier: GPL-3.0-or-later

package xfer

import (
	"time"

	"github.com/bassosimone/xfer/capi"
	"github.com/bassosimone/xfer/engine/native"
	"github.com/bassosimone/xfer/internal/netx"
)

// Config holds common configuration for handles.
//
// Pass this to [NewEasy], [NewMulti] and [NewShare]. All fields have
// sensible defaults set by [NewConfig]. Handles meant to work together
// must share the same Engine.
type Config struct {
	// Engine runs the transfers.
	//
	// Set by [NewConfig] to a [*native.Engine] that does not log. Use
	// [native.NewDefaultEngine] to get one that logs.
	Engine capi.Engine

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConfig] to [DefaultErrClassifier].
	ErrClassifier ErrClassifier

	// TimeNow returns the current time.
	//
	// Set by [NewConfig] to [time.Now].
	TimeNow func() time.Time
}

// NewConfig creates a [*Config] with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Engine:        native.NewDefaultEngine(netx.DefaultSLogger()),
		ErrClassifier: DefaultErrClassifier,
		TimeNow:       time.Now,
	}
}

// newEnv captures the config and logger shared by a handle's references.
func newEnv(cfg *Config, logger SLogger) *env {
	return &env{
		engine:        cfg.Engine,
		errClassifier: cfg.ErrClassifier,
		logger:        logger,
		timeNow:       cfg.TimeNow,
	}
}

// env is what a handle reference needs to reach its engine and log.
type env struct {
	engine        capi.Engine
	errClassifier ErrClassifier
	logger        SLogger
	timeNow       func() time.Time
}
