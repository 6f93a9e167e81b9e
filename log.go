// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sindex

import (
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// defaultLogger writes warnings and errors as logfmt to stderr.
var defaultLogger = newDefaultLogger()

func newDefaultLogger() log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, level.AllowWarn())
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "component", "sindex")
	return logger
}
