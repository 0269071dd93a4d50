//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package logger configures the logging backend shared by the commands.
package logger

import (
	"io"
	"os"

	logging "github.com/op/go-logging"
)

var Format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05} %{shortfunc} | %{level:.6s} %{color:reset} %{message}`,
)

// Level returns NOTICE, or DEBUG if verbose.
func Level(verbose bool) logging.Level {
	if verbose {
		return logging.DEBUG
	}
	return logging.NOTICE
}

// SetupWriter sends all formatted logs at Level(verbose) to w.
func SetupWriter(w io.Writer, verbose bool) {
	backend := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), Format)
	leveled := logging.AddModuleLevel(backend)
	leveled.SetLevel(Level(verbose), "")
	logging.SetBackend(leveled)
}

// Setup sends the logs to stderr.
func Setup(verbose bool) {
	SetupWriter(os.Stderr, verbose)
}
