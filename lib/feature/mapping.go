//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// OpenMapping reads a tabulated file of feature name and output name.
func OpenMapping(mpath string) (map[string]string, error) {
	mfos, err := os.Open(mpath)
	if err != nil {
		return nil, err
	}
	defer mfos.Close()
	m, err := ReadMapping(mfos)
	if err != nil {
		return nil, errors.Wrapf(err, "reading mapping %s", mpath)
	}
	return m, nil
}

// ReadMapping parses "name<TAB>new name" lines. Empty lines are ignored.
func ReadMapping(r io.Reader) (map[string]string, error) {
	m := make(map[string]string)
	tscanner := bufio.NewScanner(r)
	for iline := 1; tscanner.Scan(); iline++ {
		line := tscanner.Text()
		if len(line) == 0 {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) < 2 {
			return m, errors.Errorf("line %d: expecting 2 columns", iline)
		}
		m[fields[0]] = fields[1]
	}
	return m, tscanner.Err()
}

// MapName returns the mapped name, or name if absent from m.
func MapName(name string, m map[string]string) string {
	if nn, ok := m[name]; ok {
		return nn
	}
	return name
}
