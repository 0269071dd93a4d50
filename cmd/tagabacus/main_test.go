//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestDefaultCSVName(t *testing.T) {
	c := qt.New(t)
	c.Assert(DefaultCSVName("/data/run1.sorted.bam"), qt.Equals, "/data/run1_counts.csv")
	c.Assert(DefaultCSVName("sample.bam"), qt.Equals, "sample_counts.csv")
}

func TestRun(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()
	path := filepath.Join(dir, "reads.sam")
	sam := "@SQ\tSN:chr1\tLN:1000\n" +
		"r1\t0\tchr1\t1\t60\t4M\t*\t0\t0\tACGT\t*\tUG:i:7\n" +
		"r2\t0\tchr1\t5\t60\t4M\t*\t0\t0\tACGT\t*\tUG:i:7\n" +
		"r3\t0\tchr1\t9\t60\t4M\t*\t0\t0\tACGT\t*\tUG:i:12\n"
	c.Assert(os.WriteFile(path, []byte(sam), 0666), qt.IsNil)
	csvName := DefaultCSVName(path)
	c.Assert(run(path, "UG", csvName, 1), qt.IsNil)
	data, err := os.ReadFile(csvName)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "\"counts\"\n1\n2\n")

	c.Assert(run(path, "UGX", csvName, 1), qt.ErrorMatches, `invalid tag .*`)
}
