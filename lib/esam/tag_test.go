//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"bytes"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestParseTag(t *testing.T) {
	c := qt.New(t)
	tag, err := ParseTag("UG")
	c.Assert(err, qt.IsNil)
	c.Assert(tag.String(), qt.Equals, "UG")
	_, err = ParseTag("UMI")
	c.Assert(err, qt.ErrorMatches, `invalid tag "UMI": expecting 2 characters`)
}

func TestCountTag(t *testing.T) {
	c := qt.New(t)
	tag, err := ParseTag("UG")
	c.Assert(err, qt.IsNil)
	counts, nRead, err := CountTag(newTestReader(c), tag)
	c.Assert(err, qt.IsNil)
	c.Assert(nRead, qt.Equals, uint64(5))
	c.Assert(counts, qt.DeepEquals, []TagCount{{Value: "g1", Count: 3}, {Value: "g2", Count: 1}})

	var buf bytes.Buffer
	c.Assert(WriteTagCounts(&buf, counts), qt.IsNil)
	c.Assert(buf.String(), qt.Equals, "\"counts\"\n3\n1\n")
}
