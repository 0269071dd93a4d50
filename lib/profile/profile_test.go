//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package profile

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestParseWidth(t *testing.T) {
	tests := []struct {
		raw  string
		want Width
		max  uint64
	}{
		{"uint8", Uint8, 255},
		{"16", Uint16, 65535},
		{"u32", Uint32, 4294967295},
		{"UINT64", Uint64, 18446744073709551615},
	}
	for _, test := range tests {
		t.Run(test.raw, func(t *testing.T) {
			c := qt.New(t)
			w, err := ParseWidth(test.raw)
			c.Assert(err, qt.IsNil)
			c.Assert(w, qt.Equals, test.want)
			c.Assert(w.Max(), qt.Equals, test.max)
			c.Assert(w.Valid(), qt.IsTrue)
		})
	}
}

func TestParseWidthInvalid(t *testing.T) {
	c := qt.New(t)
	_, err := ParseWidth("int12")
	c.Assert(err, qt.ErrorMatches, `unknown storage width "int12"`)
	c.Assert(Width(12).Valid(), qt.IsFalse)
	c.Assert(Width(12).Max(), qt.Equals, uint64(0))
}

func TestProfile(t *testing.T) {
	c := qt.New(t)
	p := New(Uint8)
	c.Assert(p.Set(10, 3), qt.IsNil)
	c.Assert(p.Set(-1, 1), qt.IsNil)
	c.Assert(p.Set(5, 255), qt.IsNil)
	c.Assert(p.Set(7, 256), qt.ErrorMatches, `count 256 at 7 exceeds uint8`)
	c.Assert(p.Len(), qt.Equals, 3)
	c.Assert(p.Sum(), qt.Equals, uint64(259))
	c.Assert(p.Positions(), qt.DeepEquals, []int{-1, 5, 10})
	c.Assert(p.Get(7), qt.Equals, uint64(0))

	c.Assert(p.Set(5, 0), qt.IsNil)
	c.Assert(p.Len(), qt.Equals, 2)
}

func TestProfileEqual(t *testing.T) {
	c := qt.New(t)
	p, q := New(Uint16), New(Uint16)
	c.Assert(p.Equal(q), qt.IsTrue)
	p.Set(3, 2)
	c.Assert(p.Equal(q), qt.IsFalse)
	q.Set(3, 2)
	c.Assert(p.Equal(q), qt.IsTrue)
	r := New(Uint32)
	r.Set(3, 2)
	c.Assert(p.Equal(r), qt.IsFalse)
}
