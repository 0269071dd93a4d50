//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Width is the unsigned integer width used to store counts.
type Width uint8

const (
	Uint8  Width = 8
	Uint16 Width = 16
	Uint32 Width = 32
	Uint64 Width = 64
)

// DefaultWidth is used when no width is configured.
const DefaultWidth = Uint16

// ParseWidth accepts "uint16", "16" or "u16".
func ParseWidth(raw string) (Width, error) {
	s := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(raw), "uint"), "u")
	switch s {
	case "8":
		return Uint8, nil
	case "16":
		return Uint16, nil
	case "32":
		return Uint32, nil
	case "64":
		return Uint64, nil
	}
	return 0, errors.Errorf("unknown storage width %q", raw)
}

// Valid returns true for the supported widths.
func (w Width) Valid() bool {
	return w == Uint8 || w == Uint16 || w == Uint32 || w == Uint64
}

// Max returns the largest count representable with w.
func (w Width) Max() uint64 {
	switch w {
	case Uint8:
		return math.MaxUint8
	case Uint16:
		return math.MaxUint16
	case Uint32:
		return math.MaxUint32
	case Uint64:
		return math.MaxUint64
	}
	return 0
}

// Fits returns true if count is representable with w.
func (w Width) Fits(count uint64) bool {
	return count <= w.Max()
}

func (w Width) String() string {
	return fmt.Sprintf("uint%d", uint8(w))
}

// Profile is a sparse depth profile: genomic position to count.
// Absent positions have a count of 0.
type Profile struct {
	Width  Width
	counts map[int]uint64
}

// New returns an empty profile typed at w.
func New(w Width) *Profile {
	return &Profile{Width: w, counts: make(map[int]uint64)}
}

// Set stores count at pos. Zero counts are not stored.
func (p *Profile) Set(pos int, count uint64) error {
	if !p.Width.Fits(count) {
		return errors.Errorf("count %d at %d exceeds %s", count, pos, p.Width)
	}
	if count == 0 {
		delete(p.counts, pos)
		return nil
	}
	p.counts[pos] = count
	return nil
}

// Get returns the count at pos.
func (p *Profile) Get(pos int) uint64 {
	return p.counts[pos]
}

// Len returns the number of positions with a count.
func (p *Profile) Len() int {
	return len(p.counts)
}

// Sum returns the total of all counts.
func (p *Profile) Sum() uint64 {
	var s uint64
	for _, c := range p.counts {
		s += c
	}
	return s
}

// Positions returns the positions with a count in increasing order.
func (p *Profile) Positions() []int {
	pos := make([]int, 0, len(p.counts))
	for ip := range p.counts {
		pos = append(pos, ip)
	}
	sort.Ints(pos)
	return pos
}

// Equal returns true if both profiles have the same width and counts.
func (p *Profile) Equal(q *Profile) bool {
	if p.Width != q.Width || len(p.counts) != len(q.counts) {
		return false
	}
	for ip, c := range p.counts {
		if q.counts[ip] != c {
			return false
		}
	}
	return true
}
