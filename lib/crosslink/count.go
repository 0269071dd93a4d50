//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package crosslink

import (
	"sort"

	"github.com/pkg/errors"

	"git.sr.ht/~vejnar/XLinkAbacus/lib/esam"
	"git.sr.ht/~vejnar/XLinkAbacus/lib/profile"
)

// Stats counts crosslink sites by category.
type Stats [nCategory]uint64

// Map returns the counts keyed by category name.
func (s Stats) Map() map[string]uint64 {
	m := make(map[string]uint64, len(s))
	for i, c := range s {
		m[Category(i).String()] = c
	}
	return m
}

// Add adds the counts of o.
func (s *Stats) Add(o Stats) {
	for i := range s {
		s[i] += o[i]
	}
}

// Site is a stranded genomic position.
type Site struct {
	Strand int8
	Pos    int
}

// Accumulator counts calls by site. The total is updated with every call.
type Accumulator struct {
	counts map[Site]uint64
	total  uint64
	stats  Stats
}

func NewAccumulator() *Accumulator {
	return &Accumulator{counts: make(map[Site]uint64)}
}

func (a *Accumulator) Add(c Call) {
	a.counts[Site{Strand: c.Strand, Pos: c.Pos}]++
	a.stats[c.Category()]++
	a.total++
}

func (a *Accumulator) Total() uint64 { return a.total }

func (a *Accumulator) Stats() Stats { return a.stats }

// Sites returns the sites, positive strand first, by increasing position.
func (a *Accumulator) Sites() []Site {
	sites := make([]Site, 0, len(a.counts))
	for s := range a.counts {
		sites = append(sites, s)
	}
	sort.Slice(sites, func(i, j int) bool {
		if sites[i].Strand != sites[j].Strand {
			return sites[i].Strand > sites[j].Strand
		}
		return sites[i].Pos < sites[j].Pos
	})
	return sites
}

// Result is the crosslink count of one chromosome.
type Result struct {
	Chrom string
	Pos   *profile.Profile
	Neg   *profile.Profile
	Total uint64
	Stats Stats
}

// Profiles converts the accumulated counts to profiles typed at width.
func (a *Accumulator) Profiles(chrom string, width profile.Width) (*Result, error) {
	res := &Result{Chrom: chrom, Pos: profile.New(width), Neg: profile.New(width), Total: a.total, Stats: a.stats}
	for _, s := range a.Sites() {
		count := a.counts[s]
		if !width.Fits(count) {
			return nil, &OverflowError{Chrom: chrom, Strand: s.Strand, Pos: s.Pos, Count: count, Width: width}
		}
		p := res.Pos
		if s.Strand == -1 {
			p = res.Neg
		}
		if err := p.Set(s.Pos, count); err != nil {
			return nil, &OverflowError{Chrom: chrom, Strand: s.Strand, Pos: s.Pos, Count: count, Width: width}
		}
	}
	if sum := res.Pos.Sum() + res.Neg.Sum(); sum != res.Total {
		return nil, &ConsistencyError{Chrom: chrom, Sum: sum, Total: res.Total, Width: width}
	}
	return res, nil
}

// CountChrom calls the crosslink site of every read of src and returns the
// positive and negative strand profiles of chrom. On error no result is
// returned.
func CountChrom(chrom string, src esam.Source, width profile.Width) (*Result, error) {
	if !width.Valid() {
		return nil, errors.Errorf("invalid storage width %d", uint8(width))
	}
	acc := NewAccumulator()
	for src.Next() {
		c, err := Locate(src.Read())
		if err != nil {
			return nil, errors.Wrapf(err, "read %d on %s", acc.Total()+1, chrom)
		}
		acc.Add(c)
	}
	if err := src.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", chrom)
	}
	return acc.Profiles(chrom, width)
}
