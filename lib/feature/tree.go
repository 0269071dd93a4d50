//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"github.com/biogo/store/interval"

	"git.sr.ht/~vejnar/XLinkAbacus/lib/profile"
)

// Trees indexes feature intervals by chromosome and strand (1 or -1).
type Trees map[string]map[int8]*interval.IntTree

// BuildFeatTrees builds a tree of features: each interval (i.e. exon) of each feature is added to the tree.
// Unstranded features are added to both strands.
func BuildFeatTrees(features []Feature) (trees Trees, err error) {
	trees = make(Trees)
	icoord := 0
	for _, feat := range features {
		strands := []int8{feat.Strand}
		if feat.Strand == 0 {
			strands = []int8{1, -1}
		}
		for _, coord := range feat.Coords {
			// New tree for unseen chromosome
			if _, ok := trees[feat.Chrom]; !ok {
				trees[feat.Chrom] = map[int8]*interval.IntTree{1: {}, -1: {}}
			}
			for _, strand := range strands {
				iv := IntInterval{Start: coord[0], End: coord[1], UID: uintptr(icoord), FeatureID: feat.ID, Name: feat.Name}
				if err = trees[feat.Chrom][strand].Insert(iv, true); err != nil {
					return
				}
				icoord++
			}
		}
	}
	for k := range trees {
		trees[k][1].AdjustRanges()
		trees[k][-1].AdjustRanges()
	}
	return
}

// CountSites adds the crosslink count of every site of p to the features overlapping it on chrom and strand.
// It returns the number of crosslinks found in at least one feature.
func (trees Trees) CountSites(chrom string, strand int8, p *profile.Profile, counts []float64) (inFeature uint64) {
	tree, ok := trees[chrom][strand]
	if !ok {
		return
	}
	seen := make(map[uint32]bool)
	for _, ip := range p.Positions() {
		hits := tree.Get(position(ip))
		if len(hits) == 0 {
			continue
		}
		c := p.Get(ip)
		inFeature += c
		for k := range seen {
			delete(seen, k)
		}
		for _, h := range hits {
			id := h.(IntInterval).FeatureID
			if !seen[id] {
				counts[id] += float64(c)
				seen[id] = true
			}
		}
	}
	return
}
