//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package crosslink calls iCLIP crosslink sites from aligned reads.
//
// Crosslink sites are defined as in Sugimoto et al., Genome Biology 2012:
// the nucleotide preceding the cDNA for truncated cDNAs, and the deleted
// nucleotide for read-through cDNAs. If a cDNA has more than one deletion,
// the deletion closest to the beginning of the read is used.
package crosslink

import (
	"github.com/biogo/hts/sam"

	"git.sr.ht/~vejnar/XLinkAbacus/lib/esam"
)

// Kind tells how a crosslink site was identified.
type Kind uint8

const (
	Truncation Kind = iota
	Deletion
)

// Category combines the kind of site and the strand.
type Category int

const (
	TruncatedPos Category = iota
	TruncatedNeg
	DeletionPos
	DeletionNeg
	nCategory
)

var categoryNames = [nCategory]string{"truncated_pos", "truncated_neg", "deletion_pos", "deletion_neg"}

func (c Category) String() string {
	if c < 0 || c >= nCategory {
		return "unknown"
	}
	return categoryNames[c]
}

// Call is the crosslink site of one read.
type Call struct {
	Pos    int
	Strand int8
	Kind   Kind
}

func (c Call) Category() Category {
	cat := TruncatedPos
	if c.Kind == Deletion {
		cat = DeletionPos
	}
	if c.Strand == -1 {
		cat++
	}
	return cat
}

// Locate returns the crosslink site of r.
func Locate(r esam.Read) (Call, error) {
	if i := esam.FirstInvalidOp(r.Cigar); i != -1 {
		return Call{}, &MalformedCigarError{Op: int(r.Cigar[i].Type()), Index: i}
	}
	c := Call{Strand: r.Strand()}
	if !esam.HasDeletion(r.Cigar) {
		c.Kind = Truncation
		if r.Reverse {
			c.Pos = r.End
		} else {
			c.Pos = r.Start - 1
		}
		return c, nil
	}
	c.Kind = Deletion
	offset := DeletionOffset(r.Cigar, r.Reverse)
	if r.Reverse {
		c.Pos = r.End - offset - 1
	} else {
		c.Pos = r.Start + offset
	}
	return c, nil
}

// DeletionOffset returns the reference length consumed before the first
// deletion, scanning from the end of the alignment if fromEnd is true.
// It returns 0 if cigar has no deletion.
func DeletionOffset(cigar sam.Cigar, fromEnd bool) int {
	var offset int
	n := len(cigar)
	for i := 0; i < n; i++ {
		co := cigar[i]
		if fromEnd {
			co = cigar[n-1-i]
		}
		if co.Type() == esam.CigarDeletion {
			return offset
		}
		offset += esam.RefLen(co)
	}
	return 0
}
