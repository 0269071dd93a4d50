//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"github.com/biogo/hts/sam"
)

// Operation codes shared with the alignment reader (BAM encoding).
const (
	CigarDeletion = sam.CigarDeletion
	CigarLastOp   = sam.CigarBack
)

// ValidOp returns true if t is a known CIGAR operation.
func ValidOp(t sam.CigarOpType) bool {
	return t <= CigarLastOp
}

// FirstInvalidOp returns the index of the first unknown operation, or -1.
func FirstInvalidOp(cigar sam.Cigar) int {
	for i, co := range cigar {
		if !ValidOp(co.Type()) {
			return i
		}
	}
	return -1
}

// HasDeletion returns true if cigar contains at least one deletion.
func HasDeletion(cigar sam.Cigar) bool {
	for _, co := range cigar {
		if co.Type() == CigarDeletion {
			return true
		}
	}
	return false
}

// RefLen returns the reference length consumed by the operation.
// Unknown operations consume nothing.
func RefLen(co sam.CigarOp) int {
	if !ValidOp(co.Type()) {
		return 0
	}
	return co.Len() * co.Type().Consumes().Reference
}
