//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package crosslink

import (
	"fmt"

	"github.com/pkg/errors"

	"git.sr.ht/~vejnar/XLinkAbacus/lib/profile"
)

var (
	ErrMalformedCigar = errors.New("malformed CIGAR")
	ErrOverflow       = errors.New("count overflow")
	ErrConsistency    = errors.New("inconsistent counts")
)

// MalformedCigarError reports an unknown CIGAR operation code.
type MalformedCigarError struct {
	Op    int
	Index int
}

func (e *MalformedCigarError) Error() string {
	return fmt.Sprintf("%v: unknown operation code %d at index %d", ErrMalformedCigar, e.Op, e.Index)
}

func (e *MalformedCigarError) Unwrap() error { return ErrMalformedCigar }

// OverflowError reports a site whose count does not fit the storage width.
type OverflowError struct {
	Chrom  string
	Strand int8
	Pos    int
	Count  uint64
	Width  profile.Width
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%v: %d crosslinks at %s:%d (strand %+d) exceed %s (max %d), use a larger storage width", ErrOverflow, e.Count, e.Chrom, e.Pos, e.Strand, e.Width, e.Width.Max())
}

func (e *OverflowError) Unwrap() error { return ErrOverflow }

// ConsistencyError reports profiles whose sum differs from the number of reads.
type ConsistencyError struct {
	Chrom string
	Sum   uint64
	Total uint64
	Width profile.Width
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%v: sum of depths %d on %s is not equal to the %d reads counted (%s)", ErrConsistency, e.Sum, e.Chrom, e.Total, e.Width)
}

func (e *ConsistencyError) Unwrap() error { return ErrConsistency }
