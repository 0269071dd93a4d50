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

// PathSAM stores Path to SAM (Binary=false) or BAM (Binary=true) file.
type PathSAM struct {
	Path   string
	Binary bool
}

// Read is the aligned read as seen by the crosslink caller.
// Start and End are 0-based, End is exclusive (aligned end).
// Cigar uses the BAM operation encoding of biogo/hts.
type Read struct {
	Reverse bool
	Start   int
	End     int
	Cigar   sam.Cigar
}

// Strand returns 1 for forward reads and -1 for reverse reads.
func (r Read) Strand() int8 {
	if r.Reverse {
		return -1
	}
	return 1
}

// FromRecord converts a SAM record. The Cigar is shared with the record.
func FromRecord(rec *sam.Record) Read {
	return Read{
		Reverse: rec.Flags&sam.Reverse != 0,
		Start:   rec.Start(),
		End:     rec.End(),
		Cigar:   rec.Cigar,
	}
}

// IsMapped returns true if the record can be placed on its reference.
func IsMapped(rec *sam.Record) bool {
	return rec.Flags&sam.Unmapped == 0 && rec.Ref != nil && rec.Pos >= 0
}
