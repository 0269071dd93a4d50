//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"fmt"
	"io"
	"sort"

	"github.com/biogo/hts/sam"
	"github.com/pkg/errors"
)

// TagCount is the number of reads sharing one tag value.
type TagCount struct {
	Value string
	Count uint64
}

// ParseTag checks a two letters tag name.
func ParseTag(raw string) (sam.Tag, error) {
	if len(raw) != 2 {
		return sam.Tag{}, errors.Errorf("invalid tag %q: expecting 2 characters", raw)
	}
	return sam.NewTag(raw), nil
}

// CountTag counts reads by value of tag. Reads without the tag are ignored.
// Counts are sorted by tag value.
func CountTag(rr HeaderReader, tag sam.Tag) (counts []TagCount, nRead uint64, err error) {
	tally := make(map[string]uint64)
	for {
		rec, err := rr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return counts, nRead, err
		}
		nRead++
		aux, found := rec.Tag(tag[:])
		if !found {
			continue
		}
		tally[fmt.Sprint(aux.Value())]++
	}
	counts = make([]TagCount, 0, len(tally))
	for v, c := range tally {
		counts = append(counts, TagCount{Value: v, Count: c})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Value < counts[j].Value })
	return counts, nRead, nil
}

// WriteTagCounts writes the counts as a single column CSV table.
func WriteTagCounts(w io.Writer, counts []TagCount) error {
	if _, err := io.WriteString(w, "\"counts\"\n"); err != nil {
		return err
	}
	for _, tc := range counts {
		if _, err := fmt.Fprintf(w, "%d\n", tc.Count); err != nil {
			return err
		}
	}
	return nil
}
