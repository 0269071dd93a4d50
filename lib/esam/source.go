//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// Source supplies the reads of one chromosome.
type Source interface {
	Next() bool
	Read() Read
	Err() error
}

// SliceSource is a replayable Source over a slice of reads.
type SliceSource struct {
	reads []Read
	i     int
}

func NewSliceSource(reads []Read) *SliceSource {
	return &SliceSource{reads: reads, i: -1}
}

func (s *SliceSource) Next() bool {
	if s.i+1 >= len(s.reads) {
		s.i = len(s.reads)
		return false
	}
	s.i++
	return true
}

func (s *SliceSource) Read() Read { return s.reads[s.i] }

func (s *SliceSource) Err() error { return nil }

// Reset rewinds the source to the first read.
func (s *SliceSource) Reset() { s.i = -1 }

// RecordIterator is implemented by *bam.Iterator.
type RecordIterator interface {
	Next() bool
	Record() *sam.Record
	Error() error
}

var _ RecordIterator = (*bam.Iterator)(nil)

// RecordSource reads the mapped records of reference ref from an iterator.
type RecordSource struct {
	it   RecordIterator
	ref  string
	read Read
	// Skipped counts unmapped or off-reference records.
	Skipped int
}

func NewRecordSource(it RecordIterator, ref string) *RecordSource {
	return &RecordSource{it: it, ref: ref}
}

func (s *RecordSource) Next() bool {
	for s.it.Next() {
		rec := s.it.Record()
		if !IsMapped(rec) || rec.Ref.Name() != s.ref {
			s.Skipped++
			continue
		}
		s.read = FromRecord(rec)
		return true
	}
	return false
}

func (s *RecordSource) Read() Read { return s.read }

func (s *RecordSource) Err() error { return s.it.Error() }

type concatSource struct {
	srcs []Source
	cur  int
}

// Concat returns a Source reading each of srcs in turn.
func Concat(srcs ...Source) Source {
	if len(srcs) == 1 {
		return srcs[0]
	}
	return &concatSource{srcs: srcs}
}

func (s *concatSource) Next() bool {
	for s.cur < len(s.srcs) {
		if s.srcs[s.cur].Next() {
			return true
		}
		if s.srcs[s.cur].Err() != nil {
			return false
		}
		s.cur++
	}
	return false
}

func (s *concatSource) Read() Read { return s.srcs[s.cur].Read() }

func (s *concatSource) Err() error {
	if s.cur < len(s.srcs) {
		return s.srcs[s.cur].Err()
	}
	return nil
}
