//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	qt "github.com/frankban/quicktest"
)

const testSAM = "@SQ\tSN:chr1\tLN:1000\n" +
	"@SQ\tSN:chr2\tLN:500\n" +
	"r1\t0\tchr1\t101\t60\t10M\t*\t0\t0\tACGTACGTAC\t*\tUG:Z:g1\n" +
	"r2\t16\tchr1\t201\t60\t5M1D5M\t*\t0\t0\tACGTACGTAC\t*\tUG:Z:g2\n" +
	"r3\t4\t*\t0\t0\t*\t*\t0\t0\tACGT\t*\tUG:Z:g1\n" +
	"r4\t0\tchr2\t1\t60\t4M\t*\t0\t0\tACGT\t*\tUG:Z:g1\n" +
	"r5\t0\tchr1\t301\t60\t4M\t*\t0\t0\tACGT\t*\n"

func newTestReader(c *qt.C) *sam.Reader {
	rr, err := sam.NewReader(strings.NewReader(testSAM))
	c.Assert(err, qt.IsNil)
	return rr
}

func testRecords(c *qt.C) []*sam.Record {
	rr := newTestReader(c)
	var recs []*sam.Record
	for {
		rec, err := rr.Read()
		if err == io.EOF {
			break
		}
		c.Assert(err, qt.IsNil)
		recs = append(recs, rec)
	}
	return recs
}

func TestFromRecord(t *testing.T) {
	c := qt.New(t)
	recs := testRecords(c)
	c.Assert(FromRecord(recs[0]), qt.DeepEquals, Read{Start: 100, End: 110, Cigar: recs[0].Cigar})
	r := FromRecord(recs[1])
	c.Assert(r.Reverse, qt.IsTrue)
	c.Assert(r.Strand(), qt.Equals, int8(-1))
	c.Assert(r.Start, qt.Equals, 200)
	c.Assert(r.End, qt.Equals, 211)
	c.Assert(IsMapped(recs[1]), qt.IsTrue)
	c.Assert(IsMapped(recs[2]), qt.IsFalse)
}

func TestGroupByRef(t *testing.T) {
	c := qt.New(t)
	groups, err := GroupByRef(newTestReader(c))
	c.Assert(err, qt.IsNil)
	c.Assert(groups, qt.HasLen, 2)
	c.Assert(groups["chr1"], qt.HasLen, 3)
	c.Assert(groups["chr2"], qt.HasLen, 1)
	c.Assert(groups["chr1"][2].Start, qt.Equals, 300)
}

func TestOpenSAM(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "test.sam")
	c.Assert(os.WriteFile(path, []byte(testSAM), 0666), qt.IsNil)
	in, err := OpenSAM(PathSAM{Path: path}, nil, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(in.Header().Refs(), qt.HasLen, 2)
	groups, err := GroupByRef(in)
	c.Assert(err, qt.IsNil)
	c.Assert(groups["chr2"], qt.HasLen, 1)
	c.Assert(in.Close(), qt.IsNil)

	_, err = OpenSAM(PathSAM{Path: filepath.Join(c.TempDir(), "missing.bam"), Binary: true}, nil, 1)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestOpenSAMCommand(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "test.sam")
	c.Assert(os.WriteFile(path, []byte(testSAM), 0666), qt.IsNil)
	if _, err := os.Stat("/bin/cat"); err != nil {
		c.Skip("cat not available")
	}
	in, err := OpenSAM(PathSAM{Path: path}, []string{"/bin/cat"}, 1)
	c.Assert(err, qt.IsNil)
	groups, err := GroupByRef(in)
	c.Assert(err, qt.IsNil)
	c.Assert(groups["chr1"], qt.HasLen, 3)
	c.Assert(in.Close(), qt.IsNil)
}

func TestIndexPath(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()
	bamPath := filepath.Join(dir, "a.bam")
	_, ok := IndexPath(bamPath)
	c.Assert(ok, qt.IsFalse)

	c.Assert(os.WriteFile(filepath.Join(dir, "a.bai"), nil, 0666), qt.IsNil)
	p, ok := IndexPath(bamPath)
	c.Assert(ok, qt.IsTrue)
	c.Assert(p, qt.Equals, filepath.Join(dir, "a.bai"))

	c.Assert(os.WriteFile(bamPath+".bai", nil, 0666), qt.IsNil)
	p, ok = IndexPath(bamPath)
	c.Assert(ok, qt.IsTrue)
	c.Assert(p, qt.Equals, bamPath+".bai")
}

// writeIndexedBAM converts a sorted SAM text to path and indexes it to path.bai.
func writeIndexedBAM(c *qt.C, samText string, path string) {
	rr, err := sam.NewReader(strings.NewReader(samText))
	c.Assert(err, qt.IsNil)
	f, err := os.Create(path)
	c.Assert(err, qt.IsNil)
	bw, err := bam.NewWriter(f, rr.Header(), 1)
	c.Assert(err, qt.IsNil)
	for {
		rec, err := rr.Read()
		if err == io.EOF {
			break
		}
		c.Assert(err, qt.IsNil)
		c.Assert(bw.Write(rec), qt.IsNil)
	}
	c.Assert(bw.Close(), qt.IsNil)
	c.Assert(f.Close(), qt.IsNil)

	f, err = os.Open(path)
	c.Assert(err, qt.IsNil)
	defer f.Close()
	br, err := bam.NewReader(f, 1)
	c.Assert(err, qt.IsNil)
	defer br.Close()
	var bai bam.Index
	for {
		rec, err := br.Read()
		if err == io.EOF {
			break
		}
		c.Assert(err, qt.IsNil)
		c.Assert(bai.Add(rec, br.LastChunk()), qt.IsNil)
	}
	fi, err := os.Create(path + ".bai")
	c.Assert(err, qt.IsNil)
	c.Assert(bam.WriteIndex(fi, &bai), qt.IsNil)
	c.Assert(fi.Close(), qt.IsNil)
}

func TestIndexedChrom(t *testing.T) {
	c := qt.New(t)
	// chr0 has no record before the indexed references, chr9 none after.
	samText := "@SQ\tSN:chr0\tLN:100\n" + strings.Replace(testSAM, "@SQ\tSN:chr2\tLN:500\n", "@SQ\tSN:chr2\tLN:500\n@SQ\tSN:chr9\tLN:100\n", 1)
	path := filepath.Join(c.TempDir(), "reads.bam")
	writeIndexedBAM(c, samText, path)

	pathIndex, ok := IndexPath(path)
	c.Assert(ok, qt.IsTrue)
	ix, err := OpenIndexed(path, pathIndex)
	c.Assert(err, qt.IsNil)
	c.Assert(ix.Header.Refs(), qt.HasLen, 4)

	groups, err := GroupByRef(func() HeaderReader {
		rr, err := sam.NewReader(strings.NewReader(samText))
		c.Assert(err, qt.IsNil)
		return rr
	}())
	c.Assert(err, qt.IsNil)

	for _, ref := range ix.Header.Refs() {
		src, closeSrc, err := ix.Chrom(ref, 1)
		c.Assert(err, qt.IsNil, qt.Commentf("%s", ref.Name()))
		c.Assert(drain(src), qt.DeepEquals, groups[ref.Name()], qt.Commentf("%s", ref.Name()))
		c.Assert(src.Err(), qt.IsNil)
		c.Assert(closeSrc(), qt.IsNil)
	}
}

// writeBAIWithoutStats indexes a single reference BAM whose records share one
// bin, omitting the optional statistics pseudo-bin.
func writeBAIWithoutStats(c *qt.C, path string) {
	f, err := os.Open(path)
	c.Assert(err, qt.IsNil)
	defer f.Close()
	br, err := bam.NewReader(f, 1)
	c.Assert(err, qt.IsNil)
	defer br.Close()
	var begin, end uint64
	var bin uint32
	for n := 0; ; n++ {
		rec, err := br.Read()
		if err == io.EOF {
			break
		}
		c.Assert(err, qt.IsNil)
		chunk := br.LastChunk()
		if n == 0 {
			begin = uint64(chunk.Begin.File)<<16 | uint64(chunk.Begin.Block)
			bin = uint32(rec.Bin())
		}
		c.Assert(uint32(rec.Bin()), qt.Equals, bin)
		end = uint64(chunk.End.File)<<16 | uint64(chunk.End.Block)
	}
	var buf bytes.Buffer
	for _, v := range []interface{}{
		[4]byte{'B', 'A', 'I', 1},
		int32(1),             // references
		int32(1), bin,        // bins
		int32(1), begin, end, // chunks
		int32(1), begin,      // intervals
	} {
		c.Assert(binary.Write(&buf, binary.LittleEndian, v), qt.IsNil)
	}
	c.Assert(os.WriteFile(path+".bai", buf.Bytes(), 0666), qt.IsNil)
}

func TestIndexedChromWithoutStats(t *testing.T) {
	c := qt.New(t)
	samText := "@SQ\tSN:chr1\tLN:1000\n" +
		"r1\t0\tchr1\t101\t60\t10M\t*\t0\t0\tACGTACGTAC\t*\n" +
		"r2\t16\tchr1\t201\t60\t5M1D5M\t*\t0\t0\tACGTACGTAC\t*\n"
	path := filepath.Join(c.TempDir(), "reads.bam")
	writeIndexedBAM(c, samText, path)
	writeBAIWithoutStats(c, path)

	ix, err := OpenIndexed(path, path+".bai")
	c.Assert(err, qt.IsNil)
	ref := ix.Header.Refs()[0]
	_, ok := ix.idx.ReferenceStats(ref.ID())
	c.Assert(ok, qt.IsFalse)

	src, closeSrc, err := ix.Chrom(ref, 1)
	c.Assert(err, qt.IsNil)
	defer closeSrc()
	got := drain(src)
	c.Assert(got, qt.HasLen, 2)
	c.Assert(got[0].Start, qt.Equals, 100)
	c.Assert(got[1].Reverse, qt.IsTrue)
	c.Assert(got[1].End, qt.Equals, 211)
}
