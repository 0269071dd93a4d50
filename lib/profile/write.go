//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package profile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4"
	"github.com/pkg/errors"
)

// Chrom is the profile of one chromosome and strand ready to be written.
// Length is the chromosome length, 0 if unknown.
type Chrom struct {
	Name    string
	Length  int
	Profile *Profile
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NewCompressor wraps w according to compression ("", "lz4", "lz4hc" or "gz").
func NewCompressor(w io.Writer, compression string) (io.WriteCloser, error) {
	switch compression {
	case "":
		return nopCloser{w}, nil
	case "lz4":
		return lz4.NewWriter(w), nil
	case "lz4hc":
		lzWriter := lz4.NewWriter(w)
		lzWriter.Header = lz4.Header{CompressionLevel: 9}
		return lzWriter, nil
	case "gz", "gzip":
		return gzip.NewWriter(w), nil
	}
	return nil, errors.Errorf("unknown compression %q", compression)
}

// SplitFormat splits "bedgraph+lz4" into format and compression.
func SplitFormat(profileFormat string) (string, string) {
	if i := strings.Index(profileFormat, "+"); i >= 0 {
		return profileFormat[:i], profileFormat[i+1:]
	}
	return profileFormat, ""
}

// CheckFormat returns an error if profileFormat is not a known format and compression.
func CheckFormat(profileFormat string) error {
	format, compression := SplitFormat(profileFormat)
	if format != "bedgraph" && format != "csv" {
		return errors.Errorf("unknown profile format %q", format)
	}
	switch compression {
	case "", "lz4", "lz4hc", "gz", "gzip":
		return nil
	}
	return errors.Errorf("unknown compression %q", compression)
}

// WriteProfiles writes chroms to profilePath in profileFormat.
// Positions outside of a chromosome are skipped; their number is returned.
func WriteProfiles(profilePath string, profileFormat string, chroms []Chrom, appendOutput bool) (int, error) {
	if err := CheckFormat(profileFormat); err != nil {
		return 0, err
	}
	format, compression := SplitFormat(profileFormat)
	// Append or Create flag
	var fg int
	if appendOutput {
		fg = os.O_APPEND | os.O_CREATE | os.O_WRONLY
	} else {
		fg = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(profilePath, fg, 0666)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	cw, err := NewCompressor(f, compression)
	if err != nil {
		return 0, err
	}
	bw := bufio.NewWriter(cw)
	var clipped int
	switch format {
	case "bedgraph":
		clipped, err = WriteBedGraph(bw, chroms)
	case "csv":
		clipped, err = WriteCSV(bw, chroms, fi.Size() == 0)
	}
	if err != nil {
		return clipped, errors.Wrapf(err, "writing %s", profilePath)
	}
	if err = bw.Flush(); err != nil {
		return clipped, err
	}
	if err = cw.Close(); err != nil {
		return clipped, err
	}
	return clipped, f.Close()
}

func inside(c Chrom, pos int) bool {
	return pos >= 0 && (c.Length <= 0 || pos < c.Length)
}

// WriteBedGraph writes one line per run of consecutive positions with equal count.
func WriteBedGraph(w io.Writer, chroms []Chrom) (clipped int, err error) {
	for _, c := range chroms {
		var stepStart, stepEnd int
		var stepValue uint64
		for _, ip := range c.Profile.Positions() {
			if !inside(c, ip) {
				clipped++
				continue
			}
			v := c.Profile.Get(ip)
			if stepValue != 0 && ip == stepEnd && v == stepValue {
				stepEnd++
				continue
			}
			if stepValue != 0 {
				if _, err = fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", c.Name, stepStart, stepEnd, stepValue); err != nil {
					return
				}
			}
			stepStart, stepEnd, stepValue = ip, ip+1, v
		}
		if stepValue != 0 {
			if _, err = fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", c.Name, stepStart, stepEnd, stepValue); err != nil {
				return
			}
		}
	}
	return
}

// WriteCSV writes one line per position, after a header line if header is true.
func WriteCSV(w io.Writer, chroms []Chrom, header bool) (clipped int, err error) {
	if header {
		if _, err = io.WriteString(w, "\"chrom\",\"position\",\"count\"\n"); err != nil {
			return
		}
	}
	for _, c := range chroms {
		for _, ip := range c.Profile.Positions() {
			if !inside(c, ip) {
				clipped++
				continue
			}
			if _, err = fmt.Fprintf(w, "\"%s\",%d,%d\n", c.Name, ip, c.Profile.Get(ip)); err != nil {
				return
			}
		}
	}
	return
}
