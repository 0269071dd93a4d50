//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"bufio"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Feature is an annotated region made of one or more intervals (0-based [start,end)).
// Strand 0 is unstranded.
type Feature struct {
	ID     uint32
	Name   string
	Chrom  string
	Strand int8
	Coords [][]int
}

// Length returns the length of feature
func (feat Feature) Length() int {
	return IntervalsLength(feat.Coords)
}

// ParseStrand parses "+", "1", "+1", "-" and "-1". Anything else is unstranded.
func ParseStrand(strandRaw string) int8 {
	switch strandRaw {
	case "+", "1", "+1":
		return 1
	case "-", "-1":
		return -1
	}
	return 0
}

// OpenFON parses a "Feature Object Notation" file and returns a list of Feature
func OpenFON(jpath, fonName, fonChrom, fonStrand, fonCoords string) (features []Feature, err error) {
	jfos, err := os.Open(jpath)
	if err != nil {
		return
	}
	defer jfos.Close()

	var fon struct {
		Version  int                          `json:"fon_version"`
		Features []map[string]json.RawMessage `json:"features"`
	}
	d := json.NewDecoder(jfos)
	if err = d.Decode(&fon); err != nil {
		err = errors.Wrapf(err, "parsing JSON feature file %s", jpath)
		return
	}
	if fon.Version != 1 {
		err = errors.Errorf("unknown FON version %d", fon.Version)
		return
	}

	for i, mf := range fon.Features {
		f := Feature{ID: uint32(i)}
		var strand string
		for _, kv := range []struct {
			key string
			dst interface{}
		}{{fonName, &f.Name}, {fonChrom, &f.Chrom}, {fonStrand, &strand}, {fonCoords, &f.Coords}} {
			raw, ok := mf[kv.key]
			if !ok {
				err = errors.Errorf("feature %d in %s: missing key %q", i, jpath, kv.key)
				return
			}
			if err = json.Unmarshal(raw, kv.dst); err != nil {
				err = errors.Wrapf(err, "feature %d in %s: key %q", i, jpath, kv.key)
				return
			}
		}
		f.Strand = ParseStrand(strand)
		for _, c := range f.Coords {
			if len(c) != 2 {
				err = errors.Errorf("feature %s: coordinates must be [start, end] pairs", f.Name)
				return
			}
		}
		features = append(features, f)
	}
	return
}

// OpenTAB parses a two column tabulated file with name and length (a chromosome sizes file for example)
// and returns a list of Feature spanning [0, length) on strand.
func OpenTAB(tpath string, strand int8) (features []Feature, err error) {
	tfos, err := os.Open(tpath)
	if err != nil {
		return
	}
	defer tfos.Close()

	var i uint32
	var length int
	tscanner := bufio.NewScanner(tfos)
	for tscanner.Scan() {
		line := tscanner.Text()
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			err = errors.Errorf("%s: expecting name and length in line %q", tpath, line)
			return
		}
		length, err = strconv.Atoi(fields[1])
		if err != nil {
			err = errors.Wrapf(err, "%s: length of %s", tpath, fields[0])
			return
		}
		f := Feature{ID: i, Name: fields[0], Chrom: fields[0], Strand: strand, Coords: [][]int{{0, length}}}
		features = append(features, f)
		i++
	}
	err = tscanner.Err()
	return
}

// Lengths returns feature length by name.
func Lengths(features []Feature) map[string]int {
	m := make(map[string]int, len(features))
	for _, f := range features {
		m[f.Name] = f.Length()
	}
	return m
}

// IntervalsLength returns the length covered by all intervals (0-based [start,end))
func IntervalsLength(intervals [][]int) (length int) {
	for _, iv := range intervals {
		length += iv[1] - iv[0]
	}
	return
}
