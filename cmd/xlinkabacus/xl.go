//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"context"
	"strconv"
	"time"

	"github.com/biogo/hts/sam"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/fatih/set.v0"

	"git.sr.ht/~vejnar/XLinkAbacus/lib/crosslink"
	"git.sr.ht/~vejnar/XLinkAbacus/lib/esam"
	"git.sr.ht/~vejnar/XLinkAbacus/lib/feature"
	"git.sr.ht/~vejnar/XLinkAbacus/lib/profile"
)

type Options struct {
	PathSAMs        []esam.PathSAM
	SAMCmdIn        []string
	Chroms          set.Interface
	ChromSizes      map[string]int
	Width           profile.Width
	ProfilePathPos  string
	ProfilePathNeg  string
	ProfileFormat   string
	Features        []feature.Feature
	Trees           feature.Trees
	FeaturesMapping map[string]string
	CountPath       string
	PathReport      string
	Append          bool
	NWorker         int
	TimeStart       time.Time
}

// Elapsed returns the minutes since start.
func (opt Options) Elapsed() float64 {
	return time.Since(opt.TimeStart).Minutes()
}

// AddCommas adds commas after every 3 characters.
func AddCommas(s string) string {
	if len(s) <= 3 {
		return s
	} else {
		return AddCommas(s[0:len(s)-3]) + "," + s[len(s)-3:]
	}
}

func itoa(n uint64) string {
	return strconv.FormatUint(n, 10)
}

type sourceOpener func(chrom string) (esam.Source, func() error, error)

func noClose() error { return nil }

// Chrom is a chromosome to count.
type Chrom struct {
	Name   string
	Length int
}

// openInputs prepares a per-chromosome source opener for every input and
// returns the chromosomes to count in header order.
func openInputs(opt Options) ([]sourceOpener, []Chrom, error) {
	var openers []sourceOpener
	var chroms []Chrom
	seen := set.New(set.NonThreadSafe)
	for _, pathSAM := range opt.PathSAMs {
		log.Infof("%.1fmin - Opening %s", opt.Elapsed(), pathSAM.Path)
		var refs []refInfo
		if pathIndex, ok := esam.IndexPath(pathSAM.Path); pathSAM.Binary && ok {
			ix, err := esam.OpenIndexed(pathSAM.Path, pathIndex)
			if err != nil {
				return nil, nil, err
			}
			byName := make(map[string]*sam.Reference)
			for _, ref := range ix.Header.Refs() {
				byName[ref.Name()] = ref
				refs = append(refs, refInfo{ref.Name(), ref.Len()})
			}
			openers = append(openers, func(chrom string) (esam.Source, func() error, error) {
				ref, ok := byName[chrom]
				if !ok {
					return esam.NewSliceSource(nil), noClose, nil
				}
				return ix.Chrom(ref, 1)
			})
		} else {
			if pathSAM.Binary {
				log.Warningf("%s is not indexed, loading all reads", pathSAM.Path)
			}
			in, err := esam.OpenSAM(pathSAM, opt.SAMCmdIn, opt.NWorker)
			if err != nil {
				return nil, nil, err
			}
			groups, err := esam.GroupByRef(in)
			for _, ref := range in.Header().Refs() {
				refs = append(refs, refInfo{ref.Name(), ref.Len()})
			}
			in.Close()
			if err != nil {
				return nil, nil, errors.Wrapf(err, "reading %s", pathSAM.Path)
			}
			openers = append(openers, func(chrom string) (esam.Source, func() error, error) {
				return esam.NewSliceSource(groups[chrom]), noClose, nil
			})
		}
		for _, ref := range refs {
			if seen.Has(ref.name) || (opt.Chroms != nil && !opt.Chroms.Has(ref.name)) {
				continue
			}
			seen.Add(ref.name)
			length := ref.length
			if l, ok := opt.ChromSizes[ref.name]; ok {
				length = l
			}
			chroms = append(chroms, Chrom{Name: ref.name, Length: length})
		}
	}
	return openers, chroms, nil
}

type refInfo struct {
	name   string
	length int
}

// countChrom counts the crosslinks of chrom over all inputs.
func countChrom(openers []sourceOpener, chrom string, width profile.Width) (*crosslink.Result, error) {
	var srcs []esam.Source
	for _, open := range openers {
		src, closeSrc, err := open(chrom)
		if err != nil {
			return nil, err
		}
		defer closeSrc()
		srcs = append(srcs, src)
	}
	return crosslink.CountChrom(chrom, esam.Concat(srcs...), width)
}

// XLonChroms counts crosslinks per chromosome in parallel and writes the outputs.
func XLonChroms(opt Options) (nRead uint64, err error) {
	openers, chroms, err := openInputs(opt)
	if err != nil {
		return 0, err
	}
	if opt.Chroms != nil && len(chroms) < opt.Chroms.Size() {
		log.Warningf("%d selected chromosome(s) not found in input", opt.Chroms.Size()-len(chroms))
	}

	// Count per chromosome
	results := make([]*crosslink.Result, len(chroms))
	g, gctx := errgroup.WithContext(context.Background())
	g.SetLimit(opt.NWorker)
	for i := range chroms {
		i := i
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := countChrom(openers, chroms[i].Name, opt.Width)
			if err != nil {
				return errors.Wrapf(err, "counting %s", chroms[i].Name)
			}
			results[i] = res
			log.Infof("%.1fmin - %s: %s reads, %d/%d sites (+/-)", opt.Elapsed(), res.Chrom, AddCommas(itoa(res.Total)), res.Pos.Len(), res.Neg.Len())
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return 0, err
	}
	for _, res := range results {
		nRead += res.Total
	}

	report := NewReport(opt.Width, chroms, results)

	// Output: Profile
	for _, out := range []struct {
		path    string
		strand  int8
		clipped *int
	}{{opt.ProfilePathPos, 1, &report.ClippedPos}, {opt.ProfilePathNeg, -1, &report.ClippedNeg}} {
		if out.path == "" {
			continue
		}
		pcs := make([]profile.Chrom, len(chroms))
		for i, c := range chroms {
			pcs[i] = profile.Chrom{Name: c.Name, Length: c.Length, Profile: results[i].Pos}
			if out.strand == -1 {
				pcs[i].Profile = results[i].Neg
			}
		}
		log.Infof("%.1fmin - Writing %s output in %s", opt.Elapsed(), opt.ProfileFormat, out.path)
		if *out.clipped, err = profile.WriteProfiles(out.path, opt.ProfileFormat, pcs, opt.Append); err != nil {
			return nRead, err
		}
		if *out.clipped > 0 {
			log.Warningf("%d site(s) outside of chromosome bounds not written to %s", *out.clipped, out.path)
		}
	}

	// Output: Count
	if len(opt.Features) > 0 {
		counts := make([]float64, len(opt.Features))
		for _, res := range results {
			report.InFeature += opt.Trees.CountSites(res.Chrom, 1, res.Pos, counts)
			report.InFeature += opt.Trees.CountSites(res.Chrom, -1, res.Neg, counts)
		}
		log.Infof("%.1fmin - Writing feature counts in %s", opt.Elapsed(), opt.CountPath)
		if err = feature.WriteCountsFile(opt.CountPath, opt.Features, opt.FeaturesMapping, counts, float64(nRead), opt.Append); err != nil {
			return nRead, err
		}
	}

	// Output: Report
	if opt.PathReport != "" {
		if err = WriteReport(opt.PathReport, report); err != nil {
			return nRead, err
		}
	}
	return nRead, nil
}
