//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"gopkg.in/fatih/set.v0"

	"git.sr.ht/~vejnar/XLinkAbacus/lib/esam"
	"git.sr.ht/~vejnar/XLinkAbacus/lib/feature"
	"git.sr.ht/~vejnar/XLinkAbacus/lib/logger"
	"git.sr.ht/~vejnar/XLinkAbacus/lib/profile"
)

var version = "DEV"

func main() {
	// Arguments: General
	var pathReport string
	var nWorker int
	var appendOutput, verbose, printVersion bool
	flag.StringVar(&pathReport, "path_report", "", "Write report to path (stdout with -)")
	flag.IntVar(&nWorker, "num_worker", 1, "Number of worker(s)")
	flag.BoolVar(&appendOutput, "append", false, "Append to output count and profile (default create)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose")
	flag.BoolVar(&printVersion, "version", false, "Print version and quit")
	// Arguments: Input
	var pathSAMsRaw, pathBAMsRaw, rawSAMCmdIn, chromsRaw, pathChromSizes string
	flag.StringVar(&pathSAMsRaw, "path_sam", "", "Path to SAM file(s) (comma separated)")
	flag.StringVar(&pathBAMsRaw, "path_bam", "", "Path to BAM file(s) (comma separated). Indexed BAM are read per chromosome")
	flag.StringVar(&rawSAMCmdIn, "sam_command_in", "", "Command line to execute for opening each of the SAM file (comma separated)")
	flag.StringVar(&chromsRaw, "chroms", "", "Chromosome(s) to count (comma separated, default all)")
	flag.StringVar(&pathChromSizes, "path_chrom_sizes", "", "Path to chromosome sizes (tabulated name and length, default from SAM header)")
	// Arguments: Counting
	var storageWidthRaw string
	flag.StringVar(&storageWidthRaw, "storage_width", profile.DefaultWidth.String(), "Unsigned integer width to store crosslink counts per position: 'uint8', 'uint16', 'uint32' or 'uint64'")
	// Arguments: Profiling
	var profilePathPos, profilePathNeg, profileFormat string
	flag.StringVar(&profilePathPos, "profile_path_pos", "", "Path to positive strand profile output")
	flag.StringVar(&profilePathNeg, "profile_path_neg", "", "Path to negative strand profile output")
	flag.StringVar(&profileFormat, "profile_format", "bedgraph", "Profile output format: 'bedgraph' or 'csv', optionally compressed with '+lz4', '+lz4hc' or '+gz'")
	// Arguments: Features
	var pathFeatures, formatFeatures, fonName, fonChrom, fonStrand, fonCoords, featureStrandRaw, countPath, pathMapping string
	flag.StringVar(&pathFeatures, "path_features", "", "Path to features file to count crosslinks per feature")
	flag.StringVar(&formatFeatures, "format_features", "FON", "Format of features file: 'FON' or 'tab'")
	flag.StringVar(&fonName, "fon_name", "transcript_stable_id", "FON key for feature name")
	flag.StringVar(&fonChrom, "fon_chrom", "chrom", "FON key for chromosome or locus")
	flag.StringVar(&fonStrand, "fon_strand", "strand", "FON key for strand")
	flag.StringVar(&fonCoords, "fon_coords", "exons", "FON key for coordinates (exons for example)")
	flag.StringVar(&featureStrandRaw, "feature_strand", "", "Default feature strand for tab features (+ (+1), - (-1) or unstranded if empty)")
	flag.StringVar(&countPath, "count_path", "counts.csv", "Path to feature counts output")
	flag.StringVar(&pathMapping, "path_mapping", "", "Path to feature name(s) mapping (tabulated file)")
	// Arguments: Parse
	flag.Parse()

	// Version
	if printVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	logger.Setup(verbose)

	if nWorker < 1 {
		log.Fatal("num_worker must be at least 1")
	}
	// Max CPU
	runtime.GOMAXPROCS(nWorker * 2)

	opt := Options{
		TimeStart:      time.Now(),
		NWorker:        nWorker,
		ProfilePathPos: profilePathPos,
		ProfilePathNeg: profilePathNeg,
		ProfileFormat:  profileFormat,
		CountPath:      countPath,
		PathReport:     pathReport,
		Append:         appendOutput,
	}

	// Parse raw arguments
	// pathSAMs
	if len(pathSAMsRaw) > 0 {
		for _, p := range strings.Split(pathSAMsRaw, ",") {
			if _, err := os.Stat(p); os.IsNotExist(err) {
				log.Fatalf("%s not found", p)
			}
			opt.PathSAMs = append(opt.PathSAMs, esam.PathSAM{Path: p, Binary: false})
		}
		if len(rawSAMCmdIn) > 0 {
			opt.SAMCmdIn = strings.Split(rawSAMCmdIn, ",")
		}
	}
	if len(pathBAMsRaw) > 0 {
		for _, p := range strings.Split(pathBAMsRaw, ",") {
			if _, err := os.Stat(p); os.IsNotExist(err) {
				log.Fatalf("%s not found", p)
			}
			opt.PathSAMs = append(opt.PathSAMs, esam.PathSAM{Path: p, Binary: true})
		}
	}
	if len(opt.PathSAMs) == 0 {
		log.Fatal("No SAM/BAM input")
	}
	// chroms
	if len(chromsRaw) > 0 {
		opt.Chroms = set.New(set.NonThreadSafe)
		for _, c := range strings.Split(chromsRaw, ",") {
			opt.Chroms.Add(c)
		}
	}
	// storageWidth
	var err error
	if opt.Width, err = profile.ParseWidth(storageWidthRaw); err != nil {
		log.Fatal(err)
	}
	// profileFormat
	if err = profile.CheckFormat(profileFormat); err != nil {
		log.Fatal(err)
	}
	// chromSizes
	if pathChromSizes != "" {
		sizes, err := feature.OpenTAB(pathChromSizes, 0)
		if err != nil {
			log.Fatal(err)
		}
		opt.ChromSizes = feature.Lengths(sizes)
	}

	// Open features
	if pathFeatures != "" {
		switch strings.ToLower(formatFeatures) {
		case "fon":
			opt.Features, err = feature.OpenFON(pathFeatures, fonName, fonChrom, fonStrand, fonCoords)
		case "tab":
			opt.Features, err = feature.OpenTAB(pathFeatures, feature.ParseStrand(featureStrandRaw))
		default:
			log.Fatalf("Unknown feature format %s", formatFeatures)
		}
		if err != nil {
			log.Fatal(err)
		}
		if opt.Trees, err = feature.BuildFeatTrees(opt.Features); err != nil {
			log.Fatal(err)
		}
		log.Infof("%.1fmin - Loaded %d features", opt.Elapsed(), len(opt.Features))
	}

	// Open feature mapping
	if pathMapping != "" {
		if opt.FeaturesMapping, err = feature.OpenMapping(pathMapping); err != nil {
			log.Fatal(err)
		}
	}

	// Count crosslinks
	nRead, err := XLonChroms(opt)
	if err != nil {
		log.Fatal(err)
	}

	log.Noticef("%.1fmin - Done %s reads", opt.Elapsed(), AddCommas(itoa(nRead)))
}
