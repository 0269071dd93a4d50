//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Command tagabacus counts reads per grouping tag (UG by default) and writes
// the distribution of group sizes.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logging "github.com/op/go-logging"
	"github.com/pkg/errors"

	"git.sr.ht/~vejnar/XLinkAbacus/lib/esam"
	"git.sr.ht/~vejnar/XLinkAbacus/lib/logger"
)

var version = "DEV"

var log = logging.MustGetLogger("tagabacus")

// DefaultCSVName returns <dir>/<name up to first dot>_counts.csv for input path.
func DefaultCSVName(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return filepath.Join(filepath.Dir(path), base+"_counts.csv")
}

func run(path string, tagRaw string, csvName string, nWorker int) error {
	tag, err := esam.ParseTag(tagRaw)
	if err != nil {
		return err
	}
	in, err := esam.OpenSAM(esam.PathSAM{Path: path, Binary: !strings.HasSuffix(path, ".sam")}, nil, nWorker)
	if err != nil {
		return err
	}
	defer in.Close()
	counts, nRead, err := esam.CountTag(in, tag)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	log.Infof("%d reads, %d %s groups", nRead, len(counts), tagRaw)
	f, err := os.Create(csvName)
	if err != nil {
		return err
	}
	if err = esam.WriteTagCounts(f, counts); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", csvName)
	}
	return f.Close()
}

func main() {
	var tagRaw, csvName string
	var nWorker int
	var verbose, printVersion bool
	flag.StringVar(&tagRaw, "tag", "UG", "Tag grouping the reads")
	flag.StringVar(&csvName, "csv_name", "", "Path to counts output (default <input>_counts.csv)")
	flag.IntVar(&nWorker, "num_worker", 1, "Number of worker(s) for BAM decompression")
	flag.BoolVar(&verbose, "verbose", false, "Verbose")
	flag.BoolVar(&printVersion, "version", false, "Print version and quit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] <bam>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if printVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	logger.Setup(verbose)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)
	if csvName == "" {
		csvName = DefaultCSVName(path)
	}
	if err := run(path, tagRaw, csvName, nWorker); err != nil {
		log.Fatal(err)
	}
}
