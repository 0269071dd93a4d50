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
	"fmt"
	"io"
	"os"
	"strconv"
)

// WriteCounts writes the crosslink count and count per million of each feature.
// The first row holds the totals used for normalization.
func WriteCounts(w io.Writer, features []Feature, featuresMapping map[string]string, counts []float64, total float64) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("\"name\",\"length\",\"count\",\"cpm\"\n")
	var totalLength int
	for _, feat := range features {
		totalLength += feat.Length()
	}
	fmt.Fprintf(bw, "\"total\",%d,%s,", totalLength, strconv.FormatFloat(total, 'f', -1, 64))
	if total > 0 {
		bw.WriteString("1000000")
	} else {
		bw.WriteString("0")
	}
	bw.WriteString("\n")
	for _, feat := range features {
		var cpm float64
		c := counts[feat.ID]
		if total > 0 {
			cpm = c * 1000000. / total
		}
		fmt.Fprintf(bw, "\"%s\",%d,%s,%s\n", MapName(feat.Name, featuresMapping), feat.Length(), strconv.FormatFloat(c, 'f', -1, 64), strconv.FormatFloat(cpm, 'f', -1, 32))
	}
	return bw.Flush()
}

// WriteCountsFile writes the counts to countPath, appending or truncating.
func WriteCountsFile(countPath string, features []Feature, featuresMapping map[string]string, counts []float64, total float64, appendOutput bool) error {
	// Append or Create flag
	var fg int
	if appendOutput {
		fg = os.O_APPEND | os.O_CREATE | os.O_WRONLY
	} else {
		fg = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(countPath, fg, 0666)
	if err != nil {
		return err
	}
	if err = WriteCounts(f, features, featuresMapping, counts, total); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
