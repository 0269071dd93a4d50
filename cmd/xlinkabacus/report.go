//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"git.sr.ht/~vejnar/XLinkAbacus/lib/crosslink"
	"git.sr.ht/~vejnar/XLinkAbacus/lib/profile"
)

type ChromReport struct {
	Name       string            `json:"chrom"`
	Reads      uint64            `json:"reads"`
	SitesPos   int               `json:"sites_pos"`
	SitesNeg   int               `json:"sites_neg"`
	Categories map[string]uint64 `json:"categories"`
}

type Report struct {
	Width      string            `json:"storage_width"`
	Reads      uint64            `json:"reads"`
	Categories map[string]uint64 `json:"categories"`
	InFeature  uint64            `json:"reads_in_feature,omitempty"`
	ClippedPos int               `json:"clipped_pos,omitempty"`
	ClippedNeg int               `json:"clipped_neg,omitempty"`
	Chroms     []ChromReport     `json:"chroms"`
}

func NewReport(width profile.Width, chroms []Chrom, results []*crosslink.Result) *Report {
	r := &Report{Width: width.String()}
	var stats crosslink.Stats
	for i, res := range results {
		r.Reads += res.Total
		stats.Add(res.Stats)
		r.Chroms = append(r.Chroms, ChromReport{
			Name:       chroms[i].Name,
			Reads:      res.Total,
			SitesPos:   res.Pos.Len(),
			SitesNeg:   res.Neg.Len(),
			Categories: res.Stats.Map(),
		})
	}
	r.Categories = stats.Map()
	return r
}

func WriteReport(pathReport string, r *Report) error {
	report, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if pathReport != "-" {
		f, err := os.Create(pathReport)
		if err != nil {
			return err
		}
		if _, err = f.Write(report); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	} else {
		fmt.Println(string(report))
	}
	return nil
}
