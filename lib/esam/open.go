//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/bgzf/index"
	"github.com/biogo/hts/sam"
	"github.com/pkg/errors"
)

// HeaderReader is implemented by *sam.Reader and *bam.Reader.
type HeaderReader interface {
	Read() (*sam.Record, error)
	Header() *sam.Header
}

// Input is an opened SAM or BAM file.
type Input struct {
	HeaderReader
	f   *os.File
	pp  io.ReadCloser
	cmd *exec.Cmd
	br  *bam.Reader
}

// OpenSAM opens a SAM/BAM file. SAM files can be read from the output of cmd.
func OpenSAM(pathSAM PathSAM, cmd []string, nWorker int) (*Input, error) {
	in := &Input{}
	var err error
	if pathSAM.Binary {
		if in.f, err = os.Open(pathSAM.Path); err != nil {
			return nil, err
		}
		if in.br, err = bam.NewReader(in.f, nWorker); err != nil {
			in.f.Close()
			return nil, errors.Wrapf(err, "reading BAM %s", pathSAM.Path)
		}
		in.HeaderReader = in.br
	} else if len(cmd) == 0 {
		if in.f, err = os.Open(pathSAM.Path); err != nil {
			return nil, err
		}
		rr, err := sam.NewReader(in.f)
		if err != nil {
			in.f.Close()
			return nil, errors.Wrapf(err, "reading SAM %s", pathSAM.Path)
		}
		in.HeaderReader = rr
	} else {
		args := append(append([]string{}, cmd[1:]...), pathSAM.Path)
		in.cmd = exec.Command(cmd[0], args...)
		if in.pp, err = in.cmd.StdoutPipe(); err != nil {
			return nil, err
		}
		if err = in.cmd.Start(); err != nil {
			return nil, errors.Wrapf(err, "starting %s", cmd[0])
		}
		rr, err := sam.NewReader(in.pp)
		if err != nil {
			in.Close()
			return nil, errors.Wrapf(err, "reading SAM from %s", cmd[0])
		}
		in.HeaderReader = rr
	}
	return in, nil
}

// Close releases the file and waits for the input command, if any.
func (in *Input) Close() error {
	var err error
	if in.br != nil {
		err = in.br.Close()
	}
	if in.f != nil {
		if e := in.f.Close(); err == nil {
			err = e
		}
	}
	if in.pp != nil {
		in.pp.Close()
	}
	if in.cmd != nil {
		in.cmd.Wait()
	}
	return err
}

// GroupByRef reads all records and returns the mapped reads by reference name.
func GroupByRef(rr HeaderReader) (map[string][]Read, error) {
	groups := make(map[string][]Read)
	for {
		rec, err := rr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return groups, err
		}
		if !IsMapped(rec) {
			continue
		}
		name := rec.Ref.Name()
		groups[name] = append(groups[name], FromRecord(rec))
	}
	return groups, nil
}

// Indexed is a BAM file with its BAI index, read one chromosome at a time.
type Indexed struct {
	Path   string
	Header *sam.Header
	idx    *bam.Index
}

// IndexPath returns the path of the index of BAM file path, if found.
func IndexPath(path string) (string, bool) {
	for _, p := range []string{path + ".bai", strings.TrimSuffix(path, ".bam") + ".bai"} {
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// OpenIndexed reads the header and index of BAM file path.
func OpenIndexed(path string, pathIndex string) (*Indexed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	br, err := bam.NewReader(f, 1)
	if err != nil {
		return nil, errors.Wrapf(err, "reading BAM %s", path)
	}
	defer br.Close()
	fi, err := os.Open(pathIndex)
	if err != nil {
		return nil, err
	}
	defer fi.Close()
	idx, err := bam.ReadIndex(fi)
	if err != nil {
		return nil, errors.Wrapf(err, "reading index %s", pathIndex)
	}
	return &Indexed{Path: path, Header: br.Header(), idx: idx}, nil
}

// ChromSource is a Source over one chromosome of an indexed BAM file.
type ChromSource struct {
	*RecordSource
	f  *os.File
	br *bam.Reader
	it *bam.Iterator
}

// Chrom opens a new reader positioned on the records of ref.
// Each call uses its own file handle, so sources can run concurrently.
func (ix *Indexed) Chrom(ref *sam.Reference, nWorker int) (Source, func() error, error) {
	chunks, err := ix.idx.Chunks(ref, 0, ref.Len())
	// References without any indexed record have no bins or intervals.
	if err == index.ErrNoReference || err == index.ErrInvalid || (err == nil && len(chunks) == 0) {
		return NewSliceSource(nil), func() error { return nil }, nil
	} else if err != nil {
		return nil, nil, errors.Wrapf(err, "index lookup of %s", ref.Name())
	}
	f, err := os.Open(ix.Path)
	if err != nil {
		return nil, nil, err
	}
	br, err := bam.NewReader(f, nWorker)
	if err != nil {
		f.Close()
		return nil, nil, errors.Wrapf(err, "reading BAM %s", ix.Path)
	}
	it, err := bam.NewIterator(br, chunks)
	if err != nil {
		br.Close()
		f.Close()
		return nil, nil, errors.Wrapf(err, "seeking %s in %s", ref.Name(), ix.Path)
	}
	cs := &ChromSource{RecordSource: NewRecordSource(it, ref.Name()), f: f, br: br, it: it}
	return cs, cs.Close, nil
}

func (cs *ChromSource) Close() error {
	err := cs.it.Close()
	cs.br.Close()
	if e := cs.f.Close(); err == nil {
		err = e
	}
	return err
}
