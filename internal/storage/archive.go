package storage

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/facette/natsort"

	"github.com/san-kum/corotrap/internal/dynamo"
)

// Dump is one trajectory found while scanning a directory of dumps.
type Dump struct {
	Name       string // file name without extension
	Source     string // file or archive it was read from
	Trajectory dynamo.Trajectory
}

func isArchive(name string) bool {
	return strings.HasSuffix(name, ".tar") || strings.HasSuffix(name, ".tar.gz") || strings.HasSuffix(name, ".tgz")
}

func isDump(name string) bool {
	return strings.HasPrefix(filepath.Base(name), dumpPrefix+"_(")
}

// ScanDumps calls fn for every dump in dir, including dumps packed in
// .tar, .tar.gz or .tgz archives, in natural name order per source.
// Returning an error from fn stops the scan.
func ScanDumps(dir string, fn func(Dump) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	natsort.Sort(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		switch {
		case isArchive(name):
			if err := scanArchive(path, fn); err != nil {
				return err
			}
		case isDump(name):
			traj, err := ReadDumpFile(path)
			if err != nil {
				return err
			}
			if err := fn(Dump{Name: strings.TrimSuffix(name, DumpExt), Source: path, Trajectory: traj}); err != nil {
				return err
			}
		}
	}
	return nil
}

func scanArchive(path string, fn func(Dump) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if !strings.HasSuffix(path, ".tar") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	var dumps []Dump
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if hdr.Typeflag != tar.TypeReg || !isDump(hdr.Name) {
			continue
		}
		traj, err := ReadDump(tr)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", path, hdr.Name, err)
		}
		dumps = append(dumps, Dump{
			Name:       strings.TrimSuffix(filepath.Base(hdr.Name), DumpExt),
			Source:     path,
			Trajectory: traj,
		})
	}

	sort.SliceStable(dumps, func(i, j int) bool {
		return natsort.Compare(dumps[i].Name, dumps[j].Name)
	})
	for _, d := range dumps {
		if err := fn(d); err != nil {
			return err
		}
	}
	return nil
}
