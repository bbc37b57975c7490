package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/corotrap/internal/dynamo"
)

// ErrMalformedDump indicates a dump line that is not five numbers.
var ErrMalformedDump = errors.New("storage: malformed dump")

// DumpColumns is the on-disk column order. Trajectories use
// dynamo.CanonicalColumns in memory.
var DumpColumns = []string{"t", "x", "y", "vx", "vy"}

// ReadDump parses a whitespace-delimited dump with columns t x y vx vy,
// reorders it to x y vx vy t and validates the trajectory. Blank lines and
// lines starting with # are skipped.
func ReadDump(r io.Reader) (dynamo.Trajectory, error) {
	var rows [][]float64

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != len(DumpColumns) {
			return nil, fmt.Errorf("%w: line %d: expected %d columns, got %d", ErrMalformedDump, line, len(DumpColumns), len(fields))
		}

		vals := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedDump, line, err)
			}
			vals[i] = v
		}
		// t x y vx vy -> x y vx vy t
		rows = append(rows, append(vals[1:], vals[0]))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return dynamo.FromRows(rows)
}

// WriteDump writes traj in dump column order with full float precision.
func WriteDump(w io.Writer, traj dynamo.Trajectory) error {
	bw := bufio.NewWriter(w)
	for _, s := range traj {
		cols := [...]float64{s.T, s.X, s.Y, s.VX, s.VY}
		for i, v := range cols {
			if i > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func ReadDumpFile(path string) (dynamo.Trajectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	traj, err := ReadDump(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return traj, nil
}

func WriteDumpFile(path string, traj dynamo.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteDump(f, traj); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
