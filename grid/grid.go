package grid

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const DefaultNoData = -9999.

// Definition locates a north-up raster: upper-left corner (OE, ON), row and
// column counts and cell dimensions.
type Definition struct {
	OE, ON float64 // origin easting, northing (upper-left corner)
	Rot    float64 // rotation, degrees
	NR, NC int
	CW, CH float64 // cell width, height
	NoData float64
}

func (d Definition) Ncells() int { return d.NR * d.NC }

// Centroid returns the centre of the cell at row r, column c.
func (d Definition) Centroid(r, c int) (x, y float64) {
	return d.OE + (float64(c)+.5)*d.CW, d.ON - (float64(r)+.5)*d.CH
}

// Equal reports whether two definitions describe the same cells.
func (d Definition) Equal(o Definition) bool {
	return d.NR == o.NR && d.NC == o.NC && d.OE == o.OE && d.ON == o.ON && d.CW == o.CW && d.CH == o.CH && d.Rot == o.Rot
}

// ReadGDEF imports a grid definition file: six lines holding OE, ON, ROT, NR,
// NC and the cell size. Only uniform grids (cell size prefixed with 'U') are
// supported.
func ReadGDEF(fp string) (*Definition, error) {
	a, err := readTextLines(fp)
	if err != nil {
		return nil, fmt.Errorf("ReadGDEF: %v", err)
	}
	if len(a) < 6 {
		return nil, fmt.Errorf("ReadGDEF: %s holds %d lines, expecting at least 6", fp, len(a))
	}

	stErr := make([]string, 0)
	errfunc := func(v string, err error) {
		stErr = append(stErr, fmt.Sprintf("failed to read '%v': %v", v, err))
	}

	oe, err := strconv.ParseFloat(a[0], 64)
	if err != nil {
		errfunc("OE", err)
	}
	on, err := strconv.ParseFloat(a[1], 64)
	if err != nil {
		errfunc("ON", err)
	}
	rot, err := strconv.ParseFloat(a[2], 64)
	if err != nil {
		errfunc("ROT", err)
	}
	nr, err := strconv.ParseInt(a[3], 10, 32)
	if err != nil {
		errfunc("NR", err)
	}
	nc, err := strconv.ParseInt(a[4], 10, 32)
	if err != nil {
		errfunc("NC", err)
	}
	var cs float64
	if len(a[5]) > 0 && a[5][0] == 'U' {
		if cs, err = strconv.ParseFloat(a[5][1:], 64); err != nil {
			errfunc("CS", err)
		}
	} else {
		return nil, fmt.Errorf("ReadGDEF: non-uniform grids currently not supported")
	}

	if len(stErr) > 0 {
		return nil, fmt.Errorf("ReadGDEF: %s", strings.Join(stErr, "; "))
	}
	if nr <= 0 || nc <= 0 || cs <= 0. {
		return nil, fmt.Errorf("ReadGDEF: invalid dimensions %dx%d, cell size %v", nr, nc, cs)
	}

	return &Definition{
		OE:     oe,
		ON:     on,
		Rot:    rot,
		NR:     int(nr),
		NC:     int(nc),
		CW:     cs,
		CH:     cs,
		NoData: DefaultNoData,
	}, nil
}

func readTextLines(fp string) ([]string, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var a []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if l := strings.TrimSpace(sc.Text()); len(l) > 0 {
			a = append(a, l)
		}
	}
	return a, sc.Err()
}
