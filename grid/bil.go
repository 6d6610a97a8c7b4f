package grid

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Raster is a single-band north-up grid of values stored row-major from the
// upper-left cell.
type Raster struct {
	Def Definition
	V   []float64
}

func (r *Raster) IsNoData(v float64) bool {
	return math.IsNaN(v) || v == r.Def.NoData
}

// HDRpath returns the header path accompanying a .bil file.
func HDRpath(fp string) string {
	return strings.TrimSuffix(fp, ".bil") + ".hdr"
}

// WriteFloats saves f as a float32 little-endian binary array.
func WriteFloats(fp string, f []float64) error {
	f32 := func() []float32 {
		o := make([]float32, len(f))
		for i, v := range f {
			o[i] = float32(v)
		}
		return o
	}()
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, f32); err != nil {
		return fmt.Errorf("WriteFloats failed: %v", err)
	}
	if err := os.WriteFile(fp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("WriteFloats failed: %v", err)
	}
	return nil
}

// WriteBil saves r as a 32-bit float ESRI .bil with its .hdr header.
func WriteBil(fp string, r *Raster) error {
	if len(r.V) != r.Def.Ncells() {
		return fmt.Errorf("WriteBil: %d values for a %dx%d grid", len(r.V), r.Def.NR, r.Def.NC)
	}
	if err := WriteFloats(fp, r.V); err != nil {
		return err
	}
	return r.Def.WriteHDR(HDRpath(fp))
}

// WriteHDR writes an ESRI BIL header for a single band of 32-bit floats.
func (d Definition) WriteHDR(fp string) error {
	if d.Rot != 0. {
		return fmt.Errorf("WriteHDR: rotated grids (%v°) cannot be written as BIL", d.Rot)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "BYTEORDER      I\n")
	fmt.Fprintf(&sb, "LAYOUT         BIL\n")
	fmt.Fprintf(&sb, "NROWS          %d\n", d.NR)
	fmt.Fprintf(&sb, "NCOLS          %d\n", d.NC)
	fmt.Fprintf(&sb, "NBANDS         1\n")
	fmt.Fprintf(&sb, "NBITS          32\n")
	fmt.Fprintf(&sb, "PIXELTYPE      FLOAT\n")
	ulx, uly := d.Centroid(0, 0)
	fmt.Fprintf(&sb, "ULXMAP         %v\n", ulx)
	fmt.Fprintf(&sb, "ULYMAP         %v\n", uly)
	fmt.Fprintf(&sb, "XDIM           %v\n", d.CW)
	fmt.Fprintf(&sb, "YDIM           %v\n", d.CH)
	fmt.Fprintf(&sb, "NODATA         %v\n", d.NoData)
	if err := os.WriteFile(fp, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("WriteHDR failed: %v", err)
	}
	return nil
}

// ReadHDR reads an ESRI BIL header. Only single-band, little-endian 32-bit
// float layouts are accepted.
func ReadHDR(fp string) (*Definition, error) {
	a, err := readTextLines(fp)
	if err != nil {
		return nil, fmt.Errorf("ReadHDR: %v", err)
	}
	kv := make(map[string]string, len(a))
	for _, l := range a {
		f := strings.Fields(l)
		if len(f) >= 2 {
			kv[strings.ToUpper(f[0])] = f[1]
		}
	}

	var stErr []string
	getf := func(k string, dflt float64, req bool) float64 {
		s, ok := kv[k]
		if !ok {
			if req {
				stErr = append(stErr, "missing "+k)
			}
			return dflt
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			stErr = append(stErr, fmt.Sprintf("%s: %v", k, err))
		}
		return v
	}

	if b, ok := kv["BYTEORDER"]; ok && strings.ToUpper(b) != "I" {
		return nil, fmt.Errorf("ReadHDR: byte order %s not supported", b)
	}
	if n := getf("NBANDS", 1., false); n != 1. {
		return nil, fmt.Errorf("ReadHDR: %v bands, only single-band rasters supported", n)
	}
	if pt := kv["PIXELTYPE"]; strings.ToUpper(pt) != "FLOAT" {
		return nil, fmt.Errorf("ReadHDR: pixel type %q not supported, only FLOAT", pt)
	}
	if n := getf("NBITS", 32., false); n != 32. {
		return nil, fmt.Errorf("ReadHDR: %v-bit cells, only 32-bit floats supported", n)
	}

	d := Definition{
		NR:     int(getf("NROWS", 0., true)),
		NC:     int(getf("NCOLS", 0., true)),
		CW:     getf("XDIM", 0., true),
		CH:     getf("YDIM", 0., true),
		NoData: getf("NODATA", DefaultNoData, false),
	}
	ulx, uly := getf("ULXMAP", 0., true), getf("ULYMAP", 0., true)
	if len(stErr) > 0 {
		return nil, fmt.Errorf("ReadHDR: %s", strings.Join(stErr, "; "))
	}
	if d.NR <= 0 || d.NC <= 0 || d.CW <= 0. || d.CH <= 0. {
		return nil, fmt.Errorf("ReadHDR: invalid dimensions %dx%d (%v, %v)", d.NR, d.NC, d.CW, d.CH)
	}
	d.OE, d.ON = ulx-d.CW/2., uly+d.CH/2.
	return &d, nil
}

// ReadBil loads a 32-bit float .bil and its header.
func ReadBil(fp string) (*Raster, error) {
	d, err := ReadHDR(HDRpath(fp))
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(fp)
	if err != nil {
		return nil, fmt.Errorf("ReadBil: %v", err)
	}
	n := d.Ncells()
	if len(b) != 4*n {
		return nil, fmt.Errorf("ReadBil: %s holds %d bytes, expecting %d", fp, len(b), 4*n)
	}
	f32 := make([]float32, n)
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, f32); err != nil {
		return nil, fmt.Errorf("ReadBil: %v", err)
	}
	r := &Raster{Def: *d, V: make([]float64, n)}
	for i, v := range f32 {
		r.V[i] = float64(v)
	}
	return r, nil
}
