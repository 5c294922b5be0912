package recording

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Column name fragments of the bio amplifier export.
const (
	ColumnBVP  = "BVP"
	ColumnEDA  = "EDA"
	ColumnResp = "RESP"
)

// Force sensor export columns, thumb then index, x y z.
var ForceColumns = [6]string{
	"Thumb_M1_IPS1610_Fx", "Thumb_M1_IPS1610_Fy", "Thumb_M1_IPS1610_Fz",
	"Index_M1_IPS1610_Fx", "Index_M1_IPS1610_Fy", "Index_M1_IPS1610_Fz",
}

// LoadBioCSV reads a bio amplifier CSV export. The cardiac, EDA and
// respiration columns are the first headers containing "BVP", "EDA" and
// "RESP"; a channel whose column is absent is left empty. Every channel
// gets the given rate.
func LoadBioCSV(r io.Reader, rate float64) (Recording, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return Recording{}, fmt.Errorf("reading bio header: %w", err)
	}

	cols := [3]int{-1, -1, -1}
	for i, name := range header {
		for j, frag := range []string{ColumnBVP, ColumnEDA, ColumnResp} {
			if cols[j] < 0 && strings.Contains(name, frag) {
				cols[j] = i
			}
		}
	}

	var data [3][]float64
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Recording{}, fmt.Errorf("reading bio row %d: %w", line, err)
		}
		for j, c := range cols {
			if c < 0 {
				continue
			}
			if c >= len(row) {
				return Recording{}, fmt.Errorf("bio row %d: missing column %q", line, header[c])
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[c]), 64)
			if err != nil {
				return Recording{}, fmt.Errorf("bio row %d column %q: %w", line, header[c], err)
			}
			data[j] = append(data[j], v)
		}
	}

	return Recording{
		Cardiac:     Channel{Samples: data[0], Rate: rate},
		EDA:         Channel{Samples: data[1], Rate: rate},
		Respiration: Channel{Samples: data[2], Rate: rate},
	}, nil
}

// LoadForceCSV reads a force sensor CSV export. Cells that are empty,
// unparsable or missing from a short row count as 0. A column absent from
// the header leaves its component nil, which the force extractor reports
// as missing input.
func LoadForceCSV(r io.Reader) (*Force, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading force header: %w", err)
	}

	var cols [6]int
	for k, want := range ForceColumns {
		cols[k] = -1
		for i, name := range header {
			if strings.TrimSpace(name) == want {
				cols[k] = i
				break
			}
		}
	}

	var data [6][]float64
	for k, c := range cols {
		if c >= 0 {
			data[k] = []float64{}
		}
	}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading force row %d: %w", line, err)
		}
		for k, c := range cols {
			if c < 0 {
				continue
			}
			v := 0.0
			if c < len(row) {
				if p, err := strconv.ParseFloat(strings.TrimSpace(row[c]), 64); err == nil && !math.IsNaN(p) {
					v = p
				}
			}
			data[k] = append(data[k], v)
		}
	}

	return &Force{
		Thumb: Axis3{X: data[0], Y: data[1], Z: data[2]},
		Index: Axis3{X: data[3], Y: data[4], Z: data[5]},
	}, nil
}
