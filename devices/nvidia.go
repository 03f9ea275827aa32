package devices

import (
	"bytes"
	"encoding/csv"
	"io"
	"os/exec"
	"strconv"

	"github.com/pkg/errors"
)

// NVidia publishes, for each GPU index N, `nvidia.N.temp` in degrees
// Celsius, `nvidia.N.util` and `nvidia.N.mem` in percent.  Readings come
// from the `nvidia-smi` tool, which is called once per update.
type NVidia struct {
	readings
}

var nvidiaQuery = []string{
	"--query-gpu=name,index,temperature.gpu,utilization.gpu,memory.total,memory.used",
	"--format=csv,noheader,nounits",
}

func NewNVidia() (*NVidia, error) {
	if _, err := exec.LookPath("nvidia-smi"); err != nil {
		return nil, errors.Wrap(err, "NVidia GPU error during set-up")
	}
	return &NVidia{readings: newReadings()}, nil
}

// Update calls the nvidia tool and parses its output.  It returns an error if
// it can't call the tool, or if there's a problem parsing the output.
func (nv *NVidia) Update() error {
	bs, err := exec.Command("nvidia-smi", nvidiaQuery...).Output()
	if err != nil {
		return errors.Wrap(err, "calling nvidia-smi")
	}
	vals, err := parseNVidia(bytes.NewReader(bs))
	if err != nil {
		return err
	}
	nv.replace(vals)
	return nil
}

// parseNVidia reads nvidia-smi CSV rows: name, index, temperature.gpu,
// utilization.gpu, memory.total, memory.used.  A malformed row fails the
// whole parse.
func parseNVidia(r io.Reader) (map[string]float64, error) {
	csvReader := csv.NewReader(r)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = 6
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parsing nvidia-smi output")
	}
	rv := make(map[string]float64)
	for i, cols := range records {
		idx, err := strconv.Atoi(cols[1])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: index", i+1)
		}
		nums := make([]float64, 4)
		for c := range nums {
			if nums[c], err = strconv.ParseFloat(cols[c+2], 64); err != nil {
				return nil, errors.Wrapf(err, "line %d: column %d", i+1, c+3)
			}
		}
		prefix := "nvidia." + strconv.Itoa(idx) + "."
		rv[prefix+"temp"] = nums[0]
		rv[prefix+"util"] = nums[1]
		if nums[2] > 0 {
			rv[prefix+"mem"] = nums[3] / nums[2] * 100.0
		} else {
			rv[prefix+"mem"] = 0
		}
	}
	return rv, nil
}
