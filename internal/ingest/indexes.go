package ingest

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/yardsworth/dealfinder/internal/model"
)

// LoadApprIndex reads the zip-level appreciation file. A missing file is
// not an error: subdivision comps then pass through unadjusted.
func LoadApprIndex(path string) (model.ApprIndex, error) {
	idx := model.ApprIndex{}
	if err := loadJSON(path, &idx, "appreciation index"); err != nil {
		return nil, err
	}
	return idx, nil
}

// LoadComps reads a previously built comp universe.
func LoadComps(path string) ([]*model.Comp, error) {
	var cc []*model.Comp
	if err := loadJSON(path, &cc, "comp universe"); err != nil {
		return nil, err
	}
	return cc, nil
}

// LoadRentalComps reads a previously built rental comp universe.
func LoadRentalComps(path string) ([]*model.RentalComp, error) {
	var rc []*model.RentalComp
	if err := loadJSON(path, &rc, "rental comps"); err != nil {
		return nil, err
	}
	return rc, nil
}

// LoadRentIndex reads the zip-level market rent file.
func LoadRentIndex(path string) (model.RentIndex, error) {
	idx := model.RentIndex{}
	if err := loadJSON(path, &idx, "rent index"); err != nil {
		return nil, err
	}
	return idx, nil
}

// LoadFMRIndex reads the zip-level fair-market-rent file produced by the
// rents command.
func LoadFMRIndex(path string) (model.FMRIndex, error) {
	idx := model.FMRIndex{}
	if err := loadJSON(path, &idx, "FMR index"); err != nil {
		return nil, err
	}
	return idx, nil
}

// LoadSubdivComps reads a previously built subdivision comp file.
func LoadSubdivComps(path string) ([]*model.SubdivComp, error) {
	var out []*model.SubdivComp
	if err := loadJSON(path, &out, "subdivision comps"); err != nil {
		return nil, err
	}
	return out, nil
}

func loadJSON(path string, v any, what string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Warn("optional input missing", zap.String("what", what), zap.String("path", path))
			return nil
		}
		return eris.Wrapf(err, "ingest: read %s %s", what, path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return eris.Wrapf(err, "ingest: parse %s %s", what, path)
	}
	return nil
}

// WriteJSON writes v as compact JSON, replacing any existing file.
func WriteJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return eris.Wrapf(err, "ingest: marshal %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "ingest: write %s", path)
	}
	return nil
}
