package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/corotrap/internal/analysis"
	"github.com/san-kum/corotrap/internal/config"
)

type ExportData struct {
	Name      string            `json:"name"`
	Config    *config.Config    `json:"config"`
	Steps     int               `json:"steps"`
	Summary   *analysis.Summary `json:"summary,omitempty"`
	Class     string            `json:"class,omitempty"`
	Times     []float64         `json:"times"`
	Lambda    []float64         `json:"lambda,omitempty"`
	Ej        []float64         `json:"ej"`
	PhiEff    []float64         `json:"phi_eff"`
	Lz        []float64         `json:"lz"`
	ETot      []float64         `json:"e_tot"`
	ERan      []float64         `json:"e_ran"`
	Rg        []float64         `json:"rg"`
	R         []float64         `json:"r"`
	Hcr       float64           `json:"hcr"`
	ACR       float64           `json:"a_cr"`
}

func newExportData(cfg *config.Config, series *analysis.Series, summary *analysis.Summary) ExportData {
	data := ExportData{
		Name:    DumpName(cfg),
		Config:  cfg,
		Steps:   series.Len(),
		Summary: summary,
		Times:   series.T,
		Ej:      series.Ej,
		PhiEff:  series.PhiEff,
		Lz:      series.Lz,
		ETot:    series.ETot,
		ERan:    series.ERan,
		Rg:      series.Rg,
		R:       series.R,
		Hcr:     series.Hcr,
		ACR:     series.ACR,
	}
	// encoding/json rejects NaN, which marks Lambda without a spiral.
	if summary != nil {
		data.Class = summary.Class.String()
		data.Lambda = series.Lambda
	}
	return data
}

// ExportJSON writes the diagnostics series as indented JSON. summary is nil
// when Lambda is undefined.
func ExportJSON(w io.Writer, cfg *config.Config, series *analysis.Series, summary *analysis.Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(cfg, series, summary))
}

func ExportJSONFile(path string, cfg *config.Config, series *analysis.Series, summary *analysis.Summary) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, cfg, series, summary)
}
