package cli

import (
	"github.com/spf13/cobra"

	"github.com/piwi3910/cutlist/internal/config"
	"github.com/piwi3910/cutlist/internal/model"
	"github.com/piwi3910/cutlist/internal/project"
)

// optimizerFlags holds the per-run overrides shared by generate and compare.
type optimizerFlags struct {
	file    string
	kerf    float64
	overage float64
}

func (f *optimizerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Project file (.json, .yaml, .yml, .toml)")
	cmd.Flags().Float64Var(&f.kerf, "kerf", 0, "Saw kerf in inches (overrides project and config)")
	cmd.Flags().Float64Var(&f.overage, "overage", 0, "Extra board fraction to buy, e.g. 0.15 (overrides project and config)")
	_ = cmd.MarkFlagRequired("file")
}

// resolve loads the project and picks kerf and overage: flag, then project,
// then config.
func (f *optimizerFlags) resolve(cmd *cobra.Command, cfg config.Config) (model.Project, float64, float64, error) {
	p, err := project.Load(f.file)
	if err != nil {
		return model.Project{}, 0, 0, err
	}

	kerf := cfg.KerfWidth
	if p.KerfWidth != nil {
		kerf = *p.KerfWidth
	}
	if cmd.Flags().Changed("kerf") {
		kerf = f.kerf
	}

	overage := cfg.OverageFactor
	if p.OverageFactor != nil {
		overage = *p.OverageFactor
	}
	if cmd.Flags().Changed("overage") {
		overage = f.overage
	}
	return p, kerf, overage, nil
}
