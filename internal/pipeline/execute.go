package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hackwatch/hackwatch/internal/contract"
	"github.com/hackwatch/hackwatch/internal/devpost"
	"github.com/hackwatch/hackwatch/internal/outwriter"
)

// ExecuteAnalyze loads the submissions file, runs the full pipeline and
// writes the reports in the configured output format.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, client contract.HostClient, mgr contract.StoreManager) error {
	if cfg.InputPath == "" {
		return errors.New("input submissions file is required")
	}
	specs, err := contract.LoadRepoSpecs(cfg.InputPath)
	if err != nil {
		return err
	}

	var loader WriteupLoader
	if cfg.DevpostSource != "" {
		loader = devpost.NewLoader()
	}

	start := time.Now()
	reports, err := Run(ctx, specs, cfg, client, loader, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start).Round(time.Millisecond)

	if err := outwriter.WriteReports(reports, cfg, duration); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Analyzed %d submissions in %v (%s)\n",
		len(reports), duration, outwriter.FormatSeverityCounts(reports))
	return nil
}
