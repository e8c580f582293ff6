// Package pipeline orchestrates a full analysis run: writeup loading,
// commit fetching with caching, cross-submission reference building and
// engine execution for every submitted repository.
package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hackwatch/hackwatch/core"
	"github.com/hackwatch/hackwatch/internal/contract"
	"github.com/hackwatch/hackwatch/schema"
)

// WriteupLoader resolves a submission source into platform writeups.
type WriteupLoader interface {
	LoadSubmissions(ctx context.Context, source string) ([]schema.Writeup, error)
}

// Run executes the analysis pipeline for all submissions and returns one
// report per repository, in input order. Persistence failures degrade to
// warnings; only an empty submission list is a hard error.
func Run(ctx context.Context, specs []contract.RepoSpec, cfg *contract.Config, client contract.HostClient, loader WriteupLoader, mgr contract.StoreManager) ([]*schema.AnalysisReport, error) {
	if len(specs) == 0 {
		return nil, errors.New("no submissions found")
	}

	// --- 0. Begin Run Tracking (if configured) ---
	var runID int64
	var reportStore contract.ReportStore
	if mgr != nil {
		reportStore = mgr.GetReportStore()
	}
	if reportStore != nil {
		configParams := map[string]any{
			"window_start": cfg.Engine.Window.Start.Format(time.RFC3339),
			"window_end":   cfg.Engine.Window.End.Format(time.RFC3339),
			"workers":      cfg.Workers,
			"output":       string(cfg.Output),
			"input":        cfg.InputPath,
		}
		var err error
		runID, err = reportStore.BeginRun(time.Now(), configParams)
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		}
	}

	// --- 1. Writeup Enrichment Phase (optional) ---
	var writeups []schema.Writeup
	if cfg.DevpostSource != "" && loader != nil {
		loaded, err := loader.LoadSubmissions(ctx, cfg.DevpostSource)
		if err != nil {
			contract.LogWarn("Writeup loading failed", err)
		} else {
			writeups = loaded
		}
	}

	// --- 2. Fetch Phase (with caching) ---
	var fetchStore contract.FetchStore
	if mgr != nil {
		fetchStore = mgr.GetFetchStore()
	}
	fetches := fetchAllCommits(ctx, specs, cfg, client, fetchStore)

	// --- 3. Cross-Submission References ---
	refs := buildReferenceSets(specs, fetches)

	// --- 4. Analysis Phase ---
	reports := analyzeAll(specs, fetches, refs, writeups, cfg)

	// --- 5. Persist Flags and End Run Tracking ---
	if reportStore != nil && runID > 0 {
		for _, r := range reports {
			for _, f := range r.Flags {
				if err := reportStore.RecordFlag(runID, r.Team, r.RepoURL, f); err != nil {
					contract.LogWarn("Failed to record flag", err)
				}
			}
		}
		if err := reportStore.EndRun(runID, time.Now(), len(reports)); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}

	return reports, nil
}

// analyzeAll runs the engine for every submission using a worker pool.
// Results land in fixed slots so the output order matches the input order.
func analyzeAll(specs []contract.RepoSpec, fetches []fetchResult, refs []*schema.ReferenceSet, writeups []schema.Writeup, cfg *contract.Config) []*schema.AnalysisReport {
	type job struct {
		idx int
	}

	jobCh := make(chan job, len(specs))
	reports := make([]*schema.AnalysisReport, len(specs))
	var wg sync.WaitGroup

	// Start worker pool
	for range cfg.Workers {
		wg.Go(func() {
			for j := range jobCh {
				reports[j.idx] = analyzeOne(specs[j.idx], fetches[j.idx], refs[j.idx], writeups, cfg)
			}
		})
	}

	// Send submissions to worker channel
	for i := range specs {
		jobCh <- job{idx: i}
	}
	close(jobCh)

	// Wait for all workers to finish processing
	wg.Wait()

	return reports
}

// analyzeOne builds the engine input for one submission and runs it.
// Fetch failures produce a skipped report, never a pipeline failure.
func analyzeOne(spec contract.RepoSpec, fetch fetchResult, refs *schema.ReferenceSet, writeups []schema.Writeup, cfg *contract.Config) *schema.AnalysisReport {
	if fetch.err != nil {
		contract.LogWarn("Commit fetch failed", fetch.err)
		report := core.SkippedReport(spec.Team, spec.RepoURL, fetch.err.Error())
		report.Warnings = append(report.Warnings, fetch.warnings...)
		return report
	}

	writeup := spec.Writeup()
	if matched := matchWriteup(spec, writeups); matched != nil {
		writeup = matched
	}

	roster := schema.Roster(spec.Roster)
	if len(roster) == 0 && writeup != nil {
		roster = writeup.TeamMembers
	}

	input := &schema.SubmissionInput{
		Team:       spec.Team,
		RepoURL:    spec.RepoURL,
		Commits:    fetch.commits,
		Roster:     roster,
		Writeup:    writeup,
		References: refs,
	}

	report, err := core.AnalyzeSubmission(input, cfg.Engine)
	if err != nil {
		contract.LogWarn("Analysis failed", err)
		return core.SkippedReport(spec.Team, spec.RepoURL, err.Error())
	}
	report.Warnings = append(fetch.warnings, report.Warnings...)
	return report
}

// buildReferenceSets gives each submission the commit ids of every other
// submission, labeled with the origin repository. A submission never
// references its own commits.
func buildReferenceSets(specs []contract.RepoSpec, fetches []fetchResult) []*schema.ReferenceSet {
	refs := make([]*schema.ReferenceSet, len(specs))
	for i := range specs {
		commitIDs := make(map[string]string)
		for j := range specs {
			if j == i || fetches[j].err != nil {
				continue
			}
			for _, c := range fetches[j].commits {
				commitIDs[c.ID] = specs[j].RepoURL
			}
		}
		if len(commitIDs) > 0 {
			refs[i] = &schema.ReferenceSet{CommitIDs: commitIDs}
		}
	}
	return refs
}
