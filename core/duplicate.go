package core

import (
	"fmt"
	"sort"

	"github.com/hackwatch/hackwatch/schema"
)

// extractDuplicateOrigin compares the submission against reference sets from
// other repositories. Shared commit IDs indicate a copied or forked history;
// shared file fingerprints indicate copied content with a rewritten history.
func extractDuplicateOrigin(in *analysisContext) extraction {
	var out extraction
	if in.refs.Empty() {
		out.warnings = append(out.warnings, "skipped duplicate-origin check: no reference repositories provided")
		return out
	}

	if sig, ok := duplicateCommitSignal(in); ok {
		out.signals = append(out.signals, sig)
	}
	if sig, ok := duplicateContentSignal(in); ok {
		out.signals = append(out.signals, sig)
	}
	return out
}

func duplicateCommitSignal(in *analysisContext) (schema.Signal, bool) {
	if len(in.timeline) == 0 || len(in.refs.CommitIDs) == 0 {
		return schema.Signal{}, false
	}

	var evidence []schema.Evidence
	for _, c := range in.timeline {
		if origin, ok := in.refs.CommitIDs[c.ID]; ok {
			evidence = append(evidence, schema.Evidence{
				CommitID: c.ID,
				Detail:   fmt.Sprintf("also present in %s", origin),
			})
		}
	}
	if len(evidence) == 0 {
		return schema.Signal{}, false
	}

	fraction := float64(len(evidence)) / float64(len(in.timeline))
	if fraction < in.cfg.DuplicateCutoff {
		return schema.Signal{}, false
	}
	return schema.Signal{
		Kind:     schema.KindDuplicateCommit,
		Category: schema.CategoryDuplicate,
		Strength: clamp01(fraction / in.cfg.DuplicateSaturation),
		Evidence: evidence,
		Note: fmt.Sprintf("%d of %d commits (%.0f%%) share commit IDs with other submissions, which indicates a copied or forked history",
			len(evidence), len(in.timeline), fraction*100),
	}, true
}

func duplicateContentSignal(in *analysisContext) (schema.Signal, bool) {
	if len(in.hashes) == 0 || len(in.refs.FileHashes) == 0 {
		return schema.Signal{}, false
	}

	var evidence []schema.Evidence
	for path, hash := range in.hashes {
		if origin, ok := in.refs.FileHashes[hash]; ok {
			evidence = append(evidence, schema.Evidence{
				Path:   path,
				Detail: fmt.Sprintf("identical content in %s", origin),
			})
		}
	}
	if len(evidence) == 0 {
		return schema.Signal{}, false
	}
	sort.Slice(evidence, func(i, j int) bool { return evidence[i].Path < evidence[j].Path })

	fraction := float64(len(evidence)) / float64(len(in.hashes))
	if fraction < in.cfg.DuplicateCutoff {
		return schema.Signal{}, false
	}
	return schema.Signal{
		Kind:     schema.KindDuplicateContent,
		Category: schema.CategoryDuplicate,
		Strength: clamp01(fraction / in.cfg.DuplicateSaturation),
		Evidence: evidence,
		Note: fmt.Sprintf("%d of %d tracked files (%.0f%%) are byte-identical to files in other submissions despite distinct commit histories",
			len(evidence), len(in.hashes), fraction*100),
	}, true
}
