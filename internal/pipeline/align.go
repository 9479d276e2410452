package pipeline

import (
	"context"
	"fmt"
	"strings"

	"subtitle2go/internal/logging"
	"subtitle2go/internal/punctuation"
	"subtitle2go/internal/segmentation"
	"subtitle2go/internal/services"
	"subtitle2go/internal/services/decoder"
	"subtitle2go/internal/subtitles"
	"subtitle2go/internal/timeline"
)

// alignTranscript segments and aligns every unit of the transcript. Independent
// chunks are handled one at a time with a fresh cursor; otherwise all chunks
// form a single timeline.
func (r *Runner) alignTranscript(ctx context.Context, run *jobRun, tr decoder.Transcript) ([]subtitles.Cue, error) {
	logger := logging.WithContext(ctx, r.logger)
	aligner := subtitles.NewAligner(logger, subtitles.WithNotifier(run.reporter.Publish))

	units := [][]timeline.Chunk{tr.Chunks}
	if tr.Independent {
		units = make([][]timeline.Chunk, len(tr.Chunks))
		for i, chunk := range tr.Chunks {
			units[i] = []timeline.Chunk{chunk}
		}
	}

	var cues []subtitles.Cue
	for i, unit := range units {
		tl, err := timeline.Build(unit, tr.Units)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "align", "build timeline", "", err)
		}
		if tl.Len() == 0 {
			continue
		}

		if tr.Strategy == subtitles.StrategyWholeWord && r.restorer != nil {
			run.reporter.Publish("Starting interpunctuation.")
			tl, err = punctuation.Punctuate(ctx, r.restorer, tl, r.models.Uppercase)
			if err != nil {
				return nil, services.Wrap(services.ErrValidation, "align", "punctuate", "", err)
			}
		}

		text := unitText(tl, unit, tr.Strategy)
		lines, err := r.oracle.Segment(ctx, text, r.cfg.Segmentation.Weights)
		if err != nil {
			if !tr.Independent {
				return nil, err
			}
			run.warnings++
			run.reporter.Publish(fmt.Sprintf("Segmentation failed for paragraph %d; skipping it.", i+1))
			logging.WarnWithContext(logger, "paragraph segmentation failed", "segmentation_failed",
				logging.Int("paragraph", i+1),
				logging.Error(err),
			)
			continue
		}

		if coverage := segmentation.VerifyCoverage(text, lines); !coverage.OK {
			run.warnings++
			logging.WarnWithContext(logger, "segmented lines do not reproduce the transcript", "coverage_mismatch",
				logging.Int("unit", i+1),
				logging.String("coverage", coverage.String()),
			)
		}

		alignment, err := aligner.Align(subtitles.ReattachFragments(lines), tl, tr.Strategy)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "align", "align lines", "", err)
		}
		run.warnings += alignment.Warnings
		cues = append(cues, alignment.Cues...)
	}
	return orderCues(cues), nil
}

// unitText is the string handed to the segmenter. Sub-word units prefer the
// engine's own rendering and otherwise rebuild words from boundary markers.
func unitText(tl *timeline.Timeline, unit []timeline.Chunk, strategy subtitles.Strategy) string {
	if strategy != subtitles.StrategySubWord {
		return tl.Text()
	}
	var parts []string
	for _, chunk := range unit {
		if text := strings.TrimSpace(chunk.Text); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	joined := strings.Join(tl.Words(), "")
	return strings.Join(strings.Fields(strings.ReplaceAll(joined, subtitles.DefaultBoundaryMarker, " ")), " ")
}

// orderCues keeps starts non-decreasing across unit boundaries.
func orderCues(cues []subtitles.Cue) []subtitles.Cue {
	for i := 1; i < len(cues); i++ {
		if cues[i].Start < cues[i-1].Start {
			cues[i].Start = cues[i-1].Start
		}
		if cues[i].End < cues[i].Start {
			cues[i].End = cues[i].Start
		}
	}
	return cues
}
