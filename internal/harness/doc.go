// Package harness provides a conformance testing framework for the
// compilation pipeline.
//
// Scenarios are YAML files describing one batch request: the output kind,
// an optional tag-name prefix, inline CSS sources, and expectations about
// the per-file results. The harness runs each scenario through the real
// pipeline, evaluates the expectations, and can snapshot the outcome for
// golden-file comparison.
//
// Snapshots contain only decode-level facts (artifact presence, import
// lists, diagnostics), so a golden file can be reviewed and written by
// hand. Raw artifact bytes are pinned separately by the bincode and
// pipeline tests.
package harness
