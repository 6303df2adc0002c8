// Package pipeline is the compilation orchestrator: it turns a batch of
// named stylesheet sources into per-file artifacts, per-file diagnostics
// and a cross-file import index.
//
// A batch compilation runs four strictly sequential phases over a fresh
// engine instance:
//
//  1. Guard: an output kind other than "bincode" produces an empty result
//     with no engine calls. This is deliberate policy, not a missed case:
//     unknown kinds mean "produce nothing", never an error.
//  2. Prefix: a non-empty tag-name prefix is bound for every source name.
//     An empty prefix skips the phase entirely, which is observably
//     identical to never binding.
//  3. Registration: every source is lossily decoded as UTF-8 and
//     registered; its diagnostics are recorded in engine order. All
//     sources register before anything serializes, because artifacts and
//     the import index depend on full-batch knowledge.
//  4. Serialization: each registered source that compiled to something
//     gets its artifact; the import index is built and serialized once.
//
// Every source name yields exactly one entry in the result, whether or
// not it produced an artifact. Iteration over sources is map-ordered and
// deliberately unspecified: no output depends on it, and callers must not
// either.
//
// The engine instance lives for exactly one call and is never shared, so
// the pipeline needs no locking. The only failure the pipeline itself
// produces is an engine fault (a panic), surfaced as a single wrapped
// error with no partial result.
package pipeline
