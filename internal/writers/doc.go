// Package writers turns reconciled annotation records into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (TSV layout, gzip framing).
//   - Core packages stay domain-only; the togadir runner stays orchestration-only.
package writers
