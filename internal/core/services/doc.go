// Package services implements the use cases of the clause decision
// pipeline: ingesting documents into the semantic index, extracting
// structured fields from claim queries, retrieving relevant clauses,
// and evaluating decisions.
//
// Services depend only on domain types and ports; adapters are
// injected at startup.
package services
