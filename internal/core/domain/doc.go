// Package domain contains the core business types for the clause
// decision pipeline: documents and chunks on the ingest side, parsed
// query fields, clauses, and decisions on the query side.
//
// Types here have no dependencies on adapters or infrastructure.
package domain
