// Package core provides the business logic for validating personal-record
// batches.
//
// This package contains all domain logic independent of any UI or transport
// layer. It is used by the CLI, the HTTP server and tests without
// modification.
//
// # Architecture
//
//   - Rules: one predicate per record field (rules.go).
//   - Validator: evaluates the rules in a fixed order and reports the first
//     failing field as the record's [Category].
//   - Processor: classifies a batch, fills a [Tally] and bucket-sorts the
//     valid records by weight or age.
//   - Input/Output: JSON batch decoding and the blocks, JSON and YAML writers.
//   - Limiter and History: admission control and recent run summaries for
//     the HTTP server.
//
// # Classification
//
// Rules run in this order and classification stops at the first failure:
//
//	telephone, weight, inn, passport_series, university,
//	age, political_views, worldview, address
//
// Every record therefore lands in exactly one category, and
// Tally.Valid plus the nine failure counts always equals Tally.Total.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE005: Input errors (size, missing file, JSON, keys)
//   - VAL001: Wrong JSON type for a text field
//   - RUN001-RUN006: Run errors (busy, cancelled, timeout, lookup, flags)
//
// Field rule failures are never errors: they are reported as categories.
package core
