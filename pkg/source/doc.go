// Package source reads sample datasets from files and databases.
//
// # Overview
//
// Every reader produces a [dataset.Dataset]: a flat list of samples, each a
// value and an optional category key. Tabular inputs (CSV, TSV, XLSX and SQL
// result sets) share the same column mapping:
//
//   - The first row (or the result set's column list) is the header.
//   - [Options.ValueColumn] names the numeric column. When empty, the first
//     column whose non-empty cells all parse as numbers is used.
//   - [Options.CategoryColumn] names the grouping column. When empty the
//     dataset is ungrouped and plots as a single violin.
//
// Cells that are empty or do not parse as a number become null samples;
// they are counted by the reader but ignored by the statistics.
//
// # JSON Format
//
// JSON input takes one of three shapes:
//
//	{"value_name": "weight", "category_name": "species",
//	 "samples": [{"category": "a", "value": 1.5}, {"category": "b", "value": null}]}
//
//	[{"species": "a", "weight": 1.5}, {"species": "b", "weight": "2.25"}]
//
//	[1.5, 2.25, null, 4]
//
// The first is the encoding of [dataset.Dataset] itself and is what
// [WriteJSON] produces. The second is a list of records mapped through the
// same column options as tabular input. The third is an ungrouped list of
// values.
//
// # SQL
//
// [SQL] runs a read-only query through sqlx against PostgreSQL (lib/pq) or
// MySQL (go-sql-driver/mysql) and caches the resulting dataset under the
// source key of a [cache.Keyer].
package source
