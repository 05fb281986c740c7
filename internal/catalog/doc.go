// Package catalog persists the content catalog (series, seasons, episodes,
// and their localized assets) in SQLite and exposes the transactional
// operations the publishing workflow requires.
//
// The Store manages database connections, schema migrations, stats queries,
// and editorial status transitions. Publication runs inside Store.WithTx:
// the Tx handle carries the conditional re-fetch, episode update, and
// series promotion queries so a single atomic unit covers all three.
//
// Treat this package as the single source of truth for catalog semantics;
// when adding statuses or columns, add a migration under migrations/ and
// extend the scanners here.
package catalog
