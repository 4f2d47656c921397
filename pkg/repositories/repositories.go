// Package repositories is the store boundary. Every query shape here is
// implicitly restricted to live rows: a soft-deleted row must behave exactly
// like a missing one for lookups, existence checks, and searches. The
// restriction is carried by the shared notDeleted fragment so no call site
// re-spells (and risks dropping) the predicate.
package repositories

const notDeleted = "deleted = FALSE"
