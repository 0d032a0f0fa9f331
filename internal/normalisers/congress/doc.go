// Package congress canonicalizes congress.gov API responses.
//
// The Normaliser turns the raw response trees of the bill, member and
// committee endpoints into canonical records:
//   - Bills, with an inferred lifecycle stage and a rebuilt timeline
//   - Members, with party codes and the chamber of their latest term
//   - Committees, with their subcommittees
//
// Normalisation is total and deterministic. Fields that cannot be read are
// replaced by defaults and reported as diagnostics; nothing here returns an
// error, reads the clock or generates identifiers.
package congress
