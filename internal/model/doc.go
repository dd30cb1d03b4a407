// Package model provides the domain value types for the xshacl violation
// explanation cache.
//
// This package contains type definitions and their (de)serialization only.
// All other internal packages import model; model imports nothing internal.
// This keeps the domain layer foundational with no circular dependencies.
//
// Key design constraints:
//   - NO float types anywhere - use Int (int64) for numbers
//   - NO null values inside Value mappings
//   - All JSON tags use snake_case
//   - Canonical serialization (MarshalCanonical) is the ONLY encoding used
//     for content-addressed identity computation
package model
