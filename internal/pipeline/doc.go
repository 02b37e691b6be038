// SPDX-License-Identifier: MIT

// Package pipeline drives one livesort run: preflight, fetch, parse, validate,
// flatten, categorize and emit. Outputs are written only after every upstream
// stage has completed.
package pipeline
