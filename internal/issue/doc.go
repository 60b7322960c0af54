// SPDX-License-Identifier: MPL-2.0

// Package issue provides errors that carry the failed operation, the
// resource involved and suggestions for fixing the problem. The CLI prints
// the one-line Error form by default and the Format form with --verbose.
package issue
