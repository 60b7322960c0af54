// SPDX-License-Identifier: MPL-2.0

// Package resolve merges a script definition with the global configuration.
//
// For every overridable field the script value wins when set, the global
// value applies otherwise, and a documented default applies last. env and the
// object form of watch are merged key by key instead of replaced. Resolution
// never modifies the declaration: every ResolvedScript owns its maps and
// slices.
package resolve
