// Package rules provides the built-in WiX rules for goxmlint.
//
// # Rule Domains
//
//   - Best practice (BP-IDIOM-xxx): upgrade handling, GUID hygiene,
//     deprecated WiX v3 constructs
//   - Performance (BP-PERF-xxx): component layout affecting repair cost
//   - Maintainability (BP-MAINT-xxx): path portability and naming
//     conventions
//   - Security (SEC-xxx): service accounts and hardcoded secrets
//   - Validation (VAL-ATTR-xxx, VAL-REL-xxx): required attributes, value
//     formats, and parent-child placement
//   - Dead code (DEAD-xxx): unreferenced authoring
//
// # Rule IDs
//
// IDs are stable across releases and use the CATEGORY-NNN convention, with
// a trailing element name where one check is stamped out per element
// (e.g. VAL-REL-001-Component).
//
// # Registration
//
// Rules are registered with lint.DefaultRegistry via init. Hosts that want
// a custom rule set call RegisterAll against their own registry instead.
package rules
