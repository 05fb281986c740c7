// Package preflight provides readiness checks for the filesystem paths and
// external services that airdate depends on.
//
// These checks run in two contexts:
//   - The daemon runs RunAll at startup so a misconfigured environment fails
//     fast instead of surfacing as mid-pass publication errors.
//   - The CLI "airdate status" command uses individual check functions
//     (CheckNtfy, CheckDirectoryAccess) to display environment health.
//
// Each check is gated by its config toggle -- disabled features are skipped.
package preflight
