// Package render executes the text templates that produce TSB and
// Kubernetes manifests.
//
// Templates are embedded in the binary and addressed by slash separated
// identifiers (see the constants in templates.go). An on-disk directory can
// be layered over the embedded set with WithOverrideDir. Templates run with
// missingkey=error, so a parameter the template references but the caller
// did not supply fails the render instead of producing "<no value>".
package render
