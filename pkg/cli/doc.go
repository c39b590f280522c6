// Package cli implements the command-line interface of tsbutil, the TSB test
// fixture generator.
//
// # Overview
//
// Every generator reads a YAML configuration, derives the tenant, workspace,
// group and namespace names of each application instance, and writes a
// folder that kubectl and tctl can apply as-is.
//
// # Commands
//
// bookinfo, httpbin - Generate instances on a single cluster:
//
//	tsbutil bookinfo --config bookinfo.yaml --folder out
//
// bookinfo-fleet, httpbin-fleet - Generate instances across a fleet:
//
//	tsbutil bookinfo-fleet --config fleet.yaml --password secret
//
// Generators print progress and a one-line summary to stdout. --output and
// --format additionally write the summary as yaml, json or table.
//
// diff - Compare two generated folders, ignoring the certificate cache:
//
//	tsbutil diff golden/ out/
//
// verify - Re-hash a generated folder against its checksums.txt:
//
//	tsbutil verify out/
//
// templates - List the embedded template identifiers that --templates can override:
//
//	tsbutil templates
//
// # Global Flags
//
//	--log-level    debug, info, warn, error (default: info)
//	--log-format   json, text (default: json)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Environment Variables
//
// Every flag can be set through a TSBUTIL_ prefixed variable, e.g.
// TSBUTIL_CONFIG, TSBUTIL_FOLDER, TSBUTIL_OPENSSL. LOG_LEVEL overrides the
// log level regardless of flags.
//
// # Exit Codes
//
//	0  Success
//	1  Any error, including differing trees and checksum mismatches
//
// # Version Information
//
// Version, commit and date are set at build time:
//
//	go build -ldflags="-X 'github.com/tetratelabs/istio/pkg/cli.version=1.0.0'"
package cli
