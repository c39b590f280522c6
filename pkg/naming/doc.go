// Package naming derives every Kubernetes and TSB object name of an
// application instance from its Identity.
//
// All functions are pure. The scheme keeps the short tokens operators are
// used to reading (t<tenant>, w<seq>, bkif/htbn, b/d) but separates the
// variable-width parts with '-' so that no two identities share a name:
//
//	t3-w0-c1-htbnnb0f        namespace   (tenant 3, seq 0, cluster c1, httpbin, bridged, front)
//	htbnt3-ws0-c1-b          workspace
//	htbnt3-w0-c1-bgg0        gateway group
//
// The leading numbers are terminated by '-' and the trailing app/mode/role
// segment has a fixed width, so the cluster segment in between is always
// recovered exactly even when it contains hyphens.
//
// Identity.Validate enforces the DNS-1123 rules (63-character labels,
// lowercase alphanumerics and '-') before anything is rendered.
package naming
