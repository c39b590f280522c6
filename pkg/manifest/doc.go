// Package manifest builds the plain Kubernetes objects of a fixture
// (namespaces, RBAC, secrets and the traffic generator job) as typed
// k8s.io/api values and serializes them to YAML.
//
// Objects whose schema lives outside k8s.io/api (TSB and Istio resources)
// are produced by package render instead.
package manifest
