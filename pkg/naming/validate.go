package naming

import (
	"fmt"
	"strings"

	utilvalidation "k8s.io/apimachinery/pkg/util/validation"

	"github.com/tetratelabs/istio/pkg/errors"
)

// MaxLabelLength is the Kubernetes limit for namespace and label-like names.
const MaxLabelLength = utilvalidation.DNS1123LabelMaxLength

// ValidateLabel checks that name is a DNS-1123 label (lowercase alphanumerics
// and '-', at most 63 characters, alphanumeric at both ends).
func ValidateLabel(kind, name string) error {
	if name == "" {
		return errors.NewWithContext(errors.ErrCodeInvalidName,
			fmt.Sprintf("%s name must not be empty", kind),
			map[string]any{"kind": kind})
	}
	if errs := utilvalidation.IsDNS1123Label(name); len(errs) > 0 {
		return errors.NewWithContext(errors.ErrCodeInvalidName,
			fmt.Sprintf("invalid %s name %q: %s", kind, name, strings.Join(errs, ", ")),
			map[string]any{"kind": kind, "name": name, "length": len(name)})
	}
	return nil
}

// ValidateSubdomain checks that name is a DNS-1123 subdomain, the rule for
// Secrets, ServiceAccounts and hostnames.
func ValidateSubdomain(kind, name string) error {
	if errs := utilvalidation.IsDNS1123Subdomain(name); len(errs) > 0 {
		return errors.NewWithContext(errors.ErrCodeInvalidName,
			fmt.Sprintf("invalid %s name %q: %s", kind, name, strings.Join(errs, ", ")),
			map[string]any{"kind": kind, "name": name, "length": len(name)})
	}
	return nil
}

// ValidateServiceName checks that name can name a Service and be used as a
// label value: a DNS-1035 label (starts with a letter, at most 63 characters).
func ValidateServiceName(kind, name string) error {
	errs := utilvalidation.IsDNS1035Label(name)
	errs = append(errs, utilvalidation.IsValidLabelValue(name)...)
	if len(errs) > 0 {
		return errors.NewWithContext(errors.ErrCodeInvalidName,
			fmt.Sprintf("invalid %s name %q: %s", kind, name, strings.Join(errs, ", ")),
			map[string]any{"kind": kind, "name": name, "length": len(name)})
	}
	return nil
}

// Validate derives every name of the identity and fails on the first one the
// cluster API would reject.
func (id Identity) Validate() error {
	if !id.Mode.IsValid() {
		return errors.New(errors.ErrCodeInvalidName, fmt.Sprintf("identity %s has no routing mode", id.Key()))
	}
	if id.TenantID < 0 || id.Seq < 0 {
		return errors.New(errors.ErrCodeInvalidName,
			fmt.Sprintf("tenant (%d) and sequence (%d) must not be negative", id.TenantID, id.Seq))
	}

	labels := []struct{ kind, name string }{
		{"cluster", id.Cluster},
		{"tenant", id.Tenant()},
		{"workspace", id.Workspace()},
		{"gateway group", id.GatewayGroup()},
		{"traffic group", id.TrafficGroup()},
		{"security group", id.SecurityGroup()},
	}
	for _, r := range Roles() {
		labels = append(labels, struct{ kind, name string }{"namespace", id.Namespace(r)})
	}
	for _, l := range labels {
		if err := ValidateLabel(l.kind, l.name); err != nil {
			return err
		}
	}

	// The gateway name is also the ingress Service name and an app label value.
	if err := ValidateServiceName("gateway", id.GatewayName()); err != nil {
		return err
	}

	subdomains := []struct{ kind, name string }{
		{"service account", id.ServiceAccount()},
		{"secret", id.SecretName()},
		{"secret", id.CASecretName()},
		{"hostname", id.Hostname()},
	}
	for _, s := range subdomains {
		if err := ValidateSubdomain(s.kind, s.name); err != nil {
			return err
		}
	}
	return nil
}
