package naming

import (
	"fmt"
)

// HostDomain is the DNS suffix of every ingress hostname and of the root CA.
const HostDomain = "tetrate.test.com"

// Role distinguishes the namespaces of a multi-namespace application.
// Bookinfo spreads over three namespaces; httpbin uses RoleFront only.
type Role string

const (
	// RoleFront hosts the entry service (productpage, httpbin).
	RoleFront Role = "f"
	// RoleMiddle hosts ratings.
	RoleMiddle Role = "m"
	// RoleBack hosts reviews and details.
	RoleBack Role = "b"
)

// Roles returns every role in a stable order.
func Roles() []Role {
	return []Role{RoleFront, RoleMiddle, RoleBack}
}

// Identity is the tuple that determines every object name of one
// application instance. Identities are values and are never mutated.
type Identity struct {
	App      App
	TenantID int
	Cluster  string
	Seq      int
	Mode     Mode
}

// TenantName returns the TSB tenant name for a tenant index.
func TenantName(tenant int) string {
	return fmt.Sprintf("tenant%d", tenant)
}

// Tenant returns the TSB tenant that owns the instance.
func (id Identity) Tenant() string {
	return TenantName(id.TenantID)
}

// Key names the per-instance output folder: <cluster>-<mode><seq>.
// Seq numbers the units of one mode on a cluster, so the mode token keeps
// keys of bridged and direct units apart.
func (id Identity) Key() string {
	return fmt.Sprintf("%s-%s%d", id.Cluster, id.Mode.Token(), id.Seq)
}

// Namespace returns the Kubernetes namespace for a role.
//
// Layout: t<tenant>-w<seq>-<cluster>-<app>n<mode>0<role>
func (id Identity) Namespace(role Role) string {
	return fmt.Sprintf("t%d-w%d-%s-%sn%s0%s",
		id.TenantID, id.Seq, id.Cluster, id.App.Token(), id.Mode.Token(), role)
}

// FrontNamespace is shorthand for Namespace(RoleFront).
func (id Identity) FrontNamespace() string {
	return id.Namespace(RoleFront)
}

// Workspace returns the TSB workspace name.
func (id Identity) Workspace() string {
	return fmt.Sprintf("%st%d-ws%d-%s-%s",
		id.App.Token(), id.TenantID, id.Seq, id.Cluster, id.Mode.Token())
}

func (id Identity) group(kind string) string {
	return fmt.Sprintf("%st%d-w%d-%s-%s%s0",
		id.App.Token(), id.TenantID, id.Seq, id.Cluster, id.Mode.Token(), kind)
}

// GatewayGroup returns the TSB gateway group name.
func (id Identity) GatewayGroup() string { return id.group("gg") }

// TrafficGroup returns the TSB traffic group name.
func (id Identity) TrafficGroup() string { return id.group("tg") }

// SecurityGroup returns the TSB security group name.
func (id Identity) SecurityGroup() string { return id.group("sg") }

// ServiceAccount returns the traffic generator's service account.
func (id Identity) ServiceAccount() string {
	return id.FrontNamespace() + "-trafficgen-sa"
}

// SecretName returns the ingress TLS secret name.
func (id Identity) SecretName() string {
	return id.FrontNamespace() + "-credential"
}

// CASecretName returns the secret holding the CA the traffic generator trusts.
func (id Identity) CASecretName() string {
	return id.FrontNamespace() + "-ca-cert"
}

// GatewayName returns the ingress gateway deployment name.
func (id Identity) GatewayName() string {
	return id.FrontNamespace() + "-gateway"
}

// Hostname returns the external hostname served by the ingress gateway.
func (id Identity) Hostname() string {
	return id.FrontNamespace() + "." + HostDomain
}

// ServiceFQDN returns the in-cluster FQDN of a service in the given role's namespace.
func (id Identity) ServiceFQDN(service string, role Role) string {
	return fmt.Sprintf("%s.%s.svc.cluster.local", service, id.Namespace(role))
}
