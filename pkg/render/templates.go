package render

// Template identifiers of the embedded set.
const (
	TSBTenant    = "tsb/tenant.yaml"
	TSBWorkspace = "tsb/workspace.yaml"
	TSBGroups    = "tsb/groups.yaml"
	TSBPerm      = "tsb/perm.yaml"

	BridgedSecurity     = "tsb/bridged/security.yaml"
	BridgedServiceRoute = "tsb/bridged/serviceroute.yaml"
	BridgedGateway      = "tsb/bridged/gateway.yaml"

	DirectGateway         = "tsb/direct/gw.yaml"
	DirectVirtualService  = "tsb/direct/vs.yaml"
	DirectDestinationRule = "tsb/direct/dr.yaml"
	DirectReviewsRoute    = "tsb/direct/reviews-vs.yaml"

	K8sBookinfo           = "k8s/bookinfo.yaml"
	K8sHttpbin            = "k8s/httpbin.yaml"
	K8sIngress            = "k8s/ingress.yaml"
	K8sServiceRouteEditor = "k8s/servicerouteeditor.yaml"
	K8sTrafficGenScript   = "k8s/traffic-gen.sh"
)

// Route is one host served by an ingress gateway. Gateway templates loop
// over a list of routes so a single gateway can front many instances.
type Route struct {
	// Name identifies the route inside the gateway.
	Name string
	// Hostname is the external host the route matches.
	Hostname string
	// Destination is the in-cluster FQDN traffic is forwarded to.
	Destination string
	// Port is the destination service port.
	Port int
}
