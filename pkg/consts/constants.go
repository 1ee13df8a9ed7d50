package consts

const (
	// Phases
	PhaseConverged = "Converged"
	PhasePending   = "Pending"
	PhaseFailed    = "Failed"

	// Condition Types
	ConditionTypeReady = "Ready"

	// Condition Reasons
	ReasonReconciliationSucceeded = "ReconciliationSucceeded"
	ReasonValidationFailed        = "ValidationFailed"
	ReasonSingletonViolation      = "SingletonViolation"
	ReasonInvalidIntent           = "InvalidIntent"
	ReasonApplyTransient          = "ApplyTransient"
	ReasonApplyFatal              = "ApplyFatal"
	ReasonApplySucceeded          = "ApplySucceeded"
	ReasonServiceAddressPending   = "ServiceAddressPending"

	// Workload object names. The service keeps the upstream kube-dns name
	// so kubelets resolve against it without extra configuration.
	DeploymentName = "coredns"
	ConfigMapName  = "coredns"
	ServiceName    = "kube-dns"

	// ProviderConfigMapName carries the published provider facts
	// (domain, sdn-ip, port) consumed by downstream components.
	ProviderConfigMapName = "coredns-provider"

	// Defaults
	DefaultClusterDomain = "cluster.local"
	DefaultMemoryLimit   = "170Mi"
	DNSPort              = 53
	MetricsPort          = 9153

	// Labels and annotations
	ManagedByLabel    = "app.kubernetes.io/managed-by"
	ManagedByValue    = "coredns-operator"
	InstanceLabel     = "dns.dnsops.io/instance"
	CorefileHashAnnot = "dns.dnsops.io/corefile-hash"
	CorefileMountPath = "/etc/coredns"
	CorefileKey       = "Corefile"
)
