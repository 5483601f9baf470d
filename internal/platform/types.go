package platform

// RouteTypeUpstream marks a route that forwards traffic to an application.
const RouteTypeUpstream = "upstream"

// Route is a single entry of the platform routing table.
type Route struct {
	URL      string `yaml:"url"`
	Type     string `yaml:"type"`
	Upstream string `yaml:"upstream"`
}

// Credentials holds the connection details of a relationship.
type Credentials struct {
	Scheme   string `mapstructure:"scheme"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Path     string `mapstructure:"path"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Provider exposes the runtime facts of the hosting platform.
type Provider interface {
	InRuntime() bool
	ProjectEntropy() (string, bool)
	SMTPHost() (string, bool)
	ApplicationName() string
	// Routes returns the routing table in its declared order.
	Routes() []Route
	HasRelationship(name string) bool
	Credentials(name string) (Credentials, error)
}
