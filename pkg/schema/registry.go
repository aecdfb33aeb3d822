package schema

// VendorProfile is the wire shape of a vendor registry entry.
type VendorProfile struct {
	Identity     string   `json:"identity" yaml:"identity"`
	Keywords     []string `json:"keywords" yaml:"keywords"`
	Capabilities []string `json:"capabilities" yaml:"capabilities"`
	EnvPrefix    string   `json:"env_prefix" yaml:"env_prefix"`
}
