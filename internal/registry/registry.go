// Package registry holds the static table of known API vendors and the
// classifier that maps an endpoint URL onto one of them.
package registry

import "github.com/nulzo/formatapi/pkg/schema"

// GenericVendor is the identity used when no vendor keyword matches.
const GenericVendor = "custom"

// Profile describes one vendor. Profiles are immutable once the package is
// initialised; callers receive copies.
type Profile struct {
	Identity     string
	Keywords     []string
	Capabilities []string
	EnvPrefix    string
}

// profiles is in precedence order. Detect returns the first profile whose
// keyword matches, so moving an entry changes classification results.
var profiles = []Profile{
	{
		Identity:     "openai",
		Keywords:     []string{"openai.com", "openai"},
		Capabilities: []string{"vision", "function_calling", "stream"},
		EnvPrefix:    "OPENAI",
	},
	{
		Identity:     "anthropic",
		Keywords:     []string{"anthropic.com", "claude"},
		Capabilities: []string{"vision", "thinking", "stream"},
		EnvPrefix:    "ANTHROPIC",
	},
	{
		Identity:     "google",
		Keywords:     []string{"generativeai", "gemini", "googleapis", "google"},
		Capabilities: []string{"vision", "multimodal"},
		EnvPrefix:    "GOOGLE",
	},
	{
		Identity:     "deepseek",
		Keywords:     []string{"deepseek"},
		Capabilities: []string{"vision", "reasoning"},
		EnvPrefix:    "DEEPSEEK",
	},
	{
		Identity:     "zhipu",
		Keywords:     []string{"zhipuai", "chatglm"},
		Capabilities: []string{"vision"},
		EnvPrefix:    "ZHIPU",
	},
	{
		Identity:     "moonshot",
		Keywords:     []string{"moonshot", "kimi"},
		Capabilities: []string{"long_context"},
		EnvPrefix:    "MOONSHOT",
	},
	{
		Identity:     GenericVendor,
		Keywords:     nil,
		Capabilities: []string{"stream"},
		EnvPrefix:    "CUSTOM",
	},
}

var index = buildIndex()

func buildIndex() map[string]int {
	m := make(map[string]int, len(profiles))
	for i, p := range profiles {
		m[p.Identity] = i
	}
	return m
}

// Lookup returns the profile registered under identity.
func Lookup(identity string) (Profile, bool) {
	i, ok := index[identity]
	if !ok {
		return Profile{}, false
	}
	return clone(profiles[i]), true
}

// Generic returns the fallback profile.
func Generic() Profile {
	p, _ := Lookup(GenericVendor)
	return p
}

// CapabilitiesFor returns the default capability tags for a vendor, falling
// back to the generic profile when the identity is unknown.
func CapabilitiesFor(identity string) []string {
	return resolve(identity).Capabilities
}

// EnvPrefixFor returns the variable-name prefix for a vendor, with the same
// fallback rule as CapabilitiesFor.
func EnvPrefixFor(identity string) string {
	return resolve(identity).EnvPrefix
}

// Vendors lists every identity in registry order, generic last.
func Vendors() []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.Identity
	}
	return out
}

// Profiles returns copies of all profiles in registry order.
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	for i, p := range profiles {
		out[i] = clone(p)
	}
	return out
}

// Schema converts a profile to its wire representation.
func (p Profile) Schema() schema.VendorProfile {
	keywords := p.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return schema.VendorProfile{
		Identity:     p.Identity,
		Keywords:     keywords,
		Capabilities: p.Capabilities,
		EnvPrefix:    p.EnvPrefix,
	}
}

func resolve(identity string) Profile {
	if p, ok := Lookup(identity); ok {
		return p
	}
	return Generic()
}

func clone(p Profile) Profile {
	out := Profile{Identity: p.Identity, EnvPrefix: p.EnvPrefix}
	if p.Keywords != nil {
		out.Keywords = append([]string(nil), p.Keywords...)
	}
	out.Capabilities = append([]string(nil), p.Capabilities...)
	return out
}
