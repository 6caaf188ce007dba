package access

import "strings"

// Capability is a single fine-grained grant held by non-admin staff.
type Capability uint8

const (
	CapManageUsers Capability = 1 << iota
	CapManageSolutions
	CapManageContent
	CapViewAnalytics
	CapManageBilling
	CapManageSettings
)

var capabilityNames = []struct {
	cap  Capability
	name string
}{
	{CapManageUsers, "canManageUsers"},
	{CapManageSolutions, "canManageSolutions"},
	{CapManageContent, "canManageContent"},
	{CapViewAnalytics, "canViewAnalytics"},
	{CapManageBilling, "canManageBilling"},
	{CapManageSettings, "canManageSettings"},
}

// Capabilities is a fixed set of capability bits. The zero value grants
// nothing.
type Capabilities uint8

// CapabilitiesOf combines individual capabilities into a set.
func CapabilitiesOf(caps ...Capability) Capabilities {
	var set Capabilities
	for _, c := range caps {
		set |= Capabilities(c)
	}
	return set
}

// ParseCapabilities builds a set from permission names such as
// "canManageUsers". Unknown names are ignored.
func ParseCapabilities(names []string) Capabilities {
	var set Capabilities
	for _, raw := range names {
		raw = strings.TrimSpace(raw)
		for _, entry := range capabilityNames {
			if strings.EqualFold(entry.name, raw) {
				set |= Capabilities(entry.cap)
			}
		}
	}
	return set
}

// Has reports whether c is in the set.
func (s Capabilities) Has(c Capability) bool {
	return c != 0 && Capabilities(c)&s == Capabilities(c)
}

// Names lists the capabilities in the set in declaration order.
func (s Capabilities) Names() []string {
	names := make([]string, 0, len(capabilityNames))
	for _, entry := range capabilityNames {
		if s.Has(entry.cap) {
			names = append(names, entry.name)
		}
	}
	return names
}
