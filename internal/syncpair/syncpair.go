// Package syncpair models the folder pairs maintained by an external file
// synchronization tool and loads them from the tool's job configuration
// files.
package syncpair

import "fmt"

// Side identifies one half of a folder pair.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// ChangePolicy describes how the sync tool propagates one side's changes.
// Values are the tool's own verbs ("right", "left", "none", ...); they are
// carried for display and never interpreted.
type ChangePolicy struct {
	Create string
	Update string
	Delete string
}

// SyncPair is one left/right folder mapping plus its versioning and filter
// metadata. Pairs are immutable once parsed.
//
// Identity is the ConfigPath alone: pairs originating from the same
// configuration file are treated as the same pair even when other fields
// differ. That collapses multi-pair job files to their first pair on
// registration, matching the sync tool's per-job history layout.
type SyncPair struct {
	Name             string
	LeftPath         string
	RightPath        string
	VersioningFolder string
	Policy           map[Side]ChangePolicy
	IncludePatterns  []string
	ExcludePatterns  []string
	ConfigPath       string
}

// Equal reports pair identity, which is by ConfigPath only.
func (p *SyncPair) Equal(other *SyncPair) bool {
	if other == nil {
		return false
	}
	return p.ConfigPath == other.ConfigPath
}

func (p *SyncPair) String() string {
	return fmt.Sprintf("%s: %s -> %s", p.Name, p.LeftPath, p.RightPath)
}
