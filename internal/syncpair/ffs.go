package syncpair

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FFSBatchParser reads FreeFileSync batch job files (.ffs_batch).
//
// The format is XML with the interesting bits spread across the document:
// a VersioningFolder and Changes block under Synchronize, a global Filter
// with Include/Exclude item lists, and a FolderPairs block with the actual
// left/right mappings. Pair-scoped filters append to the global lists,
// they never replace them.
type FFSBatchParser struct{}

type ffsSidePolicy struct {
	Create *string `xml:"Create,attr"`
	Update *string `xml:"Update,attr"`
	Delete *string `xml:"Delete,attr"`
}

type ffsChanges struct {
	Left  *ffsSidePolicy `xml:"Left"`
	Right *ffsSidePolicy `xml:"Right"`
}

type ffsItemList struct {
	Items []string `xml:"Item"`
}

type ffsFilter struct {
	Include ffsItemList `xml:"Include"`
	Exclude ffsItemList `xml:"Exclude"`
}

type ffsPair struct {
	Left   string     `xml:"Left"`
	Right  string     `xml:"Right"`
	Filter *ffsFilter `xml:"Filter"`
}

type ffsFolderPairs struct {
	Pairs []ffsPair `xml:"Pair"`
}

// Parse reads one batch file and returns its folder pairs. A malformed or
// unreadable file is a per-file error; callers log it and move on to the
// next config.
func (f *FFSBatchParser) Parse(configPath string) ([]*SyncPair, error) {
	fd, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", configPath, err)
	}
	defer fd.Close()

	var (
		versioning  string
		changes     *ffsChanges
		filter      *ffsFilter
		folderPairs *ffsFolderPairs
	)

	// Elements are looked up by name anywhere in the document, first
	// occurrence wins. DecodeElement consumes each matched subtree, so a
	// pair-scoped Filter inside FolderPairs is never mistaken for the
	// global one.
	dec := xml.NewDecoder(fd)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", configPath, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "VersioningFolder":
			if versioning == "" {
				if err := dec.DecodeElement(&versioning, &start); err != nil {
					return nil, fmt.Errorf("parse config %s: %w", configPath, err)
				}
			}
		case "Changes":
			if changes == nil {
				changes = &ffsChanges{}
				if err := dec.DecodeElement(changes, &start); err != nil {
					return nil, fmt.Errorf("parse config %s: %w", configPath, err)
				}
			}
		case "Filter":
			if filter == nil {
				filter = &ffsFilter{}
				if err := dec.DecodeElement(filter, &start); err != nil {
					return nil, fmt.Errorf("parse config %s: %w", configPath, err)
				}
			}
		case "FolderPairs":
			if folderPairs == nil {
				folderPairs = &ffsFolderPairs{}
				if err := dec.DecodeElement(folderPairs, &start); err != nil {
					return nil, fmt.Errorf("parse config %s: %w", configPath, err)
				}
			}
		}
	}

	name := strings.TrimSuffix(filepath.Base(configPath), filepath.Ext(configPath))
	policy := buildPolicy(changes)

	var include, exclude []string
	if filter != nil {
		include = nonEmpty(filter.Include.Items)
		exclude = nonEmpty(filter.Exclude.Items)
	}

	var pairs []*SyncPair
	if folderPairs != nil {
		for _, p := range folderPairs.Pairs {
			// A pair without both sides is skipped, not an error.
			if p.Left == "" || p.Right == "" {
				continue
			}

			pairInclude := append([]string(nil), include...)
			pairExclude := append([]string(nil), exclude...)
			if p.Filter != nil {
				pairInclude = append(pairInclude, nonEmpty(p.Filter.Include.Items)...)
				pairExclude = append(pairExclude, nonEmpty(p.Filter.Exclude.Items)...)
			}

			pairs = append(pairs, &SyncPair{
				Name:             name,
				LeftPath:         p.Left,
				RightPath:        p.Right,
				VersioningFolder: versioning,
				Policy:           policy,
				IncludePatterns:  pairInclude,
				ExcludePatterns:  pairExclude,
				ConfigPath:       configPath,
			})
		}
	}

	return pairs, nil
}

func buildPolicy(changes *ffsChanges) map[Side]ChangePolicy {
	policy := make(map[Side]ChangePolicy)
	if changes == nil {
		return policy
	}
	if changes.Left != nil {
		policy[SideLeft] = sidePolicy(changes.Left)
	}
	if changes.Right != nil {
		policy[SideRight] = sidePolicy(changes.Right)
	}
	return policy
}

func sidePolicy(side *ffsSidePolicy) ChangePolicy {
	return ChangePolicy{
		Create: attrOrNone(side.Create),
		Update: attrOrNone(side.Update),
		Delete: attrOrNone(side.Delete),
	}
}

func attrOrNone(v *string) string {
	if v == nil {
		return "none"
	}
	return *v
}

func nonEmpty(items []string) []string {
	var out []string
	for _, it := range items {
		if it != "" {
			out = append(out, it)
		}
	}
	return out
}
