package domain

import (
	"fmt"
	"strings"
)

// ItemKind enumerates the CRM object kinds a listing can request.
type ItemKind string

const (
	ItemKindContact ItemKind = "contact"
	ItemKindDeal    ItemKind = "deal"
)

// ParseItemKinds parses a comma-separated kinds parameter ("contact,deal").
// An empty input returns nil, which callers treat as "all supported kinds".
func ParseItemKinds(raw string) ([]ItemKind, error) {
	if raw == "" {
		return nil, nil
	}
	var kinds []ItemKind
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch kind := ItemKind(part); kind {
		case ItemKindContact, ItemKindDeal:
			kinds = append(kinds, kind)
		default:
			return nil, fmt.Errorf("%w: unknown item kind %q", ErrInvalidInput, part)
		}
	}
	return kinds, nil
}

// IntegrationItem is the normalized representation of one remote CRM
// object, uniform across providers and object kinds. Items carry no
// identity beyond ID and are produced on demand per listing call.
type IntegrationItem struct {
	ID               string   `json:"id"`
	Type             ItemKind `json:"type"`
	Name             string   `json:"name"`
	CreationTime     string   `json:"creation_time"`
	LastModifiedTime string   `json:"last_modified_time"`
	URL              string   `json:"url"`
	ParentPathOrName string   `json:"parent_path_or_name,omitempty"`
	Children         []string `json:"children,omitempty"`
	Visibility       bool     `json:"visibility"`
}
