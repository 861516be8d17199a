package models

import (
	"encoding/json"
	"time"
)

// RequestKind is a closed enumeration of saved calculation request kinds.
// Every kind supports the same save/list/delete capability set.
type RequestKind string

const (
	RequestKindUnitEconomy    RequestKind = "unit_economy"
	RequestKindNicheFrequency RequestKind = "niche_frequency"
)

func (k RequestKind) Valid() bool {
	switch k {
	case RequestKindUnitEconomy, RequestKindNicheFrequency:
		return true
	}
	return false
}

// SavedRequest is a stored calculation request with its result payload.
// Payload layout depends on Kind.
type SavedRequest struct {
	ID        int64
	UserID    int64
	Kind      RequestKind
	Name      string
	Payload   json.RawMessage
	CreatedAt time.Time
}
