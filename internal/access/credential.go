// Package access decides which subscriptions a credential may open.
package access

import "strings"

// Scope grants a family of operations.
type Scope string

const (
	LiveData       Scope = "LIVE_DATA"
	HistoricalData Scope = "HISTORICAL_DATA"
	RestAPI        Scope = "REST_API"
	Full           Scope = "FULL"
)

// ParseScope normalises a scope name.
func ParseScope(s string) (Scope, bool) {
	switch sc := Scope(strings.ToUpper(strings.TrimSpace(s))); sc {
	case LiveData, HistoricalData, RestAPI, Full:
		return sc, true
	}
	return "", false
}

// Limits bound what a credential may consume. Zero means unlimited.
type Limits struct {
	MaxSubscriptions int
	RatePerMinute    int
	HistoricalLimit  uint64
	MaxOpenFields    int
}

// Credential identifies a caller and its grants.
type Credential struct {
	ID     string
	User   string
	Scopes []Scope
	Limits Limits
}

// Identity is the stable caller identity used to derive subscription ids.
func (c Credential) Identity() string {
	return c.ID + "-" + c.User
}

// Has reports whether the credential holds scope; Full implies every scope.
func (c Credential) Has(scope Scope) bool {
	for _, s := range c.Scopes {
		if s == scope || s == Full {
			return true
		}
	}
	return false
}
