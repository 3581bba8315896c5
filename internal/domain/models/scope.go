package models

// scopeKind distinguishes the three access cases. The original data model
// encoded "no access" as a magic [0] element in the ID list, which made an
// empty collection indistinguishable from "no filter"; the tagged form below
// removes that footgun.
type scopeKind int

const (
	scopeNone scopeKind = iota // match nothing
	scopeSome                  // match exactly these IDs
	scopeAll                   // unrestricted, no filter applied
)

// ScopeSet is the set of organization or department IDs a principal may
// touch: None (no access), Some (an explicit allow-list), or All
// (unrestricted). Queries must special-case None so a principal with no
// assignment never produces an unconstrained filter.
type ScopeSet struct {
	kind scopeKind
	ids  []int64
}

// ScopeAll returns the unrestricted scope.
func ScopeAll() ScopeSet { return ScopeSet{kind: scopeAll} }

// ScopeNone returns the match-nothing scope.
func ScopeNone() ScopeSet { return ScopeSet{kind: scopeNone} }

// ScopeOf returns an explicit allow-list scope. An empty list collapses to
// None: there is no such thing as an empty Some.
func ScopeOf(ids ...int64) ScopeSet {
	if len(ids) == 0 {
		return ScopeNone()
	}
	return ScopeSet{kind: scopeSome, ids: ids}
}

// IsAll reports whether the scope is unrestricted.
func (s ScopeSet) IsAll() bool { return s.kind == scopeAll }

// IsNone reports whether the scope matches nothing.
func (s ScopeSet) IsNone() bool { return s.kind == scopeNone }

// IDs returns the explicit allow-list, or nil for All and None.
func (s ScopeSet) IDs() []int64 {
	if s.kind != scopeSome {
		return nil
	}
	return s.ids
}

// Contains reports whether the scope admits the given ID.
func (s ScopeSet) Contains(id int64) bool {
	switch s.kind {
	case scopeAll:
		return true
	case scopeNone:
		return false
	}
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Scope is the resolved allow-list pair used to filter every query.
type Scope struct {
	Orgs  ScopeSet
	Depts ScopeSet
}

// Admits reports whether both halves of the scope admit the given
// organization/department pair.
func (s Scope) Admits(orgID, deptID int64) bool {
	return s.Orgs.Contains(orgID) && s.Depts.Contains(deptID)
}
