// Package fieldprofile builds and trims declarative validation profiles.
//
// A profile describes which fields of a record are required or optional, how
// each field is filtered and constrained, and which messages to show when a
// constraint fails. Validation itself is performed by an external Engine; this
// package only shapes the profile handed to it.
//
// # Quick Start
//
// Start from a large shared profile and narrow it to one operation:
//
//	m := fieldprofile.New(accountProfile)
//	m.Only("email", "name", "phone").MakeOptional("phone")
//	if _, err := m.Add("nickname", fieldprofile.WithFilters("trim")); err != nil {
//	    log.Fatal(err)
//	}
//
//	m.Engine = playground.New(nil)
//	result, err := m.Check(form)
//
// # Profile Shape
//
// Six attributes are modeled: required, optional, defaults, field_filters,
// constraint_methods and msgs (with a nested constraints mapping). Everything
// else is carried in Profile.Extra and exported untouched. A modeled attribute
// with an unexpected shape is also kept in Extra until a mutation replaces it;
// Profile.Validate reports such attributes.
//
// # Limitations
//
// Only and Remove never prune msgs.constraints (keyed by constraint name, not
// field name), dependencies, dependency_groups, require_some or regexp-keyed
// attributes. A trimmed profile may therefore still mention removed fields in
// those attributes.
//
// # Concurrency
//
// A Manipulator is owned by one caller at a time; it performs no locking.
// Profile values are safe for concurrent reads.
//
// # Subpackages
//
//   - canonicaljson: RFC 8785 (JCS) deterministic JSON serialization
//   - profilediff: compare a base profile with a profile derived from it
//   - profileio: load named profile libraries from YAML or JSON
//   - engine/playground: an Engine backed by go-playground/validator
package fieldprofile
