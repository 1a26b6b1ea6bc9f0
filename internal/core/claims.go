package core

// Claims is a key-value mapping with JSON-compatible value types, as
// described in spec.md's Data Model. Reserved keys include sub, aud, type,
// exp (integer seconds since epoch), scope (space-separated string),
// client_id, claims, and cnf.jkt (nested under cnf).
//
// Stages query Claims by key with type-checked accessors. A missing key and
// a key holding the wrong type both surface as "not present" — callers
// cannot distinguish the two, matching the design note in spec.md §9 that
// "missing" and "wrong type" yield the same downstream behavior.
type Claims map[string]any

// GetString returns the string value at key, and whether it was present and
// of the correct type.
func (c Claims) GetString(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt64 returns the integer value at key, and whether it was present and
// of a numeric type. JSON-decoded numbers typically arrive as float64; both
// float64 and int64 are accepted so claims built directly in Go (tests) and
// claims decoded from JSON behave identically.
func (c Claims) GetInt64(key string) (int64, bool) {
	if c == nil {
		return 0, false
	}
	v, ok := c[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// GetStringMap returns the nested map value at key, and whether it was
// present and of the correct type. Used for the cnf claim, whose jkt member
// is read by the DPoP path.
func (c Claims) GetStringMap(key string) (map[string]any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// CnfJKT returns the cnf.jkt confirmation-claim thumbprint, if present.
func (c Claims) CnfJKT() (string, bool) {
	cnf, ok := c.GetStringMap("cnf")
	if !ok {
		return "", false
	}
	jkt, ok := cnf["jkt"]
	if !ok {
		return "", false
	}
	s, ok := jkt.(string)
	return s, ok
}
