package ports

// TokenIssuer mints signed bearer tokens for authenticated users.
// Implementations are pure: no I/O, no state between calls.
type TokenIssuer interface {
	Issue(subjectID, displayName string, roles []string) (string, error)
}
