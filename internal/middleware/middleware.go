package middleware

// contextKey is a private type for context values set by this package.
// A dedicated type prevents collisions with context keys from other
// packages.
type contextKey string
