package shared

import "context"

// RequestContext carries the caller identity into every core call. It replaces
// session-carried globals: nothing in the core reads identity from anywhere else.
type RequestContext struct {
	UserID     string `json:"user_id"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	YearLevel  int    `json:"year_level,omitempty"`
}

// IsStudent reports whether the caller is a student
func (rc RequestContext) IsStudent() bool { return rc.Role == RoleStudent }

// IsReviewer reports whether the caller may review applications and export rankings
func (rc RequestContext) IsReviewer() bool {
	return rc.Role == RoleFaculty || rc.Role == RoleAdmin
}

type requestContextKey struct{}

// WithRequestContext stores rc on ctx
func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// RequestContextFrom returns the RequestContext stored on ctx
func RequestContextFrom(ctx context.Context) (RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey{}).(RequestContext)
	return rc, ok
}
