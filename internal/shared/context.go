package shared

import "context"

// Actor is the authenticated caller as seen by the authorization engine:
// identity plus the company and team it belongs to. TeamID and CompanyID
// are zero when the user is not attached to one.
type Actor struct {
	UserID    int64
	Email     string
	CompanyID int64
	TeamID    int64
}

type actorContextKey struct{}

// ContextWithActor stores the authenticated actor in context.
func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the authenticated actor, or nil.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorContextKey{}).(*Actor)
	return actor
}
