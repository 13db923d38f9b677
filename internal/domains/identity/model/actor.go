package model

import "strings"

// ActorKind is one of the four identity variants a request can resolve to.
type ActorKind string

const (
	ActorAnonymous   ActorKind = "anonymous"
	ActorFixedAdmin  ActorKind = "fixed_admin"
	ActorAccount     ActorKind = "account"
	ActorLibraryCard ActorKind = "library_card"
)

// FixedAdminID is the session sentinel for the fixed admin identity.
const FixedAdminID = "admin"

// CardSessionPrefix marks library-card sessions: userId = "card-<appID>".
const CardSessionPrefix = "card-"

// Actor is the resolved identity of the requesting party. Admin capability
// is computed once at resolve time (fresh role lookup per request) so call
// sites check a flag instead of re-querying ad hoc.
type Actor struct {
	Kind ActorKind

	// AccountID is set for ActorAccount and ActorFixedAdmin ("admin").
	AccountID string

	// ApplicationID is set for ActorLibraryCard.
	ApplicationID string

	// Admin is true for FixedAdmin, and for Account holders with an
	// admin role assignment.
	Admin bool
}

func Anonymous() Actor {
	return Actor{Kind: ActorAnonymous}
}

// SessionUserID is the value stored on the session for this actor.
func (a Actor) SessionUserID() string {
	switch a.Kind {
	case ActorFixedAdmin:
		return FixedAdminID
	case ActorLibraryCard:
		return CardSessionPrefix + a.ApplicationID
	default:
		return a.AccountID
	}
}

// CardApplicationID extracts the application id from a card session userId.
func CardApplicationID(sessionUserID string) string {
	return strings.TrimPrefix(sessionUserID, CardSessionPrefix)
}
