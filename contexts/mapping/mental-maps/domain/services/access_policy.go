package services

import "mentalmaps/contexts/mapping/mental-maps/domain/entities"

// CanRead grants read access to public maps, to moderators and to the owner.
// Callers must resolve map existence first so absence surfaces as not-found.
func CanRead(actor entities.Actor, m entities.Map) bool {
	if m.Visibility == entities.VisibilityPublic {
		return true
	}
	if actor.IsModerator() {
		return true
	}
	return actor.ID != "" && actor.ID == m.OwnerID
}

// CanWrite ignores visibility: only moderators and the owner may mutate a map.
func CanWrite(actor entities.Actor, m entities.Map) bool {
	if actor.IsModerator() {
		return true
	}
	return actor.ID != "" && actor.ID == m.OwnerID
}

// CanModerate gates every report operation except filing one.
func CanModerate(actor entities.Actor) bool {
	return actor.IsModerator()
}
