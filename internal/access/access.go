// Package access decides what a user may do to a task list and its tasks.
//
// Two distinct relations grant power. Ownership (TaskList.OwnerID) gates the
// structural operations: deleting a list and adding participants. The Admin
// role gates task authoring. A role never implies ownership and ownership is
// never stored as a role.
package access

import (
	"github.com/listkeep-dev/listkeep/internal/apperrors"
	"github.com/listkeep-dev/listkeep/internal/models"
	"github.com/listkeep-dev/listkeep/internal/stores"
)

type Evaluator struct {
	lists *stores.TaskListStore
}

func NewEvaluator(lists *stores.TaskListStore) *Evaluator {
	return &Evaluator{lists: lists}
}

// RoleOf returns the role recorded for userID on listID, or ok=false when
// the list is absent or the user is not on its roster. Callers gating task
// operations must not distinguish the two cases, so that the existence of
// other people's lists does not leak.
func (e *Evaluator) RoleOf(userID, listID uint) (models.Role, bool, error) {
	return e.lists.RoleOf(userID, listID)
}

// RequireRole fails with Unauthorized(message) unless userID holds one of
// the allowed roles on listID. An absent list fails the same way as a
// missing membership.
func (e *Evaluator) RequireRole(userID, listID uint, message string, allowed ...models.Role) error {
	role, ok, err := e.RoleOf(userID, listID)

	if err != nil {
		return err
	}

	if !ok {
		return apperrors.New(apperrors.KindUnauthorized, message)
	}

	for _, a := range allowed {
		if role == a {
			return nil
		}
	}

	return apperrors.New(apperrors.KindUnauthorized, message)
}

// RequireParticipant fails with Unauthorized(message) unless userID holds
// any role on listID.
func (e *Evaluator) RequireParticipant(userID, listID uint, message string) error {
	return e.RequireRole(userID, listID, message, models.RoleAdmin, models.RoleViewer)
}

// RequireOwner fails with NotFound for an absent list and with
// Unauthorized(message) for anyone but the exact owner. Admin participants
// do not pass. Unlike the task gates, this check may reveal that a list
// exists; only structural mutations reach it.
func (e *Evaluator) RequireOwner(userID, listID uint, message string) error {
	list, err := e.lists.FindByID(listID)

	if err != nil {
		return err
	}

	if list.OwnerID != userID {
		return apperrors.New(apperrors.KindUnauthorized, message)
	}

	return nil
}
