// Package services contains the portal's business rules: who may do what,
// and which repository calls make up each operation. Services take the
// caller's session explicitly and return sentinel errors from common.
package services

import (
	"time"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/cryptox"
	"github.com/ukd-dev/ukdportal/internal/server/models"
)

// seams for tests
var (
	timeNow      = time.Now
	hashPassword = cryptox.HashPassword
)

// requireRole fails with common.ErrorUnauthorized for anonymous callers and
// with denied when the role is not one of roles.
func requireRole(sess *models.Session, denied error, roles ...models.Role) error {
	if !sess.Authenticated() {
		return common.ErrorUnauthorized
	}
	if !sess.Role.In(roles...) {
		return denied
	}
	return nil
}

func requireStaff(sess *models.Session) error {
	return requireRole(sess, common.ErrAccessDenied, models.RoleAdmin, models.RoleTeacher)
}

func requireAdmin(sess *models.Session) error {
	return requireRole(sess, common.ErrAccessDenied, models.RoleAdmin)
}
