package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/repomanager"
)

type invitationFixture struct {
	m       repomanager.RepositoryManager
	svc     *InvitationService
	admin   *models.User
	acme    *models.User
	globex  *models.User
	ivan    *models.User
	olena   *models.User
	ivanPID int64
}

func newInvitationFixture(t *testing.T, m repomanager.RepositoryManager) *invitationFixture {
	t.Helper()
	f := &invitationFixture{m: m, svc: NewInvitationService(m)}
	f.admin = mustAccount(t, m, "admin", models.RoleAdmin, "")
	f.acme = mustAccount(t, m, "acme", models.RoleCompany, "Acme")
	f.globex = mustAccount(t, m, "globex", models.RoleCompany, "Globex")
	f.ivan = mustAccount(t, m, "ivan", models.RoleStudent, "Іван Петренко")
	f.olena = mustAccount(t, m, "olena", models.RoleStudent, "Олена Шевчук")
	f.ivanPID = studentProfileID(t, m, f.ivan.ID)
	return f
}

func TestInvitationService_Send(t *testing.T) {
	eachManager(t, func(t *testing.T, m repomanager.RepositoryManager) {
		ctx := context.Background()
		f := newInvitationFixture(t, m)

		inv, err := f.svc.Send(ctx, SessionFor(f.acme), f.ivanPID, " Приходь на співбесіду ")
		require.NoError(t, err)
		assert.Equal(t, models.InvitationPending, inv.Status)
		assert.Equal(t, "Приходь на співбесіду", inv.Message)
		require.NotNil(t, inv.CompanyID)

		byAdmin, err := f.svc.Send(ctx, SessionFor(f.admin), f.ivanPID, "hello")
		require.NoError(t, err)
		assert.Nil(t, byAdmin.CompanyID)

		_, err = f.svc.Send(ctx, SessionFor(f.olena), f.ivanPID, "hi")
		assert.ErrorIs(t, err, common.ErrAccessDenied)

		_, err = f.svc.Send(ctx, SessionFor(f.acme), 9999, "hi")
		assert.ErrorIs(t, err, common.ErrorNotFound)

		_, err = f.svc.Send(ctx, SessionFor(f.acme), f.ivanPID, "   ")
		assert.ErrorIs(t, err, common.ErrorValidation)
	})
}

func TestInvitationService_Respond(t *testing.T) {
	eachManager(t, func(t *testing.T, m repomanager.RepositoryManager) {
		ctx := context.Background()
		f := newInvitationFixture(t, m)

		inv, err := f.svc.Send(ctx, SessionFor(f.acme), f.ivanPID, "offer")
		require.NoError(t, err)

		_, _, err = f.svc.Respond(ctx, SessionFor(f.ivan), inv.ID, "maybe")
		assert.ErrorIs(t, err, common.ErrorValidation)

		_, _, err = f.svc.Respond(ctx, SessionFor(f.olena), inv.ID, "accept")
		assert.ErrorIs(t, err, common.ErrForbidden)

		_, _, err = f.svc.Respond(ctx, SessionFor(f.acme), inv.ID, "accept")
		assert.ErrorIs(t, err, common.ErrForbidden)

		got, changed, err := f.svc.Respond(ctx, SessionFor(f.ivan), inv.ID, "accept")
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, models.InvitationAccepted, got.Status)

		got, changed, err = f.svc.Respond(ctx, SessionFor(f.ivan), inv.ID, "reject")
		require.NoError(t, err)
		assert.False(t, changed, "a decided invitation stays decided")
		assert.Equal(t, models.InvitationAccepted, got.Status)

		_, _, err = f.svc.Respond(ctx, SessionFor(f.ivan), 9999, "accept")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestInvitationService_FlagAndDelete(t *testing.T) {
	eachManager(t, func(t *testing.T, m repomanager.RepositoryManager) {
		ctx := context.Background()
		f := newInvitationFixture(t, m)

		inv, err := f.svc.Send(ctx, SessionFor(f.acme), f.ivanPID, "offer")
		require.NoError(t, err)

		assert.ErrorIs(t, f.svc.Flag(ctx, SessionFor(f.globex), inv.ID), common.ErrForbidden)
		assert.ErrorIs(t, f.svc.Flag(ctx, SessionFor(f.admin), inv.ID), common.ErrForbidden)
		assert.ErrorIs(t, f.svc.Flag(ctx, SessionFor(f.ivan), inv.ID), common.ErrForbidden)

		require.NoError(t, f.svc.Flag(ctx, SessionFor(f.acme), inv.ID))
		assert.ErrorIs(t, f.svc.Flag(ctx, SessionFor(f.acme), inv.ID), common.ErrAlreadyFlagged)

		assert.ErrorIs(t, f.svc.Delete(ctx, SessionFor(f.acme), inv.ID), common.ErrAccessDenied)
		require.NoError(t, f.svc.Delete(ctx, SessionFor(f.admin), inv.ID))

		_, err = m.Repositories().Invitations.GetByID(ctx, inv.ID)
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestInvitationService_ListForAndPendingCount(t *testing.T) {
	eachManager(t, func(t *testing.T, m repomanager.RepositoryManager) {
		ctx := context.Background()
		f := newInvitationFixture(t, m)
		olenaPID := studentProfileID(t, m, f.olena.ID)

		first, err := f.svc.Send(ctx, SessionFor(f.acme), f.ivanPID, "one")
		require.NoError(t, err)
		_, err = f.svc.Send(ctx, SessionFor(f.globex), f.ivanPID, "two")
		require.NoError(t, err)
		_, err = f.svc.Send(ctx, SessionFor(f.acme), olenaPID, "three")
		require.NoError(t, err)
		require.NoError(t, f.svc.Flag(ctx, SessionFor(f.acme), first.ID))

		all, err := f.svc.ListFor(ctx, SessionFor(f.admin))
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, first.ID, all[0].ID, "flagged first")

		sent, err := f.svc.ListFor(ctx, SessionFor(f.acme))
		require.NoError(t, err)
		assert.Len(t, sent, 2)

		received, err := f.svc.ListFor(ctx, SessionFor(f.ivan))
		require.NoError(t, err)
		assert.Len(t, received, 2)

		n, err := f.svc.PendingCount(ctx, SessionFor(f.ivan))
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		_, _, err = f.svc.Respond(ctx, SessionFor(f.ivan), first.ID, "reject")
		require.NoError(t, err)
		n, err = f.svc.PendingCount(ctx, SessionFor(f.ivan))
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = f.svc.PendingCount(ctx, SessionFor(f.acme))
		require.NoError(t, err)
		assert.Zero(t, n)

		_, err = f.svc.ListFor(ctx, nil)
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	})
}
