package invitations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/repotest"
)

func TestSQLite_InvitationLifecycle(t *testing.T) {
	db := repotest.NewSQLite(t)
	repo := NewSQLRepository(db.Conn())
	ctx := context.Background()

	_, student := repotest.InsertStudent(t, db, "ivan", "Ivan", "Petrenko")
	companyUser, company := repotest.InsertCompany(t, db, "softserve", "SoftServe")
	admin := repotest.InsertUser(t, db, "admin", "ADMIN", "")

	inv, err := repo.Create(ctx, &models.Invitation{StudentID: student, CompanyID: &company, SenderID: companyUser, Message: "Intern role"})
	require.NoError(t, err)
	assert.Equal(t, models.InvitationPending, inv.Status)

	fromAdmin, err := repo.Create(ctx, &models.Invitation{StudentID: student, SenderID: admin, Message: "Come by"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CompanyID)
	assert.Equal(t, company, *got.CompanyID)
	assert.False(t, got.Flagged)

	gotAdmin, err := repo.GetByID(ctx, fromAdmin.ID)
	require.NoError(t, err)
	assert.Nil(t, gotAdmin.CompanyID)

	n, err := repo.CountPending(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	changed, err := repo.SetStatus(ctx, inv.ID, models.InvitationAccepted)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.SetStatus(ctx, inv.ID, models.InvitationRejected)
	require.NoError(t, err)
	assert.False(t, changed, "accepted is terminal")

	got, err = repo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationAccepted, got.Status)

	flagged, err := repo.SetFlagged(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, flagged)
	flagged, err = repo.SetFlagged(ctx, inv.ID)
	require.NoError(t, err)
	assert.False(t, flagged)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, inv.ID, all[0].ID, "flagged first")
	assert.Equal(t, "SoftServe", all[0].CompanyName)
	assert.Equal(t, "Ivan Petrenko", all[0].StudentName)
	assert.Empty(t, all[1].CompanyName)

	sent, err := repo.ListBySender(ctx, companyUser)
	require.NoError(t, err)
	require.Len(t, sent, 1)

	received, err := repo.ListByStudent(ctx, student)
	require.NoError(t, err)
	require.Len(t, received, 2)

	require.NoError(t, repo.Delete(ctx, fromAdmin.ID))
	_, err = repo.GetByID(ctx, fromAdmin.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLite_DeleteForParty(t *testing.T) {
	db := repotest.NewSQLite(t)
	repo := NewSQLRepository(db.Conn())
	ctx := context.Background()

	_, ivan := repotest.InsertStudent(t, db, "ivan", "Ivan", "P")
	_, olha := repotest.InsertStudent(t, db, "olha", "Olha", "K")
	corpUser, corp := repotest.InsertCompany(t, db, "corp", "Corp")
	otherUser, other := repotest.InsertCompany(t, db, "other", "Other")

	mk := func(student, company, sender int64) {
		_, err := repo.Create(ctx, &models.Invitation{StudentID: student, CompanyID: &company, SenderID: sender})
		require.NoError(t, err)
	}
	mk(ivan, corp, corpUser)
	mk(olha, corp, corpUser)
	mk(olha, other, otherUser)

	n, err := repo.DeleteForParty(ctx, Party{UserID: corpUser, CompanyID: &corp})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.DeleteForParty(ctx, Party{UserID: 0, StudentID: &olha})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
