package creators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/repotest"
)

func TestSQLite_Creators(t *testing.T) {
	db := repotest.NewSQLite(t)
	repo := NewSQLRepository(db.Conn())
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Creator{Name: "Anna", Role: "Backend", Skills: "Go"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Creator{Name: "Petro", Role: "Design"})
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Anna", list[0].Name)
	assert.Equal(t, "Design", list[1].Role)
}
