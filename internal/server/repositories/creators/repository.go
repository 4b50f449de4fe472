package creators

import (
	"context"

	"github.com/ukd-dev/ukdportal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Creator) (*models.Creator, error)
	List(ctx context.Context) ([]*models.Creator, error)
}
