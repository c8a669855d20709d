package seed

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learncircle/internal/app/repositories/inmem"
	"github.com/yigit/learncircle/internal/app/services"
	"github.com/yigit/learncircle/internal/pkg/auth"
	"github.com/yigit/learncircle/internal/pkg/filestorage"
)

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := inmem.NewRepositories(inmem.NewStore())
	storage, err := filestorage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "s", AccessTokenExp: time.Hour, TokenIssuer: "t"})
	svc := services.NewServices(repos, storage, jwtService, nil, zerolog.Nop())

	require.NoError(t, CreateDefaultData(ctx, repos.UserRepository, svc, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, repos.UserRepository, svc, zerolog.Nop()))

	user, err := repos.UserRepository.GetByUsername(ctx, DemoUsername)
	require.NoError(t, err)

	created, err := repos.CircleRepository.ListByCreator(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, created, len(demoCircles))

	public, err := repos.CircleRepository.ListPublic(ctx, "")
	require.NoError(t, err)
	assert.Len(t, public, 2)
}
