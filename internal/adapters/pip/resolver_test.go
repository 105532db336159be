package pip_test

import (
	"context"
	"strings"
	"testing"

	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/pip"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func parse(t *testing.T, manifest string) *domain.Manifest {
	t.Helper()
	m, err := domain.ParseManifest(strings.NewReader(manifest))
	require.NoError(t, err)
	return m
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	index := mocks.NewMockPackageIndex(ctrl)
	index.EXPECT().Versions(gomock.Any(), "Django").
		Return([]string{"4.1.13", "4.2.11", "5.0.3", "5.1a1", "not a version"}, nil)
	index.EXPECT().Versions(gomock.Any(), "gunicorn").
		Return([]string{"20.1.0", "21.2.0", "22.0.0"}, nil)
	index.EXPECT().Versions(gomock.Any(), "psycopg2-binary").
		Return([]string{"2.9.8", "2.9.9", "2.9.10", "3.0.0"}, nil)
	index.EXPECT().Versions(gomock.Any(), "celery").
		Return([]string{"5.3.6", "5.4.0rc1"}, nil)

	lock, err := pip.NewResolver().Resolve(context.Background(), parse(t, `
Django>=4.2,<5.0
gunicorn==21.2.0
psycopg2-binary~=2.9.9
celery[redis]>=5.4.0rc1
`), index)
	require.NoError(t, err)

	assert.Equal(t, "celery[redis]==5.4.0rc1\nDjango==4.2.11\ngunicorn==21.2.0\npsycopg2-binary==2.9.10\n",
		lock.Render())
}

func TestResolver_SkipsPrereleasesByDefault(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	index := mocks.NewMockPackageIndex(ctrl)
	index.EXPECT().Versions(gomock.Any(), "django").Return([]string{"4.2.11", "5.0rc1", "5.0.dev1"}, nil)

	lock, err := pip.NewResolver().Resolve(context.Background(), parse(t, "django\n"), index)
	require.NoError(t, err)
	assert.Equal(t, []domain.Pin{{Name: "django", Version: "4.2.11"}}, lock.Pins)
}

func TestResolver_Unsatisfiable(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	index := mocks.NewMockPackageIndex(ctrl)
	index.EXPECT().Versions(gomock.Any(), "django").Return([]string{"3.2", "4.2.11"}, nil)
	index.EXPECT().Source().Return("https://pypi.org")

	_, err := pip.NewResolver().Resolve(context.Background(), parse(t, "django>=5.0\n"), index)
	require.ErrorIs(t, err, domain.ErrUnsatisfiableConstraint)
}

func TestResolver_PackageNotFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	index := mocks.NewMockPackageIndex(ctrl)
	index.EXPECT().Versions(gomock.Any(), "nope").
		Return(nil, domain.Tag(domain.ErrPackageNotFound, "package", "nope"))

	_, err := pip.NewResolver().Resolve(context.Background(), parse(t, "nope\n"), index)
	require.ErrorIs(t, err, domain.ErrPackageNotFound)
}

func TestResolver_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ctrl := gomock.NewController(t)
	index := mocks.NewMockPackageIndex(ctrl)

	_, err := pip.NewResolver().Resolve(ctx, parse(t, "django\n"), index)
	require.ErrorIs(t, err, context.Canceled)
}
