package domain_test

import (
	"testing"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAction_Kind(t *testing.T) {
	kind, err := domain.Action{Run: []string{"true"}}.Kind()
	require.NoError(t, err)
	assert.Equal(t, domain.ActionRun, kind)

	_, err = domain.Action{}.Kind()
	require.ErrorIs(t, err, domain.ErrInvalidAction)

	_, err = domain.Action{Run: []string{"true"}, User: "appuser"}.Kind()
	require.ErrorIs(t, err, domain.ErrInvalidAction)
}

func TestStage_Validate(t *testing.T) {
	require.NoError(t, domain.Stage{Name: "deps_1-a"}.Validate())
	require.ErrorIs(t, domain.Stage{Name: "deps:1"}.Validate(), domain.ErrInvalidStageName)
	require.ErrorIs(t, domain.Stage{Name: ""}.Validate(), domain.ErrInvalidStageName)
	require.ErrorIs(t,
		domain.Stage{Name: "x", Actions: []domain.Action{{}}}.Validate(),
		domain.ErrInvalidAction)
}

func TestImageSpec_Validate(t *testing.T) {
	valid := func() *domain.ImageSpec {
		return &domain.ImageSpec{
			Identity:    appUser,
			Stages:      testStages(),
			RuntimeDirs: domain.DefaultRuntimeDirs(appUser),
			Supervisor:  domain.DefaultSupervisorConfig(),
		}
	}
	require.NoError(t, valid().Validate())

	noStages := valid()
	noStages.Stages = nil
	require.ErrorIs(t, noStages.Validate(), domain.ErrNoStages)

	dup := valid()
	dup.Stages = append(dup.Stages, dup.Stages[0])
	require.ErrorIs(t, dup.Validate(), domain.ErrDuplicateStage)

	rootDirs := valid()
	rootDirs.RuntimeDirs.Owner = domain.Owner{}
	require.ErrorIs(t, rootDirs.Validate(), domain.ErrSuperuserOwnership)

	badWorkers := valid()
	badWorkers.Supervisor.Workers = 0
	require.ErrorIs(t, badWorkers.Validate(), domain.ErrInvalidSupervisorConfig)
}

func TestSupervisorConfig_WorkerArgs(t *testing.T) {
	cfg := domain.DefaultSupervisorConfig()

	assert.Equal(t,
		[]string{"gunicorn", "--bind", "fd://3", "--workers", "1", "lyvio.wsgi:application"},
		cfg.WorkerArgs(0))
	assert.Equal(t, "0.0.0.0:8000", cfg.Address())
	assert.Equal(t,
		[]string{"gunicorn", "--bind", "0.0.0.0:8000", "--workers", "3", "lyvio.wsgi:application"},
		cfg.DefaultCommand())
}
