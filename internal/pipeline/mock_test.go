package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/relocate-cli/internal/model"
	"github.com/sells-group/relocate-cli/internal/store"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) SaveRun(ctx context.Context, run *model.Run) error {
	args := m.Called(ctx, run)
	if args.Error(0) == nil {
		run.ID = "run-" + run.ProfileHash[:8]
	}
	return args.Error(0)
}

func (m *mockStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockStore) LatestRunByHash(ctx context.Context, hash, locale string) (*model.Run, error) {
	args := m.Called(ctx, hash, locale)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockStore) ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Run), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}
