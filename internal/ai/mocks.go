package ai

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/motioner/internal/models"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) Model() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) Complete(ctx context.Context, system, user string) (string, *models.TokenUsage, error) {
	args := m.Called(ctx, system, user)
	usage, _ := args.Get(1).(*models.TokenUsage)
	return args.String(0), usage, args.Error(2)
}

type MockConceptGenerator struct {
	mock.Mock
}

func (m *MockConceptGenerator) AnalyzePR(ctx context.Context, facts models.PRFacts) (models.VideoConcept, error) {
	args := m.Called(ctx, facts)
	return args.Get(0).(models.VideoConcept), args.Error(1)
}

func (m *MockConceptGenerator) AnalyzeRepo(ctx context.Context, facts models.RepoFacts) (models.VideoConcept, error) {
	args := m.Called(ctx, facts)
	return args.Get(0).(models.VideoConcept), args.Error(1)
}
