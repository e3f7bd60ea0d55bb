package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/taxengine/internal/domain"
	"github.com/sells-group/taxengine/internal/domain/repository"
	"github.com/sells-group/taxengine/internal/usecase"
	"github.com/sells-group/taxengine/internal/usecase/dto"
)

type mockImportJobRepo struct {
	mock.Mock
}

func (m *mockImportJobRepo) Insert(ctx context.Context, j *domain.ImportJob) error {
	args := m.Called(ctx, j)
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockImportJobRepo) Get(ctx context.Context, id uuid.UUID) (*domain.ImportJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportJob), args.Error(1)
}

func (m *mockImportJobRepo) Update(ctx context.Context, j *domain.ImportJob) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

type mockTaskQueue struct {
	mock.Mock
}

func (m *mockTaskQueue) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *mockTaskQueue) Publish(ctx context.Context, stream string, payload interface{}) error {
	args := m.Called(ctx, stream, payload)
	return args.Error(0)
}

func (m *mockTaskQueue) ConsumeBatch(ctx context.Context, stream, group, consumer string, count int) ([]repository.QueueMessage, error) {
	panic("unused")
}

func (m *mockTaskQueue) AckMessages(ctx context.Context, stream, group string, ids []string) error {
	args := m.Called(ctx, stream, group, ids)
	return args.Error(0)
}

func TestImportUseCase_SubmitImport_EnqueuesAndReturnsJob(t *testing.T) {
	ctx := context.Background()
	jobRepo := &mockImportJobRepo{}
	queue := &mockTaskQueue{}

	jobRepo.On("Insert", ctx, mock.Anything).Return(nil)
	queue.On("Publish", ctx, usecase.ImportStreamName, mock.Anything).Return(nil)

	uc := usecase.NewImportUseCase(jobRepo, queue, zap.NewNop())

	resp, err := uc.SubmitImport(ctx, dto.SubmitImportRequest{
		FileName: "orders.csv",
		Content:  []byte("lat,lon,subtotal,timestamp\n40.1,-73.1,10.00,2024-01-01T00:00:00Z\n"),
	})

	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.Status)
	assert.NotEmpty(t, resp.ID)
	jobRepo.AssertExpectations(t)
	queue.AssertExpectations(t)
}

func TestImportUseCase_SubmitImport_EmptyFile(t *testing.T) {
	ctx := context.Background()
	jobRepo := &mockImportJobRepo{}
	queue := &mockTaskQueue{}

	uc := usecase.NewImportUseCase(jobRepo, queue, zap.NewNop())
	_, err := uc.SubmitImport(ctx, dto.SubmitImportRequest{Content: []byte{}})
	assert.Error(t, err)
}

func TestImportUseCase_SubmitImport_StripsUTF8BOM(t *testing.T) {
	ctx := context.Background()
	jobRepo := &mockImportJobRepo{}
	queue := &mockTaskQueue{}

	jobRepo.On("Insert", ctx, mock.Anything).Return(nil)

	var capturedTask dto.ImportTask
	queue.On("Publish", ctx, usecase.ImportStreamName, mock.Anything).Run(func(args mock.Arguments) {
		capturedTask = args.Get(2).(dto.ImportTask)
	}).Return(nil)

	uc := usecase.NewImportUseCase(jobRepo, queue, zap.NewNop())

	bom := []byte{0xEF, 0xBB, 0xBF}
	content := append(bom, []byte("lat,lon,subtotal\n")...)

	_, err := uc.SubmitImport(ctx, dto.SubmitImportRequest{Content: content})
	require.NoError(t, err)
	assert.Equal(t, "lat,lon,subtotal\n", capturedTask.Text)
}

func TestImportUseCase_GetImportStatus(t *testing.T) {
	ctx := context.Background()
	jobRepo := &mockImportJobRepo{}
	queue := &mockTaskQueue{}

	id := uuid.New()
	jobRepo.On("Get", ctx, id).Return(&domain.ImportJob{
		ID: id, Status: domain.ImportJobCompleted, TotalRows: 3, SuccessRows: 3,
	}, nil)

	uc := usecase.NewImportUseCase(jobRepo, queue, zap.NewNop())
	resp, err := uc.GetImportStatus(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", resp.Status)
	assert.Equal(t, 3, resp.SuccessRows)
}
