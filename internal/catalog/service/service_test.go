package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Index,RepairQueue,Publisher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"hrcatalog/internal/catalog/models"
	"hrcatalog/internal/catalog/service/mocks"
	"hrcatalog/internal/sentinel"
	dErrors "hrcatalog/pkg/domain-errors"
	"hrcatalog/pkg/platform/circuit"
	"hrcatalog/pkg/requestcontext"
)

// =============================================================================
// Service Failure Suite
// =============================================================================
// Failure ordering cannot be produced by the real adapters on demand, so the
// store, index, repair queue and publisher are mocked here.

type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	store     *mocks.MockStore[*models.Bank]
	index     *mocks.MockIndex[*models.Bank]
	repairs   *mocks.MockRepairQueue
	publisher *mocks.MockPublisher
	service   *Service[*models.Bank]
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore[*models.Bank](s.ctrl)
	s.index = mocks.NewMockIndex[*models.Bank](s.ctrl)
	s.repairs = mocks.NewMockRepairQueue(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)
	s.service = New(models.Banks, s.store, s.index, discardLogger(),
		WithRepairQueue(s.repairs),
		WithPublisher(s.publisher),
	)
	s.ctx = requestcontext.WithActor(context.Background(), "hr-admin")
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bankWithID(id int64, code, name string) *models.Bank {
	b := &models.Bank{Code: code, Name: name}
	b.SetID(id)
	return b
}

// =============================================================================
// Save
// =============================================================================

func (s *ServiceSuite) TestSaveCreate() {
	s.Run("writes store then index then publishes created", func() {
		stored := bankWithID(1, "AAAAA", "Foo")
		gomock.InOrder(
			s.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(stored, nil),
			s.index.EXPECT().Upsert(gomock.Any(), stored).Return(nil),
			s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, ev models.ChangeEvent) error {
					s.Equal("bank", ev.Kind)
					s.Equal(models.ActionCreated, ev.Action)
					s.Equal(int64(1), ev.ID)
					s.Equal("hr-admin", ev.Actor)
					return nil
				}),
		)

		got, err := s.service.Save(s.ctx, &models.Bank{Code: "AAAAA", Name: "Foo"})
		s.Require().NoError(err)
		s.Same(stored, got)
	})

	s.Run("update publishes updated", func() {
		stored := bankWithID(7, "B", "Bar")
		s.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(stored, nil)
		s.index.EXPECT().Upsert(gomock.Any(), stored).Return(nil)
		s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, ev models.ChangeEvent) error {
				s.Equal(models.ActionUpdated, ev.Action)
				return nil
			})

		_, err := s.service.Save(s.ctx, bankWithID(7, "B", "Bar"))
		s.Require().NoError(err)
	})
}

func (s *ServiceSuite) TestSaveStoreFailureLeavesIndexUntouched() {
	s.Run("store error is internal and nothing else runs", func() {
		s.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))

		_, err := s.service.Save(s.ctx, &models.Bank{Code: "C", Name: "Fails"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("store deadline is a timeout", func() {
		s.store.EXPECT().Save(gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("insert bank: %w", context.DeadlineExceeded))

		_, err := s.service.Save(s.ctx, &models.Bank{Code: "C", Name: "Slow"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	})

	s.Run("update of a missing id is not found", func() {
		s.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Save(s.ctx, bankWithID(404, "C", "Missing"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestSaveIndexFailureIsNotSurfaced() {
	stored := bankWithID(3, "D", "Index down")
	s.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(stored, nil)
	s.index.EXPECT().Upsert(gomock.Any(), stored).Return(errors.New("disk I/O error"))
	s.repairs.EXPECT().Enqueue(gomock.Any(), "bank", int64(3), models.IndexOpUpsert, "disk I/O error").Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	got, err := s.service.Save(s.ctx, &models.Bank{Code: "D", Name: "Index down"})
	s.Require().NoError(err)
	s.Same(stored, got)
}

func (s *ServiceSuite) TestPostStoreStepsSurviveCancellation() {
	ctx, cancel := context.WithCancel(s.ctx)
	stored := bankWithID(5, "E", "Cancelled")

	s.store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, *models.Bank) (*models.Bank, error) {
			cancel()
			return stored, nil
		})
	s.index.EXPECT().Upsert(gomock.Any(), stored).DoAndReturn(
		func(ctx context.Context, _ *models.Bank) error {
			return ctx.Err()
		})
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	_, err := s.service.Save(ctx, &models.Bank{Code: "E", Name: "Cancelled"})
	s.NoError(err)
}

func (s *ServiceSuite) TestPublishFailureDoesNotFailMutation() {
	stored := bankWithID(8, "F", "Quiet")
	s.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(stored, nil)
	s.index.EXPECT().Upsert(gomock.Any(), stored).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	_, err := s.service.Save(s.ctx, &models.Bank{Code: "F", Name: "Quiet"})
	s.NoError(err)
}

func (s *ServiceSuite) TestRepairEnqueueFailureIsLogged() {
	stored := bankWithID(9, "G", "Lost")
	s.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(stored, nil)
	s.index.EXPECT().Upsert(gomock.Any(), stored).Return(errors.New("index down"))
	s.repairs.EXPECT().Enqueue(gomock.Any(), "bank", int64(9), models.IndexOpUpsert, gomock.Any()).
		Return(errors.New("queue down"))
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	_, err := s.service.Save(s.ctx, &models.Bank{Code: "G", Name: "Lost"})
	s.NoError(err)
}

// =============================================================================
// Circuit Breaker
// =============================================================================

func (s *ServiceSuite) TestOpenBreakerSkipsIndex() {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	breaker := circuit.New("bank-index",
		circuit.WithFailureThreshold(1),
		circuit.WithCooldown(time.Minute),
		circuit.WithClock(func() time.Time { return now }),
	)
	svc := New(models.Banks, s.store, s.index, discardLogger(),
		WithRepairQueue(s.repairs),
		WithBreaker(breaker),
	)

	first := bankWithID(1, "H", "Trips")
	s.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(first, nil)
	s.index.EXPECT().Upsert(gomock.Any(), first).Return(errors.New("index down"))
	s.repairs.EXPECT().Enqueue(gomock.Any(), "bank", int64(1), models.IndexOpUpsert, "index down").Return(nil)

	_, err := svc.Save(s.ctx, &models.Bank{Code: "H", Name: "Trips"})
	s.Require().NoError(err)
	s.True(breaker.IsOpen())

	// No Upsert expectation: the open circuit must keep the index out of it.
	second := bankWithID(2, "I", "Queued")
	s.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(second, nil)
	s.repairs.EXPECT().Enqueue(gomock.Any(), "bank", int64(2), models.IndexOpUpsert, errBreakerOpen.Error()).Return(nil)

	_, err = svc.Save(s.ctx, &models.Bank{Code: "I", Name: "Queued"})
	s.Require().NoError(err)

	s.Run("probe after cooldown reaches the index", func() {
		now = now.Add(2 * time.Minute)
		s.store.EXPECT().Delete(gomock.Any(), int64(2)).Return(nil)
		s.index.EXPECT().Delete(gomock.Any(), int64(2)).Return(nil)

		s.NoError(svc.Delete(s.ctx, 2))
		s.True(breaker.IsOpen(), "one success is below the close threshold")
	})
}

// =============================================================================
// Reads
// =============================================================================

func (s *ServiceSuite) TestFindOne() {
	s.Run("absent is not an error", func() {
		s.store.EXPECT().FindByID(gomock.Any(), int64(11)).Return(nil, sentinel.ErrNotFound)

		got, found, err := s.service.FindOne(s.ctx, 11)
		s.NoError(err)
		s.False(found)
		s.Nil(got)
	})

	s.Run("store failure is internal", func() {
		s.store.EXPECT().FindByID(gomock.Any(), int64(12)).Return(nil, errors.New("timeout"))

		_, _, err := s.service.FindOne(s.ctx, 12)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestFindAllInvalidSort() {
	s.store.EXPECT().FindAll(gomock.Any(), gomock.Any()).Return(models.Page[*models.Bank]{}, sentinel.ErrInvalidInput)

	_, err := s.service.FindAll(s.ctx, models.NewPageable(0, 20, models.Order{Field: "colour"}))
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestSearchErrors() {
	s.Run("malformed query", func() {
		s.index.EXPECT().Search(gomock.Any(), "code:(", gomock.Any()).
			Return(models.Page[*models.Bank]{}, sentinel.ErrInvalidInput)

		_, err := s.service.Search(s.ctx, "code:(", models.NewPageable(0, 20))
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidQuery))
	})

	s.Run("index down", func() {
		s.index.EXPECT().Search(gomock.Any(), "Foo", gomock.Any()).
			Return(models.Page[*models.Bank]{}, sentinel.ErrUnavailable)

		_, err := s.service.Search(s.ctx, "Foo", models.NewPageable(0, 20))
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

// =============================================================================
// Delete
// =============================================================================

func (s *ServiceSuite) TestDelete() {
	s.Run("store failure skips the index", func() {
		s.store.EXPECT().Delete(gomock.Any(), int64(20)).Return(errors.New("locked"))

		err := s.service.Delete(s.ctx, 20)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("index failure is queued", func() {
		s.store.EXPECT().Delete(gomock.Any(), int64(21)).Return(nil)
		s.index.EXPECT().Delete(gomock.Any(), int64(21)).Return(errors.New("index down"))
		s.repairs.EXPECT().Enqueue(gomock.Any(), "bank", int64(21), models.IndexOpDelete, "index down").Return(nil)
		s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, ev models.ChangeEvent) error {
				s.Equal(models.ActionDeleted, ev.Action)
				return nil
			})

		s.NoError(s.service.Delete(s.ctx, 21))
	})
}

// =============================================================================
// Reconciliation
// =============================================================================

func (s *ServiceSuite) TestResyncStoreFailure() {
	s.store.EXPECT().FindByID(gomock.Any(), int64(30)).Return(nil, errors.New("timeout"))

	err := s.service.Resync(s.ctx, 30)
	s.Error(err)
}

func (s *ServiceSuite) TestReindexClearFailure() {
	s.index.EXPECT().Clear(gomock.Any()).Return(errors.New("index down"))

	n, err := s.service.Reindex(s.ctx)
	s.Zero(n)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func (s *ServiceSuite) TestPresenceIndexDown() {
	s.store.EXPECT().FindByID(gomock.Any(), int64(40)).Return(bankWithID(40, "J", "Up"), nil)
	s.index.EXPECT().Get(gomock.Any(), int64(40)).Return(nil, sentinel.ErrUnavailable)

	_, err := s.service.Presence(s.ctx, 40)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}
