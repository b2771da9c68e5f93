//go:build integration

package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"hrcatalog/internal/catalog/models"
	"hrcatalog/internal/catalog/store"
	"hrcatalog/internal/sentinel"
	"hrcatalog/pkg/requestcontext"
	"hrcatalog/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	banks    *store.Postgres[*models.Bank]
	units    *store.Postgres[*models.OrganizationUnit]
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.Postgres(s.T())
	s.banks = store.NewPostgres(s.postgres.DB, models.Banks)
	s.units = store.NewPostgres(s.postgres.DB, models.OrganizationUnits)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.ctx = requestcontext.WithActor(context.Background(), "tester")
	s.Require().NoError(s.postgres.Reset(s.ctx))
}

func (s *PostgresStoreSuite) TestInsertStampsIDAndAudit() {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(s.ctx, at)

	stored, err := s.banks.Save(ctx, &models.Bank{Code: "AAAAA", Name: "Foo"})
	s.Require().NoError(err)

	id, ok := stored.GetID()
	s.Require().True(ok)
	s.Equal(int64(1), id)
	s.Equal("tester", stored.CreatedBy)
	s.True(at.Equal(stored.CreatedAt))
	s.True(at.Equal(stored.LastModifiedAt))

	found, err := s.banks.FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("AAAAA", found.Code)
	s.Equal("Foo", found.Name)
}

func (s *PostgresStoreSuite) TestUpdateKeepsCreationStamp() {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	stored, err := s.banks.Save(requestcontext.WithTime(s.ctx, created), &models.Bank{Code: "AAAAA", Name: "Foo"})
	s.Require().NoError(err)

	stored.Name = "Baz"
	later := created.Add(time.Hour)
	ctx := requestcontext.WithActor(requestcontext.WithTime(s.ctx, later), "editor")
	updated, err := s.banks.Save(ctx, stored)
	s.Require().NoError(err)

	s.Equal(stored.ID, updated.ID)
	s.Equal("Baz", updated.Name)
	s.Equal("tester", updated.CreatedBy)
	s.True(created.Equal(updated.CreatedAt))
	s.Equal("editor", updated.LastModifiedBy)
	s.True(later.Equal(updated.LastModifiedAt))

	total, err := s.banks.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), total, "update must not insert")
}

func (s *PostgresStoreSuite) TestUpdateOfUnknownIDIsNotFound() {
	ghost := &models.Bank{Code: "X", Name: "Ghost"}
	ghost.SetID(404)

	_, err := s.banks.Save(s.ctx, ghost)
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.banks.FindByID(s.ctx, 404)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDeleteIsIdempotent() {
	stored, err := s.banks.Save(s.ctx, &models.Bank{Code: "A", Name: "B"})
	s.Require().NoError(err)
	id, _ := stored.GetID()

	s.Require().NoError(s.banks.Delete(s.ctx, id))
	s.Require().NoError(s.banks.Delete(s.ctx, id))

	_, err = s.banks.FindByID(s.ctx, id)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestOptionalColumnsAndLookupKeys() {
	phone := "+55 61 5555-0100"
	parent, err := s.units.Save(s.ctx, &models.OrganizationUnit{
		Acronym: "MIN", Name: "Ministry", Email: "min@example.org", Phone: &phone,
	})
	s.Require().NoError(err)
	s.Require().NotNil(parent.Phone)
	s.Equal(phone, *parent.Phone)
	s.Nil(parent.Address)

	child, err := s.units.Save(s.ctx, &models.OrganizationUnit{
		Acronym: "DEP", Name: "Department", Email: "dep@example.org", ParentID: parent.ID,
	})
	s.Require().NoError(err)
	s.Require().NotNil(child.ParentID)
	s.Equal(*parent.ID, *child.ParentID)

	// Parent ids are lookups only; deleting the parent leaves the child alone.
	s.Require().NoError(s.units.Delete(s.ctx, *parent.ID))
	found, err := s.units.FindByID(s.ctx, *child.ID)
	s.Require().NoError(err)
	s.Equal(*parent.ID, *found.ParentID)
}

func (s *PostgresStoreSuite) TestPaginationCoversEveryRecordOnce() {
	for i := range 7 {
		_, err := s.banks.Save(s.ctx, &models.Bank{Code: fmt.Sprintf("C%02d", i), Name: "Bank"})
		s.Require().NoError(err)
	}

	seen := make(map[int64]bool)
	p := models.NewPageable(0, 3, models.Order{Field: "code", Desc: true})
	for {
		page, err := s.banks.FindAll(s.ctx, p)
		s.Require().NoError(err)
		s.Equal(int64(7), page.Total)
		for _, b := range page.Content {
			id, _ := b.GetID()
			s.False(seen[id], "record %d listed twice", id)
			seen[id] = true
		}
		if len(page.Content) < p.Size {
			break
		}
		p.Page++
	}
	s.Len(seen, 7)

	first, err := s.banks.FindAll(s.ctx, models.NewPageable(0, 1, models.Order{Field: "code", Desc: true}))
	s.Require().NoError(err)
	s.Equal("C06", first.Content[0].Code)
}

func (s *PostgresStoreSuite) TestUnknownSortFieldIsInvalidInput() {
	_, err := s.banks.FindAll(s.ctx, models.NewPageable(0, 10, models.Order{Field: "code; DROP TABLE bank"}))
	s.ErrorIs(err, sentinel.ErrInvalidInput)
}
