package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/memorymatch/internal/models"
	"github.com/vytor/memorymatch/internal/repository"
	"github.com/vytor/memorymatch/internal/repository/sqlite"
	"github.com/vytor/memorymatch/internal/testutil"
)

type ThemeRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ThemeRepository
}

func (s *ThemeRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewThemeRepository(s.db)
}

func (s *ThemeRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ThemeRepositorySuite) TestSeededThemes() {
	themes, err := s.repo.List(context.Background(), false)
	s.Require().NoError(err)
	s.Require().Len(themes, 3)
	s.Assert().Equal("Animals", themes[0].Name)
	s.Assert().Equal("Colors", themes[1].Name)
	s.Assert().Equal("Numbers", themes[2].Name)
	for _, t := range themes {
		s.Assert().True(t.Active)
	}
}

func (s *ThemeRepositorySuite) TestInsertUpdateGet() {
	ctx := context.Background()
	id, err := s.repo.Insert(ctx, models.Theme{Name: "Flags", Description: "World flags", Active: true})
	s.Require().NoError(err)

	err = s.repo.Update(ctx, models.Theme{ID: id, Name: "Flags", Description: "Country flags", ImagePath: "img/flags"})
	s.Require().NoError(err)

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal("Country flags", got.Description)
	s.Assert().Equal("img/flags", got.ImagePath)
	s.Assert().False(got.Active)
	s.Assert().NotNil(got.UpdatedAt)

	active, err := s.repo.List(ctx, true)
	s.Require().NoError(err)
	s.Assert().Len(active, 3)
}

func (s *ThemeRepositorySuite) TestInsert_DuplicateName() {
	_, err := s.repo.Insert(context.Background(), models.Theme{Name: "Numbers", Active: true})
	s.Assert().Error(err)
}

func (s *ThemeRepositorySuite) TestUpdate_NotFound() {
	err := s.repo.Update(context.Background(), models.Theme{ID: 999, Name: "Ghost"})
	s.Assert().ErrorIs(err, sql.ErrNoRows)
}

func (s *ThemeRepositorySuite) TestDelete() {
	ctx := context.Background()
	id := testutil.ThemeID(s.T(), s.db, "Animals")

	removed, err := s.repo.Delete(ctx, id)
	s.Require().NoError(err)
	s.Assert().True(removed)

	_, err = s.repo.Get(ctx, id)
	s.Assert().ErrorIs(err, sql.ErrNoRows)

	removed, err = s.repo.Delete(ctx, id)
	s.Require().NoError(err)
	s.Assert().False(removed)
}

func TestThemeRepositorySuite(t *testing.T) {
	suite.Run(t, new(ThemeRepositorySuite))
}
