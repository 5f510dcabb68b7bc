package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/memorymatch/internal/models"
	"github.com/vytor/memorymatch/internal/repository"
	"github.com/vytor/memorymatch/internal/repository/sqlite"
	"github.com/vytor/memorymatch/internal/testutil"
)

type UserRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.UserRepository
}

func (s *UserRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewUserRepository(s.db)
}

func (s *UserRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *UserRepositorySuite) newUser(username, email string) models.User {
	return models.User{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Username:     username,
		PasswordHash: "hash",
		Email:        email,
		Active:       true,
	}
}

func (s *UserRepositorySuite) TestInsertAndLookups() {
	ctx := context.Background()
	id, err := s.repo.Insert(ctx, s.newUser("ada", "ada@example.com"))
	s.Require().NoError(err)

	byID, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal("ada", byID.Username)
	s.Assert().Equal(models.RoleUser, byID.Role)
	s.Assert().True(byID.Active)
	s.Assert().Nil(byID.LastLogin)

	byName, err := s.repo.GetByUsername(ctx, "ada")
	s.Require().NoError(err)
	s.Assert().Equal(id, byName.ID)

	byEmail, err := s.repo.GetByEmail(ctx, "ada@example.com")
	s.Require().NoError(err)
	s.Assert().Equal(id, byEmail.ID)
}

func (s *UserRepositorySuite) TestInsert_EmptyEmailsDoNotCollide() {
	ctx := context.Background()
	_, err := s.repo.Insert(ctx, s.newUser("one", ""))
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, s.newUser("two", ""))
	s.Require().NoError(err)

	users, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 2)
	s.Assert().Equal("one", users[0].Username)
	s.Assert().Empty(users[0].Email)
}

func (s *UserRepositorySuite) TestInsert_DuplicateUsername() {
	ctx := context.Background()
	_, err := s.repo.Insert(ctx, s.newUser("ada", ""))
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, s.newUser("ada", ""))
	s.Assert().Error(err)
}

func (s *UserRepositorySuite) TestGet_NotFound() {
	_, err := s.repo.GetByUsername(context.Background(), "nobody")
	s.Assert().ErrorIs(err, sql.ErrNoRows)
}

func (s *UserRepositorySuite) TestUpdates() {
	ctx := context.Background()
	id, err := s.repo.Insert(ctx, s.newUser("ada", ""))
	s.Require().NoError(err)

	at := time.Now().Add(-time.Minute)
	s.Require().NoError(s.repo.UpdateLastLogin(ctx, id, at))
	s.Require().NoError(s.repo.UpdatePassword(ctx, id, "new-hash"))

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got.LastLogin)
	s.Assert().WithinDuration(at, *got.LastLogin, time.Second)
	s.Assert().Equal("new-hash", got.PasswordHash)
	s.Assert().NotNil(got.UpdatedAt)

	s.Assert().ErrorIs(s.repo.UpdatePassword(ctx, 999, "x"), sql.ErrNoRows)
}

func (s *UserRepositorySuite) TestSetActiveAndUpdateRole() {
	ctx := context.Background()
	id, err := s.repo.Insert(ctx, s.newUser("ada", ""))
	s.Require().NoError(err)

	s.Require().NoError(s.repo.SetActive(ctx, id, false))
	s.Require().NoError(s.repo.UpdateRole(ctx, id, models.RoleAdmin))

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().False(got.Active)
	s.Assert().True(got.IsAdmin())

	s.Assert().ErrorIs(s.repo.SetActive(ctx, 999, true), sql.ErrNoRows)
	s.Assert().ErrorIs(s.repo.UpdateRole(ctx, 999, models.RoleUser), sql.ErrNoRows)
}

func (s *UserRepositorySuite) TestDelete_RemovesScores() {
	ctx := context.Background()
	id, err := s.repo.Insert(ctx, s.newUser("ada", ""))
	s.Require().NoError(err)
	other := testutil.InsertUser(s.T(), s.db, "bob")
	numbers := testutil.ThemeID(s.T(), s.db, "Numbers")

	scores := sqlite.NewScoreRepository(s.db)
	_, err = scores.Insert(ctx, testutil.Score(id, numbers, 4, 30, time.Hour))
	s.Require().NoError(err)
	_, err = scores.Insert(ctx, testutil.Score(other, numbers, 5, 40, time.Hour))
	s.Require().NoError(err)

	deleted, err := s.repo.Delete(ctx, id)
	s.Require().NoError(err)
	s.Assert().True(deleted)

	_, err = s.repo.Get(ctx, id)
	s.Assert().ErrorIs(err, sql.ErrNoRows)
	mine, err := scores.ListByUser(ctx, id)
	s.Require().NoError(err)
	s.Assert().Empty(mine)
	theirs, err := scores.ListByUser(ctx, other)
	s.Require().NoError(err)
	s.Assert().Len(theirs, 1)

	deleted, err = s.repo.Delete(ctx, id)
	s.Require().NoError(err)
	s.Assert().False(deleted)
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}
