package mongo

import (
	"context"
	"regexp"
	"testing"
	"time"

	"fitnesshub/fitness-api/internal/domain"
	"fitnesshub/fitness-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func userDoc(id primitive.ObjectID, name, email string, role domain.Role) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "email", Value: email},
		{Key: "password", Value: "hash"},
		{Key: "role", Value: role},
		{Key: "createdAt", Value: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "fitness." + userCollectionName

	mt.Run("create maps duplicate key", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: fitness.users index: email_1",
		}))

		_, err := repo.Create(context.Background(), &domain.User{Email: "a@b.c", PasswordHash: "x", Role: domain.RoleUser})
		assert.ErrorIs(t, err, repository.ErrDuplicateKey)
	})

	mt.Run("create sets id and timestamps", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &domain.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "x", Role: domain.RoleUser}
		id, err := repo.Create(context.Background(), user)
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
		assert.False(t, user.CreatedAt.IsZero())
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	})

	mt.Run("get by email decodes user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, userDoc(id, "Ann", "ann@example.com", domain.RoleTrainer)))

		user, err := repo.GetByEmail(context.Background(), "ann@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, domain.RoleTrainer, user.Role)
		assert.Equal(t, "hash", user.PasswordHash)
	})

	mt.Run("get by id not found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	mt.Run("list returns page", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			userDoc(primitive.NewObjectID(), "Bob", "bob@example.com", domain.RoleUser),
			userDoc(primitive.NewObjectID(), "Ann", "ann@example.com", domain.RoleUser),
		))

		users, err := repo.List(context.Background(), domain.UserFilter{Role: domain.RoleUser, Search: "a.n"}, 0, 10)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "Bob", users[0].Name)
	})

	mt.Run("count", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(3)}}))

		n, err := repo.Count(context.Background(), domain.UserFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	mt.Run("update returns document after", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: userDoc(id, "Renamed", "ann@example.com", domain.RoleUser)},
		})

		name := "Renamed"
		user, err := repo.Update(context.Background(), id, domain.UserUpdate{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", user.Name)
	})

	mt.Run("update missing user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		age := 30
		_, err := repo.UpdateProfile(context.Background(), primitive.NewObjectID(), domain.ProfileUpdate{Age: &age})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	mt.Run("add client on missing trainer", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.AddClient(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		id := primitive.NewObjectID()
		require.NoError(t, repo.Delete(context.Background(), id))
		assert.ErrorIs(t, repo.Delete(context.Background(), id), repository.ErrNotFound)
	})
}

func TestUserFilterQuotesSearch(t *testing.T) {
	filter := userFilter(domain.UserFilter{Role: domain.RoleTrainer, Search: "a.b*"})

	role, ok := filter["role"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "^Trainer$", role.Pattern)
	assert.Equal(t, "i", role.Options)
	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)
	rx := or[0].(bson.M)["name"].(primitive.Regex)
	assert.Equal(t, `a\.b\*`, rx.Pattern)
	assert.Equal(t, "i", rx.Options)
}

func TestRoleMatchIsAnchored(t *testing.T) {
	rx := roleMatch(domain.RoleUser)
	re := regexp.MustCompile("(?" + rx.Options + ")" + rx.Pattern)

	assert.True(t, re.MatchString("User"))
	assert.True(t, re.MatchString("user"))
	assert.False(t, re.MatchString("SuperUser"))
	assert.False(t, re.MatchString("Users"))
}
