package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkau/biblio/internal/entities"
)

func TestRegister(t *testing.T) {
	t.Run("creates the account without exposing the hash", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		w := env.do(t, "POST", "/api/users", map[string]any{
			"username": "reader", "email": "reader@example.com", "password": "correct horse battery",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "password")
		assert.NotContains(t, w.Body.String(), "hash")

		var user entities.User
		decodeJSON(t, w, &user)
		assert.NotZero(t, user.ID)
		assert.Equal(t, "reader", user.Username)
	})

	t.Run("duplicate username is 409", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		payload := map[string]any{
			"username": "reader", "email": "reader@example.com", "password": "correct horse battery",
		}
		w := env.do(t, "POST", "/api/users", payload)
		require.Equal(t, http.StatusCreated, w.Code)

		payload["email"] = "other@example.com"
		w = env.do(t, "POST", "/api/users", payload)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing password is 400", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		w := env.do(t, "POST", "/api/users", map[string]any{
			"username": "reader", "email": "reader@example.com",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUserProfile(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	user, err := env.accounts.CreateUser("reader", "reader@example.com", "correct horse battery")
	require.NoError(t, err)

	w := env.do(t, "PUT", fmt.Sprintf("/api/users/%d/profile", user.ID), map[string]any{
		"bio": "Reads everything twice.",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", fmt.Sprintf("/api/users/%d", user.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var got entities.User
	decodeJSON(t, w, &got)
	assert.Equal(t, "Reads everything twice.", got.Bio)
}

func TestDeleteUserEndpoint(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	user, err := env.accounts.CreateUser("reader", "reader@example.com", "correct horse battery")
	require.NoError(t, err)

	w := env.do(t, "DELETE", fmt.Sprintf("/api/users/%d", user.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", fmt.Sprintf("/api/users/%d", user.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReadingListEndpoints(t *testing.T) {
	t.Run("private lists stay off the public index", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()
		_, book, _ := seedCatalog(t, env)
		user, err := env.accounts.CreateUser("reader", "reader@example.com", "correct horse battery")
		require.NoError(t, err)

		w := env.do(t, "POST", fmt.Sprintf("/api/users/%d/lists", user.ID), map[string]any{
			"name": "To Read", "is_public": false,
		})
		require.Equal(t, http.StatusCreated, w.Code)
		var private entities.ReadingList
		decodeJSON(t, w, &private)

		w = env.do(t, "POST", fmt.Sprintf("/api/users/%d/lists", user.ID), map[string]any{
			"name": "Favourites", "is_public": true,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = env.do(t, "GET", "/api/lists", nil)
		var public struct {
			Lists []entities.ReadingList `json:"lists"`
		}
		decodeJSON(t, w, &public)
		require.Len(t, public.Lists, 1)
		assert.Equal(t, "Favourites", public.Lists[0].Name)

		w = env.do(t, "POST", fmt.Sprintf("/api/lists/%d/books/%d", private.ID, book.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, "GET", fmt.Sprintf("/api/lists/%d", private.ID), nil)
		var got entities.ReadingList
		decodeJSON(t, w, &got)
		assert.Len(t, got.Books, 1)
	})

	t.Run("deleting a list keeps its books", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()
		_, book, _ := seedCatalog(t, env)
		user, err := env.accounts.CreateUser("reader", "reader@example.com", "correct horse battery")
		require.NoError(t, err)

		list := &entities.ReadingList{UserID: user.ID, Name: "Ephemeral"}
		require.NoError(t, env.accounts.CreateReadingList(list))
		require.NoError(t, env.accounts.AddBookToReadingList(list.ID, book.ID))

		w := env.do(t, "DELETE", fmt.Sprintf("/api/lists/%d", list.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, "GET", fmt.Sprintf("/api/books/%d", book.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestReviewEndpoints(t *testing.T) {
	t.Run("create and list for a book", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()
		_, book, _ := seedCatalog(t, env)
		user, err := env.accounts.CreateUser("reader", "reader@example.com", "correct horse battery")
		require.NoError(t, err)

		w := env.do(t, "POST", fmt.Sprintf("/api/books/%d/reviews", book.ID), map[string]any{
			"user_id": user.ID, "rating": 5, "comment": "Bleak and brilliant.",
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		w = env.do(t, "GET", fmt.Sprintf("/api/books/%d/reviews", book.ID), nil)
		var resp struct {
			Reviews []entities.BookReview `json:"reviews"`
		}
		decodeJSON(t, w, &resp)
		require.Len(t, resp.Reviews, 1)
		assert.Equal(t, 5, resp.Reviews[0].Rating)
	})

	t.Run("second review for the same book is 409", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()
		_, book, _ := seedCatalog(t, env)
		user, err := env.accounts.CreateUser("reader", "reader@example.com", "correct horse battery")
		require.NoError(t, err)

		payload := map[string]any{"user_id": user.ID, "rating": 4}
		w := env.do(t, "POST", fmt.Sprintf("/api/books/%d/reviews", book.ID), payload)
		require.Equal(t, http.StatusCreated, w.Code)
		w = env.do(t, "POST", fmt.Sprintf("/api/books/%d/reviews", book.ID), payload)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("rating outside 1..5 is 400", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()
		_, book, _ := seedCatalog(t, env)
		user, err := env.accounts.CreateUser("reader", "reader@example.com", "correct horse battery")
		require.NoError(t, err)

		w := env.do(t, "POST", fmt.Sprintf("/api/books/%d/reviews", book.ID), map[string]any{
			"user_id": user.ID, "rating": 6,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete frees the slot", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()
		_, book, _ := seedCatalog(t, env)
		user, err := env.accounts.CreateUser("reader", "reader@example.com", "correct horse battery")
		require.NoError(t, err)

		review, err := env.accounts.CreateReview(user.ID, book.ID, 3, "")
		require.NoError(t, err)

		w := env.do(t, "DELETE", fmt.Sprintf("/api/reviews/%d", review.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, "POST", fmt.Sprintf("/api/books/%d/reviews", book.ID), map[string]any{
			"user_id": user.ID, "rating": 4,
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestFavoriteEndpoints(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	_, _, category := seedCatalog(t, env)
	user, err := env.accounts.CreateUser("reader", "reader@example.com", "correct horse battery")
	require.NoError(t, err)

	w := env.do(t, "POST", fmt.Sprintf("/api/users/%d/favorites/%d", user.ID, category.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	got, err := env.accounts.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Len(t, got.FavoriteCategories, 1)

	w = env.do(t, "DELETE", fmt.Sprintf("/api/users/%d/favorites/%d", user.ID, category.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	got, err = env.accounts.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, got.FavoriteCategories)
}
