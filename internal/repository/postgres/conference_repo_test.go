package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confbooking/internal/domain"
)

func newConference() *domain.Conference {
	return &domain.Conference{
		Title:       "GoConf 2026",
		Description: "Annual Go conference",
		Image:       "goconf.png",
		Price:       199.0,
		Active:      true,
		DateStart:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		DateEnd:     time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC),
		Workshops:   []*domain.Workshop{{Title: "Generics deep dive"}},
		Optionals:   []*domain.Optional{{Title: "Gala dinner", Price: 50}},
	}
}

func TestConferenceRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		c := newConference()
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO conferences`).
			WithArgs(c.Title, c.Description, c.Image, c.Price, c.Active, c.DateStart, c.DateEnd).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery(`INSERT INTO conferences_workshops`).
			WithArgs(int64(7), "Generics deep dive").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		mock.ExpectQuery(`INSERT INTO conferences_optionals`).
			WithArgs(int64(7), "Gala dinner", 50.0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
		mock.ExpectCommit()

		repo := NewConferenceRepository(db)
		require.NoError(t, repo.Create(ctx, c))
		assert.Equal(t, int64(7), c.ID)
		assert.Equal(t, int64(11), c.Workshops[0].ID)
		assert.Equal(t, int64(21), c.Optionals[0].ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("child insert failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		c := newConference()
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO conferences`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery(`INSERT INTO conferences_workshops`).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		repo := NewConferenceRepository(db)
		require.Error(t, repo.Create(ctx, c))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConferenceRepository_Update_reconciliation(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Submitted set: optional 2 updated, optional without id created,
	// workshop 5 updated. Rows outside the recorded id sets get deleted.
	c := &domain.Conference{
		Title:       "GoConf 2026",
		Description: "Updated description",
		Image:       "goconf.png",
		Price:       249.0,
		Active:      true,
		DateStart:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		DateEnd:     time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC),
		Workshops:   []*domain.Workshop{{ID: 5, Title: "Concurrency patterns"}},
		Optionals: []*domain.Optional{
			{ID: 2, Title: "Gala dinner", Price: 60},
			{Title: "City tour", Price: 30},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE conferences`).
		WithArgs(c.Title, c.Description, c.Image, c.Price, c.Active, c.DateStart, c.DateEnd, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE conferences_optionals`).
		WithArgs("Gala dinner", 60.0, int64(9), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO conferences_optionals`).
		WithArgs(int64(9), "City tour", 30.0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
	mock.ExpectExec(`DELETE FROM conferences_optionals`).
		WithArgs(int64(9), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE conferences_workshops`).
		WithArgs("Concurrency patterns", int64(9), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM conferences_workshops`).
		WithArgs(int64(9), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	repo := NewConferenceRepository(db)
	require.NoError(t, repo.Update(ctx, c, 9))
	// The newly created optional's id joins the keep set.
	assert.Equal(t, int64(8), c.Optionals[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConferenceRepository_Update_failure_rolls_back(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	c := newConference()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE conferences`).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	repo := NewConferenceRepository(db)
	require.Error(t, repo.Update(ctx, c, 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConferenceRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found with children", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT (.+) FROM conferences WHERE id`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "image", "price", "active", "date_start", "date_end"}).
				AddRow(7, "GoConf 2026", "desc", "img.png", 199.0, true, start, end))
		mock.ExpectQuery(`SELECT (.+) FROM conferences_workshops`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).
				AddRow(1, "Generics deep dive").
				AddRow(2, "Concurrency patterns"))
		mock.ExpectQuery(`SELECT (.+) FROM conferences_optionals`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price"}).
				AddRow(3, "Gala dinner", 50.0))

		repo := NewConferenceRepository(db)
		c, err := repo.GetByID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "GoConf 2026", c.Title)
		assert.Len(t, c.Workshops, 2)
		assert.Len(t, c.Optionals, 1)
		assert.Equal(t, "Gala dinner", c.Optionals[0].Title)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM conferences WHERE id`).
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)

		repo := NewConferenceRepository(db)
		_, err = repo.GetByID(ctx, 404)
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConferenceRepository_GetActive(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT (.+) FROM conferences WHERE active`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "image", "price", "active", "date_start", "date_end"}).
				AddRow(7, "GoConf 2026", "desc", "img.png", 199.0, true, start, end))

		repo := NewConferenceRepository(db)
		c, err := repo.GetActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(7), c.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("none active", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM conferences WHERE active`).
			WillReturnError(sql.ErrNoRows)

		repo := NewConferenceRepository(db)
		_, err = repo.GetActive(ctx)
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConferenceRepository_Delete_absent_id_succeeds(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM conferences`).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewConferenceRepository(db)
	require.NoError(t, repo.Delete(ctx, 404))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConferenceRepository_FindByOrderID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT conference_id FROM conferences_booking`).
			WithArgs("order-uuid-1").
			WillReturnRows(sqlmock.NewRows([]string{"conference_id"}).AddRow(7))
		mock.ExpectQuery(`SELECT (.+) FROM conferences WHERE id`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "image", "price", "active", "date_start", "date_end"}).
				AddRow(7, "GoConf 2026", "desc", "img.png", 199.0, true, start, end))
		mock.ExpectQuery(`SELECT (.+) FROM conferences_workshops`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))
		mock.ExpectQuery(`SELECT (.+) FROM conferences_optionals`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price"}))

		repo := NewConferenceRepository(db)
		c, err := repo.FindByOrderID(ctx, "order-uuid-1")
		require.NoError(t, err)
		assert.Equal(t, int64(7), c.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT conference_id FROM conferences_booking`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewConferenceRepository(db)
		_, err = repo.FindByOrderID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
