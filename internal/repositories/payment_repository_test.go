package repository_test

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/revorbit/auto-frames/internal/models"
	repository "github.com/revorbit/auto-frames/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPaymentRepoTest(t *testing.T) (repository.PaymentRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	return repository.NewPaymentRepository(db), mock
}

var paymentColumnNames = []string{"id", "checkout_session_id", "customer_id", "amount", "currency", "status", "payment_method", "created_at", "updated_at"}

func TestCreatePayment(t *testing.T) {
	ctx := t.Context()
	now := time.Now()
	payment := &models.Payment{
		ID:                "pi_123",
		CheckoutSessionID: uuid.New(),
		CustomerID:        uuid.New(),
		Amount:            353800,
		Currency:          "inr",
		Status:            models.PaymentStatusPending,
		PaymentMethod:     "card",
	}

	t.Run("Success", func(t *testing.T) {
		repo, mock := setupPaymentRepoTest(t)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO payments`)).
			WithArgs(payment.ID, payment.CheckoutSessionID, payment.CustomerID, payment.Amount, payment.Currency, payment.Status, payment.PaymentMethod).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		require.NoError(t, repo.CreatePayment(ctx, payment))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Duplicate Intent", func(t *testing.T) {
		repo, mock := setupPaymentRepoTest(t)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO payments`)).WillReturnError(&pq.Error{Code: "23505"})

		assert.ErrorIs(t, repo.CreatePayment(ctx, payment), repository.ErrDuplicate)
	})
}

func TestGetPayment(t *testing.T) {
	ctx := t.Context()
	now := time.Now()
	sessionID := uuid.New()
	customerID := uuid.New()

	t.Run("Success - By ID", func(t *testing.T) {
		repo, mock := setupPaymentRepoTest(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM payments WHERE id = $1`)).
			WithArgs("pi_123").
			WillReturnRows(sqlmock.NewRows(paymentColumnNames).
				AddRow("pi_123", sessionID.String(), customerID.String(), int64(353800), "inr", "pending", "card", now, now))

		p, err := repo.GetPaymentByID(ctx, "pi_123")

		require.NoError(t, err)
		assert.Equal(t, int64(353800), p.Amount)
		assert.Equal(t, sessionID, p.CheckoutSessionID)
	})

	t.Run("Success - Latest By Session", func(t *testing.T) {
		repo, mock := setupPaymentRepoTest(t)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE checkout_session_id = $1 ORDER BY created_at DESC LIMIT 1`)).
			WithArgs(sessionID).
			WillReturnRows(sqlmock.NewRows(paymentColumnNames).
				AddRow("pi_456", sessionID.String(), customerID.String(), int64(100), "inr", "succeeded", "card", now, now))

		p, err := repo.GetLatestPaymentBySession(ctx, sessionID)

		require.NoError(t, err)
		assert.Equal(t, "pi_456", p.ID)
		assert.Equal(t, models.PaymentStatusSucceeded, p.Status)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		repo, mock := setupPaymentRepoTest(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM payments`)).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetPaymentByID(ctx, "pi_missing")

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestUpdatePaymentStatus(t *testing.T) {
	ctx := t.Context()

	t.Run("Success", func(t *testing.T) {
		repo, mock := setupPaymentRepoTest(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE payments SET status = $1, updated_at = NOW() WHERE id = $2`)).
			WithArgs(models.PaymentStatusSucceeded, "pi_123").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdatePaymentStatus(ctx, "pi_123", models.PaymentStatusSucceeded))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		repo, mock := setupPaymentRepoTest(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE payments`)).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdatePaymentStatus(ctx, "pi_123", models.PaymentStatusFailed), repository.ErrNotFound)
	})
}
