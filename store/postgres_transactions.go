package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"budgetapp/models"
	"budgetapp/utils"
)

func (p *Postgres) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.CreatedAt = time.Now()

	return utils.WithTransaction(p.db, func(tx *sql.Tx) error {
		categoryID, err := findOrCreateCategory(ctx, tx, t.CategoryName)
		if err != nil {
			return err
		}
		t.CategoryID = categoryID

		_, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (id, budget_id, user_id, category_id, amount, currency, type, date, description, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10)
		`, t.ID, t.BudgetID, t.UserID, t.CategoryID, t.Amount, t.Currency, t.Type, t.Date, t.Description, t.CreatedAt)
		return err
	})
}

func findOrCreateCategory(ctx context.Context, tx *sql.Tx, name string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM categories WHERE name = $1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	id = uuid.New().String()
	// Concurrent inserts of the same name resolve to the existing row.
	err = tx.QueryRowContext(ctx, `
		INSERT INTO categories (id, name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, id, name).Scan(&id)
	return id, err
}

func (p *Postgres) GetTransaction(ctx context.Context, budgetID, transactionID string) (*models.Transaction, error) {
	var t models.Transaction
	var description sql.NullString
	err := p.db.QueryRowContext(ctx, `
		SELECT t.id, t.budget_id, t.user_id, t.category_id, c.name, t.amount, t.currency, t.type,
		       to_char(t.date, 'YYYY-MM-DD'), t.description, t.created_at, u.username
		FROM transactions t
		INNER JOIN categories c ON c.id = t.category_id
		INNER JOIN users u ON u.id = t.user_id
		WHERE t.id = $1 AND t.budget_id = $2
	`, transactionID, budgetID).Scan(&t.ID, &t.BudgetID, &t.UserID, &t.CategoryID, &t.CategoryName,
		&t.Amount, &t.Currency, &t.Type, &t.Date, &description, &t.CreatedAt, &t.Username)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.Description = description.String
	return &t, nil
}

func (p *Postgres) ListTransactions(ctx context.Context, budgetID string) ([]models.Transaction, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT t.id, t.budget_id, t.user_id, t.category_id, c.name, t.amount, t.currency, t.type,
		       to_char(t.date, 'YYYY-MM-DD'), t.description, t.created_at, u.username
		FROM transactions t
		INNER JOIN categories c ON c.id = t.category_id
		INNER JOIN users u ON u.id = t.user_id
		WHERE t.budget_id = $1
		ORDER BY t.date DESC, t.created_at DESC
	`, budgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var description sql.NullString
		if err := rows.Scan(&t.ID, &t.BudgetID, &t.UserID, &t.CategoryID, &t.CategoryName,
			&t.Amount, &t.Currency, &t.Type, &t.Date, &description, &t.CreatedAt, &t.Username); err != nil {
			return nil, err
		}
		t.Description = description.String
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (p *Postgres) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	return utils.WithTransaction(p.db, func(tx *sql.Tx) error {
		categoryID, err := findOrCreateCategory(ctx, tx, t.CategoryName)
		if err != nil {
			return err
		}
		t.CategoryID = categoryID

		result, err := tx.ExecContext(ctx, `
			UPDATE transactions
			SET category_id = $1, amount = $2, currency = $3, type = $4, date = $5, description = NULLIF($6, '')
			WHERE id = $7 AND budget_id = $8
		`, t.CategoryID, t.Amount, t.Currency, t.Type, t.Date, t.Description, t.ID, t.BudgetID)
		if err != nil {
			return err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (p *Postgres) DeleteTransaction(ctx context.Context, budgetID, transactionID string) error {
	result, err := p.db.ExecContext(ctx, `
		DELETE FROM transactions
		WHERE id = $1 AND budget_id = $2
	`, transactionID, budgetID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, '')
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (p *Postgres) GetBudgetSummary(ctx context.Context, budgetID string) (*models.BudgetSummary, error) {
	summary := &models.BudgetSummary{BudgetID: budgetID}
	err := p.db.QueryRowContext(ctx, `
		SELECT b.currency,
		       COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'INCOME'), 0),
		       COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'EXPENSE'), 0)
		FROM budgets b
		LEFT JOIN transactions t ON t.budget_id = b.id
		WHERE b.id = $1
		GROUP BY b.currency
	`, budgetID).Scan(&summary.Currency, &summary.TotalIncome, &summary.TotalExpense)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	summary.Net = summary.TotalIncome - summary.TotalExpense
	return summary, nil
}
