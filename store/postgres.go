package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"budgetapp/models"
	"budgetapp/utils"
)

// Postgres implements Store on top of database/sql + lib/pq.
type Postgres struct {
	db *sql.DB
}

var _ Store = (*Postgres)(nil)

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) ResolveUser(ctx context.Context, identifier string) (*models.User, error) {
	ident := strings.ToLower(strings.TrimSpace(identifier))

	var user models.User
	err := p.db.QueryRowContext(ctx, `
		SELECT id, email, username, role, created_at, updated_at
		FROM users
		WHERE LOWER(email) = $1 OR LOWER(username) = $1
		LIMIT 1
	`, ident).Scan(&user.ID, &user.Email, &user.Username, &user.Role, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (p *Postgres) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := p.db.QueryRowContext(ctx, `
		SELECT id, email, username, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID).Scan(&user.ID, &user.Email, &user.Username, &user.Role, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (p *Postgres) GetMembership(ctx context.Context, budgetID, userID string) (*models.BudgetMember, error) {
	var member models.BudgetMember
	err := p.db.QueryRowContext(ctx, `
		SELECT id, budget_id, user_id, role, joined_at
		FROM budget_members
		WHERE budget_id = $1 AND user_id = $2
	`, budgetID, userID).Scan(&member.ID, &member.BudgetID, &member.UserID, &member.Role, &member.JoinedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (p *Postgres) ListMembers(ctx context.Context, budgetID string) ([]models.BudgetMember, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT bm.id, bm.budget_id, bm.user_id, bm.role, bm.joined_at, u.username, u.email
		FROM budget_members bm
		INNER JOIN users u ON u.id = bm.user_id
		WHERE bm.budget_id = $1
		ORDER BY bm.joined_at ASC
	`, budgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []models.BudgetMember{}
	for rows.Next() {
		var m models.BudgetMember
		if err := rows.Scan(&m.ID, &m.BudgetID, &m.UserID, &m.Role, &m.JoinedAt, &m.Username, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (p *Postgres) CreateBudget(ctx context.Context, budget *models.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	budget.CreatedAt = time.Now()

	return utils.WithTransaction(p.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO budgets (id, name, currency, start_date, end_date, owner_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, budget.ID, budget.Name, budget.Currency, budget.StartDate, budget.EndDate, budget.OwnerID, budget.CreatedAt)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO budget_members (id, budget_id, user_id, role, joined_at)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New().String(), budget.ID, budget.OwnerID, models.RoleOwner, time.Now())
		return err
	})
}

func (p *Postgres) GetBudget(ctx context.Context, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	err := p.db.QueryRowContext(ctx, `
		SELECT id, name, currency, to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'), owner_id, created_at
		FROM budgets
		WHERE id = $1
	`, budgetID).Scan(&budget.ID, &budget.Name, &budget.Currency, &budget.StartDate, &budget.EndDate, &budget.OwnerID, &budget.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

func (p *Postgres) ListBudgetsForUser(ctx context.Context, userID string) ([]models.Budget, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT b.id, b.name, b.currency, to_char(b.start_date, 'YYYY-MM-DD'), to_char(b.end_date, 'YYYY-MM-DD'),
		       b.owner_id, b.created_at, bm.role
		FROM budgets b
		INNER JOIN budget_members bm ON bm.budget_id = b.id
		WHERE bm.user_id = $1
		ORDER BY b.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.Name, &b.Currency, &b.StartDate, &b.EndDate, &b.OwnerID, &b.CreatedAt, &b.Role); err != nil {
			return nil, err
		}
		b.IsOwner = b.OwnerID == userID
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (p *Postgres) DeleteBudget(ctx context.Context, budgetID string) error {
	return utils.WithTransaction(p.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE budget_id = $1`, budgetID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM invitations WHERE budget_id = $1`, budgetID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM budget_members WHERE budget_id = $1`, budgetID); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, budgetID)
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
