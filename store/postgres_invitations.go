package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"budgetapp/models"
	"budgetapp/utils"
)

func (p *Postgres) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	inv.Status = models.InviteStatusPending
	inv.CreatedAt = time.Now()

	// Serializable so two concurrent issues for the same pair cannot both
	// pass the duplicate check; the partial unique index back-stops it.
	err := utils.WithSerializableTransaction(ctx, p.db, func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRowContext(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM invitations
				WHERE budget_id = $1 AND invited_user_id = $2 AND status = 'pending'
			)
		`, inv.BudgetID, inv.InvitedUserID).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicatePending
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO invitations (id, budget_id, invited_user_id, invited_by, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, inv.ID, inv.BudgetID, inv.InvitedUserID, inv.InvitedBy, inv.Status, inv.CreatedAt)
		return err
	})

	if utils.IsUniqueViolation(err, "idx_invitations_pending_pair") {
		return ErrDuplicatePending
	}
	return err
}

func (p *Postgres) GetInvitation(ctx context.Context, inviteID string) (*models.Invitation, error) {
	var inv models.Invitation
	var respondedAt sql.NullTime
	err := p.db.QueryRowContext(ctx, `
		SELECT id, budget_id, invited_user_id, invited_by, status, created_at, responded_at
		FROM invitations
		WHERE id = $1
	`, inviteID).Scan(&inv.ID, &inv.BudgetID, &inv.InvitedUserID, &inv.InvitedBy, &inv.Status, &inv.CreatedAt, &respondedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if respondedAt.Valid {
		inv.RespondedAt = &respondedAt.Time
	}
	return &inv, nil
}

func (p *Postgres) AcceptInvitation(ctx context.Context, inviteID string, respondedAt time.Time) error {
	err := utils.WithSerializableTransaction(ctx, p.db, func(tx *sql.Tx) error {
		var budgetID, invitedUserID string
		err := tx.QueryRowContext(ctx, `
			UPDATE invitations
			SET status = 'accepted', responded_at = $2
			WHERE id = $1 AND status = 'pending'
			RETURNING budget_id, invited_user_id
		`, inviteID, respondedAt).Scan(&budgetID, &invitedUserID)

		if err == sql.ErrNoRows {
			return ErrNotPending
		}
		if err != nil {
			return err
		}

		// Status flip and membership insert commit together or not at all.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO budget_members (id, budget_id, user_id, role, joined_at)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New().String(), budgetID, invitedUserID, models.RoleContributor, respondedAt)
		return err
	})

	if utils.IsUniqueViolation(err, "budget_members_budget_id_user_id_key") {
		return ErrAlreadyMember
	}
	return err
}

func (p *Postgres) DeclineInvitation(ctx context.Context, inviteID string, respondedAt time.Time) error {
	result, err := p.db.ExecContext(ctx, `
		UPDATE invitations
		SET status = 'declined', responded_at = $2
		WHERE id = $1 AND status = 'pending'
	`, inviteID, respondedAt)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotPending
	}
	return nil
}

func (p *Postgres) ListPendingInvitations(ctx context.Context, invitedUserID string) ([]models.Invitation, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT i.id, i.budget_id, i.invited_user_id, i.invited_by, i.status, i.created_at,
		       b.name, u.username
		FROM invitations i
		INNER JOIN budgets b ON b.id = i.budget_id
		INNER JOIN users u ON u.id = i.invited_by
		WHERE i.invited_user_id = $1 AND i.status = 'pending'
		ORDER BY i.created_at DESC
	`, invitedUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invites := []models.Invitation{}
	for rows.Next() {
		var inv models.Invitation
		if err := rows.Scan(&inv.ID, &inv.BudgetID, &inv.InvitedUserID, &inv.InvitedBy,
			&inv.Status, &inv.CreatedAt, &inv.BudgetName, &inv.InvitedByUsername); err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (p *Postgres) ListSentInvitations(ctx context.Context, inviterID string, limit int) ([]models.Invitation, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT i.id, i.budget_id, i.invited_user_id, i.invited_by, i.status, i.created_at, i.responded_at,
		       b.name, u.username, u.email
		FROM invitations i
		INNER JOIN budgets b ON b.id = i.budget_id
		INNER JOIN users u ON u.id = i.invited_user_id
		WHERE i.invited_by = $1
		ORDER BY i.created_at DESC
		LIMIT $2
	`, inviterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invites := []models.Invitation{}
	for rows.Next() {
		var inv models.Invitation
		var respondedAt sql.NullTime
		if err := rows.Scan(&inv.ID, &inv.BudgetID, &inv.InvitedUserID, &inv.InvitedBy,
			&inv.Status, &inv.CreatedAt, &respondedAt,
			&inv.BudgetName, &inv.InvitedUsername, &inv.InvitedEmail); err != nil {
			return nil, err
		}
		if respondedAt.Valid {
			inv.RespondedAt = &respondedAt.Time
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}
