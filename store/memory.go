package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"budgetapp/models"
)

// Memory is an in-memory Store used by tests and local development. All
// methods take the store lock, which gives the same atomicity the postgres
// implementation gets from transactions.
type Memory struct {
	mu            sync.Mutex
	users         map[string]models.User
	budgets       map[string]models.Budget
	members       map[string]models.BudgetMember
	invitations   map[string]models.Invitation
	notifications map[string]models.Notification
	transactions  map[string]models.Transaction
	categories    map[string]models.Category
	seq           int
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		users:         make(map[string]models.User),
		budgets:       make(map[string]models.Budget),
		members:       make(map[string]models.BudgetMember),
		invitations:   make(map[string]models.Invitation),
		notifications: make(map[string]models.Notification),
		transactions:  make(map[string]models.Transaction),
		categories:    make(map[string]models.Category),
	}
}

// AddUser registers a user row so ResolveUser and the list joins can see it.
func (m *Memory) AddUser(user models.User) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = models.UserRoleUser
	}
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return user
}

func (m *Memory) ResolveUser(ctx context.Context, identifier string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ident := strings.ToLower(strings.TrimSpace(identifier))
	for _, u := range m.users {
		if strings.ToLower(u.Email) == ident || strings.ToLower(u.Username) == ident {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (m *Memory) GetMembership(ctx context.Context, budgetID, userID string) (*models.BudgetMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getMembershipLocked(budgetID, userID)
}

func (m *Memory) getMembershipLocked(budgetID, userID string) (*models.BudgetMember, error) {
	for _, member := range m.members {
		if member.BudgetID == budgetID && member.UserID == userID {
			found := member
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListMembers(ctx context.Context, budgetID string) ([]models.BudgetMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	members := []models.BudgetMember{}
	for _, member := range m.members {
		if member.BudgetID != budgetID {
			continue
		}
		if u, ok := m.users[member.UserID]; ok {
			member.Username = u.Username
			member.Email = u.Email
		}
		members = append(members, member)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].JoinedAt.Before(members[j].JoinedAt) })
	return members, nil
}

func (m *Memory) CreateBudget(ctx context.Context, budget *models.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	budget.CreatedAt = m.tick()
	m.budgets[budget.ID] = *budget

	member := models.BudgetMember{
		ID:       uuid.New().String(),
		BudgetID: budget.ID,
		UserID:   budget.OwnerID,
		Role:     models.RoleOwner,
		JoinedAt: m.tick(),
	}
	m.members[member.ID] = member
	return nil
}

func (m *Memory) GetBudget(ctx context.Context, budgetID string) (*models.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	budget, ok := m.budgets[budgetID]
	if !ok {
		return nil, ErrNotFound
	}
	return &budget, nil
}

func (m *Memory) ListBudgetsForUser(ctx context.Context, userID string) ([]models.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	budgets := []models.Budget{}
	for _, member := range m.members {
		if member.UserID != userID {
			continue
		}
		budget, ok := m.budgets[member.BudgetID]
		if !ok {
			continue
		}
		budget.Role = member.Role
		budget.IsOwner = budget.OwnerID == userID
		budgets = append(budgets, budget)
	}
	sort.Slice(budgets, func(i, j int) bool { return budgets[i].CreatedAt.After(budgets[j].CreatedAt) })
	return budgets, nil
}

func (m *Memory) DeleteBudget(ctx context.Context, budgetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.budgets[budgetID]; !ok {
		return ErrNotFound
	}
	delete(m.budgets, budgetID)
	for id, member := range m.members {
		if member.BudgetID == budgetID {
			delete(m.members, id)
		}
	}
	for id, inv := range m.invitations {
		if inv.BudgetID == budgetID {
			delete(m.invitations, id)
		}
	}
	for id, t := range m.transactions {
		if t.BudgetID == budgetID {
			delete(m.transactions, id)
		}
	}
	return nil
}

func (m *Memory) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.invitations {
		if existing.BudgetID == inv.BudgetID &&
			existing.InvitedUserID == inv.InvitedUserID &&
			existing.Status == models.InviteStatusPending {
			return ErrDuplicatePending
		}
	}

	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	inv.Status = models.InviteStatusPending
	inv.CreatedAt = m.tick()
	m.invitations[inv.ID] = *inv
	return nil
}

func (m *Memory) GetInvitation(ctx context.Context, inviteID string) (*models.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inv, ok := m.invitations[inviteID]
	if !ok {
		return nil, ErrNotFound
	}
	return &inv, nil
}

func (m *Memory) AcceptInvitation(ctx context.Context, inviteID string, respondedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	inv, ok := m.invitations[inviteID]
	if !ok {
		return ErrNotFound
	}
	if inv.Status != models.InviteStatusPending {
		return ErrNotPending
	}
	if _, err := m.getMembershipLocked(inv.BudgetID, inv.InvitedUserID); err == nil {
		return ErrAlreadyMember
	}

	inv.Status = models.InviteStatusAccepted
	inv.RespondedAt = &respondedAt
	m.invitations[inviteID] = inv

	member := models.BudgetMember{
		ID:       uuid.New().String(),
		BudgetID: inv.BudgetID,
		UserID:   inv.InvitedUserID,
		Role:     models.RoleContributor,
		JoinedAt: respondedAt,
	}
	m.members[member.ID] = member
	return nil
}

func (m *Memory) DeclineInvitation(ctx context.Context, inviteID string, respondedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	inv, ok := m.invitations[inviteID]
	if !ok {
		return ErrNotFound
	}
	if inv.Status != models.InviteStatusPending {
		return ErrNotPending
	}

	inv.Status = models.InviteStatusDeclined
	inv.RespondedAt = &respondedAt
	m.invitations[inviteID] = inv
	return nil
}

func (m *Memory) ListPendingInvitations(ctx context.Context, invitedUserID string) ([]models.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	invites := []models.Invitation{}
	for _, inv := range m.invitations {
		if inv.InvitedUserID != invitedUserID || inv.Status != models.InviteStatusPending {
			continue
		}
		m.decorateInviteLocked(&inv)
		invites = append(invites, inv)
	}
	sort.Slice(invites, func(i, j int) bool { return invites[i].CreatedAt.After(invites[j].CreatedAt) })
	return invites, nil
}

func (m *Memory) ListSentInvitations(ctx context.Context, inviterID string, limit int) ([]models.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	invites := []models.Invitation{}
	for _, inv := range m.invitations {
		if inv.InvitedBy != inviterID {
			continue
		}
		m.decorateInviteLocked(&inv)
		invites = append(invites, inv)
	}
	sort.Slice(invites, func(i, j int) bool { return invites[i].CreatedAt.After(invites[j].CreatedAt) })
	if limit > 0 && len(invites) > limit {
		invites = invites[:limit]
	}
	return invites, nil
}

func (m *Memory) decorateInviteLocked(inv *models.Invitation) {
	if b, ok := m.budgets[inv.BudgetID]; ok {
		inv.BudgetName = b.Name
	}
	if u, ok := m.users[inv.InvitedBy]; ok {
		inv.InvitedByUsername = u.Username
	}
	if u, ok := m.users[inv.InvitedUserID]; ok {
		inv.InvitedUsername = u.Username
		inv.InvitedEmail = u.Email
	}
}

func (m *Memory) CreateNotification(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = m.tick()
	m.notifications[n.ID] = *n
	return nil
}

func (m *Memory) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	notifications := []models.Notification{}
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		notifications = append(notifications, n)
	}
	sort.Slice(notifications, func(i, j int) bool { return notifications[i].CreatedAt.After(notifications[j].CreatedAt) })
	if limit > 0 && len(notifications) > limit {
		notifications = notifications[:limit]
	}
	return notifications, nil
}

func (m *Memory) MarkNotificationRead(ctx context.Context, notificationID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notifications[notificationID]
	if !ok || n.UserID != userID {
		return ErrNotFound
	}
	n.IsRead = true
	m.notifications[notificationID] = n
	return nil
}

func (m *Memory) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			m.notifications[id] = n
		}
	}
	return nil
}

func (m *Memory) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.CategoryID = m.findOrCreateCategoryLocked(t.CategoryName)
	t.CreatedAt = m.tick()
	if u, ok := m.users[t.UserID]; ok {
		t.Username = u.Username
	}
	m.transactions[t.ID] = *t
	return nil
}

func (m *Memory) findOrCreateCategoryLocked(name string) string {
	for _, c := range m.categories {
		if c.Name == name {
			return c.ID
		}
	}
	c := models.Category{ID: uuid.New().String(), Name: name}
	m.categories[c.ID] = c
	return c.ID
}

func (m *Memory) GetTransaction(ctx context.Context, budgetID, transactionID string) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.transactions[transactionID]
	if !ok || t.BudgetID != budgetID {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (m *Memory) ListTransactions(ctx context.Context, budgetID string) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	transactions := []models.Transaction{}
	for _, t := range m.transactions {
		if t.BudgetID != budgetID {
			continue
		}
		transactions = append(transactions, t)
	}
	sort.Slice(transactions, func(i, j int) bool {
		if transactions[i].Date != transactions[j].Date {
			return transactions[i].Date > transactions[j].Date
		}
		return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
	})
	return transactions, nil
}

func (m *Memory) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.transactions[t.ID]
	if !ok || existing.BudgetID != t.BudgetID {
		return ErrNotFound
	}

	existing.CategoryName = t.CategoryName
	existing.CategoryID = m.findOrCreateCategoryLocked(t.CategoryName)
	existing.Amount = t.Amount
	existing.Currency = t.Currency
	existing.Type = t.Type
	existing.Date = t.Date
	existing.Description = t.Description
	m.transactions[t.ID] = existing
	*t = existing
	return nil
}

func (m *Memory) DeleteTransaction(ctx context.Context, budgetID, transactionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.transactions[transactionID]
	if !ok || t.BudgetID != budgetID {
		return ErrNotFound
	}
	delete(m.transactions, transactionID)
	return nil
}

func (m *Memory) ListCategories(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	categories := []models.Category{}
	for _, c := range m.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (m *Memory) GetBudgetSummary(ctx context.Context, budgetID string) (*models.BudgetSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	budget, ok := m.budgets[budgetID]
	if !ok {
		return nil, ErrNotFound
	}

	summary := &models.BudgetSummary{BudgetID: budgetID, Currency: budget.Currency}
	for _, t := range m.transactions {
		if t.BudgetID != budgetID {
			continue
		}
		switch t.Type {
		case models.TransactionIncome:
			summary.TotalIncome += t.Amount
		case models.TransactionExpense:
			summary.TotalExpense += t.Amount
		}
	}
	summary.Net = summary.TotalIncome - summary.TotalExpense
	return summary, nil
}

// tick returns a strictly increasing timestamp so newest-first ordering is
// deterministic even when many rows are written in the same nanosecond.
func (m *Memory) tick() time.Time {
	m.seq++
	return time.Now().Add(time.Duration(m.seq) * time.Microsecond)
}
