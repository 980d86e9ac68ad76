package devbackend

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/samarth/admin-console/internal/core/domain"
)

// Backend account roles.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN"
)

const (
	recentAuditLimit   = 5
	highUtilization    = 70.0
	defaultApproval    = "Pending"
	nduReferencePrefix = "NDU-"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("already exists")
)

type account struct {
	domain.Account
	hash []byte
}

type auditRecord struct {
	action string
	userID int
	at     time.Time
}

// Store is the in-memory state of the development backend.
type Store struct {
	mu sync.RWMutex

	nextID    int
	accounts  map[int]*account
	inventory map[int]domain.InventoryItem
	trainings map[int]domain.Training
	content   map[int]domain.ContentItem
	audit     []auditRecord

	now func() time.Time
}

// NewStore seeds the superadmin and admin accounts with seedPassword.
func NewStore(seedPassword string) (*Store, error) {
	s := &Store{
		accounts:  make(map[int]*account),
		inventory: make(map[int]domain.InventoryItem),
		trainings: make(map[int]domain.Training),
		content:   make(map[int]domain.ContentItem),
		now:       time.Now,
	}
	seed := []domain.NewAccount{
		{Username: "superadmin", Password: seedPassword, Role: RoleSuperAdmin, FullName: "Super Administrator"},
		{Username: "admin", Password: seedPassword, Role: RoleAdmin, FullName: "Project Administrator"},
	}
	for _, a := range seed {
		if _, err := s.CreateAccount(a); err != nil {
			return nil, fmt.Errorf("seed %s: %w", a.Username, err)
		}
	}
	return s, nil
}

func (s *Store) id() int {
	s.nextID++
	return s.nextID
}

func (s *Store) record(action string, userID int) {
	s.audit = append(s.audit, auditRecord{action: action, userID: userID, at: s.now()})
}

// Record appends an audit entry.
func (s *Store) Record(action string, userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(action, userID)
}

// --- Accounts ---

// Authenticate returns the account when password matches its bcrypt hash.
func (s *Store) Authenticate(username, password string) (domain.Account, bool) {
	s.mu.RLock()
	acc := s.byUsername(username)
	s.mu.RUnlock()
	if acc == nil || !acc.IsActive {
		return domain.Account{}, false
	}
	if bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return domain.Account{}, false
	}
	return acc.Account, true
}

func (s *Store) byUsername(username string) *account {
	for _, a := range s.accounts {
		if a.Username == username {
			return a
		}
	}
	return nil
}

// AccountByUsername looks up an active account.
func (s *Store) AccountByUsername(username string) (domain.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc := s.byUsername(username)
	if acc == nil {
		return domain.Account{}, false
	}
	return acc.Account, true
}

func (s *Store) CreateAccount(in domain.NewAccount) (domain.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Account{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byUsername(in.Username) != nil {
		return domain.Account{}, fmt.Errorf("username %s: %w", in.Username, errDuplicate)
	}
	acc := &account{
		Account: domain.Account{
			ID:       s.id(),
			Username: in.Username,
			Role:     in.Role,
			FullName: in.FullName,
			IsActive: true,
		},
		hash: hash,
	}
	s.accounts[acc.ID] = acc
	return acc.Account, nil
}

func (s *Store) Accounts() []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.Account)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) DeleteAccount(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return errNotFound
	}
	delete(s.accounts, id)
	return nil
}

// --- Inventory ---

func (s *Store) CreateInventory(item domain.InventoryItem, userID int) (domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.inventory {
		if existing.KitID == item.KitID {
			return domain.InventoryItem{}, fmt.Errorf("kit %s: %w", item.KitID, errDuplicate)
		}
	}
	item.ID = s.id()
	item.LastUpdated = s.now().UTC().Format(time.RFC3339)
	s.inventory[item.ID] = item
	s.record("CREATE_INVENTORY", userID)
	return item, nil
}

func (s *Store) Inventory() []domain.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.InventoryItem, 0, len(s.inventory))
	for _, it := range s.inventory {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) DeleteInventory(id, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inventory[id]; !ok {
		return errNotFound
	}
	delete(s.inventory, id)
	s.record("DELETE_INVENTORY", userID)
	return nil
}

// Utilization is the share of kits allocated to a batch.
func (s *Store) Utilization() domain.Utilization {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := len(s.inventory)
	if total == 0 {
		return domain.Utilization{}
	}
	allocated := 0
	for _, it := range s.inventory {
		if it.BatchID != nil {
			allocated++
		}
	}
	rate := math.Round(float64(allocated)/float64(total)*100*100) / 100
	status := "Low"
	if rate > highUtilization {
		status = "High"
	}
	return domain.Utilization{
		UtilizationRate:   rate,
		AllocatedKits:     allocated,
		TotalKits:         total,
		CorrelationStatus: status,
	}
}

// --- Training ---

func (s *Store) CreateTraining(t domain.Training, userID int) domain.Training {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.id()
	s.trainings[t.ID] = t
	s.record("CREATE_TRAINING", userID)
	return t
}

func (s *Store) Trainings() []domain.Training {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Training, 0, len(s.trainings))
	for _, t := range s.trainings {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) DeleteTraining(id, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trainings[id]; !ok {
		return errNotFound
	}
	delete(s.trainings, id)
	s.record("DELETE_TRAINING", userID)
	return nil
}

// --- Content ---

func (s *Store) CreateContent(c domain.ContentItem, userID int) domain.ContentItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	if c.ApprovalStatus == "" {
		c.ApprovalStatus = defaultApproval
	}
	s.content[c.ID] = c
	s.record("CREATE_CONTENT", userID)
	return c
}

func (s *Store) Content() []domain.ContentItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ContentItem, 0, len(s.content))
	for _, c := range s.content {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// --- Integration ---

// Sync assigns an NDU reference to the resource and returns it.
func (s *Store) Sync(kind domain.SyncKind, id, userID int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := nduReferencePrefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])

	switch kind {
	case domain.SyncContent:
		c, ok := s.content[id]
		if !ok {
			return "", errNotFound
		}
		c.NDUReferenceID = ref
		s.content[id] = c
	case domain.SyncTraining:
		t, ok := s.trainings[id]
		if !ok {
			return "", errNotFound
		}
		t.NDUMappingID = ref
		s.trainings[id] = t
	default:
		return "", errNotFound
	}
	s.record("SYNC_"+strings.ToUpper(string(kind)), userID)
	return ref, nil
}

// --- Dashboard ---

func (s *Store) Stats(role string) domain.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.DashboardStats{
		Inventory:    len(s.inventory),
		Batches:      len(s.trainings),
		ContentTotal: len(s.content),
		UserRole:     role,
		RecentLogs:   []domain.AuditEntry{},
	}
	for _, c := range s.content {
		switch c.Category {
		case "Practical":
			stats.ContentPractical++
		case "Pedagogy":
			stats.ContentPedagogy++
		}
		if c.NDUReferenceID == "" {
			stats.PendingSyncs++
		}
	}

	for i := len(s.audit) - 1; i >= 0 && len(stats.RecentLogs) < recentAuditLimit; i-- {
		rec := s.audit[i]
		user := "System"
		if rec.userID != 0 {
			user = fmt.Sprintf("User %d", rec.userID)
		}
		stats.RecentLogs = append(stats.RecentLogs, domain.AuditEntry{
			Action: rec.action,
			User:   user,
			Time:   rec.at.Format("15:04 02-Jan"),
		})
	}
	return stats
}
