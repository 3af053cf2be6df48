package state

import "sync"

// Conversation states for the entry dialog
const (
	None                  = "none"
	WaitingForGlucose     = "waiting_for_glucose"
	WaitingForCarbs       = "waiting_for_carbs"
	WaitingForInsulin     = "waiting_for_insulin"
	WaitingForInsulinKind = "waiting_for_insulin_kind"
	WaitingForNote        = "waiting_for_note"
	WaitingForConfirm     = "waiting_for_confirm"
)

// Temp data keys collected across the dialog
const (
	KeyGlucose     = "glucose"
	KeyCarbs       = "carbs"
	KeyInsulin     = "insulin"
	KeyInsulinKind = "insulin_kind"
	KeyNote        = "note"
)

// StateManager tracks where each user is in the entry dialog and the
// raw field values collected so far.
type StateManager interface {
	GetUserState(userID int64) string
	SetUserState(userID int64, state string)
	ClearUserState(userID int64)
	SetTempData(userID int64, key, value string)
	GetTempData(userID int64, key string) (string, bool)
	ClearTempData(userID int64)
}

// Manager is the in-memory state manager
type Manager struct {
	userStates map[int64]string
	tempData   map[int64]map[string]string
	mu         sync.RWMutex
}

// NewManager creates a new in-memory state manager
func NewManager() *Manager {
	return &Manager{
		userStates: make(map[int64]string),
		tempData:   make(map[int64]map[string]string),
	}
}

// GetUserState gets the state for a user
func (m *Manager) GetUserState(userID int64) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, exists := m.userStates[userID]
	if !exists {
		return None
	}
	return state
}

// SetUserState sets the state for a user
func (m *Manager) SetUserState(userID int64, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userStates[userID] = state
}

// ClearUserState clears the state for a user
func (m *Manager) ClearUserState(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.userStates, userID)
}

// SetTempData sets one collected field for a user
func (m *Manager) SetTempData(userID int64, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tempData[userID] == nil {
		m.tempData[userID] = make(map[string]string)
	}
	m.tempData[userID][key] = value
}

// GetTempData gets one collected field for a user
func (m *Manager) GetTempData(userID int64, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, exists := m.tempData[userID][key]
	return value, exists
}

// ClearTempData drops all collected fields for a user
func (m *Manager) ClearTempData(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tempData, userID)
}
