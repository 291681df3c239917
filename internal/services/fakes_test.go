package services

import (
	"sort"
	"sync"
	"time"

	"assist_backend/internal/email"
	"assist_backend/internal/models"
	"assist_backend/internal/repositories"
	"assist_backend/internal/services/dto"

	"github.com/google/uuid"
)

// In-memory реализации репозиториев для юнит-тестов сервисов.
// Семантика условных обновлений (погашение кода, завершение заявки)
// повторяется под мьютексом, чтобы гонки проверялись честно.

// --- users ---

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*models.User
	tokens map[string]*models.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[string]*models.User),
		tokens: make(map[string]*models.RefreshToken),
	}
}

func (r *fakeUserRepo) addUser(role models.UserRole, email string) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := &models.User{
		BaseModel: models.BaseModel{ID: uuid.NewString(), CreatedAt: time.Now()},
		Email:     email,
		Role:      role,
		Status:    models.UserStatusActive,
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByVerificationToken(token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.VerificationToken != "" && u.VerificationToken == token {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) VerifyUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.IsVerified = true
	u.Status = models.UserStatusActive
	u.VerificationToken = ""
	return nil
}

func (r *fakeUserRepo) Delete(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
	return nil
}

func (r *fakeUserRepo) CreateRefreshToken(token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	r.tokens[token.Token] = token
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.tokens[token]
	if !ok {
		return nil, repositories.ErrTokenNotFound
	}
	return rt, nil
}

func (r *fakeUserRepo) DeleteRefreshToken(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *fakeUserRepo) DeleteUserRefreshTokens(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, rt := range r.tokens {
		if rt.UserID == userID {
			delete(r.tokens, k)
		}
	}
	return nil
}

func (r *fakeUserRepo) CleanExpiredRefreshTokens() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, rt := range r.tokens {
		if time.Now().After(rt.ExpiresAt) {
			delete(r.tokens, k)
		}
	}
	return nil
}

// --- profiles ---

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile // ключ - user_id
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*models.Profile)}
}

func (r *fakeProfileRepo) addProfile(userID, fullName string, role models.UserRole) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[userID] = &models.Profile{
		BaseModel: models.BaseModel{ID: uuid.NewString()},
		UserID:    userID,
		FullName:  fullName,
		Role:      role,
	}
}

func (r *fakeProfileRepo) Create(profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeProfileRepo) FindByUserID(userID string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) FindByUserIDs(userIDs []string) ([]models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Profile
	for _, id := range userIDs {
		if p, ok := r.profiles[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *fakeProfileRepo) UpdateFullName(userID, fullName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.FullName = fullName
	return nil
}

// --- linking ---

type fakeLinkingRepo struct {
	mu    sync.Mutex
	codes map[string]*models.LinkingCode // ключ - id кода
	pairs []models.PatientCaregiver
}

func newFakeLinkingRepo() *fakeLinkingRepo {
	return &fakeLinkingRepo{codes: make(map[string]*models.LinkingCode)}
}

func (r *fakeLinkingRepo) CreateCode(code *models.LinkingCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	code.CreatedAt = time.Now()
	r.codes[code.ID] = code
	return nil
}

func (r *fakeLinkingRepo) FindByCode(code string) (*models.LinkingCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matches []*models.LinkingCode
	for _, lc := range r.codes {
		if lc.Code == code {
			matches = append(matches, lc)
		}
	}
	if len(matches) == 0 {
		return nil, repositories.ErrCodeNotFound
	}
	// Самая свежая строка при дубликатах
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	copy := *matches[0]
	return &copy, nil
}

// RedeemCode повторяет атомарную семантику: связь и штамп used_by
// под одним замком, при неудаче ничего не остается.
func (r *fakeLinkingRepo) RedeemCode(codeID, patientID, caregiverID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.pairs {
		if p.PatientID == patientID && p.CaregiverID == caregiverID {
			return repositories.ErrPairExists
		}
	}

	lc, ok := r.codes[codeID]
	if !ok || lc.UsedBy != nil || !lc.ExpiresAt.After(now) {
		return repositories.ErrCodeTaken
	}

	r.pairs = append(r.pairs, models.PatientCaregiver{
		BaseModel:   models.BaseModel{ID: uuid.NewString(), CreatedAt: now},
		PatientID:   patientID,
		CaregiverID: caregiverID,
	})
	usedBy := caregiverID
	usedAt := now
	lc.UsedBy = &usedBy
	lc.UsedAt = &usedAt
	return nil
}

func (r *fakeLinkingRepo) LinkExists(patientID, caregiverID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.pairs {
		if p.PatientID == patientID && p.CaregiverID == caregiverID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLinkingRepo) FindCaregiverIDs(patientID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, p := range r.pairs {
		if p.PatientID == patientID {
			ids = append(ids, p.CaregiverID)
		}
	}
	return ids, nil
}

func (r *fakeLinkingRepo) FindPatientIDs(caregiverID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, p := range r.pairs {
		if p.CaregiverID == caregiverID {
			ids = append(ids, p.PatientID)
		}
	}
	return ids, nil
}

func (r *fakeLinkingRepo) CountCaregivers(patientID string) (int64, error) {
	ids, _ := r.FindCaregiverIDs(patientID)
	return int64(len(ids)), nil
}

func (r *fakeLinkingRepo) CountPatients(caregiverID string) (int64, error) {
	ids, _ := r.FindPatientIDs(caregiverID)
	return int64(len(ids)), nil
}

// --- requests ---

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[string]*models.Request
	order    []string // порядок вставки, заменяет created_at при равных метках
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]*models.Request)}
}

func (r *fakeRequestRepo) Create(request *models.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now()
	}
	r.requests[request.ID] = request
	r.order = append(r.order, request.ID)
	return nil
}

func (r *fakeRequestRepo) FindByID(id string) (*models.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, repositories.ErrRequestNotFound
	}
	copy := *req
	return &copy, nil
}

func (r *fakeRequestRepo) FindPendingByCaregiver(caregiverID string) ([]models.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Request
	for _, id := range r.order {
		req := r.requests[id]
		if req.CaregiverID == caregiverID && req.Status == models.RequestStatusPending {
			result = append(result, *req)
		}
	}
	// Срочные первыми, внутри группы FIFO (стабильная сортировка)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Urgent && !result[j].Urgent
	})
	return result, nil
}

func (r *fakeRequestRepo) Complete(requestID, caregiverID string, responseText *string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[requestID]
	if !ok || req.CaregiverID != caregiverID || req.Status != models.RequestStatusPending {
		return repositories.ErrRequestNotPending
	}
	req.Status = models.RequestStatusCompleted
	req.CompletedAt = &now
	if responseText != nil {
		req.ResponseText = responseText
	}
	return nil
}

func (r *fakeRequestRepo) FindHistoryByPatient(patientID string, limit int) ([]models.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Request
	// Новые первыми - обратный порядок вставки
	for i := len(r.order) - 1; i >= 0 && len(result) < limit; i-- {
		req := r.requests[r.order[i]]
		if req.PatientID == patientID {
			result = append(result, *req)
		}
	}
	return result, nil
}

func (r *fakeRequestRepo) CountPendingByCaregiver(caregiverID string) (int64, error) {
	reqs, _ := r.FindPendingByCaregiver(caregiverID)
	return int64(len(reqs)), nil
}

func (r *fakeRequestRepo) CountPendingByPatient(patientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, req := range r.requests {
		if req.PatientID == patientID && req.Status == models.RequestStatusPending {
			count++
		}
	}
	return count, nil
}

// --- messages ---

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*models.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Create(message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	r.messages = append(r.messages, message)
	return nil
}

func (r *fakeMessageRepo) FindByRequest(requestID string) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Message
	for _, m := range r.messages {
		if m.RequestID == requestID {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (r *fakeMessageRepo) MarkThreadRead(requestID, viewerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.RequestID == requestID && m.ReceiverID == viewerID {
			m.IsRead = true
		}
	}
	return nil
}

func (r *fakeMessageRepo) CountUnreadInThread(requestID, viewerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.messages {
		if m.RequestID == requestID && m.ReceiverID == viewerID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeMessageRepo) CountUnreadByReceiver(receiverID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.messages {
		if m.ReceiverID == receiverID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

// --- buttons ---

type fakeButtonRepo struct {
	mu      sync.Mutex
	buttons map[string]*models.CustomButton
}

func newFakeButtonRepo() *fakeButtonRepo {
	return &fakeButtonRepo{buttons: make(map[string]*models.CustomButton)}
}

func (r *fakeButtonRepo) Create(button *models.CustomButton) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if button.ID == "" {
		button.ID = uuid.NewString()
	}
	r.buttons[button.ID] = button
	return nil
}

func (r *fakeButtonRepo) FindByID(id string) (*models.CustomButton, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.buttons[id]
	if !ok {
		return nil, repositories.ErrButtonNotFound
	}
	copy := *b
	return &copy, nil
}

func (r *fakeButtonRepo) FindByPatient(patientID string) ([]models.CustomButton, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.CustomButton
	for _, b := range r.buttons {
		if b.PatientID == patientID {
			result = append(result, *b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].OrderIndex < result[j].OrderIndex
	})
	return result, nil
}

func (r *fakeButtonRepo) Update(button *models.CustomButton) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.buttons[button.ID]; !ok {
		return repositories.ErrButtonNotFound
	}
	copy := *button
	r.buttons[button.ID] = &copy
	return nil
}

func (r *fakeButtonRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.buttons, id)
	return nil
}

// --- settings ---

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings map[string]*models.AccessibilitySettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: make(map[string]*models.AccessibilitySettings)}
}

func (r *fakeSettingsRepo) FindByUserID(userID string) (*models.AccessibilitySettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[userID]
	if !ok {
		return nil, repositories.ErrSettingsNotFound
	}
	copy := *s
	return &copy, nil
}

func (r *fakeSettingsRepo) Upsert(settings *models.AccessibilitySettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *settings
	if copy.ID == "" {
		copy.ID = uuid.NewString()
	}
	r.settings[settings.UserID] = &copy
	return nil
}

// --- email ---

type fakeEmailProvider struct {
	mu           sync.Mutex
	verification []string // адресаты писем верификации
	urgentAlerts []string // адресаты срочных уведомлений
}

func (p *fakeEmailProvider) Send(email *email.Email) error { return nil }

func (p *fakeEmailProvider) SendVerification(to string, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verification = append(p.verification, to)
	return nil
}

func (p *fakeEmailProvider) SendUrgentRequestAlert(to string, patientName, buttonLabel string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.urgentAlerts = append(p.urgentAlerts, to)
	return nil
}

func (p *fakeEmailProvider) Validate() error { return nil }

// --- notifier ---

type recordingNotifier struct {
	mu     sync.Mutex
	events []*dto.MessageResponse
}

func (n *recordingNotifier) NotifyNewMessage(requestID string, message *dto.MessageResponse) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, message)
}
