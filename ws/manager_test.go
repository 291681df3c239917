package ws

import (
	"testing"
	"time"

	"assist_backend/internal/services"
	"assist_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatService - чат-сервис для тестов менеджера: только проверка
// принадлежности к заявке, остальное менеджеру не нужно
type fakeChatService struct {
	participants map[string][]string // request_id -> стороны заявки
}

func (f *fakeChatService) IsParticipant(requestID, userID string) (bool, error) {
	for _, id := range f.participants[requestID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeChatService) SendMessage(senderID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	return nil, nil
}
func (f *fakeChatService) Thread(requestID, viewerID string) (*dto.ThreadResponse, error) {
	return nil, nil
}
func (f *fakeChatService) MarkRead(requestID, viewerID string) error { return nil }
func (f *fakeChatService) UnreadCount(userID string) (*dto.UnreadCountResponse, error) {
	return nil, nil
}
func (f *fakeChatService) SetNotifier(notifier services.MessageNotifier) {}

func newTestManager(participants map[string][]string) *WebSocketManager {
	m := NewWebSocketManager(&fakeChatService{participants: participants})
	go m.Run()
	return m
}

// connect регистрирует клиента без реального соединения и ждет,
// пока цикл Run его учтет
func connect(t *testing.T, m *WebSocketManager, userID string, buffer int) *Client {
	t.Helper()
	c := &Client{UserID: userID, Send: make(chan any, buffer), Manager: m}
	m.register <- c
	require.Eventually(t, func() bool { return m.hasClient(c) }, time.Second, 5*time.Millisecond)
	return c
}

func (manager *WebSocketManager) hasClient(c *Client) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.clients[c]
}

func (manager *WebSocketManager) subscriberCount(requestID string) int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.subscriptions[requestID])
}

func nextEvent(t *testing.T, c *Client) OutgoingWSMessage {
	t.Helper()
	select {
	case msg := <-c.Send:
		out, ok := msg.(OutgoingWSMessage)
		require.True(t, ok)
		return out
	case <-time.After(time.Second):
		t.Fatal("no event within timeout")
		return OutgoingWSMessage{}
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.Send:
		t.Fatalf("unexpected event: %+v", msg)
	default:
	}
}

// TestNotify_FanOutKeyedByRequest - событие уходит только подписчикам
// своей заявки, чужие треды его не видят
func TestNotify_FanOutKeyedByRequest(t *testing.T) {
	t.Parallel()

	m := newTestManager(map[string][]string{
		"req-a": {"patient-1", "cg-1"},
		"req-b": {"patient-1", "cg-2"},
	})

	patientA := connect(t, m, "patient-1", 8)
	cgA := connect(t, m, "cg-1", 8)
	cgB := connect(t, m, "cg-2", 8)

	m.Subscribe(patientA, "req-a")
	m.Subscribe(cgA, "req-a")
	m.Subscribe(cgB, "req-b")
	assert.Equal(t, "subscribed", nextEvent(t, patientA).Type)
	assert.Equal(t, "subscribed", nextEvent(t, cgA).Type)
	assert.Equal(t, "subscribed", nextEvent(t, cgB).Type)

	m.NotifyNewMessage("req-a", &dto.MessageResponse{ID: "msg-1", RequestID: "req-a"})

	for _, c := range []*Client{patientA, cgA} {
		event := nextEvent(t, c)
		assert.Equal(t, "new_message", event.Type)
		assert.Equal(t, "req-a", event.RequestID)
	}
	assertNoEvent(t, cgB)
}

// TestUnsubscribe_OthersKeepReceiving - отписка одного не трогает остальных
func TestUnsubscribe_OthersKeepReceiving(t *testing.T) {
	t.Parallel()

	m := newTestManager(map[string][]string{
		"req-a": {"patient-1", "cg-1"},
	})

	patient := connect(t, m, "patient-1", 8)
	cg := connect(t, m, "cg-1", 8)
	m.Subscribe(patient, "req-a")
	m.Subscribe(cg, "req-a")
	nextEvent(t, patient)
	nextEvent(t, cg)

	m.Unsubscribe(patient, "req-a")
	assert.Equal(t, 1, m.subscriberCount("req-a"))

	m.NotifyNewMessage("req-a", &dto.MessageResponse{ID: "msg-1", RequestID: "req-a"})
	assert.Equal(t, "new_message", nextEvent(t, cg).Type)
	assertNoEvent(t, patient)
}

// TestSubscribe_DeniedForStranger - посторонний получает отказ
// и в подписчики не попадает
func TestSubscribe_DeniedForStranger(t *testing.T) {
	t.Parallel()

	m := newTestManager(map[string][]string{
		"req-a": {"patient-1", "cg-1"},
	})

	stranger := connect(t, m, "stranger", 8)
	m.Subscribe(stranger, "req-a")

	event := nextEvent(t, stranger)
	assert.Equal(t, "subscribe_denied", event.Type)
	assert.Equal(t, "req-a", event.RequestID)
	assert.Equal(t, 0, m.subscriberCount("req-a"))
}

// TestSlowClient_DroppedWithoutPanic - медленный клиент выбрасывается,
// а его последующие действия не валят процесс
func TestSlowClient_DroppedWithoutPanic(t *testing.T) {
	t.Parallel()

	m := newTestManager(map[string][]string{
		"req-a": {"patient-1", "cg-1"},
	})

	// Буфер в один слот: подтверждение подписки его и займет
	slow := connect(t, m, "patient-1", 1)
	m.Subscribe(slow, "req-a")
	require.Equal(t, 1, m.subscriberCount("req-a"))

	// Буфер полон - доставка не проходит, клиент снимается с учета
	m.NotifyNewMessage("req-a", &dto.MessageResponse{ID: "msg-1", RequestID: "req-a"})
	require.Eventually(t, func() bool { return !m.hasClient(slow) }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, m.subscriberCount("req-a"))
	assert.Equal(t, 0, m.GetClientCount())

	// Отставшие действия выброшенного клиента: повторная подписка
	// не должна ни паниковать, ни возвращать его в подписчики
	require.NotPanics(t, func() { m.Subscribe(slow, "req-a") })
	assert.Equal(t, 0, m.subscriberCount("req-a"))

	require.NotPanics(t, func() {
		m.NotifyNewMessage("req-a", &dto.MessageResponse{ID: "msg-2", RequestID: "req-a"})
	})

	// Живые клиенты продолжают работать
	healthy := connect(t, m, "cg-1", 8)
	m.Subscribe(healthy, "req-a")
	assert.Equal(t, "subscribed", nextEvent(t, healthy).Type)
	assert.Equal(t, 1, m.GetClientCount())
}
