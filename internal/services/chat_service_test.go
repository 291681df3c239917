package services

import (
	"testing"
	"time"

	"assist_backend/internal/models"
	"assist_backend/internal/services/dto"
	"assist_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	messageRepo *fakeMessageRepo
	requestRepo *fakeRequestRepo
	notifier    *recordingNotifier
	svc         ChatService

	request *models.Request
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	f := &chatFixture{
		messageRepo: newFakeMessageRepo(),
		requestRepo: newFakeRequestRepo(),
		notifier:    &recordingNotifier{},
	}
	f.svc = NewChatService(f.messageRepo, f.requestRepo)
	f.svc.SetNotifier(f.notifier)

	f.request = &models.Request{
		PatientID:   "patient-1",
		CaregiverID: "caregiver-1",
		ButtonLabel: "Need Help",
		Status:      models.RequestStatusPending,
	}
	require.NoError(t, f.requestRepo.Create(f.request))
	return f
}

// TestSendMessage_ReceiverIsOtherParty - получатель выводится из заявки,
// в обе стороны
func TestSendMessage_ReceiverIsOtherParty(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)

	fromPatient, err := f.svc.SendMessage("patient-1", &dto.SendMessageRequest{
		RequestID:   f.request.ID,
		MessageText: "Помогите, пожалуйста",
	})
	require.NoError(t, err)
	assert.Equal(t, "caregiver-1", fromPatient.ReceiverID)
	assert.False(t, fromPatient.IsRead)

	fromCaregiver, err := f.svc.SendMessage("caregiver-1", &dto.SendMessageRequest{
		RequestID:   f.request.ID,
		MessageText: "Уже иду",
	})
	require.NoError(t, err)
	assert.Equal(t, "patient-1", fromCaregiver.ReceiverID)
}

// TestSendMessage_StrangerDenied - не-сторона заявки писать не может
func TestSendMessage_StrangerDenied(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)

	_, err := f.svc.SendMessage("stranger", &dto.SendMessageRequest{
		RequestID:   f.request.ID,
		MessageText: "привет",
	})
	assert.ErrorIs(t, err, apperrors.ErrThreadAccessDenied)
}

func TestSendMessage_RequestNotFound(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)

	_, err := f.svc.SendMessage("patient-1", &dto.SendMessageRequest{
		RequestID:   "no-such-request",
		MessageText: "привет",
	})
	assert.ErrorIs(t, err, apperrors.ErrRequestNotFound)
}

// TestSendMessage_NotifiesSubscribers - после вставки уходит push
func TestSendMessage_NotifiesSubscribers(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)

	sent, err := f.svc.SendMessage("patient-1", &dto.SendMessageRequest{
		RequestID:   f.request.ID,
		MessageText: "сообщение",
	})
	require.NoError(t, err)

	f.notifier.mu.Lock()
	defer f.notifier.mu.Unlock()
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, sent.ID, f.notifier.events[0].ID)
	assert.Equal(t, "сообщение", f.notifier.events[0].MessageText)
}

// TestThread_OrderedOldestFirst - тред по возрастанию created_at
func TestThread_OrderedOldestFirst(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)

	base := time.Now()
	for i, text := range []string{"первое", "второе", "третье"} {
		require.NoError(t, f.messageRepo.Create(&models.Message{
			RequestID:   f.request.ID,
			SenderID:    "patient-1",
			ReceiverID:  "caregiver-1",
			MessageText: text,
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		}))
	}

	thread, err := f.svc.Thread(f.request.ID, "caregiver-1")
	require.NoError(t, err)
	require.Len(t, thread.Messages, 3)
	assert.Equal(t, "первое", thread.Messages[0].MessageText)
	assert.Equal(t, "третье", thread.Messages[2].MessageText)
}

func TestThread_StrangerDenied(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)

	_, err := f.svc.Thread(f.request.ID, "stranger")
	assert.ErrorIs(t, err, apperrors.ErrThreadAccessDenied)
}

// TestMarkRead_OnlyViewerMessages - читаются только адресованные viewer-у,
// исходящие не трогаем. Повторный вызов безвреден.
func TestMarkRead_OnlyViewerMessages(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)

	_, err := f.svc.SendMessage("patient-1", &dto.SendMessageRequest{RequestID: f.request.ID, MessageText: "a"})
	require.NoError(t, err)
	_, err = f.svc.SendMessage("patient-1", &dto.SendMessageRequest{RequestID: f.request.ID, MessageText: "b"})
	require.NoError(t, err)
	_, err = f.svc.SendMessage("caregiver-1", &dto.SendMessageRequest{RequestID: f.request.ID, MessageText: "c"})
	require.NoError(t, err)

	require.NoError(t, f.svc.MarkRead(f.request.ID, "caregiver-1"))

	// У опекуна прочитано все, у пациента еще висит одно
	cgUnread, err := f.messageRepo.CountUnreadInThread(f.request.ID, "caregiver-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), cgUnread)

	patientUnread, err := f.messageRepo.CountUnreadInThread(f.request.ID, "patient-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), patientUnread)

	// Идемпотентность
	require.NoError(t, f.svc.MarkRead(f.request.ID, "caregiver-1"))
}

func TestUnreadCount(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)

	for i := 0; i < 3; i++ {
		_, err := f.svc.SendMessage("patient-1", &dto.SendMessageRequest{RequestID: f.request.ID, MessageText: "x"})
		require.NoError(t, err)
	}

	resp, err := f.svc.UnreadCount("caregiver-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Count)

	resp, err = f.svc.UnreadCount("patient-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Count)
}

// TestIsParticipant - проверка доступа для ws-подписок
func TestIsParticipant(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)

	ok, err := f.svc.IsParticipant(f.request.ID, "patient-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.IsParticipant(f.request.ID, "stranger")
	require.NoError(t, err)
	assert.False(t, ok)

	// Несуществующая заявка - просто не участник, без ошибки
	ok, err = f.svc.IsParticipant("no-such-request", "patient-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
