package email

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет простое email сообщение
	Send(email *Email) error

	// SendVerification отправляет письмо верификации аккаунта
	SendVerification(to string, token string) error

	// SendUrgentRequestAlert уведомляет опекуна о срочной заявке
	SendUrgentRequestAlert(to string, patientName, buttonLabel string) error

	// Validate проверяет конфигурацию провайдера
	Validate() error
}
