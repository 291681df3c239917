package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler     *AuthHandler
	ProfileHandler  *ProfileHandler
	LinkingHandler  *LinkingHandler
	RequestHandler  *RequestHandler
	ChatHandler     *ChatHandler
	ButtonHandler   *ButtonHandler
	SettingsHandler *SettingsHandler
}
