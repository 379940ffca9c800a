package handler

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const welcomeText = `🤖 **Bienvenido al Bot de Telegram**

¡Hola! Soy un bot que ofrece:

• 📊 **Menús interactivos** con navegación completa
• ⚙️ **Sistema de configuración** modular
• 🔧 **Herramientas útiles** incluido generador de sesiones
• 🌐 **Navegación fluida** entre diferentes secciones

Selecciona una opción del menú para comenzar:`

const mainMenuText = "🎯 **Menú Principal**\nSelecciona una opción:"

const helpText = `🆘 **Guía de Ayuda**

**Comandos disponibles:**
/start - Iniciar el bot y mostrar menú principal
/menu - Mostrar menú de navegación
/help - Mostrar esta ayuda
/session - Generar una nueva sesión string
/cancel - Cancelar la generación en curso

**Características:**
• Navegación completa con menús interactivos
• Generación segura de sesiones string
• Interfaz amigable con botones

Si necesitas ayuda específica, usa los botones del menú ❓ Ayuda.`

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	sender := c.Sender()

	h.logger.Info("User started bot",
		zap.Int64("user_id", sender.ID),
		zap.String("username", sender.Username),
	)

	if err := h.statsService.RegisterUser(sender.ID, sender.Username); err != nil {
		h.logger.Error("Failed to register user", zap.Error(err))
	}

	return c.Send(welcomeText, mainMenuMarkup())
}

// handleMenu handles /menu command
func (h *Handler) handleMenu(c tele.Context) error {
	return c.Send(mainMenuText, mainMenuMarkup())
}

// handleHelp handles /help command
func (h *Handler) handleHelp(c tele.Context) error {
	return c.Send(helpText, backMarkup())
}

// handleSessionCommand handles /session - begins the generation flow
func (h *Handler) handleSessionCommand(c tele.Context) error {
	prompt := h.generator.Begin(c.Sender().ID)
	return c.Send(prompt, cancelMarkup())
}

// handleCancelCommand handles /cancel - aborts the generation flow
func (h *Handler) handleCancelCommand(c tele.Context) error {
	userID := c.Sender().ID

	if !h.generator.Cancel(userID) {
		return c.Send("No hay ninguna generación en curso.", backMarkup())
	}
	return c.Send("❌ Generación cancelada.", backMarkup())
}
