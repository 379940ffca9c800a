package handler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const helpCenterText = `❓ **Centro de Ayuda**

**Problemas comunes:**
• ¿Problemas con sesiones? Usa la herramienta Generar Sesión
• ¿No responden los botones? Prueba /menu para refrescar
• ¿Error de conexión? Verifica tu internet

**Soporte:**
Para asistencia técnica, contacta al desarrollador o revisa la documentación oficial.`

const sessionInfoText = `🔄 **Generador de Sesiones**

Para generar una sesión string segura, necesitas:

1. **API_ID** y **API_HASH** de my.telegram.org
2. Tu número de teléfono con código de país
3. Código de verificación que recibirás por Telegram

⚠️ **Importante:** La sesión string da acceso completo a tu cuenta. ¡Guárdala de forma segura!`

const languageText = `🌐 **Selección de Idioma**

Idiomas disponibles:
• Español
• English
• Português

*Funcionalidad en desarrollo*`

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// editOrSend edits the callback's message, falling back to a new message
// when the edit fails for a reason other than identical content.
func (h *Handler) editOrSend(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() == nil {
		return c.Send(text, markup)
	}

	err := c.Edit(text, markup)
	if err == nil {
		return c.Respond()
	}

	// Another callback already put the same content there; just ack.
	if strings.Contains(err.Error(), "message is not modified") {
		return c.Respond()
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", c.Sender().ID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return c.Send(text, markup)
}

// handleCallback handles callbacks that did not match a registered button,
// including dynamic rating buttons.
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	data := cleanCallbackData(callback.Data)

	// Buttons without a registered endpoint arrive here with an empty
	// Unique and the raw "unique|payload" in data.
	unique := callback.Unique
	payload := data
	if unique == "" {
		if i := strings.Index(data, "|"); i >= 0 {
			unique, payload = data[:i], data[i+1:]
		} else {
			unique, payload = data, ""
		}
	}

	h.logger.Info("Processing callback",
		zap.String("unique", unique),
		zap.String("payload", payload),
		zap.Int64("user_id", c.Sender().ID),
	)

	switch unique {
	case "rate":
		return h.handleRating(c, payload)
	case "config_notify", "config_theme", "tools_files", "tools_search":
		return c.Respond(&tele.CallbackResponse{Text: "⚠️ Función en desarrollo"})
	case "menu_main":
		return h.handleMainMenu(c)
	case "menu_info":
		return h.handleInfoMenu(c)
	case "menu_config":
		return h.handleConfigMenu(c)
	case "menu_tools":
		return h.handleToolsMenu(c)
	case "menu_help":
		return h.handleHelpMenu(c)
	case "menu_rating":
		return h.handleRatingMenu(c)
	}

	h.logger.Warn("Unhandled callback",
		zap.String("unique", unique),
		zap.String("data", data),
	)
	return c.Respond()
}

// handleMainMenu shows the main menu
func (h *Handler) handleMainMenu(c tele.Context) error {
	return h.editOrSend(c, mainMenuText, mainMenuMarkup())
}

// handleInfoMenu shows the information submenu
func (h *Handler) handleInfoMenu(c tele.Context) error {
	return h.editOrSend(c, "📊 **Menú de Información**\n¿Qué información deseas ver?", infoMenuMarkup())
}

// handleConfigMenu shows the configuration submenu
func (h *Handler) handleConfigMenu(c tele.Context) error {
	return h.editOrSend(c, "⚙️ **Menú de Configuración**\nConfigura tus preferencias:", configMenuMarkup())
}

// handleToolsMenu shows the tools submenu
func (h *Handler) handleToolsMenu(c tele.Context) error {
	return h.editOrSend(c, "🔧 **Menú de Herramientas**\nSelecciona una herramienta:", toolsMenuMarkup())
}

// handleHelpMenu shows the help center page
func (h *Handler) handleHelpMenu(c tele.Context) error {
	return h.editOrSend(c, helpCenterText, backMarkup())
}

// handleRatingMenu shows the rating keyboard
func (h *Handler) handleRatingMenu(c tele.Context) error {
	return h.editOrSend(c, "⭐ **Sistema de Calificación**\n¿Cómo calificarías este bot?", ratingMenuMarkup())
}

// handleRating stores a 1-5 star rating
func (h *Handler) handleRating(c tele.Context, data string) error {
	userID := c.Sender().ID

	stars, err := strconv.Atoi(strings.TrimSpace(data))
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Calificación inválida"})
	}

	if err := h.ratingService.SaveRating(userID, stars); err != nil {
		h.logger.Error("Failed to save rating",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int("stars", stars),
		)
		return c.Respond(&tele.CallbackResponse{Text: "Error al guardar la calificación"})
	}

	h.logger.Info("Rating saved",
		zap.Int64("user_id", userID),
		zap.Int("stars", stars),
	)

	text := fmt.Sprintf(
		"✅ **¡Gracias por tu calificación!**\n\nHas calificado con: %s\n\nTu feedback es muy importante para mejorar el bot.",
		strings.Repeat("⭐", stars),
	)
	return h.editOrSend(c, text, backMarkup())
}

// handleMyInfo shows the calling user's profile data
func (h *Handler) handleMyInfo(c tele.Context) error {
	user := c.Sender()

	username := "No disponible"
	if user.Username != "" {
		username = "@" + user.Username
	}

	text := fmt.Sprintf(
		"👤 **Tu Información:**\n\n**ID:** `%d`\n**Nombre:** %s\n**Username:** %s",
		user.ID, user.FirstName, username,
	)
	return h.editOrSend(c, text, infoMenuMarkup())
}

// handleBotInfo shows the bot's own profile data
func (h *Handler) handleBotInfo(c tele.Context) error {
	me := h.bot.Me

	text := fmt.Sprintf(
		"🤖 **Información del Bot:**\n\n**ID:** `%d`\n**Nombre:** %s\n**Username:** @%s",
		me.ID, me.FirstName, me.Username,
	)
	return h.editOrSend(c, text, infoMenuMarkup())
}

// handleStats shows the usage statistics page
func (h *Handler) handleStats(c tele.Context) error {
	stats, err := h.statsService.Snapshot()
	if err != nil {
		h.logger.Error("Failed to gather stats", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Error al cargar estadísticas"})
	}

	text := fmt.Sprintf(
		"📊 **Estadísticas:**\n\n"+
			"**Usuarios registrados:** %d\n"+
			"**Calificaciones:** %d (media %.1f⭐)\n"+
			"**Generaciones en curso:** %d",
		stats.Users, stats.Ratings, stats.AvgRating, stats.ActiveFlows,
	)
	return h.editOrSend(c, text, infoMenuMarkup())
}

// handleLanguage shows the language selection placeholder
func (h *Handler) handleLanguage(c tele.Context) error {
	return h.editOrSend(c, languageText, configMenuMarkup())
}

// handleSessionInfo shows the generation landing page
func (h *Handler) handleSessionInfo(c tele.Context) error {
	return h.editOrSend(c, sessionInfoText, sessionInfoMarkup())
}

// handleSessionBegin starts the generation flow from the inline button
func (h *Handler) handleSessionBegin(c tele.Context) error {
	prompt := h.generator.Begin(c.Sender().ID)
	return h.editOrSend(c, prompt, cancelMarkup())
}

// handleSessionCancel aborts the generation flow from the inline button
func (h *Handler) handleSessionCancel(c tele.Context) error {
	h.generator.Cancel(c.Sender().ID)
	return h.editOrSend(c, "❌ Generación cancelada.", backMarkup())
}
