package handler

import (
	"sessionbot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot           *tele.Bot
	generator     *service.GeneratorService
	ratingService *service.RatingService
	statsService  *service.StatsService
	logger        *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	generator *service.GeneratorService,
	ratingService *service.RatingService,
	statsService *service.StatsService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:           bot,
		generator:     generator,
		ratingService: ratingService,
		statsService:  statsService,
		logger:        logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/menu", h.handleMenu)
	h.bot.Handle("/help", h.handleHelp)
	h.bot.Handle("/session", h.handleSessionCommand)
	h.bot.Handle("/cancel", h.handleCancelCommand)

	// Text messages (generation flow input)
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnMainMenu, h.handleMainMenu)
	h.bot.Handle(&btnInfoMenu, h.handleInfoMenu)
	h.bot.Handle(&btnConfigMenu, h.handleConfigMenu)
	h.bot.Handle(&btnToolsMenu, h.handleToolsMenu)
	h.bot.Handle(&btnHelpMenu, h.handleHelpMenu)
	h.bot.Handle(&btnRatingMenu, h.handleRatingMenu)
	h.bot.Handle(&btnMyInfo, h.handleMyInfo)
	h.bot.Handle(&btnBotInfo, h.handleBotInfo)
	h.bot.Handle(&btnStats, h.handleStats)
	h.bot.Handle(&btnLanguage, h.handleLanguage)
	h.bot.Handle(&btnSessionInfo, h.handleSessionInfo)
	h.bot.Handle(&btnSessionBegin, h.handleSessionBegin)
	h.bot.Handle(&btnSessionCancel, h.handleSessionCancel)

	// Generic callback handler for dynamic data (ratings) and uniques
	// that arrive without a registered button
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// Inline keyboard buttons
var (
	btnMainMenu = tele.Btn{
		Unique: "menu_main",
		Text:   "🔙 Volver",
	}
	btnInfoMenu = tele.Btn{
		Unique: "menu_info",
		Text:   "📊 Información",
	}
	btnConfigMenu = tele.Btn{
		Unique: "menu_config",
		Text:   "⚙️ Configuración",
	}
	btnToolsMenu = tele.Btn{
		Unique: "menu_tools",
		Text:   "🔧 Herramientas",
	}
	btnHelpMenu = tele.Btn{
		Unique: "menu_help",
		Text:   "❓ Ayuda",
	}
	btnRatingMenu = tele.Btn{
		Unique: "menu_rating",
		Text:   "⭐ Calificar",
	}
	btnWebsite = tele.Btn{
		Text: "🌐 Sitio Web",
		URL:  "https://my.telegram.org",
	}
	btnMyInfo = tele.Btn{
		Unique: "info_my",
		Text:   "👤 Mi Info",
	}
	btnBotInfo = tele.Btn{
		Unique: "info_bot",
		Text:   "🤖 Bot Info",
	}
	btnStats = tele.Btn{
		Unique: "info_stats",
		Text:   "📊 Estadísticas",
	}
	btnLanguage = tele.Btn{
		Unique: "config_lang",
		Text:   "🌐 Idioma",
	}
	btnNotify = tele.Btn{
		Unique: "config_notify",
		Text:   "🔔 Notificaciones",
	}
	btnTheme = tele.Btn{
		Unique: "config_theme",
		Text:   "🎨 Tema",
	}
	btnSessionInfo = tele.Btn{
		Unique: "tools_session",
		Text:   "🔄 Generar Sesión",
	}
	btnFiles = tele.Btn{
		Unique: "tools_files",
		Text:   "📁 Archivos",
	}
	btnSearch = tele.Btn{
		Unique: "tools_search",
		Text:   "🔍 Buscar",
	}
	btnSessionBegin = tele.Btn{
		Unique: "session_begin",
		Text:   "🔄 Generar Sesión",
	}
	btnSessionCancel = tele.Btn{
		Unique: "session_cancel",
		Text:   "❌ Cancelar",
	}
	btnBackToTools = tele.Btn{
		Unique: "menu_tools",
		Text:   "🔙 Volver",
	}
	btnBackHome = tele.Btn{
		Unique: "menu_main",
		Text:   "🔙 Volver al Inicio",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnInfoMenu, btnConfigMenu),
		menu.Row(btnToolsMenu, btnHelpMenu),
		menu.Row(btnWebsite, btnRatingMenu),
	)
	return menu
}

// infoMenuMarkup returns the information submenu keyboard
func infoMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnMyInfo, btnBotInfo),
		menu.Row(btnStats, btnMainMenu),
	)
	return menu
}

// configMenuMarkup returns the configuration submenu keyboard
func configMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnLanguage, btnNotify),
		menu.Row(btnTheme, btnMainMenu),
	)
	return menu
}

// toolsMenuMarkup returns the tools submenu keyboard
func toolsMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnSessionInfo, btnFiles),
		menu.Row(btnSearch, btnMainMenu),
	)
	return menu
}

// ratingMenuMarkup returns the 1-5 star rating keyboard
func ratingMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(
			menu.Data("⭐", "rate", "1"),
			menu.Data("⭐⭐", "rate", "2"),
			menu.Data("⭐⭐⭐", "rate", "3"),
		),
		menu.Row(
			menu.Data("⭐⭐⭐⭐", "rate", "4"),
			menu.Data("⭐⭐⭐⭐⭐", "rate", "5"),
		),
		menu.Row(btnMainMenu),
	)
	return menu
}

// sessionInfoMarkup returns the generation landing page keyboard
func sessionInfoMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnSessionBegin),
		menu.Row(btnBackToTools),
	)
	return menu
}

// cancelMarkup returns the keyboard shown while a generation flow is active
func cancelMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(menu.Row(btnSessionCancel))
	return menu
}

// backMarkup returns a single back-to-home button
func backMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(menu.Row(btnBackHome))
	return menu
}
