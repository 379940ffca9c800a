package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"sessionbot/internal/domain"
	"sessionbot/internal/identity"
	"sessionbot/internal/session"

	"go.uber.org/zap"
)

// User-facing prompts of the generation conversation.
const (
	msgAskAPIID = "🚀 **Generador de Sesión String**\n\n" +
		"Necesitarás tu **API_ID** y **API_HASH** de my.telegram.org\n\n" +
		"1️⃣ Ingresa tu API ID:"
	msgBadAPIID   = "❌ El API ID debe ser numérico. Inténtalo de nuevo:"
	msgAskAPIHash = "2️⃣ Ahora ingresa tu API HASH:"
	msgBadAPIHash = "❌ El API HASH no parece válido (mínimo 10 caracteres). Inténtalo de nuevo:"
	msgAskPhone   = "3️⃣ Ingresa tu número de teléfono con código de país (ej: +34123456789):"
	msgBadPhone   = "❌ El número debe empezar por + e incluir el código de país (ej: +34123456789). Inténtalo de nuevo:"
	msgAskCode    = "📲 Te hemos enviado un código de verificación por Telegram.\n\n4️⃣ Ingresa el código recibido:"
	msgAskPass    = "🔐 Tu cuenta tiene verificación en dos pasos.\n\n5️⃣ Ingresa tu contraseña de 2FA:"

	msgConnectFailed = "❌ No se pudo conectar con Telegram. Verifica tu API ID y API HASH.\n\nUsa /session para intentarlo de nuevo."
	msgSignInFailed  = "❌ No se pudo iniciar sesión: código inválido o expirado.\n\nUsa /session para intentarlo de nuevo."
	msgBadPassword   = "❌ Contraseña incorrecta.\n\nUsa /session para intentarlo de nuevo."
	msgExportFailed  = "❌ No se pudo exportar la sesión.\n\nUsa /session para intentarlo de nuevo."
	msgUnexpected    = "❌ Error inesperado al procesar la solicitud.\n\nUsa /session para intentarlo de nuevo."
	msgExpired       = "⌛ La sesión de generación ha caducado.\n\nUsa /session para empezar de nuevo."
	msgCancelled     = "❌ Generación cancelada."
)

// GeneratorService drives the per-user session-string generation
// conversation. Messages for the same user are processed one at a time;
// different users run independently.
type GeneratorService struct {
	registry *session.Registry
	dialer   identity.Dialer
	logger   *zap.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewGeneratorService creates a new generator service
func NewGeneratorService(registry *session.Registry, dialer identity.Dialer, logger *zap.Logger) *GeneratorService {
	return &GeneratorService{
		registry: registry,
		dialer:   dialer,
		logger:   logger,
		locks:    make(map[int64]*sync.Mutex),
	}
}

// stepFunc processes one text message for a record sitting at a given step
// and returns the reply to show the user.
type stepFunc func(g *GeneratorService, ctx context.Context, rec *session.Record, text string) string

// stepHandlers is the dispatch table of the conversation state machine.
var stepHandlers = map[session.Step]stepFunc{
	session.StepAPIID:    (*GeneratorService).handleAPIID,
	session.StepAPIHash:  (*GeneratorService).handleAPIHash,
	session.StepPhone:    (*GeneratorService).handlePhone,
	session.StepCode:     (*GeneratorService).handleCode,
	session.StepPassword: (*GeneratorService).handlePassword,
}

// Begin starts (or restarts) the generation flow for the user and returns
// the first prompt.
func (g *GeneratorService) Begin(userID int64) string {
	g.registry.Init(userID)
	g.logger.Info("Generation flow started", zap.Int64("user_id", userID))
	return msgAskAPIID
}

// InProgress reports whether the user has a live generation flow.
func (g *GeneratorService) InProgress(userID int64) bool {
	return g.registry.Get(userID) != nil
}

// Cancel aborts the user's flow, releasing any held connection. Idempotent.
func (g *GeneratorService) Cancel(userID int64) bool {
	existed := g.registry.Clear(userID)
	if existed {
		g.logger.Info("Generation flow cancelled", zap.Int64("user_id", userID))
	}
	return existed
}

// HandleText feeds a free-text message into the user's flow. handled is
// false when the user has no live flow and the text should be treated as
// ordinary conversation.
func (g *GeneratorService) HandleText(ctx context.Context, userID int64, text string) (reply string, handled bool) {
	lock := g.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	defer func() {
		if p := recover(); p != nil {
			g.logger.Error("Panic while processing generation step",
				zap.Int64("user_id", userID),
				zap.Any("panic", p),
			)
			g.registry.Clear(userID)
			reply = msgUnexpected
			handled = true
		}
	}()

	rec := g.registry.Get(userID)
	if rec == nil {
		return "", false
	}

	handler, ok := stepHandlers[rec.Step]
	if !ok {
		g.logger.Error("No handler for session step",
			zap.Int64("user_id", userID),
			zap.String("step", string(rec.Step)),
		)
		g.registry.Clear(userID)
		return msgUnexpected, true
	}

	return handler(g, ctx, rec, strings.TrimSpace(text)), true
}

func (g *GeneratorService) handleAPIID(_ context.Context, rec *session.Record, text string) string {
	if !isAllDigits(text) {
		return msgBadAPIID
	}
	apiID, err := strconv.Atoi(text)
	if err != nil {
		return msgBadAPIID
	}

	g.registry.Update(rec.UserID, func(r *session.Record) {
		r.APIID = apiID
		r.Step = session.StepAPIHash
	})
	return msgAskAPIHash
}

func (g *GeneratorService) handleAPIHash(_ context.Context, rec *session.Record, text string) string {
	if len(text) < 10 {
		return msgBadAPIHash
	}

	g.registry.Update(rec.UserID, func(r *session.Record) {
		r.APIHash = text
		r.Step = session.StepPhone
	})
	return msgAskPhone
}

func (g *GeneratorService) handlePhone(ctx context.Context, rec *session.Record, text string) string {
	if !strings.HasPrefix(text, "+") {
		return msgBadPhone
	}

	g.registry.Update(rec.UserID, func(r *session.Record) {
		r.Phone = text
		r.Step = session.StepFinal
	})

	conn, err := g.dialer.Dial(ctx, rec.APIID, rec.APIHash)
	if err != nil {
		g.logger.Warn("Failed to open telegram connection",
			zap.Int64("user_id", rec.UserID),
			zap.Error(err),
		)
		g.registry.Clear(rec.UserID)
		return msgConnectFailed
	}

	codeHash, err := conn.RequestCode(ctx, text)
	if err != nil {
		g.logger.Warn("Failed to request verification code",
			zap.Int64("user_id", rec.UserID),
			zap.Error(err),
		)
		g.closeConn(rec.UserID, conn)
		g.registry.Clear(rec.UserID)
		return msgConnectFailed
	}

	updated := g.registry.Update(rec.UserID, func(r *session.Record) {
		r.Conn = conn
		r.PhoneCodeHash = codeHash
		r.Step = session.StepCode
	})
	if !updated {
		// Record expired while we were on the network.
		g.closeConn(rec.UserID, conn)
		return msgExpired
	}
	return msgAskCode
}

func (g *GeneratorService) handleCode(ctx context.Context, rec *session.Record, text string) string {
	g.registry.Update(rec.UserID, func(r *session.Record) {
		r.Code = text
	})

	err := rec.Conn.SignIn(ctx, rec.Phone, rec.PhoneCodeHash, text)
	if err == identity.ErrPasswordNeeded {
		g.registry.Update(rec.UserID, func(r *session.Record) {
			r.Step = session.StepPassword
		})
		return msgAskPass
	}
	if err != nil {
		g.logger.Warn("Sign-in failed",
			zap.Int64("user_id", rec.UserID),
			zap.Error(err),
		)
		g.registry.Clear(rec.UserID)
		return msgSignInFailed
	}

	return g.finalize(ctx, rec)
}

func (g *GeneratorService) handlePassword(ctx context.Context, rec *session.Record, text string) string {
	g.registry.Update(rec.UserID, func(r *session.Record) {
		r.Password = text
	})

	if err := rec.Conn.CheckPassword(ctx, text); err != nil {
		g.logger.Warn("2FA password rejected",
			zap.Int64("user_id", rec.UserID),
			zap.Error(err),
		)
		g.registry.Clear(rec.UserID)
		return msgBadPassword
	}

	return g.finalize(ctx, rec)
}

// finalize exports the session string over the signed-in connection,
// fetches account info and clears the record. The registry releases the
// connection as part of the clear.
func (g *GeneratorService) finalize(ctx context.Context, rec *session.Record) string {
	g.registry.Update(rec.UserID, func(r *session.Record) {
		r.Step = session.StepFinal
	})

	sessionString, err := rec.Conn.ExportSession(ctx)
	if err != nil {
		g.logger.Error("Failed to export session string",
			zap.Int64("user_id", rec.UserID),
			zap.Error(err),
		)
		g.registry.Clear(rec.UserID)
		return msgExportFailed
	}

	info, err := rec.Conn.AccountInfo(ctx)
	if err != nil {
		// The session string is already valid; deliver it without the
		// profile block.
		g.logger.Warn("Failed to fetch account info",
			zap.Int64("user_id", rec.UserID),
			zap.Error(err),
		)
		info = nil
	}

	g.registry.Clear(rec.UserID)
	g.logger.Info("Session string generated", zap.Int64("user_id", rec.UserID))

	return successMessage(sessionString, info)
}

func successMessage(sessionString string, info *domain.AccountInfo) string {
	var b strings.Builder
	b.WriteString("✅ **SESIÓN STRING GENERADA EXITOSAMENTE**\n\n")

	if info != nil {
		b.WriteString("👤 **Información de la cuenta:**\n")
		name := strings.TrimSpace(info.FirstName + " " + info.LastName)
		b.WriteString(fmt.Sprintf("• Nombre: %s\n", name))
		if info.Username != "" {
			b.WriteString(fmt.Sprintf("• Username: @%s\n", info.Username))
		} else {
			b.WriteString("• Username: No disponible\n")
		}
		b.WriteString(fmt.Sprintf("• ID: `%d`\n", info.ID))
		b.WriteString(fmt.Sprintf("• Número: %s\n", info.Phone))
		b.WriteString("\n")
	}

	b.WriteString("📋 Tu sesión string es:\n\n")
	b.WriteString(fmt.Sprintf("`%s`\n\n", sessionString))
	b.WriteString("⚠️ **ADVERTENCIA DE SEGURIDAD:**\n")
	b.WriteString("• Guarda esta sesión string de forma SEGURA\n")
	b.WriteString("• NO la compartas con nadie\n")
	b.WriteString("• Quien tenga esta sesión puede acceder a tu cuenta")
	return b.String()
}

// closeConn closes a connection not (or no longer) owned by a record.
func (g *GeneratorService) closeConn(userID int64, conn identity.Conn) {
	if err := conn.Close(); err != nil {
		g.logger.Warn("Failed to close connection",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}

func (g *GeneratorService) userLock(userID int64) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()

	lock, ok := g.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[userID] = lock
	}
	return lock
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
