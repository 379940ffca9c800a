package identity

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"

	"sessionbot/internal/domain"
)

// TelegramDialer implements Dialer on top of gotd.
type TelegramDialer struct{}

// NewTelegramDialer creates a dialer backed by the real Telegram MTProto API.
func NewTelegramDialer() *TelegramDialer {
	return &TelegramDialer{}
}

// telegramConn holds a running gotd client. The client only operates while
// Run is active, so the connection is kept open by a background goroutine
// that blocks until the conn is closed.
type telegramConn struct {
	client  *telegram.Client
	storage *session.StorageMemory
	cancel  context.CancelFunc
	done    chan error
	once    sync.Once
}

// Dial connects with the user's own API credentials and an in-memory
// session, so nothing touches disk.
func (d *TelegramDialer) Dial(ctx context.Context, apiID int, apiHash string) (Conn, error) {
	storage := &session.StorageMemory{}
	client := telegram.NewClient(apiID, apiHash, telegram.Options{
		SessionStorage: storage,
		NoUpdates:      true,
	})

	runCtx, cancel := context.WithCancel(context.Background())
	c := &telegramConn{
		client:  client,
		storage: storage,
		cancel:  cancel,
		done:    make(chan error, 1),
	}

	ready := make(chan struct{})
	go func() {
		c.done <- client.Run(runCtx, func(ctx context.Context) error {
			close(ready)
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	select {
	case <-ready:
		return c, nil
	case err := <-c.done:
		cancel()
		if err == nil {
			err = errors.New("connection closed before becoming ready")
		}
		return nil, fmt.Errorf("connect to telegram: %w", err)
	case <-ctx.Done():
		cancel()
		<-c.done
		return nil, ctx.Err()
	}
}

func (c *telegramConn) RequestCode(ctx context.Context, phone string) (string, error) {
	sent, err := c.client.Auth().SendCode(ctx, phone, auth.SendCodeOptions{})
	if err != nil {
		return "", fmt.Errorf("send code: %w", err)
	}
	code, ok := sent.(*tg.AuthSentCode)
	if !ok {
		return "", fmt.Errorf("unexpected sent code type %T", sent)
	}
	return code.PhoneCodeHash, nil
}

func (c *telegramConn) SignIn(ctx context.Context, phone, codeHash, code string) error {
	_, err := c.client.Auth().SignIn(ctx, phone, code, codeHash)
	if errors.Is(err, auth.ErrPasswordAuthNeeded) {
		return ErrPasswordNeeded
	}
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	return nil
}

func (c *telegramConn) CheckPassword(ctx context.Context, password string) error {
	if _, err := c.client.Auth().Password(ctx, password); err != nil {
		return fmt.Errorf("confirm password: %w", err)
	}
	return nil
}

func (c *telegramConn) ExportSession(ctx context.Context) (string, error) {
	data, err := c.storage.LoadSession(ctx)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

func (c *telegramConn) AccountInfo(ctx context.Context) (*domain.AccountInfo, error) {
	me, err := c.client.Self(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch self: %w", err)
	}
	return &domain.AccountInfo{
		ID:        me.ID,
		FirstName: me.FirstName,
		LastName:  me.LastName,
		Username:  me.Username,
		Phone:     me.Phone,
	}, nil
}

func (c *telegramConn) Close() error {
	var err error
	c.once.Do(func() {
		c.cancel()
		err = <-c.done
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	})
	return err
}
