package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"portfolio/internal/api/middleware"
	"portfolio/internal/database"
	"portfolio/internal/notify"
)

const (
	wsAuthTimeout  = 10 * time.Second
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 5 * time.Second
)

// wsRejection 表示握手后鉴权失败，已向客户端发送关闭帧。
type wsRejection struct {
	reason string
	err    error
}

func (r *wsRejection) Error() string {
	if r.err == nil {
		return r.reason
	}
	return r.reason + ": " + r.err.Error()
}

func (r *wsRejection) Unwrap() error { return r.err }

// WsHandler 向已登录的管理员推送后台通知（新留言、邮件投递结果）。
type WsHandler struct {
	redisClient redis.UniversalClient
	verifier    middleware.TokenVerifier
	users       middleware.UserLookup
	logger      *slog.Logger
	upgrader    websocket.Upgrader
	authTimeout time.Duration
}

// NewWsHandler 构造 WebSocket 处理器。浏览器无法为 WebSocket 设置 Authorization 头，
// 所以令牌放在连接后的第一帧里。allowedOrigins 为空时只接受同源。
func NewWsHandler(redisClient redis.UniversalClient, verifier middleware.TokenVerifier, users middleware.UserLookup, logger *slog.Logger, allowedOrigins []string) *WsHandler {
	return &WsHandler{
		redisClient: redisClient,
		verifier:    verifier,
		users:       users,
		logger:      logger,
		upgrader:    websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)},
		authTimeout: wsAuthTimeout,
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if len(allowed) == 0 {
			u, err := url.Parse(origin)
			return err == nil && strings.EqualFold(u.Host, r.Host)
		}
		for _, o := range allowed {
			if origin == o {
				return true
			}
		}
		return false
	}
}

type wsAuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// HandleConnection 升级连接、完成首帧鉴权，然后转发 admin_notify 频道的消息直到任一端断开。
func (h *WsHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("upgrade websocket failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	log := h.logger.With(
		slog.String("client_ip", c.ClientIP()),
		slog.String("correlation_id", middleware.GetCorrelationID(c)),
	)

	user, err := h.authenticate(c.Request.Context(), conn)
	if err != nil {
		log.Warn("websocket authentication failed", slog.Any("error", err))
		return
	}
	log = log.With(slog.Uint64("user_id", uint64(user.ID)))
	log.Info("websocket authenticated")

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	go drain(conn, cancel)

	if err := h.relay(ctx, conn, log); err != nil {
		log.Info("websocket connection closed", slog.Any("error", err))
		return
	}
	log.Info("websocket connection closed")
}

// authenticate 在 authTimeout 内读取第一帧，并以库内用户判断是否仍是管理员，与 HTTP 中间件一致。
func (h *WsHandler) authenticate(ctx context.Context, conn *websocket.Conn) (*database.User, error) {
	if err := conn.SetReadDeadline(time.Now().Add(h.authTimeout)); err != nil {
		return nil, fmt.Errorf("set auth deadline: %w", err)
	}

	_, frame, err := conn.ReadMessage()
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, reject(conn, "auth timeout", err)
		}
		return nil, fmt.Errorf("read auth frame: %w", err)
	}

	var msg wsAuthMessage
	if err := json.Unmarshal(frame, &msg); err != nil {
		return nil, reject(conn, "invalid auth payload", err)
	}
	if msg.Type != "auth" || msg.Token == "" {
		return nil, reject(conn, "auth required", nil)
	}

	identity, err := h.verifier.Verify(msg.Token)
	if err != nil {
		return nil, reject(conn, "invalid token", err)
	}
	user, err := h.users.FindByID(ctx, identity.ID)
	if err != nil {
		return nil, reject(conn, "admin access required", err)
	}
	if !user.IsAdmin {
		return nil, reject(conn, "admin access required", nil)
	}

	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		return nil, fmt.Errorf("clear auth deadline: %w", err)
	}
	return user, nil
}

func reject(conn *websocket.Conn, reason string, err error) error {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteTimeout))
	return &wsRejection{reason: reason, err: err}
}

// drain 丢弃认证后的客户端消息，只用来发现断开。
func drain(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// relay 是连接上唯一的写者：先发 ready，再转发通知并定时 ping。ctx 结束时返回 nil。
func (h *WsHandler) relay(ctx context.Context, conn *websocket.Conn, log *slog.Logger) error {
	pubsub := h.redisClient.Subscribe(ctx, notify.AdminChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe %s: %w", notify.AdminChannel, err)
	}
	if err := conn.WriteJSON(gin.H{"type": "ready"}); err != nil {
		return fmt.Errorf("write ready: %w", err)
	}

	messages := pubsub.Channel()
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-messages:
			if !ok {
				return errors.New("pubsub channel closed")
			}
			log.Debug("relaying admin notification")
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m.Payload)); err != nil {
				return fmt.Errorf("write notification: %w", err)
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return fmt.Errorf("write ping: %w", err)
			}
		}
	}
}
