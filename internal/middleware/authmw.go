package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	TokenExp                = time.Hour * 24 * 365 // Время жизни токена клиента
	NameCookie              = "Token"              // Кука с идентификатором клиента (долговременное хранилище)
	NameSessionCookie       = "Session"            // Кука сессии без срока (хранилище сессии)
	CtxClient         ctxKey = "ClientID"
	CtxSession        ctxKey = "SessionID"
)

type ctxKey string

// Claims тип для указания ClientID
type Claims struct {
	jwt.RegisteredClaims
	ClientID string
}

// AuthMW middleware идентификации клиента и сессии
type AuthMW struct {
	secret []byte
	log    *zap.Logger
}

// NewAuthMW конструктор объекта идентификации
func NewAuthMW(secret string, log *zap.Logger) *AuthMW {
	return &AuthMW{secret: []byte(secret), log: log}
}

// BuildNewToken функция генерации токена новому клиенту
func (a *AuthMW) BuildNewToken(clientID string) (string, error) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenExp)),
	},
		ClientID: clientID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	stringToken, err := token.SignedString(a.secret)
	if err != nil {
		return "", errors.New("error signing token")
	}
	return stringToken, nil
}

// GetClientID получение ИД клиента из токена
func (a *AuthMW) GetClientID(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return a.secret, nil
		})
	if err != nil {
		return "", errors.New("error parsing token")
	}

	if !token.Valid {
		return "", errors.New("invalid token")
	}

	return claims.ClientID, nil
}

// AuthMWfunc выдает куки клиента и сессии, кладет идентификаторы в контекст.
// Невалидный токен заменяется новым клиентом.
func (a *AuthMW) AuthMWfunc(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := ""
		if cookie, err := r.Cookie(NameCookie); err == nil {
			if id, perr := a.GetClientID(cookie.Value); perr == nil && id != "" {
				clientID = id
			}
		}
		if clientID == "" {
			clientID = uuid.NewString()
			token, err := a.BuildNewToken(clientID)
			if err != nil {
				a.log.Error("err while building new token", zap.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     NameCookie,
				Value:    token,
				Path:     "/",
				Expires:  time.Now().Add(TokenExp),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		sessionID := ""
		if cookie, err := r.Cookie(NameSessionCookie); err == nil {
			if _, perr := uuid.Parse(cookie.Value); perr == nil {
				sessionID = cookie.Value
			}
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
			//без Expires: живет до закрытия браузера
			http.SetCookie(w, &http.Cookie{
				Name:     NameSessionCookie,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), CtxClient, clientID)
		ctx = context.WithValue(ctx, CtxSession, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientID ИД клиента из контекста запроса
func ClientID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxClient).(string)
	return v, ok && v != ""
}

// SessionID ИД сессии из контекста запроса
func SessionID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxSession).(string)
	return v, ok && v != ""
}
