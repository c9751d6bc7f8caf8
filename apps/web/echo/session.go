package echoweb

import (
	"net/http"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/shell"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/teacher"
)

const (
	sessionCookieName = "academia_session"
	contextSessionKey = "session"
)

var errInvalidSession = errors.New("invalid session token")

// Session is one operator's console: a shell and the view-state of both screens.
// It only lives in memory and expires together with its cookie.
type Session struct {
	ID       string
	Shell    *shell.Shell
	Students *student.Manager
	Teachers *teacher.Manager

	expiresAt time.Time
}

// sessionClaims is the payload of the session cookie; Id carries the session ID.
type sessionClaims struct {
	jwt.StandardClaims
}

type sessionStore struct {
	key     []byte
	issuer  string
	ttl     time.Duration
	newSess func(id string) *Session

	mu       sync.Mutex
	sessions map[string]*Session
}

func newSessionStore(key []byte, issuer string, ttl time.Duration, newSess func(id string) *Session) *sessionStore {
	return &sessionStore{
		key:      key,
		issuer:   issuer,
		ttl:      ttl,
		newSess:  newSess,
		sessions: make(map[string]*Session),
	}
}

func (st *sessionStore) get(id string, now time.Time) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	if now.After(sess.expiresAt) {
		delete(st.sessions, id)
		return nil, false
	}
	return sess, true
}

func (st *sessionStore) create(now time.Time) *Session {
	sess := st.newSess(uuid.New().String())
	sess.expiresAt = now.Add(st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()
	for id, s := range st.sessions {
		if now.After(s.expiresAt) {
			delete(st.sessions, id)
		}
	}
	st.sessions[sess.ID] = sess
	return sess
}

func (st *sessionStore) sign(sess *Session, now time.Time) (string, error) {
	claims := sessionClaims{
		StandardClaims: jwt.StandardClaims{
			Id:        sess.ID,
			Issuer:    st.issuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(st.ttl).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(st.key)
	if err != nil {
		return "", errors.Wrap(err, "signing session token")
	}
	return token, nil
}

// parse returns the session ID carried by a cookie value signed by this store.
func (st *sessionStore) parse(value string) (string, error) {
	claims := new(sessionClaims)
	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errInvalidSession
		}
		return st.key, nil
	})
	if err != nil || !token.Valid || claims.Id == "" || claims.Issuer != st.issuer {
		return "", errInvalidSession
	}
	return claims.Id, nil
}

// sessionMiddleware attaches the operator's session to the context, starting a new one when the
// cookie is missing, tampered with or expired.
func (st *sessionStore) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		now := time.Now()

		var sess *Session
		if cookie, err := ctx.Cookie(sessionCookieName); err == nil {
			if id, err := st.parse(cookie.Value); err == nil {
				sess, _ = st.get(id, now)
			}
		}

		if sess == nil {
			sess = st.create(now)
			token, err := st.sign(sess, now)
			if err != nil {
				return err
			}
			ctx.SetCookie(&http.Cookie{
				Name:     sessionCookieName,
				Value:    token,
				Path:     "/",
				Expires:  now.Add(st.ttl),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx.Set(contextSessionKey, sess)
		return next(ctx)
	}
}

func getSession(ctx echo.Context) *Session {
	sess, _ := ctx.Get(contextSessionKey).(*Session)
	return sess
}
