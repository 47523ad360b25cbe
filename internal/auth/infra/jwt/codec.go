package jwt

import (
	"errors"
	"time"

	"github.com/dwikikusuma/storefront/internal/auth/app"
	"github.com/dwikikusuma/storefront/internal/auth/domain"
	gojwt "github.com/golang-jwt/jwt/v5"
)

const leeway = 30 * time.Second

type Config struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

type claims struct {
	Name string `json:"name"`
	gojwt.RegisteredClaims
}

// Codec issues and parses HS256 session tokens.
type Codec struct {
	cfg Config
	now func() time.Time
}

func NewCodec(cfg Config) *Codec {
	return &Codec{cfg: cfg, now: time.Now}
}

func (c *Codec) Issue(id domain.Identity) (string, error) {
	now := c.now()
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims{
		Name: id.Name,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    c.cfg.Issuer,
			Audience:  gojwt.ClaimStrings{c.cfg.Audience},
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(c.cfg.TTL)),
		},
	})
	return token.SignedString([]byte(c.cfg.Secret))
}

func (c *Codec) Parse(raw string) (domain.Identity, error) {
	var cl claims
	token, err := gojwt.ParseWithClaims(raw, &cl, func(t *gojwt.Token) (any, error) {
		if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, gojwt.ErrSignatureInvalid
		}
		return []byte(c.cfg.Secret), nil
	},
		gojwt.WithLeeway(leeway),
		gojwt.WithIssuer(c.cfg.Issuer),
		gojwt.WithAudience(c.cfg.Audience),
		gojwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return domain.Identity{}, err
	}
	if !token.Valid || cl.Subject == "" {
		return domain.Identity{}, errors.New("missing subject")
	}
	return domain.Identity{UserID: cl.Subject, Name: cl.Name}, nil
}

var _ app.TokenCodec = (*Codec)(nil)
