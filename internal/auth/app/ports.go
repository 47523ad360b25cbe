package app

import (
	"github.com/dwikikusuma/storefront/internal/auth/domain"
)

type TokenCodec interface {
	Issue(id domain.Identity) (string, error)
	Parse(token string) (domain.Identity, error)
}
