package storefront

import (
	"net/http"

	"github.com/lenshaus/atelier/internal/cookie"
)

// cartSessionMaxAge keeps anonymous carts around for 30 days.
const cartSessionMaxAge = 30 * 24 * 60 * 60

// GetCartTokenFromCookie retrieves the cart session token from the cart
// cookie. Returns empty string if the cookie is not present.
func GetCartTokenFromCookie(r *http.Request) string {
	return cookie.Get(r, cookie.CartCookieName)
}

// SetCartCookie sets the cart session cookie.
func SetCartCookie(w http.ResponseWriter, token string, cookieConfig *cookie.Config) {
	cookieConfig.SetSession(w, cookie.CartCookieName, token, cartSessionMaxAge)
}
