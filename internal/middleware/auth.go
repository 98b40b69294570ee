package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper/internal/config"
)

type CtxKey int

const (
	CtxOwnerClaims CtxKey = iota
)

// Auth attaches the owner claims from the request cookies to the context.
// Requests without valid cookies get a freshly minted anonymous owner.
func Auth(log *slog.Logger, cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParseOwnerClaims(r)
			if err != nil {
				claims, err = cookies.Issue(w, uuid.New())
				if err != nil {
					log.Error("unable to issue owner cookies", slog.Any("error", err))
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				log.Debug("minted anonymous owner", slog.String("owner", claims.OwnerId.String()))
			}
			ctx := context.WithValue(r.Context(), CtxOwnerClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func OwnerClaims(ctx context.Context) (*config.OwnerClaims, bool) {
	claims, ok := ctx.Value(CtxOwnerClaims).(*config.OwnerClaims)
	return claims, ok
}
