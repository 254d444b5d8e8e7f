package gate

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/datalyn/internal/common"
	"github.com/dmitrijs2005/datalyn/internal/netx"
	"github.com/julienschmidt/httprouter"
)

// Require wraps a handler so it only runs for an authenticated caller.
// Every credential problem is answered with the same 401 body; the cause
// is only logged.
func (g *Gate) Require(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := r.Context()

		user, err := g.Authenticate(ctx, r.Header.Get(common.AuthorizationHeaderName))
		if err != nil {
			if errors.Is(err, common.ErrStoreUnavailable) {
				g.logger.Error(ctx, "authentication lookup failed", "error", err)
				netx.WriteError(w, http.StatusServiceUnavailable, "store_unavailable", "service temporarily unavailable")
				return
			}
			g.logger.Info(ctx, "request rejected", "path", r.URL.Path, "reason", err.Error())
			netx.WriteError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
			return
		}

		next(w, r.WithContext(WithUser(ctx, user)), ps)
	}
}
