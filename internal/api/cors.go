package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

const corsAllowHeaders = "authorization, x-client-info, apikey, content-type"

// CORS sets the browser CORS headers and answers preflight requests with an empty 200.
func CORS(allowOrigin string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
