package server

import (
	"context"
	"net/http"

	"sekisan/internal/handlers"
	applog "sekisan/internal/log"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")
	mux.HandleFunc("/healthz", handlers.Health)
	mux.HandleFunc("/login", handlers.Login)
	mux.HandleFunc("/signup", handlers.Signup)
	mux.HandleFunc("/logout", handlers.Logout)
	mux.Handle("/app/api/projects", handlers.RequireAuthentication(http.HandlerFunc(handlers.ProjectResource)))
	mux.Handle("/app/api/projects/", handlers.RequireAuthentication(http.HandlerFunc(handlers.ProjectResource)))
	mux.Handle("/app/api/trading-partners", handlers.RequireAuthentication(http.HandlerFunc(handlers.TradingPartnerResource)))
	mux.Handle("/app/api/trading-partners/", handlers.RequireAuthentication(http.HandlerFunc(handlers.TradingPartnerResource)))
	mux.Handle("/app/api/quantity-tables", handlers.RequireAuthentication(http.HandlerFunc(handlers.QuantityTableResource)))
	mux.Handle("/app/api/quantity-tables/", handlers.RequireAuthentication(http.HandlerFunc(handlers.QuantityTableResource)))
	applog.Debug(context.Background(), "routes registered", "protectedPrefix", "/app/api/")
	return mux
}
