package handlers

import (
	"balalaika/internal/config"
	"balalaika/internal/services"
	"balalaika/internal/store"
)

type Deps struct {
	Auth  *services.AuthService
	Store *store.Store

	AuthHandler   *AuthHandler
	StoreHandler  *StoreHandler
	AdminHandler  *AdminHandler
	APIHandler    *APIHandler
	StreamHandler *StreamHandler
}

func NewDeps(w services.Writer, st *store.Store, cfg config.Config, auth *services.AuthService) *Deps {
	catalogSvc := services.NewCatalogService(st, cfg.ContactNumber)
	adminSvc := services.NewAdminService(w)

	return &Deps{
		Auth:          auth,
		Store:         st,
		AuthHandler:   &AuthHandler{Auth: auth, SecureCookie: cfg.CookieSecure},
		StoreHandler:  &StoreHandler{Catalog: catalogSvc},
		AdminHandler:  &AdminHandler{Admin: adminSvc, Catalog: catalogSvc},
		APIHandler:    &APIHandler{Catalog: catalogSvc},
		StreamHandler: &StreamHandler{Store: st, Auth: auth},
	}
}
