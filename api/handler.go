// Package api is the HTTP facade the browser UI talks to. It maps form
// actions onto the wallet's operation surface and registry; no wallet
// logic lives here.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/q3x-finance/miden-poc-ui/domain"
	"github.com/q3x-finance/miden-poc-ui/registry"
	"github.com/q3x-finance/miden-poc-ui/wallet"
)

type API struct {
	service  *wallet.Service
	registry *registry.Store
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewAPI(service *wallet.Service, registry *registry.Store, logger zerolog.Logger) *API {
	return &API{
		service:  service,
		registry: registry,
		validate: validator.New(),
		logger:   logger,
	}
}

// Register mounts all routes.
func (api *API) Register(router *mux.Router) {
	router.Use(api.requestID)

	router.HandleFunc("/v1/send", api.SendBatch).Methods("POST")
	router.HandleFunc("/v1/mint", api.MintToken).Methods("POST")

	router.HandleFunc("/v1/accounts", api.DeployAccount).Methods("POST")
	router.HandleFunc("/v1/accounts", api.ListAccounts).Methods("GET")
	router.HandleFunc("/v1/accounts/{id}/portfolio", api.GetPortfolio).Methods("GET")
	router.HandleFunc("/v1/accounts/{id}/notes", api.GetConsumableNotes).Methods("GET")
	router.HandleFunc("/v1/accounts/{id}/notes/consume", api.ConsumeAll).Methods("POST")

	router.HandleFunc("/v1/faucets", api.DeployFaucet).Methods("POST")
	router.HandleFunc("/v1/faucets", api.ListFaucets).Methods("GET")

	router.HandleFunc("/v1/contacts", api.ListContacts).Methods("GET")
	router.HandleFunc("/v1/contacts", api.AddContact).Methods("POST")
	router.HandleFunc("/v1/contacts/{index}", api.RemoveContact).Methods("DELETE")
}

// requestID tags every request with a correlation id for the logs.
func (api *API) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		api.logger.Debug().Str("request_id", id).Str("method", r.Method).Str("path", r.URL.Path).Msg("request")
		next.ServeHTTP(w, r)
	})
}

type sendRequest struct {
	Sender     string                `json:"sender" validate:"required"`
	FaucetID   string                `json:"faucetId"`
	Private    bool                  `json:"private"`
	Recipients []wallet.RecipientRow `json:"recipients" validate:"required"`
}

func (api *API) SendBatch(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if !api.decode(w, r, &req) {
		return
	}

	sender, err := domain.ParseAccountID(req.Sender)
	if err != nil {
		api.writeJSON(w, http.StatusBadRequest, errorBody("invalid sender: "+err.Error()))
		return
	}

	// An unset faucet is the orchestrator's MissingFaucet case; a set but
	// unregistered one has no cached precision to scale amounts with.
	var faucet domain.Faucet
	if req.FaucetID != "" {
		f, ok, err := api.lookupFaucet(req.FaucetID)
		if err != nil {
			api.writeJSON(w, http.StatusInternalServerError, errorBody("registry read failed"))
			return
		}
		if !ok {
			api.writeJSON(w, http.StatusBadRequest, errorBody("faucet "+req.FaucetID+" is not registered"))
			return
		}
		faucet = f
	}

	receipt, err := api.service.SendBatch(r.Context(), wallet.BatchInput{
		Sender:  sender,
		Faucet:  faucet,
		Rows:    req.Recipients,
		Private: req.Private,
	})
	if err != nil {
		api.writeError(w, err, "batch send failed")
		return
	}
	api.logger.Info().Str("tx", receipt.TxRef.String()).Msg("batch sent")
	api.writeJSON(w, http.StatusOK, receipt)
}

type mintRequest struct {
	Account string `json:"account" validate:"required"`
	Faucet  string `json:"faucet" validate:"required"`
	Amount  uint64 `json:"amount" validate:"required,gt=0"`
}

func (api *API) MintToken(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if !api.decode(w, r, &req) {
		return
	}
	account, err := domain.ParseAccountID(req.Account)
	if err != nil {
		api.writeJSON(w, http.StatusBadRequest, errorBody("invalid account: "+err.Error()))
		return
	}
	faucet, err := domain.ParseFaucetID(req.Faucet)
	if err != nil {
		api.writeJSON(w, http.StatusBadRequest, errorBody("invalid faucet: "+err.Error()))
		return
	}

	receipt, err := api.service.MintToken(r.Context(), account, faucet, req.Amount)
	if err != nil {
		api.writeError(w, err, "mint failed")
		return
	}
	api.writeJSON(w, http.StatusOK, receipt)
}

func (api *API) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	account, ok := api.pathAccount(w, r)
	if !ok {
		return
	}
	assets, err := api.service.Refresh(r.Context(), account)
	if err != nil {
		api.writeError(w, err, "portfolio refresh failed")
		return
	}
	api.writeJSON(w, http.StatusOK, map[string]any{"account": account, "assets": assets})
}

type deployAccountRequest struct {
	Name     string `json:"name"`
	IsPublic bool   `json:"isPublic"`
}

func (api *API) DeployAccount(w http.ResponseWriter, r *http.Request) {
	var req deployAccountRequest
	if !api.decode(w, r, &req) {
		return
	}
	account, err := api.service.DeployAccount(r.Context(), req.Name, req.IsPublic)
	if err != nil {
		api.writeError(w, err, "account deployment failed")
		return
	}
	api.writeJSON(w, http.StatusCreated, account)
}

func (api *API) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := api.registry.Accounts()
	if err != nil {
		api.writeJSON(w, http.StatusInternalServerError, errorBody("registry read failed"))
		return
	}
	api.writeJSON(w, http.StatusOK, accounts)
}

type deployFaucetRequest struct {
	Symbol    string `json:"symbol" validate:"required,alphanum,max=10"`
	Decimals  int32  `json:"decimals" validate:"gte=0,lte=12"`
	MaxSupply uint64 `json:"maxSupply" validate:"required,gt=0"`
}

func (api *API) DeployFaucet(w http.ResponseWriter, r *http.Request) {
	var req deployFaucetRequest
	if !api.decode(w, r, &req) {
		return
	}
	faucet, err := api.service.DeployFaucet(r.Context(), req.Symbol, req.Decimals, req.MaxSupply)
	if err != nil {
		api.writeError(w, err, "faucet deployment failed")
		return
	}
	api.writeJSON(w, http.StatusCreated, faucet)
}

func (api *API) ListFaucets(w http.ResponseWriter, r *http.Request) {
	faucets, err := api.registry.Faucets()
	if err != nil {
		api.writeJSON(w, http.StatusInternalServerError, errorBody("registry read failed"))
		return
	}
	api.writeJSON(w, http.StatusOK, faucets)
}

func (api *API) GetConsumableNotes(w http.ResponseWriter, r *http.Request) {
	account, ok := api.pathAccount(w, r)
	if !ok {
		return
	}
	notes, err := api.service.GetConsumableNotes(r.Context(), account)
	if err != nil {
		api.writeError(w, err, "note listing failed")
		return
	}
	api.writeJSON(w, http.StatusOK, notes)
}

func (api *API) ConsumeAll(w http.ResponseWriter, r *http.Request) {
	account, ok := api.pathAccount(w, r)
	if !ok {
		return
	}
	receipt, err := api.service.ConsumeAll(r.Context(), account)
	if err != nil {
		api.writeError(w, err, "note consumption failed")
		return
	}
	api.writeJSON(w, http.StatusOK, receipt)
}

func (api *API) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := api.registry.Contacts()
	if err != nil {
		api.writeJSON(w, http.StatusInternalServerError, errorBody("registry read failed"))
		return
	}
	api.writeJSON(w, http.StatusOK, contacts)
}

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
}

func (api *API) AddContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !api.decode(w, r, &req) {
		return
	}
	if _, err := domain.ParseAccountID(req.Address); err != nil {
		api.writeJSON(w, http.StatusBadRequest, errorBody("invalid address: "+err.Error()))
		return
	}
	if err := api.registry.AppendContact(domain.Contact{Name: req.Name, Address: req.Address}); err != nil {
		api.writeJSON(w, http.StatusInternalServerError, errorBody("registry write failed"))
		return
	}
	api.writeJSON(w, http.StatusCreated, map[string]string{"message": "contact added"})
}

func (api *API) RemoveContact(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || index < 0 {
		api.writeJSON(w, http.StatusBadRequest, errorBody("invalid contact index"))
		return
	}
	if err := api.registry.RemoveContact(index); err != nil {
		api.writeJSON(w, http.StatusInternalServerError, errorBody("registry write failed"))
		return
	}
	api.writeJSON(w, http.StatusOK, map[string]string{"message": "contact removed"})
}

func (api *API) pathAccount(w http.ResponseWriter, r *http.Request) (domain.AccountID, bool) {
	account, err := domain.ParseAccountID(mux.Vars(r)["id"])
	if err != nil {
		api.writeJSON(w, http.StatusBadRequest, errorBody("invalid account: "+err.Error()))
		return "", false
	}
	return account, true
}

func (api *API) lookupFaucet(id string) (domain.Faucet, bool, error) {
	faucets, err := api.registry.Faucets()
	if err != nil {
		return domain.Faucet{}, false, err
	}
	for _, f := range faucets {
		if f.ID.String() == id {
			return f, true, nil
		}
	}
	return domain.Faucet{}, false, nil
}

func (api *API) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		api.writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return false
	}
	if err := api.validate.Struct(v); err != nil {
		api.writeJSON(w, http.StatusBadRequest, errorBody("invalid request: "+err.Error()))
		return false
	}
	return true
}

// writeError maps a wallet error kind onto an HTTP status. Every failure
// surfaces as exactly one human-readable message.
func (api *API) writeError(w http.ResponseWriter, err error, msg string) {
	status := http.StatusInternalServerError
	switch wallet.KindOf(err) {
	case wallet.KindMalformedIdentifier, wallet.KindInvalidAmount,
		wallet.KindNoValidRecipients, wallet.KindMissingFaucet:
		status = http.StatusBadRequest
	case wallet.KindAccountNotFound:
		status = http.StatusNotFound
	case wallet.KindSendInProgress:
		status = http.StatusConflict
	case wallet.KindSubmissionFailed, wallet.KindNetworkUnavailable:
		status = http.StatusBadGateway
	}
	api.logger.Error().Err(err).Msg(msg)
	api.writeJSON(w, status, errorBody(err.Error()))
}

func (api *API) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		api.logger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
