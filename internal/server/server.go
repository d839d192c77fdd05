package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"collectpoint/internal/domain"
	"collectpoint/internal/engine"
	"collectpoint/internal/repo"
)

// Config for the HTTP API handler.
type Config struct {
	Engine   engine.Engine
	BasePath string
	Auth     AuthConfig
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"insufficient_funds"`
	Message string         `json:"message" example:"wallet balance too low for transfer"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true" example:"{\"partner_id\":\"p-1\"}"`
}

type bodyBytesKey struct{}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the Collectpoint API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v1"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	// Override Huma errors to use the envelope shape.
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			// Schema/request validation errors are 400 bad_request
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bodyBytes, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			ctx := context.WithValue(r.Context(), bodyBytesKey{}, bodyBytes)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	router.Use(newAuthMiddleware(basePath, cfg.Auth, cfg.Engine.Repo))
	hcfg := huma.DefaultConfig("Collectpoint API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = "" // custom Swagger UI below
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerDocs(router, basePath)
	registerHealth(group)
	registerWallet(group, cfg.Engine)
	registerPartners(group, cfg.Engine)
	registerOrders(group, cfg.Engine)
	registerDashboard(group, cfg.Engine)
	registerEvents(group, cfg.Engine)
	registerOpenAPI(router, api, basePath)

	return router, nil
}

func bodyBytes(ctx context.Context) []byte {
	b, _ := ctx.Value(bodyBytesKey{}).([]byte)
	return b
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, engine.ErrInvalidAmount):
		return newAPIError(http.StatusBadRequest, "invalid_amount", err.Error(), nil)
	case errors.Is(err, engine.ErrInvalidStatus):
		return newAPIError(http.StatusBadRequest, "invalid_status", err.Error(), nil)
	case errors.Is(err, engine.ErrAccountNotFound):
		return newAPIError(http.StatusNotFound, "account_not_found", err.Error(), nil)
	case errors.Is(err, engine.ErrOrderNotFound):
		return newAPIError(http.StatusNotFound, "order_not_found", err.Error(), nil)
	case errors.Is(err, engine.ErrPartnerNotFound):
		return newAPIError(http.StatusNotFound, "partner_not_found", err.Error(), nil)
	case errors.Is(err, engine.ErrInsufficientFunds):
		return newAPIError(http.StatusUnprocessableEntity, "insufficient_funds", err.Error(), nil)
	case errors.Is(err, engine.ErrIllegalTransition):
		return newAPIError(http.StatusUnprocessableEntity, "illegal_transition", err.Error(), nil)
	case errors.Is(err, engine.ErrScopeViolation):
		return newAPIError(http.StatusForbidden, "scope_violation", err.Error(), nil)
	case errors.Is(err, repo.ErrNotFound):
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, repo.ErrConflict):
		return newAPIError(http.StatusConflict, "conflict", err.Error(), nil)
	}
	msg := err.Error()
	lowered := strings.ToLower(msg)
	if strings.Contains(lowered, "invalid") || strings.Contains(lowered, "missing") || strings.Contains(lowered, "required") {
		return newAPIError(http.StatusBadRequest, "bad_request", msg, nil)
	}
	return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": msg})
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

// requireMCP loads the authenticated principal's account and ensures it is an
// operator account. Partner credentials cannot drive operator endpoints.
func requireMCP(ctx context.Context, e engine.Engine) (domain.Account, huma.StatusError) {
	accountID, authErr := accountIDFromContext(ctx)
	if authErr != nil {
		return domain.Account{}, authErr
	}
	a, err := e.Repo.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Account{}, newAPIError(http.StatusNotFound, "account_not_found", "account not found", nil)
		}
		return domain.Account{}, handleError(err)
	}
	if a.Role != domain.RoleMCP {
		return domain.Account{}, newAPIError(http.StatusForbidden, "scope_violation", "operator account required", nil)
	}
	return a, nil
}

func parseAmount(raw string) (decimal.Decimal, huma.StatusError) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, newAPIError(http.StatusBadRequest, "invalid_amount", fmt.Sprintf("invalid amount %q", raw), nil)
	}
	return d, nil
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerWallet(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "wallet-topup",
		Method:      http.MethodPost,
		Path:        "/wallet/topup",
		Summary:     "Top up the operator wallet",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusForbidden,
			http.StatusNotFound,
			http.StatusConflict,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body TopUpRequest `json:"body"`
	}) (*struct {
		Body WalletResponse `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		mcp, authErr := requireMCP(ctx, e)
		if authErr != nil {
			return nil, authErr
		}
		amount, perr := parseAmount(input.Body.Amount)
		if perr != nil {
			return nil, perr
		}
		bal, err := e.TopUp(ctx, mcp.ID, amount)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body WalletResponse `json:"body"`
		}{Body: WalletResponse{NewWalletBalance: bal.String()}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "wallet-transfer",
		Method:      http.MethodPost,
		Path:        "/wallet/transfer",
		Summary:     "Transfer funds to a pickup partner",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusForbidden,
			http.StatusNotFound,
			http.StatusConflict,
			http.StatusUnprocessableEntity,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body TransferRequest `json:"body"`
	}) (*struct {
		Body WalletResponse `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		if input.Body.PartnerID == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "partner_id is required", nil)
		}
		mcp, authErr := requireMCP(ctx, e)
		if authErr != nil {
			return nil, authErr
		}
		amount, perr := parseAmount(input.Body.Amount)
		if perr != nil {
			return nil, perr
		}
		bal, err := e.Transfer(ctx, mcp.ID, input.Body.PartnerID, amount)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body WalletResponse `json:"body"`
		}{Body: WalletResponse{NewWalletBalance: bal.String()}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "wallet-balance",
		Method:      http.MethodGet,
		Path:        "/wallet",
		Summary:     "Current wallet balance",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body AccountResponse `json:"body"`
	}, error) {
		mcp, authErr := requireMCP(ctx, e)
		if authErr != nil {
			return nil, authErr
		}
		return &struct {
			Body AccountResponse `json:"body"`
		}{Body: accountResponse(mcp)}, nil
	})
}

func registerPartners(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-partner",
		Method:        http.MethodPost,
		Path:          "/partners",
		Summary:       "Create pickup partner",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusForbidden,
			http.StatusNotFound,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body CreatePartnerRequest `json:"body"`
	}) (*struct {
		Body AccountResponse `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		if strings.TrimSpace(input.Body.Name) == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "name is required", nil)
		}
		mcp, authErr := requireMCP(ctx, e)
		if authErr != nil {
			return nil, authErr
		}
		p, err := e.CreatePartner(ctx, mcp.ID, input.Body.Name)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body AccountResponse `json:"body"`
		}{Body: accountResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-partners",
		Method:      http.MethodGet,
		Path:        "/partners",
		Summary:     "List pickup partners",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []AccountResponse `json:"body"`
	}, error) {
		mcp, authErr := requireMCP(ctx, e)
		if authErr != nil {
			return nil, authErr
		}
		items, err := e.Repo.ListPartners(ctx, mcp.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []AccountResponse `json:"body"`
		}{Body: mapAccounts(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-partner-status",
		Method:      http.MethodPatch,
		Path:        "/partners/{id}/status",
		Summary:     "Update partner status",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusForbidden,
			http.StatusNotFound,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		ID   string                  `path:"id"`
		Body SetPartnerStatusRequest `json:"body"`
	}) (*struct {
		Body AccountResponse `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		mcp, authErr := requireMCP(ctx, e)
		if authErr != nil {
			return nil, authErr
		}
		p, err := e.SetPartnerStatus(ctx, mcp.ID, input.ID, input.Body.Status)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body AccountResponse `json:"body"`
		}{Body: accountResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-partner",
		Method:      http.MethodDelete,
		Path:        "/partners/{id}",
		Summary:     "Delete pickup partner",
		Errors: []int{
			http.StatusForbidden,
			http.StatusNotFound,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body DeletePartnerResponse `json:"body"`
	}, error) {
		mcp, authErr := requireMCP(ctx, e)
		if authErr != nil {
			return nil, authErr
		}
		if err := e.DeletePartner(ctx, mcp.ID, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body DeletePartnerResponse `json:"body"`
		}{Body: DeletePartnerResponse{OK: true}}, nil
	})
}

func registerOrders(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-order",
		Method:        http.MethodPost,
		Path:          "/orders",
		Summary:       "Create order",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusForbidden,
			http.StatusNotFound,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body CreateOrderRequest `json:"body"`
	}) (*struct {
		Body OrderResponse `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		mcp, authErr := requireMCP(ctx, e)
		if authErr != nil {
			return nil, authErr
		}
		amount, perr := parseAmount(input.Body.Amount)
		if perr != nil {
			return nil, perr
		}
		opts := engine.OrderCreateOptions{
			CustomerName:    input.Body.CustomerName,
			CustomerAddress: input.Body.CustomerAddress,
			CustomerContact: input.Body.CustomerContact,
			Amount:          amount,
			Latitude:        input.Body.Latitude,
			Longitude:       input.Body.Longitude,
		}
		if input.Body.Notes != nil {
			opts.Notes = *input.Body.Notes
		}
		o, err := e.CreateOrder(ctx, mcp.ID, opts)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body OrderResponse `json:"body"`
		}{Body: orderResponse(o)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-orders",
		Method:      http.MethodGet,
		Path:        "/orders",
		Summary:     "List orders",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		PartnerID string `query:"partner_id"`
		Status    string `query:"status"`
	}) (*struct {
		Body []OrderResponse `json:"body"`
	}, error) {
		mcp, authErr := requireMCP(ctx, e)
		if authErr != nil {
			return nil, authErr
		}
		items, err := e.Repo.ListOrders(ctx, repo.OrderFilters{
			MCPID:     mcp.ID,
			PartnerID: input.PartnerID,
			Status:    input.Status,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []OrderResponse `json:"body"`
		}{Body: mapOrders(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "assign-order",
		Method:      http.MethodPost,
		Path:        "/orders/assign",
		Summary:     "Assign order to a pickup partner",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusForbidden,
			http.StatusNotFound,
			http.StatusConflict,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body AssignOrderRequest `json:"body"`
	}) (*struct {
		Body AssignOrderResponse `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		if input.Body.OrderID == "" || input.Body.PartnerID == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "order_id and partner_id are required", nil)
		}
		mcp, authErr := requireMCP(ctx, e)
		if authErr != nil {
			return nil, authErr
		}
		o, p, err := e.AssignOrder(ctx, mcp.ID, input.Body.OrderID, input.Body.PartnerID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body AssignOrderResponse `json:"body"`
		}{Body: AssignOrderResponse{Order: orderResponse(o), Partner: accountResponse(p)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-order-status",
		Method:      http.MethodPatch,
		Path:        "/orders/{id}/status",
		Summary:     "Update order status",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusForbidden,
			http.StatusNotFound,
			http.StatusUnprocessableEntity,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		ID   string                `path:"id"`
		Body SetOrderStatusRequest `json:"body"`
	}) (*struct {
		Body OrderResponse `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		mcp, authErr := requireMCP(ctx, e)
		if authErr != nil {
			return nil, authErr
		}
		o, err := e.UpdateStatus(ctx, mcp.ID, input.ID, input.Body.Status)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body OrderResponse `json:"body"`
		}{Body: orderResponse(o)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "order-report",
		Method:      http.MethodGet,
		Path:        "/orders/report",
		Summary:     "Order counts over a daily or weekly window",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Range string `query:"range" enum:"daily,weekly" default:"daily"`
	}) (*struct {
		Body OrderCountsResponse `json:"body"`
	}, error) {
		mcp, authErr := requireMCP(ctx, e)
		if authErr != nil {
			return nil, authErr
		}
		counts, err := e.Report(ctx, mcp.ID, input.Range)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body OrderCountsResponse `json:"body"`
		}{Body: countsResponse(counts)}, nil
	})
}

func registerDashboard(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "dashboard",
		Method:      http.MethodGet,
		Path:        "/dashboard",
		Summary:     "Operator dashboard",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body DashboardResponse `json:"body"`
	}, error) {
		mcp, authErr := requireMCP(ctx, e)
		if authErr != nil {
			return nil, authErr
		}
		snap, err := e.Snapshot(ctx, mcp.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body DashboardResponse `json:"body"`
		}{Body: dashboardResponse(snap)}, nil
	})
}

func registerEvents(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "Latest audit events",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Limit      int    `query:"limit" default:"50"`
		Type       string `query:"type"`
		EntityKind string `query:"entity_kind"`
		EntityID   string `query:"entity_id"`
	}) (*struct {
		Body []EventResponse `json:"body"`
	}, error) {
		mcp, authErr := requireMCP(ctx, e)
		if authErr != nil {
			return nil, authErr
		}
		limit := input.Limit
		if limit <= 0 || limit > 500 {
			limit = 50
		}
		items, err := e.Repo.LatestEvents(ctx, limit, mcp.ID, input.Type, input.EntityKind, input.EntityID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []EventResponse `json:"body"`
		}{Body: mapEvents(items)}, nil
	})
}

func registerDocs(r chi.Router, basePath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML(basePath))
	})
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var spec []byte
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		if spec == nil {
			oas := api.OpenAPI()
			applyAuthSecurity(oas, basePath)
			spec, _ = json.Marshal(oas)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func applyAuthSecurity(oas *huma.OpenAPI, basePath string) {
	if oas == nil {
		return
	}
	if oas.Components == nil {
		oas.Components = &huma.Components{}
	}
	if oas.Components.SecuritySchemes == nil {
		oas.Components.SecuritySchemes = map[string]*huma.SecurityScheme{}
	}
	oas.Components.SecuritySchemes["bearerAuth"] = &huma.SecurityScheme{
		Type:         "http",
		Scheme:       "bearer",
		BearerFormat: "JWT",
	}
	oas.Components.SecuritySchemes["apiKeyAuth"] = &huma.SecurityScheme{
		Type: "apiKey",
		In:   "header",
		Name: "X-Api-Key",
	}
	security := []map[string][]string{
		{"bearerAuth": {}},
		{"apiKeyAuth": {}},
	}
	oas.Security = security
	healthPath := path.Join(basePath, "health")
	if !strings.HasPrefix(healthPath, "/") {
		healthPath = "/" + healthPath
	}
	for route, item := range oas.Paths {
		for _, op := range []*huma.Operation{
			item.Get, item.Put, item.Post, item.Delete, item.Options, item.Head, item.Patch, item.Trace,
		} {
			if op == nil {
				continue
			}
			if route == healthPath {
				op.Security = []map[string][]string{}
				continue
			}
			op.Security = security
		}
	}
}

func swaggerHTML(basePath string) string {
	specURL := path.Join("/", path.Join(basePath, "openapi.json"))
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Collectpoint API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({
          url: '%s',
          dom_id: '#swagger-ui'
        });
      };
    </script>
    <p style="padding: 1rem; font-family: sans-serif; color: #444;">
      Authenticate with Authorization: Bearer &lt;token&gt; or X-Api-Key.
    </p>
  </body>
</html>`, specURL)
}
