package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"collectpoint/internal/app"
	"collectpoint/internal/config"
	"collectpoint/internal/db"
	"collectpoint/internal/domain"
	"collectpoint/internal/engine"
	"collectpoint/internal/migrate"
	"collectpoint/internal/repo"
	"collectpoint/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "cpt",
	Short: "Collectpoint CLI",
	Long: `Collectpoint runs a micro collection point: an operator wallet, pickup
partners, and collection orders.

- Workspace: the .collectpoint directory holding the SQLite database.
- Account: the operator (MCP) account that owns the wallet and all partners.
- Wallet: funds move by top-up (external credit) and transfer (operator to
  partner). Balances never go negative and transfers conserve the total.
- Partners: pickup partners receive funds and order assignments. Deleting a
  partner unassigns its orders without touching their status.
- Orders: Pending -> In Progress (on assignment) -> Completed. An assigned
  order cannot go back to Pending.
- Event log: diary of changes, view with 'cpt log tail'.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("COLLECTPOINT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("account", "", "operator account id (defaults to the single MCP)")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("account", rootCmd.PersistentFlags().Lookup("account"))
}

func registerCommands() {
	rootCmd.AddCommand(accountCmd())
	rootCmd.AddCommand(walletCmd())
	rootCmd.AddCommand(partnerCmd())
	rootCmd.AddCommand(orderCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(apikeyCmd())
	rootCmd.AddCommand(serveCmd())
}

func accountCmd() *cobra.Command {
	acc := &cobra.Command{Use: "account", Short: "Manage the operator account"}
	acc.AddCommand(accountCreateCmd())
	acc.AddCommand(accountShowCmd())
	return acc
}

func accountCreateCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "create [id]",
		Short: "Create the operator account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if name == "" && e.Config != nil {
					name = e.Config.Operator.Name
				}
				a, err := e.CreateMCP(ctx, id, name)
				if err != nil {
					return err
				}
				return printJSONOrTable(a)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "operator name")
	return cmd
}

func accountShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the operator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				mcp, err := app.ResolveMCP(ctx, e, viper.GetString("account"))
				if err != nil {
					return err
				}
				return printJSONOrTable(mcp)
			})
		},
	}
}

func walletCmd() *cobra.Command {
	w := &cobra.Command{Use: "wallet", Short: "Wallet operations"}
	w.AddCommand(walletTopUpCmd())
	w.AddCommand(walletTransferCmd())
	w.AddCommand(walletBalanceCmd())
	w.AddCommand(walletAuditCmd())
	return w
}

func walletTopUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topup <amount>",
		Short: "Credit the operator wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				mcp, err := app.ResolveMCP(ctx, e, viper.GetString("account"))
				if err != nil {
					return err
				}
				bal, err := e.TopUp(ctx, mcp.ID, amount)
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]string{"new_wallet_balance": bal.String()})
			})
		},
	}
	return cmd
}

func walletTransferCmd() *cobra.Command {
	var partnerID string
	cmd := &cobra.Command{
		Use:   "transfer <amount>",
		Short: "Transfer funds to a pickup partner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if partnerID == "" {
				return fmt.Errorf("--partner required")
			}
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				mcp, err := app.ResolveMCP(ctx, e, viper.GetString("account"))
				if err != nil {
					return err
				}
				bal, err := e.Transfer(ctx, mcp.ID, partnerID, amount)
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]string{"new_wallet_balance": bal.String()})
			})
		},
	}
	cmd.Flags().StringVar(&partnerID, "partner", "", "partner account id")
	return cmd
}

func walletBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the operator wallet balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				mcp, err := app.ResolveMCP(ctx, e, viper.GetString("account"))
				if err != nil {
					return err
				}
				currency := ""
				if e.Config != nil {
					currency = e.Config.Wallet.Currency
				}
				return printJSONOrTable(map[string]string{
					"wallet_balance": mcp.WalletBalance.String(),
					"currency":       currency,
				})
			})
		},
	}
}

func walletAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Sum all wallet balances (conservation check)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				total, err := r.SumBalances(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]string{"total_balance": total.String()})
			})
		},
	}
}

func partnerCmd() *cobra.Command {
	p := &cobra.Command{Use: "partner", Short: "Manage pickup partners"}
	p.AddCommand(partnerAddCmd())
	p.AddCommand(partnerListCmd())
	p.AddCommand(partnerStatusCmd())
	p.AddCommand(partnerDeleteCmd())
	return p
}

func partnerAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a pickup partner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				mcp, err := app.ResolveMCP(ctx, e, viper.GetString("account"))
				if err != nil {
					return err
				}
				p, err := e.CreatePartner(ctx, mcp.ID, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	return cmd
}

func partnerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pickup partners",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				mcp, err := app.ResolveMCP(ctx, e, viper.GetString("account"))
				if err != nil {
					return err
				}
				partners, err := e.Repo.ListPartners(ctx, mcp.ID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(partners)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Status", "Balance", "Orders"})
				for _, p := range partners {
					tw.AppendRow(table.Row{p.ID, p.Name, p.Status, p.WalletBalance.String(), p.TotalOrders})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func partnerStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <id> <active|inactive>",
		Short: "Update partner status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				mcp, err := app.ResolveMCP(ctx, e, viper.GetString("account"))
				if err != nil {
					return err
				}
				p, err := e.SetPartnerStatus(ctx, mcp.ID, args[0], args[1])
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	return cmd
}

func partnerDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a partner and unassign its orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				mcp, err := app.ResolveMCP(ctx, e, viper.GetString("account"))
				if err != nil {
					return err
				}
				return e.DeletePartner(ctx, mcp.ID, args[0])
			})
		},
	}
}

func orderCmd() *cobra.Command {
	o := &cobra.Command{Use: "order", Short: "Manage collection orders"}
	o.AddCommand(orderCreateCmd())
	o.AddCommand(orderListCmd())
	o.AddCommand(orderAssignCmd())
	o.AddCommand(orderStatusCmd())
	o.AddCommand(orderReportCmd())
	return o
}

func orderCreateCmd() *cobra.Command {
	var opts engine.OrderCreateOptions
	var amountRaw string
	var lat, lon float64
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an order",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(amountRaw)
			if err != nil {
				return fmt.Errorf("invalid amount %q", amountRaw)
			}
			opts.Amount = amount
			if cmd.Flags().Changed("lat") {
				opts.Latitude = &lat
			}
			if cmd.Flags().Changed("lon") {
				opts.Longitude = &lon
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				mcp, err := app.ResolveMCP(ctx, e, viper.GetString("account"))
				if err != nil {
					return err
				}
				o, err := e.CreateOrder(ctx, mcp.ID, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(o)
			})
		},
	}
	cmd.Flags().StringVar(&opts.CustomerName, "customer", "", "customer name")
	cmd.Flags().StringVar(&opts.CustomerAddress, "address", "", "pickup address")
	cmd.Flags().StringVar(&opts.CustomerContact, "contact", "", "customer contact")
	cmd.Flags().StringVar(&amountRaw, "amount", "", "order amount")
	cmd.Flags().Float64Var(&lat, "lat", 0, "pickup latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "pickup longitude")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "notes")
	return cmd
}

func orderListCmd() *cobra.Command {
	var partnerID, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				mcp, err := app.ResolveMCP(ctx, e, viper.GetString("account"))
				if err != nil {
					return err
				}
				orders, err := e.Repo.ListOrders(ctx, repo.OrderFilters{
					MCPID:     mcp.ID,
					PartnerID: partnerID,
					Status:    status,
				})
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(orders)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Customer", "Amount", "Status", "Partner"})
				for _, o := range orders {
					tw.AppendRow(table.Row{o.ID, o.CustomerName, o.Amount.String(), o.Status, o.PartnerName})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&partnerID, "partner", "", "partner filter")
	cmd.Flags().StringVar(&status, "status", "", "status filter")
	return cmd
}

func orderAssignCmd() *cobra.Command {
	var partnerID string
	cmd := &cobra.Command{
		Use:   "assign <order-id>",
		Short: "Assign an order to a partner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if partnerID == "" {
				return fmt.Errorf("--partner required")
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				mcp, err := app.ResolveMCP(ctx, e, viper.GetString("account"))
				if err != nil {
					return err
				}
				o, p, err := e.AssignOrder(ctx, mcp.ID, args[0], partnerID)
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]any{"order": o, "partner": p})
			})
		},
	}
	cmd.Flags().StringVar(&partnerID, "partner", "", "partner account id")
	return cmd
}

func orderStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Update order status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				mcp, err := app.ResolveMCP(ctx, e, viper.GetString("account"))
				if err != nil {
					return err
				}
				o, err := e.UpdateStatus(ctx, mcp.ID, args[0], args[1])
				if err != nil {
					return err
				}
				return printJSONOrTable(o)
			})
		},
	}
}

func orderReportCmd() *cobra.Command {
	var rng string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Order counts over a daily or weekly window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				mcp, err := app.ResolveMCP(ctx, e, viper.GetString("account"))
				if err != nil {
					return err
				}
				counts, err := e.Report(ctx, mcp.ID, rng)
				if err != nil {
					return err
				}
				return printJSONOrTable(counts)
			})
		},
	}
	cmd.Flags().StringVar(&rng, "range", "daily", "daily or weekly")
	return cmd
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Operator dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				mcp, err := app.ResolveMCP(ctx, e, viper.GetString("account"))
				if err != nil {
					return err
				}
				snap, err := e.Snapshot(ctx, mcp.ID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(snap)
				}
				fmt.Printf("Wallet balance: %s\n", snap.WalletBalance.String())
				fmt.Printf("Orders: %d total, %d completed, %d pending\n",
					snap.Orders.Total, snap.Orders.Completed, snap.Orders.Pending)
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Partner", "Status", "Orders"})
				for _, p := range snap.PickupPartners {
					tw.AppendRow(table.Row{p.Name, p.Status, p.TotalOrders})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{Use: "config", Short: "Workspace configuration"}
	cfg.AddCommand(configShowCmd())
	cfg.AddCommand(configValidateCmd())
	return cfg
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			return printJSONOrTable(cfg)
		},
	}
}

func configValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate workspace config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(map[string]string{"status": "ok"})
			}
			fmt.Println("config ok")
			return nil
		},
	}
}

func logCmd() *cobra.Command {
	log := &cobra.Command{Use: "log", Short: "Event log"}
	log.AddCommand(logTailCmd())
	return log
}

func logTailCmd() *cobra.Command {
	var n int
	var evtType, entityKind, entityID string
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				mcp, err := app.ResolveMCP(ctx, e, viper.GetString("account"))
				if err != nil {
					return err
				}
				events, err := e.Repo.LatestEvents(ctx, n, mcp.ID, evtType, entityKind, entityID)
				if err != nil {
					return err
				}
				return printJSONOrTable(events)
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	cmd.Flags().StringVar(&evtType, "type", "", "event type filter")
	cmd.Flags().StringVar(&entityKind, "entity-kind", "", "entity kind")
	cmd.Flags().StringVar(&entityID, "entity-id", "", "entity id")
	return cmd
}

func apikeyCmd() *cobra.Command {
	k := &cobra.Command{Use: "apikey", Short: "Manage API keys"}
	k.AddCommand(apikeyCreateCmd())
	k.AddCommand(apikeyListCmd())
	k.AddCommand(apikeyDeleteCmd())
	return k
}

func apikeyCreateCmd() *cobra.Command {
	var name, accountID string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an API key (raw key is printed once)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if accountID == "" {
					mcp, err := app.ResolveMCP(ctx, e, viper.GetString("account"))
					if err != nil {
						return err
					}
					accountID = mcp.ID
				}
				raw := "cpt_" + strings.ReplaceAll(uuid.New().String(), "-", "")
				key := domain.APIKey{
					ID:        uuid.New().String(),
					AccountID: accountID,
					Name:      name,
					KeyHash:   repo.HashAPIKey(raw),
					CreatedAt: time.Now().UTC().Format(time.RFC3339),
				}
				if err := e.Repo.InsertAPIKey(ctx, nil, key); err != nil {
					return err
				}
				return printJSONOrTable(map[string]string{
					"id":         key.ID,
					"account_id": key.AccountID,
					"api_key":    raw,
				})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "key label")
	cmd.Flags().StringVar(&accountID, "for-account", "", "account the key acts as")
	return cmd
}

func apikeyListCmd() *cobra.Command {
	var accountID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				keys, err := r.ListAPIKeys(ctx, accountID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(keys)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Account", "Name", "Created"})
				for _, k := range keys {
					tw.AppendRow(table.Row{k.ID, k.AccountID, k.Name, k.CreatedAt})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&accountID, "for-account", "", "filter by account")
	return cmd
}

func apikeyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				return r.DeleteAPIKey(ctx, args[0])
			})
		},
	}
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			if _, err := db.EnsureWorkspace(workspace); err != nil {
				return err
			}
			conn, err := db.Open(db.Config{Workspace: workspace})
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			cfg, err := config.Load(workspace)
			if err != nil {
				return err
			}
			e := engine.New(conn, cfg)
			if basePath == "" {
				basePath = cfg.Server.BasePath
			}
			authCfg := server.AuthConfig{
				JWTSecret:                os.Getenv("COLLECTPOINT_JWT_SECRET"),
				AllowLegacyAccountHeader: cfg.Auth.AllowLegacyAccountHeader,
			}
			if authCfg.JWTSecret == "" && !authCfg.AllowLegacyAccountHeader {
				return fmt.Errorf("COLLECTPOINT_JWT_SECRET is required for bearer auth")
			}
			handler, err := server.New(server.Config{Engine: e, BasePath: basePath, Auth: authCfg})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving Collectpoint API on http://%s%s (OpenAPI at /openapi.json, Swagger UI at /docs)\n", addr, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "", "API base path (defaults to config)")
	return cmd
}

// --- helpers ---

func withEngine(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	cfg, err := config.Load(workspace)
	if err != nil {
		return err
	}
	e := engine.New(conn, cfg)
	return fn(ctx, e)
}

func withRepo(ctx context.Context, fn func(context.Context, repo.Repo) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	return fn(ctx, repo.Repo{DB: conn})
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
