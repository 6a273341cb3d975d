package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/blinkhq/storefront/internal/adapter/handler"
	"github.com/blinkhq/storefront/internal/app"
	"github.com/blinkhq/storefront/internal/config"
	"github.com/blinkhq/storefront/internal/core/domain"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Headless storefront client toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(
		newShopCmd(&configPath),
		newProductsCmd(&configPath),
		newCartCmd(&configPath),
		newServeCmd(&configPath),
	)
	return root
}

// withApp loads configuration, assembles the toolkit, and hands it to
// the command body. The cart is always initialized from cache first so
// commands observe the same boot state a page load would.
func withApp(configPath string, fn func(ctx context.Context, a *app.App) error) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	a.Cart.Init(ctx)
	return fn(ctx, a)
}

func newShopCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "shop",
		Short: "Show shop metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(ctx context.Context, a *app.App) error {
				shop, err := a.Shop.Shop(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("%s\t(money format %q)\n", shop.Name, shop.MoneyFormat)
				return nil
			})
		},
	}
}

func newProductsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "products <id>...",
		Short: "Resolve products and print their variants",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(ctx context.Context, a *app.App) error {
				shop, err := a.Shop.Shop(ctx)
				if err != nil {
					return err
				}
				if err := a.Catalog.FetchProducts(ctx, args); err != nil {
					return err
				}
				for _, id := range args {
					p, ok := a.Catalog.Product(id)
					if !ok {
						fmt.Printf("%s\t(unresolved)\n", id)
						continue
					}
					fmt.Printf("%s\t%s\n", id, p.Title)
					for _, v := range p.Variants {
						marker := " "
						if !v.AvailableForSale {
							marker = "✗"
						}
						fmt.Printf("  %s %s\t%s\t%s\n", marker, domain.NumericID(v.ID), v.Title, v.Price.Format(shop.MoneyFormat))
					}
				}
				return nil
			})
		},
	}
}

func newCartCmd(configPath *string) *cobra.Command {
	cart := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and mutate the cart",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(ctx context.Context, a *app.App) error {
				if !a.Cart.IsEmpty() {
					// Cached lines may be stale; show the server's view.
					if err := a.Cart.Refresh(ctx); err != nil {
						return err
					}
				}
				printCart(a)
				return nil
			})
		},
	}

	var quantity int
	add := &cobra.Command{
		Use:   "add <variant-id>",
		Short: "Add a variant to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(ctx context.Context, a *app.App) error {
				if err := a.Cart.Add(ctx, args[0], quantity); err != nil {
					return err
				}
				printCart(a)
				return nil
			})
		},
	}
	add.Flags().IntVarP(&quantity, "quantity", "q", 1, "quantity to add")

	remove := &cobra.Command{
		Use:   "remove <line-id>",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(ctx context.Context, a *app.App) error {
				if err := a.Cart.RemoveLineItem(ctx, args[0]); err != nil {
					return err
				}
				printCart(a)
				return nil
			})
		},
	}

	var newQuantity int
	update := &cobra.Command{
		Use:   "update <line-id>",
		Short: "Change a cart line's quantity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(ctx context.Context, a *app.App) error {
				if err := a.Cart.UpdateLineItemQuantity(ctx, args[0], newQuantity); err != nil {
					return err
				}
				printCart(a)
				return nil
			})
		},
	}
	update.Flags().IntVarP(&newQuantity, "quantity", "q", 1, "new quantity (0 removes the line)")

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Remove every line from the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(ctx context.Context, a *app.App) error {
				if err := a.Cart.Clear(ctx); err != nil {
					return err
				}
				printCart(a)
				return nil
			})
		},
	}

	cart.AddCommand(show, add, remove, update, clear)
	return cart
}

func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON facade over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(ctx context.Context, a *app.App) error {
				h := handler.NewHTTPHandler(a.Shop, a.Catalog, a.Cart)
				fmt.Printf("listening on %s\n", addr)
				return http.ListenAndServe(addr, h.Routes())
			})
		},
	}
	serve.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return serve
}

func printCart(a *app.App) {
	cart := a.Cart.Cart()
	if cart.IsEmpty() {
		fmt.Println("cart is empty")
		return
	}
	for _, line := range cart.Lines {
		fmt.Printf("%s\t%d × %s\t%s %s\n",
			line.ID, line.Quantity, line.Merchandise.Title,
			line.Cost.TotalAmount.Amount, line.Cost.TotalAmount.CurrencyCode)
	}
	fmt.Printf("items: %d\tsubtotal: %s\ttotal: %s\n", cart.ItemCount(), cart.Subtotal(), cart.Total())
	if cart.CheckoutURL != "" {
		fmt.Println("checkout:", cart.CheckoutURL)
	}
}
