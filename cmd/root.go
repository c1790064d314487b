package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/nguyentranbao-ct/sale-sailor/internal/app"
	"github.com/nguyentranbao-ct/sale-sailor/internal/config"
	"github.com/nguyentranbao-ct/sale-sailor/internal/models"
	"github.com/nguyentranbao-ct/sale-sailor/internal/server"
	"github.com/nguyentranbao-ct/sale-sailor/internal/usecase"
	"github.com/nguyentranbao-ct/sale-sailor/pkg/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "sale-sailor",
	Short:         "Find grocery sales near a location",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(server.StartServer).Run()
	},
}

type fetchOptions struct {
	vendor   string
	location string
	publish  bool
	all      bool
}

func newFetchCmd() *cobra.Command {
	opts := &fetchOptions{}
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch current sales and print them as JSON",
		Example: `  sale-sailor fetch --vendor tnt --location "V6B 2K5"
  sale-sailor fetch --all --location M5V`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load()
			if err != nil {
				return err
			}
			return runFetch(cmd, conf, opts)
		},
	}
	cmd.Flags().StringVar(&opts.vendor, "vendor", "tnt", "vendor key")
	cmd.Flags().StringVar(&opts.location, "location", "", "postal code or other location hint")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "publish the products as sale events")
	cmd.Flags().BoolVar(&opts.all, "all", false, "fetch every vendor")
	return cmd
}

func runFetch(cmd *cobra.Command, conf *config.Config, opts *fetchOptions) error {
	var uc usecase.SaleUsecase
	fxApp := app.New(conf, func(u usecase.SaleUsecase) { uc = u })
	if err := fxApp.Err(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := fxApp.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = fxApp.Stop(ctx) }()

	if opts.all {
		results, err := uc.SweepAll(ctx, opts.location)
		if err != nil {
			return err
		}
		if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
			return err
		}
		if opts.publish {
			for _, r := range results {
				if err := uc.Publish(ctx, r.Sales); err != nil {
					return err
				}
			}
		}
		return nil
	}

	sales, err := uc.GetSaleProducts(ctx, opts.vendor, opts.location)
	if err != nil {
		return err
	}
	if err := writeJSON(cmd.OutOrStdout(), sales); err != nil {
		return err
	}
	if opts.publish {
		return uc.Publish(ctx, sales)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(serveCmd, newFetchCmd())
}

func Execute() {
	defer func() { _ = logger.Sync() }()
	_ = godotenv.Load() // load .env if present; the environment wins
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if fe, ok := models.AsFetchError(err); ok && fe.Body != "" {
			fmt.Fprintln(os.Stderr, "response:", fe.Body)
		}
		os.Exit(1)
	}
}
