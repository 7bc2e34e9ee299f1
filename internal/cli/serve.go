package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/reviewlens/internal/pipeline"
	"github.com/ppiankov/reviewlens/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive company dashboard",
	Long: `Serve loads the artifacts once and serves the dashboard over HTTP.

Pick a company from the dropdown to see its ID, cluster assignments,
sentiment distribution, word cloud and cluster terms. The same data is
available as JSON under /api.

Example:
  reviewlens serve
  reviewlens serve --addr :9000 --sqlite reviews.db
  REVIEWLENS_SERVER_ADDR=127.0.0.1:8501 reviewlens serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :8501)")
	serveCmd.Flags().Float64("rps", 0, "per-client requests per second; 0 disables limiting (default from config)")
	serveCmd.Flags().Bool("no-cache", false, "disable the word cloud cache")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.requests_per_second", serveCmd.Flags().Lookup("rps"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	data, err := loadDataset(ctx, cfg)
	if err != nil {
		return err
	}

	srv := server.NewServer(server.Config{
		Pipeline:          pipeline.NewPipeline(cfg, data),
		Logger:            newLogger(cfg),
		Addr:              cfg.Server.Addr,
		RequestsPerSecond: cfg.Server.RequestsPerSecond,
		Burst:             cfg.Server.Burst,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		MaxConnections:    cfg.Server.MaxConnections,
	})

	fmt.Fprintf(os.Stderr, "✓ Dashboard: http://%s\n", displayAddr(cfg.Server.Addr))

	return srv.Serve(ctx)
}

// displayAddr turns a bare ":port" listen address into something clickable
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
