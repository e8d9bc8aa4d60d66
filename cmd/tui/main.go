package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/Tomlord1122/todo-list/internal/client"
	"github.com/Tomlord1122/todo-list/internal/tui"
)

func main() {
	defaultURL := os.Getenv("TODO_API_URL")
	if defaultURL == "" {
		defaultURL = client.DefaultBaseURL
	}
	apiURL := flag.String("api", defaultURL, "base URL of the todo collection")
	timeout := flag.Duration("timeout", 0, "per-request timeout, 0 for none")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	api := client.New(*apiURL, client.WithHTTPClient(&http.Client{Timeout: *timeout}))
	if err := tui.Run(ctx, api); err != nil {
		fmt.Fprintln(os.Stderr, "todo:", err)
		os.Exit(1)
	}
}
