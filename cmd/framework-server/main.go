// Command framework-server serves the fixed /json payload through gin and
// leaves unmatched routes to gin's default 404.
package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/basakil/webapi-bench/internal/framework"
	"github.com/basakil/webapi-bench/internal/routes"
	"github.com/basakil/webapi-bench/internal/server"
	"github.com/basakil/webapi-bench/pkg/models"
)

// defaultPort matches the ASP.NET Core default HTTP port.
const defaultPort = 5000

func main() {
	os.Exit(server.Launch("framework", server.Defaults{Port: defaultPort}, func(logger *slog.Logger) (http.Handler, error) {
		table, err := routes.FrameworkTable(models.FrameworkMessage)
		if err != nil {
			return nil, err
		}
		return framework.NewEngine(table, logger), nil
	}))
}
