// Command router-server is the GET-only router target: /json through gin on
// 0.0.0.0:8080, everything else gets the framework's 404.
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

func main() {
	os.Exit(server.Launch("router", server.Defaults{Host: "0.0.0.0", Port: 8080}, func(logger *slog.Logger) (http.Handler, error) {
		table, err := routes.FrameworkTable(models.RouterMessage)
		if err != nil {
			return nil, err
		}
		return framework.NewEngine(table, logger), nil
	}))
}
