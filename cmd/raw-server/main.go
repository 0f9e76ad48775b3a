// Command raw-server serves the fixed /json payload straight from net/http,
// answering every other request target with a plain "Not found".
package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/basakil/webapi-bench/internal/routes"
	"github.com/basakil/webapi-bench/internal/server"
	"github.com/basakil/webapi-bench/pkg/models"
)

func main() {
	os.Exit(server.Launch("raw", server.Defaults{Host: "0.0.0.0", Port: 8080}, func(logger *slog.Logger) (http.Handler, error) {
		table, err := routes.RawTable(models.RawMessage)
		if err != nil {
			return nil, err
		}
		return server.RequestLogger(logger, table), nil
	}))
}
