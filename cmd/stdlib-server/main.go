// Command stdlib-server serves the fixed /json payload from an http.ServeMux,
// streaming it through json.Encoder so the body ends in a newline.
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
	os.Exit(server.Launch("stdlib", server.Defaults{Port: 8080}, func(logger *slog.Logger) (http.Handler, error) {
		mux, err := routes.StdlibMux(models.StdlibMessage)
		if err != nil {
			return nil, err
		}
		return server.RequestLogger(logger, mux), nil
	}))
}
