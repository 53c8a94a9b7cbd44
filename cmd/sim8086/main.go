package main

import (
	"log/slog"
	"net/http"
	"os"

	_ "net/http/pprof" // profiling

	"sim8086/internal/sim8086/cmd"
	"sim8086/internal/sim8086/log"
)

func main() {
	defer log.RecoverPanic("main", func() {
		slog.Error("sim8086 terminated due to unhandled panic")
	})

	if os.Getenv("SIM8086_PROFILE") != "" {
		go func() {
			slog.Info("Serving pprof at localhost:6060")
			if httpErr := http.ListenAndServe("localhost:6060", nil); httpErr != nil {
				slog.Error("Failed to pprof listen", "error", httpErr)
			}
		}()
	}

	cmd.Execute()
}
