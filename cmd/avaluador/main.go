// Command avaluador runs the appraisal service.
//
// Usage:
//
//	avaluador serve [-addr :8080]
//	avaluador avaluar -spec equipo.json [-imagen foto.jpg]... [-notas "..."]
//	avaluador modelo importar [-activar=false] <archivo>
//	avaluador modelo listar
//	avaluador modelo activar <version>
//
// Configuration comes from the environment (see app.FromEnv); a .env file in
// the working directory is loaded first when present.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/prestafacil/avaluador/docs"
	"github.com/prestafacil/avaluador/internal/app"
	"github.com/prestafacil/avaluador/internal/cli"
	"github.com/prestafacil/avaluador/internal/device"
	"github.com/prestafacil/avaluador/internal/interfaces"
	"github.com/prestafacil/avaluador/internal/logging"
	"github.com/prestafacil/avaluador/internal/server"
	"github.com/prestafacil/avaluador/internal/vision"
)

func main() {
	// A missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cmd, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "avaluador: %v\n\n%s", err, cli.Usage)
		os.Exit(2)
	}

	cfg, err := app.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "avaluador: reading environment: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging)

	var run func(*cli.Command, *app.Config, interfaces.Logger) error
	switch cmd.Name {
	case cli.CmdServe:
		run = runServe
	case cli.CmdAppraise:
		run = runAppraise
	case cli.CmdModel:
		run = runModel
	}

	if err := run(cmd, cfg, logger); err != nil {
		logger.Error("command failed", interfaces.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
}

func runServe(cmd *cli.Command, cfg *app.Config, logger interfaces.Logger) error {
	if cmd.Addr != "" {
		cfg.ListenAddr = cmd.Addr
	}

	s, err := server.NewServer(server.Config{AppConfig: cfg, Logger: logger})
	if err != nil {
		return err
	}
	defer s.Close()

	httpServer := s.HTTPServer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", interfaces.Field{Key: "addr", Value: httpServer.Addr})
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func runAppraise(cmd *cli.Command, cfg *app.Config, logger interfaces.Logger) error {
	ctx := context.Background()

	application, err := app.NewApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	raw, err := readSpec(cmd.SpecPath)
	if err != nil {
		return err
	}
	images, err := readImageFiles(cmd.Images)
	if err != nil {
		return err
	}

	res, err := application.Orch.AppraiseDevice(ctx, raw, images, cmd.Notes)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runModel(cmd *cli.Command, cfg *app.Config, logger interfaces.Logger) error {
	ctx := context.Background()

	// Model commands manage artifacts explicitly; skip the boot import.
	cfg.ArtifactPath = ""
	application, err := app.NewApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	reg := application.Registry
	switch cmd.ModelAction {
	case cli.ModelImport:
		entry, err := reg.ImportFile(ctx, cmd.ArtifactPath, cmd.Activate)
		if err != nil {
			return err
		}
		fmt.Printf("importado %s (%s, r2 %.2f)\n", entry.Version, entry.Algorithm, entry.R2)
	case cli.ModelList:
		entries, err := reg.List(ctx)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("sin modelos registrados")
			return nil
		}
		for _, e := range entries {
			marker := " "
			if e.Active {
				marker = "*"
			}
			fmt.Printf("%s %s  %s  r2 %.2f\n", marker, e.Version, e.Algorithm, e.R2)
		}
	case cli.ModelActivate:
		if err := reg.Activate(ctx, cmd.Version); err != nil {
			return err
		}
		fmt.Printf("activado %s\n", cmd.Version)
	}
	return nil
}

// readSpec decodes the device specification from a JSON file, or stdin when
// path is "-". Fields stay untyped so normalization reports bad values with
// the same messages the HTTP API uses.
func readSpec(path string) (device.RawSpecification, error) {
	var raw device.RawSpecification

	f := os.Stdin
	if path != "-" {
		var err error
		if f, err = os.Open(path); err != nil {
			return raw, err
		}
		defer f.Close()
	}

	var fields map[string]any
	dec := json.NewDecoder(f)
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return raw, fmt.Errorf("parsing %s: %w", path, err)
	}

	return device.RawSpecification{
		FormFactor:           fields[device.FieldFormFactor],
		Brand:                fields[device.FieldBrand],
		ProcessorModel:       fields[device.FieldProcessor],
		ProcessorGeneration:  fields[device.FieldGeneration],
		RAMGB:                fields[device.FieldRAM],
		DiskCapacityGB:       fields[device.FieldDisk],
		DiskType:             fields[device.FieldDiskType],
		HasDedicatedGraphics: fields[device.FieldGraphics],
		Condition:            fields[device.FieldCondition],
		AgeYears:             fields[device.FieldAge],
	}, nil
}

func readImageFiles(paths []string) ([]vision.Image, error) {
	images := make([]vision.Image, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		images = append(images, vision.Image{MIMEType: http.DetectContentType(data), Data: data})
	}
	return images, nil
}
