package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prestafacil/avaluador/internal/app"
	"github.com/prestafacil/avaluador/internal/device"
)

// Quick manual check: appraise one device with the default tables.
// Real entrypoint lives in cmd/avaluador.
func main() {
	ctx := context.Background()

	cfg := app.DefaultConfig()
	cfg.StorageRoot = ".avaluador-demo"

	application, err := app.NewApplication(ctx, cfg, nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer application.Close()

	res, err := application.Appraise(ctx, device.RawSpecification{
		FormFactor:           "portatil",
		Brand:                "Dell",
		ProcessorModel:       "Intel Core i5 1135G7",
		RAMGB:                16,
		DiskCapacityGB:       512,
		DiskType:             "ssd",
		HasDedicatedGraphics: false,
		Condition:            "buena",
		AgeYears:             2,
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Printf("got: %s\n", out)
}
