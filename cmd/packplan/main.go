package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eugenenazirov/shipment-planner/internal/application"
	"github.com/eugenenazirov/shipment-planner/internal/catalog"
	"github.com/eugenenazirov/shipment-planner/internal/export"
	"github.com/eugenenazirov/shipment-planner/internal/logging"
	"github.com/eugenenazirov/shipment-planner/internal/model"
	"github.com/eugenenazirov/shipment-planner/internal/packing"
	"github.com/eugenenazirov/shipment-planner/internal/shipment"
)

// errIncomplete is returned in strict mode when anything was left unassigned.
var errIncomplete = errors.New("shipment incomplete")

var validate = validator.New(validator.WithRequiredStructEnabled())

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "packplan: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	app := kingpin.New("packplan", "Plans the packing of one artwork order and prints the report as JSON")
	input := app.Arg("request", "JSON request file, - reads stdin").Default("-").String()
	strategy := app.Flag("strategy", fmt.Sprintf("Packing strategy (%s), overrides the request", strings.Join(packing.Strategies(), ", "))).Short('s').String()
	catalogFile := app.Flag("catalog", "Path to YAML catalog applied over the built-in catalog").String()
	xlsxPath := app.Flag("xlsx", "Also write the freight workbook to this path").String()
	logLevel := app.Flag("log-level", "Log level for run logs written to stderr").Default("warn").String()
	compact := app.Flag("compact", "Print the report on a single line").Bool()
	strict := app.Flag("strict", "Exit non-zero when any item or box is left unassigned").Bool()

	if _, err := app.Parse(args); err != nil {
		return err
	}

	req, err := readRequest(*input, stdin)
	if err != nil {
		return err
	}
	if *strategy != "" {
		req.Strategy = *strategy
	}

	logger, err := logging.New(*logLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	cat, err := application.LoadCatalog(*catalogFile)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	planner := shipment.New(catalog.NewMemoryStore(cat), shipment.WithLogger(logger))
	report, err := planner.PackageEverything(ctx, req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	if !*compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if *xlsxPath != "" {
		if err := writeWorkbook(*xlsxPath, report); err != nil {
			return err
		}
		logger.Info("freight workbook written", zap.String("path", *xlsxPath))
	}

	if *strict && (len(report.UnassignedItems) > 0 || len(report.UnassignedBoxes) > 0) {
		return fmt.Errorf("%w: %d items and %d boxes unassigned",
			errIncomplete, len(report.UnassignedItems), len(report.UnassignedBoxes))
	}
	return nil
}

type request struct {
	Items    []model.Item                `json:"items" validate:"required,min=1,dive"`
	Strategy string                      `json:"strategy,omitempty"`
	Delivery *model.DeliveryCapabilities `json:"delivery,omitempty"`
}

func readRequest(path string, stdin io.Reader) (shipment.Request, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return shipment.Request{}, fmt.Errorf("open request: %w", err)
		}
		defer f.Close()
		r = f
	}

	var raw request
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return shipment.Request{}, fmt.Errorf("parse request: %w", err)
	}
	if err := validate.Struct(raw); err != nil {
		return shipment.Request{}, fmt.Errorf("invalid request: %w", err)
	}

	req := shipment.Request{
		Items:    make([]model.Item, len(raw.Items)),
		Strategy: raw.Strategy,
		Delivery: model.DefaultDelivery(),
	}
	for i, it := range raw.Items {
		it.Material = model.ParseMaterial(string(it.Material))
		req.Items[i] = it
	}
	if raw.Delivery != nil {
		req.Delivery = *raw.Delivery
	}
	return req, nil
}

func writeWorkbook(path string, report shipment.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if err := export.WriteFreightXLSX(f, report); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
