// Command prepare turns a raw measurement workbook into the cleaned CSV
// exports and the serving-side artifacts: per-technology training subsets,
// feature-schema documents and the location registry.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"radiosignals/internal/config"
	"radiosignals/internal/dataset"
	"radiosignals/internal/infrastructure"
	"radiosignals/internal/registry"
	"radiosignals/internal/schema"
	"radiosignals/internal/validation"
	"radiosignals/pkg/contracts/domain"
)

func main() {
	dataPath := flag.String("data", "", "input .xlsx workbook with raw measurements (required)")
	outDir := flag.String("out", "artifacts", "output directory for CSV exports and artifacts")
	flag.Parse()

	logger, err := infrastructure.InitializeLogger(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "console",
	})
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *dataPath == "" {
		logger.Error("Missing required -data flag")
		flag.Usage()
		os.Exit(2)
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateWorkbook(*dataPath); err != nil {
		logger.Error("Input workbook rejected", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := validator.ValidateOutputDirectory(*outDir); err != nil {
		logger.Error("Output directory rejected", slog.String("error", err.Error()))
		os.Exit(1)
	}

	records, err := dataset.LoadAndClean(*dataPath, logger)
	if err != nil {
		logger.Error("Failed to load measurements",
			slog.String("path", *dataPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	cleanedPath := filepath.Join(*outDir, "cleaned_measurements.csv")
	if err := dataset.SaveCSV(cleanedPath, records); err != nil {
		logger.Error("Failed to write cleaned CSV",
			slog.String("path", cleanedPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Cleaned measurements written",
		slog.String("path", cleanedPath),
		slog.Int("rows", len(records)))

	for _, tech := range []domain.Technology{domain.TechDigital, domain.TechFM} {
		subset := dataset.PrepareSubset(records, tech, logger)

		subsetPath := filepath.Join(*outDir, "subset_"+string(tech)+".csv")
		if err := dataset.SaveCSV(subsetPath, subset); err != nil {
			logger.Error("Failed to write subset CSV",
				slog.String("path", subsetPath),
				slog.String("error", err.Error()))
			os.Exit(1)
		}

		doc := &schema.Document{
			Tech:     tech,
			Rows:     len(subset),
			Groups:   dataset.GroupCount(subset),
			Features: schema.DefaultFeatures(tech),
		}
		metricsPath := filepath.Join(*outDir, "metrics_"+string(tech)+".json")
		if err := doc.Save(metricsPath); err != nil {
			logger.Error("Failed to write metrics document",
				slog.String("path", metricsPath),
				slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("Training subset prepared",
			slog.String("technology", string(tech)),
			slog.Int("rows", doc.Rows),
			slog.Int("groups", doc.Groups),
			slog.String("subset", subsetPath),
			slog.String("metrics", metricsPath))
	}

	reg := registry.Build(records)
	registryPath := filepath.Join(*outDir, "location_registry.json")
	if err := reg.Save(registryPath); err != nil {
		logger.Error("Failed to write location registry",
			slog.String("path", registryPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Location registry written",
		slog.String("path", registryPath),
		slog.Int("entries", len(reg)))
}
