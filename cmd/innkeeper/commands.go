package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/innkeeper/internal/database"
	"github.com/jask/innkeeper/internal/database/repository"
	"github.com/jask/innkeeper/internal/seed"
	"github.com/jask/innkeeper/internal/service"
	"github.com/jask/innkeeper/internal/tabular"
)

var (
	exportFormat string
	exportPreset string
	seedReset    bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		color.Green("database ready: %s", cfg.Database.Path)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo hotel portfolio and the admin user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if seedReset {
			m := &service.MaintenanceService{DB: st.db, Logger: logger}
			if err := m.Reset(ctx); err != nil {
				return err
			}
			color.Yellow("existing properties removed")
		}
		if err := seed.Seed(ctx, st.seedRepos()); err != nil {
			return err
		}
		if err := database.SeedDefaults(ctx, st.db, cfg.Session.AdminUser, cfg.Session.AdminPassword); err != nil {
			return err
		}
		props, err := st.properties.List(ctx)
		if err != nil {
			return err
		}
		color.Green("seeded %d properties", len(props))
		return nil
	},
}

var propertiesCmd = &cobra.Command{
	Use:     "properties",
	Aliases: []string{"ls"},
	Short:   "List properties with their latest figures",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := (&service.ComparisonService{Properties: st.properties, Metrics: st.metrics, Logger: logger}).Rows(ctx)
		if err != nil {
			return err
		}
		props, err := st.properties.List(ctx)
		if err != nil {
			return err
		}
		added := make(map[string]string, len(props))
		loc := location()
		for _, p := range props {
			added[p.ID] = p.CreatedAt.In(loc).Format(cfg.UI.DateFormat)
		}
		return printProperties(cmd.OutOrStdout(), rows, added)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the comparison report to export.dir",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		format, err := tabular.ParseExportFormat(exportFormat)
		if err != nil {
			return err
		}
		preset, err := presetByName(exportPreset)
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := (&service.ComparisonService{Properties: st.properties, Metrics: st.metrics, Logger: logger}).Rows(ctx)
		if err != nil {
			return err
		}
		path, err := exporter().Export(ctx, format, preset.Apply(rows))
		if err != nil {
			return err
		}
		logger.Info("report exported", zap.String("path", path))
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

// presetByName matches a preset label case-insensitively; empty selects all.
func presetByName(name string) (service.Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return service.AllProperties, nil
	}
	labels := make([]string, 0, len(service.Presets))
	for _, p := range service.Presets {
		if strings.EqualFold(p.Label, name) {
			return p, nil
		}
		labels = append(labels, fmt.Sprintf("%q", p.Label))
	}
	return service.Preset{}, fmt.Errorf("unknown preset %q (want one of %s)", name, strings.Join(labels, ", "))
}

var statusColors = map[repository.PropertyStatus]*color.Color{
	repository.StatusOnline:  color.New(color.FgGreen),
	repository.StatusOffline: color.New(color.FgRed),
	repository.StatusSyncing: color.New(color.FgYellow),
}

func printProperties(w io.Writer, rows []service.ComparisonRow, added map[string]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROPERTY\tLOCATION\tSTATUS\tOCCUPANCY\tREVENUE\tPROFIT\tADDED")
	for _, r := range rows {
		status := string(r.Status)
		if c, ok := statusColors[r.Status]; ok {
			status = c.Sprint(status)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Name, r.Location, status,
			service.FormatPercent(r.OccupancyRate),
			service.FormatMoney(r.Revenue, cfg.UI.CurrencySymbol),
			service.FormatMoney(r.Profit, cfg.UI.CurrencySymbol),
			added[r.ID])
	}
	return tw.Flush()
}
