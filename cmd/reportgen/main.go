// cmd/reportgen/main.go
//
// reportgen fetches one member from the society API and writes the field
// report to disk as PDF or XLSX. Useful for batch jobs and support requests
// without going through the dashboard service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"society-dashboard/internal/catalog"
	"society-dashboard/internal/common/config"
	"society-dashboard/internal/common/logger"
	"society-dashboard/internal/report"
	"society-dashboard/internal/societyapi"
)

func main() {
	var (
		memberID   = flag.String("member", "", "member id to report on (required)")
		format     = flag.String("format", "pdf", "output format: pdf or xlsx")
		category   = flag.String("category", "all", "field category to include")
		filterName = flag.String("filter", "all", "view filter: all, filled or missing")
		outPath    = flag.String("out", "", "output file (default member-<id>-report.<format>)")
		configPath = flag.String("config", "", "config file (default: standard search paths)")
	)
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	if *memberID == "" {
		fmt.Fprintln(os.Stderr, "usage: reportgen -member <id> [-format pdf|xlsx] [-category name] [-filter all|filled|missing]")
		os.Exit(2)
	}
	if *format != "pdf" && *format != "xlsx" {
		zapLog.Fatal("format must be pdf or xlsx", zap.String("format", *format))
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	client := societyapi.NewClient(
		cfg.SocietyAPI.BaseURL,
		cfg.SocietyAPI.APIKey,
		config.GetDuration(cfg.SocietyAPI.Timeout),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	member, err := client.GetMember(ctx, *memberID)
	if err != nil {
		zapLog.Fatal("member fetch failed", zap.String("memberId", *memberID), zap.Error(err))
	}

	entries := catalog.Project(member.Record, catalog.ParseCategory(*category), catalog.ParseFilter(*filterName))
	rows := report.BuildRows(member.Record, entries, report.ExportOptions())

	title := cfg.Export.PDFTitle
	if member.MembershipNumber != "" {
		title = fmt.Sprintf("%s - %s", title, member.MembershipNumber)
	}

	var data []byte
	switch *format {
	case "xlsx":
		data, err = report.WriteXLSX(title, rows)
	default:
		data, err = report.WritePDF(title, rows)
	}
	if err != nil {
		zapLog.Fatal("report rendering failed", zap.Error(err))
	}

	path := *outPath
	if path == "" {
		path = fmt.Sprintf("member-%s-report.%s", *memberID, *format)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		zapLog.Fatal("write failed", zap.String("path", path), zap.Error(err))
	}

	filled, total := report.Completion(rows)
	zapLog.Info("report written",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
		zap.Int("filled", filled),
		zap.Int("total", total),
	)
}
