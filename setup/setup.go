// Package setup bootstraps a host: default plan catalog and a systemd
// unit for the bot. Every step is skip-if-present so reruns are safe.
package setup

import (
	"fmt"
	"os"
	"path/filepath"

	"vpsbot/plans"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const unitTemplate = `[Unit]
Description=vpsbot - LXC VPS Discord bot
After=network-online.target lxd.service
Wants=network-online.target

[Service]
Type=simple
WorkingDirectory=%s
ExecStart=%s bot
Restart=always
RestartSec=5

[Install]
WantedBy=multi-user.target
`

type Options struct {
	// Directory holding plans.json/config.yaml, also the unit's
	// WorkingDirectory
	Dir string

	// Where to write the systemd unit
	UnitPath string

	// Binary the unit should exec
	ExecPath string
}

type Report struct {
	PlansPath    string
	PlansCreated bool
	UnitCreated  bool
}

// Run materializes the missing artifacts. Existing files are never
// touched; the first unrecoverable error aborts.
func Run(opts Options, logger *zap.Logger) (*Report, error) {
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating %s: %w", opts.Dir, err)
	}

	report := &Report{
		PlansPath: filepath.Join(opts.Dir, "plans.json"),
	}

	created, err := writePlansIfMissing(report.PlansPath)

	if err != nil {
		return nil, err
	}

	report.PlansCreated = created

	if created {
		logger.Info("Wrote default plan catalog", zap.String("path", report.PlansPath))
	} else {
		logger.Info("Plan catalog already exists, leaving it untouched", zap.String("path", report.PlansPath))
	}

	created, err = writeUnitIfMissing(opts)

	if err != nil {
		return nil, err
	}

	report.UnitCreated = created

	if created {
		logger.Info("Wrote systemd unit", zap.String("path", opts.UnitPath))
	} else {
		logger.Info("Systemd unit already exists, leaving it untouched", zap.String("path", opts.UnitPath))
	}

	return report, nil
}

func writePlansIfMissing(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("error checking %s: %w", path, err)
	}

	bytes, err := json.MarshalIndent(plans.Default(), "", "  ")

	if err != nil {
		return false, fmt.Errorf("error marshalling default plan catalog: %w", err)
	}

	if err := os.WriteFile(path, bytes, 0644); err != nil {
		return false, fmt.Errorf("error writing %s: %w", path, err)
	}

	return true, nil
}

func writeUnitIfMissing(opts Options) (bool, error) {
	if _, err := os.Stat(opts.UnitPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("error checking %s: %w", opts.UnitPath, err)
	}

	unit := fmt.Sprintf(unitTemplate, opts.Dir, opts.ExecPath)

	if err := os.WriteFile(opts.UnitPath, []byte(unit), 0644); err != nil {
		return false, fmt.Errorf("error writing %s: %w", opts.UnitPath, err)
	}

	return true, nil
}
