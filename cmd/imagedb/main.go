// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Command imagedb adds, reads and removes images in an imagedb data
// directory.
//
//	imagedb [-config file] [-user name] [-metrics] add <file> [id]
//	imagedb [-config file] get <id> [out]
//	imagedb [-config file] rm <id>
//	imagedb [-config file] has <id>
//	imagedb [-config file] summary
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/luxfi/ids"
	"github.com/luxfi/metric"
	dto "github.com/prometheus/client_model/go"

	"github.com/luxfi/table/config"
	"github.com/luxfi/table/imagedb"
)

var errUsage = errors.New("usage: imagedb [-config file] [-user name] [-metrics] <add|get|rm|has|summary> [args]")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("imagedb", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML config file")
	user := fs.String("user", config.DefaultUser, "owner of added images")
	showMetrics := fs.Bool("metrics", false, "print table metrics after the command")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	reg := metric.NewRegistry()
	db, err := imagedb.New(cfg, reg, log)
	if err != nil {
		return err
	}

	cmdErr := dispatch(db, imagedb.Username(*user), fs.Args(), stdout)
	if err := db.Logoff(imagedb.Username(*user)); err != nil {
		return errors.Join(cmdErr, err)
	}
	if cmdErr != nil {
		return cmdErr
	}

	if *showMetrics {
		return printMetrics(reg, stdout)
	}
	return nil
}

func dispatch(db *imagedb.DB, user imagedb.Username, args []string, stdout io.Writer) error {
	cmd, args := args[0], args[1:]
	switch cmd {
	case "add":
		if len(args) < 1 || len(args) > 2 {
			return errUsage
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading image: %w", err)
		}
		id := imagedb.NewImageID(data)
		if len(args) == 2 {
			if id, err = ids.FromString(args[1]); err != nil {
				return fmt.Errorf("parsing id: %w", err)
			}
		}
		if err := db.AddImage(user, id, data); err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, id)
		return err

	case "get":
		if len(args) < 1 || len(args) > 2 {
			return errUsage
		}
		id, err := ids.FromString(args[0])
		if err != nil {
			return fmt.Errorf("parsing id: %w", err)
		}
		img, err := db.Image(id)
		if err != nil {
			return err
		}
		if len(args) == 2 {
			return os.WriteFile(args[1], img.Data, 0o600)
		}
		_, err = stdout.Write(img.Data)
		return err

	case "rm":
		if len(args) != 1 {
			return errUsage
		}
		id, err := ids.FromString(args[0])
		if err != nil {
			return fmt.Errorf("parsing id: %w", err)
		}
		return db.RemoveImage(id)

	case "has":
		if len(args) != 1 {
			return errUsage
		}
		id, err := ids.FromString(args[0])
		if err != nil {
			return fmt.Errorf("parsing id: %w", err)
		}
		_, err = fmt.Fprintln(stdout, db.HasImage(id))
		return err

	case "summary":
		s := db.Summary()
		_, err := fmt.Fprintf(stdout, "users=%d cached_images=%d pending_changes=%d\n",
			s.Users, s.CachedImages, s.PendingChanges)
		return err

	default:
		return errUsage
	}
}

func printMetrics(reg metric.Registry, w io.Writer) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if _, err := fmt.Fprintf(w, "%s%s %g\n", mf.GetName(), labels(m), value(m)); err != nil {
				return err
			}
		}
	}
	return nil
}

func labels(m *dto.Metric) string {
	pairs := m.GetLabel()
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", p.GetName(), p.GetValue()))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}

func value(m *dto.Metric) float64 {
	switch {
	case m.GetCounter() != nil:
		return m.GetCounter().GetValue()
	case m.GetGauge() != nil:
		return m.GetGauge().GetValue()
	default:
		return 0
	}
}
