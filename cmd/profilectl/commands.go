package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldprofile/fieldprofile-go"
	"github.com/fieldprofile/fieldprofile-go/engine/playground"
	"github.com/fieldprofile/fieldprofile-go/profilediff"
	"github.com/fieldprofile/fieldprofile-go/profileio"
)

var (
	errInvalidRecord = errors.New("record failed validation")
	errLintFailed    = errors.New("profile library has problems")
)

// trimFlags are the ad-hoc derivation flags shared by show and check.
type trimFlags struct {
	only         []string
	remove       []string
	makeRequired []string
	makeOptional []string
}

func (f *trimFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.only, "only", nil, "keep only these fields")
	cmd.Flags().StringSliceVar(&f.remove, "remove", nil, "drop these fields")
	cmd.Flags().StringSliceVar(&f.makeRequired, "make-required", nil, "move these fields to required")
	cmd.Flags().StringSliceVar(&f.makeOptional, "make-optional", nil, "move these fields to optional")
}

func (f *trimFlags) apply(m *fieldprofile.Manipulator) {
	if len(f.only) > 0 {
		m.Only(f.only...)
	}
	m.Remove(f.remove...).MakeRequired(f.makeRequired...).MakeOptional(f.makeOptional...)
}

func loadLibrary(path string) (*profileio.Library, error) {
	if path == "" {
		return nil, errors.New("--file is required")
	}
	lib, err := profileio.Load(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded profile library", "path", path, "version", lib.Version, "profiles", len(lib.Names()))
	return lib, nil
}

func derive(path, name string, trims *trimFlags) (*fieldprofile.Manipulator, error) {
	if name == "" {
		return nil, errors.New("--profile is required")
	}
	lib, err := loadLibrary(path)
	if err != nil {
		return nil, err
	}
	m, err := lib.Manipulator(name)
	if err != nil {
		return nil, err
	}
	trims.apply(m)
	slog.Debug("derived profile", "profile", name, "required", m.Required(), "optional", m.Optional())
	return m, nil
}

// --- show ---

func newShowCmd() *cobra.Command {
	var file, profile string
	var trims trimFlags
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a profile as canonical JSON",
		Long: `Print a profile as canonical JSON, optionally derived on the fly.

Examples:
  profilectl show --file profiles.yaml --profile account
  profilectl show --file profiles.yaml --profile account --only email,password --make-optional password`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := derive(file, profile, &trims)
			if err != nil {
				return err
			}
			out, err := m.Snapshot().Canonical()
			if err != nil {
				return fmt.Errorf("encoding profile: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", out)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "profile library (YAML or JSON)")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "profile or view name")
	trims.register(cmd)
	return cmd
}

// --- check ---

func newCheckCmd() *cobra.Command {
	var file, profile, dataPath string
	var trims trimFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a JSON record against a profile",
		Long: `Validate a JSON record against a profile and print the results.

Exits non-zero when a field is missing or invalid.

Examples:
  profilectl check --file profiles.yaml --profile login --data record.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dataPath == "" {
				return errors.New("--data is required")
			}
			m, err := derive(file, profile, &trims)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(dataPath)
			if err != nil {
				return fmt.Errorf("reading record: %w", err)
			}
			var record map[string]any
			if err := json.Unmarshal(raw, &record); err != nil {
				return fmt.Errorf("decoding record: %w", err)
			}

			m.Engine = playground.New(nil)
			out, err := m.Check(record)
			if err != nil {
				return err
			}
			res, ok := out.(*playground.Results)
			if !ok {
				return fmt.Errorf("unexpected engine result %T", out)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("encoding results: %w", err)
			}
			if !res.Success() {
				slog.Debug("record rejected", "missing", res.Missing, "invalid", len(res.Invalid))
				return errInvalidRecord
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "profile library (YAML or JSON)")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "profile or view name")
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "JSON object to validate")
	trims.register(cmd)
	return cmd
}

// --- lint ---

func newLintCmd() *cobra.Command {
	var file string
	var strict bool
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check every profile in a library for shape problems",
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib, err := loadLibrary(file)
			if err != nil {
				return err
			}
			var opts []fieldprofile.ValidateOption
			if strict {
				opts = append(opts, fieldprofile.WithRejectUnknownAttributes(), fieldprofile.WithRequireDeclaredFields())
			}
			failed := 0
			for _, name := range lib.Names() {
				p, _ := lib.Profile(name)
				if err := p.Validate(opts...); err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", name, err)
					continue
				}
				slog.Debug("profile ok", "profile", name, "view", lib.IsView(name))
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d profiles", errLintFailed, failed, len(lib.Names()))
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d profiles ok\n", len(lib.Names()))
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "profile library (YAML or JSON)")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject unknown attributes and entries for undeclared fields")
	return cmd
}

// --- diff ---

func newDiffCmd() *cobra.Command {
	var file, base, derived string
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare a derived profile with its base",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if base == "" || derived == "" {
				return errors.New("--base and --derived are required")
			}
			lib, err := loadLibrary(file)
			if err != nil {
				return err
			}
			bp, ok := lib.Profile(base)
			if !ok {
				return &profileio.NotFoundError{Name: base}
			}
			dp, ok := lib.Profile(derived)
			if !ok {
				return &profileio.NotFoundError{Name: derived}
			}
			r := profilediff.Compare(bp, dp)
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), r); err != nil {
				return err
			}
			if r.IsProjection() {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is a projection of %s\n", derived, base)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "profile library (YAML or JSON)")
	cmd.Flags().StringVar(&base, "base", "", "base profile name")
	cmd.Flags().StringVar(&derived, "derived", "", "derived profile or view name")
	return cmd
}
