package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/ysmood/gson"
	"go.uber.org/zap"

	"pagequery/internal/di"
	"pagequery/internal/infrastructure/browser/htmlclean"
	"pagequery/internal/infrastructure/env"
	"pagequery/pkg/query"
)

var errBadField = errors.New("field must be name=value")

type app struct {
	url       string
	envDir    string
	out       io.Writer
	container *di.Container

	newContainer func(ctx context.Context, cfg di.Config) (*di.Container, error)
}

func newApp(out io.Writer) *app {
	return &app{out: out, newContainer: di.NewContainer}
}

// execute runs the command line and always releases the browser and log
// file, including when a subcommand fails.
func (a *app) execute(ctx context.Context, args []string) error {
	root := a.rootCmd()
	if args != nil {
		root.SetArgs(args)
	}
	defer a.close()
	return root.ExecuteContext(ctx)
}

func (a *app) close() {
	if a.container != nil {
		a.container.Close()
		a.container = nil
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pagequery",
		Short:         "Query and fill DOM elements of a web page",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.url, "url", "u", "", "page to open before querying")
	root.PersistentFlags().StringVar(&a.envDir, "env-dir", "", "directory with .env files")
	_ = root.MarkPersistentFlagRequired("url")

	root.AddCommand(
		a.existsCmd(),
		a.attrCmd(),
		a.textCmd(),
		a.htmlCmd(),
		a.propCmd(),
		a.visibleCmd(),
		a.attrsCmd(),
		a.fillCmd(),
		a.shotCmd(),
	)
	return root
}

func (a *app) open(cmd *cobra.Command) error {
	e := env.NewEnvService(a.envDir)
	cfg := di.ConfigFromEnv(e)

	c, err := a.newContainer(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	a.container = c

	c.Logger.Debug("environment loaded", "app_env", e.AppEnv(), "files", e.Loaded())

	start := time.Now()
	if err := c.Browser.Navigate(cmd.Context(), a.url); err != nil {
		return err
	}
	c.Logger.Info("page opened", "url", a.url, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (a *app) page() *query.Page {
	return a.container.Page
}

func (a *app) existsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists SELECTOR",
		Short: "Report whether any element matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.page().Exists(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, ok)
			return nil
		},
	}
}

func (a *app) attrCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attr SELECTOR NAME",
		Short: "Print an attribute of the first match",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.page().Q(args[0]).Attr(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			printValue(a.out, v)
			return nil
		},
	}
}

func (a *app) textCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "text SELECTOR",
		Short: "Print the rendered text of the first match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.page().Q(args[0]).Text(cmd.Context())
			if err != nil {
				return err
			}
			printValue(a.out, v)
			return nil
		},
	}
}

func (a *app) htmlCmd() *cobra.Command {
	var clean bool
	cmd := &cobra.Command{
		Use:   "html SELECTOR",
		Short: "Print the inner HTML of the first match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.page().Q(args[0]).HTML(cmd.Context())
			if err != nil {
				return err
			}
			if s, ok := v.Str(); ok && clean {
				cleaned, err := htmlclean.Clean(s, nil)
				if err != nil {
					return err
				}
				v = query.Found(gson.New(cleaned))
			}
			printValue(a.out, v)
			return nil
		},
	}
	cmd.Flags().BoolVar(&clean, "clean", false, "strip scripts, styles, comments and noisy attributes")
	return cmd
}

func (a *app) propCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prop SELECTOR NAME",
		Short: "Print a DOM property of the first match",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.page().Q(args[0]).Prop(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			printValue(a.out, v)
			return nil
		},
	}
}

func (a *app) visibleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "visible SELECTOR",
		Short: "Report whether the first match is rendered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vis, err := a.page().Q(args[0]).IsVisible(cmd.Context())
			if err != nil {
				return err
			}
			if vis == query.NotApplicable {
				color.New(color.FgYellow).Fprintln(a.out, vis)
				return nil
			}
			fmt.Fprintln(a.out, vis)
			return nil
		},
	}
}

func (a *app) attrsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attrs SELECTOR NAME",
		Short: "Print an attribute of every match, one per line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := a.page().GetElementsAttribute(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			for _, v := range values {
				printValue(a.out, query.Found(v))
			}
			return nil
		},
	}
}

func (a *app) fillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fill SELECTOR name=value...",
		Short: "Set the value attribute of named fields inside SELECTOR",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFields(args[1:])
			if err != nil {
				return err
			}
			ok, err := a.page().FillOrdered(cmd.Context(), args[0], fields)
			if err != nil {
				return err
			}
			a.container.Logger.Info("form filled", "selector", args[0], "fields", len(fields))
			fmt.Fprintln(a.out, ok)
			return nil
		},
	}
}

func (a *app) shotCmd() *cobra.Command {
	var (
		out      string
		maxWidth int
	)
	cmd := &cobra.Command{
		Use:   "shot SELECTOR",
		Short: "Save a JPEG screenshot of the first match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.page().Q(args[0]).Resolve(cmd.Context())
			if err != nil {
				return err
			}
			if ref == nil {
				printValue(a.out, query.NotFound)
				return nil
			}

			shot, err := a.container.Browser.ScreenshotElement(cmd.Context(), ref, maxWidth)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, shot.Data, 0o644); err != nil {
				return fmt.Errorf("write screenshot: %w", err)
			}
			a.container.Logger.Zap().Info("screenshot saved",
				zap.String("file", out),
				zap.Int("width", shot.Width),
				zap.Int("height", shot.Height))
			fmt.Fprintln(a.out, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "element.jpg", "output file")
	cmd.Flags().IntVar(&maxWidth, "max-width", 1024, "downscale wider screenshots to this width")
	return cmd
}

func parseFields(args []string) ([]query.Field, error) {
	fields := make([]query.Field, 0, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", errBadField, arg)
		}
		fields = append(fields, query.Field{Name: name, Value: value})
	}
	return fields, nil
}

// printValue печатает значение; отсутствие элемента выделяется жёлтым.
func printValue(w io.Writer, v query.Value) {
	switch {
	case !v.Found():
		color.New(color.FgYellow).Fprintln(w, v)
	case v.Null():
		color.New(color.Faint).Fprintln(w, v)
	default:
		fmt.Fprintln(w, v)
	}
}
